package status

import (
	"fmt"
	"strings"
	"time"

	"github.com/civicnav/navigator/internal/model/incident"
)

// Narrate renders an incident status lookup as a single transcript message:
// the current status first, then the history lines in source order.
func Narrate(st incident.Status) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Incident %s is currently %q.", st.IncidentID, st.Current)

	if len(st.History) == 0 {
		return b.String()
	}

	b.WriteString("\n\nHistory:")
	for _, h := range st.History {
		fmt.Fprintf(&b, "\n- %s (%s)", h.Status, h.Timestamp.Format(time.RFC1123))
		if h.Note != "" {
			fmt.Fprintf(&b, ": %s", h.Note)
		}
	}
	return b.String()
}
