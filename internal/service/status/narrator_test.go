package status_test

import (
	"strings"
	"testing"
	"time"

	"github.com/civicnav/navigator/internal/model/incident"
	"github.com/civicnav/navigator/internal/service/status"
)

func TestNarrateWithHistory(t *testing.T) {
	st := incident.Status{
		IncidentID: "INC-42",
		Current:    "in_progress",
		History: []incident.HistoryEntry{
			{Status: "new", Timestamp: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)},
			{Status: "in_progress", Timestamp: time.Date(2025, 3, 2, 14, 30, 0, 0, time.UTC), Note: "crew dispatched"},
		},
	}

	text := status.Narrate(st)

	if !strings.Contains(text, "INC-42") || !strings.Contains(text, "in_progress") {
		t.Fatalf("missing id or status: %q", text)
	}
	if !strings.Contains(text, "History:") {
		t.Fatalf("missing history header: %q", text)
	}
	if !strings.Contains(text, "crew dispatched") {
		t.Fatalf("missing note: %q", text)
	}

	// History lines keep source order.
	if strings.Index(text, "- new") > strings.Index(text, "crew dispatched") {
		t.Fatalf("history out of order: %q", text)
	}
}

func TestNarrateWithoutHistory(t *testing.T) {
	text := status.Narrate(incident.Status{IncidentID: "INC-7", Current: "resolved"})

	if !strings.Contains(text, "INC-7") {
		t.Fatalf("missing id: %q", text)
	}
	if strings.Contains(text, "History:") {
		t.Fatalf("unexpected history section: %q", text)
	}
}

func TestNarrateOmitsEmptyNote(t *testing.T) {
	st := incident.Status{
		IncidentID: "INC-1",
		Current:    "new",
		History: []incident.HistoryEntry{
			{Status: "new", Timestamp: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)},
		},
	}

	text := status.Narrate(st)
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "- new") && strings.Contains(line, ": ") {
			t.Fatalf("empty note rendered: %q", line)
		}
	}
}
