package client

import (
	"context"

	"github.com/civicnav/navigator/internal/model/incident"
)

// Intent is the classified intent attached to a chat reply. It is a closed
// tag so dispatch handling stays exhaustive; unknown backend strings degrade
// to IntentNone.
type Intent string

const (
	IntentNone           Intent = ""
	IntentIncidentReport Intent = "incident_report"
	IntentStatusCheck    Intent = "status_check"
	IntentGeneral        Intent = "general_query"
)

// ParseIntent maps the backend's intent string to a typed tag.
func ParseIntent(raw string) Intent {
	switch raw {
	case string(IntentIncidentReport):
		return IntentIncidentReport
	case string(IntentStatusCheck):
		return IntentStatusCheck
	case string(IntentGeneral):
		return IntentGeneral
	default:
		return IntentNone
	}
}

// Citation is a knowledge-base source reference accompanying a reply.
type Citation struct {
	Title      string `json:"title"`
	Snippet    string `json:"snippet"`
	SourceLink string `json:"source_link,omitempty"`
}

// Reply is the dispatch response for a free-form utterance.
type Reply struct {
	Text       string
	Citations  []Citation
	Confidence float64
	Intent     Intent
	IncidentID string
}

// Dispatcher forwards free-form utterances to the assistant backend.
type Dispatcher interface {
	SendMessage(ctx context.Context, utterance, role, sessionID string) (Reply, error)
}

// IncidentService files incidents and looks up their status.
type IncidentService interface {
	Create(ctx context.Context, draft incident.Draft) (incident.Created, error)
	Status(ctx context.Context, incidentID string) (incident.Status, error)
}
