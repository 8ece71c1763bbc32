package chat

import "time"

// Role identifies the author of a transcript entry.
type Role string

const (
	RoleUser   Role = "user"
	RoleBot    Role = "bot"
	RoleSystem Role = "system"
)

// ActionKind tags an interactive operation offered on an entry. Actions are
// data-carrying commands resolved against current engine state when invoked,
// never captured closures.
type ActionKind string

const (
	ActionSubmitIncident ActionKind = "submit_incident"
	ActionRestartIntake  ActionKind = "restart_intake"
)

// Action is one interactive choice attached to an entry.
type Action struct {
	Kind  ActionKind `json:"kind"`
	Label string     `json:"label"`
}

// Entry is a single turn in the transcript. Entries are append-only: once
// created they are never rewritten, only the whole session may be cleared.
type Entry struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Actions   []Action  `json:"actions,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
