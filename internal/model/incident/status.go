package incident

import "time"

// Created is the backend acknowledgement for a newly filed incident.
type Created struct {
	IncidentID string    `json:"incident_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// HistoryEntry is one status change recorded on an incident.
type HistoryEntry struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
}

// Status describes the current state and history of an incident as returned
// by the status lookup. History keeps the source insertion order.
type Status struct {
	IncidentID string         `json:"incident_id"`
	Current    string         `json:"status"`
	LastUpdate time.Time      `json:"last_update"`
	History    []HistoryEntry `json:"history"`
}
