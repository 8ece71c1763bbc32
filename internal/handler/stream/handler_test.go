package stream

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/civicnav/navigator/internal/client"
	chatmodel "github.com/civicnav/navigator/internal/model/chat"
	"github.com/civicnav/navigator/internal/model/incident"
	"github.com/civicnav/navigator/internal/service/assistant"
	sessionsvc "github.com/civicnav/navigator/internal/service/session"
	"github.com/civicnav/navigator/internal/store"
)

type stubDispatcher struct {
	reply client.Reply
	err   error
}

func (s *stubDispatcher) SendMessage(context.Context, string, string, string) (client.Reply, error) {
	return s.reply, s.err
}

type stubIncidents struct{}

func (stubIncidents) Create(context.Context, incident.Draft) (incident.Created, error) {
	return incident.Created{IncidentID: "INC-1"}, nil
}

func (stubIncidents) Status(context.Context, string) (incident.Status, error) {
	return incident.Status{}, nil
}

func newHandler(dispatcher client.Dispatcher) *Handler {
	session := sessionsvc.NewService(store.NewMemoryStore())
	return New(assistant.NewService(session, dispatcher, stubIncidents{}, "resident"))
}

func TestDispatchMessageFrame(t *testing.T) {
	h := newHandler(&stubDispatcher{reply: client.Reply{Text: "Hello!"}})
	req := httptest.NewRequest("GET", "/chat/ws", nil)

	out := h.dispatch(req, inboundMessage{Type: "message", Text: "hi"})

	if out.Type != "entries" {
		t.Fatalf("expected entries frame, got %q (%s)", out.Type, out.Error)
	}
	if len(out.Entries) != 2 {
		t.Fatalf("expected user+bot entries, got %d", len(out.Entries))
	}
	if out.SessionID == "" {
		t.Fatal("missing session id")
	}
}

func TestDispatchEmptyMessageIsError(t *testing.T) {
	h := newHandler(&stubDispatcher{})
	req := httptest.NewRequest("GET", "/chat/ws", nil)

	out := h.dispatch(req, inboundMessage{Type: "message", Text: "  "})
	if out.Type != "error" || out.Error == "" {
		t.Fatalf("expected error frame, got %+v", out)
	}
}

func TestDispatchActionOutsideReviewIsError(t *testing.T) {
	h := newHandler(&stubDispatcher{})
	req := httptest.NewRequest("GET", "/chat/ws", nil)

	out := h.dispatch(req, inboundMessage{Type: "action", Kind: "submit_incident"})
	if out.Type != "error" {
		t.Fatalf("expected error frame, got %+v", out)
	}
}

func TestDispatchNewChat(t *testing.T) {
	h := newHandler(&stubDispatcher{})
	req := httptest.NewRequest("GET", "/chat/ws", nil)

	out := h.dispatch(req, inboundMessage{Type: "new_chat"})
	if out.Type != "entries" {
		t.Fatalf("expected entries frame, got %+v", out)
	}
	if len(out.Entries) != 1 || out.Entries[0].Role != chatmodel.RoleBot {
		t.Fatalf("expected single greeting, got %+v", out.Entries)
	}
}

func TestDispatchUnknownTypeIsError(t *testing.T) {
	h := newHandler(&stubDispatcher{})
	req := httptest.NewRequest("GET", "/chat/ws", nil)

	out := h.dispatch(req, inboundMessage{Type: "telemetry"})
	if out.Type != "error" {
		t.Fatalf("expected error frame, got %+v", out)
	}
}
