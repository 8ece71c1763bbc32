package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

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

func setupRouter(dispatcher client.Dispatcher) *chi.Mux {
	session := sessionsvc.NewService(store.NewMemoryStore())
	engine := assistant.NewService(session, dispatcher, stubIncidents{}, "resident")
	handler := New(engine)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestHandleMessageReturnsEntries(t *testing.T) {
	r := setupRouter(&stubDispatcher{reply: client.Reply{Text: "Hello!"}})

	resp := postJSON(t, r, "/chat/message", map[string]string{"message": "hi"})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var out struct {
		SessionID string            `json:"sessionId"`
		Entries   []chatmodel.Entry `json:"entries"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if out.SessionID == "" {
		t.Fatal("missing session id")
	}
	if len(out.Entries) != 2 {
		t.Fatalf("expected user+bot entries, got %d", len(out.Entries))
	}
	if out.Entries[1].Text != "Hello!" {
		t.Fatalf("unexpected bot entry: %+v", out.Entries[1])
	}
}

func TestHandleMessageEmptyBodyRejected(t *testing.T) {
	r := setupRouter(&stubDispatcher{})

	resp := postJSON(t, r, "/chat/message", map[string]string{"message": "   "})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestHandleMessageMalformedJSON(t *testing.T) {
	r := setupRouter(&stubDispatcher{})

	req := httptest.NewRequest(http.MethodPost, "/chat/message", bytes.NewReader([]byte("{")))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestHandleActionOutsideReviewRejected(t *testing.T) {
	r := setupRouter(&stubDispatcher{})

	resp := postJSON(t, r, "/chat/action", map[string]string{"kind": "submit_incident"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestHandleNewChatReturnsGreeting(t *testing.T) {
	r := setupRouter(&stubDispatcher{})

	resp := postJSON(t, r, "/chat/new", map[string]string{})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	var out struct {
		Entries []chatmodel.Entry `json:"entries"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if len(out.Entries) != 1 || out.Entries[0].Role != chatmodel.RoleBot {
		t.Fatalf("expected single greeting entry, got %+v", out.Entries)
	}
}

func TestHandleTranscript(t *testing.T) {
	r := setupRouter(&stubDispatcher{reply: client.Reply{Text: "reply"}})

	postJSON(t, r, "/chat/message", map[string]string{"message": "hello"})

	req := httptest.NewRequest(http.MethodGet, "/chat/transcript", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var out struct {
		Step    string            `json:"step"`
		Entries []chatmodel.Entry `json:"entries"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if out.Step != "idle" {
		t.Fatalf("expected idle step, got %q", out.Step)
	}
	// Greeting + user turn + bot reply.
	if len(out.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(out.Entries))
	}
}
