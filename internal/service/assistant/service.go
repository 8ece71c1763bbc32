package assistant

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/civicnav/navigator/internal/client"
	"github.com/civicnav/navigator/internal/model/chat"
	"github.com/civicnav/navigator/internal/service/intake"
	sessionsvc "github.com/civicnav/navigator/internal/service/session"
	statussvc "github.com/civicnav/navigator/internal/service/status"
)

// Failure entries are prefixed so a UI can tell them apart from normal
// bot replies.
const failurePrefix = "Something went wrong: "

const greeting = "New chat started. How can I help you?"

var (
	ErrEmptyMessage   = errors.New("message is empty")
	ErrNoActiveReview = errors.New("no incident is awaiting review")
	ErrSubmitInFlight = errors.New("a submission is already in progress")
	ErrUnknownAction  = errors.New("unknown action")
)

// Service is the conversation engine. It routes user turns between the
// free-form chat path and the guided intake flow, resolves entry actions,
// and owns the session lifecycle.
//
// The mutex serializes all state transitions; it is released around
// collaborator calls so input stays interactive while a call is pending.
// Completions are applied only if the session id is unchanged, so a stale
// response never lands in a session created after a reset.
type Service struct {
	mu         sync.Mutex
	session    *sessionsvc.Service
	machine    *intake.Machine
	dispatcher client.Dispatcher
	incidents  client.IncidentService
	role       string
	submitting bool
}

// NewService wires the engine to its collaborators. An empty transcript is
// greeted immediately so the conversation never opens blank.
func NewService(session *sessionsvc.Service, dispatcher client.Dispatcher, incidents client.IncidentService, role string) *Service {
	if role == "" {
		role = "resident"
	}
	s := &Service{
		session:    session,
		machine:    intake.NewMachine(),
		dispatcher: dispatcher,
		incidents:  incidents,
		role:       role,
	}
	if len(session.Transcript()) == 0 {
		session.Append(chat.RoleBot, greeting)
	}
	return s
}

// SessionID returns the current session identifier.
func (s *Service) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.ID()
}

// Step returns the active intake step.
func (s *Service) Step() intake.Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Step()
}

// Transcript returns the transcript in insertion order.
func (s *Service) Transcript() []chat.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Transcript()
}

// HandleMessage processes one user utterance and returns the entries it
// appended. An active intake flow consumes the utterance; otherwise it is
// dispatched to the assistant backend.
func (s *Service) HandleMessage(ctx context.Context, text string) ([]chat.Entry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	s.mu.Lock()

	appended := []chat.Entry{s.session.Append(chat.RoleUser, text)}

	if s.machine.Active() {
		msg := s.machine.Advance(text)
		if msg.Text != "" {
			appended = append(appended, s.session.Append(chat.RoleBot, msg.Text, msg.Actions...))
		}
		s.mu.Unlock()
		return appended, nil
	}

	sid := s.session.ID()
	s.mu.Unlock()

	reply, err := s.dispatcher.SendMessage(ctx, text, s.role, sid)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.ID() != sid {
		log.Printf("[assistant] discarding dispatch result for replaced session %s", sid)
		return appended, nil
	}

	if err != nil {
		log.Printf("[assistant] dispatch failed: %v", err)
		appended = append(appended, s.session.Append(chat.RoleBot, failurePrefix+"the assistant could not be reached. Please try again."))
		return appended, nil
	}

	appended = append(appended, s.session.Append(chat.RoleBot, withCitations(reply.Text, reply.Citations)))

	switch reply.Intent {
	case client.IntentIncidentReport:
		msg := s.machine.Start()
		appended = append(appended, s.session.Append(chat.RoleBot, msg.Text))
	case client.IntentStatusCheck:
		if reply.IncidentID != "" {
			appended = append(appended, s.lookupStatusLocked(ctx, sid, reply.IncidentID)...)
		}
	}
	return appended, nil
}

// lookupStatusLocked narrates the status of one incident. Called with the
// lock held; releases it around the collaborator call.
func (s *Service) lookupStatusLocked(ctx context.Context, sid, incidentID string) []chat.Entry {
	appended := []chat.Entry{
		s.session.Append(chat.RoleBot, fmt.Sprintf("Checking status for incident %s...", incidentID)),
	}

	s.mu.Unlock()
	st, err := s.incidents.Status(ctx, incidentID)
	s.mu.Lock()

	if s.session.ID() != sid {
		log.Printf("[assistant] discarding status result for replaced session %s", sid)
		return appended
	}

	if err != nil {
		log.Printf("[assistant] status lookup for %s failed: %v", incidentID, err)
		return append(appended, s.session.Append(chat.RoleBot, failurePrefix+"failed to retrieve status. Please try again."))
	}
	return append(appended, s.session.Append(chat.RoleBot, statussvc.Narrate(st)))
}

// InvokeAction resolves an interactive action against current engine state.
func (s *Service) InvokeAction(ctx context.Context, kind chat.ActionKind) ([]chat.Entry, error) {
	switch kind {
	case chat.ActionSubmitIncident:
		return s.submit(ctx)
	case chat.ActionRestartIntake:
		return s.restart()
	default:
		return nil, ErrUnknownAction
	}
}

func (s *Service) restart() ([]chat.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.machine.Step() != intake.StepReview {
		return nil, ErrNoActiveReview
	}
	msg := s.machine.Restart()
	return []chat.Entry{s.session.Append(chat.RoleBot, msg.Text)}, nil
}

// submit files the accumulated draft. It is non-reentrant: a second submit
// while one is in flight is rejected. On failure the step stays at review
// and the draft is kept so the user can retry without re-entering data.
func (s *Service) submit(ctx context.Context) ([]chat.Entry, error) {
	s.mu.Lock()

	if s.machine.Step() != intake.StepReview {
		s.mu.Unlock()
		return nil, ErrNoActiveReview
	}
	if s.submitting {
		s.mu.Unlock()
		return nil, ErrSubmitInFlight
	}

	s.submitting = true
	draft := s.machine.Draft()
	sid := s.session.ID()
	s.mu.Unlock()

	created, err := s.incidents.Create(ctx, draft)

	s.mu.Lock()
	defer s.mu.Unlock()

	// A completion from a replaced session must not disarm the guard: the
	// flag now belongs to whatever the current session is doing (NewChat
	// already reset it for the new session).
	if s.session.ID() != sid {
		log.Printf("[assistant] discarding submission result for replaced session %s", sid)
		return nil, nil
	}
	s.submitting = false

	if err != nil {
		log.Printf("[assistant] incident submission failed: %v", err)
		entry := s.session.Append(chat.RoleBot, failurePrefix+"failed to submit the incident. Please try again.")
		return []chat.Entry{entry}, nil
	}

	s.machine.Finish()
	entry := s.session.Append(chat.RoleBot, fmt.Sprintf("Incident submitted successfully. Reference ID: %s", created.IncidentID))
	return []chat.Entry{entry}, nil
}

// NewChat clears the transcript and any in-flight draft, issues a fresh
// session id, and greets the user.
func (s *Service) NewChat() []chat.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.Reset()
	s.machine = intake.NewMachine()
	s.submitting = false
	return []chat.Entry{s.session.Append(chat.RoleBot, greeting)}
}

// withCitations appends inline source notes to a reply. An empty citation
// list leaves the reply untouched.
func withCitations(text string, citations []client.Citation) string {
	if len(citations) == 0 {
		return text
	}
	var b strings.Builder
	b.WriteString(text)
	b.WriteString("\n\nSources:")
	for _, c := range citations {
		fmt.Fprintf(&b, "\n- %s: %s", c.Title, c.Snippet)
		if c.SourceLink != "" {
			fmt.Fprintf(&b, " (%s)", c.SourceLink)
		}
	}
	return b.String()
}
