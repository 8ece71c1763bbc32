package session

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/civicnav/navigator/internal/model/chat"
	"github.com/civicnav/navigator/internal/store"
)

// Service owns the persisted conversation: the session identity and its
// append-only transcript. It is not safe for concurrent use on its own; the
// engine serializes access.
type Service struct {
	storage store.Storage
	session chat.Session
}

// NewService loads the previously persisted session from storage. A missing
// id yields a fresh one; an unreadable stored transcript degrades to an
// empty transcript with a warning, never a failure.
func NewService(storage store.Storage) *Service {
	s := &Service{storage: storage}

	id, ok := storage.Get(KeySessionID)
	if !ok || id == "" {
		id = uuid.NewString()
	}
	s.session = chat.Session{ID: id}

	if raw, ok := storage.Get(KeyTranscript); ok {
		var entries []chat.Entry
		if err := json.Unmarshal([]byte(raw), &entries); err != nil {
			log.Printf("[session] discarding unreadable stored transcript: %v", err)
		} else {
			s.session.Transcript = entries
		}
	}

	s.persist()
	return s
}

// ID returns the current session identifier.
func (s *Service) ID() string { return s.session.ID }

// Transcript returns a copy of the transcript in insertion order.
func (s *Service) Transcript() []chat.Entry {
	out := make([]chat.Entry, len(s.session.Transcript))
	copy(out, s.session.Transcript)
	return out
}

// Append adds one entry to the transcript and re-persists the session.
func (s *Service) Append(role chat.Role, text string, actions ...chat.Action) chat.Entry {
	entry := chat.Entry{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Actions:   actions,
		CreatedAt: time.Now().UTC(),
	}
	s.session.Transcript = append(s.session.Transcript, entry)
	s.persist()
	return entry
}

// Reset discards the transcript, removes its stored copy, and issues a
// fresh session identity. Only the id is re-persisted here; the transcript
// key stays absent until the next append writes one.
func (s *Service) Reset() {
	if err := s.storage.Remove(KeyTranscript); err != nil {
		log.Printf("[session] failed to remove stored transcript: %v", err)
	}
	s.session = chat.Session{ID: uuid.NewString()}
	s.persistID()
}

func (s *Service) persistID() {
	if err := s.storage.Set(KeySessionID, s.session.ID); err != nil {
		log.Printf("[session] failed to persist session id: %v", err)
	}
}

func (s *Service) persist() {
	s.persistID()
	raw, err := json.Marshal(s.session.Transcript)
	if err != nil {
		log.Printf("[session] failed to encode transcript: %v", err)
		return
	}
	if err := s.storage.Set(KeyTranscript, string(raw)); err != nil {
		log.Printf("[session] failed to persist transcript: %v", err)
	}
}
