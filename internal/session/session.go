// Package session keeps per-conversation state for the chat gateway. The
// classification and summarization components never see it; a Session only
// feeds them input and records what they return.
package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"unicbot/internal/document"
	"unicbot/internal/intent"
)

// Role identifies who authored a chat message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// ChatMessage is one entry of a session's history.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Message string `json:"message"`
}

// Responder produces the reply to a text turn.
type Responder interface {
	Respond(ctx context.Context, raw string) (intent.Intent, string)
}

// Summarizer produces the reply to an upload turn.
type Summarizer interface {
	Summarize(ctx context.Context, doc document.Document) (string, error)
}

// Session is a single conversation. Turns are serialized: a second turn
// waits until the first has produced its reply.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	turn     sync.Mutex
	inFlight atomic.Int32

	mu         sync.Mutex
	history    []ChatMessage
	lastActive time.Time
	now        func() time.Time
}

func newSession(now func() time.Time) *Session {
	t := now()
	return &Session{ID: uuid.New(), CreatedAt: t, lastActive: t, now: now}
}

// Ask runs a text turn and records both sides of it.
func (s *Session) Ask(ctx context.Context, r Responder, text string) (intent.Intent, string) {
	defer s.begin()()

	in, reply := r.Respond(ctx, text)
	s.append(ChatMessage{Role: RoleUser, Message: text}, ChatMessage{Role: RoleBot, Message: reply})
	return in, reply
}

// Upload runs a document turn. When the document cannot be decoded nothing
// is recorded and the error is returned.
func (s *Session) Upload(ctx context.Context, sm Summarizer, doc document.Document) (string, error) {
	defer s.begin()()

	summary, err := sm.Summarize(ctx, doc)
	if err != nil {
		return "", err
	}
	s.append(
		ChatMessage{Role: RoleUser, Message: "Uploaded file: " + doc.Filename},
		ChatMessage{Role: RoleBot, Message: summary},
	)
	return summary, nil
}

// History returns a copy of the conversation so far.
func (s *Session) History() []ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ChatMessage, len(s.history))
	copy(out, s.history)
	return out
}

// LastActive reports when the last turn started or finished.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Busy reports whether a turn is running or waiting to run.
func (s *Session) Busy() bool {
	return s.inFlight.Load() > 0
}

// begin marks a turn in flight and takes the turn lock. The returned func
// releases both and refreshes the activity time.
func (s *Session) begin() func() {
	s.inFlight.Add(1)
	s.turn.Lock()
	s.touch()
	return func() {
		s.touch()
		s.turn.Unlock()
		s.inFlight.Add(-1)
	}
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActive = s.now()
	s.mu.Unlock()
}

func (s *Session) append(msgs ...ChatMessage) {
	s.mu.Lock()
	s.history = append(s.history, msgs...)
	s.lastActive = s.now()
	s.mu.Unlock()
}
