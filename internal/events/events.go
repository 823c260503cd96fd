// Package events publishes a record of every completed chat turn.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes the two turn types.
type Kind string

const (
	KindMessage  Kind = "message"
	KindDocument Kind = "document"
)

// Subject is the NATS subject turn events are published on.
const Subject = "chat.turns"

// TurnEvent describes one completed turn. It carries no message text.
type TurnEvent struct {
	ID        uuid.UUID `json:"id"`
	SessionID uuid.UUID `json:"session_id"`
	Kind      Kind      `json:"kind"`
	Intent    string    `json:"intent,omitempty"`
	MediaType string    `json:"media_type,omitempty"`
	At        time.Time `json:"at"`
}

// Publisher emits turn events.
type Publisher interface {
	Publish(ctx context.Context, ev TurnEvent) error
	Close() error
}

// NoOpPublisher drops every event.
type NoOpPublisher struct{}

func (NoOpPublisher) Publish(context.Context, TurnEvent) error { return nil }

func (NoOpPublisher) Close() error { return nil }
