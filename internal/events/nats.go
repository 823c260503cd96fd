package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// natsConn is the subset of *nats.Conn used by the publisher.
type natsConn interface {
	Publish(subj string, data []byte) error
	Drain() error
}

type natsPublisher struct {
	nc natsConn
}

// NewNATS constructs a publisher on an established connection.
func NewNATS(nc *nats.Conn) Publisher {
	return &natsPublisher{nc: nc}
}

func (p *natsPublisher) Publish(_ context.Context, ev TurnEvent) error {
	if ev.Kind == "" {
		return errors.New("event kind required")
	}
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.nc.Publish(Subject, body)
}

func (p *natsPublisher) Close() error {
	return p.nc.Drain()
}
