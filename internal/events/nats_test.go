package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingConn struct {
	subject string
	data    []byte
	err     error
	drained bool
}

func (c *recordingConn) Publish(subj string, data []byte) error {
	c.subject, c.data = subj, data
	return c.err
}

func (c *recordingConn) Drain() error {
	c.drained = true
	return nil
}

func TestNATSPublish(t *testing.T) {
	conn := &recordingConn{}
	p := &natsPublisher{nc: conn}
	sessionID := uuid.New()

	err := p.Publish(context.Background(), TurnEvent{SessionID: sessionID, Kind: KindMessage, Intent: "greeting"})
	require.NoError(t, err)

	assert.Equal(t, Subject, conn.subject)
	var got TurnEvent
	require.NoError(t, json.Unmarshal(conn.data, &got))
	assert.NotEqual(t, uuid.Nil, got.ID, "id assigned")
	assert.False(t, got.At.IsZero(), "timestamp assigned")
	assert.Equal(t, sessionID, got.SessionID)
	assert.Equal(t, "greeting", got.Intent)

	require.NoError(t, p.Close())
	assert.True(t, conn.drained)
}

func TestNATSPublishErrors(t *testing.T) {
	p := &natsPublisher{nc: &recordingConn{err: errors.New("nats: connection closed")}}

	assert.Error(t, p.Publish(context.Background(), TurnEvent{}), "kind required")
	assert.Error(t, p.Publish(context.Background(), TurnEvent{Kind: KindDocument}))
}

func TestNoOpPublisher(t *testing.T) {
	var p Publisher = NoOpPublisher{}
	assert.NoError(t, p.Publish(context.Background(), TurnEvent{Kind: KindMessage}))
	assert.NoError(t, p.Close())
}
