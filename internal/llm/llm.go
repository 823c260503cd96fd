package llm

import (
	"context"
	"errors"
)

const (
	// ErrorPrefix starts every rendered model failure.
	ErrorPrefix = "API error: "
	// NoResponse is returned when a successful reply carries no message content.
	NoResponse = "No response from model."
)

// Client sends a single-turn prompt to a chat-completion model. Failures are
// reported as *Error.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrorKind classifies a model call failure.
type ErrorKind string

const (
	KindTransport ErrorKind = "transport"
	KindStatus    ErrorKind = "status"
	KindDecode    ErrorKind = "decode"
)

// Error describes a failed model call.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Detail     string
	Err        error
}

func (e *Error) Error() string { return e.Detail }

func (e *Error) Unwrap() error { return e.Err }

// Render folds a Complete result into the text shown to the user: the reply
// on success, "API error: <detail>" otherwise.
func Render(text string, err error) string {
	if err == nil {
		return text
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return ErrorPrefix + apiErr.Detail
	}
	return ErrorPrefix + err.Error()
}

// Reply calls c and renders the outcome. It never fails.
func Reply(ctx context.Context, c Client, prompt string) string {
	return Render(c.Complete(ctx, prompt))
}
