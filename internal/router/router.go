// Package router maps classified intents to chatbot replies.
package router

import (
	"context"
	"log/slog"

	"unicbot/internal/intent"
	"unicbot/internal/llm"
	"unicbot/internal/metrics"
)

// Canned replies.
const (
	GreetingReply = "Hello! How can I assist you today?"

	RescheduleReply = "To make changes to your appointment, please reach out directly by emailing or calling our team:\n\n" +
		"Email: info@unicgate.org\n\n" +
		"Phone: +1 346-471-4390\n\n" +
		"Please note that response times may vary as our team processes requests. We appreciate your patience and will do our best to accommodate your scheduling needs."

	AppointmentReply = "You can check my available slots and schedule an appointment using this link: [Schedule Appointment](https://cal.com/tankyash1)"

	ExitReply = "Goodbye! See you next time."

	FallbackReply = "Sorry, I can only answer STEM-related questions or assist with appointment scheduling. Please ask something related to science, technology, engineering, or mathematics, or provide scheduling-related details."
)

type handler func(ctx context.Context, raw string) string

func canned(reply string) handler {
	return func(context.Context, string) string { return reply }
}

// Router classifies input and produces the bot's reply.
type Router struct {
	log        *slog.Logger
	classifier *intent.Classifier
	handlers   map[intent.Intent]handler
}

// New builds a Router. Stem questions are forwarded verbatim to client.
func New(log *slog.Logger, classifier *intent.Classifier, client llm.Client) *Router {
	r := &Router{log: log, classifier: classifier}
	r.handlers = map[intent.Intent]handler{
		intent.Greeting:    canned(GreetingReply),
		intent.Reschedule:  canned(RescheduleReply),
		intent.Appointment: canned(AppointmentReply),
		intent.StemQuestion: func(ctx context.Context, raw string) string {
			return llm.Reply(ctx, client, raw)
		},
		intent.Exit:    canned(ExitReply),
		intent.Unknown: canned(FallbackReply),
	}
	return r
}

// Route returns the reply for an already classified input. raw must be the
// user's original text; it is what reaches the model.
func (r *Router) Route(ctx context.Context, in intent.Intent, raw string) string {
	h, ok := r.handlers[in]
	if !ok {
		h = r.handlers[intent.Unknown]
	}
	return h(ctx, raw)
}

// Respond classifies raw and routes it in one step.
func (r *Router) Respond(ctx context.Context, raw string) (intent.Intent, string) {
	in := r.classifier.Classify(raw)
	metrics.Intents.WithLabelValues(in.String()).Inc()
	r.log.Debug("input classified", "intent", in)
	return in, r.Route(ctx, in, raw)
}
