// Package summarize produces model-written summaries of uploaded documents.
package summarize

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"unicbot/internal/cache"
	"unicbot/internal/document"
	"unicbot/internal/llm"
	"unicbot/internal/metrics"
)

// PromptPrefix precedes the extracted text in every summary request.
const PromptPrefix = "Please provide a summary for the following content:\n\n"

// Prompt wraps extracted text in the summary instruction.
func Prompt(text string) string {
	return PromptPrefix + text
}

// Pipeline extracts a document's text and asks the model to summarize it.
type Pipeline struct {
	log   *slog.Logger
	llm   llm.Client
	cache cache.Cache
	ttl   time.Duration
}

// New builds a Pipeline. A nil cache disables caching.
func New(log *slog.Logger, client llm.Client, c cache.Cache, ttl time.Duration) *Pipeline {
	if c == nil {
		c = cache.NewNoOpCache()
	}
	return &Pipeline{log: log, llm: client, cache: c, ttl: ttl}
}

// Summarize returns the model's summary of doc. Unsupported media types yield
// document.UnsupportedMessage without contacting the model; model failures
// are rendered as "API error: ..." text. Only a document that cannot be
// decoded returns an error.
func (p *Pipeline) Summarize(ctx context.Context, doc document.Document) (string, error) {
	log := p.log.With("filename", doc.Filename, "media_type", doc.MediaType)
	kind := document.Label(doc.MediaType)

	text, err := document.Extract(doc)
	switch {
	case errors.Is(err, document.ErrUnsupportedType):
		metrics.Documents.WithLabelValues(kind, "unsupported").Inc()
		log.Info("unsupported upload")
		return text, nil
	case err != nil:
		metrics.Documents.WithLabelValues(kind, "malformed").Inc()
		log.Warn("document extraction failed", "err", err)
		return "", err
	}

	prompt := Prompt(text)
	key := cache.Key(prompt)
	if cached, found, err := p.cache.GetSummary(ctx, key); err != nil {
		log.Warn("summary cache read failed", "err", err)
	} else if found {
		metrics.Documents.WithLabelValues(kind, "cached").Inc()
		log.Debug("summary cache hit")
		return cached, nil
	}

	summary, err := p.llm.Complete(ctx, prompt)
	if err != nil {
		metrics.Documents.WithLabelValues(kind, "model_error").Inc()
		return llm.Render(summary, err), nil
	}
	metrics.Documents.WithLabelValues(kind, "summarized").Inc()

	if summary != llm.NoResponse {
		if err := p.cache.SetSummary(ctx, key, summary, p.ttl); err != nil {
			log.Warn("failed to cache summary", "err", err)
		}
	}
	return summary, nil
}
