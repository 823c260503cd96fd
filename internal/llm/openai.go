package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"unicbot/internal/metrics"
)

// OpenAIConfig configures an OpenAI-compatible chat-completions endpoint.
type OpenAIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	// Timeout bounds each call; zero leaves the call unbounded.
	Timeout time.Duration
}

// OpenAIClient calls an OpenAI-compatible Chat Completions API, such as
// Ollama's /v1 endpoint.
type OpenAIClient struct {
	model   openai.ChatModel
	timeout time.Duration
	client  *openai.Client
	log     *slog.Logger
}

var _ Client = (*OpenAIClient)(nil)

// NewOpenAIClient builds a client against cfg.BaseURL. Retries are disabled.
func NewOpenAIClient(log *slog.Logger, cfg OpenAIConfig, opts ...option.RequestOption) (*OpenAIClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	base := strings.TrimRight(cfg.BaseURL, "/") + "/"
	reqOpts := append([]option.RequestOption{
		option.WithBaseURL(base),
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}, opts...)
	cli := openai.NewClient(reqOpts...)
	return &OpenAIClient{
		model:   openai.ChatModel(cfg.Model),
		timeout: cfg.Timeout,
		client:  &cli,
		log:     log,
	}, nil
}

// Complete sends prompt as the only user message and returns the first
// choice's content.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.client == nil {
		return "", &Error{Kind: KindTransport, Detail: "nil model client"}
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: buildMessages(prompt),
	})
	metrics.ModelCallDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		apiErr := classifyError(err)
		metrics.ModelCalls.WithLabelValues(string(apiErr.Kind)).Inc()
		c.log.Warn("model call failed", "kind", apiErr.Kind, "status", apiErr.StatusCode, "err", apiErr.Detail)
		return "", apiErr
	}
	if len(resp.Choices) == 0 || !resp.Choices[0].Message.JSON.Content.Valid() {
		metrics.ModelCalls.WithLabelValues("no_response").Inc()
		c.log.Warn("model reply carried no content", "choices", len(resp.Choices))
		return NoResponse, nil
	}
	metrics.ModelCalls.WithLabelValues("ok").Inc()
	return resp.Choices[0].Message.Content, nil
}

func buildMessages(prompt string) []openai.ChatCompletionMessageParamUnion {
	return []openai.ChatCompletionMessageParamUnion{
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfString: openai.String(prompt),
				},
			},
		},
	}
}

// classifyError maps an SDK error onto an *Error.
func classifyError(err error) *Error {
	var sdkErr *openai.Error
	if errors.As(err, &sdkErr) {
		target := ""
		if sdkErr.Request != nil && sdkErr.Request.URL != nil {
			target = sdkErr.Request.URL.String()
		}
		return &Error{
			Kind:       KindStatus,
			StatusCode: sdkErr.StatusCode,
			Detail:     fmt.Sprintf("%d %s for url: %s", sdkErr.StatusCode, http.StatusText(sdkErr.StatusCode), target),
			Err:        err,
		}
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Error{Kind: KindTransport, Detail: err.Error(), Err: err}
	}
	return &Error{Kind: KindDecode, Detail: err.Error(), Err: err}
}
