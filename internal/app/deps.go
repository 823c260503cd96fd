package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"unicbot/internal/cache"
	"unicbot/internal/config"
	"unicbot/internal/events"
	"unicbot/internal/intent"
	"unicbot/internal/keywords"
	"unicbot/internal/llm"
	"unicbot/internal/logger"
	"unicbot/internal/retry"
	"unicbot/internal/router"
	"unicbot/internal/session"
	"unicbot/internal/summarize"
)

const (
	natsConnectAttempts = 3
	natsConnectBackoff  = 500 * time.Millisecond
)

// Deps bundles the runtime dependencies of the gateway.
type Deps struct {
	Config     config.Config
	Log        *slog.Logger
	Keywords   keywords.Sets
	LLM        llm.Client
	Router     *router.Router
	Summarizer *summarize.Pipeline
	Sessions   *session.Manager
	Cache      cache.Cache
	Events     events.Publisher
}

// Build loads env, config, keyword sets and shared components.
func Build() (Deps, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Deps{}, fmt.Errorf("failed to load environment variables: %w", err)
	}
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	llmClient, err := buildLLM(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize LLM: %w", err)
	}
	c, err := buildCache(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize cache: %w", err)
	}
	pub, err := buildEvents(cfg, log)
	if err != nil {
		_ = c.Close()
		return Deps{}, fmt.Errorf("failed to initialize events: %w", err)
	}

	sets := keywords.LoadAll(log, cfg.KeywordPaths())
	return Assemble(cfg, log, sets, llmClient, c, pub), nil
}

// Assemble wires the chat components from already built parts.
func Assemble(cfg config.Config, log *slog.Logger, sets keywords.Sets, client llm.Client, c cache.Cache, pub events.Publisher) Deps {
	if c == nil {
		c = cache.NewNoOpCache()
	}
	if pub == nil {
		pub = events.NoOpPublisher{}
	}
	return Deps{
		Config:     cfg,
		Log:        log,
		Keywords:   sets,
		LLM:        client,
		Router:     router.New(log, intent.FromKeywords(sets), client),
		Summarizer: summarize.New(log, client, c, time.Duration(cfg.CacheTTL)*time.Second),
		Sessions:   session.NewManager(),
		Cache:      c,
		Events:     pub,
	}
}

// Close releases external connections.
func (d Deps) Close() error {
	var errs []error
	if d.Events != nil {
		errs = append(errs, d.Events.Close())
	}
	if d.Cache != nil {
		errs = append(errs, d.Cache.Close())
	}
	return errors.Join(errs...)
}

func buildLLM(cfg config.Config, log *slog.Logger) (llm.Client, error) {
	client, err := llm.NewOpenAIClient(log, llm.OpenAIConfig{
		BaseURL: cfg.LLMBaseURL,
		APIKey:  cfg.APIKey(),
		Model:   cfg.LLMModel,
		Timeout: time.Duration(cfg.LLMTimeout) * time.Second,
	})
	if err != nil {
		return nil, err
	}
	if cfg.APIKey() == "" {
		log.Warn("no model API key configured; sending requests without a token")
	}
	log.Info("using chat-completions client", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModel)
	return client, nil
}

func buildCache(cfg config.Config, log *slog.Logger) (cache.Cache, error) {
	switch cfg.CacheProvider {
	case "", "none":
		return cache.NewNoOpCache(), nil
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required when CACHE_PROVIDER=redis")
		}
		rc, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Warn("redis unavailable; summaries will not be cached", "err", err)
			return cache.NewNoOpCache(), nil
		}
		log.Info("using Redis summary cache", "addr", cfg.RedisAddr)
		return rc, nil
	default:
		return nil, fmt.Errorf("invalid CACHE_PROVIDER: %s (valid options: none, redis)", cfg.CacheProvider)
	}
}

func buildEvents(cfg config.Config, log *slog.Logger) (events.Publisher, error) {
	switch cfg.EventsProvider {
	case "", "none":
		return events.NoOpPublisher{}, nil
	case "nats":
		if cfg.NATSURL == "" {
			return nil, fmt.Errorf("NATS_URL is required when EVENTS_PROVIDER=nats")
		}
		var nc *nats.Conn
		err := retry.Do(context.Background(), natsConnectAttempts, natsConnectBackoff, func() error {
			var err error
			nc, err = nats.Connect(cfg.NATSURL)
			if err != nil {
				log.Warn("NATS connect failed", "url", cfg.NATSURL, "err", err)
			}
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		log.Info("publishing turn events to NATS", "subject", events.Subject)
		return events.NewNATS(nc), nil
	default:
		return nil, fmt.Errorf("invalid EVENTS_PROVIDER: %s (valid options: none, nats)", cfg.EventsProvider)
	}
}
