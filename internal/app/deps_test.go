package app

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unicbot/internal/cache"
	"unicbot/internal/config"
	"unicbot/internal/events"
	"unicbot/internal/intent"
	"unicbot/internal/keywords"
	"unicbot/internal/llm"
	"unicbot/internal/logger"
	"unicbot/internal/router"
)

func TestBuildCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	tests := []struct {
		name    string
		cfg     config.Config
		want    any
		wantErr bool
	}{
		{"default none", config.Config{}, &cache.NoOpCache{}, false},
		{"redis", config.Config{CacheProvider: "redis", RedisAddr: mr.Addr()}, &cache.RedisCache{}, false},
		{"redis without addr", config.Config{CacheProvider: "redis"}, nil, true},
		{"unknown provider", config.Config{CacheProvider: "memcached"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := buildCache(tt.cfg, logger.Discard())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, c)
			_ = c.Close()
		})
	}
}

func TestBuildEvents(t *testing.T) {
	pub, err := buildEvents(config.Config{}, logger.Discard())
	require.NoError(t, err)
	assert.IsType(t, events.NoOpPublisher{}, pub)

	_, err = buildEvents(config.Config{EventsProvider: "nats"}, logger.Discard())
	assert.Error(t, err)

	_, err = buildEvents(config.Config{EventsProvider: "kafka"}, logger.Discard())
	assert.Error(t, err)
}

func TestBuildLLM(t *testing.T) {
	c, err := buildLLM(config.Config{LLMBaseURL: "http://localhost:11434/v1", LLMModel: "llama3.2"}, logger.Discard())
	require.NoError(t, err)
	assert.NotNil(t, c)

	_, err = buildLLM(config.Config{LLMModel: "llama3.2"}, logger.Discard())
	assert.Error(t, err)
}

func TestAssembleWiresRouter(t *testing.T) {
	sets := keywords.Sets{Greeting: keywords.New("hello")}
	deps := Assemble(config.Config{CacheTTL: 60}, logger.Discard(), sets, new(llm.MockClient), nil, nil)

	in, reply := deps.Router.Respond(context.Background(), "Hello!")
	assert.Equal(t, intent.Greeting, in)
	assert.Equal(t, router.GreetingReply, reply)
	assert.NotNil(t, deps.Sessions)
	assert.NoError(t, deps.Close())
}
