package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	t.Setenv("ASSISTANT_POLL_INTERVAL", "")
	t.Setenv("ASSISTANT_POLL_TIMEOUT", "")
	t.Setenv("CALL_SERVICE_TIMEOUT", "")

	cfg := Load()

	assert.Equal(t, time.Second, cfg.Assistant.PollInterval)
	assert.Equal(t, 60*time.Second, cfg.Assistant.PollTimeout)
	assert.Equal(t, 30*time.Second, cfg.CallService.Timeout)
	assert.Equal(t, "header", cfg.Webhook.AuthMode)
	assert.Equal(t, "https://api.openai.com/v1", cfg.Assistant.BaseURL)
}

func TestPoolSizesParseWithFallback(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "25")
	t.Setenv("DB_MAX_IDLE_CONNS", "not-a-number")

	cfg := Load()

	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 10, cfg.Database.MaxIdleConns)
}

func TestDurationAcceptsGoSyntaxAndPlainSeconds(t *testing.T) {
	t.Setenv("ASSISTANT_POLL_TIMEOUT", "90s")
	t.Setenv("CALL_SERVICE_TIMEOUT", "45")

	cfg := Load()

	assert.Equal(t, 90*time.Second, cfg.Assistant.PollTimeout)
	assert.Equal(t, 45*time.Second, cfg.CallService.Timeout)
}
