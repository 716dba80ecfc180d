package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "BLACKPANTHER", cfg.StoreName)
	assert.Equal(t, "embedded", cfg.CatalogSource)
	assert.Equal(t, []string{"webhook"}, cfg.Sinks)
	assert.Equal(t, 1500*time.Millisecond, cfg.SinkSimulatedDelay)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
	assert.Empty(t, cfg.GeminiAPIKey)
	require.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SINKS", " Webhook, amqp ,,sqlite")
	t.Setenv("SINK_WAIT", "250ms")
	t.Setenv("SESSION_TTL", "not-a-duration")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("CATALOG_S3_PATH_STYLE", "yes")
	t.Setenv("PUBLIC_BASE_URL", "https://shop.example/")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "legacy-key")
	t.Setenv("SECURE_COOKIES", "true")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"webhook", "amqp", "sqlite"}, cfg.Sinks)
	assert.Equal(t, 250*time.Millisecond, cfg.SinkWait)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL, "bad duration falls back")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigins)
	assert.True(t, cfg.CatalogS3PathStyle)
	assert.Equal(t, "https://shop.example", cfg.PublicBaseURL)
	assert.Equal(t, "legacy-key", cfg.GeminiAPIKey)
	assert.True(t, cfg.SecureCookies)
}

func TestValidate(t *testing.T) {
	tests := map[string]struct {
		mutate  func(c *Config)
		wantErr string
	}{
		"file without path": {
			mutate:  func(c *Config) { c.CatalogSource = "file" },
			wantErr: "CATALOG_FILE",
		},
		"s3 without bucket": {
			mutate:  func(c *Config) { c.CatalogSource = "s3" },
			wantErr: "CATALOG_S3_BUCKET",
		},
		"unknown source": {
			mutate:  func(c *Config) { c.CatalogSource = "ftp" },
			wantErr: "unknown CATALOG_SOURCE",
		},
		"postgres without dsn": {
			mutate:  func(c *Config) { c.Sinks = []string{"postgres"} },
			wantErr: "DATABASE_DSN",
		},
		"unknown sink": {
			mutate:  func(c *Config) { c.Sinks = []string{"kafka"} },
			wantErr: "unknown sink",
		},
		"zero chat timeout": {
			mutate:  func(c *Config) { c.ChatTimeout = 0 },
			wantErr: "CHAT_TIMEOUT",
		},
		"negative sink wait": {
			mutate:  func(c *Config) { c.SinkWait = -time.Second },
			wantErr: "SINK_WAIT",
		},
		"postgres with dsn": {
			mutate: func(c *Config) {
				c.Sinks = []string{"postgres"}
				c.DatabaseDSN = "postgres://localhost/x"
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := Config{
				CatalogSource: "embedded",
				Sinks:         []string{"webhook"},
				ChatTimeout:   20 * time.Second,
				SinkWait:      5 * time.Second,
			}
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestWriteTimeoutCoversLongestWait(t *testing.T) {
	tests := map[string]struct {
		chat, sinkWait time.Duration
		want           time.Duration
	}{
		"chat dominates":      {chat: 20 * time.Second, sinkWait: 5 * time.Second, want: 30 * time.Second},
		"sink wait dominates": {chat: 5 * time.Second, sinkWait: 45 * time.Second, want: 55 * time.Second},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := Config{ChatTimeout: tc.chat, SinkWait: tc.sinkWait}
			assert.Equal(t, tc.want, cfg.WriteTimeout())
			assert.Greater(t, cfg.WriteTimeout(), tc.chat)
			assert.Greater(t, cfg.WriteTimeout(), tc.sinkWait)
		})
	}
}
