package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, int32(4), cfg.AmountPrecision)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, int64(10), cfg.MaxUploadSizeMB)
	assert.Equal(t, time.Minute, cfg.RateLimitPeriod)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LEDGER_STORAGE", "bolt")
	t.Setenv("BOLT_PATH", "/tmp/ledger.db")
	t.Setenv("LEDGER_WORKERS", "8")
	t.Setenv("RATE_LIMIT_PERIOD", "30s")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example, ,https://b.example ")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageBolt, cfg.Storage)
	assert.Equal(t, "/tmp/ledger.db", cfg.BoltPath)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 30*time.Second, cfg.RateLimitPeriod)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown storage":       {"LEDGER_STORAGE": "redis"},
		"postgres without url":  {"LEDGER_STORAGE": "postgres", "DATABASE_URL": ""},
		"zero workers":          {"LEDGER_WORKERS": "0"},
		"workers not a number":  {"LEDGER_WORKERS": "many"},
		"bad rate limit period": {"RATE_LIMIT_PERIOD": "soon"},
		"bad max upload":        {"MAX_UPLOAD_MB": "ten"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
