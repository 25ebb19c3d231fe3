package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  host: ""
database:
  url: postgres://localhost/tutorlink
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "X-Payment-Signature", cfg.Payments.SignatureHeader)
	assert.Equal(t, time.Hour, cfg.Reminders.LeadTime())
	assert.Equal(t, 5*time.Minute, cfg.Reminders.PollInterval())
	assert.Equal(t, "postgres://localhost/tutorlink", cfg.Database.URL)
	assert.Equal(t, "tutorlink_session", cfg.Auth.CookieName)
}

func TestLoadParsesSections(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  allowed_origins: ["https://app.example.com"]
redis:
  addr: localhost:6379
payments:
  webhook_secret: whsec_test
reminders:
  enabled: true
  lead_time_minutes: 30
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "whsec_test", cfg.Payments.WebhookSecret)
	assert.True(t, cfg.Reminders.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.Reminders.LeadTime())
}

func TestLoadFromEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
database:
  url: postgres://file/db
`)
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("PAYMENT_WEBHOOK_SECRET", "whsec_env")
	t.Setenv("SERVER_PORT", "7070")

	cfg, err := LoadFromEnv(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://env/db", cfg.Database.URL)
	assert.Equal(t, "whsec_env", cfg.Payments.WebhookSecret)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
