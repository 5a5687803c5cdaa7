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
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	t.Setenv("APP_TELEGRAM_TOKEN", "")
	path := writeConfig(t, `
app:
  env: test
telegram:
  token: "123:abc"
  admin_ids: [1, 2]
  group_id: -1001
postgres:
  dsn: "postgres://localhost/order_bot"
session:
  backend: redis
  ttl: 30m
whatsapp:
  instance_id: "1101"
  token: "secret"
  group_id: "120363@g.us"
bot:
  strict_matching: true
`)

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test", c.App.Env)
	assert.Equal(t, "123:abc", c.Telegram.Token)
	assert.Equal(t, []int64{1, 2}, c.Telegram.AdminIDs)
	assert.Equal(t, int64(-1001), c.Telegram.GroupID)
	assert.Equal(t, 60, c.Telegram.PollTimeout)
	assert.Equal(t, ":8080", c.HTTP.Addr)
	assert.Equal(t, "redis", c.Session.Backend)
	assert.Equal(t, 30*time.Minute, c.Session.TTL)
	assert.Equal(t, "https://api.green-api.com", c.WhatsApp.APIURL)
	assert.Equal(t, "1101", c.WhatsApp.InstanceID)
	assert.Equal(t, 1.0, c.WhatsApp.RPS)
	assert.True(t, c.Bot.StrictMatching)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("APP_TELEGRAM_TOKEN", "from-env")
	t.Setenv("APP_WHATSAPP_RECIPIENT", "+992900000000")
	path := writeConfig(t, `
telegram:
  token: "from-file"
postgres:
  dsn: "postgres://localhost/order_bot"
`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.Telegram.Token)
	assert.Equal(t, "+992900000000", c.WhatsApp.Recipient)
}

func TestLoad_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("APP_TELEGRAM_TOKEN", "from-env")
	t.Setenv("APP_POSTGRES_DSN", "postgres://localhost/order_bot")

	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "memory", c.Session.Backend)
	assert.Equal(t, "prod", c.App.Env)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("APP_TELEGRAM_TOKEN", "")
	t.Setenv("APP_POSTGRES_DSN", "")

	tests := []struct {
		name string
		body string
	}{
		{"no token", "postgres:\n  dsn: x\n"},
		{"unknown backend", "telegram:\n  token: t\npostgres:\n  dsn: x\nsession:\n  backend: etcd\n"},
		{"bad env", "app:\n  env: staging\ntelegram:\n  token: t\npostgres:\n  dsn: x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
		})
	}
}

func TestLocation(t *testing.T) {
	var c Config
	assert.Equal(t, time.UTC, c.Location())

	c.App.Timezone = "Nowhere/City"
	assert.Equal(t, time.UTC, c.Location())

	c.App.Timezone = "Asia/Dushanbe"
	assert.Equal(t, "Asia/Dushanbe", c.Location().String())
}
