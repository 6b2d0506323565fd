package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-availability-backend/internal/availability"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("server:\n  port: 0\n"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10.0, cfg.Server.RateLimitPerSec)
	assert.Equal(t, 5, cfg.Server.RateLimitBurst)
	assert.Equal(t, 300, cfg.Server.CacheTTLSeconds)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, availability.DefaultHours(), cfg.Hours.Operating)
	assert.Equal(t, time.UTC, cfg.Hours.Location)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, "reservations.changed", cfg.Events.Topic)
	assert.Equal(t, 300*time.Second, cfg.Sync.Interval)
	assert.Equal(t, 100, cfg.Sync.Request.PageSize)
	assert.Equal(t, 3600, cfg.Push.TTL)
	assert.False(t, cfg.Push.Enabled())
	assert.Equal(t, 1, cfg.WorkerPool.Size)
	assert.Equal(t, 100, cfg.WorkerPool.QueueSize)
}

func TestLoad_CustomHoursAndEnvExpansion(t *testing.T) {
	t.Setenv("TABLESD_TEST_DSN", "host=db user=tables")
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
database:
  driver: sqlite
  dsn: ${TABLESD_TEST_DSN}
hours:
  open: "12:00"
  close: "21:30"
  slot_minutes: 15
  timezone: Europe/Paris
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "host=db user=tables", cfg.Database.DSN)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "12:00", cfg.Hours.Operating.Open.String())
	assert.Equal(t, "21:30", cfg.Hours.Operating.Close.String())
	assert.Equal(t, 15, cfg.Hours.Operating.Step)
	assert.Equal(t, "Europe/Paris", cfg.Hours.Location.String())
}

func TestParse_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		doc  string
	}{
		{name: "Unknown driver", doc: "database:\n  driver: mysql\n"},
		{name: "Bad open time", doc: "hours:\n  open: noon\n"},
		{name: "Close before open", doc: "hours:\n  open: \"20:00\"\n  close: \"10:00\"\n"},
		{name: "Unknown timezone", doc: "hours:\n  timezone: Mars/Olympus\n"},
		{name: "Unknown cache backend", doc: "cache:\n  backend: memcached\n"},
		{name: "Events without brokers", doc: "events:\n  enabled: true\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_ExampleConfig(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://tables@localhost/tables")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load("config.example.yaml")
	require.NoError(t, err)

	assert.Equal(t, "postgres://tables@localhost/tables", cfg.Database.DSN)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, "Europe/Rome", cfg.Hours.Location.String())
	assert.Equal(t, []int{4, 5}, cfg.Sync.StateMaintenanceValues)
	assert.False(t, cfg.Push.Enabled(), "VAPID keys come from the environment")
}
