package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"restaurant-availability-backend/internal/availability"
	"restaurant-availability-backend/internal/parse"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Hours      HoursConfig      `yaml:"hours"`
	Logging    LoggingConfig    `yaml:"logging"`
	Cache      CacheConfig      `yaml:"cache"`
	Events     EventsConfig     `yaml:"events"`
	Sync       SyncConfig       `yaml:"sync"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RequestIPHeader string  `yaml:"request_ip_header"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	// Driver is postgres or sqlite.
	Driver                 string `yaml:"driver"`
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogSQL                 bool   `yaml:"log_sql"`
}

// HoursConfig is the restaurant's daily booking window in local time.
type HoursConfig struct {
	Open        string `yaml:"open"`
	Close       string `yaml:"close"`
	SlotMinutes int    `yaml:"slot_minutes"`
	Timezone    string `yaml:"timezone"`

	Operating availability.OperatingHours `yaml:"-"`
	Location  *time.Location              `yaml:"-"`
}

// LoggingConfig selects the slog level and encoding.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// CacheConfig selects the response cache backend.
type CacheConfig struct {
	// Backend is memory or redis.
	Backend         string `yaml:"backend"`
	RedisAddr       string `yaml:"redis_addr"`
	RedisPassword   string `yaml:"redis_password"`
	RedisDB         int    `yaml:"redis_db"`
	CleanupMinutes  int    `yaml:"cleanup_minutes"`
	KeyPrefix       string `yaml:"key_prefix"`
	DialTimeoutSecs int    `yaml:"dial_timeout_seconds"`
}

// EventsConfig configures the Kafka topic carrying reservation changes.
type EventsConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"group_id"`
}

// SyncConfig holds the roster sync configuration.
type SyncConfig struct {
	Enabled                bool          `yaml:"enabled"`
	IntervalSeconds        int           `yaml:"interval_seconds"`
	Interval               time.Duration `yaml:"-"`
	HTTPProxy              string        `yaml:"http_proxy"`
	TenantID               string        `yaml:"tenant_id"`
	RestaurantID           int64         `yaml:"restaurant_id"`
	Request                SyncRequest   `yaml:"request"`
	StateAvailableValues   []int         `yaml:"state_available_values"`
	StateOccupiedValues    []int         `yaml:"state_occupied_values"`
	StateReservedValues    []int         `yaml:"state_reserved_values"`
	StateMaintenanceValues []int         `yaml:"state_maintenance_values"`
}

// SyncRequest defines the upstream roster HTTP request.
type SyncRequest struct {
	URL      string            `yaml:"url"`
	Headers  map[string]string `yaml:"headers"`
	PageSize int               `yaml:"pageSize"`
	Payload  map[string]any    `yaml:"payload"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// Enabled reports whether both VAPID keys are configured.
func (p PushConfig) Enabled() bool {
	return p.PublicKey != "" && p.PrivateKey != ""
}

// WorkerPoolConfig holds the configuration for the waitlist worker pool.
type WorkerPoolConfig struct {
	Size      int `yaml:"size"`
	QueueSize int `yaml:"queue_size"`
}

// Load reads the configuration from the given path. ${VAR} references in
// the file are expanded from the environment before decoding.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Parse decodes a YAML document and applies defaults.
func Parse(raw []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader([]byte(os.ExpandEnv(string(raw)))))
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) applyDefaults() error {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Database.Driver != "postgres" && cfg.Database.Driver != "sqlite" {
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", cfg.Database.Driver)
	}

	if err := cfg.Hours.resolve(); err != nil {
		return err
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}

	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.Cache.Backend != "memory" && cfg.Cache.Backend != "redis" {
		return fmt.Errorf("cache.backend must be memory or redis, got %q", cfg.Cache.Backend)
	}
	if cfg.Cache.CleanupMinutes <= 0 {
		cfg.Cache.CleanupMinutes = 10
	}
	if cfg.Cache.DialTimeoutSecs <= 0 {
		cfg.Cache.DialTimeoutSecs = 5
	}

	if cfg.Events.Topic == "" {
		cfg.Events.Topic = "reservations.changed"
	}
	if cfg.Events.GroupID == "" {
		cfg.Events.GroupID = "tablesd"
	}
	if cfg.Events.Enabled && len(cfg.Events.Brokers) == 0 {
		return fmt.Errorf("events.enabled requires at least one broker")
	}

	if cfg.Sync.IntervalSeconds <= 0 {
		cfg.Sync.IntervalSeconds = 300
	}
	cfg.Sync.Interval = time.Duration(cfg.Sync.IntervalSeconds) * time.Second
	if cfg.Sync.Request.PageSize <= 0 {
		cfg.Sync.Request.PageSize = 100
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		slog.Warn("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}
	if cfg.WorkerPool.QueueSize <= 0 {
		cfg.WorkerPool.QueueSize = 100
	}
	return nil
}

func (h *HoursConfig) resolve() error {
	def := availability.DefaultHours()
	h.Operating = def

	if h.Open != "" {
		c, err := parse.Clock(h.Open)
		if err != nil {
			return fmt.Errorf("hours.open: %w", err)
		}
		h.Operating.Open = c
	}
	if h.Close != "" {
		c, err := parse.Clock(h.Close)
		if err != nil {
			return fmt.Errorf("hours.close: %w", err)
		}
		h.Operating.Close = c
	}
	if h.SlotMinutes > 0 {
		h.Operating.Step = h.SlotMinutes
	}
	if err := h.Operating.Validate(); err != nil {
		return fmt.Errorf("hours: %w", err)
	}

	if h.Timezone == "" {
		h.Timezone = "UTC"
	}
	loc, err := time.LoadLocation(h.Timezone)
	if err != nil {
		return fmt.Errorf("hours.timezone: %w", err)
	}
	h.Location = loc
	return nil
}
