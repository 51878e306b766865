package goSession

import (
	"errors"
	"strings"
	"time"

	"github.com/MrEthical07/goSession/session"
	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config defines the complete configuration of a session Manager.
//
// Config values are copied at Build; later changes to the caller's value have no effect.
type Config struct {
	Storage StorageConfig `envPrefix:"STORAGE_"`
	Remote  RemoteConfig  `envPrefix:"REMOTE_"`
	Session SessionConfig `envPrefix:"SESSION_"`
	Audit   AuditConfig   `envPrefix:"AUDIT_"`
	Metrics MetricsConfig `envPrefix:"METRICS_"`
	Log     LogConfig     `envPrefix:"LOG_"`
}

/*
====================================
STORAGE CONFIG
====================================
*/

// Storage backends accepted by StorageConfig.Backend.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// StorageConfig selects the durable medium and the keys the session is persisted under.
//
// The default keys match the records written by earlier releases of the client, so an
// existing install restores its session after upgrade.
type StorageConfig struct {
	Backend     string `env:"BACKEND"`
	TokenKey    string `env:"TOKEN_KEY"`
	UserKey     string `env:"USER_KEY"`
	RedisAddr   string `env:"REDIS_ADDR"`
	RedisPrefix string `env:"REDIS_PREFIX"`
	SQLitePath  string `env:"SQLITE_PATH"`
}

/*
====================================
REMOTE CONFIG
====================================
*/

// RemoteConfig locates the remote authentication API.
type RemoteConfig struct {
	BaseURL      string `env:"BASE_URL"`
	RegisterPath string `env:"REGISTER_PATH"`
	SessionPath  string `env:"SESSION_PATH"`
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls Manager behavior.
type SessionConfig struct {
	// LenientSignIn treats a sign-in response without user or tokens as a silent
	// success that leaves the session untouched, instead of an error.
	LenientSignIn bool `env:"LENIENT_SIGN_IN"`
	// RemoteTimeout bounds each Authenticator call. Zero disables the bound.
	RemoteTimeout time.Duration `env:"REMOTE_TIMEOUT"`
	// StorageTimeout bounds each medium call. Zero disables the bound.
	StorageTimeout time.Duration `env:"STORAGE_TIMEOUT"`
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool `env:"ENABLED"`
	BufferSize int  `env:"BUFFER_SIZE"`
	DropIfFull bool `env:"DROP_IF_FULL"`
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig controls in-process counters and the sign-in latency histogram.
type MetricsConfig struct {
	Enabled                 bool `env:"ENABLED"`
	EnableLatencyHistograms bool `env:"LATENCY_HISTOGRAMS"`
}

/*
====================================
LOG CONFIG
====================================
*/

// LogConfig controls the logger built by [NewLogger].
type LogConfig struct {
	Level  string `env:"LEVEL"`
	Pretty bool   `env:"PRETTY"`
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the configuration used by [New] when none is supplied.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Backend:     BackendMemory,
			TokenKey:    session.DefaultTokenKey,
			UserKey:     session.DefaultUserKey,
			RedisPrefix: "gs",
		},
		Remote: RemoteConfig{
			RegisterPath: "/users",
			SessionPath:  "/sessions",
		},
		Session: SessionConfig{
			LenientSignIn:  false,
			RemoteTimeout:  15 * time.Second,
			StorageTimeout: 5 * time.Second,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
		Log: LogConfig{
			Level:  "warn",
			Pretty: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	return cfg
}

// LoadConfigFromEnv starts from [DefaultConfig] and overrides fields from GOSESSION_*
// environment variables, e.g. GOSESSION_STORAGE_BACKEND or GOSESSION_SESSION_REMOTE_TIMEOUT.
// The result is validated.
func LoadConfigFromEnv() (Config, error) {
	return loadConfigFromEnv(nil)
}

func loadConfigFromEnv(environment map[string]string) (Config, error) {
	cfg := defaultConfig()
	opts := env.Options{Prefix: "GOSESSION_"}
	if environment != nil {
		opts.Environment = environment
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

/*
====================================
VALIDATION
====================================
*/

// Validate reports the first invalid field of c.
func (c *Config) Validate() error {
	// Storage
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendRedis:
		if strings.TrimSpace(c.Storage.RedisAddr) == "" {
			return errors.New("Storage RedisAddr is required for the redis backend")
		}
	case BackendSQLite:
		if strings.TrimSpace(c.Storage.SQLitePath) == "" {
			return errors.New("Storage SQLitePath is required for the sqlite backend")
		}
	default:
		return errors.New("Storage Backend must be 'memory', 'redis' or 'sqlite'")
	}

	if strings.TrimSpace(c.Storage.TokenKey) == "" {
		return errors.New("Storage TokenKey must not be empty")
	}
	if strings.TrimSpace(c.Storage.UserKey) == "" {
		return errors.New("Storage UserKey must not be empty")
	}
	if c.Storage.TokenKey == c.Storage.UserKey {
		return errors.New("Storage TokenKey and UserKey must differ")
	}

	// Remote
	if c.Remote.RegisterPath != "" && !strings.HasPrefix(c.Remote.RegisterPath, "/") {
		return errors.New("Remote RegisterPath must start with '/'")
	}
	if c.Remote.SessionPath != "" && !strings.HasPrefix(c.Remote.SessionPath, "/") {
		return errors.New("Remote SessionPath must start with '/'")
	}

	// Session
	if c.Session.RemoteTimeout < 0 {
		return errors.New("Session RemoteTimeout must be >= 0")
	}
	if c.Session.StorageTimeout < 0 {
		return errors.New("Session StorageTimeout must be >= 0")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when enabled")
	}

	// Log
	if c.Log.Level != "" {
		if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
			return errors.New("Log Level is invalid")
		}
	}

	return nil
}
