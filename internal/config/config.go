// Package config loads the folio server configuration from a TOML file,
// with environment-variable overrides for secrets.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/skovert/folio/pkg/errors"
)

// appName is the application name used for directories and env prefixes.
const appName = "folio"

// Environment variables that override file values. Secrets belong here, not
// in the config file.
const (
	EnvMongoURI      = "FOLIO_MONGO_URI"
	EnvRedisPassword = "FOLIO_REDIS_PASSWORD"
	EnvSMTPPassword  = "FOLIO_SMTP_PASSWORD"
	EnvPasswordHash  = "FOLIO_ADMIN_PASSWORD_HASH"
)

// =============================================================================
// Config Types
// =============================================================================

// Config is the full server configuration.
type Config struct {
	Server   Server   `toml:"server"`
	Store    Store    `toml:"store"`
	Cache    Cache    `toml:"cache"`
	Sessions Sessions `toml:"sessions"`
	Auth     Auth     `toml:"auth"`
	Contact  Contact  `toml:"contact"`
	SMTP     SMTP     `toml:"smtp"`
}

// Server configures the HTTP listener.
type Server struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `toml:"addr"`

	// BaseURL is the externally visible URL, used in outgoing mail.
	BaseURL string `toml:"base_url"`
}

// Store configures the document backend.
type Store struct {
	// Backend is one of "mongo", "file" or "memory".
	Backend string `toml:"backend"`

	// MongoURI is the MongoDB connection string for the mongo backend.
	MongoURI string `toml:"mongo_uri"`

	// Database is the MongoDB database name.
	Database string `toml:"database"`

	// Dir is the data directory for the file backend, and the snapshot
	// directory used as the offline fallback for the mongo backend.
	Dir string `toml:"dir"`
}

// Cache configures the read cache.
type Cache struct {
	// Backend is one of "redis", "file" or "none".
	Backend string `toml:"backend"`

	// Addr is the Redis address for the redis backend.
	Addr string `toml:"addr"`

	// Password is the Redis password. Overridable via FOLIO_REDIS_PASSWORD.
	Password string `toml:"password"`

	// DB is the Redis database number.
	DB int `toml:"db"`

	// TTL bounds cache staleness.
	TTL duration `toml:"ttl"`
}

// Sessions configures admin session storage.
type Sessions struct {
	// Backend is one of "memory" or "redis".
	Backend string `toml:"backend"`

	// Addr is the Redis address for the redis backend. Defaults to the
	// cache address when empty.
	Addr string `toml:"addr"`

	// TTL is the session lifetime.
	TTL duration `toml:"ttl"`
}

// Auth configures the single admin account.
type Auth struct {
	// Email is the admin login email.
	Email string `toml:"email"`

	// PasswordHash is the bcrypt hash of the admin password, as produced by
	// "folio auth hash". Overridable via FOLIO_ADMIN_PASSWORD_HASH.
	PasswordHash string `toml:"password_hash"`
}

// Contact configures the public contact form.
type Contact struct {
	// Recipient is the address contact messages are delivered to.
	Recipient string `toml:"recipient"`

	// Window is the per-client rate-limit window.
	Window duration `toml:"window"`
}

// SMTP configures outgoing mail. Leave Host empty to disable delivery.
type SMTP struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
}

// duration wraps time.Duration so TOML values can be written as "5m".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// =============================================================================
// Loading
// =============================================================================

// Default returns a configuration suitable for local development: file store
// and in-memory sessions, no cache, no mail delivery.
func Default() Config {
	cfg := Config{}
	cfg.setDefaults()
	return cfg
}

// Load reads the config file at path, applies defaults and environment
// overrides, and validates the result. A missing file is not an error; the
// defaults are used.
func Load(path string) (Config, error) {
	var cfg Config
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	cfg.setDefaults()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultPath returns the config file path using the XDG standard
// (~/.config/folio/config.toml).
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// DataDir returns the default data directory using the XDG standard
// (~/.local/share/folio/).
func DataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

func (c *Config) setDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = "http://localhost:8080"
	}
	if c.Store.Backend == "" {
		c.Store.Backend = "file"
	}
	if c.Store.Database == "" {
		c.Store.Database = appName
	}
	if c.Store.Dir == "" {
		if dir, err := DataDir(); err == nil {
			c.Store.Dir = dir
		}
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "none"
	}
	if c.Cache.Addr == "" {
		c.Cache.Addr = "localhost:6379"
	}
	if c.Cache.TTL.Duration <= 0 {
		c.Cache.TTL.Duration = 5 * time.Minute
	}
	if c.Sessions.Backend == "" {
		c.Sessions.Backend = "memory"
	}
	if c.Sessions.Addr == "" {
		c.Sessions.Addr = c.Cache.Addr
	}
	if c.Sessions.TTL.Duration <= 0 {
		c.Sessions.TTL.Duration = 24 * time.Hour
	}
	if c.Contact.Window.Duration <= 0 {
		c.Contact.Window.Duration = time.Minute
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvMongoURI); v != "" {
		c.Store.MongoURI = v
	}
	if v := os.Getenv(EnvRedisPassword); v != "" {
		c.Cache.Password = v
	}
	if v := os.Getenv(EnvSMTPPassword); v != "" {
		c.SMTP.Password = v
	}
	if v := os.Getenv(EnvPasswordHash); v != "" {
		c.Auth.PasswordHash = v
	}
}

// Validate checks backend names and required cross-field combinations.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "mongo":
		if c.Store.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store backend %q requires mongo_uri or %s", c.Store.Backend, EnvMongoURI)
		}
	case "file", "memory":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q (want mongo, file or memory)", c.Store.Backend)
	}

	switch c.Cache.Backend {
	case "redis", "file", "none":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (want redis, file or none)", c.Cache.Backend)
	}

	switch c.Sessions.Backend {
	case "memory", "redis":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown sessions backend %q (want memory or redis)", c.Sessions.Backend)
	}

	if c.Auth.Email != "" {
		if err := errors.ValidateEmail(c.Auth.Email); err != nil {
			return err
		}
		if c.Auth.PasswordHash == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "auth.email is set but no password hash is configured; run 'folio auth hash'")
		}
	}
	if c.Contact.Recipient != "" {
		if err := errors.ValidateEmail(c.Contact.Recipient); err != nil {
			return err
		}
	}
	return nil
}

// MailEnabled reports whether outgoing mail delivery is configured.
func (c *Config) MailEnabled() bool {
	return c.SMTP.Host != "" && c.Contact.Recipient != ""
}

// AdminEnabled reports whether the admin panel can accept logins.
func (c *Config) AdminEnabled() bool {
	return c.Auth.Email != "" && c.Auth.PasswordHash != ""
}
