// Package config loads pixvault configuration from an optional YAML file
// with environment-variable overlay for secrets.
//
// Secrets never live in the file: the access PIN and the object-store
// credentials come from PIXVAULT_PIN, PIXVAULT_ACCESS_KEY and
// PIXVAULT_SECRET_KEY. A missing secret is a config error reported to the
// operator at startup, never a runtime fault.
package config

import (
	"os"
	"time"

	"github.com/nmurali/pixvault/internal/errs"
	"go.yaml.in/yaml/v3"
)

// Environment variable names for the secret overlay.
const (
	EnvPIN       = "PIXVAULT_PIN"
	EnvAccessKey = "PIXVAULT_ACCESS_KEY"
	EnvSecretKey = "PIXVAULT_SECRET_KEY"
	EnvEndpoint  = "PIXVAULT_ENDPOINT"
	EnvBucket    = "PIXVAULT_BUCKET"
)

// Config is the full pixvault configuration tree.
type Config struct {
	Server  Server  `yaml:"server"`
	Log     Log     `yaml:"log"`
	Storage Storage `yaml:"storage"`
	Auth    Auth    `yaml:"auth"`
	Gallery Gallery `yaml:"gallery"`
}

// Server configures the HTTP shell.
type Server struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr"`
}

// Log configures the logger.
type Log struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// Storage configures the object store gateway. Credentials are
// env-supplied and never appear in the YAML file.
type Storage struct {
	Endpoint  string `yaml:"endpoint"`
	UseSSL    bool   `yaml:"use_ssl"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"-"`
	SecretKey string `yaml:"-"`
}

// Auth configures the PIN gate.
type Auth struct {
	PIN            string   `yaml:"-"`
	MaxAttempts    int      `yaml:"max_attempts"`
	Lockout        Duration `yaml:"lockout"`
	SessionTimeout Duration `yaml:"session_timeout"`
}

// Gallery configures listing, pagination and thumbnails.
type Gallery struct {
	ImagesPerPage   int      `yaml:"images_per_page"`
	MaxKeys         int      `yaml:"max_keys"`
	ListingTTL      Duration `yaml:"listing_ttl"`
	ThumbnailTTL    Duration `yaml:"thumbnail_ttl"`
	PreviewBound    int      `yaml:"preview_bound"`
	FullscreenBound int      `yaml:"fullscreen_bound"`
	// Extensions is the recognized image suffix list, matched
	// case-insensitively. Configurable so formats like .tiff can be
	// added without a rebuild.
	Extensions []string `yaml:"extensions"`
}

// Duration wraps time.Duration so YAML values like "300s" or "1h" parse.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the stock configuration: 8 images per page, 300px
// previews, 5 attempts before a one-hour lockout, 12 hour sessions.
func Default() *Config {
	return &Config{
		Server: Server{Addr: ":8080"},
		Log:    Log{Level: "info", Format: "json"},
		Auth: Auth{
			MaxAttempts:    5,
			Lockout:        Duration(time.Hour),
			SessionTimeout: Duration(12 * time.Hour),
		},
		Gallery: Gallery{
			ImagesPerPage:   8,
			MaxKeys:         1000,
			ListingTTL:      Duration(5 * time.Minute),
			ThumbnailTTL:    Duration(time.Hour),
			PreviewBound:    300,
			FullscreenBound: 1440,
			Extensions:      []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp"},
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path
// (skipped when path is empty), then the environment overlay, then
// validation. Validation failures are ErrKindConfig.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, errs.Wrap(errs.ErrKindConfig, "cannot read config file "+path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, errs.Wrap(errs.ErrKindConfig, "cannot parse config file "+path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Auth.PIN = os.Getenv(EnvPIN)
	cfg.Storage.AccessKey = os.Getenv(EnvAccessKey)
	cfg.Storage.SecretKey = os.Getenv(EnvSecretKey)

	if v := os.Getenv(EnvEndpoint); v != "" {
		cfg.Storage.Endpoint = v
	}
	if v := os.Getenv(EnvBucket); v != "" {
		cfg.Storage.Bucket = v
	}
}

// Validate checks that every startup-required field is present.
func (c *Config) Validate() error {
	switch {
	case c.Auth.PIN == "":
		return errs.New(errs.ErrKindConfig, "access PIN not set ("+EnvPIN+")")
	case c.Storage.AccessKey == "":
		return errs.New(errs.ErrKindConfig, "storage access key not set ("+EnvAccessKey+")")
	case c.Storage.SecretKey == "":
		return errs.New(errs.ErrKindConfig, "storage secret key not set ("+EnvSecretKey+")")
	case c.Storage.Endpoint == "":
		return errs.New(errs.ErrKindConfig, "storage endpoint not set")
	case c.Storage.Bucket == "":
		return errs.New(errs.ErrKindConfig, "bucket name not set")
	case c.Auth.MaxAttempts <= 0:
		return errs.New(errs.ErrKindConfig, "auth.max_attempts must be positive")
	case c.Gallery.ImagesPerPage <= 0:
		return errs.New(errs.ErrKindConfig, "gallery.images_per_page must be positive")
	}
	return nil
}
