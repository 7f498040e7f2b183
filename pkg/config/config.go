// Package config loads the exporter's TOML configuration.
//
// Configuration is optional: every field has a usable default, and a
// missing config path simply yields [Default] plus environment
// overrides. Unknown keys are rejected so typos fail loudly instead of
// silently running with defaults.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/mverhagen/bpdoc/pkg/errors"
)

// Environment variables overriding secret-bearing fields, so
// credentials stay out of checked-in config files.
const (
	EnvRedisAddr = "BPDOC_REDIS_ADDR"
	EnvMongoURI  = "BPDOC_MONGO_URI"
)

// Config is the exporter configuration.
type Config struct {
	// AssetRoot is the directory scanned for asset definitions.
	AssetRoot string `toml:"asset_root"`

	// OutDir is where artifacts are written.
	OutDir string `toml:"out_dir"`

	// Formats lists the artifact formats to produce.
	Formats []string `toml:"formats"`

	// Index controls whether batch exports write the index page.
	Index bool `toml:"index"`

	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Watch  WatchConfig  `toml:"watch"`
}

// CacheConfig selects and configures the artifact cache backend.
type CacheConfig struct {
	// Backend is one of "file", "redis", "mongo", "none".
	Backend string `toml:"backend"`

	// Dir is the file backend's directory. Empty means a per-user
	// default under the OS cache directory.
	Dir string `toml:"dir"`

	// RedisAddr is the redis backend's host:port.
	RedisAddr string `toml:"redis_addr"`

	// MongoURI is the mongo backend's connection string.
	MongoURI string `toml:"mongo_uri"`

	// TTL is a duration string bounding cached artifacts, e.g. "24h".
	TTL string `toml:"ttl"`
}

// TTLDuration parses the TTL field. Empty means zero (no expiry).
func (c CacheConfig) TTLDuration() (time.Duration, error) {
	if c.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid cache.ttl %q", c.TTL)
	}
	return d, nil
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// WatchConfig configures the filesystem watcher.
type WatchConfig struct {
	// Debounce is a duration string, e.g. "500ms".
	Debounce string `toml:"debounce"`
}

// DebounceDuration parses the Debounce field. Empty means zero, which
// lets the watcher fall back to its own default.
func (w WatchConfig) DebounceDuration() (time.Duration, error) {
	if w.Debounce == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(w.Debounce)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid watch.debounce %q", w.Debounce)
	}
	return d, nil
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		OutDir:  "docs/blueprints",
		Formats: []string{"json", "markdown"},
		Index:   true,
		Cache: CacheConfig{
			Backend: "file",
			TTL:     "24h",
		},
		Server: ServerConfig{Addr: ":8484"},
		Watch:  WatchConfig{Debounce: "500ms"},
	}
}

// Load reads the configuration at path, layered over [Default] and
// under the environment overrides. An empty path skips the file and
// returns defaults plus environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %q does not exist", path)
			}
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "failed to read config %q", path)
		}

		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "malformed config %q", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q in %s", undecoded[0].String(), path)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if addr := os.Getenv(EnvRedisAddr); addr != "" {
		cfg.Cache.RedisAddr = addr
	}
	if uri := os.Getenv(EnvMongoURI); uri != "" {
		cfg.Cache.MongoURI = uri
	}
}

// Validate checks field values that hold enumerations or durations.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "", "file", "redis", "mongo", "none":
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"unknown cache.backend %q (known: file, redis, mongo, none)", c.Cache.Backend)
	}
	if _, err := c.Cache.TTLDuration(); err != nil {
		return err
	}
	if _, err := c.Watch.DebounceDuration(); err != nil {
		return err
	}
	for _, format := range c.Formats {
		if err := errors.ValidateFormat(format); err != nil {
			return err
		}
	}
	return nil
}
