// Package config loads the site and CLI configuration.
//
// Values are layered, later sources winning:
//
//  1. built-in defaults ([Default])
//  2. a .env file in the working directory, if present
//  3. a TOML file (--config, or maffei.toml in the working directory)
//  4. MAFFEI_* environment variables, e.g. MAFFEI_SERVER_ADDR
//  5. command-line flags bound with [Bind]
package config

import (
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/woodfordbl/maffei-design/pkg/errors"
	"github.com/woodfordbl/maffei-design/pkg/gallery"
)

// Config is the complete configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Site      SiteConfig      `toml:"site"`
	Gallery   GalleryConfig   `toml:"gallery"`
	Cache     CacheConfig     `toml:"cache"`
	Forms     FormsConfig     `toml:"forms"`
	Telemetry TelemetryConfig `toml:"telemetry"`
	Log       LogConfig       `toml:"log"`
}

type ServerConfig struct {
	Addr            string        `toml:"addr"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

type SiteConfig struct {
	Name string `toml:"name"`
	// URL is the public base URL used in share links and meta tags.
	URL string `toml:"url"`
	// Content is a YAML content file. Empty uses the embedded content.
	Content string `toml:"content"`
}

type GalleryConfig struct {
	Gap          float64 `toml:"gap"`
	DefaultWidth float64 `toml:"default_width"`
}

// Cache backends.
const (
	CacheFile   = "file"
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	// MemoryEntries bounds the memory backend; 0 means 1024.
	MemoryEntries int `toml:"memory_entries"`
}

// Form store backends.
const (
	FormsMemory = "memory"
	FormsMongo  = "mongo"
)

type FormsConfig struct {
	Backend       string `toml:"backend"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

type TelemetryConfig struct {
	Enabled  bool   `toml:"enabled"`
	Endpoint string `toml:"endpoint"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Addr: ":3000", ShutdownTimeout: 5 * time.Second},
		Site:    SiteConfig{Name: "Maffei Design", URL: "http://localhost:3000"},
		Gallery: GalleryConfig{Gap: gallery.DefaultGap, DefaultWidth: 1200},
		Cache:   CacheConfig{Backend: CacheFile},
		Forms:   FormsConfig{Backend: FormsMemory, MongoDatabase: "maffei"},
		Log:     LogConfig{Level: "info"},
	}
}

// Validate checks value ranges and backend requirements.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr is required")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.shutdown_timeout must be positive")
	}
	if err := errors.ValidateURL(c.Site.URL); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "site.url")
	}
	if !(c.Gallery.Gap >= 0) || math.IsInf(c.Gallery.Gap, 1) {
		return errors.New(errors.ErrCodeInvalidConfig, "gallery.gap must be a finite non-negative number")
	}
	if !(c.Gallery.DefaultWidth > 0) || math.IsInf(c.Gallery.DefaultWidth, 1) {
		return errors.New(errors.ErrCodeInvalidConfig, "gallery.default_width must be a finite positive number")
	}

	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheMemory:
		if c.Cache.MemoryEntries < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.memory_entries must not be negative")
		}
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend must be one of file, memory, redis, none (got %q)", c.Cache.Backend)
	}

	switch c.Forms.Backend {
	case FormsMemory:
	case FormsMongo:
		if c.Forms.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "forms.mongo_uri is required for the mongo backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "forms.backend must be memory or mongo (got %q)", c.Forms.Backend)
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "log.level")
	}
	return nil
}

// LogLevel returns the parsed log level, defaulting to info.
func (c *Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
