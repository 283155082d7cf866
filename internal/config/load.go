package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	coded "github.com/woodfordbl/maffei-design/pkg/errors"
)

// DefaultFile is read when no config path is given and it exists.
const DefaultFile = "maffei.toml"

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "MAFFEI"

// LoadOptions selects the sources for [Load].
type LoadOptions struct {
	// Path is a TOML file. Empty tries DefaultFile.
	Path string
	// EnvFile is a dotenv file. Empty tries ".env".
	EnvFile string
	// Flags holds flags previously registered with Bind.
	Flags *pflag.FlagSet
}

// Load builds the configuration from all sources and validates it.
func Load(opts LoadOptions) (*Config, error) {
	cfg := Default()

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, coded.Wrap(coded.ErrCodeInvalidConfig, err, "load %s", envFile)
	}

	path := opts.Path
	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, coded.Wrap(coded.ErrCodeFileNotFound, err, "config file %s not found", path)
			}
			return nil, coded.Wrap(coded.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if opts.Flags != nil {
		for key, name := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, coded.Wrap(coded.ErrCodeInvalidConfig, err, "bind flag %s", name)
				}
			}
		}
	}
	applyOverrides(v, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// flagKeys maps config keys to the flag names registered by Bind.
var flagKeys = map[string]string{
	"server.addr":       "addr",
	"site.content":      "content",
	"site.url":          "site-url",
	"cache.backend":     "cache",
	"forms.backend":     "forms",
	"log.level":         "log-level",
	"gallery.gap":       "gap",
	"telemetry.enabled": "telemetry",
}

// Bind registers the flags that can override configuration keys.
func Bind(flags *pflag.FlagSet) {
	flags.String("addr", "", "listen address (server.addr)")
	flags.String("content", "", "content YAML file (site.content)")
	flags.String("site-url", "", "public site URL (site.url)")
	flags.String("cache", "", "cache backend: file, memory, redis, none (cache.backend)")
	flags.String("forms", "", "form store: memory, mongo (forms.backend)")
	flags.String("log-level", "", "log level (log.level)")
	flags.Float64("gap", 0, "gallery gap in pixels (gallery.gap)")
	flags.Bool("telemetry", false, "export OpenTelemetry traces (telemetry.enabled)")
}

func applyOverrides(v *viper.Viper, c *Config) {
	setString(v, "server.addr", &c.Server.Addr)
	setDuration(v, "server.shutdown_timeout", &c.Server.ShutdownTimeout)
	setString(v, "site.name", &c.Site.Name)
	setString(v, "site.url", &c.Site.URL)
	setString(v, "site.content", &c.Site.Content)
	setFloat(v, "gallery.gap", &c.Gallery.Gap)
	setFloat(v, "gallery.default_width", &c.Gallery.DefaultWidth)
	setString(v, "cache.backend", &c.Cache.Backend)
	setString(v, "cache.dir", &c.Cache.Dir)
	setString(v, "cache.redis_addr", &c.Cache.RedisAddr)
	setString(v, "cache.redis_password", &c.Cache.RedisPassword)
	setInt(v, "cache.redis_db", &c.Cache.RedisDB)
	setInt(v, "cache.memory_entries", &c.Cache.MemoryEntries)
	setString(v, "forms.backend", &c.Forms.Backend)
	setString(v, "forms.mongo_uri", &c.Forms.MongoURI)
	setString(v, "forms.mongo_database", &c.Forms.MongoDatabase)
	setBool(v, "telemetry.enabled", &c.Telemetry.Enabled)
	setString(v, "telemetry.endpoint", &c.Telemetry.Endpoint)
	setString(v, "log.level", &c.Log.Level)
}

func setString(v *viper.Viper, key string, dst *string) {
	if v.IsSet(key) {
		*dst = v.GetString(key)
	}
}

func setFloat(v *viper.Viper, key string, dst *float64) {
	if v.IsSet(key) {
		*dst = v.GetFloat64(key)
	}
}

func setInt(v *viper.Viper, key string, dst *int) {
	if v.IsSet(key) {
		*dst = v.GetInt(key)
	}
}

func setBool(v *viper.Viper, key string, dst *bool) {
	if v.IsSet(key) {
		*dst = v.GetBool(key)
	}
}

func setDuration(v *viper.Viper, key string, dst *time.Duration) {
	if v.IsSet(key) {
		*dst = v.GetDuration(key)
	}
}
