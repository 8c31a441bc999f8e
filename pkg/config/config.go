// ABOUTME: Configuration management for the application with file and environment variable support
// ABOUTME: Loads defaults, an optional digests-a11y.yaml and env overrides through viper

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Log         LogConfig         `mapstructure:"log"`
	Translation TranslationConfig `mapstructure:"translation"`
	Speech      SpeechConfig      `mapstructure:"speech"`
	Captions    CaptionsConfig    `mapstructure:"captions"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string `mapstructure:"port"`

	AllowedOrigins []string `mapstructure:"allowed_origins"`

	// RequestsPerSecond and Burst configure the per-client API rate limit
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// CacheConfig holds durable store configuration
type CacheConfig struct {
	// Type specifies the store backend (sqlite/redis/memory)
	Type string `mapstructure:"type"`

	Redis  RedisConfig  `mapstructure:"redis"`
	SQLite SQLiteConfig `mapstructure:"sqlite"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string `mapstructure:"address"`

	// Password is the Redis authentication password
	Password string `mapstructure:"password"`

	// DB is the Redis database number
	DB int `mapstructure:"db"`

	// KeyPrefix namespaces every key written by this service
	KeyPrefix string `mapstructure:"key_prefix"`
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig selects the logging backend
type LogConfig struct {
	Backend string `mapstructure:"backend"` // logrus or zap
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"` // json or text
	File    string `mapstructure:"file"`
}

// TranslationConfig configures the translation service and cache front end
type TranslationConfig struct {
	Endpoint       string        `mapstructure:"endpoint"`
	Email          string        `mapstructure:"email"`
	MaxInputRunes  int           `mapstructure:"max_input_runes"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	Workers        int           `mapstructure:"workers"`

	// RateLimit caps outbound requests per second; 0 is unlimited
	RateLimit float64 `mapstructure:"rate_limit"`
}

// SpeechConfig selects the synthesis engine
type SpeechConfig struct {
	Engine         string `mapstructure:"engine"` // google, console or none
	Language       string `mapstructure:"language"`
	WordsPerMinute int    `mapstructure:"words_per_minute"`
}

// CaptionsConfig selects the recognition engine and microphone
type CaptionsConfig struct {
	Engine         string `mapstructure:"engine"` // deepgram or none
	Language       string `mapstructure:"language"`
	DeepgramAPIKey string `mapstructure:"deepgram_api_key"`
	DeepgramModel  string `mapstructure:"deepgram_model"`
	FFmpegCommand  string `mapstructure:"ffmpeg_command"`
	InputFormat    string `mapstructure:"input_format"`
	InputDevice    string `mapstructure:"input_device"`
}

// environment variable names for config keys
var envBindings = map[string]string{
	"server.port":                "PORT",
	"server.allowed_origins":     "ALLOWED_ORIGINS",
	"server.requests_per_second": "RATE_LIMIT_RPS",
	"server.burst":               "RATE_LIMIT_BURST",
	"cache.type":                 "CACHE_TYPE",
	"cache.redis.address":        "REDIS_ADDRESS",
	"cache.redis.password":       "REDIS_PASSWORD",
	"cache.redis.db":             "REDIS_DB",
	"cache.redis.key_prefix":     "REDIS_KEY_PREFIX",
	"cache.sqlite.path":          "SQLITE_PATH",
	"log.backend":                "LOG_BACKEND",
	"log.level":                  "LOG_LEVEL",
	"log.format":                 "LOG_FORMAT",
	"log.file":                   "LOG_FILE",
	"translation.endpoint":       "TRANSLATION_ENDPOINT",
	"translation.email":          "TRANSLATION_EMAIL",
	"translation.rate_limit":     "TRANSLATION_RATE_LIMIT",
	"speech.engine":              "SPEECH_ENGINE",
	"speech.language":            "SPEECH_LANGUAGE",
	"captions.engine":            "CAPTIONS_ENGINE",
	"captions.language":          "CAPTIONS_LANGUAGE",
	"captions.deepgram_api_key":  "DEEPGRAM_API_KEY",
	"captions.input_device":      "CAPTIONS_INPUT_DEVICE",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.requests_per_second", 10.0)
	v.SetDefault("server.burst", 20)

	v.SetDefault("cache.type", "sqlite")
	v.SetDefault("cache.redis.address", "localhost:6379")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.key_prefix", "a11y:")
	v.SetDefault("cache.sqlite.path", "a11y-cache.db")

	v.SetDefault("log.backend", "logrus")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")

	v.SetDefault("translation.endpoint", "https://api.mymemory.translated.net/get")
	v.SetDefault("translation.email", "")
	v.SetDefault("translation.max_input_runes", 500)
	v.SetDefault("translation.request_timeout", 10*time.Second)
	v.SetDefault("translation.workers", 4)
	v.SetDefault("translation.rate_limit", 0.0)

	v.SetDefault("speech.engine", "console")
	v.SetDefault("speech.language", "en-US")
	v.SetDefault("speech.words_per_minute", 150)

	v.SetDefault("captions.engine", "none")
	v.SetDefault("captions.language", "en-US")
	v.SetDefault("captions.deepgram_api_key", "")
	v.SetDefault("captions.deepgram_model", "nova-2")
	v.SetDefault("captions.ffmpeg_command", "ffmpeg")
	v.SetDefault("captions.input_format", "pulse")
	v.SetDefault("captions.input_device", "default")
}

// Load reads configuration. An empty configFile searches for digests-a11y.yaml
// in the working directory and $HOME/.digests-a11y; a missing file is not an error.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("digests-a11y")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.digests-a11y")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Server.AllowedOrigins = splitList(cfg.Server.AllowedOrigins)
	return &cfg, nil
}

// LoadFromEnv loads defaults and environment variables only
func LoadFromEnv() (*Config, error) {
	return Load("")
}

// splitList accepts both YAML lists and comma-separated env values
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	if c.Server.RequestsPerSecond < 0 || c.Server.Burst < 0 {
		return errors.New("rate limit values cannot be negative")
	}

	switch c.Cache.Type {
	case "memory":
	case "redis":
		if c.Cache.Redis.Address == "" {
			return errors.New("redis address cannot be empty when using redis cache")
		}
	case "sqlite":
		if c.Cache.SQLite.Path == "" {
			return errors.New("sqlite path cannot be empty when using sqlite cache")
		}
	default:
		return errors.New("cache type must be 'sqlite', 'redis' or 'memory'")
	}

	if c.Log.Backend != "logrus" && c.Log.Backend != "zap" {
		return errors.New("log backend must be 'logrus' or 'zap'")
	}

	if c.Log.Format != "json" && c.Log.Format != "text" {
		return errors.New("log format must be 'json' or 'text'")
	}

	if c.Translation.MaxInputRunes < 1 {
		return errors.New("translation max input runes must be at least 1")
	}

	switch c.Speech.Engine {
	case "google", "console", "none":
	default:
		return errors.New("speech engine must be 'google', 'console' or 'none'")
	}

	switch c.Captions.Engine {
	case "none":
	case "deepgram":
		if c.Captions.DeepgramAPIKey == "" {
			return errors.New("DEEPGRAM_API_KEY is required when using deepgram captions")
		}
	default:
		return errors.New("captions engine must be 'deepgram' or 'none'")
	}

	return nil
}
