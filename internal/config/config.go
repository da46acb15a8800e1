// Package config loads application configuration from a YAML file and
// environment variables via Viper.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application. Values are read
// from a config file or environment variables (FITFLOW_ prefixed,
// nested keys joined with underscores, e.g. llm.model -> FITFLOW_LLM_MODEL).
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Store   StoreConfig   `mapstructure:"store"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Search  SearchConfig  `mapstructure:"search"`
	Plans   PlansConfig   `mapstructure:"plans"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// StoreConfig selects the session checkpoint backend.
type StoreConfig struct {
	// Backend is one of "memory", "file", or "redis".
	Backend string `mapstructure:"backend"`
	// Path is the checkpoint directory for the file backend.
	Path string `mapstructure:"path"`
	// TTL evicts abandoned sessions; zero keeps them forever.
	TTL time.Duration `mapstructure:"ttl"`

	// EncryptionKey, when set, encrypts checkpoints at rest. The key
	// material is derived from this passphrase.
	EncryptionKey string `mapstructure:"encryption_key"`
	// EncryptionFallbackKeys are previous passphrases tried during
	// decryption, for rotating keys without losing stored sessions.
	EncryptionFallbackKeys []string `mapstructure:"encryption_fallback_keys"`

	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LLMConfig struct {
	Model  string `mapstructure:"model"`
	APIKey string `mapstructure:"api_key"`
}

type SearchConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// PlansConfig controls where approved plan artifacts are written.
type PlansConfig struct {
	Dir string `mapstructure:"dir"`
}

type EngineConfig struct {
	MaxRevisions int `mapstructure:"max_revisions"`
}

type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is "text" or "json".
	Format string `mapstructure:"format"`
}

// Load reads configuration from path (a directory containing config.yaml)
// and the environment. A missing config file is fine; defaults and
// environment variables carry the day.
func Load(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("FITFLOW")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("server.address", ":8080")
	v.SetDefault("store.backend", "memory")
	v.SetDefault("store.path", ".fitflow/sessions")
	v.SetDefault("store.ttl", "24h")
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("plans.dir", ".")
	v.SetDefault("engine.max_revisions", 5)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
