// Package config provides centralized configuration loading via Viper,
// narrowed to the enumerated option surface of §6.5 plus the ambient
// sections (server, logging, auth) every deployment needs.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration, loaded once at
// startup and immutable thereafter (§5 "Shared mutable resources").
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Cleanup   CleanupConfig   `mapstructure:"cleanup"`
	FileStore FileStoreConfig `mapstructure:"filestore"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LLMConfig mirrors §6.5's llm.* options. APIKey is used as-is in
// development; APIKeyEncryptedHex is the production path — an
// AES-GCM-sealed key (hex-encoded) decrypted once at startup via
// outbound.Cipher rather than held in plaintext config.
type LLMConfig struct {
	Provider             string  `mapstructure:"provider"` // "openai" or "local"
	BaseURL              string  `mapstructure:"base_url"`
	APIKey               string  `mapstructure:"api_key"`
	APIKeyEncryptedHex   string  `mapstructure:"api_key_encrypted_hex"`
	Model                string  `mapstructure:"model"`
	Temperature          float64 `mapstructure:"temperature"`
	TopP                 float64 `mapstructure:"top_p"`
	MaxOutputTokens      int     `mapstructure:"max_output_tokens"`
	RetryBudget          int     `mapstructure:"retry_budget"`
	InputTokenRateCents  float64 `mapstructure:"input_token_rate_cents"`
	OutputTokenRateCents float64 `mapstructure:"output_token_rate_cents"`
}

// CacheConfig mirrors §6.5's cache.* options.
type CacheConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	LookupTimeout time.Duration `mapstructure:"lookup_timeout_ms"`
	SaveTimeout   time.Duration `mapstructure:"save_timeout_ms"`
	EntryTTL      time.Duration `mapstructure:"entry_ttl"`
}

// CleanupConfig mirrors §6.5's cleanup.* options.
type CleanupConfig struct {
	Enabled       bool                    `mapstructure:"enabled"`
	Structured    StructuredCleanupConfig `mapstructure:"structured"`
	Section       SectionCleanupConfig    `mapstructure:"section"`
	ContentFilter struct {
		MinOutputSize int `mapstructure:"min_output_size"`
	} `mapstructure:"content_filter"`
	Fallback struct {
		MinSafeSize int `mapstructure:"min_safe_size"`
	} `mapstructure:"fallback"`
}

type StructuredCleanupConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	MinCompleteness int  `mapstructure:"min_completeness"`
}

type SectionCleanupConfig struct {
	Enabled              bool     `mapstructure:"enabled"`
	MinConfidence        int      `mapstructure:"min_confidence"`
	Keywords             []string `mapstructure:"keywords"`
	ListBonusMinCount    int      `mapstructure:"list_bonus_min_count"`
	HeadingBonusMinCount int      `mapstructure:"heading_bonus_min_count"`
	LengthBonusThreshold int      `mapstructure:"length_bonus_threshold"`
}

// FileStoreConfig mirrors §6.5's filestore.* options.
type FileStoreConfig struct {
	DefaultFolderName string `mapstructure:"default_folder_name"`
	Backend           string `mapstructure:"backend"` // "s3" or "memory"
	S3Bucket          string `mapstructure:"s3_bucket"`
	S3Region          string `mapstructure:"s3_region"`
}

type AuthConfig struct {
	JWTPublicKeyPEM string        `mapstructure:"jwt_public_key_pem"`
	CipherKeyHex    string        `mapstructure:"cipher_key_hex"`
	TokenLeeway     time.Duration `mapstructure:"token_leeway"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
	PoolSize int    `mapstructure:"pool_size"`
}

// TracingConfig controls the request-span sampling rate; this build has
// no exporter registered, so spans stay in-process until one is wired.
type TracingConfig struct {
	Enabled       bool    `mapstructure:"enabled"`
	SamplingRatio float64 `mapstructure:"sampling_ratio"`
}

// Load reads configuration from configPath (or the default search path)
// plus ALCHEMORSEL_*-prefixed environment overrides, applying defaults
// for anything unset.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/cookbook")
	}

	v.SetEnvPrefix("ALCHEMORSEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "cookbook-extractor")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "30s")

	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.top_p", 1.0)
	v.SetDefault("llm.max_output_tokens", 2048)
	v.SetDefault("llm.retry_budget", 1)
	v.SetDefault("llm.input_token_rate_cents", 0.000015)
	v.SetDefault("llm.output_token_rate_cents", 0.00006)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.lookup_timeout_ms", "500ms")
	v.SetDefault("cache.save_timeout_ms", "2s")
	v.SetDefault("cache.entry_ttl", "720h")

	v.SetDefault("cleanup.enabled", true)
	v.SetDefault("cleanup.structured.enabled", true)
	v.SetDefault("cleanup.structured.min_completeness", 50)
	v.SetDefault("cleanup.section.enabled", true)
	v.SetDefault("cleanup.section.min_confidence", 30)
	v.SetDefault("cleanup.section.list_bonus_min_count", 2)
	v.SetDefault("cleanup.section.heading_bonus_min_count", 2)
	v.SetDefault("cleanup.section.length_bonus_threshold", 1000)
	v.SetDefault("cleanup.content_filter.min_output_size", 200)
	v.SetDefault("cleanup.fallback.min_safe_size", 500)

	v.SetDefault("filestore.default_folder_name", "cookbook")
	v.SetDefault("filestore.backend", "memory")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("auth.token_leeway", "30s")

	v.SetDefault("tracing.enabled", true)
	v.SetDefault("tracing.sampling_ratio", 0.1)
}

// Validate enforces the invariants Load's defaults can't satisfy alone.
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}
	if c.LLM.Provider != "openai" && c.LLM.Provider != "local" {
		return fmt.Errorf("llm.provider must be \"openai\" or \"local\", got %q", c.LLM.Provider)
	}
	if c.FileStore.Backend == "s3" && c.FileStore.S3Bucket == "" {
		return fmt.Errorf("filestore.s3_bucket is required when filestore.backend is \"s3\"")
	}
	if c.App.Environment == "production" && c.LLM.APIKey == "" && c.LLM.APIKeyEncryptedHex == "" && c.LLM.Provider == "openai" {
		return fmt.Errorf("llm.api_key or llm.api_key_encrypted_hex is required in production")
	}
	if c.Tracing.SamplingRatio < 0 || c.Tracing.SamplingRatio > 1 {
		return fmt.Errorf("tracing.sampling_ratio must be between 0 and 1, got %v", c.Tracing.SamplingRatio)
	}
	return nil
}
