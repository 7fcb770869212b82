package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Environment     string                `mapstructure:"environment"`
	LogLevel        string                `mapstructure:"log_level"`
	Server          ServerConfig          `mapstructure:"server"`
	Database        DatabaseConfig        `mapstructure:"database"`
	Redis           RedisConfig           `mapstructure:"redis"`
	Sentiment       SentimentConfig       `mapstructure:"sentiment"`
	LLM             LLMConfig             `mapstructure:"llm"`
	Ingestion       IngestionConfig       `mapstructure:"ingestion"`
	Recommendations RecommendationsConfig `mapstructure:"recommendations"`
	Cache           CacheConfig           `mapstructure:"cache"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SentimentConfig points at the sentiment sidecar service.
type SentimentConfig struct {
	ServiceURL string `mapstructure:"service_url"`
	Timeout    int    `mapstructure:"timeout"`
}

// LLMConfig configures the chat-completions oracle used for query answering
// and SEO copy.
type LLMConfig struct {
	APIKey    string `mapstructure:"api_key" json:"-" yaml:"-"`
	BaseURL   string `mapstructure:"base_url"`
	Model     string `mapstructure:"model"`
	MaxTokens int    `mapstructure:"max_tokens"`
	Timeout   int    `mapstructure:"timeout"`
}

type IngestionConfig struct {
	MaxRows int `mapstructure:"max_rows"`
}

type RecommendationsConfig struct {
	TopK int `mapstructure:"top_k"`
}

type CacheConfig struct {
	SnapshotTTL string `mapstructure:"snapshot_ttl"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	// Set default values
	setDefaults()

	// Enable environment variable support
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Bind specific environment variables
	if err := viper.BindEnv("llm.api_key", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind OPENAI_API_KEY environment variable: %w", err)
	}

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Normalize environment to lowercase for consistent comparison
	config.Environment = strings.ToLower(config.Environment)

	if config.Recommendations.TopK <= 0 {
		return nil, fmt.Errorf("recommendations.top_k must be positive, got %d", config.Recommendations.TopK)
	}
	if config.Cache.SnapshotTTL != "" {
		if _, err := time.ParseDuration(config.Cache.SnapshotTTL); err != nil {
			return nil, fmt.Errorf("invalid cache snapshot_ttl: %w", err)
		}
	}
	if config.Database.ConnMaxLifetime != "" {
		if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
			return nil, fmt.Errorf("invalid database conn_max_lifetime: %w", err)
		}
	}

	return &config, nil
}

// SnapshotTTL returns the parsed aggregate-cache TTL, falling back to the
// default when unset.
func (c *Config) SnapshotTTL() time.Duration {
	d, err := time.ParseDuration(c.Cache.SnapshotTTL)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

func setDefaults() {
	// Environment
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	// Server
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Database
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.dbname", "merchantlens")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.conn_max_lifetime", "300s")

	// Redis
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Sentiment sidecar
	viper.SetDefault("sentiment.service_url", "http://localhost:3002")
	viper.SetDefault("sentiment.timeout", 15)

	// Language model
	viper.SetDefault("llm.api_key", "")
	viper.SetDefault("llm.base_url", "https://api.openai.com")
	viper.SetDefault("llm.model", "gpt-3.5-turbo")
	viper.SetDefault("llm.max_tokens", 150)
	viper.SetDefault("llm.timeout", 30)

	// Ingestion
	viper.SetDefault("ingestion.max_rows", 50000)

	// Recommendations
	viper.SetDefault("recommendations.top_k", 3)

	// Cache
	viper.SetDefault("cache.snapshot_ttl", "10s")
}
