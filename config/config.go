package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	OpenAI  OpenAIConfig
	Scraper ScraperConfig
	Cache   CacheConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// OpenAIConfig holds OpenAI API configuration
type OpenAIConfig struct {
	APIKey        string        `mapstructure:"api_key"`
	Model         string        `mapstructure:"model"`
	FallbackModel string        `mapstructure:"fallback_model"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// ScraperConfig holds retailer-page enrichment configuration
type ScraperConfig struct {
	Timeout         time.Duration `mapstructure:"timeout"`
	UserAgent       string        `mapstructure:"user_agent"`
	RetailerDomains []string      `mapstructure:"retailer_domains"`
	RetailerSites   []string      `mapstructure:"retailer_sites"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env file if present (for local development)
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/ecocart/")

	// Environment variable settings
	v.SetEnvPrefix("ECOCART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The extension's deployment docs use these unprefixed names
	v.BindEnv("openai.api_key", "ECOCART_OPENAI_API_KEY", "OPENAI_API_KEY")
	v.BindEnv("openai.model", "ECOCART_OPENAI_MODEL", "OPENAI_MODEL")
	v.BindEnv("server.port", "ECOCART_SERVER_PORT", "PORT")

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "5057")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// OpenAI defaults. The API key has no default: a missing key is a
	// per-request 400, not a startup failure, so the extension can still
	// reach /health.
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.fallback_model", "gpt-4o-mini")
	v.SetDefault("openai.timeout", "30s")

	// Scraper defaults
	v.SetDefault("scraper.timeout", "8s")
	v.SetDefault("scraper.user_agent", "EcoCart/1.0")
	v.SetDefault("scraper.retailer_domains", []string{"amazon"})
	v.SetDefault("scraper.retailer_sites", []string{
		"amazon.com", "amazon.co.uk", "amazon.de", "amazon.fr",
		"amazon.ca", "amazon.com.au",
	})

	// Cache defaults
	v.SetDefault("cache.ttl", "1h")
}

// loadEnvFile loads KEY=VALUE pairs from a .env file in the working
// directory into the process environment. A missing file is not an error,
// and variables already set in the environment are never overridden.
func loadEnvFile() error {
	data, err := os.ReadFile(".env")
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		os.Setenv(key, strings.TrimSpace(value))
	}
	return nil
}

// validate validates the configuration
func validate(config *Config) error {
	if config.OpenAI.Model == "" {
		return fmt.Errorf("OpenAI model must not be empty")
	}

	if config.OpenAI.FallbackModel == "" {
		return fmt.Errorf("OpenAI fallback model must not be empty")
	}

	if config.OpenAI.Timeout <= 0 {
		return fmt.Errorf("OpenAI timeout must be positive, got: %s", config.OpenAI.Timeout)
	}

	if config.Scraper.Timeout <= 0 {
		return fmt.Errorf("scraper timeout must be positive, got: %s", config.Scraper.Timeout)
	}

	if len(config.Scraper.RetailerDomains) == 0 {
		return fmt.Errorf("at least one retailer domain is required")
	}

	return nil
}
