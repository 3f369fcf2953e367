package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("ECOCART_SERVER_PORT")
		os.Unsetenv("ECOCART_SERVER_ENVIRONMENT")
		os.Unsetenv("ECOCART_OPENAI_API_KEY")
		os.Unsetenv("ECOCART_OPENAI_MODEL")
		os.Unsetenv("ECOCART_OPENAI_FALLBACK_MODEL")
		os.Unsetenv("ECOCART_CACHE_TTL")
		os.Unsetenv("OPENAI_API_KEY")
		os.Unsetenv("OPENAI_MODEL")
		os.Unsetenv("PORT")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		// Check defaults
		if cfg.Server.Port != "5057" {
			t.Errorf("Server.Port = %s, want 5057", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.OpenAI.Model != "gpt-4o-mini" {
			t.Errorf("OpenAI.Model = %s, want gpt-4o-mini", cfg.OpenAI.Model)
		}
		if cfg.OpenAI.FallbackModel != "gpt-4o-mini" {
			t.Errorf("OpenAI.FallbackModel = %s, want gpt-4o-mini", cfg.OpenAI.FallbackModel)
		}
		if cfg.OpenAI.Timeout != 30*time.Second {
			t.Errorf("OpenAI.Timeout = %v, want 30s", cfg.OpenAI.Timeout)
		}
		if cfg.Scraper.Timeout != 8*time.Second {
			t.Errorf("Scraper.Timeout = %v, want 8s", cfg.Scraper.Timeout)
		}
		if len(cfg.Scraper.RetailerDomains) != 1 || cfg.Scraper.RetailerDomains[0] != "amazon" {
			t.Errorf("Scraper.RetailerDomains = %v, want [amazon]", cfg.Scraper.RetailerDomains)
		}
		if len(cfg.Scraper.RetailerSites) == 0 {
			t.Error("Scraper.RetailerSites should have defaults")
		}
		if cfg.Cache.TTL != time.Hour {
			t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
		}
	})

	t.Run("loads without an API key", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil (key absence is a per-request error)", err)
		}
		if cfg.OpenAI.APIKey != "" {
			t.Errorf("OpenAI.APIKey = %s, want empty", cfg.OpenAI.APIKey)
		}
	})

	t.Run("reads unprefixed deployment names", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("OPENAI_API_KEY", "sk-test")
		os.Setenv("OPENAI_MODEL", "gpt-4o")
		os.Setenv("PORT", "8091")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.OpenAI.APIKey != "sk-test" {
			t.Errorf("OpenAI.APIKey = %s, want sk-test", cfg.OpenAI.APIKey)
		}
		if cfg.OpenAI.Model != "gpt-4o" {
			t.Errorf("OpenAI.Model = %s, want gpt-4o", cfg.OpenAI.Model)
		}
		if cfg.Server.Port != "8091" {
			t.Errorf("Server.Port = %s, want 8091", cfg.Server.Port)
		}
	})

	t.Run("prefixed names take precedence", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("OPENAI_API_KEY", "sk-unprefixed")
		os.Setenv("ECOCART_OPENAI_API_KEY", "sk-prefixed")
		os.Setenv("ECOCART_SERVER_ENVIRONMENT", "production")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.OpenAI.APIKey != "sk-prefixed" {
			t.Errorf("OpenAI.APIKey = %s, want sk-prefixed", cfg.OpenAI.APIKey)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)
		os.Chdir(t.TempDir())

		if err := loadEnvFile(); err != nil {
			t.Errorf("loadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("loads variables, skipping comments and blanks", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)
		os.Chdir(t.TempDir())

		envContent := `
# Comment line
TEST_ENV_1=value1

   # Indented comment
TEST_ENV_2 = value2
# TEST_COMMENTED=should_not_load
`
		if err := os.WriteFile(".env", []byte(envContent), 0644); err != nil {
			t.Fatalf("failed to create test .env file: %v", err)
		}
		os.Unsetenv("TEST_ENV_1")
		os.Unsetenv("TEST_ENV_2")
		os.Unsetenv("TEST_COMMENTED")

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_ENV_1") != "value1" {
			t.Errorf("TEST_ENV_1 = %s, want value1", os.Getenv("TEST_ENV_1"))
		}
		if os.Getenv("TEST_ENV_2") != "value2" {
			t.Errorf("TEST_ENV_2 = %s, want value2", os.Getenv("TEST_ENV_2"))
		}
		if os.Getenv("TEST_COMMENTED") != "" {
			t.Error("TEST_COMMENTED should not be loaded from a comment")
		}

		os.Unsetenv("TEST_ENV_1")
		os.Unsetenv("TEST_ENV_2")
	})

	t.Run("doesn't override existing environment variables", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)
		os.Chdir(t.TempDir())

		os.Setenv("TEST_ENV_OVERRIDE", "existing-value")
		defer os.Unsetenv("TEST_ENV_OVERRIDE")

		if err := os.WriteFile(".env", []byte("TEST_ENV_OVERRIDE=new-value"), 0644); err != nil {
			t.Fatalf("failed to create test .env file: %v", err)
		}
		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_ENV_OVERRIDE") != "existing-value" {
			t.Errorf("TEST_ENV_OVERRIDE = %s, want existing-value", os.Getenv("TEST_ENV_OVERRIDE"))
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			OpenAI: OpenAIConfig{
				Model:         "gpt-4o-mini",
				FallbackModel: "gpt-4o-mini",
				Timeout:       30 * time.Second,
			},
			Scraper: ScraperConfig{
				Timeout:         8 * time.Second,
				RetailerDomains: []string{"amazon"},
			},
		}
	}

	t.Run("validates successfully with all required fields", func(t *testing.T) {
		if err := validate(valid()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("fails when model is empty", func(t *testing.T) {
		cfg := valid()
		cfg.OpenAI.Model = ""
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for empty model")
		}
	})

	t.Run("fails for non-positive timeout", func(t *testing.T) {
		cfg := valid()
		cfg.OpenAI.Timeout = 0
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for zero timeout")
		}
	})

	t.Run("fails without retailer domains", func(t *testing.T) {
		cfg := valid()
		cfg.Scraper.RetailerDomains = nil
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for empty retailer domains")
		}
	})
}
