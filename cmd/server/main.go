package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ecocart/backend/config"
	httpDelivery "github.com/ecocart/backend/internal/delivery/http"
	"github.com/ecocart/backend/internal/infrastructure/cache"
	"github.com/ecocart/backend/internal/infrastructure/llm"
	"github.com/ecocart/backend/internal/infrastructure/scraper"
	"github.com/ecocart/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting EcoCart Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Default model: %s (fallback: %s)", cfg.OpenAI.Model, cfg.OpenAI.FallbackModel)

	if cfg.OpenAI.APIKey != "" {
		log.Printf("OpenAI API configured (key: %s...)", cfg.OpenAI.APIKey[:min(8, len(cfg.OpenAI.APIKey))])
	} else {
		log.Printf("WARNING: OPENAI_API_KEY not configured - /search and /judge will return 400!")
	}

	// Initialize infrastructure dependencies
	memoryCache := cache.NewMemoryCache()
	log.Printf("Judge cache TTL: %s", cfg.Cache.TTL)

	llmClient := llm.NewClient(llm.Config{
		APIKey:        cfg.OpenAI.APIKey,
		DefaultModel:  cfg.OpenAI.Model,
		FallbackModel: cfg.OpenAI.FallbackModel,
		Timeout:       cfg.OpenAI.Timeout,
	})

	fetcher := scraper.NewFetcher(scraper.FetcherConfig{
		Timeout:   cfg.Scraper.Timeout,
		UserAgent: cfg.Scraper.UserAgent,
	})
	enricher := scraper.NewEnricher(fetcher, cfg.Scraper.RetailerDomains)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		llmClient.SetDebug(true)
		enricher.SetDebug(true)
		log.Printf("Debug mode enabled for OpenAI client and enricher")
	}

	// Initialize usecase layer
	searchService := usecase.NewSearchService(
		llmClient,
		enricher,
		fetcher,
		memoryCache,
		usecase.SearchServiceConfig{
			CacheTTL:        cfg.Cache.TTL,
			RetailerDomains: cfg.Scraper.RetailerDomains,
			RetailerSites:   cfg.Scraper.RetailerSites,
		},
	)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(searchService, cfg)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
