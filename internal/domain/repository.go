package domain

import (
	"context"
	"time"
)

// LLMRequest describes one call to the language model.
type LLMRequest struct {
	Prompt        string
	Model         string // per-request override; empty means the configured default
	UseSearchTool bool
}

// LLMClient defines the interface for invoking the language model.
// Implementations resolve the effective model and handle the single
// fallback-model retry on rate limiting.
type LLMClient interface {
	Generate(ctx context.Context, req LLMRequest) (string, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// PageFetcher retrieves remote resources for enrichment.
type PageFetcher interface {
	FetchHTML(ctx context.Context, url string) (string, error)
	FetchBytes(ctx context.Context, url string) ([]byte, string, error)
}

// Enricher augments a candidate URL with scraped page metadata.
// Implementations are best-effort: failures yield empty fields, not errors.
type Enricher interface {
	Enrich(ctx context.Context, url string) Enrichment
}
