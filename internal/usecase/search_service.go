package usecase

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/ecocart/backend/internal/domain"
	"github.com/ecocart/backend/internal/infrastructure/scraper"
)

// Package-level compiled regex patterns for performance
var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)
	multipleSpacesRegex  = regexp.MustCompile(`\s+`)
)

const (
	// defaultMaxResults caps the candidate list when the caller omits a limit
	defaultMaxResults = 5

	// earlyReturnThreshold is the judge score at or above which the original
	// product is considered green enough and no alternatives are searched.
	// An earlier revision short-circuited on the Low label instead; the
	// numeric threshold is the canonical behavior.
	earlyReturnThreshold = 3.0

	// maxDataURLBytes caps the image payload inlined as a data URL
	maxDataURLBytes = 2 << 20
)

// SearchServiceConfig holds configuration for the search service
type SearchServiceConfig struct {
	CacheTTL        time.Duration
	RetailerDomains []string
	RetailerSites   []string
}

// SearchService sequences judging, alternative search, parsing, filtering,
// and enrichment for each incoming request.
type SearchService struct {
	llm             domain.LLMClient
	enricher        domain.Enricher
	fetcher         domain.PageFetcher
	cache           domain.CacheRepository
	cacheTTL        time.Duration
	retailerDomains []string
	retailerSites   []string
}

// NewSearchService creates a new search service with dependencies
func NewSearchService(
	llm domain.LLMClient,
	enricher domain.Enricher,
	fetcher domain.PageFetcher,
	cache domain.CacheRepository,
	config SearchServiceConfig,
) *SearchService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 1 * time.Hour
	}

	retailerDomains := config.RetailerDomains
	if len(retailerDomains) == 0 {
		retailerDomains = []string{"amazon"}
	}

	return &SearchService{
		llm:             llm,
		enricher:        enricher,
		fetcher:         fetcher,
		cache:           cache,
		cacheTTL:        cacheTTL,
		retailerDomains: retailerDomains,
		retailerSites:   config.RetailerSites,
	}
}

// Search handles POST /search requests.
// Flow: judge (if product given) -> possible early return -> alternatives or
// topic search -> parse -> domain filter -> enrich -> assemble.
func (s *SearchService) Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResponse, error) {
	if req == nil {
		req = &domain.SearchRequest{}
	}

	query := strings.TrimSpace(req.Query)
	limit := req.Limit
	if limit <= 0 {
		limit = defaultMaxResults
	}

	product := req.Product.Normalize()
	product.Name = strings.TrimSpace(product.Name)
	product.Link = strings.TrimSpace(product.Link)

	response := &domain.SearchResponse{Results: []domain.CandidateItem{}}
	if query != "" {
		response.Query = query
	}

	// Always judge first if a product is provided
	if !product.IsZero() {
		judged, err := s.judgeProduct(ctx, product, req.Model)
		if err != nil {
			return nil, err
		}
		response.Product = &product
		response.Impact = judged.Impact
		response.Ecoscore = judged.Ecoscore

		// Good enough already; alternatives are unnecessary
		if judged.Ecoscore >= earlyReturnThreshold {
			log.Printf("[SEARCH] ecoscore %.2f >= %.1f, early return without alternatives", judged.Ecoscore, earlyReturnThreshold)
			return response, nil
		}
	}

	var prompt string
	if !product.IsZero() {
		prompt = BuildAlternativesPrompt(product.Name, product.Link, limit, s.retailerSites)
	} else {
		prompt = BuildSearchPrompt(query, limit)
	}

	text, err := s.llm.Generate(ctx, domain.LLMRequest{
		Prompt:        prompt,
		Model:         req.Model,
		UseSearchTool: true,
	})
	if err != nil {
		return nil, err
	}

	items := ExtractItems(text)

	// Product mode restricts candidates to recognized retailers
	if !product.IsZero() {
		items = s.filterRetailerItems(items)
		if len(items) > limit {
			items = items[:limit]
		}
	}

	// Enrichment is sequential in result order; a failed item keeps its
	// fields empty and never affects its neighbors.
	for i := range items {
		items[i].TLD = scraper.TopLevelDomain(items[i].URL)
		enrichment := s.enricher.Enrich(ctx, items[i].URL)
		if items[i].Image == "" {
			items[i].Image = enrichment.Image
		}
		if items[i].Price == "" {
			items[i].Price = enrichment.Price
		}
	}

	response.Results = items
	return response, nil
}

// Judge handles POST /judge requests.
func (s *SearchService) Judge(ctx context.Context, req *domain.JudgeRequest) (*domain.JudgeResponse, error) {
	if req == nil {
		return nil, domain.ErrInvalidRequest
	}

	product := req.ResolveProduct()
	product.Name = strings.TrimSpace(product.Name)
	product.Link = strings.TrimSpace(product.Link)
	if product.IsZero() {
		return nil, fmt.Errorf("%w: provide product.name and/or product.link", domain.ErrInvalidRequest)
	}

	judged, err := s.judgeProduct(ctx, product, req.Model)
	if err != nil {
		return nil, err
	}

	return &domain.JudgeResponse{
		Product:  product,
		Impact:   judged.Impact,
		Ecoscore: judged.Ecoscore,
	}, nil
}

// judgeProduct asks the model for an Ecoscore and reconciles it with the
// material heuristics. Results are cached per product; cache failures are
// non-fatal.
func (s *SearchService) judgeProduct(ctx context.Context, product domain.Product, modelOverride string) (domain.JudgeResult, error) {
	cacheKey := s.judgeCacheKey(product)

	if cached, err := s.judgeFromCache(ctx, cacheKey); err == nil && cached != nil {
		return *cached, nil
	}

	prompt := BuildJudgePrompt(product.Name, product.Link)
	text, err := s.llm.Generate(ctx, domain.LLMRequest{
		Prompt: prompt,
		Model:  modelOverride,
	})
	if err != nil {
		return domain.JudgeResult{}, err
	}

	result := EvaluateJudgeText(text, product.Name, product.Link)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, result, s.cacheTTL); err != nil {
			log.Printf("[SEARCH] failed caching judge result: %v", err)
		}
	}

	return result, nil
}

// judgeFromCache retrieves and re-types a cached judge result.
func (s *SearchService) judgeFromCache(ctx context.Context, key string) (*domain.JudgeResult, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheMiss
	}

	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	jsonData, err := json.Marshal(cached)
	if err != nil {
		return nil, err
	}
	var result domain.JudgeResult
	if err := json.Unmarshal(jsonData, &result); err != nil {
		return nil, err
	}
	if result.Impact == "" {
		return nil, domain.ErrCacheMiss
	}
	return &result, nil
}

// judgeCacheKey creates a normalized cache key from the product identity.
// Format: "judge:{normalized_name}:{normalized_link}"
func (s *SearchService) judgeCacheKey(product domain.Product) string {
	return fmt.Sprintf("judge:%s:%s", normalizeForCacheKey(product.Name), normalizeForCacheKey(product.Link))
}

// normalizeForCacheKey lowercases, strips special characters, and collapses
// whitespace for use as a cache key component.
func normalizeForCacheKey(s string) string {
	if s == "" {
		return ""
	}
	normalized := strings.ToLower(s)
	normalized = nonAlphanumericRegex.ReplaceAllString(normalized, "")
	normalized = multipleSpacesRegex.ReplaceAllString(normalized, " ")
	return strings.TrimSpace(normalized)
}

// filterRetailerItems keeps only candidates whose registrable domain matches
// a recognized retailer name, preserving order.
func (s *SearchService) filterRetailerItems(items []domain.CandidateItem) []domain.CandidateItem {
	filtered := items[:0]
	for _, item := range items {
		if s.isRetailerURL(item.URL) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func (s *SearchService) isRetailerURL(url string) bool {
	name := scraper.RegistrableName(url)
	for _, domainName := range s.retailerDomains {
		if name == domainName {
			return true
		}
	}
	return false
}

// ExtractImage finds a preview image for the URL and, when the image bytes
// are small enough, inlines them as a data URL. Best-effort on both counts.
func (s *SearchService) ExtractImage(ctx context.Context, url string) (image string, dataURL string) {
	enrichment := s.enricher.Enrich(ctx, url)
	if enrichment.Image == "" {
		return "", ""
	}

	data, contentType, err := s.fetcher.FetchBytes(ctx, enrichment.Image)
	if err != nil || len(data) == 0 || len(data) > maxDataURLBytes {
		return enrichment.Image, ""
	}
	if contentType == "" || !strings.HasPrefix(contentType, "image/") {
		contentType = "image/jpeg"
	}
	encoded := base64.StdEncoding.EncodeToString(data)
	return enrichment.Image, fmt.Sprintf("data:%s;base64,%s", contentType, encoded)
}

// FetchImage retrieves raw image bytes and content type for proxying.
func (s *SearchService) FetchImage(ctx context.Context, url string) ([]byte, string, error) {
	return s.fetcher.FetchBytes(ctx, url)
}
