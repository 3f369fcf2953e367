package usecase

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"github.com/ecocart/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	// URLs up to whitespace or a closing bracket/paren, as models tend to
	// wrap links in markdown or prose.
	urlPattern = regexp.MustCompile(`https?://[^\s\)\]]+`)
)

// rawItem matches one element of the model's requested results array.
type rawItem struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Price string `json:"price"`
}

// resultEnvelope matches the {"results": [...]} object the prompts demand.
type resultEnvelope struct {
	Results []rawItem `json:"results"`
}

// ExtractItems turns free-form model output into a deduplicated, ordered
// list of candidates. Stage one parses the requested JSON contract (either
// the results envelope or a bare array); stage two falls back to a regex
// URL scan when stage one yields nothing usable. The model nominally obeys
// the contract but sometimes wraps it in prose or omits fields, so the
// parser degrades instead of failing.
func ExtractItems(text string) []domain.CandidateItem {
	if items := extractStructured(text); len(items) > 0 {
		return dedupeByURL(items)
	}
	return dedupeByURL(extractUnstructured(text))
}

// extractStructured attempts the JSON contract. A nil result means the
// fallback stage should run.
func extractStructured(text string) []domain.CandidateItem {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	var envelope resultEnvelope
	if err := json.Unmarshal([]byte(trimmed), &envelope); err == nil && envelope.Results != nil {
		return convertRawItems(envelope.Results)
	}

	// Bare array: skip non-object elements instead of failing wholesale
	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &elements); err == nil {
		raw := make([]rawItem, 0, len(elements))
		for _, element := range elements {
			var item rawItem
			if err := json.Unmarshal(element, &item); err == nil {
				raw = append(raw, item)
			}
		}
		return convertRawItems(raw)
	}

	return nil
}

// convertRawItems applies the per-element rules: skip entries without a
// URL, derive missing names from the URL.
func convertRawItems(raw []rawItem) []domain.CandidateItem {
	items := make([]domain.CandidateItem, 0, len(raw))
	for _, r := range raw {
		u := strings.TrimSpace(r.URL)
		if u == "" {
			continue
		}
		name := strings.TrimSpace(r.Name)
		if name == "" {
			name = NormalizeNameFromURL(u)
		}
		items = append(items, domain.CandidateItem{
			Name:  name,
			URL:   u,
			Price: strings.TrimSpace(r.Price),
		})
	}
	return items
}

// extractUnstructured scans raw text for URLs and synthesizes one candidate
// per unique URL with a derived name and no price.
func extractUnstructured(text string) []domain.CandidateItem {
	urls := urlPattern.FindAllString(text, -1)
	items := make([]domain.CandidateItem, 0, len(urls))
	for _, u := range urls {
		items = append(items, domain.CandidateItem{
			Name: NormalizeNameFromURL(u),
			URL:  u,
		})
	}
	return items
}

// dedupeByURL drops repeated URLs, preserving first-occurrence order.
func dedupeByURL(items []domain.CandidateItem) []domain.CandidateItem {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, item := range items {
		if seen[item.URL] {
			continue
		}
		seen[item.URL] = true
		out = append(out, item)
	}
	return out
}

// NormalizeNameFromURL derives a display name from a URL: hostname without
// the leading www. label and the final domain label, dashes/underscores
// replaced with spaces, title-cased. An unparsable URL is returned verbatim.
func NormalizeNameFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return rawURL
	}

	host := parsed.Hostname()
	if strings.HasPrefix(host, "www.") {
		host = strings.TrimPrefix(host, "www.")
	}
	if idx := strings.LastIndex(host, "."); idx > 0 {
		host = host[:idx]
	}

	base := strings.ReplaceAll(host, "-", " ")
	base = strings.ReplaceAll(base, "_", " ")
	return titleCase(base)
}

// titleCase upper-cases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
