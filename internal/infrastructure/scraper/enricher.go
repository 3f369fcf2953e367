package scraper

import (
	"context"
	"encoding/json"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ecocart/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	// Currency-symbol-prefixed amount, the last-resort price scan
	priceTextPattern = regexp.MustCompile(`[$€£]\s?\d[\d,]*(?:\.\d{2})?`)
	// Trailing pixel-density descriptor in a srcset entry, e.g. "2x"
	densityPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)x$`)
)

// metaImageSelectors are tried first on every page, retailer or not.
var metaImageSelectors = []string{
	`meta[property="og:image"]`,
	`meta[property="og:image:secure_url"]`,
	`meta[name="twitter:image"]`,
	`meta[property="twitter:image"]`,
}

// retailerImageWrappers are the known product-image containers on
// recognized storefront pages, tried in order.
var retailerImageWrappers = []string{
	"#imgTagWrapperId img",
	"#landingImage",
	"#main-image-container img",
	".a-dynamic-image",
}

// retailerPriceSelectors are the known price containers, tried in order.
var retailerPriceSelectors = []string{
	".a-price .a-offscreen",
	".a-price-whole",
	"#priceblock_ourprice",
	"#priceblock_dealprice",
	`[data-automation-id="product-price"]`,
	".pdp-price",
}

// Enricher scrapes a candidate's retailer page for a preview image and
// price. Site-specific selector strategies are keyed by the recognized
// retailer domain tag; unrecognized domains get the generic strategy only.
type Enricher struct {
	fetcher         domain.PageFetcher
	retailerDomains []string
	debug           bool
}

// NewEnricher creates a new retailer-page enricher
func NewEnricher(fetcher domain.PageFetcher, retailerDomains []string) *Enricher {
	if len(retailerDomains) == 0 {
		retailerDomains = []string{"amazon"}
	}
	return &Enricher{
		fetcher:         fetcher,
		retailerDomains: retailerDomains,
	}
}

// SetDebug enables logging of enrichment misses
func (e *Enricher) SetDebug(debug bool) {
	e.debug = debug
}

// Enrich fetches the page and extracts image and price, best-effort. Any
// network or parse failure yields empty fields, never an error.
func (e *Enricher) Enrich(ctx context.Context, url string) domain.Enrichment {
	html, err := e.fetcher.FetchHTML(ctx, url)
	if err != nil {
		if e.debug {
			log.Printf("[SCRAPER] fetch failed for %s: %v", url, err)
		}
		return domain.Enrichment{}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		if e.debug {
			log.Printf("[SCRAPER] parse failed for %s: %v", url, err)
		}
		return domain.Enrichment{}
	}

	gated := e.isRetailer(url)

	enrichment := domain.Enrichment{
		Image: extractImage(doc, gated),
	}
	if gated {
		enrichment.Price = extractPrice(doc)
	}
	return enrichment
}

func (e *Enricher) isRetailer(url string) bool {
	name := RegistrableName(url)
	for _, d := range e.retailerDomains {
		if name == d {
			return true
		}
	}
	return false
}

// extractImage walks the ordered strategy chain: social meta tags, then
// (gated) storefront wrapper elements, then the first image on the page.
func extractImage(doc *goquery.Document, gated bool) string {
	for _, selector := range metaImageSelectors {
		if content, ok := doc.Find(selector).First().Attr("content"); ok {
			if src := strings.TrimSpace(content); src != "" {
				return src
			}
		}
	}

	if gated {
		for _, wrapper := range retailerImageWrappers {
			sel := doc.Find(wrapper).First()
			if sel.Length() == 0 {
				continue
			}
			if src := imageFromElement(sel); src != "" {
				return src
			}
		}
	}

	if src, ok := doc.Find("img").First().Attr("src"); ok {
		return strings.TrimSpace(src)
	}
	return ""
}

// imageFromElement resolves the best source for one product image element:
// high-resolution hint, structured multi-resolution map, highest-density
// srcset entry, then the plain src.
func imageFromElement(sel *goquery.Selection) string {
	if hires, ok := sel.Attr("data-old-hires"); ok && strings.TrimSpace(hires) != "" {
		return strings.TrimSpace(hires)
	}
	if dynamic, ok := sel.Attr("data-a-dynamic-image"); ok {
		if src := largestDynamicImage(dynamic); src != "" {
			return src
		}
	}
	if srcset, ok := sel.Attr("srcset"); ok {
		if src := densestSrcsetEntry(srcset); src != "" {
			return src
		}
	}
	if src, ok := sel.Attr("src"); ok {
		return strings.TrimSpace(src)
	}
	return ""
}

// largestDynamicImage parses the JSON url->[width,height] map and returns
// the URL with the largest pixel area.
func largestDynamicImage(raw string) string {
	var entries map[string][]float64
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return ""
	}

	var best string
	var bestArea float64
	for src, dims := range entries {
		area := 1.0
		if len(dims) >= 2 {
			area = dims[0] * dims[1]
		}
		if best == "" || area > bestArea {
			best = src
			bestArea = area
		}
	}
	return best
}

// densestSrcsetEntry returns the URL with the highest pixel-density
// descriptor; entries without one count as 1x.
func densestSrcsetEntry(srcset string) string {
	var best string
	var bestDensity float64

	for _, entry := range strings.Split(srcset, ",") {
		fields := strings.Fields(strings.TrimSpace(entry))
		if len(fields) == 0 {
			continue
		}
		density := 1.0
		if len(fields) > 1 {
			if m := densityPattern.FindStringSubmatch(fields[len(fields)-1]); m != nil {
				if parsed, err := strconv.ParseFloat(m[1], 64); err == nil {
					density = parsed
				}
			}
		}
		if best == "" || density > bestDensity {
			best = fields[0]
			bestDensity = density
		}
	}
	return best
}

// extractPrice tries the known price containers in order and falls back to
// a currency scan over the raw page text.
func extractPrice(doc *goquery.Document) string {
	for _, selector := range retailerPriceSelectors {
		text := strings.TrimSpace(doc.Find(selector).First().Text())
		if text != "" {
			return text
		}
	}
	return priceTextPattern.FindString(doc.Text())
}
