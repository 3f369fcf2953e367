package scraper

import (
	"context"
	"testing"

	"github.com/ecocart/backend/internal/domain"
)

type fakePageFetcher struct {
	html string
	err  error
}

func (f *fakePageFetcher) FetchHTML(_ context.Context, _ string) (string, error) {
	return f.html, f.err
}

func (f *fakePageFetcher) FetchBytes(_ context.Context, _ string) ([]byte, string, error) {
	return nil, "", f.err
}

const retailerURL = "https://www.amazon.com/dp/B07TEST"
const genericURL = "https://blog.greenify.org/straws"

func enrich(t *testing.T, html, url string) domain.Enrichment {
	t.Helper()
	enricher := NewEnricher(&fakePageFetcher{html: html}, nil)
	return enricher.Enrich(context.Background(), url)
}

func TestEnrich_MetaImageWinsEverywhere(t *testing.T) {
	html := `<html><head>
		<meta property="og:image" content="https://img.example/og.jpg">
	</head><body>
		<img id="landingImage" src="https://img.example/landing.jpg">
	</body></html>`

	got := enrich(t, html, retailerURL)
	if got.Image != "https://img.example/og.jpg" {
		t.Errorf("Image = %q, want the og:image URL", got.Image)
	}
}

func TestEnrich_TwitterImageFallback(t *testing.T) {
	html := `<html><head>
		<meta name="twitter:image" content="https://img.example/tw.jpg">
	</head><body></body></html>`

	got := enrich(t, html, genericURL)
	if got.Image != "https://img.example/tw.jpg" {
		t.Errorf("Image = %q, want the twitter:image URL", got.Image)
	}
}

func TestEnrich_RetailerImageStrategies(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			"high resolution hint wins",
			`<body><div id="imgTagWrapperId"><img
				data-old-hires="https://img.example/hires.jpg"
				src="https://img.example/small.jpg"></div></body>`,
			"https://img.example/hires.jpg",
		},
		{
			"largest dynamic image entry wins",
			`<body><img id="landingImage"
				data-a-dynamic-image='{"https://img.example/a.jpg":[200,200],"https://img.example/b.jpg":[800,800]}'
				src="https://img.example/small.jpg"></body>`,
			"https://img.example/b.jpg",
		},
		{
			"densest srcset entry wins",
			`<body><img class="a-dynamic-image"
				srcset="https://img.example/1x.jpg 1x, https://img.example/3x.jpg 3x, https://img.example/2x.jpg 2x"
				src="https://img.example/small.jpg"></body>`,
			"https://img.example/3x.jpg",
		},
		{
			"plain src as last element resort",
			`<body><img id="landingImage" src="https://img.example/plain.jpg"></body>`,
			"https://img.example/plain.jpg",
		},
		{
			"wrapper order respected",
			`<body>
				<div id="imgTagWrapperId"><img src="https://img.example/wrapped.jpg"></div>
				<img id="landingImage" src="https://img.example/landing.jpg">
			</body>`,
			"https://img.example/wrapped.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := enrich(t, tt.html, retailerURL)
			if got.Image != tt.want {
				t.Errorf("Image = %q, want %q", got.Image, tt.want)
			}
		})
	}
}

func TestEnrich_RetailerSelectorsSkippedOffRetailer(t *testing.T) {
	html := `<body>
		<img id="landingImage" data-old-hires="https://img.example/hires.jpg" src="https://img.example/first.jpg">
	</body>`

	got := enrich(t, html, genericURL)
	if got.Image != "https://img.example/first.jpg" {
		t.Errorf("Image = %q, want the first-img fallback, not the storefront strategy", got.Image)
	}
}

func TestEnrich_Price(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			"offscreen price",
			`<body><span class="a-price"><span class="a-offscreen">$12.99</span></span></body>`,
			"$12.99",
		},
		{
			"price whole",
			`<body><span class="a-price-whole">13</span></body>`,
			"13",
		},
		{
			"priceblock",
			`<body><span id="priceblock_ourprice">£7.49</span></body>`,
			"£7.49",
		},
		{
			"automation id",
			`<body><div data-automation-id="product-price">$3.00</div></body>`,
			"$3.00",
		},
		{
			"currency text fallback",
			`<body><p>Only €8.99 while stocks last</p></body>`,
			"€8.99",
		},
		{
			"no price",
			`<body><p>Contact us for pricing</p></body>`,
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := enrich(t, tt.html, retailerURL)
			if got.Price != tt.want {
				t.Errorf("Price = %q, want %q", got.Price, tt.want)
			}
		})
	}
}

func TestEnrich_NoPriceOffRetailer(t *testing.T) {
	html := `<body><span class="a-price"><span class="a-offscreen">$12.99</span></span></body>`

	got := enrich(t, html, genericURL)
	if got.Price != "" {
		t.Errorf("Price = %q, want empty for a non-retailer page", got.Price)
	}
}

func TestEnrich_FetchFailureYieldsEmpty(t *testing.T) {
	enricher := NewEnricher(&fakePageFetcher{err: domain.ErrFetchFailed}, nil)

	got := enricher.Enrich(context.Background(), retailerURL)
	if got.Image != "" || got.Price != "" {
		t.Errorf("got %+v, want empty enrichment on fetch failure", got)
	}
}

func TestLargestDynamicImage(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"picks largest area", `{"a.jpg":[100,100],"b.jpg":[500,500],"c.jpg":[300,300]}`, "b.jpg"},
		{"single entry", `{"only.jpg":[10,10]}`, "only.jpg"},
		{"invalid json", `not json`, ""},
		{"empty map", `{}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := largestDynamicImage(tt.raw); got != tt.want {
				t.Errorf("largestDynamicImage(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDensestSrcsetEntry(t *testing.T) {
	tests := []struct {
		name   string
		srcset string
		want   string
	}{
		{"density order", "a.jpg 1x, c.jpg 3x, b.jpg 2x", "c.jpg"},
		{"missing descriptor counts as 1x", "a.jpg, b.jpg 2x", "b.jpg"},
		{"single entry", "only.jpg", "only.jpg"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := densestSrcsetEntry(tt.srcset); got != tt.want {
				t.Errorf("densestSrcsetEntry(%q) = %q, want %q", tt.srcset, got, tt.want)
			}
		})
	}
}
