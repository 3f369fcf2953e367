package domain

// Product identifies the product the user is currently looking at.
// Either field may be empty, but product-mode requires at least one.
type Product struct {
	Name string `json:"name"`
	Link string `json:"link"`
}

// IsZero reports whether neither a name nor a link was supplied.
func (p Product) IsZero() bool {
	return p.Name == "" && p.Link == ""
}

// CandidateItem is one suggested alternative extracted from model output
// and optionally enriched with retailer-page metadata.
type CandidateItem struct {
	Name         string `json:"name"`
	URL          string `json:"url"`
	Price        string `json:"price,omitempty"`
	Image        string `json:"image,omitempty"`
	ImageDataURL string `json:"image_data_url,omitempty"`
	TLD          string `json:"tld,omitempty"`
}

// SearchRequest represents the body of POST /search
type SearchRequest struct {
	Query   string        `json:"query"`
	Limit   int           `json:"limit"`
	Product *ProductInput `json:"product"`
	Model   string        `json:"model"`
}

// ProductInput accepts both "link" and "url" keys for the product page
// address, matching what the extension sends across versions.
type ProductInput struct {
	Name string `json:"name"`
	Link string `json:"link"`
	URL  string `json:"url"`
}

// Normalize collapses the link/url aliases into a Product.
func (p *ProductInput) Normalize() Product {
	if p == nil {
		return Product{}
	}
	link := p.Link
	if link == "" {
		link = p.URL
	}
	return Product{Name: p.Name, Link: link}
}

// SearchResponse is the body of a successful POST /search.
// Optional fields are present only when applicable.
type SearchResponse struct {
	Results  []CandidateItem `json:"results"`
	Query    string          `json:"query,omitempty"`
	Product  *Product        `json:"product,omitempty"`
	Impact   ImpactLabel     `json:"impact,omitempty"`
	Ecoscore float64         `json:"ecoscore,omitempty"`
}

// JudgeRequest represents the body of POST /judge. The product object
// takes precedence over the top-level name/link fields.
type JudgeRequest struct {
	Product *ProductInput `json:"product"`
	Name    string        `json:"name"`
	Link    string        `json:"link"`
	Model   string        `json:"model"`
}

// ResolveProduct applies the product-over-top-level precedence rule.
func (r *JudgeRequest) ResolveProduct() Product {
	if r.Product != nil {
		if p := r.Product.Normalize(); !p.IsZero() {
			return p
		}
	}
	return Product{Name: r.Name, Link: r.Link}
}

// JudgeResponse is the body of a successful POST /judge.
type JudgeResponse struct {
	Product  Product     `json:"product"`
	Impact   ImpactLabel `json:"impact"`
	Ecoscore float64     `json:"ecoscore"`
}
