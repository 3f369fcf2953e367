package domain

// ImpactLabel is the coarse environmental-impact classification of a product.
type ImpactLabel string

const (
	ImpactLow    ImpactLabel = "Low"
	ImpactMedium ImpactLabel = "Medium"
	ImpactHigh   ImpactLabel = "High"
)

// JudgeResult holds the outcome of judging a single product.
// Ecoscore is always within [1.0, 5.0], rounded to 2 decimal places,
// and Impact is always one of the three labels.
type JudgeResult struct {
	Impact   ImpactLabel `json:"impact"`
	Ecoscore float64     `json:"ecoscore"`
}

// MaterialHint is a keyword-derived material tag used to bias the Ecoscore.
// At most one hint applies per product, chosen by a fixed priority order.
type MaterialHint string

const (
	HintNone       MaterialHint = ""
	HintPaperStraw MaterialHint = "paper_straw"
	HintMetal      MaterialHint = "metal"
	HintBamboo     MaterialHint = "bamboo"
	HintGlass      MaterialHint = "glass"
	HintSilicone   MaterialHint = "silicone"
	HintPLA        MaterialHint = "pla"
	HintPlastic    MaterialHint = "plastic"
)

// Enrichment holds the best-effort metadata scraped from a retailer page.
type Enrichment struct {
	Image string `json:"image"`
	Price string `json:"price"`
}
