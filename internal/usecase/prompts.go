package usecase

import (
	"fmt"
	"strings"
)

// jsonContract is the output shape every search-style prompt demands.
const jsonContract = `Produce ONLY JSON with this shape exactly:
{ "results": [ { "name": "Product or Brand Name", "url": "https://..." } ] }
Do not include explanations or markdown, only valid JSON.`

// defaultTopic replaces a blank user topic in the generic search prompt.
const defaultTopic = "environmentally friendlier everyday products"

// BuildSearchPrompt renders the generic topic-search prompt. A blank topic
// falls back to a canned one; the function never fails.
func BuildSearchPrompt(topic string, maxResults int) string {
	topicLine := strings.TrimSpace(topic)
	if topicLine == "" {
		topicLine = defaultTopic
	}

	var b strings.Builder
	fmt.Fprintf(&b, "User topic: %s\n\n", topicLine)
	b.WriteString("Use web_search to find environmentally friendlier product options for the user's topic.\n")
	b.WriteString("Focus on credible official product or brand pages, sustainability certifications, and lifecycle considerations.\n")
	fmt.Fprintf(&b, "Return up to %d distinct results.\n", maxResults)
	b.WriteString(jsonContract)
	return b.String()
}

// BuildAlternativesPrompt renders the prompt requesting greener alternatives
// to a specific product. retailSites scopes the query to an allow-list of
// retailer hosts via explicit site: hints.
func BuildAlternativesPrompt(productName, productLink string, maxResults int, retailSites []string) string {
	nameLine := "Original product: (unknown name)"
	if strings.TrimSpace(productName) != "" {
		nameLine = "Original product: " + strings.TrimSpace(productName)
	}
	linkLine := "Original link: (none provided)"
	if strings.TrimSpace(productLink) != "" {
		linkLine = "Original link: " + strings.TrimSpace(productLink)
	}

	var b strings.Builder
	b.WriteString(nameLine + "\n")
	b.WriteString(linkLine + "\n\n")
	b.WriteString("Using web_search, find environmentally friendlier alternatives to the given product.\n")
	b.WriteString("Prioritize durable, reusable, recyclable, compostable, or certified-sustainable materials (e.g., paper, metal, bamboo, glass, silicone when appropriate).\n")
	b.WriteString("Favor credible official product or brand pages over aggregator sites when possible.\n")
	if len(retailSites) > 0 {
		hints := make([]string, 0, len(retailSites))
		for _, site := range retailSites {
			hints = append(hints, "site:"+site)
		}
		fmt.Fprintf(&b, "Only return product pages from these retailers; scope the search with (%s).\n", strings.Join(hints, " OR "))
	}
	fmt.Fprintf(&b, "Return up to %d distinct alternatives.\n", maxResults)
	b.WriteString(jsonContract)
	return b.String()
}

// BuildJudgePrompt renders the prompt requesting a single Ecoscore line for
// the given product.
func BuildJudgePrompt(productName, productLink string) string {
	nameLine := "Product: (unknown name)"
	if strings.TrimSpace(productName) != "" {
		nameLine = "Product: " + strings.TrimSpace(productName)
	}
	linkLine := "Link: (none provided)"
	if strings.TrimSpace(productLink) != "" {
		linkLine = "Link: " + strings.TrimSpace(productLink)
	}

	var b strings.Builder
	b.WriteString(nameLine + "\n")
	b.WriteString(linkLine + "\n\n")
	b.WriteString("Rate the product's environmental friendliness with a single Ecoscore between 1.0 and 5.0 (decimals allowed).\n")
	b.WriteString("Use this rubric strictly:\n")
	b.WriteString("1.0-1.9: predominantly single-use plastic; non-recyclable; no credible sustainability claims.\n")
	b.WriteString("2.0-2.9: disposable plastic-heavy; limited recyclability or greenwashing; short lifespan.\n")
	b.WriteString("3.0-3.9: mixed/unknown materials; partial recyclability; some reuse potential; average footprint.\n")
	b.WriteString("4.0-4.4: largely sustainable materials (paper, glass, silicone), reusable or recyclable; credible claims.\n")
	b.WriteString("4.5-5.0: highly sustainable (durable metal/bamboo/glass, certified compostable), long lifespan, minimal waste.\n")
	b.WriteString("Consider materials, reusability, recyclability/compostability, lifecycle/durability, packaging, and certifications.\n")
	b.WriteString("If the product appears to be paper drinking straws, ensure Ecoscore >= 4.5 barring contradictory evidence.\n")
	b.WriteString("Respond ONLY with: Ecoscore: <number> (e.g., Ecoscore: 4.5). No explanations.")
	return b.String()
}
