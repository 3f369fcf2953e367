package usecase

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ecocart/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	// A number in [1,5] right after the word "ecoscore", decimals allowed
	nearScorePattern = regexp.MustCompile(`ecoscore\D*([1-5](?:\.\d+)?)`)
	// Any standalone in-range number. The leading guard keeps fragments of
	// larger numbers like the ".5" in "9.5" from matching.
	anyScorePattern = regexp.MustCompile(`(?:^|[^.\d])([1-5](?:\.\d+)?)\b`)
	// Letter runs, for the token fallback in label parsing
	letterRunPattern = regexp.MustCompile(`[a-z]+`)
	// "pla" as a whole word, so it cannot shadow the plastic rule
	plaPattern = regexp.MustCompile(`\bpla\b`)
)

// Ecoscore floors and caps per material hint. Floors override a
// contradicting model score for well-known material categories.
const (
	floorPaperStraw = 4.2
	floorMetal      = 3.8
	floorBamboo     = 4.4
	floorGlass      = 3.8
	floorSilicone   = 3.2
	floorPLA        = 2.4
	capPLA          = 3.0
	capPlastic      = 1.9
)

// baseline Ecoscore per impact label, used only when the judge text
// carried no usable number.
var impactBaseline = map[domain.ImpactLabel]float64{
	domain.ImpactLow:    4.2,
	domain.ImpactMedium: 2.8,
	domain.ImpactHigh:   1.3,
}

// InferMaterialHint derives at most one material tag from the product name
// and link. Rules are tested in a fixed priority order; first match wins.
func InferMaterialHint(productName, productLink string) domain.MaterialHint {
	text := strings.ToLower(productName + " " + productLink)
	switch {
	case strings.Contains(text, "paper") && strings.Contains(text, "straw"):
		return domain.HintPaperStraw
	case strings.Contains(text, "stainless") || strings.Contains(text, "metal"):
		return domain.HintMetal
	case strings.Contains(text, "bamboo"):
		return domain.HintBamboo
	case strings.Contains(text, "glass"):
		return domain.HintGlass
	case strings.Contains(text, "silicone"):
		return domain.HintSilicone
	case plaPattern.MatchString(text) || strings.Contains(text, "bioplastic"):
		return domain.HintPLA
	case strings.Contains(text, "plastic"):
		return domain.HintPlastic
	}
	return domain.HintNone
}

// ParseImpactLabel extracts an impact label from judge text. Substring
// priority is low, then high, then medium; a whole-token scan is the
// fallback, and empty or unrecognizable text defaults to Medium.
func ParseImpactLabel(text string) domain.ImpactLabel {
	if text == "" {
		return domain.ImpactMedium
	}
	lowered := strings.ToLower(text)
	switch {
	case strings.Contains(lowered, "low"):
		return domain.ImpactLow
	case strings.Contains(lowered, "high"):
		return domain.ImpactHigh
	case strings.Contains(lowered, "medium"):
		return domain.ImpactMedium
	}
	for _, token := range letterRunPattern.FindAllString(lowered, -1) {
		switch token {
		case "low":
			return domain.ImpactLow
		case "medium":
			return domain.ImpactMedium
		case "high":
			return domain.ImpactHigh
		}
	}
	return domain.ImpactMedium
}

// ParseEcoscoreFromText finds a score in [1.0, 5.0] in the judge text,
// preferring a number adjacent to the word "ecoscore". Returns 0 when the
// text carries no usable number.
func ParseEcoscoreFromText(text string) float64 {
	if text == "" {
		return 0
	}
	lowered := strings.ToLower(text)

	if m := nearScorePattern.FindStringSubmatch(lowered); m != nil {
		if val, err := strconv.ParseFloat(m[1], 64); err == nil && val >= 1.0 && val <= 5.0 {
			return val
		}
	}
	for _, m := range anyScorePattern.FindAllStringSubmatch(lowered, -1) {
		if val, err := strconv.ParseFloat(m[1], 64); err == nil && val >= 1.0 && val <= 5.0 {
			return val
		}
	}
	return 0
}

// EcoscoreFromImpact maps an impact label to a baseline score. Unrecognized
// labels get the neutral 3.0.
func EcoscoreFromImpact(impact domain.ImpactLabel) float64 {
	if score, ok := impactBaseline[impact]; ok {
		return score
	}
	return 3.0
}

// ApplyMaterialHeuristics applies the deterministic floor/cap table for the
// material hint, then clamps into [1.0, 5.0] and rounds to 2 decimals. The
// result is always in range, whatever (score, hint) pair comes in.
func ApplyMaterialHeuristics(score float64, hint domain.MaterialHint) float64 {
	adjusted := score
	switch hint {
	case domain.HintPaperStraw:
		adjusted = math.Max(adjusted, floorPaperStraw)
	case domain.HintMetal:
		adjusted = math.Max(adjusted, floorMetal)
	case domain.HintBamboo:
		adjusted = math.Max(adjusted, floorBamboo)
	case domain.HintGlass:
		adjusted = math.Max(adjusted, floorGlass)
	case domain.HintSilicone:
		adjusted = math.Max(adjusted, floorSilicone)
	case domain.HintPLA:
		adjusted = math.Min(math.Max(adjusted, floorPLA), capPLA)
	case domain.HintPlastic:
		adjusted = math.Min(adjusted, capPlastic)
	}

	if adjusted < 1.0 {
		adjusted = 1.0
	}
	if adjusted > 5.0 {
		adjusted = 5.0
	}
	return math.Round(adjusted*100) / 100
}

// EvaluateJudgeText derives the final JudgeResult from the judge text and
// product identity: label parse, material-hint label nudge, score parse
// with label baseline fallback, then the material floor/cap pass. The
// heuristics run last so a well-known material overrides a contradicting
// model score.
func EvaluateJudgeText(text, productName, productLink string) domain.JudgeResult {
	impact := ParseImpactLabel(text)
	score := ParseEcoscoreFromText(text)
	hint := InferMaterialHint(productName, productLink)

	if hint == domain.HintPaperStraw {
		impact = domain.ImpactLow
	} else if hint == domain.HintPlastic && impact == domain.ImpactMedium {
		impact = domain.ImpactHigh
	}

	if score <= 0 {
		score = EcoscoreFromImpact(impact)
	}
	score = ApplyMaterialHeuristics(score, hint)

	return domain.JudgeResult{Impact: impact, Ecoscore: score}
}
