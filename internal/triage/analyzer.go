package triage

import (
	"strings"
	"unicode/utf8"
)

// Analyze triages an inquiry with the default engine. industry and budget are
// the optional form selections; empty or unrecognised values count as absent.
func Analyze(text, industry, budget string) LeadAnalysis {
	return defaultEngine.Analyze(text, industry, budget)
}

// Analyze never fails: every input, including the empty string, yields a
// fully populated LeadAnalysis.
func (e *Engine) Analyze(text, industry, budget string) LeadAnalysis {
	lower := strings.ToLower(text)
	explicit, hasExplicit := ParseIndustry(industry)
	bracket, hasBudget := ParseBudget(budget)

	detection := e.DetectIndustry(text)
	effective, mismatch := reconcileIndustry(detection, explicit, hasExplicit)

	complexity := complexityFor(complexityScore(text, lower, effective, bracket))

	intent := classifyIntent(lower)
	p := profileFor(intent)
	price, complexity := p.prices.quote(bracket, hasBudget, complexity)

	analysis := LeadAnalysis{
		Intent:         intent,
		Urgency:        urgencyOf(lower),
		Complexity:     complexity,
		Recommendation: p.recommend(effective),
		PriceRange:     price,
	}
	if detection.Detected != nil {
		detected := *detection.Detected
		analysis.DetectedIndustry = &detected
	}
	if mismatch {
		analysis.IndustryMismatch = &mismatch
	}
	return analysis
}

// reconcileIndustry picks the industry used for pricing and recommendations.
// A confident detection that disagrees with the form flags a mismatch, and a
// high-confidence one also overrides the form.
func reconcileIndustry(d IndustryDetection, explicit Industry, hasExplicit bool) (Industry, bool) {
	if !d.Actionable() {
		return explicit, false
	}
	detected := *d.Detected
	switch {
	case hasExplicit && detected != explicit:
		if d.Confidence == ConfidenceHigh {
			return detected, true
		}
		return explicit, true
	case !hasExplicit:
		return detected, false
	}
	return explicit, false
}

func classifyIntent(lower string) Intent {
	intent := IntentGeneral
	for _, rule := range intentRules {
		if containsAny(lower, rule.keywords) {
			intent = rule.intent
		}
	}
	return intent
}

func urgencyOf(lower string) Urgency {
	if containsAny(lower, urgencyPhrases) {
		return UrgencyHigh
	}
	return UrgencyNormal
}

// complexityScore measures length on the original text in characters, and
// every keyword rule on the lowercased copy.
func complexityScore(text, lower string, industry Industry, budget Budget) int {
	score := 0
	length := utf8.RuneCountInString(text)
	for _, step := range lengthSteps {
		if length > step.over {
			score += step.points
		}
	}

	score += countContained(lower, integrationTools) * integrationWeight
	score += countContained(lower, complexityTerms) * complexityTermWeight
	score += industrySurcharge[industry]
	score += budgetSurcharge[budget]

	if countContained(lower, requirementWords) > requirementThreshold {
		score += requirementBonus
	}
	return score
}

func complexityFor(score int) Complexity {
	switch {
	case score >= largeComplexityScore:
		return ComplexityLarge
	case score >= mediumComplexityScore:
		return ComplexityMedium
	default:
		return ComplexitySmall
	}
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func countContained(s string, needles []string) int {
	n := 0
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			n++
		}
	}
	return n
}
