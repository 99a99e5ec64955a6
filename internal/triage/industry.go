package triage

import "strings"

const (
	highConfidenceScore   = 6
	mediumConfidenceScore = 3
)

// Engine runs the inquiry analysis against a fixed industry table. A zero
// Engine has an empty table and never detects an industry.
type Engine struct {
	industries KeywordTable
}

// NewEngine copies table, so later changes by the caller are not observed.
func NewEngine(table KeywordTable) *Engine {
	return &Engine{industries: table.clone()}
}

var defaultEngine = NewEngine(defaultIndustries)

// DetectIndustry scans text with the default industry table.
func DetectIndustry(text string) IndustryDetection {
	return defaultEngine.DetectIndustry(text)
}

// DetectIndustry sums keyword weights per industry and keeps the industry
// with the strictly highest score.
func (e *Engine) DetectIndustry(text string) IndustryDetection {
	lower := strings.ToLower(text)

	var (
		best        *KeywordGroup
		bestScore   int
		bestMatches []string
	)
	for i := range e.industries {
		group := &e.industries[i]
		score := 0
		var matched []string
		for _, kw := range group.Keywords {
			if strings.Contains(lower, kw) {
				score += group.Weight
				matched = append(matched, kw)
			}
		}
		if score > bestScore {
			best, bestScore, bestMatches = group, score, matched
		}
	}

	detection := IndustryDetection{
		Confidence:      confidenceFor(bestScore),
		MatchedKeywords: []string{},
	}
	if best != nil {
		industry := best.Industry
		detection.Detected = &industry
		detection.MatchedKeywords = bestMatches
	}
	return detection
}

func confidenceFor(score int) Confidence {
	switch {
	case score >= highConfidenceScore:
		return ConfidenceHigh
	case score >= mediumConfidenceScore:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
