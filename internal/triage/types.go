// Package triage classifies free-text sales inquiries and scores lead batches.
//
// Every function in this package is a pure function of its arguments: no I/O,
// no clock, no shared mutable state. The keyword tables are read-only after
// package initialisation, so all entry points are safe for concurrent use.
package triage

import "strings"

// Industry is one of the recognised industry labels.
type Industry string

const (
	IndustryEcommerce  Industry = "ecommerce"
	IndustryHealthcare Industry = "healthcare"
	IndustryFinance    Industry = "finance"
	IndustrySaaS       Industry = "saas"
)

// industryOther is the form sentinel for "none of the above".
const industryOther = "other"

// ParseIndustry normalises an explicit industry selection. The "other"
// sentinel and any value outside the enumeration report ok=false.
func ParseIndustry(s string) (Industry, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch Industry(v) {
	case IndustryEcommerce, IndustryHealthcare, IndustryFinance, IndustrySaaS:
		return Industry(v), true
	}
	return "", false
}

// Budget is a budget bracket selected on the inquiry form.
type Budget string

const (
	Budget3kTo10k  Budget = "3k-10k"
	Budget10kTo35k Budget = "10k-35k"
	Budget35kTo70k Budget = "35k-70k"
	Budget70kPlus  Budget = "70k+"
)

// ParseBudget reports ok=false for empty or unknown brackets.
func ParseBudget(s string) (Budget, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch Budget(v) {
	case Budget3kTo10k, Budget10kTo35k, Budget35kTo70k, Budget70kPlus:
		return Budget(v), true
	}
	return "", false
}

// Intent is the classified purpose of an inquiry. The constant values are the
// machine keys; String and the JSON form use the display label.
type Intent string

const (
	IntentGeneral      Intent = "general"
	IntentWebsite      Intent = "website"
	IntentEcommerce    Intent = "ecommerce"
	IntentAutomation   Intent = "automation"
	IntentAIAssistant  Intent = "ai-assistant"
	IntentDataPipeline Intent = "data-pipeline"
)

// String returns the display label: the first hyphen becomes a space and each
// word is capitalised, so "ai-assistant" renders as "Ai Assistant".
func (i Intent) String() string {
	if i == "" {
		i = IntentGeneral
	}
	words := strings.Fields(strings.Replace(string(i), "-", " ", 1))
	for n, w := range words {
		words[n] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func (i Intent) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

var intents = []Intent{IntentGeneral, IntentWebsite, IntentEcommerce, IntentAutomation, IntentAIAssistant, IntentDataPipeline}

// UnmarshalText accepts either the machine key or the display label.
// Anything else decodes as IntentGeneral.
func (i *Intent) UnmarshalText(b []byte) error {
	v := Intent(strings.Replace(strings.ToLower(strings.TrimSpace(string(b))), " ", "-", 1))
	*i = IntentGeneral
	for _, known := range intents {
		if v == known {
			*i = known
			break
		}
	}
	return nil
}

type Urgency string

const (
	UrgencyHigh   Urgency = "High"
	UrgencyNormal Urgency = "Normal"
)

type Complexity string

const (
	ComplexitySmall  Complexity = "Small"
	ComplexityMedium Complexity = "Medium"
	ComplexityLarge  Complexity = "Large"
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

type Segment string

const (
	SegmentHot  Segment = "Hot"
	SegmentWarm Segment = "Warm"
	SegmentCold Segment = "Cold"
)

// IndustryDetection is the result of scanning text against the industry table.
type IndustryDetection struct {
	Detected        *Industry  `json:"detected"`
	Confidence      Confidence `json:"confidence"`
	MatchedKeywords []string   `json:"matchedKeywords"`
}

// Actionable reports whether the detection is strong enough to act on.
func (d IndustryDetection) Actionable() bool {
	return d.Detected != nil && d.Confidence != ConfidenceLow
}

// LeadAnalysis is the structured triage of a single inquiry. DetectedIndustry
// and IndustryMismatch are nil when not applicable so consumers can tell "no
// detection" apart from "detected and matched".
type LeadAnalysis struct {
	Intent           Intent     `json:"intent"`
	Urgency          Urgency    `json:"urgency"`
	Complexity       Complexity `json:"complexity"`
	Recommendation   string     `json:"recommendation"`
	PriceRange       string     `json:"priceRange"`
	DetectedIndustry *Industry  `json:"detectedIndustry,omitempty"`
	IndustryMismatch *bool      `json:"industryMismatch,omitempty"`
}

// Mismatch is a nil-safe read of IndustryMismatch.
func (a LeadAnalysis) Mismatch() bool {
	return a.IndustryMismatch != nil && *a.IndustryMismatch
}

// LeadInput is one uploaded lead before scoring.
type LeadInput struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email"`
	Company string `json:"company,omitempty"`
	Message string `json:"message"`
}

// LeadData is a scored lead.
type LeadData struct {
	Name    string  `json:"name,omitempty"`
	Email   string  `json:"email"`
	Company string  `json:"company,omitempty"`
	Message string  `json:"message"`
	Score   int     `json:"score"`
	Segment Segment `json:"segment"`
}
