package analyzeinquiry

import "endicode-workers/internal/triage"

type Input struct {
	InquiryText string `json:"inquiryText"`
	Industry    string `json:"industry,omitempty"`
	Budget      string `json:"budget,omitempty"`
}

// Output flattens the fields gateways branch on next to the full analysis.
type Output struct {
	Analysis         triage.LeadAnalysis `json:"analysis"`
	DraftReply       string              `json:"draftReply"`
	Intent           string              `json:"intent"`
	Urgency          string              `json:"urgency"`
	Complexity       string              `json:"complexity"`
	PriceRange       string              `json:"priceRange"`
	Timeline         string              `json:"timeline"`
	IndustryMismatch bool                `json:"industryMismatch"`
}
