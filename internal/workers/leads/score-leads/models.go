package scoreleads

import "endicode-workers/internal/triage"

// Input carries either raw CSV text or already-parsed records. CSV wins when
// both are set.
type Input struct {
	CSV   string             `json:"csv,omitempty"`
	Leads []triage.LeadInput `json:"leads,omitempty"`
}

type Output struct {
	Leads []triage.LeadData `json:"leads"`
	Total int               `json:"total"`
	Hot   int               `json:"hot"`
	Warm  int               `json:"warm"`
	Cold  int               `json:"cold"`
}
