package detectindustry

import "endicode-workers/internal/triage"

type Input struct {
	Text string `json:"text"`
}

type Output struct {
	Detection triage.IndustryDetection `json:"detection"`
	// Industry is the detected label when the detection is actionable
	// (medium or high confidence), else empty.
	Industry   string `json:"industry"`
	Actionable bool   `json:"actionable"`
}
