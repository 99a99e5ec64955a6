package leads

import (
	"context"
	"errors"
	"io"

	"endicode-workers/internal/analytics"
	"endicode-workers/internal/common/logger"
	"endicode-workers/internal/common/metrics"
	"endicode-workers/internal/common/observability"
	"endicode-workers/internal/triage"
)

var ErrNoValidLeads = errors.New("No valid leads found. Please ensure your CSV has 'email' column.")

// BatchResult is a scored upload with its segment counts.
type BatchResult struct {
	Leads []triage.LeadData `json:"leads"`
	Total int               `json:"total"`
	Hot   int               `json:"hot"`
	Warm  int               `json:"warm"`
	Cold  int               `json:"cold"`
}

// Pipeline filters, deduplicates and scores lead batches.
type Pipeline struct {
	sink analytics.Sink
	obs  *observability.Observability
	log  logger.Logger
}

// NewPipeline accepts a nil sink and a nil obs.
func NewPipeline(sink analytics.Sink, obs *observability.Observability, log logger.Logger) *Pipeline {
	if sink == nil {
		sink = analytics.NopSink{}
	}
	return &Pipeline{
		sink: sink,
		obs:  obs,
		log:  log.WithFields(map[string]interface{}{"component": "leads"}),
	}
}

// Process parses a CSV upload and scores it.
func (p *Pipeline) Process(ctx context.Context, r io.Reader) (*BatchResult, error) {
	records, err := ParseCSV(r)
	if err != nil {
		return nil, err
	}
	return p.Score(ctx, records)
}

// Score runs already-parsed records through filter, dedupe and scoring.
func (p *Pipeline) Score(ctx context.Context, records []triage.LeadInput) (*BatchResult, error) {
	valid := FilterValid(records)
	if len(valid) == 0 {
		p.log.Warn("no valid leads in batch", map[string]interface{}{"records": len(records)})
		return nil, ErrNoValidLeads
	}

	scored := triage.ScoreLeads(DedupeByEmail(valid))
	counts := triage.SegmentCounts(scored)
	result := &BatchResult{
		Leads: scored,
		Total: len(scored),
		Hot:   counts[triage.SegmentHot],
		Warm:  counts[triage.SegmentWarm],
		Cold:  counts[triage.SegmentCold],
	}

	for segment, n := range counts {
		metrics.LeadsScored.WithLabelValues(string(segment)).Add(float64(n))
		p.obs.RecordLeads(ctx, string(segment), n)
	}
	analytics.TrackQuietly(ctx, p.sink, analytics.CSVUploadEvent(result.Total, result.Hot), p.log)

	p.log.Info("lead batch scored", map[string]interface{}{
		"records":    len(records),
		"duplicates": len(valid) - result.Total,
		"total":      result.Total,
		"hot":        result.Hot,
		"warm":       result.Warm,
		"cold":       result.Cold,
	})
	return result, nil
}
