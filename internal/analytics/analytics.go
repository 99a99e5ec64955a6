// Package analytics records product events such as demo analyses and CSV
// uploads. Sinks are passed explicitly; there is no global tracker.
package analytics

import (
	"context"
	"errors"
	"time"

	"endicode-workers/internal/common/logger"
	"endicode-workers/internal/triage"

	"github.com/google/uuid"
)

const (
	EventAnalyze   = "automation_demo_analyze"
	EventCSVUpload = "automation_demo_csv_upload"
)

type Event struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	Properties map[string]interface{} `json:"properties"`
	OccurredAt time.Time              `json:"occurredAt"`
}

func NewEvent(name string, props map[string]interface{}) Event {
	if props == nil {
		props = map[string]interface{}{}
	}
	return Event{
		ID:         uuid.NewString(),
		Name:       name,
		Properties: props,
		OccurredAt: time.Now().UTC(),
	}
}

// AnalyzeEvent describes one inquiry analysis. industry is the detected
// industry when there is one, else the selection; budget is passed through.
func AnalyzeEvent(a triage.LeadAnalysis, industry, budget string) Event {
	effective := industry
	if a.DetectedIndustry != nil {
		effective = string(*a.DetectedIndustry)
	}
	return NewEvent(EventAnalyze, map[string]interface{}{
		"intent":           a.Intent.String(),
		"industry":         effective,
		"budget":           budget,
		"complexity":       string(a.Complexity),
		"industryMismatch": a.Mismatch(),
	})
}

func CSVUploadEvent(leadsCount, hotLeads int) Event {
	return NewEvent(EventCSVUpload, map[string]interface{}{
		"leads_count": leadsCount,
		"hot_leads":   hotLeads,
	})
}

type Sink interface {
	Track(ctx context.Context, ev Event) error
}

type NopSink struct{}

func (NopSink) Track(context.Context, Event) error { return nil }

// LogSink writes each event as a structured log line.
type LogSink struct {
	log logger.Logger
}

func NewLogSink(log logger.Logger) *LogSink {
	return &LogSink{log: log.WithFields(map[string]interface{}{"component": "analytics"})}
}

func (s *LogSink) Track(_ context.Context, ev Event) error {
	s.log.Info("analytics event", map[string]interface{}{
		"eventId":    ev.ID,
		"event":      ev.Name,
		"properties": ev.Properties,
	})
	return nil
}

// MultiSink fans out to every sink and joins their errors.
type MultiSink []Sink

func (m MultiSink) Track(ctx context.Context, ev Event) error {
	var errs []error
	for _, s := range m {
		if err := s.Track(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// TrackQuietly records ev and logs, rather than returns, any failure.
// Tracking never fails the caller.
func TrackQuietly(ctx context.Context, sink Sink, ev Event, log logger.Logger) {
	if sink == nil {
		return
	}
	if err := sink.Track(ctx, ev); err != nil {
		log.Warn("analytics tracking failed", map[string]interface{}{
			"event": ev.Name,
			"error": err.Error(),
		})
	}
}
