package analyzeinquiry

import (
	"context"
	"encoding/json"
	"fmt"

	"endicode-workers/internal/analytics"
	apperrors "endicode-workers/internal/common/errors"
	"endicode-workers/internal/common/logger"
	"endicode-workers/internal/common/metrics"
	"endicode-workers/internal/common/observability"
	"endicode-workers/internal/triage"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "analyze-inquiry"
)

type Handler struct {
	config     *Config
	sink       analytics.Sink
	obs        *observability.Observability
	logger     logger.Logger
	errHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, sink analytics.Sink, obs *observability.Observability, log logger.Logger) *Handler {
	if config.Timeout <= 0 {
		config.Timeout = LoadConfig().Timeout
	}
	if sink == nil {
		sink = analytics.NopSink{}
	}
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		sink:       sink,
		obs:        obs,
		logger:     l,
		errHandler: apperrors.NewErrorHandler(l),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, apperrors.NewInternalError(err))
		return
	}

	h.completeJob(client, job, output)
}

// execute cannot fail: every inquiry, including an empty one, gets an
// analysis.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	analysis := triage.Analyze(input.InquiryText, input.Industry, input.Budget)

	metrics.InquiriesAnalyzed.WithLabelValues(analysis.Intent.String(), string(analysis.Complexity)).Inc()
	if analysis.Mismatch() {
		metrics.IndustryMismatches.Inc()
	}
	h.obs.RecordAnalysis(ctx, analysis.Intent.String(), string(analysis.Complexity))
	analytics.TrackQuietly(ctx, h.sink, analytics.AnalyzeEvent(analysis, input.Industry, input.Budget), h.logger)

	h.logger.Info("inquiry analyzed", map[string]interface{}{
		"intent":     analysis.Intent.String(),
		"urgency":    string(analysis.Urgency),
		"complexity": string(analysis.Complexity),
		"mismatch":   analysis.Mismatch(),
	})

	return &Output{
		Analysis:         analysis,
		DraftReply:       triage.RenderReply(analysis, input.Industry, input.Budget, h.config.PublicOrigin),
		Intent:           analysis.Intent.String(),
		Urgency:          string(analysis.Urgency),
		Complexity:       string(analysis.Complexity),
		PriceRange:       analysis.PriceRange,
		Timeline:         triage.Timeline(analysis.Complexity),
		IndustryMismatch: analysis.Mismatch(),
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.JobCompleted(TaskType)
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, stdErr *apperrors.StandardError) {
	metrics.JobFailed(TaskType, string(stdErr.Code))
	h.errHandler.HandleJobError(context.Background(), client, job, stdErr)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
