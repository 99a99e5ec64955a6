package scoreleads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	apperrors "endicode-workers/internal/common/errors"
	"endicode-workers/internal/common/logger"
	"endicode-workers/internal/common/metrics"
	"endicode-workers/internal/leads"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "score-leads"
)

var (
	ErrInvalidInput = errors.New("INVALID_INPUT")
	ErrCSVTooLarge  = errors.New("CSV_TOO_LARGE")
)

type Handler struct {
	config     *Config
	pipeline   *leads.Pipeline
	logger     logger.Logger
	errHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, pipeline *leads.Pipeline, log logger.Logger) *Handler {
	defaults := LoadConfig()
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.MaxCSVBytes <= 0 {
		config.MaxCSVBytes = defaults.MaxCSVBytes
	}
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		pipeline:   pipeline,
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
		h.failJob(client, job, h.standardError(err))
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	var (
		result *leads.BatchResult
		err    error
	)
	switch {
	case input.CSV != "":
		if len(input.CSV) > h.config.MaxCSVBytes {
			return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrCSVTooLarge, len(input.CSV), h.config.MaxCSVBytes)
		}
		result, err = h.pipeline.Process(ctx, strings.NewReader(input.CSV))
	case len(input.Leads) > 0:
		result, err = h.pipeline.Score(ctx, input.Leads)
	default:
		return nil, fmt.Errorf("%w: csv or leads is required", ErrInvalidInput)
	}
	if err != nil {
		return nil, err
	}

	return &Output{
		Leads: result.Leads,
		Total: result.Total,
		Hot:   result.Hot,
		Warm:  result.Warm,
		Cold:  result.Cold,
	}, nil
}

func (h *Handler) standardError(err error) *apperrors.StandardError {
	switch {
	case errors.Is(err, leads.ErrNoValidLeads):
		return apperrors.NewNoValidLeadsError()
	default:
		// malformed CSV, oversized payloads and empty input are all the
		// caller's fault
		return apperrors.NewInvalidInputError(err.Error())
	}
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
