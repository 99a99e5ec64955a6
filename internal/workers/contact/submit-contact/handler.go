package submitcontact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "endicode-workers/internal/common/errors"
	"endicode-workers/internal/common/logger"
	"endicode-workers/internal/common/metrics"
	"endicode-workers/internal/contact"
	"endicode-workers/internal/triage"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "submit-contact"
)

// Handler stores the submission only; notifying the team is the
// send-notification task's job, so the service runs without a sender.
type Handler struct {
	config     *Config
	service    *contact.Service
	logger     logger.Logger
	errHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, repo contact.Repository, log logger.Logger) *Handler {
	if config.Timeout <= 0 {
		config.Timeout = LoadConfig().Timeout
	}
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		service:    contact.NewService(repo, nil, l),
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
		h.failJob(client, job, standardError(ctx, err))
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	result, err := h.service.Submit(ctx, input.submission())
	if err != nil {
		return nil, err
	}

	a := result.Analysis
	return &Output{
		ContactID:      result.Contact.ID,
		CreatedAt:      result.Contact.CreatedAt,
		Intent:         a.Intent.String(),
		Urgency:        string(a.Urgency),
		Complexity:     string(a.Complexity),
		Recommendation: a.Recommendation,
		PriceRange:     a.PriceRange,
		UrgentAlert:    a.Urgency == triage.UrgencyHigh,
	}, nil
}

func standardError(ctx context.Context, err error) *apperrors.StandardError {
	if fieldErrors, ok := contact.IsValidation(err); ok {
		return apperrors.NewContactValidationError(fieldErrors)
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperrors.NewQueryTimeoutError("insert contact")
	}
	switch {
	case errors.Is(err, contact.ErrDatabaseConnection):
		return apperrors.NewDatabaseConnectionFailedError(err)
	case errors.Is(err, contact.ErrDatabaseInsert):
		return apperrors.NewDatabaseInsertFailedError(err)
	default:
		return apperrors.NewInternalError(err)
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
