package sendwhatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	apperrors "endicode-workers/internal/common/errors"
	"endicode-workers/internal/common/logger"
	"endicode-workers/internal/common/metrics"
	"endicode-workers/internal/whatsapp"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "send-whatsapp"
)

type Handler struct {
	config     *Config
	client     *whatsapp.Client
	logger     logger.Logger
	errHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, client *whatsapp.Client, log logger.Logger) *Handler {
	if config.Timeout <= 0 {
		config.Timeout = LoadConfig().Timeout
	}
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		client:     client,
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
		h.failJob(client, job, standardError(err))
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	resp, err := h.client.Relay(ctx, whatsapp.Request{
		UserName:  input.UserName,
		UserPhone: input.UserPhone,
		Message:   input.Message,
	})
	if err != nil {
		return nil, err
	}

	output := &Output{
		MessageID: resp.MessageID(),
		Status:    "sent",
		SentAt:    time.Now().UTC(),
	}
	h.logger.Info("whatsapp message sent", map[string]interface{}{
		"messageId": output.MessageID,
	})
	return output, nil
}

// standardError leaves rejected requests (4xx other than 429) unretried;
// resending the same payload cannot succeed.
func standardError(err error) *apperrors.StandardError {
	var apiErr *whatsapp.APIError
	switch {
	case errors.Is(err, whatsapp.ErrNotConfigured):
		return apperrors.NewWhatsAppNotConfiguredError()
	case errors.Is(err, whatsapp.ErrMissingFields):
		return apperrors.NewInvalidInputError(err.Error())
	case errors.As(err, &apiErr):
		stdErr := apperrors.NewWhatsAppSendFailedError(err).WithMetadata("status", apiErr.Status)
		if apiErr.Status >= 400 && apiErr.Status < 500 && apiErr.Status != http.StatusTooManyRequests {
			stdErr.Retryable = false
		}
		return stdErr
	default:
		return apperrors.NewWhatsAppSendFailedError(err)
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
