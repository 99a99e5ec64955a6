package sendnotification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "endicode-workers/internal/common/errors"
	"endicode-workers/internal/common/logger"
	"endicode-workers/internal/common/metrics"
	"endicode-workers/internal/contact"
	"endicode-workers/internal/triage"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "send-notification"
)

var (
	ErrInvalidInput = errors.New("INVALID_INPUT")
)

type Handler struct {
	config     *Config
	sender     contact.Sender
	logger     logger.Logger
	errHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, sender contact.Sender, log logger.Logger) *Handler {
	if config.Timeout <= 0 {
		config.Timeout = LoadConfig().Timeout
	}
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		sender:     sender,
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
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Email) == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}

	note := contact.Notification{
		Contact:  input.contact(),
		Analysis: triage.Analyze(input.Message, "", input.Budget),
	}
	delivery, err := h.sender.Notify(ctx, note)
	if delivery.Partial(err) {
		// The email is out; retrying would send it again.
		h.logger.Warn("sms alert failed after email was sent", map[string]interface{}{
			"contactId": input.ContactID,
			"error":     err,
		})
		return &Output{
			NotificationID: uuid.New().String(),
			Status:         StatusPartial,
			EmailMessageID: delivery.EmailMessageID,
			Error:          err.Error(),
			SentAt:         time.Now().UTC(),
		}, nil
	}
	if err != nil {
		return nil, err
	}

	output := &Output{
		NotificationID: uuid.New().String(),
		Status:         StatusDisabled,
		EmailMessageID: delivery.EmailMessageID,
		SMSMessageID:   delivery.SMSMessageID,
		SentAt:         time.Now().UTC(),
	}
	if delivery.Sent() {
		output.Status = StatusSent
	}

	h.logger.Info("notification processed", map[string]interface{}{
		"contactId":      input.ContactID,
		"notificationId": output.NotificationID,
		"status":         output.Status,
	})
	return output, nil
}

func standardError(err error) *apperrors.StandardError {
	var sendErr *contact.SendError
	switch {
	case errors.Is(err, ErrInvalidInput):
		return apperrors.NewInvalidInputError(err.Error())
	case errors.As(err, &sendErr):
		return apperrors.NewNotificationSendFailedError(sendErr.Channel, sendErr.Err)
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
