package errors

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// Logger is the subset of logger.Logger the handler needs.
type Logger interface {
	Error(msg string, fields map[string]interface{})
}

// ErrorHandler settles a failed job: retryable errors fail the job with a
// bounded retry count, everything else is thrown as a BPMN error.
type ErrorHandler struct {
	logger Logger
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// resolution is what HandleJobError will do with a job.
type resolution struct {
	bpmn    *BPMNError
	stdErr  *StandardError
	retries int
	throw   bool
}

func resolve(err error, remaining int32) resolution {
	stdErr, ok := AsStandardError(err)
	if !ok {
		stdErr = NewInternalError(err)
	}
	bpmnErr := ConvertToBPMNError(stdErr)

	if bpmnErr.Retries == 0 || remaining <= 1 {
		return resolution{bpmn: bpmnErr, stdErr: stdErr, throw: true}
	}
	// never hand the broker more retries than the job has left
	retries := bpmnErr.Retries
	if int(remaining-1) < retries {
		retries = int(remaining - 1)
	}
	return resolution{bpmn: bpmnErr, stdErr: stdErr, retries: retries}
}

func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	r := resolve(err, job.Retries)

	h.logger.Error("Job failed", map[string]interface{}{
		"jobKey":          job.Key,
		"jobType":         job.Type,
		"errorCode":       r.bpmn.Code,
		"details":         r.stdErr.Details,
		"retryable":       r.stdErr.Retryable,
		"retries":         r.retries,
		"thrown":          r.throw,
		"errorCategory":   GetErrorCategory(r.stdErr.Code),
		"processInstance": job.ProcessInstanceKey,
	})

	varsJSON, mErr := json.Marshal(r.bpmn.ToErrorVariables())

	if r.throw {
		cmd := client.NewThrowErrorCommand().
			JobKey(job.Key).
			ErrorCode(r.bpmn.Code).
			ErrorMessage(r.bpmn.Message)
		if mErr == nil {
			if withVars, vErr := cmd.VariablesFromString(string(varsJSON)); vErr == nil {
				_, _ = withVars.Send(ctx)
				return
			}
		}
		_, _ = cmd.Send(ctx)
		return
	}

	cmd := client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(int32(r.retries)).
		ErrorMessage(r.bpmn.Message)
	if mErr == nil {
		if withVars, vErr := cmd.VariablesFromString(string(varsJSON)); vErr == nil {
			_, _ = withVars.Send(ctx)
			return
		}
	}
	_, _ = cmd.Send(ctx)
}
