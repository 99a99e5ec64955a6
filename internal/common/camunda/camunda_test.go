package camunda

import (
	"context"
	"errors"
	"testing"
	"time"

	"endicode-workers/internal/common/logger"
	"endicode-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastRetry = RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

func TestRetryWithBackoff(t *testing.T) {
	tests := []struct {
		name      string
		failures  int
		permanent bool
		wantErr   bool
		wantCalls int
	}{
		{name: "first try", failures: 0, wantCalls: 1},
		{name: "recovers", failures: 2, wantCalls: 3},
		{name: "exhausts attempts", failures: 5, wantErr: true, wantCalls: 3},
		{name: "permanent stops early", failures: 5, permanent: true, wantErr: true, wantCalls: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(context.Background(), fastRetry, logger.NewTestLogger(t), "op", func(context.Context) error {
				calls++
				if calls <= tt.failures {
					if tt.permanent {
						return Permanent(errors.New("bad address"))
					}
					return errors.New("connection refused")
				}
				return nil
			})
			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRetryWithBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rc := RetryConfig{MaxAttempts: 5, BaseDelay: time.Hour}
	err := RetryWithBackoff(ctx, rc, logger.NewNoOpLogger(), "op", func(context.Context) error {
		return errors.New("unavailable")
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(errors.New("rpc error: code = Unavailable desc = connection refused")))
	assert.True(t, IsTransient(errors.New("context deadline exceeded")))
	assert.False(t, IsTransient(errors.New("permission denied")))
	assert.False(t, IsTransient(nil))
}

func TestPermanent_Unwraps(t *testing.T) {
	base := errors.New("x")
	assert.ErrorIs(t, Permanent(base), base)
	assert.NoError(t, Permanent(nil))
}

func TestInstrument(t *testing.T) {
	const taskType = "instrument-test"
	called := false

	h := instrument(taskType, nil, func(_ worker.JobClient, job entities.Job) {
		called = true
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WorkerJobsActive.WithLabelValues(taskType)))
	})
	h(nil, entities.Job{})

	require.True(t, called)
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.WorkerJobsActive.WithLabelValues(taskType)))
}
