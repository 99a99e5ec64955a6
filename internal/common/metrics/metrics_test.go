package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestTrackJob(t *testing.T) {
	const taskType = "track-job-test"

	done := TrackJob(taskType)
	assert.Equal(t, 1.0, testutil.ToFloat64(WorkerJobsActive.WithLabelValues(taskType)))
	done()
	assert.Equal(t, 0.0, testutil.ToFloat64(WorkerJobsActive.WithLabelValues(taskType)))
}

func TestJobOutcomes(t *testing.T) {
	const taskType = "job-outcome-test"

	JobCompleted(taskType)
	JobCompleted(taskType)
	JobFailed(taskType, "NO_VALID_LEADS")

	assert.Equal(t, 2.0, testutil.ToFloat64(WorkerJobsCompleted.WithLabelValues(taskType)))
	assert.Equal(t, 1.0, testutil.ToFloat64(WorkerJobsFailed.WithLabelValues(taskType, "NO_VALID_LEADS")))
}
