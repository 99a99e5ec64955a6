package detectindustry

import (
	"context"
	"testing"

	"endicode-workers/internal/common/logger"
	"endicode-workers/internal/triage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		industry   string
		actionable bool
		confidence triage.Confidence
	}{
		{"high confidence", "Our fintech startup handles banking payments and loan credit checks.", "finance", true, triage.ConfidenceHigh},
		{"medium confidence", "We run a small clinic.", "healthcare", true, triage.ConfidenceMedium},
		{"low confidence is not actionable", "We are building a mobile app.", "", false, triage.ConfidenceLow},
		{"nothing detected", "Hello there, general question.", "", false, triage.ConfidenceLow},
	}

	handler := NewHandler(&Config{}, logger.NewTestLogger(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), &Input{Text: tt.text})
			require.NoError(t, err)
			assert.Equal(t, tt.industry, output.Industry)
			assert.Equal(t, tt.actionable, output.Actionable)
			assert.Equal(t, tt.confidence, output.Detection.Confidence)
		})
	}
}

func TestHandler_Execute_EmptyText(t *testing.T) {
	handler := NewHandler(LoadConfig(), logger.NewNoOpLogger())

	_, err := handler.Execute(context.Background(), &Input{Text: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
