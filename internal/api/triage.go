package api

import (
	"context"
	"net/http"
	"strings"
	"unicode/utf8"

	"endicode-workers/internal/analytics"
	"endicode-workers/internal/common/metrics"
	"endicode-workers/internal/triage"

	"github.com/gin-gonic/gin"
)

// minDetectLength is the trimmed length an inquiry must exceed before live
// industry detection runs.
const minDetectLength = 20

type analyzeRequest struct {
	Text     string `json:"text"`
	Industry string `json:"industry"`
	Budget   string `json:"budget"`
}

type analyzeResponse struct {
	Analysis   triage.LeadAnalysis      `json:"analysis"`
	Detection  triage.IndustryDetection `json:"detection"`
	DraftReply string                   `json:"draftReply"`
}

func (h *handlers) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	analysis := triage.Analyze(req.Text, req.Industry, req.Budget)
	h.recordAnalysis(ctx, analysis, req.Industry, req.Budget)

	c.JSON(http.StatusOK, analyzeResponse{
		Analysis:   analysis,
		Detection:  triage.DetectIndustry(req.Text),
		DraftReply: triage.RenderReply(analysis, req.Industry, req.Budget, h.app.PublicOrigin),
	})
}

func (h *handlers) recordAnalysis(ctx context.Context, a triage.LeadAnalysis, industry, budget string) {
	metrics.InquiriesAnalyzed.WithLabelValues(a.Intent.String(), string(a.Complexity)).Inc()
	if a.Mismatch() {
		metrics.IndustryMismatches.Inc()
	}
	h.deps.Obs.RecordAnalysis(ctx, a.Intent.String(), string(a.Complexity))
	analytics.TrackQuietly(ctx, h.deps.Sink, analytics.AnalyzeEvent(a, industry, budget), h.log)
}

func (h *handlers) detectIndustry(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request: " + err.Error()})
		return
	}

	if utf8.RuneCountInString(strings.TrimSpace(req.Text)) <= minDetectLength {
		c.JSON(http.StatusOK, gin.H{"detection": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"detection": triage.DetectIndustry(req.Text)})
}
