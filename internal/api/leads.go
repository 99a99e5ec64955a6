package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	"endicode-workers/internal/leads"
	"endicode-workers/internal/triage"

	"github.com/gin-gonic/gin"
)

var errNotCSV = errors.New("Please upload a CSV file")

// scoreBatch reads leads from a multipart "file" upload, a raw text/csv body
// or JSON {"leads": [...]}.
func (h *handlers) scoreBatch(c *gin.Context) (*leads.BatchResult, error) {
	if h.server.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.server.MaxUploadBytes)
	}
	ctx := c.Request.Context()

	switch contentType := c.ContentType(); {
	case strings.HasPrefix(contentType, "multipart/"):
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, err
		}
		if !strings.HasSuffix(strings.ToLower(fh.Filename), ".csv") {
			return nil, errNotCSV
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return h.deps.Leads.Process(ctx, f)

	case contentType == "text/csv" || contentType == "application/csv":
		return h.deps.Leads.Process(ctx, c.Request.Body)

	default:
		var req struct {
			Leads []triage.LeadInput `json:"leads"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, err
		}
		return h.deps.Leads.Score(ctx, req.Leads)
	}
}

func (h *handlers) leadsError(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, leads.ErrNoValidLeads):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
	case errors.Is(err, errNotCSV):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.As(err, &maxErr):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"message": "Upload too large"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to process CSV file", "error": err.Error()})
	}
}

func (h *handlers) scoreLeads(c *gin.Context) {
	result, err := h.scoreBatch(c)
	if err != nil {
		h.leadsError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *handlers) exportLeads(c *gin.Context) {
	result, err := h.scoreBatch(c)
	if err != nil {
		h.leadsError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := leads.WriteCSV(&buf, result.Leads); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to export leads"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+leads.ExportFileName+`"`)
	c.DataFromReader(http.StatusOK, int64(buf.Len()), "text/csv; charset=utf-8", io.NopCloser(&buf), nil)
}
