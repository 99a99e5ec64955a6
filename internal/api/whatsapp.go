package api

import (
	"errors"
	"net/http"

	"endicode-workers/internal/whatsapp"

	"github.com/gin-gonic/gin"
)

func (h *handlers) whatsAppConfigured(c *gin.Context) bool {
	if h.deps.WhatsApp == nil || !h.deps.WhatsApp.Configured() {
		c.JSON(http.StatusInternalServerError, gin.H{"message": whatsapp.NotConfiguredMessage})
		return false
	}
	return true
}

func (h *handlers) sendWhatsApp(c *gin.Context) {
	if !h.whatsAppConfigured(c) {
		return
	}

	// A malformed body is reported as missing fields.
	var req whatsapp.Request
	_ = c.ShouldBindJSON(&req)

	resp, err := h.deps.WhatsApp.Relay(c.Request.Context(), req)
	if err != nil {
		var apiErr *whatsapp.APIError
		switch {
		case errors.Is(err, whatsapp.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		case errors.As(err, &apiErr):
			h.log.Error("whatsapp send error", map[string]interface{}{"status": apiErr.Status, "body": apiErr.Body})
			c.JSON(http.StatusBadGateway, gin.H{"message": "Failed to send WhatsApp message", "details": apiErr.Details()})
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Unexpected error while sending WhatsApp message"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message sent to WhatsApp", "whatsapp": resp})
}

// pollWhatsApp is a placeholder until inbound messages arrive by webhook.
func (h *handlers) pollWhatsApp(c *gin.Context) {
	if !h.whatsAppConfigured(c) {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"messages": []interface{}{},
		"note":     "Polling endpoint is a placeholder. Configure webhooks + storage for full bidirectional chat.",
	})
}
