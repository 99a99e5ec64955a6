package api

import (
	"net/http"

	"endicode-workers/internal/contact"

	"github.com/gin-gonic/gin"
)

func (h *handlers) submitContact(c *gin.Context) {
	var sub contact.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed", "errors": []string{err.Error()}})
		return
	}

	result, err := h.deps.Contacts.Submit(c.Request.Context(), sub)
	if err != nil {
		if fieldErrs, ok := contact.IsValidation(err); ok {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed", "errors": fieldErrs})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to submit contact form"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Contact form submitted successfully",
		"id":      result.Contact.ID,
	})
}

func (h *handlers) listContacts(c *gin.Context) {
	contacts, err := h.deps.Contacts.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve contacts"})
		return
	}
	c.JSON(http.StatusOK, contacts)
}
