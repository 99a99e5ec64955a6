package registry

import (
	apperrors "endicode-workers/internal/common/errors"
)

func object(required []string, props map[string]interface{}) map[string]interface{} {
	s := map[string]interface{}{"type": "object", "properties": props}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func typed(t string) map[string]interface{} {
	return map[string]interface{}{"type": t}
}

func activity(id, name, category, description, timeout string, codes []apperrors.ErrorCode, in, out map[string]interface{}) Activity {
	retries := 0
	errorCodes := make([]string, 0, len(codes))
	for _, c := range codes {
		errorCodes = append(errorCodes, string(c))
		if n := apperrors.GetRetryCount(c); n > retries {
			retries = n
		}
	}
	return Activity{
		ID:                   id,
		DisplayName:          name,
		Description:          description,
		Category:             category,
		Version:              "1.0.0",
		TaskType:             id,
		ImplementationStatus: StatusCompleted,
		InputSchema:          in,
		OutputSchema:         out,
		ErrorCodes:           errorCodes,
		Timeout:              timeout,
		Retries:              retries,
		Tags:                 []string{category},
	}
}

// Default returns the built-in catalogue of this service's job workers.
func Default() *ActivityRegistry {
	return &ActivityRegistry{
		Version: "1.0.0",
		Activities: []Activity{
			activity("analyze-inquiry", "Analyze Inquiry", "triage",
				"Classifies an inquiry and drafts a reply",
				"10s",
				[]apperrors.ErrorCode{apperrors.ErrCodeInvalidInput},
				object([]string{"inquiryText"}, map[string]interface{}{
					"inquiryText": typed("string"),
					"industry":    typed("string"),
					"budget":      typed("string"),
				}),
				object(nil, map[string]interface{}{
					"analysis":         typed("object"),
					"draftReply":       typed("string"),
					"intent":           typed("string"),
					"urgency":          typed("string"),
					"complexity":       typed("string"),
					"priceRange":       typed("string"),
					"timeline":         typed("string"),
					"industryMismatch": typed("boolean"),
				})),
			activity("detect-industry", "Detect Industry", "triage",
				"Detects the industry an inquiry is about",
				"5s",
				[]apperrors.ErrorCode{apperrors.ErrCodeInvalidInput},
				object([]string{"text"}, map[string]interface{}{
					"text": typed("string"),
				}),
				object(nil, map[string]interface{}{
					"detection":  typed("object"),
					"industry":   typed("string"),
					"actionable": typed("boolean"),
				})),
			activity("score-leads", "Score Leads", "leads",
				"Deduplicates and scores a batch of leads",
				"30s",
				[]apperrors.ErrorCode{apperrors.ErrCodeInvalidInput, apperrors.ErrCodeNoValidLeads},
				object(nil, map[string]interface{}{
					"csv":   typed("string"),
					"leads": typed("array"),
				}),
				object(nil, map[string]interface{}{
					"leads": typed("array"),
					"total": typed("integer"),
					"hot":   typed("integer"),
					"warm":  typed("integer"),
					"cold":  typed("integer"),
				})),
			activity("submit-contact", "Submit Contact", "contact",
				"Validates, triages and stores a contact form submission",
				"10s",
				[]apperrors.ErrorCode{
					apperrors.ErrCodeInvalidInput,
					apperrors.ErrCodeContactValidationFailed,
					apperrors.ErrCodeDatabaseConnectionFailed,
					apperrors.ErrCodeDatabaseInsertFailed,
					apperrors.ErrCodeQueryTimeout,
				},
				object([]string{"name", "email", "message"}, map[string]interface{}{
					"name":    typed("string"),
					"email":   typed("string"),
					"company": typed("string"),
					"website": typed("string"),
					"budget":  typed("string"),
					"message": typed("string"),
				}),
				object(nil, map[string]interface{}{
					"contactId":      typed("integer"),
					"createdAt":      typed("string"),
					"intent":         typed("string"),
					"urgency":        typed("string"),
					"complexity":     typed("string"),
					"recommendation": typed("string"),
					"priceRange":     typed("string"),
					"urgentAlert":    typed("boolean"),
				})),
			activity("send-notification", "Send Notification", "contact",
				"Emails the team and texts the alert phone for urgent inquiries",
				"15s",
				[]apperrors.ErrorCode{apperrors.ErrCodeInvalidInput, apperrors.ErrCodeNotificationSendFailed},
				object([]string{"name", "email"}, map[string]interface{}{
					"contactId": typed("integer"),
					"name":      typed("string"),
					"email":     typed("string"),
					"message":   typed("string"),
					"budget":    typed("string"),
				}),
				object(nil, map[string]interface{}{
					"notificationId": typed("string"),
					"status":         typed("string"),
					"emailMessageId": typed("string"),
					"smsMessageId":   typed("string"),
					"sentAt":         typed("string"),
				})),
			activity("send-whatsapp", "Send WhatsApp", "contact",
				"Relays a visitor message through the WhatsApp Cloud API",
				"15s",
				[]apperrors.ErrorCode{
					apperrors.ErrCodeInvalidInput,
					apperrors.ErrCodeWhatsAppNotConfigured,
					apperrors.ErrCodeWhatsAppSendFailed,
				},
				object([]string{"userPhone", "message"}, map[string]interface{}{
					"userName":  typed("string"),
					"userPhone": typed("string"),
					"message":   typed("string"),
				}),
				object(nil, map[string]interface{}{
					"messageId": typed("string"),
					"status":    typed("string"),
					"sentAt":    typed("string"),
				})),
		},
	}
}
