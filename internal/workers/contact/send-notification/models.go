package sendnotification

import (
	"time"

	"endicode-workers/internal/contact"
)

// Input is the stored contact as produced by submit-contact plus the form
// fields; the triage is recomputed from the message and budget.
type Input struct {
	ContactID int64     `json:"contactId"`
	CreatedAt time.Time `json:"createdAt"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company,omitempty"`
	Website   string    `json:"website,omitempty"`
	Budget    string    `json:"budget,omitempty"`
	Message   string    `json:"message"`
}

func (i Input) contact() contact.Contact {
	opt := func(s string) *string {
		if s == "" {
			return nil
		}
		return &s
	}
	return contact.Contact{
		ID:        i.ContactID,
		Name:      i.Name,
		Email:     i.Email,
		Company:   opt(i.Company),
		Website:   opt(i.Website),
		Budget:    opt(i.Budget),
		Message:   i.Message,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.CreatedAt,
	}
}

const (
	StatusSent     = "sent"
	StatusDisabled = "disabled"
	// StatusPartial means the email went out but the SMS alert failed.
	StatusPartial = "partial"
)

type Output struct {
	NotificationID string    `json:"notificationId"`
	Status         string    `json:"status"`
	EmailMessageID string    `json:"emailMessageId,omitempty"`
	SMSMessageID   string    `json:"smsMessageId,omitempty"`
	Error          string    `json:"error,omitempty"`
	SentAt         time.Time `json:"sentAt"`
}
