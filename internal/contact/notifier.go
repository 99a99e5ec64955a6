package contact

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"endicode-workers/internal/common/aws"
	"endicode-workers/internal/common/config"
	"endicode-workers/internal/common/logger"
	"endicode-workers/internal/triage"
)

var ErrNotificationSend = errors.New("NOTIFICATION_SEND_FAILED")

// SendError names the channel that failed. It matches ErrNotificationSend.
type SendError struct {
	Channel string
	Err     error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrNotificationSend, e.Channel, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }

func (e *SendError) Is(target error) bool { return target == ErrNotificationSend }

// Notification is what gets sent to the team about one inquiry.
type Notification struct {
	Contact  Contact
	Analysis triage.LeadAnalysis
}

// Delivery reports which channels were used. Empty ids mean the channel was
// disabled or skipped.
type Delivery struct {
	EmailMessageID string `json:"emailMessageId,omitempty"`
	SMSMessageID   string `json:"smsMessageId,omitempty"`
}

// Partial reports an SMS failure after the email went out.
func (d *Delivery) Partial(err error) bool {
	var sendErr *SendError
	return d != nil && d.EmailMessageID != "" && errors.As(err, &sendErr) && sendErr.Channel == "sms"
}

func (d Delivery) Sent() bool {
	return d.EmailMessageID != "" || d.SMSMessageID != ""
}

// Notifier emails the team about every submission and texts the alert phone
// when the inquiry is urgent.
type Notifier struct {
	ses aws.SESAPI
	sns aws.SNSAPI
	cfg config.NotificationConfig
	log logger.Logger
}

func NewNotifier(ses aws.SESAPI, sns aws.SNSAPI, cfg config.NotificationConfig, log logger.Logger) *Notifier {
	return &Notifier{
		ses: ses,
		sns: sns,
		cfg: cfg,
		log: log.WithFields(map[string]interface{}{"component": "contact-notifier"}),
	}
}

// Notify sends the email before the SMS. When only the SMS fails, the
// returned Delivery still carries the email id alongside the error.
func (n *Notifier) Notify(ctx context.Context, note Notification) (*Delivery, error) {
	var d Delivery

	if n.cfg.Email.Enabled && n.cfg.Email.ToEmail != "" {
		id, err := aws.SendEmail(ctx, n.ses, aws.Email{
			From:    n.cfg.Email.FromEmail,
			To:      []string{n.cfg.Email.ToEmail},
			ReplyTo: []string{note.Contact.Email},
			Subject: EmailSubject(note.Contact.Name),
			Text:    EmailText(note),
			HTML:    EmailHTML(note),
		})
		if err != nil {
			return nil, &SendError{Channel: "email", Err: err}
		}
		d.EmailMessageID = id
	}

	if n.cfg.SMS.Enabled && n.cfg.SMS.AlertPhone != "" && note.Analysis.Urgency == triage.UrgencyHigh {
		id, err := aws.SendSMS(ctx, n.sns, n.cfg.SMS.AlertPhone, SMSText(note), n.cfg.SMS.SenderID)
		if err != nil {
			return &d, &SendError{Channel: "sms", Err: err}
		}
		d.SMSMessageID = id
	}

	n.log.Info("contact notification sent", map[string]interface{}{
		"contactId": note.Contact.ID,
		"email":     d.EmailMessageID != "",
		"sms":       d.SMSMessageID != "",
	})
	return &d, nil
}

func EmailSubject(name string) string {
	return "New Contact Form Submission from " + name
}

func orNA(s *string) string {
	if s == nil || *s == "" {
		return "N/A"
	}
	return *s
}

func EmailText(note Notification) string {
	c, a := note.Contact, note.Analysis
	var b strings.Builder
	b.WriteString("You have received a new contact form submission:\n\n")
	fmt.Fprintf(&b, "Name: %s\n", c.Name)
	fmt.Fprintf(&b, "Email: %s\n", c.Email)
	fmt.Fprintf(&b, "Company: %s\n", orNA(c.Company))
	fmt.Fprintf(&b, "Website: %s\n", orNA(c.Website))
	fmt.Fprintf(&b, "Budget: %s\n", orNA(c.Budget))
	fmt.Fprintf(&b, "Message: %s\n\n", c.Message)
	b.WriteString("Triage:\n")
	fmt.Fprintf(&b, "Intent: %s\n", a.Intent)
	fmt.Fprintf(&b, "Urgency: %s\n", a.Urgency)
	fmt.Fprintf(&b, "Complexity: %s\n", a.Complexity)
	fmt.Fprintf(&b, "Recommendation: %s\n", a.Recommendation)
	fmt.Fprintf(&b, "Price range: %s\n", a.PriceRange)
	return b.String()
}

func EmailHTML(note Notification) string {
	c, a := note.Contact, note.Analysis
	item := func(label, value string) string {
		return fmt.Sprintf("<li><strong>%s:</strong> %s</li>", label, html.EscapeString(value))
	}
	return strings.Join([]string{
		"<p>You have received a new contact form submission:</p>",
		"<ul>",
		item("Name", c.Name),
		item("Email", c.Email),
		item("Company", orNA(c.Company)),
		item("Website", orNA(c.Website)),
		item("Budget", orNA(c.Budget)),
		item("Message", c.Message),
		"</ul>",
		"<p>Triage:</p>",
		"<ul>",
		item("Intent", a.Intent.String()),
		item("Urgency", string(a.Urgency)),
		item("Complexity", string(a.Complexity)),
		item("Recommendation", a.Recommendation),
		item("Price range", a.PriceRange),
		"</ul>",
	}, "\n")
}

// SMSText is the short alert for urgent inquiries.
func SMSText(note Notification) string {
	return fmt.Sprintf("Urgent inquiry from %s (%s): %s, %s. %s",
		note.Contact.Name, note.Contact.Email, note.Analysis.Intent, note.Analysis.Complexity, note.Contact.Message)
}
