package contact

import (
	"context"
	"errors"

	"endicode-workers/internal/common/logger"
	"endicode-workers/internal/common/metrics"
	"endicode-workers/internal/triage"
)

// Repository is the storage the service needs; *Store implements it.
type Repository interface {
	Create(ctx context.Context, sub Submission) (*Contact, error)
	List(ctx context.Context) ([]Contact, error)
}

// Sender delivers team notifications; *Notifier implements it.
type Sender interface {
	Notify(ctx context.Context, note Notification) (*Delivery, error)
}

type Result struct {
	Contact  *Contact            `json:"contact"`
	Analysis triage.LeadAnalysis `json:"analysis"`
	Delivery *Delivery           `json:"delivery,omitempty"`
}

type Service struct {
	repo   Repository
	sender Sender
	log    logger.Logger
}

// NewService accepts a nil sender, in which case no notification is sent.
func NewService(repo Repository, sender Sender, log logger.Logger) *Service {
	return &Service{
		repo:   repo,
		sender: sender,
		log:    log.WithFields(map[string]interface{}{"component": "contact"}),
	}
}

// Submit validates, triages, stores and announces one submission.
func (s *Service) Submit(ctx context.Context, sub Submission) (*Result, error) {
	sub = sub.Normalize()
	if err := Validate(sub); err != nil {
		metrics.ContactSubmissions.WithLabelValues("invalid").Inc()
		return nil, err
	}

	analysis := triage.Analyze(sub.Message, "", sub.Budget)

	c, err := s.repo.Create(ctx, sub)
	if err != nil {
		metrics.ContactSubmissions.WithLabelValues("failed").Inc()
		s.log.Error("contact insert failed", map[string]interface{}{"error": err})
		return nil, err
	}

	result := &Result{Contact: c, Analysis: analysis}
	if s.sender != nil {
		d, err := s.sender.Notify(ctx, Notification{Contact: *c, Analysis: analysis})
		if d.Partial(err) {
			s.log.Warn("sms alert failed after email was sent", map[string]interface{}{
				"contactId": c.ID,
				"error":     err,
			})
			err = nil
		}
		if err != nil {
			metrics.ContactSubmissions.WithLabelValues("failed").Inc()
			s.log.Error("contact notification failed", map[string]interface{}{
				"contactId": c.ID,
				"error":     err,
			})
			return nil, err
		}
		result.Delivery = d
	}

	metrics.ContactSubmissions.WithLabelValues("created").Inc()
	s.log.Info("contact submitted", map[string]interface{}{
		"contactId":  c.ID,
		"intent":     analysis.Intent.String(),
		"urgency":    string(analysis.Urgency),
		"complexity": string(analysis.Complexity),
	})
	return result, nil
}

func (s *Service) List(ctx context.Context) ([]Contact, error) {
	contacts, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error("list contacts failed", map[string]interface{}{"error": err})
		return nil, err
	}
	return contacts, nil
}

// IsValidation reports whether err is a submission validation failure and
// returns its field messages.
func IsValidation(err error) ([]string, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Errors, true
	}
	return nil, false
}
