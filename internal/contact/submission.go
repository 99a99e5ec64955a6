// Package contact handles website contact-form submissions: validation,
// storage, inquiry triage and team notification.
package contact

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"endicode-workers/internal/common/validation"
)

var ErrValidation = errors.New("CONTACT_VALIDATION_FAILED")

// Submission is the payload posted by the contact form.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company,omitempty"`
	Website string `json:"website,omitempty"`
	Budget  string `json:"budget,omitempty"`
	Message string `json:"message"`
}

// Contact is a stored submission.
type Contact struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   *string   `json:"company"`
	Website   *string   `json:"website,omitempty"`
	Budget    *string   `json:"budget,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

var submissionSchema = validation.MustCompile(`{
  "type": "object",
  "required": ["name", "email", "message"],
  "properties": {
    "name":    {"type": "string", "minLength": 1},
    "email":   {"type": "string", "format": "email"},
    "company": {"type": "string"},
    "website": {"type": "string", "format": "uri"},
    "budget":  {"type": "string", "enum": ["3k-10k", "10k-35k", "35k-70k", "70k+"]},
    "message": {"type": "string", "minLength": 1}
  }
}`)

// ValidationError lists every field problem found in a submission.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(e.Errors, "; "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Normalize trims every field. Empty optional fields are dropped from the
// JSON form and so skip their format checks.
func (s Submission) Normalize() Submission {
	return Submission{
		Name:    strings.TrimSpace(s.Name),
		Email:   strings.TrimSpace(s.Email),
		Company: strings.TrimSpace(s.Company),
		Website: strings.TrimSpace(s.Website),
		Budget:  strings.TrimSpace(s.Budget),
		Message: strings.TrimSpace(s.Message),
	}
}

// Validate returns a *ValidationError when s does not satisfy the
// submission schema.
func Validate(s Submission) error {
	result, err := submissionSchema.Validate(s)
	if err != nil {
		return err
	}
	if !result.Valid {
		return &ValidationError{Errors: result.Messages()}
	}
	return nil
}
