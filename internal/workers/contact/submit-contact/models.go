package submitcontact

import (
	"time"

	"endicode-workers/internal/contact"
)

type Input struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company,omitempty"`
	Website string `json:"website,omitempty"`
	Budget  string `json:"budget,omitempty"`
	Message string `json:"message"`
}

func (i Input) submission() contact.Submission {
	return contact.Submission{
		Name:    i.Name,
		Email:   i.Email,
		Company: i.Company,
		Website: i.Website,
		Budget:  i.Budget,
		Message: i.Message,
	}
}

type Output struct {
	ContactID      int64     `json:"contactId"`
	CreatedAt      time.Time `json:"createdAt"`
	Intent         string    `json:"intent"`
	Urgency        string    `json:"urgency"`
	Complexity     string    `json:"complexity"`
	Recommendation string    `json:"recommendation"`
	PriceRange     string    `json:"priceRange"`
	// UrgentAlert tells the process to route through the SMS branch of
	// send-notification.
	UrgentAlert bool `json:"urgentAlert"`
}
