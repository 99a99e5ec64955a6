package sendwhatsapp

import "time"

type Input struct {
	UserName  string `json:"userName,omitempty"`
	UserPhone string `json:"userPhone"`
	Message   string `json:"message"`
}

type Output struct {
	MessageID string    `json:"messageId"`
	Status    string    `json:"status"`
	SentAt    time.Time `json:"sentAt"`
}
