// Package whatsapp sends outbound text messages through the WhatsApp Cloud
// (Graph) API.
package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"endicode-workers/internal/common/config"
	apphttp "endicode-workers/internal/common/http"
)

const NotConfiguredMessage = "WhatsApp API is not configured. Please set WHATSAPP_PHONE_NUMBER_ID and WHATSAPP_ACCESS_TOKEN environment variables."

var (
	ErrNotConfigured = errors.New("WHATSAPP_NOT_CONFIGURED")
	ErrMissingFields = errors.New("Missing required fields: userPhone and message")
)

// APIError is a non-2xx answer from the Graph API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("whatsapp api returned %d: %s", e.Status, e.Body)
}

// Details returns the error body as JSON when it is JSON, else as a string.
func (e *APIError) Details() interface{} {
	if json.Valid([]byte(e.Body)) {
		return json.RawMessage(e.Body)
	}
	return e.Body
}

type textMessage struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		Body string `json:"body"`
	} `json:"text"`
}

// SendResponse is the Graph API reply to a successful send.
type SendResponse struct {
	MessagingProduct string `json:"messaging_product"`
	Contacts         []struct {
		Input string `json:"input"`
		WaID  string `json:"wa_id"`
	} `json:"contacts"`
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// MessageID is the id of the first accepted message, if any.
func (r *SendResponse) MessageID() string {
	if r == nil || len(r.Messages) == 0 {
		return ""
	}
	return r.Messages[0].ID
}

type Client struct {
	http    *apphttp.Client
	phoneID string
}

// NewClient always returns a client; an unconfigured one fails every send
// with ErrNotConfigured.
func NewClient(cfg config.WhatsAppConfig, opts ...apphttp.Option) *Client {
	if !cfg.Configured() {
		return &Client{}
	}
	opts = append([]apphttp.Option{apphttp.WithBearerToken(cfg.AccessToken)}, opts...)
	return &Client{
		http:    apphttp.NewClient(cfg.BaseURL, config.GetDuration(cfg.Timeout), opts...),
		phoneID: cfg.PhoneNumberID,
	}
}

func (c *Client) Configured() bool {
	return c != nil && c.http != nil
}

// SendText delivers body to the phone number to.
func (c *Client) SendText(ctx context.Context, to, body string) (*SendResponse, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	msg := textMessage{MessagingProduct: "whatsapp", To: to, Type: "text"}
	msg.Text.Body = body

	var out SendResponse
	if err := c.http.PostJSON(ctx, c.phoneID+"/messages", msg, &out); err != nil {
		var se *apphttp.StatusError
		if errors.As(err, &se) {
			return nil, &APIError{Status: se.StatusCode, Body: se.Body}
		}
		return nil, err
	}
	return &out, nil
}

// Request is a website visitor's message to relay.
type Request struct {
	UserName  string `json:"userName,omitempty"`
	UserPhone string `json:"userPhone"`
	Message   string `json:"message"`
}

func (r Request) Validate() error {
	if strings.TrimSpace(r.UserPhone) == "" || strings.TrimSpace(r.Message) == "" {
		return ErrMissingFields
	}
	return nil
}

// Relay validates r and sends it formatted with FormatMessage.
func (c *Client) Relay(ctx context.Context, r Request) (*SendResponse, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return c.SendText(ctx, r.UserPhone, FormatMessage(r.UserName, r.UserPhone, r.Message))
}

// FormatMessage renders "From {name} ({phone}): {message}"; a blank name
// becomes "Website visitor".
func FormatMessage(userName, userPhone, message string) string {
	if strings.TrimSpace(userName) == "" {
		userName = "Website visitor"
	}
	return fmt.Sprintf("From %s (%s): %s", userName, userPhone, message)
}
