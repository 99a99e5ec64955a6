package sendnotification

import (
	"context"
	"errors"
	"testing"
	"time"

	"endicode-workers/internal/common/config"
	apperrors "endicode-workers/internal/common/errors"
	"endicode-workers/internal/common/logger"
	"endicode-workers/internal/contact"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Services
// ==========================

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(ctx, params, optFns...)
	}
	return &ses.SendEmailOutput{MessageId: aws.String("email-123")}, nil
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, params, optFns...)
	}
	return &sns.PublishOutput{MessageId: aws.String("sms-123")}, nil
}

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}

func createNotificationConfig(email, sms bool) config.NotificationConfig {
	var cfg config.NotificationConfig
	cfg.Email.Enabled = email
	cfg.Email.FromEmail = "noreply@endicode.test"
	cfg.Email.ToEmail = "team@endicode.test"
	cfg.SMS.Enabled = sms
	cfg.SMS.AlertPhone = "+15550100"
	return cfg
}

func createTestInput() *Input {
	return &Input{
		ContactID: 42,
		CreatedAt: time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC),
		Name:      "Jane Doe",
		Email:     "jane@example.com",
		Company:   "Acme",
		Message:   "We need a new website ASAP",
	}
}

func newTestHandler(t *testing.T, sesSvc *MockSESService, snsSvc *MockSNSService, cfg config.NotificationConfig) *Handler {
	log := logger.NewTestLogger(t)
	return NewHandler(createTestConfig(), contact.NewNotifier(sesSvc, snsSvc, cfg, log), log)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name           string
		input          *Input
		cfg            config.NotificationConfig
		validateOutput func(t *testing.T, output *Output)
	}{
		{
			name:  "urgent inquiry sends email and sms",
			input: createTestInput(),
			cfg:   createNotificationConfig(true, true),
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, StatusSent, output.Status)
				assert.Equal(t, "email-123", output.EmailMessageID)
				assert.Equal(t, "sms-123", output.SMSMessageID)
			},
		},
		{
			name: "normal inquiry skips sms",
			input: func() *Input {
				in := createTestInput()
				in.Message = "Looking for a website refresh next quarter"
				return in
			}(),
			cfg: createNotificationConfig(true, true),
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, StatusSent, output.Status)
				assert.Empty(t, output.SMSMessageID)
			},
		},
		{
			name:  "all channels disabled",
			input: createTestInput(),
			cfg:   createNotificationConfig(false, false),
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, StatusDisabled, output.Status)
				assert.Empty(t, output.EmailMessageID)
				assert.Empty(t, output.SMSMessageID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestHandler(t, &MockSESService{}, &MockSNSService{}, tt.cfg)

			output, err := handler.Execute(context.Background(), tt.input)
			require.NoError(t, err)

			_, err = uuid.Parse(output.NotificationID)
			assert.NoError(t, err)
			assert.False(t, output.SentAt.IsZero())
			tt.validateOutput(t, output)
		})
	}
}

func TestHandler_Execute_EmailCarriesContact(t *testing.T) {
	var sent *ses.SendEmailInput
	sesSvc := &MockSESService{SendEmailFunc: func(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
		sent = params
		return &ses.SendEmailOutput{MessageId: aws.String("email-9")}, nil
	}}
	handler := newTestHandler(t, sesSvc, &MockSNSService{}, createNotificationConfig(true, false))

	_, err := handler.Execute(context.Background(), createTestInput())
	require.NoError(t, err)

	require.NotNil(t, sent)
	assert.Equal(t, []string{"jane@example.com"}, sent.ReplyToAddresses)
	assert.Equal(t, contact.EmailSubject("Jane Doe"), aws.ToString(sent.Message.Subject.Data))
	assert.Contains(t, aws.ToString(sent.Message.Body.Text.Data), "Company: Acme")
	assert.Contains(t, aws.ToString(sent.Message.Body.Text.Data), "Website: N/A")
}

// ==========================
// Error Mapping Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	failing := errors.New("throttled")

	tests := []struct {
		name    string
		input   *Input
		cfg     config.NotificationConfig
		sesSvc  *MockSESService
		snsSvc  *MockSNSService
		code    apperrors.ErrorCode
		details string
	}{
		{
			name:   "missing email",
			input:  &Input{Name: "Jane"},
			sesSvc: &MockSESService{},
			snsSvc: &MockSNSService{},
			code:   apperrors.ErrCodeInvalidInput,
		},
		{
			name:  "email failure",
			input: createTestInput(),
			sesSvc: &MockSESService{SendEmailFunc: func(context.Context, *ses.SendEmailInput, ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
				return nil, failing
			}},
			snsSvc:  &MockSNSService{},
			code:    apperrors.ErrCodeNotificationSendFailed,
			details: "channel: email",
		},
		{
			name:   "sms failure without email",
			input:  createTestInput(),
			cfg:    createNotificationConfig(false, true),
			sesSvc: &MockSESService{},
			snsSvc: &MockSNSService{PublishFunc: func(context.Context, *sns.PublishInput, ...func(*sns.Options)) (*sns.PublishOutput, error) {
				return nil, failing
			}},
			code:    apperrors.ErrCodeNotificationSendFailed,
			details: "channel: sms",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			if !cfg.Email.Enabled && !cfg.SMS.Enabled {
				cfg = createNotificationConfig(true, true)
			}
			handler := newTestHandler(t, tt.sesSvc, tt.snsSvc, cfg)

			_, err := handler.Execute(context.Background(), tt.input)
			require.Error(t, err)

			stdErr := standardError(err)
			assert.Equal(t, tt.code, stdErr.Code)
			assert.Contains(t, stdErr.Details, tt.details)
		})
	}
}

func TestHandler_Execute_SMSFailureAfterEmail(t *testing.T) {
	emails := 0
	sesSvc := &MockSESService{SendEmailFunc: func(context.Context, *ses.SendEmailInput, ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
		emails++
		return &ses.SendEmailOutput{MessageId: aws.String("email-123")}, nil
	}}
	snsSvc := &MockSNSService{PublishFunc: func(context.Context, *sns.PublishInput, ...func(*sns.Options)) (*sns.PublishOutput, error) {
		return nil, errors.New("throttled")
	}}
	handler := newTestHandler(t, sesSvc, snsSvc, createNotificationConfig(true, true))

	output, err := handler.Execute(context.Background(), createTestInput())
	require.NoError(t, err)

	assert.Equal(t, StatusPartial, output.Status)
	assert.Equal(t, "email-123", output.EmailMessageID)
	assert.Empty(t, output.SMSMessageID)
	assert.Contains(t, output.Error, "sms")
	assert.Equal(t, 1, emails)
}
