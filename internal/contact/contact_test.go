package contact

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"endicode-workers/internal/common/config"
	"endicode-workers/internal/common/logger"
	"endicode-workers/internal/common/metrics"
	"endicode-workers/internal/triage"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/testutil"
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
	return &ses.SendEmailOutput{MessageId: aws.String("email-1")}, nil
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, params, optFns...)
	}
	return &sns.PublishOutput{MessageId: aws.String("sms-1")}, nil
}

type fakeRepo struct {
	created  []Submission
	contacts []Contact
	err      error
}

func (f *fakeRepo) Create(_ context.Context, sub Submission) (*Contact, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, sub)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &Contact{ID: int64(len(f.created)), Name: sub.Name, Email: sub.Email, Company: nullable(sub.Company),
		Message: sub.Message, CreatedAt: now, UpdatedAt: now}, nil
}

func (f *fakeRepo) List(context.Context) ([]Contact, error) {
	return f.contacts, f.err
}

type fakeSender struct {
	notes []Notification
	err   error
}

func (f *fakeSender) Notify(_ context.Context, note Notification) (*Delivery, error) {
	f.notes = append(f.notes, note)
	if f.err != nil {
		return nil, f.err
	}
	return &Delivery{EmailMessageID: "email-1"}, nil
}

// ==========================
// Test Helpers
// ==========================

func createTestSubmission() Submission {
	return Submission{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Company: "Acme",
		Message: "We need a new website ASAP",
	}
}

func createTestNotificationConfig() config.NotificationConfig {
	var cfg config.NotificationConfig
	cfg.Email.Enabled = true
	cfg.Email.FromEmail = "noreply@endicode.test"
	cfg.Email.ToEmail = "team@endicode.test"
	cfg.SMS.Enabled = true
	cfg.SMS.AlertPhone = "+15550100"
	return cfg
}

func strPtr(s string) *string { return &s }

// ==========================
// Validation
// ==========================

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(s *Submission)
		fields []string
	}{
		{name: "valid", modify: func(*Submission) {}},
		{name: "optional fields set", modify: func(s *Submission) {
			s.Website = "https://acme.example"
			s.Budget = "35k-70k"
		}},
		{name: "missing name", modify: func(s *Submission) { s.Name = "" }, fields: []string{"name"}},
		{name: "bad email", modify: func(s *Submission) { s.Email = "not-an-email" }, fields: []string{"email"}},
		{name: "missing message", modify: func(s *Submission) { s.Message = "" }, fields: []string{"message"}},
		{name: "unknown budget", modify: func(s *Submission) { s.Budget = "1m" }, fields: []string{"budget"}},
		{name: "relative website", modify: func(s *Submission) { s.Website = "acme" }, fields: []string{"website"}},
		{name: "several problems", modify: func(s *Submission) {
			s.Email = ""
			s.Name = ""
		}, fields: []string{"email", "name"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := createTestSubmission()
			tt.modify(&sub)
			err := Validate(sub)
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrValidation)
			msgs, ok := IsValidation(err)
			require.True(t, ok)
			require.Len(t, msgs, len(tt.fields))
			for i, f := range tt.fields {
				assert.Contains(t, msgs[i], f+":")
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	s := Submission{Name: "  Jane ", Email: " jane@example.com\n", Website: "  ", Message: " hi "}.Normalize()
	assert.Equal(t, "Jane", s.Name)
	assert.Equal(t, "jane@example.com", s.Email)
	assert.Equal(t, "", s.Website)
	assert.Equal(t, "hi", s.Message)
	assert.NoError(t, Validate(s))
}

// ==========================
// Store
// ==========================

func TestStore_EnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS contacts").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_contacts_created_at").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	require.NoError(t, NewStore(db).EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO contacts").
		WithArgs("Jane Doe", "jane@example.com", "Acme", nil, nil, "We need a new website ASAP").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), now, now))

	c, err := NewStore(db).Create(context.Background(), createTestSubmission())
	require.NoError(t, err)
	assert.Equal(t, int64(7), c.ID)
	assert.Equal(t, "Acme", *c.Company)
	assert.Nil(t, c.Website)
	assert.Equal(t, now, c.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_CreateErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"constraint violation", &pq.Error{Code: "23502", Message: "null value"}, ErrDatabaseInsert},
		{"connection failure", &pq.Error{Code: "08006", Message: "connection failure"}, ErrDatabaseConnection},
		{"pool closed", errors.New("sql: connection is already closed"), ErrDatabaseInsert},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectQuery("INSERT INTO contacts").WillReturnError(tt.err)

			_, err = NewStore(db).Create(context.Background(), createTestSubmission())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStore_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	newer := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	older := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM contacts ORDER BY created_at DESC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "company", "website", "budget", "message", "created_at", "updated_at"}).
			AddRow(int64(2), "Bob", "bob@example.com", nil, "https://bob.example", "70k+", "Hi", newer, newer).
			AddRow(int64(1), "Jane", "jane@example.com", "Acme", nil, nil, "Hello", older, older))

	contacts, err := NewStore(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, contacts, 2)

	assert.Equal(t, int64(2), contacts[0].ID)
	assert.Nil(t, contacts[0].Company)
	assert.Equal(t, "70k+", *contacts[0].Budget)
	assert.Equal(t, "Acme", *contacts[1].Company)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ListEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM contacts").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "company", "website", "budget", "message", "created_at", "updated_at"}))

	contacts, err := NewStore(db).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, contacts)
	assert.Empty(t, contacts)
}

func TestStore_ListError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM contacts").WillReturnError(errors.New("relation does not exist"))

	_, err = NewStore(db).List(context.Background())
	assert.ErrorIs(t, err, ErrQueryExecution)
}

// ==========================
// Notifier
// ==========================

func TestNotifier_Notify(t *testing.T) {
	contact := Contact{ID: 3, Name: "Jane Doe", Email: "jane@example.com", Company: strPtr("Acme"), Message: "We need a new website ASAP"}

	tests := []struct {
		name      string
		urgency   triage.Urgency
		configure func(cfg *config.NotificationConfig)
		wantEmail bool
		wantSMS   bool
	}{
		{name: "urgent sends both", urgency: triage.UrgencyHigh, wantEmail: true, wantSMS: true},
		{name: "normal skips sms", urgency: triage.UrgencyNormal, wantEmail: true},
		{name: "email disabled", urgency: triage.UrgencyHigh, configure: func(cfg *config.NotificationConfig) {
			cfg.Email.Enabled = false
		}, wantSMS: true},
		{name: "no alert phone", urgency: triage.UrgencyHigh, configure: func(cfg *config.NotificationConfig) {
			cfg.SMS.AlertPhone = ""
		}, wantEmail: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := createTestNotificationConfig()
			if tt.configure != nil {
				tt.configure(&cfg)
			}

			var sentEmail *ses.SendEmailInput
			var sentSMS *sns.PublishInput
			sesMock := &MockSESService{SendEmailFunc: func(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
				sentEmail = in
				return &ses.SendEmailOutput{MessageId: aws.String("email-1")}, nil
			}}
			snsMock := &MockSNSService{PublishFunc: func(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
				sentSMS = in
				return &sns.PublishOutput{MessageId: aws.String("sms-1")}, nil
			}}

			n := NewNotifier(sesMock, snsMock, cfg, logger.NewTestLogger(t))
			analysis := triage.Analyze(contact.Message, "", "")
			analysis.Urgency = tt.urgency

			d, err := n.Notify(context.Background(), Notification{Contact: contact, Analysis: analysis})
			require.NoError(t, err)

			if tt.wantEmail {
				require.NotNil(t, sentEmail)
				assert.Equal(t, "email-1", d.EmailMessageID)
				assert.Equal(t, "New Contact Form Submission from Jane Doe", *sentEmail.Message.Subject.Data)
				assert.Equal(t, []string{"team@endicode.test"}, sentEmail.Destination.ToAddresses)
				assert.Equal(t, []string{"jane@example.com"}, sentEmail.ReplyToAddresses)
				assert.Contains(t, *sentEmail.Message.Body.Text.Data, "Company: Acme")
				assert.Contains(t, *sentEmail.Message.Body.Text.Data, "Intent: Website")
			} else {
				assert.Nil(t, sentEmail)
			}
			if tt.wantSMS {
				require.NotNil(t, sentSMS)
				assert.Equal(t, "sms-1", d.SMSMessageID)
				assert.Equal(t, "+15550100", *sentSMS.PhoneNumber)
			} else {
				assert.Nil(t, sentSMS)
			}
			assert.Equal(t, tt.wantEmail || tt.wantSMS, d.Sent())
		})
	}
}

func TestNotifier_SendFailure(t *testing.T) {
	sesMock := &MockSESService{SendEmailFunc: func(context.Context, *ses.SendEmailInput, ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
		return nil, errors.New("throttled")
	}}
	n := NewNotifier(sesMock, &MockSNSService{}, createTestNotificationConfig(), logger.NewNoOpLogger())

	_, err := n.Notify(context.Background(), Notification{Contact: Contact{Name: "Jane", Email: "jane@example.com"}})
	assert.ErrorIs(t, err, ErrNotificationSend)

	var sendErr *SendError
	require.ErrorAs(t, err, &sendErr)
	assert.Equal(t, "email", sendErr.Channel)
	assert.EqualError(t, err, "NOTIFICATION_SEND_FAILED: email: ses send email: throttled")
}

func TestNotifier_SMSFailureAfterEmail(t *testing.T) {
	emails := 0
	sesMock := &MockSESService{SendEmailFunc: func(context.Context, *ses.SendEmailInput, ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
		emails++
		return &ses.SendEmailOutput{MessageId: aws.String("email-1")}, nil
	}}
	snsMock := &MockSNSService{PublishFunc: func(context.Context, *sns.PublishInput, ...func(*sns.Options)) (*sns.PublishOutput, error) {
		return nil, errors.New("opted out")
	}}
	n := NewNotifier(sesMock, snsMock, createTestNotificationConfig(), logger.NewNoOpLogger())
	note := Notification{
		Contact:  Contact{ID: 7, Name: "Jane", Email: "jane@example.com", Message: "We need a new website ASAP"},
		Analysis: triage.Analyze("We need a new website ASAP", "", ""),
	}

	d, err := n.Notify(context.Background(), note)
	var sendErr *SendError
	require.ErrorAs(t, err, &sendErr)
	assert.Equal(t, "sms", sendErr.Channel)
	require.NotNil(t, d)
	assert.Equal(t, "email-1", d.EmailMessageID)
	assert.Empty(t, d.SMSMessageID)
	assert.True(t, d.Partial(err))
	assert.Equal(t, 1, emails)

	t.Run("submit succeeds", func(t *testing.T) {
		repo := &fakeRepo{}
		result, err := NewService(repo, n, logger.NewNoOpLogger()).Submit(context.Background(), createTestSubmission())
		require.NoError(t, err)
		require.NotNil(t, result.Delivery)
		assert.Equal(t, "email-1", result.Delivery.EmailMessageID)
		assert.Len(t, repo.created, 1)
		assert.Equal(t, 2, emails)
	})
}

func TestNotifier_LongUrgentMessage(t *testing.T) {
	var sentSMS *sns.PublishInput
	snsMock := &MockSNSService{PublishFunc: func(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
		sentSMS = in
		return &sns.PublishOutput{MessageId: aws.String("sms-1")}, nil
	}}
	n := NewNotifier(&MockSESService{}, snsMock, createTestNotificationConfig(), logger.NewNoOpLogger())

	message := "We need a new website ASAP. " + strings.Repeat("Details follow. ", 200)
	d, err := n.Notify(context.Background(), Notification{
		Contact:  Contact{Name: "Jane", Email: "jane@example.com", Message: message},
		Analysis: triage.Analyze(message, "", ""),
	})
	require.NoError(t, err)
	assert.Equal(t, "sms-1", d.SMSMessageID)

	require.NotNil(t, sentSMS)
	assert.LessOrEqual(t, utf8.RuneCountInString(*sentSMS.Message), 300)
	assert.True(t, strings.HasPrefix(*sentSMS.Message, "Urgent inquiry from Jane (jane@example.com)"))
}

func TestDelivery_Partial(t *testing.T) {
	emailOnly := &Delivery{EmailMessageID: "email-1"}
	smsErr := &SendError{Channel: "sms", Err: errors.New("x")}

	assert.True(t, emailOnly.Partial(smsErr))
	assert.False(t, emailOnly.Partial(nil))
	assert.False(t, emailOnly.Partial(&SendError{Channel: "email", Err: errors.New("x")}))
	assert.False(t, (&Delivery{}).Partial(smsErr))

	var none *Delivery
	assert.False(t, none.Partial(smsErr))
}

func TestEmailHTML_Escapes(t *testing.T) {
	out := EmailHTML(Notification{Contact: Contact{Name: "<script>", Message: "a & b"}})
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "a &amp; b")
	assert.Contains(t, out, "<li><strong>Company:</strong> N/A</li>")
}

// ==========================
// Service
// ==========================

func TestService_Submit(t *testing.T) {
	repo := &fakeRepo{}
	sender := &fakeSender{}
	svc := NewService(repo, sender, logger.NewTestLogger(t))
	before := testutil.ToFloat64(metrics.ContactSubmissions.WithLabelValues("created"))

	sub := createTestSubmission()
	sub.Name = "  Jane Doe  "
	result, err := svc.Submit(context.Background(), sub)
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.Contact.ID)
	assert.Equal(t, "Jane Doe", repo.created[0].Name)
	assert.Equal(t, triage.IntentWebsite, result.Analysis.Intent)
	assert.Equal(t, triage.UrgencyHigh, result.Analysis.Urgency)
	require.Len(t, sender.notes, 1)
	assert.Equal(t, result.Analysis, sender.notes[0].Analysis)
	assert.Equal(t, "email-1", result.Delivery.EmailMessageID)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.ContactSubmissions.WithLabelValues("created")))
}

func TestService_SubmitFailures(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(repo, nil, logger.NewNoOpLogger())
		_, err := svc.Submit(context.Background(), Submission{Email: "x"})
		assert.ErrorIs(t, err, ErrValidation)
		assert.Empty(t, repo.created)
	})

	t.Run("storage", func(t *testing.T) {
		sender := &fakeSender{}
		svc := NewService(&fakeRepo{err: ErrDatabaseInsert}, sender, logger.NewNoOpLogger())
		_, err := svc.Submit(context.Background(), createTestSubmission())
		assert.ErrorIs(t, err, ErrDatabaseInsert)
		assert.Empty(t, sender.notes)
	})

	t.Run("notification", func(t *testing.T) {
		svc := NewService(&fakeRepo{}, &fakeSender{err: ErrNotificationSend}, logger.NewNoOpLogger())
		_, err := svc.Submit(context.Background(), createTestSubmission())
		assert.ErrorIs(t, err, ErrNotificationSend)
	})

	t.Run("no sender", func(t *testing.T) {
		svc := NewService(&fakeRepo{}, nil, logger.NewNoOpLogger())
		result, err := svc.Submit(context.Background(), createTestSubmission())
		require.NoError(t, err)
		assert.Nil(t, result.Delivery)
	})
}

func TestService_List(t *testing.T) {
	svc := NewService(&fakeRepo{contacts: []Contact{{ID: 1}}}, nil, logger.NewNoOpLogger())
	contacts, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, contacts, 1)
}
