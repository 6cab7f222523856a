package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	sent []Email
	err  error
}

func (m *recordingMailer) Send(ctx context.Context, email Email) error {
	m.sent = append(m.sent, email)
	return m.err
}

func TestContactSanitizesMessage(t *testing.T) {
	mailer := &recordingMailer{}
	svc := NewContactService(mailer, "owner@example.com")

	err := svc.Contact(context.Background(), ContactRequest{
		Name:    " Ada <script>alert(1)</script>",
		Email:   "ada@example.com",
		Message: "Hello\n<b>there</b>",
	})
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)

	sent := mailer.sent[0]
	assert.Equal(t, []string{"owner@example.com"}, sent.To)
	assert.Equal(t, "ada@example.com", sent.ReplyTo)
	assert.NotContains(t, sent.HTML, "<script>")
	assert.NotContains(t, sent.HTML, "<b>")
	assert.Contains(t, sent.HTML, "Hello<br>there")
	assert.Contains(t, sent.Subject, "Ada")
}

func TestContactValidation(t *testing.T) {
	mailer := &recordingMailer{}
	svc := NewContactService(mailer, "owner@example.com")

	err := svc.Contact(context.Background(), ContactRequest{Name: "Ada", Email: "not-an-email", Message: "hi"})
	assert.ErrorIs(t, err, errs.ErrValidation)

	err = svc.Contact(context.Background(), ContactRequest{Email: "ada@example.com", Message: "hi"})
	assert.ErrorIs(t, err, errs.ErrValidation)

	assert.ErrorIs(t, svc.RequestResume(context.Background(), ""), errs.ErrValidation)
	assert.Empty(t, mailer.sent)
}

func TestContactWithoutRecipient(t *testing.T) {
	svc := NewContactService(&recordingMailer{}, "")
	err := svc.RequestResume(context.Background(), "ada@example.com")
	assert.ErrorIs(t, err, errs.ErrConfigMissing)
}

func TestRequestResume(t *testing.T) {
	mailer := &recordingMailer{}
	svc := NewContactService(mailer, "owner@example.com")

	require.NoError(t, svc.RequestResume(context.Background(), " recruiter@corp.io "))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "recruiter@corp.io", mailer.sent[0].ReplyTo)
	assert.Contains(t, mailer.sent[0].Subject, "recruiter@corp.io")
}

func TestEmailSenderPostsToResend(t *testing.T) {
	var got ResendEmailRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"email_1"}`))
	}))
	defer server.Close()

	sender := NewEmailSender("re_test", "site@example.com")
	sender.endpoint = server.URL

	err := sender.Send(context.Background(), Email{To: []string{"owner@example.com"}, Subject: "Hi", Text: "body"})
	require.NoError(t, err)
	assert.Equal(t, "site@example.com", got.From)
	assert.Equal(t, []string{"owner@example.com"}, got.To)
	assert.Equal(t, "body", got.Text)
}

func TestEmailSenderErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid from address"}`))
	}))
	defer server.Close()

	sender := NewEmailSender("re_test", "site@example.com")
	sender.endpoint = server.URL
	err := sender.Send(context.Background(), Email{To: []string{"owner@example.com"}})
	assert.ErrorIs(t, err, errs.ErrEmailDelivery)
	assert.Contains(t, err.Error(), "invalid from address")

	unconfigured := NewEmailSender("", "site@example.com")
	err = unconfigured.Send(context.Background(), Email{To: []string{"owner@example.com"}})
	assert.ErrorIs(t, err, errs.ErrConfigMissing)
}
