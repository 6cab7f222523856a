package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const resendEndpoint = "https://api.resend.com/emails"

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// Email is one outgoing message.
type Email struct {
	To      []string
	Subject string
	HTML    string
	Text    string
	ReplyTo string
}

// EmailSender delivers mail through the Resend HTTP API.
type EmailSender struct {
	logger   zerolog.Logger
	apiKey   string
	from     string
	endpoint string
	client   *http.Client
}

func NewEmailSender(apiKey, from string) *EmailSender {
	return &EmailSender{
		logger:   log.With().Str("service", "email").Logger(),
		apiKey:   apiKey,
		from:     from,
		endpoint: resendEndpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Send posts the message to Resend. Configuration gaps are reported as
// ErrConfigMissing, transport and API failures as ErrEmailDelivery.
func (s *EmailSender) Send(ctx context.Context, email Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("%w: at least one recipient is required", errs.ErrValidation)
	}
	if s.apiKey == "" {
		return errs.NewConfigError("RESEND_API_KEY")
	}
	if s.from == "" {
		return errs.NewConfigError("RESEND_FROM_EMAIL")
	}

	payload := ResendEmailRequest{
		From:    s.from,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
		ReplyTo: email.ReplyTo,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to send request to Resend API: %w", errs.ErrEmailDelivery, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read Resend API response: %w", errs.ErrEmailDelivery, err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return fmt.Errorf("%w: resend API error (status %d): %s", errs.ErrEmailDelivery, resp.StatusCode, errorResp.Message)
		}
		return fmt.Errorf("%w: resend API error (status %d): %s", errs.ErrEmailDelivery, resp.StatusCode, string(bodyBytes))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		s.logger.Info().Str("emailId", emailResponse.ID).Msg("Successfully sent email via Resend")
	}
	return nil
}
