package services

import (
	"context"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rpupo63/portfolio-backend/errs"
)

// Mailer is satisfied by EmailSender.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (r ContactRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Message, validation.Required, validation.Length(1, 5000)),
	)
}

// ContactService forwards contact form messages and resume requests to the
// site owner.
type ContactService struct {
	mailer    Mailer
	recipient string
	policy    *bluemonday.Policy
}

func NewContactService(mailer Mailer, recipient string) *ContactService {
	return &ContactService{
		mailer:    mailer,
		recipient: recipient,
		policy:    bluemonday.StrictPolicy(),
	}
}

func (s *ContactService) Contact(ctx context.Context, req ContactRequest) error {
	if s.recipient == "" {
		return errs.NewConfigError("CONTACT_RECIPIENT")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := req.Validate(); err != nil {
		return invalid(err)
	}

	name := s.policy.Sanitize(req.Name)
	message := strings.ReplaceAll(s.policy.Sanitize(req.Message), "\n", "<br>")

	return s.mailer.Send(ctx, Email{
		To:      []string{s.recipient},
		Subject: fmt.Sprintf("Contact Form Submission from %s", name),
		Text:    req.Message,
		ReplyTo: req.Email,
		HTML: fmt.Sprintf(`<div style="font-family: Arial, sans-serif; line-height: 1.6; padding: 20px;">
  <h2>New Contact Form Submission</h2>
  <p><strong>Name:</strong> %s</p>
  <p><strong>Email:</strong> %s</p>
  <p><strong>Message:</strong></p>
  <p>%s</p>
</div>`, name, s.policy.Sanitize(req.Email), message),
	})
}

func (s *ContactService) RequestResume(ctx context.Context, email string) error {
	if s.recipient == "" {
		return errs.NewConfigError("CONTACT_RECIPIENT")
	}
	email = strings.TrimSpace(email)
	err := validation.Validate(email, validation.Required, is.EmailFormat)
	if err != nil {
		return invalid(validation.Errors{"email": err})
	}

	safe := s.policy.Sanitize(email)
	return s.mailer.Send(ctx, Email{
		To:      []string{s.recipient},
		Subject: fmt.Sprintf("Resume Request from %s", safe),
		Text:    fmt.Sprintf("A request for the resume has been made from the email: %s", email),
		ReplyTo: email,
		HTML: fmt.Sprintf(`<div style="font-family: Arial, sans-serif; line-height: 1.6; padding: 20px;">
  <h2>New Resume Request</h2>
  <p>A request for the resume has been made from <strong>%s</strong>.</p>
</div>`, safe),
	})
}
