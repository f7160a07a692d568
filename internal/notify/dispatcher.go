package notify

import (
	"context"
	"fmt"

	"github.com/matcornic/hermes/v2"
	"github.com/sirupsen/logrus"

	"quizhub/internal/auth"
)

// ResetSubject is the subject of every password reset email.
const ResetSubject = "Password reset"

// DeliveryRecorder counts reset emails by outcome.
type DeliveryRecorder interface {
	ResetEmail(outcome string)
}

// Product brands the rendered emails.
type Product struct {
	Name string
	Link string
}

// Dispatcher composes and sends notification emails.
type Dispatcher interface {
	SendResetEmail(ctx context.Context, email string) (*Delivery, error)
}

type dispatcher struct {
	tokens    auth.TokenService
	transport Transport
	hermes    hermes.Hermes
	from      string
	log       logrus.FieldLogger
	recorder  DeliveryRecorder
}

// NewDispatcher creates a dispatcher. recorder may be nil.
func NewDispatcher(
	tokens auth.TokenService,
	transport Transport,
	product Product,
	from string,
	log logrus.FieldLogger,
	recorder DeliveryRecorder,
) Dispatcher {
	return &dispatcher{
		tokens:    tokens,
		transport: transport,
		hermes: hermes.Hermes{
			Theme:         new(hermes.Default),
			TextDirection: hermes.TDLeftToRight,
			Product: hermes.Product{
				Name:        product.Name,
				Link:        product.Link,
				Copyright:   fmt.Sprintf("Sent by %s", product.Name),
				TroubleText: "If you did not request a password reset, you can safely ignore this email.",
			},
		},
		from:     from,
		log:      log.WithField("component", "notify"),
		recorder: recorder,
	}
}

// SendResetEmail mints a reset token for email and mails it. Transport errors are returned as is.
func (d *dispatcher) SendResetEmail(ctx context.Context, email string) (*Delivery, error) {
	token, err := d.tokens.IssueResetToken(email)
	if err != nil {
		return nil, fmt.Errorf("issue reset token: %w", err)
	}

	msg, err := d.resetMessage(email, token)
	if err != nil {
		return nil, fmt.Errorf("render reset email: %w", err)
	}

	delivery, err := d.transport.Send(ctx, msg)
	if err != nil {
		d.log.WithError(err).Warn("reset email not sent")
		d.record(ResetFailed)
		return nil, err
	}

	d.log.WithField("message_id", delivery.ID).Debug("reset email sent")
	d.record(ResetSent)
	return delivery, nil
}

// Outcomes reported to the DeliveryRecorder.
const (
	ResetSent   = "sent"
	ResetFailed = "failed"
)

func (d *dispatcher) record(outcome string) {
	if d.recorder != nil {
		d.recorder.ResetEmail(outcome)
	}
}

func (d *dispatcher) resetMessage(email, token string) (Message, error) {
	body := hermes.Email{
		Body: hermes.Body{
			Name: email,
			Intros: []string{
				fmt.Sprintf("A password reset was requested for your %s account.", d.hermes.Product.Name),
			},
			Actions: []hermes.Action{
				{
					Instructions: "Use this token to reset your password:",
					InviteCode:   token,
				},
			},
			Outros: []string{
				"The token expires shortly. Request a new one if it stops working.",
			},
		},
	}

	html, err := d.hermes.GenerateHTML(body)
	if err != nil {
		return Message{}, err
	}

	return Message{
		From:    d.from,
		To:      email,
		Subject: ResetSubject,
		Text:    "Use this token to reset your password: " + token,
		HTML:    html,
	}, nil
}
