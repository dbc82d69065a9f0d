// Package email hands composed quotation messages to the user's mail client.
// Nothing is delivered from the server.
package email

import (
	"context"
	"errors"
	"strings"

	quotationdomain "github.com/dovepeak/quotemaster/internal/quotation/domain"
	"github.com/dovepeak/quotemaster/internal/quotation/render"
)

var ErrNoRecipient = errors.New("email: recipient is empty")

type Provider interface {
	// Compose prepares msg for the client side to open.
	Compose(ctx context.Context, msg render.EmailMessage) (*quotationdomain.EmailHandoff, error)
}

// MailtoProvider turns a message into a mailto: link.
type MailtoProvider struct{}

func NewMailto() *MailtoProvider {
	return &MailtoProvider{}
}

func (p *MailtoProvider) Compose(_ context.Context, msg render.EmailMessage) (*quotationdomain.EmailHandoff, error) {
	msg.Recipient = strings.TrimSpace(msg.Recipient)
	if msg.Recipient == "" {
		return nil, ErrNoRecipient
	}
	return &quotationdomain.EmailHandoff{
		Recipient: msg.Recipient,
		Subject:   msg.Subject,
		Body:      msg.Body,
		MailtoURI: msg.MailtoURI(),
	}, nil
}

// NoOpProvider accepts every message without building a link.
type NoOpProvider struct{}

func (p *NoOpProvider) Compose(_ context.Context, msg render.EmailMessage) (*quotationdomain.EmailHandoff, error) {
	return &quotationdomain.EmailHandoff{Recipient: msg.Recipient, Subject: msg.Subject, Body: msg.Body}, nil
}
