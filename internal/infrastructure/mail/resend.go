package mail

import (
	"context"
	"errors"

	"github.com/resend/resend-go/v2"

	"github.com/ironhealth/clinic-api/internal/core/ports"
)

var errProviderNotConfigured = errors.New("resend: RESEND_API_KEY not set")

// ResendProvider delivers through the Resend HTTP API.
type ResendProvider struct {
	client *resend.Client
	from   string
}

// NewResendProvider returns a provider that refuses every send when apiKey is
// empty, so sandboxed environments never need a key.
func NewResendProvider(apiKey, from string) *ResendProvider {
	p := &ResendProvider{from: from}
	if apiKey != "" {
		p.client = resend.NewClient(apiKey)
	}
	return p
}

func (p *ResendProvider) Send(ctx context.Context, msg ports.EmailMessage) (string, error) {
	if p.client == nil {
		return "", errProviderNotConfigured
	}

	req := &resend.SendEmailRequest{
		From:    p.from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}
	for _, a := range msg.Attachments {
		req.Attachments = append(req.Attachments, &resend.Attachment{
			Content:     a.Content,
			Filename:    a.Filename,
			ContentType: a.ContentType,
		})
	}

	resp, err := p.client.Emails.SendWithContext(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.Id, nil
}
