// Package mail renders and delivers the clinic's transactional email.
//
// Mailer sits in front of a Provider and applies the delivery guards:
// recipients outside the dev whitelist are skipped while sending is
// disabled, oversized messages are refused and outbound calls are paced.
package mail

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/ironhealth/clinic-api/internal/core/domain"
	"github.com/ironhealth/clinic-api/internal/core/ports"
	"github.com/ironhealth/clinic-api/internal/pkg/metrics"
)

// SandboxMessageID is returned for sends the guards swallowed.
const SandboxMessageID = "sandbox-skip"

const rawTemplateLabel = "raw"

// Provider delivers a rendered message and returns the provider's id.
type Provider interface {
	Send(ctx context.Context, msg ports.EmailMessage) (string, error)
}

type Options struct {
	// Enabled sends to every recipient. When false only whitelisted
	// recipients get real email.
	Enabled bool
	// Whitelist entries are exact addresses or "*@domain".
	Whitelist []string
	// MaxBytes caps subject, bodies and base64 attachments together. Zero disables it.
	MaxBytes int
	// RatePerSecond paces provider calls. Zero or less means unlimited.
	RatePerSecond float64
}

type Mailer struct {
	provider  Provider
	renderer  *Renderer
	whitelist []string
	opts      Options
	limiter   *rate.Limiter
	log       zerolog.Logger
}

func NewMailer(provider Provider, renderer *Renderer, opts Options, log zerolog.Logger) *Mailer {
	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}
	whitelist := make([]string, 0, len(opts.Whitelist))
	for _, w := range opts.Whitelist {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			whitelist = append(whitelist, w)
		}
	}
	return &Mailer{
		provider:  provider,
		renderer:  renderer,
		whitelist: whitelist,
		opts:      opts,
		limiter:   rate.NewLimiter(limit, 1),
		log:       log,
	}
}

func (m *Mailer) Send(ctx context.Context, msg ports.EmailMessage) (string, error) {
	if msg.Subject == "" && msg.HTML == "" && msg.Text == "" {
		return "", domain.ErrEmailMissingContent
	}
	return m.deliver(ctx, rawTemplateLabel, msg)
}

func (m *Mailer) SendTemplate(ctx context.Context, job ports.EmailJob) (string, error) {
	msg, err := m.renderer.Render(job)
	if err != nil {
		return "", err
	}
	return m.deliver(ctx, job.Template, msg)
}

func (m *Mailer) deliver(ctx context.Context, label string, msg ports.EmailMessage) (string, error) {
	to := make([]string, 0, len(msg.To))
	for _, addr := range msg.To {
		if addr = strings.TrimSpace(addr); addr != "" {
			to = append(to, addr)
		}
	}
	if len(to) == 0 {
		return "", domain.ErrEmailMissingRecipient
	}
	msg.To = to

	if m.opts.MaxBytes > 0 {
		if size := messageSize(msg); size > m.opts.MaxBytes {
			metrics.EmailsTotal.WithLabelValues(label, "error").Inc()
			return "", fmt.Errorf("%w: %d bytes > %d", domain.ErrEmailTooLarge, size, m.opts.MaxBytes)
		}
	}

	if !m.allowed(to) {
		metrics.EmailsTotal.WithLabelValues(label, "skipped").Inc()
		m.log.Info().
			Strs("to", to).
			Str("template", label).
			Str("subject", msg.Subject).
			Msg("email sandboxed")
		return SandboxMessageID, nil
	}

	if err := m.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("email rate limit: %w", err)
	}

	start := time.Now()
	id, err := m.provider.Send(ctx, msg)
	metrics.EmailSendDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.EmailsTotal.WithLabelValues(label, "error").Inc()
		return "", fmt.Errorf("%w: %v", domain.ErrEmailDelivery, err)
	}

	metrics.EmailsTotal.WithLabelValues(label, "sent").Inc()
	m.log.Info().Str("id", id).Strs("to", to).Str("template", label).Msg("email sent")
	return id, nil
}

// allowed reports whether every recipient may receive real email.
func (m *Mailer) allowed(to []string) bool {
	if m.opts.Enabled {
		return true
	}
	if len(m.whitelist) == 0 {
		return false
	}
	for _, addr := range to {
		if !m.whitelisted(strings.ToLower(addr)) {
			return false
		}
	}
	return true
}

func (m *Mailer) whitelisted(addr string) bool {
	for _, rule := range m.whitelist {
		if strings.HasPrefix(rule, "*@") {
			if strings.HasSuffix(addr, rule[1:]) {
				return true
			}
			continue
		}
		if addr == rule {
			return true
		}
	}
	return false
}

func messageSize(msg ports.EmailMessage) int {
	n := len(msg.Subject) + len(msg.HTML) + len(msg.Text)
	for _, a := range msg.Attachments {
		n += len(a.Filename) + len(a.ContentType) + base64.StdEncoding.EncodedLen(len(a.Content))
	}
	return n
}
