// Package mail delivers notification e-mail over SMTP, directly or through
// the asynq queue.
package mail

import (
	"context"
	"errors"
	"log"
	"strings"

	"visaconsult/internal/config"
)

var ErrNoRecipient = errors.New("mail: message has no recipient")

// Message is one outgoing e-mail with an HTML body
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Validate checks the message can be delivered
func (m Message) Validate() error {
	if strings.TrimSpace(m.To) == "" {
		return ErrNoRecipient
	}
	return nil
}

// Sender delivers a message
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender only logs messages; used when no SMTP host is configured
type LogSender struct{}

func (LogSender) Send(_ context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	log.Printf("📧 [mail disabled] to=%s subject=%q", msg.To, msg.Subject)
	return nil
}

// NewSender picks the transport: the queue when Redis is configured,
// direct SMTP when only a mail host is, and logging otherwise. The
// returned close func releases queue connections.
func NewSender(cfg *config.Config) (Sender, func() error) {
	if !cfg.Email.Enabled() {
		log.Println("⚠️ EMAIL_HOST not set, e-mail will only be logged")
		return LogSender{}, func() error { return nil }
	}
	if cfg.Redis.Enabled() {
		q := NewQueueSender(cfg.Redis)
		log.Printf("✅ E-mail queued via Redis [%s]", cfg.Redis.Addr)
		return q, q.Close
	}
	log.Printf("✅ E-mail sent directly via SMTP [%s:%d]", cfg.Email.Host, cfg.Email.Port)
	return NewSMTPSender(cfg.Email), func() error { return nil }
}
