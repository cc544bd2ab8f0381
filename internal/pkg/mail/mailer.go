package mail

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"mime"
	"net/smtp"
	"strings"
	"time"

	"github.com/caravantransport/caravan-crm/internal/pkg/env"
)

// Attachment is a binary file shipped with an email.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Message is a single outbound email.
type Message struct {
	To          string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Result reports the outcome of a dispatch attempt. Dispatchers never return
// a Go error: "contract sent but email failed" must stay representable as
// data so callers can persist state transitions independently of delivery.
type Result struct {
	Sent bool
	Err  string
}

// Dispatcher sends emails. The lifecycle service only depends on this
// contract, never on a concrete transport.
type Dispatcher interface {
	Send(ctx context.Context, msg Message) Result
}

// SMTPConfig holds the transport settings. It is built once at wiring time;
// the mailer itself never reads the environment.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Sender   string
	Timeout  time.Duration
}

// SMTPConfigFromEnv reads the SMTP settings from the process environment.
func SMTPConfigFromEnv() SMTPConfig {
	return SMTPConfig{
		Host:     env.GetEnv("SMTP_HOST", ""),
		Port:     env.GetEnv("SMTP_PORT", "587"),
		Username: env.GetEnv("SMTP_USERNAME", ""),
		Password: env.GetEnv("SMTP_PASSWORD", ""),
		Sender:   env.GetEnv("SMTP_SENDER", ""),
		Timeout:  15 * time.Second,
	}
}

// SMTPMailer sends emails via SMTP.
type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) Result {
	if m.cfg.Host == "" {
		log.Printf("Email not sent (SMTP not configured): to=%s subject=%q", msg.To, msg.Subject)
		return Result{Sent: false, Err: "SMTP is not configured"}
	}

	sender := m.cfg.Sender
	if sender == "" {
		sender = "no-reply@localhost"
		log.Printf("SMTP_SENDER not set, using default sender: %s", sender)
	}

	var auth smtp.Auth
	if m.cfg.Username != "" && m.cfg.Password != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%s", m.cfg.Host, m.cfg.Port)
	body := buildMIMEMessage(sender, msg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- smtp.SendMail(addr, auth, sender, []string{msg.To}, body)
	}()

	select {
	case <-ctx.Done():
		log.Printf("SMTP send cancelled for %s: %v", msg.To, ctx.Err())
		return Result{Sent: false, Err: ctx.Err().Error()}
	case err := <-errCh:
		if err != nil {
			log.Printf("SMTP send error: %v", err)
			return Result{Sent: false, Err: err.Error()}
		}
	}

	log.Printf("Email sent to %s via %s", msg.To, addr)
	return Result{Sent: true}
}

// buildMIMEMessage assembles headers and (when attachments are present) a
// multipart/mixed body with base64 encoded parts.
func buildMIMEMessage(sender string, msg Message) []byte {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("From: %s\r\n", sender))
	b.WriteString(fmt.Sprintf("To: %s\r\n", msg.To))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject)))
	b.WriteString("MIME-Version: 1.0\r\n")

	if len(msg.Attachments) == 0 {
		b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
		b.WriteString(msg.HTML)
		return []byte(b.String())
	}

	const boundary = "caravan-mail-boundary"
	b.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=%q\r\n\r\n", boundary))

	b.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	b.WriteString(msg.HTML)
	b.WriteString("\r\n")

	for _, att := range msg.Attachments {
		contentType := att.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		b.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		b.WriteString(fmt.Sprintf("Content-Type: %s\r\n", contentType))
		b.WriteString("Content-Transfer-Encoding: base64\r\n")
		b.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=%q\r\n\r\n", att.Filename))

		encoded := base64.StdEncoding.EncodeToString(att.Content)
		// RFC 2045 line length limit
		for len(encoded) > 76 {
			b.WriteString(encoded[:76])
			b.WriteString("\r\n")
			encoded = encoded[76:]
		}
		b.WriteString(encoded)
		b.WriteString("\r\n")
	}
	b.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

	return []byte(b.String())
}
