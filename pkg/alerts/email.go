package alerts

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

// EmailConfig holds SMTP submission settings.
type EmailConfig struct {
	Sender   string
	Password string
	Receiver string
	Host     string
	Port     int

	// RequireTLS refuses to authenticate unless the server offers STARTTLS.
	RequireTLS bool
	// TLSConfig overrides the TLS settings used for STARTTLS.
	TLSConfig *tls.Config
	Timeout   time.Duration
}

// EmailNotifier sends alerts as plain-text email through an SMTP
// submission server.
type EmailNotifier struct {
	cfg EmailConfig
}

// NewEmailNotifier creates an email notifier. Host defaults to Gmail's
// submission endpoint.
func NewEmailNotifier(cfg EmailConfig) *EmailNotifier {
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &EmailNotifier{cfg: cfg}
}

func (e *EmailNotifier) Name() string { return "email" }

func (e *EmailNotifier) missing() []string {
	var keys []string
	if e.cfg.Sender == "" {
		keys = append(keys, "EMAIL_SENDER")
	}
	if e.cfg.Password == "" {
		keys = append(keys, "EMAIL_PASSWORD")
	}
	if e.cfg.Receiver == "" {
		keys = append(keys, "EMAIL_RECEIVER")
	}
	return keys
}

func (e *EmailNotifier) Send(ctx context.Context, alert Alert) error {
	if keys := e.missing(); len(keys) > 0 {
		return fmt.Errorf("%w: set %s", ErrNotConfigured, strings.Join(keys, ", "))
	}

	body, err := EmailBody(alert)
	if err != nil {
		return err
	}
	msg := e.compose(Subject(alert), body, alert.GeneratedAt)

	addr := net.JoinHostPort(e.cfg.Host, strconv.Itoa(e.cfg.Port))
	dialer := &net.Dialer{Timeout: e.cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect smtp %s: %w", addr, err)
	}

	deadline := time.Now().Add(e.cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	client, err := smtp.NewClient(conn, e.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if err := e.deliver(client, msg); err != nil {
		return err
	}
	return nil
}

func (e *EmailNotifier) deliver(c *smtp.Client, msg []byte) error {
	if ok, _ := c.Extension("STARTTLS"); ok {
		tlsCfg := e.cfg.TLSConfig
		if tlsCfg == nil {
			tlsCfg = &tls.Config{ServerName: e.cfg.Host, MinVersion: tls.VersionTLS12}
		}
		if err := c.StartTLS(tlsCfg); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	} else if e.cfg.RequireTLS {
		return fmt.Errorf("smtp server %s does not offer STARTTLS", e.cfg.Host)
	}

	if ok, _ := c.Extension("AUTH"); !ok {
		return fmt.Errorf("smtp server %s does not support AUTH", e.cfg.Host)
	}
	auth := smtp.PlainAuth("", e.cfg.Sender, e.cfg.Password, e.cfg.Host)
	if err := c.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}

	if err := c.Mail(e.cfg.Sender); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := c.Rcpt(e.cfg.Receiver); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		w.Close()
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finish message: %w", err)
	}

	return c.Quit()
}

func (e *EmailNotifier) compose(subject, body string, at time.Time) []byte {
	if at.IsZero() {
		at = time.Now()
	}

	var b strings.Builder
	b.WriteString("From: " + e.cfg.Sender + "\r\n")
	b.WriteString("To: " + e.cfg.Receiver + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("Date: " + at.Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(b.String())
}
