package alerts_test

import (
	"bufio"
	"context"
	"encoding/base64"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ogulcanaydogan/vix-monitor/pkg/alerts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// smtpServer is a minimal plaintext SMTP responder on a loopback port.
type smtpServer struct {
	ln net.Listener

	mu       sync.Mutex
	auth     string
	from     string
	rcpt     string
	data     string
	messages int
	rejectAt string
	noAuth   bool
}

func newSMTPServer(t *testing.T) *smtpServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &smtpServer{ln: ln}
	t.Cleanup(func() { ln.Close() })
	go s.serve()
	return s
}

func (s *smtpServer) port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

func (s *smtpServer) serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *smtpServer) handle(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))

	r := bufio.NewReader(conn)
	reply := func(line string) { _, _ = conn.Write([]byte(line + "\r\n")) }

	reply("220 127.0.0.1 ESMTP test")
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")
		verb := strings.ToUpper(strings.SplitN(line, " ", 2)[0])

		s.mu.Lock()
		reject := s.rejectAt == verb
		s.mu.Unlock()
		if reject {
			reply("535 5.7.8 rejected")
			continue
		}

		switch verb {
		case "EHLO":
			s.mu.Lock()
			noAuth := s.noAuth
			s.mu.Unlock()
			if noAuth {
				reply("250 127.0.0.1")
				continue
			}
			reply("250-127.0.0.1")
			reply("250 AUTH PLAIN")
		case "HELO":
			reply("250 127.0.0.1")
		case "AUTH":
			s.mu.Lock()
			s.auth = line
			s.mu.Unlock()
			reply("235 2.7.0 Authentication successful")
		case "MAIL":
			s.mu.Lock()
			s.from = line
			s.mu.Unlock()
			reply("250 OK")
		case "RCPT":
			s.mu.Lock()
			s.rcpt = line
			s.mu.Unlock()
			reply("250 OK")
		case "DATA":
			reply("354 End data with <CR><LF>.<CR><LF>")
			var b strings.Builder
			for {
				l, err := r.ReadString('\n')
				if err != nil {
					return
				}
				if l == ".\r\n" {
					break
				}
				b.WriteString(l)
			}
			s.mu.Lock()
			s.data = b.String()
			s.messages++
			s.mu.Unlock()
			reply("250 OK queued")
		case "QUIT":
			reply("221 Bye")
			return
		default:
			reply("250 OK")
		}
	}
}

func (s *smtpServer) reject(verb string) {
	s.mu.Lock()
	s.rejectAt = verb
	s.mu.Unlock()
}

func (s *smtpServer) withoutAuth() {
	s.mu.Lock()
	s.noAuth = true
	s.mu.Unlock()
}

func (s *smtpServer) snapshot() (auth, from, rcpt, data string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth, s.from, s.rcpt, s.data, s.messages
}

func emailConfig(port int) alerts.EmailConfig {
	return alerts.EmailConfig{
		Sender:   "test@example.com",
		Password: "testpassword",
		Receiver: "receiver@example.com",
		Host:     "127.0.0.1",
		Port:     port,
		Timeout:  2 * time.Second,
	}
}

func TestEmailNotifier_Name(t *testing.T) {
	assert.Equal(t, "email", alerts.NewEmailNotifier(alerts.EmailConfig{}).Name())
}

func TestEmailNotifier_Send(t *testing.T) {
	srv := newSMTPServer(t)

	n := alerts.NewEmailNotifier(emailConfig(srv.port()))
	require.NoError(t, n.Send(context.Background(), testAlert()))

	auth, from, rcpt, data, count := srv.snapshot()
	assert.Equal(t, 1, count)

	creds := base64.StdEncoding.EncodeToString([]byte("\x00test@example.com\x00testpassword"))
	assert.Equal(t, "AUTH PLAIN "+creds, auth)
	assert.Contains(t, from, "<test@example.com>")
	assert.Contains(t, rcpt, "<receiver@example.com>")

	assert.Contains(t, data, "From: test@example.com\r\n")
	assert.Contains(t, data, "To: receiver@example.com\r\n")
	assert.Contains(t, data, "Subject: =?utf-8?q?")
	assert.Contains(t, data, "Recommended Action: Buy 1.0 month(s)")
}

func TestEmailNotifier_RequireTLS(t *testing.T) {
	srv := newSMTPServer(t)

	cfg := emailConfig(srv.port())
	cfg.RequireTLS = true

	err := alerts.NewEmailNotifier(cfg).Send(context.Background(), testAlert())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STARTTLS")

	_, _, _, _, count := srv.snapshot()
	assert.Equal(t, 0, count)
}

func TestEmailNotifier_AuthRejected(t *testing.T) {
	srv := newSMTPServer(t)
	srv.reject("AUTH")

	err := alerts.NewEmailNotifier(emailConfig(srv.port())).Send(context.Background(), testAlert())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp auth")
	assert.NotErrorIs(t, err, alerts.ErrNotConfigured)
}

func TestEmailNotifier_AuthNotAdvertised(t *testing.T) {
	srv := newSMTPServer(t)
	srv.withoutAuth()

	err := alerts.NewEmailNotifier(emailConfig(srv.port())).Send(context.Background(), testAlert())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not support AUTH")

	auth, from, _, _, count := srv.snapshot()
	assert.Empty(t, auth)
	assert.Empty(t, from)
	assert.Equal(t, 0, count)
}

func TestEmailNotifier_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	err = alerts.NewEmailNotifier(emailConfig(port)).Send(context.Background(), testAlert())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect smtp 127.0.0.1:"+strconv.Itoa(port))
}

func TestEmailNotifier_NotConfigured(t *testing.T) {
	tests := []struct {
		name    string
		cfg     alerts.EmailConfig
		missing string
	}{
		{"nothing", alerts.EmailConfig{}, "EMAIL_SENDER, EMAIL_PASSWORD, EMAIL_RECEIVER"},
		{"no password", alerts.EmailConfig{Sender: "a@b.c", Receiver: "d@e.f"}, "EMAIL_PASSWORD"},
		{"no receiver", alerts.EmailConfig{Sender: "a@b.c", Password: "x"}, "EMAIL_RECEIVER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := alerts.NewEmailNotifier(tt.cfg).Send(context.Background(), testAlert())
			assert.ErrorIs(t, err, alerts.ErrNotConfigured)
			assert.Contains(t, err.Error(), tt.missing)
		})
	}
}
