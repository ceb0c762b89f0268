package mailer

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"

	apperrors "github.com/lcdsoft/storefront/internal/errors"
)

// Mailer dispatches transactional mail. Implementations must respect the
// context deadline so a slow transport cannot hold a request open.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
}

type smtpMailer struct {
	cfg SMTPConfig

	// send is swappable for tests
	send func(e *email.Email, addr string, auth smtp.Auth) error
}

func NewSMTP(cfg SMTPConfig) Mailer {
	return &smtpMailer{
		cfg:  cfg,
		send: (*email.Email).Send,
	}
}

func (m *smtpMailer) Send(ctx context.Context, msg Message) error {
	e := email.NewEmail()
	if msg.From != "" {
		e.From = msg.From
	} else {
		e.From = m.cfg.User
	}
	e.To = []string{msg.To}
	e.Subject = msg.Subject
	e.HTML = []byte(msg.HTML)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)

	// The smtp client has no context support, so the send runs in a
	// goroutine and the deadline is enforced here.
	done := make(chan error, 1)
	go func() {
		done <- m.send(e, addr, auth)
	}()

	select {
	case err := <-done:
		if err != nil {
			return apperrors.MailDelivery(err)
		}
		return nil
	case <-ctx.Done():
		return apperrors.MailDelivery(ctx.Err())
	}
}
