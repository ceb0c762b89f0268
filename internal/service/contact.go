package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/lcdsoft/storefront/internal/config"
	apperrors "github.com/lcdsoft/storefront/internal/errors"
	"github.com/lcdsoft/storefront/internal/mailer"
	"github.com/lcdsoft/storefront/internal/util"
)

const contactMessageMaxLength = 4000

// ContactService forwards contact form submissions to the site inbox.
type ContactService struct {
	mail     mailer.Mailer
	mailFrom string
	mailTo   string
}

func NewContactService(mail mailer.Mailer, mailFrom, mailTo string) *ContactService {
	return &ContactService{mail: mail, mailFrom: mailFrom, mailTo: mailTo}
}

// Send validates the submission and mails it. All user-supplied fields are
// HTML-escaped before they enter the message body.
func (s *ContactService) Send(ctx context.Context, name, email, message string) error {
	name = strings.TrimSpace(name)
	email = util.NormalizeEmail(email)
	message = strings.TrimSpace(message)

	if name == "" {
		return apperrors.MissingRequired("name")
	}
	if !util.IsValidEmail(email) {
		return apperrors.ValidationError("Please enter a valid email address")
	}
	if message == "" {
		return apperrors.MissingRequired("message")
	}
	if len(message) > contactMessageMaxLength {
		return apperrors.ValidationError("Message is too long")
	}

	body := fmt.Sprintf(
		`<h3>New contact form message</h3>
<p><strong>From:</strong> %s &lt;%s&gt;</p>
<p>%s</p>`,
		html.EscapeString(name),
		html.EscapeString(email),
		strings.ReplaceAll(html.EscapeString(message), "\n", "<br>"),
	)

	mailCtx, cancel := context.WithTimeout(ctx, config.MailSendTimeout)
	defer cancel()

	return s.mail.Send(mailCtx, mailer.Message{
		From:    s.mailFrom,
		To:      s.mailTo,
		Subject: "New contact form message",
		HTML:    body,
	})
}
