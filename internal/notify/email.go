// Package notify sends transactional email. Sends are best-effort: callers
// log failures and never fail the surrounding request because of one.
package notify

import (
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Mailer interface {
	Send(to, subject, body string) error
}

// New returns a SendGrid-backed mailer, or a disabled one when no API key is
// configured.
func New(apiKey, from string) Mailer {
	if apiKey == "" {
		log.Println("[MAIL] [WARN] SENDGRID_API_KEY not set, email disabled")
		return disabledMailer{}
	}
	return &sendgridMailer{apiKey: apiKey, from: from}
}

type sendgridMailer struct {
	apiKey string
	from   string
}

func (m *sendgridMailer) Send(to, subject, body string) error {
	from := mail.NewEmail("Luxe Store", m.from)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, body, "")

	client := sendgrid.NewSendClient(m.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid responded %d: %s", response.StatusCode, response.Body)
	}

	log.Println("[MAIL] [INFO] email sent to:", to)
	return nil
}

type disabledMailer struct{}

func (disabledMailer) Send(to, _, _ string) error {
	log.Println("[MAIL] [WARN] email disabled, skipping send to:", to)
	return nil
}
