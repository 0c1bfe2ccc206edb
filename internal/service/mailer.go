package service

import (
	"encoding/base64"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"workchat-intake-backend/internal/config"
	"workchat-intake-backend/utilities"
)

const defaultSendgridHost = "https://api.sendgrid.com"

type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

type Message struct {
	From        string
	FromName    string
	To          string
	ToName      string
	Subject     string
	Text        string
	Attachments []Attachment
}

type Mailer interface {
	Send(msg Message) error
}

// NewMailer returns a SendGrid mailer, or one that only logs when mail is
// disabled in cfg.
func NewMailer(cfg config.MailConfig) Mailer {
	if !cfg.Enabled {
		return logMailer{}
	}
	host := cfg.APIHost
	if host == "" {
		host = defaultSendgridHost
	}
	return &sendgridMailer{apiKey: cfg.APIKey, host: host, fromName: cfg.FromName}
}

type logMailer struct{}

func (logMailer) Send(msg Message) error {
	utilities.Info("mail disabled, not sending %q to %s (%d attachments):\n%s",
		msg.Subject, msg.To, len(msg.Attachments), msg.Text)
	return nil
}

type sendgridMailer struct {
	apiKey   string
	host     string
	fromName string
}

func (m *sendgridMailer) Send(msg Message) error {
	if msg.FromName == "" {
		msg.FromName = m.fromName
	}
	req := sendgrid.GetRequest(m.apiKey, "/v3/mail/send", m.host)
	req.Method = "POST"
	req.Body = mail.GetRequestBody(newSendgridMail(msg))
	resp, err := sendgrid.API(req)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid rejected message: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func newSendgridMail(msg Message) *mail.SGMailV3 {
	body := msg.Text
	if body == "" {
		body = "\t"
	}
	m := mail.NewV3MailInit(
		mail.NewEmail(msg.FromName, msg.From), msg.Subject,
		mail.NewEmail(msg.ToName, msg.To),
		mail.NewContent("text/plain", body))

	for _, a := range msg.Attachments {
		att := mail.NewAttachment()
		att.SetContent(base64.StdEncoding.EncodeToString(a.Data))
		att.SetType(a.ContentType)
		att.SetFilename(a.Name)
		att.SetDisposition("attachment")
		m.AddAttachment(att)
	}
	return m
}
