package mailservice

import (
	"time"

	"github.com/go-mail/mail/v2"
)

func NewMailer(host string, port int, username, password, sender string, tp *Template) *Mail {
	dialer := mail.NewDialer(host, port, username, password)
	dialer.Timeout = 5 * time.Second

	return &Mail{
		dialer: dialer,
		sender: sender,
		parser: tp,
	}
}

// send renders templateFile and delivers it as a multipart plain/HTML mail.
// Deliveries are serialised over the one dialer.
func (m *Mail) send(recipient string, data any, templateFile string) error {
	subject, plainBody, htmlBody, err := m.parser.ParseTemplate(templateFile, data)
	if err != nil {
		return err
	}

	msg := mail.NewMessage()
	msg.SetHeaders(map[string][]string{
		"From":    {m.sender},
		"To":      {recipient},
		"Subject": {subject.String()},
	})
	msg.SetDateHeader("Date", time.Now())
	msg.SetBody("text/plain", plainBody.String())
	msg.AddAlternative("text/html", htmlBody.String())

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.dialer.DialAndSend(msg)
}
