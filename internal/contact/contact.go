// Package contact turns the contact form into a mailto: link for the
// visitor's own mail client. Nothing is sent from the server.
package contact

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/sushihentaime/startuphub/internal/common"
)

var EmailRX = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type Form struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (f *Form) Validate() error {
	v := common.NewValidator()
	v.Check(strings.TrimSpace(f.Name) != "", "name", "must be provided")
	v.Check(v.CheckStringLength(f.Name, 0, 100), "name", "must not be more than 100 characters long")
	v.Check(f.Email != "", "email", "must be provided")
	v.Check(EmailRX.MatchString(f.Email), "email", "must be a valid email address")
	v.Check(v.CheckStringLength(f.Subject, 0, 200), "subject", "must not be more than 200 characters long")
	v.Check(strings.TrimSpace(f.Message) != "", "message", "must be provided")
	v.Check(v.CheckStringLength(f.Message, 0, 5000), "message", "must not be more than 5000 characters long")
	if !v.Valid() {
		return v.ValidationError()
	}

	return nil
}

// MailtoURI builds an RFC 6068 mailto: URI addressed to recipient. The subject
// defaults to a generic one and the body carries the sender's details.
func MailtoURI(recipient string, f Form) string {
	subject := strings.TrimSpace(f.Subject)
	if subject == "" {
		subject = "Website enquiry from " + strings.TrimSpace(f.Name)
	}

	var body strings.Builder
	body.WriteString("Name: " + f.Name + "\r\n")
	body.WriteString("Email: " + f.Email + "\r\n")
	if f.Company != "" {
		body.WriteString("Company: " + f.Company + "\r\n")
	}
	body.WriteString("\r\n")
	body.WriteString(f.Message)

	return "mailto:" + escape(recipient) + "?subject=" + escape(subject) + "&body=" + escape(body.String())
}

// escape percent-encodes s for a mailto: URI. url.QueryEscape encodes spaces
// as '+', which mail clients show literally.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
