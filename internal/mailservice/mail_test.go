package mailservice

import (
	"bytes"
	"errors"
	"testing"

	"github.com/go-mail/mail/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSendEmail(t *testing.T) {
	mockParser := new(MockTemplate)
	mockDialer := new(MockDialer)

	recipient := "grace@example.com"
	mailer := Mail{
		dialer: mockDialer,
		parser: mockParser,
		sender: "StartupHub <no-reply@startuphub.example>",
	}

	subject := bytes.NewBufferString("Harvest Link is now listed on StartupHub")
	plainBody := bytes.NewBufferString("Your listing is live.")
	htmlBody := bytes.NewBufferString("<p>Your listing is live.</p>")
	mockParser.On("ParseTemplate", "startup_approved.html", mock.Anything).Return(subject, plainBody, htmlBody, nil)

	mockDialer.On("DialAndSend", mock.MatchedBy(func(msgs []*mail.Message) bool {
		if len(msgs) != 1 {
			return false
		}
		m := msgs[0]
		return m.GetHeader("To")[0] == recipient &&
			m.GetHeader("From")[0] == mailer.sender &&
			m.GetHeader("Subject")[0] == "Harvest Link is now listed on StartupHub"
	})).Return(nil)

	err := mailer.send(recipient, approvedData{StartupName: "Harvest Link"}, "startup_approved.html")
	assert.NoError(t, err)

	mockParser.AssertExpectations(t)
	mockDialer.AssertExpectations(t)
}

func TestSendEmailTemplateError(t *testing.T) {
	mockParser := new(MockTemplate)
	mockDialer := new(MockDialer)

	mailer := Mail{dialer: mockDialer, parser: mockParser, sender: "no-reply@startuphub.example"}

	var empty *bytes.Buffer
	mockParser.On("ParseTemplate", "missing.html", mock.Anything).Return(empty, empty, empty, errors.New("could not parse template"))

	err := mailer.send("grace@example.com", nil, "missing.html")
	assert.Error(t, err)
	mockDialer.AssertNotCalled(t, "DialAndSend", mock.Anything)
}
