package mailservice

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/go-mail/mail/v2"
	"github.com/google/uuid"

	"github.com/sushihentaime/startuphub/internal/common"
)

const (
	maxRetries = 5
	baseDelay  = 500 * time.Millisecond
)

type MailService struct {
	mb        common.MessageConsumer
	m         Mailer
	logger    MailLogger
	moderator string
	siteURL   string
	retryBase time.Duration
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

type MailLogger interface {
	Error(msg string, args ...any)
	Info(msg string, args ...any)
}

type Mail struct {
	mu     sync.Mutex
	dialer Dialer
	parser TemplateParser
	sender string
}

type Mailer interface {
	send(recipient string, data any, templateFile string) error
}

// Template renders the embedded mail templates. The zero value is ready to use.
type Template struct {
	parsed sync.Map
}

type Dialer interface {
	DialAndSend(m ...*mail.Message) error
}

type TemplateParser interface {
	ParseTemplate(name string, data any) (*bytes.Buffer, *bytes.Buffer, *bytes.Buffer, error)
}

// startupEvent mirrors the body published on the startup exchange.
type startupEvent struct {
	StartupID   uuid.UUID `json:"startup_id"`
	StartupName string    `json:"startup_name"`
	OwnerEmail  string    `json:"owner_email"`
	OwnerName   string    `json:"owner_name"`
}

type approvedData struct {
	Name        string
	StartupName string
	StartupURL  string
}

type submittedData struct {
	StartupName string
	OwnerName   string
	OwnerEmail  string
	ReviewURL   string
}
