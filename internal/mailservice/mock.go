package mailservice

import (
	"bytes"
	"errors"
	"sync"

	"github.com/go-mail/mail/v2"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/mock"
	"github.com/sushihentaime/startuphub/internal/common"
)

type MockTemplate struct {
	mock.Mock
}

func (m *MockTemplate) ParseTemplate(name string, data any) (*bytes.Buffer, *bytes.Buffer, *bytes.Buffer, error) {
	args := m.Called(name, data)
	return args.Get(0).(*bytes.Buffer), args.Get(1).(*bytes.Buffer), args.Get(2).(*bytes.Buffer), args.Error(3)
}

type MockDialer struct {
	mock.Mock
}

func (d *MockDialer) DialAndSend(m ...*mail.Message) error {
	args := d.Called(m)
	return args.Error(0)
}

// MockMailer records deliveries. The first Failures sends return an error.
type MockMailer struct {
	mu         sync.Mutex
	Failures   int
	attempts   int
	recipients []string
	templates  []string
	data       []any
}

func (m *MockMailer) send(recipient string, data any, templateFile string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.attempts++
	if m.attempts <= m.Failures {
		return errors.New("smtp unavailable")
	}

	m.recipients = append(m.recipients, recipient)
	m.templates = append(m.templates, templateFile)
	m.data = append(m.data, data)
	return nil
}

func (m *MockMailer) Sent() ([]string, []string, []any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.recipients...), append([]string(nil), m.templates...), append([]any(nil), m.data...)
}

func (m *MockMailer) Attempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.attempts
}

type MockLogger struct {
	mock.Mock
}

func (l *MockLogger) Info(msg string, args ...any) {
	l.Called(msg, args)
}

func (l *MockLogger) Error(msg string, args ...any) {
	l.Called(msg, args)
}

// MockMessageConsumer delivers Bodies once on the requested queue and then
// closes the channel.
type MockMessageConsumer struct {
	mock.Mock
	Bodies []string
}

func (m *MockMessageConsumer) Consume(key common.BindingKey, exchange common.Exchange, queue common.Queue) (<-chan amqp.Delivery, error) {
	args := m.Called(key, exchange, queue)
	if err := args.Error(0); err != nil {
		return nil, err
	}

	msgsChan := make(chan amqp.Delivery)

	go func() {
		defer close(msgsChan)

		for _, b := range m.Bodies {
			msgsChan <- amqp.Delivery{Body: []byte(b)}
		}
	}()

	return msgsChan, nil
}
