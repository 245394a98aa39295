package mailservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/sushihentaime/startuphub/internal/common"
	"golang.org/x/exp/rand"
)

// NewMailService wires the SMTP mailer to the startup queues. moderator
// receives submission notices; siteURL prefixes links in the emails.
func NewMailService(mb common.MessageConsumer, host, username, password, sender string, port int, moderator, siteURL string, logger MailLogger) *MailService {
	ctx, cancel := context.WithCancel(context.Background())
	return &MailService{
		mb:        mb,
		m:         NewMailer(host, port, username, password, sender, NewTemplate()),
		logger:    logger,
		moderator: moderator,
		siteURL:   strings.TrimSuffix(siteURL, "/"),
		retryBase: baseDelay,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// SendStartupApprovedEmails tells founders their listing is live.
func (s *MailService) SendStartupApprovedEmails() {
	s.consume(common.StartupApprovedKey, common.StartupApprovedQueue, func(ev startupEvent) (string, any, string) {
		return ev.OwnerEmail, approvedData{
			Name:        ev.OwnerName,
			StartupName: ev.StartupName,
			StartupURL:  s.siteURL + "/startups/" + ev.StartupID.String(),
		}, "startup_approved.html"
	})
}

// SendStartupSubmittedEmails notifies the moderator inbox about new listings.
func (s *MailService) SendStartupSubmittedEmails() {
	if s.moderator == "" {
		s.logger.Info("no moderator address configured, submission notices disabled")
		return
	}

	s.consume(common.StartupSubmittedKey, common.StartupSubmittedQueue, func(ev startupEvent) (string, any, string) {
		return s.moderator, submittedData{
			StartupName: ev.StartupName,
			OwnerName:   ev.OwnerName,
			OwnerEmail:  ev.OwnerEmail,
			ReviewURL:   s.siteURL + "/admin",
		}, "startup_submitted.html"
	})
}

func (s *MailService) consume(key common.BindingKey, queue common.Queue, compose func(startupEvent) (string, any, string)) {
	msgs, err := s.mb.Consume(key, common.StartupExchange, queue)
	if err != nil {
		s.logger.Error("could not consume message", slog.String("queue", string(queue)), slog.String("error", err.Error()))
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				var ev startupEvent
				if err := json.Unmarshal(msg.Body, &ev); err != nil {
					s.logger.Error("could not unmarshal message", slog.String("error", err.Error()))
					_ = msg.Ack(false)
					continue
				}

				recipient, data, tmpl := compose(ev)
				s.deliver(recipient, data, tmpl)
				_ = msg.Ack(false)

			case <-s.ctx.Done():
				s.logger.Info("stopping mail consumer due to context cancellation", slog.String("queue", string(queue)))
				return
			}
		}
	}()
}

// deliver retries with exponential backoff and full jitter, giving up after
// maxRetries attempts or when the service is closed.
func (s *MailService) deliver(recipient string, data any, tmpl string) {
	for attempt := 0; attempt < maxRetries; attempt++ {
		err := s.m.send(recipient, data, tmpl)
		if err == nil {
			s.logger.Info("email sent", slog.String("email", recipient), slog.String("template", tmpl))
			return
		}

		delay := time.Duration(rand.Int63n(int64(s.retryBase) << uint(attempt)))
		s.logger.Info("delaying email", slog.String("email", recipient), slog.Int("attempt", attempt), slog.Duration("delay", delay), slog.String("error", err.Error()))

		select {
		case <-time.After(delay):
		case <-s.ctx.Done():
			s.logger.Error("email abandoned on shutdown", slog.String("email", recipient))
			return
		}
	}

	s.logger.Error("could not send email", slog.String("email", recipient), slog.String("template", tmpl))
}

// Close stops the consumers and waits for in-flight deliveries to finish.
func (s *MailService) Close() {
	s.cancel()
	s.wg.Wait()
}
