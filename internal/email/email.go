package email

import (
	"context"
	"errors"
	"os"

	"github.com/sirupsen/logrus"
	log "github.com/sirupsen/logrus"
	"github.com/tcp_snm/pulse/internal/pulse_errors"
)

type EmailPurpose string
type EmailBodyType string

const (
	KeyEmailSender                            = "SENDER_EMAIL"
	KeyEmailSenderPassword                    = "SENDER_EMAIL_PASSWORD"
	KeyEmailSMTPHost                          = "SMTP_HOST"
	KeyEmailSMTPPort                          = "SMTP_PORT"
	DefaultSMTPHost                           = "smtp.gmail.com"
	DefaultSMTPPort                           = 587
	KeyEmailFrom                              = "From"
	KeyEmailTo                                = "To"
	KeyEmailSubject                           = "Subject"
	KeyEmailBodyPlain           EmailBodyType = "text/plain"
	KeyEmailBodyHTML            EmailBodyType = "text/html"
	PurposeInactivityReminder   EmailPurpose  = "inactivity_reminder"
	defaultEmailChannelCapacity               = 100
)

var emailChan = make(chan emailJob, defaultEmailChannelCapacity)

type EmailRequest struct {
	To       []string
	Subject  string
	Body     string
	BodyType EmailBodyType
	Purpose  EmailPurpose
}

type emailJob struct {
	EmailRequest
	from string
}

type EmailService struct {
	logger *logrus.Entry
}

func (e *EmailService) Start() {
	e.logger = logrus.WithField("from", "email service")
}

// NewMail queues a mail for the workers. It never waits on the smtp server.
func NewMail(
	ctx context.Context,
	subject string,
	body string,
	bodyType EmailBodyType,
	purpose EmailPurpose,
	to ...string,
) error {
	fromMail := os.Getenv(KeyEmailSender)
	if fromMail == "" {
		log.Error("sender email is not configured")
		return pulse_errors.ErrEmailServiceStopped
	}
	job := emailJob{
		from: fromMail,
		EmailRequest: EmailRequest{
			To:       to,
			Subject:  subject,
			Body:     body,
			BodyType: bodyType,
			Purpose:  purpose,
		},
	}
	// when all the workers are dead, it shouldn't block indefinetely
	select {
	case <-ctx.Done():
		log.Errorf("email job cancelled: %v", ctx.Err())
		return errors.Join(pulse_errors.ErrEmailServiceStopped, ctx.Err())

	case emailChan <- job:
		return nil
	}
}
