package email

import (
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// satisfied by *gomail.Dialer
type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// StartEmailWorkers starts n workers sending queued mails over smtp.
func StartEmailWorkers(n int) {
	host := os.Getenv(KeyEmailSMTPHost)
	if host == "" {
		host = DefaultSMTPHost
	}
	port := DefaultSMTPPort
	if rawPort := os.Getenv(KeyEmailSMTPPort); rawPort != "" {
		p, err := strconv.Atoi(rawPort)
		if err != nil {
			panic("invalid " + KeyEmailSMTPPort + ": " + rawPort)
		}
		port = p
	}

	dialer := gomail.NewDialer(
		host,
		port,
		os.Getenv(KeyEmailSender),
		os.Getenv(KeyEmailSenderPassword),
	)
	startWorkers(n, dialer)
}

func startWorkers(n int, sender mailSender) {
	if n <= 0 {
		n = 1
	}
	log.Infof("starting %v email workers", n)
	for i := 0; i < n; i++ {
		go emailWorker(i, sender)
	}
}

func emailWorker(id int, sender mailSender) {
	workerLogger := log.WithField("from", "email_worker_"+strconv.Itoa(id))
	for job := range emailChan {
		msg := gomail.NewMessage()
		msg.SetHeader(KeyEmailFrom, job.from)
		msg.SetHeader(KeyEmailTo, job.To...)
		msg.SetHeader(KeyEmailSubject, job.Subject)
		bodyType := job.BodyType
		if bodyType == "" {
			bodyType = KeyEmailBodyPlain
		}
		msg.SetBody(string(bodyType), job.Body)

		// fire and forget, failures are only logged
		if err := sender.DialAndSend(msg); err != nil {
			workerLogger.WithField("purpose", job.Purpose).Errorf("cannot send mail to %v, %v", job.To, err)
			continue
		}
		workerLogger.WithField("purpose", job.Purpose).Infof("sent mail to %v", job.To)
	}
}
