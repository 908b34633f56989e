package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/tcp_snm/pulse/internal/pulse_errors"
)

var reminderTemplate = template.Must(template.New("reminder").Parse(`<p>Hi {{.Name}},</p>
<p>We noticed that your Codeforces account <b>{{.Handle}}</b> has had no submissions in the last {{.Days}} days.</p>
<p>Keep the streak going, pick a problem and give it a try today!</p>`))

type reminderData struct {
	Name   string
	Handle string
	Days   int
}

// SendInactivityReminder queues a reminder mail for a student without recent submissions.
func (e *EmailService) SendInactivityReminder(
	ctx context.Context,
	to string,
	name string,
	handle string,
	days int,
) error {
	var body bytes.Buffer
	err := reminderTemplate.Execute(&body, reminderData{Name: name, Handle: handle, Days: days})
	if err != nil {
		err = fmt.Errorf("%w, cannot render reminder mail, %w", pulse_errors.ErrInternal, err)
		e.logger.Error(err)
		return err
	}

	err = NewMail(
		ctx,
		"Time to get back to problem solving",
		body.String(),
		KeyEmailBodyHTML,
		PurposeInactivityReminder,
		to,
	)
	if err != nil {
		return err
	}

	e.logger.WithField("handle", handle).Infof("queued inactivity reminder to %v", to)
	return nil
}
