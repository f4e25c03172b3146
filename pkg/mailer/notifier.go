package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bootcamp-directory/pkg/helpers"
	mailtpl "github.com/oksasatya/bootcamp-directory/pkg/mailer/templates"
)

// Notifier delivers an email job. A returned error means the recipient will
// not get the message.
type Notifier interface {
	Notify(ctx context.Context, job EmailJob) error
}

var ErrNoRecipient = errors.New("email job has no recipient")

// Compose resolves the final subject and bodies of a job, rendering its template when set.
func Compose(job EmailJob) (subject, text, html string, err error) {
	if strings.TrimSpace(job.To) == "" {
		return "", "", "", ErrNoRecipient
	}
	if job.Template == "" {
		if job.Subject == "" || (job.Text == "" && job.HTML == "") {
			return "", "", "", fmt.Errorf("email job for %s has neither template nor body", job.To)
		}
		return job.Subject, job.Text, job.HTML, nil
	}
	data := job.Data
	if data == nil {
		data = map[string]any{}
	}
	if v, ok := data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		data["Email"] = job.To
	}
	subject, text, html, err = mailtpl.Render(job.Template, data)
	if err != nil {
		return "", "", "", err
	}
	return strings.TrimSpace(subject), text, html, nil
}

// Notify renders the job and sends it through Mailgun synchronously.
func (m *Mailgun) Notify(ctx context.Context, job EmailJob) error {
	subject, text, html, err := Compose(job)
	if err != nil {
		return err
	}
	return m.Send(ctx, job.To, subject, text, html)
}

// QueueNotifier hands jobs to the email worker through RabbitMQ.
type QueueNotifier struct {
	pub *helpers.RabbitPublisher
}

func NewQueueNotifier(pub *helpers.RabbitPublisher) *QueueNotifier {
	return &QueueNotifier{pub: pub}
}

func (q *QueueNotifier) Notify(ctx context.Context, job EmailJob) error {
	if strings.TrimSpace(job.To) == "" {
		return ErrNoRecipient
	}
	return q.pub.PublishJSON(ctx, "email."+job.Template, job)
}

// LogNotifier only records that a message would have been sent. Bodies are
// not logged since they can carry reset links.
type LogNotifier struct {
	logger logrus.FieldLogger
}

func NewLogNotifier(logger logrus.FieldLogger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Notify(_ context.Context, job EmailJob) error {
	subject, _, _, err := Compose(job)
	if err != nil {
		return err
	}
	l.logger.WithFields(logrus.Fields{
		"to":       job.To,
		"template": job.Template,
		"subject":  subject,
	}).Info("email notification (log notifier)")
	return nil
}
