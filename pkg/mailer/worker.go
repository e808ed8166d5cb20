package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	mailtpl "github.com/oksasatya/realio-auth/pkg/mailer/templates"
)

// Sender delivers a rendered email. *Mailgun implements it.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Disposition tells the consumer what to do with a delivery.
type Disposition int

const (
	Ack Disposition = iota
	Drop
	Requeue
)

var (
	ErrNoRecipient = errors.New("email job has no recipient")
	ErrEmptyJob    = errors.New("email job has neither template nor body")
)

const sendTimeout = 15 * time.Second

// Worker turns queued jobs into sent emails.
type Worker struct {
	sender Sender
	logger *logrus.Logger
}

func NewWorker(sender Sender, logger *logrus.Logger) *Worker {
	return &Worker{sender: sender, logger: logger}
}

// Handle processes one queue body. Malformed or unrenderable jobs are
// dropped; send failures are requeued.
func (w *Worker) Handle(ctx context.Context, body []byte) Disposition {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.logger.WithError(err).Warn("bad email message")
		return Drop
	}
	subject, text, html, err := Prepare(job)
	if err != nil {
		w.logger.WithError(err).WithField("template", job.Template).Warn("email job rejected")
		return Drop
	}

	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := w.sender.Send(c, job.To, subject, text, html); err != nil {
		w.logger.WithError(err).WithField("to", job.To).Error("send failed")
		return Requeue
	}
	w.logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("email sent")
	return Ack
}

// Prepare resolves the final subject and bodies for job.
func Prepare(job EmailJob) (subject, text, html string, err error) {
	if strings.TrimSpace(job.To) == "" {
		return "", "", "", ErrNoRecipient
	}
	if job.Template != "" {
		return mailtpl.Render(job.Template, job.Data)
	}
	if job.Text == "" && job.HTML == "" {
		return "", "", "", ErrEmptyJob
	}
	return job.Subject, job.Text, job.HTML, nil
}
