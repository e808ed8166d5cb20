package devbackend

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/realio-auth/internal/domain/entity"
	"github.com/oksasatya/realio-auth/pkg/mailer"
	mailtpl "github.com/oksasatya/realio-auth/pkg/mailer/templates"
)

// Notifier delivers a freshly issued OTP to the account owner.
type Notifier interface {
	NotifyOTP(ctx context.Context, a *entity.Account, code string, ttl time.Duration) error
}

// LogNotifier writes codes to the log. For local runs without mail.
type LogNotifier struct {
	Logger *logrus.Logger
}

func (n LogNotifier) NotifyOTP(_ context.Context, a *entity.Account, code string, ttl time.Duration) error {
	n.Logger.WithFields(logrus.Fields{
		"email": a.Email,
		"code":  code,
		"ttl":   ttl.String(),
	}).Info("otp issued")
	return nil
}

// Publisher puts a JSON job on a queue. *helpers.RabbitPublisher
// implements it.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueNotifier enqueues a verify_otp email for the email worker.
type QueueNotifier struct {
	Pub     Publisher
	AppName string
}

func (n QueueNotifier) NotifyOTP(ctx context.Context, a *entity.Account, code string, ttl time.Duration) error {
	job := mailer.EmailJob{
		To:       a.Email,
		Template: mailtpl.VerifyOTP,
		Data: mailtpl.NewOTPData(n.AppName, a.Name, a.Email, code,
			mailtpl.WithExpiresIn(ttl),
			mailtpl.WithExpiresAt(time.Now().Add(ttl)),
		),
	}
	return n.Pub.PublishJSON(ctx, job)
}
