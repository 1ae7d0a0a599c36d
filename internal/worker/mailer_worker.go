package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"github.com/aiassess/assessment-backend/internal/config"
	"github.com/aiassess/assessment-backend/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const mailPollTimeout = 1 * time.Second

// MailerWorker drains the reset-email queue and sends messages over SMTP.
// Delivery is best-effort with no retry: a failed send is logged and dropped.
type MailerWorker struct {
	cfg *config.Config
	rdb *redis.Client
	log zerolog.Logger
	// send is swappable for tests; defaults to smtp.SendMail.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewMailerWorker creates a new MailerWorker.
func NewMailerWorker(cfg *config.Config, rdb *redis.Client, log zerolog.Logger) *MailerWorker {
	return &MailerWorker{
		cfg:  cfg,
		rdb:  rdb,
		log:  log.With().Str("component", "mailer_worker").Logger(),
		send: smtp.SendMail,
	}
}

// Start runs the worker loop until the context is cancelled.
func (w *MailerWorker) Start(ctx context.Context) {
	w.log.Info().Msg("MailerWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("MailerWorker stopped")
			return
		default:
			item, err := w.rdb.BLPop(ctx, mailPollTimeout, config.WorkerKey.ResetEmailQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var job service.ResetEmailJob
			if err := json.Unmarshal([]byte(item[1]), &job); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			if err := w.sendResetEmail(&job); err != nil {
				w.log.Error().Err(err).
					Str("email", job.Email).
					Str("role", string(job.Role)).
					Msg("Reset email delivery failed")
			}
		}
	}
}

// sendResetEmail composes and sends a single password-reset message.
func (w *MailerWorker) sendResetEmail(job *service.ResetEmailJob) error {
	resetLink := fmt.Sprintf("%s?token=%s", w.cfg.ResetLinkBase, job.Token)
	body := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Password Reset Request\r\n\r\n"+
			"Please click the link below to reset your password:\r\n%s\r\n",
		w.cfg.SMTPFrom, job.Email, resetLink)

	addr := fmt.Sprintf("%s:%d", w.cfg.SMTPHost, w.cfg.SMTPPort)

	var auth smtp.Auth
	if w.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", w.cfg.SMTPUser, w.cfg.SMTPPassword, w.cfg.SMTPHost)
	}

	return w.send(addr, auth, w.cfg.SMTPFrom, []string{job.Email}, []byte(body))
}
