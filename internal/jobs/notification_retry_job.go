package jobs

import (
	"context"
	"log/slog"

	"phantomtrack/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// NotificationRetryJob manages the scheduled sweep for shipped orders whose
// customer never received the shipped email. Runs every minute so an outage
// of the mail relay delays notifications instead of dropping them.
type NotificationRetryJob struct {
	handler commands.RetryShippingNotificationsCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewNotificationRetryJob creates a new job for retrying shipped
// notifications. Uses RetryShippingNotificationsCommandHandler to process
// the backlog every minute.
func NewNotificationRetryJob(handler commands.RetryShippingNotificationsCommandHandler, logger *slog.Logger) *NotificationRetryJob {
	return &NotificationRetryJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "notification_retry_job"),
	}
}

// Start begins the notification retry job to run every minute.
func (j *NotificationRetryJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewRetryShippingNotificationsCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Notification retry job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Notification retry job started (running every minute)")
	return nil
}

// Stop stops the notification retry job.
func (j *NotificationRetryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Notification retry job stopped")
}
