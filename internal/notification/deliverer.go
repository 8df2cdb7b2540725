package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"aniverse/internal/microservices/http-api/models"
)

// Inbox stores the in-app copy of a notice.
type Inbox interface {
	Create(ctx context.Context, notification *models.Notification) error
}

// Deliverer writes the inbox row and sends the mail. Both are attempted;
// either failure is reported.
type Deliverer struct {
	inbox  Inbox
	mailer Mailer
	logger *slog.Logger
}

func NewDeliverer(inbox Inbox, mailer Mailer, logger *slog.Logger) *Deliverer {
	return &Deliverer{inbox: inbox, mailer: mailer, logger: logger}
}

func (d *Deliverer) Handle(ctx context.Context, task Task) error {
	var errs []error

	err := d.inbox.Create(ctx, &models.Notification{
		ProfileID: task.RecipientProfileID,
		CommentID: task.CommentID,
		Subject:   task.Subject,
		Message:   task.Message,
	})
	if err != nil {
		errs = append(errs, fmt.Errorf("store inbox notification: %w", err))
	}

	if task.RecipientEmail != "" {
		if err := d.mailer.Send(ctx, task.RecipientEmail, task.Subject, task.Message); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	d.logger.Debug("notification delivered", "profile_id", task.RecipientProfileID, "comment_id", task.CommentID)
	return nil
}
