package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"flock/internal/middleware"
	"flock/internal/models"
	"flock/internal/notifications"
	"flock/internal/repository"
)

// Notificator delivers notifications: every delivery appends to the
// recipient's inbox, optionally mirrors a status line to the log sink, and
// best-effort publishes to the recipient's live channel.
type Notificator struct {
	notificationRepo repository.NotificationRepository
	followRepo       repository.FollowRepository
	notifier         *notifications.Notifier
	logger           *slog.Logger
}

// NewNotificator returns a new Notificator. The live notifier may be nil;
// inbox delivery never depends on it.
func NewNotificator(
	notificationRepo repository.NotificationRepository,
	followRepo repository.FollowRepository,
	notifier *notifications.Notifier,
) *Notificator {
	return &Notificator{
		notificationRepo: notificationRepo,
		followRepo:       followRepo,
		notifier:         notifier,
		logger:           middleware.Logger,
	}
}

// livePayload is the JSON shape published on a user's live channel.
type livePayload struct {
	RecipientID uint      `json:"recipient_id"`
	ActorID     uint      `json:"actor_id"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

// NotifyUser delivers a message to one recipient. A user never notifies
// itself; that case is a silent no-op. extra is appended to the logged status
// line only, never to the stored inbox message.
func (nt *Notificator) NotifyUser(ctx context.Context, recipient *models.User, actorID uint, message string, logLine bool, extra string) error {
	if recipient.ID == actorID {
		return nil
	}

	notification := &models.Notification{
		RecipientID: recipient.ID,
		ActorID:     actorID,
		Message:     message,
	}
	if err := nt.notificationRepo.Create(ctx, notification); err != nil {
		return err
	}
	middleware.NotificationsDelivered.WithLabelValues("user").Inc()

	if logLine {
		nt.logger.InfoContext(ctx, "notification",
			slog.String("to", recipient.Username),
			slog.String("message", message+extra),
		)
	}

	nt.publishLive(ctx, notification)
	return nil
}

// NotifyFollowers delivers a message to every follower of the actor, in
// follow-creation order. Delivery is synchronous: when this returns nil,
// every follower's inbox holds the message.
func (nt *Notificator) NotifyFollowers(ctx context.Context, actor *models.User, message string, logLine bool) error {
	followers, err := nt.followRepo.Followers(ctx, actor.ID)
	if err != nil {
		return err
	}

	for i := range followers {
		if err := nt.NotifyUser(ctx, &followers[i], actor.ID, message, logLine, ""); err != nil {
			return err
		}
	}
	return nil
}

// publishLive mirrors the notification onto the recipient's Redis channel.
// Live delivery is best-effort; the inbox row is already committed.
func (nt *Notificator) publishLive(ctx context.Context, n *models.Notification) {
	if nt.notifier == nil {
		return
	}
	payload, err := json.Marshal(livePayload{
		RecipientID: n.RecipientID,
		ActorID:     n.ActorID,
		Message:     n.Message,
		CreatedAt:   n.CreatedAt,
	})
	if err != nil {
		return
	}
	if err := nt.notifier.PublishUser(ctx, n.RecipientID, string(payload)); err != nil {
		nt.logger.WarnContext(ctx, "live notification publish failed",
			slog.Any("recipient_id", n.RecipientID),
			slog.String("error", err.Error()),
		)
	}
}
