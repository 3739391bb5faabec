package service

import (
	"context"
	"log/slog"

	"github.com/phongtro/phongtro/internal/domain"
)

// NotificationService reads and acknowledges notifications
type NotificationService struct {
	repo   domain.NotificationRepository
	cache  domain.Cache
	logger *slog.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(repo domain.NotificationRepository, cache domain.Cache, logger *slog.Logger) *NotificationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationService{repo: repo, cache: cache, logger: logger}
}

// List returns notifications, optionally only unread ones
func (s *NotificationService) List(ctx context.Context, unreadOnly bool) ([]*domain.Notification, error) {
	return cached(ctx, s.cache, s.logger, domain.BucketNotifications, notificationsKey(unreadOnly),
		func(ctx context.Context) ([]*domain.Notification, error) {
			return s.repo.ListNotifications(ctx, unreadOnly)
		})
}

// UnreadCount returns the unread badge count. It always hits the network
// so the badge stays current.
func (s *NotificationService) UnreadCount(ctx context.Context) (int, error) {
	n, err := s.repo.UnreadCount(ctx)
	if err != nil {
		var stale int
		if s.cache.Get(domain.BucketNotifications, KeyUnreadCount, &stale) {
			s.logger.Warn("using cached unread count", "error", err)
			return stale, nil
		}
		return 0, err
	}
	if err := s.cache.Set(domain.BucketNotifications, KeyUnreadCount, n); err != nil {
		s.logger.Error("failed to cache unread count", "error", err)
	}
	return n, nil
}

// MarkRead marks one notification read
func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	if err := s.repo.MarkRead(ctx, id); err != nil {
		s.logger.Error("failed to mark notification read", "error", err, "notificationID", id)
		return err
	}
	s.cache.InvalidateBucket(domain.BucketNotifications)
	return nil
}

// MarkAllRead marks every notification read
func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	if err := s.repo.MarkAllRead(ctx); err != nil {
		s.logger.Error("failed to mark all notifications read", "error", err)
		return err
	}
	s.cache.InvalidateBucket(domain.BucketNotifications)
	return nil
}

// Delete removes a notification
func (s *NotificationService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteNotification(ctx, id); err != nil {
		s.logger.Error("failed to delete notification", "error", err, "notificationID", id)
		return err
	}
	s.cache.InvalidateBucket(domain.BucketNotifications)
	return nil
}
