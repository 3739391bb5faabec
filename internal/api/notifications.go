package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/phongtro/phongtro/internal/domain"
)

// ListNotifications returns the user's notifications
func (c *Client) ListNotifications(ctx context.Context, unreadOnly bool) ([]*domain.Notification, error) {
	var query url.Values
	if unreadOnly {
		query = url.Values{"unread": {"true"}}
	}

	var resp []NotificationDTO
	if err := c.doJSON(ctx, http.MethodGet, "/notifications", query, nil, &resp); err != nil {
		return nil, err
	}

	notifications := make([]*domain.Notification, 0, len(resp))
	for _, n := range resp {
		notifications = append(notifications, MapNotification(n))
	}
	return notifications, nil
}

// UnreadCount returns the number of unread notifications
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var resp unreadCountDTO
	if err := c.doJSON(ctx, http.MethodGet, "/notifications/unread-count", nil, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// MarkRead marks one notification read
func (c *Client) MarkRead(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodPatch, "/notifications/"+escape(id)+"/read", nil, nil, nil)
}

// MarkAllRead marks every notification read
func (c *Client) MarkAllRead(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPatch, "/notifications/read-all", nil, nil, nil)
}

// DeleteNotification removes a notification
func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/notifications/"+escape(id), nil, nil, nil)
}
