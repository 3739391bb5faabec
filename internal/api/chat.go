package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/phongtro/phongtro/internal/domain"
)

// ChatHistory returns stored messages with peerID, oldest first
func (c *Client) ChatHistory(ctx context.Context, peerID string, limit int) ([]domain.ChatMessage, error) {
	query := url.Values{"peer_id": {peerID}}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var resp []ChatFrame
	if err := c.doJSON(ctx, http.MethodGet, "/chat/history", query, nil, &resp); err != nil {
		return nil, err
	}

	self := c.UserID()
	messages := make([]domain.ChatMessage, 0, len(resp))
	for _, f := range resp {
		messages = append(messages, MapChatFrame(f, self))
	}
	return messages, nil
}

// ChatURL builds the chat socket URL for a conversation with peerID.
// wsBase overrides the socket root; when empty it is derived from the API
// base URL (http→ws, https→wss).
func (c *Client) ChatURL(wsBase, peerID string) (string, error) {
	base := strings.TrimRight(wsBase, "/")
	if base == "" {
		base = c.baseURL
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid chat url %q: %w", base, err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("invalid chat url scheme %q", u.Scheme)
	}

	u.Path = strings.TrimRight(u.Path, "/") + "/chat/ws"
	query := url.Values{"peer_id": {peerID}}
	if token := c.Token(); token != "" {
		query.Set("token", token)
	}
	u.RawQuery = query.Encode()
	return u.String(), nil
}
