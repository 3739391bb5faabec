// Package chat keeps one realtime conversation open over a WebSocket.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/phongtro/phongtro/internal/api"
	"github.com/phongtro/phongtro/internal/domain"
)

const handshakeTimeout = 10 * time.Second

// ErrClosed is returned by Connect after Close
var ErrClosed = errors.New("chat: hook closed")

// Conn is the subset of *websocket.Conn the hook uses
type Conn interface {
	ReadJSON(v any) error
	WriteJSON(v any) error
	Close() error
}

// Dialer opens chat sockets
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

type websocketDialer struct {
	dialer *websocket.Dialer
	header http.Header
}

// NewDialer returns a Dialer backed by gorilla/websocket
func NewDialer(userAgent string) Dialer {
	header := http.Header{}
	if userAgent != "" {
		header.Set("User-Agent", userAgent)
	}
	return &websocketDialer{
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: handshakeTimeout,
		},
		header: header,
	}
}

func (d *websocketDialer) Dial(ctx context.Context, url string) (Conn, error) {
	conn, resp, err := d.dialer.DialContext(ctx, url, d.header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, domain.ErrAuthFailed
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
	}
	return conn, nil
}

// Hook is a single conversation with one peer. Messages are kept in arrival
// order. A dropped socket is never reopened automatically; it only flips
// Connected to false.
type Hook struct {
	url    string
	peerID string
	selfID string
	dialer Dialer
	logger *slog.Logger

	mu        sync.Mutex
	conn      Conn
	connected bool
	closed    bool
	messages  []domain.ChatMessage

	writeMu sync.Mutex
	updates chan struct{}
	wg      sync.WaitGroup
}

// NewHook creates a hook for the conversation between selfID and peerID.
// url is the full socket URL (see api.Client.ChatURL).
func NewHook(dialer Dialer, url, peerID, selfID string, logger *slog.Logger) *Hook {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hook{
		url:     url,
		peerID:  peerID,
		selfID:  selfID,
		dialer:  dialer,
		logger:  logger.With("peer_id", peerID),
		updates: make(chan struct{}, 1),
	}
}

// PeerID returns the other side of the conversation
func (h *Hook) PeerID() string {
	return h.peerID
}

// Seed prepends stored history. Messages already present (by server ID)
// are skipped.
func (h *Hook) Seed(history []domain.ChatMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	seen := make(map[string]bool, len(h.messages))
	for _, m := range h.messages {
		if m.ID != "" {
			seen[m.ID] = true
		}
	}
	merged := make([]domain.ChatMessage, 0, len(history)+len(h.messages))
	for _, m := range history {
		if m.ID != "" && seen[m.ID] {
			continue
		}
		merged = append(merged, m)
	}
	h.messages = append(merged, h.messages...)
	h.notifyLocked()
}

// Connect opens the socket and starts reading. The connection lives until
// ctx is cancelled, Close is called or the server drops it.
func (h *Hook) Connect(ctx context.Context) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrClosed
	}
	if h.connected {
		h.mu.Unlock()
		return nil
	}
	h.mu.Unlock()

	// A previous reader may still be unwinding after a drop
	h.wg.Wait()

	conn, err := h.dialer.Dial(ctx, h.url)
	if err != nil {
		h.logger.Warn("chat connect failed", "error", err)
		return err
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return ErrClosed
	}
	h.conn = conn
	h.connected = true
	h.wg.Add(2)
	h.notifyLocked()
	h.mu.Unlock()

	h.logger.Debug("chat connected")

	done := make(chan struct{})
	go h.readLoop(conn, done)
	go func() {
		defer h.wg.Done()
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()
	return nil
}

func (h *Hook) readLoop(conn Conn, done chan struct{}) {
	defer h.wg.Done()
	defer close(done)

	for {
		var frame api.ChatFrame
		if err := conn.ReadJSON(&frame); err != nil {
			h.mu.Lock()
			closed := h.closed
			if h.conn == conn {
				h.connected = false
				h.conn = nil
			}
			h.notifyLocked()
			h.mu.Unlock()

			conn.Close()
			if !closed {
				h.logger.Info("chat disconnected", "error", err)
			}
			return
		}

		if frame.Type == api.FrameError {
			h.logger.Warn("chat server error", "error", frame.Error)
			continue
		}
		h.receive(api.MapChatFrame(frame, h.selfID))
	}
}

// receive appends an inbound message, or confirms a local outbound one when
// the server echoes its client ID back
func (h *Hook) receive(msg domain.ChatMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if msg.ClientID != "" {
		for i := range h.messages {
			if h.messages[i].ClientID == msg.ClientID {
				h.messages[i].ID = msg.ID
				if !msg.SentAt.IsZero() {
					h.messages[i].SentAt = msg.SentAt
				}
				h.notifyLocked()
				return
			}
		}
	}
	h.messages = append(h.messages, msg)
	h.notifyLocked()
}

// Send writes text to the peer. It is a no-op before Connect and after the
// socket dropped. The message is appended locally as it is written; a failed
// write removes it again and marks the hook disconnected.
func (h *Hook) Send(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	msg := domain.ChatMessage{
		ClientID: uuid.NewString(),
		FromID:   h.selfID,
		ToID:     h.peerID,
		Text:     text,
		SentAt:   time.Now(),
		Outbound: true,
	}
	frame := api.ChatFrame{
		Type:     api.FrameMessage,
		ClientID: msg.ClientID,
		FromID:   msg.FromID,
		ToID:     msg.ToID,
		Text:     msg.Text,
		SentAt:   msg.SentAt,
	}

	h.mu.Lock()
	if h.closed || !h.connected {
		h.mu.Unlock()
		return nil
	}
	conn := h.conn
	// Appended before writing so a fast echo finds it by client ID
	h.messages = append(h.messages, msg)
	h.notifyLocked()
	h.mu.Unlock()

	h.writeMu.Lock()
	err := conn.WriteJSON(frame)
	h.writeMu.Unlock()
	if err == nil {
		return nil
	}

	h.logger.Warn("chat send failed", "error", err)

	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.messages {
		if h.messages[i].ClientID == msg.ClientID {
			h.messages = append(h.messages[:i], h.messages[i+1:]...)
			break
		}
	}
	if h.conn == conn {
		h.connected = false
	}
	h.notifyLocked()
	return fmt.Errorf("%w: %v", domain.ErrNotConnected, err)
}

// Messages returns a snapshot of the conversation in arrival order
func (h *Hook) Messages() []domain.ChatMessage {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]domain.ChatMessage, len(h.messages))
	copy(out, h.messages)
	return out
}

// Connected reports whether the socket is open
func (h *Hook) Connected() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.connected
}

// Updates signals after every change to messages or connection state.
// Signals coalesce; the channel is closed by Close.
func (h *Hook) Updates() <-chan struct{} {
	return h.updates
}

// Close closes the socket and waits for the reader to exit
func (h *Hook) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.connected = false
	conn := h.conn
	h.conn = nil
	h.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
	h.wg.Wait()

	h.mu.Lock()
	close(h.updates)
	h.mu.Unlock()

	h.logger.Debug("chat closed")
	return nil
}

// notifyLocked must be called with mu held
func (h *Hook) notifyLocked() {
	if h.closed {
		return
	}
	select {
	case h.updates <- struct{}{}:
	default:
	}
}
