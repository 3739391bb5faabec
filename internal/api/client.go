package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phongtro/phongtro/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "phongtro-cli/1.0"
	maxErrorBody   = 4 << 10
)

// Client talks to the marketplace REST API. It implements every repository
// interface in the domain package except Geocoder and RegionDirectory.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	mu     sync.RWMutex
	token  string
	userID string
}

var (
	_ domain.AuthRepository         = (*Client)(nil)
	_ domain.ListingRepository      = (*Client)(nil)
	_ domain.FavoriteRepository     = (*Client)(nil)
	_ domain.ConnectionRepository   = (*Client)(nil)
	_ domain.ProfileRepository      = (*Client)(nil)
	_ domain.ReviewRepository       = (*Client)(nil)
	_ domain.NotificationRepository = (*Client)(nil)
	_ domain.ReportRepository       = (*Client)(nil)
	_ domain.UploadRepository       = (*Client)(nil)
	_ domain.AnalyticsRepository    = (*Client)(nil)
	_ domain.MatchingRepository     = (*Client)(nil)
	_ domain.ChatRepository         = (*Client)(nil)
)

// NewClient creates a new API client. token and userID may be empty before login.
func NewClient(baseURL, token, userID string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		userID:  userID,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// SetSession replaces the identity sent with every request
func (c *Client) SetSession(token, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.userID = userID
}

// Token returns the current bearer token
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// UserID returns the current user ID
func (c *Client) UserID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID
}

// BaseURL returns the API root without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doRequest performs an authenticated JSON request and returns the raw body
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := c.newRequest(ctx, method, path, query, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req)
}

// doJSON performs a request and decodes the response into out (nil to discard)
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	respBody, err := c.doRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decode(respBody, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())

	c.mu.RLock()
	token, userID := c.token, c.userID
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	return req, nil
}

// send executes req and maps the response status onto domain errors
func (c *Client) send(req *http.Request) ([]byte, error) {
	requestID := req.Header.Get("X-Request-ID")
	c.logger.Debug("api request", "method", req.Method, "url", req.URL.String(), "request_id", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.Error("api request failed", "method", req.Method, "path", req.URL.Path, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("api response",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", requestID,
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{
			Status:    resp.StatusCode,
			Message:   errorMessage(body),
			RequestID: requestID,
		}
		if resp.StatusCode >= 500 {
			c.logger.Error("api server error", "status", resp.StatusCode, "path", req.URL.Path, "body", truncate(body))
		} else {
			c.logger.Warn("api request rejected", "status", resp.StatusCode, "path", req.URL.Path, "message", apiErr.Message)
		}
		return nil, apiErr
	}

	return body, nil
}

// decode unmarshals body into out, unwrapping a {"data": ...} envelope when present
func decode(body []byte, out any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if bytes.HasPrefix(bytes.TrimSpace(body), []byte("{")) {
		if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 && string(envelope.Data) != "null" {
			body = envelope.Data
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func errorMessage(body []byte) string {
	var e errorDTO
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

func truncate(body []byte) string {
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody]) + "…"
	}
	return string(body)
}

// escape escapes a single path segment
func escape(segment string) string {
	return url.PathEscape(segment)
}
