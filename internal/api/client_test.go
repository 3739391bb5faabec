package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phongtro/phongtro/internal/domain"
	"github.com/phongtro/phongtro/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorded captures the last request seen by a test server
type recorded struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

func newTestServer(t *testing.T, status int, response string) (*Client, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*rec = recorded{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   body,
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)

	return NewClient(srv.URL+"/", "tok-1", "u-1", log.NullLogger()), rec
}

func TestIdentityHeaders(t *testing.T) {
	client, rec := newTestServer(t, http.StatusOK, `{"count": 3}`)

	n, err := client.UnreadCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	assert.Equal(t, "Bearer tok-1", rec.Header.Get("Authorization"))
	assert.Equal(t, "u-1", rec.Header.Get("X-User-ID"))
	assert.Equal(t, "application/json", rec.Header.Get("Accept"))
	assert.NotEmpty(t, rec.Header.Get("X-Request-ID"))
	assert.Equal(t, "/notifications/unread-count", rec.Path)
}

func TestNoIdentityHeadersWithoutSession(t *testing.T) {
	client, rec := newTestServer(t, http.StatusOK, `{"count": 0}`)
	client.SetSession("", "")

	_, err := client.UnreadCount(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rec.Header.Get("Authorization"))
	assert.Empty(t, rec.Header.Get("X-User-ID"))
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, domain.ErrAuthFailed},
		{http.StatusForbidden, domain.ErrForbidden},
		{http.StatusNotFound, domain.ErrNotFound},
		{http.StatusConflict, domain.ErrConflict},
		{http.StatusBadRequest, domain.ErrInvalidInput},
		{http.StatusUnprocessableEntity, domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			client, _ := newTestServer(t, tt.status, `{"message": "nope"}`)

			_, err := client.GetListing(context.Background(), "42")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, "nope", apiErr.Message)
		})
	}
}

func TestServerErrorKeepsMessage(t *testing.T) {
	client, _ := newTestServer(t, http.StatusInternalServerError, `{"error": "database down"}`)

	_, err := client.ListFavorites(context.Background())
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 500, apiErr.Status)
	assert.Equal(t, "database down", apiErr.Message)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestServerOffline(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(url, "", "", log.NullLogger())
	_, err := client.ListFavorites(context.Background())
	assert.ErrorIs(t, err, domain.ErrServerOffline)
}

func TestCancelledContext(t *testing.T) {
	client, _ := newTestServer(t, http.StatusOK, `[]`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListFavorites(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrServerOffline)
}

func TestDataEnvelopeIsUnwrapped(t *testing.T) {
	client, _ := newTestServer(t, http.StatusOK, `{"data": {"id": "7", "title": "Phòng 7", "price": 2500000}}`)

	l, err := client.GetListing(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, "Phòng 7", l.Title)
	assert.EqualValues(t, 2_500_000, l.Price)
}

func TestLoginAdoptsSession(t *testing.T) {
	client, rec := newTestServer(t, http.StatusOK, `{"token": "new-token", "user": {"id": "u-9", "email": "a@b.vn", "name": "An", "role": "renter"}}`)
	client.SetSession("", "")

	session, err := client.Login(context.Background(), " a@b.vn ", "secret")
	require.NoError(t, err)
	assert.Equal(t, "new-token", session.Token)
	assert.Equal(t, "u-9", session.User.ID)
	assert.Equal(t, "new-token", client.Token())
	assert.Equal(t, "u-9", client.UserID())

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body, &body))
	assert.Equal(t, map[string]string{"email": "a@b.vn", "password": "secret"}, body)
	assert.Equal(t, "/auth/login", rec.Path)
}

func TestLoginRequiresCredentials(t *testing.T) {
	client, rec := newTestServer(t, http.StatusOK, `{}`)

	_, err := client.Login(context.Background(), "", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, rec.Method, "no request is sent")
}

func TestLoginRejectsEmptyToken(t *testing.T) {
	client, _ := newTestServer(t, http.StatusOK, `{"user": {"id": "u-1"}}`)

	_, err := client.Login(context.Background(), "a@b.vn", "x")
	assert.Error(t, err)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "Không thể kết nối máy chủ", UserMessage(domain.ErrServerOffline))
	assert.Equal(t, "Phiên đăng nhập đã hết hạn, vui lòng đăng nhập lại", UserMessage(&Error{Status: 401, Message: "jwt expired"}))
	assert.Equal(t, "Tin đăng không tồn tại", UserMessage(&Error{Status: 404, Message: "Tin đăng không tồn tại"}))
	assert.Equal(t, "Không tìm thấy dữ liệu", UserMessage(&Error{Status: 404}))
	assert.Equal(t, "Máy chủ báo lỗi (502)", UserMessage(&Error{Status: 502}))
	assert.Equal(t, "Chưa kết nối trò chuyện", UserMessage(domain.ErrNotConnected))
	assert.Equal(t, "Đã hủy", UserMessage(context.Canceled))
}
