package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/phongtro/phongtro/internal/domain"
)

// Error is a non-2xx response from the marketplace API
type Error struct {
	Status    int
	Message   string // Message from the response body, if any
	RequestID string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, http.StatusText(e.Status))
}

// Is maps well-known statuses onto the domain sentinels so callers can
// use errors.Is(err, domain.ErrNotFound) without inspecting status codes.
func (e *Error) Is(target error) bool {
	switch target {
	case domain.ErrAuthFailed:
		return e.Status == http.StatusUnauthorized
	case domain.ErrForbidden:
		return e.Status == http.StatusForbidden
	case domain.ErrNotFound:
		return e.Status == http.StatusNotFound
	case domain.ErrConflict:
		return e.Status == http.StatusConflict
	case domain.ErrInvalidInput:
		return e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity
	}
	return false
}

// UserMessage turns an error into the short Vietnamese text shown in toasts
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *Error
	hasAPIErr := errors.As(err, &apiErr)

	switch {
	case errors.Is(err, context.Canceled):
		return "Đã hủy"
	case errors.Is(err, context.DeadlineExceeded):
		return "Máy chủ phản hồi quá lâu"
	case errors.Is(err, domain.ErrServerOffline):
		return "Không thể kết nối máy chủ"
	case errors.Is(err, domain.ErrAuthFailed):
		return "Phiên đăng nhập đã hết hạn, vui lòng đăng nhập lại"
	case hasAPIErr && apiErr.Message != "":
		return apiErr.Message
	case errors.Is(err, domain.ErrForbidden):
		return "Bạn không có quyền thực hiện thao tác này"
	case errors.Is(err, domain.ErrNotFound):
		return "Không tìm thấy dữ liệu"
	case errors.Is(err, domain.ErrConflict):
		return "Dữ liệu đã tồn tại"
	case errors.Is(err, domain.ErrInvalidInput):
		return "Dữ liệu không hợp lệ"
	case errors.Is(err, domain.ErrNotConnected):
		return "Chưa kết nối trò chuyện"
	case errors.Is(err, domain.ErrGeocodeFailed):
		return "Không xác định được địa chỉ"
	case hasAPIErr:
		return fmt.Sprintf("Máy chủ báo lỗi (%d)", apiErr.Status)
	}
	return "Đã xảy ra lỗi: " + err.Error()
}
