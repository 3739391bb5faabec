package tui

import (
	"github.com/phongtro/phongtro/internal/chat"
	"github.com/phongtro/phongtro/internal/domain"
	"github.com/phongtro/phongtro/internal/tui/components"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status bar message set with the same Seq
type ClearStatusMsg struct {
	Seq int
}

// PollMsg triggers the periodic unread-count refresh
type PollMsg struct{}

// ListingsLoadedMsg carries one search page or its error. Key identifies
// the search it answers so stale results can be dropped.
type ListingsLoadedMsg struct {
	Page *domain.ListingPage
	Key  string
	Err  error
}

// DetailLoadedMsg carries a listing with its reviews and connection state
type DetailLoadedMsg struct {
	Data components.DetailData
}

// FavoritesLoadedMsg carries the saved listings
type FavoritesLoadedMsg struct {
	Favorites []*domain.Favorite
}

// FavoriteToggledMsg reports the outcome of saving or unsaving a listing
type FavoriteToggledMsg struct {
	ListingID string
	Saved     bool
	Err       error
}

// ConnectionsLoadedMsg carries both directions of connection requests
type ConnectionsLoadedMsg struct {
	Incoming []*domain.Connection
	Outgoing []*domain.Connection
}

// ConnectionRequestedMsg signals that a connection request was sent
type ConnectionRequestedMsg struct {
	Connection *domain.Connection
}

// ConnectionRespondedMsg signals that a request was accepted, rejected or cancelled
type ConnectionRespondedMsg struct {
	Connection *domain.Connection
}

// NotificationsLoadedMsg carries the user's notifications
type NotificationsLoadedMsg struct {
	Notifications []*domain.Notification
}

// NotificationsChangedMsg signals a read/delete mutation finished
type NotificationsChangedMsg struct {
	Message string
}

// UnreadCountMsg carries the unread notification count
type UnreadCountMsg struct {
	Count int
}

// AnalyticsLoadedMsg carries the market dashboard
type AnalyticsLoadedMsg struct {
	Dashboard *domain.Dashboard
}

// RoommatesLoadedMsg carries roommate suggestions
type RoommatesLoadedMsg struct {
	Matches []*domain.RoommateMatch
}

// ReportCreatedMsg signals that a report was filed
type ReportCreatedMsg struct {
	Report *domain.Report
}

// ReviewCreatedMsg signals that a review was posted
type ReviewCreatedMsg struct {
	Review *domain.Review
}

// ChatConnectedMsg reports the outcome of dialing the chat socket
type ChatConnectedMsg struct {
	Hook *chat.Hook
	Err  error
}

// ChatHistoryMsg signals that stored history was merged into the hook
type ChatHistoryMsg struct {
	Hook *chat.Hook
	Err  error
}

// ChatUpdateMsg signals that the hook's messages or connection changed.
// Closed is set once the hook shut down and no more updates follow.
type ChatUpdateMsg struct {
	Hook   *chat.Hook
	Closed bool
}

// LogoutCompleteMsg signals that the session and cache were cleared
type LogoutCompleteMsg struct {
	Error error
}
