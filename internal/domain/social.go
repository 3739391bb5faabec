package domain

import (
	"fmt"
	"strings"
	"time"
)

// ConnectionStatus is the state of a renter→owner request
type ConnectionStatus string

const (
	ConnectionPending   ConnectionStatus = "pending"
	ConnectionAccepted  ConnectionStatus = "accepted"
	ConnectionRejected  ConnectionStatus = "rejected"
	ConnectionCancelled ConnectionStatus = "cancelled"
)

// String returns a human-readable representation of the status
func (s ConnectionStatus) String() string {
	switch s {
	case ConnectionPending:
		return "Đang chờ"
	case ConnectionAccepted:
		return "Đã chấp nhận"
	case ConnectionRejected:
		return "Đã từ chối"
	case ConnectionCancelled:
		return "Đã hủy"
	default:
		return "Không rõ"
	}
}

// Valid reports whether s is one of the known statuses
func (s ConnectionStatus) Valid() bool {
	switch s {
	case ConnectionPending, ConnectionAccepted, ConnectionRejected, ConnectionCancelled:
		return true
	}
	return false
}

// Connection gates contact-info disclosure between a renter and a listing owner
type Connection struct {
	ID           string
	ListingID    string
	ListingTitle string
	RenterID     string
	RenterName   string
	OwnerID      string
	OwnerName    string
	Status       ConnectionStatus
	Message      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsOpen reports whether the owner has yet to respond
func (c Connection) IsOpen() bool {
	return c.Status == ConnectionPending
}

// ConnectionCheck tells whether the current user already has a connection for a listing
type ConnectionCheck struct {
	Exists     bool
	Connection *Connection
}

// Status returns the connection status, or "" when none exists
func (c ConnectionCheck) Status() ConnectionStatus {
	if !c.Exists || c.Connection == nil {
		return ""
	}
	return c.Connection.Status
}

// Favorite is a saved listing
type Favorite struct {
	ID        string
	ListingID string
	Listing   *Listing // Embedded when the backend expands it
	CreatedAt time.Time
}

// Review is a rating left on a listing
type Review struct {
	ID        string
	ListingID string
	UserID    string
	UserName  string
	Rating    int // 1..5
	Comment   string
	CreatedAt time.Time
}

// ReviewInput is the payload for posting a review
type ReviewInput struct {
	ListingID string
	Rating    int
	Comment   string
}

// ReviewSummary aggregates all reviews of a listing
type ReviewSummary struct {
	ListingID string
	Average   float64
	Count     int
	Histogram [5]int // Histogram[0] = number of 1-star reviews
}

// Stars renders the average as five star glyphs (e.g. "★★★★☆")
func (s ReviewSummary) Stars() string {
	full := int(s.Average + 0.5)
	if full > 5 {
		full = 5
	}
	if full < 0 {
		full = 0
	}
	return strings.Repeat("★", full) + strings.Repeat("☆", 5-full)
}

// Label returns a compact description such as "4.3 (12 đánh giá)"
func (s ReviewSummary) Label() string {
	if s.Count == 0 {
		return "Chưa có đánh giá"
	}
	return fmt.Sprintf("%.1f (%d đánh giá)", s.Average, s.Count)
}

// Notification is a message from the platform to the user
type Notification struct {
	ID        string
	Type      string // "connection_request", "connection_accepted", "review", "system", ...
	Title     string
	Body      string
	Link      string // Related resource, e.g. "/listings/42"
	Read      bool
	CreatedAt time.Time
}

// ReportStatus is the moderation state of a report
type ReportStatus string

const (
	ReportOpen     ReportStatus = "open"
	ReportResolved ReportStatus = "resolved"
)

// Report flags a listing or user for moderation
type Report struct {
	ID         string
	TargetType string // "listing" or "user"
	TargetID   string
	ReporterID string
	Reason     string
	Details    string
	Status     ReportStatus
	Resolution string
	CreatedAt  time.Time
	ResolvedAt *time.Time
}

// ReportInput is the payload for filing a report
type ReportInput struct {
	TargetType string
	TargetID   string
	Reason     string
	Details    string
}

// ChatMessage is one message exchanged over the chat socket
type ChatMessage struct {
	ID       string // Server-assigned ID (empty until echoed back)
	ClientID string // Client-generated ID for outbound messages
	FromID   string
	ToID     string
	Text     string
	SentAt   time.Time
	Outbound bool // Written by this client
}
