package service

import (
	"strconv"

	"github.com/phongtro/phongtro/internal/domain"
)

// Cache keys within each bucket (see domain bucket constants)
const (
	// KeyFavorites is the key for the favorites list
	KeyFavorites = "list"

	// KeyOutgoing and KeyIncoming are the connection list keys
	KeyOutgoing = "outgoing"
	KeyIncoming = "incoming"

	// PrefixCheck is the prefix for connection checks (check:{listingID})
	PrefixCheck = "check:"

	// KeyMyProfile is the key for the current user's profile
	KeyMyProfile = "me"

	// PrefixUser is the prefix for other users' profiles (user:{id})
	PrefixUser = "user:"

	// PrefixReviewList and PrefixReviewSummary are keyed by listing ID
	PrefixReviewList    = "list:"
	PrefixReviewSummary = "summary:"

	// Notification keys
	KeyNotificationsAll    = "all"
	KeyNotificationsUnread = "unread"
	KeyUnreadCount         = "count"

	// PrefixReportStatus is the prefix for report lists (status:{status})
	PrefixReportStatus = "status:"

	// KeyDashboard is the key for the analytics dashboard
	KeyDashboard = "dashboard"

	// PrefixRoommates is the prefix for roommate candidates (roommates:{limit})
	PrefixRoommates = "roommates:"
)

func notificationsKey(unreadOnly bool) string {
	if unreadOnly {
		return KeyNotificationsUnread
	}
	return KeyNotificationsAll
}

func reportsKey(status domain.ReportStatus) string {
	return PrefixReportStatus + string(status)
}

func roommatesKey(limit int) string {
	return PrefixRoommates + strconv.Itoa(limit)
}

// ListingMutationBuckets are dropped whenever a listing changes: search pages,
// favorites (which embed listings) and the dashboard aggregates
func ListingMutationBuckets() []string {
	return []string{domain.BucketListings, domain.BucketFavorites, domain.BucketAnalytics}
}
