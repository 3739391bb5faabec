package domain

// Cache is the request/response cache.
// Keys are request parameters; buckets group keys by resource so a mutation
// can drop every cached response it may have changed.
type Cache interface {
	Get(bucket, key string, dest any) bool
	Set(bucket, key string, value any) error

	// InvalidatePrefix drops every key in bucket starting with prefix
	InvalidatePrefix(bucket, prefix string)
	// InvalidateBucket drops every key in bucket
	InvalidateBucket(bucket string)
	InvalidateAll()

	Close() error
}

// Cache buckets
const (
	BucketListings      = "listings"      // search pages, keyed by canonical query
	BucketListing       = "listing"       // single listings, keyed by ID
	BucketFavorites     = "favorites"     // "list"
	BucketConnections   = "connections"   // "outgoing", "incoming", "check:{listingID}"
	BucketProfiles      = "profiles"      // "me", "user:{id}"
	BucketReviews       = "reviews"       // "list:{listingID}", "summary:{listingID}"
	BucketNotifications = "notifications" // "all", "unread", "count"
	BucketReports       = "reports"       // "status:{status}"
	BucketAnalytics     = "analytics"     // "dashboard"
	BucketMatching      = "matching"      // "roommates:{limit}"
)

// AllBuckets lists every cache bucket
func AllBuckets() []string {
	return []string{
		BucketListings, BucketListing, BucketFavorites, BucketConnections, BucketProfiles,
		BucketReviews, BucketNotifications, BucketReports, BucketAnalytics, BucketMatching,
	}
}
