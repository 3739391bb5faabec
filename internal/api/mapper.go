package api

import (
	"strconv"
	"time"

	"github.com/phongtro/phongtro/internal/domain"
)

// MapUser converts an account DTO to a domain user
func MapUser(u UserDTO) domain.User {
	return domain.User{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		Phone:    u.Phone,
		Role:     u.Role,
		Verified: u.Verified,
	}
}

// MapSession converts an auth response to a domain session
func MapSession(r AuthResponse) *domain.Session {
	return &domain.Session{
		Token: r.Token,
		User:  MapUser(r.User),
	}
}

// MapListing converts a listing DTO to a domain listing
func MapListing(l ListingDTO) *domain.Listing {
	return &domain.Listing{
		ID:           l.ID,
		OwnerID:      l.OwnerID,
		OwnerName:    l.OwnerName,
		Title:        l.Title,
		Description:  l.Description,
		Address:      l.Address,
		Province:     l.Province,
		District:     l.District,
		Ward:         l.Ward,
		Lat:          l.Lat,
		Lng:          l.Lng,
		Price:        l.Price,
		Area:         l.Area,
		Deposit:      l.Deposit,
		Amenities:    l.Amenities,
		Rules:        l.Rules,
		Images:       l.Images,
		Verified:     l.IsVerified,
		Status:       domain.ListingStatus(l.Status),
		Distance:     l.Distance,
		ViewCount:    l.ViewCount,
		ContactPhone: l.ContactPhone,
		ContactEmail: l.ContactEmail,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

// MapListingPage converts a search page, filling in page and limit from
// the request when the backend omits them
func MapListingPage(p ListingPageDTO, page, limit int) *domain.ListingPage {
	items := make([]*domain.Listing, 0, len(p.Items))
	for _, l := range p.Items {
		items = append(items, MapListing(l))
	}

	result := &domain.ListingPage{
		Items: items,
		Total: p.Total,
		Page:  p.Page,
		Limit: p.Limit,
	}
	if result.Page == 0 {
		result.Page = page
	}
	if result.Limit == 0 {
		result.Limit = limit
	}
	if result.Total == 0 {
		result.Total = len(items)
	}
	return result
}

func mapListingInput(in domain.ListingInput) listingInputDTO {
	dto := listingInputDTO{
		Title:       in.Title,
		Description: in.Description,
		Address:     in.Address,
		Province:    in.Province,
		District:    in.District,
		Ward:        in.Ward,
		Lat:         in.Lat,
		Lng:         in.Lng,
		Price:       in.Price,
		Area:        in.Area,
		Deposit:     in.Deposit,
		Amenities:   in.Amenities,
		Rules:       in.Rules,
		Images:      in.Images,
	}
	if in.Status != nil {
		status := string(*in.Status)
		dto.Status = &status
	}
	return dto
}

// MapFavorite converts a favorite DTO
func MapFavorite(f FavoriteDTO) *domain.Favorite {
	fav := &domain.Favorite{
		ID:        f.ID,
		ListingID: f.ListingID,
		CreatedAt: f.CreatedAt,
	}
	if f.Listing != nil {
		fav.Listing = MapListing(*f.Listing)
		if fav.ListingID == "" {
			fav.ListingID = fav.Listing.ID
		}
	}
	return fav
}

// MapConnection converts a connection DTO
func MapConnection(c ConnectionDTO) *domain.Connection {
	return &domain.Connection{
		ID:           c.ID,
		ListingID:    c.ListingID,
		ListingTitle: c.ListingTitle,
		RenterID:     c.RenterID,
		RenterName:   c.RenterName,
		OwnerID:      c.OwnerID,
		OwnerName:    c.OwnerName,
		Status:       domain.ConnectionStatus(c.Status),
		Message:      c.Message,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// MapConnections converts a list of connection DTOs
func MapConnections(dtos []ConnectionDTO) []*domain.Connection {
	out := make([]*domain.Connection, 0, len(dtos))
	for _, c := range dtos {
		out = append(out, MapConnection(c))
	}
	return out
}

// MapProfile converts a profile DTO
func MapProfile(p ProfileDTO) *domain.Profile {
	return &domain.Profile{
		UserID:             p.UserID,
		Name:               p.Name,
		Gender:             p.Gender,
		Age:                p.Age,
		Occupation:         p.Occupation,
		Bio:                p.Bio,
		AvatarURL:          p.AvatarURL,
		BudgetMin:          p.BudgetMin,
		BudgetMax:          p.BudgetMax,
		PreferredDistricts: p.PreferredDistricts,
		Smoking:            p.Smoking,
		Pets:               p.Pets,
		Sleep:              domain.SleepSchedule(p.SleepSchedule),
		Cleanliness:        p.Cleanliness,
		GenderPreference:   p.GenderPreference,
		UpdatedAt:          p.UpdatedAt,
	}
}

func profileToDTO(p domain.Profile) ProfileDTO {
	return ProfileDTO{
		UserID:             p.UserID,
		Name:               p.Name,
		Gender:             p.Gender,
		Age:                p.Age,
		Occupation:         p.Occupation,
		Bio:                p.Bio,
		AvatarURL:          p.AvatarURL,
		BudgetMin:          p.BudgetMin,
		BudgetMax:          p.BudgetMax,
		PreferredDistricts: p.PreferredDistricts,
		Smoking:            p.Smoking,
		Pets:               p.Pets,
		SleepSchedule:      string(p.Sleep),
		Cleanliness:        p.Cleanliness,
		GenderPreference:   p.GenderPreference,
	}
}

// MapReview converts a review DTO
func MapReview(r ReviewDTO) *domain.Review {
	return &domain.Review{
		ID:        r.ID,
		ListingID: r.ListingID,
		UserID:    r.UserID,
		UserName:  r.UserName,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

// MapReviewSummary converts a review summary. Distribution keys outside
// "1".."5" are ignored.
func MapReviewSummary(s ReviewSummaryDTO) *domain.ReviewSummary {
	summary := &domain.ReviewSummary{
		ListingID: s.ListingID,
		Average:   s.Average,
		Count:     s.Count,
	}
	for key, count := range s.Distribution {
		stars, err := strconv.Atoi(key)
		if err != nil || stars < 1 || stars > 5 {
			continue
		}
		summary.Histogram[stars-1] = count
	}
	return summary
}

// MapNotification converts a notification DTO
func MapNotification(n NotificationDTO) *domain.Notification {
	return &domain.Notification{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Body:      n.Body,
		Link:      n.Link,
		Read:      n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

// MapReport converts a report DTO
func MapReport(r ReportDTO) *domain.Report {
	return &domain.Report{
		ID:         r.ID,
		TargetType: r.TargetType,
		TargetID:   r.TargetID,
		ReporterID: r.ReporterID,
		Reason:     r.Reason,
		Details:    r.Details,
		Status:     domain.ReportStatus(r.Status),
		Resolution: r.Resolution,
		CreatedAt:  r.CreatedAt,
		ResolvedAt: r.ResolvedAt,
	}
}

// MapOverview converts the analytics overview
func MapOverview(o OverviewDTO) *domain.MarketOverview {
	return &domain.MarketOverview{
		TotalListings:   o.TotalListings,
		ActiveListings:  o.ActiveListings,
		VerifiedRatio:   o.VerifiedRatio,
		AveragePrice:    o.AveragePrice,
		MedianPrice:     o.MedianPrice,
		AverageArea:     o.AverageArea,
		NewThisWeek:     o.NewThisWeek,
		ConnectionsRate: o.ConnectionsRate,
	}
}

// MapTrendPoint converts a trend sample. Periods are "YYYY-MM" or RFC 3339;
// anything else leaves Period zero.
func MapTrendPoint(t TrendPointDTO) domain.TrendPoint {
	point := domain.TrendPoint{AveragePrice: t.AveragePrice, Count: t.Count}
	for _, layout := range []string{"2006-01", "2006-01-02", time.RFC3339} {
		if parsed, err := time.Parse(layout, t.Period); err == nil {
			point.Period = parsed
			break
		}
	}
	return point
}

// MapRoommateMatch converts a matching candidate
func MapRoommateMatch(m RoommateMatchDTO) *domain.RoommateMatch {
	return &domain.RoommateMatch{
		Profile: *MapProfile(m.Profile),
		Score:   m.Score,
		Reasons: m.Reasons,
	}
}

// MapChatFrame converts a wire frame to a chat message as seen by selfID
func MapChatFrame(f ChatFrame, selfID string) domain.ChatMessage {
	return domain.ChatMessage{
		ID:       f.ID,
		ClientID: f.ClientID,
		FromID:   f.FromID,
		ToID:     f.ToID,
		Text:     f.Text,
		SentAt:   f.SentAt,
		Outbound: selfID != "" && f.FromID == selfID,
	}
}
