package domain

import "time"

// MarketOverview holds headline numbers for the analytics dashboard
type MarketOverview struct {
	TotalListings   int
	ActiveListings  int
	VerifiedRatio   float64 // 0..1
	AveragePrice    int64
	MedianPrice     int64
	AverageArea     float64
	NewThisWeek     int
	ConnectionsRate float64 // Accepted connections / total, 0..1
}

// PriceBucket is one bar of the price distribution chart
type PriceBucket struct {
	Label string // e.g. "1 - 2 triệu"
	Min   int64
	Max   int64 // 0 = open-ended
	Count int
}

// DistrictStat aggregates listings for one district
type DistrictStat struct {
	District     string
	Province     string
	Count        int
	AveragePrice int64
	AverageArea  float64
}

// TrendPoint is one sample of the average price over time
type TrendPoint struct {
	Period       time.Time
	AveragePrice int64
	Count        int
}

// Dashboard groups everything the analytics screen renders
type Dashboard struct {
	Overview     MarketOverview
	Distribution []PriceBucket
	Districts    []DistrictStat
	Trend        []TrendPoint
}
