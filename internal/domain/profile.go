package domain

import "time"

// SleepSchedule describes when a person usually sleeps
type SleepSchedule string

const (
	SleepEarly    SleepSchedule = "early"
	SleepLate     SleepSchedule = "late"
	SleepFlexible SleepSchedule = "flexible"
)

// Profile is a user's preference and habit record used for roommate matching
type Profile struct {
	UserID             string
	Name               string
	Gender             string
	Age                int
	Occupation         string
	Bio                string
	AvatarURL          string
	BudgetMin          int64
	BudgetMax          int64
	PreferredDistricts []string
	Smoking            bool
	Pets               bool
	Sleep              SleepSchedule
	Cleanliness        int    // 1 (relaxed) .. 5 (very tidy)
	GenderPreference   string // "", "male", "female"
	UpdatedAt          time.Time
}

// BudgetLabel renders the budget range (e.g. "2 triệu - 4 triệu")
func (p Profile) BudgetLabel() string {
	switch {
	case p.BudgetMin > 0 && p.BudgetMax > 0:
		return FormatVND(p.BudgetMin) + " - " + FormatVND(p.BudgetMax)
	case p.BudgetMax > 0:
		return "≤ " + FormatVND(p.BudgetMax)
	case p.BudgetMin > 0:
		return "≥ " + FormatVND(p.BudgetMin)
	default:
		return "Chưa đặt"
	}
}

// RoommateMatch is a candidate roommate scored by the backend
type RoommateMatch struct {
	Profile Profile
	Score   float64 // 0..100
	Reasons []string
}
