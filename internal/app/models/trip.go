package models

import "time"

// Interests offered by the trip form.
var InterestOptions = []string{
	"Museums",
	"Food & Cuisine",
	"Historic Sites",
	"Nightlife",
	"Nature & Parks",
	"Shopping",
	"Adventure Activities",
	"Cultural Experiences",
	"Beaches",
	"Photography Spots",
}

const (
	MinTripDays     = 1
	MaxTripDays     = 30
	DefaultTripDays = 3
)

// IsKnownInterest reports whether name is one of InterestOptions.
func IsKnownInterest(name string) bool {
	for _, opt := range InterestOptions {
		if opt == name {
			return true
		}
	}
	return false
}

// TripRequest is the form submission captured for one generation run.
type TripRequest struct {
	Destination string   `form:"destination" json:"destination" binding:"required,max=120"`
	NumDays     int      `form:"num_days" json:"num_days" binding:"required,min=1,max=30"`
	Interests   []string `form:"interests" json:"interests" binding:"max=10,dive,max=64"`
	Constraints string   `form:"constraints" json:"constraints" binding:"max=2000"`
}

// GeneratedPlan is the Markdown itinerary and the model that produced it.
type GeneratedPlan struct {
	Markdown string `json:"markdown"`
	Model    string `json:"model"`
}

// InterestImage pairs an interest with its cached picture. Path is empty when
// no picture is available.
type InterestImage struct {
	Interest string `json:"interest"`
	Path     string `json:"path,omitempty"`
}

// Guide is everything produced by one successful generation run.
type Guide struct {
	Request        TripRequest     `json:"request"`
	Plan           GeneratedPlan   `json:"plan"`
	CityImage      string          `json:"city_image,omitempty"`
	InterestImages []InterestImage `json:"interest_images"`
	PDFPath        string          `json:"pdf_path"`
	GeneratedAt    time.Time       `json:"generated_at"`
}
