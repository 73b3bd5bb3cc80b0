package trail

import (
	"regexp"
	"strings"
)

// Record holds the attributes scraped from one trail page. Every field is
// best-effort: anything the page did not expose stays empty.
type Record struct {
	Name          string   `json:"name" yaml:"name"`
	Location      string   `json:"location" yaml:"location"`
	Difficulty    string   `json:"difficulty" yaml:"difficulty"`
	Length        string   `json:"length" yaml:"length"`
	ElevationGain string   `json:"elevation_gain" yaml:"elevation_gain"`
	RouteType     string   `json:"route_type" yaml:"route_type"`
	Rating        string   `json:"rating" yaml:"rating"`
	ReviewsCount  string   `json:"reviews_count" yaml:"reviews_count"`
	Description   string   `json:"description" yaml:"description"`
	Features      []string `json:"features" yaml:"features"`
}

// New returns an empty record with a non-nil feature list.
func New() *Record {
	return &Record{Features: []string{}}
}

// IsEmpty reports whether no field was populated. A scrape that keeps
// coming back empty usually means the page layout changed.
func (r *Record) IsEmpty() bool {
	if r == nil {
		return true
	}
	return r.Name == "" &&
		r.Location == "" &&
		r.Difficulty == "" &&
		r.Length == "" &&
		r.ElevationGain == "" &&
		r.RouteType == "" &&
		r.Rating == "" &&
		r.ReviewsCount == "" &&
		r.Description == "" &&
		len(r.Features) == 0
}

// DisplayName returns the trail name or a placeholder.
func (r *Record) DisplayName() string {
	if r == nil || r.Name == "" {
		return "Unknown Trail"
	}
	return r.Name
}

var leadingMarkers = regexp.MustCompile(`^[\s·•\-*→▶▸▹▻▪▫◦‣⁃]+`)

// CleanLocation strips list markers that the location block tends to carry
// in front of the region name (e.g. "· Yosemite National Park").
func CleanLocation(location string) string {
	if location == "" {
		return ""
	}
	cleaned := leadingMarkers.ReplaceAllString(strings.TrimSpace(location), "")
	return strings.TrimSpace(cleaned)
}
