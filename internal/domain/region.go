package domain

import (
	"time"

	"github.com/google/uuid"
)

// Highlight is one notable feature of a region (festival, dish, monument, craft).
type Highlight struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// RegionRecord is the validated enrichment payload for one named region.
// Population and area are human-readable text, not numbers.
type RegionRecord struct {
	Capital    string      `json:"capital"`
	Population string      `json:"population"`
	Area       string      `json:"area"`
	Languages  string      `json:"languages"`
	History    string      `json:"history"`
	Culture    string      `json:"culture"`
	MainImage  string      `json:"mainImage"`
	Highlights []Highlight `json:"highlights"`
}

// Region is one entry of the map catalog. Only Name is used as a lookup key.
type Region struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RegionEvent announces a freshly generated record to downstream consumers.
type RegionEvent struct {
	ID          string       `json:"id"`
	Region      string       `json:"region"`
	Record      RegionRecord `json:"record"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// NewRegionEvent stamps a record with a fresh ID and the current time.
func NewRegionEvent(region string, record RegionRecord) RegionEvent {
	return RegionEvent{
		ID:          uuid.NewString(),
		Region:      region,
		Record:      record,
		GeneratedAt: clock.Now().UTC(),
	}
}
