package models

import (
	"time"
)

type ResourceKind string

const (
	ResourceKindFacility ResourceKind = "FACILITY"
	ResourceKindTeam     ResourceKind = "TEAM"
)

func (k ResourceKind) Valid() bool {
	return k == ResourceKindFacility || k == ResourceKindTeam
}

// Resource is a bookable unit: a physical terrain or a team's open calendar.
// Bookable hours run from OpenHour (inclusive) to CloseHour (exclusive).
type Resource struct {
	ID        string       `json:"id"`
	Slug      string       `json:"slug"`
	Name      string       `json:"name"`
	Kind      ResourceKind `json:"kind"`
	OwnerID   string       `json:"owner_id,omitempty"`
	OpenHour  int          `json:"open_hour"`
	CloseHour int          `json:"close_hour"`
	Timezone  string       `json:"timezone"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// InWindow reports whether every hour of the span lies in the operating window.
func (r Resource) InWindow(startHour, hours int) bool {
	if hours <= 0 {
		return false
	}
	return startHour >= r.OpenHour && startHour+hours <= r.CloseHour
}

// Hours lists the bookable hours of a day.
func (r Resource) Hours() []int {
	hours := make([]int, 0, r.CloseHour-r.OpenHour)
	for h := r.OpenHour; h < r.CloseHour; h++ {
		hours = append(hours, h)
	}
	return hours
}

// Location resolves the resource's timezone, falling back to UTC.
func (r Resource) Location() *time.Location {
	if r.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
