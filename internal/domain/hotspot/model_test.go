// internal/domain/hotspot/model_test.go

package hotspot

import (
	"testing"
	"time"
)

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories {
		if !c.Valid() {
			t.Errorf("Category %q reported invalid", c)
		}
	}
	if Category("spaceport").Valid() {
		t.Error("Unknown category reported valid")
	}
	if Category("").Valid() {
		t.Error("Empty category reported valid")
	}
}

func TestHasCapacity(t *testing.T) {
	h := &Hotspot{MaxCapacity: 2, CurrentOccupancy: 1}
	if !h.HasCapacity() {
		t.Error("Expected capacity with one spot left")
	}

	h.CurrentOccupancy = 2
	if h.HasCapacity() {
		t.Error("Expected no capacity when full")
	}

	// Zero capacity means unlimited
	unlimited := &Hotspot{MaxCapacity: 0, CurrentOccupancy: 500}
	if !unlimited.HasCapacity() {
		t.Error("Expected unlimited capacity for MaxCapacity 0")
	}
}

func TestSearchFiltersMatch(t *testing.T) {
	active := true
	inactive := false
	spots := true
	minCap := 5
	maxCap := 20
	start := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(4 * time.Hour)
	early := start.Add(-2 * time.Hour)
	late := end.Add(2 * time.Hour)

	base := Hotspot{
		Category:         CategoryCafe,
		MaxCapacity:      10,
		CurrentOccupancy: 3,
		IsActive:         true,
		IsPublic:         true,
		Tags:             []string{"coffee", "quiet"},
		ScheduledTime:    &start,
		EndTime:          &end,
	}

	cases := []struct {
		name    string
		filters SearchFilters
		mutate  func(*Hotspot)
		want    bool
	}{
		{"empty filters match everything", SearchFilters{}, nil, true},
		{"category match", SearchFilters{Categories: []Category{CategoryCafe, CategoryBar}}, nil, true},
		{"category mismatch", SearchFilters{Categories: []Category{CategoryGym}}, nil, false},
		{"active wanted", SearchFilters{IsActive: &active}, nil, true},
		{"inactive wanted", SearchFilters{IsActive: &inactive}, nil, false},
		{"available spots", SearchFilters{HasAvailableSpots: &spots}, nil, true},
		{"full hotspot filtered", SearchFilters{HasAvailableSpots: &spots}, func(h *Hotspot) { h.CurrentOccupancy = 10 }, false},
		{"capacity in range", SearchFilters{MinCapacity: &minCap, MaxCapacity: &maxCap}, nil, true},
		{"capacity too small", SearchFilters{MinCapacity: &maxCap}, nil, false},
		{"capacity too large", SearchFilters{MaxCapacity: &minCap}, nil, false},
		{"public wanted", SearchFilters{IsPublic: &active}, nil, true},
		{"private filtered", SearchFilters{IsPublic: &inactive}, nil, false},
		{"any tag matches", SearchFilters{Tags: []string{"quiet", "loud"}}, nil, true},
		{"no tag matches", SearchFilters{Tags: []string{"loud"}}, nil, false},
		{"window covers schedule", SearchFilters{TimeFilter: &TimeFilter{StartTime: &early, EndTime: &late}}, nil, true},
		{"starts before window", SearchFilters{TimeFilter: &TimeFilter{StartTime: &late}}, nil, false},
		{"ends after window", SearchFilters{TimeFilter: &TimeFilter{EndTime: &early}}, nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := base
			if tc.mutate != nil {
				tc.mutate(&h)
			}
			if got := tc.filters.Match(&h); got != tc.want {
				t.Errorf("Match = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCreateRequestValidate(t *testing.T) {
	valid := CreateRequest{
		Name:     "Library meetup",
		Category: CategoryLibrary,
		Location: Location{Latitude: 40.0, Longitude: -74.0},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("Valid request rejected: %v", err)
	}

	bad := valid
	bad.Category = "spaceport"
	if err := bad.Validate(); err != ErrInvalidCategory {
		t.Errorf("Expected ErrInvalidCategory, got %v", err)
	}

	bad = valid
	bad.Location.Longitude = 181
	if err := bad.Validate(); err != ErrInvalidLocation {
		t.Errorf("Expected ErrInvalidLocation, got %v", err)
	}

	bad = valid
	bad.Tags = make([]string, MaxTags+1)
	if err := bad.Validate(); err != ErrTooManyTags {
		t.Errorf("Expected ErrTooManyTags, got %v", err)
	}
}
