// internal/domain/hotspot/model.go

package hotspot

import (
	"time"

	"github.com/ladiesmans217/unalone/internal/geo"
)

// Location represents geographic coordinates for a hotspot
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Category represents the type of hotspot
type Category string

const (
	CategoryCafe          Category = "cafe"
	CategoryRestaurant    Category = "restaurant"
	CategoryPark          Category = "park"
	CategoryGym           Category = "gym"
	CategoryLibrary       Category = "library"
	CategoryBeach         Category = "beach"
	CategoryBar           Category = "bar"
	CategoryEvent         Category = "event"
	CategoryStudy         Category = "study"
	CategorySports        Category = "sports"
	CategoryShopping      Category = "shopping"
	CategoryEntertainment Category = "entertainment"
	CategoryOther         Category = "other"
)

// Categories lists every valid hotspot category.
var Categories = []Category{
	CategoryCafe, CategoryRestaurant, CategoryPark, CategoryGym,
	CategoryLibrary, CategoryBeach, CategoryBar, CategoryEvent,
	CategoryStudy, CategorySports, CategoryShopping,
	CategoryEntertainment, CategoryOther,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// MaxTags is the maximum number of free-form tags a hotspot may carry.
const MaxTags = 10

// Hotspot represents a location where users can meet
type Hotspot struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	Category         Category   `json:"category"`
	Location         Location   `json:"location"`
	OwnerID          string     `json:"owner_id"`
	MaxCapacity      int        `json:"max_capacity"` // 0 means unlimited
	CurrentOccupancy int        `json:"current_occupancy"`
	IsActive         bool       `json:"is_active"`
	IsPublic         bool       `json:"is_public"`
	Tags             []string   `json:"tags"`
	ScheduledTime    *time.Time `json:"scheduled_time,omitempty"`
	EndTime          *time.Time `json:"end_time,omitempty"`
	Attendees        []string   `json:"attendees"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// HasCapacity reports whether another attendee fits. A zero MaxCapacity
// means unlimited.
func (h *Hotspot) HasCapacity() bool {
	return h.MaxCapacity == 0 || h.CurrentOccupancy < h.MaxCapacity
}

// IsAttendee reports whether the user is currently in the hotspot.
func (h *Hotspot) IsAttendee(userID string) bool {
	for _, id := range h.Attendees {
		if id == userID {
			return true
		}
	}
	return false
}

// WithDistance pairs a hotspot with its distance from a query center
type WithDistance struct {
	Hotspot  Hotspot `json:"hotspot"`
	Distance float64 `json:"distance"` // kilometers
}

// Cluster is an ephemeral aggregate of nearby hotspots computed for a
// zoom level. Clusters are never persisted; they live in the cache only.
type Cluster struct {
	ID             string          `json:"id"`
	CenterLocation Location        `json:"center_location"`
	BoundingBox    geo.BoundingBox `json:"bounding_box"`
	HotspotCount   int             `json:"hotspot_count"`
	TotalOccupancy int             `json:"total_occupancy"`
	MaxCapacity    int             `json:"max_capacity"`
	Categories     []string        `json:"categories"`
	ZoomLevel      int             `json:"zoom_level"`
	Radius         float64         `json:"radius_km"`
	Hotspots       []string        `json:"hotspot_ids,omitempty"`
}

// ClusteringMode selects the clustering strategy
type ClusteringMode string

const (
	ClusteringModeNone     ClusteringMode = "none"
	ClusteringModeGrid     ClusteringMode = "grid"
	ClusteringModeDistance ClusteringMode = "distance"
	ClusteringModeKMeans   ClusteringMode = "kmeans"
	ClusteringModeAuto     ClusteringMode = "auto"
)

// ClusterConfig controls how search results are clustered
type ClusterConfig struct {
	Mode           ClusteringMode `json:"mode"`
	MinClusterSize int            `json:"min_cluster_size"`
	MaxClusterSize int            `json:"max_cluster_size"`
	GridSizeKm     float64        `json:"grid_size_km,omitempty"`
	ZoomLevel      int            `json:"zoom_level"`
}

// TimeFilter restricts results to a scheduling window
type TimeFilter struct {
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

// SearchFilters is the unified filter predicate applied identically on
// the indexed and the fallback search path.
type SearchFilters struct {
	Categories        []Category  `json:"categories,omitempty"`
	IsActive          *bool       `json:"is_active,omitempty"`
	HasAvailableSpots *bool       `json:"has_available_spots,omitempty"`
	Tags              []string    `json:"tags,omitempty"`
	MinCapacity       *int        `json:"min_capacity,omitempty"`
	MaxCapacity       *int        `json:"max_capacity,omitempty"`
	IsPublic          *bool       `json:"is_public,omitempty"`
	TimeFilter        *TimeFilter `json:"time_filter,omitempty"`
}

// Match reports whether the hotspot passes every configured filter.
func (f SearchFilters) Match(h *Hotspot) bool {
	if len(f.Categories) > 0 {
		found := false
		for _, c := range f.Categories {
			if h.Category == c {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.IsActive != nil && h.IsActive != *f.IsActive {
		return false
	}

	if f.HasAvailableSpots != nil && *f.HasAvailableSpots && !h.HasCapacity() {
		return false
	}

	if f.MinCapacity != nil && h.MaxCapacity < *f.MinCapacity {
		return false
	}
	if f.MaxCapacity != nil && h.MaxCapacity > *f.MaxCapacity {
		return false
	}

	if f.IsPublic != nil && h.IsPublic != *f.IsPublic {
		return false
	}

	if len(f.Tags) > 0 {
		found := false
		for _, want := range f.Tags {
			for _, tag := range h.Tags {
				if want == tag {
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.TimeFilter != nil {
		if f.TimeFilter.StartTime != nil && h.ScheduledTime != nil &&
			h.ScheduledTime.Before(*f.TimeFilter.StartTime) {
			return false
		}
		if f.TimeFilter.EndTime != nil && h.EndTime != nil &&
			h.EndTime.After(*f.TimeFilter.EndTime) {
			return false
		}
	}

	return true
}

// Pagination represents offset/limit paging
type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// SearchRequest is a direct (unclustered) search
type SearchRequest struct {
	Center     Location      `json:"center"`
	RadiusKm   float64       `json:"radius_km"`
	Filters    SearchFilters `json:"filters"`
	Pagination Pagination    `json:"pagination"`
}

// SearchResponse is the direct search result
type SearchResponse struct {
	Hotspots []WithDistance `json:"hotspots"`
	Total    int            `json:"total"`
	HasMore  bool           `json:"has_more"`
}

// GeospatialQuery carries the viewport parameters of an optimized search
type GeospatialQuery struct {
	Center    Location `json:"center"`
	RadiusKm  float64  `json:"radius_km"`
	ZoomLevel int      `json:"zoom_level"`
}

// OptimizedSearchRequest is a clustered, cache-accelerated search
type OptimizedSearchRequest struct {
	Query      GeospatialQuery `json:"geospatial_query"`
	Filters    SearchFilters   `json:"filters"`
	Pagination Pagination      `json:"pagination"`
	Clustering ClusterConfig   `json:"clustering"`
}

// OptimizedSearchResult is the clustered search response
type OptimizedSearchResult struct {
	Clusters     []Cluster      `json:"clusters"`
	Hotspots     []WithDistance `json:"individual_hotspots"`
	TotalCount   int            `json:"total_count"`
	ClusterCount int            `json:"cluster_count"`
	HasMore      bool           `json:"has_more"`
	QueryTimeMs  int64          `json:"query_time_ms"`
	CacheHit     bool           `json:"cache_hit"`
	ZoomLevel    int            `json:"zoom_level"`
}
