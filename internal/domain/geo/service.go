// internal/domain/geo/service.go

package geo

import (
	"context"
	"time"

	"github.com/ladiesmans217/unalone/internal/domain/hotspot"
)

// CacheStats reports cache tier diagnostics
type CacheStats struct {
	Available   bool   `json:"available"`
	TotalKeys   int64  `json:"total_keys"`
	MemoryBytes int64  `json:"memory_bytes"`
	Info        string `json:"info,omitempty"`
}

// Cache is the best-effort accelerator tier in front of the hotspot
// store. Every method must be safe to call when the backing cache is
// unreachable: reads report a miss, writes are no-ops and errors after
// initial availability are swallowed at this boundary.
type Cache interface {
	// IsAvailable reports whether the backing cache is reachable.
	IsAvailable() bool

	// CacheRegionResults stores search results for a region.
	CacheRegionResults(ctx context.Context, lat, lon, radiusKm float64, hotspots []*hotspot.Hotspot, ttl time.Duration) error

	// GetRegionResults returns cached results for a region, or nil on miss.
	GetRegionResults(ctx context.Context, lat, lon, radiusKm float64) ([]*hotspot.Hotspot, error)

	// CacheClusterResults stores clusters for a region and zoom level.
	CacheClusterResults(ctx context.Context, lat, lon, radiusKm float64, zoomLevel int, clusters []hotspot.Cluster, ttl time.Duration) error

	// GetClusterResults returns cached clusters, or nil on miss.
	GetClusterResults(ctx context.Context, lat, lon, radiusKm float64, zoomLevel int) ([]hotspot.Cluster, error)

	// AddToGeoIndex registers a hotspot location in the geospatial index.
	AddToGeoIndex(ctx context.Context, h *hotspot.Hotspot) error

	// RemoveFromGeoIndex removes a hotspot from the geospatial index.
	RemoveFromGeoIndex(ctx context.Context, hotspotID string) error

	// NearbyIDs returns up to limit hotspot IDs within the radius,
	// ascending by distance. Empty when unavailable or nothing matches.
	NearbyIDs(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]string, error)

	// InvalidateRegion drops the region entry and every per-zoom
	// cluster entry for the rounded region key.
	InvalidateRegion(ctx context.Context, lat, lon, radiusKm float64) error

	// InvalidateForHotspot removes the hotspot from the geo index and
	// invalidates the fixed set of surrounding radii around it.
	InvalidateForHotspot(ctx context.Context, h *hotspot.Hotspot) error

	// Stats returns cache diagnostics.
	Stats(ctx context.Context) (CacheStats, error)
}

// Service coordinates geospatial search: cache lookup, index-assisted
// candidate retrieval, fallback full scan, filtering, pagination and
// optional clustering.
type Service interface {
	// Search performs a direct, unclustered radius search.
	Search(ctx context.Context, req *hotspot.SearchRequest) (*hotspot.SearchResponse, error)

	// SearchOptimized performs a cache-accelerated search with optional
	// clustering for map rendering.
	SearchOptimized(ctx context.Context, req *hotspot.OptimizedSearchRequest) (*hotspot.OptimizedSearchResult, error)

	// CacheStats returns cache tier diagnostics.
	CacheStats(ctx context.Context) (CacheStats, error)
}
