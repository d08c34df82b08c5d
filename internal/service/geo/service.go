// internal/service/geo/service.go

package geo

import (
	"context"
	"sort"
	"time"

	"github.com/ladiesmans217/unalone/internal/domain/geo"
	"github.com/ladiesmans217/unalone/internal/domain/hotspot"
	geoutil "github.com/ladiesmans217/unalone/internal/geo"
	"github.com/ladiesmans217/unalone/internal/service/cluster"
)

// SearchConfig contains tuning for the search service. Zero values fall
// back to the documented defaults.
type SearchConfig struct {
	DefaultRadiusKm float64 // 10
	DefaultZoom     int     // 10
	DefaultLimit    int     // 50
	MaxLimit        int     // 1000
	MaxCandidates   int     // geo index candidate cap, 1000

	RegionTTL  time.Duration // 5m
	ClusterTTL time.Duration // 5m

	// Auto clustering thresholds, see the cluster package defaults.
	AutoDistanceMax int
	AutoGridMax     int
}

func (c *SearchConfig) applyDefaults() {
	if c.DefaultRadiusKm <= 0 {
		c.DefaultRadiusKm = 10.0
	}
	if c.DefaultZoom <= 0 {
		c.DefaultZoom = 10
	}
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = 50
	}
	if c.MaxLimit <= 0 {
		c.MaxLimit = 1000
	}
	if c.MaxCandidates <= 0 {
		c.MaxCandidates = 1000
	}
	if c.RegionTTL <= 0 {
		c.RegionTTL = 5 * time.Minute
	}
	if c.ClusterTTL <= 0 {
		c.ClusterTTL = 5 * time.Minute
	}
}

// SearchService implements geo.Service: cache lookup, index-assisted
// candidate retrieval, fallback full scan, unified filtering, distance
// sorting, pagination and optional clustering.
type SearchService struct {
	store  hotspot.Store
	cache  geo.Cache
	config SearchConfig
}

// NewSearchService creates a new search service
func NewSearchService(store hotspot.Store, cache geo.Cache, config SearchConfig) *SearchService {
	config.applyDefaults()
	return &SearchService{
		store:  store,
		cache:  cache,
		config: config,
	}
}

// Search performs a direct, unclustered radius search over the store.
func (s *SearchService) Search(ctx context.Context, req *hotspot.SearchRequest) (*hotspot.SearchResponse, error) {
	if req.RadiusKm <= 0 {
		req.RadiusKm = s.config.DefaultRadiusKm
	}
	limit, offset := s.clampPagination(req.Pagination)

	matches, err := s.scanAndFilter(ctx, req.Center, req.RadiusKm, req.Filters)
	if err != nil {
		return nil, err
	}

	page, hasMore := paginate(matches, offset, limit)

	return &hotspot.SearchResponse{
		Hotspots: page,
		Total:    len(matches),
		HasMore:  hasMore,
	}, nil
}

// SearchOptimized performs a cache-accelerated search with optional
// clustering for map rendering.
func (s *SearchService) SearchOptimized(ctx context.Context, req *hotspot.OptimizedSearchRequest) (*hotspot.OptimizedSearchResult, error) {
	startTime := time.Now()

	s.normalize(req)
	center := req.Query.Center
	radius := req.Query.RadiusKm
	zoom := req.Query.ZoomLevel
	clustered := req.Clustering.Mode != hotspot.ClusteringModeNone &&
		req.Clustering.Mode != ""

	// Step 1: cache check.
	if s.cache.IsAvailable() {
		if clustered {
			cached, err := s.cache.GetClusterResults(ctx, center.Latitude, center.Longitude, radius, zoom)
			if err == nil && cached != nil {
				return &hotspot.OptimizedSearchResult{
					Clusters:     cached,
					Hotspots:     []hotspot.WithDistance{},
					TotalCount:   len(cached),
					ClusterCount: len(cached),
					QueryTimeMs:  time.Since(startTime).Milliseconds(),
					CacheHit:     true,
					ZoomLevel:    zoom,
				}, nil
			}
		} else {
			cached, err := s.cache.GetRegionResults(ctx, center.Latitude, center.Longitude, radius)
			if err == nil && cached != nil {
				matches := withDistances(cached, center)
				page, hasMore := paginate(matches, req.Pagination.Offset, req.Pagination.Limit)
				return &hotspot.OptimizedSearchResult{
					Clusters:    []hotspot.Cluster{},
					Hotspots:    page,
					TotalCount:  len(matches),
					HasMore:     hasMore,
					QueryTimeMs: time.Since(startTime).Milliseconds(),
					CacheHit:    true,
					ZoomLevel:   zoom,
				}, nil
			}
		}
	}

	// Steps 2-3: index-assisted retrieval, falling back to a full scan
	// when the index is unavailable or empty (indistinguishable cases).
	matches, err := s.queryCandidates(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &hotspot.OptimizedSearchResult{
		Clusters:   []hotspot.Cluster{},
		Hotspots:   []hotspot.WithDistance{},
		TotalCount: len(matches),
		ZoomLevel:  zoom,
	}

	// Step 7: clustering, or region caching of individual results.
	individuals := matches
	if clustered && len(matches) > req.Clustering.MinClusterSize {
		clusters, leftover := s.clusterMatches(matches, req.Clustering)
		result.Clusters = clusters
		result.ClusterCount = len(clusters)
		individuals = leftover

		if s.cache.IsAvailable() {
			s.cache.CacheClusterResults(ctx, center.Latitude, center.Longitude, radius, zoom, clusters, s.config.ClusterTTL)
		}
	} else if s.cache.IsAvailable() {
		records := make([]*hotspot.Hotspot, len(matches))
		for i := range matches {
			h := matches[i].Hotspot
			records[i] = &h
		}
		s.cache.CacheRegionResults(ctx, center.Latitude, center.Longitude, radius, records, s.config.RegionTTL)
	}

	// Step 6: pagination over the individual results.
	page, hasMore := paginate(individuals, req.Pagination.Offset, req.Pagination.Limit)
	result.Hotspots = page
	result.HasMore = hasMore
	result.QueryTimeMs = time.Since(startTime).Milliseconds()

	return result, nil
}

// CacheStats returns cache tier diagnostics.
func (s *SearchService) CacheStats(ctx context.Context) (geo.CacheStats, error) {
	return s.cache.Stats(ctx)
}

// normalize substitutes defaults for invalid query parameters.
func (s *SearchService) normalize(req *hotspot.OptimizedSearchRequest) {
	if req.Query.RadiusKm <= 0 {
		req.Query.RadiusKm = s.config.DefaultRadiusKm
	}
	if req.Query.ZoomLevel <= 0 {
		req.Query.ZoomLevel = s.config.DefaultZoom
	}
	req.Pagination.Limit, req.Pagination.Offset = s.clampPagination(req.Pagination)

	if req.Clustering.MinClusterSize <= 0 {
		req.Clustering.MinClusterSize = 2
	}
	if req.Clustering.MaxClusterSize <= 0 {
		req.Clustering.MaxClusterSize = 100
	}
	if req.Clustering.ZoomLevel <= 0 {
		req.Clustering.ZoomLevel = req.Query.ZoomLevel
	}
}

func (s *SearchService) clampPagination(p hotspot.Pagination) (limit, offset int) {
	limit = p.Limit
	if limit <= 0 {
		limit = s.config.DefaultLimit
	}
	if limit > s.config.MaxLimit {
		limit = s.config.MaxLimit
	}
	offset = p.Offset
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// queryCandidates resolves search candidates through the geo index when
// possible, otherwise by scanning the store, and applies the unified
// filter predicate either way.
func (s *SearchService) queryCandidates(ctx context.Context, req *hotspot.OptimizedSearchRequest) ([]hotspot.WithDistance, error) {
	center := req.Query.Center

	var candidateIDs []string
	if s.cache.IsAvailable() {
		ids, err := s.cache.NearbyIDs(ctx, center.Latitude, center.Longitude, req.Query.RadiusKm, s.config.MaxCandidates)
		if err == nil {
			candidateIDs = ids
		}
	}

	if len(candidateIDs) == 0 {
		return s.scanAndFilter(ctx, center, req.Query.RadiusKm, req.Filters)
	}

	records, err := s.store.GetMany(ctx, candidateIDs)
	if err != nil {
		return nil, err
	}

	var matches []hotspot.WithDistance
	for _, h := range records {
		if !req.Filters.Match(h) {
			continue
		}

		// Re-check the radius; guards against index imprecision.
		d := geoutil.Distance(center.Latitude, center.Longitude, h.Location.Latitude, h.Location.Longitude)
		if d > req.Query.RadiusKm {
			continue
		}

		matches = append(matches, hotspot.WithDistance{Hotspot: *h, Distance: d})
	}

	sortByDistance(matches)
	return matches, nil
}

// scanAndFilter is the brute-force path over the full store. It applies
// the same filter predicate as the indexed path.
func (s *SearchService) scanAndFilter(ctx context.Context, center hotspot.Location, radiusKm float64, filters hotspot.SearchFilters) ([]hotspot.WithDistance, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	var matches []hotspot.WithDistance
	for _, h := range records {
		if !filters.Match(h) {
			continue
		}

		d := geoutil.Distance(center.Latitude, center.Longitude, h.Location.Latitude, h.Location.Longitude)
		if d > radiusKm {
			continue
		}

		matches = append(matches, hotspot.WithDistance{Hotspot: *h, Distance: d})
	}

	sortByDistance(matches)
	return matches, nil
}

// clusterMatches runs the configured clustering strategy. Groups under
// the minimum cluster size fall through as individual results instead
// of disappearing from the response.
func (s *SearchService) clusterMatches(matches []hotspot.WithDistance, cfg hotspot.ClusterConfig) ([]hotspot.Cluster, []hotspot.WithDistance) {
	strategy, ok := cluster.ForMode(cfg.Mode)
	if !ok {
		return nil, matches
	}

	result := strategy.Cluster(matches, cluster.Config{
		MinClusterSize:  cfg.MinClusterSize,
		MaxClusterSize:  cfg.MaxClusterSize,
		GridSizeKm:      cfg.GridSizeKm,
		ZoomLevel:       cfg.ZoomLevel,
		AutoDistanceMax: s.config.AutoDistanceMax,
		AutoGridMax:     s.config.AutoGridMax,
	})

	leftover := result.Unclustered
	sortByDistance(leftover)
	return result.Clusters, leftover
}

// withDistances pairs records with their distance from the center.
func withDistances(records []*hotspot.Hotspot, center hotspot.Location) []hotspot.WithDistance {
	matches := make([]hotspot.WithDistance, len(records))
	for i, h := range records {
		matches[i] = hotspot.WithDistance{
			Hotspot:  *h,
			Distance: geoutil.Distance(center.Latitude, center.Longitude, h.Location.Latitude, h.Location.Longitude),
		}
	}
	sortByDistance(matches)
	return matches
}

func sortByDistance(matches []hotspot.WithDistance) {
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
}

// paginate slices a result set by offset/limit, clamped to its length.
func paginate(matches []hotspot.WithDistance, offset, limit int) ([]hotspot.WithDistance, bool) {
	total := len(matches)
	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if limit <= 0 || end > total {
		end = total
	}

	page := make([]hotspot.WithDistance, end-start)
	copy(page, matches[start:end])

	return page, end < total
}
