// internal/adapter/cache/geo_cache.go

// Package cache implements the Redis-backed accelerator tier: region and
// cluster result caches plus the geospatial index used for candidate
// retrieval. A GeoCache constructed against an unreachable Redis degrades
// to a permanent no-op instance instead of failing its callers.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/ladiesmans217/unalone/internal/domain/geo"
	"github.com/ladiesmans217/unalone/internal/domain/hotspot"
)

const (
	// geoIndexKey is the sorted set holding every hotspot location.
	geoIndexKey = "hotspots:geo"

	// RegionTTL is how long cached region search results stay valid.
	RegionTTL = 5 * time.Minute

	// ClusterTTL is how long cached cluster results stay valid.
	ClusterTTL = 5 * time.Minute

	// OptimizedTTL is the shorter default for optimized-search entries.
	OptimizedTTL = 2 * time.Minute

	// maxZoomLevel bounds per-zoom cluster cache invalidation.
	maxZoomLevel = 20

	// defaultNearbyLimit caps geo index query results when the caller
	// does not supply a limit.
	defaultNearbyLimit = 1000
)

// InvalidationRadii is the fixed set of surrounding radii invalidated
// when a hotspot mutates. The exact set of cached queries that might
// include the hotspot is unknown, so this trades completeness for
// bounded cost.
var InvalidationRadii = []float64{1, 5, 10, 25, 50}

// Config holds Redis connection settings
type Config struct {
	Host         string
	Port         int
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
}

// GeoCache implements geo.Cache on top of Redis
type GeoCache struct {
	client *redis.Client
}

// New connects to Redis and returns a GeoCache. Connection failure is
// not an error: the returned instance is permanently disabled and every
// operation degrades to a miss or no-op.
func New(ctx context.Context, cfg Config) *GeoCache {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis connection failed: %v, running without cache", err)
		return &GeoCache{client: nil}
	}

	return &GeoCache{client: client}
}

// Disabled returns a GeoCache that never caches. Used when no cache
// backend is configured and by tests exercising degraded mode.
func Disabled() *GeoCache {
	return &GeoCache{client: nil}
}

// IsAvailable reports whether the backing Redis is reachable.
func (c *GeoCache) IsAvailable() bool {
	return c.client != nil
}

// Close releases the Redis connection.
func (c *GeoCache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// RegionKey derives the cache key for a region query. Coordinates are
// rounded to 4 decimal places and the radius to 1, deliberately lossy so
// near-identical queries share an entry.
func RegionKey(lat, lon, radiusKm float64) string {
	return fmt.Sprintf("hotspots:region:%.4f,%.4f:%.1f", lat, lon, radiusKm)
}

// ClusterKey derives the cache key for cluster results, with the zoom
// level as an extra discriminator.
func ClusterKey(lat, lon, radiusKm float64, zoomLevel int) string {
	return fmt.Sprintf("hotspots:clusters:%.4f,%.4f:%.1f:z%d", lat, lon, radiusKm, zoomLevel)
}

// CacheRegionResults stores search results for a region.
func (c *GeoCache) CacheRegionResults(ctx context.Context, lat, lon, radiusKm float64, hotspots []*hotspot.Hotspot, ttl time.Duration) error {
	if !c.IsAvailable() {
		return nil
	}

	data, err := json.Marshal(hotspots)
	if err != nil {
		return fmt.Errorf("error marshaling region results: %w", err)
	}

	if err := c.client.Set(ctx, RegionKey(lat, lon, radiusKm), data, ttl).Err(); err != nil {
		log.Printf("cache region write failed: %v", err)
	}
	return nil
}

// GetRegionResults returns cached results for a region. A nil slice
// means cache miss, distinct from an empty cached result.
func (c *GeoCache) GetRegionResults(ctx context.Context, lat, lon, radiusKm float64) ([]*hotspot.Hotspot, error) {
	if !c.IsAvailable() {
		return nil, nil
	}

	data, err := c.client.Get(ctx, RegionKey(lat, lon, radiusKm)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("cache region read failed: %v", err)
		}
		return nil, nil
	}

	hotspots := []*hotspot.Hotspot{}
	if err := json.Unmarshal([]byte(data), &hotspots); err != nil {
		log.Printf("cache region entry corrupt: %v", err)
		return nil, nil
	}
	return hotspots, nil
}

// CacheClusterResults stores clusters for a region and zoom level.
func (c *GeoCache) CacheClusterResults(ctx context.Context, lat, lon, radiusKm float64, zoomLevel int, clusters []hotspot.Cluster, ttl time.Duration) error {
	if !c.IsAvailable() {
		return nil
	}

	data, err := json.Marshal(clusters)
	if err != nil {
		return fmt.Errorf("error marshaling clusters: %w", err)
	}

	if err := c.client.Set(ctx, ClusterKey(lat, lon, radiusKm, zoomLevel), data, ttl).Err(); err != nil {
		log.Printf("cache cluster write failed: %v", err)
	}
	return nil
}

// GetClusterResults returns cached clusters, or nil on miss.
func (c *GeoCache) GetClusterResults(ctx context.Context, lat, lon, radiusKm float64, zoomLevel int) ([]hotspot.Cluster, error) {
	if !c.IsAvailable() {
		return nil, nil
	}

	data, err := c.client.Get(ctx, ClusterKey(lat, lon, radiusKm, zoomLevel)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("cache cluster read failed: %v", err)
		}
		return nil, nil
	}

	clusters := []hotspot.Cluster{}
	if err := json.Unmarshal([]byte(data), &clusters); err != nil {
		log.Printf("cache cluster entry corrupt: %v", err)
		return nil, nil
	}
	return clusters, nil
}

// AddToGeoIndex registers a hotspot location in the geospatial index.
func (c *GeoCache) AddToGeoIndex(ctx context.Context, h *hotspot.Hotspot) error {
	if !c.IsAvailable() {
		return nil
	}

	err := c.client.GeoAdd(ctx, geoIndexKey, &redis.GeoLocation{
		Name:      h.ID,
		Longitude: h.Location.Longitude,
		Latitude:  h.Location.Latitude,
	}).Err()
	if err != nil {
		log.Printf("geo index add failed for %s: %v", h.ID, err)
	}
	return nil
}

// RemoveFromGeoIndex removes a hotspot from the geospatial index.
func (c *GeoCache) RemoveFromGeoIndex(ctx context.Context, hotspotID string) error {
	if !c.IsAvailable() {
		return nil
	}

	if err := c.client.ZRem(ctx, geoIndexKey, hotspotID).Err(); err != nil {
		log.Printf("geo index remove failed for %s: %v", hotspotID, err)
	}
	return nil
}

// NearbyIDs returns up to limit hotspot IDs within the radius, ascending
// by distance from the center.
func (c *GeoCache) NearbyIDs(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]string, error) {
	if !c.IsAvailable() {
		return nil, nil
	}

	if limit <= 0 {
		limit = defaultNearbyLimit
	}

	locations, err := c.client.GeoRadius(ctx, geoIndexKey, lon, lat, &redis.GeoRadiusQuery{
		Radius: radiusKm,
		Unit:   "km",
		Count:  limit,
		Sort:   "ASC",
	}).Result()
	if err != nil {
		log.Printf("geo index query failed: %v", err)
		return nil, nil
	}

	ids := make([]string, len(locations))
	for i, loc := range locations {
		ids[i] = loc.Name
	}
	return ids, nil
}

// InvalidateRegion drops the region entry and every per-zoom cluster
// entry for the rounded region key. Safe to call for keys that do not
// exist.
func (c *GeoCache) InvalidateRegion(ctx context.Context, lat, lon, radiusKm float64) error {
	if !c.IsAvailable() {
		return nil
	}

	keys := make([]string, 0, maxZoomLevel+1)
	for zoom := 1; zoom <= maxZoomLevel; zoom++ {
		keys = append(keys, ClusterKey(lat, lon, radiusKm, zoom))
	}
	keys = append(keys, RegionKey(lat, lon, radiusKm))

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("region invalidation failed: %v", err)
	}
	return nil
}

// InvalidateForHotspot removes the hotspot from the geo index and
// invalidates the fixed surrounding radii centered on its location.
func (c *GeoCache) InvalidateForHotspot(ctx context.Context, h *hotspot.Hotspot) error {
	if !c.IsAvailable() {
		return nil
	}

	if err := c.RemoveFromGeoIndex(ctx, h.ID); err != nil {
		log.Printf("failed to remove hotspot from geo index: %v", err)
	}

	for _, radius := range InvalidationRadii {
		c.InvalidateRegion(ctx, h.Location.Latitude, h.Location.Longitude, radius)
	}
	return nil
}

// Stats returns cache diagnostics.
func (c *GeoCache) Stats(ctx context.Context) (geo.CacheStats, error) {
	if !c.IsAvailable() {
		return geo.CacheStats{Available: false}, nil
	}

	stats := geo.CacheStats{Available: true}

	if info, err := c.client.Info(ctx, "stats").Result(); err == nil {
		stats.Info = info
	}
	stats.TotalKeys = c.client.DBSize(ctx).Val()
	stats.MemoryBytes = c.client.MemoryUsage(ctx, geoIndexKey).Val()

	return stats, nil
}
