// internal/adapter/cache/geo_cache_test.go

package cache

import (
	"context"
	"testing"

	"github.com/ladiesmans217/unalone/internal/domain/hotspot"
)

func TestRegionKeyRounding(t *testing.T) {
	// Near-identical queries must share an entry
	k1 := RegionKey(40.71284, -74.00601, 10.04)
	k2 := RegionKey(40.712839, -74.006012, 10.01)
	if k1 != k2 {
		t.Errorf("Expected rounded keys to collide, got %q and %q", k1, k2)
	}

	if want := "hotspots:region:40.7128,-74.0060:10.0"; k1 != want {
		t.Errorf("RegionKey = %q, want %q", k1, want)
	}

	// A different radius is a different entry
	if k3 := RegionKey(40.71284, -74.00601, 25); k3 == k1 {
		t.Errorf("Expected distinct key for a different radius, got %q twice", k1)
	}
}

func TestClusterKeyIncludesZoom(t *testing.T) {
	k10 := ClusterKey(40.7128, -74.0060, 10, 10)
	k11 := ClusterKey(40.7128, -74.0060, 10, 11)
	if k10 == k11 {
		t.Errorf("Expected zoom to discriminate cluster keys, got %q twice", k10)
	}

	if want := "hotspots:clusters:40.7128,-74.0060:10.0:z10"; k10 != want {
		t.Errorf("ClusterKey = %q, want %q", k10, want)
	}
}

// Every operation must be a harmless no-op when the backend is
// unreachable; the search and lifecycle paths call them unconditionally.
func TestDisabledCacheIsInert(t *testing.T) {
	ctx := context.Background()
	c := Disabled()

	if c.IsAvailable() {
		t.Fatal("Disabled cache reports available")
	}

	h := &hotspot.Hotspot{
		ID:       "h1",
		Location: hotspot.Location{Latitude: 40.7128, Longitude: -74.0060},
	}

	if err := c.CacheRegionResults(ctx, 40, -74, 10, []*hotspot.Hotspot{h}, RegionTTL); err != nil {
		t.Errorf("CacheRegionResults: %v", err)
	}
	if cached, err := c.GetRegionResults(ctx, 40, -74, 10); err != nil || cached != nil {
		t.Errorf("GetRegionResults: got %v, %v; want miss", cached, err)
	}
	if err := c.CacheClusterResults(ctx, 40, -74, 10, 10, nil, ClusterTTL); err != nil {
		t.Errorf("CacheClusterResults: %v", err)
	}
	if cached, err := c.GetClusterResults(ctx, 40, -74, 10, 10); err != nil || cached != nil {
		t.Errorf("GetClusterResults: got %v, %v; want miss", cached, err)
	}
	if err := c.AddToGeoIndex(ctx, h); err != nil {
		t.Errorf("AddToGeoIndex: %v", err)
	}
	if err := c.RemoveFromGeoIndex(ctx, h.ID); err != nil {
		t.Errorf("RemoveFromGeoIndex: %v", err)
	}
	if ids, err := c.NearbyIDs(ctx, 40, -74, 10, 100); err != nil || ids != nil {
		t.Errorf("NearbyIDs: got %v, %v; want nothing", ids, err)
	}
	if err := c.InvalidateForHotspot(ctx, h); err != nil {
		t.Errorf("InvalidateForHotspot: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}

	stats, err := c.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Available {
		t.Error("Disabled cache stats report available")
	}
}
