// internal/service/cluster/cluster_test.go

package cluster

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ladiesmans217/unalone/internal/domain/hotspot"
	"github.com/ladiesmans217/unalone/internal/geo"
)

func point(id string, lat, lon float64) hotspot.WithDistance {
	return hotspot.WithDistance{
		Hotspot: hotspot.Hotspot{
			ID:               id,
			Name:             id,
			Category:         hotspot.CategoryCafe,
			Location:         hotspot.Location{Latitude: lat, Longitude: lon},
			MaxCapacity:      10,
			CurrentOccupancy: 3,
			IsActive:         true,
		},
	}
}

// memberCount sums cluster memberships and unclustered leftovers.
func memberCount(r Result) int {
	total := len(r.Unclustered)
	for _, c := range r.Clusters {
		total += c.HotspotCount
	}
	return total
}

func TestForMode(t *testing.T) {
	for _, mode := range []hotspot.ClusteringMode{
		hotspot.ClusteringModeGrid,
		hotspot.ClusteringModeDistance,
		hotspot.ClusteringModeKMeans,
		hotspot.ClusteringModeAuto,
	} {
		if _, ok := ForMode(mode); !ok {
			t.Errorf("Expected a strategy for mode %q", mode)
		}
	}

	if _, ok := ForMode(hotspot.ClusteringModeNone); ok {
		t.Error("Expected no strategy for mode none")
	}
	if _, ok := ForMode(hotspot.ClusteringMode("bogus")); ok {
		t.Error("Expected no strategy for an unknown mode")
	}
}

func TestGridClustering(t *testing.T) {
	points := []hotspot.WithDistance{
		point("a", 40.01, -74.01),
		point("b", 40.02, -74.02),
		point("c", 43.00, -70.00),
	}

	result := gridStrategy{}.Cluster(points, Config{
		MinClusterSize: 2,
		GridSizeKm:     2.0,
		ZoomLevel:      12,
	})

	if len(result.Clusters) != 1 {
		t.Fatalf("Expected 1 cluster, got %d", len(result.Clusters))
	}

	c := result.Clusters[0]
	if c.HotspotCount != 2 {
		t.Errorf("Expected 2 members, got %d", c.HotspotCount)
	}
	if len(result.Unclustered) != 1 || result.Unclustered[0].Hotspot.ID != "c" {
		t.Errorf("Expected hotspot c to stay unclustered, got %+v", result.Unclustered)
	}
	if c.TotalOccupancy != 6 || c.MaxCapacity != 20 {
		t.Errorf("Expected summed occupancy 6 and capacity 20, got %d and %d", c.TotalOccupancy, c.MaxCapacity)
	}
	if c.ZoomLevel != 12 {
		t.Errorf("Expected zoom level 12 on the cluster, got %d", c.ZoomLevel)
	}
	for _, p := range points[:2] {
		loc := p.Hotspot.Location
		if !c.BoundingBox.Contains(loc.Latitude, loc.Longitude) {
			t.Errorf("Bounding box does not contain member %s", p.Hotspot.ID)
		}
		if d := geo.Distance(c.CenterLocation.Latitude, c.CenterLocation.Longitude, loc.Latitude, loc.Longitude); d > c.Radius+1e-9 {
			t.Errorf("Member %s lies %f km from center, beyond radius %f", p.Hotspot.ID, d, c.Radius)
		}
	}
}

func TestGridClusteringDerivesSizeFromZoom(t *testing.T) {
	// Zoom 16 uses 0.5 km cells, splitting points ~1 degree apart
	points := []hotspot.WithDistance{
		point("a", 40.1, -74.1),
		point("b", 41.1, -74.1),
	}

	result := gridStrategy{}.Cluster(points, Config{MinClusterSize: 1, ZoomLevel: 16})
	if len(result.Clusters) != 2 {
		t.Errorf("Expected 2 single-member clusters at high zoom, got %d", len(result.Clusters))
	}
}

func TestDistanceClustering(t *testing.T) {
	points := []hotspot.WithDistance{
		point("a", 40.00, -74.00),
		point("b", 40.01, -74.00), // ~1.1 km from a
		point("c", 41.00, -74.00), // ~111 km from a
	}

	// Zoom 10 clusters anything within 5 km
	result := distanceStrategy{}.Cluster(points, Config{MinClusterSize: 2, ZoomLevel: 10})

	if len(result.Clusters) != 1 {
		t.Fatalf("Expected 1 cluster, got %d", len(result.Clusters))
	}
	if got := result.Clusters[0].Hotspots; len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Expected cluster of a and b, got %v", got)
	}
	if len(result.Unclustered) != 1 || result.Unclustered[0].Hotspot.ID != "c" {
		t.Errorf("Expected c unclustered, got %+v", result.Unclustered)
	}
}

func TestDistanceClusteringRespectsMaxSize(t *testing.T) {
	points := make([]hotspot.WithDistance, 5)
	for i := range points {
		points[i] = point(fmt.Sprintf("h%d", i), 40.0+float64(i)*0.001, -74.0)
	}

	result := distanceStrategy{}.Cluster(points, Config{
		MinClusterSize: 2,
		MaxClusterSize: 3,
		ZoomLevel:      10,
	})

	for _, c := range result.Clusters {
		if c.HotspotCount > 3 {
			t.Errorf("Cluster %s exceeds max size: %d members", c.ID, c.HotspotCount)
		}
	}
	if memberCount(result) != len(points) {
		t.Errorf("Membership not conserved: %d of %d points accounted for", memberCount(result), len(points))
	}
}

func TestKMeansClustering(t *testing.T) {
	// 150 points in three separated blobs
	var points []hotspot.WithDistance
	centers := []hotspot.Location{
		{Latitude: 40.0, Longitude: -74.0},
		{Latitude: 45.0, Longitude: -70.0},
		{Latitude: 35.0, Longitude: -80.0},
	}
	for i := 0; i < 150; i++ {
		c := centers[i%3]
		jitter := float64(i) * 0.0003
		points = append(points, point(
			fmt.Sprintf("h%d", i),
			c.Latitude+jitter,
			c.Longitude-jitter,
		))
	}

	cfg := Config{MinClusterSize: 2, ZoomLevel: 12}
	result := kmeansStrategy{}.Cluster(points, cfg)

	k := optimalK(len(points), cfg.ZoomLevel)
	if len(result.Clusters) > k {
		t.Errorf("Got %d clusters, more than k=%d", len(result.Clusters), k)
	}
	if len(result.Clusters) < 2 {
		t.Errorf("Expected at least 2 clusters for separated blobs, got %d", len(result.Clusters))
	}
	if memberCount(result) != len(points) {
		t.Errorf("Membership not conserved: %d of %d points accounted for", memberCount(result), len(points))
	}
	for _, c := range result.Clusters {
		if c.HotspotCount < cfg.MinClusterSize {
			t.Errorf("Cluster %s below minimum size: %d members", c.ID, c.HotspotCount)
		}
	}
}

func TestKMeansSmallInput(t *testing.T) {
	points := []hotspot.WithDistance{
		point("a", 40.0, -74.0),
		point("b", 40.1, -74.1),
	}

	// n/3 = 0 forces k below 2, so nothing clusters
	result := kmeansStrategy{}.Cluster(points, Config{MinClusterSize: 2, ZoomLevel: 10})
	if len(result.Clusters) != 0 {
		t.Errorf("Expected no clusters for 2 points, got %d", len(result.Clusters))
	}
	if len(result.Unclustered) != 2 {
		t.Errorf("Expected both points unclustered, got %d", len(result.Unclustered))
	}
}

func TestOptimalK(t *testing.T) {
	cases := []struct {
		numPoints int
		zoomLevel int
		want      int
	}{
		{150, 12, 8},  // sqrt(75) = 8, mid zoom untouched
		{150, 16, 16}, // doubled above zoom 15
		{150, 5, 4},   // halved below zoom 10
		{10, 12, 2},   // clamped low, then to n/3
		{9, 12, 2},    // sqrt(4.5) = 2
	}

	for _, tc := range cases {
		if got := optimalK(tc.numPoints, tc.zoomLevel); got != tc.want {
			t.Errorf("optimalK(%d, %d) = %d, want %d", tc.numPoints, tc.zoomLevel, got, tc.want)
		}
	}
}

func TestAutoSelectsByVolume(t *testing.T) {
	makePoints := func(n int) []hotspot.WithDistance {
		points := make([]hotspot.WithDistance, n)
		for i := range points {
			points[i] = point(fmt.Sprintf("h%d", i), 40.0+float64(i)*0.001, -74.0)
		}
		return points
	}

	cfg := Config{MinClusterSize: 2, ZoomLevel: 10}

	prefixFor := func(n int) string {
		result := autoStrategy{}.Cluster(makePoints(n), cfg)
		if len(result.Clusters) == 0 {
			t.Fatalf("Expected clusters for %d colocated points", n)
		}
		return result.Clusters[0].ID
	}

	if id := prefixFor(10); !strings.HasPrefix(id, "dist_") {
		t.Errorf("Expected distance clustering for small input, got cluster %q", id)
	}
	if id := prefixFor(50); !strings.HasPrefix(id, "grid_") {
		t.Errorf("Expected grid clustering for medium input, got cluster %q", id)
	}
	if id := prefixFor(150); !strings.HasPrefix(id, "kmeans_") {
		t.Errorf("Expected k-means clustering for large input, got cluster %q", id)
	}
}

func TestSynthesizeCategories(t *testing.T) {
	a := point("a", 40.0, -74.0)
	b := point("b", 40.0, -74.0)
	b.Hotspot.Category = hotspot.CategoryBar

	c := synthesize([]hotspot.WithDistance{a, b, point("c", 40.0, -74.0)}, "grid_0", 10)

	if len(c.Categories) != 2 {
		t.Fatalf("Expected 2 distinct categories, got %v", c.Categories)
	}
	if c.Categories[0] != "cafe" || c.Categories[1] != "bar" {
		t.Errorf("Expected categories in first-seen order, got %v", c.Categories)
	}
}
