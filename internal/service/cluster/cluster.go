// internal/service/cluster/cluster.go

// Package cluster groups nearby hotspots into summary clusters for
// low-zoom map rendering. Four interchangeable strategies sit behind the
// Strategy interface, selected by the typed clustering mode.
package cluster

import (
	"fmt"

	"github.com/ladiesmans217/unalone/internal/domain/hotspot"
	"github.com/ladiesmans217/unalone/internal/geo"
)

// Default auto-mode thresholds. Tuning choices, not derived values;
// override via Config.
const (
	DefaultAutoDistanceMax = 20
	DefaultAutoGridMax     = 100
)

// Config controls a clustering run
type Config struct {
	MinClusterSize int
	MaxClusterSize int
	GridSizeKm     float64 // 0 derives the size from the zoom level
	ZoomLevel      int

	// Auto-mode point-count thresholds. Zero values fall back to the
	// package defaults.
	AutoDistanceMax int
	AutoGridMax     int
}

// Result is the outcome of a clustering run. Groups smaller than the
// minimum cluster size are not emitted as clusters; their members are
// returned in Unclustered so callers can surface them individually.
type Result struct {
	Clusters    []hotspot.Cluster
	Unclustered []hotspot.WithDistance
}

// Strategy is a single clustering algorithm. Implementations are pure
// functions of their input snapshot and safe for concurrent use.
type Strategy interface {
	Cluster(points []hotspot.WithDistance, cfg Config) Result
}

// ForMode returns the strategy for a clustering mode, or false for
// ClusteringModeNone and unknown modes.
func ForMode(mode hotspot.ClusteringMode) (Strategy, bool) {
	switch mode {
	case hotspot.ClusteringModeGrid:
		return gridStrategy{}, true
	case hotspot.ClusteringModeDistance:
		return distanceStrategy{}, true
	case hotspot.ClusteringModeKMeans:
		return kmeansStrategy{}, true
	case hotspot.ClusteringModeAuto:
		return autoStrategy{}, true
	default:
		return nil, false
	}
}

// gridSizeForZoom maps a zoom level to a grid cell size in km.
func gridSizeForZoom(zoomLevel int) float64 {
	switch {
	case zoomLevel <= 5:
		return 50.0
	case zoomLevel <= 10:
		return 10.0
	case zoomLevel <= 15:
		return 2.0
	default:
		return 0.5
	}
}

// distanceForZoom maps a zoom level to an agglomeration threshold in km.
func distanceForZoom(zoomLevel int) float64 {
	switch {
	case zoomLevel <= 5:
		return 25.0
	case zoomLevel <= 10:
		return 5.0
	case zoomLevel <= 15:
		return 1.0
	default:
		return 0.2
	}
}

// gridStrategy partitions points into grid cells and emits one cluster
// per occupied cell that meets the minimum size.
type gridStrategy struct{}

func (gridStrategy) Cluster(points []hotspot.WithDistance, cfg Config) Result {
	gridSize := cfg.GridSizeKm
	if gridSize <= 0 {
		gridSize = gridSizeForZoom(cfg.ZoomLevel)
	}

	cells := make(map[string][]hotspot.WithDistance)
	order := []string{}
	for _, p := range points {
		key := geo.GridKey(p.Hotspot.Location.Latitude, p.Hotspot.Location.Longitude, gridSize)
		if _, seen := cells[key]; !seen {
			order = append(order, key)
		}
		cells[key] = append(cells[key], p)
	}

	var result Result
	clusterID := 0
	for _, key := range order {
		group := cells[key]
		if len(group) >= cfg.MinClusterSize {
			result.Clusters = append(result.Clusters, synthesize(group, fmt.Sprintf("grid_%d", clusterID), cfg.ZoomLevel))
			clusterID++
		} else {
			result.Unclustered = append(result.Unclustered, group...)
		}
	}

	return result
}

// distanceStrategy is a greedy single-pass agglomeration: each
// unclustered point seeds a cluster and absorbs every remaining point
// within the zoom-derived threshold, up to the maximum cluster size.
// The outcome depends on input order; accepted tradeoff for a single
// O(n²) pass over true hierarchical clustering.
type distanceStrategy struct{}

func (distanceStrategy) Cluster(points []hotspot.WithDistance, cfg Config) Result {
	maxDistance := distanceForZoom(cfg.ZoomLevel)
	used := make([]bool, len(points))

	var result Result
	clusterID := 0

	for i, p := range points {
		if used[i] {
			continue
		}

		group := []hotspot.WithDistance{p}
		used[i] = true

		for j, other := range points {
			if used[j] || i == j {
				continue
			}

			d := geo.Distance(
				p.Hotspot.Location.Latitude, p.Hotspot.Location.Longitude,
				other.Hotspot.Location.Latitude, other.Hotspot.Location.Longitude,
			)
			if d <= maxDistance && (cfg.MaxClusterSize <= 0 || len(group) < cfg.MaxClusterSize) {
				group = append(group, other)
				used[j] = true
			}
		}

		if len(group) >= cfg.MinClusterSize {
			result.Clusters = append(result.Clusters, synthesize(group, fmt.Sprintf("dist_%d", clusterID), cfg.ZoomLevel))
			clusterID++
		} else {
			result.Unclustered = append(result.Unclustered, group...)
		}
	}

	return result
}

// autoStrategy delegates to distance clustering for small inputs, grid
// for medium ones and k-means beyond that, balancing accuracy against
// cost as volume grows.
type autoStrategy struct{}

func (autoStrategy) Cluster(points []hotspot.WithDistance, cfg Config) Result {
	distanceMax := cfg.AutoDistanceMax
	if distanceMax <= 0 {
		distanceMax = DefaultAutoDistanceMax
	}
	gridMax := cfg.AutoGridMax
	if gridMax <= 0 {
		gridMax = DefaultAutoGridMax
	}

	switch {
	case len(points) < distanceMax:
		return distanceStrategy{}.Cluster(points, cfg)
	case len(points) < gridMax:
		return gridStrategy{}.Cluster(points, cfg)
	default:
		return kmeansStrategy{}.Cluster(points, cfg)
	}
}

// synthesize builds a cluster from a member group: centroid mean,
// axis-aligned bounding box, max member distance as radius, summed
// occupancy and capacity, category set union.
func synthesize(group []hotspot.WithDistance, clusterID string, zoomLevel int) hotspot.Cluster {
	if len(group) == 0 {
		return hotspot.Cluster{}
	}

	var sumLat, sumLon float64
	var totalOccupancy, maxCapacity int
	var categories []string
	categorySet := make(map[string]bool)
	ids := make([]string, len(group))

	first := group[0].Hotspot.Location
	minLat, maxLat := first.Latitude, first.Latitude
	minLon, maxLon := first.Longitude, first.Longitude

	for i, p := range group {
		loc := p.Hotspot.Location
		sumLat += loc.Latitude
		sumLon += loc.Longitude
		totalOccupancy += p.Hotspot.CurrentOccupancy
		maxCapacity += p.Hotspot.MaxCapacity
		ids[i] = p.Hotspot.ID

		if cat := string(p.Hotspot.Category); !categorySet[cat] {
			categorySet[cat] = true
			categories = append(categories, cat)
		}

		if loc.Latitude < minLat {
			minLat = loc.Latitude
		}
		if loc.Latitude > maxLat {
			maxLat = loc.Latitude
		}
		if loc.Longitude < minLon {
			minLon = loc.Longitude
		}
		if loc.Longitude > maxLon {
			maxLon = loc.Longitude
		}
	}

	centerLat := sumLat / float64(len(group))
	centerLon := sumLon / float64(len(group))

	radius := 0.0
	for _, p := range group {
		d := geo.Distance(centerLat, centerLon, p.Hotspot.Location.Latitude, p.Hotspot.Location.Longitude)
		if d > radius {
			radius = d
		}
	}

	return hotspot.Cluster{
		ID:             clusterID,
		CenterLocation: hotspot.Location{Latitude: centerLat, Longitude: centerLon},
		BoundingBox: geo.BoundingBox{
			NorthEast: geo.Point{Latitude: maxLat, Longitude: maxLon},
			SouthWest: geo.Point{Latitude: minLat, Longitude: minLon},
		},
		HotspotCount:   len(group),
		TotalOccupancy: totalOccupancy,
		MaxCapacity:    maxCapacity,
		Categories:     categories,
		ZoomLevel:      zoomLevel,
		Radius:         radius,
		Hotspots:       ids,
	}
}
