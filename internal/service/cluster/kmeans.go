// internal/service/cluster/kmeans.go

package cluster

import (
	"fmt"
	"math"

	"github.com/ladiesmans217/unalone/internal/domain/hotspot"
	"github.com/ladiesmans217/unalone/internal/geo"
)

const (
	// maxIterations caps Lloyd's algorithm so coincident points cannot
	// prevent termination.
	maxIterations = 10

	// convergenceEpsilon is the centroid movement, in degrees, below
	// which the algorithm is considered converged.
	convergenceEpsilon = 0.0001
)

// kmeansStrategy runs Lloyd's algorithm with k-means++ seeding. The
// cluster count is derived from the point count and adjusted by zoom:
// k = clamp(sqrt(n/2) * zoomAdjustment, 2, n/3).
type kmeansStrategy struct{}

func (kmeansStrategy) Cluster(points []hotspot.WithDistance, cfg Config) Result {
	k := optimalK(len(points), cfg.ZoomLevel)
	if k <= 1 || len(points) < cfg.MinClusterSize {
		return Result{Unclustered: points}
	}

	centroids := seedCentroids(points, k)

	for iteration := 0; iteration < maxIterations; iteration++ {
		assignments := assign(points, centroids)

		sumLat := make([]float64, k)
		sumLon := make([]float64, k)
		counts := make([]int, k)
		for i, p := range points {
			c := assignments[i]
			sumLat[c] += p.Hotspot.Location.Latitude
			sumLon[c] += p.Hotspot.Location.Longitude
			counts[c]++
		}

		converged := true
		for i := 0; i < k; i++ {
			if counts[i] == 0 {
				continue
			}
			newLat := sumLat[i] / float64(counts[i])
			newLon := sumLon[i] / float64(counts[i])

			if math.Abs(newLat-centroids[i].Latitude) > convergenceEpsilon ||
				math.Abs(newLon-centroids[i].Longitude) > convergenceEpsilon {
				converged = false
			}

			centroids[i].Latitude = newLat
			centroids[i].Longitude = newLon
		}

		if converged {
			break
		}
	}

	groups := make([][]hotspot.WithDistance, k)
	for i, c := range assign(points, centroids) {
		groups[c] = append(groups[c], points[i])
	}

	var result Result
	clusterID := 0
	for _, group := range groups {
		if len(group) >= cfg.MinClusterSize {
			result.Clusters = append(result.Clusters, synthesize(group, fmt.Sprintf("kmeans_%d", clusterID), cfg.ZoomLevel))
			clusterID++
		} else {
			result.Unclustered = append(result.Unclustered, group...)
		}
	}

	return result
}

// optimalK approximates the elbow method: sqrt(n/2), doubled above zoom
// 15 and halved below zoom 10, clamped to [2, n/3].
func optimalK(numPoints, zoomLevel int) int {
	k := int(math.Sqrt(float64(numPoints) / 2))

	if zoomLevel > 15 {
		k *= 2
	} else if zoomLevel < 10 {
		k /= 2
	}

	if k < 2 {
		k = 2
	}
	if k > numPoints/3 {
		k = numPoints / 3
	}

	return k
}

// seedCentroids picks initial centroids k-means++ style: the first
// point seeds the first centroid, then each subsequent centroid is the
// point farthest from all centroids chosen so far.
func seedCentroids(points []hotspot.WithDistance, k int) []hotspot.Location {
	centroids := make([]hotspot.Location, k)
	centroids[0] = points[0].Hotspot.Location

	for i := 1; i < k; i++ {
		maxDist := 0.0
		farthest := points[0].Hotspot.Location

		for _, p := range points {
			loc := p.Hotspot.Location
			minToCentroid := math.MaxFloat64
			for j := 0; j < i; j++ {
				d := geo.Distance(loc.Latitude, loc.Longitude, centroids[j].Latitude, centroids[j].Longitude)
				if d < minToCentroid {
					minToCentroid = d
				}
			}
			if minToCentroid > maxDist {
				maxDist = minToCentroid
				farthest = loc
			}
		}

		centroids[i] = farthest
	}

	return centroids
}

// assign maps every point to its nearest centroid.
func assign(points []hotspot.WithDistance, centroids []hotspot.Location) []int {
	assignments := make([]int, len(points))
	for i, p := range points {
		loc := p.Hotspot.Location
		minDist := math.MaxFloat64
		for j, c := range centroids {
			d := geo.Distance(loc.Latitude, loc.Longitude, c.Latitude, c.Longitude)
			if d < minDist {
				minDist = d
				assignments[i] = j
			}
		}
	}
	return assignments
}
