// internal/geo/geo.go

// Package geo provides pure geometry helpers shared by the search and
// clustering code: haversine distance, grid cell keys and bounding boxes.
package geo

import (
	"fmt"
	"math"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// Distance returns the great-circle distance between two points in
// kilometers using the haversine formula.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// GridKey buckets a coordinate into a grid cell of the given size and
// returns a stable key for the cell. Two points in the same cell always
// produce the same key. Grid size is expressed in km-equivalent degrees.
func GridKey(lat, lon, gridSizeKm float64) string {
	gridLat := math.Floor(lat/gridSizeKm) * gridSizeKm
	gridLon := math.Floor(lon/gridSizeKm) * gridSizeKm

	return fmt.Sprintf("%.4f,%.4f", gridLat, gridLon)
}

// Point is a latitude/longitude pair.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// BoundingBox is an axis-aligned rectangle on the map.
type BoundingBox struct {
	NorthEast Point `json:"north_east"`
	SouthWest Point `json:"south_west"`
}

// Contains reports whether the point lies inside the box. Boundaries are
// inclusive on both axes.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.SouthWest.Latitude && lat <= b.NorthEast.Latitude &&
		lon >= b.SouthWest.Longitude && lon <= b.NorthEast.Longitude
}

// BoxAround returns the smallest bounding box that covers a circle of the
// given radius centered on the point. Longitude spread widens toward the
// poles; latitude is clamped to valid range.
func BoxAround(lat, lon, radiusKm float64) BoundingBox {
	latDelta := radiusKm / 111.0
	lonDelta := latDelta
	if cos := math.Cos(lat * math.Pi / 180); cos > 0.01 {
		lonDelta = latDelta / cos
	}

	return BoundingBox{
		NorthEast: Point{
			Latitude:  math.Min(lat+latDelta, 90),
			Longitude: lon + lonDelta,
		},
		SouthWest: Point{
			Latitude:  math.Max(lat-latDelta, -90),
			Longitude: lon - lonDelta,
		},
	}
}
