// internal/geo/geo_test.go

package geo

import (
	"math"
	"testing"
)

func TestDistanceIdentity(t *testing.T) {
	if d := Distance(40.7128, -74.0060, 40.7128, -74.0060); d != 0 {
		t.Errorf("Expected zero distance for identical points, got %f", d)
	}
}

func TestDistanceSymmetry(t *testing.T) {
	d1 := Distance(40.7128, -74.0060, 51.5074, -0.1278)
	d2 := Distance(51.5074, -0.1278, 40.7128, -74.0060)

	if math.Abs(d1-d2) > 1e-9 {
		t.Errorf("Distance not symmetric: %f vs %f", d1, d2)
	}
}

func TestDistanceKnownValue(t *testing.T) {
	// One degree of longitude on the equator is about 111.19 km
	d := Distance(0, 0, 0, 1)
	if math.Abs(d-111.19) > 0.5 {
		t.Errorf("Expected ~111.19 km for one equatorial degree, got %f", d)
	}
}

func TestDistanceNewYorkLondon(t *testing.T) {
	d := Distance(40.7128, -74.0060, 51.5074, -0.1278)
	if d < 5500 || d > 5600 {
		t.Errorf("Expected NYC-London distance around 5570 km, got %f", d)
	}
}

func TestGridKeyStable(t *testing.T) {
	// Two points in the same cell share a key
	k1 := GridKey(40.71, -74.01, 2.0)
	k2 := GridKey(40.92, -74.56, 2.0)
	if k1 != k2 {
		t.Errorf("Expected same cell for nearby points, got %q and %q", k1, k2)
	}

	// A point in a different cell gets a different key
	k3 := GridKey(43.1, -74.01, 2.0)
	if k3 == k1 {
		t.Errorf("Expected different cell for distant latitude, got %q twice", k1)
	}
}

func TestGridKeyNegativeCoordinates(t *testing.T) {
	// Floor bucketing keeps negative coordinates in their own cells
	k1 := GridKey(-0.1, -0.1, 2.0)
	k2 := GridKey(0.1, 0.1, 2.0)
	if k1 == k2 {
		t.Errorf("Expected points on opposite sides of the origin in different cells, got %q", k1)
	}
}

func TestBoundingBoxContains(t *testing.T) {
	box := BoundingBox{
		NorthEast: Point{Latitude: 41, Longitude: -73},
		SouthWest: Point{Latitude: 40, Longitude: -75},
	}

	cases := []struct {
		name     string
		lat, lon float64
		want     bool
	}{
		{"inside", 40.5, -74, true},
		{"on northeast corner", 41, -73, true},
		{"on southwest corner", 40, -75, true},
		{"north of box", 41.1, -74, false},
		{"west of box", 40.5, -75.1, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := box.Contains(tc.lat, tc.lon); got != tc.want {
				t.Errorf("Contains(%f, %f) = %v, want %v", tc.lat, tc.lon, got, tc.want)
			}
		})
	}
}

func TestBoxAroundCoversRadius(t *testing.T) {
	lat, lon := 40.7128, -74.0060
	box := BoxAround(lat, lon, 10)

	if !box.Contains(lat, lon) {
		t.Fatal("Box does not contain its own center")
	}

	// Points 10 km due north/south/east/west must fall inside
	latDelta := 10.0 / 111.0
	if !box.Contains(lat+latDelta, lon) || !box.Contains(lat-latDelta, lon) {
		t.Error("Box does not cover the radius on the latitude axis")
	}

	lonDelta := latDelta / math.Cos(lat*math.Pi/180)
	if !box.Contains(lat, lon+lonDelta) || !box.Contains(lat, lon-lonDelta) {
		t.Error("Box does not cover the radius on the longitude axis")
	}
}

func TestBoxAroundClampsLatitude(t *testing.T) {
	box := BoxAround(89.99, 0, 100)
	if box.NorthEast.Latitude > 90 {
		t.Errorf("Latitude not clamped at the pole: %f", box.NorthEast.Latitude)
	}

	box = BoxAround(-89.99, 0, 100)
	if box.SouthWest.Latitude < -90 {
		t.Errorf("Latitude not clamped at the south pole: %f", box.SouthWest.Latitude)
	}
}
