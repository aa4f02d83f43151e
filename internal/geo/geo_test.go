package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// offsetLat returns the point the given number of metres due north of the
// equator origin. Along a meridian the conversion is exact on a sphere.
func offsetLat(metres float64) float64 {
	return (metres / EarthRadius) * 180 / math.Pi
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name               string
		lat1, lon1         float64
		lat2, lon2         float64
		want               float64
		tolerance          float64
	}{
		{name: "same point", lat1: 37.5665, lon1: 126.978, lat2: 37.5665, lon2: 126.978, want: 0, tolerance: 1},
		{name: "1999m north of origin", lat2: offsetLat(1999), want: 1999, tolerance: 1},
		{name: "2001m north of origin", lat2: offsetLat(2001), want: 2001, tolerance: 1},
		{name: "one degree of longitude at equator", lon2: 1, want: 111195, tolerance: 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.want, got, tt.tolerance)
		})
	}
}

func TestBoundingBoxEnclosesRadius(t *testing.T) {
	box := BoundingBox(37.5665, 126.978, 2000)

	require.Less(t, box.MinLat, 37.5665)
	require.Greater(t, box.MaxLat, 37.5665)
	require.Less(t, box.MinLon, 126.978)
	require.Greater(t, box.MaxLon, 126.978)

	// A point 1900m due north must be boxed and within true radius.
	inLat := 37.5665 + offsetLat(1900)
	assert.True(t, box.Contains(inLat, 126.978))
	assert.Less(t, Distance(37.5665, 126.978, inLat, 126.978), 2000.0)
}

// The two tiers differ: a box corner passes the cheap filter while failing
// the exact-distance refinement.
func TestBoxCornerExceedsTrueRadius(t *testing.T) {
	box := BoundingBox(0, 0, 2000)

	cornerLat := box.MaxLat - 1e-7
	cornerLon := box.MaxLon - 1e-7
	require.True(t, box.Contains(cornerLat, cornerLon))
	assert.Greater(t, Distance(0, 0, cornerLat, cornerLon), 2000.0)
}

func TestExactFilterAtBoundary(t *testing.T) {
	box := BoundingBox(0, 0, 2000)

	in := offsetLat(1999)
	// 1500m north and 1500m east: inside the box on both axes but ~2121m
	// from the centre.
	diag := offsetLat(1500)

	// Both pass the box pre-filter.
	require.True(t, box.Contains(in, 0))
	require.True(t, box.Contains(diag, diag))

	// Only the 1999m point survives the exact refinement.
	assert.Less(t, Distance(0, 0, in, 0), 2000.0)
	assert.Greater(t, Distance(0, 0, diag, diag), 2000.0)
}
