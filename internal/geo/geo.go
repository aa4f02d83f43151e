// Package geo implements the two-tier spatial filter used for post
// discovery: a cheap equirectangular bounding box for the store query,
// followed by an exact great-circle distance refinement.
package geo

import "math"

// EarthRadius is Earth's mean radius in metres.
const EarthRadius = 6371e3

// Box is a latitude/longitude bounding box in decimal degrees.
type Box struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// BoundingBox returns the box that encloses the circle of the given radius
// (metres) around the centre point. The box corners exceed the true radius,
// so candidates inside it still need the exact Distance check.
func BoundingBox(lat, lon, radius float64) Box {
	dLat := (radius / EarthRadius) * 180 / math.Pi
	dLon := dLat / math.Cos(lat*math.Pi/180)
	return Box{
		MinLat: lat - dLat,
		MaxLat: lat + dLat,
		MinLon: lon - dLon,
		MaxLon: lon + dLon,
	}
}

// Contains reports whether the point lies strictly inside the box.
func (b Box) Contains(lat, lon float64) bool {
	return lat > b.MinLat && lat < b.MaxLat && lon > b.MinLon && lon < b.MaxLon
}

// Distance returns the great-circle distance in metres between two points,
// computed with the spherical law of cosines.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := lat1 * math.Pi / 180
	p2 := lat2 * math.Pi / 180
	dl := (lon2 - lon1) * math.Pi / 180

	cosine := math.Sin(p1)*math.Sin(p2) + math.Cos(p1)*math.Cos(p2)*math.Cos(dl)
	// Guard rounding noise before acos.
	if cosine > 1 {
		cosine = 1
	} else if cosine < -1 {
		cosine = -1
	}
	return math.Acos(cosine) * EarthRadius
}
