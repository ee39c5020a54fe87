// Package geo provides great-circle distance math over raw coordinates.
package geo

import "math"

const statuteMilesPerNauticalMile = 1.15077945

// DefaultProximityRadius is the radius in statute miles within which a
// visit qualifies for a reward, unless the caller chooses otherwise.
const DefaultProximityRadius = 10.0

// AttractionProximityRange is the wider "is this attraction nearby at all"
// radius in statute miles.
const AttractionProximityRange = 200.0

// Location is a point on the globe in decimal degrees.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Distance returns the great-circle distance between a and b in statute
// miles, using the spherical law of cosines.
func Distance(a, b Location) float64 {
	lat1 := degToRad(a.Latitude)
	lon1 := degToRad(a.Longitude)
	lat2 := degToRad(b.Latitude)
	lon2 := degToRad(b.Longitude)

	cosAngle := math.Sin(lat1)*math.Sin(lat2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Cos(lon1-lon2)

	// Rounding can push the cosine fractionally outside [-1, 1], which
	// would make Acos return NaN for identical points.
	cosAngle = math.Max(-1, math.Min(1, cosAngle))

	nauticalMiles := 60 * radToDeg(math.Acos(cosAngle))
	return statuteMilesPerNauticalMile * nauticalMiles
}

// WithinRadius reports whether a and b are at most radius statute miles
// apart. A radius of math.MaxFloat64 means "everything qualifies" and is
// answered without computing a distance.
func WithinRadius(a, b Location, radius float64) bool {
	if radius == math.MaxFloat64 {
		return true
	}
	return Distance(a, b) <= radius
}

func degToRad(d float64) float64 { return d * math.Pi / 180 }

func radToDeg(r float64) float64 { return r * 180 / math.Pi }
