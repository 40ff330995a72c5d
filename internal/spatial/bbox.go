package spatial

import (
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// Box is a latitude/longitude aligned rectangle in degrees.
type Box struct {
	MinLat float64
	MinLon float64
	MaxLat float64
	MaxLon float64
}

// BoundingBox returns the smallest Box containing every point within
// radius meters of the center.
func BoundingBox(lat, lon, radius float64) Box {
	center := s2.PointFromLatLng(s2.LatLngFromDegrees(lat, lon))
	rect := s2.CapFromCenterAngle(center, s1.Angle(radius/EarthRadiusMeters)).RectBound()

	lo, hi := rect.Lo(), rect.Hi()
	return Box{
		MinLat: lo.Lat.Degrees(),
		MinLon: lo.Lng.Degrees(),
		MaxLat: hi.Lat.Degrees(),
		MaxLon: hi.Lng.Degrees(),
	}
}

// InflatedBox is BoundingBox with the radius grown by the given fraction,
// e.g. 0.1 for ten percent.
func InflatedBox(lat, lon, radius, inflation float64) Box {
	return BoundingBox(lat, lon, radius*(1+inflation))
}

// Contains reports whether the point lies inside the box, edges included.
func (b Box) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}
