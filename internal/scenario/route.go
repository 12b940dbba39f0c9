package scenario

import "math"

// GreatCircleDestination returns the point reached by traveling
// distanceKm from (latDeg, lonDeg) along the initial bearing bearingDeg
// on a spherical Earth.
func GreatCircleDestination(latDeg, lonDeg, distanceKm, bearingDeg float64) (float64, float64) {
	lat1 := latDeg * math.Pi / 180
	lon1 := lonDeg * math.Pi / 180
	brg := bearingDeg * math.Pi / 180
	dr := distanceKm / earthRadiusKm

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(dr) + math.Cos(lat1)*math.Sin(dr)*math.Cos(brg))
	lon2 := lon1 + math.Atan2(
		math.Sin(brg)*math.Sin(dr)*math.Cos(lat1),
		math.Cos(dr)-math.Sin(lat1)*math.Sin(lat2),
	)

	lat := lat2 * 180 / math.Pi
	lon := lon2 * 180 / math.Pi
	// Normalize longitude into [-180, 180].
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lat, lon
}

// TwoPointRoute builds the simplest aircraft route: level flight from a
// start point along a fixed heading for rangeKm, at constant altitude and
// speed.
func TwoPointRoute(start Waypoint, headingDeg, rangeKm float64) []Waypoint {
	lat2, lon2 := GreatCircleDestination(start.LatDeg, start.LonDeg, rangeKm, headingDeg)
	end := start
	end.LatDeg = lat2
	end.LonDeg = lon2
	return []Waypoint{start, end}
}

// GreatCircleDistanceKm returns the haversine distance between two points.
func GreatCircleDistanceKm(lat1Deg, lon1Deg, lat2Deg, lon2Deg float64) float64 {
	lat1 := lat1Deg * math.Pi / 180
	lat2 := lat2Deg * math.Pi / 180
	dlat := (lat2Deg - lat1Deg) * math.Pi / 180
	dlon := (lon2Deg - lon1Deg) * math.Pi / 180

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
