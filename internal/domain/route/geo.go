package route

import "math"

const earthRadiusMeters = 6371000.0

// DistanceMeters computes the great-circle distance between two WGS 84
// points using the haversine formula.
func DistanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)

	lat1Rad := radians(lat1)
	lat2Rad := radians(lat2)

	// The cosine product is grouped so swapping the points gives a
	// bit-identical result.
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*(math.Cos(lat1Rad)*math.Cos(lat2Rad))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
