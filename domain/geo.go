package domain

import "math"

const EarthRadiusKm = 6371.0

// Haversine returns the great-circle distance in kilometers between two
// points given in degrees. Inputs are assumed to be within valid
// latitude/longitude ranges, callers validate beforehand.
func Haversine(a, b Location) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	h := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*math.Pow(math.Sin(dLng/2), 2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
