// README: pure geographic computation helpers for day-trip routing.
package itinerary

import "math"

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance in kilometres between two
// points specified in decimal degrees.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLon := degreesToRadians(lon2 - lon1)

	rLat1 := degreesToRadians(lat1)
	rLat2 := degreesToRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// GreedyRoute orders stops nearest-neighbor first, starting from the first
// geocoded stop. Fewer than two geocoded stops means no meaningful reorder
// is possible and the input comes back unchanged. Stops without coordinates
// are appended at the end in their original relative order, never
// interleaved.
func GreedyRoute(stops []Stop) []Stop {
	geocoded := make([]Stop, 0, len(stops))
	for _, s := range stops {
		if s.HasCoords() {
			geocoded = append(geocoded, s)
		}
	}
	if len(geocoded) < 2 {
		out := make([]Stop, len(stops))
		copy(out, stops)
		return out
	}

	cur := geocoded[0]
	remaining := geocoded[1:]
	order := make([]Stop, 0, len(stops))
	order = append(order, cur)
	for len(remaining) > 0 {
		sortByDistance(remaining, func(s Stop) float64 {
			return HaversineKm(*cur.Lat, *cur.Lon, *s.Lat, *s.Lon)
		})
		cur = remaining[0]
		remaining = remaining[1:]
		order = append(order, cur)
	}

	for _, s := range stops {
		if !s.HasCoords() {
			order = append(order, s)
		}
	}
	return order
}

// sortByDistance performs an insertion sort (fine for small N) on any slice
// where each element exposes a distance via the accessor function.
func sortByDistance[T any](items []T, dist func(T) float64) {
	for i := 1; i < len(items); i++ {
		key := items[i]
		j := i - 1
		for j >= 0 && dist(items[j]) > dist(key) {
			items[j+1] = items[j]
			j--
		}
		items[j+1] = key
	}
}
