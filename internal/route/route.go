package route

import (
	"math"

	"github.com/example/rapid-dispatch/internal/geo"
	"github.com/example/rapid-dispatch/internal/models"
)

const (
	// minutesPerKm is the trip-duration heuristic. It is deliberately a
	// different constant from the matcher's pickup ETA heuristic; the two
	// model different estimates.
	minutesPerKm = 4.0

	// segments fixes the interpolated path at segments+1 waypoints.
	segments = 10
)

// Estimate holds a straight-line route approximation between two points.
// Waypoints are linearly interpolated in coordinate space, endpoints
// inclusive; this is not a road-aware path.
type Estimate struct {
	DistanceKm      float64
	DurationMinutes float64
	Waypoints       []models.Coord
}

func EstimateRoute(pickup, dest models.Coord) (Estimate, error) {
	if err := pickup.Validate(); err != nil {
		return Estimate{}, err
	}
	if err := dest.Validate(); err != nil {
		return Estimate{}, err
	}
	d := geo.Distance(pickup, dest)
	pts := make([]models.Coord, 0, segments+1)
	for i := 0; i <= segments; i++ {
		ratio := float64(i) / segments
		pts = append(pts, models.Coord{
			Lat: pickup.Lat + (dest.Lat-pickup.Lat)*ratio,
			Lng: pickup.Lng + (dest.Lng-pickup.Lng)*ratio,
		})
	}
	return Estimate{
		DistanceKm:      d,
		DurationMinutes: math.Round(d * minutesPerKm),
		Waypoints:       pts,
	}, nil
}
