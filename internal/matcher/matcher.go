package matcher

import (
	"math"
	"sort"

	"github.com/example/rapid-dispatch/internal/geo"
	"github.com/example/rapid-dispatch/internal/models"
	"github.com/example/rapid-dispatch/internal/observability"
)

// etaMinutesPerKm is the time-to-pickup heuristic. It is intentionally not
// the constant the route estimator uses for trip duration; the two estimates
// are tuned independently.
const etaMinutesPerKm = 3.0

const (
	DefaultRadiusKm = 5.0
	DefaultLimit    = 3
)

// Registry is the subset of driver-registry operations matching needs.
type Registry interface {
	ListAvailable() ([]models.Driver, error)
}

type Service struct {
	Registry Registry
	RadiusKm float64
	Limit    int
}

// FindNearby ranks available drivers within RadiusKm of pickup, nearest
// first with registry order breaking ties, truncated to Limit. An empty
// result is a valid answer, not an error.
func (s *Service) FindNearby(pickup models.Coord) ([]models.Candidate, error) {
	if err := pickup.Validate(); err != nil {
		return nil, err
	}
	radius := s.RadiusKm
	if radius <= 0 {
		radius = DefaultRadiusKm
	}
	limit := s.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	drivers, err := s.Registry.ListAvailable()
	if err != nil {
		return nil, err
	}
	observability.DriversAvailable.Set(float64(len(drivers)))

	cands := make([]models.Candidate, 0, len(drivers))
	for _, d := range drivers {
		dist := geo.Distance(pickup, d.Loc)
		if dist > radius {
			continue
		}
		cands = append(cands, models.Candidate{
			Driver:     d,
			DistanceKm: math.Round(dist*100) / 100,
			ETAMinutes: math.Round(dist * etaMinutesPerKm),
		})
	}
	// stable: equal distances keep registry order
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].DistanceKm < cands[j].DistanceKm })
	if len(cands) > limit {
		cands = cands[:limit]
	}
	observability.MatchesTotal.Inc()
	return cands, nil
}
