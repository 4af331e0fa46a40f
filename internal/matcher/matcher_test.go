package matcher

import (
	"errors"
	"testing"

	"github.com/example/rapid-dispatch/internal/models"
	"github.com/example/rapid-dispatch/internal/registry"
)

type fakeRegistry struct{ drivers []models.Driver }

func (f *fakeRegistry) ListAvailable() ([]models.Driver, error) { return f.drivers, nil }

func seededService(t *testing.T) *Service {
	t.Helper()
	r, err := registry.NewMemoryRegistry(registry.SeedDrivers())
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return &Service{Registry: r}
}

func TestFindNearbyLimitAndRadius(t *testing.T) {
	s := seededService(t)
	// Gandhipuram: several seed drivers sit within 5 km.
	cands, err := s.FindNearby(models.Coord{Lat: 11.0183, Lng: 76.9725})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cands) == 0 || len(cands) > 3 {
		t.Fatalf("expected 1..3 candidates, got %d", len(cands))
	}
	for _, c := range cands {
		if c.DistanceKm > 5 {
			t.Fatalf("driver %d outside radius: %f km", c.ID, c.DistanceKm)
		}
		if !c.Available {
			t.Fatalf("driver %d not available", c.ID)
		}
		if c.ETAMinutes < 0 || c.ETAMinutes != float64(int(c.ETAMinutes)) {
			t.Fatalf("driver %d: bad eta %f", c.ID, c.ETAMinutes)
		}
	}
}

func TestFindNearbySortedByDistance(t *testing.T) {
	s := seededService(t)
	cands, err := s.FindNearby(models.Coord{Lat: 11.0160, Lng: 76.9700})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(cands); i++ {
		if cands[i].DistanceKm < cands[i-1].DistanceKm {
			t.Fatalf("not sorted at %d: %f < %f", i, cands[i].DistanceKm, cands[i-1].DistanceKm)
		}
	}
}

func TestFindNearbyTieBreakKeepsRegistryOrder(t *testing.T) {
	// two drivers at the same spot: seed order must decide
	f := &fakeRegistry{drivers: []models.Driver{
		{ID: 9, Name: "second", Loc: models.Coord{Lat: 0.01, Lng: 0}, Available: true},
		{ID: 4, Name: "first", Loc: models.Coord{Lat: 0.01, Lng: 0}, Available: true},
	}}
	s := &Service{Registry: f}
	cands, err := s.FindNearby(models.Coord{Lat: 0, Lng: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cands) != 2 || cands[0].ID != 9 || cands[1].ID != 4 {
		t.Fatalf("tie-break broke registry order: %+v", cands)
	}
}

func TestFindNearbyEmptyResultIsNotError(t *testing.T) {
	s := seededService(t)
	// middle of the Bay of Bengal, nobody within 5 km
	cands, err := s.FindNearby(models.Coord{Lat: 13.0, Lng: 85.0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cands) != 0 {
		t.Fatalf("expected no candidates, got %d", len(cands))
	}
}

func TestFindNearbyTruncatesToLimit(t *testing.T) {
	drivers := make([]models.Driver, 0, 6)
	for i := 1; i <= 6; i++ {
		drivers = append(drivers, models.Driver{
			ID: i, Loc: models.Coord{Lat: 0.001 * float64(i), Lng: 0}, Available: true,
		})
	}
	s := &Service{Registry: &fakeRegistry{drivers: drivers}, Limit: 3}
	cands, err := s.FindNearby(models.Coord{Lat: 0, Lng: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cands) != 3 {
		t.Fatalf("expected 3, got %d", len(cands))
	}
	if cands[0].ID != 1 || cands[1].ID != 2 || cands[2].ID != 3 {
		t.Fatalf("wrong nearest three: %+v", cands)
	}
}

func TestFindNearbyRejectsInvalidPickup(t *testing.T) {
	s := seededService(t)
	if _, err := s.FindNearby(models.Coord{Lat: -91, Lng: 0}); !errors.Is(err, models.ErrInvalidCoordinate) {
		t.Fatalf("expected ErrInvalidCoordinate, got %v", err)
	}
}
