package registry

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func newRedisTestRegistry(t *testing.T) *RedisRegistry {
	t.Helper()
	s := miniredis.RunT(t)
	r := NewRedisRegistry(s.Addr(), "", "drivers_geo")
	if err := r.Seed(SeedDrivers()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return r
}

func TestRedisListAvailableOrderedByID(t *testing.T) {
	r := newRedisTestRegistry(t)
	drivers, err := r.ListAvailable()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(drivers) != 7 {
		t.Fatalf("expected 7 available, got %d", len(drivers))
	}
	for i, d := range drivers {
		if d.ID != i+1 {
			t.Fatalf("position %d: expected id %d, got %d", i, i+1, d.ID)
		}
	}
	if drivers[0].Name != "Arun" || drivers[0].Vehicle != "bike" {
		t.Fatalf("metadata not loaded: %+v", drivers[0])
	}
}

func TestRedisGetUnknownID(t *testing.T) {
	r := newRedisTestRegistry(t)
	if _, err := r.Get(42); !errors.Is(err, ErrDriverNotFound) {
		t.Fatalf("expected ErrDriverNotFound, got %v", err)
	}
	if err := r.SetAvailability(42, false); !errors.Is(err, ErrDriverNotFound) {
		t.Fatalf("expected ErrDriverNotFound, got %v", err)
	}
}

func TestRedisReserveTwiceFails(t *testing.T) {
	r := newRedisTestRegistry(t)
	if _, err := r.Reserve(1); err != nil {
		t.Fatalf("first reserve: %v", err)
	}
	if _, err := r.Reserve(1); !errors.Is(err, ErrDriverUnavailable) {
		t.Fatalf("expected ErrDriverUnavailable, got %v", err)
	}
	if err := r.Release(1); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, err := r.Reserve(1); err != nil {
		t.Fatalf("reserve after release: %v", err)
	}
}

func TestRedisReserveConcurrentSingleWinner(t *testing.T) {
	r := newRedisTestRegistry(t)
	const callers = 32
	var wins int32
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			if _, err := r.Reserve(1); err == nil {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Fatalf("expected exactly one successful reservation, got %d", wins)
	}
	d, err := r.Get(1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if d.Available {
		t.Fatal("driver still available after reservation")
	}
}
