package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/example/rapid-dispatch/internal/models"
)

var (
	// ErrDriverNotFound is returned by every operation given an unknown id.
	ErrDriverNotFound = errors.New("driver not found")
	// ErrDriverUnavailable is returned by Reserve when the driver is
	// already booked.
	ErrDriverUnavailable = errors.New("driver not available")
)

// Registry owns the authoritative driver set. Implementations serialize
// reads and mutations internally; Reserve performs its availability check
// and flip in a single critical section.
type Registry interface {
	ListAvailable() ([]models.Driver, error)
	Get(id int) (models.Driver, error)
	SetAvailability(id int, available bool) error
	Reserve(id int) (models.Driver, error)
	Release(id int) error
}

// MemoryRegistry keeps drivers in insertion order so that matching
// tie-breaks are deterministic across requests.
type MemoryRegistry struct {
	mu      sync.RWMutex
	drivers []models.Driver
	index   map[int]int // id -> position in drivers
}

func NewMemoryRegistry(seed []models.Driver) (*MemoryRegistry, error) {
	r := &MemoryRegistry{index: make(map[int]int, len(seed))}
	for _, d := range seed {
		if err := d.Loc.Validate(); err != nil {
			return nil, fmt.Errorf("driver %d: %w", d.ID, err)
		}
		if _, dup := r.index[d.ID]; dup {
			return nil, fmt.Errorf("driver %d: duplicate id", d.ID)
		}
		r.index[d.ID] = len(r.drivers)
		r.drivers = append(r.drivers, d)
	}
	return r, nil
}

// ListAvailable returns value copies; callers never see live state.
func (r *MemoryRegistry) ListAvailable() ([]models.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Driver, 0, len(r.drivers))
	for _, d := range r.drivers {
		if d.Available {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *MemoryRegistry) Get(id int) (models.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[id]
	if !ok {
		return models.Driver{}, fmt.Errorf("%w: id %d", ErrDriverNotFound, id)
	}
	return r.drivers[i], nil
}

func (r *MemoryRegistry) SetAvailability(id int, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[id]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrDriverNotFound, id)
	}
	r.drivers[i].Available = available
	return nil
}

// Reserve atomically checks availability and flips it off, returning the
// driver as it was before the flip.
func (r *MemoryRegistry) Reserve(id int) (models.Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[id]
	if !ok {
		return models.Driver{}, fmt.Errorf("%w: id %d", ErrDriverNotFound, id)
	}
	if !r.drivers[i].Available {
		return models.Driver{}, fmt.Errorf("%w: id %d", ErrDriverUnavailable, id)
	}
	d := r.drivers[i]
	r.drivers[i].Available = false
	return d, nil
}

// Release marks the driver available again. Releasing an already-available
// driver is a no-op success, so trip completion is idempotent.
func (r *MemoryRegistry) Release(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[id]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrDriverNotFound, id)
	}
	r.drivers[i].Available = true
	return nil
}
