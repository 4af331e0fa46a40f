package storage

import (
	"sync"

	"github.com/example/rapid-dispatch/internal/models"
)

// BookingStore records booking confirmations. The registry's availability
// flip is the durable core side effect; the store is an audit trail.
type BookingStore interface {
	SaveBooking(b *models.Booking) error
}

type MemoryStore struct {
	mu       sync.RWMutex
	bookings map[string]*models.Booking
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{bookings: make(map[string]*models.Booking)}
}

func (m *MemoryStore) SaveBooking(b *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[b.ID] = b
	return nil
}

func (m *MemoryStore) Get(id string) (*models.Booking, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bookings[id]
	return b, ok
}
