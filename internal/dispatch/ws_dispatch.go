package dispatch

import (
	"sync"

	"github.com/gorilla/websocket"

	"github.com/example/rapid-dispatch/internal/models"
)

// Notifier delivers a booking confirmation to the booked driver.
type Notifier interface {
	Notify(driverID int, b models.Booking) error
}

// WSSession represents a connected driver session.
type WSSession struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *WSSession) Send(b models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(b)
}

// WSRegistry holds driver sessions keyed by driver id.
type WSRegistry struct {
	mu       sync.RWMutex
	sessions map[int]*WSSession
}

func NewWSRegistry() *WSRegistry { return &WSRegistry{sessions: make(map[int]*WSSession)} }

func (r *WSRegistry) Add(driverID int, conn *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[driverID] = &WSSession{conn: conn}
}

func (r *WSRegistry) Remove(driverID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, driverID)
}

func (r *WSRegistry) Notify(driverID int, b models.Booking) error {
	r.mu.RLock()
	s, ok := r.sessions[driverID]
	r.mu.RUnlock()
	if !ok {
		return ErrNoSession
	}
	return s.Send(b)
}

var ErrNoSession = &NoSessionError{}

type NoSessionError struct{}

func (n *NoSessionError) Error() string { return "no ws session" }
