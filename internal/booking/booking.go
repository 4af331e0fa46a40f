package booking

import (
	"fmt"
	"time"

	"github.com/example/rapid-dispatch/internal/dispatch"
	"github.com/example/rapid-dispatch/internal/models"
	"github.com/example/rapid-dispatch/internal/observability"
	"github.com/example/rapid-dispatch/internal/registry"
	"github.com/example/rapid-dispatch/internal/storage"
)

const (
	bookingIDPrefix = "RAPID"
	bookingIDSuffix = "123"
)

// EventPublisher publishes booking confirmations to a stream.
type EventPublisher interface {
	PublishBooking(b models.Booking) error
}

// Service commits bookings: the registry reservation is the authoritative
// step, everything after it (store, stream, driver notice) is best-effort.
type Service struct {
	Registry registry.Registry
	Store    storage.BookingStore
	Events   EventPublisher    // optional
	Notifier dispatch.Notifier // optional
}

// Book reserves the driver and issues a confirmation. Unknown ids fail with
// registry.ErrDriverNotFound, already-booked drivers with
// registry.ErrDriverUnavailable.
func (s *Service) Book(driverID int) (models.Booking, error) {
	if _, err := s.Registry.Reserve(driverID); err != nil {
		observability.BookingFailures.Inc()
		return models.Booking{}, err
	}
	b := models.Booking{
		ID:        BookingID(driverID),
		DriverID:  driverID,
		Message:   "Ride booked successfully!",
		CreatedAt: time.Now(),
	}
	if s.Store != nil {
		_ = s.Store.SaveBooking(&b)
	}
	if s.Events != nil {
		_ = s.Events.PublishBooking(b)
	}
	if s.Notifier != nil {
		_ = s.Notifier.Notify(driverID, b)
	}
	observability.BookingsTotal.Inc()
	return b, nil
}

// CompleteTrip returns the driver to the available pool.
func (s *Service) CompleteTrip(driverID int) error {
	return s.Registry.Release(driverID)
}

// BookingID formats the confirmation identifier for a driver.
func BookingID(driverID int) string {
	return fmt.Sprintf("%s%d%s", bookingIDPrefix, driverID, bookingIDSuffix)
}
