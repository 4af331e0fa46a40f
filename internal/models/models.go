package models

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidCoordinate is returned when a latitude/longitude pair is outside
// valid degree ranges or not finite.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

type Coord struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate checks lat in [-90,90] and lng in [-180,180].
func (c Coord) Validate() error {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || math.IsNaN(c.Lng) || math.IsInf(c.Lng, 0) {
		return fmt.Errorf("%w: non-finite value (%v, %v)", ErrInvalidCoordinate, c.Lat, c.Lng)
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude %v out of [-90,90]", ErrInvalidCoordinate, c.Lat)
	}
	if c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("%w: longitude %v out of [-180,180]", ErrInvalidCoordinate, c.Lng)
	}
	return nil
}

type VehicleClass string

const (
	VehicleBike VehicleClass = "bike"
	VehicleAuto VehicleClass = "auto"
	VehicleCar  VehicleClass = "car"
)

type Driver struct {
	ID        int          `json:"id"`
	Name      string       `json:"name"`
	Loc       Coord        `json:"loc"`
	Available bool         `json:"available"`
	Vehicle   VehicleClass `json:"vehicle"`
}

// Candidate is a driver snapshot ranked for a specific pickup point.
// DistanceKm is rounded to 2 decimals; ETAMinutes is a whole number of
// minutes carried as float64 for the wire format.
type Candidate struct {
	Driver
	DistanceKm float64 `json:"distance_to_pickup"`
	ETAMinutes float64 `json:"eta"`
}

// RouteQuote is the transport-facing quote: route waypoints travel as
// [lat,lng] pairs.
type RouteQuote struct {
	DistanceKm      float64      `json:"distance"`
	Fare            float64      `json:"fare"`
	DurationMinutes float64      `json:"duration"`
	Route           [][2]float64 `json:"route"`
}

type Booking struct {
	ID        string    `json:"booking_id"`
	DriverID  int       `json:"driver_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
