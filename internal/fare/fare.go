package fare

import (
	"errors"
	"fmt"
	"math"

	"github.com/example/rapid-dispatch/internal/models"
)

// ErrUnsupportedVehicle is returned when a vehicle class has no fare tier.
// "car" drivers exist in the registry but the rate card has never defined a
// car tier, so quoting a car ride fails with this error.
var ErrUnsupportedVehicle = errors.New("unsupported vehicle class")

type tier struct {
	base  float64
	perKm float64
}

var rateCard = map[models.VehicleClass]tier{
	models.VehicleBike: {base: 15, perKm: 8},
	models.VehicleAuto: {base: 25, perKm: 12},
}

// Estimate computes base + distance*rate for the class, rounded to 2
// decimals (half away from zero).
func Estimate(distanceKm float64, class models.VehicleClass) (float64, error) {
	t, ok := rateCard[class]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedVehicle, class)
	}
	return math.Round((t.base+distanceKm*t.perKm)*100) / 100, nil
}

// Supported reports whether a fare tier exists for the class.
func Supported(class models.VehicleClass) bool {
	_, ok := rateCard[class]
	return ok
}
