package fare

import (
	"errors"
	"testing"

	"github.com/example/rapid-dispatch/internal/models"
)

func TestEstimateBikeBaseOnly(t *testing.T) {
	got, err := Estimate(0, models.VehicleBike)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 15 {
		t.Fatalf("expected 15, got %f", got)
	}
}

func TestEstimateAutoTenKm(t *testing.T) {
	got, err := Estimate(10, models.VehicleAuto)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 145 {
		t.Fatalf("expected 145, got %f", got)
	}
}

func TestEstimateRoundsToTwoDecimals(t *testing.T) {
	// 15 + 1.2345*8 = 24.876 -> 24.88
	got, err := Estimate(1.2345, models.VehicleBike)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 24.88 {
		t.Fatalf("expected 24.88, got %f", got)
	}
}

func TestEstimateCarUnsupported(t *testing.T) {
	for _, d := range []float64{0, 1, 12.7} {
		if _, err := Estimate(d, models.VehicleCar); !errors.Is(err, ErrUnsupportedVehicle) {
			t.Fatalf("distance %f: expected ErrUnsupportedVehicle, got %v", d, err)
		}
	}
}

func TestSupported(t *testing.T) {
	if !Supported(models.VehicleBike) || !Supported(models.VehicleAuto) {
		t.Fatal("bike and auto must have tiers")
	}
	if Supported(models.VehicleCar) {
		t.Fatal("car has no tier")
	}
}
