package registry

import "github.com/example/rapid-dispatch/internal/models"

// SeedDrivers returns the demo fleet around Coimbatore. In a real deployment
// drivers would come from an onboarding store.
func SeedDrivers() []models.Driver {
	return []models.Driver{
		{ID: 1, Name: "Arun", Loc: models.Coord{Lat: 11.0183, Lng: 76.9725}, Available: true, Vehicle: models.VehicleBike},   // Gandhipuram
		{ID: 2, Name: "Priya", Loc: models.Coord{Lat: 11.0055, Lng: 77.0362}, Available: true, Vehicle: models.VehicleAuto},  // Singanallur
		{ID: 3, Name: "Kumar", Loc: models.Coord{Lat: 11.0172, Lng: 76.9558}, Available: true, Vehicle: models.VehicleCar},   // Town Hall
		{ID: 4, Name: "Sneha", Loc: models.Coord{Lat: 11.0290, Lng: 76.9366}, Available: true, Vehicle: models.VehicleBike},  // RS Puram
		{ID: 5, Name: "Vijay", Loc: models.Coord{Lat: 11.0333, Lng: 77.0417}, Available: true, Vehicle: models.VehicleAuto},  // Peelamedu
		{ID: 6, Name: "Divya", Loc: models.Coord{Lat: 10.9985, Lng: 76.9550}, Available: true, Vehicle: models.VehicleBike},  // Ukkadam
		{ID: 7, Name: "Sathish", Loc: models.Coord{Lat: 11.0527, Lng: 77.0266}, Available: true, Vehicle: models.VehicleCar}, // Saravanampatti
	}
}
