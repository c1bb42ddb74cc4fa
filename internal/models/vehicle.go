package models

import "time"

// VehicleState represents the lifecycle state of a vehicle
type VehicleState string

const (
	VehicleStateAvailable   VehicleState = "available"
	VehicleStateRented      VehicleState = "rented"
	VehicleStateMaintenance VehicleState = "maintenance"
)

// allowedTransitions defines the legal vehicle state transitions.
// maintenance -> available happens only through maintenance resolution.
var allowedTransitions = map[VehicleState][]VehicleState{
	VehicleStateAvailable:   {VehicleStateRented},
	VehicleStateRented:      {VehicleStateAvailable, VehicleStateMaintenance},
	VehicleStateMaintenance: {VehicleStateAvailable},
}

// CanTransition reports whether from -> to is a legal state transition.
func CanTransition(from, to VehicleState) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// VehicleCategory classifies vehicles for pricing and maintenance tracking.
// Motorized categories track odometer kilometers, non-motorized ones track
// cumulative rental days.
type VehicleCategory struct {
	ID          int     `json:"id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Motorized   bool    `json:"motorized"`
	DepositBase float64 `json:"deposit_base"`
}

type Vehicle struct {
	ID                    int          `json:"id"`
	Serial                string       `json:"serial"`
	CategoryID            int          `json:"category_id"`
	CategoryCode          string       `json:"category_code,omitempty"` // joined from vehicle_categories
	Motorized             bool         `json:"motorized"`
	DepositBase           float64      `json:"deposit_base"`
	AgencyID              int          `json:"agency_id"`
	OdometerKm            int          `json:"odometer_km"`
	RentalDays            int          `json:"rental_days"` // lifetime cumulative billable days
	LastMaintenanceKm     *int         `json:"last_maintenance_km,omitempty"`
	LastMaintenanceDate   *time.Time   `json:"last_maintenance_date,omitempty"`
	State                 VehicleState `json:"state"`
	Notes                 string       `json:"notes"`
	CreatedAt             time.Time    `json:"created_at"`
	UpdatedAt             time.Time    `json:"updated_at"`
}

type CreateVehicleRequest struct {
	Serial     string `json:"serial"`
	CategoryID int    `json:"category_id"`
	AgencyID   int    `json:"agency_id"`
	OdometerKm int    `json:"odometer_km"`
	Notes      string `json:"notes"`
}

type UpdateVehicleRequest struct {
	Serial     string `json:"serial"`
	CategoryID int    `json:"category_id"`
	AgencyID   int    `json:"agency_id"`
	Notes      string `json:"notes"`
}
