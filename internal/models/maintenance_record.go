package models

import "time"

type MaintenanceKind string

const (
	MaintenanceKindRepair        MaintenanceKind = "repair"
	MaintenanceKindScheduledKm   MaintenanceKind = "scheduled_km"
	MaintenanceKindScheduledDays MaintenanceKind = "scheduled_days"
)

type MaintenancePriority string

const (
	MaintenancePriorityNormal MaintenancePriority = "normal"
	MaintenancePriorityHigh   MaintenancePriority = "high"
)

type MaintenanceStatus string

const (
	MaintenanceStatusPending    MaintenanceStatus = "pending"
	MaintenanceStatusInProgress MaintenanceStatus = "in_progress"
	MaintenanceStatusResolved   MaintenanceStatus = "resolved"
)

type MaintenanceRecord struct {
	ID              int                 `json:"id"`
	VehicleID       int                 `json:"vehicle_id"`
	ContractID      *int                `json:"contract_id,omitempty"` // triggering contract, if any
	Kind            MaintenanceKind     `json:"kind"`
	Priority        MaintenancePriority `json:"priority"`
	Description     string              `json:"description"`
	ReportedByUserID int                `json:"reported_by_user_id"`
	Status          MaintenanceStatus   `json:"status"`
	PhotoKeys       []string            `json:"photo_keys,omitempty"` // artifact store object keys
	CreatedAt       time.Time           `json:"created_at"`
	ResolvedAt      *time.Time          `json:"resolved_at,omitempty"`
}

// ResolveMaintenanceRequest closes a maintenance record and, when it is the
// last open one, releases the vehicle back to available.
type ResolveMaintenanceRequest struct {
	Notes string `json:"notes"`
}
