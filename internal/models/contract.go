package models

import "time"

// ContractState represents the lifecycle state of a rental contract
type ContractState string

const (
	ContractStateActive    ContractState = "active"
	ContractStateCompleted ContractState = "completed"
	ContractStateCancelled ContractState = "cancelled"
)

// PaymentChannel is how money moved (or will move) for a contract
type PaymentChannel string

const (
	ChannelCash     PaymentChannel = "cash"
	ChannelCard     PaymentChannel = "card"
	ChannelTransfer PaymentChannel = "transfer"
	ChannelPreAuth  PaymentChannel = "pre_authorization"
)

// ValidChannel reports whether c is a known payment channel.
func ValidChannel(c PaymentChannel) bool {
	switch c {
	case ChannelCash, ChannelCard, ChannelTransfer, ChannelPreAuth:
		return true
	}
	return false
}

// ConditionCode grades a checked component at vehicle return
type ConditionCode string

const (
	ConditionOK        ConditionCode = "ok"
	ConditionWorn      ConditionCode = "worn"
	ConditionDefective ConditionCode = "defective"
	ConditionFlat      ConditionCode = "flat" // tires only
	ConditionLow       ConditionCode = "low"  // battery only
)

// InspectionReport is the structured return-inspection payload recorded at
// check-out. Fixed field set so maintenance trigger rules stay statically
// checkable.
type InspectionReport struct {
	Tires   ConditionCode `json:"tires"`
	Brakes  ConditionCode `json:"brakes"`
	Lights  ConditionCode `json:"lights"`
	Battery ConditionCode `json:"battery"`
}

type Contract struct {
	ID              int               `json:"id"`
	ContractNumber  string            `json:"contract_number"`
	CustomerID      int               `json:"customer_id"`
	VehicleID       int               `json:"vehicle_id"`
	AgencyID        int               `json:"agency_id"`
	OperatorID      int               `json:"operator_id"`
	StartAt         time.Time         `json:"start_at"`
	PlannedEndAt    time.Time         `json:"planned_end_at"`
	EndedAt         *time.Time        `json:"ended_at,omitempty"`
	DailyRate       float64           `json:"daily_rate"`
	InsuranceTierID *int              `json:"insurance_tier_id,omitempty"`
	DepositAmount   float64           `json:"deposit_amount"`
	TotalAmount     float64           `json:"total_amount"`
	RentalPaid      float64           `json:"rental_paid"`
	DepositPaid     float64           `json:"deposit_paid"`
	PaymentChannel  PaymentChannel    `json:"payment_channel"`
	State           ContractState     `json:"state"`
	DeductionTotal  float64           `json:"deduction_total"`
	RefundAmount    float64           `json:"refund_amount"`
	RefundChannel   PaymentChannel    `json:"refund_channel,omitempty"`
	DistanceKm      int               `json:"distance_km"` // motorized vehicles only
	Inspection      *InspectionReport `json:"inspection,omitempty"`
	Notes           string            `json:"notes"`
	SignatureKey    string            `json:"signature_key,omitempty"`  // artifact store object key
	CustomerName    string            `json:"customer_name,omitempty"`  // joined
	VehicleSerial   string            `json:"vehicle_serial,omitempty"` // joined
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// CustomerPayload carries the customer data sent with a check-in. Matched by
// email: an existing customer's mutable fields are overwritten, otherwise a
// new record is created.
type CustomerPayload struct {
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	DocumentID string `json:"document_id"`
}

// CheckInLine selects one vehicle with its add-ons inside a check-in request
type CheckInLine struct {
	VehicleID       int   `json:"vehicle_id"`
	AccessoryIDs    []int `json:"accessory_ids"`
	InsuranceTierID *int  `json:"insurance_tier_id"`
}

type CheckInRequest struct {
	Customer       CustomerPayload `json:"customer"`
	Lines          []CheckInLine   `json:"lines"`
	StartAt        time.Time       `json:"start_at"`
	PlannedEndAt   time.Time       `json:"planned_end_at"`
	PaymentChannel PaymentChannel  `json:"payment_channel"`
	// Prepaid flags record money collected at the desk during check-in.
	// The amounts are always the computed quote figures.
	DepositPrepaid bool   `json:"deposit_prepaid"`
	RentalPrepaid  bool   `json:"rental_prepaid"`
	Notes          string `json:"notes"`
	SignatureKey   string `json:"signature_key"`
}

// CreatedContract is one successful line of a check-in response
type CreatedContract struct {
	ContractID     int     `json:"contract_id"`
	ContractNumber string  `json:"contract_number"`
	VehicleID      int     `json:"vehicle_id"`
	Days           int     `json:"days"`
	TotalAmount    float64 `json:"total_amount"`
	DepositAmount  float64 `json:"deposit_amount"`
}

// RejectedLine is one failed line of a check-in response. Other lines of the
// same request are unaffected.
type RejectedLine struct {
	VehicleID int    `json:"vehicle_id"`
	Reason    string `json:"reason"`
}

type CheckInResult struct {
	CustomerID int               `json:"customer_id"`
	Created    []CreatedContract `json:"created"`
	Rejected   []RejectedLine    `json:"rejected,omitempty"`
}

// DeductionLine is one itemized damage/missing-item charge at check-out
type DeductionLine struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type CheckOutRequest struct {
	ContractID       int              `json:"contract_id"`
	Deductions       []DeductionLine  `json:"deductions"`
	DeductionTotal   float64          `json:"deduction_total"`
	RefundAmount     float64          `json:"refund_amount"`
	RefundChannel    PaymentChannel   `json:"refund_channel"`
	Inspection       InspectionReport `json:"inspection"`
	OdometerEnd      *int             `json:"odometer_end"`
	ForceMaintenance bool             `json:"force_maintenance"`
	PhotoKeys        []string         `json:"photo_keys"`
}

type CheckOutResult struct {
	ContractID        int          `json:"contract_id"`
	ContractNumber    string       `json:"contract_number"`
	Days              int          `json:"days"`
	TotalAmount       float64      `json:"total_amount"`
	DeductionTotal    float64      `json:"deduction_total"`
	RefundAmount      float64      `json:"refund_amount"`
	DistanceKm        int          `json:"distance_km"`
	VehicleState      VehicleState `json:"vehicle_state"`
	MaintenanceRaised int          `json:"maintenance_raised"`
	MaintenanceDue    bool         `json:"maintenance_due"`
}
