package models

import "time"

// LedgerCategory classifies a money movement on a contract
type LedgerCategory string

const (
	LedgerCategoryRental        LedgerCategory = "rental"
	LedgerCategoryDeposit       LedgerCategory = "deposit"
	LedgerCategoryDepositReturn LedgerCategory = "deposit_return"
	LedgerCategoryDeduction     LedgerCategory = "deduction"
)

// LedgerEntry is a single immutable money movement tied to a contract.
// Negative amounts are refunds or deductions against the business. Entries
// are append-only; balances are always derived, never stored.
type LedgerEntry struct {
	ID          int            `json:"id"`
	ContractID  int            `json:"contract_id"`
	AgencyID    int            `json:"agency_id"`
	OperatorID  int            `json:"operator_id"`
	Amount      float64        `json:"amount"`
	Category    LedgerCategory `json:"category"`
	Channel     PaymentChannel `json:"channel"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
}

type CreateLedgerEntryRequest struct {
	ContractID  int            `json:"contract_id"`
	Amount      float64        `json:"amount"`
	Category    LedgerCategory `json:"category"`
	Channel     PaymentChannel `json:"channel"`
	Description string         `json:"description"`
}

// ContractBalance is the derived settlement position of a contract
type ContractBalance struct {
	ContractID      int     `json:"contract_id"`
	RentalDue       float64 `json:"rental_due"`
	RentalPaid      float64 `json:"rental_paid"`
	DepositDue      float64 `json:"deposit_due"`
	DepositPaid     float64 `json:"deposit_paid"`
	DepositReturned float64 `json:"deposit_returned"`
	Deductions      float64 `json:"deductions"`
	EntryCount      int     `json:"entry_count"`
}

// AgencyCashTotal aggregates ledger movement per channel for one agency day
type AgencyCashTotal struct {
	AgencyID int            `json:"agency_id"`
	Channel  PaymentChannel `json:"channel"`
	Total    float64        `json:"total"`
}
