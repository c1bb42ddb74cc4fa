package services

import "errors"

// Sentinel errors shared by the service layer. Handlers map these to HTTP
// status codes with errors.Is.
var (
	ErrValidation         = errors.New("invalid request")
	ErrNotFound           = errors.New("not found")
	ErrVehicleUnavailable = errors.New("vehicle unavailable")
	ErrContractNotFound   = errors.New("contract not found")
	ErrContractClosed     = errors.New("contract is not active")
	ErrInvalidTransition  = errors.New("invalid vehicle state transition")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicate          = errors.New("already exists")
)
