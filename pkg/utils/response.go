package utils

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"rental-backend/internal/billing"
	"rental-backend/internal/services"
)

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Error writes a JSON error with a stable machine-readable code.
func Error(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, errorBody{Error: message, Code: code})
}

// ServiceError maps service-layer sentinel errors to HTTP responses.
// Anything unrecognized is a 500 with the detail kept in the server log only.
func ServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		Error(w, http.StatusBadRequest, "validation", err.Error())
	case errors.Is(err, billing.ErrTariffNotFound):
		Error(w, http.StatusBadRequest, "tariff_not_found", err.Error())
	case errors.Is(err, services.ErrNotFound):
		Error(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, services.ErrContractNotFound):
		Error(w, http.StatusNotFound, "contract_not_found", err.Error())
	case errors.Is(err, services.ErrVehicleUnavailable):
		Error(w, http.StatusConflict, "vehicle_unavailable", err.Error())
	case errors.Is(err, services.ErrContractClosed):
		Error(w, http.StatusConflict, "contract_closed", err.Error())
	case errors.Is(err, services.ErrInvalidTransition):
		Error(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, services.ErrDuplicate):
		Error(w, http.StatusConflict, "duplicate", err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		Error(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
	default:
		log.Printf("[HTTP] Internal error: %v", err)
		Error(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}
