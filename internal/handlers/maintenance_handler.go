package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"rental-backend/internal/middleware"
	"rental-backend/internal/models"
	"rental-backend/internal/services"
	"rental-backend/pkg/utils"
)

type MaintenanceHandler struct {
	Service *services.MaintenanceService
}

func NewMaintenanceHandler(service *services.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{Service: service}
}

func (h *MaintenanceHandler) ListOpen(w http.ResponseWriter, r *http.Request) {
	records, err := h.Service.ListOpen(r.Context())
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, records)
}

func (h *MaintenanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "validation", "invalid maintenance record id")
		return
	}
	m, err := h.Service.Get(r.Context(), id)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, m)
}

// Report opens an ad-hoc repair record.
func (h *MaintenanceHandler) Report(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VehicleID   int                        `json:"vehicle_id"`
		Description string                     `json:"description"`
		Priority    models.MaintenancePriority `json:"priority"`
		PhotoKeys   []string                   `json:"photo_keys"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "validation", "invalid request body")
		return
	}
	operatorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "unauthorized", "operator not found in context")
		return
	}

	m, err := h.Service.Report(r.Context(), req.VehicleID, operatorID, req.Description, req.Priority, req.PhotoKeys)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, m)
}

func (h *MaintenanceHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "validation", "invalid maintenance record id")
		return
	}
	var req struct {
		Status models.MaintenanceStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "validation", "invalid request body")
		return
	}
	if err := h.Service.SetStatus(r.Context(), id, req.Status); err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": string(req.Status)})
}

// Resolve closes a record; the last open record on a vehicle releases it back
// to available and restarts the maintenance counters.
func (h *MaintenanceHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "validation", "invalid maintenance record id")
		return
	}
	var req models.ResolveMaintenanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "validation", "invalid request body")
		return
	}
	m, err := h.Service.Resolve(r.Context(), id, &req)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, m)
}
