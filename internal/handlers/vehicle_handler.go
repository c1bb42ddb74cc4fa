package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"rental-backend/internal/models"
	"rental-backend/internal/services"
	"rental-backend/pkg/utils"
)

type VehicleHandler struct {
	Service     *services.VehicleService
	Pricing     *services.PricingService
	Maintenance *services.MaintenanceService
}

func NewVehicleHandler(service *services.VehicleService, pricing *services.PricingService,
	maintenance *services.MaintenanceService) *VehicleHandler {
	return &VehicleHandler{Service: service, Pricing: pricing, Maintenance: maintenance}
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	agencyID := 0
	if s := r.URL.Query().Get("agency_id"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "validation", "invalid agency_id")
			return
		}
		agencyID = n
	}
	state := models.VehicleState(r.URL.Query().Get("state"))

	vehicles, err := h.Service.List(r.Context(), agencyID, state)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, vehicles)
}

func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "validation", "invalid vehicle id")
		return
	}
	v, err := h.Service.Get(r.Context(), id)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, v)
}

func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "validation", "invalid request body")
		return
	}
	v, err := h.Service.Create(r.Context(), &req)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, v)
}

func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "validation", "invalid vehicle id")
		return
	}
	var req models.UpdateVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "validation", "invalid request body")
		return
	}
	v, err := h.Service.Update(r.Context(), id, &req)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, v)
}

// MaintenanceHistory lists a vehicle's maintenance records, newest first.
func (h *VehicleHandler) MaintenanceHistory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "validation", "invalid vehicle id")
		return
	}
	records, err := h.Maintenance.ListByVehicle(r.Context(), id)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, records)
}

func (h *VehicleHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Pricing.TariffRepo.ListCategories(r.Context())
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, categories)
}

func (h *VehicleHandler) Accessories(w http.ResponseWriter, r *http.Request) {
	accessories, err := h.Pricing.TariffRepo.ListAccessories(r.Context())
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, accessories)
}

func (h *VehicleHandler) InsuranceTiers(w http.ResponseWriter, r *http.Request) {
	tiers, err := h.Pricing.TariffRepo.ListInsuranceTiers(r.Context())
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, tiers)
}
