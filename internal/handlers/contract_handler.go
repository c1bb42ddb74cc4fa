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

type ContractHandler struct {
	Service *services.ContractService
	Pricing *services.PricingService
}

func NewContractHandler(service *services.ContractService, pricing *services.PricingService) *ContractHandler {
	return &ContractHandler{Service: service, Pricing: pricing}
}

// CheckIn opens contracts for one customer and one or more vehicles. The
// operator's agency comes from the token, never the payload.
func (h *ContractHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req models.CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "validation", "invalid request body")
		return
	}

	operatorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "unauthorized", "operator not found in context")
		return
	}
	agencyID, ok := middleware.GetAgencyIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "unauthorized", "agency not found in context")
		return
	}

	result, err := h.Service.CheckIn(r.Context(), &req, operatorID, agencyID)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	status := http.StatusCreated
	if len(result.Created) == 0 {
		// Every line was rejected; nothing was opened.
		status = http.StatusConflict
	}
	utils.JSON(w, status, result)
}

func (h *ContractHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "validation", "invalid contract id")
		return
	}
	var req models.CheckOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "validation", "invalid request body")
		return
	}
	req.ContractID = id

	operatorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "unauthorized", "operator not found in context")
		return
	}

	result, err := h.Service.CheckOut(r.Context(), &req, operatorID)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, result)
}

func (h *ContractHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "validation", "invalid contract id")
		return
	}
	if err := h.Service.Cancel(r.Context(), id); err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (h *ContractHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "validation", "invalid contract id")
		return
	}
	c, err := h.Service.Get(r.Context(), id)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, c)
}

// ListActive returns open contracts, filtered to the operator's agency unless
// an explicit agency_id=0 asks for the whole network.
func (h *ContractHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	agencyID, err := h.agencyFilter(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "validation", "invalid agency_id")
		return
	}
	contracts, err := h.Service.ListActive(r.Context(), agencyID)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, contracts)
}

func (h *ContractHandler) ListOverdue(w http.ResponseWriter, r *http.Request) {
	agencyID, err := h.agencyFilter(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "validation", "invalid agency_id")
		return
	}
	contracts, err := h.Service.ListOverdue(r.Context(), agencyID)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, contracts)
}

func (h *ContractHandler) agencyFilter(r *http.Request) (int, error) {
	if s := r.URL.Query().Get("agency_id"); s != "" {
		return strconv.Atoi(s)
	}
	if agencyID, ok := middleware.GetAgencyIDFromContext(r.Context()); ok {
		return agencyID, nil
	}
	return 0, nil
}

func (h *ContractHandler) Settlement(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "validation", "invalid contract id")
		return
	}
	summary, err := h.Service.Settlement(r.Context(), id)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, summary)
}

// UpsertTariffPrice sets one tariff price point. Day 0 carries the extra-day
// rate. Admin only.
func (h *ContractHandler) UpsertTariffPrice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OwnerKind models.TariffOwnerKind `json:"owner_kind"`
		OwnerID   int                    `json:"owner_id"`
		Day       int                    `json:"day"`
		Price     float64                `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "validation", "invalid request body")
		return
	}
	if err := h.Pricing.UpsertPrice(r.Context(), req.OwnerKind, req.OwnerID, req.Day, req.Price); err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, req)
}

// Quote prices a hypothetical rental with the exact check-in computation.
func (h *ContractHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req models.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "validation", "invalid request body")
		return
	}
	quote, err := h.Pricing.Quote(r.Context(), &req)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, quote)
}
