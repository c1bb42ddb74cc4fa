package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"rental-backend/internal/middleware"
	"rental-backend/internal/services"
	"rental-backend/internal/timeutil"
	"rental-backend/pkg/utils"
)

type LedgerHandler struct {
	Service *services.LedgerService
}

func NewLedgerHandler(service *services.LedgerService) *LedgerHandler {
	return &LedgerHandler{Service: service}
}

func (h *LedgerHandler) ListByContract(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "validation", "invalid contract id")
		return
	}
	entries, err := h.Service.ListByContract(r.Context(), id)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, entries)
}

func (h *LedgerHandler) ContractBalance(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "validation", "invalid contract id")
		return
	}
	balance, err := h.Service.ContractBalance(r.Context(), id)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, balance)
}

// DayTotals returns per-channel cash totals for the operator's agency on one
// local day (?date=YYYY-MM-DD, default today).
func (h *LedgerHandler) DayTotals(w http.ResponseWriter, r *http.Request) {
	agencyID, ok := middleware.GetAgencyIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "unauthorized", "agency not found in context")
		return
	}
	if s := r.URL.Query().Get("agency_id"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "validation", "invalid agency_id")
			return
		}
		agencyID = n
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		date = timeutil.Now().Format(timeutil.DateLayout)
	}

	totals, err := h.Service.AgencyDayTotals(r.Context(), agencyID, date)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, totals)
}
