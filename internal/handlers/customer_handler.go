package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"

	"rental-backend/internal/repositories"
	"rental-backend/pkg/utils"
)

type CustomerHandler struct {
	Repo         *repositories.CustomerRepository
	ContractRepo *repositories.ContractRepository
}

func NewCustomerHandler(repo *repositories.CustomerRepository, contractRepo *repositories.ContractRepository) *CustomerHandler {
	return &CustomerHandler{Repo: repo, ContractRepo: contractRepo}
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	if email := r.URL.Query().Get("email"); email != "" {
		customer, err := h.Repo.GetByEmail(r.Context(), email)
		if errors.Is(err, pgx.ErrNoRows) {
			utils.Error(w, http.StatusNotFound, "not_found", "customer not found")
			return
		}
		if err != nil {
			utils.ServiceError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, customer)
		return
	}

	customers, err := h.Repo.List(r.Context())
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, customers)
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "validation", "invalid customer id")
		return
	}
	customer, err := h.Repo.Get(r.Context(), id)
	if errors.Is(err, pgx.ErrNoRows) {
		utils.Error(w, http.StatusNotFound, "not_found", "customer not found")
		return
	}
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, customer)
}

// Contracts lists a customer's rental history, newest first.
func (h *CustomerHandler) Contracts(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "validation", "invalid customer id")
		return
	}
	contracts, err := h.ContractRepo.ListByCustomer(r.Context(), id)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, contracts)
}
