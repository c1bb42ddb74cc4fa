package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"

	"rental-backend/internal/models"
	"rental-backend/internal/repositories"
	"rental-backend/pkg/utils"
)

type AgencyHandler struct {
	Repo *repositories.AgencyRepository
}

func NewAgencyHandler(repo *repositories.AgencyRepository) *AgencyHandler {
	return &AgencyHandler{Repo: repo}
}

func (h *AgencyHandler) List(w http.ResponseWriter, r *http.Request) {
	agencies, err := h.Repo.List(r.Context())
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, agencies)
}

func (h *AgencyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "validation", "invalid agency id")
		return
	}
	agency, err := h.Repo.Get(r.Context(), id)
	if errors.Is(err, pgx.ErrNoRows) {
		utils.Error(w, http.StatusNotFound, "not_found", "agency not found")
		return
	}
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, agency)
}

func (h *AgencyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var agency models.Agency
	if err := json.NewDecoder(r.Body).Decode(&agency); err != nil {
		utils.Error(w, http.StatusBadRequest, "validation", "invalid request body")
		return
	}
	if agency.Code == "" || agency.Name == "" {
		utils.Error(w, http.StatusBadRequest, "validation", "code and name required")
		return
	}
	if err := h.Repo.Create(r.Context(), &agency); err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, agency)
}

func (h *AgencyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "validation", "invalid agency id")
		return
	}
	var agency models.Agency
	if err := json.NewDecoder(r.Body).Decode(&agency); err != nil {
		utils.Error(w, http.StatusBadRequest, "validation", "invalid request body")
		return
	}
	agency.ID = id
	if err := h.Repo.Update(r.Context(), &agency); err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, agency)
}
