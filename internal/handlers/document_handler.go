package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"rental-backend/internal/artifacts"
	"rental-backend/internal/services"
	"rental-backend/pkg/utils"
)

const maxUploadBytes = 10 << 20 // 10 MiB

type DocumentHandler struct {
	Documents *services.DocumentService
	Store     *artifacts.Store
}

func NewDocumentHandler(documents *services.DocumentService, store *artifacts.Store) *DocumentHandler {
	return &DocumentHandler{Documents: documents, Store: store}
}

// ContractPDF streams the rendered contract document.
func (h *DocumentHandler) ContractPDF(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "validation", "invalid contract id")
		return
	}
	data, err := h.Documents.ContractPDF(r.Context(), id)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="contract-%d.pdf"`, id))
	w.Write(data)
}

// Upload stores a signature or damage photo and returns its object key.
// Prefix comes from the route ("signatures" or "photos").
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if !h.Store.Enabled() {
		utils.Error(w, http.StatusServiceUnavailable, "artifacts_disabled", "artifact store is not configured")
		return
	}
	prefix := mux.Vars(r)["prefix"]
	if prefix != "signatures" && prefix != "photos" {
		utils.Error(w, http.StatusBadRequest, "validation", "unknown artifact prefix")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		utils.Error(w, http.StatusBadRequest, "validation", "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "validation", "file field required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "validation", "failed to read file")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key, err := h.Store.Upload(r.Context(), prefix, path.Ext(header.Filename), contentType, data)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, map[string]string{"key": key})
}

// Download returns a short-lived presigned URL for an artifact key.
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	if !h.Store.Enabled() {
		utils.Error(w, http.StatusServiceUnavailable, "artifacts_disabled", "artifact store is not configured")
		return
	}
	key := r.URL.Query().Get("key")
	if key == "" {
		utils.Error(w, http.StatusBadRequest, "validation", "key parameter required")
		return
	}
	url, err := h.Store.PresignGet(r.Context(), key, 15*time.Minute)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"url": url})
}
