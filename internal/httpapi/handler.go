package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/studystack/materials/internal/blob"
	"github.com/studystack/materials/internal/inference"
	"github.com/studystack/materials/internal/logger"
	"github.com/studystack/materials/internal/material"
	"github.com/studystack/materials/internal/pipeline"
	"github.com/studystack/materials/internal/service"
	"github.com/studystack/materials/internal/vectorindex"
)

// Handler implements the API routes on top of the service container.
type Handler struct {
	service   *service.Service
	index     *vectorindex.Index
	inference *inference.Client
	blobs     *blob.Store
	logger    *logger.Logger

	maxBodyBytes int64
}

// NewHandler builds the route handler.
func NewHandler(svc *service.Service, index *vectorindex.Index, inf *inference.Client, blobs *blob.Store, cfg Config, log *logger.Logger) *Handler {
	return &Handler{
		service:      svc,
		index:        index,
		inference:    inf,
		blobs:        blobs,
		logger:       log,
		maxBodyBytes: cfg.MaxBodyBytes,
	}
}

type createMaterialRequest struct {
	ID             string `json:"id"`
	OwnerID        string `json:"ownerId"`
	StorageLocator string `json:"storageLocator"`
	MimeType       string `json:"mimeType"`
}

// CreateMaterial registers an already-uploaded file for processing.
func (h *Handler) CreateMaterial(w http.ResponseWriter, r *http.Request) {
	store, err := h.service.Store()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "service is starting up")
		return
	}

	var req createMaterialRequest
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.OwnerID == "" || req.StorageLocator == "" {
		writeError(w, http.StatusBadRequest, "ownerId and storageLocator are required")
		return
	}
	if !material.MimeTypeAllowed(req.MimeType) {
		writeError(w, http.StatusUnsupportedMediaType, "mime type is not processable")
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	m := &material.Material{
		ID:             req.ID,
		OwnerID:        req.OwnerID,
		StorageLocator: req.StorageLocator,
		MimeType:       req.MimeType,
		Status:         material.StatusPending,
	}
	if err := store.CreateMaterial(r.Context(), m); err != nil {
		if errors.Is(err, material.ErrDuplicate) {
			writeError(w, http.StatusConflict, "material already exists")
			return
		}
		h.logger.Error("failed to create material", err, map[string]interface{}{"material_id": req.ID})
		writeError(w, http.StatusInternalServerError, "failed to create material")
		return
	}

	writeJSON(w, http.StatusCreated, m)
}

// RequestProcessing accepts a processing request and hands it to the
// worker pool. The run itself is asynchronous; callers poll GetMaterial.
func (h *Handler) RequestProcessing(w http.ResponseWriter, r *http.Request) {
	store, err := h.service.Store()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "service is starting up")
		return
	}
	dispatcher, err := h.service.Dispatcher()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "service is starting up")
		return
	}

	id := r.PathValue("id")
	if _, err := store.GetMaterial(r.Context(), id); err != nil {
		if errors.Is(err, material.ErrNotFound) {
			writeError(w, http.StatusNotFound, "material not found")
			return
		}
		h.logger.Error("failed to load material", err, map[string]interface{}{"material_id": id})
		writeError(w, http.StatusInternalServerError, "failed to load material")
		return
	}

	if err := dispatcher.Enqueue(id); err != nil {
		if errors.Is(err, pipeline.ErrQueueFull) {
			writeError(w, http.StatusServiceUnavailable, "processing queue is full")
			return
		}
		h.logger.Error("failed to enqueue processing run", err, map[string]interface{}{"material_id": id})
		writeError(w, http.StatusServiceUnavailable, "processing queue unavailable")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"materialId": id,
		"status":     "accepted",
	})
}

// GetMaterial returns a material's current state. The raw embedding is
// never exposed; its JSON tag omits it.
func (h *Handler) GetMaterial(w http.ResponseWriter, r *http.Request) {
	store, err := h.service.Store()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "service is starting up")
		return
	}

	id := r.PathValue("id")
	m, err := store.GetMaterial(r.Context(), id)
	if err != nil {
		if errors.Is(err, material.ErrNotFound) {
			writeError(w, http.StatusNotFound, "material not found")
			return
		}
		h.logger.Error("failed to load material", err, map[string]interface{}{"material_id": id})
		writeError(w, http.StatusInternalServerError, "failed to load material")
		return
	}

	writeJSON(w, http.StatusOK, m)
}

// DeleteMaterial removes a material record together with its stored file
// and vector index point. The record is the source of truth; blob and
// index cleanup are best effort and logged on failure.
func (h *Handler) DeleteMaterial(w http.ResponseWriter, r *http.Request) {
	store, err := h.service.Store()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "service is starting up")
		return
	}

	id := r.PathValue("id")
	m, err := store.GetMaterial(r.Context(), id)
	if err != nil {
		if errors.Is(err, material.ErrNotFound) {
			writeError(w, http.StatusNotFound, "material not found")
			return
		}
		h.logger.Error("failed to load material", err, map[string]interface{}{"material_id": id})
		writeError(w, http.StatusInternalServerError, "failed to load material")
		return
	}

	if err := store.DeleteMaterial(r.Context(), id); err != nil {
		if errors.Is(err, material.ErrNotFound) {
			writeError(w, http.StatusNotFound, "material not found")
			return
		}
		h.logger.Error("failed to delete material", err, map[string]interface{}{"material_id": id})
		writeError(w, http.StatusInternalServerError, "failed to delete material")
		return
	}

	if h.blobs != nil {
		if err := h.blobs.Delete(r.Context(), m.StorageLocator); err != nil {
			h.logger.Warn("failed to delete material blob", err, map[string]interface{}{
				"material_id": id,
				"locator":     m.StorageLocator,
			})
		}
	}
	if h.index != nil {
		if err := h.index.Delete(r.Context(), id); err != nil {
			h.logger.Warn("failed to delete vector index point", err, map[string]interface{}{"material_id": id})
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// SearchMaterials embeds the query text and returns the owner's closest
// completed materials from the vector index.
func (h *Handler) SearchMaterials(w http.ResponseWriter, r *http.Request) {
	if h.index == nil || !h.index.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "search is not enabled")
		return
	}

	query := r.URL.Query().Get("q")
	ownerID := r.URL.Query().Get("ownerId")
	if query == "" || ownerID == "" {
		writeError(w, http.StatusBadRequest, "q and ownerId are required")
		return
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	vector, err := h.inference.GenerateEmbedding(r.Context(), query)
	if err != nil {
		h.logger.Error("failed to embed search query", err, nil)
		writeError(w, http.StatusBadGateway, "failed to embed query")
		return
	}

	hits, err := h.index.Search(r.Context(), ownerID, vector, limit)
	if err != nil {
		h.logger.Error("vector search failed", err, nil)
		writeError(w, http.StatusBadGateway, "search failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"results": hits})
}

// Healthz reports liveness. Readiness flips once the service container has
// initialized.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	if !h.service.Initialized() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "starting"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
