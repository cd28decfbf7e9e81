package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/daehwan-lim/menu-catalog/pkg/catalog"
)

// StoreHandler handles HTTP requests for stores
type StoreHandler struct {
	service catalog.Service
}

// NewStoreHandler creates a new store handler
func NewStoreHandler(service catalog.Service) *StoreHandler {
	return &StoreHandler{service: service}
}

// Routes returns the routes for stores
func (h *StoreHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/list", h.ListStores)
	r.Post("/", h.CreateStore)
	r.Get("/{uid}", h.GetStore)
	r.Put("/{uid}", h.UpdateStore)
	r.Delete("/{uid}", h.DeleteStore)
	r.Patch("/{uid}/status", h.UpdateStoreStatus)

	return r
}

type storeRequest struct {
	Name     string  `json:"store_name"`
	Address  string  `json:"store_address"`
	Postcode string  `json:"store_postcode"`
	Lat      float64 `json:"store_lat"`
	Long     float64 `json:"store_long"`
	Status   string  `json:"store_status"`
}

// ListStores returns one cursor page of stores
func (h *StoreHandler) ListStores(w http.ResponseWriter, r *http.Request) {
	limit, lastUID, err := parsePageQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	page, err := h.service.ListStores(r.Context(), catalog.PageRequest{Limit: limit, LastUID: lastUID})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	render.JSON(w, r, page)
}

// GetStore returns one store by uid
func (h *StoreHandler) GetStore(w http.ResponseWriter, r *http.Request) {
	uid, err := strconv.ParseInt(chi.URLParam(r, "uid"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid uid", http.StatusBadRequest)
		return
	}

	store, err := h.service.GetStore(r.Context(), uid)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	render.JSON(w, r, store)
}

// CreateStore creates a new store
func (h *StoreHandler) CreateStore(w http.ResponseWriter, r *http.Request) {
	var req storeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode store request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	store, err := h.service.CreateStore(r.Context(), catalog.CreateStoreRequest{
		Name:      req.Name,
		Address:   req.Address,
		Postcode:  req.Postcode,
		Latitude:  req.Lat,
		Longitude: req.Long,
		Status:    req.Status,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, store)
}

// UpdateStore edits an existing store
func (h *StoreHandler) UpdateStore(w http.ResponseWriter, r *http.Request) {
	uid, err := strconv.ParseInt(chi.URLParam(r, "uid"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid uid", http.StatusBadRequest)
		return
	}

	var req storeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode store request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	store, err := h.service.UpdateStore(r.Context(), uid, catalog.UpdateStoreRequest{
		Name:      req.Name,
		Address:   req.Address,
		Postcode:  req.Postcode,
		Latitude:  req.Lat,
		Longitude: req.Long,
		Status:    req.Status,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	render.JSON(w, r, store)
}

// DeleteStore removes a store permanently
func (h *StoreHandler) DeleteStore(w http.ResponseWriter, r *http.Request) {
	uid, err := strconv.ParseInt(chi.URLParam(r, "uid"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid uid", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteStore(r.Context(), uid); err != nil {
		writeServiceError(w, err)
		return
	}

	render.JSON(w, r, map[string]string{"status": "deleted"})
}

// UpdateStoreStatus patches the status of a store
func (h *StoreHandler) UpdateStoreStatus(w http.ResponseWriter, r *http.Request) {
	uid, err := strconv.ParseInt(chi.URLParam(r, "uid"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid uid", http.StatusBadRequest)
		return
	}

	status := r.URL.Query().Get("status")
	if status == "" {
		http.Error(w, "status is required", http.StatusBadRequest)
		return
	}

	if err := h.service.UpdateStoreStatus(r.Context(), uid, status); err != nil {
		writeServiceError(w, err)
		return
	}

	render.JSON(w, r, map[string]string{"status": "updated"})
}
