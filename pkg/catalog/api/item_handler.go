package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/daehwan-lim/menu-catalog/pkg/catalog"
)

// defaultPageLimit is applied when the list query carries no limit
const defaultPageLimit = 10

// maxAttachmentMemory caps the in-memory portion of multipart parsing
const maxAttachmentMemory = 10 << 20 // 10 MiB

// ItemHandler handles HTTP requests for one catalog item kind. The
// same handler serves /materials and /vegetables; the bound Kind
// decides event behavior inside the service.
type ItemHandler struct {
	service catalog.Service
	kind    catalog.Kind
}

// NewItemHandler creates a new item handler bound to a kind
func NewItemHandler(service catalog.Service, kind catalog.Kind) *ItemHandler {
	return &ItemHandler{service: service, kind: kind}
}

// Routes returns the routes for one item kind
func (h *ItemHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/list", h.ListItems)
	r.Post("/", h.CreateItem)
	r.Get("/{name}", h.GetItem)
	r.Get("/{name}/img", h.DownloadAttachment)
	r.Put("/{name}", h.UpdateItem)
	r.Delete("/{name}", h.DeleteItem)
	r.Patch("/{uid}/status", h.UpdateItemStatus)

	return r
}

// ListItems returns one cursor page of items
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	limit, lastUID, err := parsePageQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	page, err := h.service.ListItems(r.Context(), h.kind, catalog.PageRequest{Limit: limit, LastUID: lastUID})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	render.JSON(w, r, page)
}

// GetItem returns one item by name
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	item, err := h.service.GetItem(r.Context(), h.kind, name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	render.JSON(w, r, item)
}

// CreateItem creates a new item from a multipart form. Form fields:
// name, calorie, price, status, and an optional file field "img".
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	fields, attachment, cleanup, err := parseItemForm(r)
	if err != nil {
		slog.Error("Failed to parse item form", "kind", h.kind.Name, "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer cleanup()

	item, err := h.service.CreateItem(r.Context(), h.kind, catalog.CreateItemRequest{
		Name:       fields.name,
		Calorie:    fields.calorie,
		Price:      fields.price,
		Status:     fields.status,
		Attachment: attachment,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, item)
}

// UpdateItem edits an existing item, optionally replacing its attachment
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	fields, attachment, cleanup, err := parseItemForm(r)
	if err != nil {
		slog.Error("Failed to parse item form", "kind", h.kind.Name, "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer cleanup()

	item, err := h.service.UpdateItem(r.Context(), h.kind, name, catalog.UpdateItemRequest{
		Name:       fields.name,
		Calorie:    fields.calorie,
		Price:      fields.price,
		Status:     fields.status,
		Attachment: attachment,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	render.JSON(w, r, item)
}

// DeleteItem soft-deletes an item by name
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := h.service.DeleteItem(r.Context(), h.kind, name); err != nil {
		writeServiceError(w, err)
		return
	}

	render.JSON(w, r, map[string]string{"status": "deleted"})
}

// UpdateItemStatus patches the status of an item by uid
func (h *ItemHandler) UpdateItemStatus(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.UpdateItemStatus(r.Context(), h.kind, uid, status); err != nil {
		writeServiceError(w, err)
		return
	}

	render.JSON(w, r, map[string]string{"status": "updated"})
}

// DownloadAttachment streams the item's image
func (h *ItemHandler) DownloadAttachment(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	reader, err := h.service.DownloadAttachment(r.Context(), h.kind, name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := io.Copy(w, reader); err != nil {
		slog.Error("Failed to stream attachment", "kind", h.kind.Name, "name", name, "error", err)
	}
}

type itemFormFields struct {
	name    string
	calorie float64
	price   int
	status  string
}

// parseItemForm reads the multipart mutation form. The returned
// cleanup closes the uploaded file when one was sent.
func parseItemForm(r *http.Request) (itemFormFields, *catalog.Attachment, func(), error) {
	cleanup := func() {}

	if err := r.ParseMultipartForm(maxAttachmentMemory); err != nil {
		return itemFormFields{}, nil, cleanup, err
	}

	fields := itemFormFields{
		name:   r.FormValue("name"),
		status: r.FormValue("status"),
	}

	if v := r.FormValue("calorie"); v != "" {
		calorie, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return itemFormFields{}, nil, cleanup, err
		}
		fields.calorie = calorie
	}

	if v := r.FormValue("price"); v != "" {
		price, err := strconv.Atoi(v)
		if err != nil {
			return itemFormFields{}, nil, cleanup, err
		}
		fields.price = price
	}

	file, header, err := r.FormFile("img")
	if errors.Is(err, http.ErrMissingFile) {
		return fields, nil, cleanup, nil
	}
	if err != nil {
		return itemFormFields{}, nil, cleanup, err
	}

	attachment := &catalog.Attachment{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        file,
	}
	return fields, attachment, func() { file.Close() }, nil
}

func parsePageQuery(r *http.Request) (int, *int64, error) {
	limit := defaultPageLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return 0, nil, errors.New("invalid limit")
		}
		limit = parsed
	}

	var lastUID *int64
	if v := r.URL.Query().Get("lastUid"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, nil, errors.New("invalid lastUid")
		}
		lastUID = &parsed
	}

	return limit, lastUID, nil
}

// writeServiceError maps service errors onto HTTP status codes
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrItemNotFound),
		errors.Is(err, catalog.ErrStoreNotFound),
		errors.Is(err, catalog.ErrNoAttachment):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, catalog.ErrItemExists),
		errors.Is(err, catalog.ErrStoreExists):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, catalog.ErrInvalidStatus),
		errors.Is(err, catalog.ErrInvalidLimit):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("Catalog operation failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
