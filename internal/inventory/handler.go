package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/frahmantamala/inventory-management/internal"
	"github.com/frahmantamala/inventory-management/internal/transport"
)

const defaultMaxUploadBytes = 10 << 20

type ServiceAPI interface {
	ListItems(ctx context.Context, filter Filter) ([]ListedItemResponse, error)
	CreateItem(ctx context.Context, dto ItemDTO) (*ItemResponse, error)
	UpdateItem(ctx context.Context, id int64, dto ItemDTO) (*ItemResponse, error)
	DeleteItem(ctx context.Context, id int64) error
	ResetFromCSV(ctx context.Context, filename string, r io.Reader) (int, error)
}

type Handler struct {
	*transport.BaseHandler
	Service        ServiceAPI
	MaxUploadBytes int64
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{
		BaseHandler:    baseHandler,
		Service:        service,
		MaxUploadBytes: maxUploadBytes,
	}
}

// GetItems handles GET /api/inventory
func (h *Handler) GetItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListItems(r.Context(), FilterFromQuery(r.URL.Query()))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, items)
}

// CreateItem handles POST /api/inventory
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var dto ItemDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateItem: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Service.CreateItem(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, item)
}

// UpdateItem handles PUT /api/inventory/{id}
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto ItemDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateItem: invalid request body", "error", err, "item_id", id)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Service.UpdateItem(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, item)
}

// DeleteItem handles DELETE /api/inventory/{id}
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.DeleteItem(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, "")
}

// ResetInventory handles POST /api/inventory/reset with a multipart "file" field.
func (h *Handler) ResetInventory(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		h.Logger.Warn("ResetInventory: no file in request", "error", err)
		if _, authErr := internal.Authorize(r.Context(), internal.IsAdminOrDirector); authErr != nil {
			h.HandleServiceError(w, authErr)
			return
		}
		h.HandleServiceError(w, internal.NewValidationError("Invalid file", internal.ErrCodeInvalidFile))
		return
	}
	defer file.Close()

	count, err := h.Service.ResetFromCSV(r.Context(), header.Filename, file)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ResetResponse{
		Success: true,
		Message: fmt.Sprintf("Inventory reset with %d items.", count),
	})
}
