package audit

import (
	"context"
	"net/http"

	"github.com/frahmantamala/inventory-management/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context) ([]LogResponse, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// GetLogs handles GET /api/logs
func (h *Handler) GetLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, logs)
}
