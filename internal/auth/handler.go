package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/inventory-management/internal"
	"github.com/frahmantamala/inventory-management/internal/transport"
)

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (internal.Session, error)
	RecordLogin(ctx context.Context, sess internal.Session)
	RecordLogout(ctx context.Context)
}

// SessionStore issues and clears the client's session.
type SessionStore interface {
	Start(w http.ResponseWriter, s internal.Session) (internal.Session, error)
	Clear(w http.ResponseWriter)
}

type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	Sessions SessionStore
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI, sessions SessionStore) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
		Sessions:    sessions,
	}
}

// Login handles POST /login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteJSON(w, http.StatusBadRequest, LoginResponse{Success: false, Message: "invalid request body"})
		return
	}

	sess, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		appErr, ok := internal.IsAppError(err)
		if !ok || appErr.StatusCode >= http.StatusInternalServerError {
			h.Logger.Error("authentication failed", "error", err)
			h.WriteJSON(w, http.StatusInternalServerError, LoginResponse{Success: false, Message: "internal server error"})
			return
		}
		h.Logger.Info("authentication rejected", "code", appErr.Code)
		h.WriteJSON(w, appErr.StatusCode, LoginResponse{Success: false, Message: appErr.Message})
		return
	}

	sess, err = h.Sessions.Start(w, sess)
	if err != nil {
		h.Logger.Error("failed to start session", "error", err, "user_id", sess.UserID)
		h.WriteJSON(w, http.StatusInternalServerError, LoginResponse{Success: false, Message: "internal server error"})
		return
	}

	h.Service.RecordLogin(r.Context(), sess)
	h.Logger.Info("user logged in", "user_id", sess.UserID, "role", sess.Role)
	h.WriteJSON(w, http.StatusOK, LoginResponse{Success: true})
}

// Logout handles POST /logout. It succeeds with or without a session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Service.RecordLogout(r.Context())
	h.Sessions.Clear(w)
	h.WriteSuccess(w, "")
}

// CurrentSession handles GET /api/session
func (h *Handler) CurrentSession(w http.ResponseWriter, r *http.Request) {
	sess, err := internal.Authorize(r.Context(), internal.AnyRole)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, SessionResponse{
		UserID:   sess.UserID,
		Username: sess.Username,
		Role:     string(sess.Role),
	})
}
