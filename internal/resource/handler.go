package resource

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/UBelaid/SAgency4U/internal/auth"
	"github.com/UBelaid/SAgency4U/internal/resource/entity"
)

// Handler exposes the scoped CRUD endpoints for one or more resource kinds.
// Each route method returns an http.HandlerFunc bound to a kind, so the
// router can mount the same handler for every entry in the registry.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// CreateResponse response body containing the generated record id.
type CreateResponse struct {
	ID int64 `json:"id"`
}

// List handles GET /<kind>.
func (h *Handler) List(kind entity.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := auth.UserID(r.Context())
		if !ok {
			h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "no token provided"})
			return
		}
		rows, err := h.svc.List(r.Context(), kind, ownerID)
		if err != nil {
			h.logger.Errorw("list failed", "kind", kind.Name, "err", err)
			h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch " + kind.Name})
			return
		}
		h.writeJSON(w, http.StatusOK, rows)
	}
}

// Create handles POST /<kind>.
func (h *Handler) Create(kind entity.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := auth.UserID(r.Context())
		if !ok {
			h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "no token provided"})
			return
		}
		payload, ok := h.decodePayload(w, r)
		if !ok {
			return
		}
		id, err := h.svc.Create(r.Context(), kind, ownerID, payload)
		if err != nil {
			h.writeError(w, kind, "add", err)
			return
		}
		h.writeJSON(w, http.StatusCreated, CreateResponse{ID: id})
	}
}

// Update handles PUT /<kind>/{id}.
func (h *Handler) Update(kind entity.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := auth.UserID(r.Context())
		if !ok {
			h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "no token provided"})
			return
		}
		id, ok := h.pathID(w, r)
		if !ok {
			return
		}
		payload, ok := h.decodePayload(w, r)
		if !ok {
			return
		}
		if err := h.svc.Update(r.Context(), kind, ownerID, id, payload); err != nil {
			h.writeError(w, kind, "update", err)
			return
		}
		h.writeJSON(w, http.StatusOK, map[string]string{"message": "updated"})
	}
}

// Delete handles DELETE /<kind>/{id}.
func (h *Handler) Delete(kind entity.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := auth.UserID(r.Context())
		if !ok {
			h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "no token provided"})
			return
		}
		id, ok := h.pathID(w, r)
		if !ok {
			return
		}
		if err := h.svc.Delete(r.Context(), kind, ownerID, id); err != nil {
			h.writeError(w, kind, "delete", err)
			return
		}
		h.writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
	}
}

// Refs handles the dropdown lookups (GET /purchases/products and friends),
// returning the caller's {id, name} pairs for the given kind.
func (h *Handler) Refs(kind entity.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := auth.UserID(r.Context())
		if !ok {
			h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "no token provided"})
			return
		}
		refs, err := h.svc.Refs(r.Context(), kind, ownerID)
		if err != nil {
			h.logger.Errorw("refs failed", "kind", kind.Name, "err", err)
			h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to fetch " + kind.Name})
			return
		}
		h.writeJSON(w, http.StatusOK, refs)
	}
}

func (h *Handler) decodePayload(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	payload := map[string]any{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.logger.Debugw("invalid payload", "err", err)
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return nil, false
	}
	return payload, true
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(w http.ResponseWriter, kind entity.Kind, op string, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrForbidden):
		h.writeJSON(w, http.StatusForbidden, map[string]string{"error": "unauthorized"})
	default:
		h.logger.Errorw(op+" failed", "kind", kind.Name, "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to " + op + " " + singular(kind.Name)})
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func singular(name string) string {
	if len(name) > 1 && name[len(name)-1] == 's' {
		return name[:len(name)-1]
	}
	return name
}
