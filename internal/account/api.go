package account

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/civicdesk/platform/internal/shared/auth"
	"github.com/civicdesk/platform/internal/shared/errors"
	"github.com/civicdesk/platform/internal/shared/types"
	"github.com/go-chi/chi/v5"
)

// Handler provides HTTP handlers for account management
type Handler struct {
	service *Service
}

// NewHandler creates an account handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes registers the account management routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Put("/{id}/role", h.UpdateRole)
	r.Delete("/{id}", h.Delete)

	return r
}

// List handles GET / with search, role filter, and pagination
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetActor(r.Context())

	filter := ListFilter{
		Search: r.URL.Query().Get("search"),
		Role:   auth.Role(r.URL.Query().Get("role")),
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", DefaultLimit),
	}

	result, err := h.service.List(r.Context(), actor, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// UpdateRole handles PUT /{id}/role
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetActor(r.Context())

	id, err := types.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid account id"))
		return
	}

	var req struct {
		Role       string `json:"role"`
		Department string `json:"department"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	updated, err := h.service.UpdateRole(r.Context(), actor, id, auth.Role(req.Role), req.Department)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "User role updated successfully",
		"user":    updated,
	})
}

// Delete handles DELETE /{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetActor(r.Context())

	id, err := types.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid account id"))
		return
	}

	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

// --- Helpers ---

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	if appErr, ok := err.(*errors.AppError); ok {
		w.WriteHeader(appErr.HTTPStatus)
		json.NewEncoder(w).Encode(map[string]any{
			"error":   appErr.Message,
			"code":    appErr.Code,
			"details": appErr.Details,
		})
		return
	}

	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
}
