package complaint

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/civicdesk/platform/internal/classify"
	"github.com/civicdesk/platform/internal/shared/auth"
	"github.com/civicdesk/platform/internal/shared/errors"
	"github.com/civicdesk/platform/internal/shared/types"
	"github.com/go-chi/chi/v5"
)

// Handler provides HTTP handlers for complaint operations
type Handler struct {
	service *Service
}

// NewHandler creates a complaint handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CitizenRoutes registers the citizen-facing complaint routes
func (h *Handler) CitizenRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.UpdateOwn)
	r.Delete("/{id}", h.DeleteOwn)

	return r
}

// AdminRoutes registers the staff and admin complaint routes
func (h *Handler) AdminRoutes() chi.Router {
	r := chi.NewRouter()

	// Staff may list within their department scope
	r.With(auth.RequireRoles(auth.RoleStaff, auth.RoleAdmin, auth.RoleSuperAdmin)).
		Get("/complaints", h.List)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRoles(auth.RoleAdmin, auth.RoleSuperAdmin))

		r.Put("/complaints/{id}/update", h.Update)
		r.Put("/complaints/{id}/status", h.Update)
		r.Delete("/complaints/{id}", h.DeleteAny)
		r.Get("/analytics", h.Analytics)
		r.Post("/generate-reply", h.GenerateReply)
	})

	return r
}

// Create handles POST / for new complaints
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetActor(r.Context())

	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	c, err := h.service.Create(r.Context(), actor, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, c)
}

// Get handles GET /{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetActor(r.Context())

	id, err := types.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid complaint id"))
		return
	}

	c, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// List handles listing under the actor's scope with filters, search,
// sorting, and pagination
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetActor(r.Context())
	q := r.URL.Query()

	filter := Filter{
		Status:   Status(q.Get("status")),
		Category: classify.Category(q.Get("category")),
		Search:   q.Get("search"),
	}
	if v := q.Get("urgency"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Urgency = n
		}
	}
	if v := q.Get("assignedTo"); v != "" {
		if id, err := types.ParseID(v); err == nil {
			filter.AssignedTo = id
		}
	}

	page := Page{
		Number: queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", DefaultLimit),
	}
	sort := ParseSort(q.Get("sort"))

	result, err := h.service.List(r.Context(), actor, filter, page, sort)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Update handles the admin update of status, classification, severity,
// assignment, notes, and timeline reply
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetActor(r.Context())

	id, err := types.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid complaint id"))
		return
	}

	var patch UpdatePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	c, err := h.service.ApplyUpdate(r.Context(), actor, id, patch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Complaint updated successfully",
		"complaint": c,
	})
}

// UpdateOwn handles the citizen edit of a still-pending complaint
func (h *Handler) UpdateOwn(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetActor(r.Context())

	id, err := types.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid complaint id"))
		return
	}

	var patch OwnPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	c, err := h.service.UpdateOwn(r.Context(), actor, id, patch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// DeleteOwn handles the citizen delete of a pending complaint
func (h *Handler) DeleteOwn(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, h.service.DeleteOwn)
}

// DeleteAny handles the admin delete
func (h *Handler) DeleteAny(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, h.service.DeleteAny)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, actor auth.Actor, id types.ID) error) {
	actor := auth.GetActor(r.Context())

	id, err := types.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid complaint id"))
		return
	}

	if err := op(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Complaint deleted successfully"})
}

// Analytics handles GET /analytics
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetActor(r.Context())

	result, err := h.service.Analytics(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GenerateReply handles POST /generate-reply
func (h *Handler) GenerateReply(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetActor(r.Context())

	var req struct {
		ComplaintID string `json:"complaintId"`
		Status      string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	id, err := types.ParseID(req.ComplaintID)
	if err != nil {
		writeError(w, errors.BadRequest("invalid complaint id"))
		return
	}

	message, err := h.service.GenerateReply(r.Context(), actor, id, Status(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": message})
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
