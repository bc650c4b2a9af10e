package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/promptstack/console-backend/internal/domain"
)

type adminService interface {
	List(ctx context.Context, kind domain.Kind, spec domain.QuerySpec) (domain.Page, error)
	Activity(ctx context.Context, windowDays int) ([]domain.ActivityBucket, bool, error)
	Stats(ctx context.Context) (domain.Stats, error)
	Update(ctx context.Context, kind domain.Kind, id string, fields map[string]any) error
	Delete(ctx context.Context, kind domain.Kind, id string) error
	BulkDelete(ctx context.Context, kind domain.Kind, ids []string) []domain.MutationOutcome
	RecentSignups(ctx context.Context, limit int) ([]domain.Owner, error)
	OwnerEntities(ctx context.Context, ownerID string, kind domain.Kind) ([]domain.Entity, error)
}

// AdminHandler serves the admin console REST endpoints.
type AdminHandler struct {
	admin adminService
	log   *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(admin adminService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		admin: admin,
		log:   logger.With("handler", "admin"),
	}
}

// ListEntities returns one page of entities of the given kind, with owner
// info joined for content kinds.
// GET /admin/entities/{kind}?page=1&pageSize=10&sortField=createdAt&sortDir=desc&title=...&email=...&ownerId=...&isPublic=true&isAdmin=false
func (h *AdminHandler) ListEntities(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kindParam(w, r)
	if !ok {
		return
	}

	spec, err := parseQuerySpec(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.admin.List(r.Context(), kind, spec)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// activityResponse wraps the day buckets with the partial marker.
type activityResponse struct {
	Days    []domain.ActivityBucket `json:"days"`
	Partial bool                    `json:"partial,omitempty"`
}

// Activity returns dense per-day creation counts over the trailing window.
// GET /admin/activity?days=30
func (h *AdminHandler) Activity(w http.ResponseWriter, r *http.Request) {
	days := 0
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "days must be an integer")
			return
		}
		days = n
	}

	buckets, partial, err := h.admin.Activity(r.Context(), days)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, activityResponse{Days: buckets, Partial: partial})
}

// Stats returns the per-kind dashboard summary.
// GET /admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Stats(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// UpdateEntity applies a partial update to one entity.
// PATCH /admin/entities/{kind}/{id}
func (h *AdminHandler) UpdateEntity(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kindParam(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.admin.Update(r.Context(), kind, id, fields); err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// DeleteEntity deletes one entity.
// DELETE /admin/entities/{kind}/{id}
func (h *AdminHandler) DeleteEntity(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kindParam(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.admin.Delete(r.Context(), kind, id); err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// BulkDelete deletes a batch of entities, reporting a per-id outcome.
// POST /admin/entities/{kind}/bulk-delete
func (h *AdminHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kindParam(w, r)
	if !ok {
		return
	}

	var req bulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "ids must not be empty")
		return
	}

	outcomes := h.admin.BulkDelete(r.Context(), kind, req.IDs)
	writeJSON(w, http.StatusOK, map[string]any{"results": outcomes})
}

// RecentSignups returns the newest accounts created within the last week.
// GET /admin/recent-signups?limit=5
func (h *AdminHandler) RecentSignups(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	owners, err := h.admin.RecentSignups(r.Context(), limit)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if owners == nil {
		owners = []domain.Owner{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"users": owners})
}

// OwnerEntities returns all entities of one kind belonging to one owner.
// GET /admin/owners/{ownerId}/entities/{kind}
func (h *AdminHandler) OwnerEntities(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kindParam(w, r)
	if !ok {
		return
	}
	ownerID := chi.URLParam(r, "ownerId")
	if ownerID == "" {
		writeError(w, http.StatusBadRequest, "ownerId is required")
		return
	}

	entities, err := h.admin.OwnerEntities(r.Context(), ownerID, kind)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if entities == nil {
		entities = []domain.Entity{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": entities})
}

func (h *AdminHandler) kindParam(w http.ResponseWriter, r *http.Request) (domain.Kind, bool) {
	kind, err := domain.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return kind, true
}

func (h *AdminHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrUnknownKind):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &vErr):
		fields := make(map[string]string, len(vErr.Errors))
		for _, fe := range vErr.Errors {
			fields[fe.Field] = fe.Message
		}
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  vErr.Error(),
			"fields": fields,
		})
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func parseQuerySpec(r *http.Request) (domain.QuerySpec, error) {
	q := r.URL.Query()
	var spec domain.QuerySpec

	var err error
	if spec.Page, err = intParam(q.Get("page"), "page"); err != nil {
		return spec, err
	}
	if spec.PageSize, err = intParam(q.Get("pageSize"), "pageSize"); err != nil {
		return spec, err
	}

	spec.SortField = q.Get("sortField")
	switch strings.ToLower(q.Get("sortDir")) {
	case "", "desc":
		spec.SortDesc = true
	case "asc":
		spec.SortDesc = false
	default:
		return spec, errors.New("sortDir must be asc or desc")
	}

	if v := q.Get("title"); v != "" {
		spec.Filters.Title = &v
	}
	if v := q.Get("email"); v != "" {
		spec.Filters.Email = &v
	}
	if v := q.Get("ownerId"); v != "" {
		spec.Filters.OwnerID = &v
	}
	if spec.Filters.IsPublic, err = boolParam(q.Get("isPublic"), "isPublic"); err != nil {
		return spec, err
	}
	if spec.Filters.IsAdmin, err = boolParam(q.Get("isAdmin"), "isAdmin"); err != nil {
		return spec, err
	}

	return spec, nil
}

func intParam(v, name string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(name + " must be an integer")
	}
	return n, nil
}

func boolParam(v, name string) (*bool, error) {
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, errors.New(name + " must be a boolean")
	}
	return &b, nil
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
