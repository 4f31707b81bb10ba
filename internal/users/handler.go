package users

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/foliohq/folio/internal/auth"
	"github.com/foliohq/folio/internal/platform/httpx"
	"github.com/foliohq/folio/internal/shared"
)

// Handler wires HTTP endpoints for user administration.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers user admin routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
}

type userView struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions"`
	FirstName   string    `json:"firstName,omitempty"`
	LastName    string    `json:"lastName,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type listResponse struct {
	Users      []userView        `json:"users"`
	Pagination shared.Pagination `json:"pagination"`
}

func viewOf(u User) userView {
	return userView{
		ID:          u.ID,
		Email:       u.Email,
		Role:        u.Role,
		Permissions: u.Permissions,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := ListQuery{
		Page:    intQuery(r, "page", 1),
		Limit:   intQuery(r, "limit", shared.DefaultPerPage),
		Role:    r.URL.Query().Get("role"),
		Search:  r.URL.Query().Get("search"),
		SortBy:  r.URL.Query().Get("sortBy"),
		SortDir: r.URL.Query().Get("sortDir"),
	}
	items, pagination, err := h.service.List(r.Context(), q)
	if err != nil {
		h.respondServiceError(w, "list users", err)
		return
	}
	views := make([]userView, len(items))
	for i, u := range items {
		views[i] = viewOf(u)
	}
	httpx.JSON(w, http.StatusOK, listResponse{Users: views, Pagination: pagination})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondServiceError(w, "get user", err)
		return
	}
	httpx.JSON(w, http.StatusOK, viewOf(*u))
}

type updateRequest struct {
	Role        *string   `json:"role"`
	Permissions *[]string `json:"permissions"`
	FirstName   *string   `json:"firstName"`
	LastName    *string   `json:"lastName"`
	IsActive    *bool     `json:"isActive"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	u, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), UpdateInput{
		Role:        req.Role,
		Permissions: req.Permissions,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		IsActive:    req.IsActive,
	})
	if err != nil {
		h.respondServiceError(w, "update user", err)
		return
	}
	httpx.JSON(w, http.StatusOK, viewOf(*u))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requester, _ := auth.IdentityFromContext(r.Context())
	if err := h.service.Delete(r.Context(), requester.ID, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, httpx.ErrValidation) {
			httpx.Error(w, http.StatusBadRequest, "cannot delete this account")
			return
		}
		h.respondServiceError(w, "delete user", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

func (h *Handler) respondServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, httpx.ErrValidation):
		httpx.Error(w, http.StatusBadRequest, "invalid request")
	case errors.Is(err, httpx.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "user not found")
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "internal server error")
	}
}

func intQuery(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
