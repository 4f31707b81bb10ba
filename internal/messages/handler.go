package messages

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/foliohq/folio/internal/platform/httpx"
	"github.com/foliohq/folio/internal/shared"
)

// Handler wires HTTP endpoints for contact messages.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

type contactRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=300"`
	Message string `json:"message" validate:"required,max=10000"`
}

type messageView struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Subject     string     `json:"subject"`
	Message     string     `json:"message"`
	Status      string     `json:"status"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	RespondedAt *time.Time `json:"respondedAt,omitempty"`
}

type listResponse struct {
	Messages   []messageView     `json:"messages"`
	Pagination shared.Pagination `json:"pagination"`
}

func viewOf(m Message) messageView {
	return messageView{
		ID:          m.ID,
		Name:        m.Name,
		Email:       m.Email,
		Subject:     m.Subject,
		Message:     m.Body,
		Status:      m.Status,
		Notes:       m.Notes,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		RespondedAt: m.RespondedAt,
	}
}

// HandleContact accepts a public contact-form submission.
func (h *Handler) HandleContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "name, email, subject and message are required")
		return
	}
	m, err := h.service.Create(r.Context(), CreateInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Body:    req.Message,
	})
	if err != nil {
		h.logger.Error("create message", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	httpx.JSON(w, http.StatusCreated, httpx.Envelope{Success: true, Data: viewOf(*m)})
}

// HandleList serves the paginated, filtered admin inbox.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := ListQuery{
		Page:    intQuery(r, "page", 1),
		Limit:   intQuery(r, "limit", shared.DefaultPerPage),
		Status:  r.URL.Query().Get("status"),
		Search:  r.URL.Query().Get("search"),
		SortBy:  r.URL.Query().Get("sortBy"),
		SortDir: r.URL.Query().Get("sortDir"),
	}
	items, pagination, err := h.service.List(r.Context(), q)
	if err != nil {
		if errors.Is(err, httpx.ErrValidation) {
			httpx.Error(w, http.StatusBadRequest, "invalid list parameters")
			return
		}
		h.logger.Error("list messages", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	views := make([]messageView, len(items))
	for i, m := range items {
		views[i] = viewOf(m)
	}
	httpx.JSON(w, http.StatusOK, listResponse{Messages: views, Pagination: pagination})
}

type updateRequest struct {
	ID     string  `json:"id"`
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

// HandleUpdate applies a partial update to a message by id.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.ID == "" {
		httpx.Error(w, http.StatusBadRequest, "message id is required")
		return
	}
	m, err := h.service.Update(r.Context(), req.ID, UpdateInput{Status: req.Status, Notes: req.Notes})
	if err != nil {
		h.respondServiceError(w, "update message", err)
		return
	}
	httpx.JSON(w, http.StatusOK, viewOf(*m))
}

// HandleDelete removes a message by the id query parameter.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		httpx.Error(w, http.StatusBadRequest, "message id is required")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, "delete message", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

func (h *Handler) respondServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, httpx.ErrValidation):
		httpx.Error(w, http.StatusBadRequest, "invalid request")
	case errors.Is(err, httpx.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "message not found")
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
