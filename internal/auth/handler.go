package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/foliohq/folio/internal/platform/httpx"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger     *slog.Logger
	service    *Service
	validator  *validator.Validate
	cookieName string
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, cookieName string) *Handler {
	return &Handler{
		logger:     logger,
		service:    service,
		validator:  validator.New(),
		cookieName: cookieName,
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
}

// registerRequest carries no role: public registration always creates
// viewer accounts, elevation goes through the admin user update.
type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"omitempty,max=100"`
	LastName  string `json:"lastName" validate:"omitempty,max=100"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type identityView struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	FirstName   string   `json:"firstName,omitempty"`
	LastName    string   `json:"lastName,omitempty"`
}

type sessionView struct {
	User  identityView `json:"user"`
	Token string       `json:"token"`
}

func viewOf(id Identity) identityView {
	return identityView{
		ID:          id.ID,
		Email:       id.Email,
		Role:        id.Role,
		Permissions: id.Permissions,
		FirstName:   id.FirstName,
		LastName:    id.LastName,
	}
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSON(w, http.StatusBadRequest, httpx.Envelope{Success: false, Error: "malformed request body"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.JSON(w, http.StatusBadRequest, httpx.Envelope{Success: false, Error: "invalid registration payload"})
		return
	}
	identity, token, err := h.service.Register(r.Context(), RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		switch {
		case errors.Is(err, httpx.ErrDuplicate):
			httpx.JSON(w, http.StatusConflict, httpx.Envelope{Success: false, Error: "email already registered"})
		case errors.Is(err, httpx.ErrValidation):
			httpx.JSON(w, http.StatusBadRequest, httpx.Envelope{Success: false, Error: "invalid registration payload"})
		default:
			h.logger.Error("register", slog.Any("error", err))
			httpx.JSON(w, http.StatusInternalServerError, httpx.Envelope{Success: false, Error: "internal server error"})
		}
		return
	}
	httpx.JSON(w, http.StatusCreated, httpx.Envelope{Success: true, Data: sessionView{User: viewOf(identity), Token: token}})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}
	identity, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			httpx.Error(w, http.StatusUnauthorized, ErrInvalidCredentials.Error())
			return
		}
		h.logger.Error("login", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	httpx.JSON(w, http.StatusOK, sessionView{User: viewOf(identity), Token: token})
}

// handleLogout acknowledges the logout. Tokens are client-held, so absent a
// revocation list there is nothing to destroy server-side.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	raw, _ := ExtractToken(r, h.cookieName)
	if err := h.service.Logout(r.Context(), raw); err != nil {
		h.logger.Warn("revoke token", slog.Any("error", err))
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleVerify reports the identity carried by the presented token. Mounted
// behind RequireAuth, so reaching it implies a valid credential.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"valid": true, "user": viewOf(identity)})
}
