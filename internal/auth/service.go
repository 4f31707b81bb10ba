package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/foliohq/folio/internal/platform/httpx"
)

// ErrInvalidCredentials indicates login failure. The cause is never
// disclosed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
}

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	tokens *Tokens
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *Tokens) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// RegisterInput carries the fields accepted at account creation.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

// Register creates an account with role-default permissions and issues its
// first token. Duplicate emails (case-insensitive) yield a conflict.
func (s *Service) Register(ctx context.Context, input RegisterInput) (Identity, string, error) {
	role := input.Role
	if role == "" {
		role = RoleViewer
	}
	if !ValidRole(role) {
		return Identity{}, "", httpx.ErrValidation
	}
	hash, err := HashPassword(input.Password)
	if err != nil {
		return Identity{}, "", err
	}
	now := time.Now().UTC()
	user := &User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		Role:         role,
		Permissions:  DefaultPermissions(role),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return Identity{}, "", err
	}
	identity := user.Identity()
	token, err := s.tokens.Issue(identity)
	if err != nil {
		return Identity{}, "", err
	}
	return identity, token, nil
}

// Login validates credentials and issues a token. Every failure mode maps
// to the same ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (Identity, string, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return Identity{}, "", ErrInvalidCredentials
		}
		// Store failures are not an authentication outcome.
		return Identity{}, "", err
	}
	if !user.IsActive {
		return Identity{}, "", ErrInvalidCredentials
	}
	if !CheckPassword(password, user.PasswordHash) {
		return Identity{}, "", ErrInvalidCredentials
	}
	identity := user.Identity()
	token, err := s.tokens.Issue(identity)
	if err != nil {
		return Identity{}, "", err
	}
	return identity, token, nil
}

// Verify re-validates the presented credential.
func (s *Service) Verify(ctx context.Context, raw string) (Identity, error) {
	return s.tokens.Verify(ctx, raw)
}

// Logout acknowledges the client discarding its token. When a revocation
// list is configured the token is retired early as well.
func (s *Service) Logout(ctx context.Context, raw string) error {
	if raw == "" {
		return nil
	}
	return s.tokens.Revoke(ctx, raw)
}
