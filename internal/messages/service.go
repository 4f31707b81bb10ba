package messages

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/foliohq/folio/internal/platform/httpx"
	"github.com/foliohq/folio/internal/shared"
)

// Notifier announces new messages to the back office. Implementations must
// not block the request path on delivery.
type Notifier interface {
	MessageReceived(ctx context.Context, m Message) error
}

// Service handles contact-message business logic.
type Service struct {
	repo     Repository
	notifier Notifier
	logger   *slog.Logger
}

// NewService builds a Service instance. notifier may be nil.
func NewService(repo Repository, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, logger: logger}
}

// CreateInput carries the public contact-form fields.
type CreateInput struct {
	Name    string
	Email   string
	Subject string
	Body    string
}

// Create stores a new message and enqueues the notification. A failed
// enqueue is logged, never surfaced to the sender.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Message, error) {
	now := time.Now().UTC()
	m := &Message{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		Subject:   strings.TrimSpace(input.Subject),
		Body:      input.Body,
		Status:    StatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	if s.notifier != nil {
		if err := s.notifier.MessageReceived(ctx, *m); err != nil && s.logger != nil {
			s.logger.Warn("enqueue message notification", slog.Any("error", err))
		}
	}
	return m, nil
}

// List validates the query and returns the page plus pagination metadata.
func (s *Service) List(ctx context.Context, q ListQuery) ([]Message, shared.Pagination, error) {
	if q.Status != "" && q.Status != StatusAll && !ValidStatus(q.Status) {
		return nil, shared.Pagination{}, httpx.ErrValidation
	}
	if q.SortDir != "" && q.SortDir != "asc" && q.SortDir != "desc" {
		return nil, shared.Pagination{}, httpx.ErrValidation
	}
	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	page, limit := shared.Normalize(q.Page, q.Limit)
	return items, shared.NewPagination(page, limit, total), nil
}

// UpdateInput carries the admin-mutable fields; nil means untouched.
type UpdateInput struct {
	Status *string
	Notes  *string
}

// Update applies only the supplied fields to the message. A transition to
// responded stamps the response timestamp.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*Message, error) {
	if id == "" {
		return nil, httpx.ErrValidation
	}
	updates := make(map[string]any)
	if input.Status != nil {
		if !ValidStatus(*input.Status) {
			return nil, httpx.ErrValidation
		}
		updates["status"] = *input.Status
		if *input.Status == StatusResponded {
			updates["responded_at"] = time.Now().UTC()
		}
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}
	return s.repo.Update(ctx, id, updates)
}

// Delete removes a message unconditionally.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return httpx.ErrValidation
	}
	return s.repo.Delete(ctx, id)
}
