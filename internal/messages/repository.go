package messages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/foliohq/folio/internal/platform/httpx"
	"github.com/foliohq/folio/internal/shared"
)

// searchColumns is the fixed field list free-text search matches against.
var searchColumns = []string{"name", "email", "subject", "body"}

// sortColumns whitelists sortable fields; anything else falls back to the
// creation timestamp.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"name":      "name",
	"email":     "email",
	"status":    "status",
}

// Repository defines persistence operations for contact messages.
type Repository interface {
	Create(ctx context.Context, m *Message) error
	List(ctx context.Context, q ListQuery) ([]Message, int, error)
	Get(ctx context.Context, id string) (*Message, error)
	Update(ctx context.Context, id string, updates map[string]any) (*Message, error)
	Delete(ctx context.Context, id string) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const messageColumns = `id, name, email, subject, body, status, notes, created_at, updated_at, responded_at`

// Create inserts a new message.
func (r *PGRepository) Create(ctx context.Context, m *Message) error {
	const query = `
		INSERT INTO messages (id, name, email, subject, body, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		m.ID, m.Name, m.Email, m.Subject, m.Body, m.Status, m.Notes, m.CreatedAt, m.UpdatedAt,
	)
	return err
}

// List runs the filtered, sorted, paginated read plus a count of the same
// filter without pagination.
func (r *PGRepository) List(ctx context.Context, q ListQuery) ([]Message, int, error) {
	filter := q.filter()
	where, args := shared.WhereClause(filter)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM messages %s", where)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page, limit := shared.Normalize(q.Page, q.Limit)
	offset := shared.Offset(page, limit)
	pos := len(args) + 1
	query := fmt.Sprintf(
		"SELECT %s FROM messages %s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		messageColumns, where, q.sortColumn(), q.sortDirection(), pos, pos+1,
	)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]Message, 0, limit)
	for rows.Next() {
		var m Message
		if err := scanMessage(rows, &m); err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, rows.Err()
}

// Get fetches a message by id.
func (r *PGRepository) Get(ctx context.Context, id string) (*Message, error) {
	query := fmt.Sprintf("SELECT %s FROM messages WHERE id = $1", messageColumns)
	var m Message
	if err := scanMessage(r.pool.QueryRow(ctx, query, id), &m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Update applies only the supplied fields; updated_at is always refreshed.
func (r *PGRepository) Update(ctx context.Context, id string, updates map[string]any) (*Message, error) {
	sets := []string{"updated_at = NOW()"}
	var args []any
	pos := 1
	for _, col := range []string{"status", "notes", "responded_at"} {
		if v, ok := updates[col]; ok {
			sets = append(sets, fmt.Sprintf("%s = $%d", col, pos))
			args = append(args, v)
			pos++
		}
	}
	query := fmt.Sprintf(
		"UPDATE messages SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), pos, messageColumns,
	)
	args = append(args, id)

	var m Message
	if err := scanMessage(r.pool.QueryRow(ctx, query, args...), &m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Delete removes a message by id.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM messages WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner, m *Message) error {
	var respondedAt *time.Time
	if err := row.Scan(
		&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body, &m.Status, &m.Notes,
		&m.CreatedAt, &m.UpdatedAt, &respondedAt,
	); err != nil {
		return err
	}
	m.RespondedAt = respondedAt
	return nil
}

var _ Repository = (*PGRepository)(nil)
