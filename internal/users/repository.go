package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/foliohq/folio/internal/platform/httpx"
	"github.com/foliohq/folio/internal/shared"
)

var searchColumns = []string{"email", "first_name", "last_name"}

var sortColumns = map[string]string{
	"createdAt": "created_at",
	"email":     "email",
	"role":      "role",
}

// ListQuery is the pagination/filter/sort specification for user listings.
type ListQuery struct {
	Page    int
	Limit   int
	Role    string
	Search  string
	SortBy  string
	SortDir string
}

func (q ListQuery) filter() shared.Filter {
	var parts shared.And
	if q.Role != "" && q.Role != "all" {
		parts = append(parts, shared.Equals{Column: "role", Value: q.Role})
	}
	if q.Search != "" {
		parts = append(parts, shared.TextSearchOr{Columns: searchColumns, Needle: q.Search})
	}
	if len(parts) == 0 {
		return shared.None{}
	}
	return parts
}

func (q ListQuery) sortColumn() string {
	if col, ok := sortColumns[q.SortBy]; ok {
		return col
	}
	return "created_at"
}

func (q ListQuery) sortDirection() string {
	if q.SortDir == "asc" {
		return "ASC"
	}
	return "DESC"
}

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	List(ctx context.Context, q ListQuery) ([]User, int, error)
	Get(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, id string, updates map[string]any) (*User, error)
	Delete(ctx context.Context, id string) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, email, role, permissions, first_name, last_name, is_active, created_at, updated_at`

// List runs the filtered, sorted, paginated read plus the matching count.
func (r *Repository) List(ctx context.Context, q ListQuery) ([]User, int, error) {
	where, args := shared.WhereClause(q.filter())

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM users %s", where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page, limit := shared.Normalize(q.Page, q.Limit)
	offset := shared.Offset(page, limit)
	pos := len(args) + 1
	query := fmt.Sprintf(
		"SELECT %s FROM users %s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		userColumns, where, q.sortColumn(), q.sortDirection(), pos, pos+1,
	)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]User, 0, limit)
	for rows.Next() {
		var u User
		if err := scanUser(rows, &u); err != nil {
			return nil, 0, err
		}
		items = append(items, u)
	}
	return items, total, rows.Err()
}

// Get fetches a user by id.
func (r *Repository) Get(ctx context.Context, id string) (*User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1", userColumns)
	var u User
	if err := scanUser(r.pool.QueryRow(ctx, query, id), &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Update applies only the supplied columns; updated_at is always refreshed.
func (r *Repository) Update(ctx context.Context, id string, updates map[string]any) (*User, error) {
	sets := []string{"updated_at = NOW()"}
	var args []any
	pos := 1
	for _, col := range []string{"role", "permissions", "first_name", "last_name", "is_active"} {
		if v, ok := updates[col]; ok {
			sets = append(sets, fmt.Sprintf("%s = $%d", col, pos))
			args = append(args, v)
			pos++
		}
	}
	query := fmt.Sprintf(
		"UPDATE users SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), pos, userColumns,
	)
	args = append(args, id)

	var u User
	if err := scanUser(r.pool.QueryRow(ctx, query, args...), &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Delete removes a user by id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
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

func scanUser(row rowScanner, u *User) error {
	return row.Scan(
		&u.ID, &u.Email, &u.Role, &u.Permissions,
		&u.FirstName, &u.LastName, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
}

var _ RepositoryPort = (*Repository)(nil)
