package account

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/civicdesk/platform/internal/shared/auth"
	"github.com/civicdesk/platform/internal/shared/errors"
	"github.com/civicdesk/platform/internal/shared/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ListFilter defines filters for listing accounts
type ListFilter struct {
	Search string
	Role   auth.Role
	Page   int
	Limit  int
}

// DefaultLimit caps an account listing page when the caller gives none.
const DefaultLimit = 20

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const accountColumns = "id, name, email, password_hash, role, department, phone, created_at"

// Repository provides database operations for accounts
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new account repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Save inserts a new account
func (r *Repository) Save(ctx context.Context, a *Account) error {
	query := `
		INSERT INTO accounts (id, name, email, password_hash, role, department, phone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		a.ID, a.Name, a.Email, a.PasswordHash, a.Role, nullable(a.Department), nullable(a.Phone), a.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return errors.Validation("account already exists", map[string]string{"email": "email already registered"})
		}
		return errors.Wrap(err, "failed to save account")
	}

	return nil
}

// FindByID finds an account by ID
func (r *Repository) FindByID(ctx context.Context, id types.ID) (*Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)

	a, err := scanAccount(row)
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("account", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find account")
	}

	return a, nil
}

// FindByEmail finds an account by email
func (r *Repository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, strings.ToLower(email))

	a, err := scanAccount(row)
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("account", email)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find account")
	}

	return a, nil
}

// List returns a page of accounts and the unpaginated total
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Account, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultLimit
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	conditions := sq.And{}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		conditions = append(conditions, sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"email": pattern},
		})
	}
	if filter.Role != "" {
		conditions = append(conditions, sq.Eq{"role": filter.Role})
	}

	countQuery := psql.Select("COUNT(*)").From("accounts")
	listQuery := psql.Select(accountColumns).From("accounts").
		OrderBy("created_at DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64((filter.Page - 1) * filter.Limit))

	if len(conditions) > 0 {
		countQuery = countQuery.Where(conditions)
		listQuery = listQuery.Where(conditions)
	}

	countSQL, countArgs, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to build count query")
	}

	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "failed to count accounts")
	}

	listSQL, listArgs, err := listQuery.ToSql()
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to build list query")
	}

	rows, err := r.pool.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list accounts")
	}
	defer rows.Close()

	accounts := []Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, "failed to scan account")
		}
		accounts = append(accounts, *a)
	}

	return accounts, total, nil
}

// UpdateRole changes an account's role and department
func (r *Repository) UpdateRole(ctx context.Context, id types.ID, role auth.Role, department string) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE accounts SET role = $2, department = $3 WHERE id = $1`,
		id, role, nullable(department),
	)
	if err != nil {
		return errors.Wrap(err, "failed to update account role")
	}
	if result.RowsAffected() == 0 {
		return errors.NotFound("account", id.String())
	}

	return nil
}

// Delete removes an account
func (r *Repository) Delete(ctx context.Context, id types.ID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete account")
	}
	if result.RowsAffected() == 0 {
		return errors.NotFound("account", id.String())
	}

	return nil
}

func scanAccount(row pgx.Row) (*Account, error) {
	a := &Account{}
	var department, phone *string

	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Role, &department, &phone, &a.CreatedAt)
	if err != nil {
		return nil, err
	}

	if department != nil {
		a.Department = *department
	}
	if phone != nil {
		a.Phone = *phone
	}

	return a, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
