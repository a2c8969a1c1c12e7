package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = "id, tenant_id, profile_id, email, password_hash, name, tax_id, phone, active, status, created_at, updated_at"

// UserRepo implementación de UserRepository.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(&u.ID, &u.TenantID, &u.ProfileID, &u.Email, &u.PasswordHash, &u.Name, &u.TaxID, &u.Phone,
		&u.Active, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create persiste un usuario. Email repetido -> ErrConflict; perfil de otro tenant -> ErrInvalidReference.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	if err := requireTenant(u.TenantID); err != nil {
		return err
	}
	query := `
		INSERT INTO usuarios (id, tenant_id, profile_id, email, password_hash, name, tax_id, phone, active, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		u.ID, u.TenantID, u.ProfileID, u.Email, u.PasswordHash, u.Name, u.TaxID, u.Phone,
		u.Active, u.Status, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert user", err)
	}
	return nil
}

// GetByID obtiene un usuario del tenant.
func (r *UserRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.User, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, nil
	}
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM usuarios WHERE tenant_id = $1 AND id = $2`, tenantID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetByEmail obtiene un usuario por email (login).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM usuarios WHERE lower(email) = lower($1)`, email))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// Update actualiza un usuario del tenant.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	if err := requireTenant(u.TenantID); err != nil {
		return err
	}
	query := `
		UPDATE usuarios SET profile_id = $3, email = $4, password_hash = $5, name = $6, tax_id = $7,
			phone = $8, active = $9, status = $10, updated_at = $11
		WHERE tenant_id = $1 AND id = $2`
	_, err := r.q.Exec(ctx, query,
		u.TenantID, u.ID, u.ProfileID, u.Email, u.PasswordHash, u.Name, u.TaxID, u.Phone,
		u.Active, u.Status, u.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update user", err)
	}
	return nil
}

// List lista usuarios del tenant.
func (r *UserRepo) List(ctx context.Context, tenantID string, f repository.UserFilter) (*repository.Page[*entity.User], error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	where := sq.And{sq.Eq{"tenant_id": tenantID}}
	if f.Active != nil {
		where = append(where, sq.Eq{"active": *f.Active})
	}
	if f.ProfileID != "" {
		where = append(where, sq.Eq{"profile_id": f.ProfileID})
	}
	if f.Status != "" {
		where = append(where, sq.Eq{"status": f.Status})
	}
	if s := searchClause(f.Search, "name", "email", "tax_id"); s != nil {
		where = append(where, s)
	}
	count := psql.Select("count(*)").From("usuarios").Where(where)
	page := paginate(psql.Select(userColumns).From("usuarios").Where(where).OrderBy("name", "id"), f.ListParams)

	out := &repository.Page[*entity.User]{Items: []*entity.User{}}
	total, err := countAndPage(ctx, r.q, count, page, func(rows pgx.Rows) error {
		for rows.Next() {
			u, err := scanUser(rows)
			if err != nil {
				return fmt.Errorf("scan user: %w", err)
			}
			out.Items = append(out.Items, u)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out.Total = total
	return out, nil
}

// CountActive cuenta los usuarios activos del tenant.
func (r *UserRepo) CountActive(ctx context.Context, tenantID string) (int, error) {
	if err := requireTenant(tenantID); err != nil {
		return 0, err
	}
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM usuarios WHERE tenant_id = $1 AND active`, tenantID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active users: %w", err)
	}
	return n, nil
}
