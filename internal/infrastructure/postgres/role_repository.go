package postgres

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

var _ repository.RoleRepository = (*RoleRepo)(nil)

const roleColumns = "id, tenant_id, code, name, description, module, action, sort_order, visible, active, created_at, updated_at"

// RoleRepo implementación de RoleRepository.
type RoleRepo struct {
	q Querier
}

// NewRoleRepository construye el adaptador.
func NewRoleRepository(q Querier) *RoleRepo {
	return &RoleRepo{q: q}
}

// prefixed antepone el alias de tabla a una lista de columnas.
func prefixed(alias, cols string) string {
	parts := strings.Split(cols, ", ")
	for i, c := range parts {
		parts[i] = alias + "." + c
	}
	return strings.Join(parts, ", ")
}

func scanRole(row pgx.Row) (*entity.Role, error) {
	var r entity.Role
	err := row.Scan(&r.ID, &r.TenantID, &r.Code, &r.Name, &r.Description, &r.Module, &r.Action,
		&r.Order, &r.Visible, &r.Active, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Create persiste un rol. Código repetido en el tenant -> ErrConflict.
func (r *RoleRepo) Create(ctx context.Context, role *entity.Role) error {
	if err := requireTenant(role.TenantID); err != nil {
		return err
	}
	query := `
		INSERT INTO roles (id, tenant_id, code, name, description, module, action, sort_order, visible, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		role.ID, role.TenantID, role.Code, role.Name, role.Description, role.Module, role.Action,
		role.Order, role.Visible, role.Active, role.CreatedAt, role.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert role", err)
	}
	return nil
}

// GetByID obtiene un rol del tenant.
func (r *RoleRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Role, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, nil
	}
	role, err := scanRole(r.q.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE tenant_id = $1 AND id = $2`, tenantID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get role: %w", err)
	}
	return role, nil
}

// GetByCode obtiene un rol del tenant por código.
func (r *RoleRepo) GetByCode(ctx context.Context, tenantID, code string) (*entity.Role, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	role, err := scanRole(r.q.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE tenant_id = $1 AND code = $2`, tenantID, code))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get role by code: %w", err)
	}
	return role, nil
}

// Update actualiza un rol del tenant.
func (r *RoleRepo) Update(ctx context.Context, role *entity.Role) error {
	if err := requireTenant(role.TenantID); err != nil {
		return err
	}
	query := `
		UPDATE roles SET code = $3, name = $4, description = $5, module = $6, action = $7, sort_order = $8,
			visible = $9, active = $10, updated_at = $11
		WHERE tenant_id = $1 AND id = $2`
	_, err := r.q.Exec(ctx, query,
		role.TenantID, role.ID, role.Code, role.Name, role.Description, role.Module, role.Action,
		role.Order, role.Visible, role.Active, role.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update role", err)
	}
	return nil
}

// List lista roles del tenant en orden de UI.
func (r *RoleRepo) List(ctx context.Context, tenantID string, f repository.RoleFilter) (*repository.Page[*entity.Role], error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	where := sq.And{sq.Eq{"tenant_id": tenantID}}
	if f.Active != nil {
		where = append(where, sq.Eq{"active": *f.Active})
	}
	if f.Module != "" {
		where = append(where, sq.Eq{"module": f.Module})
	}
	if f.Action != "" {
		where = append(where, sq.Eq{"action": f.Action})
	}
	if s := searchClause(f.Search, "code", "name"); s != nil {
		where = append(where, s)
	}
	count := psql.Select("count(*)").From("roles").Where(where)
	page := paginate(psql.Select(roleColumns).From("roles").Where(where).OrderBy("sort_order", "code"), f.ListParams)

	out := &repository.Page[*entity.Role]{Items: []*entity.Role{}}
	total, err := countAndPage(ctx, r.q, count, page, func(rows pgx.Rows) error {
		for rows.Next() {
			role, err := scanRole(rows)
			if err != nil {
				return fmt.Errorf("scan role: %w", err)
			}
			out.Items = append(out.Items, role)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	out.Total = total
	return out, nil
}

// CountByIDs cuenta cuántos de los ids (sin repetir) pertenecen al tenant.
func (r *RoleRepo) CountByIDs(ctx context.Context, tenantID string, ids []string) (int, error) {
	if err := requireTenant(tenantID); err != nil {
		return 0, err
	}
	ids = validIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	var n int
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM roles WHERE tenant_id = $1 AND id = ANY($2::uuid[])`, tenantID, ids).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count roles: %w", err)
	}
	return n, nil
}
