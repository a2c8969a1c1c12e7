package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Logistica-api/internal/domain/access"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

var _ repository.ProfileRepository = (*ProfileRepo)(nil)

const profileColumns = "id, tenant_id, name, description, type, active, created_at, updated_at"

// ProfileRepo implementación de ProfileRepository.
type ProfileRepo struct {
	q Querier
}

// NewProfileRepository construye el adaptador.
func NewProfileRepository(q Querier) *ProfileRepo {
	return &ProfileRepo{q: q}
}

func scanProfile(row pgx.Row) (*entity.Profile, error) {
	var p entity.Profile
	if err := row.Scan(&p.ID, &p.TenantID, &p.Name, &p.Description, &p.Type, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un perfil.
func (r *ProfileRepo) Create(ctx context.Context, p *entity.Profile) error {
	if err := requireTenant(p.TenantID); err != nil {
		return err
	}
	query := `
		INSERT INTO perfiles (id, tenant_id, name, description, type, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, p.ID, p.TenantID, p.Name, p.Description, p.Type, p.Active, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return mapWriteError("insert profile", err)
	}
	return nil
}

// GetByID obtiene un perfil del tenant.
func (r *ProfileRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Profile, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, nil
	}
	p, err := scanProfile(r.q.QueryRow(ctx, `SELECT `+profileColumns+` FROM perfiles WHERE tenant_id = $1 AND id = $2`, tenantID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// Update actualiza un perfil del tenant.
func (r *ProfileRepo) Update(ctx context.Context, p *entity.Profile) error {
	if err := requireTenant(p.TenantID); err != nil {
		return err
	}
	query := `
		UPDATE perfiles SET name = $3, description = $4, type = $5, active = $6, updated_at = $7
		WHERE tenant_id = $1 AND id = $2`
	if _, err := r.q.Exec(ctx, query, p.TenantID, p.ID, p.Name, p.Description, p.Type, p.Active, p.UpdatedAt); err != nil {
		return mapWriteError("update profile", err)
	}
	return nil
}

// List lista perfiles del tenant.
func (r *ProfileRepo) List(ctx context.Context, tenantID string, f repository.ProfileFilter) (*repository.Page[*entity.Profile], error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	where := sq.And{sq.Eq{"tenant_id": tenantID}}
	if f.Active != nil {
		where = append(where, sq.Eq{"active": *f.Active})
	}
	if f.Type != "" {
		where = append(where, sq.Eq{"type": f.Type})
	}
	if s := searchClause(f.Search, "name", "description"); s != nil {
		where = append(where, s)
	}
	count := psql.Select("count(*)").From("perfiles").Where(where)
	page := paginate(psql.Select(profileColumns).From("perfiles").Where(where).OrderBy("name", "id"), f.ListParams)

	out := &repository.Page[*entity.Profile]{Items: []*entity.Profile{}}
	total, err := countAndPage(ctx, r.q, count, page, func(rows pgx.Rows) error {
		for rows.Next() {
			p, err := scanProfile(rows)
			if err != nil {
				return fmt.Errorf("scan profile: %w", err)
			}
			out.Items = append(out.Items, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	out.Total = total
	return out, nil
}

// ReplaceRoles borra los vínculos del perfil e inserta los nuevos. Debe correr en una tx:
// las claves foráneas compuestas rechazan roles de otro tenant (ErrInvalidReference).
func (r *ProfileRepo) ReplaceRoles(ctx context.Context, tenantID, profileID string, roleIDs []string) error {
	if err := requireTenant(tenantID); err != nil {
		return err
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM perfil_roles WHERE tenant_id = $1 AND profile_id = $2`, tenantID, profileID); err != nil {
		return fmt.Errorf("delete profile roles: %w", err)
	}
	if len(roleIDs) == 0 {
		return nil
	}
	now := time.Now().UTC()
	ins := psql.Insert("perfil_roles").Columns("id", "tenant_id", "profile_id", "role_id", "created_at")
	seen := make(map[string]struct{}, len(roleIDs))
	for _, id := range roleIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ins = ins.Values(uuid.New().String(), tenantID, profileID, id, now)
	}
	sql, args, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build profile roles: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return mapWriteError("insert profile roles", err)
	}
	return nil
}

// ListRoles roles vinculados al perfil (activos o no), en orden de UI.
func (r *ProfileRepo) ListRoles(ctx context.Context, tenantID, profileID string) ([]*entity.Role, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	query := `
		SELECT ` + prefixed("r", roleColumns) + `
		FROM perfil_roles pr
		JOIN roles r ON r.tenant_id = pr.tenant_id AND r.id = pr.role_id
		WHERE pr.tenant_id = $1 AND pr.profile_id = $2
		ORDER BY r.sort_order, r.code`
	rows, err := r.q.Query(ctx, query, tenantID, profileID)
	if err != nil {
		return nil, fmt.Errorf("list profile roles: %w", err)
	}
	defer rows.Close()
	list := []*entity.Role{}
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		list = append(list, role)
	}
	return list, rows.Err()
}

// Grants pares (módulo, acción) distintos de los roles activos del perfil.
func (r *ProfileRepo) Grants(ctx context.Context, tenantID, profileID string) ([]access.Grant, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	if !validID(profileID) {
		return nil, nil
	}
	query := `
		SELECT DISTINCT r.module, r.action
		FROM perfil_roles pr
		JOIN roles r ON r.tenant_id = pr.tenant_id AND r.id = pr.role_id
		WHERE pr.tenant_id = $1 AND pr.profile_id = $2 AND r.active`
	rows, err := r.q.Query(ctx, query, tenantID, profileID)
	if err != nil {
		return nil, fmt.Errorf("grants: %w", err)
	}
	defer rows.Close()
	var grants []access.Grant
	for rows.Next() {
		var g access.Grant
		if err := rows.Scan(&g.Module, &g.Action); err != nil {
			return nil, fmt.Errorf("scan grant: %w", err)
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}
