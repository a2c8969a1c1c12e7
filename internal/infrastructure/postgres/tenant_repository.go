package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

var _ repository.TenantRepository = (*TenantRepo)(nil)

const tenantColumns = "id, name, tax_id, contact, email, phone, type, active, created_at, updated_at"

// TenantRepo implementación de TenantRepository (usable con pool o tx).
type TenantRepo struct {
	q Querier
}

// NewTenantRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTenantRepository(q Querier) *TenantRepo {
	return &TenantRepo{q: q}
}

func scanTenant(row pgx.Row) (*entity.Tenant, error) {
	var t entity.Tenant
	err := row.Scan(&t.ID, &t.Name, &t.TaxID, &t.Contact, &t.Email, &t.Phone, &t.Type, &t.Active, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create persiste un nuevo tenant. El RUT repetido devuelve ErrConflict.
func (r *TenantRepo) Create(ctx context.Context, t *entity.Tenant) error {
	query := `
		INSERT INTO tenants (id, name, tax_id, contact, email, phone, type, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.Name, t.TaxID, t.Contact, t.Email, t.Phone, t.Type, t.Active, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert tenant", err)
	}
	return nil
}

// GetByID obtiene un tenant por ID. (nil, nil) si no existe.
func (r *TenantRepo) GetByID(ctx context.Context, id string) (*entity.Tenant, error) {
	if !validID(id) {
		return nil, nil
	}
	t, err := scanTenant(r.q.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return t, nil
}

// LockByID obtiene el tenant con SELECT ... FOR UPDATE. Solo tiene efecto dentro de una transacción.
func (r *TenantRepo) LockByID(ctx context.Context, id string) (*entity.Tenant, error) {
	if !validID(id) {
		return nil, nil
	}
	t, err := scanTenant(r.q.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock tenant: %w", err)
	}
	return t, nil
}

// GetByTaxID obtiene un tenant por RUT normalizado.
func (r *TenantRepo) GetByTaxID(ctx context.Context, taxID string) (*entity.Tenant, error) {
	t, err := scanTenant(r.q.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE upper(tax_id) = upper($1)`, taxID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant by tax_id: %w", err)
	}
	return t, nil
}

// Update actualiza datos y estado del tenant.
func (r *TenantRepo) Update(ctx context.Context, t *entity.Tenant) error {
	query := `
		UPDATE tenants SET name = $2, tax_id = $3, contact = $4, email = $5, phone = $6, type = $7,
			active = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.Name, t.TaxID, t.Contact, t.Email, t.Phone, t.Type, t.Active, t.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update tenant", err)
	}
	return nil
}

// List lista tenants con filtros y paginación.
func (r *TenantRepo) List(ctx context.Context, f repository.TenantFilter) (*repository.Page[*entity.Tenant], error) {
	where := sq.And{}
	if f.Active != nil {
		where = append(where, sq.Eq{"active": *f.Active})
	}
	if f.Type != "" {
		where = append(where, sq.Eq{"type": f.Type})
	}
	if s := searchClause(f.Search, "name", "tax_id", "email"); s != nil {
		where = append(where, s)
	}
	count := psql.Select("count(*)").From("tenants").Where(where)
	page := paginate(psql.Select(tenantColumns).From("tenants").Where(where).OrderBy("name", "id"), f.ListParams)

	out := &repository.Page[*entity.Tenant]{Items: []*entity.Tenant{}}
	total, err := countAndPage(ctx, r.q, count, page, func(rows pgx.Rows) error {
		for rows.Next() {
			t, err := scanTenant(rows)
			if err != nil {
				return fmt.Errorf("scan tenant: %w", err)
			}
			out.Items = append(out.Items, t)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	out.Total = total
	return out, nil
}
