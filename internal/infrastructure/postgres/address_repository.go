package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

var _ repository.AddressRepository = (*AddressRepo)(nil)

const addressColumns = "d.id, d.tenant_id, d.comuna_id, d.text, d.reference, d.latitude, d.longitude, d.usage_count, d.origin, d.active, d.created_at, d.updated_at, " +
	"c.id, c.code, c.name, c.region_code, c.region_name"

// AddressRepo implementación de AddressRepository. Las lecturas incluyen la comuna.
type AddressRepo struct {
	q Querier
}

// NewAddressRepository construye el adaptador.
func NewAddressRepository(q Querier) *AddressRepo {
	return &AddressRepo{q: q}
}

func addressSelect(cols string) sq.SelectBuilder {
	return psql.Select(cols).From("direcciones d").Join("comunas c ON c.id = d.comuna_id")
}

func scanAddress(row pgx.Row) (*entity.Address, error) {
	var (
		a entity.Address
		c entity.Comuna
	)
	err := row.Scan(&a.ID, &a.TenantID, &a.ComunaID, &a.Text, &a.Reference, &a.Latitude, &a.Longitude, &a.UsageCount,
		&a.Origin, &a.Active, &a.CreatedAt, &a.UpdatedAt,
		&c.ID, &c.Code, &c.Name, &c.RegionCode, &c.RegionName)
	if err != nil {
		return nil, err
	}
	a.Comuna = &c
	return &a, nil
}

// Create persiste una dirección. Comuna inexistente -> ErrInvalidReference.
func (r *AddressRepo) Create(ctx context.Context, a *entity.Address) error {
	if err := requireTenant(a.TenantID); err != nil {
		return err
	}
	query := `
		INSERT INTO direcciones (id, tenant_id, comuna_id, text, reference, latitude, longitude, usage_count, origin,
			active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.TenantID, a.ComunaID, a.Text, a.Reference, a.Latitude, a.Longitude, a.UsageCount, a.Origin,
		a.Active, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert address", err)
	}
	return nil
}

// GetByID obtiene una dirección del tenant.
func (r *AddressRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Address, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, nil
	}
	sql, args, err := addressSelect(addressColumns).Where(sq.Eq{"d.tenant_id": tenantID, "d.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get address: %w", err)
	}
	a, err := scanAddress(r.q.QueryRow(ctx, sql, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get address: %w", err)
	}
	return a, nil
}

// Update actualiza una dirección del tenant.
func (r *AddressRepo) Update(ctx context.Context, a *entity.Address) error {
	if err := requireTenant(a.TenantID); err != nil {
		return err
	}
	query := `
		UPDATE direcciones SET comuna_id = $3, text = $4, reference = $5, latitude = $6, longitude = $7,
			origin = $8, active = $9, updated_at = $10
		WHERE tenant_id = $1 AND id = $2`
	_, err := r.q.Exec(ctx, query,
		a.TenantID, a.ID, a.ComunaID, a.Text, a.Reference, a.Latitude, a.Longitude, a.Origin, a.Active, a.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update address", err)
	}
	return nil
}

// List lista direcciones del tenant, las más usadas primero.
func (r *AddressRepo) List(ctx context.Context, tenantID string, f repository.AddressFilter) (*repository.Page[*entity.Address], error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	where := sq.And{sq.Eq{"d.tenant_id": tenantID}}
	if f.Active != nil {
		where = append(where, sq.Eq{"d.active": *f.Active})
	}
	if f.ComunaID > 0 {
		where = append(where, sq.Eq{"d.comuna_id": f.ComunaID})
	}
	if f.Origin != "" {
		where = append(where, sq.Eq{"d.origin": f.Origin})
	}
	if s := searchClause(f.Search, "d.text", "d.reference", "c.name"); s != nil {
		where = append(where, s)
	}
	count := addressSelect("count(*)").Where(where)
	page := paginate(addressSelect(addressColumns).Where(where).OrderBy("d.usage_count DESC", "d.text", "d.id"), f.ListParams)

	out := &repository.Page[*entity.Address]{Items: []*entity.Address{}}
	total, err := countAndPage(ctx, r.q, count, page, func(rows pgx.Rows) error {
		for rows.Next() {
			a, err := scanAddress(rows)
			if err != nil {
				return fmt.Errorf("scan address: %w", err)
			}
			out.Items = append(out.Items, a)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	out.Total = total
	return out, nil
}

// IncrementUsage suma 1 al contador de cada dirección del tenant.
func (r *AddressRepo) IncrementUsage(ctx context.Context, tenantID string, ids ...string) error {
	if err := requireTenant(tenantID); err != nil {
		return err
	}
	ids = validIDs(ids)
	if len(ids) == 0 {
		return nil
	}
	_, err := r.q.Exec(ctx,
		`UPDATE direcciones SET usage_count = usage_count + 1 WHERE tenant_id = $1 AND id = ANY($2::uuid[])`,
		tenantID, ids)
	if err != nil {
		return fmt.Errorf("increment address usage: %w", err)
	}
	return nil
}
