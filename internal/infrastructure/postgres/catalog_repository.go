package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

var catalogTables = map[entity.CatalogKind]string{
	entity.CatalogCargoTypes:   "tipos_carga",
	entity.CatalogServiceTypes: "tipos_servicio",
	entity.CatalogEquipment:    "equipos",
}

const catalogColumns = "id, tenant_id, code, name, active, created_at, updated_at"

// CatalogRepo implementación de CatalogRepository (una tabla por catálogo).
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador.
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

func catalogTable(kind entity.CatalogKind) (string, error) {
	t, ok := catalogTables[kind]
	if !ok {
		return "", fmt.Errorf("catálogo %q: %w", kind, domain.ErrNotFound)
	}
	return t, nil
}

func scanCatalogItem(kind entity.CatalogKind, row pgx.Row) (*entity.CatalogItem, error) {
	var it entity.CatalogItem
	if err := row.Scan(&it.ID, &it.TenantID, &it.Code, &it.Name, &it.Active, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	it.Kind = kind
	return &it, nil
}

// Create persiste un ítem. Código repetido en el tenant -> ErrConflict.
func (r *CatalogRepo) Create(ctx context.Context, it *entity.CatalogItem) error {
	if err := requireTenant(it.TenantID); err != nil {
		return err
	}
	table, err := catalogTable(it.Kind)
	if err != nil {
		return err
	}
	query := `INSERT INTO ` + table + ` (id, tenant_id, code, name, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.q.Exec(ctx, query, it.ID, it.TenantID, it.Code, it.Name, it.Active, it.CreatedAt, it.UpdatedAt); err != nil {
		return mapWriteError("insert "+table, err)
	}
	return nil
}

// GetByID obtiene un ítem del tenant.
func (r *CatalogRepo) GetByID(ctx context.Context, tenantID string, kind entity.CatalogKind, id string) (*entity.CatalogItem, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	table, err := catalogTable(kind)
	if err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, nil
	}
	it, err := scanCatalogItem(kind, r.q.QueryRow(ctx,
		`SELECT `+catalogColumns+` FROM `+table+` WHERE tenant_id = $1 AND id = $2`, tenantID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", table, err)
	}
	return it, nil
}

// List lista los ítems del catálogo del tenant.
func (r *CatalogRepo) List(ctx context.Context, tenantID string, kind entity.CatalogKind, f repository.CatalogFilter) (*repository.Page[*entity.CatalogItem], error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	table, err := catalogTable(kind)
	if err != nil {
		return nil, err
	}
	where := sq.And{sq.Eq{"tenant_id": tenantID}}
	if f.Active != nil {
		where = append(where, sq.Eq{"active": *f.Active})
	}
	if s := searchClause(f.Search, "code", "name"); s != nil {
		where = append(where, s)
	}
	count := psql.Select("count(*)").From(table).Where(where)
	page := paginate(psql.Select(catalogColumns).From(table).Where(where).OrderBy("name", "id"), f.ListParams)

	out := &repository.Page[*entity.CatalogItem]{Items: []*entity.CatalogItem{}}
	total, err := countAndPage(ctx, r.q, count, page, func(rows pgx.Rows) error {
		for rows.Next() {
			it, err := scanCatalogItem(kind, rows)
			if err != nil {
				return fmt.Errorf("scan %s: %w", table, err)
			}
			out.Items = append(out.Items, it)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	out.Total = total
	return out, nil
}
