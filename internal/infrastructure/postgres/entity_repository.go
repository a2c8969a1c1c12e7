package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

var _ repository.EntityRepository = (*EntityRepo)(nil)

const entityColumns = "id, tenant_id, tax_id, es_persona, nombre, razon_social, type, contact, email, phone, address_id, active, created_at, updated_at"

// EntityRepo implementación de EntityRepository sobre la tabla entidades.
type EntityRepo struct {
	q Querier
}

// NewEntityRepository construye el adaptador.
func NewEntityRepository(q Querier) *EntityRepo {
	return &EntityRepo{q: q}
}

// nameColumns reparte el nombre en (es_persona, nombre, razon_social).
func nameColumns(n entity.PartyName) (bool, *string, *string) {
	switch v := n.(type) {
	case entity.Person:
		return true, &v.Name, nil
	case entity.Organization:
		return false, nil, &v.LegalName
	}
	return false, nil, nil
}

func scanEntity(row pgx.Row) (*entity.Entidad, error) {
	var (
		e               entity.Entidad
		isPerson        bool
		name, legalName *string
		addressID       *string
	)
	err := row.Scan(&e.ID, &e.TenantID, &e.TaxID, &isPerson, &name, &legalName, &e.Type, &e.Contact, &e.Email,
		&e.Phone, &addressID, &e.Active, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.Name = entity.PartyNameFromColumns(isPerson, name, legalName)
	if e.Name == nil {
		return nil, fmt.Errorf("entidad %s con nombre inconsistente", e.ID)
	}
	e.AddressID = strOrEmpty(addressID)
	return &e, nil
}

// Create persiste una entidad. RUT repetido en el tenant -> ErrConflict.
func (r *EntityRepo) Create(ctx context.Context, e *entity.Entidad) error {
	if err := requireTenant(e.TenantID); err != nil {
		return err
	}
	isPerson, name, legalName := nameColumns(e.Name)
	query := `
		INSERT INTO entidades (id, tenant_id, tax_id, es_persona, nombre, razon_social, type, contact, email, phone,
			address_id, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.TenantID, e.TaxID, isPerson, name, legalName, e.Type, e.Contact, e.Email, e.Phone,
		nullIfEmpty(e.AddressID), e.Active, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert entity", err)
	}
	return nil
}

// GetByID obtiene una entidad del tenant.
func (r *EntityRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Entidad, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, nil
	}
	e, err := scanEntity(r.q.QueryRow(ctx, `SELECT `+entityColumns+` FROM entidades WHERE tenant_id = $1 AND id = $2`, tenantID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get entity: %w", err)
	}
	return e, nil
}

// GetByTaxID obtiene una entidad del tenant por RUT normalizado.
func (r *EntityRepo) GetByTaxID(ctx context.Context, tenantID, taxID string) (*entity.Entidad, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	e, err := scanEntity(r.q.QueryRow(ctx, `SELECT `+entityColumns+` FROM entidades WHERE tenant_id = $1 AND tax_id = $2`, tenantID, taxID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get entity by tax_id: %w", err)
	}
	return e, nil
}

// Update actualiza una entidad del tenant.
func (r *EntityRepo) Update(ctx context.Context, e *entity.Entidad) error {
	if err := requireTenant(e.TenantID); err != nil {
		return err
	}
	isPerson, name, legalName := nameColumns(e.Name)
	query := `
		UPDATE entidades SET tax_id = $3, es_persona = $4, nombre = $5, razon_social = $6, type = $7, contact = $8,
			email = $9, phone = $10, address_id = $11, active = $12, updated_at = $13
		WHERE tenant_id = $1 AND id = $2`
	_, err := r.q.Exec(ctx, query,
		e.TenantID, e.ID, e.TaxID, isPerson, name, legalName, e.Type, e.Contact, e.Email, e.Phone,
		nullIfEmpty(e.AddressID), e.Active, e.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update entity", err)
	}
	return nil
}

// List lista entidades del tenant.
func (r *EntityRepo) List(ctx context.Context, tenantID string, f repository.EntityFilter) (*repository.Page[*entity.Entidad], error) {
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
	if s := searchClause(f.Search, "nombre", "razon_social", "tax_id", "contact", "email"); s != nil {
		where = append(where, s)
	}
	count := psql.Select("count(*)").From("entidades").Where(where)
	page := paginate(psql.Select(entityColumns).From("entidades").Where(where).
		OrderBy("coalesce(razon_social, nombre)", "id"), f.ListParams)

	out := &repository.Page[*entity.Entidad]{Items: []*entity.Entidad{}}
	total, err := countAndPage(ctx, r.q, count, page, func(rows pgx.Rows) error {
		for rows.Next() {
			e, err := scanEntity(rows)
			if err != nil {
				return fmt.Errorf("scan entity: %w", err)
			}
			out.Items = append(out.Items, e)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}
	out.Total = total
	return out, nil
}
