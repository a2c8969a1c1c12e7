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

var _ repository.PartyRepository = (*PartyRepo)(nil)

// partyTables tabla de cada registro especializado.
var partyTables = map[entity.EntityType]string{
	entity.EntityTypeClient:  "clientes",
	entity.EntityTypeCarrier: "transportistas",
	entity.EntityTypeShipper: "embarcadores",
}

// PartyRepo implementación de PartyRepository. Las lecturas traen la entidad con un JOIN.
type PartyRepo struct {
	q Querier
}

// NewPartyRepository construye el adaptador.
func NewPartyRepository(q Querier) *PartyRepo {
	return &PartyRepo{q: q}
}

func partyTable(kind entity.EntityType) (string, error) {
	t, ok := partyTables[kind]
	if !ok {
		return "", fmt.Errorf("tipo de parte %q: %w", kind, domain.ErrInvalidInput)
	}
	return t, nil
}

// partySelect SELECT base de registro + entidad.
func partySelect(table string, cols string) sq.SelectBuilder {
	return psql.Select(cols).
		From(table + " p").
		Join("entidades e ON e.tenant_id = p.tenant_id AND e.id = p.entity_id")
}

const partyColumns = "p.id, p.tenant_id, p.entity_id, p.code, p.notes, p.active, p.created_at, p.updated_at"

func scanParty(kind entity.EntityType, row pgx.Row) (*entity.PartyRecord, error) {
	var (
		p               entity.PartyRecord
		e               entity.Entidad
		isPerson        bool
		name, legalName *string
		addressID       *string
	)
	err := row.Scan(&p.ID, &p.TenantID, &p.EntityID, &p.Code, &p.Notes, &p.Active, &p.CreatedAt, &p.UpdatedAt,
		&e.ID, &e.TenantID, &e.TaxID, &isPerson, &name, &legalName, &e.Type, &e.Contact, &e.Email,
		&e.Phone, &addressID, &e.Active, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.Name = entity.PartyNameFromColumns(isPerson, name, legalName)
	if e.Name == nil {
		return nil, fmt.Errorf("entidad %s con nombre inconsistente", e.ID)
	}
	e.AddressID = strOrEmpty(addressID)
	p.Kind = kind
	p.Entity = &e
	return &p, nil
}

// Create persiste el registro especializado. Una entidad ya registrada con el mismo tipo -> ErrConflict.
func (r *PartyRepo) Create(ctx context.Context, rec *entity.PartyRecord) error {
	if err := requireTenant(rec.TenantID); err != nil {
		return err
	}
	table, err := partyTable(rec.Kind)
	if err != nil {
		return err
	}
	query := `INSERT INTO ` + table + ` (id, tenant_id, entity_id, code, notes, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = r.q.Exec(ctx, query, rec.ID, rec.TenantID, rec.EntityID, rec.Code, rec.Notes, rec.Active, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return mapWriteError("insert "+table, err)
	}
	return nil
}

func (r *PartyRepo) getOne(ctx context.Context, tenantID string, kind entity.EntityType, where sq.Sqlizer) (*entity.PartyRecord, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	table, err := partyTable(kind)
	if err != nil {
		return nil, err
	}
	sql, args, err := partySelect(table, partyColumns+", "+prefixed("e", entityColumns)).
		Where(sq.Eq{"p.tenant_id": tenantID}).Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get %s: %w", table, err)
	}
	rec, err := scanParty(kind, r.q.QueryRow(ctx, sql, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", table, err)
	}
	return rec, nil
}

// GetByID obtiene un registro del tenant con su entidad.
func (r *PartyRepo) GetByID(ctx context.Context, tenantID string, kind entity.EntityType, id string) (*entity.PartyRecord, error) {
	if !validID(id) {
		return nil, requireTenant(tenantID)
	}
	return r.getOne(ctx, tenantID, kind, sq.Eq{"p.id": id})
}

// GetByTaxID obtiene el registro asociado a la entidad con ese RUT.
func (r *PartyRepo) GetByTaxID(ctx context.Context, tenantID string, kind entity.EntityType, taxID string) (*entity.PartyRecord, error) {
	return r.getOne(ctx, tenantID, kind, sq.Eq{"e.tax_id": taxID})
}

// Update actualiza los datos propios del registro (la entidad se actualiza aparte).
func (r *PartyRepo) Update(ctx context.Context, rec *entity.PartyRecord) error {
	if err := requireTenant(rec.TenantID); err != nil {
		return err
	}
	table, err := partyTable(rec.Kind)
	if err != nil {
		return err
	}
	query := `UPDATE ` + table + ` SET code = $3, notes = $4, active = $5, updated_at = $6
		WHERE tenant_id = $1 AND id = $2`
	if _, err := r.q.Exec(ctx, query, rec.TenantID, rec.ID, rec.Code, rec.Notes, rec.Active, rec.UpdatedAt); err != nil {
		return mapWriteError("update "+table, err)
	}
	return nil
}

// List lista registros del tenant; la búsqueda cubre nombre, razón social y RUT de la entidad.
func (r *PartyRepo) List(ctx context.Context, tenantID string, kind entity.EntityType, f repository.PartyFilter) (*repository.Page[*entity.PartyRecord], error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	table, err := partyTable(kind)
	if err != nil {
		return nil, err
	}
	where := sq.And{sq.Eq{"p.tenant_id": tenantID}}
	if f.Active != nil {
		where = append(where, sq.Eq{"p.active": *f.Active})
	}
	if s := searchClause(f.Search, "e.nombre", "e.razon_social", "e.tax_id", "e.contact", "e.email", "p.code"); s != nil {
		where = append(where, s)
	}
	count := partySelect(table, "count(*)").Where(where)
	page := paginate(partySelect(table, partyColumns+", "+prefixed("e", entityColumns)).Where(where).
		OrderBy("coalesce(e.razon_social, e.nombre)", "p.id"), f.ListParams)

	out := &repository.Page[*entity.PartyRecord]{Items: []*entity.PartyRecord{}}
	total, err := countAndPage(ctx, r.q, count, page, func(rows pgx.Rows) error {
		for rows.Next() {
			rec, err := scanParty(kind, rows)
			if err != nil {
				return fmt.Errorf("scan %s: %w", table, err)
			}
			out.Items = append(out.Items, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	out.Total = total
	return out, nil
}
