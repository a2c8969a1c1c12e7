package postgres

import (
	"context"
	"fmt"
	"regexp"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = "id, tenant_id, code, client_id, sender_id, receiver_id, origin_address_id, destination_address_id, " +
	"cargo_type_id, service_type_id, equipment_id, weight, volume, length, width, height, packages, notes, status, " +
	"scheduled_at, created_by, created_at, updated_at"

// OrderRepo implementación de OrderRepository.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador.
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var (
		o                      entity.Order
		equipmentID, createdBy *string
	)
	err := row.Scan(&o.ID, &o.TenantID, &o.Code, &o.ClientID, &o.SenderID, &o.ReceiverID, &o.OriginAddressID,
		&o.DestinationAddressID, &o.CargoTypeID, &o.ServiceTypeID, &equipmentID, &o.Weight, &o.Volume, &o.Length,
		&o.Width, &o.Height, &o.Packages, &o.Notes, &o.Status, &o.ScheduledAt, &createdBy, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.EquipmentID = strOrEmpty(equipmentID)
	o.CreatedBy = strOrEmpty(createdBy)
	return &o, nil
}

// Create persiste una orden. Código repetido en el tenant -> ErrConflict; referencia ajena -> ErrInvalidReference.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	if err := requireTenant(o.TenantID); err != nil {
		return err
	}
	query := `
		INSERT INTO ordenes (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.TenantID, o.Code, o.ClientID, o.SenderID, o.ReceiverID, o.OriginAddressID, o.DestinationAddressID,
		o.CargoTypeID, o.ServiceTypeID, nullIfEmpty(o.EquipmentID), o.Weight, o.Volume, o.Length, o.Width, o.Height,
		o.Packages, o.Notes, o.Status, o.ScheduledAt, nullIfEmpty(o.CreatedBy), o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert order", err)
	}
	return nil
}

// GetByID obtiene una orden del tenant.
func (r *OrderRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Order, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, nil
	}
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM ordenes WHERE tenant_id = $1 AND id = $2`, tenantID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// GetByCode obtiene una orden del tenant por código.
func (r *OrderRepo) GetByCode(ctx context.Context, tenantID, code string) (*entity.Order, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM ordenes WHERE tenant_id = $1 AND code = $2`, tenantID, code))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order by code: %w", err)
	}
	return o, nil
}

// Update actualiza una orden del tenant si sigue en el estado expected. El código no cambia.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order, expected entity.OrderStatus) error {
	if err := requireTenant(o.TenantID); err != nil {
		return err
	}
	query := `
		UPDATE ordenes SET client_id = $3, sender_id = $4, receiver_id = $5, origin_address_id = $6,
			destination_address_id = $7, cargo_type_id = $8, service_type_id = $9, equipment_id = $10, weight = $11,
			volume = $12, length = $13, width = $14, height = $15, packages = $16, notes = $17, status = $18,
			scheduled_at = $19, updated_at = $20
		WHERE tenant_id = $1 AND id = $2 AND status = $21`
	tag, err := r.q.Exec(ctx, query,
		o.TenantID, o.ID, o.ClientID, o.SenderID, o.ReceiverID, o.OriginAddressID, o.DestinationAddressID,
		o.CargoTypeID, o.ServiceTypeID, nullIfEmpty(o.EquipmentID), o.Weight, o.Volume, o.Length, o.Width, o.Height,
		o.Packages, o.Notes, o.Status, o.ScheduledAt, o.UpdatedAt, expected,
	)
	if err != nil {
		return mapWriteError("update order", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update order: ya no está en estado %s: %w", expected, domain.ErrConflict)
	}
	return nil
}

// List lista órdenes del tenant, las más recientes primero.
func (r *OrderRepo) List(ctx context.Context, tenantID string, f repository.OrderFilter) (*repository.Page[*entity.Order], error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	where := sq.And{sq.Eq{"tenant_id": tenantID}}
	if f.Status != "" {
		where = append(where, sq.Eq{"status": f.Status})
	}
	if f.ClientID != "" {
		if !validID(f.ClientID) {
			return &repository.Page[*entity.Order]{Items: []*entity.Order{}}, nil
		}
		where = append(where, sq.Eq{"client_id": f.ClientID})
	}
	if f.From != nil {
		where = append(where, sq.GtOrEq{"created_at": *f.From})
	}
	if f.To != nil {
		where = append(where, sq.Lt{"created_at": *f.To})
	}
	if s := searchClause(f.Search, "code", "notes"); s != nil {
		where = append(where, s)
	}
	count := psql.Select("count(*)").From("ordenes").Where(where)
	page := paginate(psql.Select(orderColumns).From("ordenes").Where(where).OrderBy("created_at DESC", "code DESC"), f.ListParams)

	out := &repository.Page[*entity.Order]{Items: []*entity.Order{}}
	total, err := countAndPage(ctx, r.q, count, page, func(rows pgx.Rows) error {
		for rows.Next() {
			o, err := scanOrder(rows)
			if err != nil {
				return fmt.Errorf("scan order: %w", err)
			}
			out.Items = append(out.Items, o)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	out.Total = total
	return out, nil
}

// NextSequence reserva el siguiente correlativo del día con un upsert atómico sobre
// orden_correlativos. La primera reserva del día parte del mayor sufijo ya usado en ordenes.
func (r *OrderRepo) NextSequence(ctx context.Context, tenantID string, day time.Time) (int, error) {
	if err := requireTenant(tenantID); err != nil {
		return 0, err
	}
	prefix := entity.OrderCodePrefix(day)
	pattern := fmt.Sprintf("^%s[0-9]{1,%d}$", regexp.QuoteMeta(prefix), entity.MaxOrderSeqDigits)
	query := `
		INSERT INTO orden_correlativos (tenant_id, day, last_seq)
		VALUES ($1, $2::date, (
			SELECT coalesce(max(substring(code FROM $3::int + 1)::int), 0)
			FROM ordenes WHERE tenant_id = $1 AND code ~ $4
		) + 1)
		ON CONFLICT (tenant_id, day)
		DO UPDATE SET last_seq = GREATEST(orden_correlativos.last_seq, EXCLUDED.last_seq - 1) + 1
		RETURNING last_seq`
	var seq int
	err := r.q.QueryRow(ctx, query, tenantID, day.Format("2006-01-02"), len(prefix), pattern).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next order sequence: %w", err)
	}
	return seq, nil
}
