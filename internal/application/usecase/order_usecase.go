package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

// OrderConfig parámetros de creación de órdenes.
type OrderConfig struct {
	Location    *time.Location // zona horaria de la fecha del código
	CodeRetries int
}

// OrderUseCase órdenes de transporte del tenant.
type OrderUseCase struct {
	orders    repository.OrderRepository
	parties   repository.PartyRepository
	entities  repository.EntityRepository
	addresses repository.AddressRepository
	catalogs  repository.CatalogRepository
	tx        OrderTxRunner
	cfg       OrderConfig
	pages     Pagination
	clock     clock
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	orders repository.OrderRepository,
	parties repository.PartyRepository,
	entities repository.EntityRepository,
	addresses repository.AddressRepository,
	catalogs repository.CatalogRepository,
	tx OrderTxRunner,
	cfg OrderConfig,
	pages Pagination,
) *OrderUseCase {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.CodeRetries < 1 {
		cfg.CodeRetries = 1
	}
	return &OrderUseCase{
		orders: orders, parties: parties, entities: entities, addresses: addresses, catalogs: catalogs,
		tx: tx, cfg: cfg, pages: pages,
	}
}

// validateReferences comprueba que toda referencia exista, esté activa y sea del tenant,
// antes de escribir nada.
func (uc *OrderUseCase) validateReferences(ctx context.Context, tenantID string, in dto.CreateOrderRequest) error {
	client, err := uc.parties.GetByID(ctx, tenantID, entity.EntityTypeClient, in.ClientID)
	if err != nil {
		return err
	}
	if client == nil || !client.Active {
		return invalidRef("client_id")
	}
	entityRefs := []struct{ field, id string }{
		{"sender_id", in.SenderID},
		{"receiver_id", in.ReceiverID},
	}
	for _, ref := range entityRefs {
		e, err := uc.entities.GetByID(ctx, tenantID, ref.id)
		if err != nil {
			return err
		}
		if e == nil || !e.Active {
			return invalidRef(ref.field)
		}
	}
	addressRefs := []struct{ field, id string }{
		{"origin_address_id", in.OriginAddressID},
		{"destination_address_id", in.DestinationAddressID},
	}
	for _, ref := range addressRefs {
		a, err := uc.addresses.GetByID(ctx, tenantID, ref.id)
		if err != nil {
			return err
		}
		if a == nil || !a.Active {
			return invalidRef(ref.field)
		}
	}
	catalogRefs := []struct {
		field string
		kind  entity.CatalogKind
		id    string
	}{
		{"cargo_type_id", entity.CatalogCargoTypes, in.CargoTypeID},
		{"service_type_id", entity.CatalogServiceTypes, in.ServiceTypeID},
		{"equipment_id", entity.CatalogEquipment, in.EquipmentID},
	}
	for _, ref := range catalogRefs {
		if ref.id == "" && ref.kind == entity.CatalogEquipment {
			continue
		}
		it, err := uc.catalogs.GetByID(ctx, tenantID, ref.kind, ref.id)
		if err != nil {
			return err
		}
		if it == nil || !it.Active {
			return invalidRef(ref.field)
		}
	}
	return nil
}

func validMeasures(values ...decimal.Decimal) error {
	for _, v := range values {
		if v.IsNegative() {
			return invalid("las medidas no pueden ser negativas")
		}
	}
	return nil
}

// businessDay fecha (00:00) en la zona horaria de negocio.
func (uc *OrderUseCase) businessDay(t time.Time) time.Time {
	local := t.In(uc.cfg.Location)
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, uc.cfg.Location)
}

// calendarDay reinterpreta una fecha AAAA-MM-DD como las 00:00 de ese día en la zona de negocio.
func (uc *OrderUseCase) calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, uc.cfg.Location)
}

// Create crea una orden en estado PENDIENTE. Sin código explícito se genera
// ORD-YYYYMMDD-NNN con el correlativo diario del tenant; ante colisión se reintenta.
func (uc *OrderUseCase) Create(ctx context.Context, tenantID, userID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	const op = "crear orden"
	code := strings.TrimSpace(in.Code)
	if code != "" && !entity.ValidCode(code) {
		return nil, invalid("code %q debe contener solo letras, números, guion o guion bajo", in.Code)
	}
	if err := validMeasures(in.Weight, in.Volume, in.Length, in.Width, in.Height); err != nil {
		return nil, err
	}
	if in.Packages < 0 {
		return nil, invalid("packages no puede ser negativo")
	}
	if err := uc.validateReferences(ctx, tenantID, in); err != nil {
		return nil, fail(ctx, op, err)
	}
	if code != "" {
		existing, err := uc.orders.GetByCode(ctx, tenantID, code)
		if err != nil {
			return nil, fail(ctx, op, err)
		}
		if existing != nil {
			return nil, fail(ctx, op, fmt.Errorf("código %s ya existe: %w", code, domain.ErrConflict))
		}
	}

	now := uc.clock.now()
	day := uc.businessDay(now)
	o := &entity.Order{
		ID:                   uuid.New().String(),
		TenantID:             tenantID,
		ClientID:             in.ClientID,
		SenderID:             in.SenderID,
		ReceiverID:           in.ReceiverID,
		OriginAddressID:      in.OriginAddressID,
		DestinationAddressID: in.DestinationAddressID,
		CargoTypeID:          in.CargoTypeID,
		ServiceTypeID:        in.ServiceTypeID,
		EquipmentID:          in.EquipmentID,
		Weight:               in.Weight,
		Volume:               in.Volume,
		Length:               in.Length,
		Width:                in.Width,
		Height:               in.Height,
		Packages:             in.Packages,
		Notes:                strings.TrimSpace(in.Notes),
		Status:               entity.OrderStatusPending,
		ScheduledAt:          in.ScheduledAt,
		CreatedBy:            userID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	var err error
	for attempt := 1; attempt <= uc.cfg.CodeRetries; attempt++ {
		err = uc.tx.RunOrder(ctx, func(orders repository.OrderRepository, addresses repository.AddressRepository) error {
			o.Code = code
			if o.Code == "" {
				seq, err := orders.NextSequence(ctx, tenantID, day)
				if err != nil {
					return err
				}
				o.Code = entity.FormatOrderCode(day, seq)
			}
			if err := orders.Create(ctx, o); err != nil {
				return err
			}
			return addresses.IncrementUsage(ctx, tenantID, o.OriginAddressID, o.DestinationAddressID)
		})
		if err == nil || code != "" || !errors.Is(err, domain.ErrConflict) {
			break
		}
		zerolog.Ctx(ctx).Warn().Int("attempt", attempt).Str("code", o.Code).Msg("colisión de código de orden, reintentando")
	}
	if err != nil {
		return nil, fail(ctx, op, err)
	}
	zerolog.Ctx(ctx).Info().Str("order_id", o.ID).Str("code", o.Code).Msg("orden creada")
	resp := ToOrderResponse(o)
	return &resp, nil
}

// Load obtiene la entidad de una orden del tenant.
func (uc *OrderUseCase) Load(ctx context.Context, tenantID, id string) (*entity.Order, error) {
	const op = "obtener orden"
	o, err := uc.orders.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, fail(ctx, op, err)
	}
	if o == nil {
		return nil, fail(ctx, op, notFound("orden"))
	}
	return o, nil
}

// Get obtiene una orden del tenant.
func (uc *OrderUseCase) Get(ctx context.Context, tenantID, id string) (*dto.OrderResponse, error) {
	o, err := uc.Load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// List lista órdenes del tenant con filtros de estado, cliente y rango de fechas.
func (uc *OrderUseCase) List(ctx context.Context, tenantID string, q dto.OrderListQuery) (*dto.ListResponse[dto.OrderResponse], error) {
	params, err := uc.pages.Params(q.ListQuery)
	if err != nil {
		return nil, err
	}
	status := entity.OrderStatus(strings.ToUpper(q.Status))
	if status != "" && !status.Valid() {
		return nil, invalid("status %q no válido", q.Status)
	}
	from, to := q.From, q.To
	if from != nil && q.FromDate {
		day := uc.calendarDay(*from)
		from = &day
	}
	if to != nil && q.ToDate {
		day := uc.calendarDay(*to).AddDate(0, 0, 1)
		to = &day
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, invalid("el rango de fechas está invertido")
	}
	page, err := uc.orders.List(ctx, tenantID, repository.OrderFilter{
		ListParams: params,
		Status:     status,
		ClientID:   q.ClientID,
		From:       from,
		To:         to,
	})
	if err != nil {
		return nil, fail(ctx, "listar órdenes", err)
	}
	return listResponse(page, params, ToOrderResponse), nil
}

// Update actualiza medidas, bultos, observaciones y fecha programada. Solo en PENDIENTE.
func (uc *OrderUseCase) Update(ctx context.Context, tenantID, id string, in dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	const op = "actualizar orden"
	o, err := uc.Load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if o.Status != entity.OrderStatusPending {
		return nil, fail(ctx, op, fmt.Errorf("orden en estado %s: %w", o.Status, domain.ErrConflict))
	}
	set := func(dst *decimal.Decimal, src *decimal.Decimal) {
		if src != nil {
			*dst = *src
		}
	}
	set(&o.Weight, in.Weight)
	set(&o.Volume, in.Volume)
	set(&o.Length, in.Length)
	set(&o.Width, in.Width)
	set(&o.Height, in.Height)
	if err := validMeasures(o.Weight, o.Volume, o.Length, o.Width, o.Height); err != nil {
		return nil, err
	}
	if in.Packages != nil {
		if *in.Packages < 0 {
			return nil, invalid("packages no puede ser negativo")
		}
		o.Packages = *in.Packages
	}
	if in.Notes != nil {
		o.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.ScheduledAt != nil {
		o.ScheduledAt = in.ScheduledAt
	}
	o.UpdatedAt = uc.clock.now()
	if err := uc.orders.Update(ctx, o, entity.OrderStatusPending); err != nil {
		return nil, fail(ctx, op, err)
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// ChangeStatus avanza la orden en su flujo o la cancela. Transiciones fuera del flujo
// son ErrInvalidInput.
func (uc *OrderUseCase) ChangeStatus(ctx context.Context, tenantID, id string, in dto.ChangeOrderStatusRequest) (*dto.OrderResponse, error) {
	const op = "cambiar estado de orden"
	next := entity.OrderStatus(strings.ToUpper(strings.TrimSpace(in.Status)))
	if !next.Valid() {
		return nil, invalid("status %q no válido", in.Status)
	}
	o, err := uc.Load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanTransitionTo(next) {
		return nil, invalid("transición %s -> %s no permitida", o.Status, next)
	}
	prev := o.Status
	o.Status = next
	o.UpdatedAt = uc.clock.now()
	if err := uc.orders.Update(ctx, o, prev); err != nil {
		return nil, fail(ctx, op, err)
	}
	zerolog.Ctx(ctx).Info().Str("order_id", o.ID).Str("from", string(prev)).Str("to", string(next)).Msg("estado de orden actualizado")
	resp := ToOrderResponse(o)
	return &resp, nil
}
