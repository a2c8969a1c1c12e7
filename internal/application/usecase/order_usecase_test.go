package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
	"github.com/jhoicas/Logistica-api/internal/infrastructure/memory"
)

func orderTenant(t *testing.T) (*fixture, string, dto.CreateOrderRequest) {
	t.Helper()
	f := newFixture(t)
	adminID := f.adminTenant(t)
	tenantID := f.clientTenant(t, adminID, "Operador", "76.543.210-3")
	return f, tenantID, f.orderRefs(t, tenantID)
}

func TestOrderCreate_CodigoGenerado(t *testing.T) {
	f, tenantID, in := orderTenant(t)
	ctx := context.Background()
	in.Weight = decimal.RequireFromString("120.5")

	first, err := f.orders.Create(ctx, tenantID, "user-1", in)
	require.NoError(t, err)
	assert.Equal(t, "ORD-20240601-001", first.Code)
	assert.Equal(t, string(entity.OrderStatusPending), first.Status)
	assert.True(t, first.Weight.Equal(decimal.RequireFromString("120.5")))

	second, err := f.orders.Create(ctx, tenantID, "user-1", in)
	require.NoError(t, err)
	assert.Equal(t, "ORD-20240601-002", second.Code)

	origin, err := f.addresses.Get(ctx, tenantID, in.OriginAddressID)
	require.NoError(t, err)
	assert.Equal(t, 2, origin.UsageCount)
}

func TestOrderCreate_ContinuaDesdeMayorSufijo(t *testing.T) {
	f, tenantID, in := orderTenant(t)
	ctx := context.Background()

	manual := in
	manual.Code = "ORD-20240601-007"
	_, err := f.orders.Create(ctx, tenantID, "user-1", manual)
	require.NoError(t, err)
	long := in
	long.Code = "ORD-20240601-99999999999"
	_, err = f.orders.Create(ctx, tenantID, "user-1", long)
	require.NoError(t, err, "un sufijo fuera de rango no participa del correlativo")

	next, err := f.orders.Create(ctx, tenantID, "user-1", in)
	require.NoError(t, err)
	assert.Equal(t, "ORD-20240601-008", next.Code)

	_, err = f.orders.Create(ctx, tenantID, "user-1", manual)
	assert.ErrorIs(t, err, domain.ErrConflict, "código explícito repetido")
}

func TestOrderCreate_FechaEnZonaHorariaDeNegocio(t *testing.T) {
	f, tenantID, in := orderTenant(t)
	f.orders.cfg.Location = time.FixedZone("CLT", -4*60*60)
	f.now = time.Date(2024, 6, 2, 2, 0, 0, 0, time.UTC) // 1 de junio en Santiago

	o, err := f.orders.Create(context.Background(), tenantID, "user-1", in)
	require.NoError(t, err)
	assert.Equal(t, "ORD-20240601-001", o.Code)
}

func TestOrderCreate_CodigosUnicosEnConcurrencia(t *testing.T) {
	f, tenantID, in := orderTenant(t)
	const n = 20
	codes := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o, err := f.orders.Create(context.Background(), tenantID, "user-1", in)
			if assert.NoError(t, err) {
				codes <- o.Code
			}
		}()
	}
	wg.Wait()
	close(codes)
	seen := map[string]bool{}
	for c := range codes {
		assert.False(t, seen[c], "código repetido %s", c)
		seen[c] = true
	}
	assert.Len(t, seen, n)
}

func TestOrderCreate_ReferenciasInvalidas(t *testing.T) {
	f, tenantID, in := orderTenant(t)
	ctx := context.Background()
	adminID := f.adminTenant(t)
	other := f.clientTenant(t, adminID, "Otro", "11.111.111-1")
	foreign := f.orderRefs(t, other)

	cases := map[string]func(r *dto.CreateOrderRequest){
		"cliente de otro tenant":   func(r *dto.CreateOrderRequest) { r.ClientID = foreign.ClientID },
		"cliente inexistente":      func(r *dto.CreateOrderRequest) { r.ClientID = "6f1f7c8e-0000-4000-8000-000000000000" },
		"remitente de otro tenant": func(r *dto.CreateOrderRequest) { r.SenderID = foreign.SenderID },
		"destino de otro tenant":   func(r *dto.CreateOrderRequest) { r.DestinationAddressID = foreign.DestinationAddressID },
		"tipo de carga ajeno":      func(r *dto.CreateOrderRequest) { r.CargoTypeID = foreign.CargoTypeID },
		"tipo de servicio cruzado": func(r *dto.CreateOrderRequest) { r.ServiceTypeID = in.CargoTypeID },
		"equipo inexistente":       func(r *dto.CreateOrderRequest) { r.EquipmentID = "6f1f7c8e-0000-4000-8000-000000000001" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := in
			mutate(&req)
			_, err := f.orders.Create(ctx, tenantID, "user-1", req)
			assert.ErrorIs(t, err, domain.ErrInvalidReference)
		})
	}

	list, err := f.orders.List(ctx, tenantID, dto.OrderListQuery{})
	require.NoError(t, err)
	assert.Zero(t, list.Total, "ninguna escritura ante referencias inválidas")
}

func TestOrderCreate_ClienteInactivo(t *testing.T) {
	f, tenantID, in := orderTenant(t)
	ctx := context.Background()
	require.NoError(t, f.parties.Deactivate(ctx, tenantID, entity.EntityTypeClient, in.ClientID))

	_, err := f.orders.Create(ctx, tenantID, "user-1", in)
	assert.ErrorIs(t, err, domain.ErrInvalidReference)
}

func TestOrderCreate_EntradaInvalida(t *testing.T) {
	f, tenantID, in := orderTenant(t)
	ctx := context.Background()

	bad := in
	bad.Code = "ORD 1"
	_, err := f.orders.Create(ctx, tenantID, "user-1", bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	bad = in
	bad.Volume = decimal.NewFromInt(-1)
	_, err = f.orders.Create(ctx, tenantID, "user-1", bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOrderCreate_RollbackNoIncrementaUso(t *testing.T) {
	f, tenantID, in := orderTenant(t)
	ctx := context.Background()
	f.store.FailOn("orders.Create", assert.AnError)

	_, err := f.orders.Create(ctx, tenantID, "user-1", in)
	require.ErrorIs(t, err, assert.AnError)

	origin, err := f.addresses.Get(ctx, tenantID, in.OriginAddressID)
	require.NoError(t, err)
	assert.Zero(t, origin.UsageCount)
}

func TestOrderChangeStatus(t *testing.T) {
	f, tenantID, in := orderTenant(t)
	ctx := context.Background()
	o, err := f.orders.Create(ctx, tenantID, "user-1", in)
	require.NoError(t, err)

	_, err = f.orders.ChangeStatus(ctx, tenantID, o.ID, dto.ChangeOrderStatusRequest{Status: "ENTREGADA"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "no se salta estados")

	for _, s := range []string{"planificada", "EN_TRANSPORTE", "ENTREGADA"} {
		got, err := f.orders.ChangeStatus(ctx, tenantID, o.ID, dto.ChangeOrderStatusRequest{Status: s})
		require.NoError(t, err, s)
		o = got
	}
	assert.Equal(t, "ENTREGADA", o.Status)

	_, err = f.orders.ChangeStatus(ctx, tenantID, o.ID, dto.ChangeOrderStatusRequest{Status: "CANCELADA"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "estado terminal")

	_, err = f.orders.ChangeStatus(ctx, tenantID, o.ID, dto.ChangeOrderStatusRequest{Status: "PERDIDA"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOrderUpdate_SoloPendiente(t *testing.T) {
	f, tenantID, in := orderTenant(t)
	ctx := context.Background()
	o, err := f.orders.Create(ctx, tenantID, "user-1", in)
	require.NoError(t, err)

	notes := "  frágil "
	packages := 3
	got, err := f.orders.Update(ctx, tenantID, o.ID, dto.UpdateOrderRequest{Notes: &notes, Packages: &packages})
	require.NoError(t, err)
	assert.Equal(t, "frágil", got.Notes)
	assert.Equal(t, 3, got.Packages)

	_, err = f.orders.ChangeStatus(ctx, tenantID, o.ID, dto.ChangeOrderStatusRequest{Status: "CANCELADA"})
	require.NoError(t, err)
	_, err = f.orders.Update(ctx, tenantID, o.ID, dto.UpdateOrderRequest{Notes: &notes})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestOrderList_Filtros(t *testing.T) {
	f, tenantID, in := orderTenant(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := f.orders.Create(ctx, tenantID, "user-1", in)
		require.NoError(t, err)
	}
	page, err := f.orders.List(ctx, tenantID, dto.OrderListQuery{Status: "pendiente", ListQuery: dto.ListQuery{Limit: 2}})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.Items, 2)

	_, err = f.orders.List(ctx, tenantID, dto.OrderListQuery{Status: "X"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	from := f.now.Add(time.Hour)
	to := f.now
	_, err = f.orders.List(ctx, tenantID, dto.OrderListQuery{From: &from, To: &to})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	page, err = f.orders.List(ctx, tenantID, dto.OrderListQuery{From: &day, FromDate: true, To: &day, ToDate: true})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total, "una fecha sin hora en to incluye el día completo")

	page, err = f.orders.List(ctx, tenantID, dto.OrderListQuery{To: &day})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestOrderGet_OtroTenant(t *testing.T) {
	f, tenantID, in := orderTenant(t)
	ctx := context.Background()
	o, err := f.orders.Create(ctx, tenantID, "user-1", in)
	require.NoError(t, err)

	_, err = f.orders.Get(ctx, "0d4bbd0e-9a59-4c4c-a2a3-2e4cf1f1c2aa", o.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.orders.Get(ctx, "", o.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	stored, err := memory.NewOrderRepository(f.store).GetByCode(ctx, tenantID, o.Code)
	require.NoError(t, err)
	assert.Equal(t, "user-1", stored.CreatedBy)
}

// staleOrders aplica un cambio concurrente justo después de la lectura de la orden.
type staleOrders struct {
	repository.OrderRepository
	afterGet func()
}

func (s *staleOrders) GetByID(ctx context.Context, tenantID, id string) (*entity.Order, error) {
	o, err := s.OrderRepository.GetByID(ctx, tenantID, id)
	if s.afterGet != nil {
		hook := s.afterGet
		s.afterGet = nil
		hook()
	}
	return o, err
}

func TestOrderUpdate_CambioConcurrenteDeEstado(t *testing.T) {
	f, tenantID, in := orderTenant(t)
	ctx := context.Background()
	o, err := f.orders.Create(ctx, tenantID, "user-1", in)
	require.NoError(t, err)

	racing := &staleOrders{OrderRepository: f.orders.orders}
	f.orders.orders = racing
	cancel := func() {
		_, err := f.orders.ChangeStatus(ctx, tenantID, o.ID, dto.ChangeOrderStatusRequest{Status: "CANCELADA"})
		require.NoError(t, err)
	}

	racing.afterGet = cancel
	notes := "frágil"
	_, err = f.orders.Update(ctx, tenantID, o.ID, dto.UpdateOrderRequest{Notes: &notes})
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := f.orders.Get(ctx, tenantID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "CANCELADA", got.Status, "la cancelación no se pierde")
	assert.Empty(t, got.Notes)
}

func TestOrderChangeStatus_TransicionDesdeEstadoObsoleto(t *testing.T) {
	f, tenantID, in := orderTenant(t)
	ctx := context.Background()
	o, err := f.orders.Create(ctx, tenantID, "user-1", in)
	require.NoError(t, err)
	for _, s := range []string{"PLANIFICADA", "EN_TRANSPORTE"} {
		_, err = f.orders.ChangeStatus(ctx, tenantID, o.ID, dto.ChangeOrderStatusRequest{Status: s})
		require.NoError(t, err)
	}

	racing := &staleOrders{OrderRepository: f.orders.orders}
	f.orders.orders = racing
	racing.afterGet = func() {
		_, err := f.orders.ChangeStatus(ctx, tenantID, o.ID, dto.ChangeOrderStatusRequest{Status: "ENTREGADA"})
		require.NoError(t, err)
	}
	_, err = f.orders.ChangeStatus(ctx, tenantID, o.ID, dto.ChangeOrderStatusRequest{Status: "CANCELADA"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := f.orders.Get(ctx, tenantID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "ENTREGADA", got.Status)
}
