//go:build integration

package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/Logistica-api/internal/application/authz"
	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/application/usecase"
	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
	"github.com/jhoicas/Logistica-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Logistica-api/pkg/config"
)

// setupPool levanta PostgreSQL en un contenedor y aplica las migraciones embebidas.
func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("logistica_test"),
		tcpostgres.WithUsername("logistica"),
		tcpostgres.WithPassword("logistica"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Skipf("no se pudo iniciar PostgreSQL: %v", err)
	}
	t.Cleanup(func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := container.Terminate(cleanupCtx); err != nil {
			t.Logf("terminar contenedor: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 10})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(ctx, pool))
	require.NoError(t, postgres.Migrate(ctx, pool), "migrar dos veces no falla")
	return pool
}

type app struct {
	tenants   *usecase.TenantUseCase
	parties   *usecase.PartyUseCase
	addresses *usecase.AddressUseCase
	catalogs  *usecase.CatalogUseCase
	orders    *usecase.OrderUseCase
	authz     *authz.Service
	users     repository.UserRepository
}

func newApp(pool *pgxpool.Pool) *app {
	tx := postgres.NewTxRunner(pool)
	users := postgres.NewUserRepository(pool)
	entities := postgres.NewEntityRepository(pool)
	parties := postgres.NewPartyRepository(pool)
	addresses := postgres.NewAddressRepository(pool)
	catalogs := postgres.NewCatalogRepository(pool)
	return &app{
		tenants:   usecase.NewTenantUseCase(postgres.NewTenantRepository(pool), users, tx, usecase.DefaultPagination),
		parties:   usecase.NewPartyUseCase(entities, parties, addresses, tx, usecase.DefaultPagination),
		addresses: usecase.NewAddressUseCase(addresses, postgres.NewComunaRepository(pool), usecase.DefaultPagination),
		catalogs:  usecase.NewCatalogUseCase(catalogs, usecase.DefaultPagination),
		orders: usecase.NewOrderUseCase(postgres.NewOrderRepository(pool), parties, entities, addresses, catalogs, tx,
			usecase.OrderConfig{Location: time.UTC, CodeRetries: 5}, usecase.DefaultPagination),
		authz: authz.NewService(postgres.NewProfileRepository(pool), users, postgres.NewTenantRepository(pool)),
		users: users,
	}
}

// bootstrap crea el tenant administrador y devuelve su usuario.
func (a *app) bootstrap(t *testing.T) *entity.User {
	t.Helper()
	ctx := context.Background()
	_, err := a.tenants.Bootstrap(ctx, usecase.BootstrapInput{
		TenantName: "Administración", TenantRUT: "99.500.000-8",
		AdminEmail: "admin@logistica.cl", AdminPassword: "secreto-123",
	})
	require.NoError(t, err)
	u, err := a.users.GetByEmail(ctx, "ADMIN@logistica.cl")
	require.NoError(t, err)
	require.NotNil(t, u)
	return u
}

func TestIntegration_BootstrapConcedeTodosLosPermisos(t *testing.T) {
	a := newApp(setupPool(t))
	u := a.bootstrap(t)

	set, err := a.authz.Resolve(context.Background(), u.TenantID, u.ProfileID)
	require.NoError(t, err)
	assert.Equal(t, len(entity.Modules)*len(entity.Actions), set.Len())
}

func TestIntegration_AislamientoPorTenant(t *testing.T) {
	a := newApp(setupPool(t))
	ctx := context.Background()
	admin := a.bootstrap(t)

	ta, err := a.tenants.Create(ctx, admin.TenantID, dto.CreateTenantRequest{Name: "A", TaxID: "76.543.210-3", Type: "CARRIER"})
	require.NoError(t, err)
	tb, err := a.tenants.Create(ctx, admin.TenantID, dto.CreateTenantRequest{Name: "B", TaxID: "11.111.111-1", Type: "CARRIER"})
	require.NoError(t, err)

	req := dto.CreatePartyRequest{
		PartyNameInput: dto.PartyNameInput{Organization: &dto.OrganizationInput{LegalName: "Acme SpA"}},
		TaxID:          "33.333.333-3",
	}
	ca, err := a.parties.Create(ctx, ta.ID, entity.EntityTypeClient, req)
	require.NoError(t, err)
	_, err = a.parties.Create(ctx, tb.ID, entity.EntityTypeClient, req)
	require.NoError(t, err, "mismo RUT en otro tenant")
	_, err = a.parties.Create(ctx, ta.ID, entity.EntityTypeClient, req)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = a.parties.Get(ctx, tb.ID, entity.EntityTypeClient, ca.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = a.parties.Get(ctx, ta.ID, entity.EntityTypeClient, "no-es-uuid")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := a.parties.List(ctx, ta.ID, entity.EntityTypeClient, dto.ListQuery{Search: "acmé"})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total, "búsqueda sin acentos ni mayúsculas")

	carrier, err := a.parties.Create(ctx, ta.ID, entity.EntityTypeCarrier, req)
	require.NoError(t, err)
	assert.Equal(t, ca.EntityID, carrier.EntityID, "la entidad se reutiliza")
}

func TestIntegration_CorrelativoDeOrdenes(t *testing.T) {
	pool := setupPool(t)
	a := newApp(pool)
	ctx := context.Background()
	admin := a.bootstrap(t)
	tenantID := admin.TenantID
	in, addrID := a.orderInput(t, tenantID)
	day := time.Now().UTC()
	prefix := entity.OrderCodePrefix(day)

	manual := in
	manual.Code = prefix + "007"
	_, err := a.orders.Create(ctx, tenantID, admin.ID, manual)
	require.NoError(t, err)

	const n = 10
	var wg sync.WaitGroup
	codes := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o, err := a.orders.Create(ctx, tenantID, admin.ID, in)
			if assert.NoError(t, err) {
				codes <- o.Code
			}
		}()
	}
	wg.Wait()
	close(codes)
	seen := map[string]bool{}
	for c := range codes {
		seq, ok := entity.OrderCodeSequence(c, prefix)
		require.True(t, ok, c)
		assert.Greater(t, seq, 7, "continúa después del mayor sufijo")
		assert.False(t, seen[c], "código repetido %s", c)
		seen[c] = true
	}
	assert.Len(t, seen, n)

	usage, err := a.addresses.Get(ctx, tenantID, addrID)
	require.NoError(t, err)
	assert.Equal(t, 2*(n+1), usage.UsageCount)

	page, err := a.orders.List(ctx, tenantID, dto.OrderListQuery{ListQuery: dto.ListQuery{Page: 2, Limit: 5}})
	require.NoError(t, err)
	assert.Equal(t, n+1, page.Total)
	assert.Len(t, page.Items, 5)
}

// orderInput crea en el tenant las referencias de una orden con origen y destino en la misma dirección.
func (a *app) orderInput(t *testing.T, tenantID string) (dto.CreateOrderRequest, string) {
	t.Helper()
	ctx := context.Background()
	client, err := a.parties.Create(ctx, tenantID, entity.EntityTypeClient, dto.CreatePartyRequest{
		PartyNameInput: dto.PartyNameInput{Organization: &dto.OrganizationInput{LegalName: "Acme SpA"}},
		TaxID:          "33.333.333-3",
	})
	require.NoError(t, err)
	comunas, err := a.addresses.ListComunas(ctx, dto.ComunaListQuery{})
	require.NoError(t, err)
	require.NotEmpty(t, comunas.Items, "migración de comunas")
	addr, err := a.addresses.Create(ctx, tenantID, dto.CreateAddressRequest{ComunaID: comunas.Items[0].ID, Text: "Av. Libertador 1000"})
	require.NoError(t, err)
	cargo, err := a.catalogs.Create(ctx, tenantID, "tipos-carga", dto.CreateCatalogItemRequest{Code: "GEN", Name: "General"})
	require.NoError(t, err)
	service, err := a.catalogs.Create(ctx, tenantID, "tipos-servicio", dto.CreateCatalogItemRequest{Code: "EXP", Name: "Express"})
	require.NoError(t, err)

	in := dto.CreateOrderRequest{
		ClientID: client.ID, SenderID: client.EntityID, ReceiverID: client.EntityID,
		OriginAddressID: addr.ID, DestinationAddressID: addr.ID,
		CargoTypeID: cargo.ID, ServiceTypeID: service.ID,
		Weight: decimal.RequireFromString("10.250"),
	}
	return in, addr.ID
}

func TestIntegration_CorrelativoIgnoraSufijoFueraDeRango(t *testing.T) {
	pool := setupPool(t)
	a := newApp(pool)
	ctx := context.Background()
	admin := a.bootstrap(t)
	in, _ := a.orderInput(t, admin.TenantID)
	prefix := entity.OrderCodePrefix(time.Now().UTC())

	for _, code := range []string{prefix + "004", prefix + "99999999999"} {
		manual := in
		manual.Code = code
		_, err := a.orders.Create(ctx, admin.TenantID, admin.ID, manual)
		require.NoError(t, err, code)
	}
	next, err := a.orders.Create(ctx, admin.TenantID, admin.ID, in)
	require.NoError(t, err)
	assert.Equal(t, prefix+"005", next.Code)
}

func TestIntegration_DesactivacionDeTenantYCuenta(t *testing.T) {
	a := newApp(setupPool(t))
	ctx := context.Background()
	admin := a.bootstrap(t)
	id := authz.Identity{UserID: admin.ID, TenantID: admin.TenantID, ProfileID: admin.ProfileID}

	got, err := a.authz.Authenticate(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, admin.ProfileID, got.ProfileID)

	err = a.tenants.Deactivate(ctx, admin.TenantID, admin.TenantID)
	assert.ErrorIs(t, err, domain.ErrConflict, "el administrador sigue activo")

	tc, err := a.tenants.Create(ctx, admin.TenantID, dto.CreateTenantRequest{Name: "C", TaxID: "76.543.210-3", Type: "CLIENT"})
	require.NoError(t, err)
	require.NoError(t, a.tenants.Deactivate(ctx, admin.TenantID, tc.ID))
	resp, err := a.tenants.Get(ctx, admin.TenantID, tc.ID)
	require.NoError(t, err)
	assert.False(t, resp.Active)

	admin.Active = false
	require.NoError(t, a.users.Update(ctx, admin))
	_, err = a.authz.Authenticate(ctx, id)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
