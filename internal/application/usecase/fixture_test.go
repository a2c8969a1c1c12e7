package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/infrastructure/memory"
)

const adminRUT = "99.500.000-8"

type fixture struct {
	store *memory.Store
	now   time.Time

	tenants   *TenantUseCase
	users     *UserUseCase
	profiles  *ProfileUseCase
	roles     *RoleUseCase
	parties   *PartyUseCase
	addresses *AddressUseCase
	catalogs  *CatalogUseCase
	orders    *OrderUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memory.NewStore()
	s.AddComunas(
		entity.Comuna{ID: 1, Code: "13101", Name: "Santiago", RegionCode: "13", RegionName: "Metropolitana"},
		entity.Comuna{ID: 2, Code: "13114", Name: "Las Condes", RegionCode: "13", RegionName: "Metropolitana"},
	)
	tx := memory.NewTxRunner(s)
	tenants := memory.NewTenantRepository(s)
	users := memory.NewUserRepository(s)
	profiles := memory.NewProfileRepository(s)
	roles := memory.NewRoleRepository(s)
	entities := memory.NewEntityRepository(s)
	parties := memory.NewPartyRepository(s)
	addresses := memory.NewAddressRepository(s)
	catalog := memory.NewCatalogRepository(s)
	orders := memory.NewOrderRepository(s)

	f := &fixture{
		store:     s,
		now:       time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC),
		tenants:   NewTenantUseCase(tenants, users, tx, DefaultPagination),
		users:     NewUserUseCase(users, profiles, DefaultPagination),
		profiles:  NewProfileUseCase(profiles, tx, DefaultPagination),
		roles:     NewRoleUseCase(roles, DefaultPagination),
		parties:   NewPartyUseCase(entities, parties, addresses, tx, DefaultPagination),
		addresses: NewAddressUseCase(addresses, memory.NewComunaRepository(s), DefaultPagination),
		catalogs:  NewCatalogUseCase(catalog, DefaultPagination),
		orders: NewOrderUseCase(orders, parties, entities, addresses, catalog, tx,
			OrderConfig{Location: time.UTC, CodeRetries: 3}, DefaultPagination),
	}
	c := clock(func() time.Time { return f.now })
	f.tenants.clock, f.users.clock, f.profiles.clock, f.roles.clock = c, c, c, c
	f.parties.clock, f.addresses.clock, f.catalogs.clock, f.orders.clock = c, c, c, c
	return f
}

// adminTenant crea el tenant ADMIN inicial y devuelve su id.
func (f *fixture) adminTenant(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	_, err := f.tenants.Bootstrap(ctx, BootstrapInput{
		TenantName: "Administración", TenantRUT: adminRUT,
		AdminEmail: "admin@logistica.cl", AdminPassword: "secreto-123",
	})
	require.NoError(t, err)
	tn, err := memory.NewTenantRepository(f.store).GetByTaxID(ctx, "99500000-8")
	require.NoError(t, err)
	require.NotNil(t, tn)
	return tn.ID
}

// clientTenant crea un tenant CLIENT desde el tenant administrador.
func (f *fixture) clientTenant(t *testing.T, adminID, name, rut string) string {
	t.Helper()
	resp, err := f.tenants.Create(context.Background(), adminID, dto.CreateTenantRequest{Name: name, TaxID: rut, Type: "CLIENT"})
	require.NoError(t, err)
	return resp.ID
}

// orderRefs crea las referencias mínimas de una orden en el tenant.
func (f *fixture) orderRefs(t *testing.T, tenantID string) dto.CreateOrderRequest {
	t.Helper()
	ctx := context.Background()
	client, err := f.parties.Create(ctx, tenantID, entity.EntityTypeClient, dto.CreatePartyRequest{
		PartyNameInput: dto.PartyNameInput{Organization: &dto.OrganizationInput{LegalName: "Acme SpA"}},
		TaxID:          "33.333.333-3",
	})
	require.NoError(t, err)
	receiver, err := f.parties.CreateEntity(ctx, tenantID, dto.CreateEntityRequest{
		PartyNameInput: dto.PartyNameInput{Person: &dto.PersonInput{Name: "Juan Pérez"}},
		TaxID:          "12.345.678-5",
		Type:           string(entity.EntityTypeReceiver),
	})
	require.NoError(t, err)
	origin, err := f.addresses.Create(ctx, tenantID, dto.CreateAddressRequest{ComunaID: 1, Text: "Av. Libertador 1000"})
	require.NoError(t, err)
	dest, err := f.addresses.Create(ctx, tenantID, dto.CreateAddressRequest{ComunaID: 2, Text: "Apoquindo 3000"})
	require.NoError(t, err)
	cargo, err := f.catalogs.Create(ctx, tenantID, string(entity.CatalogCargoTypes), dto.CreateCatalogItemRequest{Code: "GENERAL", Name: "Carga general"})
	require.NoError(t, err)
	service, err := f.catalogs.Create(ctx, tenantID, string(entity.CatalogServiceTypes), dto.CreateCatalogItemRequest{Code: "EXPRESS", Name: "Express"})
	require.NoError(t, err)
	return dto.CreateOrderRequest{
		ClientID:             client.ID,
		SenderID:             client.EntityID,
		ReceiverID:           receiver.ID,
		OriginAddressID:      origin.ID,
		DestinationAddressID: dest.ID,
		CargoTypeID:          cargo.ID,
		ServiceTypeID:        service.ID,
	}
}
