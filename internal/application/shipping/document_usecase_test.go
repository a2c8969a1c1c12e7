package shipping_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Logistica-api/internal/application/shipping"
	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/infrastructure/memory"
)

const (
	tenantA = "4a3c2b1d-0000-4000-8000-00000000000a"
	tenantB = "4a3c2b1d-0000-4000-8000-00000000000b"
)

type captureGenerator struct {
	doc *shipping.OrderDocument
}

func (g *captureGenerator) GenerateOrderDocument(_ context.Context, doc *shipping.OrderDocument) ([]byte, error) {
	g.doc = doc
	return []byte("%PDF-fake"), nil
}

func seed(t *testing.T, s *memory.Store) *entity.Order {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, memory.NewTenantRepository(s).Create(ctx, &entity.Tenant{
		ID: tenantA, Name: "Transportes Sur", TaxID: "76543210-3", Type: entity.TenantTypeCarrier, Active: true,
	}))
	s.AddComunas(entity.Comuna{ID: 1, Code: "13101", Name: "Santiago"})
	entities := memory.NewEntityRepository(s)
	require.NoError(t, entities.Create(ctx, &entity.Entidad{
		ID: "e-1", TenantID: tenantA, TaxID: "33333333-3", Name: entity.Organization{LegalName: "Acme SpA"},
		Type: entity.EntityTypeClient, Active: true,
	}))
	require.NoError(t, memory.NewPartyRepository(s).Create(ctx, &entity.PartyRecord{
		ID: "c-1", TenantID: tenantA, EntityID: "e-1", Kind: entity.EntityTypeClient, Active: true,
	}))
	require.NoError(t, memory.NewAddressRepository(s).Create(ctx, &entity.Address{
		ID: "a-1", TenantID: tenantA, ComunaID: 1, Text: "Av. Libertador 1000", Active: true,
	}))
	catalog := memory.NewCatalogRepository(s)
	require.NoError(t, catalog.Create(ctx, &entity.CatalogItem{ID: "k-1", TenantID: tenantA, Kind: entity.CatalogCargoTypes, Code: "GEN", Name: "General", Active: true}))
	require.NoError(t, catalog.Create(ctx, &entity.CatalogItem{ID: "s-1", TenantID: tenantA, Kind: entity.CatalogServiceTypes, Code: "EXP", Name: "Express", Active: true}))
	o := &entity.Order{
		ID: "o-1", TenantID: tenantA, Code: "ORD-20240601-001",
		ClientID: "c-1", SenderID: "e-1", ReceiverID: "e-1",
		OriginAddressID: "a-1", DestinationAddressID: "a-1",
		CargoTypeID: "k-1", ServiceTypeID: "s-1",
		Status: entity.OrderStatusPending, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, memory.NewOrderRepository(s).Create(ctx, o))
	return o
}

func newUseCase(s *memory.Store, gen shipping.OrderDocumentGenerator) *shipping.DocumentUseCase {
	return shipping.NewDocumentUseCase(shipping.Repositories{
		Orders:    memory.NewOrderRepository(s),
		Tenants:   memory.NewTenantRepository(s),
		Parties:   memory.NewPartyRepository(s),
		Entities:  memory.NewEntityRepository(s),
		Addresses: memory.NewAddressRepository(s),
		Catalogs:  memory.NewCatalogRepository(s),
	}, gen, time.UTC)
}

func TestDownload_ArmaDocumento(t *testing.T) {
	s := memory.NewStore()
	o := seed(t, s)
	gen := &captureGenerator{}

	pdf, name, err := newUseCase(s, gen).Download(context.Background(), tenantA, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "guia-ORD-20240601-001.pdf", name)
	assert.Equal(t, []byte("%PDF-fake"), pdf)

	require.NotNil(t, gen.doc)
	assert.Equal(t, "Transportes Sur", gen.doc.Tenant.Name)
	require.NotNil(t, gen.doc.Client.Entity)
	assert.Equal(t, "Acme SpA", gen.doc.Client.Entity.Name.DisplayName())
	assert.Equal(t, "Santiago", gen.doc.Origin.Comuna.Name)
	assert.Equal(t, "Express", gen.doc.ServiceType.Name)
	assert.Nil(t, gen.doc.Equipment)
}

func TestDownload_OrdenDeOtroTenant(t *testing.T) {
	s := memory.NewStore()
	o := seed(t, s)
	gen := &captureGenerator{}

	_, _, err := newUseCase(s, gen).Download(context.Background(), tenantB, o.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, gen.doc)
}
