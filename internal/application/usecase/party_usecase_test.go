package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

func acme(rut string) dto.CreatePartyRequest {
	return dto.CreatePartyRequest{
		PartyNameInput: dto.PartyNameInput{Organization: &dto.OrganizationInput{LegalName: "Acme SpA"}},
		TaxID:          rut,
		Email:          "Contacto@Acme.cl",
	}
}

func TestPartyCreate_ClienteAcme(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	adminID := f.adminTenant(t)
	tenantID := f.clientTenant(t, adminID, "Operador", "76.543.210-3")

	created, err := f.parties.Create(ctx, tenantID, entity.EntityTypeClient, acme("33.333.333-3"))
	require.NoError(t, err)
	assert.Equal(t, "Acme SpA", created.Entity.Name)
	assert.Equal(t, "33.333.333-3", created.Entity.TaxID)
	assert.Equal(t, string(entity.EntityTypeClient), created.Entity.Type)
	assert.True(t, created.Active)

	for _, rut := range []string{"33333333-3", "33.333.333-3", "333333333"} {
		got, err := f.parties.GetByTaxID(ctx, tenantID, entity.EntityTypeClient, rut)
		require.NoError(t, err, rut)
		assert.Equal(t, created.ID, got.ID, rut)
	}

	_, err = f.parties.Create(ctx, tenantID, entity.EntityTypeClient, acme("33333333-3"))
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestPartyCreate_MismoRUTEnOtroTenant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	adminID := f.adminTenant(t)
	a := f.clientTenant(t, adminID, "Operador A", "76.543.210-3")
	b := f.clientTenant(t, adminID, "Operador B", "11.111.111-1")

	ra, err := f.parties.Create(ctx, a, entity.EntityTypeClient, acme("33.333.333-3"))
	require.NoError(t, err)
	rb, err := f.parties.Create(ctx, b, entity.EntityTypeClient, acme("33.333.333-3"))
	require.NoError(t, err)
	assert.NotEqual(t, ra.EntityID, rb.EntityID)

	_, err = f.parties.Get(ctx, b, entity.EntityTypeClient, ra.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "un tenant no ve registros de otro")

	list, err := f.parties.List(ctx, b, entity.EntityTypeClient, dto.ListQuery{})
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, rb.ID, list.Items[0].ID)
}

func TestPartyCreate_ReutilizaEntidad(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	adminID := f.adminTenant(t)
	tenantID := f.clientTenant(t, adminID, "Operador", "76.543.210-3")

	client, err := f.parties.Create(ctx, tenantID, entity.EntityTypeClient, acme("33.333.333-3"))
	require.NoError(t, err)
	carrier, err := f.parties.Create(ctx, tenantID, entity.EntityTypeCarrier, acme("33333333-3"))
	require.NoError(t, err)
	assert.Equal(t, client.EntityID, carrier.EntityID)

	entities, err := f.parties.ListEntities(ctx, tenantID, dto.EntityListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, entities.Total)
}

func TestPartyCreate_ReutilizaEntidadRefrescaTipo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	adminID := f.adminTenant(t)
	tenantID := f.clientTenant(t, adminID, "Operador", "76.543.210-3")

	sender, err := f.parties.CreateEntity(ctx, tenantID, dto.CreateEntityRequest{
		PartyNameInput: dto.PartyNameInput{Organization: &dto.OrganizationInput{LegalName: "Acme SpA"}},
		TaxID:          "33.333.333-3",
		Type:           string(entity.EntityTypeSender),
	})
	require.NoError(t, err)
	client, err := f.parties.Create(ctx, tenantID, entity.EntityTypeClient, acme("33.333.333-3"))
	require.NoError(t, err)
	require.Equal(t, sender.ID, client.EntityID)

	got, err := f.parties.GetEntity(ctx, tenantID, sender.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.EntityTypeClient), got.Type)

	clients, err := f.parties.ListEntities(ctx, tenantID, dto.EntityListQuery{Type: string(entity.EntityTypeClient)})
	require.NoError(t, err)
	assert.Equal(t, 1, clients.Total)
}

func TestPartyCreate_RollbackNoDejaEntidadHuerfana(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	adminID := f.adminTenant(t)
	tenantID := f.clientTenant(t, adminID, "Operador", "76.543.210-3")
	f.store.FailOn("parties.Create", assert.AnError)

	_, err := f.parties.Create(ctx, tenantID, entity.EntityTypeShipper, acme("33.333.333-3"))
	require.ErrorIs(t, err, assert.AnError)

	entities, err := f.parties.ListEntities(ctx, tenantID, dto.EntityListQuery{})
	require.NoError(t, err)
	assert.Zero(t, entities.Total)
}

func TestPartyCreate_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	adminID := f.adminTenant(t)
	tenantID := f.clientTenant(t, adminID, "Operador", "76.543.210-3")

	_, err := f.parties.Create(ctx, tenantID, entity.EntityTypeClient, acme("33.333.333-4"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "dígito verificador")

	both := acme("33.333.333-3")
	both.Person = &dto.PersonInput{Name: "Juan"}
	_, err = f.parties.Create(ctx, tenantID, entity.EntityTypeClient, both)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "persona y organización a la vez")

	none := acme("33.333.333-3")
	none.Organization = nil
	_, err = f.parties.Create(ctx, tenantID, entity.EntityTypeClient, none)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin nombre")

	_, err = f.parties.Create(ctx, tenantID, entity.EntityTypeReceiver, acme("33.333.333-3"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "destinatario no tiene registro propio")

	withAddress := acme("33.333.333-3")
	withAddress.AddressID = "7b0c51d4-2d6e-4a53-9d21-1d1b7f0f6a11"
	_, err = f.parties.Create(ctx, tenantID, entity.EntityTypeClient, withAddress)
	assert.ErrorIs(t, err, domain.ErrInvalidReference)
}

func TestPartyList_PaginaYBusqueda(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	adminID := f.adminTenant(t)
	tenantID := f.clientTenant(t, adminID, "Operador", "76.543.210-3")

	ruts := []string{"11.111.111-1", "22.222.222-2", "33.333.333-3", "44.444.444-4", "55.555.555-5", "12.345.678-5", "96.000.000-5"}
	for _, r := range ruts {
		_, err := f.parties.Create(ctx, tenantID, entity.EntityTypeClient, acme(r))
		require.NoError(t, err)
	}
	page, err := f.parties.List(ctx, tenantID, entity.EntityTypeClient, dto.ListQuery{Page: 2, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 7, page.Total)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.Page)

	_, err = f.parties.List(ctx, tenantID, entity.EntityTypeClient, dto.ListQuery{Limit: 101})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPartyDeactivate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	adminID := f.adminTenant(t)
	tenantID := f.clientTenant(t, adminID, "Operador", "76.543.210-3")

	c, err := f.parties.Create(ctx, tenantID, entity.EntityTypeClient, acme("33.333.333-3"))
	require.NoError(t, err)
	require.NoError(t, f.parties.Deactivate(ctx, tenantID, entity.EntityTypeClient, c.ID))

	got, err := f.parties.Get(ctx, tenantID, entity.EntityTypeClient, c.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	inactive := false
	list, err := f.parties.List(ctx, tenantID, entity.EntityTypeClient, dto.ListQuery{Activo: &inactive})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
}

func TestPartyList_BuscaEnContactoYEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	adminID := f.adminTenant(t)
	tenantID := f.clientTenant(t, adminID, "Operador", "76.543.210-3")

	in := acme("33.333.333-3")
	in.Contact = "María González"
	in.Email = "ventas@acme.cl"
	_, err := f.parties.Create(ctx, tenantID, entity.EntityTypeClient, in)
	require.NoError(t, err)
	_, err = f.parties.Create(ctx, tenantID, entity.EntityTypeClient, dto.CreatePartyRequest{
		PartyNameInput: dto.PartyNameInput{Person: &dto.PersonInput{Name: "Pedro Soto"}},
		TaxID:          "12.345.678-5",
	})
	require.NoError(t, err)

	for _, term := range []string{"acme", "gonzález", "ventas@acme"} {
		page, err := f.parties.List(ctx, tenantID, entity.EntityTypeClient, dto.ListQuery{Search: term})
		require.NoError(t, err, term)
		assert.Equal(t, 1, page.Total, term)
	}
	entities, err := f.parties.ListEntities(ctx, tenantID, dto.EntityListQuery{ListQuery: dto.ListQuery{Search: "ventas@"}})
	require.NoError(t, err)
	assert.Equal(t, 1, entities.Total)
}
