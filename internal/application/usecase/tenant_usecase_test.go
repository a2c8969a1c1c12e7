package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
	"github.com/jhoicas/Logistica-api/internal/infrastructure/memory"
)

func TestBootstrap_CreaTenantYAdministrador(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := BootstrapInput{TenantName: "Administración", TenantRUT: adminRUT, AdminEmail: "Admin@Logistica.cl", AdminPassword: "secreto-123"}

	created, err := f.tenants.Bootstrap(ctx, in)
	require.NoError(t, err)
	assert.True(t, created)

	u, err := memory.NewUserRepository(f.store).GetByEmail(ctx, "admin@logistica.cl")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.NotEqual(t, "secreto-123", u.PasswordHash)

	grants, err := memory.NewProfileRepository(f.store).Grants(ctx, u.TenantID, u.ProfileID)
	require.NoError(t, err)
	assert.Len(t, grants, len(entity.Modules)*len(entity.Actions))

	created, err = f.tenants.Bootstrap(ctx, in)
	require.NoError(t, err)
	assert.False(t, created, "segunda ejecución no hace nada")
}

func TestTenantCreate_ProvisionaPerfilAdministrador(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	adminID := f.adminTenant(t)

	resp, err := f.tenants.Create(ctx, adminID, dto.CreateTenantRequest{Name: "Transportes Sur", TaxID: "76543210-3", Type: "carrier"})
	require.NoError(t, err)
	assert.Equal(t, "76.543.210-3", resp.TaxID)
	assert.Equal(t, "CARRIER", resp.Type)

	profiles, err := f.profiles.List(ctx, resp.ID, dto.ProfileListQuery{})
	require.NoError(t, err)
	require.Equal(t, 1, profiles.Total)
	assert.Equal(t, entity.ProfileTypeAdmin, profiles.Items[0].Type)

	roles, err := f.profiles.Roles(ctx, resp.ID, profiles.Items[0].ID)
	require.NoError(t, err)
	assert.Len(t, roles, 55)
}

func TestTenantCreate_RUTDuplicado(t *testing.T) {
	f := newFixture(t)
	adminID := f.adminTenant(t)
	f.clientTenant(t, adminID, "Acme", "76.543.210-3")

	_, err := f.tenants.Create(context.Background(), adminID, dto.CreateTenantRequest{Name: "Otra", TaxID: "765432103", Type: "CLIENT"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestTenantCreate_SoloAdmin(t *testing.T) {
	f := newFixture(t)
	adminID := f.adminTenant(t)
	clientID := f.clientTenant(t, adminID, "Acme", "76.543.210-3")

	_, err := f.tenants.Create(context.Background(), clientID, dto.CreateTenantRequest{Name: "X", TaxID: "11.111.111-1", Type: "CLIENT"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.tenants.List(context.Background(), clientID, dto.TenantListQuery{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestTenantCreate_RollbackSiFallaProvision(t *testing.T) {
	f := newFixture(t)
	adminID := f.adminTenant(t)
	f.store.FailOn("profiles.Create", assert.AnError)

	_, err := f.tenants.Create(context.Background(), adminID, dto.CreateTenantRequest{Name: "Acme", TaxID: "76.543.210-3", Type: "CLIENT"})
	require.ErrorIs(t, err, assert.AnError)

	page, err := memory.NewTenantRepository(f.store).List(context.Background(), repository.TenantFilter{ListParams: repository.ListParams{Page: 1, Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total, "solo queda el tenant administrador")
}

func TestTenantGet_AjenoEsInexistente(t *testing.T) {
	f := newFixture(t)
	adminID := f.adminTenant(t)
	a := f.clientTenant(t, adminID, "Acme", "76.543.210-3")
	b := f.clientTenant(t, adminID, "Beta", "11.111.111-1")

	_, err := f.tenants.Get(context.Background(), a, b)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := f.tenants.Get(context.Background(), adminID, b)
	require.NoError(t, err)
	assert.Equal(t, "Beta", got.Name)
}

func TestTenantDeactivate_ConUsuariosActivos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	adminID := f.adminTenant(t)

	err := f.tenants.Deactivate(ctx, adminID, adminID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	clientID := f.clientTenant(t, adminID, "Acme", "76.543.210-3")
	require.NoError(t, f.tenants.Deactivate(ctx, adminID, clientID))
	got, err := f.tenants.Get(ctx, adminID, clientID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	got, err = f.tenants.Reactivate(ctx, adminID, clientID)
	require.NoError(t, err)
	assert.True(t, got.Active)
}

func TestTenantUpdate_TipoSoloAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	adminID := f.adminTenant(t)
	clientID := f.clientTenant(t, adminID, "Acme", "76.543.210-3")

	admin := "admin"
	_, err := f.tenants.Update(ctx, clientID, clientID, dto.UpdateTenantRequest{Type: &admin})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.tenants.List(ctx, clientID, dto.TenantListQuery{})
	assert.ErrorIs(t, err, domain.ErrForbidden, "el tipo no cambió")
	_, err = f.tenants.Get(ctx, clientID, adminID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	same, name := "CLIENT", "Acme Ltda"
	got, err := f.tenants.Update(ctx, clientID, clientID, dto.UpdateTenantRequest{Type: &same, Name: &name})
	require.NoError(t, err, "repetir el tipo actual no es un cambio")
	assert.Equal(t, "Acme Ltda", got.Name)

	carrier := "CARRIER"
	got, err = f.tenants.Update(ctx, adminID, clientID, dto.UpdateTenantRequest{Type: &carrier})
	require.NoError(t, err)
	assert.Equal(t, "CARRIER", got.Type)
}

// lateUserTx ejecuta before justo antes de abrir la transacción.
type lateUserTx struct {
	TenantTxRunner
	before func()
}

func (l lateUserTx) RunTenant(ctx context.Context, fn func(
	tenants repository.TenantRepository,
	profiles repository.ProfileRepository,
	roles repository.RoleRepository,
	users repository.UserRepository,
) error) error {
	if l.before != nil {
		l.before()
	}
	return l.TenantTxRunner.RunTenant(ctx, fn)
}

func TestTenantDeactivate_CuentaUsuariosDentroDeLaTransaccion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	adminID := f.adminTenant(t)
	clientID := f.clientTenant(t, adminID, "Acme", "76.543.210-3")
	p, err := f.profiles.Create(ctx, clientID, dto.CreateProfileRequest{Name: "Operador"})
	require.NoError(t, err)
	u, err := f.users.Create(ctx, clientID, dto.CreateUserRequest{ProfileID: p.ID, Email: "ana@acme.cl", Password: "clave-segura", Name: "Ana"})
	require.NoError(t, err)
	require.NoError(t, f.users.Deactivate(ctx, clientID, u.ID))

	// el usuario vuelve a estar activo después de la lectura de visibilidad
	f.tenants.tx = lateUserTx{TenantTxRunner: f.tenants.tx, before: func() {
		_, err := f.users.Reactivate(ctx, clientID, u.ID)
		require.NoError(t, err)
	}}

	err = f.tenants.Deactivate(ctx, adminID, clientID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	got, err := f.tenants.Get(ctx, adminID, clientID)
	require.NoError(t, err)
	assert.True(t, got.Active)
}
