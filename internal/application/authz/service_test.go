package authz_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Logistica-api/internal/application/authz"
	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/infrastructure/memory"
)

const (
	tenantA = "0b8f3c9a-4a7e-4d1f-9a51-2f6f1d3b7c01"
	tenantB = "0b8f3c9a-4a7e-4d1f-9a51-2f6f1d3b7c02"
)

type world struct {
	store    *memory.Store
	profiles *memory.ProfileRepo
	roles    *memory.RoleRepo
	users    *memory.UserRepo
	tenants  *memory.TenantRepo
	svc      *authz.Service
}

func newWorld(t *testing.T) *world {
	t.Helper()
	s := memory.NewStore()
	w := &world{
		store: s, profiles: memory.NewProfileRepository(s), roles: memory.NewRoleRepository(s),
		users: memory.NewUserRepository(s), tenants: memory.NewTenantRepository(s),
	}
	w.svc = authz.NewService(w.profiles, w.users, w.tenants)
	return w
}

// account crea el tenant activo y un usuario activo con el perfil dado, que ya debe existir.
func (w *world) account(t *testing.T, tenantID, userID, profileID string) *entity.User {
	t.Helper()
	ctx := context.Background()
	if tn, _ := w.tenants.GetByID(ctx, tenantID); tn == nil {
		require.NoError(t, w.tenants.Create(ctx, &entity.Tenant{
			ID: tenantID, Name: tenantID, TaxID: tenantID, Type: entity.TenantTypeClient, Active: true, CreatedAt: time.Now(),
		}))
	}
	u := &entity.User{
		ID: userID, TenantID: tenantID, ProfileID: profileID, Email: userID + "@ejemplo.cl",
		Active: true, Status: entity.UserStatusActive, CreatedAt: time.Now(),
	}
	require.NoError(t, w.users.Create(ctx, u))
	return u
}

func (w *world) profile(t *testing.T, tenantID, id string, active bool) {
	t.Helper()
	require.NoError(t, w.profiles.Create(context.Background(), &entity.Profile{
		ID: id, TenantID: tenantID, Name: id, Type: entity.ProfileTypeBasic, Active: active, CreatedAt: time.Now(),
	}))
}

func (w *world) role(t *testing.T, tenantID, id string, m entity.Module, a entity.Action, active bool) {
	t.Helper()
	require.NoError(t, w.roles.Create(context.Background(), &entity.Role{
		ID: id, TenantID: tenantID, Code: id, Name: id, Module: m, Action: a, Active: active, CreatedAt: time.Now(),
	}))
}

func TestResolve_RolesActivos(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	w.profile(t, tenantA, "p1", true)
	w.role(t, tenantA, "r-ver", entity.ModuleOrders, entity.ActionView, true)
	w.role(t, tenantA, "r-crear", entity.ModuleOrders, entity.ActionCreate, true)
	w.role(t, tenantA, "r-inactivo", entity.ModuleOrders, entity.ActionDelete, false)
	require.NoError(t, w.profiles.ReplaceRoles(ctx, tenantA, "p1", []string{"r-ver", "r-crear", "r-inactivo"}))

	set, err := w.svc.Resolve(ctx, tenantA, "p1")
	require.NoError(t, err)
	assert.True(t, set.Has(entity.ModuleOrders, entity.ActionView))
	assert.True(t, set.Has(entity.ModuleOrders, entity.ActionCreate))
	assert.False(t, set.Has(entity.ModuleOrders, entity.ActionDelete), "rol inactivo no concede")
	assert.Equal(t, 2, set.Len())
}

func TestResolve_ConjuntoVacio(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	w.profile(t, tenantA, "sin-roles", true)
	w.profile(t, tenantA, "inactivo", false)
	w.role(t, tenantA, "r-ver", entity.ModuleOrders, entity.ActionView, true)
	require.NoError(t, w.profiles.ReplaceRoles(ctx, tenantA, "inactivo", []string{"r-ver"}))

	for _, id := range []string{"sin-roles", "inactivo", "no-existe", ""} {
		set, err := w.svc.Resolve(ctx, tenantA, id)
		require.NoError(t, err, id)
		assert.Zero(t, set.Len(), id)
	}

	set, err := w.svc.Resolve(ctx, tenantB, "sin-roles")
	require.NoError(t, err)
	assert.Zero(t, set.Len(), "perfil de otro tenant")
}

func TestResolve_SinTenant(t *testing.T) {
	w := newWorld(t)
	_, err := w.svc.Resolve(context.Background(), "", "p1")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRequire(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	w.profile(t, tenantA, "p1", true)
	w.role(t, tenantA, "r-ver", entity.ModuleClients, entity.ActionView, true)
	require.NoError(t, w.profiles.ReplaceRoles(ctx, tenantA, "p1", []string{"r-ver"}))
	w.account(t, tenantA, "u1", "p1")
	id := authz.Identity{UserID: "u1", TenantID: tenantA, ProfileID: "p1"}

	assert.NoError(t, w.svc.Require(ctx, id, entity.ModuleClients, entity.ActionView))
	assert.ErrorIs(t, w.svc.Require(ctx, id, entity.ModuleClients, entity.ActionCreate), domain.ErrForbidden)
	assert.ErrorIs(t, w.svc.Require(ctx, id, entity.ModuleOrders, entity.ActionView), domain.ErrForbidden)
}

func TestRequire_ErrorDeInfraestructuraNoEsDenegacion(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	w.profile(t, tenantA, "p1", true)
	w.account(t, tenantA, "u1", "p1")
	w.store.FailOn("profiles.Grants", assert.AnError)

	err := w.svc.Require(ctx, authz.Identity{UserID: "u1", TenantID: tenantA, ProfileID: "p1"}, entity.ModuleClients, entity.ActionView)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, domain.ErrForbidden)
}

func TestRequire_CuentaDeshabilitada(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	w.profile(t, tenantA, "p1", true)
	w.role(t, tenantA, "r-ver", entity.ModuleClients, entity.ActionView, true)
	require.NoError(t, w.profiles.ReplaceRoles(ctx, tenantA, "p1", []string{"r-ver"}))
	u := w.account(t, tenantA, "u1", "p1")
	id := authz.Identity{UserID: u.ID, TenantID: tenantA, ProfileID: "p1"}
	require.NoError(t, w.svc.Require(ctx, id, entity.ModuleClients, entity.ActionView))

	err := w.svc.Require(ctx, authz.Identity{UserID: "no-existe", TenantID: tenantA, ProfileID: "p1"}, entity.ModuleClients, entity.ActionView)
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "usuario inexistente")

	u.Status = entity.UserStatusSuspended
	require.NoError(t, w.users.Update(ctx, u))
	assert.ErrorIs(t, w.svc.Require(ctx, id, entity.ModuleClients, entity.ActionView), domain.ErrUnauthorized, "suspendido")

	u.Status, u.Active = entity.UserStatusActive, false
	require.NoError(t, w.users.Update(ctx, u))
	assert.ErrorIs(t, w.svc.Require(ctx, id, entity.ModuleClients, entity.ActionView), domain.ErrUnauthorized, "desactivado")

	u.Active = true
	require.NoError(t, w.users.Update(ctx, u))
	tn, err := w.tenants.GetByID(ctx, tenantA)
	require.NoError(t, err)
	tn.Active = false
	require.NoError(t, w.tenants.Update(ctx, tn))
	assert.ErrorIs(t, w.svc.Require(ctx, id, entity.ModuleClients, entity.ActionView), domain.ErrUnauthorized, "tenant inactivo")
}

func TestRequire_UsaPerfilVigenteDelUsuario(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	w.profile(t, tenantA, "p1", true)
	w.profile(t, tenantA, "p2", true)
	w.role(t, tenantA, "r-ver", entity.ModuleClients, entity.ActionView, true)
	require.NoError(t, w.profiles.ReplaceRoles(ctx, tenantA, "p1", []string{"r-ver"}))
	u := w.account(t, tenantA, "u1", "p2")

	// el token aún lleva el perfil anterior
	err := w.svc.Require(ctx, authz.Identity{UserID: u.ID, TenantID: tenantA, ProfileID: "p1"}, entity.ModuleClients, entity.ActionView)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
