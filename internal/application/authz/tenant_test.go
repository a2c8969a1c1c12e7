package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Logistica-api/internal/application/authz"
	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/pkg/jwt"
)

func TestResolveTenantID_Prioridad(t *testing.T) {
	cases := []struct {
		name   string
		claims jwt.Claims
		want   string
	}{
		{"snake_case primero", jwt.Claims{TenantID: "t-snake", TenantIDCamel: "t-camel", Tenant: &jwt.TenantRef{ID: "t-nested"}}, "t-snake"},
		{"camelCase si no hay snake", jwt.Claims{TenantIDCamel: "t-camel", Tenant: &jwt.TenantRef{ID: "t-nested"}}, "t-camel"},
		{"anidado al final", jwt.Claims{Tenant: &jwt.TenantRef{ID: "t-nested"}}, "t-nested"},
		{"blancos se ignoran", jwt.Claims{TenantID: "  ", TenantIDCamel: "t-camel"}, "t-camel"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := authz.ResolveTenantID(&tc.claims)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolveTenantID_SinTenant(t *testing.T) {
	_, err := authz.ResolveTenantID(&jwt.Claims{UserID: "u", Tenant: &jwt.TenantRef{}})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = authz.ResolveTenantID(nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestResolveTenantID_Idempotente(t *testing.T) {
	c := &jwt.Claims{TenantIDCamel: "t-1"}
	a, _ := authz.ResolveTenantID(c)
	b, _ := authz.ResolveTenantID(c)
	assert.Equal(t, a, b)
	assert.Equal(t, "t-1", c.TenantIDCamel, "no modifica los claims")
}

func TestIdentityFromClaims(t *testing.T) {
	id, err := authz.IdentityFromClaims(&jwt.Claims{UserID: "u-1", TenantID: "t-1", ProfileID: "p-1"})
	require.NoError(t, err)
	assert.Equal(t, authz.Identity{UserID: "u-1", TenantID: "t-1", ProfileID: "p-1"}, id)

	_, err = authz.IdentityFromClaims(&jwt.Claims{UserID: "u-1", TenantID: "t-1"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "sin perfil")
}
