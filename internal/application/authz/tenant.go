// Package authz resuelve la identidad de cada petición (tenant, usuario, perfil) y
// decide si el actor puede ejecutar una acción sobre un módulo.
package authz

import (
	"fmt"
	"strings"

	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/pkg/jwt"
)

// Identity es la identidad verificada del actor de una petición.
type Identity struct {
	UserID    string
	TenantID  string
	ProfileID string
}

// ResolveTenantID extrae el tenant de los claims en orden de prioridad:
// tenant_id, tenantId y tenant.id. Los valores en blanco se ignoran.
// Devuelve domain.ErrUnauthorized si ninguno resuelve.
func ResolveTenantID(claims *jwt.Claims) (string, error) {
	if claims == nil {
		return "", fmt.Errorf("claims ausentes: %w", domain.ErrUnauthorized)
	}
	candidates := []string{claims.TenantID, claims.TenantIDCamel}
	if claims.Tenant != nil {
		candidates = append(candidates, claims.Tenant.ID)
	}
	for _, c := range candidates {
		if id := strings.TrimSpace(c); id != "" {
			return id, nil
		}
	}
	return "", fmt.Errorf("tenant no resoluble desde el token: %w", domain.ErrUnauthorized)
}

// IdentityFromClaims construye la identidad completa; exige usuario, tenant y perfil.
func IdentityFromClaims(claims *jwt.Claims) (Identity, error) {
	tenantID, err := ResolveTenantID(claims)
	if err != nil {
		return Identity{}, err
	}
	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" || claims.ProfileID == "" {
		return Identity{}, fmt.Errorf("usuario o perfil ausente en el token: %w", domain.ErrUnauthorized)
	}
	return Identity{UserID: userID, TenantID: tenantID, ProfileID: claims.ProfileID}, nil
}
