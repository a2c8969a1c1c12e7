package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TenantRef es la forma anidada del tenant en los claims ({"tenant": {"id": ...}}).
type TenantRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// El tenant puede venir en snake_case (tenant_id), camelCase (tenantId) o anidado
// (tenant.id) según el emisor; application/authz resuelve cuál usar.
type Claims struct {
	jwt.RegisteredClaims
	UserID        string     `json:"user_id"`
	TenantID      string     `json:"tenant_id,omitempty"`
	TenantIDCamel string     `json:"tenantId,omitempty"`
	Tenant        *TenantRef `json:"tenant,omitempty"`
	ProfileID     string     `json:"profile_id"`
}

// Generate genera un token JWT firmado que incluye userID, tenantID y profileID.
func Generate(secret, userID, tenantID, profileID, issuer string, expMinutes int) (string, error) {
	now := time.Now()
	return Sign(secret, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:    userID,
		TenantID:  tenantID,
		ProfileID: profileID,
	})
}

// Sign firma claims arbitrarios con HS256.
func Sign(secret string, claims Claims) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida firma y expiración del token y devuelve sus claims.
// No valida la presencia del tenant: eso ocurre en la resolución de tenant.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}
