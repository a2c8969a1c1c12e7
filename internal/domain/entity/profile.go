package entity

import "time"

// Tipos de perfil.
const (
	ProfileTypeBasic    = "BASICO"
	ProfileTypeAdvanced = "AVANZADO"
	ProfileTypeAdmin    = "ADMINISTRADOR"
)

// Profile agrupa roles (permisos) y se asigna a usuarios de un tenant.
type Profile struct {
	ID          string
	TenantID    string
	Name        string
	Description string
	Type        string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProfileRole vincula un perfil con un rol. Lleva su propio tenant_id además de los de
// Profile y Role: ninguna consulta cruza tenants aunque una fila quede mal asociada.
type ProfileRole struct {
	ID        string
	TenantID  string
	ProfileID string
	RoleID    string
	CreatedAt time.Time
}
