package entity

import "time"

// Estados válidos para User.
const (
	UserStatusActive    = "ACTIVO"
	UserStatusInactive  = "INACTIVO"
	UserStatusSuspended = "SUSPENDIDO"
)

// User pertenece a un Tenant y tiene exactamente un Profile a la vez.
type User struct {
	ID           string
	TenantID     string
	ProfileID    string
	Email        string // único en todo el sistema, en minúsculas
	PasswordHash string // bcrypt
	Name         string
	TaxID        string // RUT normalizado, opcional
	Phone        string
	Active       bool
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
