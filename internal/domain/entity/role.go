package entity

import (
	"regexp"
	"time"
)

var roleCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidCode informa si el código cumple el patrón permitido (alfanumérico, guion y guion bajo).
func ValidCode(code string) bool {
	return roleCodePattern.MatchString(code)
}

// Role es una concesión única (módulo, acción) dentro de un tenant.
type Role struct {
	ID          string
	TenantID    string
	Code        string // único por tenant
	Name        string
	Description string
	Module      Module
	Action      Action
	Order       int  // orden de agrupación en la UI
	Visible     bool // visible en la UI de administración
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
