package entity

import "time"

// TenantType clasifica a la organización cliente de la plataforma.
type TenantType string

const (
	TenantTypeAdmin   TenantType = "ADMIN"
	TenantTypeShipper TenantType = "SHIPPER"
	TenantTypeCarrier TenantType = "CARRIER"
	TenantTypeClient  TenantType = "CLIENT"
)

// Valid informa si el tipo pertenece al vocabulario conocido.
func (t TenantType) Valid() bool {
	switch t {
	case TenantTypeAdmin, TenantTypeShipper, TenantTypeCarrier, TenantTypeClient:
		return true
	}
	return false
}

// Tenant es la frontera de aislamiento: todo registro de negocio pertenece a exactamente uno.
type Tenant struct {
	ID        string
	Name      string
	TaxID     string // RUT normalizado (sin puntos, con guion)
	Contact   string
	Email     string
	Phone     string
	Type      TenantType
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
