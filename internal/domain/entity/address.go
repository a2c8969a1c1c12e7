package entity

import "time"

// AddressOrigin indica cómo se obtuvo la dirección.
type AddressOrigin string

const (
	AddressOriginManual   AddressOrigin = "MANUAL"
	AddressOriginGeocoded AddressOrigin = "GEOCODIFICADA"
	AddressOriginReused   AddressOrigin = "REUTILIZADA"
)

// Valid informa si el origen pertenece al vocabulario conocido.
func (o AddressOrigin) Valid() bool {
	switch o {
	case AddressOriginManual, AddressOriginGeocoded, AddressOriginReused:
		return true
	}
	return false
}

// Comuna es la subdivisión administrativa usada como componente de una dirección.
// Es un catálogo global (no pertenece a un tenant).
type Comuna struct {
	ID         int
	Code       string // código territorial
	Name       string
	RegionCode string
	RegionName string
}

// Address (dirección) pertenece a un tenant y referencia una comuna.
type Address struct {
	ID         string
	TenantID   string
	ComunaID   int
	Text       string // dirección en texto libre
	Reference  string
	Latitude   *float64
	Longitude  *float64
	UsageCount int
	Origin     AddressOrigin
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Comuna se completa en lecturas.
	Comuna *Comuna
}
