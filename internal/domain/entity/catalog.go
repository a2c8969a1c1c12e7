package entity

import "time"

// CatalogKind identifica un catálogo paramétrico por tenant.
type CatalogKind string

const (
	CatalogCargoTypes   CatalogKind = "tipos-carga"
	CatalogServiceTypes CatalogKind = "tipos-servicio"
	CatalogEquipment    CatalogKind = "equipos"
)

// Valid informa si el catálogo existe.
func (k CatalogKind) Valid() bool {
	switch k {
	case CatalogCargoTypes, CatalogServiceTypes, CatalogEquipment:
		return true
	}
	return false
}

// CatalogItem es una entrada de catálogo (tipo de carga, tipo de servicio o equipo).
type CatalogItem struct {
	ID        string
	TenantID  string
	Kind      CatalogKind
	Code      string
	Name      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
