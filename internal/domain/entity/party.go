package entity

import (
	"strings"
	"time"
)

// EntityType discrimina el rol de negocio con que se registró una Entidad.
type EntityType string

const (
	EntityTypeClient   EntityType = "CLIENTE"
	EntityTypeCarrier  EntityType = "TRANSPORTISTA"
	EntityTypeShipper  EntityType = "EMBARCADOR"
	EntityTypeSender   EntityType = "REMITENTE"
	EntityTypeReceiver EntityType = "DESTINATARIO"
	EntityTypeOther    EntityType = "OTRO"
)

// Valid informa si el tipo pertenece al vocabulario conocido.
func (t EntityType) Valid() bool {
	switch t {
	case EntityTypeClient, EntityTypeCarrier, EntityTypeShipper, EntityTypeSender, EntityTypeReceiver, EntityTypeOther:
		return true
	}
	return false
}

// PartyName es el nombre de una parte: o es una persona natural o una organización.
// Las únicas implementaciones son Person y Organization.
type PartyName interface {
	DisplayName() string
	isPartyName()
}

// Person es una persona natural.
type Person struct {
	Name string
}

func (p Person) DisplayName() string { return p.Name }
func (Person) isPartyName() {}

// Organization es una persona jurídica identificada por su razón social.
type Organization struct {
	LegalName string
}

func (o Organization) DisplayName() string { return o.LegalName }
func (Organization) isPartyName() {}

// IsPerson informa si el nombre corresponde a una persona natural.
func IsPerson(n PartyName) bool {
	_, ok := n.(Person)
	return ok
}

// PartyNameFromColumns reconstruye la variante desde las columnas persistidas
// (es_persona, nombre, razon_social). Devuelve nil si la fila es inconsistente.
func PartyNameFromColumns(isPerson bool, name, legalName *string) PartyName {
	if isPerson {
		if name == nil || strings.TrimSpace(*name) == "" {
			return nil
		}
		return Person{Name: *name}
	}
	if legalName == nil || strings.TrimSpace(*legalName) == "" {
		return nil
	}
	return Organization{LegalName: *legalName}
}

// Entidad es el supertipo compartido de toda parte (cliente, transportista, embarcador,
// remitente o destinatario) dentro de un tenant. El RUT es único por tenant.
type Entidad struct {
	ID        string
	TenantID  string
	TaxID     string // RUT normalizado
	Name      PartyName
	Type      EntityType
	Contact   string
	Email     string
	Phone     string
	AddressID string // opcional
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PartyRecord es el registro especializado (cliente, transportista o embarcador) que
// referencia a una Entidad. Kind indica la tabla a la que pertenece.
type PartyRecord struct {
	ID        string
	TenantID  string
	EntityID  string
	Kind      EntityType
	Code      string // código interno opcional
	Notes     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time

	// Entity se completa en lecturas (join con entidades).
	Entity *Entidad
}

// PartyKinds son los tipos con registro especializado.
var PartyKinds = []EntityType{EntityTypeClient, EntityTypeCarrier, EntityTypeShipper}

// IsPartyKind informa si el tipo tiene tabla especializada.
func IsPartyKind(t EntityType) bool {
	for _, k := range PartyKinds {
		if t == k {
			return true
		}
	}
	return false
}
