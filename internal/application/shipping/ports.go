package shipping

import (
	"context"
	"time"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// OrderDocument datos ya resueltos para la guía de despacho de una orden. Las referencias
// que no se pudieron cargar quedan en nil y se imprimen como "—".
type OrderDocument struct {
	Order       *entity.Order
	Tenant      *entity.Tenant
	Client      *entity.PartyRecord
	Sender      *entity.Entidad
	Receiver    *entity.Entidad
	Origin      *entity.Address
	Destination *entity.Address
	CargoType   *entity.CatalogItem
	ServiceType *entity.CatalogItem
	Equipment   *entity.CatalogItem
	IssuedAt    time.Time // en la zona horaria de negocio
}

// OrderDocumentGenerator genera la guía de despacho en PDF.
type OrderDocumentGenerator interface {
	GenerateOrderDocument(ctx context.Context, doc *OrderDocument) ([]byte, error)
}
