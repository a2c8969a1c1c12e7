// Package shipping arma la guía de despacho (PDF) de una orden de transporte.
package shipping

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

// Repositories lecturas necesarias para armar la guía.
type Repositories struct {
	Orders    repository.OrderRepository
	Tenants   repository.TenantRepository
	Parties   repository.PartyRepository
	Entities  repository.EntityRepository
	Addresses repository.AddressRepository
	Catalogs  repository.CatalogRepository
}

// DocumentUseCase genera la guía de despacho de una orden del tenant.
type DocumentUseCase struct {
	repos     Repositories
	generator OrderDocumentGenerator
	loc       *time.Location
	now       func() time.Time
}

// NewDocumentUseCase construye el caso de uso. loc es la zona horaria de negocio.
func NewDocumentUseCase(repos Repositories, generator OrderDocumentGenerator, loc *time.Location) *DocumentUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &DocumentUseCase{repos: repos, generator: generator, loc: loc, now: time.Now}
}

// Download devuelve el PDF y su nombre de archivo. Una orden de otro tenant es ErrNotFound.
func (uc *DocumentUseCase) Download(ctx context.Context, tenantID, orderID string) ([]byte, string, error) {
	o, err := uc.repos.Orders.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, "", fmt.Errorf("guía: obtener orden: %w", err)
	}
	if o == nil {
		return nil, "", fmt.Errorf("orden: %w", domain.ErrNotFound)
	}
	doc, err := uc.assemble(ctx, o)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.generator.GenerateOrderDocument(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("guía %s: %w", o.Code, err)
	}
	zerolog.Ctx(ctx).Debug().Str("order_id", o.ID).Int("bytes", len(pdf)).Msg("guía de despacho generada")
	return pdf, fmt.Sprintf("guia-%s.pdf", o.Code), nil
}

func (uc *DocumentUseCase) assemble(ctx context.Context, o *entity.Order) (*OrderDocument, error) {
	doc := &OrderDocument{Order: o, IssuedAt: uc.now().In(uc.loc)}
	var err error
	if doc.Tenant, err = uc.repos.Tenants.GetByID(ctx, o.TenantID); err != nil {
		return nil, fmt.Errorf("guía: tenant: %w", err)
	}
	if doc.Client, err = uc.repos.Parties.GetByID(ctx, o.TenantID, entity.EntityTypeClient, o.ClientID); err != nil {
		return nil, fmt.Errorf("guía: cliente: %w", err)
	}
	if doc.Sender, err = uc.repos.Entities.GetByID(ctx, o.TenantID, o.SenderID); err != nil {
		return nil, fmt.Errorf("guía: remitente: %w", err)
	}
	if doc.Receiver, err = uc.repos.Entities.GetByID(ctx, o.TenantID, o.ReceiverID); err != nil {
		return nil, fmt.Errorf("guía: destinatario: %w", err)
	}
	if doc.Origin, err = uc.repos.Addresses.GetByID(ctx, o.TenantID, o.OriginAddressID); err != nil {
		return nil, fmt.Errorf("guía: origen: %w", err)
	}
	if doc.Destination, err = uc.repos.Addresses.GetByID(ctx, o.TenantID, o.DestinationAddressID); err != nil {
		return nil, fmt.Errorf("guía: destino: %w", err)
	}
	if doc.CargoType, err = uc.repos.Catalogs.GetByID(ctx, o.TenantID, entity.CatalogCargoTypes, o.CargoTypeID); err != nil {
		return nil, fmt.Errorf("guía: tipo de carga: %w", err)
	}
	if doc.ServiceType, err = uc.repos.Catalogs.GetByID(ctx, o.TenantID, entity.CatalogServiceTypes, o.ServiceTypeID); err != nil {
		return nil, fmt.Errorf("guía: tipo de servicio: %w", err)
	}
	if o.EquipmentID != "" {
		if doc.Equipment, err = uc.repos.Catalogs.GetByID(ctx, o.TenantID, entity.CatalogEquipment, o.EquipmentID); err != nil {
			return nil, fmt.Errorf("guía: equipo: %w", err)
		}
	}
	return doc, nil
}
