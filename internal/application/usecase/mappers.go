package usecase

import (
	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/domain/access"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/pkg/rut"
)

// ToTenantResponse convierte la entidad; el RUT sale formateado (76.086.428-5).
func ToTenantResponse(t *entity.Tenant) dto.TenantResponse {
	return dto.TenantResponse{
		ID:        t.ID,
		Name:      t.Name,
		TaxID:     rut.Format(t.TaxID),
		Contact:   t.Contact,
		Email:     t.Email,
		Phone:     t.Phone,
		Type:      string(t.Type),
		Active:    t.Active,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// ToUserResponse convierte la entidad sin exponer el hash.
func ToUserResponse(u *entity.User) dto.UserResponse {
	taxID := ""
	if u.TaxID != "" {
		taxID = rut.Format(u.TaxID)
	}
	return dto.UserResponse{
		ID:        u.ID,
		TenantID:  u.TenantID,
		ProfileID: u.ProfileID,
		Email:     u.Email,
		Name:      u.Name,
		TaxID:     taxID,
		Phone:     u.Phone,
		Active:    u.Active,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toProfileResponse(p *entity.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Type:        p.Type,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toRoleResponse(r *entity.Role) dto.RoleResponse {
	return dto.RoleResponse{
		ID:          r.ID,
		Code:        r.Code,
		Name:        r.Name,
		Description: r.Description,
		Module:      string(r.Module),
		Action:      string(r.Action),
		Order:       r.Order,
		Visible:     r.Visible,
		Active:      r.Active,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// ToPermissionResponses lista ordenada de concesiones.
func ToPermissionResponses(set access.PermissionSet) []dto.PermissionResponse {
	grants := set.Grants()
	out := make([]dto.PermissionResponse, 0, len(grants))
	for _, g := range grants {
		out = append(out, dto.PermissionResponse{Module: string(g.Module), Action: string(g.Action)})
	}
	return out
}

func toEntityResponse(e *entity.Entidad) dto.EntityResponse {
	resp := dto.EntityResponse{
		ID:        e.ID,
		TaxID:     rut.Format(e.TaxID),
		Type:      string(e.Type),
		Contact:   e.Contact,
		Email:     e.Email,
		Phone:     e.Phone,
		AddressID: e.AddressID,
		Active:    e.Active,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
	switch n := e.Name.(type) {
	case entity.Person:
		resp.Name = n.Name
		resp.Person = &dto.PersonInput{Name: n.Name}
	case entity.Organization:
		resp.Name = n.LegalName
		resp.Organization = &dto.OrganizationInput{LegalName: n.LegalName}
	}
	return resp
}

func toPartyResponse(p *entity.PartyRecord) dto.PartyResponse {
	resp := dto.PartyResponse{
		ID:        p.ID,
		EntityID:  p.EntityID,
		Code:      p.Code,
		Notes:     p.Notes,
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Entity != nil {
		resp.Entity = toEntityResponse(p.Entity)
	}
	return resp
}

func toComunaResponse(c *entity.Comuna) dto.ComunaResponse {
	return dto.ComunaResponse{
		ID:         c.ID,
		Code:       c.Code,
		Name:       c.Name,
		RegionCode: c.RegionCode,
		RegionName: c.RegionName,
	}
}

func toAddressResponse(a *entity.Address) dto.AddressResponse {
	resp := dto.AddressResponse{
		ID:         a.ID,
		ComunaID:   a.ComunaID,
		Text:       a.Text,
		Reference:  a.Reference,
		Latitude:   a.Latitude,
		Longitude:  a.Longitude,
		UsageCount: a.UsageCount,
		Origin:     string(a.Origin),
		Active:     a.Active,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
	if a.Comuna != nil {
		c := toComunaResponse(a.Comuna)
		resp.Comuna = &c
	}
	return resp
}

func toCatalogItemResponse(it *entity.CatalogItem) dto.CatalogItemResponse {
	return dto.CatalogItemResponse{
		ID:        it.ID,
		Kind:      string(it.Kind),
		Code:      it.Code,
		Name:      it.Name,
		Active:    it.Active,
		CreatedAt: it.CreatedAt,
	}
}

// ToOrderResponse convierte la entidad.
func ToOrderResponse(o *entity.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:                   o.ID,
		Code:                 o.Code,
		ClientID:             o.ClientID,
		SenderID:             o.SenderID,
		ReceiverID:           o.ReceiverID,
		OriginAddressID:      o.OriginAddressID,
		DestinationAddressID: o.DestinationAddressID,
		CargoTypeID:          o.CargoTypeID,
		ServiceTypeID:        o.ServiceTypeID,
		EquipmentID:          o.EquipmentID,
		Weight:               o.Weight,
		Volume:               o.Volume,
		Length:               o.Length,
		Width:                o.Width,
		Height:               o.Height,
		Packages:             o.Packages,
		Notes:                o.Notes,
		Status:               string(o.Status),
		ScheduledAt:          o.ScheduledAt,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
}
