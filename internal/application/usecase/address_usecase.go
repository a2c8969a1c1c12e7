package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

// AddressUseCase direcciones del tenant y catálogo de comunas.
type AddressUseCase struct {
	addresses repository.AddressRepository
	comunas   repository.ComunaRepository
	pages     Pagination
	clock     clock
}

// NewAddressUseCase construye el caso de uso.
func NewAddressUseCase(addresses repository.AddressRepository, comunas repository.ComunaRepository, pages Pagination) *AddressUseCase {
	return &AddressUseCase{addresses: addresses, comunas: comunas, pages: pages}
}

func validCoordinates(lat, lng *float64) error {
	if (lat == nil) != (lng == nil) {
		return invalid("latitude y longitude van juntas")
	}
	if lat != nil && (*lat < -90 || *lat > 90 || *lng < -180 || *lng > 180) {
		return invalid("coordenadas fuera de rango")
	}
	return nil
}

func (uc *AddressUseCase) comuna(ctx context.Context, id int) (*entity.Comuna, error) {
	c, err := uc.comunas.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, invalidRef("comuna_id")
	}
	return c, nil
}

// Create crea una dirección; la comuna debe existir.
func (uc *AddressUseCase) Create(ctx context.Context, tenantID string, in dto.CreateAddressRequest) (*dto.AddressResponse, error) {
	const op = "crear dirección"
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, invalid("text es obligatorio")
	}
	if err := validCoordinates(in.Latitude, in.Longitude); err != nil {
		return nil, err
	}
	origin := entity.AddressOrigin(strings.ToUpper(strings.TrimSpace(in.Origin)))
	if origin == "" {
		origin = entity.AddressOriginManual
	}
	if !origin.Valid() {
		return nil, invalid("origin %q no válido", in.Origin)
	}
	c, err := uc.comuna(ctx, in.ComunaID)
	if err != nil {
		return nil, fail(ctx, op, err)
	}
	now := uc.clock.now()
	a := &entity.Address{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		ComunaID:  c.ID,
		Text:      text,
		Reference: strings.TrimSpace(in.Reference),
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		Origin:    origin,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
		Comuna:    c,
	}
	if err := uc.addresses.Create(ctx, a); err != nil {
		return nil, fail(ctx, op, err)
	}
	resp := toAddressResponse(a)
	return &resp, nil
}

func (uc *AddressUseCase) load(ctx context.Context, op, tenantID, id string) (*entity.Address, error) {
	a, err := uc.addresses.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, fail(ctx, op, err)
	}
	if a == nil {
		return nil, fail(ctx, op, notFound("dirección"))
	}
	return a, nil
}

// Get obtiene una dirección del tenant.
func (uc *AddressUseCase) Get(ctx context.Context, tenantID, id string) (*dto.AddressResponse, error) {
	a, err := uc.load(ctx, "obtener dirección", tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := toAddressResponse(a)
	return &resp, nil
}

// List lista direcciones del tenant, las más usadas primero.
func (uc *AddressUseCase) List(ctx context.Context, tenantID string, q dto.AddressListQuery) (*dto.ListResponse[dto.AddressResponse], error) {
	params, err := uc.pages.Params(q.ListQuery)
	if err != nil {
		return nil, err
	}
	page, err := uc.addresses.List(ctx, tenantID, repository.AddressFilter{
		ListParams: params,
		Active:     q.Activo,
		ComunaID:   q.ComunaID,
		Origin:     entity.AddressOrigin(strings.ToUpper(q.Origin)),
	})
	if err != nil {
		return nil, fail(ctx, "listar direcciones", err)
	}
	return listResponse(page, params, toAddressResponse), nil
}

// Update actualiza texto, referencia, comuna o coordenadas.
func (uc *AddressUseCase) Update(ctx context.Context, tenantID, id string, in dto.UpdateAddressRequest) (*dto.AddressResponse, error) {
	const op = "actualizar dirección"
	a, err := uc.load(ctx, op, tenantID, id)
	if err != nil {
		return nil, err
	}
	if in.Text != nil {
		text := strings.TrimSpace(*in.Text)
		if text == "" {
			return nil, invalid("text no puede quedar vacío")
		}
		a.Text = text
	}
	if in.Reference != nil {
		a.Reference = strings.TrimSpace(*in.Reference)
	}
	if in.Latitude != nil || in.Longitude != nil {
		if err := validCoordinates(in.Latitude, in.Longitude); err != nil {
			return nil, err
		}
		a.Latitude, a.Longitude = in.Latitude, in.Longitude
	}
	if in.ComunaID != nil && *in.ComunaID != a.ComunaID {
		c, err := uc.comuna(ctx, *in.ComunaID)
		if err != nil {
			return nil, fail(ctx, op, err)
		}
		a.ComunaID, a.Comuna = c.ID, c
	}
	a.UpdatedAt = uc.clock.now()
	if err := uc.addresses.Update(ctx, a); err != nil {
		return nil, fail(ctx, op, err)
	}
	resp := toAddressResponse(a)
	return &resp, nil
}

func (uc *AddressUseCase) setActive(ctx context.Context, op, tenantID, id string, active bool) (*dto.AddressResponse, error) {
	a, err := uc.load(ctx, op, tenantID, id)
	if err != nil {
		return nil, err
	}
	a.Active = active
	a.UpdatedAt = uc.clock.now()
	if err := uc.addresses.Update(ctx, a); err != nil {
		return nil, fail(ctx, op, err)
	}
	resp := toAddressResponse(a)
	return &resp, nil
}

// Deactivate baja lógica de la dirección.
func (uc *AddressUseCase) Deactivate(ctx context.Context, tenantID, id string) error {
	_, err := uc.setActive(ctx, "desactivar dirección", tenantID, id, false)
	return err
}

// Reactivate vuelve a activar la dirección.
func (uc *AddressUseCase) Reactivate(ctx context.Context, tenantID, id string) (*dto.AddressResponse, error) {
	return uc.setActive(ctx, "reactivar dirección", tenantID, id, true)
}

// ListComunas lista el catálogo global de comunas.
func (uc *AddressUseCase) ListComunas(ctx context.Context, q dto.ComunaListQuery) (*dto.ListResponse[dto.ComunaResponse], error) {
	params, err := uc.pages.Params(q.ListQuery)
	if err != nil {
		return nil, err
	}
	page, err := uc.comunas.List(ctx, repository.ComunaFilter{ListParams: params, RegionCode: q.RegionCode})
	if err != nil {
		return nil, fail(ctx, "listar comunas", err)
	}
	return listResponse(page, params, toComunaResponse), nil
}
