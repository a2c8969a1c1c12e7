package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

// PartyUseCase clientes, transportistas y embarcadores (registros especializados sobre una
// Entidad compartida por RUT) y entidades sueltas (remitentes, destinatarios).
type PartyUseCase struct {
	entities  repository.EntityRepository
	parties   repository.PartyRepository
	addresses repository.AddressRepository
	tx        PartyTxRunner
	pages     Pagination
	clock     clock
}

// NewPartyUseCase construye el caso de uso.
func NewPartyUseCase(entities repository.EntityRepository, parties repository.PartyRepository, addresses repository.AddressRepository, tx PartyTxRunner, pages Pagination) *PartyUseCase {
	return &PartyUseCase{entities: entities, parties: parties, addresses: addresses, tx: tx, pages: pages}
}

// partyName exige exactamente una variante con nombre no vacío.
func partyName(in dto.PartyNameInput) (entity.PartyName, error) {
	switch {
	case in.Person != nil && in.Organization != nil:
		return nil, invalid("indique person u organization, no ambos")
	case in.Person != nil:
		name := strings.TrimSpace(in.Person.Name)
		if name == "" {
			return nil, invalid("person.name es obligatorio")
		}
		return entity.Person{Name: name}, nil
	case in.Organization != nil:
		legal := strings.TrimSpace(in.Organization.LegalName)
		if legal == "" {
			return nil, invalid("organization.legal_name es obligatorio")
		}
		return entity.Organization{LegalName: legal}, nil
	}
	return nil, invalid("person u organization es obligatorio")
}

func checkPartyKind(kind entity.EntityType) error {
	if !entity.IsPartyKind(kind) {
		return fmt.Errorf("tipo de parte %q: %w", kind, domain.ErrInvalidInput)
	}
	return nil
}

// checkAddress exige que la dirección opcional exista en el tenant.
func (uc *PartyUseCase) checkAddress(ctx context.Context, tenantID, addressID string) error {
	if addressID == "" {
		return nil
	}
	a, err := uc.addresses.GetByID(ctx, tenantID, addressID)
	if err != nil {
		return err
	}
	if a == nil {
		return invalidRef("address_id")
	}
	return nil
}

// entityData campos de la entidad comunes a las altas.
type entityData struct {
	taxID     string
	name      entity.PartyName
	contact   string
	email     string
	phone     string
	addressID string
}

func (uc *PartyUseCase) entityData(ctx context.Context, tenantID string, name dto.PartyNameInput, taxID, contact, email, phone, addressID string) (entityData, error) {
	var d entityData
	var err error
	if d.taxID, err = normalizeRUT("tax_id", taxID); err != nil {
		return d, err
	}
	if d.name, err = partyName(name); err != nil {
		return d, err
	}
	d.contact = strings.TrimSpace(contact)
	d.email = strings.ToLower(strings.TrimSpace(email))
	d.phone = strings.TrimSpace(phone)
	d.addressID = strings.TrimSpace(addressID)
	if err := uc.checkAddress(ctx, tenantID, d.addressID); err != nil {
		return d, err
	}
	return d, nil
}

// upsertEntity reutiliza la entidad con ese RUT (actualizándola en el lugar) o la crea.
func upsertEntity(ctx context.Context, entities repository.EntityRepository, tenantID string, typ entity.EntityType, d entityData, now time.Time) (*entity.Entidad, bool, error) {
	existing, err := entities.GetByTaxID(ctx, tenantID, d.taxID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		existing.Name = d.name
		existing.Type = typ
		if d.contact != "" {
			existing.Contact = d.contact
		}
		if d.email != "" {
			existing.Email = d.email
		}
		if d.phone != "" {
			existing.Phone = d.phone
		}
		if d.addressID != "" {
			existing.AddressID = d.addressID
		}
		existing.Active = true
		existing.UpdatedAt = now
		if err := entities.Update(ctx, existing); err != nil {
			return nil, false, err
		}
		return existing, true, nil
	}
	e := &entity.Entidad{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		TaxID:     d.taxID,
		Name:      d.name,
		Type:      typ,
		Contact:   d.contact,
		Email:     d.email,
		Phone:     d.phone,
		AddressID: d.addressID,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := entities.Create(ctx, e); err != nil {
		return nil, false, err
	}
	return e, false, nil
}

// Create crea un cliente, transportista o embarcador. En una sola transacción: si ya
// existe el registro para ese RUT es ErrConflict; si existe la entidad se reutiliza; si
// no, se crea. Nunca quedan entidades huérfanas ni duplicadas.
func (uc *PartyUseCase) Create(ctx context.Context, tenantID string, kind entity.EntityType, in dto.CreatePartyRequest) (*dto.PartyResponse, error) {
	op := "crear " + strings.ToLower(string(kind))
	if err := checkPartyKind(kind); err != nil {
		return nil, err
	}
	d, err := uc.entityData(ctx, tenantID, in.PartyNameInput, in.TaxID, in.Contact, in.Email, in.Phone, in.AddressID)
	if err != nil {
		return nil, fail(ctx, op, err)
	}
	now := uc.clock.now()
	var rec *entity.PartyRecord
	var reused bool
	err = uc.tx.RunParty(ctx, func(entities repository.EntityRepository, parties repository.PartyRepository) error {
		existing, err := parties.GetByTaxID(ctx, tenantID, kind, d.taxID)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("RUT %s ya registrado: %w", d.taxID, domain.ErrConflict)
		}
		e, wasReused, err := upsertEntity(ctx, entities, tenantID, kind, d, now)
		if err != nil {
			return err
		}
		reused = wasReused
		rec = &entity.PartyRecord{
			ID:        uuid.New().String(),
			TenantID:  tenantID,
			EntityID:  e.ID,
			Kind:      kind,
			Code:      strings.TrimSpace(in.Code),
			Notes:     strings.TrimSpace(in.Notes),
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
			Entity:    e,
		}
		return parties.Create(ctx, rec)
	})
	if err != nil {
		return nil, fail(ctx, op, err)
	}
	zerolog.Ctx(ctx).Debug().Str("kind", string(kind)).Str("entity_id", rec.EntityID).Bool("reused", reused).Msg("parte creada")
	resp := toPartyResponse(rec)
	return &resp, nil
}

func (uc *PartyUseCase) load(ctx context.Context, op, tenantID string, kind entity.EntityType, id string) (*entity.PartyRecord, error) {
	if err := checkPartyKind(kind); err != nil {
		return nil, err
	}
	rec, err := uc.parties.GetByID(ctx, tenantID, kind, id)
	if err != nil {
		return nil, fail(ctx, op, err)
	}
	if rec == nil {
		return nil, fail(ctx, op, notFound(strings.ToLower(string(kind))))
	}
	return rec, nil
}

// Get obtiene un registro del tenant con su entidad.
func (uc *PartyUseCase) Get(ctx context.Context, tenantID string, kind entity.EntityType, id string) (*dto.PartyResponse, error) {
	rec, err := uc.load(ctx, "obtener parte", tenantID, kind, id)
	if err != nil {
		return nil, err
	}
	resp := toPartyResponse(rec)
	return &resp, nil
}

// GetByTaxID obtiene un registro del tenant por RUT (en cualquier formato válido).
func (uc *PartyUseCase) GetByTaxID(ctx context.Context, tenantID string, kind entity.EntityType, taxID string) (*dto.PartyResponse, error) {
	const op = "obtener parte por RUT"
	if err := checkPartyKind(kind); err != nil {
		return nil, err
	}
	normalized, err := normalizeRUT("rut", taxID)
	if err != nil {
		return nil, err
	}
	rec, err := uc.parties.GetByTaxID(ctx, tenantID, kind, normalized)
	if err != nil {
		return nil, fail(ctx, op, err)
	}
	if rec == nil {
		return nil, fail(ctx, op, notFound(strings.ToLower(string(kind))))
	}
	resp := toPartyResponse(rec)
	return &resp, nil
}

// List lista registros del tenant; la búsqueda cubre nombre, razón social, RUT y código.
func (uc *PartyUseCase) List(ctx context.Context, tenantID string, kind entity.EntityType, q dto.ListQuery) (*dto.ListResponse[dto.PartyResponse], error) {
	if err := checkPartyKind(kind); err != nil {
		return nil, err
	}
	params, err := uc.pages.Params(q)
	if err != nil {
		return nil, err
	}
	page, err := uc.parties.List(ctx, tenantID, kind, repository.PartyFilter{ListParams: params, Active: q.Activo})
	if err != nil {
		return nil, fail(ctx, "listar partes", err)
	}
	return listResponse(page, params, toPartyResponse), nil
}

// Update actualiza la entidad y el registro en una transacción. El RUT no cambia.
func (uc *PartyUseCase) Update(ctx context.Context, tenantID string, kind entity.EntityType, id string, in dto.UpdatePartyRequest) (*dto.PartyResponse, error) {
	const op = "actualizar parte"
	rec, err := uc.load(ctx, op, tenantID, kind, id)
	if err != nil {
		return nil, err
	}
	e := rec.Entity
	if e == nil {
		return nil, fail(ctx, op, fmt.Errorf("registro %s sin entidad", rec.ID))
	}
	if in.Person != nil || in.Organization != nil {
		name, err := partyName(in.PartyNameInput)
		if err != nil {
			return nil, err
		}
		e.Name = name
	}
	if in.Contact != nil {
		e.Contact = strings.TrimSpace(*in.Contact)
	}
	if in.Email != nil {
		e.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Phone != nil {
		e.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.AddressID != nil {
		addressID := strings.TrimSpace(*in.AddressID)
		if err := uc.checkAddress(ctx, tenantID, addressID); err != nil {
			return nil, fail(ctx, op, err)
		}
		e.AddressID = addressID
	}
	if in.Code != nil {
		rec.Code = strings.TrimSpace(*in.Code)
	}
	if in.Notes != nil {
		rec.Notes = strings.TrimSpace(*in.Notes)
	}
	now := uc.clock.now()
	e.UpdatedAt, rec.UpdatedAt = now, now
	err = uc.tx.RunParty(ctx, func(entities repository.EntityRepository, parties repository.PartyRepository) error {
		if err := entities.Update(ctx, e); err != nil {
			return err
		}
		return parties.Update(ctx, rec)
	})
	if err != nil {
		return nil, fail(ctx, op, err)
	}
	resp := toPartyResponse(rec)
	return &resp, nil
}

func (uc *PartyUseCase) setActive(ctx context.Context, op, tenantID string, kind entity.EntityType, id string, active bool) (*dto.PartyResponse, error) {
	rec, err := uc.load(ctx, op, tenantID, kind, id)
	if err != nil {
		return nil, err
	}
	rec.Active = active
	rec.UpdatedAt = uc.clock.now()
	if err := uc.parties.Update(ctx, rec); err != nil {
		return nil, fail(ctx, op, err)
	}
	resp := toPartyResponse(rec)
	return &resp, nil
}

// Deactivate baja lógica del registro; la entidad sigue disponible para otros roles.
func (uc *PartyUseCase) Deactivate(ctx context.Context, tenantID string, kind entity.EntityType, id string) error {
	_, err := uc.setActive(ctx, "desactivar parte", tenantID, kind, id, false)
	return err
}

// Reactivate vuelve a activar el registro.
func (uc *PartyUseCase) Reactivate(ctx context.Context, tenantID string, kind entity.EntityType, id string) (*dto.PartyResponse, error) {
	return uc.setActive(ctx, "reactivar parte", tenantID, kind, id, true)
}

// CreateEntity crea una entidad suelta (remitente, destinatario u otra) o reutiliza la
// existente con el mismo RUT.
func (uc *PartyUseCase) CreateEntity(ctx context.Context, tenantID string, in dto.CreateEntityRequest) (*dto.EntityResponse, error) {
	const op = "crear entidad"
	typ := entity.EntityType(strings.ToUpper(strings.TrimSpace(in.Type)))
	if typ == "" {
		typ = entity.EntityTypeOther
	}
	if !typ.Valid() {
		return nil, invalid("type %q no válido", in.Type)
	}
	d, err := uc.entityData(ctx, tenantID, in.PartyNameInput, in.TaxID, in.Contact, in.Email, in.Phone, in.AddressID)
	if err != nil {
		return nil, fail(ctx, op, err)
	}
	now := uc.clock.now()
	var e *entity.Entidad
	err = uc.tx.RunParty(ctx, func(entities repository.EntityRepository, _ repository.PartyRepository) error {
		var err error
		e, _, err = upsertEntity(ctx, entities, tenantID, typ, d, now)
		return err
	})
	if err != nil {
		return nil, fail(ctx, op, err)
	}
	resp := toEntityResponse(e)
	return &resp, nil
}

// GetEntity obtiene una entidad del tenant.
func (uc *PartyUseCase) GetEntity(ctx context.Context, tenantID, id string) (*dto.EntityResponse, error) {
	const op = "obtener entidad"
	e, err := uc.entities.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, fail(ctx, op, err)
	}
	if e == nil {
		return nil, fail(ctx, op, notFound("entidad"))
	}
	resp := toEntityResponse(e)
	return &resp, nil
}

// ListEntities lista entidades del tenant.
func (uc *PartyUseCase) ListEntities(ctx context.Context, tenantID string, q dto.EntityListQuery) (*dto.ListResponse[dto.EntityResponse], error) {
	params, err := uc.pages.Params(q.ListQuery)
	if err != nil {
		return nil, err
	}
	typ := entity.EntityType(strings.ToUpper(q.Type))
	if typ != "" && !typ.Valid() {
		return nil, invalid("type %q no válido", q.Type)
	}
	page, err := uc.entities.List(ctx, tenantID, repository.EntityFilter{ListParams: params, Active: q.Activo, Type: typ})
	if err != nil {
		return nil, fail(ctx, "listar entidades", err)
	}
	return listResponse(page, params, toEntityResponse), nil
}
