package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

var (
	_ repository.EntityRepository = (*EntityRepo)(nil)
	_ repository.PartyRepository  = (*PartyRepo)(nil)
)

// EntityRepo entidades en memoria.
type EntityRepo struct{ s *Store }

// NewEntityRepository construye el adaptador.
func NewEntityRepository(s *Store) *EntityRepo { return &EntityRepo{s: s} }

func (r *EntityRepo) checkAddress(e *entity.Entidad) error {
	if e.AddressID == "" {
		return nil
	}
	if a, ok := r.s.addresses[e.AddressID]; !ok || a.TenantID != e.TenantID {
		return invalidRef("entidad: dirección")
	}
	return nil
}

func (r *EntityRepo) Create(_ context.Context, e *entity.Entidad) error {
	if err := requireTenant(e.TenantID); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("entities.Create"); err != nil {
		return err
	}
	for _, o := range r.s.entities {
		if o.TenantID == e.TenantID && o.TaxID == e.TaxID {
			return conflict("insert entity")
		}
	}
	if err := r.checkAddress(e); err != nil {
		return err
	}
	r.s.entities[e.ID] = *e
	return nil
}

func (r *EntityRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Entidad, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.entities[id]
	if !ok || e.TenantID != tenantID {
		return nil, nil
	}
	return &e, nil
}

func (r *EntityRepo) GetByTaxID(_ context.Context, tenantID, taxID string) (*entity.Entidad, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.entities {
		if e.TenantID == tenantID && e.TaxID == taxID {
			return &e, nil
		}
	}
	return nil, nil
}

func (r *EntityRepo) Update(_ context.Context, e *entity.Entidad) error {
	if err := requireTenant(e.TenantID); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkAddress(e); err != nil {
		return err
	}
	if old, ok := r.s.entities[e.ID]; ok && old.TenantID == e.TenantID {
		r.s.entities[e.ID] = *e
	}
	return nil
}

func (r *EntityRepo) List(_ context.Context, tenantID string, f repository.EntityFilter) (*repository.Page[*entity.Entidad], error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var items []*entity.Entidad
	for _, e := range r.s.entities {
		if e.TenantID != tenantID || !activeMatches(f.Active, e.Active) || (f.Type != "" && e.Type != f.Type) {
			continue
		}
		if !matches(f.Search, e.Name.DisplayName(), e.TaxID, e.Contact, e.Email) {
			continue
		}
		items = append(items, ptr(e))
	}
	return paginate(items, f.ListParams, func(a, b *entity.Entidad) bool {
		return a.Name.DisplayName() < b.Name.DisplayName()
	}), nil
}

// PartyRepo registros especializados (clientes, transportistas, embarcadores) en memoria.
type PartyRepo struct{ s *Store }

// NewPartyRepository construye el adaptador.
func NewPartyRepository(s *Store) *PartyRepo { return &PartyRepo{s: s} }

func checkKind(kind entity.EntityType) error {
	if !entity.IsPartyKind(kind) {
		return fmt.Errorf("tipo de parte %q: %w", kind, domain.ErrInvalidInput)
	}
	return nil
}

// withEntity adjunta la entidad. Llamar con mu tomado.
func (r *PartyRepo) withEntity(rec entity.PartyRecord) *entity.PartyRecord {
	if e, ok := r.s.entities[rec.EntityID]; ok {
		rec.Entity = &e
	}
	return &rec
}

func (r *PartyRepo) Create(_ context.Context, rec *entity.PartyRecord) error {
	if err := requireTenant(rec.TenantID); err != nil {
		return err
	}
	if err := checkKind(rec.Kind); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("parties.Create"); err != nil {
		return err
	}
	if e, ok := r.s.entities[rec.EntityID]; !ok || e.TenantID != rec.TenantID {
		return invalidRef("insert party: entidad")
	}
	for _, o := range r.s.parties {
		if o.TenantID == rec.TenantID && o.Kind == rec.Kind && o.EntityID == rec.EntityID {
			return conflict("insert party")
		}
	}
	stored := *rec
	stored.Entity = nil
	r.s.parties[rec.ID] = stored
	return nil
}

func (r *PartyRepo) GetByID(_ context.Context, tenantID string, kind entity.EntityType, id string) (*entity.PartyRecord, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.parties[id]
	if !ok || rec.TenantID != tenantID || rec.Kind != kind {
		return nil, nil
	}
	return r.withEntity(rec), nil
}

func (r *PartyRepo) GetByTaxID(_ context.Context, tenantID string, kind entity.EntityType, taxID string) (*entity.PartyRecord, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rec := range r.s.parties {
		if rec.TenantID != tenantID || rec.Kind != kind {
			continue
		}
		if e, ok := r.s.entities[rec.EntityID]; ok && e.TaxID == taxID {
			return r.withEntity(rec), nil
		}
	}
	return nil, nil
}

func (r *PartyRepo) Update(_ context.Context, rec *entity.PartyRecord) error {
	if err := requireTenant(rec.TenantID); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if old, ok := r.s.parties[rec.ID]; ok && old.TenantID == rec.TenantID && old.Kind == rec.Kind {
		stored := *rec
		stored.Entity = nil
		r.s.parties[rec.ID] = stored
	}
	return nil
}

func (r *PartyRepo) List(_ context.Context, tenantID string, kind entity.EntityType, f repository.PartyFilter) (*repository.Page[*entity.PartyRecord], error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var items []*entity.PartyRecord
	for _, rec := range r.s.parties {
		if rec.TenantID != tenantID || rec.Kind != kind || !activeMatches(f.Active, rec.Active) {
			continue
		}
		full := r.withEntity(rec)
		var fields []string
		if e := full.Entity; e != nil {
			fields = append(fields, e.Name.DisplayName(), e.TaxID, e.Contact, e.Email)
		}
		if !matches(f.Search, append(fields, rec.Code)...) {
			continue
		}
		items = append(items, full)
	}
	return paginate(items, f.ListParams, func(a, b *entity.PartyRecord) bool { return a.CreatedAt.Before(b.CreatedAt) }), nil
}
