package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

var (
	_ repository.AddressRepository = (*AddressRepo)(nil)
	_ repository.ComunaRepository  = (*ComunaRepo)(nil)
	_ repository.CatalogRepository = (*CatalogRepo)(nil)
	_ repository.OrderRepository   = (*OrderRepo)(nil)
)

// AddressRepo direcciones en memoria.
type AddressRepo struct{ s *Store }

// NewAddressRepository construye el adaptador.
func NewAddressRepository(s *Store) *AddressRepo { return &AddressRepo{s: s} }

// withComuna adjunta la comuna. Llamar con mu tomado.
func (r *AddressRepo) withComuna(a entity.Address) *entity.Address {
	if c, ok := r.s.comunas[a.ComunaID]; ok {
		a.Comuna = &c
	}
	return &a
}

func (r *AddressRepo) Create(_ context.Context, a *entity.Address) error {
	if err := requireTenant(a.TenantID); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comunas[a.ComunaID]; !ok {
		return invalidRef("insert address: comuna")
	}
	stored := *a
	stored.Comuna = nil
	r.s.addresses[a.ID] = stored
	return nil
}

func (r *AddressRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Address, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.addresses[id]
	if !ok || a.TenantID != tenantID {
		return nil, nil
	}
	return r.withComuna(a), nil
}

func (r *AddressRepo) Update(_ context.Context, a *entity.Address) error {
	if err := requireTenant(a.TenantID); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comunas[a.ComunaID]; !ok {
		return invalidRef("update address: comuna")
	}
	if old, ok := r.s.addresses[a.ID]; ok && old.TenantID == a.TenantID {
		stored := *a
		stored.Comuna = nil
		stored.UsageCount = old.UsageCount
		r.s.addresses[a.ID] = stored
	}
	return nil
}

func (r *AddressRepo) List(_ context.Context, tenantID string, f repository.AddressFilter) (*repository.Page[*entity.Address], error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var items []*entity.Address
	for _, a := range r.s.addresses {
		if a.TenantID != tenantID || !activeMatches(f.Active, a.Active) {
			continue
		}
		if (f.ComunaID > 0 && a.ComunaID != f.ComunaID) || (f.Origin != "" && a.Origin != f.Origin) {
			continue
		}
		full := r.withComuna(a)
		comuna := ""
		if full.Comuna != nil {
			comuna = full.Comuna.Name
		}
		if !matches(f.Search, a.Text, a.Reference, comuna) {
			continue
		}
		items = append(items, full)
	}
	return paginate(items, f.ListParams, func(a, b *entity.Address) bool {
		if a.UsageCount != b.UsageCount {
			return a.UsageCount > b.UsageCount
		}
		return a.Text < b.Text
	}), nil
}

func (r *AddressRepo) IncrementUsage(_ context.Context, tenantID string, ids ...string) error {
	if err := requireTenant(tenantID); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range ids {
		if a, ok := r.s.addresses[id]; ok && a.TenantID == tenantID {
			a.UsageCount++
			r.s.addresses[id] = a
		}
	}
	return nil
}

// ComunaRepo catálogo global de comunas en memoria.
type ComunaRepo struct{ s *Store }

// NewComunaRepository construye el adaptador.
func NewComunaRepository(s *Store) *ComunaRepo { return &ComunaRepo{s: s} }

func (r *ComunaRepo) GetByID(_ context.Context, id int) (*entity.Comuna, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comunas[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *ComunaRepo) List(_ context.Context, f repository.ComunaFilter) (*repository.Page[*entity.Comuna], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var items []*entity.Comuna
	for _, c := range r.s.comunas {
		if (f.RegionCode != "" && c.RegionCode != f.RegionCode) || !matches(f.Search, c.Name, c.Code) {
			continue
		}
		items = append(items, ptr(c))
	}
	return paginate(items, f.ListParams, func(a, b *entity.Comuna) bool { return a.Name < b.Name }), nil
}

// CatalogRepo catálogos por tenant en memoria.
type CatalogRepo struct{ s *Store }

// NewCatalogRepository construye el adaptador.
func NewCatalogRepository(s *Store) *CatalogRepo { return &CatalogRepo{s: s} }

func checkCatalog(kind entity.CatalogKind) error {
	if !kind.Valid() {
		return fmt.Errorf("catálogo %q: %w", kind, domain.ErrNotFound)
	}
	return nil
}

func (r *CatalogRepo) Create(_ context.Context, it *entity.CatalogItem) error {
	if err := requireTenant(it.TenantID); err != nil {
		return err
	}
	if err := checkCatalog(it.Kind); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.catalog {
		if o.TenantID == it.TenantID && o.Kind == it.Kind && o.Code == it.Code {
			return conflict("insert " + string(it.Kind))
		}
	}
	r.s.catalog[it.ID] = *it
	return nil
}

func (r *CatalogRepo) GetByID(_ context.Context, tenantID string, kind entity.CatalogKind, id string) (*entity.CatalogItem, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	if err := checkCatalog(kind); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.catalog[id]
	if !ok || it.TenantID != tenantID || it.Kind != kind {
		return nil, nil
	}
	return &it, nil
}

func (r *CatalogRepo) List(_ context.Context, tenantID string, kind entity.CatalogKind, f repository.CatalogFilter) (*repository.Page[*entity.CatalogItem], error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	if err := checkCatalog(kind); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var items []*entity.CatalogItem
	for _, it := range r.s.catalog {
		if it.TenantID != tenantID || it.Kind != kind || !activeMatches(f.Active, it.Active) || !matches(f.Search, it.Code, it.Name) {
			continue
		}
		items = append(items, ptr(it))
	}
	return paginate(items, f.ListParams, func(a, b *entity.CatalogItem) bool { return a.Name < b.Name }), nil
}

// OrderRepo órdenes en memoria.
type OrderRepo struct{ s *Store }

// NewOrderRepository construye el adaptador.
func NewOrderRepository(s *Store) *OrderRepo { return &OrderRepo{s: s} }

func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error {
	if err := requireTenant(o.TenantID); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("orders.Create"); err != nil {
		return err
	}
	for _, other := range r.s.orders {
		if other.TenantID == o.TenantID && other.Code == o.Code {
			return conflict("insert order")
		}
	}
	r.s.orders[o.ID] = *o
	return nil
}

func (r *OrderRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Order, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok || o.TenantID != tenantID {
		return nil, nil
	}
	return &o, nil
}

func (r *OrderRepo) GetByCode(_ context.Context, tenantID, code string) (*entity.Order, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.orders {
		if o.TenantID == tenantID && o.Code == code {
			return &o, nil
		}
	}
	return nil, nil
}

func (r *OrderRepo) Update(_ context.Context, o *entity.Order, expected entity.OrderStatus) error {
	if err := requireTenant(o.TenantID); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.orders[o.ID]
	if !ok || old.TenantID != o.TenantID || old.Status != expected {
		return fmt.Errorf("update order: ya no está en estado %s: %w", expected, domain.ErrConflict)
	}
	r.s.orders[o.ID] = *o
	return nil
}

func (r *OrderRepo) List(_ context.Context, tenantID string, f repository.OrderFilter) (*repository.Page[*entity.Order], error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var items []*entity.Order
	for _, o := range r.s.orders {
		if o.TenantID != tenantID || (f.Status != "" && o.Status != f.Status) || (f.ClientID != "" && o.ClientID != f.ClientID) {
			continue
		}
		if (f.From != nil && o.CreatedAt.Before(*f.From)) || (f.To != nil && !o.CreatedAt.Before(*f.To)) {
			continue
		}
		if !matches(f.Search, o.Code, o.Notes) {
			continue
		}
		items = append(items, ptr(o))
	}
	return paginate(items, f.ListParams, func(a, b *entity.Order) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.Code > b.Code
	}), nil
}

// NextSequence mismo contrato que el upsert de PostgreSQL: el contador arranca en el
// mayor sufijo existente del día.
func (r *OrderRepo) NextSequence(_ context.Context, tenantID string, day time.Time) (int, error) {
	if err := requireTenant(tenantID); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prefix := entity.OrderCodePrefix(day)
	maxSeq := 0
	for _, o := range r.s.orders {
		if o.TenantID != tenantID {
			continue
		}
		if n, ok := entity.OrderCodeSequence(o.Code, prefix); ok && n > maxSeq {
			maxSeq = n
		}
	}
	key := tenantID + "/" + day.Format("2006-01-02")
	next := r.s.counters[key]
	if maxSeq > next {
		next = maxSeq
	}
	next++
	r.s.counters[key] = next
	return next, nil
}
