// Package memory implementa los puertos de persistencia en memoria. Respeta las mismas
// reglas que el adaptador PostgreSQL (alcance por tenant, unicidad, errores de dominio)
// y se usa en las pruebas de casos de uso y de la capa HTTP.
package memory

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/Logistica-api/internal/domain"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

// Store guarda copias de valor de cada fila: nadie fuera del paquete comparte memoria con él.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex // serializa transacciones

	tenants   map[string]entity.Tenant
	users     map[string]entity.User
	profiles  map[string]entity.Profile
	roles     map[string]entity.Role
	bindings  map[string]entity.ProfileRole
	entities  map[string]entity.Entidad
	parties   map[string]entity.PartyRecord
	addresses map[string]entity.Address
	comunas   map[int]entity.Comuna
	catalog   map[string]entity.CatalogItem
	orders    map[string]entity.Order
	counters  map[string]int

	failures map[string]error
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		tenants:   map[string]entity.Tenant{},
		users:     map[string]entity.User{},
		profiles:  map[string]entity.Profile{},
		roles:     map[string]entity.Role{},
		bindings:  map[string]entity.ProfileRole{},
		entities:  map[string]entity.Entidad{},
		parties:   map[string]entity.PartyRecord{},
		addresses: map[string]entity.Address{},
		comunas:   map[int]entity.Comuna{},
		catalog:   map[string]entity.CatalogItem{},
		orders:    map[string]entity.Order{},
		counters:  map[string]int{},
		failures:  map[string]error{},
	}
}

// FailOn hace que la operación op (p. ej. "parties.Create") devuelva err. Sirve para
// probar que una transacción fallida no deja rastros.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// AddComunas carga comunas del catálogo global.
func (s *Store) AddComunas(cs ...entity.Comuna) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range cs {
		s.comunas[c.ID] = c
	}
}

func (s *Store) fail(op string) error {
	return s.failures[op]
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// clone copia el estado para una transacción. Llamar con mu tomado.
func (s *Store) clone() *Store {
	return &Store{
		tenants:   cloneMap(s.tenants),
		users:     cloneMap(s.users),
		profiles:  cloneMap(s.profiles),
		roles:     cloneMap(s.roles),
		bindings:  cloneMap(s.bindings),
		entities:  cloneMap(s.entities),
		parties:   cloneMap(s.parties),
		addresses: cloneMap(s.addresses),
		comunas:   cloneMap(s.comunas),
		catalog:   cloneMap(s.catalog),
		orders:    cloneMap(s.orders),
		counters:  cloneMap(s.counters),
		failures:  cloneMap(s.failures),
	}
}

// commit reemplaza el estado por el de la transacción. Llamar con mu tomado.
func (s *Store) commit(tx *Store) {
	s.tenants, s.users, s.profiles, s.roles = tx.tenants, tx.users, tx.profiles, tx.roles
	s.bindings, s.entities, s.parties, s.addresses = tx.bindings, tx.entities, tx.parties, tx.addresses
	s.catalog, s.orders, s.counters = tx.catalog, tx.orders, tx.counters
}

func requireTenant(tenantID string) error {
	if strings.TrimSpace(tenantID) == "" {
		return fmt.Errorf("tenant requerido: %w", domain.ErrUnauthorized)
	}
	return nil
}

func conflict(what string) error {
	return fmt.Errorf("%s: %w", what, domain.ErrConflict)
}

func invalidRef(what string) error {
	return fmt.Errorf("%s: %w", what, domain.ErrInvalidReference)
}

// matches búsqueda sin distinguir mayúsculas sobre varios campos.
func matches(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func activeMatches(filter *bool, active bool) bool {
	return filter == nil || *filter == active
}

// paginate ordena con less y recorta la página pedida.
func paginate[T any](items []T, p repository.ListParams, less func(a, b T) bool) *repository.Page[T] {
	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
	limit := p.Limit
	if limit <= 0 {
		limit = repository.DefaultPageLimit
	}
	out := &repository.Page[T]{Items: []T{}, Total: len(items)}
	off := p.Offset()
	if off >= len(items) {
		return out
	}
	end := off + limit
	if end > len(items) {
		end = len(items)
	}
	out.Items = append(out.Items, items[off:end]...)
	return out
}

func ptr[T any](v T) *T { return &v }
