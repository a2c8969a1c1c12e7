package memory

import (
	"context"

	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

// TxRunner transacciones en memoria: fn trabaja sobre una copia del estado que solo se
// publica si fn no devuelve error. Las transacciones se ejecutan de a una.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

func (r *TxRunner) run(fn func(tx *Store) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	r.s.mu.Lock()
	tx := r.s.clone()
	r.s.mu.Unlock()

	if err := fn(tx); err != nil {
		return err
	}
	r.s.mu.Lock()
	r.s.commit(tx)
	r.s.mu.Unlock()
	return nil
}

func (r *TxRunner) RunTenant(_ context.Context, fn func(
	tenants repository.TenantRepository,
	profiles repository.ProfileRepository,
	roles repository.RoleRepository,
	users repository.UserRepository,
) error) error {
	return r.run(func(tx *Store) error {
		return fn(NewTenantRepository(tx), NewProfileRepository(tx), NewRoleRepository(tx), NewUserRepository(tx))
	})
}

func (r *TxRunner) RunParty(_ context.Context, fn func(
	entities repository.EntityRepository,
	parties repository.PartyRepository,
) error) error {
	return r.run(func(tx *Store) error {
		return fn(NewEntityRepository(tx), NewPartyRepository(tx))
	})
}

func (r *TxRunner) RunProfile(_ context.Context, fn func(
	profiles repository.ProfileRepository,
	roles repository.RoleRepository,
) error) error {
	return r.run(func(tx *Store) error {
		return fn(NewProfileRepository(tx), NewRoleRepository(tx))
	})
}

func (r *TxRunner) RunOrder(_ context.Context, fn func(
	orders repository.OrderRepository,
	addresses repository.AddressRepository,
) error) error {
	return r.run(func(tx *Store) error {
		return fn(NewOrderRepository(tx), NewAddressRepository(tx))
	})
}
