package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Logistica-api/internal/application/usecase"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

// TxRunner cumple los puertos transaccionales de los casos de uso.
var (
	_ usecase.TenantTxRunner  = (*TxRunner)(nil)
	_ usecase.PartyTxRunner   = (*TxRunner)(nil)
	_ usecase.ProfileTxRunner = (*TxRunner)(nil)
	_ usecase.OrderTxRunner   = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// run inicia una transacción, ejecuta fn con la tx y hace Commit o Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// RunTenant alta de tenant con su perfil administrador y roles base, y baja del tenant.
func (r *TxRunner) RunTenant(ctx context.Context, fn func(
	tenants repository.TenantRepository,
	profiles repository.ProfileRepository,
	roles repository.RoleRepository,
	users repository.UserRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewTenantRepository(tx), NewProfileRepository(tx), NewRoleRepository(tx), NewUserRepository(tx))
	})
}

// RunParty crear-o-reutilizar entidad y registro especializado en una sola transacción.
func (r *TxRunner) RunParty(ctx context.Context, fn func(
	entities repository.EntityRepository,
	parties repository.PartyRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewEntityRepository(tx), NewPartyRepository(tx))
	})
}

// RunProfile reemplazo de vínculos perfil-rol.
func (r *TxRunner) RunProfile(ctx context.Context, fn func(
	profiles repository.ProfileRepository,
	roles repository.RoleRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewProfileRepository(tx), NewRoleRepository(tx))
	})
}

// RunOrder creación de orden: correlativo, inserción y contador de uso de direcciones.
func (r *TxRunner) RunOrder(ctx context.Context, fn func(
	orders repository.OrderRepository,
	addresses repository.AddressRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewOrderRepository(tx), NewAddressRepository(tx))
	})
}
