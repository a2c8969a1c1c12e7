package usecase

import (
	"context"

	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

// TenantTxRunner alta de un tenant con su perfil administrador, roles base y,
// en el arranque, su primer usuario.
type TenantTxRunner interface {
	RunTenant(ctx context.Context, fn func(
		tenants repository.TenantRepository,
		profiles repository.ProfileRepository,
		roles repository.RoleRepository,
		users repository.UserRepository,
	) error) error
}

// PartyTxRunner crear-o-reutilizar una entidad junto con su registro especializado.
type PartyTxRunner interface {
	RunParty(ctx context.Context, fn func(
		entities repository.EntityRepository,
		parties repository.PartyRepository,
	) error) error
}

// ProfileTxRunner reemplazo atómico de los roles de un perfil.
type ProfileTxRunner interface {
	RunProfile(ctx context.Context, fn func(
		profiles repository.ProfileRepository,
		roles repository.RoleRepository,
	) error) error
}

// OrderTxRunner creación de orden: correlativo, inserción y uso de direcciones.
type OrderTxRunner interface {
	RunOrder(ctx context.Context, fn func(
		orders repository.OrderRepository,
		addresses repository.AddressRepository,
	) error) error
}
