package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Logistica-api/internal/application/auth"
	"github.com/jhoicas/Logistica-api/internal/application/authz"
	"github.com/jhoicas/Logistica-api/internal/application/shipping"
	"github.com/jhoicas/Logistica-api/internal/application/usecase"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	Authz      *authz.Service
	TenantUC   *usecase.TenantUseCase
	UserUC     *usecase.UserUseCase
	ProfileUC  *usecase.ProfileUseCase
	RoleUC     *usecase.RoleUseCase
	PartyUC    *usecase.PartyUseCase
	AddressUC  *usecase.AddressUseCase
	CatalogUC  *usecase.CatalogUseCase
	OrderUC    *usecase.OrderUseCase
	DocumentUC *shipping.DocumentUseCase
	Denied     deniedRecorder // opcional: contador de rechazos de autorización
	JWTSecret  string
}

// crudHandler forma común de los recursos con alta, baja lógica y reactivación.
type crudHandler interface {
	Create(c *fiber.Ctx) error
	List(c *fiber.Ctx) error
	GetByID(c *fiber.Ctx) error
	Update(c *fiber.Ctx) error
	Deactivate(c *fiber.Ctx) error
	Reactivate(c *fiber.Ctx) error
}

// mountCRUD registra las rutas estándar de un recurso con el permiso de cada acción.
func mountCRUD(r fiber.Router, g *Guard, m entity.Module, h crudHandler) {
	r.Get("/", g.RequirePermission(m, entity.ActionView), h.List)
	r.Post("/", g.RequirePermission(m, entity.ActionCreate), h.Create)
	r.Get("/:id", g.RequirePermission(m, entity.ActionView), h.GetByID)
	r.Put("/:id", g.RequirePermission(m, entity.ActionEdit), h.Update)
	r.Delete("/:id", g.RequirePermission(m, entity.ActionDelete), h.Deactivate)
	r.Post("/:id/activate", g.RequirePermission(m, entity.ActionReactivate), h.Reactivate)
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	guard := NewGuard(deps.Authz, deps.Denied)

	// Auth (login público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token con tenant resoluble)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)
	protected.Get("/auth/permissions", authHandler.Permissions)

	mountCRUD(protected.Group("/tenants"), guard, entity.ModuleTenants, NewTenantHandler(deps.TenantUC))
	mountCRUD(protected.Group("/users"), guard, entity.ModuleUsers, NewUserHandler(deps.UserUC))
	mountCRUD(protected.Group("/roles"), guard, entity.ModuleRoles, NewRoleHandler(deps.RoleUC))

	profiles := protected.Group("/profiles")
	profileHandler := NewProfileHandler(deps.ProfileUC)
	mountCRUD(profiles, guard, entity.ModuleProfiles, profileHandler)
	profiles.Get("/:id/roles", guard.RequirePermission(entity.ModuleProfiles, entity.ActionView), profileHandler.Roles)
	profiles.Put("/:id/roles", guard.RequirePermission(entity.ModuleProfiles, entity.ActionEdit), profileHandler.SetRoles)

	// Clientes, transportistas y embarcadores comparten handler
	for _, p := range []struct {
		path   string
		module entity.Module
		kind   entity.EntityType
	}{
		{"/clients", entity.ModuleClients, entity.EntityTypeClient},
		{"/carriers", entity.ModuleCarriers, entity.EntityTypeCarrier},
		{"/shippers", entity.ModuleShippers, entity.EntityTypeShipper},
	} {
		group := protected.Group(p.path)
		h := NewPartyHandler(deps.PartyUC, p.kind)
		group.Get("/tax-id/:rut", guard.RequirePermission(p.module, entity.ActionView), h.GetByTaxID)
		mountCRUD(group, guard, p.module, h)
	}

	entities := protected.Group("/entities")
	entityHandler := NewEntityHandler(deps.PartyUC)
	entities.Get("/", guard.RequirePermission(entity.ModuleEntities, entity.ActionView), entityHandler.List)
	entities.Post("/", guard.RequirePermission(entity.ModuleEntities, entity.ActionCreate), entityHandler.Create)
	entities.Get("/:id", guard.RequirePermission(entity.ModuleEntities, entity.ActionView), entityHandler.GetByID)

	addressHandler := NewAddressHandler(deps.AddressUC)
	mountCRUD(protected.Group("/addresses"), guard, entity.ModuleAddresses, addressHandler)
	// Comunas: catálogo global, basta con estar autenticado
	protected.Get("/comunas", addressHandler.ListComunas)

	catalogs := protected.Group("/catalogs")
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	catalogs.Get("/:kind", guard.RequirePermission(entity.ModuleCatalogs, entity.ActionView), catalogHandler.List)
	catalogs.Post("/:kind", guard.RequirePermission(entity.ModuleCatalogs, entity.ActionCreate), catalogHandler.Create)

	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC, deps.DocumentUC, guard)
	orders.Get("/", guard.RequirePermission(entity.ModuleOrders, entity.ActionView), orderHandler.List)
	orders.Post("/", guard.RequirePermission(entity.ModuleOrders, entity.ActionCreate), orderHandler.Create)
	orders.Get("/:id", guard.RequirePermission(entity.ModuleOrders, entity.ActionView), orderHandler.GetByID)
	orders.Put("/:id", guard.RequirePermission(entity.ModuleOrders, entity.ActionEdit), orderHandler.Update)
	orders.Patch("/:id/status", guard.RequirePermission(entity.ModuleOrders, entity.ActionEdit), orderHandler.ChangeStatus)
	orders.Get("/:id/document", guard.RequirePermission(entity.ModuleOrders, entity.ActionView), orderHandler.Document)
}
