package entity

// Module identifica un módulo funcional sobre el que se otorgan permisos.
type Module string

// Módulos del sistema. El vocabulario es cerrado: roles con módulos fuera de esta lista se rechazan.
const (
	ModuleTenants   Module = "TENANTS"
	ModuleUsers     Module = "USUARIOS"
	ModuleProfiles  Module = "PERFILES"
	ModuleRoles     Module = "ROLES"
	ModuleClients   Module = "CLIENTES"
	ModuleCarriers  Module = "TRANSPORTISTAS"
	ModuleShippers  Module = "EMBARCADORES"
	ModuleEntities  Module = "ENTIDADES"
	ModuleAddresses Module = "DIRECCIONES"
	ModuleCatalogs  Module = "CATALOGOS"
	ModuleOrders    Module = "ORDENES"
)

// Modules lista todos los módulos en orden de presentación.
var Modules = []Module{
	ModuleTenants, ModuleUsers, ModuleProfiles, ModuleRoles,
	ModuleClients, ModuleCarriers, ModuleShippers, ModuleEntities,
	ModuleAddresses, ModuleCatalogs, ModuleOrders,
}

// Valid informa si el módulo es parte del vocabulario.
func (m Module) Valid() bool {
	for _, known := range Modules {
		if m == known {
			return true
		}
	}
	return false
}

// Action es el tipo de operación que concede un rol.
type Action string

const (
	ActionView       Action = "VER"
	ActionCreate     Action = "CREAR"
	ActionEdit       Action = "EDITAR"
	ActionDelete     Action = "ELIMINAR"
	ActionReactivate Action = "ACTIVAR"
)

// Actions lista las acciones en orden de presentación.
var Actions = []Action{ActionView, ActionCreate, ActionEdit, ActionDelete, ActionReactivate}

// Valid informa si la acción es parte del vocabulario.
func (a Action) Valid() bool {
	for _, known := range Actions {
		if a == known {
			return true
		}
	}
	return false
}
