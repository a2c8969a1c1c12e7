// Package access contiene el modelo de permisos (módulo × acción) resuelto para un actor.
package access

import (
	"sort"

	"github.com/jhoicas/Logistica-api/internal/domain/entity"
)

// Grant es una concesión (módulo, acción).
type Grant struct {
	Module entity.Module `json:"module"`
	Action entity.Action `json:"action"`
}

// PermissionSet es el conjunto de concesiones de un perfil. Las concesiones repetidas
// (varios roles con el mismo módulo y acción) colapsan. El valor cero es un conjunto vacío.
type PermissionSet struct {
	grants map[Grant]struct{}
}

// NewPermissionSet construye un conjunto a partir de concesiones, descartando las que
// están fuera del vocabulario de módulos y acciones.
func NewPermissionSet(grants ...Grant) PermissionSet {
	s := PermissionSet{grants: make(map[Grant]struct{}, len(grants))}
	for _, g := range grants {
		s.Add(g.Module, g.Action)
	}
	return s
}

// Add incorpora una concesión. Ignora módulos o acciones desconocidos.
func (s *PermissionSet) Add(module entity.Module, action entity.Action) {
	if !module.Valid() || !action.Valid() {
		return
	}
	if s.grants == nil {
		s.grants = make(map[Grant]struct{})
	}
	s.grants[Grant{Module: module, Action: action}] = struct{}{}
}

// Has informa si el conjunto concede la acción sobre el módulo.
func (s PermissionSet) Has(module entity.Module, action entity.Action) bool {
	_, ok := s.grants[Grant{Module: module, Action: action}]
	return ok
}

// Len devuelve la cantidad de concesiones distintas.
func (s PermissionSet) Len() int { return len(s.grants) }

// Grants devuelve las concesiones ordenadas por módulo y acción según el vocabulario.
func (s PermissionSet) Grants() []Grant {
	out := make([]Grant, 0, len(s.grants))
	for g := range s.grants {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		mi, mj := moduleIndex(out[i].Module), moduleIndex(out[j].Module)
		if mi != mj {
			return mi < mj
		}
		return actionIndex(out[i].Action) < actionIndex(out[j].Action)
	})
	return out
}

// HasModulePermission es el predicado para decidir affordances de UI (mostrar u ocultar
// acciones). Nunca falla: un conjunto nil (permisos aún no cargados) deniega todo.
// No usar para autorizar operaciones en la API; ver authz.Service.Require.
func HasModulePermission(s *PermissionSet, module entity.Module, action entity.Action) bool {
	if s == nil {
		return false
	}
	return s.Has(module, action)
}

func moduleIndex(m entity.Module) int {
	for i, known := range entity.Modules {
		if known == m {
			return i
		}
	}
	return len(entity.Modules)
}

func actionIndex(a entity.Action) int {
	for i, known := range entity.Actions {
		if known == a {
			return i
		}
	}
	return len(entity.Actions)
}
