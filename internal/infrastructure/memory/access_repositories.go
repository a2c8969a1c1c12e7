package memory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/Logistica-api/internal/domain/access"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
)

var (
	_ repository.TenantRepository  = (*TenantRepo)(nil)
	_ repository.UserRepository    = (*UserRepo)(nil)
	_ repository.ProfileRepository = (*ProfileRepo)(nil)
	_ repository.RoleRepository    = (*RoleRepo)(nil)
)

// TenantRepo tenants en memoria.
type TenantRepo struct{ s *Store }

// NewTenantRepository construye el adaptador.
func NewTenantRepository(s *Store) *TenantRepo { return &TenantRepo{s: s} }

func (r *TenantRepo) Create(_ context.Context, t *entity.Tenant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.tenants {
		if strings.EqualFold(o.TaxID, t.TaxID) {
			return conflict("insert tenant")
		}
	}
	r.s.tenants[t.ID] = *t
	return nil
}

func (r *TenantRepo) GetByID(_ context.Context, id string) (*entity.Tenant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tenants[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

// LockByID las transacciones en memoria ya son exclusivas.
func (r *TenantRepo) LockByID(ctx context.Context, id string) (*entity.Tenant, error) {
	return r.GetByID(ctx, id)
}

func (r *TenantRepo) GetByTaxID(_ context.Context, taxID string) (*entity.Tenant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.tenants {
		if strings.EqualFold(t.TaxID, taxID) {
			return &t, nil
		}
	}
	return nil, nil
}

func (r *TenantRepo) Update(_ context.Context, t *entity.Tenant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tenants[t.ID]; ok {
		r.s.tenants[t.ID] = *t
	}
	return nil
}

func (r *TenantRepo) List(_ context.Context, f repository.TenantFilter) (*repository.Page[*entity.Tenant], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var items []*entity.Tenant
	for _, t := range r.s.tenants {
		if !activeMatches(f.Active, t.Active) || (f.Type != "" && t.Type != f.Type) || !matches(f.Search, t.Name, t.TaxID, t.Email) {
			continue
		}
		items = append(items, ptr(t))
	}
	return paginate(items, f.ListParams, func(a, b *entity.Tenant) bool { return a.Name < b.Name }), nil
}

// UserRepo usuarios en memoria.
type UserRepo struct{ s *Store }

// NewUserRepository construye el adaptador.
func NewUserRepository(s *Store) *UserRepo { return &UserRepo{s: s} }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	if err := requireTenant(u.TenantID); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.users {
		if strings.EqualFold(o.Email, u.Email) {
			return conflict("insert user")
		}
	}
	if p, ok := r.s.profiles[u.ProfileID]; !ok || p.TenantID != u.TenantID {
		return invalidRef("insert user: perfil")
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, tenantID, id string) (*entity.User, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok || u.TenantID != tenantID {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	if err := requireTenant(u.TenantID); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.profiles[u.ProfileID]; !ok || p.TenantID != u.TenantID {
		return invalidRef("update user: perfil")
	}
	if old, ok := r.s.users[u.ID]; ok && old.TenantID == u.TenantID {
		r.s.users[u.ID] = *u
	}
	return nil
}

func (r *UserRepo) List(_ context.Context, tenantID string, f repository.UserFilter) (*repository.Page[*entity.User], error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var items []*entity.User
	for _, u := range r.s.users {
		if u.TenantID != tenantID || !activeMatches(f.Active, u.Active) {
			continue
		}
		if (f.ProfileID != "" && u.ProfileID != f.ProfileID) || (f.Status != "" && u.Status != f.Status) {
			continue
		}
		if !matches(f.Search, u.Name, u.Email, u.TaxID) {
			continue
		}
		items = append(items, ptr(u))
	}
	return paginate(items, f.ListParams, func(a, b *entity.User) bool { return a.Name < b.Name }), nil
}

func (r *UserRepo) CountActive(_ context.Context, tenantID string) (int, error) {
	if err := requireTenant(tenantID); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, u := range r.s.users {
		if u.TenantID == tenantID && u.Active {
			n++
		}
	}
	return n, nil
}

// ProfileRepo perfiles y vínculos perfil-rol en memoria.
type ProfileRepo struct{ s *Store }

// NewProfileRepository construye el adaptador.
func NewProfileRepository(s *Store) *ProfileRepo { return &ProfileRepo{s: s} }

func (r *ProfileRepo) Create(_ context.Context, p *entity.Profile) error {
	if err := requireTenant(p.TenantID); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("profiles.Create"); err != nil {
		return err
	}
	r.s.profiles[p.ID] = *p
	return nil
}

func (r *ProfileRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Profile, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("profiles.GetByID"); err != nil {
		return nil, err
	}
	p, ok := r.s.profiles[id]
	if !ok || p.TenantID != tenantID {
		return nil, nil
	}
	return &p, nil
}

func (r *ProfileRepo) Update(_ context.Context, p *entity.Profile) error {
	if err := requireTenant(p.TenantID); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if old, ok := r.s.profiles[p.ID]; ok && old.TenantID == p.TenantID {
		r.s.profiles[p.ID] = *p
	}
	return nil
}

func (r *ProfileRepo) List(_ context.Context, tenantID string, f repository.ProfileFilter) (*repository.Page[*entity.Profile], error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var items []*entity.Profile
	for _, p := range r.s.profiles {
		if p.TenantID != tenantID || !activeMatches(f.Active, p.Active) || (f.Type != "" && p.Type != f.Type) {
			continue
		}
		if !matches(f.Search, p.Name, p.Description) {
			continue
		}
		items = append(items, ptr(p))
	}
	return paginate(items, f.ListParams, func(a, b *entity.Profile) bool { return a.Name < b.Name }), nil
}

func (r *ProfileRepo) ReplaceRoles(_ context.Context, tenantID, profileID string, roleIDs []string) error {
	if err := requireTenant(tenantID); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, b := range r.s.bindings {
		if b.TenantID == tenantID && b.ProfileID == profileID {
			delete(r.s.bindings, id)
		}
	}
	for _, roleID := range roleIDs {
		if role, ok := r.s.roles[roleID]; !ok || role.TenantID != tenantID {
			return invalidRef("insert profile roles: rol")
		}
		dup := false
		for _, b := range r.s.bindings {
			if b.TenantID == tenantID && b.ProfileID == profileID && b.RoleID == roleID {
				dup = true
			}
		}
		if dup {
			continue
		}
		id := uuid.New().String()
		r.s.bindings[id] = entity.ProfileRole{ID: id, TenantID: tenantID, ProfileID: profileID, RoleID: roleID}
	}
	return nil
}

// boundRoles roles del tenant vinculados al perfil. Llamar con mu tomado.
func (r *ProfileRepo) boundRoles(tenantID, profileID string) []entity.Role {
	var out []entity.Role
	for _, b := range r.s.bindings {
		if b.TenantID != tenantID || b.ProfileID != profileID {
			continue
		}
		role, ok := r.s.roles[b.RoleID]
		if !ok || role.TenantID != tenantID {
			continue
		}
		out = append(out, role)
	}
	return out
}

func (r *ProfileRepo) ListRoles(_ context.Context, tenantID, profileID string) ([]*entity.Role, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	roles := r.boundRoles(tenantID, profileID)
	items := make([]*entity.Role, 0, len(roles))
	for _, role := range roles {
		items = append(items, ptr(role))
	}
	page := paginate(items, repository.ListParams{Limit: len(items) + 1}, roleLess)
	return page.Items, nil
}

func (r *ProfileRepo) Grants(_ context.Context, tenantID, profileID string) ([]access.Grant, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("profiles.Grants"); err != nil {
		return nil, err
	}
	seen := map[access.Grant]struct{}{}
	var grants []access.Grant
	for _, role := range r.boundRoles(tenantID, profileID) {
		if !role.Active {
			continue
		}
		g := access.Grant{Module: role.Module, Action: role.Action}
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		grants = append(grants, g)
	}
	return grants, nil
}

// RoleRepo roles en memoria.
type RoleRepo struct{ s *Store }

// NewRoleRepository construye el adaptador.
func NewRoleRepository(s *Store) *RoleRepo { return &RoleRepo{s: s} }

func roleLess(a, b *entity.Role) bool {
	if a.Order != b.Order {
		return a.Order < b.Order
	}
	return a.Code < b.Code
}

func (r *RoleRepo) Create(_ context.Context, role *entity.Role) error {
	if err := requireTenant(role.TenantID); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.roles {
		if o.TenantID == role.TenantID && o.Code == role.Code {
			return conflict("insert role")
		}
	}
	r.s.roles[role.ID] = *role
	return nil
}

func (r *RoleRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Role, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	role, ok := r.s.roles[id]
	if !ok || role.TenantID != tenantID {
		return nil, nil
	}
	return &role, nil
}

func (r *RoleRepo) GetByCode(_ context.Context, tenantID, code string) (*entity.Role, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, role := range r.s.roles {
		if role.TenantID == tenantID && role.Code == code {
			return &role, nil
		}
	}
	return nil, nil
}

func (r *RoleRepo) Update(_ context.Context, role *entity.Role) error {
	if err := requireTenant(role.TenantID); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if old, ok := r.s.roles[role.ID]; ok && old.TenantID == role.TenantID {
		r.s.roles[role.ID] = *role
	}
	return nil
}

func (r *RoleRepo) List(_ context.Context, tenantID string, f repository.RoleFilter) (*repository.Page[*entity.Role], error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var items []*entity.Role
	for _, role := range r.s.roles {
		if role.TenantID != tenantID || !activeMatches(f.Active, role.Active) {
			continue
		}
		if (f.Module != "" && role.Module != f.Module) || (f.Action != "" && role.Action != f.Action) {
			continue
		}
		if !matches(f.Search, role.Code, role.Name) {
			continue
		}
		items = append(items, ptr(role))
	}
	return paginate(items, f.ListParams, roleLess), nil
}

func (r *RoleRepo) CountByIDs(_ context.Context, tenantID string, ids []string) (int, error) {
	if err := requireTenant(tenantID); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := map[string]struct{}{}
	n := 0
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if role, ok := r.s.roles[id]; ok && role.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}
