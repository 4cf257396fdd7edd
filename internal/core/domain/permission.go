package domain

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Permission strings understood by the back office, grouped by module.
const (
	PermDashboardView = "dashboard.view"

	PermProductsView   = "products.view"
	PermProductsCreate = "products.create"
	PermProductsUpdate = "products.update"
	PermProductsDelete = "products.delete"

	PermCategoriesView   = "categories.view"
	PermCategoriesCreate = "categories.create"
	PermCategoriesUpdate = "categories.update"
	PermCategoriesDelete = "categories.delete"

	PermOrdersView         = "orders.view"
	PermOrdersUpdateStatus = "orders.update_status"
	PermOrdersDelete       = "orders.delete"

	PermReviewsView   = "reviews.view"
	PermReviewsReply  = "reviews.reply"
	PermReviewsDelete = "reviews.delete"

	PermVouchersView   = "vouchers.view"
	PermVouchersCreate = "vouchers.create"
	PermVouchersUpdate = "vouchers.update"
	PermVouchersDelete = "vouchers.delete"

	PermBannersView   = "banners.view"
	PermBannersCreate = "banners.create"
	PermBannersUpdate = "banners.update"
	PermBannersDelete = "banners.delete"

	PermUsersView   = "users.view"
	PermUsersCreate = "users.create"
	PermUsersUpdate = "users.update"
	PermUsersDelete = "users.delete"

	PermRolesManage = "roles.manage"

	PermStatisticsView = "statistics.view"
)

var permissionPattern = regexp.MustCompile(`^[a-z][a-z_]*\.[a-z][a-z_]*$`)

// PermissionModule is one group of the catalog, e.g. "products".
type PermissionModule struct {
	Name    string
	Actions []string
}

// Permission returns the canonical permission string for action.
func (m PermissionModule) Permission(action string) string {
	return m.Name + "." + action
}

// Registry is the immutable catalog of grantable permissions. Build it once at
// startup and pass it to whatever needs it; it is safe for concurrent use
// because nothing mutates it after construction.
type Registry struct {
	modules []PermissionModule
	known   map[string]struct{}
}

// NewRegistry validates modules and builds a Registry from them.
func NewRegistry(modules ...PermissionModule) (*Registry, error) {
	r := &Registry{
		modules: make([]PermissionModule, 0, len(modules)),
		known:   make(map[string]struct{}),
	}
	seenModules := make(map[string]struct{}, len(modules))
	for _, m := range modules {
		if _, dup := seenModules[m.Name]; dup {
			return nil, fmt.Errorf("permission registry: duplicate module %q", m.Name)
		}
		seenModules[m.Name] = struct{}{}
		if len(m.Actions) == 0 {
			return nil, fmt.Errorf("permission registry: module %q has no actions", m.Name)
		}
		for _, action := range m.Actions {
			p := m.Permission(action)
			if !permissionPattern.MatchString(p) {
				return nil, fmt.Errorf("permission registry: malformed permission %q", p)
			}
			if _, dup := r.known[p]; dup {
				return nil, fmt.Errorf("permission registry: duplicate permission %q", p)
			}
			r.known[p] = struct{}{}
		}
		r.modules = append(r.modules, PermissionModule{Name: m.Name, Actions: slices.Clone(m.Actions)})
	}
	return r, nil
}

// DefaultModules returns the commerce back-office catalog.
func DefaultModules() []PermissionModule {
	return []PermissionModule{
		{Name: "dashboard", Actions: []string{"view"}},
		{Name: "products", Actions: []string{"view", "create", "update", "delete"}},
		{Name: "categories", Actions: []string{"view", "create", "update", "delete"}},
		{Name: "orders", Actions: []string{"view", "update_status", "delete"}},
		{Name: "reviews", Actions: []string{"view", "reply", "delete"}},
		{Name: "vouchers", Actions: []string{"view", "create", "update", "delete"}},
		{Name: "banners", Actions: []string{"view", "create", "update", "delete"}},
		{Name: "users", Actions: []string{"view", "create", "update", "delete"}},
		{Name: "roles", Actions: []string{"manage"}},
		{Name: "statistics", Actions: []string{"view"}},
	}
}

// DefaultRegistry builds the registry from DefaultModules. It panics if the
// built-in catalog is malformed, which only a code change can cause.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultModules()...)
	if err != nil {
		panic(err)
	}
	return r
}

// Has reports whether permission is part of the catalog.
func (r *Registry) Has(permission string) bool {
	_, ok := r.known[permission]
	return ok
}

// Catalog returns module -> action -> permission string. The map is a fresh
// copy on every call.
func (r *Registry) Catalog() map[string]map[string]string {
	out := make(map[string]map[string]string, len(r.modules))
	for _, m := range r.modules {
		actions := make(map[string]string, len(m.Actions))
		for _, a := range m.Actions {
			actions[a] = m.Permission(a)
		}
		out[m.Name] = actions
	}
	return out
}

// Permissions returns every permission in registration order.
func (r *Registry) Permissions() []string {
	out := make([]string, 0, len(r.known))
	for _, m := range r.modules {
		for _, a := range m.Actions {
			out = append(out, m.Permission(a))
		}
	}
	return out
}

// Normalize trims, de-duplicates and validates a submitted permission set.
// Unknown strings are rejected with ErrInvalidPermission naming all of them.
func (r *Registry) Normalize(permissions []string) ([]string, error) {
	out := make([]string, 0, len(permissions))
	seen := make(map[string]struct{}, len(permissions))
	var unknown []string
	for _, p := range permissions {
		p = strings.TrimSpace(p)
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		if !r.Has(p) {
			unknown = append(unknown, p)
			continue
		}
		out = append(out, p)
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPermission, strings.Join(unknown, ", "))
	}
	return out, nil
}
