package service

import (
	"context"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/shopdesk/commerce-api/internal/core/domain"
	"github.com/shopdesk/commerce-api/internal/infrastructure/db/memstoretest"
)

// ---------------------------------------------------------------------------
// Limiter and audit recorder
// ---------------------------------------------------------------------------

type stubLimiter struct {
	mu       sync.Mutex
	max      int
	failures map[string]int
	allowErr error
	resets   []string
}

func newStubLimiter(max int) *stubLimiter {
	return &stubLimiter{max: max, failures: make(map[string]int)}
}

func (l *stubLimiter) Allow(_ context.Context, email string) (bool, error) {
	if l.allowErr != nil {
		return false, l.allowErr
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.failures[email] < l.max, nil
}

func (l *stubLimiter) RecordFailure(_ context.Context, email string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures[email]++
	return nil
}

func (l *stubLimiter) Reset(_ context.Context, email string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.failures, email)
	l.resets = append(l.resets, email)
	return nil
}

type captureRecorder struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func (c *captureRecorder) Enqueue(e domain.AuthEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *captureRecorder) types() []domain.AuthEventType {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.AuthEventType, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e.Type)
	}
	return out
}

func (c *captureRecorder) last() domain.AuthEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events[len(c.events)-1]
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

type fixture struct {
	roles  *memstoretest.RoleStore
	users  *memstoretest.UserStore
	audit  *captureRecorder
	admin  *domain.Role
	staff  *domain.Role
	editor *domain.Role
}

// newFixture seeds the admin role (with a deliberately stale permission set),
// a staff role and a product editor role.
func newFixture() *fixture {
	roles := memstoretest.NewRoleStore()
	f := &fixture{
		roles: roles,
		users: memstoretest.NewUserStore(roles),
		audit: &captureRecorder{},
	}
	f.admin = roles.Seed(&domain.Role{
		Name:          "Administrator",
		Slug:          domain.AdminRoleSlug,
		Permissions:   []string{domain.PermDashboardView},
		IsSystemAdmin: true,
	})
	f.staff = roles.Seed(&domain.Role{
		Name:        "Staff",
		Slug:        domain.StaffRoleSlug,
		Permissions: []string{domain.PermProductsView, domain.PermOrdersView},
	})
	f.editor = roles.Seed(&domain.Role{
		Name:        "Product Editor",
		Slug:        "product-editor",
		Permissions: []string{domain.PermProductsView, domain.PermProductsUpdate},
	})
	return f
}

const testPassword = "correct-horse"

func (f *fixture) addUser(email string, role *domain.Role, active bool) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	u, err := f.users.Create(context.Background(), &domain.User{
		Name:         email,
		Email:        email,
		PasswordHash: string(hash),
		RoleID:       role.ID,
		IsActive:     active,
	})
	if err != nil {
		panic(err)
	}
	return u
}

func ptr[T any](v T) *T { return &v }
