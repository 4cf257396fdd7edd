package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopdesk/commerce-api/internal/core/domain"
	"github.com/shopdesk/commerce-api/internal/core/ports"
	"github.com/shopdesk/commerce-api/internal/infrastructure/db/memstoretest"
)

// slugSeeder upserts by slug on top of the in-memory role store.
type slugSeeder struct {
	store *memstoretest.RoleStore
}

func (s slugSeeder) Seed(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	if existing, err := s.store.FindBySlug(ctx, role.Slug); err == nil {
		return existing, nil
	}
	return s.store.Seed(role), nil
}

func TestSeedAccess(t *testing.T) {
	ctx := context.Background()
	roles := memstoretest.NewRoleStore()
	users := memstoretest.NewUserStore(roles)
	account := AdminAccount{Email: " owner@shop.test ", Password: "owner-password"}

	require.NoError(t, SeedAccess(ctx, slugSeeder{roles}, users, account, bcrypt.MinCost, zerolog.Nop()))
	require.NoError(t, CheckRoleSeed(ctx, roles))

	owner, err := users.FindByEmail(ctx, "owner@shop.test")
	require.NoError(t, err)
	assert.True(t, owner.IsSystemAdmin())
	assert.Equal(t, "Administrator", owner.Name)
	assert.NotEqual(t, account.Password, owner.PasswordHash)

	// Idempotent: a second run creates nothing new.
	require.NoError(t, SeedAccess(ctx, slugSeeder{roles}, users, account, bcrypt.MinCost, zerolog.Nop()))
	all, err := roles.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSeedAccess_WithoutAdminAccount(t *testing.T) {
	ctx := context.Background()
	roles := memstoretest.NewRoleStore()
	users := memstoretest.NewUserStore(roles)

	require.NoError(t, SeedAccess(ctx, slugSeeder{roles}, users, AdminAccount{}, bcrypt.MinCost, zerolog.Nop()))

	list, err := users.List(ctx, ports.ListUsersFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSeedAccess_WeakPassword(t *testing.T) {
	ctx := context.Background()
	roles := memstoretest.NewRoleStore()
	users := memstoretest.NewUserStore(roles)

	err := SeedAccess(ctx, slugSeeder{roles}, users, AdminAccount{Email: "owner@shop.test", Password: "short"}, bcrypt.MinCost, zerolog.Nop())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
