// Package memstoretest is test support: in-memory repositories with the same
// contracts as the Mongo ones. Users are returned with their role joined,
// uniqueness is enforced, and the system admin flag is only writable through
// Seed. Only _test.go files import it; no binary is built against it.
package memstoretest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopdesk/commerce-api/internal/core/domain"
	"github.com/shopdesk/commerce-api/internal/core/ports"
)

func cloneRole(r *domain.Role) *domain.Role {
	if r == nil {
		return nil
	}
	c := *r
	c.Permissions = append([]string{}, r.Permissions...)
	return &c
}

// RoleStore implements ports.RoleRepository.
type RoleStore struct {
	mu   sync.Mutex
	seq  int
	byID map[string]*domain.Role
}

func NewRoleStore() *RoleStore {
	return &RoleStore{byID: make(map[string]*domain.Role)}
}

// Seed stores role as given, flag included, and returns a copy with its id.
func (s *RoleStore) Seed(role *domain.Role) *domain.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(role)
}

func (s *RoleStore) insert(role *domain.Role) *domain.Role {
	s.seq++
	c := cloneRole(role)
	if c.ID == "" {
		c.ID = fmt.Sprintf("role-%d", s.seq)
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Date(2024, 1, 1, 0, 0, s.seq, 0, time.UTC)
	}
	s.byID[c.ID] = c
	return cloneRole(c)
}

// Get returns a copy of the stored role or nil.
func (s *RoleStore) Get(id string) *domain.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRole(s.byID[id])
}

func (s *RoleStore) sorted() []*domain.Role {
	out := make([]*domain.Role, 0, len(s.byID))
	for _, r := range s.byID {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *RoleStore) List(context.Context) ([]*domain.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Role, 0, len(s.byID))
	for _, r := range s.sorted() {
		out = append(out, cloneRole(r))
	}
	return out, nil
}

func (s *RoleStore) FindByID(_ context.Context, id string) (*domain.Role, error) {
	if r := s.Get(id); r != nil {
		return r, nil
	}
	return nil, domain.ErrRoleNotFound
}

func (s *RoleStore) FindBySlug(_ context.Context, slug string) (*domain.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.byID {
		if r.Slug == slug {
			return cloneRole(r), nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

func (s *RoleStore) FindAssignable(context.Context) (*domain.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.sorted() {
		if !r.IsSystemAdmin {
			return cloneRole(r), nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

func (s *RoleStore) conflicts(id, name, slug string) bool {
	for otherID, other := range s.byID {
		if otherID != id && (other.Slug == slug || other.Name == name) {
			return true
		}
	}
	return false
}

func (s *RoleStore) Create(_ context.Context, role *domain.Role) (*domain.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conflicts("", role.Name, role.Slug) {
		return nil, domain.ErrDuplicateRole
	}
	c := cloneRole(role)
	c.IsSystemAdmin = false
	return s.insert(c), nil
}

func (s *RoleStore) Update(_ context.Context, role *domain.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.byID[role.ID]
	if !ok {
		return domain.ErrRoleNotFound
	}
	if s.conflicts(role.ID, role.Name, role.Slug) {
		return domain.ErrDuplicateRole
	}
	existing.Name = role.Name
	existing.Slug = role.Slug
	existing.Description = role.Description
	existing.Permissions = append([]string{}, role.Permissions...)
	existing.UpdatedAt = role.UpdatedAt
	return nil
}

func (s *RoleStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return domain.ErrRoleNotFound
	}
	delete(s.byID, id)
	return nil
}

// UserStore implements ports.UserRepository, joining roles from a RoleStore.
type UserStore struct {
	mu      sync.Mutex
	seq     int
	roles   *RoleStore
	byID    map[string]*domain.User
	findErr error
}

func NewUserStore(roles *RoleStore) *UserStore {
	return &UserStore{roles: roles, byID: make(map[string]*domain.User)}
}

// FailReads makes every subsequent read return err. Pass nil to recover.
func (s *UserStore) FailReads(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findErr = err
}

func (s *UserStore) joined(u *domain.User) *domain.User {
	c := *u
	c.Role = s.roles.Get(u.RoleID)
	return &c
}

func (s *UserStore) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if u.Email == user.Email {
			return nil, domain.ErrDuplicateEmail
		}
	}
	s.seq++
	c := *user
	c.Role = nil
	if c.ID == "" {
		c.ID = fmt.Sprintf("user-%d", s.seq)
	}
	s.byID[c.ID] = &c
	return s.joined(&c), nil
}

func (s *UserStore) FindByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	if u, ok := s.byID[id]; ok {
		return s.joined(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	for _, u := range s.byID {
		if u.Email == email {
			return s.joined(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *UserStore) List(_ context.Context, filter ports.ListUsersFilter) ([]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*domain.User{}
	for _, u := range s.byID {
		if filter.RoleID != "" && u.RoleID != filter.RoleID {
			continue
		}
		if filter.Active != nil && u.IsActive != *filter.Active {
			continue
		}
		out = append(out, s.joined(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *UserStore) Update(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.byID[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	for id, u := range s.byID {
		if id != user.ID && u.Email == user.Email {
			return domain.ErrDuplicateEmail
		}
	}
	existing.Name = user.Name
	existing.Email = user.Email
	existing.AvatarURL = user.AvatarURL
	existing.RoleID = user.RoleID
	existing.IsActive = user.IsActive
	existing.UpdatedAt = user.UpdatedAt
	return nil
}

func (s *UserStore) UpdatePassword(_ context.Context, id, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	existing.PasswordHash = hash
	return nil
}

func (s *UserStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(s.byID, id)
	return nil
}

// AuditStore implements ports.AuditRepository.
type AuditStore struct {
	mu     sync.Mutex
	seq    int
	events []*domain.AuthEvent
}

func NewAuditStore() *AuditStore {
	return &AuditStore{}
}

func (s *AuditStore) Insert(_ context.Context, event *domain.AuthEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	event.ID = fmt.Sprintf("event-%d", s.seq)
	c := *event
	s.events = append(s.events, &c)
	return nil
}

// List returns matching events newest first.
func (s *AuditStore) List(_ context.Context, filter ports.AuditFilter) ([]*domain.AuthEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*domain.AuthEvent{}
	for i := len(s.events) - 1; i >= 0; i-- {
		e := s.events[i]
		if filter.UserID != "" && e.ActorID != filter.UserID && e.SubjectID != filter.UserID {
			continue
		}
		if filter.Type != "" && e.Type != filter.Type {
			continue
		}
		c := *e
		out = append(out, &c)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

var (
	_ ports.RoleRepository  = (*RoleStore)(nil)
	_ ports.UserRepository  = (*UserStore)(nil)
	_ ports.AuditRepository = (*AuditStore)(nil)
)
