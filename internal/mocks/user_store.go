package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/phrazzld/taskify-api/internal/domain"
	"github.com/phrazzld/taskify-api/internal/store"
)

// MockUserStore implements store.UserStore for testing. Without Fn
// overrides it behaves like an in-memory table keyed by ID.
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn     func(ctx context.Context, user *domain.User) error
	GetByIDFn    func(ctx context.Context, id int64) (*domain.User, error)
	FindOneFn    func(ctx context.Context, filter store.UserFilter) (*domain.User, error)
	FindAllFn    func(ctx context.Context, filter store.UserFilter) ([]*domain.User, error)
	UpdateFn     func(ctx context.Context, id int64, update store.UserUpdate) (int64, error)
	SoftDeleteFn func(ctx context.Context, id int64) (int64, error)

	// Data for default implementation
	Users       map[int64]*domain.User
	LastUserID  int64
	CreateError error
	FindError   error

	mu sync.Mutex
}

var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates a new mock store with initialized defaults
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		Users: make(map[int64]*domain.User),
	}
}

// AddUser inserts user directly, assigning an ID when it has none.
func (m *MockUserStore) AddUser(user *domain.User) *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insert(user)
	return user
}

func (m *MockUserStore) insert(user *domain.User) {
	if user.ID == 0 {
		m.LastUserID++
		user.ID = m.LastUserID
	} else if user.ID > m.LastUserID {
		m.LastUserID = user.ID
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	m.Users[user.ID] = user
}

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	if m.CreateError != nil {
		return m.CreateError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if u.Deleted {
			continue
		}
		if u.Username == user.Username {
			return store.ErrUsernameExists
		}
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	m.insert(user)
	return nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Users[id]
	if !ok || u.Deleted {
		return nil, store.ErrUserNotFound
	}
	return u, nil
}

// FindOne implements the UserStore interface
func (m *MockUserStore) FindOne(ctx context.Context, filter store.UserFilter) (*domain.User, error) {
	if m.FindOneFn != nil {
		return m.FindOneFn(ctx, filter)
	}

	users, err := m.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, store.ErrUserNotFound
	}
	return users[0], nil
}

// FindAll implements the UserStore interface
func (m *MockUserStore) FindAll(ctx context.Context, filter store.UserFilter) ([]*domain.User, error) {
	if m.FindAllFn != nil {
		return m.FindAllFn(ctx, filter)
	}
	if m.FindError != nil {
		return nil, m.FindError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.User{}
	for _, u := range m.Users {
		if !u.Deleted && matchUser(u, filter) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Update implements the UserStore interface
func (m *MockUserStore) Update(ctx context.Context, id int64, update store.UserUpdate) (int64, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, update)
	}
	if update.IsEmpty() {
		return 0, store.ErrEmptyUpdate
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Users[id]
	if !ok || u.Deleted {
		return 0, nil
	}
	setIfPresent(&u.Username, update.Username)
	setIfPresent(&u.Email, update.Email)
	setIfPresent(&u.HashedPassword, update.HashedPassword)
	setIfPresent(&u.FirstName, update.FirstName)
	setIfPresent(&u.LastName, update.LastName)
	u.UpdatedAt = time.Now().UTC()
	return 1, nil
}

// SoftDelete implements the UserStore interface
func (m *MockUserStore) SoftDelete(ctx context.Context, id int64) (int64, error) {
	if m.SoftDeleteFn != nil {
		return m.SoftDeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Users[id]
	if !ok || u.Deleted {
		return 0, nil
	}
	now := time.Now().UTC()
	u.Deleted = true
	u.DeletedAt = &now
	return 1, nil
}

func matchUser(u *domain.User, f store.UserFilter) bool {
	if f.IsEmpty() {
		return true
	}
	var checks []bool
	if f.ID != 0 {
		checks = append(checks, u.ID == f.ID)
	}
	if f.Username != "" {
		checks = append(checks, u.Username == f.Username)
	}
	if f.Email != "" {
		checks = append(checks, u.Email == f.Email)
	}
	for _, ok := range checks {
		if ok && f.MatchAny {
			return true
		}
		if !ok && !f.MatchAny {
			return false
		}
	}
	return !f.MatchAny
}

func setIfPresent[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
