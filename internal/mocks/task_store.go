package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/phrazzld/taskify-api/internal/domain"
	"github.com/phrazzld/taskify-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing. Without Fn
// overrides it behaves like an in-memory table keyed by ID.
type MockTaskStore struct {
	CreateFn     func(ctx context.Context, task *domain.Task) error
	GetByIDFn    func(ctx context.Context, id int64) (*domain.Task, error)
	FindAllFn    func(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error)
	FindPageFn   func(ctx context.Context, filter store.TaskFilter, offset, limit int) ([]*domain.Task, int, error)
	UpdateFn     func(ctx context.Context, id int64, update store.TaskUpdate) (*domain.Task, int64, error)
	SoftDeleteFn func(ctx context.Context, id int64) (int64, error)

	Tasks      map[int64]*domain.Task
	LastTaskID int64

	// UpdateCalls records every id passed to Update.
	UpdateCalls []int64

	mu sync.Mutex
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates a new mock store with initialized defaults
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Tasks: make(map[int64]*domain.Task),
	}
}

// AddTask inserts task directly, assigning an ID when it has none.
func (m *MockTaskStore) AddTask(task *domain.Task) *domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insert(task)
	return task
}

func (m *MockTaskStore) insert(task *domain.Task) {
	if task.ID == 0 {
		m.LastTaskID++
		task.ID = m.LastTaskID
	} else if task.ID > m.LastTaskID {
		m.LastTaskID = task.ID
	}
	now := time.Now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now
	m.Tasks[task.ID] = task
}

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	task.Status = domain.TaskStatusInProgress
	m.insert(task)
	return nil
}

// GetByID implements the TaskStore interface
func (m *MockTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.Tasks[id]
	if !ok || t.Deleted {
		return nil, store.ErrTaskNotFound
	}
	clone := *t
	return &clone, nil
}

// FindAll implements the TaskStore interface
func (m *MockTaskStore) FindAll(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	if m.FindAllFn != nil {
		return m.FindAllFn(ctx, filter)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matching(filter), nil
}

// FindPage implements the TaskStore interface
func (m *MockTaskStore) FindPage(
	ctx context.Context,
	filter store.TaskFilter,
	offset, limit int,
) ([]*domain.Task, int, error) {
	if m.FindPageFn != nil {
		return m.FindPageFn(ctx, filter, offset, limit)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.matching(filter)
	total := len(all)
	if offset >= total {
		return []*domain.Task{}, total, nil
	}
	end := min(offset+limit, total)
	return all[offset:end], total, nil
}

// Update implements the TaskStore interface
func (m *MockTaskStore) Update(
	ctx context.Context,
	id int64,
	update store.TaskUpdate,
) (*domain.Task, int64, error) {
	m.mu.Lock()
	m.UpdateCalls = append(m.UpdateCalls, id)
	m.mu.Unlock()

	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, update)
	}
	if update.IsEmpty() {
		return nil, 0, store.ErrEmptyUpdate
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.Tasks[id]
	if !ok || t.Deleted {
		return nil, 0, nil
	}
	setIfPresent(&t.Title, update.Title)
	if update.Description != nil {
		d := *update.Description
		t.Description = &d
	}
	if update.DueDate != nil {
		due := *update.DueDate
		t.DueDate = &due
	}
	setIfPresent(&t.Status, update.Status)
	t.UpdatedAt = time.Now().UTC()
	clone := *t
	return &clone, 1, nil
}

// SoftDelete implements the TaskStore interface
func (m *MockTaskStore) SoftDelete(ctx context.Context, id int64) (int64, error) {
	if m.SoftDeleteFn != nil {
		return m.SoftDeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.Tasks[id]
	if !ok || t.Deleted {
		return 0, nil
	}
	now := time.Now().UTC()
	t.Deleted = true
	t.DeletedAt = &now
	return 1, nil
}

func (m *MockTaskStore) matching(f store.TaskFilter) []*domain.Task {
	out := []*domain.Task{}
	for _, t := range m.Tasks {
		if t.Deleted {
			continue
		}
		if f.ID != 0 && t.ID != f.ID {
			continue
		}
		if f.OwnerID != 0 && t.OwnerID != f.OwnerID {
			continue
		}
		if f.Status != nil && t.Status != *f.Status {
			continue
		}
		clone := *t
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
