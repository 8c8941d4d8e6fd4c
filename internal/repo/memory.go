package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	dom "github.com/Gokul-Webzenith/maestro-done/internal/domain"
)

// MemTodoRepo is an in-memory TodoRepo. Tests (and the sync client's own
// test server) use it to get isolated instances without a database; it
// mirrors the Postgres semantics, including pgx.ErrNoRows for rows that are
// missing or owned by another user.
type MemTodoRepo struct {
	mu     sync.Mutex
	nextID int64
	todos  map[int64]dom.Todo
}

// NewMemTodoRepo returns an empty in-memory todo repo.
func NewMemTodoRepo() *MemTodoRepo {
	return &MemTodoRepo{nextID: 1, todos: make(map[int64]dom.Todo)}
}

func (r *MemTodoRepo) Create(_ context.Context, t dom.Todo) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	t.ID = r.nextID
	r.nextID++
	t.CreatedAt = now
	t.UpdatedAt = now
	r.todos[t.ID] = t
	return t, nil
}

func (r *MemTodoRepo) GetByID(_ context.Context, userID, id int64) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.todos[id]
	if !ok || t.UserID != userID {
		return dom.Todo{}, pgx.ErrNoRows
	}
	return t, nil
}

func (r *MemTodoRepo) List(_ context.Context, userID int64) ([]dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []dom.Todo
	for _, t := range r.todos {
		if t.UserID == userID {
			list = append(list, t)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *MemTodoRepo) Update(_ context.Context, t dom.Todo) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.todos[t.ID]
	if !ok || existing.UserID != t.UserID {
		return dom.Todo{}, pgx.ErrNoRows
	}
	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = time.Now().UTC()
	r.todos[t.ID] = t
	return t, nil
}

func (r *MemTodoRepo) Delete(_ context.Context, userID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.todos[id]
	if !ok || t.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(r.todos, id)
	return nil
}

// MemUserRepo is an in-memory UserRepo for tests.
type MemUserRepo struct {
	mu     sync.Mutex
	nextID int64
	byMail map[string]dom.User
}

// NewMemUserRepo returns an empty in-memory user repo.
func NewMemUserRepo() *MemUserRepo {
	return &MemUserRepo{nextID: 1, byMail: make(map[string]dom.User)}
}

func (r *MemUserRepo) GetByEmail(_ context.Context, email string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byMail[email]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (r *MemUserRepo) Create(_ context.Context, email, passwordHash string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byMail[email]; ok {
		return dom.User{}, ErrDuplicate
	}
	u := dom.User{ID: r.nextID, Email: email, PasswordHash: passwordHash, CreatedAt: time.Now().UTC()}
	r.nextID++
	r.byMail[email] = u
	return u, nil
}
