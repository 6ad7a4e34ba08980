package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	dom "taskapi/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// In-memory repo implementations. Used by tests and local experiments; they
// mirror the Postgres repos' error contract (pgx.ErrNoRows on misses,
// pgconn 23505 on unique violations).

// MemoryUserRepo implements UserRepo in process memory.
type MemoryUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  []dom.User
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{nextID: 1}
}

func (r *MemoryUserRepo) GetByUsername(_ context.Context, username string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func (r *MemoryUserRepo) Create(_ context.Context, username, email, passwordHash string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			return dom.User{}, &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}
		}
	}
	u := dom.User{
		ID:           r.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	r.nextID++
	r.users = append(r.users, u)
	return u, nil
}

// MemoryTaskRepo implements TaskRepo in process memory.
type MemoryTaskRepo struct {
	mu     sync.Mutex
	nextID int64
	tasks  []dom.Task
}

func NewMemoryTaskRepo() *MemoryTaskRepo {
	return &MemoryTaskRepo{nextID: 1}
}

func (r *MemoryTaskRepo) Create(_ context.Context, t dom.Task) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	t.ID = r.nextID
	t.CreatedAt = now
	t.UpdatedAt = now
	r.nextID++
	r.tasks = append(r.tasks, t)
	return t, nil
}

func (r *MemoryTaskRepo) GetByID(_ context.Context, userID, id int64) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(userID, id)
	if i < 0 {
		return dom.Task{}, pgx.ErrNoRows
	}
	return r.tasks[i], nil
}

func (r *MemoryTaskRepo) List(_ context.Context, userID int64, f ListFilter) ([]dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []dom.Task
	for _, t := range r.tasks {
		if t.UserID != userID {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		list = append(list, t)
	}
	switch f.SortDueDate {
	case SortAsc:
		sort.SliceStable(list, func(i, j int) bool { return list[i].DueDate.Before(list[j].DueDate) })
	case SortDesc:
		sort.SliceStable(list, func(i, j int) bool { return list[i].DueDate.After(list[j].DueDate) })
	default:
		sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	}
	return list, nil
}

func (r *MemoryTaskRepo) Update(_ context.Context, userID, id int64, t dom.Task) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(userID, id)
	if i < 0 {
		return dom.Task{}, pgx.ErrNoRows
	}
	cur := r.tasks[i]
	cur.Title = t.Title
	cur.Description = t.Description
	cur.DueDate = t.DueDate
	cur.Status = t.Status
	cur.UpdatedAt = time.Now().UTC()
	r.tasks[i] = cur
	return cur, nil
}

func (r *MemoryTaskRepo) UpdateStatus(_ context.Context, userID, id int64, status string) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(userID, id)
	if i < 0 {
		return dom.Task{}, pgx.ErrNoRows
	}
	r.tasks[i].Status = status
	r.tasks[i].UpdatedAt = time.Now().UTC()
	return r.tasks[i], nil
}

func (r *MemoryTaskRepo) Delete(_ context.Context, userID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(userID, id)
	if i < 0 {
		return pgx.ErrNoRows
	}
	r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
	return nil
}

// index finds the task by (userID, id); -1 when the id exists but belongs
// to someone else, same as when it does not exist at all.
func (r *MemoryTaskRepo) index(userID, id int64) int {
	for i, t := range r.tasks {
		if t.ID == id && t.UserID == userID {
			return i
		}
	}
	return -1
}
