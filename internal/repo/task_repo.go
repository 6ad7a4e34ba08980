package repo

import (
	"context"

	dom "taskapi/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Sort directions for ListFilter.SortDueDate.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// ListFilter narrows and orders a user's task list. Zero values mean no
// filtering and default ordering (newest first).
type ListFilter struct {
	Status      string // exact match when non-empty
	SortDueDate string // SortAsc or SortDesc; anything else ignored
}

// TaskRepo provides task persistence. Every lookup and mutation is keyed by
// (id, userID) so a task owned by someone else behaves like a missing row.
type TaskRepo interface {
	Create(ctx context.Context, t dom.Task) (dom.Task, error)
	GetByID(ctx context.Context, userID, id int64) (dom.Task, error)
	List(ctx context.Context, userID int64, f ListFilter) ([]dom.Task, error)
	Update(ctx context.Context, userID, id int64, t dom.Task) (dom.Task, error)
	UpdateStatus(ctx context.Context, userID, id int64, status string) (dom.Task, error)
	Delete(ctx context.Context, userID, id int64) error
}

type PGTaskRepo struct {
	db *pgxpool.Pool
}

func NewPGTaskRepo(db *pgxpool.Pool) *PGTaskRepo {
	return &PGTaskRepo{db: db}
}

const taskColumns = `id, user_id, title, description, due_date, status, created_at, updated_at`

func scanTask(row pgx.Row) (dom.Task, error) {
	var t dom.Task
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.DueDate,
		&t.Status, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *PGTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	query := `
		INSERT INTO tasks (user_id, title, description, due_date, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(ctx, query, t.UserID, t.Title, t.Description, t.DueDate, t.Status))
}

func (r *PGTaskRepo) GetByID(ctx context.Context, userID, id int64) (dom.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`
	return scanTask(r.db.QueryRow(ctx, query, id, userID))
}

func (r *PGTaskRepo) List(ctx context.Context, userID int64, f ListFilter) ([]dom.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`
	args := []any{userID}
	if f.Status != "" {
		query += ` AND status = $2`
		args = append(args, f.Status)
	}
	switch f.SortDueDate {
	case SortAsc:
		query += ` ORDER BY due_date ASC, id ASC`
	case SortDesc:
		query += ` ORDER BY due_date DESC, id ASC`
	default:
		query += ` ORDER BY created_at DESC, id DESC`
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *PGTaskRepo) Update(ctx context.Context, userID, id int64, t dom.Task) (dom.Task, error) {
	query := `
		UPDATE tasks SET title = $3, description = $4, due_date = $5, status = $6, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(ctx, query, id, userID, t.Title, t.Description, t.DueDate, t.Status))
}

func (r *PGTaskRepo) UpdateStatus(ctx context.Context, userID, id int64, status string) (dom.Task, error) {
	query := `
		UPDATE tasks SET status = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(ctx, query, id, userID, status))
}

func (r *PGTaskRepo) Delete(ctx context.Context, userID, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
