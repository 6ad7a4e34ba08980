package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"taskapi/internal/cache"
	dom "taskapi/internal/domain"
	"taskapi/internal/repo"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"
)

var (
	ErrNotFound          = errors.New("task not found")
	ErrMissingTaskFields = errors.New("title, description, and due date are required fields")
	ErrInvalidDueDate    = errors.New("invalid due date format, use YYYY-MM-DD")
	ErrInvalidStatus     = errors.New("status must be pending, in-progress or completed")
	ErrMissingStatus     = errors.New("status is required")
)

const dueDateLayout = "2006-01-02"

var dueDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// parseDueDate enforces the strict YYYY-MM-DD contract: the shape must
// match and the value must round-trip through calendar parsing unchanged.
func parseDueDate(s string) (time.Time, error) {
	if !dueDateRe.MatchString(s) {
		return time.Time{}, ErrInvalidDueDate
	}
	d, err := time.Parse(dueDateLayout, s)
	if err != nil || d.Format(dueDateLayout) != s {
		return time.Time{}, ErrInvalidDueDate
	}
	return d, nil
}

type TaskService struct {
	repo  repo.TaskRepo
	cache *cache.TaskCache
	sf    singleflight.Group
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(r repo.TaskRepo, c *cache.TaskCache) *TaskService {
	return &TaskService{repo: r, cache: c}
}

// Create persists a new task owned by userID. The owner is never taken from
// the input. Status defaults to pending.
func (s *TaskService) Create(ctx context.Context, userID int64, title, desc, dueDate, status string) (dom.Task, error) {
	title = strings.TrimSpace(title)
	desc = strings.TrimSpace(desc)
	if title == "" || desc == "" || dueDate == "" {
		return dom.Task{}, ErrMissingTaskFields
	}
	due, err := parseDueDate(dueDate)
	if err != nil {
		return dom.Task{}, err
	}
	if status == "" {
		status = dom.StatusPending
	}
	if !dom.KnownStatus(status) {
		return dom.Task{}, ErrInvalidStatus
	}

	t, err := s.repo.Create(ctx, dom.Task{
		UserID:      userID,
		Title:       title,
		Description: desc,
		DueDate:     due,
		Status:      status,
	})
	if err != nil {
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// List returns the user's tasks. status narrows to an exact match when it is
// a recognized status; sortBy "dueDate:asc"/"dueDate:desc" orders by due
// date. Unrecognized values fall back silently to no filter / default order.
func (s *TaskService) List(ctx context.Context, userID int64, status, sortBy string) ([]dom.Task, error) {
	f := repo.ListFilter{}
	if dom.KnownStatus(status) {
		f.Status = status
	}
	switch sortBy {
	case "dueDate:asc":
		f.SortDueDate = repo.SortAsc
	case "dueDate:desc":
		f.SortDueDate = repo.SortDesc
	}

	if s.cache == nil {
		return s.repo.List(ctx, userID, f)
	}
	key := cache.ListKey(userID, f)
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		if list, err := s.cache.GetList(ctx, userID, f); err == nil && list != nil {
			return list, nil
		}
		list, err := s.repo.List(ctx, userID, f)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetList(ctx, userID, f, list)
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dom.Task), nil
}

// GetByID returns the task only if userID owns it; otherwise ErrNotFound.
func (s *TaskService) GetByID(ctx context.Context, userID, id int64) (dom.Task, error) {
	t, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	return t, nil
}

// Update replaces every mutable field. All fields are required; there are no
// partial updates here (see UpdateStatus).
func (s *TaskService) Update(ctx context.Context, userID, id int64, title, desc, dueDate, status string) (dom.Task, error) {
	title = strings.TrimSpace(title)
	desc = strings.TrimSpace(desc)
	if title == "" || desc == "" || dueDate == "" || status == "" {
		return dom.Task{}, ErrMissingTaskFields
	}
	due, err := parseDueDate(dueDate)
	if err != nil {
		return dom.Task{}, err
	}
	if !dom.KnownStatus(status) {
		return dom.Task{}, ErrInvalidStatus
	}

	t, err := s.repo.Update(ctx, userID, id, dom.Task{
		Title:       title,
		Description: desc,
		DueDate:     due,
		Status:      status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// UpdateStatus mutates only the status field.
func (s *TaskService) UpdateStatus(ctx context.Context, userID, id int64, status string) (dom.Task, error) {
	if status == "" {
		return dom.Task{}, ErrMissingStatus
	}
	if !dom.KnownStatus(status) {
		return dom.Task{}, ErrInvalidStatus
	}
	t, err := s.repo.UpdateStatus(ctx, userID, id, status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// Delete removes the task if userID owns it; otherwise ErrNotFound.
func (s *TaskService) Delete(ctx context.Context, userID, id int64) error {
	err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.invalidateCache(ctx, userID)
	return nil
}

func (s *TaskService) invalidateCache(ctx context.Context, userID int64) {
	if s.cache != nil {
		_ = s.cache.InvalidateUser(ctx, userID)
	}
}
