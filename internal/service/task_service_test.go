package service

import (
	"context"
	"errors"
	"testing"

	dom "taskapi/internal/domain"
	"taskapi/internal/repo"
)

func newTaskService() *TaskService {
	return NewTaskService(repo.NewMemoryTaskRepo(), nil)
}

func TestCreateTask(t *testing.T) {
	svc := newTaskService()
	ctx := context.Background()

	task, err := svc.Create(ctx, 1, "T", "D", "2024-03-10", "pending")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if task.UserID != 1 {
		t.Errorf("owner = %d, want 1", task.UserID)
	}
	if task.DueDate.Format("2006-01-02") != "2024-03-10" {
		t.Errorf("due date = %v, want 2024-03-10", task.DueDate)
	}
	if task.ID == 0 {
		t.Error("task should get an ID")
	}
}

func TestCreateTask_DefaultStatus(t *testing.T) {
	svc := newTaskService()
	task, err := svc.Create(context.Background(), 1, "T", "D", "2024-03-10", "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if task.Status != dom.StatusPending {
		t.Errorf("status = %q, want %q", task.Status, dom.StatusPending)
	}
}

func TestCreateTask_Validation(t *testing.T) {
	svc := newTaskService()
	ctx := context.Background()

	tests := []struct {
		name                         string
		title, desc, dueDate, status string
		wantErr                      error
	}{
		{"missing title", "", "D", "2024-03-10", "", ErrMissingTaskFields},
		{"blank title", "   ", "D", "2024-03-10", "", ErrMissingTaskFields},
		{"missing description", "T", "", "2024-03-10", "", ErrMissingTaskFields},
		{"missing due date", "T", "D", "", "", ErrMissingTaskFields},
		{"free-text date", "T", "D", "invalid-date", "", ErrInvalidDueDate},
		{"wrong shape", "T", "D", "2024-3-10", "", ErrInvalidDueDate},
		{"datetime not date", "T", "D", "2024-03-10T00:00:00Z", "", ErrInvalidDueDate},
		{"impossible calendar day", "T", "D", "2024-02-30", "", ErrInvalidDueDate},
		{"month out of range", "T", "D", "2024-13-01", "", ErrInvalidDueDate},
		{"unknown status", "T", "D", "2024-03-10", "done", ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, 1, tt.title, tt.desc, tt.dueDate, tt.status); !errors.Is(err, tt.wantErr) {
				t.Errorf("Create() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetByID_OwnershipHidden(t *testing.T) {
	svc := newTaskService()
	ctx := context.Background()

	task, err := svc.Create(ctx, 1, "T", "D", "2024-03-10", "pending")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := svc.GetByID(ctx, 1, task.ID); err != nil {
		t.Fatalf("owner GetByID() error = %v", err)
	}
	// Another user's lookup of an existing ID must look like nonexistence.
	if _, err := svc.GetByID(ctx, 2, task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign GetByID() error = %v, want ErrNotFound", err)
	}
	if _, err := svc.GetByID(ctx, 1, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestList_FilterAndSort(t *testing.T) {
	svc := newTaskService()
	ctx := context.Background()

	seed := []struct{ due, status string }{
		{"2024-03-12", "pending"},
		{"2024-03-10", "completed"},
		{"2024-03-11", "pending"},
	}
	for _, s := range seed {
		if _, err := svc.Create(ctx, 1, "T", "D", s.due, s.status); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	if _, err := svc.Create(ctx, 2, "other user", "D", "2024-01-01", "pending"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("only own tasks", func(t *testing.T) {
		list, err := svc.List(ctx, 1, "", "")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(list) != 3 {
			t.Fatalf("len = %d, want 3", len(list))
		}
		for _, task := range list {
			if task.UserID != 1 {
				t.Errorf("list leaked a task of user %d", task.UserID)
			}
		}
	})

	t.Run("status filter", func(t *testing.T) {
		list, err := svc.List(ctx, 1, "pending", "")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("len = %d, want 2", len(list))
		}
		for _, task := range list {
			if task.Status != "pending" {
				t.Errorf("status = %q, want pending", task.Status)
			}
		}
	})

	t.Run("unknown status falls back to no filter", func(t *testing.T) {
		list, err := svc.List(ctx, 1, "bogus", "")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(list) != 3 {
			t.Errorf("len = %d, want 3 (filter must be ignored)", len(list))
		}
	})

	t.Run("sort ascending", func(t *testing.T) {
		list, err := svc.List(ctx, 1, "", "dueDate:asc")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		for i := 1; i < len(list); i++ {
			if list[i].DueDate.Before(list[i-1].DueDate) {
				t.Fatalf("list not non-decreasing by due date at %d", i)
			}
		}
	})

	t.Run("sort descending", func(t *testing.T) {
		list, err := svc.List(ctx, 1, "", "dueDate:desc")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		for i := 1; i < len(list); i++ {
			if list[i].DueDate.After(list[i-1].DueDate) {
				t.Fatalf("list not non-increasing by due date at %d", i)
			}
		}
	})

	t.Run("unknown sortBy falls back to default order", func(t *testing.T) {
		list, err := svc.List(ctx, 1, "", "title:asc")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(list) != 3 {
			t.Errorf("len = %d, want 3", len(list))
		}
	})
}

func TestUpdate_FullReplace(t *testing.T) {
	svc := newTaskService()
	ctx := context.Background()

	task, err := svc.Create(ctx, 1, "T", "D", "2024-03-10", "pending")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := svc.Update(ctx, 1, task.ID, "T2", "D2", "2024-04-01", "completed")
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Title != "T2" || updated.Description != "D2" || updated.Status != "completed" {
		t.Errorf("update did not replace fields: %+v", updated)
	}
	if updated.DueDate.Format("2006-01-02") != "2024-04-01" {
		t.Errorf("due date = %v, want 2024-04-01", updated.DueDate)
	}
}

func TestUpdate_EmptyFieldRejectedAndUnchanged(t *testing.T) {
	svc := newTaskService()
	ctx := context.Background()

	task, err := svc.Create(ctx, 1, "T", "D", "2024-03-10", "pending")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := svc.Update(ctx, 1, task.ID, "", "D2", "2024-04-01", "completed"); !errors.Is(err, ErrMissingTaskFields) {
		t.Fatalf("Update() error = %v, want ErrMissingTaskFields", err)
	}

	got, err := svc.GetByID(ctx, 1, task.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Title != "T" || got.Description != "D" || got.Status != "pending" {
		t.Errorf("rejected update mutated the task: %+v", got)
	}
}

func TestUpdate_OwnershipAndErrors(t *testing.T) {
	svc := newTaskService()
	ctx := context.Background()

	task, err := svc.Create(ctx, 1, "T", "D", "2024-03-10", "pending")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := svc.Update(ctx, 2, task.ID, "T2", "D2", "2024-04-01", "completed"); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign Update() error = %v, want ErrNotFound", err)
	}
	if _, err := svc.Update(ctx, 1, task.ID, "T2", "D2", "bad-date", "completed"); !errors.Is(err, ErrInvalidDueDate) {
		t.Errorf("bad date Update() error = %v, want ErrInvalidDueDate", err)
	}
	if _, err := svc.Update(ctx, 1, task.ID, "T2", "D2", "2024-04-01", "done"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("bad status Update() error = %v, want ErrInvalidStatus", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	svc := newTaskService()
	ctx := context.Background()

	task, err := svc.Create(ctx, 1, "T", "D", "2024-03-10", "pending")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := svc.UpdateStatus(ctx, 1, task.ID, "in-progress")
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if updated.Status != "in-progress" {
		t.Errorf("status = %q, want in-progress", updated.Status)
	}
	if updated.Title != "T" || updated.Description != "D" {
		t.Errorf("status patch touched other fields: %+v", updated)
	}

	if _, err := svc.UpdateStatus(ctx, 1, task.ID, ""); !errors.Is(err, ErrMissingStatus) {
		t.Errorf("empty status error = %v, want ErrMissingStatus", err)
	}
	if _, err := svc.UpdateStatus(ctx, 1, task.ID, "archived"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("unknown status error = %v, want ErrInvalidStatus", err)
	}
	if _, err := svc.UpdateStatus(ctx, 2, task.ID, "completed"); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign patch error = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	svc := newTaskService()
	ctx := context.Background()

	task, err := svc.Create(ctx, 1, "T", "D", "2024-03-10", "pending")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Delete(ctx, 2, task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign Delete() error = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, 1, task.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := svc.GetByID(ctx, 1, task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, 1, task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestParseDueDate_RoundTrip(t *testing.T) {
	good := []string{"2024-03-10", "2000-01-01", "2024-02-29"}
	for _, s := range good {
		d, err := parseDueDate(s)
		if err != nil {
			t.Errorf("parseDueDate(%q) error = %v", s, err)
			continue
		}
		if d.Format(dueDateLayout) != s {
			t.Errorf("parseDueDate(%q) does not round-trip: %v", s, d)
		}
	}
	bad := []string{"", "2024/03/10", "10-03-2024", "2023-02-29", "2024-00-10", "2024-01-00"}
	for _, s := range bad {
		if _, err := parseDueDate(s); err == nil {
			t.Errorf("parseDueDate(%q) expected error", s)
		}
	}
}
