package dto

import (
	"time"

	dom "taskapi/internal/domain"
)

// CreateTaskRequest is the JSON body for POST /tasks. Field presence is
// validated by the service so the error messages stay uniform; any owner
// field in the payload is ignored.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"` // strict YYYY-MM-DD
	Status      string `json:"status"`  // optional, defaults to pending
}

// UpdateTaskRequest is the JSON body for PUT /tasks/:id. Full replace:
// every field is required.
type UpdateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Status      string `json:"status"`
}

// UpdateStatusRequest is the JSON body for PATCH /tasks/:id.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// TaskResponse is the wire shape of a task.
type TaskResponse struct {
	ID          int64     `json:"id"`
	Owner       int64     `json:"owner"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     string    `json:"dueDate"` // YYYY-MM-DD
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FromTask converts a domain task to its wire shape.
func FromTask(t dom.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Owner:       t.UserID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate.Format("2006-01-02"),
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// FromTasks converts a slice of domain tasks.
func FromTasks(list []dom.Task) []TaskResponse {
	out := make([]TaskResponse, len(list))
	for i := range list {
		out[i] = FromTask(list[i])
	}
	return out
}
