package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"taskapi/internal/auth"
	"taskapi/internal/dto"
	"taskapi/internal/service"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	svc *service.TaskService
}

func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// Create godoc
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CreateTaskRequest  true  "Task body"
// @Success      201   {object}  dto.TaskResponse
// @Failure      400   {object}  map[string]string
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	userID := auth.UserIDFromContext(c)
	t, err := h.svc.Create(c.Request.Context(), userID, req.Title, req.Description, req.DueDate, req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromTask(t))
}

// List godoc
// @Summary      List the user's tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        status  query  string  false  "Filter by status (pending|in-progress|completed)"
// @Param        sortBy  query  string  false  "dueDate:asc or dueDate:desc"
// @Success      200  {array}   dto.TaskResponse
// @Failure      500  {object}  map[string]string
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	list, err := h.svc.List(c.Request.Context(), userID, c.Query("status"), c.Query("sortBy"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching tasks"})
		return
	}
	c.JSON(http.StatusOK, dto.FromTasks(list))
}

// GetByID godoc
// @Summary      Get a task by ID
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  dto.TaskResponse
// @Failure      404  {object}  map[string]string
// @Router       /tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID := auth.UserIDFromContext(c)
	t, err := h.svc.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromTask(t))
}

// Update godoc
// @Summary      Replace a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true  "Task ID"
// @Param        body  body      dto.UpdateTaskRequest  true  "Full task body"
// @Success      200   {object}  dto.TaskResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	userID := auth.UserIDFromContext(c)
	t, err := h.svc.Update(c.Request.Context(), userID, id, req.Title, req.Description, req.DueDate, req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromTask(t))
}

// UpdateStatus godoc
// @Summary      Update only the status of a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true  "Task ID"
// @Param        body  body      dto.UpdateStatusRequest  true  "New status"
// @Success      200   {object}  dto.TaskResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /tasks/{id} [patch]
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	userID := auth.UserIDFromContext(c)
	t, err := h.svc.UpdateStatus(c.Request.Context(), userID, id, req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromTask(t))
}

// Delete godoc
// @Summary      Delete a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID := auth.UserIDFromContext(c)
	if err := h.svc.Delete(c.Request.Context(), userID, id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// writeError maps service errors to response codes. Ownership mismatches
// arrive here as ErrNotFound and stay indistinguishable from absence.
func (h *TaskHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Task not found"})
	case errors.Is(err, service.ErrMissingTaskFields),
		errors.Is(err, service.ErrInvalidDueDate),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrMissingStatus):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		// An unparsable ID cannot name an existing task.
		c.JSON(http.StatusNotFound, gin.H{"message": "Task not found"})
		return 0, false
	}
	return id, true
}
