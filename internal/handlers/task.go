package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/mvergara-dev/project-management-api/internal/dto"
	apierrors "github.com/mvergara-dev/project-management-api/internal/errors"
	"github.com/mvergara-dev/project-management-api/internal/middleware"
	"github.com/mvergara-dev/project-management-api/internal/models"
	"github.com/mvergara-dev/project-management-api/internal/services"
	"github.com/mvergara-dev/project-management-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns a project's tasks, newest first, paginated. The
// project_id query parameter is required.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	projectID, err := uuid.Parse(c.Query("project_id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid or missing project_id")
		return
	}

	page := utils.ParsePage(c)

	tasks, total, err := h.taskService.ListTasksByProject(projectID, page.Number, page.Limit)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			apierrors.NotFound(c, "Project not found")
			return
		}
		apierrors.InternalError(c, "Failed to list tasks")
		return
	}

	c.JSON(http.StatusOK, dto.TaskListResponse{
		Tasks:      dto.ToTaskDTOs(tasks),
		Pagination: page.Meta(total),
	})
}

// MyTasks returns tasks assigned to the current user, newest first
func (h *TaskHandler) MyTasks(c *gin.Context) {
	principal, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	page := utils.ParsePage(c)

	tasks, total, err := h.taskService.ListTasksForUser(principal.ID, page.Number, page.Limit)
	if err != nil {
		apierrors.InternalError(c, "Failed to list tasks")
		return
	}

	c.JSON(http.StatusOK, dto.TaskListResponse{
		Tasks:      dto.ToTaskDTOs(tasks),
		Pagination: page.Meta(total),
	})
}

// GetTask returns a task with its project, people and comments
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	task, err := h.taskService.GetTask(id)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			apierrors.NotFound(c, "Task not found")
			return
		}
		apierrors.InternalError(c, "Failed to load task")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a task. New tasks always start Pending; a
// client-supplied status is ignored.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	principal, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title          string              `json:"title" binding:"required,min=3,max=200"`
		Description    string              `json:"description" binding:"max=1000"`
		Priority       models.TaskPriority `json:"priority"`
		DueDate        *time.Time          `json:"due_date"`
		EstimatedHours *float64            `json:"estimated_hours"`
		ProjectID      uuid.UUID           `json:"project_id" binding:"required"`
		AssignedToID   *uuid.UUID          `json:"assigned_to_id"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Priority:       req.Priority,
		DueDate:        req.DueDate,
		EstimatedHours: req.EstimatedHours,
		ProjectID:      req.ProjectID,
		AssignedToID:   req.AssignedToID,
	}, principal.ID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProjectNotFound):
			apierrors.NotFound(c, "Project not found")
		case errors.Is(err, services.ErrInvalidPriority):
			apierrors.BadRequest(c, "Invalid priority")
		case errors.Is(err, services.ErrNegativeHours):
			apierrors.BadRequest(c, "Hours cannot be negative")
		case errors.Is(err, services.ErrAssigneeNotFound):
			apierrors.BadRequest(c, "Assigned user does not exist")
		default:
			apierrors.InternalError(c, "Failed to create task")
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask patches the supplied fields. Explicit nulls clear due_date and
// assigned_to_id; absent fields are left untouched.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	type UpdateTaskRequest struct {
		Title          *string              `json:"title" binding:"omitempty,min=3,max=200"`
		Description    *string              `json:"description" binding:"omitempty,max=1000"`
		Status         *models.TaskStatus   `json:"status"`
		Priority       *models.TaskPriority `json:"priority"`
		DueDate        *time.Time           `json:"due_date"`
		EstimatedHours *float64             `json:"estimated_hours"`
		ActualHours    *float64             `json:"actual_hours"`
		AssignedToID   *uuid.UUID           `json:"assigned_to_id"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	task, err := h.taskService.UpdateTask(id, services.UpdateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Priority:       req.Priority,
		DueDate:        req.DueDate,
		ClearDueDate:   fieldIsNull(c, "due_date"),
		EstimatedHours: req.EstimatedHours,
		ActualHours:    req.ActualHours,
		AssignedToID:   req.AssignedToID,
		ClearAssignee:  fieldIsNull(c, "assigned_to_id"),
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			apierrors.NotFound(c, "Task not found")
		case errors.Is(err, services.ErrInvalidStatus):
			apierrors.BadRequest(c, "Invalid status")
		case errors.Is(err, services.ErrInvalidPriority):
			apierrors.BadRequest(c, "Invalid priority")
		case errors.Is(err, services.ErrNegativeHours):
			apierrors.BadRequest(c, "Hours cannot be negative")
		case errors.Is(err, services.ErrAssigneeNotFound):
			apierrors.BadRequest(c, "Assigned user does not exist")
		default:
			apierrors.InternalError(c, "Failed to update task")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task and its comments. Restricted to Admin and
// ProjectManager on the route.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	if err := h.taskService.DeleteTask(id); err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			apierrors.NotFound(c, "Task not found")
			return
		}
		apierrors.InternalError(c, "Failed to delete task")
		return
	}

	c.Status(http.StatusNoContent)
}

// AddComment appends a comment to a task
func (h *TaskHandler) AddComment(c *gin.Context) {
	principal, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	type AddCommentRequest struct {
		Content string `json:"content" binding:"required,max=1000"`
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	comment, err := h.taskService.AddComment(id, req.Content, principal.ID)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			apierrors.NotFound(c, "Task not found")
			return
		}
		apierrors.InternalError(c, "Failed to add comment")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskCommentDTO(*comment))
}
