package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/mvergara-dev/project-management-api/internal/models"
	"github.com/mvergara-dev/project-management-api/internal/utils"
)

// TaskSummaryDTO represents a task inside project detail responses.
type TaskSummaryDTO struct {
	ID             uuid.UUID           `json:"id"`
	Title          string              `json:"title"`
	Status         models.TaskStatus   `json:"status"`
	Priority       models.TaskPriority `json:"priority"`
	DueDate        *time.Time          `json:"due_date"`
	EstimatedHours *float64            `json:"estimated_hours"`
	ActualHours    *float64            `json:"actual_hours"`
	AssignedTo     *UserSummaryDTO     `json:"assigned_to,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
}

// TaskProjectDTO is the minimal project reference embedded in task responses.
type TaskProjectDTO struct {
	ID     uuid.UUID            `json:"id"`
	Name   string               `json:"name"`
	Status models.ProjectStatus `json:"status"`
	Owner  *UserSummaryDTO      `json:"owner,omitempty"`
}

// TaskCommentDTO represents a comment in API responses.
type TaskCommentDTO struct {
	ID        uuid.UUID      `json:"id"`
	Content   string         `json:"content"`
	Author    UserSummaryDTO `json:"author"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TaskDTO is the full task projection.
type TaskDTO struct {
	ID             uuid.UUID           `json:"id"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Status         models.TaskStatus   `json:"status"`
	Priority       models.TaskPriority `json:"priority"`
	DueDate        *time.Time          `json:"due_date"`
	EstimatedHours *float64            `json:"estimated_hours"`
	ActualHours    *float64            `json:"actual_hours"`
	ProjectID      uuid.UUID           `json:"project_id"`
	Project        *TaskProjectDTO     `json:"project,omitempty"`
	AssignedTo     *UserSummaryDTO     `json:"assigned_to,omitempty"`
	CreatedBy      *UserSummaryDTO     `json:"created_by,omitempty"`
	Comments       []TaskCommentDTO    `json:"comments"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO      `json:"tasks"`
	Pagination utils.PageMeta `json:"pagination"`
}

// ToTaskSummaryDTO converts a Task model to TaskSummaryDTO
func ToTaskSummaryDTO(task models.Task) TaskSummaryDTO {
	dto := TaskSummaryDTO{
		ID:             task.ID,
		Title:          task.Title,
		Status:         task.Status,
		Priority:       task.Priority,
		DueDate:        task.DueDate,
		EstimatedHours: task.EstimatedHours,
		ActualHours:    task.ActualHours,
		CreatedAt:      task.CreatedAt,
	}

	if task.AssignedTo != nil {
		assignee := ToUserSummaryDTO(*task.AssignedTo)
		dto.AssignedTo = &assignee
	}

	return dto
}

// ToTaskCommentDTO converts a TaskComment model to TaskCommentDTO
func ToTaskCommentDTO(comment models.TaskComment) TaskCommentDTO {
	return TaskCommentDTO{
		ID:        comment.ID,
		Content:   comment.Content,
		Author:    ToUserSummaryDTO(comment.Author),
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
}

// ToTaskDTO converts a Task model to TaskDTO. Related records appear only
// when preloaded; comments keep their load order.
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		Status:         task.Status,
		Priority:       task.Priority,
		DueDate:        task.DueDate,
		EstimatedHours: task.EstimatedHours,
		ActualHours:    task.ActualHours,
		ProjectID:      task.ProjectID,
		Comments:       make([]TaskCommentDTO, 0, len(task.Comments)),
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}

	if task.Project.ID != uuid.Nil {
		project := TaskProjectDTO{
			ID:     task.Project.ID,
			Name:   task.Project.Name,
			Status: task.Project.Status,
		}
		if task.Project.Owner.ID != uuid.Nil {
			owner := ToUserSummaryDTO(task.Project.Owner)
			project.Owner = &owner
		}
		dto.Project = &project
	}

	if task.AssignedTo != nil {
		assignee := ToUserSummaryDTO(*task.AssignedTo)
		dto.AssignedTo = &assignee
	}

	if task.CreatedBy.ID != uuid.Nil {
		author := ToUserSummaryDTO(task.CreatedBy)
		dto.CreatedBy = &author
	}

	for _, c := range task.Comments {
		dto.Comments = append(dto.Comments, ToTaskCommentDTO(c))
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks.
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	out := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		out[i] = ToTaskDTO(t)
	}
	return out
}
