package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mvergara-dev/project-management-api/internal/models"
	"github.com/mvergara-dev/project-management-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrAssigneeNotFound = errors.New("assigned user does not exist")
	ErrNegativeHours    = errors.New("hours cannot be negative")
)

// taskDetailPreloads loads everything the task detail response needs.
var taskDetailPreloads = []string{
	"Project", "Project.Owner", "AssignedTo", "CreatedBy",
	"Comments", "Comments.Author",
}

// TaskService handles task business logic
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// ListTasksByProject returns a project's tasks, newest first.
func (s *TaskService) ListTasksByProject(projectID uuid.UUID, page, pageSize int) ([]models.Task, int64, error) {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrProjectNotFound
		}
		return nil, 0, fmt.Errorf("failed to find project: %w", err)
	}

	tasks, total, err := s.taskRepo.List(repository.TaskFilter{
		ProjectID: &projectID,
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// ListTasksForUser returns tasks assigned to the user, newest first.
func (s *TaskService) ListTasksForUser(userID uuid.UUID, page, pageSize int) ([]models.Task, int64, error) {
	tasks, total, err := s.taskRepo.List(repository.TaskFilter{
		AssignedToID: &userID,
		Page:         page,
		PageSize:     pageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns a task with its project, assignee, author and comments.
// Comments are ordered oldest first.
func (s *TaskService) GetTask(id uuid.UUID) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id, taskDetailPreloads...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	sort.Slice(task.Comments, func(i, j int) bool {
		return task.Comments[i].CreatedAt.Before(task.Comments[j].CreatedAt)
	})

	return task, nil
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title          string
	Description    string
	Priority       models.TaskPriority
	DueDate        *time.Time
	EstimatedHours *float64
	ProjectID      uuid.UUID
	AssignedToID   *uuid.UUID
}

// CreateTask creates a task. Status is always Pending regardless of client
// input.
func (s *TaskService) CreateTask(input CreateTaskInput, creatorID uuid.UUID) (*models.Task, error) {
	if _, err := s.projectRepo.FindByID(input.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	priority := input.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}
	if !priority.Valid() {
		return nil, ErrInvalidPriority
	}

	if input.EstimatedHours != nil && *input.EstimatedHours < 0 {
		return nil, ErrNegativeHours
	}

	if input.AssignedToID != nil {
		if err := s.verifyAssignee(*input.AssignedToID); err != nil {
			return nil, err
		}
	}

	task := &models.Task{
		Title:          input.Title,
		Description:    input.Description,
		Status:         models.TaskStatusPending,
		Priority:       priority,
		DueDate:        input.DueDate,
		EstimatedHours: input.EstimatedHours,
		ProjectID:      input.ProjectID,
		AssignedToID:   input.AssignedToID,
		CreatedByID:    creatorID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.GetTask(task.ID)
}

// UpdateTaskInput represents a partial update of a task. Only non-nil fields
// overwrite existing values; the Clear flags reset their optional columns.
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	Status         *models.TaskStatus
	Priority       *models.TaskPriority
	DueDate        *time.Time
	ClearDueDate   bool
	EstimatedHours *float64
	ActualHours    *float64
	AssignedToID   *uuid.UUID
	ClearAssignee  bool
}

// UpdateTask patches only the supplied fields and refreshes UpdatedAt.
func (s *TaskService) UpdateTask(id uuid.UUID, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.EstimatedHours != nil {
		if *input.EstimatedHours < 0 {
			return nil, ErrNegativeHours
		}
		task.EstimatedHours = input.EstimatedHours
	}
	if input.ActualHours != nil {
		if *input.ActualHours < 0 {
			return nil, ErrNegativeHours
		}
		task.ActualHours = input.ActualHours
	}
	if input.ClearAssignee {
		task.AssignedToID = nil
	} else if input.AssignedToID != nil {
		if err := s.verifyAssignee(*input.AssignedToID); err != nil {
			return nil, err
		}
		task.AssignedToID = input.AssignedToID
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.GetTask(task.ID)
}

// DeleteTask removes a task and its comments.
func (s *TaskService) DeleteTask(id uuid.UUID) error {
	if _, err := s.taskRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// AddComment creates a comment on a task.
func (s *TaskService) AddComment(taskID uuid.UUID, content string, authorID uuid.UUID) (*models.TaskComment, error) {
	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	comment := &models.TaskComment{
		Content:  content,
		TaskID:   taskID,
		AuthorID: authorID,
	}

	if err := s.taskRepo.AddComment(comment); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	author, err := s.userRepo.FindByID(authorID)
	if err == nil {
		comment.Author = *author
	}

	return comment, nil
}

func (s *TaskService) verifyAssignee(id uuid.UUID) error {
	if _, err := s.userRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssigneeNotFound
		}
		return fmt.Errorf("failed to verify assignee: %w", err)
	}
	return nil
}
