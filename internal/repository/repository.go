package repository

import (
	"github.com/google/uuid"
	"github.com/mvergara-dev/project-management-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uuid.UUID) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List retrieves all users ordered by name
	List() ([]models.User, error)

	// ListActive retrieves active users ordered by name
	ListActive() ([]models.User, error)

	// Update updates a user
	Update(user *models.User) error

	// CountOwnedProjects counts projects owned by a user
	CountOwnedProjects(userID uuid.UUID) (int64, error)

	// Deactivate marks a user inactive and clears their task assignments
	// within a single transaction.
	Deactivate(user *models.User) error
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a project together with its initial memberships
	Create(project *models.Project, members []models.ProjectMember) error

	// FindByID finds a project by ID with optional preloading
	FindByID(id uuid.UUID, preload ...string) (*models.Project, error)

	// List retrieves all projects with owner and tasks loaded
	List() ([]models.Project, error)

	// ListForUser retrieves projects the user owns, is a member of,
	// or holds an assigned task in
	ListForUser(userID uuid.UUID) ([]models.Project, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete removes a project and cascades to its tasks, comments and
	// memberships
	Delete(id uuid.UUID) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectID    *uuid.UUID
	AssignedToID *uuid.UUID
	Status       *models.TaskStatus
	Page         int
	PageSize     int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uuid.UUID, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination, newest first
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete removes a task and its comments
	Delete(id uuid.UUID) error

	// AddComment creates a comment on a task
	AddComment(comment *models.TaskComment) error
}

// DashboardStats aggregates per-user counters for the dashboard.
type DashboardStats struct {
	TotalProjects  int64
	ActiveProjects int64
	TotalTasks     int64
	PendingTasks   int64
	CompletedTasks int64
}

// DashboardRepository defines the aggregate queries behind the dashboard
// endpoints. All queries are scoped to projects the user owns or is a
// member of.
type DashboardRepository interface {
	StatsForUser(userID uuid.UUID) (*DashboardStats, error)
	RecentProjectsForUser(userID uuid.UUID, limit int) ([]models.Project, error)
	RecentTasksForUser(userID uuid.UUID, limit int) ([]models.Task, error)
}
