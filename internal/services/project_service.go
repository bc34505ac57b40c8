package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mvergara-dev/project-management-api/internal/models"
	"github.com/mvergara-dev/project-management-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrOwnerNotFound   = errors.New("project owner does not exist")
	ErrEndBeforeStart  = errors.New("end date cannot be before start date")
	ErrMemberNotFound  = errors.New("one or more members do not exist")
	ErrInvalidStatus   = errors.New("invalid status value")
	ErrInvalidPriority = errors.New("invalid priority value")
)

// ProjectService handles project business logic
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// ProjectProgress carries the task counters derived for a project.
type ProjectProgress struct {
	TotalTasks         int
	CompletedTasks     int
	ProgressPercentage float64
}

// Progress derives completion counters from a project's loaded tasks.
// A project with no tasks is 0% complete.
func Progress(tasks []models.Task) ProjectProgress {
	completed := 0
	for _, t := range tasks {
		if t.Status == models.TaskStatusCompleted {
			completed++
		}
	}

	p := ProjectProgress{
		TotalTasks:     len(tasks),
		CompletedTasks: completed,
	}
	if p.TotalTasks > 0 {
		p.ProgressPercentage = float64(completed) / float64(p.TotalTasks) * 100
	}
	return p
}

// ListProjects returns all projects, newest first.
func (s *ProjectService) ListProjects() ([]models.Project, error) {
	projects, err := s.projectRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// ListProjectsForUser returns projects where the user is owner, member, or
// has at least one assigned task, newest first.
func (s *ProjectService) ListProjectsForUser(userID uuid.UUID) ([]models.Project, error) {
	projects, err := s.projectRepo.ListForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user projects: %w", err)
	}
	return projects, nil
}

// GetProject returns a project with its owner, members and tasks loaded.
func (s *ProjectService) GetProject(id uuid.UUID) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(id,
		"Owner", "Members", "Members.User", "Tasks", "Tasks.AssignedTo")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	return project, nil
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Name        string
	Description string
	StartDate   time.Time
	EndDate     *time.Time
	Priority    models.ProjectPriority
	OwnerID     *uuid.UUID
	MemberIDs   []uuid.UUID
}

// CreateProject creates a project. Status is always Planning regardless of
// client input; the owner defaults to the creator and is recorded as the
// first member.
func (s *ProjectService) CreateProject(input CreateProjectInput, creatorID uuid.UUID) (*models.Project, error) {
	if input.EndDate != nil && input.EndDate.Before(input.StartDate) {
		return nil, ErrEndBeforeStart
	}

	priority := input.Priority
	if priority == "" {
		priority = models.ProjectPriorityMedium
	}
	if !priority.Valid() {
		return nil, ErrInvalidPriority
	}

	ownerID := creatorID
	if input.OwnerID != nil {
		ownerID = *input.OwnerID
	}
	if _, err := s.userRepo.FindByID(ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOwnerNotFound
		}
		return nil, fmt.Errorf("failed to verify owner: %w", err)
	}

	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Status:      models.ProjectStatusPlanning,
		Priority:    priority,
		OwnerID:     ownerID,
	}

	members, err := s.buildMembers(ownerID, input.MemberIDs)
	if err != nil {
		return nil, err
	}

	if err := s.projectRepo.Create(project, members); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.GetProject(project.ID)
}

// UpdateProjectInput represents a partial update of a project
type UpdateProjectInput struct {
	Name        *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	ClearEnd    bool
	Status      *models.ProjectStatus
	Priority    *models.ProjectPriority
	OwnerID     *uuid.UUID
}

// UpdateProject patches only the supplied fields and refreshes UpdatedAt.
func (s *ProjectService) UpdateProject(id uuid.UUID, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if input.Name != nil {
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.StartDate != nil {
		project.StartDate = *input.StartDate
	}
	if input.ClearEnd {
		project.EndDate = nil
	} else if input.EndDate != nil {
		project.EndDate = input.EndDate
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		project.Status = *input.Status
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		project.Priority = *input.Priority
	}
	if input.OwnerID != nil {
		if _, err := s.userRepo.FindByID(*input.OwnerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrOwnerNotFound
			}
			return nil, fmt.Errorf("failed to verify owner: %w", err)
		}
		project.OwnerID = *input.OwnerID
	}

	if project.EndDate != nil && project.EndDate.Before(project.StartDate) {
		return nil, ErrEndBeforeStart
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return s.GetProject(project.ID)
}

// DeleteProject removes a project together with its tasks and memberships.
func (s *ProjectService) DeleteProject(id uuid.UUID) error {
	if _, err := s.projectRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	if err := s.projectRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

// buildMembers assembles the initial membership rows: the owner plus any
// explicitly supplied members, deduplicated.
func (s *ProjectService) buildMembers(ownerID uuid.UUID, memberIDs []uuid.UUID) ([]models.ProjectMember, error) {
	now := time.Now()
	members := []models.ProjectMember{{
		UserID:   ownerID,
		Role:     "Owner",
		JoinedAt: now,
	}}

	seen := map[uuid.UUID]struct{}{ownerID: {}}
	for _, id := range memberIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if _, err := s.userRepo.FindByID(id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrMemberNotFound
			}
			return nil, fmt.Errorf("failed to verify member: %w", err)
		}

		members = append(members, models.ProjectMember{
			UserID:   id,
			Role:     models.DefaultMemberRole,
			JoinedAt: now,
		})
	}

	return members, nil
}
