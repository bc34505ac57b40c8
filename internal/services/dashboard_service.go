package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/mvergara-dev/project-management-api/internal/constants"
	"github.com/mvergara-dev/project-management-api/internal/models"
	"github.com/mvergara-dev/project-management-api/internal/repository"
)

// DashboardService aggregates per-user overview data.
type DashboardService struct {
	dashboardRepo repository.DashboardRepository
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(dashboardRepo repository.DashboardRepository) *DashboardService {
	return &DashboardService{
		dashboardRepo: dashboardRepo,
	}
}

// Stats returns project and task counters scoped to the user's projects.
func (s *DashboardService) Stats(userID uuid.UUID) (*repository.DashboardStats, error) {
	stats, err := s.dashboardRepo.StatsForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard stats: %w", err)
	}
	return stats, nil
}

// RecentProjects returns the most recently updated projects in scope.
func (s *DashboardService) RecentProjects(userID uuid.UUID) ([]models.Project, error) {
	projects, err := s.dashboardRepo.RecentProjectsForUser(userID, constants.RecentProjectsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent projects: %w", err)
	}
	return projects, nil
}

// RecentTasks returns the most recently updated tasks in scope.
func (s *DashboardService) RecentTasks(userID uuid.UUID) ([]models.Task, error) {
	tasks, err := s.dashboardRepo.RecentTasksForUser(userID, constants.RecentTasksLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent tasks: %w", err)
	}
	return tasks, nil
}
