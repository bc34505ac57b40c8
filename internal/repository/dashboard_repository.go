package repository

import (
	"github.com/google/uuid"
	"github.com/mvergara-dev/project-management-api/internal/models"
	"gorm.io/gorm"
)

// taskAccessCond matches tasks inside projects the user owns or is a member of.
const taskAccessCond = `tasks.project_id IN (
	SELECT p.id FROM projects p
	WHERE p.owner_id = ?
	OR EXISTS (SELECT 1 FROM project_members pm WHERE pm.project_id = p.id AND pm.user_id = ?))`

// GormDashboardRepository is a GORM implementation of DashboardRepository
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository creates a new DashboardRepository
func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &GormDashboardRepository{db: db}
}

// StatsForUser aggregates project and task counters scoped to the user
func (r *GormDashboardRepository) StatsForUser(userID uuid.UUID) (*DashboardStats, error) {
	stats := &DashboardStats{}

	if err := r.db.Model(&models.Project{}).
		Where(projectAccessCond, userID, userID).
		Count(&stats.TotalProjects).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Project{}).
		Where(projectAccessCond, userID, userID).
		Where("projects.status = ?", models.ProjectStatusInProgress).
		Count(&stats.ActiveProjects).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&models.Task{}).
		Where(taskAccessCond, userID, userID).
		Count(&stats.TotalTasks).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Task{}).
		Where(taskAccessCond, userID, userID).
		Where("tasks.status = ?", models.TaskStatusPending).
		Count(&stats.PendingTasks).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Task{}).
		Where(taskAccessCond, userID, userID).
		Where("tasks.status = ?", models.TaskStatusCompleted).
		Count(&stats.CompletedTasks).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// RecentProjectsForUser returns the most recently updated projects in the
// user's scope
func (r *GormDashboardRepository) RecentProjectsForUser(userID uuid.UUID, limit int) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Preload("Owner").Preload("Tasks").
		Where(projectAccessCond, userID, userID).
		Order("updated_at DESC").
		Limit(limit).
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// RecentTasksForUser returns the most recently updated tasks in the user's
// scope
func (r *GormDashboardRepository) RecentTasksForUser(userID uuid.UUID, limit int) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Preload("Project").Preload("AssignedTo").
		Where(taskAccessCond, userID, userID).
		Order("updated_at DESC").
		Limit(limit).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}
