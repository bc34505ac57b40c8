package repository

import (
	"github.com/google/uuid"
	"github.com/mvergara-dev/project-management-api/internal/models"
	"gorm.io/gorm"
)

// projectAccessCond matches projects the user owns or is a member of.
const projectAccessCond = `projects.owner_id = ?
	OR EXISTS (SELECT 1 FROM project_members pm WHERE pm.project_id = projects.id AND pm.user_id = ?)`

// projectReachCond additionally matches projects where the user holds an
// assigned task.
const projectReachCond = projectAccessCond + `
	OR EXISTS (SELECT 1 FROM tasks t WHERE t.project_id = projects.id AND t.assigned_to_id = ?)`

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a project together with its initial memberships
func (r *GormProjectRepository) Create(project *models.Project, members []models.ProjectMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}

		for i := range members {
			members[i].ProjectID = project.ID
		}
		if len(members) > 0 {
			if err := tx.Create(&members).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(id uuid.UUID, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&project, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// List retrieves all projects with owner and tasks loaded, newest first
func (r *GormProjectRepository) List() ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Preload("Owner").Preload("Tasks").
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// ListForUser retrieves projects the user owns, is a member of, or holds an
// assigned task in, newest first
func (r *GormProjectRepository) ListForUser(userID uuid.UUID) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Preload("Owner").Preload("Tasks").
		Where(projectReachCond, userID, userID, userID).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete removes a project and cascades to its tasks, comments and memberships
func (r *GormProjectRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var taskIDs []uuid.UUID
		if err := tx.Model(&models.Task{}).
			Where("project_id = ?", id).
			Pluck("id", &taskIDs).Error; err != nil {
			return err
		}

		if len(taskIDs) > 0 {
			if err := tx.Where("task_id IN ?", taskIDs).
				Delete(&models.TaskComment{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, "id = ?", id).Error
	})
}
