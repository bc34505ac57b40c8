package repository

import (
	"github.com/google/uuid"
	"github.com/mvergara-dev/project-management-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List retrieves all users ordered by name
func (r *GormUserRepository) List() ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("first_name, last_name").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListActive retrieves active users ordered by name
func (r *GormUserRepository) ListActive() ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("is_active = ?", true).
		Order("first_name, last_name").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update updates a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// CountOwnedProjects counts projects owned by a user
func (r *GormUserRepository) CountOwnedProjects(userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).
		Where("owner_id = ?", userID).
		Count(&count).Error
	return count, err
}

// Deactivate marks a user inactive and clears their task assignments
func (r *GormUserRepository) Deactivate(user *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		user.IsActive = false
		if err := tx.Save(user).Error; err != nil {
			return err
		}

		return tx.Model(&models.Task{}).
			Where("assigned_to_id = ?", user.ID).
			Update("assigned_to_id", nil).Error
	})
}
