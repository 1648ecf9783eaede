package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/career-guide/internal/models"
)

type JobRoleRepository interface {
	List() ([]models.JobRole, error)
	FindByID(id uuid.UUID) (*models.JobRole, error)
	Create(role *models.JobRole) error
	Update(role *models.JobRole) error
	// EnsureDefaultRoles seeds the catalog when it is empty and reports how
	// many roles were inserted.
	EnsureDefaultRoles() (int, error)
}

type jobRoleRepository struct {
	db *gorm.DB
}

func NewJobRoleRepository(db *gorm.DB) JobRoleRepository {
	return &jobRoleRepository{db: db}
}

// List implements JobRoleRepository.
func (r *jobRoleRepository) List() ([]models.JobRole, error) {
	var roles []models.JobRole
	if err := r.db.Order("created_at ASC").Order("title ASC").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to list job roles: %w", err)
	}
	return roles, nil
}

// FindByID implements JobRoleRepository.
func (r *jobRoleRepository) FindByID(id uuid.UUID) (*models.JobRole, error) {
	var role models.JobRole
	if err := r.db.Where("id = ?", id).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("job role %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find job role: %w", err)
	}
	return &role, nil
}

// Create implements JobRoleRepository.
func (r *jobRoleRepository) Create(role *models.JobRole) error {
	if err := r.db.Create(role).Error; err != nil {
		return fmt.Errorf("failed to create job role: %w", err)
	}
	return nil
}

// Update implements JobRoleRepository.
func (r *jobRoleRepository) Update(role *models.JobRole) error {
	if err := r.db.Save(role).Error; err != nil {
		return fmt.Errorf("failed to update job role: %w", err)
	}
	return nil
}

// EnsureDefaultRoles implements JobRoleRepository.
func (r *jobRoleRepository) EnsureDefaultRoles() (int, error) {
	inserted := 0
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.JobRole{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		roles := models.DefaultRoles()
		if err := tx.Create(&roles).Error; err != nil {
			return err
		}
		inserted = len(roles)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to seed job roles: %w", err)
	}
	return inserted, nil
}
