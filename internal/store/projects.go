package store

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/workbin-dev/workbin/db"
	"github.com/workbin-dev/workbin/internal/models"
	"gorm.io/gorm"
)

var storageRoot = "storage"

// InitStorageRoot sets the directory holding per-project directories and
// the shared uploads area, creating both.
func InitStorageRoot(root string) error {
	if root != "" {
		storageRoot = root
	}

	if err := os.MkdirAll(filepath.Join(storageRoot, "projects"), 0o755); err != nil {
		return err
	}

	return os.MkdirAll(filepath.Join(storageRoot, "uploads"), 0o755)
}

// ProjectDir returns the storage directory for a project, named by its
// database identifier.
func ProjectDir(project *models.Project) string {
	return filepath.Join(storageRoot, "projects", strconv.FormatUint(uint64(project.ID), 10))
}

func sharedUploadsDir() string {
	return filepath.Join(storageRoot, "uploads")
}

// CreateProject inserts the project row and provisions its storage
// directory. The row is committed first so the directory is named by a
// durable identifier; if provisioning fails the row is deleted again and
// the error returned.
func CreateProject(ownerID uint, name, description string) (*models.Project, error) {
	project := models.Project{
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var count int64

		if err := tx.Model(&models.Project{}).
			Where("owner_id = ? AND name = ?", ownerID, name).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return ErrProjectExists
		}

		return tx.Create(&project).Error
	})

	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(ProjectDir(&project), 0o755); err != nil {
		if delErr := db.DB.Unscoped().Delete(&project).Error; delErr != nil {
			log.Printf("Failed to roll back project %d after storage error: %v", project.ID, delErr)
		}
		return nil, fmt.Errorf("create project storage: %w", err)
	}

	return &project, nil
}

// ListProjects returns all projects owned by the user, in store order.
func ListProjects(ownerID uint) ([]models.Project, error) {
	projects := make([]models.Project, 0)

	if err := db.DB.Where("owner_id = ?", ownerID).Find(&projects).Error; err != nil {
		return nil, err
	}

	return projects, nil
}

// GetProject loads a project scoped to its owner, or ErrNotFound.
func GetProject(ownerID uint, projectID string) (*models.Project, error) {
	var project models.Project

	if err := db.DB.Where("id = ? AND owner_id = ?", projectID, ownerID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &project, nil
}

// UpdateProject renames a project under the same per-owner uniqueness rule
// as creation.
func UpdateProject(project *models.Project, name, description string) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		var count int64

		if err := tx.Model(&models.Project{}).
			Where("owner_id = ? AND name = ? AND id != ?", project.OwnerID, name, project.ID).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return ErrProjectExists
		}

		project.Name = name
		project.Description = description

		return tx.Save(project).Error
	})
}

// DeleteProject removes the row and then the storage directory with its
// contents. Orphaned directories served nobody; removal is the deliberate
// policy here.
func DeleteProject(project *models.Project) error {
	if err := db.DB.Delete(project).Error; err != nil {
		return err
	}

	if err := os.RemoveAll(ProjectDir(project)); err != nil {
		log.Printf("Failed to remove storage for project %d: %v", project.ID, err)
	}

	return nil
}
