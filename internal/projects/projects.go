// Package projects manages tracked sites and their tracking configuration.
// A project is the unit of data isolation for all analytics queries.
package projects

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxProjectsPerUser caps how many projects one account may create.
const MaxProjectsPerUser = 3

// ErrProjectLimitReached is returned when a user is at their project quota.
var ErrProjectLimitReached = fmt.Errorf("project limit reached, maximum %d projects per user", MaxProjectsPerUser)

// ProjectNotFoundError represents an error when a project is not found or
// not owned by the requesting user.
type ProjectNotFoundError struct {
	ID string
}

func (e *ProjectNotFoundError) Error() string {
	return fmt.Sprintf("project not found: %s", e.ID)
}

// NewProjectNotFoundError creates a new ProjectNotFoundError
func NewProjectNotFoundError(id string) *ProjectNotFoundError {
	return &ProjectNotFoundError{ID: id}
}

// Project represents a tracked site or application.
type Project struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	UserID      string    `gorm:"index;not null" json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProjectConfig holds per-project tracking options, created with defaults
// alongside the project.
type ProjectConfig struct {
	ProjectID        string    `gorm:"primaryKey" json:"project_id"`
	TrackPageviews   bool      `gorm:"not null;default:true" json:"track_pageviews"`
	TrackSessions    bool      `gorm:"not null;default:true" json:"track_sessions"`
	TrackConversions bool      `gorm:"not null;default:true" json:"track_conversions"`
	AllowedOrigins   string    `json:"allowed_origins"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName maps ProjectConfig onto the configuration table.
func (ProjectConfig) TableName() string {
	return "configuration"
}

// Create inserts a new project owned by userID, enforcing the per-user
// quota, and creates its default configuration row.
func Create(db *gorm.DB, userID, name, description string) (*Project, error) {
	if name == "" {
		return nil, errors.New("project name is required")
	}

	var count int64
	if err := db.Model(&Project{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}
	if count >= MaxProjectsPerUser {
		return nil, ErrProjectLimitReached
	}

	now := time.Now().UTC()
	project := &Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		return tx.Create(&ProjectConfig{
			ProjectID:        project.ID,
			TrackPageviews:   true,
			TrackSessions:    true,
			TrackConversions: true,
			UpdatedAt:        now,
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// GetByID retrieves a project regardless of owner.
func GetByID(db *gorm.DB, id string) (*Project, error) {
	var project Project
	if err := db.Where("id = ?", id).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewProjectNotFoundError(id)
		}
		return nil, fmt.Errorf("unexpected error querying project: %w", err)
	}
	return &project, nil
}

// GetOwned retrieves a project only when it belongs to userID.
func GetOwned(db *gorm.DB, id, userID string) (*Project, error) {
	var project Project
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewProjectNotFoundError(id)
		}
		return nil, fmt.Errorf("unexpected error querying project: %w", err)
	}
	return &project, nil
}

// ListByUser retrieves all projects owned by userID, newest first.
func ListByUser(db *gorm.DB, userID string) ([]Project, error) {
	var list []Project
	if err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return list, nil
}

// Update changes a project's name and description for its owner. Returns
// ProjectNotFoundError when the project is absent or owned by someone else.
func Update(db *gorm.DB, id, userID, name, description string) (*Project, error) {
	project, err := GetOwned(db, id, userID)
	if err != nil {
		return nil, err
	}

	project.Name = name
	project.Description = description
	project.UpdatedAt = time.Now().UTC()
	if err := db.Save(project).Error; err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

// Delete removes a project, its configuration, and its events. Scoped to
// the owner.
func Delete(db *gorm.DB, id, userID string) error {
	if _, err := GetOwned(db, id, userID); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&ProjectConfig{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM tracking_events WHERE project_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&Project{}, "id = ?", id).Error
	})
}

// GetConfig retrieves the tracking configuration for a project. Missing
// rows resolve to the defaults so older projects keep working.
func GetConfig(db *gorm.DB, projectID string) (*ProjectConfig, error) {
	var cfg ProjectConfig
	if err := db.Where("project_id = ?", projectID).First(&cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ProjectConfig{
				ProjectID:        projectID,
				TrackPageviews:   true,
				TrackSessions:    true,
				TrackConversions: true,
			}, nil
		}
		return nil, fmt.Errorf("failed to get project config: %w", err)
	}
	return &cfg, nil
}

// UpdateConfig replaces the tracking configuration for an owned project.
func UpdateConfig(db *gorm.DB, id, userID string, cfg ProjectConfig) (*ProjectConfig, error) {
	if _, err := GetOwned(db, id, userID); err != nil {
		return nil, err
	}

	cfg.ProjectID = id
	cfg.UpdatedAt = time.Now().UTC()
	if err := db.Save(&cfg).Error; err != nil {
		return nil, fmt.Errorf("failed to update project config: %w", err)
	}
	return &cfg, nil
}

// AllowsEventType reports whether the configuration accepts the given
// event type. Caller-defined custom types are always accepted.
func (c *ProjectConfig) AllowsEventType(eventType string) bool {
	switch eventType {
	case "page_view":
		return c.TrackPageviews
	case "session":
		return c.TrackSessions
	case "conversion":
		return c.TrackConversions
	default:
		return true
	}
}
