package repositories

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/kedarsprabhu/talentmatch/internal/domain/models"
	"gorm.io/gorm"
)

type Jobs struct {
	db *gorm.DB
}

func NewJobsRepository(db *gorm.DB) *Jobs {
	return &Jobs{db: db}
}

// GetDescription resolves a job description by id. A malformed id yields
// ErrInvalidJobID without touching the store; an absent row yields
// ErrJobNotFound.
func (repo *Jobs) GetDescription(ctx context.Context, jobID string) (string, error) {
	if _, err := uuid.Parse(jobID); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidJobID, jobID)
	}

	var job models.JobDescription
	err := repo.db.WithContext(ctx).First(&job, "job_id = ?", jobID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: %q", ErrJobNotFound, jobID)
		}
		return "", err
	}
	return job.Description, nil
}

// List returns all jobs ordered by job_id descending. Identifier order, not
// creation time, drives the default "most recent first" display.
func (repo *Jobs) List(ctx context.Context) ([]models.JobDescription, error) {
	var jobs []models.JobDescription
	if err := repo.db.WithContext(ctx).
		Order("job_id desc").
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// Add stores a job description under a freshly generated job id with
// position_fulfilled unset.
func (repo *Jobs) Add(ctx context.Context, description string) (string, error) {
	job := models.JobDescription{
		JobID:             uuid.NewString(),
		Description:       description,
		PositionFulfilled: false,
	}
	if err := repo.db.WithContext(ctx).Create(&job).Error; err != nil {
		return "", err
	}
	return job.JobID, nil
}

func (repo *Jobs) SetFulfilled(ctx context.Context, jobID string, fulfilled bool) error {
	if _, err := uuid.Parse(jobID); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidJobID, jobID)
	}

	res := repo.db.WithContext(ctx).
		Model(&models.JobDescription{}).
		Where("job_id = ?", jobID).
		Update("position_fulfilled", fulfilled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %q", ErrJobNotFound, jobID)
	}
	return nil
}
