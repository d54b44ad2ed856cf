package repositories

import (
	"context"
	"github.com/kedarsprabhu/talentmatch/internal/domain/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"time"
)

type Matches struct {
	db *gorm.DB
}

func NewMatchesRepository(db *gorm.DB) *Matches {
	return &Matches{db: db}
}

// Upsert writes a batch of match results in one transaction. A conflict on
// (job_id, candidate_id) overwrites score, summary and created_at, so
// re-running a save is idempotent. Any failure rolls the whole batch back.
func (repo *Matches) Upsert(ctx context.Context, results []models.MatchResult) error {
	if len(results) == 0 {
		return nil
	}

	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "job_id"}, {Name: "candidate_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"match_score", "match_summary", "created_at",
			}),
		}).Create(&results).Error
	})
}

func (repo *Matches) GetByJob(ctx context.Context, jobID string) ([]models.MatchResult, error) {
	var results []models.MatchResult
	if err := repo.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("match_score desc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (repo *Matches) RemoveForJob(ctx context.Context, jobID string) (int64, error) {
	res := repo.db.WithContext(ctx).Delete(&models.MatchResult{}, "job_id = ?", jobID)
	return res.RowsAffected, res.Error
}

// RemoveForFulfilledJobs deletes match results older than the given time
// that belong to jobs already marked fulfilled.
func (repo *Matches) RemoveForFulfilledJobs(ctx context.Context, olderThan time.Time) (int64, error) {
	fulfilled := repo.db.Model(&models.JobDescription{}).
		Select("job_id").
		Where("position_fulfilled = ?", true)

	res := repo.db.WithContext(ctx).
		Where("created_at < ? AND job_id IN (?)", olderThan, fulfilled).
		Delete(&models.MatchResult{})
	return res.RowsAffected, res.Error
}
