package repositories

import (
	"fmt"
	"github.com/glebarez/sqlite"
	"github.com/kedarsprabhu/talentmatch/internal/domain/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DbContext struct {
	DB *gorm.DB
}

func NewDbContext(connectionString string) (*DbContext, error) {
	db, err := gorm.Open(sqlite.Open(connectionString), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}

	return &DbContext{DB: db}, nil
}

func (c *DbContext) Migrate() error {
	err := c.DB.AutoMigrate(models.CandidateResume{})
	if err != nil {
		return fmt.Errorf("failed to migrate CandidateResume entity: %w", err)
	}

	err = c.DB.AutoMigrate(models.JobDescription{})
	if err != nil {
		return fmt.Errorf("failed to migrate JobDescription entity: %w", err)
	}

	err = c.DB.AutoMigrate(models.MatchResult{})
	if err != nil {
		return fmt.Errorf("failed to migrate MatchResult entity: %w", err)
	}

	// Upsert idempotency depends on this constraint even if a future
	// migration redefines the primary key.
	if err = c.DB.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_job_candidate " +
		"ON job_candidate_match (job_id, candidate_id);").Error; err != nil {
		return fmt.Errorf("failed to create match index: %w", err)
	}

	return nil
}

func (c *DbContext) Close() error {
	db, err := c.DB.DB()
	if err != nil {
		return err
	}

	return db.Close()
}
