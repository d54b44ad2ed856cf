package services

import (
	"context"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/kedarsprabhu/talentmatch/internal/events"
	"github.com/kedarsprabhu/talentmatch/internal/logger"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type matchCleanupRepository interface {
	RemoveForJob(ctx context.Context, jobID string) (int64, error)
	RemoveForFulfilledJobs(ctx context.Context, olderThan time.Time) (int64, error)
}

// ResultsCleaner purges stale match results: nightly for fulfilled jobs past
// the retention window, and immediately when a JobFulfilled event arrives.
type ResultsCleaner struct {
	matches       matchCleanupRepository
	cron          *cron.Cron
	retentionDays int
}

func NewResultsCleaner(bus EventBus.Bus, matches matchCleanupRepository, retentionDays int) (*ResultsCleaner, error) {

	if retentionDays <= 0 {
		return nil, errors.New("retention in days must be greater than zero")
	}

	rc := &ResultsCleaner{
		matches:       matches,
		cron:          cron.New(),
		retentionDays: retentionDays,
	}

	if _, err := rc.cron.AddFunc("0 0 * * *", rc.cleanExpiredResults); err != nil {
		return nil, err
	}

	if err := bus.Subscribe(events.JobFulfilledTopic, rc.onJobFulfilled); err != nil {
		return nil, err
	}

	rc.cron.Start()
	log.Infof("match results cleaner started, retention in days: %d", rc.retentionDays)
	return rc, nil
}

func (rc *ResultsCleaner) Stop() {
	rc.cron.Stop()
}

func (rc *ResultsCleaner) cleanExpiredResults() {
	olderThan := time.Now().Add(-time.Duration(rc.retentionDays) * 24 * time.Hour)
	rowsAffected, err := rc.matches.RemoveForFulfilledJobs(context.Background(), olderThan)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to clean expired match results: %v", err)
	} else {
		log.Infof("expired match results cleaned, affected rows: %v", rowsAffected)
	}
}

func (rc *ResultsCleaner) onJobFulfilled(event events.JobFulfilled) {
	rowsAffected, err := rc.matches.RemoveForJob(context.Background(), event.JobID)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to remove match results for fulfilled job %v: %v", event.JobID, err)
		return
	}
	log.Infof("removed %v match results for fulfilled job %v", rowsAffected, event.JobID)
}
