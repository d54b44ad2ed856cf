package services

import (
	"context"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/kedarsprabhu/talentmatch/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMatchCleanup struct {
	mock.Mock
}

func (m *mockMatchCleanup) RemoveForJob(ctx context.Context, jobID string) (int64, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockMatchCleanup) RemoveForFulfilledJobs(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

func Test_NewResultsCleaner_RejectsNonPositiveRetention(t *testing.T) {
	_, err := NewResultsCleaner(EventBus.New(), &mockMatchCleanup{}, 0)
	assert.Error(t, err)
}

func Test_ResultsCleaner_PurgesOnJobFulfilledEvent(t *testing.T) {
	matches := &mockMatchCleanup{}
	matches.On("RemoveForJob", mock.Anything, "job-1").Return(int64(3), nil).Once()

	bus := EventBus.New()
	cleaner, err := NewResultsCleaner(bus, matches, 30)
	require.NoError(t, err)
	defer cleaner.Stop()

	bus.Publish(events.JobFulfilledTopic, events.JobFulfilled{JobID: "job-1"})

	matches.AssertExpectations(t)
}
