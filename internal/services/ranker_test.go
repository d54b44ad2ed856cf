package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/kedarsprabhu/talentmatch/internal/domain/models"
	"github.com/kedarsprabhu/talentmatch/internal/repositories"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockJobs struct {
	mock.Mock
}

func (m *mockJobs) GetDescription(ctx context.Context, jobID string) (string, error) {
	args := m.Called(ctx, jobID)
	return args.String(0), args.Error(1)
}

type mockCandidates struct {
	mock.Mock
}

func (m *mockCandidates) List(ctx context.Context) ([]models.CandidateResume, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.CandidateResume), args.Error(1)
}

type mockMatches struct {
	mock.Mock
}

func (m *mockMatches) Upsert(ctx context.Context, results []models.MatchResult) error {
	return m.Called(ctx, results).Error(0)
}

type mockScorer struct {
	mock.Mock
}

func (m *mockScorer) Score(ctx context.Context, resumeText, jobDescription string) (models.MatchAnalysis, error) {
	args := m.Called(ctx, resumeText, jobDescription)
	return args.Get(0).(models.MatchAnalysis), args.Error(1)
}

const testJobID = "11111111-2222-3333-4444-555555555555"

func newTestRanker(t *testing.T, scorer matchScorer, jobs jobRepository,
	candidates candidateRepository, matches matchRepository) *Ranker {
	ranker, err := NewRanker(scorer, jobs, candidates, matches, 1, 0)
	require.NoError(t, err)
	return ranker
}

func resumes(n int) []models.CandidateResume {
	var out []models.CandidateResume
	for i := 0; i < n; i++ {
		out = append(out, models.CandidateResume{
			CandidateID: fmt.Sprintf("candidate-%d", i),
			ResumeText:  fmt.Sprintf("Candidate Number %d\nGo developer", i),
		})
	}
	return out
}

func Test_RankCandidates_UnknownJob_ScorerNeverInvoked(t *testing.T) {
	jobs := &mockJobs{}
	jobs.On("GetDescription", mock.Anything, testJobID).
		Return("", fmt.Errorf("%w: %q", repositories.ErrJobNotFound, testJobID))

	scorer := &mockScorer{}
	ranker := newTestRanker(t, scorer, jobs, &mockCandidates{}, &mockMatches{})

	outcome, err := ranker.RankCandidates(context.Background(), testJobID, 5)

	require.NoError(t, err)
	assert.Equal(t, models.RankingNoSuchJob, outcome.Status)
	scorer.AssertNotCalled(t, "Score", mock.Anything, mock.Anything, mock.Anything)
}

func Test_RankCandidates_InvalidJobID_ScorerNeverInvoked(t *testing.T) {
	jobs := &mockJobs{}
	jobs.On("GetDescription", mock.Anything, "garbage").
		Return("", fmt.Errorf("%w: %q", repositories.ErrInvalidJobID, "garbage"))

	scorer := &mockScorer{}
	ranker := newTestRanker(t, scorer, jobs, &mockCandidates{}, &mockMatches{})

	outcome, err := ranker.RankCandidates(context.Background(), "garbage", 5)

	require.NoError(t, err)
	assert.Equal(t, models.RankingNoSuchJob, outcome.Status)
	scorer.AssertNotCalled(t, "Score", mock.Anything, mock.Anything, mock.Anything)
}

func Test_RankCandidates_NoCandidates(t *testing.T) {
	jobs := &mockJobs{}
	jobs.On("GetDescription", mock.Anything, testJobID).Return("job description", nil)

	candidates := &mockCandidates{}
	candidates.On("List", mock.Anything).Return([]models.CandidateResume{}, nil)

	scorer := &mockScorer{}
	ranker := newTestRanker(t, scorer, jobs, candidates, &mockMatches{})

	outcome, err := ranker.RankCandidates(context.Background(), testJobID, 5)

	require.NoError(t, err)
	assert.Equal(t, models.RankingNoCandidates, outcome.Status)
	scorer.AssertNotCalled(t, "Score", mock.Anything, mock.Anything, mock.Anything)
}

func Test_RankCandidates_StoreFailureIsTerminal(t *testing.T) {
	jobs := &mockJobs{}
	jobs.On("GetDescription", mock.Anything, testJobID).Return("", errors.New("store unreachable"))

	ranker := newTestRanker(t, &mockScorer{}, jobs, &mockCandidates{}, &mockMatches{})

	_, err := ranker.RankCandidates(context.Background(), testJobID, 5)
	assert.Error(t, err)
}

func Test_RankCandidates_SortsByScoreDescending(t *testing.T) {
	jobs := &mockJobs{}
	jobs.On("GetDescription", mock.Anything, testJobID).Return("job description", nil)

	pool := resumes(3)
	candidates := &mockCandidates{}
	candidates.On("List", mock.Anything).Return(pool, nil)

	scorer := &mockScorer{}
	scorer.On("Score", mock.Anything, pool[0].ResumeText, mock.Anything).
		Return(models.MatchAnalysis{Summary: "low", MatchPercentage: 20}, nil)
	scorer.On("Score", mock.Anything, pool[1].ResumeText, mock.Anything).
		Return(models.MatchAnalysis{Summary: "high", MatchPercentage: 95}, nil)
	scorer.On("Score", mock.Anything, pool[2].ResumeText, mock.Anything).
		Return(models.MatchAnalysis{Summary: "mid", MatchPercentage: 60}, nil)

	ranker := newTestRanker(t, scorer, jobs, candidates, &mockMatches{})

	outcome, err := ranker.RankCandidates(context.Background(), testJobID, 2)

	require.NoError(t, err)
	assert.Equal(t, models.RankingRanked, outcome.Status)
	require.Len(t, outcome.All, 3)
	assert.Equal(t, "candidate-1", outcome.All[0].CandidateID)
	assert.Equal(t, "candidate-2", outcome.All[1].CandidateID)
	assert.Equal(t, "candidate-0", outcome.All[2].CandidateID)
	require.Len(t, outcome.Top, 2)
	assert.Equal(t, outcome.All[:2], outcome.Top)
	assert.Equal(t, "CANDIDATE NUMBER 1", outcome.All[0].CandidateName)
}

func Test_RankCandidates_TieBreakKeepsListingOrder(t *testing.T) {
	jobs := &mockJobs{}
	jobs.On("GetDescription", mock.Anything, testJobID).Return("job description", nil)

	pool := resumes(4)
	candidates := &mockCandidates{}
	candidates.On("List", mock.Anything).Return(pool, nil)

	scorer := &mockScorer{}
	for _, resume := range pool {
		scorer.On("Score", mock.Anything, resume.ResumeText, mock.Anything).
			Return(models.MatchAnalysis{Summary: "same", MatchPercentage: 50}, nil)
	}

	// parallel completion order must not leak into the result order
	ranker, err := NewRanker(scorer, jobs, candidates, &mockMatches{}, 4, 0)
	require.NoError(t, err)

	outcome, err := ranker.RankCandidates(context.Background(), testJobID, 4)

	require.NoError(t, err)
	require.Len(t, outcome.All, 4)
	for i, match := range outcome.All {
		assert.Equal(t, fmt.Sprintf("candidate-%d", i), match.CandidateID)
	}
}

func Test_RankCandidates_OneFailureDoesNotAbortRun(t *testing.T) {
	jobs := &mockJobs{}
	jobs.On("GetDescription", mock.Anything, testJobID).Return("job description", nil)

	pool := resumes(3)
	candidates := &mockCandidates{}
	candidates.On("List", mock.Anything).Return(pool, nil)

	scorer := &mockScorer{}
	scorer.On("Score", mock.Anything, pool[0].ResumeText, mock.Anything).
		Return(models.MatchAnalysis{Summary: "ok", MatchPercentage: 70}, nil)
	scorer.On("Score", mock.Anything, pool[1].ResumeText, mock.Anything).
		Return(models.MatchAnalysis{}, &ScoringError{Reason: scoringReasonParse, Err: errors.New("bad response")})
	scorer.On("Score", mock.Anything, pool[2].ResumeText, mock.Anything).
		Return(models.MatchAnalysis{Summary: "ok", MatchPercentage: 55}, nil)

	ranker := newTestRanker(t, scorer, jobs, candidates, &mockMatches{})

	outcome, err := ranker.RankCandidates(context.Background(), testJobID, 5)

	require.NoError(t, err)
	assert.Equal(t, models.RankingRanked, outcome.Status)
	assert.Len(t, outcome.All, 2)
	assert.Equal(t, 1, outcome.Skipped)
	for _, match := range outcome.All {
		assert.NotEqual(t, "candidate-1", match.CandidateID)
	}
}

func Test_RankCandidates_TopNClampedToPopulation(t *testing.T) {
	jobs := &mockJobs{}
	jobs.On("GetDescription", mock.Anything, testJobID).Return("job description", nil)

	pool := resumes(2)
	candidates := &mockCandidates{}
	candidates.On("List", mock.Anything).Return(pool, nil)

	scorer := &mockScorer{}
	for _, resume := range pool {
		scorer.On("Score", mock.Anything, resume.ResumeText, mock.Anything).
			Return(models.MatchAnalysis{Summary: "ok", MatchPercentage: 50}, nil)
	}

	ranker := newTestRanker(t, scorer, jobs, candidates, &mockMatches{})

	outcome, err := ranker.RankCandidates(context.Background(), testJobID, 20)

	require.NoError(t, err)
	assert.Len(t, outcome.Top, 2)
}

func Test_RankCandidates_RejectsNonPositiveTopN(t *testing.T) {
	ranker := newTestRanker(t, &mockScorer{}, &mockJobs{}, &mockCandidates{}, &mockMatches{})

	_, err := ranker.RankCandidates(context.Background(), testJobID, 0)
	assert.Error(t, err)
}

func Test_RankCandidates_ProgressCallbackSeesEveryCandidate(t *testing.T) {
	jobs := &mockJobs{}
	jobs.On("GetDescription", mock.Anything, testJobID).Return("job description", nil)

	pool := resumes(3)
	candidates := &mockCandidates{}
	candidates.On("List", mock.Anything).Return(pool, nil)

	scorer := &mockScorer{}
	scorer.On("Score", mock.Anything, pool[0].ResumeText, mock.Anything).
		Return(models.MatchAnalysis{Summary: "ok", MatchPercentage: 70}, nil)
	scorer.On("Score", mock.Anything, pool[1].ResumeText, mock.Anything).
		Return(models.MatchAnalysis{}, &ScoringError{Reason: scoringReasonAiApi, Err: errors.New("boom")})
	scorer.On("Score", mock.Anything, pool[2].ResumeText, mock.Anything).
		Return(models.MatchAnalysis{Summary: "ok", MatchPercentage: 55}, nil)

	var reported []int
	var skippedReports int
	ranker := newTestRanker(t, scorer, jobs, candidates, &mockMatches{}).
		WithProgressCallback(func(done, total int, match *models.CandidateMatch) {
			reported = append(reported, done)
			assert.Equal(t, 3, total)
			if match == nil {
				skippedReports++
			}
		})

	_, err := ranker.RankCandidates(context.Background(), testJobID, 5)

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, reported)
	assert.Equal(t, 1, skippedReports)
}

func Test_RankCandidates_ScoreCacheAvoidsRepeatCalls(t *testing.T) {
	jobs := &mockJobs{}
	jobs.On("GetDescription", mock.Anything, testJobID).Return("job description", nil)

	pool := resumes(1)
	candidates := &mockCandidates{}
	candidates.On("List", mock.Anything).Return(pool, nil)

	scorer := &mockScorer{}
	scorer.On("Score", mock.Anything, pool[0].ResumeText, mock.Anything).
		Return(models.MatchAnalysis{Summary: "ok", MatchPercentage: 80}, nil).Once()

	ranker, err := NewRanker(scorer, jobs, candidates, &mockMatches{}, 1, 10*time.Minute)
	require.NoError(t, err)

	_, err = ranker.RankCandidates(context.Background(), testJobID, 5)
	require.NoError(t, err)
	outcome, err := ranker.RankCandidates(context.Background(), testJobID, 5)
	require.NoError(t, err)

	require.Len(t, outcome.All, 1)
	assert.Equal(t, 80.0, outcome.All[0].MatchPercentage)
	scorer.AssertExpectations(t)
}

func Test_PersistRanking_BuildsUpsertBatch(t *testing.T) {
	matches := &mockMatches{}
	matches.On("Upsert", mock.Anything, mock.MatchedBy(func(results []models.MatchResult) bool {
		return len(results) == 2 &&
			results[0].JobID == testJobID &&
			results[0].CandidateID == "candidate-0" &&
			results[0].MatchScore == 91.0 &&
			results[1].CandidateID == "candidate-1"
	})).Return(nil).Once()

	ranker := newTestRanker(t, &mockScorer{}, &mockJobs{}, &mockCandidates{}, matches)

	err := ranker.PersistRanking(context.Background(), testJobID, []models.CandidateMatch{
		{CandidateID: "candidate-0", MatchPercentage: 91.0, Summary: "great"},
		{CandidateID: "candidate-1", MatchPercentage: 40.0, Summary: "weak"},
	})

	assert.NoError(t, err)
	matches.AssertExpectations(t)
}

func Test_PersistRanking_SurfacesStoreFailure(t *testing.T) {
	matches := &mockMatches{}
	matches.On("Upsert", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

	ranker := newTestRanker(t, &mockScorer{}, &mockJobs{}, &mockCandidates{}, matches)

	err := ranker.PersistRanking(context.Background(), testJobID, []models.CandidateMatch{
		{CandidateID: "candidate-0", MatchPercentage: 50},
	})
	assert.Error(t, err)
}
