package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"sync"
	"time"

	"github.com/kedarsprabhu/talentmatch/internal/domain/models"
	"github.com/kedarsprabhu/talentmatch/internal/logger"
	"github.com/kedarsprabhu/talentmatch/internal/metrics"
	"github.com/kedarsprabhu/talentmatch/internal/repositories"
	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type jobRepository interface {
	GetDescription(ctx context.Context, jobID string) (string, error)
}

type candidateRepository interface {
	List(ctx context.Context) ([]models.CandidateResume, error)
}

type matchRepository interface {
	Upsert(ctx context.Context, results []models.MatchResult) error
}

type matchScorer interface {
	Score(ctx context.Context, resumeText, jobDescription string) (models.MatchAnalysis, error)
}

// ProgressFunc reports one completed candidate during a ranking run. match
// is nil when the candidate was skipped because scoring failed.
type ProgressFunc func(done, total int, match *models.CandidateMatch)

// Ranker is the candidate-ranking orchestrator: it loads a job and all
// stored candidates, scores each candidate independently, sorts by match
// percentage and returns the outcome. Persisting an outcome is a separate,
// explicit call so a caller can review before committing.
type Ranker struct {
	scorer      matchScorer
	jobs        jobRepository
	candidates  candidateRepository
	matches     matchRepository
	cache       *gocache.Cache
	maxParallel int
	onProgress  ProgressFunc
}

func NewRanker(scorer matchScorer, jobs jobRepository, candidates candidateRepository,
	matches matchRepository, maxParallel int, cacheTTL time.Duration) (*Ranker, error) {

	if maxParallel < 1 {
		return nil, errors.New("max parallel scoring must be at least 1")
	}

	r := &Ranker{
		scorer:      scorer,
		jobs:        jobs,
		candidates:  candidates,
		matches:     matches,
		maxParallel: maxParallel,
	}
	if cacheTTL > 0 {
		r.cache = gocache.New(cacheTTL, 2*cacheTTL)
	}
	return r, nil
}

// WithProgressCallback registers an optional per-candidate observer.
func (r *Ranker) WithProgressCallback(fn ProgressFunc) *Ranker {
	r.onProgress = fn
	return r
}

// RankCandidates scores every stored candidate against the job and returns
// the outcome sorted by match percentage descending; candidates with equal
// percentages keep their original listing order. topN is clamped to the
// number of scored candidates. A failed scoring call skips that candidate
// and never aborts the run.
func (r *Ranker) RankCandidates(ctx context.Context, jobID string, topN int) (*models.RankingOutcome, error) {

	if topN < 1 {
		return nil, errors.New("topN must be a positive integer")
	}

	start := time.Now()
	defer func() {
		metrics.RankingDuration.Observe(time.Since(start).Seconds())
	}()

	description, err := r.jobs.GetDescription(ctx, jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrInvalidJobID) || errors.Is(err, repositories.ErrJobNotFound) {
			log.Warnf("ranking requested for unknown job: %v", err)
			return &models.RankingOutcome{Status: models.RankingNoSuchJob}, nil
		}
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to get job description: %v", err)
		return nil, err
	}

	candidates, err := r.candidates.List(ctx)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to list candidates: %v", err)
		return nil, err
	}
	if len(candidates) == 0 {
		return &models.RankingOutcome{Status: models.RankingNoCandidates}, nil
	}

	matches, skipped := r.scoreAll(ctx, jobID, description, candidates)

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchPercentage > matches[j].MatchPercentage
	})

	if topN > len(matches) {
		topN = len(matches)
	}

	log.Infof("ranked %v candidates for job %v (%v skipped) in %v",
		len(matches), jobID, skipped, time.Since(start))

	return &models.RankingOutcome{
		Status:  models.RankingRanked,
		All:     matches,
		Top:     matches[:topN],
		Skipped: skipped,
	}, nil
}

// scoreAll fans candidate scoring out over a bounded worker pool. Results
// are collected by original candidate index so the eventual stable sort
// tie-breaks on listing order regardless of completion order.
func (r *Ranker) scoreAll(ctx context.Context, jobID, description string,
	candidates []models.CandidateResume) ([]models.CandidateMatch, int) {

	results := make([]*models.CandidateMatch, len(candidates))

	var wg sync.WaitGroup
	slots := make(chan struct{}, r.maxParallel)

	var progressMu sync.Mutex
	done := 0
	reportProgress := func(match *models.CandidateMatch) {
		progressMu.Lock()
		defer progressMu.Unlock()
		done++
		if r.onProgress != nil {
			r.onProgress(done, len(candidates), match)
		}
	}

	for i, candidate := range candidates {
		wg.Add(1)
		slots <- struct{}{}
		go func(i int, candidate models.CandidateResume) {
			defer wg.Done()
			defer func() { <-slots }()

			match, err := r.scoreCandidate(ctx, jobID, description, candidate)
			if err == nil {
				results[i] = match
			}
			reportProgress(results[i])
		}(i, candidate)
	}
	wg.Wait()

	var matches []models.CandidateMatch
	for _, result := range results {
		if result != nil {
			matches = append(matches, *result)
		}
	}
	return matches, len(candidates) - len(matches)
}

func (r *Ranker) scoreCandidate(ctx context.Context, jobID, description string,
	candidate models.CandidateResume) (*models.CandidateMatch, error) {

	var analysis models.MatchAnalysis

	cacheID := scoreCacheID(jobID, candidate.ResumeText)
	if cached, found := r.cacheGet(cacheID); found {
		analysis = cached
	} else {
		start := time.Now()
		var err error
		analysis, err = r.scorer.Score(ctx, candidate.ResumeText, description)
		metrics.ScoringStepDuration.WithLabelValues("ai_scoring").Observe(time.Since(start).Seconds())

		if err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeAiApi).
				Warnf("skipping candidate %v: %v", candidate.CandidateID, err)
			metrics.SkippedCandidatesCounter.Inc()
			return nil, err
		}

		metrics.ScoredCandidatesCounter.Inc()
		r.cacheAdd(cacheID, analysis)
	}

	return &models.CandidateMatch{
		CandidateID:     candidate.CandidateID,
		CandidateName:   models.DeriveCandidateName(candidate.ResumeText),
		ResumeText:      candidate.ResumeText,
		MatchPercentage: analysis.MatchPercentage,
		Summary:         analysis.Summary,
	}, nil
}

// PersistRanking writes the given matches for the job as one idempotent
// batch. It is deliberately separate from RankCandidates: rank, review,
// then save.
func (r *Ranker) PersistRanking(ctx context.Context, jobID string, matches []models.CandidateMatch) error {

	now := time.Now()
	results := make([]models.MatchResult, len(matches))
	for i, match := range matches {
		results[i] = models.MatchResult{
			JobID:        jobID,
			CandidateID:  match.CandidateID,
			MatchScore:   match.MatchPercentage,
			MatchSummary: match.Summary,
			CreatedAt:    now,
		}
	}

	if err := r.matches.Upsert(ctx, results); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to persist ranking for job %v: %v", jobID, err)
		return errors.Wrap(err, "persist ranking")
	}

	log.Infof("persisted %v match results for job %v", len(results), jobID)
	return nil
}

func (r *Ranker) cacheGet(cacheID string) (models.MatchAnalysis, bool) {
	if r.cache == nil {
		return models.MatchAnalysis{}, false
	}
	cached, found := r.cache.Get(cacheID)
	if !found {
		return models.MatchAnalysis{}, false
	}
	return cached.(models.MatchAnalysis), true
}

func (r *Ranker) cacheAdd(cacheID string, analysis models.MatchAnalysis) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Add(cacheID, analysis, gocache.DefaultExpiration); err != nil {
		log.Errorf("failed to cache match analysis: %v", err)
	}
}

func scoreCacheID(jobID, resumeText string) string {
	resumeHash := sha256.Sum256([]byte(resumeText))
	return jobID + hex.EncodeToString(resumeHash[:])
}
