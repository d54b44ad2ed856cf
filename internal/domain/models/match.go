package models

import "time"

// MatchResult is the persisted score of one candidate against one job.
// The composite primary key makes repeated saves overwrite instead of
// duplicating rows.
type MatchResult struct {
	JobID        string  `gorm:"primaryKey;column:job_id" json:"job_id"`
	CandidateID  string  `gorm:"primaryKey;column:candidate_id" json:"candidate_id"`
	MatchScore   float64 `gorm:"column:match_score" json:"match_score"`
	MatchSummary string  `gorm:"column:match_summary" json:"match_summary"`
	CreatedAt    time.Time
}

func (MatchResult) TableName() string {
	return "job_candidate_match"
}

// MatchAnalysis is the parsed output of a single scoring call.
type MatchAnalysis struct {
	Summary         string  `json:"summary"`
	MatchPercentage float64 `json:"match_percentage"`
}

// CandidateMatch is the transient per-candidate unit produced by a ranking
// run. CandidateName is derived for display and never stored.
type CandidateMatch struct {
	CandidateID     string  `json:"candidate_id"`
	CandidateName   string  `json:"candidate_name"`
	ResumeText      string  `json:"resume_text"`
	MatchPercentage float64 `json:"match_percentage"`
	Summary         string  `json:"summary"`
}

type RankingStatus string

const (
	RankingNoSuchJob    RankingStatus = "no_such_job"
	RankingNoCandidates RankingStatus = "no_candidates"
	RankingRanked       RankingStatus = "ranked"
)

// RankingOutcome is the full result of one ranking run. Each run returns an
// independent value; nothing is shared between runs.
type RankingOutcome struct {
	Status RankingStatus `json:"status"`
	// All holds every successfully scored candidate, ordered by match
	// percentage descending; equal scores keep the candidate listing order.
	All []CandidateMatch `json:"all,omitempty"`
	// Top is the first min(topN, len(All)) entries of All.
	Top []CandidateMatch `json:"top,omitempty"`
	// Skipped counts candidates excluded because their scoring call failed.
	Skipped int `json:"skipped"`
}
