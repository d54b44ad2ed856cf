package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kedarsprabhu/talentmatch/internal/domain/models"
)

type aiClient interface {
	GenerateResponse(ctx context.Context, request string) (string, error)
}

// ScoringError marks a failed scoring attempt for one candidate. It is
// non-fatal to a ranking run: the orchestrator skips the candidate and
// continues.
type ScoringError struct {
	Reason string
	Err    error
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("scoring failed (%s): %v", e.Reason, e.Err)
}

func (e *ScoringError) Unwrap() error {
	return e.Err
}

const (
	scoringReasonAiApi    = "ai_api"
	scoringReasonTimeout  = "timeout"
	scoringReasonParse    = "parse"
	scoringReasonOutRange = "out_of_range"
)

// MatchScorer turns one (resume, job description) pair into a summary and a
// match percentage via a single model call. It is stateless; only the shape
// of the result is deterministic, not its content.
type MatchScorer struct {
	ai aiClient
}

func NewMatchScorer(ai aiClient) *MatchScorer {
	return &MatchScorer{ai: ai}
}

func (s *MatchScorer) Score(ctx context.Context, resumeText, jobDescription string) (models.MatchAnalysis, error) {

	response, err := s.ai.GenerateResponse(ctx, matchRequest(resumeText, jobDescription))
	if err != nil {
		reason := scoringReasonAiApi
		if errors.Is(err, context.DeadlineExceeded) {
			reason = scoringReasonTimeout
		}
		return models.MatchAnalysis{}, &ScoringError{Reason: reason, Err: err}
	}

	analysis, err := parseMatchResponse(response)
	if err != nil {
		return models.MatchAnalysis{}, err
	}
	return analysis, nil
}

func matchRequest(resumeText, jobDescription string) string {
	var sb strings.Builder
	sb.WriteString("As a Talent Acquisition AI, analyze how well this candidate matches the given job description.\n\n")
	sb.WriteString("**Candidate Resume:**\n")
	sb.WriteString(resumeText)
	sb.WriteString("\n\n**Job Description:**\n")
	sb.WriteString(jobDescription)
	sb.WriteString("\n\nBased on the candidate's skills, experience, and qualifications compared to the job requirements, " +
		"provide a concise summary (3-5 sentences) and calculate a match percentage (0-100%).\n\n" +
		"Return a single JSON object of the form {\"summary\": string, \"match_percentage\": number}. " +
		"Do not include explanations, markdown, or text before or after the JSON.")
	return sb.String()
}

func parseMatchResponse(raw string) (models.MatchAnalysis, error) {

	cleaned := extractJSON(raw)

	var data struct {
		Summary         string `json:"summary"`
		MatchPercentage any    `json:"match_percentage"`
	}
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return models.MatchAnalysis{}, &ScoringError{Reason: scoringReasonParse, Err: err}
	}

	percentage := coerceFloat(data.MatchPercentage)
	if math.IsNaN(percentage) {
		return models.MatchAnalysis{}, &ScoringError{
			Reason: scoringReasonParse,
			Err:    fmt.Errorf("match_percentage %v is not a number", data.MatchPercentage),
		}
	}
	if percentage < 0 || percentage > 100 {
		return models.MatchAnalysis{}, &ScoringError{
			Reason: scoringReasonOutRange,
			Err:    fmt.Errorf("match_percentage %v is outside [0,100]", percentage),
		}
	}

	return models.MatchAnalysis{
		Summary:         strings.TrimSpace(data.Summary),
		MatchPercentage: percentage,
	}, nil
}

// extractJSON drops markdown code fences some models wrap around JSON output.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(strings.Trim(raw, "`"))
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(val), "%"), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}
