package models

import (
	"strings"
	"time"
)

// UnnamedCandidate is the display label yielded when a resume carries no
// usable first line.
const UnnamedCandidate = "UNNAMED CANDIDATE"

type CandidateResume struct {
	CandidateID string `gorm:"primaryKey;column:candidate_id" json:"candidate_id"`
	ResumeText  string `gorm:"column:resume_text" json:"resume_text"`
	CreatedAt   time.Time
}

func (CandidateResume) TableName() string {
	return "candidate_resumes"
}

// DeriveCandidateName builds a display label from raw resume text: up to the
// first three whitespace-separated tokens of the first line, upper-cased.
// It is a display heuristic only and may collide between candidates.
func DeriveCandidateName(resumeText string) string {
	firstLine, _, _ := strings.Cut(resumeText, "\n")

	words := strings.Fields(firstLine)
	if len(words) == 0 {
		return UnnamedCandidate
	}
	if len(words) > 3 {
		words = words[:3]
	}
	return strings.ToUpper(strings.Join(words, " "))
}
