package repositories

import (
	"context"
	"github.com/google/uuid"
	"github.com/kedarsprabhu/talentmatch/internal/domain/models"
	"gorm.io/gorm"
)

type Candidates struct {
	db *gorm.DB
}

func NewCandidatesRepository(db *gorm.DB) *Candidates {
	return &Candidates{db: db}
}

// List returns every stored resume in stable candidate_id order. An empty
// result is not an error.
func (repo *Candidates) List(ctx context.Context) ([]models.CandidateResume, error) {
	var resumes []models.CandidateResume
	if err := repo.db.WithContext(ctx).
		Order("candidate_id asc").
		Find(&resumes).Error; err != nil {
		return nil, err
	}
	return resumes, nil
}

// Add stores a resume under a freshly generated candidate id and returns it.
func (repo *Candidates) Add(ctx context.Context, resumeText string) (string, error) {
	resume := models.CandidateResume{
		CandidateID: uuid.NewString(),
		ResumeText:  resumeText,
	}
	if err := repo.db.WithContext(ctx).Create(&resume).Error; err != nil {
		return "", err
	}
	return resume.CandidateID, nil
}

func (repo *Candidates) GetByID(ctx context.Context, candidateID string) (*models.CandidateResume, error) {
	var resume models.CandidateResume
	if err := repo.db.WithContext(ctx).
		First(&resume, "candidate_id = ?", candidateID).Error; err != nil {
		return nil, err
	}
	return &resume, nil
}
