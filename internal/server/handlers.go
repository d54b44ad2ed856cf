package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kedarsprabhu/talentmatch/internal/domain/models"
	"github.com/kedarsprabhu/talentmatch/internal/events"
	"github.com/kedarsprabhu/talentmatch/internal/extract"
	"github.com/kedarsprabhu/talentmatch/internal/logger"
	"github.com/kedarsprabhu/talentmatch/internal/repositories"
	"github.com/kedarsprabhu/talentmatch/internal/scrape"
	log "github.com/sirupsen/logrus"
)

const defaultTopN = 5

type resumeRequest struct {
	ResumeText string `json:"resume_text"`
}

type jobRequest struct {
	Description string `json:"description"`
	URL         string `json:"url"`
}

type persistRequest struct {
	Matches []models.CandidateMatch `json:"matches"`
}

func (s *Server) uploadResume(c *gin.Context) {
	text, ok := s.resumeText(c)
	if !ok {
		return
	}

	if strings.TrimSpace(text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resume text is empty"})
		return
	}

	id, err := s.candidates.Add(c.Request.Context(), text)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to store resume: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store resume"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"candidate_id":   id,
		"candidate_name": models.DeriveCandidateName(text),
	})
}

func (s *Server) resumeText(c *gin.Context) (string, bool) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
			return "", false
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
			return "", false
		}
		defer file.Close()

		text, err := extract.FromUpload(file, fileHeader.Filename)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return "", false
		}
		return text, true
	}

	var req resumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return "", false
	}
	return req.ResumeText, true
}

func (s *Server) createJob(c *gin.Context) {
	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	description := req.Description
	if description == "" && req.URL != "" {
		scraped, err := scrape.JobPosting(req.URL)
		if err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeScrape).Errorf("failed to scrape %s: %v", req.URL, err)
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		description = scraped
	}

	if strings.TrimSpace(description) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "job description is empty"})
		return
	}

	id, err := s.jobs.Add(c.Request.Context(), description)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to store job: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store job"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"job_id": id})
}

func (s *Server) listJobs(c *gin.Context) {
	jobs, err := s.jobs.List(c.Request.Context())
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to list jobs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list jobs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

func (s *Server) setJobFulfilled(c *gin.Context) {
	jobID := c.Param("id")

	if err := s.jobs.SetFulfilled(c.Request.Context(), jobID, true); err != nil {
		s.respondJobError(c, jobID, err)
		return
	}

	s.bus.Publish(events.JobFulfilledTopic, events.JobFulfilled{JobID: jobID})
	c.Status(http.StatusNoContent)
}

func (s *Server) rankCandidates(c *gin.Context) {
	jobID := c.Param("id")

	topN := defaultTopN
	if raw := c.Query("top_n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "top_n must be a positive integer"})
			return
		}
		topN = parsed
	}

	outcome, err := s.ranker.RankCandidates(c.Request.Context(), jobID, topN)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ranking failed"})
		return
	}

	if outcome.Status == models.RankingNoSuchJob {
		if _, err := uuid.Parse(jobID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id " + jobID})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "no job found with id " + jobID})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  outcome.Status,
		"all":     outcome.All,
		"top":     outcome.Top,
		"skipped": outcome.Skipped,
	})
}

func (s *Server) persistRanking(c *gin.Context) {
	jobID := c.Param("id")

	var req persistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if _, err := s.jobs.GetDescription(c.Request.Context(), jobID); err != nil {
		s.respondJobError(c, jobID, err)
		return
	}

	if err := s.ranker.PersistRanking(c.Request.Context(), jobID, req.Matches); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to persist ranking: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist ranking"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"persisted": len(req.Matches)})
}

func (s *Server) getRanking(c *gin.Context) {
	jobID := c.Param("id")

	if _, err := s.jobs.GetDescription(c.Request.Context(), jobID); err != nil {
		s.respondJobError(c, jobID, err)
		return
	}

	results, err := s.matches.GetByJob(c.Request.Context(), jobID)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to load ranking: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load ranking"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (s *Server) respondJobError(c *gin.Context, jobID string, err error) {
	switch {
	case errors.Is(err, repositories.ErrInvalidJobID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id " + jobID})
	case errors.Is(err, repositories.ErrJobNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "no job found with id " + jobID})
	default:
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("job lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
