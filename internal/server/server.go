// Package server exposes the ranking core over a JSON HTTP API. It is the
// presentation shell: upload and scrape plumbing lives here, never in the
// ranking services.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/asaskevich/EventBus"
	"github.com/gin-gonic/gin"
	"github.com/kedarsprabhu/talentmatch/internal/config"
	"github.com/kedarsprabhu/talentmatch/internal/repositories"
	"github.com/kedarsprabhu/talentmatch/internal/services"
)

type Server struct {
	httpServer *http.Server
	ranker     *services.Ranker
	jobs       *repositories.Jobs
	candidates *repositories.Candidates
	matches    *repositories.Matches
	bus        EventBus.Bus
}

func New(cfg config.ServerConfig, ranker *services.Ranker, jobs *repositories.Jobs,
	candidates *repositories.Candidates, matches *repositories.Matches, bus EventBus.Bus) *Server {

	s := &Server{
		ranker:     ranker,
		jobs:       jobs,
		candidates: candidates,
		matches:    matches,
		bus:        bus,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	s.registerRoutes(engine)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: engine,
	}
	return s
}

func (s *Server) registerRoutes(engine *gin.Engine) {
	v1 := engine.Group("/api/v1")

	v1.POST("/resumes", s.uploadResume)
	v1.POST("/jobs", s.createJob)
	v1.GET("/jobs", s.listJobs)
	v1.PATCH("/jobs/:id/fulfilled", s.setJobFulfilled)
	v1.POST("/jobs/:id/ranking", s.rankCandidates)
	v1.PUT("/jobs/:id/ranking", s.persistRanking)
	v1.GET("/jobs/:id/ranking", s.getRanking)
}

func (s *Server) Run() error {
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
