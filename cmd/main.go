package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/kedarsprabhu/talentmatch/internal/clients/gemini"
	"github.com/kedarsprabhu/talentmatch/internal/config"
	"github.com/kedarsprabhu/talentmatch/internal/logger"
	"github.com/kedarsprabhu/talentmatch/internal/metrics"
	"github.com/kedarsprabhu/talentmatch/internal/repositories"
	"github.com/kedarsprabhu/talentmatch/internal/server"
	"github.com/kedarsprabhu/talentmatch/internal/services"
	log "github.com/sirupsen/logrus"
)

func newRanker(ctx context.Context, cfg *config.Config, jobs *repositories.Jobs,
	candidates *repositories.Candidates, matches *repositories.Matches) *services.Ranker {

	aiClient, err := gemini.NewClient(ctx, cfg.AI.Key, gemini.Model(cfg.AI.Model))
	if err != nil {
		log.Fatalf("can't create AI client: %v", err)
	}
	aiClient.SetMinuteRateLimit(cfg.AI.MaxRequestsPerMinute)
	aiClient.SetDayRateLimit(cfg.AI.MaxRequestsPerDay)
	aiClient.SetRequestTimeout(cfg.AI.RequestTimeout)

	scorer := services.NewMatchScorer(aiClient)

	ranker, err := services.NewRanker(scorer, jobs, candidates, matches,
		cfg.AI.MaxParallelScoring, cfg.AI.CacheTTL)
	if err != nil {
		log.Fatalf("can't create ranker: %v", err)
	}
	return ranker
}

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	metrics.StartMetricsServer(cfg.Server.MetricsPort)

	dbContext, err := repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		log.Fatalf("can't create db context: %v", err)
	}
	defer dbContext.Close()

	err = dbContext.Migrate()
	if err != nil {
		log.Fatalf("can't migrate db context: %v", err)
	}

	jobs := repositories.NewJobsRepository(dbContext.DB)
	candidates := repositories.NewCandidatesRepository(dbContext.DB)
	matches := repositories.NewMatchesRepository(dbContext.DB)

	bus := EventBus.New()

	ranker := newRanker(ctx, cfg, jobs, candidates, matches)

	cleaner, err := services.NewResultsCleaner(bus, matches, cfg.Cleaner.RetentionDays)
	if err != nil {
		log.Fatalf("can't create results cleaner: %v", err)
	}
	defer cleaner.Stop()

	srv := server.New(cfg.Server, ranker, jobs, candidates, matches, bus)
	go func() {
		if err := srv.Run(); err != nil {
			log.Fatalf("server stopped: %v", err)
		}
	}()
	log.Infof("listening on port %d", cfg.Server.Port)

	<-ctx.Done()
	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Errorf("server shutdown: %v", err)
	}
}
