package metrics

import (
	"fmt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"net/http"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "talentmatch_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	RankingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "talentmatch_ranking_duration_seconds",
			Help:    "Duration of each candidate ranking run in seconds.",
			Buckets: []float64{1, 5, 15, 60, 300, 900},
		},
	)
	ScoringStepDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "talentmatch_scoring_step_duration_seconds",
			Help:       "Duration of each step in the candidate scoring process.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"step"},
	)
	ScoredCandidatesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "talentmatch_candidates_scored_total",
			Help: "Total number of candidates scored successfully.",
		},
	)
	SkippedCandidatesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "talentmatch_candidates_skipped_total",
			Help: "Total number of candidates skipped because scoring failed.",
		},
	)
)

func StartMetricsServer(port int) {

	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(RankingDuration)
	prometheus.MustRegister(ScoringStepDuration)
	prometheus.MustRegister(ScoredCandidatesCounter)
	prometheus.MustRegister(SkippedCandidatesCounter)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", port), mux))
	}()
}
