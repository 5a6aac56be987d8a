package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/julianstephens/cadence/internal/models"
)

var (
	PassCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadence_passes_total",
			Help: "Total number of engine passes by kind and outcome",
		},
		[]string{"pass", "outcome"},
	)

	PassDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "cadence_pass_duration_seconds",
			Help: "Engine pass duration in seconds",
		},
		[]string{"pass"},
	)

	OccurrencesExpanded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cadence_occurrences_expanded_total",
			Help: "Total number of template occurrences written by expansion",
		},
	)

	Deliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadence_deliveries_total",
			Help: "Total number of delivery requests by class and outcome",
		},
		[]string{"class", "outcome"},
	)

	Suppressed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadence_suppressed_total",
			Help: "Total number of candidates held back by reason",
		},
		[]string{"reason"},
	)

	CurrentMode = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cadence_mode",
			Help: "1 for the currently active mode, 0 otherwise",
		},
		[]string{"mode"},
	)
)

// ObservePass records the duration and outcome of a pass started at start.
func ObservePass(pass string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	PassCount.WithLabelValues(pass, outcome).Inc()
	PassDuration.WithLabelValues(pass).Observe(time.Since(start).Seconds())
}

// SetMode flips the mode gauge so exactly one mode reads 1.
func SetMode(mode models.Mode) {
	for _, m := range []models.Mode{models.ModeNormal, models.ModeBusy, models.ModeLowMood, models.ModeRecovery} {
		v := 0.0
		if m == mode {
			v = 1
		}
		CurrentMode.WithLabelValues(string(m)).Set(v)
	}
}
