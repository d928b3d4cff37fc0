package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	cycleTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fastfit",
		Subsystem: "fasting",
		Name:      "cycle_transitions_total",
		Help:      "Fasting cycle transitions applied, by transition.",
	}, []string{"transition"})
	cyclesClosed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fastfit",
		Subsystem: "fasting",
		Name:      "cycles_closed_total",
		Help:      "Fasting cycles that reached a terminal state, by outcome.",
	}, []string{"outcome"})
	workoutsGenerated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fastfit",
		Subsystem: "workouts",
		Name:      "generated_total",
		Help:      "Daily workouts generated, by focus area.",
	}, []string{"focus"})
	reconcileDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fastfit",
		Subsystem: "reconcile",
		Name:      "duration_seconds",
		Help:      "Wall time of one reconcile pass over all users.",
		Buckets:   prometheus.DefBuckets,
	})
	lastReconcileGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fastfit",
		Subsystem: "reconcile",
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix timestamp of the most recent reconcile pass that finished without errors.",
	})
)

func init() {
	prometheus.MustRegister(cycleTransitions, cyclesClosed, workoutsGenerated, reconcileDuration, lastReconcileGauge)
}

func RecordCycleTransition(transition string) {
	cycleTransitions.WithLabelValues(transition).Inc()
}

func RecordCycleClosed(outcome string) {
	cyclesClosed.WithLabelValues(outcome).Inc()
}

func RecordWorkoutGenerated(focus string) {
	workoutsGenerated.WithLabelValues(focus).Inc()
}

// RecordReconcile observes one pass. The success watermark only moves when failed is zero.
func RecordReconcile(startedAt time.Time, finishedAt time.Time, failed int) {
	reconcileDuration.Observe(finishedAt.Sub(startedAt).Seconds())
	if failed == 0 && !finishedAt.IsZero() {
		lastReconcileGauge.Set(float64(finishedAt.Unix()))
	}
}
