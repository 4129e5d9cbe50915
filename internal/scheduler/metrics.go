package scheduler

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "adlens",
		Subsystem: "scheduler",
		Name:      "job_runs_total",
		Help:      "Completed scheduler job runs by job and result.",
	}, []string{"job", "result"})

	jobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "adlens",
		Subsystem: "scheduler",
		Name:      "job_duration_seconds",
		Help:      "Scheduler job wall time.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"job"})

	rejectedDeltas = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "adlens",
		Subsystem: "scheduler",
		Name:      "rejected_delta_notifications_total",
		Help:      "Notifications emitted for increased rejected commission.",
	})

	syncRunsPruned = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "adlens",
		Subsystem: "scheduler",
		Name:      "sync_runs_pruned_total",
		Help:      "Sync run rows removed by retention.",
	})
)

func observeJob(job string, err error, elapsed time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	jobRuns.WithLabelValues(job, result).Inc()
	jobDuration.WithLabelValues(job).Observe(elapsed.Seconds())
}
