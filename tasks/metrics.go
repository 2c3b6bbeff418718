package tasks

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var jobsEnqueued = promauto.NewCounter(prometheus.CounterOpts{
	Name: "moderation_jobs_enqueued_total",
	Help: "The total number of moderation jobs enqueued",
})

var jobsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_jobs_processed_total",
	Help: "The total number of moderation job attempts processed",
}, []string{"runner_name"})

var jobsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_jobs_failed_total",
	Help: "The total number of moderation job attempts that failed",
}, []string{"runner_name"})

var jobsExhausted = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_jobs_exhausted_total",
	Help: "The total number of moderation jobs abandoned after exhausting retries",
}, []string{"runner_name"})
