package moderation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "moderation_requests_total",
	Help: "Total number of moderation runs started",
})

var decisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_decisions_total",
	Help: "Moderation decisions, by final decision",
}, []string{"decision"})

var runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name: "moderation_duration_seconds",
	Help: "Time spent on one moderation run",
})

var signalErrorCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_signal_errors",
	Help: "Number of signal provider failures which degraded to a default",
}, []string{"signal"})

var canarySelectedCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_canary_selected",
	Help: "Text model selections, by chosen model version",
}, []string{"model"})

var webhookCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_webhook_count",
	Help: "Number of webhook deliveries attempted, by HTTP status code",
}, []string{"status"})
