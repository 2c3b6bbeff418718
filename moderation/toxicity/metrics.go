package toxicity

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var classifyAPIDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name: "moderation_toxicity_api_duration_sec",
	Help: "Duration of toxicity model server API calls",
})

var classifyAPICount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_toxicity_api_count",
	Help: "Number of toxicity model server API calls, by HTTP status code and model",
}, []string{"status", "model"})
