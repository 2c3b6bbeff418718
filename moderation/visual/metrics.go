package visual

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var nsfwAPIDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name: "moderation_nsfw_api_duration_sec",
	Help: "Duration of NSFW image detection API calls",
})

var nsfwAPICount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_nsfw_api_count",
	Help: "Number of NSFW image detection API calls, by HTTP status code",
}, []string{"status"})

var frameAPIDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name: "moderation_frame_api_duration_sec",
	Help: "Duration of video frame extraction API calls",
})

var frameAPICount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_frame_api_count",
	Help: "Number of video frame extraction API calls, by HTTP status code",
}, []string{"status"})
