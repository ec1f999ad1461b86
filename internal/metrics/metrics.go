package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "archviz",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "archviz",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120},
		},
		[]string{"method", "endpoint"},
	)

	// Generation outcomes by failure kind
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "archviz",
			Subsystem: "editor",
			Name:      "generations_total",
			Help:      "Image generations by outcome",
		},
		[]string{"outcome"},
	)

	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "archviz",
			Subsystem: "editor",
			Name:      "generation_duration_seconds",
			Help:      "Upstream image generation duration in seconds",
			Buckets:   []float64{1, 5, 10, 20, 40, 60, 90, 120},
		},
	)

	AdmissionDenialsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "archviz",
			Subsystem: "quota",
			Name:      "admission_denials_total",
			Help:      "Generations refused because the daily quota was used up",
		},
	)

	EditorSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "archviz",
			Subsystem: "editor",
			Name:      "sessions",
			Help:      "Editor sessions held in memory",
		},
	)

	WebsocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "archviz",
			Subsystem: "realtime",
			Name:      "websocket_connections",
			Help:      "Currently connected websocket clients",
		},
	)

	WebsocketTopics = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "archviz",
			Subsystem: "realtime",
			Name:      "topics",
			Help:      "Topics with at least one subscriber",
		},
	)

	EventsDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "archviz",
			Subsystem: "realtime",
			Name:      "events_dropped_total",
			Help:      "Bus events dropped for slow subscribers",
		},
		[]string{"topic_kind"},
	)
)

// records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

func RecordEventDropped(topic string) {
	kind := "user"
	if topic == "users" {
		kind = "users"
	}

	EventsDroppedTotal.WithLabelValues(kind).Inc()
}

// records HTTP request metrics
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RecordRequest(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}

// implements editor.Observer
type EditorObserver struct{}

func (EditorObserver) GenerationFinished(outcome string, duration time.Duration) {
	GenerationsTotal.WithLabelValues(outcome).Inc()
	GenerationDuration.Observe(duration.Seconds())
}

func (EditorObserver) AdmissionDenied() {
	AdmissionDenialsTotal.Inc()
}

func (EditorObserver) SessionsActive(n int) {
	EditorSessions.Set(float64(n))
}
