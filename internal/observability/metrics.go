package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	blobFetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cloudtalk_blob_fetch_total",
			Help: "Total number of whole-document fetches by result.",
		},
		[]string{"result"},
	)
	blobPutTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cloudtalk_blob_put_total",
			Help: "Total number of whole-document puts by result.",
		},
		[]string{"result"},
	)
	pollTicksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cloudtalk_poll_ticks_total",
			Help: "Total number of background poll cycles started.",
		},
	)
	optimisticRollbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cloudtalk_optimistic_rollbacks_total",
			Help: "Total number of optimistic mutations discarded after a failed put.",
		},
	)
	notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cloudtalk_notifications_total",
			Help: "Total number of change notifications emitted.",
		},
		[]string{"type"},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cloudtalk_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cloudtalk_http_requests_total",
			Help: "Total number of HTTP requests processed by blobd.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cloudtalk_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)

func init() {
	prometheus.MustRegister(
		blobFetchTotal,
		blobPutTotal,
		pollTicksTotal,
		optimisticRollbacksTotal,
		notificationsTotal,
		amqpPublishErrorsTotal,
		httpRequestsTotal,
		httpRequestDuration,
	)
}

// HTTPMetricsMiddleware records request counts and latencies for blobd.
func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func IncBlobFetch(result string) {
	blobFetchTotal.WithLabelValues(result).Inc()
}

func IncBlobPut(result string) {
	blobPutTotal.WithLabelValues(result).Inc()
}

func IncPollTick() {
	pollTicksTotal.Inc()
}

func IncOptimisticRollback() {
	optimisticRollbacksTotal.Inc()
}

func IncNotification(kind string) {
	notificationsTotal.WithLabelValues(kind).Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}
