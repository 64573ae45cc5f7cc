package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// 控制台请求指标
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "console_requests_total",
		Help: "Total number of requests issued against the apiserver",
	}, []string{"operation", "status"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "console_request_duration_seconds",
		Help:    "Duration of apiserver requests",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	}, []string{"operation", "status"})

	RequestFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "console_request_failures_total",
		Help: "Total number of failed apiserver requests",
	}, []string{"operation", "error_type"})
)

var (
	// 查询缓存指标
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "console_cache_hits_total",
		Help: "Total number of query cache hits",
	}, []string{"query"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "console_cache_misses_total",
		Help: "Total number of query cache misses",
	}, []string{"query"})

	CacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "console_cache_errors_total",
		Help: "Total number of query cache backend errors",
	}, []string{"reason", "operation"})

	CacheInvalidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "console_cache_invalidations_total",
		Help: "Total number of cache invalidations after mutations",
	}, []string{"scope"})

	// RequestsMerged 统计被 singleflight 合并、共享结果的取数请求
	RequestsMerged = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "console_requests_merged_total",
		Help: "Total number of fetches merged into an identical in-flight fetch",
	}, []string{"operation"})
)

var (
	// 通知指标
	NotificationsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "console_notifications_total",
		Help: "Total number of user facing notifications emitted",
	}, []string{"level"})
)

// RecordRequest 记录一次控制台请求的结果与耗时。
func RecordRequest(operation, status string, duration time.Duration) {
	RequestsTotal.WithLabelValues(operation, status).Inc()
	RequestDuration.WithLabelValues(operation, status).Observe(duration.Seconds())
}

// RecordCacheLookup 记录一次缓存查找结果。
func RecordCacheLookup(query string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(query).Inc()
		return
	}
	CacheMisses.WithLabelValues(query).Inc()
}
