package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP 请求延迟（秒）
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// 数据库查询延迟（秒）
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"operation", "table"},
	)

	// Milestone 处理调用延迟（毫秒）
	MilestoneCallLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "milestone_call_latency_ms",
			Help:    "Payment service process-milestone call latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10), // 10ms to ~10s
		},
		[]string{"status"},
	)

	// 进度更新计数
	ProgressUpdateCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progress_update_total",
			Help: "Total number of project progress updates",
		},
		[]string{"source"}, // source: daily_log, manual
	)

	// 触发的付款节点计数
	MilestoneTriggeredCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "milestone_triggered_total",
			Help: "Total number of payment terms flipped to eligible",
		},
	)

	// Outbox 派发计数
	OutboxDispatchCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outbox_dispatch_total",
			Help: "Total number of outbox events dispatched",
		},
		[]string{"status"}, // status: processed, failed
	)
)

// RecordHTTPRequestDuration 记录 HTTP 请求延迟
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordDBQueryDuration 记录数据库查询延迟
func RecordDBQueryDuration(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// RecordMilestoneCallLatency 记录 process-milestone 调用延迟
func RecordMilestoneCallLatency(status string, duration time.Duration) {
	MilestoneCallLatency.WithLabelValues(status).Observe(float64(duration.Milliseconds()))
}

// IncrementProgressUpdate 增加进度更新计数
func IncrementProgressUpdate(source string) {
	ProgressUpdateCount.WithLabelValues(source).Inc()
}

// AddMilestoneTriggered 累加本次触发的付款节点数
func AddMilestoneTriggered(n int) {
	MilestoneTriggeredCount.Add(float64(n))
}

// IncrementOutboxDispatch 增加 outbox 派发计数
func IncrementOutboxDispatch(status string) {
	OutboxDispatchCount.WithLabelValues(status).Inc()
}
