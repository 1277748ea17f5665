package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests 请求计数
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "logify",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	// HTTPDuration 请求耗时
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "logify",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// EmailsSent 邮件发送结果
	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "logify",
		Name:      "emails_total",
		Help:      "Notification emails by type and result.",
	}, []string{"type", "result"})

	// CounterDrift 定时校准时发现的项目计数偏差
	CounterDrift = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "logify",
		Name:      "project_counter_drift_total",
		Help:      "Projects whose derived task counters were corrected by reconciliation.",
	})
)
