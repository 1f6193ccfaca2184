package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 应用指标，使用独立 registry，测试中可重复创建
type Metrics struct {
	Registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	importRows      *prometheus.CounterVec
	authEvents      *prometheus.CounterVec
}

// NewMetrics 创建并注册全部指标
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_http_requests_total",
				Help: "Total HTTP requests by method, route and status.",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fintrack_http_request_duration_seconds",
				Help:    "HTTP request latency by method and route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		importRows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_import_rows_total",
				Help: "Imported rows by outcome (inserted, skipped).",
			},
			[]string{"outcome"},
		),
		authEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_auth_events_total",
				Help: "Authentication state changes by event.",
			},
			[]string{"event"},
		),
	}
}

// ObserveRequest 记录一次 HTTP 请求
func (m *Metrics) ObserveRequest(method, route, status string, d time.Duration) {
	m.requestsTotal.WithLabelValues(method, route, status).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// AddImportRows 记录导入结果
func (m *Metrics) AddImportRows(inserted, skipped int) {
	m.importRows.WithLabelValues("inserted").Add(float64(inserted))
	m.importRows.WithLabelValues("skipped").Add(float64(skipped))
}

// IncrAuthEvent 记录登录状态事件
func (m *Metrics) IncrAuthEvent(event string) {
	m.authEvents.WithLabelValues(event).Inc()
}

// Handler /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
