package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// once 保证指标只注册一次。
	// Prometheus 的 registry 不允许重复注册同名指标，否则直接 panic。
	once sync.Once

	// HTTPRequestsTotal 累计请求数。
	// route 用路由模板（如 /{id}），不要用真实 path，否则 label 会无限膨胀。
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "HTTP请求的总数",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDurationSeconds 请求耗时分布，算 P95/P99 用。
	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency distributions.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// HTTPInflightRequests 正在处理中的请求数。
	HTTPInflightRequests = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Current number of in-flight HTTP requests.",
		},
	)

	// SheetFetchesTotal 表格拉取次数，按结果分类：
	// ok / auth_error / data_error / service_error / network_error
	SheetFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sheet_fetches_total",
			Help: "表格 CSV 拉取次数（按结果分类）",
		},
		[]string{"result"},
	)

	// CacheOperations 缓存层操作计数。
	// layer: memory / redis / bloom / qr
	// op: hit / miss / put / clear / restore / fallback / definite_miss
	CacheOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "缓存操作计数",
		},
		[]string{"layer", "op"},
	)

	// ResolveOutcomes 解析终态分布：noop / not_found / redirect / error
	ResolveOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolve_outcomes_total",
			Help: "短链解析终态分布",
		},
		[]string{"outcome"},
	)

	// ShortlinkRedirects 成功跳转次数。
	ShortlinkRedirects = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shortlink_redirects_total",
			Help: "成功跳转次数",
		},
	)
)

// Init 注册指标：只允许注册一次（否则 panic: duplicate metrics collector registration）
func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDurationSeconds,
			HTTPInflightRequests,
			SheetFetchesTotal,
			CacheOperations,
			ResolveOutcomes,
			ShortlinkRedirects,
		)
	})
}
