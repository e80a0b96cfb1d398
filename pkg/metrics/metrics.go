// Package metrics はプッシュ通知の送信状況をPrometheus形式で公開する。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 送信処理の結果ラベル。
const (
	OutcomeSent         = "sent"
	OutcomeSkipped      = "skipped"
	OutcomeGatewayError = "gateway_error"
)

// トークン単位の結果ラベル。
const (
	ResultSuccess      = "success"
	ResultFailure      = "failure"
	ResultUnregistered = "unregistered"
)

// Metrics は送信処理のカウンタとヒストグラムを保持する。
// 専用のレジストリを持つため、テストごとに独立したインスタンスを生成できる。
type Metrics struct {
	registry        *prometheus.Registry
	dispatches      *prometheus.CounterVec
	tokens          *prometheus.CounterVec
	gatewayDuration *prometheus.HistogramVec
}

// New は新しいMetricsを生成し、コレクタを登録する。
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskpush_dispatch_total",
				Help: "Total notification requests by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		tokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskpush_tokens_total",
				Help: "Total per-device delivery outcomes by kind and result",
			},
			[]string{"kind", "result"},
		),
		gatewayDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "taskpush_gateway_duration_seconds",
				Help:    "Duration of multicast sends to the delivery gateway",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"kind"},
		),
	}
	m.registry.MustRegister(
		m.dispatches,
		m.tokens,
		m.gatewayDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// IncDispatch は送信処理の結果を1件記録する。
func (m *Metrics) IncDispatch(kind, outcome string) {
	if m == nil {
		return
	}
	m.dispatches.WithLabelValues(kind, outcome).Inc()
}

// AddTokens はトークン単位の結果をn件記録する。
func (m *Metrics) AddTokens(kind, result string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.tokens.WithLabelValues(kind, result).Add(float64(n))
}

// ObserveGateway はGateway呼び出しの所要時間を記録する。
func (m *Metrics) ObserveGateway(kind string, d time.Duration) {
	if m == nil {
		return
	}
	m.gatewayDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// DispatchCounter はテストや診断用に送信処理カウンタを返す。
func (m *Metrics) DispatchCounter(kind, outcome string) prometheus.Counter {
	return m.dispatches.WithLabelValues(kind, outcome)
}

// TokenCounter はテストや診断用にトークン結果カウンタを返す。
func (m *Metrics) TokenCounter(kind, result string) prometheus.Counter {
	return m.tokens.WithLabelValues(kind, result)
}

// Handler は/metricsエンドポイント用のHTTPハンドラを返す。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
