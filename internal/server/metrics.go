package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/opsxjacky/bond-rebalancer/pkg/types"
)

// Metrics 服务端 Prometheus 指标, 使用独立的 Registry
type Metrics struct {
	registry *prometheus.Registry

	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Trades          *prometheus.CounterVec
}

// NewMetrics 创建并注册指标
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rebalancer_requests_total",
				Help: "Total number of rebalance requests by endpoint, strategy and result",
			},
			[]string{"endpoint", "strategy", "result"},
		),

		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rebalancer_request_duration_seconds",
				Help:    "Duration of rebalance requests in seconds",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
			},
			[]string{"endpoint"},
		),

		Trades: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rebalancer_trades_total",
				Help: "Total number of recommended trade actions by action",
			},
			[]string{"action"},
		),
	}

	m.registry.MustRegister(m.Requests, m.RequestDuration, m.Trades)
	return m
}

// Handler 返回 /metrics 处理器
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest 记录一次请求及耗时
func (m *Metrics) ObserveRequest(endpoint string, strategy types.StrategyType, result string, elapsed time.Duration) {
	m.CountRequest(endpoint, strategy, result)
	m.RequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// CountRequest 只计数, 非法策略名归为 unknown
func (m *Metrics) CountRequest(endpoint string, strategy types.StrategyType, result string) {
	label := string(strategy)
	if strategy != "" && !strategy.Valid() {
		label = "unknown"
	}
	m.Requests.WithLabelValues(endpoint, label, result).Inc()
}

// ObserveResult 按方向累计交易建议
func (m *Metrics) ObserveResult(result types.RebalanceResult) {
	for _, a := range result.RebalancingActions {
		m.Trades.WithLabelValues(string(a.Action)).Inc()
	}
}
