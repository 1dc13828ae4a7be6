// Package metrics はPrometheus形式のメトリクスを提供します。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SourceMetrics はソースワーカーの呼び出し結果を記録します。
type SourceMetrics struct {
	registry      *prometheus.Registry
	fetchTotal    *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	fetchSymbols  *prometheus.GaugeVec
	registerTotal *prometheus.CounterVec
}

// NewSourceMetrics は専用のレジストリにコレクターを登録して返します。
func NewSourceMetrics() *SourceMetrics {
	m := &SourceMetrics{
		registry: prometheus.NewRegistry(),
		fetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "symbol_dictionary",
			Name:      "source_fetch_total",
			Help:      "Number of valid symbol list fetches per source and result.",
		}, []string{"source", "result"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "symbol_dictionary",
			Name:      "source_fetch_duration_seconds",
			Help:      "Latency of valid symbol list fetches.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		fetchSymbols: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "symbol_dictionary",
			Name:      "source_valid_symbols",
			Help:      "Size of the last successfully fetched valid symbol list.",
		}, []string{"source"}),
		registerTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "symbol_dictionary",
			Name:      "entries_registered_total",
			Help:      "Number of dictionary entry writes per source and result.",
		}, []string{"source", "result"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.fetchTotal,
		m.fetchDuration,
		m.fetchSymbols,
		m.registerTotal,
	)
	return m
}

// ObserveFetch は有効シンボル取得の結果を記録します。
func (m *SourceMetrics) ObserveFetch(source string, symbols int, elapsed time.Duration, err error) {
	m.fetchTotal.WithLabelValues(source, result(err)).Inc()
	m.fetchDuration.WithLabelValues(source).Observe(elapsed.Seconds())
	if err == nil {
		m.fetchSymbols.WithLabelValues(source).Set(float64(symbols))
	}
}

// ObserveRegister はエントリ保存の結果を記録します。
func (m *SourceMetrics) ObserveRegister(source string, err error) {
	m.registerTotal.WithLabelValues(source, result(err)).Inc()
}

// Handler は /metrics 用のHTTPハンドラーを返します。
func (m *SourceMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
