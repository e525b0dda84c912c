// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層から利用する。
type MetricsCollector interface {
	RecordFeedQuery(source string, duration time.Duration)
	RecordPreferenceUpdate()
	RecordClap()
	RecordReport()
	RecordArticleTrashed()
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	feedQueries       *prometheus.CounterVec
	feedQueryLatency  prometheus.Histogram
	preferenceUpdates prometheus.Counter
	claps             prometheus.Counter
	reports           prometheus.Counter
	articlesTrashed   prometheus.Counter
	httpStatus        *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		feedQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bunko_feed_queries_total",
			Help: "フィードクエリのエントリポイント別実行数",
		}, []string{"source"}),
		feedQueryLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bunko_feed_query_latency_seconds",
			Help:    "フィードクエリのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		preferenceUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bunko_preference_updates_total",
			Help: "嗜好モデル更新の合計数",
		}),
		claps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bunko_claps_total",
			Help: "拍手加算の合計数",
		}),
		reports: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bunko_reports_total",
			Help: "記事通報の合計数",
		}),
		articlesTrashed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bunko_articles_trashed_total",
			Help: "通報によりゴミ箱へ遷移した記事の合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bunko_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.feedQueries,
		c.feedQueryLatency,
		c.preferenceUpdates,
		c.claps,
		c.reports,
		c.articlesTrashed,
		c.httpStatus,
	)

	return c
}

// RecordFeedQuery はフィードクエリの実行をエントリポイント別に記録する。
func (c *Collector) RecordFeedQuery(source string, duration time.Duration) {
	c.feedQueries.WithLabelValues(source).Inc()
	c.feedQueryLatency.Observe(duration.Seconds())
}

// RecordPreferenceUpdate は嗜好モデル更新を記録する。
func (c *Collector) RecordPreferenceUpdate() {
	c.preferenceUpdates.Inc()
}

// RecordClap は拍手加算を記録する。
func (c *Collector) RecordClap() {
	c.claps.Inc()
}

// RecordReport は記事通報を記録する。
func (c *Collector) RecordReport() {
	c.reports.Inc()
}

// RecordArticleTrashed は通報による自動ゴミ箱遷移を記録する。
func (c *Collector) RecordArticleTrashed() {
	c.articlesTrashed.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
