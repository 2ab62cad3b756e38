// Package metrics 提供基于Prometheus的指标收集
//
// # 核心概念
//
// **1. Counter（计数器）**：只增不减的累计值
//   - 示例：HTTP请求总数、图书创建总数、点赞切换次数
//
// **2. Gauge（仪表盘）**：可增可减的瞬时值
//   - 示例：正在处理的请求数、熔断器状态
//
// **3. Histogram（直方图）**：观测值的分布
//   - 示例：HTTP请求耗时、slug生成时的探测次数
//
// # 使用示例
//
//	// 1. 启动时初始化（重复调用无副作用）
//	metrics.InitMetrics()
//
//	// 2. gin路由暴露/metrics端点
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	// 3. 业务代码记录指标
//	metrics.IncCounter(metrics.BooksCreatedTotal)
//	metrics.IncCounterVec(metrics.LikeTogglesTotal, map[string]string{"action": "liked"})
//
// # 命名规范
//
//  1. Counter以`_total`结尾
//  2. Histogram以单位结尾（`_seconds`），无单位的计数分布直接用名词（`_probes`）
//  3. 标签只用有限取值（method、status、action），不要用user_id、slug作为标签
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// once 防止重复注册（重复注册会panic）
	once sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method（GET/POST）、path（路由模板，如/api/v1/books/:slug）、status（200/500）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	// 桶设置：1ms、10ms、100ms、500ms、1s、5s、10s
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数（Gauge）
	HTTPRequestsInProgress prometheus.Gauge

	// 业务指标

	// BooksCreatedTotal 图书创建总数
	BooksCreatedTotal prometheus.Counter

	// BooksUpdatedTotal 图书更新总数
	BooksUpdatedTotal prometheus.Counter

	// BooksDeletedTotal 图书删除总数
	BooksDeletedTotal prometheus.Counter

	// LikeTogglesTotal 点赞操作次数
	// 标签：action（liked/unliked/removed）
	LikeTogglesTotal *prometheus.CounterVec

	// SlugProbes 生成一个slug时探测的候选数量（1表示标题slug直接可用）
	SlugProbes prometheus.Histogram

	// SlugFallbackTotal 探测次数耗尽后使用随机后缀的次数
	SlugFallbackTotal prometheus.Counter

	// 熔断器指标

	// CircuitBreakerState 熔断器状态（Gauge）
	// 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数（Counter）
	// 标签：name（熔断器名称）、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数（Counter）
	// 标签：exchange（交换机）、routing_key（路由键）
	MessagesPublishedTotal *prometheus.CounterVec

	// MessagesDroppedTotal 发布失败被丢弃的事件数
	// 标签：routing_key、reason（error/breaker_open）
	MessagesDroppedTotal *prometheus.CounterVec

	// MessagesConsumedTotal 消息消费总数（Counter）
	// 标签：queue（队列名称）、result（success/failure）
	MessagesConsumedTotal *prometheus.CounterVec

	// MessageProcessingDuration 消息处理耗时（Histogram）
	MessageProcessingDuration prometheus.Histogram
)

// InitMetrics 初始化所有Prometheus指标
//
// 设计要点：
// 1. 使用promauto.New*自动注册到默认Registry
// 2. Counter使用*Vec支持标签（多维度统计）
// 3. Histogram的Buckets根据业务场景定制
func InitMetrics() {
	once.Do(register)
}

func register() {
	// HTTP请求指标
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	// 图书业务指标
	BooksCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "books_created_total",
			Help: "图书创建总数",
		},
	)

	BooksUpdatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "books_updated_total",
			Help: "图书更新总数",
		},
	)

	BooksDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "books_deleted_total",
			Help: "图书删除总数",
		},
	)

	LikeTogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "book_like_toggles_total",
			Help: "点赞/取消点赞次数",
		},
		[]string{"action"},
	)

	SlugProbes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "book_slug_probes",
			Help: "生成slug时探测的候选数量",
			// 绝大多数标题第一次就可用，长尾来自热门书名
			Buckets: []float64{1, 2, 5, 10, 50, 100, 500, 1000},
		},
	)

	SlugFallbackTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "book_slug_fallback_total",
			Help: "slug探测耗尽后使用随机后缀的次数",
		},
	)

	// 熔断器指标
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"},
	)

	// 消息队列指标
	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key"},
	)

	MessagesDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_dropped_total",
			Help: "发布失败被丢弃的事件数",
		},
		[]string{"routing_key", "reason"},
	)

	MessagesConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_consumed_total",
			Help: "消息消费总数",
		},
		[]string{"queue", "result"},
	)

	MessageProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "message_processing_duration_seconds",
			Help:    "消息处理耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5},
		},
	)
}

// IncCounter 递增Counter（便捷函数）
func IncCounter(counter prometheus.Counter) {
	counter.Inc()
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// SetGaugeVec 设置GaugeVec值（带标签）
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	gauge.With(labels).Set(value)
}

// ObserveHistogram 记录Histogram观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	histogram.Observe(value)
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
