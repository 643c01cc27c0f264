package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// 全局 Registry，供 API 注册与暴露
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(
		MessagesTotal, IntentTotal, ClarificationTotal,
		PendingClarifications, RoutingFallbackTotal,
		ProcessDuration,
	)
}

// MessagesTotal 处理的消息总数（按结果）
var MessagesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "dialogue_messages_total",
		Help: "处理的消息总数（按结果）",
	},
	[]string{"result"}, // ok | clarification | failed
)

// IntentTotal 识别出的意图总数（按意图）
var IntentTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "dialogue_intent_total",
		Help: "识别出的意图总数（按意图）",
	},
	[]string{"intent"},
)

// ClarificationTotal 澄清事件总数（按事件类型）
var ClarificationTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "dialogue_clarification_total",
		Help: "澄清事件总数",
	},
	[]string{"event"}, // raised | resolved | canceled | expired
)

// PendingClarifications 当前待回答的澄清数
var PendingClarifications = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "dialogue_pending_clarifications",
		Help: "当前待回答的澄清数",
	},
)

// RoutingFallbackTotal 路由落入兜底 Agent 的次数
var RoutingFallbackTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "dialogue_routing_fallback_total",
		Help: "路由落入兜底 Agent 的次数",
	},
)

// ProcessDuration 单条消息处理耗时（秒）
var ProcessDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "dialogue_process_duration_seconds",
		Help:    "单条消息处理耗时（秒）",
		Buckets: prometheus.DefBuckets,
	},
)

// WritePrometheus 将 Prometheus 文本格式写入 w（供 Hertz 等复用）
func WritePrometheus(w io.Writer) error {
	metrics, err := DefaultRegistry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range metrics {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
