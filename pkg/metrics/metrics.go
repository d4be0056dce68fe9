package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	OrdersProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_processed_total",
			Help: "Orders that reached the completed status",
		},
		[]string{"source"}, // http|kafka|cli
	)
	OrdersFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_failed_total",
			Help: "Orders that ended up in the failed status, by stage",
		},
		[]string{"stage"},
	)
	StageErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_stage_errors_total",
			Help: "Per-stage errors, including non-fatal ones after payment capture",
		},
		[]string{"stage", "kind"},
	)
)

var (
	ChargeOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_charge_outcomes_total",
			Help: "Charge results by payment method",
		},
		[]string{"method", "outcome"}, // captured|declined|unavailable|replayed
	)
)

var (
	KafkaMessagesConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_consumed_total",
			Help: "Number of messages fetched from Kafka",
		},
		[]string{"topic"},
	)
	KafkaMessagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_processed_total",
			Help: "Number of messages processed successfully",
		},
		[]string{"topic"},
	)
	KafkaMessagesFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_failed_total",
			Help: "Number of messages failed to process",
		},
		[]string{"topic"},
	)
)

var (
	CacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Cache operations",
		},
		[]string{"op"}, // hit|miss|evicted|expired
	)
	CacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Number of items currently in cache",
		},
	)
)

func MustRegister() {
	prometheus.MustRegister(
		OrdersProcessed, OrdersFailed, StageErrors, ChargeOutcomes,
		KafkaMessagesConsumed, KafkaMessagesProcessed, KafkaMessagesFailed,
		CacheOps, CacheSize,
	)
}
