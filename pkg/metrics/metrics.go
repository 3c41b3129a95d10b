// Package metrics exposes Prometheus collectors for the delivery pipeline.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	MessagesConsumedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "push_messages_consumed_total",
			Help: "Total number of queue messages received by the consumer",
		},
	)

	MessagesAckedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "push_messages_acked_total",
			Help: "Total number of queue messages acknowledged",
		},
	)

	MessagesNackedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_messages_nacked_total",
			Help: "Total number of queue messages negatively acknowledged",
		},
		[]string{"requeue"},
	)

	DeliveryOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_delivery_outcomes_total",
			Help: "Per-subscription delivery outcomes by result",
		},
		[]string{"outcome"},
	)

	ProcessingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "push_message_processing_duration_seconds",
			Help:    "Duration of full message processing including fan-out",
			Buckets: prometheus.DefBuckets,
		},
	)

	ReconnectsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "push_broker_reconnects_total",
			Help: "Total number of broker reconnect cycles",
		},
	)
)

// Register registers all pipeline collectors with the default registry.
func Register() {
	prometheus.MustRegister(MessagesConsumedTotal)
	prometheus.MustRegister(MessagesAckedTotal)
	prometheus.MustRegister(MessagesNackedTotal)
	prometheus.MustRegister(DeliveryOutcomesTotal)
	prometheus.MustRegister(ProcessingDuration)
	prometheus.MustRegister(ReconnectsTotal)
}
