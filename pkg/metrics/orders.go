package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics records order placement and cancellation outcomes.
type OrderMetrics struct {
	placed    *prometheus.CounterVec
	failed    *prometheus.CounterVec
	cancelled prometheus.Counter
	duration  *prometheus.HistogramVec
}

// NewOrderMetrics registers the order metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	placed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ims",
		Name:      "orders_placed_total",
		Help:      "Orders committed, by payment method.",
	}, []string{"payment_method"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ims",
		Name:      "orders_failed_total",
		Help:      "Order placements that did not commit, by error code.",
	}, []string{"reason"})
	cancelled := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ims",
		Name:      "orders_cancelled_total",
		Help:      "Sales transitioned to CANCELLED.",
	})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ims",
		Name:      "order_placement_duration_seconds",
		Help:      "Duration of the order placement transaction in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"outcome"})
	reg.MustRegister(placed, failed, cancelled, duration)
	return &OrderMetrics{
		placed:    placed,
		failed:    failed,
		cancelled: cancelled,
		duration:  duration,
	}
}

// ObservePlaced records a committed order.
func (m *OrderMetrics) ObservePlaced(paymentMethod string, took time.Duration) {
	if m == nil || m.placed == nil {
		return
	}
	m.placed.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
	m.duration.WithLabelValues("success").Observe(took.Seconds())
}

// ObserveFailed records a placement that rolled back or never started.
func (m *OrderMetrics) ObserveFailed(reason string, took time.Duration) {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.WithLabelValues(normalizeLabel(reason)).Inc()
	m.duration.WithLabelValues("failure").Observe(took.Seconds())
}

// IncCancelled counts a status transition to CANCELLED.
func (m *OrderMetrics) IncCancelled() {
	if m == nil || m.cancelled == nil {
		return
	}
	m.cancelled.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
