package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Checkout failure reasons.
const (
	ReasonEmptyCart         = "empty_cart"
	ReasonInsufficientStock = "insufficient_stock"
	ReasonPersist           = "persist"
)

// OrderMetrics records checkout and order lifecycle activity.
type OrderMetrics struct {
	created       *prometheus.CounterVec
	failures      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	inventory     *prometheus.CounterVec
	statusChanges *prometheus.CounterVec
}

// NewOrderMetrics registers the order metrics on the provided registerer. A nil
// registerer yields a no-op recorder.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders created through checkout.",
	}, []string{"payment_method"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failures_total",
		Help: "Checkout attempts rejected or aborted.",
	}, []string{"reason"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout attempts in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	inventory := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_adjustment_units_total",
		Help: "Units moved in or out of product inventory by orders.",
	}, []string{"direction"})
	statusChanges := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_changes_total",
		Help: "Order status transitions by target status.",
	}, []string{"status"})
	reg.MustRegister(created, failures, duration, inventory, statusChanges)
	return &OrderMetrics{
		created:       created,
		failures:      failures,
		duration:      duration,
		inventory:     inventory,
		statusChanges: statusChanges,
	}
}

// IncCreated counts a persisted order.
func (m *OrderMetrics) IncCreated(paymentMethod string) {
	if m == nil || m.created == nil {
		return
	}
	m.created.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
}

// IncFailure counts a failed checkout by reason.
func (m *OrderMetrics) IncFailure(reason string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(reason)).Inc()
}

// ObserveCheckout records how long a checkout attempt took.
func (m *OrderMetrics) ObserveCheckout(success bool, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.duration.WithLabelValues(outcome).Observe(d.Seconds())
}

// AddInventory records units removed (negative delta) or restored.
func (m *OrderMetrics) AddInventory(delta int) {
	if m == nil || m.inventory == nil || delta == 0 {
		return
	}
	direction := "restock"
	if delta < 0 {
		direction = "decrement"
		delta = -delta
	}
	m.inventory.WithLabelValues(direction).Add(float64(delta))
}

// IncStatusChange counts an order moving to status.
func (m *OrderMetrics) IncStatusChange(status string) {
	if m == nil || m.statusChanges == nil {
		return
	}
	m.statusChanges.WithLabelValues(normalizeLabel(status)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
