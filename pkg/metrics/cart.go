package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics counts cart operations by outcome.
type CartMetrics struct {
	operations *prometheus.CounterVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart operations partitioned by operation and outcome.",
	}, []string{"op", "outcome"})
	reg.MustRegister(operations)
	return &CartMetrics{operations: operations}
}

// ObserveOperation increments the counter for op/outcome.
func (c *CartMetrics) ObserveOperation(op, outcome string) {
	if c == nil || c.operations == nil {
		return
	}
	c.operations.WithLabelValues(normalizeLabel(op), normalizeLabel(outcome)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
