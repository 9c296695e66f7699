package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultSuccess           = "success"
	ResultInsufficientStock = "insufficient_stock"
	ResultFailed            = "failed"
	ResultInvalid           = "invalid"
)

type CheckoutMetrics struct {
	Checkouts *prometheus.CounterVec
	Duration  prometheus.Histogram
	CartOps   *prometheus.CounterVec
}

func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "checkout_total",
		Help:      "Checkout attempts by result.",
	}, []string{"result"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "storefront",
		Name:      "checkout_duration_seconds",
		Help:      "Time spent in the checkout transaction.",
		Buckets:   prometheus.DefBuckets,
	})
	cartOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "cart_operations_total",
		Help:      "Cart mutations by operation and outcome.",
	}, []string{"op", "status"})

	reg.MustRegister(checkouts, duration, cartOps)
	return &CheckoutMetrics{Checkouts: checkouts, Duration: duration, CartOps: cartOps}
}

// ObserveCheckout is safe on a nil receiver so services can run without metrics.
func (m *CheckoutMetrics) ObserveCheckout(result string, started time.Time) {
	if m == nil {
		return
	}
	m.Checkouts.WithLabelValues(result).Inc()
	m.Duration.Observe(time.Since(started).Seconds())
}

func (m *CheckoutMetrics) ObserveCartOp(op string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.CartOps.WithLabelValues(op, status).Inc()
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
