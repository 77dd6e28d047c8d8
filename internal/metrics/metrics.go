package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_market_transitions_total",
		Help: "Committed listing state transitions",
	}, []string{"transition"})

	rejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_market_rejections_total",
		Help: "Operations rejected with a domain error code",
	}, []string{"operation", "code"})

	valueMovedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_market_value_moved_total",
		Help: "Value moved by the escrow ledger, by transfer type",
	}, []string{"type"})

	platformRevenueGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rental_market_platform_revenue",
		Help: "Undistributed platform fee revenue",
	})

	expiredSweptTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_market_expired_sweep_total",
		Help: "Expired rentals processed by the sweeper, by outcome",
	}, []string{"outcome"})
)

// RecordTransition counts a committed transition (listed, rented, returned, ...).
func RecordTransition(name string) {
	transitionsTotal.WithLabelValues(name).Inc()
}

// RecordRejection counts an operation that failed with a taxonomy code.
func RecordRejection(operation, code string) {
	rejectionsTotal.WithLabelValues(operation, code).Inc()
}

// RecordValueMoved adds amount to the moved-value counter for a transfer type.
func RecordValueMoved(transferType string, amount uint64) {
	valueMovedTotal.WithLabelValues(transferType).Add(float64(amount))
}

// SetPlatformRevenue publishes the current revenue accumulator.
func SetPlatformRevenue(amount uint64) {
	platformRevenueGauge.Set(float64(amount))
}

// RecordSweep counts one expired-rental sweep outcome.
func RecordSweep(outcome string) {
	expiredSweptTotal.WithLabelValues(outcome).Inc()
}
