package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordTransition(t *testing.T) {
	before := testutil.ToFloat64(transitionsTotal.WithLabelValues("rented"))
	RecordTransition("rented")
	assert.Equal(t, before+1, testutil.ToFloat64(transitionsTotal.WithLabelValues("rented")))
}

func TestRecordValueMoved(t *testing.T) {
	before := testutil.ToFloat64(valueMovedTotal.WithLabelValues("OWNER_PAYOUT"))
	RecordValueMoved("OWNER_PAYOUT", 19000)
	assert.Equal(t, before+19000, testutil.ToFloat64(valueMovedTotal.WithLabelValues("OWNER_PAYOUT")))
}

func TestSetPlatformRevenue(t *testing.T) {
	SetPlatformRevenue(1000)
	assert.Equal(t, float64(1000), testutil.ToFloat64(platformRevenueGauge))
}
