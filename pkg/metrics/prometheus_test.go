package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWithRegistry(reg)

	r.RecordProviderCall("banxico", "ok", 0.2)
	r.RecordProviderCall("banxico", "ok", 0.3)
	r.RecordProviderCall("alphavantage", "rate_limited", 0.1)
	r.RecordDegradedSection("commodities")
	r.RecordReport("success", 66)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.providerCalls.WithLabelValues("banxico", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.providerCalls.WithLabelValues("alphavantage", "rate_limited")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.degradedSections.WithLabelValues("commodities")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.reports.WithLabelValues("success")))
}
