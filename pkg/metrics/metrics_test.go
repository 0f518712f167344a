package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(ConversionFailures)
	ConversionFailures.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(ConversionFailures))

	c := ApprovalDecisions.WithLabelValues("Approve", "Pending")
	beforeVec := testutil.ToFloat64(c)
	c.Inc()
	assert.Equal(t, beforeVec+1, testutil.ToFloat64(c))

	r := RateProviderRequests.WithLabelValues("ok")
	beforeReq := testutil.ToFloat64(r)
	r.Inc()
	assert.Equal(t, beforeReq+1, testutil.ToFloat64(r))
}
