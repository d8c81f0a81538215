package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(ticketsBooked.WithLabelValues("VIP"))
	TicketBooked("VIP")
	TicketBooked("VIP")
	assert.Equal(t, before+2, testutil.ToFloat64(ticketsBooked.WithLabelValues("VIP")))

	dupes := testutil.ToFloat64(checkIns.WithLabelValues("duplicate"))
	CheckIn("duplicate")
	assert.Equal(t, dupes+1, testutil.ToFloat64(checkIns.WithLabelValues("duplicate")))

	rejected := testutil.ToFloat64(cardValidations.WithLabelValues("rejected"))
	CardValidation(false)
	assert.Equal(t, rejected+1, testutil.ToFloat64(cardValidations.WithLabelValues("rejected")))

	hits := testutil.ToFloat64(qrCache.WithLabelValues("hit"))
	QRCache(true)
	assert.Equal(t, hits+1, testutil.ToFloat64(qrCache.WithLabelValues("hit")))
}
