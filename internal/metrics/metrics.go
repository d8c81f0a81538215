package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	ticketsBooked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickets_booked_total",
			Help: "Tickets created, by ticket type",
		},
		[]string{"ticket_type"},
	)

	ticketsCancelled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tickets_cancelled_total",
			Help: "Tickets removed by their owner or an admin",
		},
	)

	checkIns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_checkins_total",
			Help: "Check-in attempts by outcome",
		},
		[]string{"result"},
	)

	cardValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "card_validations_total",
			Help: "Card validation attempts by outcome",
		},
		[]string{"result"},
	)

	qrCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qr_cache_requests_total",
			Help: "QR cache lookups by outcome",
		},
		[]string{"result"},
	)
)

func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func TicketBooked(ticketType string) {
	ticketsBooked.WithLabelValues(ticketType).Inc()
}

func TicketCancelled() {
	ticketsCancelled.Inc()
}

// CheckIn records a check-in outcome: "ok", "duplicate", "not_found" or "error".
func CheckIn(result string) {
	checkIns.WithLabelValues(result).Inc()
}

func CardValidation(valid bool) {
	if valid {
		cardValidations.WithLabelValues("accepted").Inc()
		return
	}
	cardValidations.WithLabelValues("rejected").Inc()
}

func QRCache(hit bool) {
	if hit {
		qrCache.WithLabelValues("hit").Inc()
		return
	}
	qrCache.WithLabelValues("miss").Inc()
}
