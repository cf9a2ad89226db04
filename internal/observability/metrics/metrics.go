package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters for the booking and admin flows.
type BookingMetrics struct {
	appointmentsCreated *prometheus.CounterVec
	statusTransitions   *prometheus.CounterVec
	bookingConflicts    prometheus.Counter
	slotRequests        *prometheus.CounterVec
	slotResolveLatency  *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		appointmentsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "booking",
			Name:      "appointments_created_total",
			Help:      "Total appointments created",
		}, []string{"service_type"}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "booking",
			Name:      "status_transitions_total",
			Help:      "Total appointment status transitions",
		}, []string{"from", "to"}),
		bookingConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "booking",
			Name:      "conflicts_total",
			Help:      "Total bookings rejected because the slot was already taken",
		}),
		slotRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "slots",
			Name:      "requests_total",
			Help:      "Total slot availability requests by provider and outcome",
		}, []string{"provider", "status"}),
		slotResolveLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clinic",
			Subsystem: "slots",
			Name:      "resolve_latency_seconds",
			Help:      "Latency of slot availability resolution",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.appointmentsCreated,
		m.statusTransitions,
		m.bookingConflicts,
		m.slotRequests,
		m.slotResolveLatency,
	)
	return m
}

func (m *BookingMetrics) ObserveAppointmentCreated(serviceType string) {
	if m == nil {
		return
	}
	m.appointmentsCreated.WithLabelValues(serviceType).Inc()
}

func (m *BookingMetrics) ObserveStatusTransition(from, to string) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(from, to).Inc()
}

func (m *BookingMetrics) ObserveBookingConflict() {
	if m == nil {
		return
	}
	m.bookingConflicts.Inc()
}

func (m *BookingMetrics) ObserveSlotRequest(provider, status string) {
	if m == nil {
		return
	}
	m.slotRequests.WithLabelValues(provider, status).Inc()
}

func (m *BookingMetrics) ObserveSlotResolveLatency(provider string, seconds float64) {
	if m == nil {
		return
	}
	m.slotResolveLatency.WithLabelValues(provider).Observe(seconds)
}
