package leads

import (
	"context"

	"leadflow_backend/internal/events"
	"leadflow_backend/platform/metrics"
)

// RegisterMetrics feeds pipeline events into the Prometheus counters.
func RegisterMetrics(bus events.Bus, m *metrics.Metrics) {
	if bus == nil || m == nil {
		return
	}

	events.On(bus, func(_ context.Context, e events.LeadCreated) error {
		m.LeadsCreated.WithLabelValues(e.Source).Inc()
		return nil
	})
	events.On(bus, func(_ context.Context, e events.CallLogged) error {
		m.CallsLogged.WithLabelValues(e.Disposition).Inc()
		return nil
	})
	events.On(bus, func(_ context.Context, e events.LeadStatusChanged) error {
		m.StatusTransitions.WithLabelValues(e.ToStatus).Inc()
		return nil
	})
	events.On(bus, func(context.Context, events.LeadEscalated) error {
		m.Escalations.Inc()
		return nil
	})
	events.On(bus, func(_ context.Context, e events.WhatsAppSent) error {
		m.WhatsAppSent.WithLabelValues(e.TemplateCode).Inc()
		return nil
	})
	events.On(bus, func(context.Context, events.AppointmentScheduled) error {
		m.Appointments.Inc()
		return nil
	})
	events.On(bus, func(_ context.Context, e events.ContactParsed) error {
		m.ParseConfidence.Observe(float64(e.Confidence))
		return nil
	})
}
