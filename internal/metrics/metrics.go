// Package metrics exposes playback progress as Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tfontaine/geosim/pkg/geomessage"
)

// Metrics implements scheduler.Observer, updating Prometheus collectors as
// playback progresses.
type Metrics struct {
	sent           prometheus.Counter
	deliveryErrors prometheus.Counter
	cursor         prometheus.Gauge
	streamEnds     prometheus.Counter
}

// New registers the playback collectors with reg and returns the observer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "geosim_messages_sent_total",
			Help: "Messages handed to the delivery sink.",
		}),
		deliveryErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "geosim_delivery_errors_total",
			Help: "Messages the delivery sink failed to accept.",
		}),
		cursor: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "geosim_cursor",
			Help: "Index of the next record to deliver.",
		}),
		streamEnds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "geosim_stream_ends_total",
			Help: "Times playback reached the end of the recorded stream.",
		}),
	}
	reg.MustRegister(m.sent, m.deliveryErrors, m.cursor, m.streamEnds)
	return m
}

func (m *Metrics) MessageReady(geomessage.Message) {
	m.sent.Inc()
}

func (m *Metrics) Advanced(index int) {
	m.cursor.Set(float64(index))
}

func (m *Metrics) DeliveryFailed(error) {
	m.deliveryErrors.Inc()
}

func (m *Metrics) StreamEnded() {
	m.streamEnds.Inc()
}
