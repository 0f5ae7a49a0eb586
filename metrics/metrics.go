package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records frame loop metrics. A nil *Collector discards everything.
type Collector struct {
	frameDuration prometheus.Histogram
	framesTotal   prometheus.Counter
	bodies        prometheus.Gauge
	simSpeed      prometheus.Gauge
	streamClients prometheus.Gauge
	droppedInput  *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	m := &Collector{
		frameDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "frame_duration_seconds",
				Help:    "Time spent simulating and drawing one frame",
				Buckets: []float64{0.001, 0.002, 0.004, 0.008, 0.016, 0.033, 0.066, 0.125, 0.25},
			},
		),
		framesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "frames_total",
				Help: "Total number of presented frames",
			},
		),
		bodies: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "scene_bodies",
				Help: "Number of bodies in the scene",
			},
		),
		simSpeed: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "simulation_speed",
				Help: "Current simulation speed slider value",
			},
		),
		streamClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "stream_clients",
				Help: "Connected snapshot stream clients",
			},
		),
		droppedInput: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dropped_events_total",
				Help: "Queued events dropped because a queue was full",
			},
			[]string{"queue"},
		),
	}

	reg.MustRegister(m.frameDuration)
	reg.MustRegister(m.framesTotal)
	reg.MustRegister(m.bodies)
	reg.MustRegister(m.simSpeed)
	reg.MustRegister(m.streamClients)
	reg.MustRegister(m.droppedInput)

	return m
}

func (m *Collector) RecordFrame(d time.Duration) {
	if m == nil {
		return
	}
	m.frameDuration.Observe(d.Seconds())
	m.framesTotal.Inc()
}

func (m *Collector) SetBodies(n int) {
	if m == nil {
		return
	}
	m.bodies.Set(float64(n))
}

func (m *Collector) SetSimulationSpeed(v float32) {
	if m == nil {
		return
	}
	m.simSpeed.Set(float64(v))
}

func (m *Collector) StreamClientConnected() {
	if m == nil {
		return
	}
	m.streamClients.Inc()
}

func (m *Collector) StreamClientDisconnected() {
	if m == nil {
		return
	}
	m.streamClients.Dec()
}

func (m *Collector) RecordDropped(queue string) {
	if m == nil {
		return
	}
	m.droppedInput.WithLabelValues(queue).Inc()
}

// Handler serves the metrics of g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
