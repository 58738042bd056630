package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	frames        prometheus.Counter
	frameDuration prometheus.Histogram
	events        *prometheus.CounterVec
	connections   prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "geoboard",
			Name:      "frames_total",
			Help:      "Frames run across all connections.",
		}),
		frameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "geoboard",
			Name:      "frame_duration_seconds",
			Help:      "Time spent running one frame, drawing included.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geoboard",
			Name:      "input_events_total",
			Help:      "Input messages received from clients.",
		}, []string{"kind"}),
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "geoboard",
			Name:      "connections",
			Help:      "Open websocket connections.",
		}),
	}
	reg.MustRegister(m.frames, m.frameDuration, m.events, m.connections)
	return m
}
