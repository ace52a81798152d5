package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pointer event outcomes
const (
	ResultHit       = "hit"
	ResultMiss      = "miss"
	ResultNotMapped = "not_mapped"
)

type Metrics struct {
	PointerEvents  *prometheus.CounterVec
	PickSeconds    prometheus.Histogram
	FrameSeconds   prometheus.Histogram
	MeshBuildTime  prometheus.Gauge
	PanelClients   prometheus.Gauge
	PanelDropped   prometheus.Counter
	PanelBroadcast prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		PointerEvents: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "globe_pointer_events_total",
			Help: "Total number of pointer-down events by pick outcome.",
		}, []string{"result"}),
		PickSeconds: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "globe_pick_duration_seconds",
			Help:    "Duration of ray intersection and coordinate mapping per pointer event.",
			Buckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025},
		}),
		FrameSeconds: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "globe_frame_duration_seconds",
			Help:    "Time spent per rendered frame.",
			Buckets: []float64{.004, .008, .0167, .033, .05, .1},
		}),
		MeshBuildTime: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "globe_mesh_build_seconds",
			Help: "Time taken to generate and quadify the globe mesh at startup.",
		}),
		PanelClients: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "globe_panel_clients",
			Help: "Current number of connected browser info panels.",
		}),
		PanelDropped: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "globe_panel_payloads_dropped_total",
			Help: "Panel updates dropped because the broadcast queue was full.",
		}),
		PanelBroadcast: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "globe_panel_payloads_broadcast_total",
			Help: "Panel updates sent to browser info panels.",
		}),
	}
}
