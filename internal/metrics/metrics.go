package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/poppyseed/coretime/internal/regions"
)

const namespace = "coretime"

// Metrics holds the Prometheus collectors and consumes poller events.
type Metrics struct {
	RegionPolls        *prometheus.CounterVec
	RegionSnapshotSize prometheus.Gauge
	RegionGeneration   prometheus.Gauge
	RegionFetchSeconds prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RegionPolls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "regions",
			Name:      "polls_total",
			Help:      "Region fetch cycles by outcome.",
		}, []string{"kind"}),
		RegionSnapshotSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "regions",
			Name:      "snapshot_regions",
			Help:      "Regions in the currently served snapshot.",
		}),
		RegionGeneration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "regions",
			Name:      "snapshot_generation",
			Help:      "Generation of the currently served snapshot.",
		}),
		RegionFetchSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "regions",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of region fetch cycles.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		m.RegionPolls,
		m.RegionSnapshotSize,
		m.RegionGeneration,
		m.RegionFetchSeconds,
	)
	return m
}

// HandleEvent implements regions.EventHandler.
func (m *Metrics) HandleEvent(e regions.Event) {
	m.RegionPolls.WithLabelValues(string(e.Kind)).Inc()
	m.RegionFetchSeconds.Observe(e.Duration.Seconds())
	m.RegionSnapshotSize.Set(float64(e.Regions))

	if e.Kind == regions.EventSnapshotReplaced {
		m.RegionGeneration.Set(float64(e.Generation))
	}
}

var _ regions.EventHandler = (*Metrics)(nil)
