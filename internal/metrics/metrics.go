package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"roundtrip/internal/compare"
)

const namespace = "roundtrip"

// Collector tracks one corpus run.
//
// Metrics:
//   - roundtrip_files_total: files processed, by verdict
//   - roundtrip_file_duration_seconds: time spent per file, by verdict
//   - roundtrip_files_in_flight: files currently being processed
//   - roundtrip_run_interrupted: 1 when the run was cancelled before it finished
type Collector struct {
	registry *prometheus.Registry

	filesTotal   *prometheus.CounterVec
	fileDuration *prometheus.HistogramVec
	inFlight     prometheus.Gauge
	interrupted  prometheus.Gauge
}

// NewCollector creates the run metrics on a fresh registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),

		filesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "files_total",
				Help:      "Number of files processed, by verdict",
			},
			[]string{"verdict"},
		),

		fileDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "file_duration_seconds",
				Help:      "Time spent on one file's round trip",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"verdict"},
		),

		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "files_in_flight",
			Help:      "Files currently being processed",
		}),

		interrupted: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_interrupted",
			Help:      "1 when the run was cancelled before every file was processed",
		}),
	}

	// Every verdict is exported even when no file produced it.
	for _, v := range compare.Verdicts {
		c.filesTotal.WithLabelValues(v.String())
	}

	c.registry.MustRegister(c.filesTotal, c.fileDuration, c.inFlight, c.interrupted)
	return c
}

// Registry exposes the underlying registry, e.g. for an HTTP handler.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Start marks a file as in flight.
func (c *Collector) Start() {
	c.inFlight.Inc()
}

// Observe records a finished file.
func (c *Collector) Observe(v compare.Verdict, d time.Duration) {
	c.inFlight.Dec()
	c.filesTotal.WithLabelValues(v.String()).Inc()
	c.fileDuration.WithLabelValues(v.String()).Observe(d.Seconds())
}

// Interrupted flags the run as cancelled.
func (c *Collector) Interrupted() {
	c.interrupted.Set(1)
}

// WriteTextfile writes the metrics in the text exposition format, the
// format the node exporter textfile collector reads.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
