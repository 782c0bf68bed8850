// Package metrics exposes Prometheus collectors for palette operations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/wethinkt/go-colorname/internal/palette"
)

var (
	lookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "colorname",
		Subsystem: "palette",
		Name:      "lookups_total",
		Help:      "Total palette lookups, by operation and outcome.",
	}, []string{"op", "outcome"})

	lookupDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "colorname",
		Subsystem: "palette",
		Name:      "lookup_duration_seconds",
		Help:      "Palette lookup duration in seconds, by operation.",
		Buckets:   []float64{.000005, .00001, .000025, .00005, .0001, .00025, .0005, .001, .005},
	}, []string{"op"})

	loadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "colorname",
		Subsystem: "palette",
		Name:      "loads_total",
		Help:      "Total successful palette loads and reloads.",
	})

	loadErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "colorname",
		Subsystem: "palette",
		Name:      "load_errors_total",
		Help:      "Total failed palette loads and reloads.",
	})

	paletteSize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "colorname",
		Subsystem: "palette",
		Name:      "size",
		Help:      "Number of entries in the loaded palette.",
	})

	degradedRows = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "colorname",
		Subsystem: "palette",
		Name:      "degraded_rows",
		Help:      "Rows in the loaded palette whose hex value fell back to gray.",
	})
)

// Operation names used as the "op" label.
const (
	OpNearest   = "nearest"
	OpNeighbors = "neighbors"
	OpColor     = "color"
	OpCount     = "count"
)

// Outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// ObserveLoad records a successful palette load. It has the signature of
// a palette.OnLoad callback.
func ObserveLoad(p *palette.Palette, _ palette.Source) {
	loadsTotal.Inc()
	paletteSize.Set(float64(p.Count()))
	degradedRows.Set(float64(len(p.Degraded())))
}

// ObserveLoadError records a failed load or reload.
func ObserveLoadError() {
	loadErrorsTotal.Inc()
}

// Track starts timing op. Call the returned func with the outcome.
func Track(op string) func(outcome string) {
	start := time.Now()
	return func(outcome string) {
		lookupDurationSeconds.WithLabelValues(op).Observe(time.Since(start).Seconds())
		lookupsTotal.WithLabelValues(op, outcome).Inc()
	}
}
