package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/wethinkt/go-colorname/internal/palette"
)

func value(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var out dto.Metric
	if err := m.Write(&out); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	switch {
	case out.Counter != nil:
		return out.Counter.GetValue()
	case out.Gauge != nil:
		return out.Gauge.GetValue()
	}
	t.Fatalf("unsupported metric %v", m.Desc())
	return 0
}

func TestObserveLoad(t *testing.T) {
	p, err := palette.Parse(strings.NewReader("Red\t#FF0000\nOdd\tnope\n"))
	if err != nil {
		t.Fatal(err)
	}

	before := value(t, loadsTotal)
	ObserveLoad(p, palette.Text(""))

	if got := value(t, loadsTotal) - before; got != 1 {
		t.Errorf("loads_total delta = %v, want 1", got)
	}
	if got := value(t, paletteSize); got != 2 {
		t.Errorf("size = %v, want 2", got)
	}
	if got := value(t, degradedRows); got != 1 {
		t.Errorf("degraded_rows = %v, want 1", got)
	}
}

func TestTrack(t *testing.T) {
	counter := lookupsTotal.WithLabelValues(OpNeighbors, OutcomeNotFound)
	before := value(t, counter)

	Track(OpNeighbors)(OutcomeNotFound)

	if got := value(t, counter) - before; got != 1 {
		t.Errorf("lookups_total delta = %v, want 1", got)
	}
}

func TestObserveLoadError(t *testing.T) {
	before := value(t, loadErrorsTotal)
	ObserveLoadError()
	if got := value(t, loadErrorsTotal) - before; got != 1 {
		t.Errorf("load_errors_total delta = %v, want 1", got)
	}
}
