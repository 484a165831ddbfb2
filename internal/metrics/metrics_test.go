package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/poppyseed/coretime/internal/regions"
)

func TestMetrics_HandleEvent(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.HandleEvent(regions.Event{Kind: regions.EventSnapshotReplaced, Generation: 3, Regions: 12, Duration: 20 * time.Millisecond})
	m.HandleEvent(regions.Event{Kind: regions.EventFetchFailed, Generation: 4, Regions: 12, Err: errors.New("down")})
	m.HandleEvent(regions.Event{Kind: regions.EventFetchFailed, Generation: 5, Regions: 12, Err: errors.New("down")})

	if got := testutil.ToFloat64(m.RegionPolls.WithLabelValues(string(regions.EventSnapshotReplaced))); got != 1 {
		t.Errorf("snapshot_replaced = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.RegionPolls.WithLabelValues(string(regions.EventFetchFailed))); got != 2 {
		t.Errorf("fetch_failed = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.RegionSnapshotSize); got != 12 {
		t.Errorf("snapshot_regions = %v, want 12", got)
	}
	// Failed fetches do not advance the served generation.
	if got := testutil.ToFloat64(m.RegionGeneration); got != 3 {
		t.Errorf("snapshot_generation = %v, want 3", got)
	}
}

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.HandleEvent(regions.Event{Kind: regions.EventSnapshotReplaced})

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	if len(families) != 4 {
		t.Errorf("registered families = %d, want 4", len(families))
	}
}
