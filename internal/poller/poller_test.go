package poller

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/flyboysam/SRG.Dashboard/internal/hub"
	"github.com/flyboysam/SRG.Dashboard/internal/metrics"
	"github.com/flyboysam/SRG.Dashboard/internal/model"
	"github.com/flyboysam/SRG.Dashboard/internal/source"
	"github.com/flyboysam/SRG.Dashboard/internal/state"
)

type stubProbe struct {
	si model.SystemInfo
}

func (p stubProbe) Sample(ctx context.Context) model.SystemInfo { return p.si }

func newTestPoller(path string, h *hub.Hub) (*Poller, *state.Store) {
	store := state.New()
	p := New(Config{
		Source:  source.New(path, 0),
		Store:   store,
		Probe:   stubProbe{si: model.SystemInfo{CPU: 12.5, GPUTemp: 48.0}},
		Hub:     h,
		Metrics: metrics.New(prometheus.NewRegistry()),
	})
	return p, store
}

func TestCycleNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telem.txt")
	p, store := newTestPoller(path, nil)

	p.cycle(context.Background(), time.Now())
	p.cycle(context.Background(), time.Now())

	snap := store.Snapshot()
	if snap.Status != model.StatusNoFile {
		t.Errorf("expected no_file, got %q", snap.Status)
	}
	if snap.Timestamp == "" {
		t.Error("expected timestamp to be set")
	}
	if snap.System.CPU != 12.5 {
		t.Errorf("system info should update even without a file, got %+v", snap.System)
	}
	if snap.MS5611 != (model.MS5611{}) {
		t.Errorf("expected zero readings, got %+v", snap.MS5611)
	}
}

func TestCycleLiveNewestWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "telem.txt")
	content := "MS5611 21.0 1001.2 305.0\n" +
		"MPU6050 0.1 0.2 0.3 9.8 0.0 0.1\n" +
		"MS5611 22.5 1000.0 310.0\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	p, store := newTestPoller(path, nil)
	p.cycle(context.Background(), time.Now())

	snap := store.Snapshot()
	if snap.Status != model.StatusLive {
		t.Fatalf("expected live, got %q", snap.Status)
	}
	want := model.MS5611{Temp: 22.5, Pressure: 1000.0, Altitude: 310.0}
	if snap.MS5611 != want {
		t.Errorf("expected newest MS5611 line to win, got %+v", snap.MS5611)
	}
	if snap.MPU6050.AX != 9.8 {
		t.Errorf("expected MPU6050 reading, got %+v", snap.MPU6050)
	}
}

func TestCycleStaleRetainsReadings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "telem.txt")
	if err := os.WriteFile(path, []byte("MS5611 21.0 1001.2 305.0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	p, store := newTestPoller(path, nil)
	p.cycle(context.Background(), time.Now())

	if store.Snapshot().Status != model.StatusLive {
		t.Fatal("expected live after first cycle")
	}

	// Producer stops writing: age the file past the threshold.
	old := time.Now().Add(-121 * time.Second)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatal(err)
	}

	p.cycle(context.Background(), time.Now())

	snap := store.Snapshot()
	if snap.Status != model.StatusStale {
		t.Errorf("expected stale, got %q", snap.Status)
	}
	if snap.MS5611.Temp != 21.0 {
		t.Errorf("stale must retain prior readings, got %+v", snap.MS5611)
	}
}

func TestCycleMalformedKindRetainsPrior(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "telem.txt")
	if err := os.WriteFile(path, []byte("MPU6050 0.1 0.2 0.3 9.8 0.0 0.1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	p, store := newTestPoller(path, nil)
	p.cycle(context.Background(), time.Now())

	// Next write has a truncated MPU6050 line and a fresh TMP reading.
	if err := os.WriteFile(path, []byte("MPU6050 0.4 0.5\nTMP 25.5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	p.cycle(context.Background(), time.Now())

	snap := store.Snapshot()
	if snap.Status != model.StatusLive {
		t.Fatalf("expected live, got %q", snap.Status)
	}
	if snap.MPU6050.GX != 0.1 {
		t.Errorf("malformed MPU6050 line must not clobber the prior reading, got %+v", snap.MPU6050)
	}
	if snap.Temp != 25.5 {
		t.Errorf("expected TMP to update independently, got %f", snap.Temp)
	}
}

func TestCycleFileAppears(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "telem.txt")

	p, store := newTestPoller(path, nil)
	p.cycle(context.Background(), time.Now())

	if store.Snapshot().Status != model.StatusNoFile {
		t.Fatal("expected no_file before the simulator starts")
	}

	if err := os.WriteFile(path, []byte("TMP 19.0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	p.cycle(context.Background(), time.Now())

	snap := store.Snapshot()
	if snap.Status != model.StatusLive {
		t.Errorf("expected live once the file appears, got %q", snap.Status)
	}
	if snap.Temp != 19.0 {
		t.Errorf("expected TMP 19.0, got %f", snap.Temp)
	}
}

func TestCyclePublishesSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "telem.txt")
	if err := os.WriteFile(path, []byte("TMP 23.0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	h := hub.New()
	sub := h.Subscribe()
	defer h.Unsubscribe(sub)

	p, _ := newTestPoller(path, h)
	p.cycle(context.Background(), time.Now())

	select {
	case snap := <-sub:
		if snap.Temp != 23.0 {
			t.Errorf("expected published snapshot with TMP 23.0, got %+v", snap)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for published snapshot")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telem.txt")
	store := state.New()
	p := New(Config{
		Source:   source.New(path, 0),
		Store:    store,
		Probe:    stubProbe{},
		Interval: 10 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop on context cancellation")
	}
}
