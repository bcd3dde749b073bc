// Package poller drives the telemetry ingestion cycle: sample host metrics,
// classify the telemetry file's freshness, re-parse the newest readings, and
// merge them into the shared state store.
package poller

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/flyboysam/SRG.Dashboard/internal/hub"
	"github.com/flyboysam/SRG.Dashboard/internal/metrics"
	"github.com/flyboysam/SRG.Dashboard/internal/model"
	"github.com/flyboysam/SRG.Dashboard/internal/parser"
	"github.com/flyboysam/SRG.Dashboard/internal/source"
	"github.com/flyboysam/SRG.Dashboard/internal/state"
)

// DefaultInterval is the poll cadence.
const DefaultInterval = 1 * time.Second

// Probe samples host metrics once per cycle. Implemented by sysinfo.Probe;
// may block briefly (CPU utilization needs a sampling window).
type Probe interface {
	Sample(ctx context.Context) model.SystemInfo
}

// Config wires a Poller's collaborators. Hub, Metrics and Wake are optional.
type Config struct {
	Source   *source.File
	Store    *state.Store
	Probe    Probe
	Hub      *hub.Hub
	Metrics  *metrics.Metrics
	Interval time.Duration

	// Wake triggers an immediate extra cycle when the telemetry file
	// changes (see internal/watcher). Nil disables early wake-ups.
	Wake <-chan struct{}
}

// Poller runs the ingestion cycle on a fixed cadence. It is the only writer
// to the state store.
type Poller struct {
	src        *source.File
	store      *state.Store
	probe      Probe
	hub        *hub.Hub
	met        *metrics.Metrics
	interval   time.Duration
	wake       <-chan struct{}
	lastStatus string
}

// New creates a Poller from cfg. A zero interval falls back to
// DefaultInterval.
func New(cfg Config) *Poller {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		src:      cfg.Source,
		store:    cfg.Store,
		probe:    cfg.Probe,
		hub:      cfg.Hub,
		met:      cfg.Metrics,
		interval: interval,
		wake:     cfg.Wake,
	}
}

// Run executes poll cycles until the context is cancelled. Errors inside a
// cycle degrade to a status change or a skipped update; the loop itself
// never stops on its own.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.cycle(ctx, time.Now())

		select {
		case <-ctx.Done():
			log.Info().Msg("poller stopping")
			return
		case <-ticker.C:
		case <-p.wake:
		}
	}
}

// cycle performs one poll pass. Host metrics are written first, then the
// file-derived fields are merged in a single store update so readers never
// see a half-applied cycle.
func (p *Poller) cycle(ctx context.Context, now time.Time) {
	p.store.SetSystemInfo(p.probe.Sample(ctx))

	path, exists := p.src.Resolve()
	if !exists {
		p.store.Update(func(t *model.Telemetry) {
			t.Status = model.StatusNoFile
			t.Timestamp = stamp(now)
		})
		p.finishCycle(model.StatusNoFile)
		return
	}

	if p.met != nil {
		p.met.FileAge.Set(float64(source.Age(path, now)))
	}

	if !p.src.Fresh(path, now) {
		// Producer stopped writing; keep the last readings but flag them.
		p.store.Update(func(t *model.Telemetry) {
			t.Status = model.StatusStale
			t.Timestamp = stamp(now)
		})
		p.finishCycle(model.StatusStale)
		return
	}

	content, err := p.src.ReadAll(path)
	if err != nil {
		// No update this cycle; the previous state stays visible.
		log.Warn().Err(err).Str("path", path).Msg("telemetry read failed")
		p.finishCycle("read_error")
		return
	}

	cand := parser.ExtractLatest(content)
	p.store.Update(func(t *model.Telemetry) {
		t.Status = model.StatusLive
		t.Timestamp = stamp(now)
		p.mergeReadings(t, cand)
	})
	p.finishCycle(model.StatusLive)
}

// mergeReadings overwrites each sensor field for which its candidate line
// parses. A failed parse of one kind leaves that kind, and every other
// kind, untouched.
func (p *Poller) mergeReadings(t *model.Telemetry, cand parser.Candidates) {
	if cand.MS5611 != "" {
		if r := parser.ParseLine(cand.MS5611); r.MS5611 != nil {
			t.MS5611 = *r.MS5611
		} else {
			p.discard("ms5611")
		}
	}
	if cand.MPU6050 != "" {
		if r := parser.ParseLine(cand.MPU6050); r.MPU6050 != nil {
			t.MPU6050 = *r.MPU6050
		} else {
			p.discard("mpu6050")
		}
	}
	if cand.TMP != "" {
		if r := parser.ParseLine(cand.TMP); r.Temp != nil {
			t.Temp = *r.Temp
		} else {
			p.discard("tmp")
		}
	}
}

// discard counts a candidate line that yielded no reading of its kind.
// Malformed lines are expected from the simulator; debug only.
func (p *Poller) discard(sensor string) {
	if p.met != nil {
		p.met.ParseDiscards.WithLabelValues(sensor).Inc()
	}
	log.Debug().Str("sensor", sensor).Msg("candidate line yielded no reading")
}

// finishCycle records metrics, logs status transitions, and publishes the
// cycle's snapshot to live subscribers.
func (p *Poller) finishCycle(status string) {
	if p.met != nil {
		p.met.PollCycles.WithLabelValues(status).Inc()
	}

	if status != p.lastStatus {
		switch status {
		case model.StatusLive:
			log.Info().Msg("telemetry feed live")
		case model.StatusStale:
			log.Warn().Msg("telemetry feed stale: file not updated recently")
		case model.StatusNoFile:
			log.Warn().Msg("telemetry file missing")
		}
		p.lastStatus = status
	}

	if p.hub != nil {
		p.hub.Publish(p.store.Snapshot())
	}
}

// stamp formats a cycle timestamp the way the dashboard expects.
func stamp(now time.Time) string {
	return now.UTC().Format(time.RFC3339)
}
