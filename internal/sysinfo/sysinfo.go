// Package sysinfo samples host metrics for the ground station itself:
// process-host CPU utilization and, on a Raspberry Pi, the SoC temperature.
package sysinfo

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/flyboysam/SRG.Dashboard/internal/model"
)

// SampleWindow is how long a CPU sample blocks to compute a utilization
// delta. Confined to the poll goroutine; request handlers never wait on it.
const SampleWindow = 200 * time.Millisecond

// Probe samples SystemInfo once per poll cycle.
type Probe struct {
	window time.Duration
}

// New returns a Probe with the default sampling window.
func New() *Probe {
	return &Probe{window: SampleWindow}
}

// Sample blocks for the sampling window and returns fresh host metrics.
// Failures degrade to zero values, never errors; missing hardware support
// is normal off the Pi.
func (p *Probe) Sample(ctx context.Context) model.SystemInfo {
	var pct float64
	if vals, err := cpu.PercentWithContext(ctx, p.window, false); err == nil && len(vals) > 0 {
		pct = vals[0]
	}
	return model.SystemInfo{CPU: pct, GPUTemp: GPUTemp()}
}

// GPUTemp reads the SoC temperature via `vcgencmd measure_temp`.
// Returns 0 where the tool is absent or its output is unrecognized.
func GPUTemp() float64 {
	path, err := exec.LookPath("vcgencmd")
	if err != nil || path == "" {
		return 0
	}
	out, err := exec.Command("vcgencmd", "measure_temp").Output()
	if err != nil {
		return 0
	}
	return parseVcgencmd(string(out))
}

// parseVcgencmd extracts the value from output shaped like "temp=48.3'C".
func parseVcgencmd(out string) float64 {
	s := strings.TrimSpace(out)
	s = strings.TrimPrefix(s, "temp=")
	s = strings.TrimSuffix(s, "'C")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
