// Package host reads instantaneous CPU and memory usage from the
// operating system via gopsutil.
package host

import (
	"errors"
	"fmt"
	"math"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/dinerops/pizzametrics/internal/ports"
)

// Probe implements ports.HostProbe. It keeps no state; every call reads
// the OS directly.
type Probe struct{}

var _ ports.HostProbe = (*Probe)(nil)

func New() *Probe {
	return &Probe{}
}

// CPUPercent approximates CPU usage as the 1-minute load average divided
// by the logical core count, scaled to a percentage and rounded to two
// decimals. It is a load ratio, not true utilization, and can exceed 100
// on an overloaded multi-core host.
func (p *Probe) CPUPercent() (float64, error) {
	avg, err := load.Avg()
	if err != nil {
		return 0, fmt.Errorf("load avg: %w", err)
	}
	cores, err := cpu.Counts(true)
	if err != nil {
		return 0, fmt.Errorf("cpu counts: %w", err)
	}
	if cores <= 0 {
		return 0, errors.New("no logical cores reported")
	}
	return round2(avg.Load1 / float64(cores) * 100), nil
}

// MemoryPercent reports (total-free)/total as a percentage rounded to two
// decimals.
func (p *Probe) MemoryPercent() (float64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, fmt.Errorf("virtual memory: %w", err)
	}
	if vm == nil || vm.Total == 0 {
		return 0, errors.New("total memory reported as zero")
	}
	used := float64(vm.Total - vm.Free)
	return round2(used / float64(vm.Total) * 100), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
