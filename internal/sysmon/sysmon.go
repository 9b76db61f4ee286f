// Package sysmon samples system-wide CPU and memory load. Calibration uses
// it to refuse timing runs on a busy machine.
package sysmon

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats is one snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent   float64 // 0.0 .. 100.0
	MemPercent   float64 // 0.0 .. 100.0
	MemAvailable uint64  // bytes
	LogicalCPUs  int
	PhysicalCPUs int
}

// BusyThreshold is the CPU usage, in percent, above which timings are not
// trusted.
const BusyThreshold = 50.0

// Sample collects a snapshot. CPU usage is measured over interval; an
// interval of zero reports the usage since the previous call. Fields that
// cannot be read are left zero and the first error is returned alongside.
func Sample(ctx context.Context, interval time.Duration) (Stats, error) {
	var (
		s     Stats
		first error
	)
	note := func(what string, err error) {
		if err != nil && first == nil {
			first = fmt.Errorf("sysmon: %s: %w", what, err)
		}
	}

	pcts, err := cpu.PercentWithContext(ctx, interval, false)
	note("cpu percent", err)
	if err == nil && len(pcts) > 0 {
		s.CPUPercent = pcts[0]
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	note("virtual memory", err)
	if err == nil && vm != nil {
		s.MemPercent = vm.UsedPercent
		s.MemAvailable = vm.Available
	}
	s.LogicalCPUs, err = cpu.CountsWithContext(ctx, true)
	note("logical cpus", err)
	s.PhysicalCPUs, err = cpu.CountsWithContext(ctx, false)
	note("physical cpus", err)
	return s, first
}

// Busy reports whether the sampled CPU usage is above BusyThreshold.
func (s Stats) Busy() bool { return s.CPUPercent > BusyThreshold }

func (s Stats) String() string {
	return fmt.Sprintf("cpu %.1f%% (%d logical, %d physical), mem %.1f%% (%d MiB free)",
		s.CPUPercent, s.LogicalCPUs, s.PhysicalCPUs, s.MemPercent, s.MemAvailable>>20)
}
