// Package integration holds canned workload scenarios used to characterize
// the simulator end to end, plus a generator for the whitespace
// configuration file format consumed by the CLI.
package integration

import (
	"fmt"
	"os"

	"github.com/pkarpov/linksched/simulator"
)

// IdleLink is a single slow source on a fast link: ~10 packets over the
// whole run, nothing dropped, utilization around 1e-3.
func IdleLink() simulator.SimConfig {
	return simulator.SimConfig{
		Discipline:     simulator.DisciplineFCFS,
		SimulationTime: 10,
		LinkCapacity:   1e6,
		BufferSize:     100,
		RandomSeed:     7,
		StrictChecks:   true,
		Sources: []simulator.SourceConfig{
			{PacketRate: 1, MinSize: 1000, MaxSize: 1000, Weight: 1, StartFrac: 0, EndFrac: 1},
		},
	}
}

// TailDropSaturation offers twice the link capacity from two equal sources
// into a small buffer: heavy drops, utilization near 1.
func TailDropSaturation() simulator.SimConfig {
	return simulator.SimConfig{
		Discipline:     simulator.DisciplineFCFS,
		SimulationTime: 100,
		LinkCapacity:   5e5,
		BufferSize:     10,
		RandomSeed:     7,
		StrictChecks:   true,
		Sources: []simulator.SourceConfig{
			{PacketRate: 500, MinSize: 1000, MaxSize: 1000, Weight: 1, StartFrac: 0, EndFrac: 1},
			{PacketRate: 500, MinSize: 1000, MaxSize: 1000, Weight: 1, StartFrac: 0, EndFrac: 1},
		},
	}
}

// AsymmetricWeights saturates the link 2:1 with weights 1 and 9. FCFS
// ignores the weights and splits bytes roughly evenly; WFQ delivers them
// 1:9.
func AsymmetricWeights(d simulator.Discipline) simulator.SimConfig {
	return simulator.SimConfig{
		Discipline:     d,
		SimulationTime: 50,
		LinkCapacity:   1e6,
		BufferSize:     50,
		RandomSeed:     7,
		StrictChecks:   true,
		Sources: []simulator.SourceConfig{
			{PacketRate: 1000, MinSize: 1000, MaxSize: 1000, Weight: 1, StartFrac: 0, EndFrac: 1},
			{PacketRate: 1000, MinSize: 1000, MaxSize: 1000, Weight: 9, StartFrac: 0, EndFrac: 1},
		},
	}
}

// SplitWindows activates source 0 in the first half of the run and source 1
// in the second half, on a lightly loaded link.
func SplitWindows() simulator.SimConfig {
	return simulator.SimConfig{
		Discipline:     simulator.DisciplineFCFS,
		SimulationTime: 100,
		LinkCapacity:   1e6,
		BufferSize:     100,
		RandomSeed:     7,
		StrictChecks:   true,
		Sources: []simulator.SourceConfig{
			{PacketRate: 100, MinSize: 100, MaxSize: 100, Weight: 1, StartFrac: 0, EndFrac: 0.5},
			{PacketRate: 100, MinSize: 100, MaxSize: 100, Weight: 1, StartFrac: 0.5, EndFrac: 1},
		},
	}
}

// ZeroBuffer has no waiting room at all. FCFS drops every arrival; WFQ
// keeps only the packet about to enter transmission.
func ZeroBuffer(d simulator.Discipline) simulator.SimConfig {
	return simulator.SimConfig{
		Discipline:     d,
		SimulationTime: 20,
		LinkCapacity:   1e5,
		BufferSize:     0,
		RandomSeed:     7,
		StrictChecks:   true,
		Sources: []simulator.SourceConfig{
			{PacketRate: 200, MinSize: 1000, MaxSize: 1000, Weight: 1, StartFrac: 0, EndFrac: 1},
		},
	}
}

// WriteConfigFile emits cfg in the whitespace format understood by
// simulator.ParseConfig and the CLI.
func WriteConfigFile(cfg simulator.SimConfig, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%d %g %g %d\n",
		len(cfg.Sources), cfg.SimulationTime, cfg.LinkCapacity, cfg.BufferSize); err != nil {
		return err
	}
	for _, src := range cfg.Sources {
		if _, err := fmt.Fprintf(f, "%g %d %d %g %g %g\n",
			src.PacketRate, src.MinSize, src.MaxSize, src.Weight, src.StartFrac, src.EndFrac); err != nil {
			return err
		}
	}
	return nil
}
