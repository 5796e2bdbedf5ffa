package simulator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func saturatedConfig(d Discipline) SimConfig {
	return SimConfig{
		Discipline:     d,
		SimulationTime: 30,
		LinkCapacity:   5e5,
		BufferSize:     10,
		RandomSeed:     17,
		StrictChecks:   true,
		Sources: []SourceConfig{
			{PacketRate: 500, MinSize: 1000, MaxSize: 1000, Weight: 1, StartFrac: 0, EndFrac: 1},
			{PacketRate: 500, MinSize: 1000, MaxSize: 1000, Weight: 9, StartFrac: 0, EndFrac: 1},
		},
	}
}

func TestNewSimulatorRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LinkCapacity = 0
	_, err := NewSimulator(cfg)
	require.Error(t, err)
}

func TestDeterminism(t *testing.T) {
	for _, d := range []Discipline{DisciplineFCFS, DisciplineWFQ} {
		t.Run(d.String(), func(t *testing.T) {
			cfg := saturatedConfig(d)

			sim1, err := NewSimulator(cfg)
			require.NoError(t, err)
			sim1.Run()

			sim2, err := NewSimulator(cfg)
			require.NoError(t, err)
			sim2.Run()

			require.Equal(t, sim1.Results(), sim2.Results())
			require.Equal(t, sim1.EventsProcessed(), sim2.EventsProcessed())
		})
	}
}

func TestSeedChangesOutcome(t *testing.T) {
	cfg := saturatedConfig(DisciplineFCFS)
	sim1, err := NewSimulator(cfg)
	require.NoError(t, err)
	sim1.Run()

	cfg.RandomSeed = 18
	sim2, err := NewSimulator(cfg)
	require.NoError(t, err)
	sim2.Run()

	require.NotEqual(t, sim1.Results().Sources, sim2.Results().Sources)
}

func TestConservationAndBounds(t *testing.T) {
	for _, d := range []Discipline{DisciplineFCFS, DisciplineWFQ} {
		t.Run(d.String(), func(t *testing.T) {
			cfg := saturatedConfig(d)
			sim, err := NewSimulator(cfg)
			require.NoError(t, err)
			sim.Run()
			r := sim.Results()

			var totalBytes float64
			for _, src := range r.Sources {
				require.Equal(t, src.Generated, src.Transmitted+src.Dropped+src.Buffered,
					"source %d conservation", src.SourceID)
				require.GreaterOrEqual(t, src.Buffered, int64(0))
				totalBytes += src.Throughput * cfg.SimulationTime
			}

			// The link cannot transmit more than its capacity allows.
			require.LessOrEqual(t, totalBytes, cfg.LinkCapacity*cfg.SimulationTime*(1+1e-9))

			require.GreaterOrEqual(t, r.Utilization, 0.0)
			require.LessOrEqual(t, r.Utilization, 1.0)
			require.GreaterOrEqual(t, r.DropProbability, 0.0)
			require.LessOrEqual(t, r.DropProbability, 1.0)

			// Jain is bounded below by 1/N whenever anything was delivered.
			require.GreaterOrEqual(t, r.FairnessIndex, 1.0/float64(len(r.Sources)))
			require.LessOrEqual(t, r.FairnessIndex, 1.0+1e-9)
		})
	}
}

func TestNoDropRegime(t *testing.T) {
	// Offered load is 20% of capacity with ample buffering.
	cfg := SimConfig{
		Discipline:     DisciplineFCFS,
		SimulationTime: 50,
		LinkCapacity:   5e5,
		BufferSize:     1000,
		RandomSeed:     3,
		StrictChecks:   true,
		Sources: []SourceConfig{
			{PacketRate: 100, MinSize: 1000, MaxSize: 1000, Weight: 1, StartFrac: 0, EndFrac: 1},
		},
	}
	sim, err := NewSimulator(cfg)
	require.NoError(t, err)
	sim.Run()
	r := sim.Results()

	require.EqualValues(t, 0, r.Sources[0].Dropped)
	require.EqualValues(t, 0, r.DropProbability)
	require.InEpsilon(t, 0.2, r.Utilization, 0.15, "utilization tracks offered load")
}

func TestSingleSourceWFQMatchesFCFS(t *testing.T) {
	base := SimConfig{
		SimulationTime: 40,
		LinkCapacity:   1e5,
		BufferSize:     500,
		RandomSeed:     11,
		StrictChecks:   true,
		Sources: []SourceConfig{
			{PacketRate: 80, MinSize: 500, MaxSize: 1500, Weight: 4, StartFrac: 0, EndFrac: 1},
		},
	}

	base.Discipline = DisciplineFCFS
	fcfs, err := NewSimulator(base)
	require.NoError(t, err)
	fcfs.Run()

	base.Discipline = DisciplineWFQ
	wfq, err := NewSimulator(base)
	require.NoError(t, err)
	wfq.Run()

	rf := fcfs.Results().Sources[0]
	rw := wfq.Results().Sources[0]

	require.Equal(t, rf.Generated, rw.Generated)
	require.Equal(t, rf.Transmitted, rw.Transmitted)
	require.Equal(t, rf.Dropped, rw.Dropped)
	require.Equal(t, rf.Throughput, rw.Throughput)
	require.Equal(t, rf.AvgDelay, rw.AvgDelay)
	require.Equal(t, fcfs.EventsProcessed(), wfq.EventsProcessed())
}

func TestWFQWeightProportionality(t *testing.T) {
	cfg := saturatedConfig(DisciplineWFQ)
	sim, err := NewSimulator(cfg)
	require.NoError(t, err)
	sim.Run()
	r := sim.Results()

	b0 := r.Sources[0].Throughput
	b1 := r.Sources[1].Throughput
	require.Greater(t, b0, 0.0)

	ratio := b1 / b0
	require.Greater(t, ratio, 4.0, "weight-9 source should get the lion's share")
	require.Less(t, ratio, 20.0)
	require.Greater(t, r.FairnessIndex, 0.85, "weight-normalized fairness")
}

func TestActivationWindows(t *testing.T) {
	cfg := SimConfig{
		Discipline:     DisciplineFCFS,
		SimulationTime: 100,
		LinkCapacity:   1e6,
		BufferSize:     200,
		RandomSeed:     5,
		StrictChecks:   true,
		Sources: []SourceConfig{
			{PacketRate: 100, MinSize: 100, MaxSize: 100, Weight: 1, StartFrac: 0, EndFrac: 0.5},
			{PacketRate: 100, MinSize: 100, MaxSize: 100, Weight: 1, StartFrac: 0.5, EndFrac: 1},
		},
	}
	sim, err := NewSimulator(cfg)
	require.NoError(t, err)
	sim.Run()
	r := sim.Results()

	for _, src := range r.Sources {
		require.InEpsilon(t, 5000.0, float64(src.Generated), 0.1,
			"source %d should produce ~rate*window packets", src.SourceID)
	}
}

func TestInFlightAtHorizon(t *testing.T) {
	// A single slow transmission outlives the horizon: the packet is
	// generated but never departs, so it counts as buffered at the end.
	cfg := SimConfig{
		Discipline:     DisciplineFCFS,
		SimulationTime: 1,
		LinkCapacity:   1000,
		BufferSize:     10,
		RandomSeed:     1,
		StrictChecks:   true,
		Sources: []SourceConfig{
			{PacketRate: 0.01, MinSize: 5000, MaxSize: 5000, Weight: 1, StartFrac: 0, EndFrac: 1},
		},
	}
	sim, err := NewSimulator(cfg)
	require.NoError(t, err)
	sim.Run()
	r := sim.Results()

	src := r.Sources[0]
	require.GreaterOrEqual(t, src.Generated, int64(1), "the seed arrival fires at startTime")
	require.EqualValues(t, 0, src.Transmitted)
	require.Equal(t, src.Generated, src.Buffered)
	require.EqualValues(t, 0, r.Utilization)
}

func TestRunUntilMatchesRun(t *testing.T) {
	cfg := saturatedConfig(DisciplineWFQ)

	full, err := NewSimulator(cfg)
	require.NoError(t, err)
	full.Run()

	stepped, err := NewSimulator(cfg)
	require.NoError(t, err)
	prev := 0.0
	for stepped.RunUntil(prev + 1.0) {
		require.GreaterOrEqual(t, stepped.VirtualTime(), prev, "clock is non-decreasing")
		prev += 1.0
	}

	require.Equal(t, full.Results(), stepped.Results())
	require.Equal(t, full.EventsProcessed(), stepped.EventsProcessed())
}

func TestDropLogging(t *testing.T) {
	cfg := saturatedConfig(DisciplineFCFS)
	sim, err := NewSimulator(cfg)
	require.NoError(t, err)

	var dropLogs int
	sim.LogEvent = func(string) { dropLogs++ }
	sim.Run()

	var dropped int64
	for _, src := range sim.Results().Sources {
		dropped += src.Dropped
	}
	require.EqualValues(t, dropped, dropLogs)
}
