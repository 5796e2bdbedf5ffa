package simulator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJainIndex(t *testing.T) {
	t.Run("equal shares give 1", func(t *testing.T) {
		require.InDelta(t, 1.0, jainIndex([]float64{5, 5, 5, 5}), 1e-12)
	})

	t.Run("single user floor is 1/N", func(t *testing.T) {
		require.InDelta(t, 0.25, jainIndex([]float64{8, 0, 0, 0}), 1e-12)
	})

	t.Run("all zero gives 0", func(t *testing.T) {
		require.Equal(t, 0.0, jainIndex([]float64{0, 0, 0}))
	})

	t.Run("1 to 9 split", func(t *testing.T) {
		// (1+9)^2 / (2*(1+81))
		require.InDelta(t, 100.0/164.0, jainIndex([]float64{1, 9}), 1e-12)
	})
}

func TestReduceEmptyRun(t *testing.T) {
	cfg := SimConfig{
		Discipline:     DisciplineFCFS,
		SimulationTime: 10,
		LinkCapacity:   1000,
		BufferSize:     5,
		Sources: []SourceConfig{
			{PacketRate: 1, MinSize: 10, MaxSize: 10, Weight: 1, StartFrac: 0, EndFrac: 1},
		},
	}
	sources := []*Source{{ID: 0, Weight: 1}}
	stats := []SourceStats{{}}

	r := reduce(cfg, sources, stats, 0)
	require.Equal(t, 0.0, r.Utilization)
	require.Equal(t, 0.0, r.AvgDelay)
	require.Equal(t, 0.0, r.DropProbability)
	require.Equal(t, 0.0, r.FairnessIndex)
	require.EqualValues(t, 0, r.Sources[0].Buffered)
}

func TestReduceDisciplineFairShares(t *testing.T) {
	cfg := SimConfig{
		SimulationTime: 10,
		LinkCapacity:   1e6,
		Sources: []SourceConfig{
			{Weight: 1}, {Weight: 9},
		},
	}
	sources := []*Source{{ID: 0, Weight: 1}, {ID: 1, Weight: 9}}
	stats := []SourceStats{
		{PacketsGenerated: 100, PacketsTransmitted: 100, BytesTransmitted: 1000},
		{PacketsGenerated: 100, PacketsTransmitted: 100, BytesTransmitted: 9000},
	}

	cfg.Discipline = DisciplineFCFS
	raw := reduce(cfg, sources, stats, 10)
	require.InDelta(t, 100.0/164.0, raw.FairnessIndex, 1e-12, "raw throughput 1:9")

	// Weight-normalized shares are equal, so WFQ fairness is 1.
	cfg.Discipline = DisciplineWFQ
	normalized := reduce(cfg, sources, stats, 10)
	require.InDelta(t, 1.0, normalized.FairnessIndex, 1e-12)
}

func TestReducePerSourceMetrics(t *testing.T) {
	cfg := SimConfig{
		Discipline:     DisciplineFCFS,
		SimulationTime: 20,
		LinkCapacity:   500,
		Sources:        []SourceConfig{{Weight: 2}},
	}
	sources := []*Source{{ID: 0, Weight: 2}}
	stats := []SourceStats{{
		PacketsGenerated:   10,
		PacketsTransmitted: 6,
		PacketsDropped:     3,
		BytesTransmitted:   3000,
		TotalDelay:         1.2,
	}}

	r := reduce(cfg, sources, stats, 20)
	src := r.Sources[0]
	require.EqualValues(t, 1, src.Buffered)
	require.InDelta(t, 0.3, src.DropRate, 1e-12)
	require.InDelta(t, 0.2, src.AvgDelay, 1e-12)
	require.InDelta(t, 150.0, src.Throughput, 1e-12)

	require.InDelta(t, 3000.0/(500*20), r.Utilization, 1e-12)
	require.InDelta(t, 0.3, r.DropProbability, 1e-12)
	require.InDelta(t, 0.2, r.AvgDelay, 1e-12)
}
