package simulator

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// Source is a stochastic traffic generator feeding the shared link.
// Interarrival times are exponential with rate PacketRate; packet sizes are
// discrete uniform on [MinSize, MaxSize]. A source only generates arrivals
// inside its activation window [StartTime, EndTime).
//
// All sources draw from the one generator owned by the simulator, so the
// draw order (and therefore the whole run) is determined by event dispatch
// order.
type Source struct {
	ID         int
	PacketRate float64 // packets per second
	MinSize    int     // bytes, inclusive
	MaxSize    int     // bytes, inclusive
	Weight     float64
	StartTime  float64
	EndTime    float64

	// LastFinishTime is the VFT of this source's most recently generated
	// packet. Only the WFQ scheduler reads or advances it.
	LastFinishTime float64

	arrivalDist distuv.Exponential
	rng         *rand.Rand
}

func newSource(id int, cfg SourceConfig, simulationTime float64, src rand.Source, rng *rand.Rand) *Source {
	return &Source{
		ID:         id,
		PacketRate: cfg.PacketRate,
		MinSize:    cfg.MinSize,
		MaxSize:    cfg.MaxSize,
		Weight:     cfg.Weight,
		StartTime:  cfg.StartFrac * simulationTime,
		EndTime:    cfg.EndFrac * simulationTime,
		arrivalDist: distuv.Exponential{
			Rate: cfg.PacketRate,
			Src:  src,
		},
		rng: rng,
	}
}

// NextInterarrival draws the delay until this source's next arrival.
func (s *Source) NextInterarrival() float64 {
	return s.arrivalDist.Rand()
}

// NextPacketSize draws a packet size in [MinSize, MaxSize].
func (s *Source) NextPacketSize() int {
	if s.MinSize >= s.MaxSize {
		return s.MinSize
	}
	return s.MinSize + s.rng.Intn(s.MaxSize-s.MinSize+1)
}
