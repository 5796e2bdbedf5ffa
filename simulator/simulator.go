package simulator

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
)

// Simulator is a PURE discrete event simulator with NO concurrency
// primitives. All state is advanced single-threaded through Run or RunUntil;
// the caller (cmd/server) manages pacing and threading.
//
// Given the same configuration and seed, two runs produce identical
// counters: all randomness flows through one seeded generator, and the event
// queue breaks timestamp ties by insertion order.
type Simulator struct {
	config  SimConfig
	sources []*Source
	stats   []SourceStats
	queue   *EventQueue
	sched   Scheduler

	currentTime     float64
	linkBusy        bool
	nextPacketID    int64
	eventsProcessed int64
	started         bool

	// lastVirtualTime tracks the WFQ system virtual time observed at the
	// previous transmission start, for the strict-mode monotonicity check.
	lastVirtualTime float64

	rng *rand.Rand

	// Event logging callback (optional, for UI/debugging)
	LogEvent func(msg string)
}

// NewSimulator creates a new simulator
func NewSimulator(config SimConfig) (*Simulator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	src := rand.NewSource(uint64(config.RandomSeed))
	rng := rand.New(src)

	sources := make([]*Source, len(config.Sources))
	for i, sc := range config.Sources {
		sources[i] = newSource(i, sc, config.SimulationTime, src, rng)
	}

	return &Simulator{
		config:       config,
		sources:      sources,
		stats:        make([]SourceStats, len(sources)),
		queue:        NewEventQueue(),
		sched:        NewScheduler(config.Discipline, config.BufferSize),
		nextPacketID: 1,
		rng:          rng,
	}, nil
}

// Config returns the simulator's configuration.
func (s *Simulator) Config() SimConfig { return s.config }

// VirtualTime returns the current simulation clock in seconds.
func (s *Simulator) VirtualTime() float64 { return s.currentTime }

// EventsProcessed returns the number of events consumed so far.
func (s *Simulator) EventsProcessed() int64 { return s.eventsProcessed }

// BufferLen returns the current buffer occupancy in packets.
func (s *Simulator) BufferLen() int { return s.sched.Len() }

// Done reports whether no further events remain.
func (s *Simulator) Done() bool { return s.started && s.queue.IsEmpty() }

// Results reduces the current counters into aggregate metrics. It can be
// called at any point; after Run it yields the final report data.
func (s *Simulator) Results() *Results {
	return reduce(s.config, s.sources, s.stats, s.currentTime)
}

// Run executes the simulation to completion: it seeds one arrival per
// source at its activation start, then consumes events in time order until
// the queue drains or the horizon is passed.
func (s *Simulator) Run() {
	s.start()
	for {
		event := s.queue.Pop()
		if event == nil {
			return
		}
		if !s.dispatch(event) {
			return
		}
	}
}

// RunUntil consumes events with timestamps up to t, leaving later events
// queued. It returns false once the simulation has no further events to
// process, true if it stopped because the next event lies beyond t.
func (s *Simulator) RunUntil(t float64) bool {
	s.start()
	for {
		next := s.queue.Peek()
		if next == nil {
			return false
		}
		if next.Timestamp() > t {
			return true
		}
		if !s.dispatch(s.queue.Pop()) {
			return false
		}
	}
}

func (s *Simulator) start() {
	if s.started {
		return
	}
	s.started = true
	for _, src := range s.sources {
		s.schedule(NewArrivalEvent(src.StartTime, src.ID))
	}
}

// dispatch advances the clock to the event and runs its handler. It returns
// false when the event lies past the horizon, which ends the run.
func (s *Simulator) dispatch(event Event) bool {
	if event.Timestamp() > s.config.SimulationTime {
		return false
	}
	s.currentTime = event.Timestamp()
	s.eventsProcessed++

	switch e := event.(type) {
	case *ArrivalEvent:
		s.handleArrival(e)
	case *DepartureEvent:
		s.handleDeparture(e)
	default:
		panic(fmt.Sprintf("BUG: unknown event type %T", event))
	}
	return true
}

// schedule admits an event into the queue. Events past the horizon are
// silently discarded: nothing beyond it is ever observed.
func (s *Simulator) schedule(event Event) {
	if event.Timestamp() > s.config.SimulationTime {
		return
	}
	s.queue.Push(event)
}

func (s *Simulator) handleArrival(e *ArrivalEvent) {
	src := s.sources[e.SourceID()]

	// Schedule this source's next arrival. A draw landing at or beyond the
	// activation window's end silences the source for good.
	nextArrival := s.currentTime + src.NextInterarrival()
	if nextArrival < src.EndTime {
		s.schedule(NewArrivalEvent(nextArrival, src.ID))
	}

	p := &Packet{
		ID:          s.nextPacketID,
		SourceID:    src.ID,
		Size:        src.NextPacketSize(),
		Weight:      src.Weight,
		ArrivalTime: s.currentTime,
	}
	s.nextPacketID++
	s.stats[src.ID].PacketsGenerated++

	prevFinish := src.LastFinishTime
	if victim := s.sched.Admit(p, src); victim != nil {
		s.stats[victim.SourceID].PacketsDropped++
		if s.LogEvent != nil {
			s.LogEvent(fmt.Sprintf("t=%.6f drop pkt=%d src=%d (buffer full)",
				s.currentTime, victim.ID, victim.SourceID))
		}
	}

	if s.config.StrictChecks {
		if src.LastFinishTime < prevFinish {
			panic(fmt.Sprintf("BUG: source %d lastFinishTime decreased: %g -> %g",
				src.ID, prevFinish, src.LastFinishTime))
		}
		limit := s.config.BufferSize
		if s.config.Discipline == DisciplineWFQ && limit == 0 {
			limit = 1 // zero-capacity WFQ holds the arrival until displaced
		}
		if s.sched.Len() > limit {
			panic(fmt.Sprintf("BUG: buffer occupancy %d exceeds capacity %d",
				s.sched.Len(), s.config.BufferSize))
		}
	}

	s.startNextTransmission()
}

func (s *Simulator) handleDeparture(e *DepartureEvent) {
	s.linkBusy = false
	p := e.Packet()

	st := &s.stats[p.SourceID]
	st.PacketsTransmitted++
	st.BytesTransmitted += float64(p.Size)
	st.TotalDelay += s.currentTime - p.ArrivalTime

	s.startNextTransmission()
}

// startNextTransmission pulls the scheduler's next packet onto the link if
// it is idle. The link is a single server: at most one packet is in flight.
func (s *Simulator) startNextTransmission() {
	if s.linkBusy {
		return
	}
	p := s.sched.Next()
	if p == nil {
		return
	}
	s.linkBusy = true

	if s.config.StrictChecks {
		if wfq, ok := s.sched.(*wfqQueue); ok {
			v := wfq.SystemVirtualTime()
			// Tolerate rounding from the F - L/w reconstruction of the start time.
			tol := 1e-9 * (1 + math.Abs(s.lastVirtualTime))
			if v < s.lastVirtualTime-tol {
				panic(fmt.Sprintf("BUG: system virtual time decreased: %g -> %g",
					s.lastVirtualTime, v))
			}
			s.lastVirtualTime = v
		}
	}

	// A departure landing past the horizon is discarded by schedule(); the
	// packet then counts as still buffered at the end of the run.
	transmission := float64(p.Size) / s.config.LinkCapacity
	s.schedule(NewDepartureEvent(s.currentTime+transmission, p))
}
