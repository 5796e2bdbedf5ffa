package main

import (
	"flag"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkarpov/linksched/simulator"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for development
		return true
	},
}

// Client message types
type ClientMessage struct {
	Type   string               `json:"type"`
	Config *simulator.SimConfig `json:"config,omitempty"`
}

// Server message types
type ServerMessage struct {
	Type        string               `json:"type"`
	Running     *bool                `json:"running,omitempty"`
	Error       string               `json:"error,omitempty"`
	Config      *simulator.SimConfig `json:"config,omitempty"`
	Results     *simulator.Results   `json:"results,omitempty"`
	VirtualTime float64              `json:"virtualTime,omitempty"`
}

// safeConn serializes websocket writes between the read loop and the
// update loop goroutine.
type safeConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *safeConn) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// simState manages the simulation and UI pacing for one client
type simState struct {
	mu      sync.Mutex
	sim     *simulator.Simulator
	running bool
	done    bool
	stopCh  chan struct{}
}

func newSimState(config simulator.SimConfig) (*simState, error) {
	sim, err := simulator.NewSimulator(config)
	if err != nil {
		return nil, err
	}
	return &simState{
		sim:    sim,
		stopCh: make(chan struct{}),
	}, nil
}

func (s *simState) start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.done {
		s.running = true
	}
}

func (s *simState) pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
}

// reset rebuilds the simulator from its own configuration
func (s *simState) reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sim, err := simulator.NewSimulator(s.sim.Config())
	if err != nil {
		return err
	}
	s.sim = sim
	s.running = false
	s.done = false
	return nil
}

// configure replaces the simulator with one built from config
func (s *simState) configure(config simulator.SimConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sim, err := simulator.NewSimulator(config)
	if err != nil {
		return err
	}
	s.sim = sim
	s.running = false
	s.done = false
	return nil
}

func (s *simState) config() simulator.SimConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sim.Config()
}

// snapshot is one UI update: reduced metrics plus live simulator state.
type snapshot struct {
	Results     *simulator.Results `json:"results"`
	VirtualTime float64            `json:"virtualTime"`
	BufferLen   int                `json:"bufferLen"`
	Running     bool               `json:"running"`
}

// step advances the simulation by deltaT virtual seconds and returns the
// current snapshot. done flips once no events remain.
func (s *simState) step(deltaT float64) snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running && !s.done {
		if !s.sim.RunUntil(s.sim.VirtualTime() + deltaT) {
			s.done = true
			s.running = false
		}
	}
	return snapshot{
		Results:     s.sim.Results(),
		VirtualTime: s.sim.VirtualTime(),
		BufferLen:   s.sim.BufferLen(),
		Running:     s.running,
	}
}

func (s *simState) stop() {
	close(s.stopCh)
}

// uiUpdateLoop periodically advances the simulation and pushes snapshots to
// the client. Runs in its own goroutine; it owns the pacing.
func uiUpdateLoop(conn *safeConn, state *simState) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-state.stopCh:
			log.Println("UI update loop stopping")
			return

		case <-ticker.C:
			snap := state.step(1.0)
			updatePrometheusMetrics(snap)

			msg := ServerMessage{
				Type:        "results",
				Running:     &snap.Running,
				Results:     snap.Results,
				VirtualTime: snap.VirtualTime,
			}
			if err := conn.writeJSON(msg); err != nil {
				log.Printf("Write error, closing update loop: %v", err)
				return
			}
		}
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Upgrade error: %v", err)
		return
	}
	defer wsConn.Close()
	conn := &safeConn{conn: wsConn}

	state, err := newSimState(simulator.DefaultConfig())
	if err != nil {
		log.Printf("Simulator init error: %v", err)
		return
	}
	defer state.stop()

	cfg := state.config()
	conn.writeJSON(ServerMessage{Type: "config", Config: &cfg})

	go uiUpdateLoop(conn, state)

	for {
		var msg ClientMessage
		if err := wsConn.ReadJSON(&msg); err != nil {
			log.Printf("Read error, closing connection: %v", err)
			return
		}

		switch msg.Type {
		case "start":
			state.start()
		case "pause":
			state.pause()
		case "reset":
			if err := state.reset(); err != nil {
				conn.writeJSON(ServerMessage{Type: "error", Error: err.Error()})
			}
		case "configure":
			if msg.Config == nil {
				conn.writeJSON(ServerMessage{Type: "error", Error: "configure requires a config"})
				continue
			}
			if err := state.configure(*msg.Config); err != nil {
				conn.writeJSON(ServerMessage{Type: "error", Error: err.Error()})
				continue
			}
			cfg := state.config()
			conn.writeJSON(ServerMessage{Type: "config", Config: &cfg})
		default:
			conn.writeJSON(ServerMessage{Type: "error", Error: "unknown message type: " + msg.Type})
		}
	}
}

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	flag.Parse()

	initPrometheusMetrics()

	http.HandleFunc("/ws", handleWebSocket)
	http.Handle("/metrics", promhttp.Handler())

	log.Printf("linksched server listening on %s", *addr)
	if err := http.ListenAndServe(*addr, nil); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
