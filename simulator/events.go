package simulator

import "fmt"

// EventType represents the type of simulation event
type EventType int

const (
	EventTypeArrival EventType = iota
	EventTypeDeparture
)

func (et EventType) String() string {
	switch et {
	case EventTypeArrival:
		return "arrival"
	case EventTypeDeparture:
		return "departure"
	default:
		return "unknown"
	}
}

// Event is the base interface for all simulation events
type Event interface {
	Timestamp() float64 // Virtual time in seconds
	Type() EventType
	String() string
}

// ArrivalEvent represents the arrival instant of a packet from a source.
// The packet itself does not exist yet; it is generated by the handler.
type ArrivalEvent struct {
	timestamp float64
	sourceID  int
}

func NewArrivalEvent(timestamp float64, sourceID int) *ArrivalEvent {
	return &ArrivalEvent{
		timestamp: timestamp,
		sourceID:  sourceID,
	}
}

func (e *ArrivalEvent) Timestamp() float64 { return e.timestamp }
func (e *ArrivalEvent) Type() EventType    { return EventTypeArrival }
func (e *ArrivalEvent) SourceID() int      { return e.sourceID }
func (e *ArrivalEvent) String() string {
	return fmt.Sprintf("Arrival(t=%.6fs, src=%d)", e.timestamp, e.sourceID)
}

// DepartureEvent represents a packet finishing transmission on the link.
// The event owns the in-flight packet until the handler consumes it.
type DepartureEvent struct {
	timestamp float64
	packet    *Packet
}

func NewDepartureEvent(timestamp float64, packet *Packet) *DepartureEvent {
	return &DepartureEvent{
		timestamp: timestamp,
		packet:    packet,
	}
}

func (e *DepartureEvent) Timestamp() float64 { return e.timestamp }
func (e *DepartureEvent) Type() EventType    { return EventTypeDeparture }
func (e *DepartureEvent) Packet() *Packet    { return e.packet }
func (e *DepartureEvent) String() string {
	return fmt.Sprintf("Departure(t=%.6fs, pkt=%d, src=%d, size=%dB)",
		e.timestamp, e.packet.ID, e.packet.SourceID, e.packet.Size)
}
