package simulator

import (
	"encoding/json"
	"fmt"
)

// Discipline represents the link scheduling discipline
type Discipline int

const (
	DisciplineFCFS Discipline = iota // First-Come-First-Serve with tail-drop
	DisciplineWFQ                    // Weighted Fair Queuing with smallest-VFT drop
)

// String returns the string representation of Discipline
func (d Discipline) String() string {
	switch d {
	case DisciplineFCFS:
		return "fcfs"
	case DisciplineWFQ:
		return "wfq"
	default:
		return "unknown"
	}
}

// Label returns the discipline name as printed in reports
func (d Discipline) Label() string {
	switch d {
	case DisciplineWFQ:
		return "WFQ"
	default:
		return "FCFS"
	}
}

// ParseDiscipline parses a string into a Discipline
func ParseDiscipline(s string) (Discipline, error) {
	switch s {
	case "fcfs":
		return DisciplineFCFS, nil
	case "wfq":
		return DisciplineWFQ, nil
	default:
		return DisciplineFCFS, fmt.Errorf("invalid discipline: %s (must be 'fcfs' or 'wfq')", s)
	}
}

// MarshalJSON implements json.Marshaler for Discipline
func (d Discipline) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler for Discipline
func (d *Discipline) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDiscipline(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler for Discipline
func (d Discipline) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler for Discipline
func (d *Discipline) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseDiscipline(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scheduler is the discipline-specific buffer: it decides admission and drop
// on arrival, and the order in which buffered packets are handed to the link.
type Scheduler interface {
	// Admit applies the discipline's admission and drop policy to a freshly
	// generated packet. It returns the dropped packet, or nil if the buffer
	// accepted the arrival without displacing anything.
	Admit(p *Packet, src *Source) *Packet

	// Next removes and returns the packet chosen for transmission, or nil
	// if the buffer is empty.
	Next() *Packet

	// Len returns the current buffer occupancy in packets.
	Len() int
}

// NewScheduler creates the buffer for the given discipline. bufferSize is the
// maximum number of packets held simultaneously.
func NewScheduler(d Discipline, bufferSize int) Scheduler {
	switch d {
	case DisciplineWFQ:
		return newWFQQueue(bufferSize)
	default:
		return newFCFSQueue(bufferSize)
	}
}
