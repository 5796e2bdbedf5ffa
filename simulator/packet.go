package simulator

// Packet is the unit of work moving from a source through the buffer to the
// link. Packets are created by the arrival handler and never mutated after
// admission; they are destroyed when dropped or when their departure event
// is consumed.
type Packet struct {
	ID          int64
	SourceID    int
	Size        int     // bytes
	Weight      float64 // copied from the source at creation; used by WFQ ordering
	ArrivalTime float64 // virtual time the packet entered the system

	// VirtualFinishTime is the WFQ virtual-clock instant at which the packet
	// would complete service under GPS. Zero under FCFS.
	VirtualFinishTime float64
}
