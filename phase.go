package uart

import "strconv"

// Phase identifies the section of a serial frame an engine is working
// through. Receiver and Transmitter share the same three-phase shape.
type Phase uint8

const (
	// PhaseWait is the idle phase: the receiver is watching for a start
	// bit, the transmitter is ready for a send request.
	PhaseWait Phase = iota
	// PhaseData covers the framed bits on the wire.
	PhaseData
	// PhaseStop covers the stop bit.
	PhaseStop
)

func (p Phase) String() string {
	switch p {
	case PhaseWait:
		return "WAIT"
	case PhaseData:
		return "DATA"
	case PhaseStop:
		return "STOP"
	}
	return "Phase(" + strconv.Itoa(int(p)) + ")"
}
