package uart

import "fmt"

// Stats counts frame-level events a Core observes on its own tick path:
// ticks executed, frames captured for transmission, frames decoded. The
// tick path is single-threaded, so these are plain counters; read them
// through Core.Stats, which returns a copy.
type Stats struct {
	Ticks          uint64
	FramesSent     uint64
	FramesReceived uint64
}

func (s Stats) String() string {
	return fmt.Sprintf("ticks=%d sent=%d received=%d", s.Ticks, s.FramesSent, s.FramesReceived)
}
