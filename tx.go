// Copyright 2025 the uart-interface authors
// Licensed under the MIT license. See license text in the LICENSE file.

package uart

// TxIn carries the per-tick inputs of a Transmitter. Send is level
// sensitive: the word is captured on any tick where the engine sits in
// WAIT with Send asserted. Callers that want exactly one frame must
// deassert Send once Ready goes false, or the engine will re-capture and
// resend the same word when it next returns to WAIT.
type TxIn struct {
	Word       uint32 // word to transmit, sampled only while Ready
	Send       bool   // level-sensitive send request
	PulseWidth uint32 // ticks per bit period; must hold still within a frame
	Reset      bool
}

// TxOut carries the per-tick outputs of a Transmitter.
type TxOut struct {
	Line  bool // transmit-line level, idle high
	Ready bool // true iff the engine is in WAIT
}

// Transmitter serializes parallel words onto an asynchronous serial line.
//
//	Inputs: word[dataBits], send, pulseWidth, reset
//	Outputs: line, ready
//	Function: WAIT idle-high until send; emit one start bit, dataBits
//	          data bits LSB first and one stop bit, each lasting one
//	          bit period; return to WAIT.
//
// The captured word is widened by the start bit (a zero in the lowest
// slot) and shifted out LSB first, so the wire sees start, data, stop.
// Capture leaves the line idle for the capture tick itself; the start bit
// begins on the following tick.
//
// The zero Transmitter is not usable; construct with NewTransmitter.
// Per-tick inputs are trusted (a zero pulse width is a caller contract
// violation).
type Transmitter struct {
	dataBits int
	mask     uint64

	phase  Phase
	timing Counter
	bits   Counter
	frame  uint64 // start bit plus data bits, consumed LSB first
	line   bool
}

// NewTransmitter returns a Transmitter sending dataBits-wide words (1..32,
// not validated here; Config.Validate covers callers that want checking).
func NewTransmitter(dataBits int) *Transmitter {
	return &Transmitter{
		dataBits: dataBits,
		mask:     1<<uint(dataBits) - 1,
		line:     true,
	}
}

// Phase returns the phase committed by the most recent tick.
func (t *Transmitter) Phase() Phase { return t.phase }

// Tick advances the transmitter by one clock cycle.
func (t *Transmitter) Tick(in TxIn) TxOut {
	if in.Reset {
		t.timing.Tick(CounterIn{Reset: true})
		t.bits.Tick(CounterIn{Reset: true})
		t.phase = PhaseWait
		t.frame = 0
		t.line = true
		return TxOut{Line: true, Ready: true}
	}

	switch t.phase {
	case PhaseWait:
		t.line = true
		t.timing.Tick(CounterIn{SoftReset: true})
		t.bits.Tick(CounterIn{SoftReset: true})
		if in.Send {
			// Level-sensitive capture. The start bit rides in the
			// lowest frame slot so the whole frame shifts out of
			// one register.
			t.frame = (uint64(in.Word) & t.mask) << 1
			t.phase = PhaseData
		}

	case PhaseData:
		// The wire carries the lowest frame bit for one period per
		// bit. bits.Count is the index of the boundary being timed:
		// boundary 0 ends the start bit and is measured from the
		// capture tick, so its window is one full period; later
		// boundaries follow the re-arming cadence.
		t.line = t.frame&1 != 0
		limit := in.PulseWidth - 1
		if t.bits.Count() == 0 {
			limit = in.PulseWidth
		}
		_, boundary := t.timing.Tick(CounterIn{
			Enable:    true,
			SoftReset: t.timing.Count() >= limit,
			Limit:     limit,
		})
		last := false
		if boundary {
			last = t.bits.Count() == uint32(t.dataBits)
		}
		t.bits.Tick(CounterIn{Enable: boundary, Limit: uint32(t.dataBits)})
		if last {
			t.phase = PhaseStop
		} else if boundary {
			t.frame >>= 1
		}

	case PhaseStop:
		t.line = true
		limit := in.PulseWidth - 1
		_, boundary := t.timing.Tick(CounterIn{
			Enable:    true,
			SoftReset: t.timing.Count() >= limit,
			Limit:     limit,
		})
		t.bits.Tick(CounterIn{})
		if boundary {
			t.phase = PhaseWait
		}

	default:
		// Unreachable phase encoding: collapse to a clean WAIT.
		t.timing.Tick(CounterIn{Reset: true})
		t.bits.Tick(CounterIn{Reset: true})
		t.phase = PhaseWait
		t.frame = 0
		t.line = true
	}

	return TxOut{Line: t.line, Ready: t.phase == PhaseWait}
}
