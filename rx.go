// Copyright 2025 the uart-interface authors
// Licensed under the MIT license. See license text in the LICENSE file.

package uart

// RxIn carries the per-tick inputs of a Receiver.
type RxIn struct {
	Line       bool   // raw receive-line sample
	PulseWidth uint32 // ticks per bit period; must hold still within a frame
	Reset      bool
}

// RxOut carries the per-tick outputs of a Receiver. Done is true for
// exactly one tick per decoded frame, and Word holds the just-completed
// word on that same tick: a consumer polling Done always observes the
// matching word with zero skew.
type RxOut struct {
	Word uint32
	Done bool
}

// Receiver decodes an asynchronous serial line into parallel words.
//
//	Inputs: line, pulseWidth, reset
//	Outputs: word[dataBits], done
//	Function: WAIT for a start bit, sample dataBits data bits at the
//	          midpoint of each bit period (LSB first), check the stop
//	          bit, commit the word and pulse done for one tick.
//
// The line passes through the Filter before it reaches the state machine,
// every tick, whatever the phase. Start-bit detection arms the period
// timer; the first data bit is sampled one and a half bit periods later,
// each following bit one period after that, so samples land mid-bit and
// tolerate phase drift up to half a period.
//
// A low level at the stop-bit sample is not an error: the engine stays in
// the stop phase and re-samples once per bit period until the line reads
// high, then completes the frame. The stall resynchronizes the receiver
// after a framing break without reporting anything.
//
// The zero Receiver is not usable; construct with NewReceiver. Per-tick
// inputs are trusted (a zero pulse width is a caller contract violation).
type Receiver struct {
	dataBits int
	filter   *Filter

	phase  Phase
	timing Counter
	bits   Counter
	shift  uint32
	word   uint32
	done   bool
}

// NewReceiver returns a Receiver decoding dataBits-wide words (1..32, not
// validated here; Config.Validate covers callers that want checking) with
// the given line filter.
func NewReceiver(dataBits int, filter FilterConfig) *Receiver {
	return &Receiver{
		dataBits: dataBits,
		filter:   NewFilter(filter),
	}
}

// Phase returns the phase committed by the most recent tick.
func (r *Receiver) Phase() Phase { return r.phase }

// Tick advances the receiver by one clock cycle. All next-state values are
// computed from the previously committed state and this tick's inputs,
// then committed together, so Done and Word can never desynchronize.
func (r *Receiver) Tick(in RxIn) RxOut {
	if in.Reset {
		r.filter.Reset()
		r.timing.Tick(CounterIn{Reset: true})
		r.bits.Tick(CounterIn{Reset: true})
		r.phase = PhaseWait
		r.shift = 0
		r.done = false
		return RxOut{Word: r.word}
	}

	d := r.filter.Tick(in.Line)
	r.done = false

	switch r.phase {
	case PhaseWait:
		// Both counters are held in reset while the line idles. The
		// first low sample arms them and opens the extended first
		// sampling window.
		r.timing.Tick(CounterIn{SoftReset: true})
		r.bits.Tick(CounterIn{SoftReset: true})
		if !d {
			r.shift = 0
			r.phase = PhaseData
		}

	case PhaseData:
		// bits.Count is the index of the bit being received. The
		// first sample sits one and a half periods after the start
		// edge; later ones follow a one-period cadence, the timer
		// re-arming itself on the tick after it saturates.
		limit := in.PulseWidth - 1
		if r.bits.Count() == 0 {
			limit = in.PulseWidth + in.PulseWidth/2
		}
		_, sample := r.timing.Tick(CounterIn{
			Enable:    true,
			SoftReset: r.timing.Count() >= limit,
			Limit:     limit,
		})
		last := false
		if sample {
			// Mid-bit: shift d in as the new MSB of the right
			// shifted register. Bits arrive LSB first.
			r.shift >>= 1
			if d {
				r.shift |= 1 << (uint(r.dataBits) - 1)
			}
			last = r.bits.Count() == uint32(r.dataBits)-1
		}
		r.bits.Tick(CounterIn{Enable: sample, Limit: uint32(r.dataBits) - 1})
		if last {
			r.phase = PhaseStop
		}

	case PhaseStop:
		limit := in.PulseWidth - 1
		_, sample := r.timing.Tick(CounterIn{
			Enable:    true,
			SoftReset: r.timing.Count() >= limit,
			Limit:     limit,
		})
		r.bits.Tick(CounterIn{})
		if sample && d {
			// Valid stop bit: word and done commit on the same
			// tick. A low sample means a framing stall; the timer
			// keeps polling once per bit period until the line
			// returns high.
			r.word = r.shift
			r.done = true
			r.phase = PhaseWait
		}

	default:
		// Unreachable phase encoding: collapse to a clean WAIT.
		r.timing.Tick(CounterIn{Reset: true})
		r.bits.Tick(CounterIn{Reset: true})
		r.phase = PhaseWait
		r.shift = 0
	}

	return RxOut{Word: r.word, Done: r.done}
}
