// Copyright 2025 the uart-interface authors
// Licensed under the MIT license. See license text in the LICENSE file.

package uart

// FilterConfig parameterizes a Filter.
type FilterConfig struct {
	// Settle is the number of ticks after reset during which no samples
	// are taken and the output holds its primed level.
	Settle uint32
	// Samples is the size of the majority-vote window. Values below 1
	// are clamped to 1, which passes the raw sample through unchanged.
	// Odd sizes give equal propagation delay on rising and falling edges
	// and can never tie.
	Samples int
}

// DefaultFilterConfig suits pulse widths of two ticks and up. Lines with
// single-tick bit periods need Samples: 1, since any real window smears a
// signal that changes level every tick.
var DefaultFilterConfig = FilterConfig{Settle: 2, Samples: 3}

// Filter debounces the receive line.
//
//	Inputs: raw
//	Outputs: out
//	Function: out = majority level of the last Samples raw samples,
//	          ties resolving low.
//
// The window is primed to the idle-high line level, so a receiver reset
// onto an idle line sees a stable high until real samples have filled the
// window; a start-bit transition can never be fabricated out of reset.
// A glitch shorter than half the window is absorbed without the output
// changing; a sustained level change propagates once a majority of the
// window carries it. The filter runs every tick regardless of the
// receiver's phase.
type Filter struct {
	window []bool
	pos    int
	settle uint32
	wait   uint32 // settle ticks remaining
	out    bool
}

// NewFilter returns a Filter with its window primed high.
func NewFilter(cfg FilterConfig) *Filter {
	n := cfg.Samples
	if n < 1 {
		n = 1
	}
	f := &Filter{
		window: make([]bool, n),
		settle: cfg.Settle,
	}
	f.Reset()
	return f
}

// Reset re-primes the window high and restarts the settle delay.
func (f *Filter) Reset() {
	for i := range f.window {
		f.window[i] = true
	}
	f.pos = 0
	f.wait = f.settle
	f.out = true
}

// Tick feeds one raw line sample and returns the denoised level.
func (f *Filter) Tick(raw bool) bool {
	if f.wait > 0 {
		f.wait--
		return f.out
	}
	f.window[f.pos] = raw
	f.pos++
	if f.pos == len(f.window) {
		f.pos = 0
	}
	high := 0
	for _, s := range f.window {
		if s {
			high++
		}
	}
	f.out = high*2 > len(f.window)
	return f.out
}
