// Copyright 2025 the uart-interface authors
// Licensed under the MIT license. See license text in the LICENSE file.

package uart

// CounterIn groups the per-tick control inputs of a Counter. Limit is
// sampled every tick, so the driving state machine may move the target
// between ticks; the comparison always uses the value supplied with the
// current tick.
type CounterIn struct {
	Enable    bool   // count up this tick
	Reset     bool   // external reset, forces count to 0
	SoftReset bool   // state-machine re-arm, forces count to 0
	Limit     uint32 // saturation target for this tick
}

// Counter is a saturating up-counter.
//
//	Inputs: enable, reset, softReset, limit
//	Outputs: count, atLimit
//	Function: count = 0 on reset or softReset,
//	          count = count+1 while enable is set and count < limit,
//	          count holds otherwise. atLimit = (count == limit).
//
// Once count reaches limit it holds there; only a reset re-arms it. The
// engines use one Counter to time bit periods and a second one to count
// bits transferred, so the two never drift apart in semantics.
type Counter struct {
	count uint32
}

// Tick advances the counter by one clock cycle and returns the committed
// count together with the derived atLimit signal.
func (c *Counter) Tick(in CounterIn) (count uint32, atLimit bool) {
	switch {
	case in.Reset || in.SoftReset:
		c.count = 0
	case in.Enable && c.count < in.Limit:
		c.count++
	}
	return c.count, c.count == in.Limit
}

// Count returns the value committed by the most recent tick.
func (c *Counter) Count() uint32 { return c.count }
