// Copyright 2025 the uart-interface authors
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	uart "github.com/foss-car/uart-interface"
)

// jumper loops the transmit line of a core back into its own receiver,
// delayed by one tick like an external wire.
type jumper struct {
	core   *uart.Core
	txLine bool
	ticks  uint64
}

func newJumper(core *uart.Core) *jumper {
	return &jumper{core: core, txLine: true}
}

func (j *jumper) step(word uint32, send bool) uart.Output {
	out := j.core.Tick(uart.Input{RxLine: j.txLine, Word: word, Send: send})
	j.txLine = out.TxLine
	j.ticks++
	return out
}

// reset spends one tick driving both engines back to idle.
func (j *jumper) reset() {
	j.core.Tick(uart.Input{RxLine: true, Reset: true})
	j.txLine = true
	j.ticks++
}

// carry clocks one word across the link and returns what the receiver
// decoded. ok is false when nothing arrives within budget ticks.
func (j *jumper) carry(word uint32, budget int) (decoded uint32, ok bool) {
	captured := false
	for i := 0; i < budget; i++ {
		out := j.step(word, !captured)
		if !captured && !out.Ready {
			captured = true
		}
		if captured && out.Done {
			return out.Word, true
		}
	}
	return 0, false
}

// frameBudget is a generous tick allowance for one word to round-trip
// the link, filter lag and wire delay included.
func frameBudget(cfg uart.Config) int {
	pw := int(cfg.PulseWidth())
	filter := int(cfg.Filter.Settle) + cfg.Filter.Samples
	return (cfg.DataBits+6)*pw + filter + 16
}

// hexDigits returns the digit count that fits a word of the configured
// width, for aligned output.
func hexDigits(dataBits int) int {
	return (dataBits + 3) / 4
}
