// Copyright 2025 the uart-interface authors
// Licensed under the MIT license. See license text in the LICENSE file.

// Package uarttest provides utility functions for testing the serial
// engines: tick-exact frame construction, glitch injection and loopback
// drives.
package uarttest

import (
	"testing"

	uart "github.com/foss-car/uart-interface"
)

// Frame returns the tick-exact line levels of one serial frame carrying
// word: a start bit, dataBits data bits LSB first and a stop bit, each
// held for pulseWidth ticks.
func Frame(word uint32, dataBits int, pulseWidth uint32) []bool {
	seq := make([]bool, 0, (uint32(dataBits)+2)*pulseWidth)
	seq = appendLevel(seq, false, pulseWidth)
	for i := 0; i < dataBits; i++ {
		seq = appendLevel(seq, word>>uint(i)&1 != 0, pulseWidth)
	}
	return appendLevel(seq, true, pulseWidth)
}

// Idle returns n ticks of idle-high line.
func Idle(n int) []bool {
	seq := make([]bool, n)
	for i := range seq {
		seq[i] = true
	}
	return seq
}

// Glitch returns a copy of seq with the single sample at index at
// inverted.
func Glitch(seq []bool, at int) []bool {
	out := make([]bool, len(seq))
	copy(out, seq)
	out[at] = !out[at]
	return out
}

func appendLevel(seq []bool, level bool, n uint32) []bool {
	for i := uint32(0); i < n; i++ {
		seq = append(seq, level)
	}
	return seq
}

// Collect drives line through r, one sample per tick, and returns every
// word committed along the way.
func Collect(r *uart.Receiver, pulseWidth uint32, line []bool) []uint32 {
	var words []uint32
	for _, lvl := range line {
		out := r.Tick(uart.RxIn{Line: lvl, PulseWidth: pulseWidth})
		if out.Done {
			words = append(words, out.Word)
		}
	}
	return words
}

// RoundTrip sends word through a fresh Transmitter wired back into a
// fresh Receiver and fails t unless exactly one frame carrying the same
// word comes out. The send request is asserted for a single tick after an
// idle guard long enough to fill the receive filter.
func RoundTrip(t *testing.T, dataBits int, pulseWidth uint32, word uint32, filter uart.FilterConfig) {
	t.Helper()

	tx := uart.NewTransmitter(dataBits)
	rx := uart.NewReceiver(dataBits, filter)

	guard := int(filter.Settle) + filter.Samples + 2
	budget := guard + int((uint32(dataBits)+4)*pulseWidth) + filter.Samples + 8

	var got []uint32
	for i := 0; i < budget; i++ {
		txOut := tx.Tick(uart.TxIn{
			Word:       word,
			Send:       i == guard,
			PulseWidth: pulseWidth,
		})
		rxOut := rx.Tick(uart.RxIn{
			Line:       txOut.Line,
			PulseWidth: pulseWidth,
		})
		if rxOut.Done {
			got = append(got, rxOut.Word)
		}
	}
	if len(got) != 1 {
		t.Fatalf("DW=%d PW=%d word=%#x: decoded %d frames %v, want exactly 1",
			dataBits, pulseWidth, word, len(got), got)
	}
	if got[0] != word {
		t.Errorf("DW=%d PW=%d: round trip = %#x, want %#x", dataBits, pulseWidth, got[0], word)
	}
}
