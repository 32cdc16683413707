// Copyright 2025 the uart-interface authors
// Licensed under the MIT license. See license text in the LICENSE file.

package uart

import "github.com/pkg/errors"

// Input carries the per-tick stimulus of a Core.
type Input struct {
	RxLine bool   // raw receive-line sample
	Word   uint32 // word to transmit, sampled while Ready
	Send   bool   // level-sensitive send request
	Reset  bool
}

// Output carries the per-tick signals of a Core: the receiver pair and the
// transmitter pair. Word and Done obey the Receiver contract (consistent
// on the same tick); TxLine and Ready obey the Transmitter contract.
type Output struct {
	Word   uint32
	Done   bool
	TxLine bool
	Ready  bool
}

// Core is the thin composition of one Receiver and one Transmitter
// sharing a clock, a reset and a pulse width. The engines stay fully
// independent: nothing flows between them inside the Core.
//
// The pulse width is re-derived from the Config on every tick, so
// SetBaudRate takes effect without rebuilding the engines. Changing it
// mid-frame desynchronizes that frame; change it while the link is quiet.
type Core struct {
	cfg Config
	rx  *Receiver
	tx  *Transmitter

	stats     Stats
	lastReady bool
}

// New builds a Core from cfg. Unlike the engines, New validates: a Core is
// the boundary where callers hand over clock arithmetic.
func New(cfg Config) (*Core, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "core config")
	}
	return &Core{
		cfg:       cfg,
		rx:        NewReceiver(cfg.DataBits, cfg.filterConfig()),
		tx:        NewTransmitter(cfg.DataBits),
		lastReady: true,
	}, nil
}

// Tick advances both engines by one clock cycle.
func (c *Core) Tick(in Input) Output {
	pw := c.cfg.PulseWidth()
	txOut := c.tx.Tick(TxIn{
		Word:       in.Word,
		Send:       in.Send,
		PulseWidth: pw,
		Reset:      in.Reset,
	})
	rxOut := c.rx.Tick(RxIn{
		Line:       in.RxLine,
		PulseWidth: pw,
		Reset:      in.Reset,
	})

	c.stats.Ticks++
	if c.lastReady && !txOut.Ready {
		// Leaving WAIT only ever means a word was captured.
		c.stats.FramesSent++
	}
	c.lastReady = txOut.Ready
	if rxOut.Done {
		c.stats.FramesReceived++
	}

	return Output{
		Word:   rxOut.Word,
		Done:   rxOut.Done,
		TxLine: txOut.Line,
		Ready:  txOut.Ready,
	}
}

// SetBaudRate changes the live baud rate. The new pulse width applies from
// the next tick.
func (c *Core) SetBaudRate(baud uint32) error {
	next := c.cfg
	next.BaudRate = baud
	if err := next.Validate(); err != nil {
		return errors.Wrap(err, "baud rate change")
	}
	c.cfg = next
	return nil
}

// Config returns the Core's current configuration.
func (c *Core) Config() Config { return c.cfg }

// PulseWidth returns the bit period, in ticks, the next tick will use.
func (c *Core) PulseWidth() uint32 { return c.cfg.PulseWidth() }

// RxPhase returns the receiver phase committed by the most recent tick.
func (c *Core) RxPhase() Phase { return c.rx.Phase() }

// TxPhase returns the transmitter phase committed by the most recent tick.
func (c *Core) TxPhase() Phase { return c.tx.Phase() }

// Stats returns a copy of the frame counters.
func (c *Core) Stats() Stats { return c.stats }
