// Copyright 2025 the uart-interface authors
// Licensed under the MIT license. See license text in the LICENSE file.

package uart

import "github.com/pkg/errors"

// Config describes a serial link: the tick clock driving the engines, the
// baud rate on the wire, and the frame shape. The engines themselves never
// see ClockHz or BaudRate; they consume the derived pulse width only, and
// they trust it. Validate is for callers that want the checking the
// engines deliberately omit.
type Config struct {
	ClockHz  uint32 // engine tick frequency
	BaudRate uint32 // line bits per second
	DataBits int    // word width, 1..32

	// Filter conditions the receive line. The zero value selects
	// DefaultFilterConfig.
	Filter FilterConfig
}

// Validate reports the first problem that would make the engines
// misbehave.
func (c Config) Validate() error {
	if c.ClockHz == 0 {
		return errors.New("zero clock frequency")
	}
	if c.BaudRate == 0 {
		return errors.New("zero baud rate")
	}
	if c.BaudRate > c.ClockHz {
		return errors.Errorf("baud rate %d above clock frequency %d", c.BaudRate, c.ClockHz)
	}
	if c.DataBits < 1 || c.DataBits > 32 {
		return errors.Errorf("data width %d out of range 1..32", c.DataBits)
	}
	return nil
}

// PulseWidth derives the bit period in ticks: floor(ClockHz / BaudRate).
// The lowest baud rate a deployment supports bounds the widest pulse the
// counters must represent; uint32 covers any practical clock/baud pair.
func (c Config) PulseWidth() uint32 {
	if c.BaudRate == 0 {
		return 0
	}
	return c.ClockHz / c.BaudRate
}

// filterConfig resolves the zero value to the default window.
func (c Config) filterConfig() FilterConfig {
	if c.Filter == (FilterConfig{}) {
		return DefaultFilterConfig
	}
	return c.Filter
}
