// Copyright 2025 the uart-interface authors
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"github.com/spf13/cobra"

	uart "github.com/foss-car/uart-interface"
)

var (
	// Link parameters
	clockHz       uint32
	baudRate      uint32
	dataBits      int
	pulseWidth    uint32
	filterSamples int
	filterSettle  uint32

	// Serial connection flags
	portName string

	// WebSocket connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool
)

var rootCmd = &cobra.Command{
	Use:   "uartsim",
	Short: "Cycle-accurate serial link simulator",
	Long: `uartsim drives a tick-accurate model of an asynchronous serial link:
a transmit engine, a noise-filtered receive engine and the derived
bit-period timing between them.

The bit period is clock/baud ticks, rounded down. Pass --pulse-width
to pin it directly instead of deriving it.

Connection modes for the bridge command:
  Serial:    --port /dev/ttyUSB0
  WebSocket: --url ws://host/path [--username user]

For WebSocket authentication, the password is read from the
UARTSIM_PASSWORD environment variable, or prompted interactively if
not set. There is intentionally no --password flag, which would leak
credentials into shell history.`,
	Version: "1.0.0",
}

func init() {
	rootCmd.PersistentFlags().Uint32Var(&clockHz, "clock", 1_000_000, "Simulated clock frequency in Hz")
	rootCmd.PersistentFlags().Uint32VarP(&baudRate, "baud", "b", 115_200, "Baud rate")
	rootCmd.PersistentFlags().IntVarP(&dataBits, "data-bits", "d", 8, "Data bits per frame (1..32)")
	rootCmd.PersistentFlags().Uint32Var(&pulseWidth, "pulse-width", 0, "Ticks per bit period (0 = derive from clock and baud)")
	rootCmd.PersistentFlags().IntVar(&filterSamples, "filter-samples", 3, "Majority window of the receive filter")
	rootCmd.PersistentFlags().Uint32Var(&filterSettle, "filter-settle", 2, "Settle ticks before the receive filter samples")

	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device (bridge only)")
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL, ws:// or wss:// (bridge only)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")
}

// linkConfig assembles the engine configuration from the root flags.
// A nonzero --pulse-width wins by restating the clock as baud*width.
func linkConfig() uart.Config {
	cfg := uart.Config{
		ClockHz:  clockHz,
		BaudRate: baudRate,
		DataBits: dataBits,
		Filter: uart.FilterConfig{
			Settle:  filterSettle,
			Samples: filterSamples,
		},
	}
	if pulseWidth > 0 {
		cfg.ClockHz = baudRate * pulseWidth
	}
	return cfg
}

func newCore() (*uart.Core, error) {
	return uart.New(linkConfig())
}
