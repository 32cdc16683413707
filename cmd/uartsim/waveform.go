// Copyright 2025 the uart-interface authors
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	uart "github.com/foss-car/uart-interface"
)

var waveformCmd = &cobra.Command{
	Use:   "waveform <word>",
	Short: "Print the transmit waveform of one word",
	Long: `Drive the transmit engine with a single word and print the exact
line level of every tick, capture tick included.`,
	Args: cobra.ExactArgs(1),
	RunE: runWaveform,
}

func init() {
	rootCmd.AddCommand(waveformCmd)
}

func runWaveform(cmd *cobra.Command, args []string) error {
	cfg := linkConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}
	word, err := parseWord(args[0], cfg.DataBits)
	if err != nil {
		return err
	}
	pw := cfg.PulseWidth()

	tx := uart.NewTransmitter(cfg.DataBits)
	var levels []bool
	for i := 0; ; i++ {
		out := tx.Tick(uart.TxIn{Word: word, Send: i == 0, PulseWidth: pw})
		levels = append(levels, out.Line)
		if i > 0 && out.Ready {
			break
		}
	}

	digits := hexDigits(cfg.DataBits)
	fmt.Printf("word 0x%0*X  data bits %d  pulse width %d  frame %d ticks\n\n",
		digits, word, cfg.DataBits, pw, len(levels))

	const wrap = 72
	for off := 0; off < len(levels); off += wrap {
		end := off + wrap
		if end > len(levels) {
			end = len(levels)
		}
		var sb strings.Builder
		for _, level := range levels[off:end] {
			if level {
				sb.WriteRune('▔')
			} else {
				sb.WriteRune('▁')
			}
		}
		fmt.Printf("%6d  %s\n", off, sb.String())
	}

	fmt.Printf("\n  tick  %4d         capture, line idle\n", 0)
	fmt.Printf("  ticks %4d..%-4d   start, low\n", 1, pw)
	for k := 0; k < cfg.DataBits; k++ {
		lo := uint32(k+1)*pw + 1
		fmt.Printf("  ticks %4d..%-4d   bit %-2d = %d\n", lo, lo+pw-1, k, word>>uint(k)&1)
	}
	lo := uint32(cfg.DataBits+1)*pw + 1
	fmt.Printf("  ticks %4d..%-4d   stop, high\n", lo, lo+pw-1)
	return nil
}
