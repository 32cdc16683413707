// Copyright 2025 the uart-interface authors
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	uart "github.com/foss-car/uart-interface"
	"github.com/foss-car/uart-interface/trace"
)

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Re-decode a captured trace and diff it against the recording",
	Long: `Feed the receive line of a captured trace through a fresh receive
engine and compare every tick against what the capture decoded. The
link flags must match the ones used during capture.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg := linkConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return errors.Wrap(err, "trace file")
	}
	defer f.Close()

	recs, err := trace.ReadAll(f)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return errors.New("empty trace")
	}

	rx := uart.NewReceiver(cfg.DataBits, cfg.Filter)
	pw := cfg.PulseWidth()
	digits := hexDigits(cfg.DataBits)
	decoded, mismatches := 0, 0

	for _, r := range recs {
		out := rx.Tick(uart.RxIn{Line: r.RxLine, PulseWidth: pw})
		if out.Done {
			decoded++
			fmt.Printf("tick %6d  0x%0*X\n", r.Tick, digits, out.Word)
		}
		if out.Done != r.Done || (out.Done && out.Word != r.Word) {
			mismatches++
			fmt.Printf("tick %6d  diverged: capture done=%v word=0x%0*X, replay done=%v word=0x%0*X\n",
				r.Tick, r.Done, digits, r.Word, out.Done, digits, out.Word)
		}
	}

	fmt.Printf("\n%d records, %d words decoded, %d divergent ticks\n",
		len(recs), decoded, mismatches)
	if mismatches > 0 {
		return errors.Errorf("replay diverged from capture at %d ticks", mismatches)
	}
	return nil
}
