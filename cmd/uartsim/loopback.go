// Copyright 2025 the uart-interface authors
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/foss-car/uart-interface/trace"
)

var (
	loopbackCount   int
	loopbackSeed    int64
	loopbackCapture string
)

var loopbackCmd = &cobra.Command{
	Use:   "loopback [word...]",
	Short: "Send words through a looped-back link and decode them",
	Long: `Run the transmit engine into the receive engine through a one tick
wire and report every decoded word with its commit tick.

Words are hex (0x55 or 55). Without arguments, --count random words
are sent instead. --capture writes one CBOR record per simulation
tick for later replay.`,
	RunE: runLoopback,
}

func init() {
	loopbackCmd.Flags().IntVar(&loopbackCount, "count", 16, "Number of random words when no arguments are given")
	loopbackCmd.Flags().Int64Var(&loopbackSeed, "seed", 0, "Random seed for generated words (0 = time-based)")
	loopbackCmd.Flags().StringVar(&loopbackCapture, "capture", "", "Write a per-tick CBOR trace to this file")
	rootCmd.AddCommand(loopbackCmd)
}

func parseWord(arg string, dataBits int) (uint32, error) {
	s := strings.TrimPrefix(strings.ToLower(arg), "0x")
	w, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "word %q", arg)
	}
	mask := uint64(1)<<uint(dataBits) - 1
	if w > mask {
		return 0, errors.Errorf("word %q does not fit in %d data bits", arg, dataBits)
	}
	return uint32(w), nil
}

func runLoopback(cmd *cobra.Command, args []string) error {
	core, err := newCore()
	if err != nil {
		return err
	}
	cfg := core.Config()

	var words []uint32
	if len(args) > 0 {
		for _, arg := range args {
			w, err := parseWord(arg, cfg.DataBits)
			if err != nil {
				return err
			}
			words = append(words, w)
		}
	} else {
		seed := loopbackSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng := rand.New(rand.NewSource(seed))
		mask := uint32(uint64(1)<<uint(cfg.DataBits) - 1)
		for i := 0; i < loopbackCount; i++ {
			words = append(words, rng.Uint32()&mask)
		}
	}

	var rec *trace.Writer
	if loopbackCapture != "" {
		f, err := os.Create(loopbackCapture)
		if err != nil {
			return errors.Wrap(err, "capture file")
		}
		defer f.Close()
		rec = trace.NewWriter(f)
	}

	fmt.Printf("loopback: %d words, %d data bits, pulse width %d\n\n",
		len(words), cfg.DataBits, core.PulseWidth())

	digits := hexDigits(cfg.DataBits)
	j := newJumper(core)
	queue := words
	received := 0
	prevReady := true
	budget := len(words)*frameBudget(cfg) + 64

	for i := 0; i < budget && received < len(words); i++ {
		var w uint32
		send := false
		if len(queue) > 0 {
			w = queue[0]
			send = prevReady
		}
		in := j.txLine
		out := j.step(w, send)
		if send && !out.Ready {
			queue = queue[1:]
		}
		prevReady = out.Ready

		if rec != nil {
			r := trace.Record{
				Tick:   j.ticks - 1,
				TxLine: out.TxLine,
				RxLine: in,
				Ready:  out.Ready,
				Done:   out.Done,
			}
			if out.Done {
				r.Word = out.Word
			}
			if err := rec.Write(r); err != nil {
				return err
			}
		}

		if out.Done {
			if out.Word != words[received] {
				return errors.Errorf("word %d corrupted in flight: sent 0x%0*X, received 0x%0*X",
					received, digits, words[received], digits, out.Word)
			}
			fmt.Printf("tick %6d  0x%0*X\n", j.ticks-1, digits, out.Word)
			received++
		}
	}
	if received < len(words) {
		return errors.Errorf("only %d of %d words received within %d ticks", received, len(words), budget)
	}

	fmt.Printf("\n%s\n", core.Stats())
	if loopbackCapture != "" {
		fmt.Printf("trace written to %s\n", loopbackCapture)
	}
	return nil
}
