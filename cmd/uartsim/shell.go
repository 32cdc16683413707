// Copyright 2025 the uart-interface authors
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"strconv"

	"github.com/abiosoft/ishell"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive shell on a looped-back link",
	Long: `Drive the simulated link from a prompt: send words, advance the
clock by hand, change the baud rate between frames and inspect the
engine state after every step.`,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

type shellSession struct {
	j *jumper
}

func runShell(cmd *cobra.Command, args []string) error {
	core, err := newCore()
	if err != nil {
		return err
	}
	s := &shellSession{j: newJumper(core)}

	sh := ishell.New()
	sh.SetPrompt("uartsim> ")
	sh.Println("uartsim interactive link, 'help' lists commands")

	sh.AddCmd(&ishell.Cmd{
		Name: "send",
		Help: "WORD... (hex) - send words across the link and print decodes",
		Func: s.send,
	})
	sh.AddCmd(&ishell.Cmd{
		Name: "tick",
		Help: "[N] - advance the clock N idle ticks (default 1)",
		Func: s.tick,
	})
	sh.AddCmd(&ishell.Cmd{
		Name: "status",
		Help: "engine phases, pulse width and counters",
		Func: s.status,
	})
	sh.AddCmd(&ishell.Cmd{
		Name: "baud",
		Help: "RATE - change the baud rate between frames",
		Func: s.baud,
	})
	sh.AddCmd(&ishell.Cmd{
		Name: "reset",
		Help: "drive both engines back to idle",
		Func: s.reset,
	})

	sh.Run()
	return nil
}

func (s *shellSession) send(c *ishell.Context) {
	if len(c.Args) == 0 {
		c.Err(errors.New("WORD required"))
		return
	}
	cfg := s.j.core.Config()
	digits := hexDigits(cfg.DataBits)
	budget := frameBudget(cfg)
	for _, arg := range c.Args {
		w, err := parseWord(arg, cfg.DataBits)
		if err != nil {
			c.Err(err)
			return
		}
		before := s.j.ticks
		got, ok := s.j.carry(w, budget)
		if !ok {
			c.Err(errors.Errorf("word 0x%0*X never arrived", digits, w))
			return
		}
		c.Printf("tick %-8d 0x%0*X in %d ticks\n", s.j.ticks-1, digits, got, s.j.ticks-before)
	}
}

func (s *shellSession) tick(c *ishell.Context) {
	n := 1
	if len(c.Args) > 0 {
		v, err := strconv.Atoi(c.Args[0])
		if err != nil || v < 1 {
			c.Err(errors.Errorf("bad tick count %q", c.Args[0]))
			return
		}
		n = v
	}
	for i := 0; i < n; i++ {
		s.j.step(0, false)
	}
	c.Printf("advanced %d ticks, now at %d\n", n, s.j.ticks)
}

func (s *shellSession) status(c *ishell.Context) {
	core := s.j.core
	c.Printf("tick        %d\n", s.j.ticks)
	c.Printf("pulse width %d\n", core.PulseWidth())
	c.Printf("tx phase    %s\n", core.TxPhase())
	c.Printf("rx phase    %s\n", core.RxPhase())
	c.Printf("line        %s\n", levelName(s.j.txLine))
	c.Printf("stats       %s\n", core.Stats())
}

func levelName(high bool) string {
	if high {
		return "high"
	}
	return "low"
}

func (s *shellSession) baud(c *ishell.Context) {
	if len(c.Args) != 1 {
		c.Err(errors.New("RATE required"))
		return
	}
	rate, err := strconv.ParseUint(c.Args[0], 10, 32)
	if err != nil {
		c.Err(errors.Wrapf(err, "rate %q", c.Args[0]))
		return
	}
	if err := s.j.core.SetBaudRate(uint32(rate)); err != nil {
		c.Err(err)
		return
	}
	c.Printf("pulse width now %d ticks\n", s.j.core.PulseWidth())
}

func (s *shellSession) reset(c *ishell.Context) {
	s.j.reset()
	c.Println("engines reset")
}
