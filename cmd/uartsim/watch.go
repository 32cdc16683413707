// Copyright 2025 the uart-interface authors
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	uart "github.com/foss-car/uart-interface"
)

var watchTicksPerFrame int

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live view of the looped-back link",
	Long: `Run the link in a terminal UI: the serial line scrolls by, engine
phases and counters update live, and typed words are queued onto the
wire. Toggling noise injection flips the line for one tick at a time,
which the receive filter is expected to absorb.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&watchTicksPerFrame, "ticks-per-frame", 32, "Simulation ticks per screen refresh")
	rootCmd.AddCommand(watchCmd)
}

type decodeEntry struct {
	tick uint64
	word uint32
}

type watchModel struct {
	j   *jumper
	cfg uart.Config

	queue     []uint32
	prevReady bool
	history   []bool
	decodes   []decodeEntry

	input   textinput.Model
	editing bool
	paused  bool
	noise   bool
	status  string

	width    int
	height   int
	quitting bool
}

type frameMsg time.Time

func frameCmd() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func initialWatchModel(core *uart.Core) watchModel {
	ti := textinput.New()
	ti.Placeholder = "55 aa 0f"
	ti.CharLimit = 64
	ti.Width = 28

	return watchModel{
		j:         newJumper(core),
		cfg:       core.Config(),
		prevReady: true,
		input:     ti,
		width:     80,
		height:    24,
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(frameCmd(), textinput.Blink)
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			switch msg.String() {
			case "ctrl+c":
				m.quitting = true
				return m, tea.Quit
			case "esc":
				m.editing = false
				m.input.Blur()
			case "enter":
				m.queueWords()
				m.editing = false
				m.input.Blur()
			default:
				var cmd tea.Cmd
				m.input, cmd = m.input.Update(msg)
				return m, cmd
			}
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "s", "i", "enter":
			m.editing = true
			m.input.Focus()
			return m, textinput.Blink
		case " ":
			m.paused = !m.paused
		case "g":
			m.noise = !m.noise
			if m.noise {
				m.status = "injecting line noise"
			} else {
				m.status = "line noise off"
			}
		case "r":
			m.j.reset()
			m.queue = nil
			m.prevReady = true
			m.status = "engines reset"
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case frameMsg:
		if !m.paused {
			m.advance(watchTicksPerFrame)
		}
		return m, frameCmd()
	}

	return m, nil
}

// advance runs n simulation ticks, feeding queued words onto the wire
// one frame at a time.
func (m *watchModel) advance(n int) {
	for i := 0; i < n; i++ {
		var w uint32
		send := false
		if len(m.queue) > 0 {
			w = m.queue[0]
			send = m.prevReady
		}
		if m.noise && m.j.ticks%31 == 30 {
			// one-tick wire glitch, inside the filter window
			m.j.txLine = !m.j.txLine
		}
		wire := m.j.txLine
		out := m.j.step(w, send)
		if send && !out.Ready {
			m.queue = m.queue[1:]
		}
		m.prevReady = out.Ready

		m.history = append(m.history, wire)
		if len(m.history) > 4096 {
			m.history = m.history[len(m.history)-4096:]
		}
		if out.Done {
			m.decodes = append(m.decodes, decodeEntry{tick: m.j.ticks - 1, word: out.Word})
			if len(m.decodes) > 64 {
				m.decodes = m.decodes[len(m.decodes)-64:]
			}
		}
	}
}

func (m *watchModel) queueWords() {
	fields := strings.Fields(m.input.Value())
	if len(fields) == 0 {
		return
	}
	var words []uint32
	for _, f := range fields {
		w, err := parseWord(f, m.cfg.DataBits)
		if err != nil {
			m.status = err.Error()
			return
		}
		words = append(words, w)
	}
	m.queue = append(m.queue, words...)
	m.status = fmt.Sprintf("queued %d words", len(words))
	m.input.SetValue("")
}

func (m watchModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	waveStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("14"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	var s strings.Builder
	s.WriteString(titleStyle.Render("UARTSIM - LIVE LINK"))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf(
		"%d data bits @ pulse width %d | space pause, s send, g noise, r reset, q quit",
		m.cfg.DataBits, m.j.core.PulseWidth())))
	s.WriteString("\n\n")

	// Engine status
	st := m.j.core.Stats()
	status := fmt.Sprintf("%s %s   %s %s   %s %s\n",
		labelStyle.Render("TX:"), valueStyle.Render(m.j.core.TxPhase().String()),
		labelStyle.Render("RX:"), valueStyle.Render(m.j.core.RxPhase().String()),
		labelStyle.Render("Queue:"), valueStyle.Render(fmt.Sprintf("%d", len(m.queue))),
	)
	status += fmt.Sprintf("%s %s", labelStyle.Render("Stats:"), valueStyle.Render(st.String()))
	if m.noise {
		status += "   " + labelStyle.Render("NOISE")
	}
	if m.paused {
		status += "   " + labelStyle.Render("PAUSED")
	}
	s.WriteString(boxStyle.Width(m.width - 4).Render(status))
	s.WriteString("\n")

	// Waveform, newest tick on the right edge
	span := m.width - 8
	if span < 8 {
		span = 8
	}
	tail := m.history
	if len(tail) > span {
		tail = tail[len(tail)-span:]
	}
	var wave strings.Builder
	for _, level := range tail {
		if level {
			wave.WriteRune('▔')
		} else {
			wave.WriteRune('▁')
		}
	}
	s.WriteString(boxStyle.Width(m.width - 4).Render(waveStyle.Render(wave.String())))
	s.WriteString("\n")

	// Recent decodes
	digits := hexDigits(m.cfg.DataBits)
	var dec strings.Builder
	if len(m.decodes) == 0 {
		dec.WriteString(headerStyle.Render("no words decoded yet"))
	} else {
		first := 0
		if len(m.decodes) > 6 {
			first = len(m.decodes) - 6
		}
		for i, d := range m.decodes[first:] {
			if i > 0 {
				dec.WriteString("\n")
			}
			dec.WriteString(fmt.Sprintf("%s %s",
				labelStyle.Render(fmt.Sprintf("tick %-8d", d.tick)),
				valueStyle.Render(fmt.Sprintf("0x%0*X", digits, d.word))))
		}
	}
	s.WriteString(boxStyle.Width(m.width - 4).Render(dec.String()))
	s.WriteString("\n")

	if m.editing {
		s.WriteString(fmt.Sprintf("%s %s", labelStyle.Render("Send words (hex):"), m.input.View()))
	} else {
		s.WriteString(headerStyle.Render("press 's' to type words to send"))
	}
	if m.status != "" {
		s.WriteString("\n")
		s.WriteString(headerStyle.Render(m.status))
	}
	s.WriteString("\n")

	return s.String()
}

func runWatch(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("watch needs an interactive terminal")
	}
	core, err := newCore()
	if err != nil {
		return err
	}
	p := tea.NewProgram(initialWatchModel(core), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
