package uart_test

import (
	"testing"

	uart "github.com/foss-car/uart-interface"
)

func TestFilterHoldsHighThroughSettle(t *testing.T) {
	f := uart.NewFilter(uart.FilterConfig{Settle: 3, Samples: 3})
	// A low level during settling must not reach the window.
	for i := 0; i < 3; i++ {
		if !f.Tick(false) {
			t.Fatalf("settle tick %d: output dropped", i)
		}
	}
	// First sampled tick: one low against a high-primed window.
	if !f.Tick(false) {
		t.Fatal("single low sample flipped a primed window")
	}
	if f.Tick(false) {
		t.Fatal("low majority did not propagate")
	}
}

func TestFilterMajority(t *testing.T) {
	td := []struct {
		name string
		cfg  uart.FilterConfig
		feed []bool
		want []bool
	}{
		{
			"single sample passes through",
			uart.FilterConfig{Samples: 1},
			[]bool{true, false, true, false, false},
			[]bool{true, false, true, false, false},
		},
		{
			"one tick glitch absorbed",
			uart.FilterConfig{Samples: 3},
			[]bool{true, true, true, false, true, true},
			[]bool{true, true, true, true, true, true},
		},
		{
			"even window resolves ties low",
			uart.FilterConfig{Samples: 2},
			[]bool{true, false, true},
			[]bool{true, false, false},
		},
		{
			"sustained change lags one sample",
			uart.FilterConfig{Samples: 3},
			[]bool{false, false, false, false},
			[]bool{true, false, false, false},
		},
	}
	for _, tc := range td {
		t.Run(tc.name, func(t *testing.T) {
			f := uart.NewFilter(tc.cfg)
			for i, raw := range tc.feed {
				if got := f.Tick(raw); got != tc.want[i] {
					t.Fatalf("tick %d: denoised = %v, want %v", i, got, tc.want[i])
				}
			}
		})
	}
}

func TestFilterResetRestoresIdle(t *testing.T) {
	f := uart.NewFilter(uart.FilterConfig{Settle: 1, Samples: 1})
	f.Tick(false) // settle
	if f.Tick(false) {
		t.Fatal("low level did not propagate before reset")
	}
	f.Reset()
	if !f.Tick(true) {
		t.Fatal("output not held high through settle after reset")
	}
	if !f.Tick(true) {
		t.Fatal("window not re-primed high after reset")
	}
}

func TestFilterClampsWindowSize(t *testing.T) {
	f := uart.NewFilter(uart.FilterConfig{Samples: 0})
	// Clamped to one sample: behaves as a passthrough.
	if f.Tick(false) {
		t.Fatal("zero sample config: low level did not pass through")
	}
	if !f.Tick(true) {
		t.Fatal("zero sample config: high level did not pass through")
	}
}
