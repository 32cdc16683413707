package uart_test

import (
	"testing"

	uart "github.com/foss-car/uart-interface"
)

func TestCounterCountsToLimitAndSaturates(t *testing.T) {
	var c uart.Counter
	for i := uint32(1); i <= 5; i++ {
		count, atLimit := c.Tick(uart.CounterIn{Enable: true, Limit: 5})
		if count != i {
			t.Fatalf("tick %d: count = %d, want %d", i, count, i)
		}
		if atLimit != (i == 5) {
			t.Fatalf("tick %d: atLimit = %v, want %v", i, atLimit, i == 5)
		}
	}
	for i := 0; i < 3; i++ {
		count, atLimit := c.Tick(uart.CounterIn{Enable: true, Limit: 5})
		if count != 5 || !atLimit {
			t.Fatalf("saturated tick %d: got (%d, %v), want (5, true)", i, count, atLimit)
		}
	}
}

// The control inputs are exercised as one tick sequence on a single
// counter, the way an engine drives it.
func TestCounterControlSequence(t *testing.T) {
	td := []struct {
		name    string
		in      uart.CounterIn
		count   uint32
		atLimit bool
	}{
		{"disabled holds", uart.CounterIn{Limit: 3}, 0, false},
		{"enable counts", uart.CounterIn{Enable: true, Limit: 3}, 1, false},
		{"enable counts", uart.CounterIn{Enable: true, Limit: 3}, 2, false},
		{"disable holds", uart.CounterIn{Limit: 3}, 2, false},
		{"soft reset clears", uart.CounterIn{Enable: true, SoftReset: true, Limit: 3}, 0, false},
		{"counts after re-arm", uart.CounterIn{Enable: true, Limit: 3}, 1, false},
		{"lowered limit reached", uart.CounterIn{Enable: true, Limit: 2}, 2, true},
		{"holds at limit", uart.CounterIn{Enable: true, Limit: 2}, 2, true},
		{"hard reset clears", uart.CounterIn{Enable: true, Reset: true, Limit: 2}, 0, false},
		{"counts again", uart.CounterIn{Enable: true, Limit: 3}, 1, false},
		{"limit moved onto count", uart.CounterIn{Enable: true, Limit: 1}, 1, true},
		{"zero limit pins atLimit", uart.CounterIn{SoftReset: true, Limit: 0}, 0, true},
	}
	var c uart.Counter
	for i, tc := range td {
		count, atLimit := c.Tick(tc.in)
		if count != tc.count || atLimit != tc.atLimit {
			t.Fatalf("step %d (%s): got (%d, %v), want (%d, %v)",
				i, tc.name, count, atLimit, tc.count, tc.atLimit)
		}
		if c.Count() != count {
			t.Fatalf("step %d (%s): Count() = %d, want %d", i, tc.name, c.Count(), count)
		}
	}
}

func TestCounterResetWinsOverEnable(t *testing.T) {
	var c uart.Counter
	c.Tick(uart.CounterIn{Enable: true, Limit: 8})
	c.Tick(uart.CounterIn{Enable: true, Limit: 8})
	count, _ := c.Tick(uart.CounterIn{Enable: true, Reset: true, Limit: 8})
	if count != 0 {
		t.Fatalf("reset with enable: count = %d, want 0", count)
	}
	count, _ = c.Tick(uart.CounterIn{Limit: 8})
	if count != 0 {
		t.Fatalf("disabled after reset: count = %d, want 0", count)
	}
}
