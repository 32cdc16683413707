package uart_test

import (
	"testing"

	uart "github.com/foss-car/uart-interface"
)

func TestConfigValidate(t *testing.T) {
	td := []struct {
		name    string
		cfg     uart.Config
		wantErr bool
	}{
		{"typical", uart.Config{ClockHz: 1_000_000, BaudRate: 115_200, DataBits: 8}, false},
		{"one bit words", uart.Config{ClockHz: 16, BaudRate: 4, DataBits: 1}, false},
		{"widest words", uart.Config{ClockHz: 16, BaudRate: 4, DataBits: 32}, false},
		{"baud equals clock", uart.Config{ClockHz: 9600, BaudRate: 9600, DataBits: 8}, false},
		{"zero clock", uart.Config{BaudRate: 9600, DataBits: 8}, true},
		{"zero baud", uart.Config{ClockHz: 1_000_000, DataBits: 8}, true},
		{"baud above clock", uart.Config{ClockHz: 9600, BaudRate: 19_200, DataBits: 8}, true},
		{"zero data bits", uart.Config{ClockHz: 1_000_000, BaudRate: 9600}, true},
		{"too many data bits", uart.Config{ClockHz: 1_000_000, BaudRate: 9600, DataBits: 33}, true},
	}
	for _, tc := range td {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() = %v, wantErr = %v", err, tc.wantErr)
			}
		})
	}
}

func TestConfigPulseWidth(t *testing.T) {
	td := []struct {
		clock, baud, want uint32
	}{
		{16, 4, 4},
		{1_000_000, 115_200, 8}, // floor of 8.68
		{8_000_000, 9600, 833},
		{9600, 9600, 1},
		{0, 9600, 0},
		{9600, 0, 0},
	}
	for _, tc := range td {
		cfg := uart.Config{ClockHz: tc.clock, BaudRate: tc.baud}
		if got := cfg.PulseWidth(); got != tc.want {
			t.Fatalf("PulseWidth() with clock %d baud %d = %d, want %d",
				tc.clock, tc.baud, got, tc.want)
		}
	}
}
