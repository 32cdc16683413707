package uart_test

import (
	"math/rand"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	uart "github.com/foss-car/uart-interface"
	"github.com/foss-car/uart-interface/uarttest"
)

func trace(t *testing.T, err error) {
	t.Helper()
	if err, ok := err.(interface {
		StackTrace() errors.StackTrace
	}); ok {
		for _, f := range err.StackTrace() {
			t.Logf("%+v ", f)
		}
	}
}

// getFuzzRounds returns the number of fuzz rounds from FUZZ_ROUNDS env var, default 500
func getFuzzRounds() int {
	if envRounds := os.Getenv("FUZZ_ROUNDS"); envRounds != "" {
		if rounds, err := strconv.Atoi(envRounds); err == nil && rounds > 0 {
			return rounds
		}
	}
	return 500
}

// getFuzzSeed returns the seed from FUZZ_SEED env var, or generates one from current time
func getFuzzSeed() int64 {
	if envSeed := os.Getenv("FUZZ_SEED"); envSeed != "" {
		if seed, err := strconv.ParseInt(envSeed, 10, 64); err == nil {
			return seed
		}
	}
	return time.Now().UnixNano()
}

// newFuzzRng creates a new random number generator and logs the seed for reproducibility
func newFuzzRng(t *testing.T) *rand.Rand {
	seed := getFuzzSeed()
	t.Logf("Seed: %d (reproduce with FUZZ_SEED=%d)", seed, seed)
	return rand.New(rand.NewSource(seed))
}

func TestCoreLoopback(t *testing.T) {
	core, err := uart.New(uart.Config{ClockHz: 16, BaudRate: 4, DataBits: 8})
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}
	require.Equal(t, uint32(4), core.PulseWidth())

	// Wire the transmit line back into the receiver with a one tick
	// delay, the way an external jumper would.
	txLine := true
	var words []uint32
	for i := 0; i < 100; i++ {
		out := core.Tick(uart.Input{RxLine: txLine, Word: 0x55, Send: i == 8})
		txLine = out.TxLine
		if out.Done {
			words = append(words, out.Word)
		}
	}
	require.Equal(t, []uint32{0x55}, words)

	st := core.Stats()
	require.Equal(t, uint64(100), st.Ticks)
	require.Equal(t, uint64(1), st.FramesSent)
	require.Equal(t, uint64(1), st.FramesReceived)
}

// The two engines share nothing but the derived pulse width. Traffic on
// one side must not move the other.
func TestCoreEnginesIndependent(t *testing.T) {
	core, err := uart.New(uart.Config{
		ClockHz:  8,
		BaudRate: 2,
		DataBits: 8,
		Filter:   uart.FilterConfig{Samples: 1},
	})
	require.NoError(t, err)

	line := append(uarttest.Idle(4), uarttest.Frame(0x42, 8, 4)...)
	line = append(line, uarttest.Idle(8)...)
	var words []uint32
	for i, level := range line {
		out := core.Tick(uart.Input{RxLine: level})
		require.True(t, out.Ready, "tick %d: transmitter disturbed by receive traffic", i)
		require.True(t, out.TxLine, "tick %d", i)
		if out.Done {
			words = append(words, out.Word)
		}
	}
	require.Equal(t, []uint32{0x42}, words)

	received := core.Stats().FramesReceived
	sent := false
	for i := 0; i < 60; i++ {
		out := core.Tick(uart.Input{RxLine: true, Word: 0x99, Send: i == 0})
		if i > 0 && out.Ready {
			sent = true
		}
		require.False(t, out.Done, "tick %d: receiver disturbed by transmit traffic", i)
	}
	require.True(t, sent)
	require.Equal(t, received, core.Stats().FramesReceived)
	require.Equal(t, uart.PhaseWait, core.RxPhase())
}

func TestCoreSetBaudRate(t *testing.T) {
	core, err := uart.New(uart.Config{ClockHz: 1_000_000, BaudRate: 115_200, DataBits: 8})
	require.NoError(t, err)
	require.Equal(t, uint32(8), core.PulseWidth())

	require.Error(t, core.SetBaudRate(0))
	require.Error(t, core.SetBaudRate(2_000_000))
	require.Equal(t, uint32(8), core.PulseWidth(), "failed change must not stick")

	require.NoError(t, core.SetBaudRate(250_000))
	require.Equal(t, uint32(4), core.PulseWidth())

	// The new rate carries a frame end to end.
	txLine := true
	var words []uint32
	for i := 0; i < 120; i++ {
		out := core.Tick(uart.Input{RxLine: txLine, Word: 0xE7, Send: i == 4})
		txLine = out.TxLine
		if out.Done {
			words = append(words, out.Word)
		}
	}
	require.Equal(t, []uint32{0xE7}, words)
}

func TestCoreResetBothEngines(t *testing.T) {
	core, err := uart.New(uart.Config{ClockHz: 16, BaudRate: 4, DataBits: 8,
		Filter: uart.FilterConfig{Samples: 1}})
	require.NoError(t, err)

	// Start a transmit frame and walk the receiver into a frame too.
	core.Tick(uart.Input{RxLine: true, Word: 0xFF, Send: true})
	for i := 0; i < 6; i++ {
		core.Tick(uart.Input{RxLine: false})
	}
	require.Equal(t, uart.PhaseData, core.TxPhase())
	require.Equal(t, uart.PhaseData, core.RxPhase())

	out := core.Tick(uart.Input{RxLine: false, Reset: true})
	require.True(t, out.TxLine)
	require.True(t, out.Ready)
	require.False(t, out.Done)
	require.Equal(t, uart.PhaseWait, core.TxPhase())
	require.Equal(t, uart.PhaseWait, core.RxPhase())
}

func TestNewRejectsBadConfig(t *testing.T) {
	if _, err := uart.New(uart.Config{DataBits: 8}); err == nil {
		t.Fatal("config with no clock accepted")
	}
}

func TestStatsString(t *testing.T) {
	st := uart.Stats{Ticks: 3, FramesSent: 1, FramesReceived: 2}
	if got, want := st.String(), "ticks=3 sent=1 received=2"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

// Round trips across the width and rate space. A one tick pulse width
// leaves no room for a majority window, so those rounds run unfiltered.
func TestEngineRoundTripFuzz(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()
	for i := 0; i < rounds; i++ {
		dataBits := 1 + rng.Intn(32)
		pulseWidth := uint32(1 + rng.Intn(8))
		word := rng.Uint32() & uint32(uint64(1)<<uint(dataBits)-1)
		filter := uart.DefaultFilterConfig
		if pulseWidth == 1 {
			filter = uart.FilterConfig{Samples: 1}
		}
		uarttest.RoundTrip(t, dataBits, pulseWidth, word, filter)
	}
}
