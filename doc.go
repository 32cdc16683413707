/*
Package uart implements a cycle-accurate engine for an asynchronous serial
(UART-style) link.

The package models the link the way hardware does: a caller ticks a shared
clock once per time unit, handing each engine its current inputs, and the
engine commits its next state and outputs atomically for that tick. A
Transmitter serializes a parallel word onto an idle-high line with start/stop
framing; a Receiver samples a noisy line at the midpoint of each bit period,
behind a majority-vote Filter, and delivers the decoded word together with a
one-tick completion pulse. Both engines are built from the same saturating
Counter leaf.

There are no goroutines, no blocking calls and no error returns on the tick
path; anomalies are handled by state-machine policy (see Receiver). Core
composes one engine of each kind behind a single Config.
*/
package uart
