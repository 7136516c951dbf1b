// Package transport defines the SPI transaction contract the dw1000 driver depends on,
// and provides two implementations: a UDP-tunneled SPI bridge (transport.Tunnel) and a
// direct local SPI+GPIO transport (transport.Local).
package transport

import (
	"context"
	"errors"
)

// ErrTimeout is returned by Transfer when no reply arrives within the configured
// retry budget.
var ErrTimeout = errors.New("transport: timed out waiting for reply")

// Transport is the wire contract the register layer and driver depend on. A single
// Transfer carries one SPI full-duplex transaction: out is the address header followed
// by any write payload; the returned slice has the same length as out, with the
// reply's payload bytes (the part past the header) valid for reads.
//
// HIRQ_POL is always configured active-high by the driver's initialise sequence, so
// both InterruptPending and the tunnel's wire-level unilateral IRQ notification
// assume a rising edge means "interrupt asserted".
type Transport interface {
	// Transfer issues one SPI transaction and returns the reply.
	Transfer(ctx context.Context, out []byte) ([]byte, error)

	// Reset drives the DW1000's reset line: true asserts reset, false releases it.
	Reset(ctx context.Context, assert bool) error

	// InterruptPending reports whether an interrupt has been signalled since the last
	// ClearInterrupt.
	InterruptPending() bool

	// ClearInterrupt acknowledges a delivered interrupt notification so the next
	// edge can be observed again.
	ClearInterrupt()

	// ID identifies the transport for logging (e.g. "udp:host:port" or "spi0.0").
	ID() string
}
