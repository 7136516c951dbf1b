package transport

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// Local is a Transport that drives a DW1000 directly over a local SPI bus plus two
// GPIO lines (reset, IRQ), for a host wired straight to the radio with no network
// tunnel in between.
type Local struct {
	port    spi.PortCloser
	conn    spi.Conn
	resetP  gpio.PinIO
	irqP    gpio.PinIO
	mu      sync.Mutex // serializes Transfer; the SPI bus is not reentrant
	pending atomic.Bool
	id      string
}

// LocalOpts configures OpenLocal.
type LocalOpts struct {
	SPIBus   string // e.g. "/dev/spidev0.0" or "" for periph's default
	ResetPin string // GPIO name, e.g. "GPIO17"
	IRQPin   string // GPIO name, e.g. "GPIO27"
	MaxHz    int64
	SPIMode  spi.Mode
}

// OpenLocal initializes periph's host drivers and opens the SPI bus and GPIO pins
// named in opts. The IRQ pin is configured to watch for rising edges (HIRQ_POL=1,
// active-high, matching the driver's initialise sequence) and a goroutine feeds
// pending into an atomic flag so InterruptPending never blocks; the driver only ever
// polls it from its single-threaded loop.
func OpenLocal(opts LocalOpts) (*Local, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("transport: periph host init: %w", err)
	}
	port, err := spireg.Open(opts.SPIBus)
	if err != nil {
		return nil, fmt.Errorf("transport: open spi %s: %w", opts.SPIBus, err)
	}
	maxHz := opts.MaxHz
	if maxHz == 0 {
		maxHz = 8_000_000
	}
	mode := opts.SPIMode
	c, err := port.Connect(physic.Frequency(maxHz)*physic.Hertz, mode, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("transport: spi connect: %w", err)
	}
	resetP := gpioreg.ByName(opts.ResetPin)
	if resetP == nil {
		port.Close()
		return nil, fmt.Errorf("transport: unknown reset pin %q", opts.ResetPin)
	}
	irqP := gpioreg.ByName(opts.IRQPin)
	if irqP == nil {
		port.Close()
		return nil, fmt.Errorf("transport: unknown irq pin %q", opts.IRQPin)
	}
	if err := irqP.In(gpio.PullDown, gpio.RisingEdge); err != nil {
		port.Close()
		return nil, fmt.Errorf("transport: configure irq pin: %w", err)
	}
	if err := resetP.Out(gpio.High); err != nil {
		port.Close()
		return nil, fmt.Errorf("transport: configure reset pin: %w", err)
	}

	l := &Local{port: port, conn: c, resetP: resetP, irqP: irqP, id: opts.SPIBus}
	go l.watchIRQ()
	return l, nil
}

// watchIRQ blocks on the IRQ pin's rising edge and records a pending interrupt in an
// atomic flag, since the driver polls rather than selecting on a channel.
func (l *Local) watchIRQ() {
	for {
		if !l.irqP.WaitForEdge(-1) {
			return
		}
		l.pending.Store(true)
	}
}

// Transfer performs one full-duplex SPI transaction, writing out and returning a
// same-length reply, holding the bus mutex for the duration.
func (l *Local) Transfer(ctx context.Context, out []byte) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	in := make([]byte, len(out))
	if err := l.conn.Tx(out, in); err != nil {
		return nil, fmt.Errorf("transport: spi tx: %w", err)
	}
	return in, nil
}

// Reset drives the reset pin: assert=true pulls it low, assert=false releases it and
// waits briefly for the chip to come out of reset.
func (l *Local) Reset(ctx context.Context, assert bool) error {
	lvl := gpio.High
	if assert {
		lvl = gpio.Low
	}
	if err := l.resetP.Out(lvl); err != nil {
		return fmt.Errorf("transport: reset pin: %w", err)
	}
	if !assert {
		time.Sleep(2 * time.Millisecond)
	}
	return nil
}

// InterruptPending reports the last-observed IRQ edge, without blocking.
func (l *Local) InterruptPending() bool { return l.pending.Load() }

// ClearInterrupt acknowledges the current interrupt.
func (l *Local) ClearInterrupt() { l.pending.Store(false) }

// ID identifies this transport for logging.
func (l *Local) ID() string { return "spi:" + l.id }

// Close releases the SPI port.
func (l *Local) Close() error { return l.port.Close() }
