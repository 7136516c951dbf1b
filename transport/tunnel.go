package transport

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// Wire constants for the UDP-tunneled SPI protocol. A request is framed as
// [seq, len, cmd...]; a matching reply is [seq, len, resp...], where for read commands
// the first SPI response byte is rewritten to ansVal by the server. The radio side also
// sends unsolicited, unilateral notifications [0, 1, irqVal] whenever its IRQ line
// rises, independent of any in-flight request.
const (
	resetVal    byte = 0xff
	ansVal      byte = 0xaa
	irqVal      byte = 0xfe
	sockTimeout      = 50 * time.Millisecond
	retries          = 3
)

// LogPrintf is an optional logging callback: nil means silent.
type LogPrintf func(fmt string, args ...interface{})

// Tunnel is a Transport that bridges SPI transactions over UDP to a remote
// packet-tunnel server (cmd/dwtunnel).
type Tunnel struct {
	conn    *net.UDPConn
	raddr   *net.UDPAddr
	log     LogPrintf
	timeout time.Duration
	retries int

	mu  sync.Mutex // serializes Transfer: only one request may be in flight at a time
	seq byte

	pending          chan []byte
	interruptPending atomic.Bool
	closeOnce        sync.Once
	done             chan struct{}
}

// DialTunnel opens a UDP socket to addr (host:port) and starts the background reader
// that demultiplexes replies from unsolicited IRQ notifications.
func DialTunnel(addr string, log LogPrintf) (*Tunnel, error) {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: resolve %s: %w", addr, err)
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", addr, err)
	}
	t := &Tunnel{
		conn:    conn,
		raddr:   raddr,
		log:     log,
		timeout: sockTimeout,
		retries: retries,
		pending: make(chan []byte, 1),
		done:    make(chan struct{}),
	}
	go t.readLoop()
	return t, nil
}

func (t *Tunnel) logf(format string, args ...interface{}) {
	if t.log != nil {
		t.log(format, args...)
	}
}

// readLoop continuously drains the socket, routing replies to whichever Transfer call
// is waiting and recording unsolicited IRQ notifications as they arrive.
func (t *Tunnel) readLoop() {
	buf := make([]byte, 512)
	for {
		select {
		case <-t.done:
			return
		default:
		}
		t.conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		n, err := t.conn.Read(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			select {
			case <-t.done:
			default:
				t.logf("transport: tunnel read error: %v", err)
			}
			continue
		}
		if n < 2 {
			continue
		}
		pkt := make([]byte, n)
		copy(pkt, buf[:n])

		if pkt[0] == 0 && pkt[1] == 1 && n >= 3 && pkt[2] == irqVal {
			t.interruptPending.Store(true)
			t.logf("transport: tunnel irq notify")
			continue
		}
		select {
		case t.pending <- pkt:
		default:
			// no Transfer is currently waiting (e.g. a stale retry's reply); drop it.
		}
	}
}

// Transfer sends one [seq, len, cmd...] request and waits for the matching
// [seq, len, resp...] reply, retrying on timeout. For a read command (bit 7 of the
// address header clear) the server rewrites the reply's first SPI byte to ansVal; a
// reply without that marker means the server-side SPI transaction failed and the
// attempt is retried.
func (t *Tunnel) Transfer(ctx context.Context, out []byte) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	seq := t.seq
	t.seq++

	req := make([]byte, 0, len(out)+2)
	req = append(req, seq, byte(len(out)))
	req = append(req, out...)

	var lastErr error
	for attempt := 0; attempt <= t.retries; attempt++ {
		if _, err := t.conn.Write(req); err != nil {
			return nil, fmt.Errorf("transport: tunnel write: %w", err)
		}
		reply, err := t.waitReply(ctx, seq)
		if err == nil {
			if len(reply) < 2+len(out) {
				lastErr = fmt.Errorf("transport: tunnel short reply (%d bytes, want %d)", len(reply), 2+len(out))
				continue
			}
			payload := reply[2 : 2+len(out)]
			if len(out) > 1 && out[0]&0x80 == 0 && payload[0] != ansVal {
				lastErr = fmt.Errorf("transport: tunnel read reply missing answer marker (%#02x)", payload[0])
				continue
			}
			return payload, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%w: %v", ErrTimeout, lastErr)
}

func (t *Tunnel) waitReply(ctx context.Context, seq byte) ([]byte, error) {
	timer := time.NewTimer(t.timeout)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
			return nil, fmt.Errorf("transport: tunnel timeout waiting for seq %d", seq)
		case pkt := <-t.pending:
			if len(pkt) >= 2 && pkt[0] == seq {
				return pkt, nil
			}
			// stale reply for an earlier retry, or out-of-order packet; keep waiting.
		}
	}
}

// Reset sends the single-byte reset command, wrapped in the same [seq, len, cmd]
// framing every other request uses (the server ignores packets no longer than its
// 2-byte sequence+length header): assert=true drives the radio's reset line low,
// assert=false releases it. This does not go through Transfer and does not wait for
// the server's echo of the command byte; it fires the command and returns.
func (t *Tunnel) Reset(ctx context.Context, assert bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	val := byte(0x01)
	if assert {
		val = resetVal
	}
	req := []byte{t.seq, 1, val}
	t.seq++
	if _, err := t.conn.Write(req); err != nil {
		return fmt.Errorf("transport: tunnel reset: %w", err)
	}
	return nil
}

// InterruptPending reports whether an unacknowledged IRQ notification has arrived.
func (t *Tunnel) InterruptPending() bool { return t.interruptPending.Load() }

// ClearInterrupt acknowledges the current interrupt notification.
func (t *Tunnel) ClearInterrupt() { t.interruptPending.Store(false) }

// ID identifies this transport for logging.
func (t *Tunnel) ID() string { return "udp:" + t.raddr.String() }

// Close stops the background reader and closes the socket.
func (t *Tunnel) Close() error {
	t.closeOnce.Do(func() { close(t.done) })
	return t.conn.Close()
}
