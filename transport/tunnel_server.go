package transport

import (
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/kidoman/embd"
)

// TunnelServer is the radio-side half of the UDP tunnel protocol: it owns the DW1000's
// real SPI bus and reset/IRQ GPIO lines and answers the framing Tunnel speaks.
type TunnelServer struct {
	spi    embd.SPIBus
	reset  embd.DigitalPin // drives the radio's reset line
	nReset embd.DigitalPin // NRST: input while released, driven low while reset is asserted
	irq    embd.DigitalPin

	verbose     bool
	interrupted atomic.Bool

	lastSeq   byte
	haveLast  bool
	lastReply []byte
}

// ServerOpts configures NewTunnelServer with the embd pin names and SPI chip select
// for the board the radio is wired to.
type ServerOpts struct {
	SPIChipSelect int
	ResetPin      string
	NResetPin     string
	IRQPin        string
	Verbose       bool
}

// NewTunnelServer initializes embd's GPIO and SPI subsystems and opens the named pins
// and bus.
func NewTunnelServer(opts ServerOpts) (*TunnelServer, error) {
	if err := embd.InitGPIO(); err != nil {
		return nil, fmt.Errorf("transport: embd init gpio: %w", err)
	}
	if err := embd.InitSPI(); err != nil {
		return nil, fmt.Errorf("transport: embd init spi: %w", err)
	}
	// embd's SPI bus constructor takes mode, channel, a driver-specific speed value,
	// bits-per-word and delay; only the chip-select channel varies between boards.
	spiBus := embd.NewSPIBus(embd.SPIMode0, byte(opts.SPIChipSelect), 4, 8, 0)

	reset, err := embd.NewDigitalPin(opts.ResetPin)
	if err != nil {
		return nil, fmt.Errorf("transport: open reset pin %s: %w", opts.ResetPin, err)
	}
	if err := reset.SetDirection(embd.Out); err != nil {
		return nil, fmt.Errorf("transport: configure reset pin: %w", err)
	}
	nReset, err := embd.NewDigitalPin(opts.NResetPin)
	if err != nil {
		return nil, fmt.Errorf("transport: open nrst pin %s: %w", opts.NResetPin, err)
	}
	if err := nReset.SetDirection(embd.In); err != nil {
		return nil, fmt.Errorf("transport: configure nrst pin: %w", err)
	}
	irq, err := embd.NewDigitalPin(opts.IRQPin)
	if err != nil {
		return nil, fmt.Errorf("transport: open irq pin %s: %w", opts.IRQPin, err)
	}
	if err := irq.SetDirection(embd.In); err != nil {
		return nil, fmt.Errorf("transport: configure irq pin: %w", err)
	}

	s := &TunnelServer{spi: spiBus, reset: reset, nReset: nReset, irq: irq, verbose: opts.Verbose}
	if err := irq.Watch(embd.EdgeRising, func(embd.DigitalPin) { s.interrupted.Store(true) }); err != nil {
		return nil, fmt.Errorf("transport: watch irq pin: %w", err)
	}
	return s, nil
}

// Close releases the SPI bus. The irq watch goroutine is left running until process
// exit; the daemon runs until killed.
func (s *TunnelServer) Close() error {
	return s.spi.Close()
}

// processRequest applies one incoming datagram's command blocks and returns the full
// reply datagram (seq byte plus length-prefixed response blocks), or nil if the
// datagram was too short to contain any command. A repeated sequence number resends
// the cached reply instead of reprocessing, so a client's retried request after a
// lost reply doesn't double-apply a Tx command.
func (s *TunnelServer) processRequest(raw []byte) []byte {
	if len(raw) <= 2 {
		return nil
	}
	seq := raw[0]
	if s.haveLast && seq == s.lastSeq {
		return s.lastReply
	}

	reply := []byte{seq}
	rest := raw[1:]
	for len(rest) > 1 && int(rest[0]) < len(rest) {
		n := int(rest[0]) + 1
		cmd := rest[1:n]
		rest = rest[n:]
		resp := s.handleCommand(cmd)
		if resp != nil {
			reply = append(reply, byte(len(resp)))
			reply = append(reply, resp...)
		}
	}

	s.lastSeq, s.haveLast, s.lastReply = seq, true, reply
	return reply
}

// handleCommand runs one command block: a single byte toggles the reset line, anything
// longer is transferred over SPI with the first reply byte replaced by ansVal for
// reads, marking the response as a genuine answer rather than an echo.
func (s *TunnelServer) handleCommand(cmd []byte) []byte {
	switch {
	case len(cmd) == 1:
		if cmd[0] == resetVal {
			s.reset.Write(embd.High)
			s.nReset.SetDirection(embd.Out)
			s.nReset.Write(embd.Low)
		} else {
			s.reset.Write(embd.Low)
			s.nReset.SetDirection(embd.In)
		}
		return []byte{cmd[0]}
	case len(cmd) > 1:
		resp := make([]byte, len(cmd))
		copy(resp, cmd)
		if err := s.spi.TransferAndReceiveData(resp); err != nil {
			return nil
		}
		if cmd[0]&0x80 == 0 {
			resp[0] = ansVal
		}
		return resp
	default:
		return nil
	}
}

// Serve opens a UDP socket on port and runs the request/reply loop until the stop
// channel closes, forwarding unsolicited IRQ notifications to the most recent client
// as they arrive.
func (s *TunnelServer) Serve(port int, stop <-chan struct{}) error {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: port})
	if err != nil {
		return fmt.Errorf("transport: listen udp :%d: %w", port, err)
	}
	defer conn.Close()

	buf := make([]byte, 2048)
	var clientAddr *net.UDPAddr
	for {
		select {
		case <-stop:
			return nil
		default:
		}

		if s.interrupted.CompareAndSwap(true, false) && clientAddr != nil {
			if s.verbose {
				fmt.Printf("IRQ pin notify\n")
			}
			conn.WriteToUDP([]byte{0, 1, irqVal}, clientAddr)
		}

		conn.SetReadDeadline(time.Now().Add(5 * time.Millisecond))
		n, raddr, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			return fmt.Errorf("transport: udp read: %w", err)
		}
		clientAddr = raddr
		req := append([]byte{}, buf[:n]...)
		if s.verbose {
			fmt.Printf("Rx: % x\n", req)
		}
		if reply := s.processRequest(req); reply != nil {
			if s.verbose {
				fmt.Printf("Tx: % x\n", reply)
			}
			conn.WriteToUDP(reply, raddr)
		}
	}
}
