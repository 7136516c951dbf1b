// Command dwtunnel is the radio-side half of the UDP packet tunnel: it owns the DW1000's
// SPI bus and reset/IRQ pins directly and answers requests from a remote dwrange process.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jbentham/uwb/transport"
)

// portConfig names one of the two SPI interfaces a Raspberry Pi carrier board exposes
// (SPI0/CE0 on port 1401, SPI1/CE2 on port 1402), with the reset/NRST/IRQ pins wired
// next to each.
type portConfig struct {
	port          int
	spiChipSelect int
	resetPin      string
	nResetPin     string
	irqPin        string
}

var portConfigs = map[int]portConfig{
	1401: {port: 1401, spiChipSelect: 0, resetPin: "P1_22", nResetPin: "P1_16", irqPin: "P1_18"},
	1402: {port: 1402, spiChipSelect: 2, resetPin: "P1_37", nResetPin: "P1_31", irqPin: "P1_32"},
}

const defaultPort = 1401

func main() {
	verbose := flag.Bool("v", false, "verbose request/reply logging")
	port := flag.Int("port", defaultPort, "UDP port to listen on (selects SPI0/CE0 or SPI1/CE2)")
	flag.Parse()

	fmt.Println("dwtunnel")

	cfg, ok := portConfigs[*port]
	if !ok {
		fmt.Fprintf(os.Stderr, "dwtunnel: no SPI/pin configuration for port %d\n", *port)
		os.Exit(1)
	}

	server, err := transport.NewTunnelServer(transport.ServerOpts{
		SPIChipSelect: cfg.spiChipSelect,
		ResetPin:      cfg.resetPin,
		NResetPin:     cfg.nResetPin,
		IRQPin:        cfg.irqPin,
		Verbose:       *verbose,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "dwtunnel: %s\n", err)
		os.Exit(1)
	}
	defer server.Close()

	stop := make(chan struct{})
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		close(stop)
	}()

	fmt.Printf("Listening on UDP port %d\n", cfg.port)
	if err := server.Serve(cfg.port, stop); err != nil {
		fmt.Fprintf(os.Stderr, "dwtunnel: %s\n", err)
		os.Exit(1)
	}
}
