// Command dwrange drives two DW1000 radios through continuous two-way ranging: reset
// both units, self-test their interrupt wiring, initialise, then loop running rounds
// and printing distances.
package main

import (
	"context"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/jbentham/uwb/diagnostics"
	"github.com/jbentham/uwb/dw1000"
	"github.com/jbentham/uwb/ranging"
	"github.com/jbentham/uwb/reg"
	"github.com/jbentham/uwb/transport"
)

// Config is the TOML config file shape: one struct per concern (endpoints, MQTT,
// ranging behaviour).
type Config struct {
	Debug  bool
	Anchor EndpointConfig
	Tag    EndpointConfig
	Mqtt   *diagnostics.MqttConfig
	Init   InitConfig
}

// EndpointConfig names one radio's transport: either a UDP tunnel address, or a local
// SPI bus plus reset/IRQ pins, and the 64-bit tag id that unit blinks as.
type EndpointConfig struct {
	TagID  string // hex, e.g. "0101010101010101"
	Tunnel string // "host:port"; if set, Local is ignored
	Local  *LocalEndpointConfig
}

// LocalEndpointConfig configures transport.OpenLocal for a directly-attached radio.
type LocalEndpointConfig struct {
	SPIBus   string `toml:"spi_bus"`
	ResetPin string `toml:"reset_pin"`
	IRQPin   string `toml:"irq_pin"`
}

// InitConfig mirrors dw1000.InitOpts for the subset worth exposing in the config file;
// zero values fall back to dw1000.DefaultInitOpts().
type InitConfig struct {
	Channel   int
	Rate      int
	PulseFreq int `toml:"pulse_freq"`
	PreamLen  int `toml:"pream_len"`
}

func main() {
	verbose := flag.Bool("v", false, "verbose register/status logging")
	configFile := flag.String("config", "dwrange.toml", "path to config file")
	flag.Parse()

	config := &Config{}
	raw, err := ioutil.ReadFile(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dwrange: cannot read config file: %s\n", err)
		os.Exit(1)
	}
	if err := toml.Unmarshal(raw, config); err != nil {
		fmt.Fprintf(os.Stderr, "dwrange: cannot parse config file: %s\n", err)
		os.Exit(1)
	}

	sink, err := buildSink(config, *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dwrange: %s\n", err)
		os.Exit(2)
	}

	cat := reg.NewCatalog()

	anchorTr, err := openEndpoint(config.Anchor)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dwrange: anchor transport: %s\n", err)
		os.Exit(1)
	}
	tagTr, err := openEndpoint(config.Tag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dwrange: tag transport: %s\n", err)
		os.Exit(1)
	}

	anchorID, err := parseTagID(config.Anchor.TagID, 0x0101010101010101)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dwrange: anchor tag id: %s\n", err)
		os.Exit(1)
	}
	tagID, err := parseTagID(config.Tag.TagID, 0x0202020202020202)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dwrange: tag tag id: %s\n", err)
		os.Exit(1)
	}

	dwAnchor := dw1000.New(cat, anchorTr, sink)
	dwTag := dw1000.New(cat, tagTr, sink)

	opts := dw1000.DefaultInitOpts()
	if config.Init.Channel != 0 {
		opts.Channel = config.Init.Channel
	}
	if config.Init.Rate != 0 {
		opts.Rate = config.Init.Rate
	}
	if config.Init.PulseFreq != 0 {
		opts.PulseFreq = config.Init.PulseFreq
	}
	if config.Init.PreamLen != 0 {
		opts.PreamLen = config.Init.PreamLen
	}

	eng := ranging.NewEngine(dwAnchor, dwTag, anchorID, tagID, opts, sink)

	ctx := context.Background()
	if err := eng.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "dwrange: %s\n", err)
		os.Exit(1)
	}

	log.Printf("ranging started")
	for {
		result, err := eng.Round(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "dwrange: round failed: %s\n", err)
			os.Exit(1)
		}
		if result == nil {
			continue
		}
		fmt.Printf("%7.3f %7.3f\n", result.SymmetricMetres, result.AsymmetricMetres)
	}
}

// openEndpoint opens the transport named by an EndpointConfig: a UDP tunnel if Tunnel
// is set, otherwise a local SPI+GPIO transport.
func openEndpoint(ec EndpointConfig) (interface {
	reg.Transport
	dw1000.Transport
}, error) {
	if ec.Tunnel != "" {
		return transport.DialTunnel(ec.Tunnel, nil)
	}
	if ec.Local == nil {
		return nil, fmt.Errorf("endpoint has neither tunnel nor local configured")
	}
	return transport.OpenLocal(transport.LocalOpts{
		SPIBus:   ec.Local.SPIBus,
		ResetPin: ec.Local.ResetPin,
		IRQPin:   ec.Local.IRQPin,
	})
}

// parseTagID decodes a hex tag id string, falling back to def if empty.
func parseTagID(s string, def uint64) (uint64, error) {
	if s == "" {
		return def, nil
	}
	var v uint64
	_, err := fmt.Sscanf(s, "%x", &v)
	return v, err
}

// buildSink assembles the diagnostic sink: a verbose-or-quiet LogSink, fanned out to
// MQTT as well if the config names a broker.
func buildSink(config *Config, verbose bool) (diagnostics.Sink, error) {
	logSink := diagnostics.NewLogSink(verbose || config.Debug)
	if config.Mqtt == nil || config.Mqtt.Host == "" {
		return logSink, nil
	}
	mqttSink, err := diagnostics.NewMqttSink(*config.Mqtt)
	if err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}
	return diagnostics.Multi{logSink, mqttSink}, nil
}
