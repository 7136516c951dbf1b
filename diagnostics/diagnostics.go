// Package diagnostics provides the event sinks the register layer and ranging engine
// report through, so register traffic and ranging status can be observed without any
// shared mutable globals.
package diagnostics

import (
	"fmt"
	"log"

	"github.com/jbentham/uwb/reg"
)

// Sink receives register and ranging events. It implements reg.EventSink, and adds
// the ranging-specific Result/Status hooks the engine reports through.
type Sink interface {
	RegRead(name string, raw []byte)
	RegWrite(name string, raw []byte)
	Status(msg string)
	RangeResult(anchorID, tagID string, metres float64, ticks int64)
}

// LogSink is the default sink, logging through the standard library logger.
type LogSink struct {
	Logger  *log.Logger // nil means log.Default()
	Verbose bool        // when false, RegRead/RegWrite are suppressed
}

// NewLogSink builds a LogSink writing to log.Default().
func NewLogSink(verbose bool) *LogSink {
	return &LogSink{Verbose: verbose}
}

func (s *LogSink) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.Default()
}

func (s *LogSink) RegRead(name string, raw []byte) {
	if s.Verbose {
		s.logger().Printf("reg read  %-12s % x", name, raw)
	}
}

func (s *LogSink) RegWrite(name string, raw []byte) {
	if s.Verbose {
		s.logger().Printf("reg write %-12s % x", name, raw)
	}
}

func (s *LogSink) Status(msg string) {
	s.logger().Print(msg)
}

func (s *LogSink) RangeResult(anchorID, tagID string, metres float64, ticks int64) {
	s.logger().Printf("range %s<->%s: %.3fm (%d ticks)", anchorID, tagID, metres, ticks)
}

// Multi fans a single event out to several sinks, e.g. a LogSink plus an MQTT sink.
type Multi []Sink

func (m Multi) RegRead(name string, raw []byte) {
	for _, s := range m {
		s.RegRead(name, raw)
	}
}

func (m Multi) RegWrite(name string, raw []byte) {
	for _, s := range m {
		s.RegWrite(name, raw)
	}
}

func (m Multi) Status(msg string) {
	for _, s := range m {
		s.Status(msg)
	}
}

func (m Multi) RangeResult(anchorID, tagID string, metres float64, ticks int64) {
	for _, s := range m {
		s.RangeResult(anchorID, tagID, metres, ticks)
	}
}

// noopSink discards every event; used where a caller wants a Sink but no output.
type noopSink struct{}

func (noopSink) RegRead(string, []byte)                     {}
func (noopSink) RegWrite(string, []byte)                    {}
func (noopSink) Status(string)                              {}
func (noopSink) RangeResult(string, string, float64, int64) {}

// Noop returns a Sink that discards every event.
func Noop() Sink { return noopSink{} }

// FormatFields renders a register's field values for log lines (name=value, space
// separated).
func FormatFields(name string, fields []reg.FieldValue) string {
	s := name + ":"
	for _, f := range fields {
		s += fmt.Sprintf(" %s=%#x", f.Name, f.Value)
	}
	return s
}
