package emitter

import (
	"fmt"
	"io"
)

// Sink is the fan-out target for one brand's paced emissions (spec.md
// §4.8/§6.2 names Hue and WiZ as the two collaborator transports this
// module's scope stops short of). A real deployment wires a Sink to a
// Hue bridge HTTP client or a WiZ UDP client; this module's scope stops
// at the Sink boundary and only ships the demo-facing implementations
// below.
type Sink interface {
	EmitHue(HueIntent)
	EmitWiz(WizIntent)
}

// ConsoleSink writes a terse one-line record of every accepted emission
// to the given writer, the same role the teacher's debug log lines play
// for bulb commands before a real transport takes over.
type ConsoleSink struct {
	w io.Writer
}

// NewConsoleSink constructs a ConsoleSink writing to w.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w}
}

func (s *ConsoleSink) EmitHue(in HueIntent) {
	fmt.Fprintf(s.w, "hue  phase=%-6d hue=%-5d sat=%-3d bri=%-3d transition=%d rate=%dms\n",
		in.Phase, in.State.Hue, in.State.Sat, in.State.Bri, in.State.TransitionTime, in.RateMs)
}

func (s *ConsoleSink) EmitWiz(in WizIntent) {
	fmt.Fprintf(s.w, "wiz  phase=%-6d scene=%-16s rgb=(%d,%d,%d) brightness=%.2f beat=%v drop=%v rate=%dms\n",
		in.Phase, in.Scene, in.Color.R, in.Color.G, in.Color.B, in.Brightness, in.Beat, in.Drop, in.RateMs)
}

// MultiSink fans one emission out to every wrapped Sink, so several
// sinks can be driven from the same intents without the engine knowing
// any of them exists.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink constructs a MultiSink over the given sinks, skipping any
// nil entries so callers can pass an optional sink unconditionally.
func NewMultiSink(sinks ...Sink) *MultiSink {
	m := &MultiSink{}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

func (m *MultiSink) EmitHue(in HueIntent) {
	for _, s := range m.sinks {
		s.EmitHue(in)
	}
}

func (m *MultiSink) EmitWiz(in WizIntent) {
	for _, s := range m.sinks {
		s.EmitWiz(in)
	}
}
