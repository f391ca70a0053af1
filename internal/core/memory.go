package core

import "github.com/cybre/reactive-light-engine/internal/genre"

const (
	memoryMin             = 0.5
	memoryMax             = 3.0
	memoryReinforceAlpha  = 0.02
	memoryDecayAlpha      = 0.004
)

// MemoryEntry holds the per-genre learned multipliers the behavior FSM's
// thresholds are scaled by: a listener who consistently pushes a genre
// into pulse gradually lowers how much energy that genre needs to get
// there, and one that never reaches flow for a genre gradually raises
// it back toward neutral.
type MemoryEntry struct {
	Idle  float64
	Flow  float64
	Pulse float64
}

func neutralEntry() MemoryEntry {
	return MemoryEntry{Idle: 1.0, Flow: 1.0, Pulse: 1.0}
}

// Memory is the neural motif memory (spec.md glossary): a small
// per-genre table of learned threshold multipliers, reinforced toward
// whichever behavior state actually sustains and decayed back toward
// neutral otherwise. It is pure bookkeeping over genre.Profile's static
// table — no persistence, scoped to one process's runtime.
type Memory struct {
	entries map[genre.Genre]MemoryEntry
}

// NewMemory constructs an empty Memory; every genre starts at the
// neutral 1.0 multiplier until reinforced.
func NewMemory() *Memory {
	return &Memory{entries: make(map[genre.Genre]MemoryEntry)}
}

// Entry returns g's current multipliers, or the neutral entry if g has
// never been reinforced.
func (m *Memory) Entry(g genre.Genre) MemoryEntry {
	if e, ok := m.entries[g]; ok {
		return e
	}
	return neutralEntry()
}

// Reinforce nudges g's multiplier for the sustained state down (making
// that state easier to re-enter next time) and the others back toward
// neutral, then clamps every field to [memoryMin, memoryMax].
func (m *Memory) Reinforce(g genre.Genre, sustained BehaviorState) {
	e := m.Entry(g)

	switch sustained {
	case Idle:
		e.Idle = relax(e.Idle, memoryReinforceAlpha)
		e.Flow = recover(e.Flow, memoryDecayAlpha)
		e.Pulse = recover(e.Pulse, memoryDecayAlpha)
	case Flow:
		e.Flow = relax(e.Flow, memoryReinforceAlpha)
		e.Idle = recover(e.Idle, memoryDecayAlpha)
		e.Pulse = recover(e.Pulse, memoryDecayAlpha)
	case Pulse:
		e.Pulse = relax(e.Pulse, memoryReinforceAlpha)
		e.Idle = recover(e.Idle, memoryDecayAlpha)
		e.Flow = recover(e.Flow, memoryDecayAlpha)
	}

	e.Idle = clampMemory(e.Idle)
	e.Flow = clampMemory(e.Flow)
	e.Pulse = clampMemory(e.Pulse)

	m.entries[g] = e
}

// relax eases a multiplier toward memoryMin (easier to reach again).
func relax(v, alpha float64) float64 {
	return v + alpha*(memoryMin-v)
}

// recover eases a multiplier back toward neutral.
func recover(v, alpha float64) float64 {
	return v + alpha*(1.0-v)
}

func clampMemory(v float64) float64 {
	if v < memoryMin {
		return memoryMin
	}
	if v > memoryMax {
		return memoryMax
	}
	return v
}
