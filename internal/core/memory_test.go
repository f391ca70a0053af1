package core

import (
	"testing"

	"github.com/cybre/reactive-light-engine/internal/genre"
	"github.com/stretchr/testify/assert"
)

func TestMemoryEntryStartsNeutral(t *testing.T) {
	m := NewMemory()
	e := m.Entry(genre.EDM)
	assert.Equal(t, MemoryEntry{Idle: 1.0, Flow: 1.0, Pulse: 1.0}, e)
}

func TestMemoryReinforcePulseLowersPulseMultiplier(t *testing.T) {
	m := NewMemory()
	for i := 0; i < 200; i++ {
		m.Reinforce(genre.EDM, Pulse)
	}
	e := m.Entry(genre.EDM)
	assert.Less(t, e.Pulse, 1.0)
	assert.GreaterOrEqual(t, e.Pulse, memoryMin)
	assert.Greater(t, e.Idle, e.Pulse)
	assert.Greater(t, e.Flow, e.Pulse)
}

func TestMemoryReinforceRecoversUnusedStatesTowardNeutral(t *testing.T) {
	m := NewMemory()
	for i := 0; i < 50; i++ {
		m.Reinforce(genre.Rock, Idle)
	}
	idleAfterIdle := m.Entry(genre.Rock).Idle

	for i := 0; i < 50; i++ {
		m.Reinforce(genre.Rock, Flow)
	}
	e := m.Entry(genre.Rock)

	assert.Less(t, idleAfterIdle, 1.0)
	assert.Greater(t, e.Idle, idleAfterIdle)
	assert.Less(t, e.Flow, 1.0)
}

func TestMemoryClampsToRange(t *testing.T) {
	m := NewMemory()
	for i := 0; i < 100000; i++ {
		m.Reinforce(genre.Metal, Pulse)
	}
	e := m.Entry(genre.Metal)
	assert.GreaterOrEqual(t, e.Pulse, memoryMin)
	assert.LessOrEqual(t, e.Idle, memoryMax)
	assert.LessOrEqual(t, e.Flow, memoryMax)
}

func TestMemoryIsPerGenre(t *testing.T) {
	m := NewMemory()
	for i := 0; i < 200; i++ {
		m.Reinforce(genre.EDM, Pulse)
	}
	assert.Equal(t, neutralEntry(), m.Entry(genre.Ambient))
}
