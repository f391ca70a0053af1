package emitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeltaScaleForClampsIntensity(t *testing.T) {
	assert.Equal(t, float32(0.4), deltaScaleFor(-1))
	assert.Equal(t, float32(1.0), deltaScaleFor(2))
}

func TestDeltaScaleForLinearBetweenBounds(t *testing.T) {
	assert.InDelta(t, 0.4, deltaScaleFor(0), 1e-6)
	assert.InDelta(t, 0.7, deltaScaleFor(0.5), 1e-6)
	assert.InDelta(t, 1.0, deltaScaleFor(1), 1e-6)
}

func TestIntentMarkersCloseTheSumType(t *testing.T) {
	var intents = []Intent{
		HueIntent{Type: "HUE_STATE"},
		WizIntent{Type: "WIZ_PULSE"},
	}
	assert.Len(t, intents, 2)
}
