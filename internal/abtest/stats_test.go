package abtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRate(t *testing.T) {
	assert.Equal(t, 0.0, Rate(10, 0))
	assert.Equal(t, 0.5, Rate(50, 100))
	assert.Equal(t, 0.0, Rate(0, 100))
}

func TestZTest_ClearDifference(t *testing.T) {
	// 30% vs 10% on 1000 impressions each is overwhelmingly significant.
	p := ZTest(300, 1000, 100, 1000)
	assert.Less(t, p, 0.001)
}

func TestZTest_NoDifference(t *testing.T) {
	p := ZTest(100, 1000, 100, 1000)
	assert.InDelta(t, 1.0, p, 1e-9)
}

func TestZTest_Symmetric(t *testing.T) {
	assert.InDelta(t, ZTest(120, 1000, 90, 1000), ZTest(90, 1000, 120, 1000), 1e-12)
}

func TestZTest_DegenerateInputs(t *testing.T) {
	assert.Equal(t, 1.0, ZTest(0, 0, 10, 100))
	// Pooled rate 0 gives zero standard error.
	assert.Equal(t, 1.0, ZTest(0, 100, 0, 100))
	// Pooled rate 1 as well.
	assert.Equal(t, 1.0, ZTest(100, 100, 100, 100))
}

func TestSignificant_ImpressionsFloor(t *testing.T) {
	// Strong rates but tiny samples: never significant.
	_, sig := Significant(9, 10, 1, 10, DefaultAlpha)
	assert.False(t, sig)

	p, sig := Significant(300, 1000, 100, 1000, DefaultAlpha)
	assert.True(t, sig)
	assert.Less(t, p, DefaultAlpha)
}

func TestSignificant_CloseRates(t *testing.T) {
	_, sig := Significant(101, 1000, 100, 1000, DefaultAlpha)
	assert.False(t, sig)
}

func TestSampleSize(t *testing.T) {
	// Detecting 10% -> 12% needs roughly 3.8k per variant.
	n := SampleSize(0.10, 0.12)
	assert.Greater(t, n, int64(3000))
	assert.Less(t, n, int64(5000))

	// Bigger lifts need fewer samples.
	assert.Less(t, SampleSize(0.10, 0.20), SampleSize(0.10, 0.12))

	assert.Equal(t, int64(0), SampleSize(0.1, 0.1))
}
