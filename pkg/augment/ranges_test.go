package augment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntRangeSeq(t *testing.T) {
	r := IntRange{Lo: 2, Hi: 10, Step: 1}
	assert.Equal(t, 8, r.Len())
	assert.Equal(t, []float64{2, 3, 4, 5, 6, 7, 8, 9}, r.Seq())

	odd := IntRange{Lo: 1, Hi: 14, Step: 2}
	assert.Equal(t, 7, odd.Len())
	assert.Equal(t, []float64{1, 3, 5, 7, 9, 11, 13}, odd.Seq())
}

func TestIntRangeScale(t *testing.T) {
	r := IntRange{Lo: 2, Hi: 10, Step: 1}

	tests := []struct {
		name   string
		cutoff float64
		want   []float64
	}{
		{"full", 1, []float64{2, 3, 4, 5, 6, 7, 8, 9}},
		{"half keeps leading slice", 0.5, []float64{2, 3, 4, 5}},
		{"floors the count", 0.55, []float64{2, 3, 4, 5}},
		{"tiny cutoff keeps one", 0.01, []float64{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Scale(tt.cutoff).Seq())
		})
	}
}

func TestIntRangeScaleSteppedKeepsStride(t *testing.T) {
	r := IntRange{Lo: 1, Hi: 14, Step: 2}
	got := r.Scale(0.5)
	require.Equal(t, 3, got.Len())
	assert.Equal(t, []float64{1, 3, 5}, got.Seq())
}

func TestFloatRangeSeq(t *testing.T) {
	r := FloatRange{Min: 0.2, Max: 1.5, Step: 0.1}
	require.Equal(t, 13, r.Len())

	seq := r.Seq()
	assert.InDelta(t, 0.2, seq[0], 1e-9)
	assert.InDelta(t, 1.4, seq[len(seq)-1], 1e-9)
}

func TestFloatRangeScaleShrinksBounds(t *testing.T) {
	r := FloatRange{Min: -0.8, Max: 0.9, Step: 0.13}
	got := r.Scale(0.5).(FloatRange)

	assert.InDelta(t, -0.4, got.Min, 1e-9)
	assert.InDelta(t, 0.45, got.Max, 1e-9)
	assert.InDelta(t, 0.13, got.Step, 1e-9, "scaling keeps the step")
	assert.Less(t, got.Len(), r.Len())
}

func TestFloatRangeScalePositiveMinKept(t *testing.T) {
	r := FloatRange{Min: 1.05, Max: 2.35, Step: 0.05}
	got := r.Scale(0.8).(FloatRange)

	assert.InDelta(t, 1.05, got.Min, 1e-9, "a positive lower bound is not scaled")
	assert.InDelta(t, 1.88, got.Max, 1e-9)
}

func TestFloatRangeScaleNeverEmpty(t *testing.T) {
	r := FloatRange{Min: 2, Max: 3, Step: 1}
	got := r.Scale(0.1)

	require.Equal(t, 1, got.Len())
	assert.InDelta(t, 2, got.Seq()[0], 1e-9)
}

func TestEnumExemptFromScaling(t *testing.T) {
	e := Enum{0, 1}
	assert.Equal(t, []float64{0, 1}, e.Scale(0.01).Seq())
	assert.Equal(t, 2, e.Scale(1).Len())
}
