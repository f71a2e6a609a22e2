package morph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectRatios(a *Animator) []float64 {
	var out []float64
	for {
		s, ok := a.Next()
		if !ok {
			return out
		}
		out = append(out, s.Ratio)
	}
}

func TestAnimatorSteps(t *testing.T) {
	m := mustBuild(t, tetraMesh(), cycledTetra())

	tests := []struct {
		name string
		step float64
		want []float64
	}{
		{"quarters", 0.25, []float64{0, 0.25, 0.5, 0.75, 1}},
		{"uneven", 0.3, []float64{0, 0.3, 0.6, 0.9, 1}},
		{"single", 1, []float64{0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAnimator(m, tt.step)
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.want, collectRatios(a), 1e-12)
			assert.True(t, a.Done())
		})
	}
}

func TestAnimatorDefaultStepIsMonotonic(t *testing.T) {
	a, err := NewAnimator(mustBuild(t, tetraMesh(), cycledTetra()), DefaultStep)
	require.NoError(t, err)

	got := collectRatios(a)
	require.Len(t, got, 51)
	assert.Equal(t, 0.0, got[0])
	assert.Equal(t, 1.0, got[len(got)-1])
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i], got[i-1])
	}
}

func TestAnimatorStaysInRange(t *testing.T) {
	m := mustBuild(t, tetraMesh(), cycledTetra())
	for _, step := range []float64{0.1, StepForFrames(7), 0.7, 1 - 1e-12} {
		a, err := NewAnimator(m, step)
		require.NoError(t, err)

		var got []float64
		require.NotPanics(t, func() { got = collectRatios(a) }, "step %v", step)
		require.NotEmpty(t, got)
		for _, r := range got {
			assert.True(t, r >= 0 && r <= 1, "step %v gave ratio %v", step, r)
		}
		assert.Equal(t, 1.0, got[len(got)-1], "step %v", step)
	}
}

func TestAnimatorReset(t *testing.T) {
	a, err := NewAnimator(mustBuild(t, tetraMesh(), cycledTetra()), 0.5)
	require.NoError(t, err)

	first := collectRatios(a)
	_, ok := a.Next()
	assert.False(t, ok)

	a.Reset()
	assert.False(t, a.Done())
	assert.Equal(t, first, collectRatios(a))
}

func TestAnimatorRejectsBadStep(t *testing.T) {
	m := mustBuild(t, tetraMesh(), cycledTetra())
	for _, step := range []float64{0, -0.1, 1.5} {
		_, err := NewAnimator(m, step)
		assert.ErrorIs(t, err, ErrInvalidRatio)
	}
}

func TestStepForFrames(t *testing.T) {
	assert.Equal(t, 0.25, StepForFrames(5))
	assert.Equal(t, 1.0, StepForFrames(2))
	assert.Equal(t, 1.0, StepForFrames(0))
}
