package morph

import (
	"fmt"
	"math"
)

// DefaultStep is the ratio increment between animation frames.
const DefaultStep = 0.02

// Animator walks a Merger from ratio 0 to 1 in fixed steps. The last frame is
// always exactly 1.
type Animator struct {
	merger *Merger
	step   float64
	frame  int
	done   bool
}

// NewAnimator returns an animator over m. step must lie in (0, 1].
func NewAnimator(m *Merger, step float64) (*Animator, error) {
	if math.IsNaN(step) || step <= 0 || step > 1 {
		return nil, fmt.Errorf("%w: step %v", ErrInvalidRatio, step)
	}
	return &Animator{merger: m, step: step}, nil
}

// StepForFrames returns the step that yields n frames including both ends.
// n below 2 yields a single step from 0 to 1.
func StepForFrames(n int) float64 {
	if n < 2 {
		return 1
	}
	return 1 / float64(n-1)
}

// Ratio returns the ratio of the next frame.
func (a *Animator) Ratio() float64 {
	return min(1, float64(a.frame)*a.step)
}

// Done reports whether the frame at ratio 1 has been produced.
func (a *Animator) Done() bool {
	return a.done
}

// Next returns the next frame, or false once the animation has finished.
func (a *Animator) Next() (*Snapshot, bool) {
	if a.done {
		return nil, false
	}
	r := a.Ratio()
	// Snap to the end when the remaining distance is rounding noise.
	if 1-r < a.step*1e-6 {
		r = 1
	}
	if r == 1 {
		a.done = true
	}
	a.frame++

	s, err := a.merger.Interpolate(r)
	if err != nil {
		// r never leaves [0, 1].
		panic(fmt.Sprintf("animator frame %d at ratio %v: %v", a.frame-1, r, err))
	}
	return s, true
}

// Reset rewinds the animator to ratio 0.
func (a *Animator) Reset() {
	a.frame = 0
	a.done = false
}
