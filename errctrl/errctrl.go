// Package errctrl provides the error-norm strategies an adaptive
// propagator uses to turn a tableau's per-component error estimate into a
// single scalar, which is then compared against tolerance to accept or
// retry a step.
//
// Grounded on spec §4.2 and original_source/src/propagators/mod.rs's
// ErrorCtrl trait, whose default implementation is RSSStepPV.
package errctrl

import "math"

// Controller estimates a scalar error from a step's error vector e, the
// proposed next state, and the previous (pre-step) state. next and prev
// are used to scale the error relative to the magnitude of the state being
// integrated, so a step near the origin isn't judged by an absolute error
// alone.
type Controller interface {
	Estimate(e, next, prev []float64) float64
}

// RSSStep takes the root-sum-square of every error component, each scaled
// by the larger of the next/previous state's corresponding magnitude (or by
// 1 when both magnitudes are below 1).
type RSSStep struct{}

// Estimate implements Controller.
func (RSSStep) Estimate(e, next, prev []float64) float64 {
	return rssOver(e, next, prev, 0, len(e))
}

// RSSStepPV takes the root-sum-square of the position error components
// (indices 0:3) and of the velocity error components (3:6) separately, and
// returns whichever is larger. This is the default error controller in
// the original propagator, used because position and velocity errors live
// on very different scales and a single combined RSS can let one mask the
// other.
type RSSStepPV struct{}

// Estimate implements Controller.
func (RSSStepPV) Estimate(e, next, prev []float64) float64 {
	posErr := rssOver(e, next, prev, 0, 3)
	velErr := rssOver(e, next, prev, 3, 6)
	if posErr > velErr {
		return posErr
	}
	return velErr
}

// rssOver computes the root-sum-square of e[lo:hi], each component scaled
// by 1/max(|next[i]|, |prev[i]|, 1) to guard against division blow-up near
// zero-crossings.
func rssOver(e, next, prev []float64, lo, hi int) float64 {
	sum := 0.0
	for i := lo; i < hi; i++ {
		scale := 1.0
		if m := maxAbs(next[i], prev[i]); m > scale {
			scale = m
		}
		v := e[i] / scale
		sum += v * v
	}
	return math.Sqrt(sum)
}

func maxAbs(a, b float64) float64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	if a > b {
		return a
	}
	return b
}
