// Package propagator implements the generic Runge-Kutta integrator that
// drives a pluggable dynamics model: a single adaptive-or-fixed step
// (Derive) and a loop that advances to a target elapsed time
// (UntilTimeElapsed), optionally streaming accepted states to a sink.
//
// Grounded on original_source/src/propagators/mod.rs's Propagator::derive
// and until_time_elapsed, restated per the propagator/dynamics coupling
// design note (SPEC_FULL.md §12): the propagator owns the current
// (epoch, state) pair itself and passes it to Dynamics.EOM directly,
// rather than routing through a mutable dynamics handle.
package propagator

import (
	"fmt"
	"math"
	"os"
	"time"

	kitlog "github.com/go-kit/log"

	"smd/dynamics"
	"smd/errctrl"
	"smd/tableau"
)

// Options configures a Propagator. Grounded on spec §3's "Propagator
// options" and original_source/src/propagators/mod.rs's PropOpts.
type Options struct {
	InitStep    time.Duration
	MinStep     time.Duration
	MaxStep     time.Duration
	Tolerance   float64
	MaxAttempts int
	FixedStep   bool
	ErrCtrl     errctrl.Controller
}

// DefaultOptions returns the GMAT-derived defaults used throughout the
// retrieval pack: 60s initial step, 1ms minimum, 2700s maximum, 1e-12
// tolerance, 50 attempts, RSSStepPV error control.
func DefaultOptions() Options {
	return Options{
		InitStep:    60 * time.Second,
		MinStep:     time.Millisecond,
		MaxStep:     2700 * time.Second,
		Tolerance:   1e-12,
		MaxAttempts: 50,
		ErrCtrl:     errctrl.RSSStepPV{},
	}
}

// validate enforces spec §3's invariant: min_step ≤ init_step ≤ max_step,
// and a fixed-step configuration has min_step == max_step and zero
// tolerance.
func (o Options) validate() error {
	if o.FixedStep {
		if o.MinStep != o.MaxStep {
			return fmt.Errorf("propagator: fixed-step options require MinStep == MaxStep")
		}
		if o.Tolerance != 0 {
			return fmt.Errorf("propagator: fixed-step options require zero Tolerance")
		}
		return nil
	}
	if o.MinStep > o.InitStep || o.InitStep > o.MaxStep {
		return fmt.Errorf("propagator: options must satisfy MinStep <= InitStep <= MaxStep")
	}
	return nil
}

// IntegrationDetails records the outcome of the most recently accepted
// step: the step size used, the error magnitude reported by the error
// controller, and the number of attempts the adaptive loop needed.
type IntegrationDetails struct {
	Step     time.Duration
	Error    float64
	Attempts int
}

// Sample is one accepted propagation state, the unit published to a sink.
type Sample struct {
	Epoch time.Time
	State []float64
}

// Propagator owns an RK tableau, the current adapted step size, the
// integration details of the last accepted step, and a reference to an
// immutable dynamics model. One Propagator instance advances one
// (epoch, state) pair at a time; parallel propagation means constructing
// independent Propagator/Dynamics pairs (spec §5).
type Propagator struct {
	Tableau  tableau.Tableau
	Dynamics dynamics.Dynamics
	Opts     Options

	stepSize time.Duration
	details  IntegrationDetails
	logger   kitlog.Logger
}

// New constructs a Propagator. opts.FixedStep forces every step to
// opts.MinStep (== opts.MaxStep) regardless of the tableau's embedded
// weights.
func New(tb tableau.Tableau, dyn dynamics.Dynamics, opts Options) (*Propagator, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.ErrCtrl == nil {
		opts.ErrCtrl = errctrl.RSSStepPV{}
	}
	step := opts.InitStep
	if opts.FixedStep || tableau.IsFixed(tb) {
		step = opts.MinStep
	}
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	logger = kitlog.With(logger, "subsys", "propagator")
	return &Propagator{
		Tableau:  tb,
		Dynamics: dyn,
		Opts:     opts,
		stepSize: step,
		logger:   logger,
	}, nil
}

// LatestDetails returns the details of the most recently accepted step.
func (p *Propagator) LatestDetails() IntegrationDetails {
	return p.details
}

// stepOnce performs the RK stage evaluations and weighted sum for a fixed
// step h (signed), without any adaptive retry logic. Used both by the
// fixed-step path of Derive and by UntilTimeElapsed's one-shot overshoot
// correction.
func (p *Propagator) stepOnce(t time.Time, x []float64, h float64) (time.Time, []float64, []float64, error) {
	stages := p.Tableau.Stages()
	k := make([][]float64, stages)
	k0, err := p.Dynamics.EOM(t, x)
	if err != nil {
		return t, nil, nil, err
	}
	k[0] = k0

	n := len(x)
	for i := 1; i < stages; i++ {
		row := tableau.ARow(p.Tableau, i)
		ci := 0.0
		wi := make([]float64, n)
		for j, aij := range row {
			ci += aij
			for d := 0; d < n; d++ {
				wi[d] += aij * k[j][d]
			}
		}
		xi := make([]float64, n)
		for d := 0; d < n; d++ {
			xi[d] = x[d] + h*wi[d]
		}
		ti := t.Add(time.Duration(ci * h * float64(time.Second)))
		ki, err := p.Dynamics.EOM(ti, xi)
		if err != nil {
			return t, nil, nil, err
		}
		k[i] = ki
	}

	b := p.Tableau.B()
	next := make([]float64, n)
	copy(next, x)
	for i := 0; i < stages; i++ {
		for d := 0; d < n; d++ {
			next[d] += h * b[i] * k[i][d]
		}
	}

	var errVec []float64
	if p.Tableau.Embedded() {
		errVec = make([]float64, n)
		for i := 0; i < stages; i++ {
			bErr := b[stages+i]
			for d := 0; d < n; d++ {
				errVec[d] += h * bErr * k[i][d]
			}
		}
	}

	newT := t.Add(time.Duration(h * float64(time.Second)))
	return newT, next, errVec, nil
}

// Derive advances (t, x) by one step, per spec §4.3. For a fixed-step
// tableau (or FixedStep options) it always commits the configured step.
// For an embedded tableau it retries with a shrunk step until the error
// controller's estimate is within tolerance, the step has collapsed to
// MinStep, or MaxAttempts is exhausted (in which case it warns and
// commits the best available step).
func (p *Propagator) Derive(t time.Time, x []float64) (time.Time, []float64, error) {
	fixed := p.Opts.FixedStep || tableau.IsFixed(p.Tableau)
	h := p.stepSize.Seconds()

	if fixed {
		newT, next, _, err := p.stepOnce(t, x, h)
		if err != nil {
			return t, nil, err
		}
		p.details = IntegrationDetails{Step: p.stepSize, Attempts: 1}
		return newT, next, nil
	}

	order := float64(p.Tableau.Order())
	attempt := 1
	for {
		newT, next, errVec, err := p.stepOnce(t, x, h)
		if err != nil {
			return t, nil, err
		}
		errMag := p.Opts.ErrCtrl.Estimate(errVec, next, x)

		exhausted := attempt >= p.Opts.MaxAttempts
		commit := errMag <= p.Opts.Tolerance || math.Abs(h) <= p.Opts.MinStep.Seconds() || exhausted
		if !commit {
			proposed := 0.9 * h * math.Pow(p.Opts.Tolerance/errMag, 1/(order-1))
			h = clampMagnitudeAbove(proposed, p.Opts.MinStep.Seconds())
			attempt++
			continue
		}

		if exhausted {
			p.logger.Log("level", "warn", "msg", "maximum attempts reached", "attempts", attempt)
		}
		p.stepSize = time.Duration(h * float64(time.Second))
		p.details = IntegrationDetails{Step: p.stepSize, Error: errMag, Attempts: attempt}
		if errMag < p.Opts.Tolerance {
			var nextStep float64
			if errMag == 0 {
				nextStep = p.Opts.MaxStep.Seconds()
				if h < 0 {
					nextStep = -nextStep
				}
			} else {
				nextStep = 0.9 * h * math.Pow(p.Opts.Tolerance/errMag, 1/order)
				nextStep = clampMagnitudeBelow(nextStep, p.Opts.MaxStep.Seconds())
			}
			p.stepSize = time.Duration(nextStep * float64(time.Second))
		}
		return newT, next, nil
	}
}

// clampMagnitudeAbove returns h clamped so |h| is no smaller than min,
// preserving h's sign.
func clampMagnitudeAbove(h, min float64) float64 {
	if math.Abs(h) < min {
		if h < 0 {
			return -min
		}
		return min
	}
	return h
}

// clampMagnitudeBelow returns h clamped so |h| is no larger than max,
// preserving h's sign.
func clampMagnitudeBelow(h, max float64) float64 {
	if math.Abs(h) > max {
		if h < 0 {
			return -max
		}
		return max
	}
	return h
}

// UntilTimeElapsed advances (epoch, state) by Δt (signed, negative for
// backward propagation), per spec §4.4. Every accepted state, including
// the final one landing exactly on epoch+Δt, is sent to sink if non-nil;
// a send failure is logged but does not abort propagation.
func (p *Propagator) UntilTimeElapsed(epoch time.Time, state []float64, Δt time.Duration, sink chan<- Sample) (time.Time, []float64, error) {
	backprop := Δt < 0
	if backprop && p.stepSize > 0 {
		p.stepSize = -p.stepSize
	} else if !backprop && p.stepSize < 0 {
		p.stepSize = -p.stepSize
	}
	stopTime := epoch.Add(Δt)

	t, x := epoch, state
	for {
		newT, newX, err := p.Derive(t, x)
		if err != nil {
			return t, nil, err
		}
		crossed := (!backprop && !newT.Before(stopTime)) || (backprop && !newT.After(stopTime))
		if !crossed {
			p.publish(sink, newT, newX)
			t, x = newT, newX
			continue
		}

		if newT.Equal(stopTime) {
			p.publish(sink, newT, newX)
			return newT, newX, nil
		}

		// overshoot = newT - stopTime; h_final = h_last - overshoot reduces,
		// for both directions, to stopTime - t (the step from the last
		// accepted state straight to the stop time).
		adjusted := stopTime.Sub(t).Seconds()
		finalT, finalX, _, err := p.stepOnce(t, x, adjusted)
		if err != nil {
			return t, nil, err
		}
		p.details.Step = time.Duration(adjusted * float64(time.Second))
		p.publish(sink, finalT, finalX)
		return finalT, finalX, nil
	}
}

// publish sends a sample to sink without blocking: a full or absent
// receiver is logged, never fatal, per spec §4.4/§7.
func (p *Propagator) publish(sink chan<- Sample, epoch time.Time, state []float64) {
	if sink == nil {
		return
	}
	sample := Sample{Epoch: epoch, State: append([]float64{}, state...)}
	select {
	case sink <- sample:
	default:
		p.logger.Log("level", "warn", "msg", "could not publish to sink", "epoch", epoch)
	}
}
