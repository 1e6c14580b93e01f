package dynamics

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"

	"smd"
	"smd/dual"
)

// OrbitalDynamics is two-body central gravity plus an ordered list of
// pluggable acceleration perturbations (point masses, harmonics, ...).
// Grounded on original_source/src/dynamics/orbital.rs's OrbitalDynamics.
type OrbitalDynamics struct {
	Origin   smd.Frame
	Epoch0   time.Time
	Accels   []AccelModel
	trackSTM bool
}

// NewOrbitalDynamics constructs an OrbitalDynamics anchored at orbit's
// epoch and origin. If stm is true the dynamics propagates the 42-wide
// state (6 state + 36 row-major STM entries) and Φ starts at the identity.
func NewOrbitalDynamics(orbit *smd.Orbit, stm bool, accels ...AccelModel) *OrbitalDynamics {
	return &OrbitalDynamics{
		Origin:   orbit.Origin,
		Epoch0:   orbit.Epoch,
		Accels:   accels,
		trackSTM: stm,
	}
}

// PropVecSize implements Dynamics.
func (d *OrbitalDynamics) PropVecSize() int {
	if d.trackSTM {
		return 42
	}
	return 6
}

// orbitAt reconstructs the Orbit the acceleration models see at a given
// evaluation point, per spec §4.5's "reconstruct an orbit from (epoch,
// first 6 entries)".
func (d *OrbitalDynamics) orbitAt(epoch time.Time, state []float64) *smd.Orbit {
	return smd.NewOrbitFromRV(append([]float64{}, state[0:3]...), append([]float64{}, state[3:6]...), epoch, d.Origin)
}

// EOM implements Dynamics. When state has length 6 it evaluates the
// real-valued two-body-plus-perturbations acceleration. When state has
// length 42 it additionally advances the embedded STM via the Jacobian
// DualEOM returns.
func (d *OrbitalDynamics) EOM(epoch time.Time, state []float64) ([]float64, error) {
	if len(state) != 6 && len(state) != 42 {
		return nil, fmt.Errorf("dynamics: unexpected state length %d", len(state))
	}
	orbit := d.orbitAt(epoch, state)
	r := orbit.R()
	rNorm := smd.Norm(r)
	if rNorm == 0 {
		return nil, fmt.Errorf("dynamics: zero-magnitude position at %s", epoch)
	}
	μ := d.Origin.GM()
	factor := -μ / (rNorm * rNorm * rNorm)
	accel := []float64{factor * r[0], factor * r[1], factor * r[2]}
	for _, m := range d.Accels {
		a, err := m.EOM(orbit)
		if err != nil {
			return nil, err
		}
		for i := 0; i < 3; i++ {
			accel[i] += a[i]
		}
	}

	v := orbit.V()
	deriv := []float64{v[0], v[1], v[2], accel[0], accel[1], accel[2]}
	if len(state) == 6 {
		return deriv, nil
	}

	real, jac, err := d.DualEOM(epoch, state)
	if err != nil {
		return nil, err
	}
	Φ := mat.NewDense(6, 6, append([]float64{}, state[6:42]...))
	var ΦDot mat.Dense
	ΦDot.Mul(jac, Φ)
	out := make([]float64, 42)
	copy(out[0:6], real)
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			out[6+i*6+j] = ΦDot.At(i, j)
		}
	}
	return out, nil
}

// DualEOM implements Dynamics via forward-mode automatic differentiation:
// the position and velocity sub-vectors are lifted into dual numbers with
// an identity tangent basis, the two-body and perturbing accelerations are
// evaluated in dual arithmetic, and the 6x6 Jacobian is read off the
// tangent components per spec §4.5 ("Jacobian rows 0..2 come from the
// velocity sub-vector's dual components, rows 3..5 from the
// acceleration's dual components").
func (d *OrbitalDynamics) DualEOM(epoch time.Time, state []float64) ([]float64, *mat.Dense, error) {
	lifted := dual.Lift(state[0:6])
	rDual := dual.Vec3{lifted[0], lifted[1], lifted[2]}
	orbit := d.orbitAt(epoch, state)

	rNorm := dual.Norm(rDual)
	if rNorm.Real == 0 {
		return nil, nil, fmt.Errorf("dynamics: zero-magnitude position at %s", epoch)
	}
	invR3 := dual.PowReal(rNorm, -3)
	μ := d.Origin.GM()
	twoBodyFactor := dual.Scale(-μ, invR3)
	aDual := dual.Scale3(twoBodyFactor, rDual)

	realAccel := []float64{aDual[0].Real, aDual[1].Real, aDual[2].Real}
	jac := mat.NewDense(6, 6, nil)
	for i := 0; i < 3; i++ {
		jac.Set(3+i, i+3, 0) // two-body does not depend on velocity
		for j := 0; j < 3; j++ {
			jac.Set(3+i, j, aDual[i].Inf[j])
		}
	}

	for _, m := range d.Accels {
		real, mjac, err := m.DualEOM(rDual, orbit)
		if err != nil {
			return nil, nil, err
		}
		for i := 0; i < 3; i++ {
			realAccel[i] += real[i]
			for j := 0; j < 3; j++ {
				jac.Set(3+i, j, jac.At(3+i, j)+mjac.At(i, j))
			}
		}
	}

	for i := 0; i < 3; i++ {
		jac.Set(i, 3+i, 1)
	}

	v := orbit.V()
	real := []float64{v[0], v[1], v[2], realAccel[0], realAccel[1], realAccel[2]}
	return real, jac, nil
}
