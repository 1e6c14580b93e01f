package dynamics

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"smd"
	"smd/dual"
)

// PointMasses is a third-body perturbation acceleration model: an ordered
// set of celestial bodies whose point-mass gravity pulls on the
// spacecraft, computed in the indirect ("Battin") form that subtracts the
// third body's pull on the central body to limit cancellation error.
// Grounded on original_source/src/dynamics/orbital.rs's PointMasses.
type PointMasses struct {
	Bodies    []string
	Ephemeris smd.EphemerisService
	Corr      smd.LTCorr
}

var _ AccelModel = (*PointMasses)(nil)

// EOM implements AccelModel.
func (p *PointMasses) EOM(orbit *Orbit) ([]float64, error) {
	accel := []float64{0, 0, 0}
	for _, name := range p.Bodies {
		frame, err := p.Ephemeris.FrameFromName(name)
		if err != nil {
			return nil, err
		}
		if frame.Name() == orbit.Origin.Name() {
			continue
		}
		state, err := p.Ephemeris.CelestialState(name, orbit.Epoch, orbit.Origin, p.Corr)
		if err != nil {
			return nil, fmt.Errorf("point mass %s: %w", name, err)
		}
		riB := state.Radius()
		r := orbit.R()
		rsc := []float64{r[0] - riB[0], r[1] - riB[1], r[2] - riB[2]}
		rscNorm := smd.Norm(rsc)
		riBNorm := smd.Norm(riB)
		if rscNorm == 0 || riBNorm == 0 {
			return nil, fmt.Errorf("point mass %s: degenerate geometry", name)
		}
		μB := frame.GM()
		invRsc3 := 1 / (rscNorm * rscNorm * rscNorm)
		invRiB3 := 1 / (riBNorm * riBNorm * riBNorm)
		for i := 0; i < 3; i++ {
			accel[i] += -μB * (rsc[i]*invRsc3 + riB[i]*invRiB3)
		}
	}
	return accel, nil
}

// DualEOM implements AccelModel. The third body's position riB is lifted
// as a dual constant (zero tangent); the spacecraft-relative vector r_sc
// carries rDual's tangent directly, since d(r_sc)/d(r) is the identity.
func (p *PointMasses) DualEOM(rDual dual.Vec3, orbit *Orbit) ([]float64, *mat.Dense, error) {
	accel := []float64{0, 0, 0}
	jac := mat.NewDense(3, 3, nil)
	for _, name := range p.Bodies {
		frame, err := p.Ephemeris.FrameFromName(name)
		if err != nil {
			return nil, nil, err
		}
		if frame.Name() == orbit.Origin.Name() {
			continue
		}
		state, err := p.Ephemeris.CelestialState(name, orbit.Epoch, orbit.Origin, p.Corr)
		if err != nil {
			return nil, nil, fmt.Errorf("point mass %s: %w", name, err)
		}
		riB := state.Radius()
		riBNorm := smd.Norm(riB)
		if riBNorm == 0 {
			return nil, nil, fmt.Errorf("point mass %s: degenerate geometry", name)
		}
		riBDual := dual.Vec3{dual.FromReal(riB[0]), dual.FromReal(riB[1]), dual.FromReal(riB[2])}
		rscDual := dual.Sub3(rDual, riBDual)
		rscNorm := dual.Norm(rscDual)
		if rscNorm.Real == 0 {
			return nil, nil, fmt.Errorf("point mass %s: degenerate geometry", name)
		}
		invRsc3 := dual.PowReal(rscNorm, -3)
		μB := frame.GM()
		aDual := dual.Scale3(dual.Scale(-μB, invRsc3), rscDual)
		invRiB3 := 1 / (riBNorm * riBNorm * riBNorm)
		for i := 0; i < 3; i++ {
			accel[i] += aDual[i].Real - μB*riB[i]*invRiB3
			for j := 0; j < 3; j++ {
				jac.Set(i, j, jac.At(i, j)+aDual[i].Inf[j])
			}
		}
	}
	return accel, jac, nil
}
