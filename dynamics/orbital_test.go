package dynamics

import (
	"math"
	"testing"
	"time"

	"smd"
)

var testEpoch = time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)

func circularOrbit() *smd.Orbit {
	return smd.NewOrbitFromOE(7000, 0.001, 0.001, 0, 0, 0, testEpoch, smd.Earth)
}

func TestOrbitalEOMTwoBodyAcceleration(t *testing.T) {
	o := circularOrbit()
	d := NewOrbitalDynamics(o, false)
	state := append(o.R(), o.V()...)
	deriv, err := d.EOM(testEpoch, state)
	if err != nil {
		t.Fatal(err)
	}
	accel := deriv[3:6]
	r := o.RNorm()
	wantMag := smd.Earth.GM() / (r * r)
	gotMag := math.Sqrt(accel[0]*accel[0] + accel[1]*accel[1] + accel[2]*accel[2])
	if math.Abs(gotMag-wantMag) > 1e-9 {
		t.Fatalf("two-body accel magnitude = %e, want %e", gotMag, wantMag)
	}
	for i := 0; i < 3; i++ {
		if deriv[i] != state[3+i] {
			t.Fatalf("position derivative must equal velocity: deriv[%d]=%f, v[%d]=%f", i, deriv[i], i, state[3+i])
		}
	}
}

func TestOrbitalDualEOMMatchesFiniteDifference(t *testing.T) {
	o := circularOrbit()
	d := NewOrbitalDynamics(o, true)
	state6 := append(append([]float64{}, o.R()...), o.V()...)

	_, jac, err := d.DualEOM(testEpoch, state6)
	if err != nil {
		t.Fatal(err)
	}

	const δ = 1e-4
	for j := 0; j < 6; j++ {
		bumped := append([]float64{}, state6...)
		bumped[j] += δ
		plus, err := d.EOM(testEpoch, bumped)
		if err != nil {
			t.Fatal(err)
		}
		bumped[j] -= 2 * δ
		minus, err := d.EOM(testEpoch, bumped)
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 6; i++ {
			fd := (plus[i] - minus[i]) / (2 * δ)
			analytic := 0.0
			if i < 3 {
				if j == i+3 {
					analytic = 1
				}
			} else {
				analytic = jac.At(i, j)
			}
			if math.Abs(fd-analytic) > 1e-5 {
				t.Fatalf("jac[%d][%d]: finite-diff=%f analytic=%f", i, j, fd, analytic)
			}
		}
	}
}

func TestOrbitalSTMAdvanceFromIdentity(t *testing.T) {
	o := circularOrbit()
	d := NewOrbitalDynamics(o, true)
	state42 := make([]float64, 42)
	copy(state42[0:3], o.R())
	copy(state42[3:6], o.V())
	for i := 0; i < 6; i++ {
		state42[6+i*6+i] = 1
	}
	deriv, err := d.EOM(testEpoch, state42)
	if err != nil {
		t.Fatal(err)
	}
	_, jac, err := d.DualEOM(testEpoch, state42[0:6])
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			got := deriv[6+i*6+j]
			want := jac.At(i, j) // Φ̇ = A·I = A
			if math.Abs(got-want) > 1e-12 {
				t.Fatalf("Φ̇[%d][%d] = %f, want %f", i, j, got, want)
			}
		}
	}
}
