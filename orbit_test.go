package smd

import (
	"testing"
	"time"

	"gonum.org/v1/gonum/floats"
)

var testEpoch = time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)

func TestHyperbolicOrbitRV2COE(t *testing.T) {
	R := []float64{-268699.38507486845, 743304.5626288191, 406170.0480721434}
	V := []float64{-0.905741305869758, 0.22523592084626393, 0.16127777856378084}
	o := NewOrbitFromRV(R, V, testEpoch, Mars)
	a, e, _, _, _, _, _, _, _ := o.Elements()
	if e <= 1 {
		t.Fatalf("e is not greater than 1: %f", e)
	}
	if a >= 0 {
		t.Fatalf("a is positive or nil: %f", a)
	}
}

func TestOrbitRV2COE(t *testing.T) {
	R := []float64{6524.834, 6862.875, 6448.296}
	V := []float64{4.901327, 5.533756, -1.976341}
	o := NewOrbitFromRV(R, V, testEpoch, Earth)
	oT := NewOrbitFromOE(36127.343, 0.832853, 87.869126, 227.898260, 53.384931, 92.335157, testEpoch, Earth)
	if ok, err := o.StrictlyEquals(*oT); !ok {
		t.Fatalf("orbits differ: %s\no0: %s\no1: %s", err, o, oT)
	}

	a, e, i, Ω, ω, ν, λ, tildeω, u := oT.Elements()
	i = Rad2deg(i)
	Ω = Rad2deg(Ω)
	ω = Rad2deg(ω)
	ν = Rad2deg(ν)
	λ = Rad2deg(λ)
	u = Rad2deg(u)
	tildeω = Rad2deg(tildeω)

	valladoε := 1e-6
	if !floats.EqualWithinAbs(a, 36127.343, 1e-3) {
		t.Fatalf("incorrect semi major axis=%f", a)
	}
	if !floats.EqualWithinAbs(e, 0.832853, valladoε) {
		t.Fatalf("incorrect eccentricity=%f", e)
	}
	if ok, _ := anglesEqual(Deg2rad(87.869126), Deg2rad(i)); !ok {
		t.Fatalf("inclination invalid: %f", i)
	}
	if ok, _ := anglesEqual(Deg2rad(227.898260), Deg2rad(Ω)); !ok {
		t.Fatalf("RAAN invalid: %f", Ω)
	}
	if ok, _ := anglesEqual(Deg2rad(53.384931), Deg2rad(ω)); !ok {
		t.Fatalf("argument of periapsis invalid: %f", ω)
	}
	if ok, _ := anglesEqual(Deg2rad(92.335157), Deg2rad(ν)); !ok {
		t.Fatalf("true anomaly invalid: %f", ν)
	}
	if !floats.EqualWithinAbs(o.Energyξ(), -5.516604, valladoε) {
		t.Fatalf("incorrect energy ξ=%f", o.Energyξ())
	}
	if !floats.EqualWithinAbs(Norm(o.R()), o.RNorm(), valladoε) {
		t.Fatalf("incorrect r norm |R|=%f\tr=%f", Norm(o.R()), o.RNorm())
	}
}

func TestOrbitCircularEquatorial(t *testing.T) {
	o := NewOrbitFromOE(7000, 1e-6, 1e-6, 0, 0, 45, testEpoch, Earth)
	a, e, i, _, _, _, _, _, _ := o.Elements()
	if !floats.EqualWithinAbs(a, 7000, 1e-2) {
		t.Fatalf("expected a=7000, got %f", a)
	}
	if e >= eccentricityLgε {
		t.Fatalf("expected near-circular eccentricity, got %f", e)
	}
	if i >= angleLgε {
		t.Fatalf("expected near-equatorial inclination, got %f", i)
	}
}

func TestOrbitPeriod(t *testing.T) {
	o := NewOrbitFromOE(Earth.EqRadius()+400, 0.001, 51.6, 10, 20, 30, testEpoch, Earth)
	period := o.Period()
	if period <= 0 || period > 2*time.Hour {
		t.Fatalf("unexpected LEO period: %s", period)
	}
}

func TestApsides(t *testing.T) {
	o := NewOrbitFromOE(22000, 0.01, 30, 80, 40, 0, testEpoch, Earth)
	if o.Apoapsis() <= o.Periapsis() {
		t.Fatal("apoapsis must exceed periapsis for e>0")
	}
	a, e := Radii2ae(o.Apoapsis(), o.Periapsis())
	if !floats.EqualWithinAbs(a, 22000, 1) {
		t.Fatalf("recovered semi-major axis mismatch: %f", a)
	}
	if !floats.EqualWithinAbs(e, 0.01, 1e-3) {
		t.Fatalf("recovered eccentricity mismatch: %f", e)
	}
}
