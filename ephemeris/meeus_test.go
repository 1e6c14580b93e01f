package ephemeris

import (
	"testing"
	"time"

	"smd"
)

// TestCelestialStateUsesQueryEpochForCenter guards against recentering a
// body's heliocentric state against the center body's position at the
// wrong epoch. Sun and Moon are used because neither touches VSOP87 file
// loading (Sun is the trivial zero state, Moon is the self-contained
// ELP2000-82B series), so the assertion holds without a VSOP87 data
// directory: Sun's heliocentric state is exactly zero, so a Moon-centered
// Sun lookup must equal the exact negation of the Moon's own heliocentric
// state at that same epoch.
func TestCelestialStateUsesQueryEpochForCenter(t *testing.T) {
	svc := NewMeeusService("")
	epoch := time.Date(2030, 6, 15, 12, 0, 0, 0, time.UTC)

	got, err := svc.CelestialState("Sun", epoch, smd.Moon, smd.LTNone)
	if err != nil {
		t.Fatal(err)
	}

	wantR, wantV, err := svc.heliocentricRV("Moon", epoch)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if got.R[i] != -wantR[i] {
			t.Fatalf("R[%d] = %v, want %v (center must be evaluated at the query epoch)", i, got.R[i], -wantR[i])
		}
		if got.V[i] != -wantV[i] {
			t.Fatalf("V[%d] = %v, want %v (center must be evaluated at the query epoch)", i, got.V[i], -wantV[i])
		}
	}
}
