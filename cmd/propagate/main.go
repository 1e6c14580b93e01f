// Command propagate is a demonstration entry point: it builds a LEO orbit
// perturbed by JGM-3-shaped Earth gravity harmonics and Moon/Sun
// point-mass third-body gravity, propagates it with an adaptive
// Fehlberg 4(5) scheme, and logs every accepted step. Grounded on the
// teacher's examples/j2j3/main.go and examples/planet/main.go: a small
// main building a scenario directly rather than reading it from a file.
package main

import (
	"fmt"
	"math"
	"os"
	"time"

	kitlog "github.com/go-kit/log"

	"smd"
	"smd/dynamics"
	"smd/ephemeris"
	"smd/propagator"
	"smd/tableau"
)

func main() {
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	logger = kitlog.With(logger, "subsys", "propagate", "ts", kitlog.DefaultTimestampUTC)

	epoch := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	orbit := smd.NewOrbitFromOE(7000, 0.001, 51.6, 80, 40, 0, epoch, smd.Earth)

	vsopDir := os.Getenv("SMD_VSOP87_DIR")
	if vsopDir == "" {
		vsopDir = "./data/vsop87"
	}
	eph := ephemeris.NewMeeusService(vsopDir)

	harmonics := &dynamics.Harmonics{
		GM:         smd.Earth.GM(),
		BodyRadius: smd.Earth.EqRadius(),
		Storage:    jgm3Storage(),
	}
	thirdBody := &dynamics.PointMasses{
		Bodies:    []string{"Moon", "Sun"},
		Ephemeris: eph,
		Corr:      smd.LTNone,
	}

	dyn := dynamics.NewOrbitalDynamics(orbit, false, harmonics, thirdBody)

	opts := propagator.DefaultOptions()
	opts.InitStep = 10 * time.Second
	prop, err := propagator.New(tableau.Fehlberg45{}, dyn, opts)
	if err != nil {
		logger.Log("level", "error", "msg", "could not construct propagator", "err", err)
		os.Exit(1)
	}

	sink := make(chan propagator.Sample, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for sample := range sink {
			logger.Log("epoch", sample.Epoch.Format(time.RFC3339), "r_km", fmt.Sprintf("%.3f", smd.Norm(sample.State[0:3])))
		}
	}()

	state := append(append([]float64{}, orbit.R()...), orbit.V()...)
	finalT, finalX, err := prop.UntilTimeElapsed(epoch, state, 24*time.Hour, sink)
	close(sink)
	<-done
	if err != nil {
		logger.Log("level", "error", "msg", "propagation failed", "err", err)
		os.Exit(1)
	}
	logger.Log("level", "info", "msg", "propagation complete", "final_epoch", finalT.Format(time.RFC3339), "final_r_km", fmt.Sprintf("%.3f", smd.Norm(finalX[0:3])))
}

// jgm3Storage returns a minimal zonal-harmonics-only storage, shaped like
// the first few zonal terms of the JGM-3 gravity model (J2..J4), the
// same coefficients the teacher's CelestialObject.J(n) exposes.
func jgm3Storage() *dynamics.MapStorage {
	s := dynamics.NewMapStorage(4, 0)
	s.Set(2, 0, -smd.Earth.J(2)/math.Sqrt(5), 0)
	s.Set(3, 0, -smd.Earth.J(3)/math.Sqrt(7), 0)
	s.Set(4, 0, -smd.Earth.J(4)/math.Sqrt(9), 0)
	return s
}
