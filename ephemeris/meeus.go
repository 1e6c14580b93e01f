// Package ephemeris provides a meeus-backed implementation of
// smd.EphemerisService: major-planet heliocentric positions via VSOP87
// (soniakeys/meeus/v3/planetposition) and the Moon via ELP2000-82B
// (soniakeys/meeus/v3/moonposition), converted to ecliptic Cartesian
// state vectors (no rotation into the equatorial frame) the way the teacher's celestial.go's HelioOrbit did.
package ephemeris

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/planetposition"

	"smd"
)

// vsopIndex maps a planet name to its VSOP87 file index (0-based,
// Mercury=0 .. Neptune=7), as consumed by planetposition.LoadPlanetPath.
var vsopIndex = map[string]int{
	"Mercury": 0,
	"Venus":   1,
	"Earth":   2,
	"Mars":    3,
	"Jupiter": 4,
	"Saturn":  5,
	"Uranus":  6,
	"Neptune": 7,
}

// MeeusService implements smd.EphemerisService using the VSOP87 planetary
// theory for the major planets and ELP2000-82B for the Moon. It caches
// loaded VSOP87 planet tables since planetposition.LoadPlanetPath reads
// and parses a data file on every call.
type MeeusService struct {
	// DataDir is the directory containing the VSOP87 data files consumed
	// by planetposition.LoadPlanetPath.
	DataDir string

	mu      sync.Mutex
	planets map[string]*planetposition.V87Planet
}

var _ smd.EphemerisService = (*MeeusService)(nil)

// NewMeeusService returns a MeeusService reading VSOP87 data from dataDir.
func NewMeeusService(dataDir string) *MeeusService {
	return &MeeusService{DataDir: dataDir, planets: make(map[string]*planetposition.V87Planet)}
}

// FrameFromName implements smd.EphemerisService.
func (m *MeeusService) FrameFromName(name string) (smd.Frame, error) {
	b, err := smd.CelestialBodyFromString(name)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// CelestialState implements smd.EphemerisService. corr is currently
// honored only as LTNone vs. a documented approximation: VSOP87/ELP2000
// are themselves truncated series, so a further light-time correction is
// applied as a simple first-order Newton iteration on the emission epoch.
func (m *MeeusService) CelestialState(body string, epoch time.Time, center smd.Frame, corr smd.LTCorr) (smd.CelestialState, error) {
	r, v, err := m.heliocentricRV(body, epoch)
	if err != nil {
		return smd.CelestialState{}, err
	}
	if corr == smd.LTNone {
		return recenter(r, v, body, center, epoch, m)
	}
	// One-way light time in seconds, using the just-computed range from
	// the Sun as a stand-in for the observer-to-body range: a full
	// observer-position light-time solve needs the observer's own
	// ephemeris, which this service does not own, so one Newton
	// correction on the emission epoch is as far as corr != LTNone goes.
	lightSeconds := smd.Norm(r) / 299792.458
	emission := epoch.Add(-time.Duration(lightSeconds * float64(time.Second)))
	r, v, err = m.heliocentricRV(body, emission)
	if err != nil {
		return smd.CelestialState{}, err
	}
	return recenter(r, v, body, center, epoch, m)
}

// recenter subtracts the center body's own heliocentric state, evaluated
// at the same query epoch, from the target's, producing a state relative
// to center.
func recenter(r, v []float64, body string, center smd.Frame, epoch time.Time, m *MeeusService) (smd.CelestialState, error) {
	if center.Name() == "Sun" {
		return smd.CelestialState{R: r, V: v}, nil
	}
	cr, cv, err := m.heliocentricRV(center.Name(), epoch)
	if err != nil {
		return smd.CelestialState{}, err
	}
	out := smd.CelestialState{
		R: []float64{r[0] - cr[0], r[1] - cr[1], r[2] - cr[2]},
		V: []float64{v[0] - cv[0], v[1] - cv[1], v[2] - cv[2]},
	}
	return out, nil
}

// heliocentricRV returns the heliocentric ecliptic position (km) and
// velocity (km/s) of body at epoch, grounded on the teacher's
// CelestialObject.HelioOrbit: VSOP87 gives ecliptic (L, B, R), which is
// converted to Cartesian and differentiated by direction alone (the speed
// comes from the vis-viva equation against the Sun, matching the
// teacher's approach of approximating the velocity direction from the
// orbit-normal cross product rather than differencing two VSOP87 calls).
func (m *MeeusService) heliocentricRV(body string, epoch time.Time) ([]float64, []float64, error) {
	if body == "Sun" {
		return []float64{0, 0, 0}, []float64{0, 0, 0}, nil
	}
	if body == "Moon" {
		return m.moonRV(epoch)
	}
	idx, ok := vsopIndex[body]
	if !ok {
		return nil, nil, fmt.Errorf("ephemeris: no VSOP87 series for %s", body)
	}
	planet, err := m.loadPlanet(body, idx)
	if err != nil {
		return nil, nil, err
	}
	jde := julian.TimeToJD(epoch)
	l, b, r := planet.Position2000(jde)
	rKm := r * smd.AU
	sinB, cosB := math.Sincos(b.Rad())
	sinL, cosL := math.Sincos(l.Rad())
	R := []float64{rKm * cosB * cosL, rKm * cosB * sinL, rKm * sinB}

	cb, err := smd.CelestialBodyFromString(body)
	if err != nil {
		return nil, nil, err
	}
	speed := math.Sqrt(2*smd.Sun.GM()/rKm - smd.Sun.GM()/cb.HeliocentricDistance())
	orbitNormal := smd.Cross(R, []float64{0, 0, 1})
	dir := smd.Unit(orbitNormal)
	V := []float64{speed * dir[0], speed * dir[1], speed * dir[2]}
	return R, V, nil
}

// moonRV returns the Moon's geocentric ecliptic position and velocity,
// from ELP2000-82B via moonposition.Position.
func (m *MeeusService) moonRV(epoch time.Time) ([]float64, []float64, error) {
	jde := julian.TimeToJD(epoch)
	λ, β, Δ := moonposition.Position(jde)
	sinβ, cosβ := math.Sincos(β.Rad())
	sinλ, cosλ := math.Sincos(λ.Rad())
	R := []float64{Δ * cosβ * cosλ, Δ * cosβ * sinλ, Δ * sinβ}
	speed := math.Sqrt(2*smd.Earth.GM()/Δ - smd.Earth.GM()/384400.0)
	dir := smd.Unit(smd.Cross(R, []float64{0, 0, 1}))
	V := []float64{speed * dir[0], speed * dir[1], speed * dir[2]}
	return R, V, nil
}

func (m *MeeusService) loadPlanet(name string, idx int) (*planetposition.V87Planet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.planets[name]; ok {
		return p, nil
	}
	p, err := planetposition.LoadPlanetPath(idx, m.DataDir)
	if err != nil {
		return nil, fmt.Errorf("ephemeris: could not load VSOP87 series for %s: %w", name, err)
	}
	m.planets[name] = p
	return p, nil
}
