// Package dynamics implements the two concrete dynamics models the
// integrator drives: two-body orbital motion with pluggable acceleration
// perturbations, and normalized spherical-harmonic gravity.
//
// Grounded on original_source/src/dynamics/mod.rs's Dynamics/AccelModel
// traits, collapsed per the propagator/dynamics coupling design note: the
// Rust source routes mutable state through a borrowed dynamics handle
// shared with a separate context parameter; here the Dynamics value is
// immutable and the propagator passes the evaluated epoch and state
// directly into EOM/DualEOM on every call, eliminating the shared-mutation
// point.
package dynamics

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"smd"
	"smd/dual"
)

// Orbit is the root package's orbit state, re-exported here so callers of
// this package never need to import "smd" directly for the AccelModel
// contract.
type Orbit = smd.Orbit

// Dynamics is the contract the propagator drives: a fixed propagation
// vector length (6 or 42, chosen at construction) together with a
// real-valued equation of motion and its dual-number variant. EOM is
// called on every stage evaluation; for a 42-wide state it internally
// evaluates DualEOM to advance the embedded state transition matrix.
type Dynamics interface {
	// PropVecSize is the length of the state vector this Dynamics expects:
	// 6 (state only) or 42 (state plus row-major 6x6 STM).
	PropVecSize() int
	// EOM returns ẋ = f(epoch, state).
	EOM(epoch time.Time, state []float64) ([]float64, error)
	// DualEOM lifts the first 6 components of state into dual numbers and
	// returns the real derivative of those 6 components together with the
	// 6x6 Jacobian of the acceleration (and velocity passthrough) with
	// respect to (x, y, z, ẋ, ẏ, ż).
	DualEOM(epoch time.Time, state []float64) (real []float64, jac *mat.Dense, err error)
}

// AccelModel is a single pluggable perturbing acceleration consumed by
// OrbitalDynamics. Implementations must be safe for concurrent read.
type AccelModel interface {
	// EOM returns the 3-vector acceleration this model contributes at the
	// given orbit's position and epoch.
	EOM(orbit *Orbit) ([]float64, error)
	// DualEOM returns the real acceleration and its 3x3 position Jacobian,
	// given the spacecraft position lifted into dual numbers.
	DualEOM(rDual dual.Vec3, orbit *Orbit) (accel []float64, jac *mat.Dense, err error)
}
