// Package tableau provides Butcher tableaux for the Runge-Kutta family of
// integrators used by smd/propagator. A Tableau describes the stage nodes
// and weights an integrator steps with; it carries no state of its own and
// is safe to share across propagator instances.
//
// Grounded on the teacher's src/integrator/rk4.go for the fixed-step shape,
// and on the "A/B-coefficients with a strictly-lower-triangular A" layout
// common to every explicit RK method in the retrieval pack.
package tableau

// Tableau describes an explicit Runge-Kutta method: its stage count, order,
// and Butcher coefficients. A() is the strictly lower-triangular stage
// coupling matrix stored row-major with Stages()*(Stages()-1)/2 entries
// (row i has i entries, for i=0..Stages()-1). B() holds the solution
// weights: Stages() entries for a fixed-step method, or 2*Stages() entries
// for an embedded method (primary weights followed by error-estimate
// weights, i.e. the difference between the primary and the embedded
// lower-order weights, applied directly as err = h·Σ B[Stages()+i]·k_i).
type Tableau interface {
	// Order is the order of the primary (higher-order, for embedded
	// methods) solution the tableau advances.
	Order() uint8
	// Stages is the number of stage evaluations per step.
	Stages() int
	// A returns the strictly lower-triangular stage coupling coefficients,
	// row-major, row i holding i entries.
	A() []float64
	// B returns the solution weights. Embedded methods return twice
	// Stages() entries; fixed-step methods return exactly Stages().
	B() []float64
	// Embedded reports whether B() carries a paired error-estimate row.
	Embedded() bool
}

// IsFixed reports whether t is a fixed-step (non-embedded) tableau.
func IsFixed(t Tableau) bool {
	return !t.Embedded()
}

// ARow returns the i-th row of t's stage coupling matrix (i entries,
// corresponding to stages 0..i-1).
func ARow(t Tableau, i int) []float64 {
	a := t.A()
	start := i * (i - 1) / 2
	return a[start : start+i]
}
