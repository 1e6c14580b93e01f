// Package dual implements forward-mode automatic differentiation via
// multivariate dual numbers: a real component paired with a fixed-width
// vector of tangent ("infinitesimal") components, one per partial
// derivative direction. It is the "7-parameter dual lift" of spec §4.5/§9:
// one real value plus Width tangent slots, together forming a first-order
// jet (no second-order cross terms, unlike a true hyperdual number).
//
// No ecosystem package in the retrieval pack supports this: gonum's
// num/dual is a single-infinitesimal dual number and num/hyperdual caps
// out at two infinitesimals (e1, e2, e1e2) — neither reaches the six
// tangent directions a 6x6 Jacobian needs. This package follows gonum's
// num/dual API shape (a Number struct, free functions for arithmetic)
// widened to a fixed tangent count.
package dual

import "math"

// Width is the number of tangent components carried by a Number, one per
// partial derivative direction (x, y, z, ẋ, ẏ, ż).
const Width = 6

// Number is a real value together with its Width-wide tangent vector.
type Number struct {
	Real float64
	Inf  [Width]float64
}

// FromReal returns the dual constant with a zero tangent.
func FromReal(v float64) Number {
	return Number{Real: v}
}

// Lift seeds a 6-vector into dual numbers with an identity tangent basis:
// the i-th component's tangent is the i-th standard basis vector. This is
// the dual-number equivalent of nyx's hyperspace_from_vector.
func Lift(v []float64) []Number {
	out := make([]Number, len(v))
	for i, x := range v {
		n := Number{Real: x}
		n.Inf[i] = 1
		out[i] = n
	}
	return out
}

// Add returns a + b.
func Add(a, b Number) Number {
	r := Number{Real: a.Real + b.Real}
	for i := 0; i < Width; i++ {
		r.Inf[i] = a.Inf[i] + b.Inf[i]
	}
	return r
}

// Sub returns a - b.
func Sub(a, b Number) Number {
	r := Number{Real: a.Real - b.Real}
	for i := 0; i < Width; i++ {
		r.Inf[i] = a.Inf[i] - b.Inf[i]
	}
	return r
}

// Neg returns -a.
func Neg(a Number) Number {
	return Sub(Number{}, a)
}

// Mul returns a * b.
func Mul(a, b Number) Number {
	r := Number{Real: a.Real * b.Real}
	for i := 0; i < Width; i++ {
		r.Inf[i] = a.Real*b.Inf[i] + b.Real*a.Inf[i]
	}
	return r
}

// Scale returns c * a for a real constant c.
func Scale(c float64, a Number) Number {
	r := Number{Real: c * a.Real}
	for i := 0; i < Width; i++ {
		r.Inf[i] = c * a.Inf[i]
	}
	return r
}

// Div returns a / b.
func Div(a, b Number) Number {
	r := Number{Real: a.Real / b.Real}
	invB2 := 1 / (b.Real * b.Real)
	for i := 0; i < Width; i++ {
		r.Inf[i] = (a.Inf[i]*b.Real - a.Real*b.Inf[i]) * invB2
	}
	return r
}

// Sqrt returns sqrt(a).
func Sqrt(a Number) Number {
	s := math.Sqrt(a.Real)
	r := Number{Real: s}
	if s == 0 {
		return r
	}
	for i := 0; i < Width; i++ {
		r.Inf[i] = a.Inf[i] / (2 * s)
	}
	return r
}

// PowReal returns a^p for a real constant exponent p.
func PowReal(a Number, p float64) Number {
	base := math.Pow(a.Real, p)
	r := Number{Real: base}
	deriv := p * math.Pow(a.Real, p-1)
	for i := 0; i < Width; i++ {
		r.Inf[i] = deriv * a.Inf[i]
	}
	return r
}

// Vec3 is a 3-component vector of dual numbers, used for position/velocity
// sub-blocks lifted from a 6-vector.
type Vec3 [3]Number

// Norm returns the Euclidean norm of v as a dual number.
func Norm(v Vec3) Number {
	sum := Mul(v[0], v[0])
	sum = Add(sum, Mul(v[1], v[1]))
	sum = Add(sum, Mul(v[2], v[2]))
	return Sqrt(sum)
}

// Scale3 returns c * v for a dual scalar c.
func Scale3(c Number, v Vec3) Vec3 {
	return Vec3{Mul(c, v[0]), Mul(c, v[1]), Mul(c, v[2])}
}

// Add3 returns a + b component-wise.
func Add3(a, b Vec3) Vec3 {
	return Vec3{Add(a[0], b[0]), Add(a[1], b[1]), Add(a[2], b[2])}
}

// Sub3 returns a - b component-wise.
func Sub3(a, b Vec3) Vec3 {
	return Vec3{Sub(a[0], b[0]), Sub(a[1], b[1]), Sub(a[2], b[2])}
}

// Jacobian extracts the tangent rows of vs (each of width Width) into a
// dense row-major Width-column Jacobian, and the real parts into a
// parallel slice.
func Jacobian(vs []Number) (real []float64, jac [][]float64) {
	real = make([]float64, len(vs))
	jac = make([][]float64, len(vs))
	for i, v := range vs {
		real[i] = v.Real
		row := make([]float64, Width)
		copy(row, v.Inf[:])
		jac[i] = row
	}
	return
}
