package smd

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	deg2rad = math.Pi / 180
	rad2deg = 1 / deg2rad
)

// Norm returns the Norm of a given vector which is supposed to be 3x1.
func Norm(v []float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Unit returns the Unit vector of a given vector.
func Unit(a []float64) (b []float64) {
	n := Norm(a)
	if floats.EqualWithinAbs(n, 0, 1e-12) {
		return []float64{0, 0, 0}
	}
	b = make([]float64, len(a))
	for i, val := range a {
		b[i] = val / n
	}
	return
}

// unitVec returns the unit vector of a given mat.VecDense.
func unitVec(a *mat.VecDense) (b *mat.VecDense) {
	b = mat.NewVecDense(a.Len(), nil)
	n := mat.Norm(a, 2)
	if floats.EqualWithinAbs(n, 0, 1e-12) {
		return // Nil vector
	}
	b.ScaleVec(1/n, a)
	return
}

// Sign returns the Sign of a given number.
func Sign(v float64) float64 {
	if floats.EqualWithinAbs(v, 0, 1e-12) {
		return 1
	}
	return v / math.Abs(v)
}

// Dot performs the inner product via mat/BLAS.
func Dot(a, b []float64) float64 {
	return mat.Dot(mat.NewVecDense(len(a), a), mat.NewVecDense(len(b), b))
}

// dot performs the inner product directly, without going through BLAS.
func dot(a, b []float64) float64 {
	rtn := 0.
	for i := 0; i < len(a); i++ {
		rtn += a[i] * b[i]
	}
	return rtn
}

// Cross performs the Cross product.
func Cross(a, b []float64) []float64 {
	return []float64{a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0]} // Cross product R x V.
}

// crossVec performs the cross product from two mat.VecDense (dim 3 only).
func crossVec(a, b *mat.VecDense) *mat.VecDense {
	rslt := mat.NewVecDense(3, nil)
	rslt.SetVec(0, a.AtVec(1)*b.AtVec(2)-a.AtVec(2)*b.AtVec(1))
	rslt.SetVec(1, a.AtVec(2)*b.AtVec(0)-a.AtVec(0)*b.AtVec(2))
	rslt.SetVec(2, a.AtVec(0)*b.AtVec(1)-a.AtVec(1)*b.AtVec(0))
	return rslt
}

// Spherical2Cartesian returns the provided spherical coordinates vector in Cartesian.
func Spherical2Cartesian(a []float64) (b []float64) {
	b = make([]float64, 3)
	sθ, cθ := math.Sincos(a[1])
	sφ, cφ := math.Sincos(a[2])
	b[0] = a[0] * sθ * cφ
	b[1] = a[0] * sθ * sφ
	b[2] = a[0] * cθ
	return
}

// Cartesian2Spherical returns the provided Cartesian coordinates vector in spherical.
func Cartesian2Spherical(a []float64) (b []float64) {
	b = make([]float64, 3)
	if Norm(a) == 0 {
		return []float64{0, 0, 0}
	}
	b[0] = Norm(a)
	b[1] = math.Acos(a[2] / b[0])
	b[2] = math.Atan2(a[1], a[0])
	if b[2] < 0 {
		b[2] += 2 * math.Pi
	}
	return
}

// Deg2rad converts degrees to radians, and enforces only positive numbers.
func Deg2rad(a float64) float64 {
	if a < 0 {
		a += 360
	}
	return math.Mod(a*deg2rad, 2*math.Pi)
}

// Rad2deg converts radians to degrees, and enforces only positive numbers.
func Rad2deg(a float64) float64 {
	if a < 0 {
		a += 2 * math.Pi
	}
	return math.Mod(a/deg2rad, 360)
}

// Rad2deg180 converts radians to degrees, and enforces between +/-180.
func Rad2deg180(a float64) float64 {
	if a < -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return math.Mod(a/deg2rad, 360)
}

// DenseIdentity returns an identity matrix of type Dense and of the provided size.
func DenseIdentity(n int) *mat.Dense {
	return ScaledDenseIdentity(n, 1)
}

// ScaledDenseIdentity returns an identity matrix of type Dense, scaled by the
// provided factor, of the provided size.
func ScaledDenseIdentity(n int, s float64) *mat.Dense {
	vals := make([]float64, n*n)
	for j := 0; j < n*n; j++ {
		if j%(n+1) == 0 {
			vals[j] = s
		} else {
			vals[j] = 0
		}
	}
	return mat.NewDense(n, n, vals)
}
