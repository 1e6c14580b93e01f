package dynamics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"smd"
	"smd/dual"
)

// CoefficientStorage is a read-only lookup from (degree n, order m) to a
// pair of normalized spherical-harmonic coefficients (C_nm, S_nm), plus the
// populated envelope's maximum degree and order. Grounded on spec §6's
// harmonic coefficient file format and §3's "Harmonic storage" data model.
type CoefficientStorage interface {
	CS(n, m int) (c, s float64)
	MaxDegree() int
	MaxOrder() int
}

// Harmonics computes normalized spherical-harmonic gravity accelerations
// from stored C/S coefficients via the normalized associated Legendre
// polynomial recurrence (GMAT's CalculateField1 algorithm). Grounded
// verbatim on original_source/src/dynamics/gravity.rs's Harmonics::eom.
type Harmonics struct {
	GM         float64
	BodyRadius float64
	Storage    CoefficientStorage
}

var _ AccelModel = (*Harmonics)(nil)

const sqrt2 = math.Sqrt2

// legendreConsts returns the recursion constants vr01[n][m] and
// vr11[n][m], independent of the evaluation point and trivially cacheable
// across calls for a fixed (maxDegree, maxOrder).
func legendreConsts(maxDegree, maxOrder int) (vr01, vr11 [][]float64) {
	pad := maxDegree + 3
	vr01 = make([][]float64, pad)
	vr11 = make([][]float64, pad)
	for n := range vr01 {
		vr01[n] = make([]float64, pad)
		vr11[n] = make([]float64, pad)
	}
	for n := 0; n <= maxDegree; n++ {
		nf := float64(n)
		mMax := n
		if maxOrder < mMax {
			mMax = maxOrder
		}
		for m := 0; m <= mMax; m++ {
			mf := float64(m)
			vr01[n][m] = math.Sqrt((nf - mf) * (nf + mf + 1))
			vr11[n][m] = math.Sqrt(((2*nf + 1) * (nf + mf + 2) * (nf + mf + 1)) / (2*nf + 3))
			if m == 0 {
				vr01[n][m] /= sqrt2
				vr11[n][m] /= sqrt2
			}
		}
	}
	return
}

// legendreTable builds the normalized associated Legendre polynomial
// table A[n][m] for the direction cosine u = z/r, padded N+3 in each
// dimension per spec §9's Open Question decision (padding kept for
// numerical parity with the source; the harmonics' position partials come
// from DualEOM re-running this recursion in dual arithmetic, not from the
// extra rows).
func legendreTable(u float64, maxDegree, maxOrder int) [][]float64 {
	pad := maxDegree + 3
	a := make([][]float64, pad)
	for n := range a {
		a[n] = make([]float64, pad)
	}
	a[0][0] = 1
	for n := 1; n <= maxDegree+2; n++ {
		nf := float64(n)
		a[n][n] = math.Sqrt((2*nf+1)/(2*nf)) * a[n-1][n-1]
	}
	a[1][0] = u * math.Sqrt(3)
	for n := 1; n <= maxDegree+1; n++ {
		nf := float64(n)
		a[n+1][n] = u * math.Sqrt(2*nf+3) * a[n][n]
	}
	for m := 0; m <= maxOrder+1; m++ {
		mf := float64(m)
		for n := m + 2; n <= maxDegree+1; n++ {
			nf := float64(n)
			n1 := math.Sqrt(((2*nf + 1) * (2*nf - 1)) / ((nf - mf) * (nf + mf)))
			n2 := math.Sqrt(((2*nf + 1) * (nf - mf - 1) * (nf + mf - 1)) / ((2*nf - 3) * (nf + mf) * (nf - mf)))
			a[n][m] = u*n1*a[n-1][m] - n2*a[n-2][m]
		}
	}
	return a
}

// EOM implements AccelModel.
func (h *Harmonics) EOM(orbit *Orbit) ([]float64, error) {
	r := orbit.R()
	rNorm := smd.Norm(r)
	if rNorm == 0 {
		return nil, fmt.Errorf("harmonics: zero-magnitude position")
	}
	s, t, u := r[0]/rNorm, r[1]/rNorm, r[2]/rNorm
	maxDegree, maxOrder := h.Storage.MaxDegree(), h.Storage.MaxOrder()

	a := legendreTable(u, maxDegree, maxOrder)
	vr01, vr11 := legendreConsts(maxDegree, maxOrder)

	re := make([]float64, maxOrder+2)
	im := make([]float64, maxOrder+2)
	re[0] = 1
	for m := 1; m <= maxOrder+1; m++ {
		re[m] = s*re[m-1] - t*im[m-1]
		im[m] = s*im[m-1] + t*re[m-1]
	}

	rho := h.BodyRadius / rNorm
	rhoNp1 := (h.GM / rNorm) * rho
	var a1, a2, a3, a4 float64
	for n := 1; n <= maxDegree; n++ {
		rhoNp1 *= rho
		var sum1, sum2, sum3, sum4 float64
		mMax := n
		if maxOrder < mMax {
			mMax = maxOrder
		}
		for m := 0; m <= mMax; m++ {
			c, sVal := h.Storage.CS(n, m)
			d := (c*re[m] + sVal*im[m]) * sqrt2
			var e, f float64
			if m > 0 {
				e = (c*re[m-1] + sVal*im[m-1]) * sqrt2
				f = (sVal*re[m-1] - c*im[m-1]) * sqrt2
			}
			sum1 += float64(m) * a[n][m] * e
			sum2 += float64(m) * a[n][m] * f
			sum3 += vr01[n][m] * a[n][m+1] * d
			sum4 += vr11[n][m] * a[n+1][m+1] * d
		}
		rr := rhoNp1 / h.BodyRadius
		a1 += rr * sum1
		a2 += rr * sum2
		a3 += rr * sum3
		a4 -= rr * sum4
	}
	return []float64{a1 + a4*s, a2 + a4*t, a3 + a4*u}, nil
}

// DualEOM implements AccelModel by re-running the Legendre recursion in
// dual-number arithmetic, so the returned Jacobian is the exact (not
// finite-differenced) derivative of the harmonics acceleration with
// respect to spacecraft position.
func (h *Harmonics) DualEOM(rDual dual.Vec3, orbit *Orbit) ([]float64, *mat.Dense, error) {
	rNorm := dual.Norm(rDual)
	if rNorm.Real == 0 {
		return nil, nil, fmt.Errorf("harmonics: zero-magnitude position")
	}
	s := dual.Div(rDual[0], rNorm)
	t := dual.Div(rDual[1], rNorm)
	u := dual.Div(rDual[2], rNorm)
	maxDegree, maxOrder := h.Storage.MaxDegree(), h.Storage.MaxOrder()
	vr01, vr11 := legendreConsts(maxDegree, maxOrder)

	pad := maxDegree + 3
	a := make([][]dual.Number, pad)
	for n := range a {
		a[n] = make([]dual.Number, pad)
	}
	a[0][0] = dual.FromReal(1)
	for n := 1; n <= maxDegree+2; n++ {
		nf := float64(n)
		a[n][n] = dual.Scale(math.Sqrt((2*nf+1)/(2*nf)), a[n-1][n-1])
	}
	a[1][0] = dual.Scale(math.Sqrt(3), u)
	for n := 1; n <= maxDegree+1; n++ {
		nf := float64(n)
		a[n+1][n] = dual.Scale(math.Sqrt(2*nf+3), dual.Mul(u, a[n][n]))
	}
	for m := 0; m <= maxOrder+1; m++ {
		mf := float64(m)
		for n := m + 2; n <= maxDegree+1; n++ {
			nf := float64(n)
			n1 := math.Sqrt(((2*nf + 1) * (2*nf - 1)) / ((nf - mf) * (nf + mf)))
			n2 := math.Sqrt(((2*nf + 1) * (nf - mf - 1) * (nf + mf - 1)) / ((2*nf - 3) * (nf + mf) * (nf - mf)))
			a[n][m] = dual.Sub(dual.Scale(n1, dual.Mul(u, a[n-1][m])), dual.Scale(n2, a[n-2][m]))
		}
	}

	re := make([]dual.Number, maxOrder+2)
	im := make([]dual.Number, maxOrder+2)
	re[0] = dual.FromReal(1)
	for m := 1; m <= maxOrder+1; m++ {
		re[m] = dual.Sub(dual.Mul(s, re[m-1]), dual.Mul(t, im[m-1]))
		im[m] = dual.Add(dual.Mul(s, im[m-1]), dual.Mul(t, re[m-1]))
	}

	rho := dual.Div(dual.FromReal(h.BodyRadius), rNorm)
	rhoNp1 := dual.Mul(dual.Div(dual.FromReal(h.GM), rNorm), rho)
	a1, a2, a3, a4 := dual.FromReal(0), dual.FromReal(0), dual.FromReal(0), dual.FromReal(0)
	for n := 1; n <= maxDegree; n++ {
		rhoNp1 = dual.Mul(rhoNp1, rho)
		sum1, sum2, sum3, sum4 := dual.FromReal(0), dual.FromReal(0), dual.FromReal(0), dual.FromReal(0)
		mMax := n
		if maxOrder < mMax {
			mMax = maxOrder
		}
		for m := 0; m <= mMax; m++ {
			c, sVal := h.Storage.CS(n, m)
			d := dual.Scale(sqrt2, dual.Add(dual.Scale(c, re[m]), dual.Scale(sVal, im[m])))
			e, f := dual.FromReal(0), dual.FromReal(0)
			if m > 0 {
				e = dual.Scale(sqrt2, dual.Add(dual.Scale(c, re[m-1]), dual.Scale(sVal, im[m-1])))
				f = dual.Scale(sqrt2, dual.Sub(dual.Scale(sVal, re[m-1]), dual.Scale(c, im[m-1])))
			}
			sum1 = dual.Add(sum1, dual.Scale(float64(m), dual.Mul(a[n][m], e)))
			sum2 = dual.Add(sum2, dual.Scale(float64(m), dual.Mul(a[n][m], f)))
			sum3 = dual.Add(sum3, dual.Scale(vr01[n][m], dual.Mul(a[n][m+1], d)))
			sum4 = dual.Add(sum4, dual.Scale(vr11[n][m], dual.Mul(a[n+1][m+1], d)))
		}
		rr := dual.Scale(1/h.BodyRadius, rhoNp1)
		a1 = dual.Add(a1, dual.Mul(rr, sum1))
		a2 = dual.Add(a2, dual.Mul(rr, sum2))
		a3 = dual.Add(a3, dual.Mul(rr, sum3))
		a4 = dual.Sub(a4, dual.Mul(rr, sum4))
	}

	accelDual := dual.Vec3{
		dual.Add(a1, dual.Mul(a4, s)),
		dual.Add(a2, dual.Mul(a4, t)),
		dual.Add(a3, dual.Mul(a4, u)),
	}
	real := []float64{accelDual[0].Real, accelDual[1].Real, accelDual[2].Real}
	jac := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			jac.Set(i, j, accelDual[i].Inf[j])
		}
	}
	return real, jac, nil
}
