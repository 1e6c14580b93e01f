package dual

import (
	"math"
	"testing"
)

func TestLiftIdentityTangent(t *testing.T) {
	v := Lift([]float64{1, 2, 3, 4, 5, 6})
	for i, n := range v {
		if n.Real != v[i].Real {
			t.Fatalf("real part mismatch at %d", i)
		}
		for j := 0; j < Width; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			if n.Inf[j] != want {
				t.Fatalf("tangent[%d][%d] = %f, want %f", i, j, n.Inf[j], want)
			}
		}
	}
}

func TestMulProductRule(t *testing.T) {
	// f(x) = x^2 at x=3: derivative should be 2x=6.
	x := Number{Real: 3}
	x.Inf[0] = 1
	y := Mul(x, x)
	if y.Real != 9 {
		t.Fatalf("real part = %f, want 9", y.Real)
	}
	if math.Abs(y.Inf[0]-6) > 1e-12 {
		t.Fatalf("derivative = %f, want 6", y.Inf[0])
	}
}

func TestDivQuotientRule(t *testing.T) {
	// f(x) = 1/x at x=2: derivative should be -1/x^2 = -0.25.
	x := Number{Real: 2}
	x.Inf[0] = 1
	one := FromReal(1)
	y := Div(one, x)
	if math.Abs(y.Real-0.5) > 1e-12 {
		t.Fatalf("real part = %f, want 0.5", y.Real)
	}
	if math.Abs(y.Inf[0]-(-0.25)) > 1e-12 {
		t.Fatalf("derivative = %f, want -0.25", y.Inf[0])
	}
}

func TestSqrtDerivative(t *testing.T) {
	// f(x) = sqrt(x) at x=4: derivative should be 1/(2*sqrt(4)) = 0.25.
	x := Number{Real: 4}
	x.Inf[0] = 1
	y := Sqrt(x)
	if math.Abs(y.Real-2) > 1e-12 {
		t.Fatalf("real part = %f, want 2", y.Real)
	}
	if math.Abs(y.Inf[0]-0.25) > 1e-12 {
		t.Fatalf("derivative = %f, want 0.25", y.Inf[0])
	}
}

func TestNormGradientOfTwoBodyStyleTerm(t *testing.T) {
	// r = ||(x,y,z)||, gradient of r w.r.t. (x,y,z) is r_hat.
	state := Lift([]float64{3, 4, 0, 0, 0, 0})
	r := Norm(Vec3{state[0], state[1], state[2]})
	if math.Abs(r.Real-5) > 1e-12 {
		t.Fatalf("norm = %f, want 5", r.Real)
	}
	want := []float64{3.0 / 5, 4.0 / 5, 0}
	for i := 0; i < 3; i++ {
		if math.Abs(r.Inf[i]-want[i]) > 1e-12 {
			t.Fatalf("d|r|/dx%d = %f, want %f", i, r.Inf[i], want[i])
		}
	}
}

func TestJacobianExtraction(t *testing.T) {
	state := Lift([]float64{1, 2, 3, 4, 5, 6})
	real, jac := Jacobian(state)
	for i := range real {
		if real[i] != float64(i+1) {
			t.Fatalf("real[%d] = %f, want %f", i, real[i], float64(i+1))
		}
		for j := 0; j < Width; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			if jac[i][j] != want {
				t.Fatalf("jac[%d][%d] = %f, want %f", i, j, jac[i][j], want)
			}
		}
	}
}
