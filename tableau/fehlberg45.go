package tableau

// Fehlberg45 is the 6-stage embedded Runge-Kutta-Fehlberg 4(5) method: a
// 5th-order solution advanced alongside an embedded error estimate, giving
// adaptive step control an error sample without an extra derivative
// evaluation per step.
//
// Coefficients are grounded verbatim on the nodes, stage-coupling, solution
// weights and error weights used by the retrieval pack's Runge-Kutta-Fehlberg
// stepper (rkf45.Step), cross-checked against the pack's other Fehlberg
// implementation. B() here stores the 5th-order solution weights followed
// by the error weights directly (the coefficients rkf45.Step uses to form
// err[] as a weighted combination of stages, rather than a separate 4th
// order solution to difference against).
type Fehlberg45 struct{}

var _ Tableau = Fehlberg45{}

func (Fehlberg45) Order() uint8 { return 5 }
func (Fehlberg45) Stages() int  { return 6 }

func (Fehlberg45) A() []float64 {
	return []float64{
		1.0 / 4,
		3.0 / 32, 9.0 / 32,
		1932.0 / 2197, -7200.0 / 2197, 7296.0 / 2197,
		439.0 / 216, -8, 3680.0 / 513, -845.0 / 4104,
		-8.0 / 27, 2, -3544.0 / 2565, 1859.0 / 4104, -11.0 / 40,
	}
}

func (Fehlberg45) B() []float64 {
	return []float64{
		// 5th-order solution weights.
		16.0 / 135, 0, 6656.0 / 12825, 28561.0 / 56430, -9.0 / 50, 2.0 / 55,
		// Error weights: err = sum(B[6+i] * k_i).
		1.0 / 360, 0, -128.0 / 4275, -2197.0 / 75240, 1.0 / 50, 2.0 / 55,
	}
}

func (Fehlberg45) Embedded() bool { return true }
