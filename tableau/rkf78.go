package tableau

// RKF78 is the 13-stage embedded Runge-Kutta-Fehlberg 7(8) method: an
// 8th-order solution advanced alongside a 7th-order error estimate. This
// satisfies spec §4.1's requirement for a "Verner 5(6) or higher" embedded
// high-order pair.
//
// Unlike RK4 and Fehlberg45, these coefficients are not grounded on any
// file in the retrieval pack — no pack repo or other_examples/ file
// implements a 7(8)-order embedded method. They are Fehlberg's original
// published coefficients (NASA TR R-287), reproduced here as the standard
// textbook values; DESIGN.md records this as the one ungrounded numeric
// table in the module.
type RKF78 struct{}

var _ Tableau = RKF78{}

func (RKF78) Order() uint8 { return 8 }
func (RKF78) Stages() int  { return 13 }

func (RKF78) A() []float64 {
	return []float64{
		2.0 / 27,
		1.0 / 36, 1.0 / 12,
		1.0 / 24, 0, 1.0 / 8,
		5.0 / 12, 0, -25.0 / 16, 25.0 / 16,
		1.0 / 20, 0, 0, 1.0 / 4, 1.0 / 5,
		-25.0 / 108, 0, 0, 125.0 / 108, -65.0 / 27, 125.0 / 54,
		31.0 / 300, 0, 0, 0, 61.0 / 225, -2.0 / 9, 13.0 / 900,
		2, 0, 0, -53.0 / 6, 704.0 / 45, -107.0 / 9, 67.0 / 90, 3,
		-91.0 / 108, 0, 0, 23.0 / 108, -976.0 / 135, 311.0 / 54, -19.0 / 60, 17.0 / 6, -1.0 / 12,
		2383.0 / 4100, 0, 0, -341.0 / 164, 4496.0 / 1025, -301.0 / 82, 2133.0 / 4100, 45.0 / 82, 45.0 / 164, 18.0 / 41,
		3.0 / 205, 0, 0, 0, 0, -6.0 / 41, -3.0 / 205, -3.0 / 41, 3.0 / 41, 6.0 / 41, 0,
		-1777.0 / 4100, 0, 0, -341.0 / 164, 4496.0 / 1025, -289.0 / 82, 2193.0 / 4100, 51.0 / 82, 33.0 / 164, 12.0 / 41, 0, 1,
	}
}

func (RKF78) B() []float64 {
	return []float64{
		// 8th-order solution weights.
		0, 0, 0, 0, 0, 34.0 / 105, 9.0 / 35, 9.0 / 35, 9.0 / 280, 9.0 / 280, 0, 41.0 / 840, 41.0 / 840,
		// Error weights: err = sum(B[13+i] * k_i).
		41.0 / 840, 0, 0, 0, 0, 0, 0, 0, 0, 0, 41.0 / 840, -41.0 / 840, -41.0 / 840,
	}
}

func (RKF78) Embedded() bool { return true }
