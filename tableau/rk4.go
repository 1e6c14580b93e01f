package tableau

// RK4 is the classic fixed-step 4th-order Runge-Kutta method, grounded on
// the teacher's fixed-step integrator: four stages, nodes at 0, 1/2, 1/2, 1,
// solution weights 1/6, 1/3, 1/3, 1/6.
type RK4 struct{}

var _ Tableau = RK4{}

func (RK4) Order() uint8 { return 4 }
func (RK4) Stages() int  { return 4 }

func (RK4) A() []float64 {
	return []float64{
		0.5,
		0, 0.5,
		0, 0, 1,
	}
}

func (RK4) B() []float64 {
	return []float64{1.0 / 6, 1.0 / 3, 1.0 / 3, 1.0 / 6}
}

func (RK4) Embedded() bool { return false }
