package errctrl

import (
	"math"
	"testing"
)

func TestRSSStepZeroError(t *testing.T) {
	e := make([]float64, 6)
	next := []float64{1, 2, 3, 4, 5, 6}
	prev := []float64{1, 2, 3, 4, 5, 6}
	if got := (RSSStep{}).Estimate(e, next, prev); got != 0 {
		t.Fatalf("zero error vector should estimate 0, got %f", got)
	}
}

func TestRSSStepScalesWithState(t *testing.T) {
	e := []float64{1, 0, 0, 0, 0, 0}
	small := []float64{0.01, 0, 0, 0, 0, 0}
	large := []float64{1000, 0, 0, 0, 0, 0}
	prev := make([]float64, 6)
	smallErr := (RSSStep{}).Estimate(e, small, prev)
	largeErr := (RSSStep{}).Estimate(e, large, prev)
	if smallErr <= largeErr {
		t.Fatalf("error estimate should shrink as state magnitude grows: small=%f large=%f", smallErr, largeErr)
	}
}

func TestRSSStepPVTakesLarger(t *testing.T) {
	e := []float64{10, 0, 0, 0, 0, 0.1}
	state := []float64{1, 1, 1, 1, 1, 1}
	pv := (RSSStepPV{}).Estimate(e, state, state)
	posOnly := rssOver(e, state, state, 0, 3)
	velOnly := rssOver(e, state, state, 3, 6)
	want := math.Max(posOnly, velOnly)
	if math.Abs(pv-want) > 1e-12 {
		t.Fatalf("RSSStepPV = %f, want max(pos,vel) = %f", pv, want)
	}
}

func TestRSSStepPVDiffersFromRSSStep(t *testing.T) {
	e := []float64{5, 5, 5, 0.001, 0.001, 0.001}
	state := []float64{1, 1, 1, 1, 1, 1}
	combined := (RSSStep{}).Estimate(e, state, state)
	split := (RSSStepPV{}).Estimate(e, state, state)
	if combined == split {
		t.Fatalf("combined and split estimates should differ for skewed position/velocity error")
	}
}
