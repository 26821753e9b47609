package control

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestPIDStep(t *testing.T) {
	pid := NewPID(2.0, 1.0, 0.5, 2)

	cmd := pid.Step([]float64{1, -1}, 0.1)
	// p: 2*1, i: 1*(0.1*1), d: 0.5*(1-0)/0.1
	test.That(t, cmd[0], test.ShouldAlmostEqual, 7.1, 1e-9)
	test.That(t, cmd[1], test.ShouldAlmostEqual, -7.1, 1e-9)

	cmd = pid.Step([]float64{1, -1}, 0.1)
	// integral accumulates, derivative vanishes on a constant error
	test.That(t, cmd[0], test.ShouldAlmostEqual, 2.2, 1e-9)
	test.That(t, cmd[1], test.ShouldAlmostEqual, -2.2, 1e-9)

	test.That(t, pid.Output()[0], test.ShouldAlmostEqual, 2.2, 1e-9)

	pid.Reset()
	cmd = pid.Step([]float64{1, -1}, 0.1)
	test.That(t, cmd[0], test.ShouldAlmostEqual, 7.1, 1e-9)
}

func TestPIDInvalidDt(t *testing.T) {
	pid := NewPID(2.0, 1.0, 0.5, 2)
	for _, dt := range []float64{0, -0.1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		cmd := pid.Step([]float64{1, -1}, dt)
		test.That(t, cmd, test.ShouldResemble, []float64{0, 0})
	}
	// state was untouched, so the next valid step still sees zero history
	cmd := pid.Step([]float64{1, -1}, 0.1)
	test.That(t, cmd[0], test.ShouldAlmostEqual, 7.1, 1e-9)
}

func TestPIDIntegralClamp(t *testing.T) {
	pid := NewPID(2.0, 1.0, 0, 1)
	pid.SetIntegralLimits(-0.15, 0.15)

	test.That(t, pid.Saturated(), test.ShouldBeFalse)

	cmd := pid.Step([]float64{1}, 0.1)
	test.That(t, cmd[0], test.ShouldAlmostEqual, 2.1, 1e-9)
	test.That(t, pid.Saturated(), test.ShouldBeFalse)

	cmd = pid.Step([]float64{1}, 0.1)
	// integral term would be 0.2 but clamps to 0.15
	test.That(t, cmd[0], test.ShouldAlmostEqual, 2.15, 1e-9)
	test.That(t, pid.Saturated(), test.ShouldBeTrue)
}

func TestPIDSetGains(t *testing.T) {
	pid := NewPID(1.0, 0, 0, 1)
	cmd := pid.Step([]float64{2}, 0.1)
	test.That(t, cmd[0], test.ShouldAlmostEqual, 2, 1e-9)

	pid.SetGains(3.0, 0, 0)
	cmd = pid.Step([]float64{2}, 0.1)
	test.That(t, cmd[0], test.ShouldAlmostEqual, 6, 1e-9)
}
