package control

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"
)

// PID is a joint space proportional-integral-derivative controller. Each
// call to Step advances the integral and derivative state for every joint:
//
//	cmd = pGain*err + iGain*∫err + dGain*d(err)/dt
//
// The integral term is clamped to [iMin, iMax] per joint so a long approach
// cannot wind it up.
type PID struct {
	mu    sync.Mutex
	pGain float64
	iGain float64
	dGain float64
	iMin  float64
	iMax  float64

	pErrorLast []float64
	iError     []float64
	cmd        []float64
}

// NewPID returns a PID controller over dof joints with the given scalar
// gains applied to every joint.
func NewPID(pGain, iGain, dGain float64, dof int) *PID {
	p := &PID{
		pGain: pGain,
		iGain: iGain,
		dGain: dGain,
		iMin:  math.Inf(-1),
		iMax:  math.Inf(1),
	}
	p.resetState(dof)
	return p
}

// SetIntegralLimits bounds the integral contribution per joint.
func (p *PID) SetIntegralLimits(iMin, iMax float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.iMin = iMin
	p.iMax = iMax
}

// SetGains replaces the controller gains, keeping accumulated state.
func (p *PID) SetGains(pGain, iGain, dGain float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pGain = pGain
	p.iGain = iGain
	p.dGain = dGain
}

// Reset zeroes the controller state.
func (p *PID) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetState(len(p.iError))
}

func (p *PID) resetState(dof int) {
	p.pErrorLast = make([]float64, dof)
	p.iError = make([]float64, dof)
	p.cmd = make([]float64, dof)
}

// Step updates the loop with the current per joint error (target - state)
// and the time since the last call in seconds, returning the new command. A
// non-positive or non-finite dt returns zeros, leaving the state untouched.
func (p *PID) Step(pError []float64, dt float64) []float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	cmd := make([]float64, len(pError))
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return cmd
	}

	for i, err := range pError {
		p.iError[i] += dt * err
		iTerm := p.iGain * p.iError[i]
		if iTerm > p.iMax {
			iTerm = p.iMax
		} else if iTerm < p.iMin {
			iTerm = p.iMin
		}

		dError := (err - p.pErrorLast[i]) / dt
		p.pErrorLast[i] = err

		cmd[i] = p.pGain*err + iTerm + p.dGain*dError
	}
	copy(p.cmd, cmd)
	return cmd
}

// Output returns the most recent command.
func (p *PID) Output() []float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]float64, len(p.cmd))
	copy(out, p.cmd)
	return out
}

// Saturated reports whether the integral contribution of any joint is
// currently at its limit.
func (p *PID) Saturated() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if math.IsInf(p.iMax, 1) && math.IsInf(p.iMin, -1) {
		return false
	}
	scaled := make([]float64, len(p.iError))
	floats.ScaleTo(scaled, p.iGain, p.iError)
	for _, v := range scaled {
		if v >= p.iMax || v <= p.iMin {
			return true
		}
	}
	return false
}
