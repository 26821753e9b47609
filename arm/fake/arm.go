// Package fake implements a fake arm that integrates the velocities it is
// commanded with, so the pipeline can run without hardware.
package fake

import (
	"context"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"

	"github.com/armlab/pathfollow/arm"
)

// Arm is a fake arm whose joints move at the commanded velocities. The zero
// value is not usable; construct with NewArm.
type Arm struct {
	mu         sync.Mutex
	joints     []float64
	velocities []float64
	torques    []float64
	clock      clock.Clock
	lastTime   int64 // nanoseconds at last integration
}

// NewArm returns a fake arm resting at the given joint angles, in degrees.
func NewArm(joints []float64, c clock.Clock) *Arm {
	if c == nil {
		c = clock.New()
	}
	start := make([]float64, len(joints))
	copy(start, joints)
	return &Arm{
		joints:     start,
		velocities: make([]float64, len(joints)),
		torques:    make([]float64, len(joints)),
		clock:      c,
		lastTime:   c.Now().UnixNano(),
	}
}

// integrate advances joint positions along the current velocities. Callers
// must hold the mutex.
func (a *Arm) integrate() {
	now := a.clock.Now().UnixNano()
	dt := float64(now-a.lastTime) / 1e9
	a.lastTime = now
	if dt <= 0 {
		return
	}
	for i, v := range a.velocities {
		a.joints[i] += v * dt
	}
}

// JointPositions returns the current joint angles in degrees.
func (a *Arm) JointPositions(ctx context.Context) ([]float64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.integrate()
	out := make([]float64, len(a.joints))
	copy(out, a.joints)
	return out, nil
}

// MoveToJointPositions teleports the fake arm to the given joint angles.
func (a *Arm) MoveToJointPositions(ctx context.Context, positions []float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(positions) != len(a.joints) {
		return errors.Errorf("expected %d joint angles, got %d", len(a.joints), len(positions))
	}
	a.integrate()
	copy(a.joints, positions)
	for i := range a.velocities {
		a.velocities[i] = 0
	}
	return nil
}

// SetJointVelocities commands the given joint velocities in degrees per second.
func (a *Arm) SetJointVelocities(ctx context.Context, velocities []float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(velocities) != len(a.joints) {
		return errors.Errorf("expected %d joint velocities, got %d", len(a.joints), len(velocities))
	}
	a.integrate()
	copy(a.velocities, velocities)
	return nil
}

// Stop zeroes all joint velocities.
func (a *Arm) Stop(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.integrate()
	for i := range a.velocities {
		a.velocities[i] = 0
	}
	return nil
}

// SetExternalTorques sets the torques reported by ExternalTorques, for tests
// and demos simulating physical interaction.
func (a *Arm) SetExternalTorques(torques []float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	copy(a.torques, torques)
}

// ExternalTorques returns the simulated external joint torques.
func (a *Arm) ExternalTorques(ctx context.Context) ([]float64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]float64, len(a.torques))
	copy(out, a.torques)
	return out, nil
}

var (
	_ arm.Arm          = (*Arm)(nil)
	_ arm.TorqueSensed = (*Arm)(nil)
)
