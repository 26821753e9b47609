// Package arm defines the manipulator the path follower drives.
package arm

import (
	"context"
)

// An Arm represents a serial manipulator addressed in joint space. All joint
// angles are in degrees and joint velocities in degrees per second, matching
// the configuration's units.
type Arm interface {
	// JointPositions returns the current joint angles.
	JointPositions(ctx context.Context) ([]float64, error)

	// MoveToJointPositions moves the arm directly to the given joint angles.
	MoveToJointPositions(ctx context.Context, positions []float64) error

	// SetJointVelocities commands the given joint velocities until the next
	// command arrives.
	SetJointVelocities(ctx context.Context, velocities []float64) error

	// Stop halts all joint motion.
	Stop(ctx context.Context) error
}

// A TorqueSensed arm additionally reports externally applied joint torques,
// used to detect physical interaction during demonstrations.
type TorqueSensed interface {
	// ExternalTorques returns the estimated external torque on each joint in
	// newton meters.
	ExternalTorques(ctx context.Context) ([]float64, error)
}
