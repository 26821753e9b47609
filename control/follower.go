package control

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"
	"gonum.org/v1/gonum/floats"

	"github.com/armlab/pathfollow/arm"
	"github.com/armlab/pathfollow/model"
	"github.com/armlab/pathfollow/trajectory"
	"github.com/armlab/pathfollow/utils"
)

// FollowerOptions tune the follower loop.
type FollowerOptions struct {
	// Epsilon is the per joint tracking error, in degrees, below which the
	// goal counts as reached once the trajectory time has elapsed.
	Epsilon float64

	// MaxCmd bounds the magnitude of every joint velocity command.
	MaxCmd float64

	// Timestep is the control period.
	Timestep time.Duration

	// Model optionally clamps interpolated targets to the robot's joint
	// limits.
	Model *model.Model

	// Clock defaults to the wall clock.
	Clock clock.Clock
}

// A Follower drives an arm along a trajectory, sampling the target
// configuration every timestep and closing the loop with a controller.
type Follower struct {
	robot  arm.Arm
	traj   *trajectory.Trajectory
	ctrl   Controller
	opts   FollowerOptions
	clock  clock.Clock
	logger golog.Logger
}

// NewFollower wires an arm, a trajectory, and a controller into a follower.
func NewFollower(robot arm.Arm, traj *trajectory.Trajectory, ctrl Controller, opts FollowerOptions, logger golog.Logger) (*Follower, error) {
	if opts.Epsilon <= 0 {
		return nil, errors.New("epsilon must be positive")
	}
	if opts.MaxCmd <= 0 {
		return nil, errors.New("max_cmd must be positive")
	}
	if opts.Timestep <= 0 {
		return nil, errors.New("timestep must be positive")
	}
	if opts.Model != nil {
		if err := opts.Model.VerifyDoF(traj.DoF()); err != nil {
			return nil, err
		}
	}
	c := opts.Clock
	if c == nil {
		c = clock.New()
	}
	return &Follower{
		robot:  robot,
		traj:   traj,
		ctrl:   ctrl,
		opts:   opts,
		clock:  c,
		logger: logger,
	}, nil
}

// Follow runs the control loop until the goal is reached or the context is
// canceled. The arm is always stopped before returning.
func (f *Follower) Follow(ctx context.Context) error {
	f.ctrl.Reset()
	ticker := f.clock.Ticker(f.opts.Timestep)
	defer ticker.Stop()

	dt := f.opts.Timestep.Seconds()
	start := f.clock.Now()
	pError := make([]float64, f.traj.DoF())

	for {
		if !goutils.SelectContextOrWaitChan(ctx, ticker.C) {
			return multierr.Combine(ctx.Err(), f.robot.Stop(context.Background()))
		}
		elapsed := f.clock.Since(start).Seconds()

		target := f.traj.Interpolate(elapsed)
		if f.opts.Model != nil {
			f.opts.Model.ClampToLimits(target)
		}

		current, err := f.robot.JointPositions(ctx)
		if err != nil {
			return multierr.Combine(errors.Wrap(err, "error reading joint positions"), f.robot.Stop(context.Background()))
		}
		if len(current) != f.traj.DoF() {
			return multierr.Combine(
				errors.Errorf("arm reported %d joints, trajectory has %d", len(current), f.traj.DoF()),
				f.robot.Stop(context.Background()),
			)
		}

		floats.SubTo(pError, target, current)
		cmd := f.ctrl.Step(pError, dt)
		utils.ClampSlice(cmd, f.opts.MaxCmd)

		if err := f.robot.SetJointVelocities(ctx, cmd); err != nil {
			return multierr.Combine(errors.Wrap(err, "error commanding joint velocities"), f.robot.Stop(context.Background()))
		}

		if elapsed >= f.traj.T && utils.MaxAbs(pError) < f.opts.Epsilon {
			f.logger.Infow("goal reached", "elapsed_s", elapsed, "max_error_deg", utils.MaxAbs(pError))
			return f.robot.Stop(ctx)
		}
	}
}
