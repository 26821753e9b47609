package planner

import (
	"context"

	"github.com/edaniels/golog"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"

	"github.com/armlab/pathfollow/config"
	"github.com/armlab/pathfollow/trajectory"
)

// TrajoptType is the type tag of the trajectory optimization planner.
const TrajoptType = "trajopt"

func init() {
	Register(TrajoptType, newTrajopt)
}

// trajoptOptions are the tunables accepted under planner.attributes.
type trajoptOptions struct {
	// WarmStart requests reuse of the previous solution as the seed when
	// replanning. It only affects the external optimizer stage.
	WarmStart bool `mapstructure:"warm_start"`
}

// trajopt produces the seed trajectory handed to the trajectory optimizer:
// waypoints linearly interpolated from start to goal. The optimization stage
// itself runs out of process; max_iter is carried for it and is not consumed
// here.
type trajopt struct {
	numWaypts int
	maxIter   int
	totalTime float64
	opts      trajoptOptions
	logger    golog.Logger
}

func newTrajopt(cfg config.PlannerConfig, totalTime float64, logger golog.Logger) (Planner, error) {
	var opts trajoptOptions
	if cfg.Attributes != nil {
		if err := mapstructure.Decode(map[string]interface{}(cfg.Attributes), &opts); err != nil {
			return nil, errors.Wrap(err, "invalid trajopt attributes")
		}
	}
	return &trajopt{
		numWaypts: cfg.NumWaypts,
		maxIter:   cfg.MaxIter,
		totalTime: totalTime,
		opts:      opts,
		logger:    logger,
	}, nil
}

func (p *trajopt) Plan(ctx context.Context, start, goal []float64) (*trajectory.Trajectory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.logger.Debugw("planning seed trajectory",
		"num_waypts", p.numWaypts,
		"max_iter", p.maxIter,
		"warm_start", p.opts.WarmStart,
	)
	return trajectory.Linear(start, goal, p.numWaypts, p.totalTime)
}
