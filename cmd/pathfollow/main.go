// Package main runs the path following pipeline from a config file: plan a
// trajectory from the configured start to the configured goal, then drive an
// arm along it.
package main

import (
	"context"
	"time"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"github.com/armlab/pathfollow/arm/fake"
	"github.com/armlab/pathfollow/config"
	"github.com/armlab/pathfollow/control"
	"github.com/armlab/pathfollow/model"
	"github.com/armlab/pathfollow/planner"
)

var logger = golog.NewDevelopmentLogger("pathfollow")

func main() {
	goutils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	ConfigFile string `flag:"config,required,usage=path follower config file"`
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	var argsParsed Arguments
	if err := goutils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}
	return runPipeline(ctx, argsParsed.ConfigFile, logger)
}

func runPipeline(ctx context.Context, configFile string, logger golog.Logger) error {
	cfg, err := config.ReadAndEnsure(configFile)
	if err != nil {
		return err
	}
	logger.Infow("loaded config",
		"path", configFile,
		"prefix", cfg.Setup.Prefix,
		"planner", cfg.Planner.Type,
		"controller", cfg.Controller.Type,
	)

	var robotModel *model.Model
	if cfg.Setup.ModelFilename != "" {
		robotModel, err = model.ParseURDFFile(cfg.Setup.ModelFilename)
		if err != nil {
			return errors.Wrapf(err, "cannot load model %q", cfg.Setup.ModelFilename)
		}
		if err := robotModel.VerifyDoF(config.NumJoints); err != nil {
			return err
		}
		logger.Infow("loaded robot model", "name", robotModel.Name, "dof", robotModel.DoF())
	}

	p, err := planner.New(cfg.Planner, cfg.Setup.T, logger)
	if err != nil {
		return err
	}
	traj, err := p.Plan(ctx, cfg.Setup.Start, cfg.Setup.Goal)
	if err != nil {
		return errors.Wrap(err, "planning failed")
	}
	logger.Infow("planned trajectory",
		"waypoints", traj.NumWaypts(),
		"duration_s", traj.T,
		"arc_length_deg", traj.ArcLength(),
	)

	ctrl, err := control.NewController(cfg.Controller, config.NumJoints, logger)
	if err != nil {
		return err
	}

	robot := fake.NewArm(cfg.Setup.Start, nil)
	follower, err := control.NewFollower(robot, traj, ctrl, control.FollowerOptions{
		Epsilon:  cfg.Controller.Epsilon,
		MaxCmd:   cfg.Controller.MaxCmd,
		Timestep: time.Duration(cfg.Setup.Timestep * float64(time.Second)),
		Model:    robotModel,
	}, logger)
	if err != nil {
		return err
	}

	logger.Infow("following path", "start", cfg.Setup.Start, "goal", cfg.Setup.Goal)
	if err := follower.Follow(ctx); err != nil {
		return err
	}

	final, err := robot.JointPositions(ctx)
	if err != nil {
		return err
	}
	logger.Infow("done", "final", final)
	return nil
}
