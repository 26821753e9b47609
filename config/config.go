// Package config defines the structures to configure the path following pipeline
// for a robotic manipulator.
package config

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"github.com/armlab/pathfollow/utils"
)

// NumJoints is the number of arm joints the pipeline drives.
const NumJoints = 7

// A Config describes a full path following setup: the robot and task
// description, the planner selection, and the controller gains.
type Config struct {
	Setup      SetupConfig      `yaml:"setup"`
	Planner    PlannerConfig    `yaml:"planner"`
	Controller ControllerConfig `yaml:"controller"`

	ConfigFilePath string `yaml:"-"`
}

// Ensure ensures all parts of the config are valid, aggregating every
// violation rather than stopping at the first.
func (c *Config) Ensure() error {
	return multierr.Combine(
		c.Setup.Validate("setup"),
		c.Planner.Validate("planner"),
		c.Controller.Validate("controller"),
	)
}

// A SetupConfig describes the robot, its environment, and the motion task.
type SetupConfig struct {
	Prefix        string               `yaml:"prefix"`
	ModelFilename string               `yaml:"model_filename"`
	ObjectCenters map[string][]float64 `yaml:"object_centers"`

	// FeatList and FeatWeights are parallel: entry i of FeatWeights is the
	// relative weight of the cost feature named by entry i of FeatList.
	FeatList    []string  `yaml:"feat_list"`
	FeatWeights []float64 `yaml:"feat_weights"`

	Start    []float64 `yaml:"start"`     // joint angles, degrees
	Goal     []float64 `yaml:"goal"`      // joint angles, degrees
	GoalPose []float64 `yaml:"goal_pose"` // optional end effector [x,y,z]

	T        float64 `yaml:"T"`        // total trajectory duration, seconds
	Timestep float64 `yaml:"timestep"` // seconds

	SaveDir                    string             `yaml:"save_dir"`
	InteractionTorqueThreshold []float64          `yaml:"interaction_torque_threshold"`
	InteractionTorqueEpsilon   []float64          `yaml:"interaction_torque_epsilon"`
	FeatRange                  map[string]float64 `yaml:"feat_range"`
}

// Validate ensures all parts of the setup section are valid.
func (config *SetupConfig) Validate(path string) error {
	if config.Prefix == "" {
		return goutils.NewConfigValidationFieldRequiredError(path, "prefix")
	}
	for name, center := range config.ObjectCenters {
		if len(center) != 3 {
			return goutils.NewConfigValidationError(path+".object_centers",
				errors.Errorf("object %q must have 3 coordinates, got %d", name, len(center)))
		}
	}
	if len(config.FeatList) != len(config.FeatWeights) {
		return goutils.NewConfigValidationError(path,
			errors.Errorf("feat_list has %d entries but feat_weights has %d", len(config.FeatList), len(config.FeatWeights)))
	}
	for name := range config.FeatRange {
		if !config.hasFeature(name) {
			return goutils.NewConfigValidationError(path+".feat_range",
				errors.Errorf("range given for unknown feature %q", name))
		}
	}
	if len(config.Start) != NumJoints {
		return goutils.NewConfigValidationError(path+".start",
			errors.Errorf("expected %d joint angles, got %d", NumJoints, len(config.Start)))
	}
	if len(config.Goal) != NumJoints {
		return goutils.NewConfigValidationError(path+".goal",
			errors.Errorf("expected %d joint angles, got %d", NumJoints, len(config.Goal)))
	}
	if config.GoalPose != nil && len(config.GoalPose) != 3 {
		return goutils.NewConfigValidationError(path+".goal_pose",
			errors.Errorf("expected [x,y,z], got %d values", len(config.GoalPose)))
	}
	if config.T <= 0 {
		return goutils.NewConfigValidationError(path+".T", errors.New("duration must be positive"))
	}
	if config.Timestep <= 0 {
		return goutils.NewConfigValidationError(path+".timestep", errors.New("timestep must be positive"))
	}
	if steps := config.T / config.Timestep; math.IsInf(steps, 0) || math.IsNaN(steps) || steps < 1 {
		return goutils.NewConfigValidationError(path,
			errors.Errorf("T/timestep must yield at least one step, got %f", steps))
	}
	for _, field := range []struct {
		name   string
		values []float64
	}{
		{"interaction_torque_threshold", config.InteractionTorqueThreshold},
		{"interaction_torque_epsilon", config.InteractionTorqueEpsilon},
	} {
		if field.values != nil && len(field.values) != NumJoints {
			return goutils.NewConfigValidationError(path+"."+field.name,
				errors.Errorf("expected %d values, got %d", NumJoints, len(field.values)))
		}
	}
	return nil
}

func (config *SetupConfig) hasFeature(name string) bool {
	for _, feat := range config.FeatList {
		if feat == name {
			return true
		}
	}
	return false
}

// FeatureWeight returns the weight for the named cost feature.
func (config *SetupConfig) FeatureWeight(name string) (float64, bool) {
	for i, feat := range config.FeatList {
		if feat == name && i < len(config.FeatWeights) {
			return config.FeatWeights[i], true
		}
	}
	return 0, false
}

// StartRadians returns the start configuration converted to radians.
func (config *SetupConfig) StartRadians() []float64 {
	return utils.DegSliceToRad(config.Start)
}

// GoalRadians returns the goal configuration converted to radians.
func (config *SetupConfig) GoalRadians() []float64 {
	return utils.DegSliceToRad(config.Goal)
}

// NumSteps returns how many controller steps span the full duration.
func (config *SetupConfig) NumSteps() int {
	return int(math.Ceil(config.T / config.Timestep))
}

// ObjectCenterVectors returns the named object centers as 3D vectors.
func (config *SetupConfig) ObjectCenterVectors() map[string]r3.Vector {
	centers := make(map[string]r3.Vector, len(config.ObjectCenters))
	for name, c := range config.ObjectCenters {
		if len(c) == 3 {
			centers[name] = r3.Vector{X: c[0], Y: c[1], Z: c[2]}
		}
	}
	return centers
}

// GoalPoseVector returns the goal end effector position, if one was configured.
func (config *SetupConfig) GoalPoseVector() (r3.Vector, bool) {
	if len(config.GoalPose) != 3 {
		return r3.Vector{}, false
	}
	return r3.Vector{X: config.GoalPose[0], Y: config.GoalPose[1], Z: config.GoalPose[2]}, true
}

// A PlannerConfig selects the planning algorithm and its tuning parameters.
type PlannerConfig struct {
	Type       string       `yaml:"type"`
	MaxIter    int          `yaml:"max_iter"`
	NumWaypts  int          `yaml:"num_waypts"`
	Attributes AttributeMap `yaml:"attributes"`
}

// Validate ensures all parts of the planner section are valid.
func (config *PlannerConfig) Validate(path string) error {
	if config.Type == "" {
		return goutils.NewConfigValidationFieldRequiredError(path, "type")
	}
	if config.MaxIter <= 0 {
		return goutils.NewConfigValidationError(path+".max_iter", errors.New("must be positive"))
	}
	if config.NumWaypts < 2 {
		return goutils.NewConfigValidationError(path+".num_waypts",
			errors.Errorf("need at least 2 waypoints, got %d", config.NumWaypts))
	}
	return nil
}

// A ControllerConfig selects the control algorithm and its gains.
type ControllerConfig struct {
	Type    string  `yaml:"type"`
	PGain   float64 `yaml:"p_gain"`
	IGain   float64 `yaml:"i_gain"`
	DGain   float64 `yaml:"d_gain"`
	Epsilon float64 `yaml:"epsilon"`
	MaxCmd  float64 `yaml:"max_cmd"`

	Attributes AttributeMap `yaml:"attributes"`
}

// Validate ensures all parts of the controller section are valid.
func (config *ControllerConfig) Validate(path string) error {
	if config.Type == "" {
		return goutils.NewConfigValidationFieldRequiredError(path, "type")
	}
	if config.PGain < 0 || config.IGain < 0 || config.DGain < 0 {
		return goutils.NewConfigValidationError(path, errors.New("gains must be non-negative"))
	}
	if config.Epsilon <= 0 {
		return goutils.NewConfigValidationError(path+".epsilon", errors.New("must be positive"))
	}
	if config.MaxCmd <= 0 {
		return goutils.NewConfigValidationError(path+".max_cmd", errors.New("must be positive"))
	}
	return nil
}
