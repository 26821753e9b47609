// Package control implements the feedback controllers that drive an arm
// along a planned trajectory, and the follower loop that runs them.
package control

import (
	"github.com/edaniels/golog"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"

	"github.com/armlab/pathfollow/config"
)

// PIDType is the type tag of the PID controller.
const PIDType = "pid"

// A Controller turns per joint tracking error into joint velocity commands.
type Controller interface {
	// Step takes the current error (target - state) and the elapsed time in
	// seconds and returns the next command.
	Step(pError []float64, dt float64) []float64

	// Reset returns the controller to its initial state.
	Reset()
}

// pidAttributes are the optional tunables accepted under
// controller.attributes.
type pidAttributes struct {
	IMin *float64 `mapstructure:"i_min"`
	IMax *float64 `mapstructure:"i_max"`
}

// NewController builds the controller selected by the given config section
// for an arm with dof joints.
func NewController(cfg config.ControllerConfig, dof int, logger golog.Logger) (Controller, error) {
	switch cfg.Type {
	case PIDType:
		pid := NewPID(cfg.PGain, cfg.IGain, cfg.DGain, dof)
		if cfg.Attributes != nil {
			var attrs pidAttributes
			if err := mapstructure.Decode(map[string]interface{}(cfg.Attributes), &attrs); err != nil {
				return nil, errors.Wrap(err, "invalid pid attributes")
			}
			if attrs.IMin != nil || attrs.IMax != nil {
				if attrs.IMin == nil || attrs.IMax == nil {
					return nil, errors.New("i_min and i_max must be set together")
				}
				if *attrs.IMin > *attrs.IMax {
					return nil, errors.Errorf("i_min %f is above i_max %f", *attrs.IMin, *attrs.IMax)
				}
				pid.SetIntegralLimits(*attrs.IMin, *attrs.IMax)
			}
		}
		logger.Debugw("built pid controller",
			"p_gain", cfg.PGain, "i_gain", cfg.IGain, "d_gain", cfg.DGain, "dof", dof)
		return pid, nil
	}
	return nil, errors.Errorf("unsupported controller type %q", cfg.Type)
}
