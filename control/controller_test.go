package control

import (
	"testing"

	"github.com/edaniels/golog"
	"go.viam.com/test"

	"github.com/armlab/pathfollow/config"
)

func TestNewController(t *testing.T) {
	logger := golog.NewTestLogger(t)

	for _, tc := range []struct {
		name string
		cfg  config.ControllerConfig
		err  string
	}{
		{
			"pid",
			config.ControllerConfig{Type: "pid", PGain: 50, DGain: 20, Epsilon: 0.1, MaxCmd: 40},
			"",
		},
		{
			"pid with integral limits",
			config.ControllerConfig{
				Type: "pid", PGain: 50, IGain: 1, Epsilon: 0.1, MaxCmd: 40,
				Attributes: config.AttributeMap{"i_min": -10.0, "i_max": 10.0},
			},
			"",
		},
		{
			"lone i_min",
			config.ControllerConfig{
				Type: "pid", PGain: 50, Epsilon: 0.1, MaxCmd: 40,
				Attributes: config.AttributeMap{"i_min": -10.0},
			},
			"i_min and i_max must be set together",
		},
		{
			"inverted limits",
			config.ControllerConfig{
				Type: "pid", PGain: 50, Epsilon: 0.1, MaxCmd: 40,
				Attributes: config.AttributeMap{"i_min": 10.0, "i_max": -10.0},
			},
			"is above i_max",
		},
		{
			"unknown type",
			config.ControllerConfig{Type: "lqr", Epsilon: 0.1, MaxCmd: 40},
			`unsupported controller type "lqr"`,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ctrl, err := NewController(tc.cfg, 7, logger)
			if tc.err == "" {
				test.That(t, err, test.ShouldBeNil)
				test.That(t, ctrl, test.ShouldNotBeNil)
			} else {
				test.That(t, err, test.ShouldNotBeNil)
				test.That(t, err.Error(), test.ShouldContainSubstring, tc.err)
			}
		})
	}
}

func TestNewControllerClampsIntegral(t *testing.T) {
	logger := golog.NewTestLogger(t)
	ctrl, err := NewController(config.ControllerConfig{
		Type: "pid", IGain: 1, Epsilon: 0.1, MaxCmd: 40,
		Attributes: config.AttributeMap{"i_min": -0.05, "i_max": 0.05},
	}, 1, logger)
	test.That(t, err, test.ShouldBeNil)

	ctrl.Step([]float64{1}, 0.1)
	cmd := ctrl.Step([]float64{1}, 0.1)
	test.That(t, cmd[0], test.ShouldAlmostEqual, 0.05, 1e-9)
}
