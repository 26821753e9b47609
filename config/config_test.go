package config_test

import (
	"testing"

	"go.viam.com/test"

	"github.com/armlab/pathfollow/config"
)

func validSetup() config.SetupConfig {
	return config.SetupConfig{
		Prefix:      "j2s7s300_driver",
		FeatList:    []string{"table", "laptop"},
		FeatWeights: []float64{1.0, 10.0},
		Start:       []float64{104.2, 151.6, 183.8, 101.8, 224.2, 216.9, 310.8},
		Goal:        []float64{210.8, 101.6, 192.0, 114.7, 222.2, 246.1, 322.0},
		GoalPose:    []float64{-0.46, 0.27, 0.62},
		T:           20,
		Timestep:    0.1,
	}
}

func TestSetupConfigValidate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(*config.SetupConfig)
		err    string
	}{
		{"valid", func(*config.SetupConfig) {}, ""},
		{"no prefix", func(c *config.SetupConfig) { c.Prefix = "" }, `"prefix" is required`},
		{"feature parity", func(c *config.SetupConfig) { c.FeatWeights = []float64{1.0} },
			"feat_list has 2 entries but feat_weights has 1"},
		{"bad object center", func(c *config.SetupConfig) {
			c.ObjectCenters = map[string][]float64{"LAPTOP_CENTER": {-0.8, 0.0}}
		}, `object "LAPTOP_CENTER" must have 3 coordinates, got 2`},
		{"unknown feature range", func(c *config.SetupConfig) {
			c.FeatRange = map[string]float64{"human": 1.0}
		}, `range given for unknown feature "human"`},
		{"short start", func(c *config.SetupConfig) { c.Start = c.Start[:5] },
			"expected 7 joint angles, got 5"},
		{"short goal", func(c *config.SetupConfig) { c.Goal = append(c.Goal, 12.0) },
			"expected 7 joint angles, got 8"},
		{"bad goal pose", func(c *config.SetupConfig) { c.GoalPose = []float64{1, 2} },
			"expected [x,y,z], got 2 values"},
		{"no goal pose is fine", func(c *config.SetupConfig) { c.GoalPose = nil }, ""},
		{"zero duration", func(c *config.SetupConfig) { c.T = 0 }, "duration must be positive"},
		{"negative timestep", func(c *config.SetupConfig) { c.Timestep = -0.1 },
			"timestep must be positive"},
		{"timestep longer than duration", func(c *config.SetupConfig) { c.Timestep = 30 },
			"at least one step"},
		{"short torque threshold", func(c *config.SetupConfig) {
			c.InteractionTorqueThreshold = []float64{6, 6, 6}
		}, "expected 7 values, got 3"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			setup := validSetup()
			tc.mutate(&setup)
			err := setup.Validate("setup")
			if tc.err == "" {
				test.That(t, err, test.ShouldBeNil)
			} else {
				test.That(t, err, test.ShouldNotBeNil)
				test.That(t, err.Error(), test.ShouldContainSubstring, tc.err)
			}
		})
	}
}

func TestSetupConfigHelpers(t *testing.T) {
	setup := validSetup()
	setup.ObjectCenters = map[string][]float64{"HUMAN_CENTER": {-0.6, -0.55, 0.0}}

	rads := setup.StartRadians()
	test.That(t, rads, test.ShouldHaveLength, config.NumJoints)
	test.That(t, rads[0], test.ShouldAlmostEqual, 1.81863, .0001)
	test.That(t, setup.GoalRadians()[6], test.ShouldAlmostEqual, 5.61996, .0001)

	test.That(t, setup.NumSteps(), test.ShouldEqual, 200)

	w, ok := setup.FeatureWeight("laptop")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, w, test.ShouldEqual, 10.0)
	_, ok = setup.FeatureWeight("coffee")
	test.That(t, ok, test.ShouldBeFalse)

	centers := setup.ObjectCenterVectors()
	test.That(t, centers, test.ShouldHaveLength, 1)
	test.That(t, centers["HUMAN_CENTER"].Y, test.ShouldEqual, -0.55)

	pose, ok := setup.GoalPoseVector()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, pose.Z, test.ShouldEqual, 0.62)

	setup.GoalPose = nil
	_, ok = setup.GoalPoseVector()
	test.That(t, ok, test.ShouldBeFalse)
}

func TestPlannerConfigValidate(t *testing.T) {
	cfg := config.PlannerConfig{Type: "trajopt", MaxIter: 50, NumWaypts: 5}
	test.That(t, cfg.Validate("planner"), test.ShouldBeNil)

	cfg.Type = ""
	err := cfg.Validate("planner")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `"type" is required`)

	cfg = config.PlannerConfig{Type: "trajopt", MaxIter: 0, NumWaypts: 5}
	err = cfg.Validate("planner")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "max_iter")

	cfg = config.PlannerConfig{Type: "trajopt", MaxIter: 50, NumWaypts: 1}
	err = cfg.Validate("planner")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "at least 2 waypoints")
}

func TestControllerConfigValidate(t *testing.T) {
	cfg := config.ControllerConfig{Type: "pid", PGain: 50, DGain: 20, Epsilon: 0.1, MaxCmd: 40}
	test.That(t, cfg.Validate("controller"), test.ShouldBeNil)

	cfg.Type = ""
	err := cfg.Validate("controller")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `"type" is required`)

	cfg = config.ControllerConfig{Type: "pid", PGain: -1, Epsilon: 0.1, MaxCmd: 40}
	err = cfg.Validate("controller")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "gains must be non-negative")

	cfg = config.ControllerConfig{Type: "pid", PGain: 50, Epsilon: 0, MaxCmd: 40}
	err = cfg.Validate("controller")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "epsilon")

	cfg = config.ControllerConfig{Type: "pid", PGain: 50, Epsilon: 0.1, MaxCmd: 0}
	err = cfg.Validate("controller")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "max_cmd")
}

func TestEnsureAggregatesErrors(t *testing.T) {
	cfg := &config.Config{
		Setup:      validSetup(),
		Planner:    config.PlannerConfig{Type: "", MaxIter: 50, NumWaypts: 5},
		Controller: config.ControllerConfig{Type: "", PGain: 50, Epsilon: 0.1, MaxCmd: 40},
	}
	err := cfg.Ensure()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "planner")
	test.That(t, err.Error(), test.ShouldContainSubstring, "controller")
}
