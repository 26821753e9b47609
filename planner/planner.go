// Package planner provides joint space trajectory planners and a registry
// keyed by the planner type tag found in configuration.
package planner

import (
	"context"
	"sort"
	"sync"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/armlab/pathfollow/config"
	"github.com/armlab/pathfollow/trajectory"
)

// A Planner produces a trajectory from a start to a goal configuration.
// Configurations are joint angles in degrees.
type Planner interface {
	// Plan returns a trajectory visiting the configured number of waypoints
	// from start to goal over the configured duration.
	Plan(ctx context.Context, start, goal []float64) (*trajectory.Trajectory, error)
}

// A Constructor builds a planner from its config section and the total
// trajectory duration.
type Constructor func(cfg config.PlannerConfig, totalTime float64, logger golog.Logger) (Planner, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Constructor{}
)

// Register associates a planner type tag with a constructor. Registering the
// same tag twice panics, mirroring duplicate component registration.
func Register(planType string, ctor Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := registry[planType]; ok {
		panic(errors.Errorf("planner type %q already registered", planType))
	}
	registry[planType] = ctor
}

// SupportedTypes returns the sorted set of registered planner type tags.
func SupportedTypes() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	types := make([]string, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// New builds the planner selected by the given config section.
func New(cfg config.PlannerConfig, totalTime float64, logger golog.Logger) (Planner, error) {
	registryMu.RLock()
	ctor, ok := registry[cfg.Type]
	registryMu.RUnlock()
	if !ok {
		return nil, errors.Errorf("unsupported planner type %q, supported: %v", cfg.Type, SupportedTypes())
	}
	return ctor(cfg, totalTime, logger)
}
