// Package demo records kinesthetic demonstrations: joint configurations
// sampled while a person physically guides the arm.
package demo

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"github.com/armlab/pathfollow/arm"
	"github.com/armlab/pathfollow/config"
)

// An InteractionDetector decides from external joint torques whether a
// person is currently guiding the arm. A joint counts as touched when its
// torque, reduced by the per joint deadband epsilon, still exceeds the per
// joint threshold.
type InteractionDetector struct {
	threshold []float64
	epsilon   []float64
}

// NewInteractionDetector builds a detector from the setup section.
func NewInteractionDetector(setup config.SetupConfig) (*InteractionDetector, error) {
	if setup.InteractionTorqueThreshold == nil || setup.InteractionTorqueEpsilon == nil {
		return nil, errors.New("setup has no interaction torque threshold or epsilon")
	}
	if len(setup.InteractionTorqueThreshold) != len(setup.InteractionTorqueEpsilon) {
		return nil, errors.Errorf("threshold has %d joints but epsilon has %d",
			len(setup.InteractionTorqueThreshold), len(setup.InteractionTorqueEpsilon))
	}
	return &InteractionDetector{
		threshold: setup.InteractionTorqueThreshold,
		epsilon:   setup.InteractionTorqueEpsilon,
	}, nil
}

// Interacting reports whether the given external torques indicate physical
// interaction.
func (d *InteractionDetector) Interacting(torques []float64) bool {
	for i, tau := range torques {
		if i >= len(d.threshold) {
			break
		}
		mag := math.Abs(tau) - d.epsilon[i]
		if mag > d.threshold[i] {
			return true
		}
	}
	return false
}

// A Snapshot is one recorded sample of a demonstration.
type Snapshot struct {
	Time   float64   `json:"t"`      // seconds since recording began
	Joints []float64 `json:"joints"` // degrees
}

// A Demonstration is a full recording, ready to serialize.
type Demonstration struct {
	Prefix    string     `json:"prefix"`
	Timestep  float64    `json:"timestep"`
	Snapshots []Snapshot `json:"snapshots"`
}

// A Recorder samples arm joint positions at the configured timestep while
// recording is active.
type Recorder struct {
	robot    arm.Arm
	prefix   string
	saveDir  string
	timestep time.Duration
	clock    clock.Clock
	logger   golog.Logger

	detector *InteractionDetector

	mu                      sync.Mutex
	snapshots               []Snapshot
	cancel                  context.CancelFunc
	activeBackgroundWorkers sync.WaitGroup
}

// NewRecorder returns a recorder for the given arm driven by the setup
// section's timestep and save directory.
func NewRecorder(robot arm.Arm, setup config.SetupConfig, c clock.Clock, logger golog.Logger) *Recorder {
	if c == nil {
		c = clock.New()
	}
	return &Recorder{
		robot:    robot,
		prefix:   setup.Prefix,
		saveDir:  setup.SaveDir,
		timestep: time.Duration(setup.Timestep * float64(time.Second)),
		clock:    c,
		logger:   logger,
	}
}

// SetInteractionDetector makes the recorder keep only samples taken while a
// person is physically guiding the arm. The arm must report external
// torques.
func (r *Recorder) SetInteractionDetector(detector *InteractionDetector) error {
	if _, ok := r.robot.(arm.TorqueSensed); !ok {
		return errors.New("arm does not report external torques")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.detector = detector
	return nil
}

// Start begins sampling until Stop is called or the context ends.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return errors.New("recording already in progress")
	}
	r.snapshots = nil
	cancelCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	begin := r.clock.Now()
	ticker := r.clock.Ticker(r.timestep)
	r.activeBackgroundWorkers.Add(1)
	goutils.ManagedGo(func() {
		defer ticker.Stop()
		for {
			if !goutils.SelectContextOrWaitChan(cancelCtx, ticker.C) {
				return
			}
			if guided, err := r.guided(cancelCtx); err != nil {
				if cancelCtx.Err() == nil {
					r.logger.Errorw("error reading external torques", "error", err)
				}
				continue
			} else if !guided {
				continue
			}
			joints, err := r.robot.JointPositions(cancelCtx)
			if err != nil {
				if cancelCtx.Err() == nil {
					r.logger.Errorw("error reading joint positions", "error", err)
				}
				continue
			}
			snap := Snapshot{Time: r.clock.Since(begin).Seconds(), Joints: joints}
			r.mu.Lock()
			r.snapshots = append(r.snapshots, snap)
			r.mu.Unlock()
		}
	}, r.activeBackgroundWorkers.Done)
	return nil
}

// guided reports whether sampling should proceed right now. Without a
// detector every sample is kept.
func (r *Recorder) guided(ctx context.Context) (bool, error) {
	r.mu.Lock()
	detector := r.detector
	r.mu.Unlock()
	if detector == nil {
		return true, nil
	}
	sensed, ok := r.robot.(arm.TorqueSensed)
	if !ok {
		return false, errors.New("arm does not report external torques")
	}
	torques, err := sensed.ExternalTorques(ctx)
	if err != nil {
		return false, err
	}
	return detector.Interacting(torques), nil
}

// Stop ends sampling and returns everything recorded so far.
func (r *Recorder) Stop() []Snapshot {
	r.mu.Lock()
	cancel := r.cancel
	r.cancel = nil
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	r.activeBackgroundWorkers.Wait()

	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Snapshot, len(r.snapshots))
	copy(out, r.snapshots)
	return out
}

// Save writes the recorded demonstration as JSON under the save directory
// and returns the file path.
func (r *Recorder) Save(snapshots []Snapshot) (string, error) {
	if len(snapshots) == 0 {
		return "", errors.New("nothing recorded")
	}
	if err := os.MkdirAll(r.saveDir, 0o755); err != nil {
		return "", errors.Wrap(err, "cannot create save directory")
	}
	demo := Demonstration{
		Prefix:    r.prefix,
		Timestep:  r.timestep.Seconds(),
		Snapshots: snapshots,
	}
	data, err := json.MarshalIndent(demo, "", "  ")
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("demo_%s.json", r.clock.Now().Format("20060102_150405"))
	path := filepath.Join(r.saveDir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", errors.Wrap(err, "cannot write demonstration")
	}
	r.logger.Infow("saved demonstration", "path", path, "samples", len(snapshots))
	return path, nil
}
