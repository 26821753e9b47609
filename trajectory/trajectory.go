// Package trajectory provides a time parameterized sequence of joint
// configurations for an arm to follow.
package trajectory

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// A Trajectory is a series of joint space waypoints spread uniformly over a
// total duration T. Waypoint angles use the same units as whatever produced
// them; the pipeline works in degrees throughout.
type Trajectory struct {
	Waypts [][]float64
	T      float64
}

// New returns a trajectory over the given waypoints, checking that the
// waypoints agree on degrees of freedom.
func New(waypts [][]float64, totalTime float64) (*Trajectory, error) {
	if len(waypts) < 2 {
		return nil, errors.Errorf("need at least 2 waypoints, got %d", len(waypts))
	}
	if totalTime <= 0 {
		return nil, errors.New("total time must be positive")
	}
	dof := len(waypts[0])
	if dof == 0 {
		return nil, errors.New("waypoints cannot be empty")
	}
	for i, wp := range waypts {
		if len(wp) != dof {
			return nil, errors.Errorf("waypoint %d has %d values, expected %d", i, len(wp), dof)
		}
	}
	return &Trajectory{Waypts: waypts, T: totalTime}, nil
}

// Linear returns a trajectory interpolating linearly from start to goal over
// numWaypts evenly spaced waypoints.
func Linear(start, goal []float64, numWaypts int, totalTime float64) (*Trajectory, error) {
	if len(start) != len(goal) {
		return nil, errors.Errorf("start has %d joints but goal has %d", len(start), len(goal))
	}
	if numWaypts < 2 {
		return nil, errors.Errorf("need at least 2 waypoints, got %d", numWaypts)
	}
	waypts := make([][]float64, numWaypts)
	for i := range waypts {
		by := float64(i) / float64(numWaypts-1)
		waypts[i] = interpolate(start, goal, by)
	}
	return New(waypts, totalTime)
}

// NumWaypts returns the number of waypoints.
func (traj *Trajectory) NumWaypts() int {
	return len(traj.Waypts)
}

// DoF returns the degrees of freedom of each waypoint.
func (traj *Trajectory) DoF() int {
	return len(traj.Waypts[0])
}

// Start returns the first waypoint.
func (traj *Trajectory) Start() []float64 {
	return traj.Waypts[0]
}

// Goal returns the final waypoint.
func (traj *Trajectory) Goal() []float64 {
	return traj.Waypts[len(traj.Waypts)-1]
}

// Interpolate returns the target configuration at time t, linearly
// interpolated between the two bracketing waypoints. Times outside [0, T]
// clamp to the first and last waypoints.
func (traj *Trajectory) Interpolate(t float64) []float64 {
	if t <= 0 {
		return cloneWaypt(traj.Start())
	}
	if t >= traj.T {
		return cloneWaypt(traj.Goal())
	}
	segTime := traj.T / float64(traj.NumWaypts()-1)
	seg := int(t / segTime)
	if seg >= traj.NumWaypts()-1 {
		seg = traj.NumWaypts() - 2
	}
	by := (t - float64(seg)*segTime) / segTime
	return interpolate(traj.Waypts[seg], traj.Waypts[seg+1], by)
}

// Upsample returns a new trajectory over the same path with numWaypts
// waypoints. The target count must not be below the current one.
func (traj *Trajectory) Upsample(numWaypts int) (*Trajectory, error) {
	if numWaypts < traj.NumWaypts() {
		return nil, errors.Errorf("cannot upsample %d waypoints to %d", traj.NumWaypts(), numWaypts)
	}
	waypts := make([][]float64, numWaypts)
	for i := range waypts {
		t := traj.T * float64(i) / float64(numWaypts-1)
		waypts[i] = traj.Interpolate(t)
	}
	return New(waypts, traj.T)
}

// Downsample returns a new trajectory keeping numWaypts evenly spaced
// waypoints of the original.
func (traj *Trajectory) Downsample(numWaypts int) (*Trajectory, error) {
	if numWaypts < 2 || numWaypts > traj.NumWaypts() {
		return nil, errors.Errorf("cannot downsample %d waypoints to %d", traj.NumWaypts(), numWaypts)
	}
	waypts := make([][]float64, numWaypts)
	for i := range waypts {
		idx := int(math.Round(float64(i) * float64(traj.NumWaypts()-1) / float64(numWaypts-1)))
		waypts[i] = cloneWaypt(traj.Waypts[idx])
	}
	return New(waypts, traj.T)
}

// ArcLength returns the total joint space distance traveled along the
// trajectory, summed over waypoint segments.
func (traj *Trajectory) ArcLength() float64 {
	var total float64
	diff := make([]float64, traj.DoF())
	for i := 1; i < traj.NumWaypts(); i++ {
		floats.SubTo(diff, traj.Waypts[i], traj.Waypts[i-1])
		total += floats.Norm(diff, 2)
	}
	return total
}

// String returns a human readable version of the trajectory, suitable for debugging.
func (traj *Trajectory) String() string {
	str := fmt.Sprintf("trajectory over %.2fs:", traj.T)
	for _, wp := range traj.Waypts {
		str += fmt.Sprintf("\n%v", wp)
	}
	return str
}

// interpolate returns the configuration the given percent between from and to.
func interpolate(from, to []float64, by float64) []float64 {
	target := make([]float64, len(from))
	floats.SubTo(target, to, from)
	floats.Scale(by, target)
	floats.Add(target, from)
	return target
}

func cloneWaypt(wp []float64) []float64 {
	out := make([]float64, len(wp))
	copy(out, wp)
	return out
}
