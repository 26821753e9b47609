// Package model loads the robot description referenced by the setup section's
// model_filename so joint counts and limits can be checked against the task.
package model

import (
	"encoding/xml"
	"math"
	"os"

	"github.com/pkg/errors"

	"github.com/armlab/pathfollow/utils"
)

// ErrNoModelInformation is returned when an empty model file is parsed.
var ErrNoModelInformation = errors.New("no model information found in file")

// urdfConfig mirrors the URDF XML fields this pipeline needs: the robot name
// and the joint list with types and limits.
type urdfConfig struct {
	XMLName xml.Name    `xml:"robot"`
	Name    string      `xml:"name,attr"`
	Joints  []urdfJoint `xml:"joint"`
}

type urdfJoint struct {
	XMLName xml.Name   `xml:"joint"`
	Name    string     `xml:"name,attr"`
	Type    string     `xml:"type,attr"`
	Limit   *urdfLimit `xml:"limit,omitempty"`
}

type urdfLimit struct {
	XMLName xml.Name `xml:"limit"`
	Lower   float64  `xml:"lower,attr"` // revolute limits are in radians
	Upper   float64  `xml:"upper,attr"`
}

// A Joint is a movable joint of the robot model.
type Joint struct {
	Name  string
	Type  string
	Limit Limit
}

// A Limit is a joint's allowed range in radians. Continuous joints carry
// infinite limits.
type Limit struct {
	Lower float64
	Upper float64
}

// A Model is the subset of a robot description the follower needs.
type Model struct {
	Name   string
	Joints []Joint
}

// ParseURDFFile reads and parses the given URDF file.
func ParseURDFFile(filename string) (*Model, error) {
	//nolint:gosec
	xmlData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read URDF file")
	}
	return ParseURDF(xmlData)
}

// ParseURDF parses raw URDF XML data into a Model, keeping only the movable
// joints.
func ParseURDF(xmlData []byte) (*Model, error) {
	if len(xmlData) == 0 {
		return nil, ErrNoModelInformation
	}

	urdf := &urdfConfig{}
	if err := xml.Unmarshal(xmlData, urdf); err != nil {
		return nil, errors.Wrap(err, "failed to parse URDF data")
	}

	model := &Model{Name: urdf.Name}
	for _, joint := range urdf.Joints {
		switch joint.Type {
		case "revolute", "prismatic":
			if joint.Limit == nil {
				return nil, errors.Errorf("joint %q is %s but has no limit element", joint.Name, joint.Type)
			}
			model.Joints = append(model.Joints, Joint{
				Name:  joint.Name,
				Type:  joint.Type,
				Limit: Limit{Lower: joint.Limit.Lower, Upper: joint.Limit.Upper},
			})
		case "continuous":
			model.Joints = append(model.Joints, Joint{
				Name:  joint.Name,
				Type:  joint.Type,
				Limit: Limit{Lower: math.Inf(-1), Upper: math.Inf(1)},
			})
		case "fixed":
		default:
			return nil, errors.Errorf("joint %q has unsupported type %q", joint.Name, joint.Type)
		}
	}
	return model, nil
}

// DoF returns the degrees of freedom of the model.
func (m *Model) DoF() int {
	return len(m.Joints)
}

// VerifyDoF errors if the model's degrees of freedom differ from the expected
// joint count of the configured task.
func (m *Model) VerifyDoF(expected int) error {
	if m.DoF() != expected {
		return errors.Errorf("model %q has %d degrees of freedom, task expects %d", m.Name, m.DoF(), expected)
	}
	return nil
}

// ClampToLimits limits a configuration, given in degrees, to the model's
// joint ranges in place.
func (m *Model) ClampToLimits(degrees []float64) {
	for i, joint := range m.Joints {
		if i >= len(degrees) {
			return
		}
		lower := utils.RadToDeg(joint.Limit.Lower)
		upper := utils.RadToDeg(joint.Limit.Upper)
		degrees[i] = utils.Clamp(degrees[i], lower, upper)
	}
}
