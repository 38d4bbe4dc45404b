// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"

	"github.com/relabs-tech/navx/internal/registers"
)

// Pose is the canonical representation of orientation for the app, in
// degrees. Yaw is -180 .. 180 like the board reports it.
type Pose struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// Source is anything that can provide poses over time: the board, the
// mock motion generator, a replay.
type Source interface {
	Next() (Pose, error)
}

const (
	degToRad = math.Pi / 180.0
	radToDeg = 180.0 / math.Pi
)

// ComputePoseFromAccel computes roll and pitch from accelerometer data only.
// Yaw is set to 0.
//
// Uses simple tilt formulas:
//
//	roll  = atan2(ay, az)
//	pitch = atan2(-ax, sqrt(ay² + az²))
func ComputePoseFromAccel(ax, ay, az float64) Pose {
	return Pose{
		Roll:  math.Atan2(ay, az) * radToDeg,
		Pitch: math.Atan2(-ax, math.Sqrt(ay*ay+az*az)) * radToDeg,
	}
}

// FromOrientation converts the board's processed yaw/roll/pitch record.
func FromOrientation(o registers.Orientation) Pose {
	return Pose{Roll: float64(o.Roll), Pitch: float64(o.Pitch), Yaw: float64(o.Yaw)}
}

// FromQuaternion converts a unit quaternion to Z-Y-X Euler angles.
func FromQuaternion(q registers.Quaternion) Pose {
	w, x, y, z := float64(q.W), float64(q.X), float64(q.Y), float64(q.Z)

	roll := math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y))
	sinp := 2 * (w*y - z*x)
	sinp = math.Max(-1, math.Min(1, sinp))
	pitch := math.Asin(sinp)
	yaw := math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z))

	return Pose{Roll: roll * radToDeg, Pitch: pitch * radToDeg, Yaw: yaw * radToDeg}
}

// Quaternion converts p back to a unit quaternion.
func (p Pose) Quaternion() registers.Quaternion {
	cr, sr := math.Cos(p.Roll*degToRad/2), math.Sin(p.Roll*degToRad/2)
	cp, sp := math.Cos(p.Pitch*degToRad/2), math.Sin(p.Pitch*degToRad/2)
	cy, sy := math.Cos(p.Yaw*degToRad/2), math.Sin(p.Yaw*degToRad/2)

	return registers.Quaternion{
		W: float32(cr*cp*cy + sr*sp*sy),
		X: float32(sr*cp*cy - cr*sp*sy),
		Y: float32(cr*sp*cy + sr*cp*sy),
		Z: float32(cr*cp*sy - sr*sp*cy),
	}
}

// Heading is yaw mapped to a 0 .. 360 compass heading.
func (p Pose) Heading() float64 {
	h := math.Mod(p.Yaw, 360)
	if h < 0 {
		h += 360
	}
	return h
}

// WrapDegrees maps any angle to -180 .. 180.
func WrapDegrees(a float64) float64 {
	a = math.Mod(a+180, 360)
	if a < 0 {
		a += 360
	}
	return a - 180
}
