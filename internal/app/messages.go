// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"github.com/relabs-tech/navx/internal/orientation"
	"github.com/relabs-tech/navx/internal/registers"
	"github.com/relabs-tech/navx/internal/watch"
)

// OrientationMessage is published on TOPIC_ORIENTATION.
type OrientationMessage struct {
	Pose           orientation.Pose `json:"pose"`
	CompassHeading float32          `json:"compass_heading"`
	FusedHeading   float32          `json:"fused_heading"`
	TimestampMS    uint32           `json:"timestamp_ms"`
}

// StatusMessage is published on TOPIC_STATUS.
type StatusMessage struct {
	Status      registers.Status      `json:"status"`
	Sensor      registers.SensorState `json:"sensor_state"`
	Temperature float32               `json:"mpu_temp_c"`
	Watcher     string                `json:"watcher"`
	Stats       watch.Stats           `json:"stats"`
}

// MotionMessage is published on TOPIC_MOTION.
type MotionMessage struct {
	LinearAccel  registers.LinearAccel  `json:"linear_accel"`
	Velocity     registers.Velocity     `json:"velocity"`
	Displacement registers.Displacement `json:"displacement"`
	Altitude     registers.Altitude     `json:"altitude"`
	Pressure     registers.Pressure     `json:"pressure"`
	TimestampMS  uint32                 `json:"timestamp_ms"`
}

func orientationMessage(s registers.Snapshot) OrientationMessage {
	return OrientationMessage{
		Pose:           orientation.FromOrientation(s.Orientation),
		CompassHeading: s.Orientation.CompassHeading,
		FusedHeading:   s.FusedHeading.Degrees,
		TimestampMS:    s.SensorState.TimestampMS,
	}
}

func motionMessage(s registers.Snapshot) MotionMessage {
	return MotionMessage{
		LinearAccel:  s.LinearAccel,
		Velocity:     s.Velocity,
		Displacement: s.Displacement,
		Altitude:     s.Altitude,
		Pressure:     s.Pressure,
		TimestampMS:  s.SensorState.TimestampMS,
	}
}
