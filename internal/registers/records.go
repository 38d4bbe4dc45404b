// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package registers

import "github.com/relabs-tech/navx/internal/codec"

// Identity is the board model and firmware version.
type Identity struct {
	Model         uint8 `json:"model"`
	BoardRevision uint8 `json:"board_revision"`
	FirmwareMajor uint8 `json:"firmware_major"`
	FirmwareMinor uint8 `json:"firmware_minor"`
}

// BoardConfig holds the output rate and full-scale ranges.
type BoardConfig struct {
	UpdateRateHz uint8  `json:"update_rate_hz"`
	AccelFSRG    uint8  `json:"accel_fsr_g"`
	GyroFSRDPS   uint16 `json:"gyro_fsr_dps"`
}

// Orientation is yaw, roll and pitch in degrees plus the tilt-compensated
// compass heading.
type Orientation struct {
	Yaw            float32 `json:"yaw"`
	Roll           float32 `json:"roll"`
	Pitch          float32 `json:"pitch"`
	CompassHeading float32 `json:"compass_heading"`
}

type FusedHeading struct {
	Degrees float32 `json:"degrees"`
}

type Altitude struct {
	Meters float64 `json:"meters"`
}

// SensorState is the sensor status word and the board timestamp.
type SensorState struct {
	Status      codec.SensorStatus `json:"status"`
	TimestampMS uint32             `json:"timestamp_ms"`
}

// LinearAccel is world-frame acceleration with gravity removed, in G.
type LinearAccel struct {
	G codec.Vector[float32] `json:"g"`
}

// Quaternion components are ratios in -1 .. 1.
type Quaternion struct {
	W float32 `json:"w"`
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

type MPUTemperature struct {
	Celsius float32 `json:"celsius"`
}

// RawIMU is the uncalibrated sensor output in device units.
type RawIMU struct {
	Gyro  codec.Vector[int16] `json:"gyro"`
	Accel codec.Vector[int16] `json:"accel"`
	Mag   codec.Vector[int16] `json:"mag"`
}

type Pressure struct {
	Millibar float64 `json:"millibar"`
}

type Velocity struct {
	MetersPerSecond codec.Vector[float64] `json:"meters_per_second"`
}

type Displacement struct {
	Meters codec.Vector[float64] `json:"meters"`
}

func total[T any](f func([]byte) T) func([]byte) (T, bool) {
	return func(b []byte) (T, bool) { return f(b), true }
}

func decodeIdentity(b []byte) Identity {
	return Identity{
		Model:         b[0],
		BoardRevision: b[1],
		FirmwareMajor: b[2],
		FirmwareMinor: b[3],
	}
}

func decodeBoardConfig(b []byte) BoardConfig {
	return BoardConfig{
		UpdateRateHz: codec.U8(b[0:]),
		AccelFSRG:    codec.U8(b[1:]),
		GyroFSRDPS:   codec.U16(b[2:4]),
	}
}

func decodeOrientation(b []byte) Orientation {
	return Orientation{
		Yaw:            codec.Hundredth(b[0:2]),
		Roll:           codec.Hundredth(b[2:4]),
		Pitch:          codec.Hundredth(b[4:6]),
		CompassHeading: codec.UHundredth(b[6:8]),
	}
}

func decodeSensorState(b []byte) SensorState {
	return SensorState{
		Status:      codec.ReadSensorStatus(b[0:1]),
		TimestampMS: codec.U32(b[2:6]),
	}
}

func decodeQuaternion(b []byte) Quaternion {
	return Quaternion{
		W: codec.Ratio(b[0:2]),
		X: codec.Ratio(b[2:4]),
		Y: codec.Ratio(b[4:6]),
		Z: codec.Ratio(b[6:8]),
	}
}

func decodeRawIMU(b []byte) RawIMU {
	return RawIMU{
		Gyro:  codec.ReadVector(codec.I16, b[0:6]),
		Accel: codec.ReadVector(codec.I16, b[6:12]),
		Mag:   codec.ReadVector(codec.I16, b[12:18]),
	}
}

// Bindings of the fixed-layout records. Status and Snapshot depend on a
// StatusLayout and are built by NewSet.
var (
	IdentityBinding = Binding[Identity]{
		Name: "identity", Address: RegWhoAmI, Length: 4,
		Decode: total(decodeIdentity),
	}
	BoardConfigBinding = Binding[BoardConfig]{
		Name: "board_config", Address: RegUpdateRateHz, Length: 4,
		Decode: total(decodeBoardConfig),
	}
	SensorStateBinding = Binding[SensorState]{
		Name: "sensor_state", Address: RegSensorStatus, Length: 6,
		Decode: total(decodeSensorState),
	}
	OrientationBinding = Binding[Orientation]{
		Name: "orientation", Address: RegYaw, Length: 8,
		Decode: total(decodeOrientation),
	}
	FusedHeadingBinding = Binding[FusedHeading]{
		Name: "fused_heading", Address: RegFusedHeading, Length: 2,
		Decode: total(func(b []byte) FusedHeading { return FusedHeading{codec.UHundredth(b)} }),
	}
	AltitudeBinding = Binding[Altitude]{
		Name: "altitude", Address: RegAltitude, Length: 4,
		Decode: total(func(b []byte) Altitude { return Altitude{codec.SignedQ1616(b)} }),
	}
	LinearAccelBinding = Binding[LinearAccel]{
		Name: "linear_accel", Address: RegLinearAccX, Length: 6,
		Decode: total(func(b []byte) LinearAccel { return LinearAccel{codec.ReadVector(codec.Thousandth, b)} }),
	}
	QuaternionBinding = Binding[Quaternion]{
		Name: "quaternion", Address: RegQuatW, Length: 8,
		Decode: total(decodeQuaternion),
	}
	MPUTemperatureBinding = Binding[MPUTemperature]{
		Name: "mpu_temperature", Address: RegMPUTempC, Length: 2,
		Decode: total(func(b []byte) MPUTemperature { return MPUTemperature{codec.Hundredth(b)} }),
	}
	RawIMUBinding = Binding[RawIMU]{
		Name: "raw_imu", Address: RegGyroX, Length: 18,
		Decode: total(decodeRawIMU),
	}
	PressureBinding = Binding[Pressure]{
		Name: "pressure", Address: RegPressure, Length: 4,
		Decode: total(func(b []byte) Pressure { return Pressure{codec.Q1616(b)} }),
	}
	VelocityBinding = Binding[Velocity]{
		Name: "velocity", Address: RegVelX, Length: 12,
		Decode: total(func(b []byte) Velocity { return Velocity{codec.ReadVector(codec.SignedQ1616, b)} }),
	}
	DisplacementBinding = Binding[Displacement]{
		Name: "displacement", Address: RegDispX, Length: 12,
		Decode: total(func(b []byte) Displacement { return Displacement{codec.ReadVector(codec.SignedQ1616, b)} }),
	}
)
