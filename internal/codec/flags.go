// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package codec

import "strings"

// SensorStatus is the NAVX_SENSOR_STATUS flag set.
type SensorStatus uint8

const (
	SensorMoving            SensorStatus = 0x01
	SensorYawStable         SensorStatus = 0x02
	SensorMagDisturbance    SensorStatus = 0x04
	SensorAltitudeValid     SensorStatus = 0x08
	SensorSealevelPressSet  SensorStatus = 0x10
	SensorFusedHeadingValid SensorStatus = 0x20

	sensorStatusMask = 0x3F
)

// CalibrationStatus is the NAVX_CAL_STATUS flag set. The low two bits
// hold the IMU calibration state rather than independent flags.
type CalibrationStatus uint8

const (
	CalIMUInProgress CalibrationStatus = 0x00
	CalIMUAccumulate CalibrationStatus = 0x01
	CalIMUComplete   CalibrationStatus = 0x02
	CalMagComplete   CalibrationStatus = 0x04
	CalBaroComplete  CalibrationStatus = 0x08

	calIMUStateMask       = 0x03
	calibrationStatusMask = 0x0F
)

// SelfTestStatus is the NAVX_SELFTEST_STATUS flag set.
type SelfTestStatus uint8

const (
	SelfTestGyroPassed  SelfTestStatus = 0x01
	SelfTestAccelPassed SelfTestStatus = 0x02
	SelfTestMagPassed   SelfTestStatus = 0x04
	SelfTestBaroPassed  SelfTestStatus = 0x08
	SelfTestComplete    SelfTestStatus = 0x80

	selfTestStatusMask = 0x8F
)

// Capability is the low byte of NAVX_REG_CAPABILITY_FLAGS. There are two
// velocity/displacement bits; both are reported by different board models.
type Capability uint8

const (
	CapOmniMount           Capability = 0x04
	CapOmniMountConfigMask Capability = 0x38
	CapVelAndDisp          Capability = 0x40
	CapVelAndDisp2         Capability = 0x80

	capabilityMask = 0xFC
)

// ControlReset is written to the integration control register.
type ControlReset uint8

const (
	ResetVelX  ControlReset = 0x01
	ResetVelY  ControlReset = 0x02
	ResetVelZ  ControlReset = 0x04
	ResetDispX ControlReset = 0x08
	ResetDispY ControlReset = 0x10
	ResetDispZ ControlReset = 0x20
	ResetYaw   ControlReset = 0x80

	ResetVel  = ResetVelX | ResetVelY | ResetVelZ
	ResetDisp = ResetDispX | ResetDispY | ResetDispZ
	ResetPose = ResetVel | ResetDisp
	ResetAll  = ResetPose | ResetYaw

	controlResetMask = 0xBF
)

// Bit-flag decoders drop undefined bits instead of rejecting them.

func ReadSensorStatus(b []byte) SensorStatus {
	return SensorStatus(b[0]) & sensorStatusMask
}

func ReadCalibrationStatus(b []byte) CalibrationStatus {
	return CalibrationStatus(b[0]) & calibrationStatusMask
}

func ReadSelfTestStatus(b []byte) SelfTestStatus {
	return SelfTestStatus(b[0]) & selfTestStatusMask
}

func ReadCapability(b []byte) Capability {
	return Capability(b[0]) & capabilityMask
}

func ReadControlReset(b []byte) ControlReset {
	return ControlReset(b[0]) & controlResetMask
}

func (s SensorStatus) Has(f SensorStatus) bool { return s&f == f }

func (s CalibrationStatus) Has(f CalibrationStatus) bool { return s&f == f }

func (s SelfTestStatus) Has(f SelfTestStatus) bool { return s&f == f }

func (c Capability) Has(f Capability) bool { return c&f == f }

func (c ControlReset) Has(f ControlReset) bool { return c&f == f }

// IMUState returns the two-bit IMU calibration state
// (CalIMUInProgress, CalIMUAccumulate or CalIMUComplete).
func (s CalibrationStatus) IMUState() CalibrationStatus {
	return s & calIMUStateMask
}

// OmniMount returns the mount configuration encoded in the capability
// flags.
func (c Capability) OmniMount() OmniMountConfig {
	return ClampOmniMountConfig(uint8(c&CapOmniMountConfigMask) >> 3)
}

type flagName[T ~uint8] struct {
	bit  T
	name string
}

func flagString[T ~uint8](v T, names []flagName[T]) string {
	var parts []string
	for _, n := range names {
		if n.bit != 0 && v&n.bit == n.bit {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

func (s SensorStatus) String() string {
	return flagString(s, []flagName[SensorStatus]{
		{SensorMoving, "moving"},
		{SensorYawStable, "yaw_stable"},
		{SensorMagDisturbance, "mag_disturbance"},
		{SensorAltitudeValid, "altitude_valid"},
		{SensorSealevelPressSet, "sealevel_press_set"},
		{SensorFusedHeadingValid, "fused_heading_valid"},
	})
}

func (s CalibrationStatus) String() string {
	state := "imu_in_progress"
	switch s.IMUState() {
	case CalIMUAccumulate:
		state = "imu_accumulate"
	case CalIMUComplete:
		state = "imu_complete"
	}
	rest := flagString(s, []flagName[CalibrationStatus]{
		{CalMagComplete, "mag_complete"},
		{CalBaroComplete, "baro_complete"},
	})
	if rest == "none" {
		return state
	}
	return state + "|" + rest
}

func (s SelfTestStatus) String() string {
	return flagString(s, []flagName[SelfTestStatus]{
		{SelfTestGyroPassed, "gyro_passed"},
		{SelfTestAccelPassed, "accel_passed"},
		{SelfTestMagPassed, "mag_passed"},
		{SelfTestBaroPassed, "baro_passed"},
		{SelfTestComplete, "complete"},
	})
}

func (c Capability) String() string {
	return flagString(c, []flagName[Capability]{
		{CapOmniMount, "omnimount"},
		{CapVelAndDisp, "vel_and_disp"},
		{CapVelAndDisp2, "vel_and_disp2"},
	})
}

func (c ControlReset) String() string {
	return flagString(c, []flagName[ControlReset]{
		{ResetVelX, "vel_x"},
		{ResetVelY, "vel_y"},
		{ResetVelZ, "vel_z"},
		{ResetDispX, "disp_x"},
		{ResetDispY, "disp_y"},
		{ResetDispZ, "disp_z"},
		{ResetYaw, "yaw"},
	})
}
