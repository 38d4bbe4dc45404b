// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package registers

// navX-MXP register addresses. Multi-byte values are little-endian and
// named by their lowest address.
const (
	// Device identification
	RegWhoAmI       = 0x00
	RegHWRev        = 0x01
	RegFWVerMajor   = 0x02
	RegFWVerMinor   = 0x03
	RegUpdateRateHz = 0x04 // RW, 4..200 Hz
	RegAccelFSRG    = 0x05
	RegGyroFSRDPS   = 0x06 // 16 bits

	// Status and control
	RegOpStatus       = 0x08
	RegCalStatus      = 0x09
	RegSelfTestStatus = 0x0A
	RegCapability     = 0x0B // 16 bits
	RegSensorStatus   = 0x10 // 16 bits
	RegTimestamp      = 0x12 // 32 bits, milliseconds

	// Processed data
	RegYaw          = 0x16 // signed hundredths, degrees
	RegRoll         = 0x18
	RegPitch        = 0x1A
	RegHeading      = 0x1C // unsigned hundredths, degrees
	RegFusedHeading = 0x1E
	RegAltitude     = 0x20 // 16:16, meters
	RegLinearAccX   = 0x24 // signed thousandths, G
	RegLinearAccY   = 0x26
	RegLinearAccZ   = 0x28
	RegQuatW        = 0x2A // signed short ratio
	RegQuatX        = 0x2C
	RegQuatY        = 0x2E
	RegQuatZ        = 0x30

	// Raw data
	RegMPUTempC  = 0x32 // signed hundredths, Celsius
	RegGyroX     = 0x34 // device units
	RegGyroY     = 0x36
	RegGyroZ     = 0x38
	RegAccX      = 0x3A
	RegAccY      = 0x3C
	RegAccZ      = 0x3E
	RegMagX      = 0x40 // 1 unit = 0.15 uT
	RegMagY      = 0x42
	RegMagZ      = 0x44
	RegPressure  = 0x48 // 16:16, millibar
	RegPressTemp = 0x4C // signed hundredths, Celsius

	// Calibration
	RegQuatOffsetW = 0x4E // signed short ratio
	RegQuatOffsetZ = 0x54

	// Integrated data
	RegIntegrationCtl = 0x56 // write only, codec.ControlReset
	RegVelX           = 0x58 // 16:16, m/s
	RegVelY           = 0x5C
	RegVelZ           = 0x60
	RegDispX          = 0x64 // 16:16, m
	RegDispY          = 0x68
	RegDispZ          = 0x6C

	RegLast = 0x6F
)

// RegisterCount is the size of the addressable register file.
const RegisterCount = 0x80

// SnapshotLength covers every register from RegWhoAmI to RegLast.
const SnapshotLength = RegLast + 1
