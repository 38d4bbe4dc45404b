// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package registers

// Table returns metadata for the individual navX registers: names,
// descriptions, access types and bit field definitions. Multi-byte values
// are listed once at their lowest address with their full length.
func Table() []Info {
	return []Info{
		// Device Identification
		{Address: RegWhoAmI, Length: 1, Name: "WHOAMI", Description: "Board model", Access: AccessRead,
			BitFields: []BitField{
				{Bits: "7:0", Name: "MODEL", Description: "IMU model", Values: "0x32=navX-MXP"},
			}},
		{Address: RegHWRev, Length: 1, Name: "HW_REV", Description: "Board hardware revision", Access: AccessRead},
		{Address: RegFWVerMajor, Length: 1, Name: "FW_VER_MAJOR", Description: "Firmware major version", Access: AccessRead},
		{Address: RegFWVerMinor, Length: 1, Name: "FW_VER_MINOR", Description: "Firmware minor version", Access: AccessRead},

		// Configuration
		{Address: RegUpdateRateHz, Length: 1, Name: "UPDATE_RATE_HZ", Description: "Output data rate", Access: AccessReadWrite,
			BitFields: []BitField{
				{Bits: "7:0", Name: "RATE", Description: "Update rate in Hz", Values: "4-200"},
			}},
		{Address: RegAccelFSRG, Length: 1, Name: "ACCEL_FSR_G", Description: "Accelerometer full-scale range", Access: AccessRead,
			BitFields: []BitField{
				{Bits: "7:0", Name: "FSR", Description: "Range in G", Values: "2, 4, 8, 16"},
			}},
		{Address: RegGyroFSRDPS, Length: 2, Name: "GYRO_FSR_DPS", Description: "Gyroscope full-scale range", Access: AccessRead,
			BitFields: []BitField{
				{Bits: "15:0", Name: "FSR", Description: "Range in degrees per second", Values: "250, 500, 1000, 2000"},
			}},

		// Status
		{Address: RegOpStatus, Length: 1, Name: "OP_STATUS", Description: "Operation status", Access: AccessRead,
			BitFields: []BitField{
				{Bits: "7:0", Name: "OP_STATUS", Description: "Operating state", Values: "0=Initializing, 1=Self test, 2=Error, 3=Calibrating, 4=Normal"},
			}},
		{Address: RegCalStatus, Length: 1, Name: "CAL_STATUS", Description: "Calibration status", Access: AccessRead,
			BitFields: []BitField{
				{Bits: "1:0", Name: "IMU_CAL", Description: "IMU calibration state", Values: "0=In progress, 1=Accumulate, 2=Complete"},
				{Bits: "2", Name: "MAG_CAL_COMPLETE", Description: "Magnetometer calibrated", Values: "0=No, 1=Yes"},
				{Bits: "3", Name: "BARO_CAL_COMPLETE", Description: "Barometer calibrated", Values: "0=No, 1=Yes"},
			}},
		{Address: RegSelfTestStatus, Length: 1, Name: "SELFTEST_STATUS", Description: "Self-test results", Access: AccessRead,
			BitFields: []BitField{
				{Bits: "0", Name: "GYRO_PASSED", Description: "Gyroscope self-test", Values: "0=Failed, 1=Passed"},
				{Bits: "1", Name: "ACCEL_PASSED", Description: "Accelerometer self-test", Values: "0=Failed, 1=Passed"},
				{Bits: "2", Name: "MAG_PASSED", Description: "Magnetometer self-test", Values: "0=Failed, 1=Passed"},
				{Bits: "3", Name: "BARO_PASSED", Description: "Barometer self-test", Values: "0=Failed, 1=Passed"},
				{Bits: "7", Name: "COMPLETE", Description: "Self-test finished", Values: "0=Running, 1=Complete"},
			}},
		{Address: RegCapability, Length: 2, Name: "CAPABILITY_FLAGS", Description: "Board capabilities", Access: AccessRead,
			BitFields: []BitField{
				{Bits: "2", Name: "OMNIMOUNT", Description: "Omnimount supported", Values: "0=No, 1=Yes"},
				{Bits: "5:3", Name: "OMNIMOUNT_CONFIG", Description: "Mounting axis", Values: "0=Default, 1=X up, 2=X down, 3=Y up, 4=Y down, 5=Z up, 6=Z down"},
				{Bits: "6", Name: "VEL_AND_DISP", Description: "Velocity and displacement integration", Values: "0=No, 1=Yes"},
				{Bits: "7", Name: "YAW_RESET", Description: "Yaw reset supported", Values: "0=No, 1=Yes"},
			}},
		{Address: RegSensorStatus, Length: 2, Name: "SENSOR_STATUS", Description: "Sensor fusion status", Access: AccessRead,
			BitFields: []BitField{
				{Bits: "0", Name: "MOVING", Description: "Board is moving", Values: "0=Still, 1=Moving"},
				{Bits: "1", Name: "YAW_STABLE", Description: "Yaw has settled", Values: "0=No, 1=Yes"},
				{Bits: "2", Name: "MAG_DISTURBANCE", Description: "Magnetic disturbance detected", Values: "0=No, 1=Yes"},
				{Bits: "3", Name: "ALTITUDE_VALID", Description: "Altitude is valid", Values: "0=No, 1=Yes"},
				{Bits: "4", Name: "SEALEVEL_PRESS_SET", Description: "Sea level pressure configured", Values: "0=No, 1=Yes"},
				{Bits: "5", Name: "FUSED_HEADING_VALID", Description: "Fused heading is valid", Values: "0=No, 1=Yes"},
			}},
		{Address: RegTimestamp, Length: 4, Name: "TIMESTAMP", Description: "Sensor timestamp in milliseconds", Access: AccessRead},

		// Processed Data
		{Address: RegYaw, Length: 2, Name: "YAW", Description: "Yaw, -180.00 to 180.00 degrees", Access: AccessRead},
		{Address: RegRoll, Length: 2, Name: "ROLL", Description: "Roll, -180.00 to 180.00 degrees", Access: AccessRead},
		{Address: RegPitch, Length: 2, Name: "PITCH", Description: "Pitch, -180.00 to 180.00 degrees", Access: AccessRead},
		{Address: RegHeading, Length: 2, Name: "HEADING", Description: "Compass heading, 0.00 to 360.00 degrees", Access: AccessRead},
		{Address: RegFusedHeading, Length: 2, Name: "FUSED_HEADING", Description: "Fused 9-axis heading, 0.00 to 360.00 degrees", Access: AccessRead},
		{Address: RegAltitude, Length: 4, Name: "ALTITUDE", Description: "Altitude in meters, 16:16", Access: AccessRead},
		{Address: RegLinearAccX, Length: 2, Name: "LINEAR_ACC_X", Description: "World X linear acceleration, G", Access: AccessRead},
		{Address: RegLinearAccY, Length: 2, Name: "LINEAR_ACC_Y", Description: "World Y linear acceleration, G", Access: AccessRead},
		{Address: RegLinearAccZ, Length: 2, Name: "LINEAR_ACC_Z", Description: "World Z linear acceleration, G", Access: AccessRead},
		{Address: RegQuatW, Length: 2, Name: "QUAT_W", Description: "Quaternion W, -1 to 1", Access: AccessRead},
		{Address: RegQuatX, Length: 2, Name: "QUAT_X", Description: "Quaternion X, -1 to 1", Access: AccessRead},
		{Address: RegQuatY, Length: 2, Name: "QUAT_Y", Description: "Quaternion Y, -1 to 1", Access: AccessRead},
		{Address: RegQuatZ, Length: 2, Name: "QUAT_Z", Description: "Quaternion Z, -1 to 1", Access: AccessRead},

		// Raw Data
		{Address: RegMPUTempC, Length: 2, Name: "MPU_TEMP_C", Description: "Motion processor temperature, Celsius", Access: AccessRead},
		{Address: RegGyroX, Length: 2, Name: "GYRO_X", Description: "Raw gyroscope X, device units", Access: AccessRead},
		{Address: RegGyroY, Length: 2, Name: "GYRO_Y", Description: "Raw gyroscope Y, device units", Access: AccessRead},
		{Address: RegGyroZ, Length: 2, Name: "GYRO_Z", Description: "Raw gyroscope Z, device units", Access: AccessRead},
		{Address: RegAccX, Length: 2, Name: "ACC_X", Description: "Raw accelerometer X, device units", Access: AccessRead},
		{Address: RegAccY, Length: 2, Name: "ACC_Y", Description: "Raw accelerometer Y, device units", Access: AccessRead},
		{Address: RegAccZ, Length: 2, Name: "ACC_Z", Description: "Raw accelerometer Z, device units", Access: AccessRead},
		{Address: RegMagX, Length: 2, Name: "MAG_X", Description: "Magnetometer X, 0.15 uT per unit", Access: AccessRead},
		{Address: RegMagY, Length: 2, Name: "MAG_Y", Description: "Magnetometer Y, 0.15 uT per unit", Access: AccessRead},
		{Address: RegMagZ, Length: 2, Name: "MAG_Z", Description: "Magnetometer Z, 0.15 uT per unit", Access: AccessRead},
		{Address: RegPressure, Length: 4, Name: "PRESSURE", Description: "Calibrated pressure in millibar, 16:16", Access: AccessRead},
		{Address: RegPressTemp, Length: 2, Name: "PRESSURE_TEMP_C", Description: "Barometer temperature, Celsius", Access: AccessRead},

		// Calibration
		{Address: RegQuatOffsetW, Length: 8, Name: "QUAT_OFFSET", Description: "Quaternion offset W, X, Y, Z", Access: AccessRead},

		// Integrated Data
		{Address: RegIntegrationCtl, Length: 1, Name: "INTEGRATION_CTL", Description: "Integration control", Access: AccessWrite,
			BitFields: []BitField{
				{Bits: "0", Name: "RESET_VEL_X", Description: "Reset X velocity", Values: "1=Reset"},
				{Bits: "1", Name: "RESET_VEL_Y", Description: "Reset Y velocity", Values: "1=Reset"},
				{Bits: "2", Name: "RESET_VEL_Z", Description: "Reset Z velocity", Values: "1=Reset"},
				{Bits: "3", Name: "RESET_DISP_X", Description: "Reset X displacement", Values: "1=Reset"},
				{Bits: "4", Name: "RESET_DISP_Y", Description: "Reset Y displacement", Values: "1=Reset"},
				{Bits: "5", Name: "RESET_DISP_Z", Description: "Reset Z displacement", Values: "1=Reset"},
				{Bits: "7", Name: "RESET_YAW", Description: "Zero the yaw angle", Values: "1=Reset"},
			}},
		{Address: RegVelX, Length: 4, Name: "VEL_X", Description: "X velocity, m/s, 16:16", Access: AccessRead},
		{Address: RegVelY, Length: 4, Name: "VEL_Y", Description: "Y velocity, m/s, 16:16", Access: AccessRead},
		{Address: RegVelZ, Length: 4, Name: "VEL_Z", Description: "Z velocity, m/s, 16:16", Access: AccessRead},
		{Address: RegDispX, Length: 4, Name: "DISP_X", Description: "X displacement, m, 16:16", Access: AccessRead},
		{Address: RegDispY, Length: 4, Name: "DISP_Y", Description: "Y displacement, m, 16:16", Access: AccessRead},
		{Address: RegDispZ, Length: 4, Name: "DISP_Z", Description: "Z displacement, m, 16:16", Access: AccessRead},
	}
}

// Writable reports whether the register at address accepts writes.
func Writable(address byte) bool {
	for _, info := range Table() {
		if info.Address == address {
			return info.Access == AccessWrite || info.Access == AccessReadWrite
		}
	}
	return false
}
