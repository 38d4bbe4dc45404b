// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package codec

// OperationStatus is the NAVX_OP_STATUS register value.
type OperationStatus uint8

const (
	OpInitializing OperationStatus = iota
	OpSelfTest
	OpError
	OpCalibrating
	OpNormal
)

// OmniMountConfig is the board orientation selected by OmniMount.
type OmniMountConfig uint8

const (
	MountDefault OmniMountConfig = iota
	MountXUp
	MountXDown
	MountYUp
	MountYDown
	MountZUp
	MountZDown
)

// ClampOperationStatus maps any raw byte onto a valid status; values past
// OpNormal read as OpNormal.
func ClampOperationStatus(v uint8) OperationStatus {
	if v > uint8(OpNormal) {
		return OpNormal
	}
	return OperationStatus(v)
}

// ClampOmniMountConfig maps any raw byte onto a valid mount; values past
// MountZDown read as MountZDown.
func ClampOmniMountConfig(v uint8) OmniMountConfig {
	if v > uint8(MountZDown) {
		return MountZDown
	}
	return OmniMountConfig(v)
}

func ReadOperationStatus(b []byte) OperationStatus {
	return ClampOperationStatus(b[0])
}

func ReadOmniMountConfig(b []byte) OmniMountConfig {
	return ClampOmniMountConfig(b[0])
}

func (s OperationStatus) String() string {
	switch s {
	case OpInitializing:
		return "initializing"
	case OpSelfTest:
		return "self_test"
	case OpError:
		return "error"
	case OpCalibrating:
		return "calibrating"
	default:
		return "normal"
	}
}

func (m OmniMountConfig) String() string {
	switch m {
	case MountDefault:
		return "default"
	case MountXUp:
		return "x_up"
	case MountXDown:
		return "x_down"
	case MountYUp:
		return "y_up"
	case MountYDown:
		return "y_down"
	case MountZUp:
		return "z_up"
	default:
		return "z_down"
	}
}
