// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package registers

import (
	"fmt"

	"github.com/relabs-tech/navx/internal/codec"
)

// StatusLength is the span read for the composite status record, from
// RegOpStatus through the low byte of RegSensorStatus.
const StatusLength = RegSensorStatus - RegOpStatus + 1

// Status is the composite board status.
type Status struct {
	Operation   codec.OperationStatus   `json:"operation"`
	Calibration codec.CalibrationStatus `json:"calibration"`
	SelfTest    codec.SelfTestStatus    `json:"self_test"`
	Capability  codec.Capability        `json:"capability"`
	Sensor      codec.SensorStatus      `json:"sensor"`
}

// StatusLayout gives the byte offset of each status field inside the
// status payload. Firmware revisions disagree on where the sensor status
// byte sits, so the layout is data and comes from the register map file.
type StatusLayout struct {
	Operation   int `yaml:"operation"`
	Calibration int `yaml:"calibration"`
	SelfTest    int `yaml:"self_test"`
	Capability  int `yaml:"capability"`
	Sensor      int `yaml:"sensor"`
}

// DefaultStatusLayout packs the five fields into the first five bytes.
// Boards whose sensor status lives at RegSensorStatus need Sensor: 8.
var DefaultStatusLayout = StatusLayout{
	Operation:   0,
	Calibration: 1,
	SelfTest:    2,
	Capability:  3,
	Sensor:      4,
}

func (l StatusLayout) offsets() [5]int {
	return [5]int{l.Operation, l.Calibration, l.SelfTest, l.Capability, l.Sensor}
}

// Validate reports offsets that fall outside a payload of length bytes.
func (l StatusLayout) Validate(length int) error {
	for _, off := range l.offsets() {
		if off < 0 || off >= length {
			return fmt.Errorf("status layout offset %d outside %d byte payload: %w", off, length, ErrSpan)
		}
	}
	return nil
}

// Decode reads a status payload. It fails when any offset of the layout
// is outside b.
func (l StatusLayout) Decode(b []byte) (Status, bool) {
	if l.Validate(len(b)) != nil {
		return Status{}, false
	}
	return Status{
		Operation:   codec.ReadOperationStatus(b[l.Operation:]),
		Calibration: codec.ReadCalibrationStatus(b[l.Calibration:]),
		SelfTest:    codec.ReadSelfTestStatus(b[l.SelfTest:]),
		Capability:  codec.ReadCapability(b[l.Capability:]),
		Sensor:      codec.ReadSensorStatus(b[l.Sensor:]),
	}, true
}

// StatusBinding binds the status record with the given layout.
func StatusBinding(layout StatusLayout) Binding[Status] {
	return Binding[Status]{
		Name:    "status",
		Address: RegOpStatus,
		Length:  StatusLength,
		Decode:  layout.Decode,
	}
}
