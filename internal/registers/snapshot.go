// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package registers

// Snapshot is every record decoded from one burst read of the register
// file, so a single poller can serve the whole board.
type Snapshot struct {
	Identity       Identity       `json:"identity"`
	BoardConfig    BoardConfig    `json:"board_config"`
	Status         Status         `json:"status"`
	SensorState    SensorState    `json:"sensor_state"`
	Orientation    Orientation    `json:"orientation"`
	FusedHeading   FusedHeading   `json:"fused_heading"`
	Altitude       Altitude       `json:"altitude"`
	LinearAccel    LinearAccel    `json:"linear_accel"`
	Quaternion     Quaternion     `json:"quaternion"`
	MPUTemperature MPUTemperature `json:"mpu_temperature"`
	RawIMU         RawIMU         `json:"raw_imu"`
	Pressure       Pressure       `json:"pressure"`
	Velocity       Velocity       `json:"velocity"`
	Displacement   Displacement   `json:"displacement"`
}

// sub decodes bd from the part of a burst payload that starts at base.
func sub[T any](b []byte, base byte, bd Binding[T]) (T, bool) {
	var zero T
	start := int(bd.Address) - int(base)
	end := start + int(bd.Length)
	if start < 0 || end > len(b) {
		return zero, false
	}
	return bd.Decode(b[start:end])
}

func snapshotBinding(s *Set) Binding[Snapshot] {
	set := *s
	return Binding[Snapshot]{
		Name:    "snapshot",
		Address: RegWhoAmI,
		Length:  SnapshotLength,
		Decode: func(b []byte) (Snapshot, bool) {
			var (
				snap Snapshot
				good bool
				ok   = true
				base = byte(RegWhoAmI)
			)
			snap.Identity, good = sub(b, base, set.Identity)
			ok = ok && good
			snap.BoardConfig, good = sub(b, base, set.BoardConfig)
			ok = ok && good
			snap.Status, good = sub(b, base, set.Status)
			ok = ok && good
			snap.SensorState, good = sub(b, base, set.SensorState)
			ok = ok && good
			snap.Orientation, good = sub(b, base, set.Orientation)
			ok = ok && good
			snap.FusedHeading, good = sub(b, base, set.FusedHeading)
			ok = ok && good
			snap.Altitude, good = sub(b, base, set.Altitude)
			ok = ok && good
			snap.LinearAccel, good = sub(b, base, set.LinearAccel)
			ok = ok && good
			snap.Quaternion, good = sub(b, base, set.Quaternion)
			ok = ok && good
			snap.MPUTemperature, good = sub(b, base, set.MPUTemperature)
			ok = ok && good
			snap.RawIMU, good = sub(b, base, set.RawIMU)
			ok = ok && good
			snap.Pressure, good = sub(b, base, set.Pressure)
			ok = ok && good
			snap.Velocity, good = sub(b, base, set.Velocity)
			ok = ok && good
			snap.Displacement, good = sub(b, base, set.Displacement)
			ok = ok && good
			if !ok {
				return Snapshot{}, false
			}
			return snap, true
		},
	}
}
