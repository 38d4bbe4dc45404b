// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package registers

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/relabs-tech/navx/internal/codec"
	"github.com/relabs-tech/navx/internal/navxerr"
)

// registerFile returns a full register dump with a known value in every
// record.
func registerFile() []byte {
	b := make([]byte, SnapshotLength)
	copy(b[RegWhoAmI:], []byte{0x32, 0x05, 0x03, 0x1F})
	b[RegUpdateRateHz] = 50
	b[RegAccelFSRG] = 2
	binary.LittleEndian.PutUint16(b[RegGyroFSRDPS:], 2000)
	b[RegOpStatus] = byte(codec.OpNormal)
	b[RegCalStatus] = byte(codec.CalIMUComplete | codec.CalMagComplete)
	b[RegSelfTestStatus] = byte(codec.SelfTestComplete | codec.SelfTestGyroPassed)
	b[RegCapability] = byte(codec.CapOmniMount | codec.CapVelAndDisp)
	b[RegSensorStatus] = byte(codec.SensorYawStable | codec.SensorFusedHeadingValid)
	binary.LittleEndian.PutUint32(b[RegTimestamp:], 123456)
	putI16(b, RegYaw, -4500)
	putI16(b, RegRoll, 1000)
	putI16(b, RegPitch, -250)
	binary.LittleEndian.PutUint16(b[RegHeading:], 27000)
	binary.LittleEndian.PutUint16(b[RegFusedHeading:], 31550)
	putI32(b, RegAltitude, 12<<16|0x8000)
	putI16(b, RegLinearAccX, 1000)
	putI16(b, RegLinearAccY, -500)
	putI16(b, RegLinearAccZ, 0)
	putI16(b, RegQuatW, 16384)
	putI16(b, RegQuatX, 0)
	putI16(b, RegQuatY, -8192)
	putI16(b, RegQuatZ, 4096)
	putI16(b, RegMPUTempC, 3125)
	for i, v := range []int16{1, -2, 3, 100, -200, 16384, -7, 8, -9} {
		putI16(b, RegGyroX+2*i, v)
	}
	putI32(b, RegPressure, 1013<<16|0x4000)
	putI32(b, RegVelX, 1<<16)
	putI32(b, RegVelY, -(2 << 16))
	putI32(b, RegVelZ, 0x8000)
	putI32(b, RegDispX, 3<<16)
	putI32(b, RegDispY, 0)
	putI32(b, RegDispZ, -(1<<16 | 0x8000))
	return b
}

func putI16(b []byte, addr int, v int16) {
	binary.LittleEndian.PutUint16(b[addr:], uint16(v))
}

func putI32(b []byte, addr int, v int32) {
	binary.LittleEndian.PutUint32(b[addr:], uint32(v))
}

func span(b []byte, addr, n byte) []byte { return b[addr : int(addr)+int(n)] }

func TestRequestsMatchBindings(t *testing.T) {
	set := DefaultSet()
	for _, info := range set.Registry().All() {
		if info.Access != AccessRead {
			continue
		}
		p, err := Binding[struct{}]{Address: info.Address, Length: info.Length}.Request()
		if err != nil {
			t.Fatalf("%s: %v", info.Name, err)
		}
		if p.Address() != info.Address || p.Value() != info.Length || p.IsWrite() || !p.Valid() {
			t.Fatalf("%s: packet %v", info.Name, p)
		}
	}
	p, _ := set.Quaternion.Request()
	if p.Address() != 0x2A || p.Value() != 8 {
		t.Fatalf("quaternion request %v", p)
	}
}

func TestReadRejectsWrongLength(t *testing.T) {
	_, err := IdentityBinding.Read([]byte{1, 2, 3})
	if !navxerr.IsInvalid(err) {
		t.Fatalf("short payload err = %v", err)
	}
}

func TestRecordDecoders(t *testing.T) {
	b := registerFile()
	set := DefaultSet()

	id, err := set.Identity.Read(span(b, set.Identity.Address, set.Identity.Length))
	if err != nil || id != (Identity{Model: 0x32, BoardRevision: 5, FirmwareMajor: 3, FirmwareMinor: 0x1F}) {
		t.Fatalf("identity = %+v, %v", id, err)
	}
	cfg, _ := set.BoardConfig.Read(span(b, RegUpdateRateHz, 4))
	if cfg != (BoardConfig{UpdateRateHz: 50, AccelFSRG: 2, GyroFSRDPS: 2000}) {
		t.Fatalf("board config = %+v", cfg)
	}
	o, _ := set.Orientation.Read(span(b, RegYaw, 8))
	if o.Yaw != -45 || o.Roll != 10 || o.Pitch != -2.5 || o.CompassHeading != 270 {
		t.Fatalf("orientation = %+v", o)
	}
	alt, _ := set.Altitude.Read(span(b, RegAltitude, 4))
	if alt.Meters != 12.5 {
		t.Fatalf("altitude = %+v", alt)
	}
	q, _ := set.Quaternion.Read(span(b, RegQuatW, 8))
	if q != (Quaternion{W: 1, X: 0, Y: -0.5, Z: 0.25}) {
		t.Fatalf("quaternion = %+v", q)
	}
	raw, _ := set.RawIMU.Read(span(b, RegGyroX, 18))
	want := RawIMU{
		Gyro:  codec.Vector[int16]{X: 1, Y: -2, Z: 3},
		Accel: codec.Vector[int16]{X: 100, Y: -200, Z: 16384},
		Mag:   codec.Vector[int16]{X: -7, Y: 8, Z: -9},
	}
	if raw != want {
		t.Fatalf("raw imu = %+v", raw)
	}
	vel, _ := set.Velocity.Read(span(b, RegVelX, 12))
	if vel.MetersPerSecond != (codec.Vector[float64]{X: 1, Y: -2, Z: 0.5}) {
		t.Fatalf("velocity = %+v", vel)
	}
	p, _ := set.Pressure.Read(span(b, RegPressure, 4))
	if p.Millibar != 1013.25 {
		t.Fatalf("pressure = %+v", p)
	}
	st, _ := set.SensorState.Read(span(b, RegSensorStatus, 6))
	if st.TimestampMS != 123456 || !st.Status.Has(codec.SensorYawStable) {
		t.Fatalf("sensor state = %+v", st)
	}
}

func TestStatusLayout(t *testing.T) {
	b := registerFile()
	payload := span(b, RegOpStatus, StatusLength)

	packed, err := StatusBinding(DefaultStatusLayout).Read(payload)
	if err != nil {
		t.Fatal(err)
	}
	if packed.Operation != codec.OpNormal || packed.Calibration.IMUState() != codec.CalIMUComplete {
		t.Fatalf("default layout status = %+v", packed)
	}
	// The default layout reads byte 4, which is not the sensor status register.
	if packed.Sensor != 0 {
		t.Fatalf("default layout sensor = %v", packed.Sensor)
	}

	corrected := DefaultStatusLayout
	corrected.Sensor = RegSensorStatus - RegOpStatus
	fixed, err := StatusBinding(corrected).Read(payload)
	if err != nil {
		t.Fatal(err)
	}
	if fixed.Sensor != codec.SensorYawStable|codec.SensorFusedHeadingValid {
		t.Fatalf("corrected layout sensor = %v", fixed.Sensor)
	}
}

// A checksum-valid payload whose layout cannot be read is a decode
// failure, not a zero status.
func TestStatusDecodeFailure(t *testing.T) {
	bad := DefaultStatusLayout
	bad.Sensor = 12
	_, err := StatusBinding(bad).Read(make([]byte, StatusLength))
	if !errors.Is(err, navxerr.ErrDecode) || !navxerr.IsInvalid(err) {
		t.Fatalf("err = %v", err)
	}
}

func TestNewSetOverrides(t *testing.T) {
	m := DefaultMap()
	m.Status.Sensor = 8
	m.Addresses = map[string]byte{"quaternion": 0x30, "velocity": 0x5A}
	set, err := NewSet(m)
	if err != nil {
		t.Fatal(err)
	}
	if set.Quaternion.Address != 0x30 || set.Velocity.Address != 0x5A {
		t.Fatalf("overrides not applied: %+v %+v", set.Quaternion.Info(), set.Velocity.Info())
	}
	if QuaternionBinding.Address != RegQuatW {
		t.Fatal("override mutated the package binding")
	}
	info, err := set.Registry().Lookup("quaternion")
	if err != nil || info.Address != 0x30 {
		t.Fatalf("registry quaternion = %+v, %v", info, err)
	}

	m.Addresses = map[string]byte{"nope": 1}
	if _, err := NewSet(m); !errors.Is(err, ErrUnknown) {
		t.Fatalf("unknown override err = %v", err)
	}

	m = DefaultMap()
	m.Status.Capability = StatusLength
	if _, err := NewSet(m); !errors.Is(err, ErrSpan) {
		t.Fatalf("bad layout err = %v", err)
	}

	m = DefaultMap()
	m.Addresses = map[string]byte{"displacement": 0x7A}
	if _, err := NewSet(m); !errors.Is(err, ErrSpan) {
		t.Fatalf("span past the register file err = %v", err)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Info{Name: "a", Address: 0x10, Length: 2}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(Info{Name: "a", Address: 0x20, Length: 2}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate err = %v", err)
	}
	if err := r.Register(Info{Name: "b", Address: 0x80, Length: 1}); !errors.Is(err, ErrSpan) {
		t.Fatalf("address err = %v", err)
	}
	if err := r.Register(Info{Name: "c", Address: 0x10, Length: 0}); !errors.Is(err, ErrSpan) {
		t.Fatalf("length err = %v", err)
	}
	// Overlap is allowed.
	if err := r.Register(Info{Name: "d", Address: 0x00, Length: 0x20}); err != nil {
		t.Fatal(err)
	}
	all := r.All()
	if len(all) != 2 || all[0].Name != "d" || all[1].Name != "a" || r.Len() != 2 {
		t.Fatalf("All = %+v", all)
	}
	if _, err := r.Lookup("missing"); !errors.Is(err, ErrUnknown) {
		t.Fatalf("lookup err = %v", err)
	}
}

func TestSnapshot(t *testing.T) {
	b := registerFile()
	m := DefaultMap()
	m.Status.Sensor = 8
	set, err := NewSet(m)
	if err != nil {
		t.Fatal(err)
	}
	snap, err := set.Snapshot.Read(b)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Identity.Model != 0x32 || snap.BoardConfig.UpdateRateHz != 50 {
		t.Fatalf("snapshot header = %+v %+v", snap.Identity, snap.BoardConfig)
	}
	if snap.Status.Sensor != codec.SensorYawStable|codec.SensorFusedHeadingValid {
		t.Fatalf("snapshot status = %+v", snap.Status)
	}
	if snap.Orientation.Yaw != -45 || snap.FusedHeading.Degrees != 315.5 {
		t.Fatalf("snapshot orientation = %+v %+v", snap.Orientation, snap.FusedHeading)
	}
	if snap.LinearAccel.G.X != 1 || snap.LinearAccel.G.Y != -0.5 {
		t.Fatalf("snapshot linear accel = %+v", snap.LinearAccel)
	}
	if snap.MPUTemperature.Celsius != 31.25 {
		t.Fatalf("snapshot temperature = %+v", snap.MPUTemperature)
	}
	if snap.Displacement.Meters != (codec.Vector[float64]{X: 3, Y: 0, Z: -1.5}) {
		t.Fatalf("snapshot displacement = %+v", snap.Displacement)
	}

	// A record moved past the burst cannot be decoded from it.
	m.Addresses = map[string]byte{"displacement": 0x70}
	moved, err := NewSet(m)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := moved.Snapshot.Read(b); !navxerr.IsInvalid(err) {
		t.Fatalf("moved record err = %v", err)
	}
}

func TestTable(t *testing.T) {
	seen := map[string]bool{}
	end := 0
	for _, info := range Table() {
		if err := info.Validate(); err != nil {
			t.Fatal(err)
		}
		if seen[info.Name] {
			t.Fatalf("duplicate register %s", info.Name)
		}
		seen[info.Name] = true
		if int(info.Address) < end {
			t.Fatalf("%s at 0x%02X overlaps the previous register", info.Name, info.Address)
		}
		end = info.End()
	}
	if end != RegLast+1 {
		t.Fatalf("table ends at 0x%02X", end)
	}
	if !Writable(RegUpdateRateHz) || !Writable(RegIntegrationCtl) || Writable(RegYaw) {
		t.Fatal("Writable disagrees with the table")
	}
}
