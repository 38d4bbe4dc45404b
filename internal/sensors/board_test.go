// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/relabs-tech/navx/internal/codec"
	"github.com/relabs-tech/navx/internal/config"
	"github.com/relabs-tech/navx/internal/navxerr"
	"github.com/relabs-tech/navx/internal/orientation"
	"github.com/relabs-tech/navx/internal/registers"
	"github.com/relabs-tech/navx/internal/watch"
)

// fixedPose always reports the same attitude.
type fixedPose struct{ pose orientation.Pose }

func (f fixedPose) Next() (orientation.Pose, error) { return f.pose, nil }

func approx(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func newTestBoard(pose orientation.Pose) (*Board, *MockBoard) {
	mock := NewMockBoard(fixedPose{pose})
	return NewBoard("test", mock, nil), mock
}

func TestIdentityAndConfig(t *testing.T) {
	b, _ := newTestBoard(orientation.Pose{})
	id, err := b.Identity()
	if err != nil {
		t.Fatal(err)
	}
	if id != (registers.Identity{Model: 0x32, BoardRevision: 0x21, FirmwareMajor: 3}) {
		t.Fatalf("identity = %+v", id)
	}
	cfg, err := b.BoardConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.UpdateRateHz != 50 || cfg.AccelFSRG != 2 || cfg.GyroFSRDPS != 2000 {
		t.Fatalf("board config = %+v", cfg)
	}
}

func TestStatusAndEnvironment(t *testing.T) {
	b, _ := newTestBoard(orientation.Pose{})
	st, err := b.Status()
	if err != nil {
		t.Fatal(err)
	}
	if st.Operation != codec.OpNormal || !st.SelfTest.Has(codec.SelfTestComplete) || st.Calibration.IMUState() != codec.CalIMUComplete {
		t.Fatalf("status = %+v", st)
	}

	temp, err := b.MPUTemperature()
	if err != nil || !approx(float64(temp.Celsius), 31.25, 1e-4) {
		t.Fatalf("temperature = %+v, %v", temp, err)
	}
	p, err := b.Pressure()
	if err != nil || !approx(p.Millibar, 1013.25, 1e-4) {
		t.Fatalf("pressure = %+v, %v", p, err)
	}
}

func TestOrientationTracksMotion(t *testing.T) {
	pose := orientation.Pose{Roll: 12.5, Pitch: -7.25, Yaw: 100}
	b, _ := newTestBoard(pose)

	o, err := b.Orientation()
	if err != nil {
		t.Fatal(err)
	}
	if !approx(float64(o.Roll), 12.5, 0.01) || !approx(float64(o.Pitch), -7.25, 0.01) || !approx(float64(o.Yaw), 100, 0.01) {
		t.Fatalf("orientation = %+v", o)
	}
	if !approx(float64(o.CompassHeading), 100, 0.01) {
		t.Fatalf("heading = %v", o.CompassHeading)
	}

	q, err := b.Quaternion()
	if err != nil {
		t.Fatal(err)
	}
	back := orientation.FromQuaternion(q)
	if !approx(back.Roll, pose.Roll, 0.1) || !approx(back.Pitch, pose.Pitch, 0.1) || !approx(back.Yaw, pose.Yaw, 0.1) {
		t.Fatalf("quaternion %+v decodes to %+v", q, back)
	}

	raw, err := b.RawIMU()
	if err != nil {
		t.Fatal(err)
	}
	tilt := orientation.ComputePoseFromAccel(float64(raw.Accel.X), float64(raw.Accel.Y), float64(raw.Accel.Z))
	if !approx(tilt.Roll, pose.Roll, 0.1) || !approx(tilt.Pitch, pose.Pitch, 0.1) {
		t.Fatalf("accel tilt = %+v", tilt)
	}
}

func TestWritesAndIntegrationReset(t *testing.T) {
	b, mock := newTestBoard(orientation.Pose{Yaw: 40})

	if err := b.SetUpdateRate(100); err != nil {
		t.Fatal(err)
	}
	if cfg, err := b.BoardConfig(); err != nil || cfg.UpdateRateHz != 100 {
		t.Fatalf("rate after write = %+v, %v", cfg, err)
	}
	if err := b.SetUpdateRate(250); err == nil {
		t.Fatal("out of range update rate accepted")
	}
	if err := b.WriteRegister(registers.RegWhoAmI, 0); err == nil {
		t.Fatal("write to read-only register accepted")
	}

	one := []byte{0x00, 0x00, 0x01, 0x00} // 1.0 in 16:16
	for _, reg := range []byte{registers.RegVelX, registers.RegVelY, registers.RegVelZ, registers.RegDispX} {
		mock.Poke(reg, one)
	}
	if err := b.ResetIntegration(codec.ResetVel | codec.ResetYaw); err != nil {
		t.Fatal(err)
	}
	vel, err := b.Velocity()
	if err != nil || vel.MetersPerSecond != (codec.Vector[float64]{}) {
		t.Fatalf("velocity after reset = %+v, %v", vel, err)
	}
	disp, err := b.Displacement()
	if err != nil || disp.Meters.X != 1 {
		t.Fatalf("displacement kept = %+v, %v", disp, err)
	}
	if o, err := b.Orientation(); err != nil || !approx(float64(o.Yaw), 0, 0.01) {
		t.Fatalf("yaw after reset = %+v, %v", o, err)
	}
}

func TestCorruptFrameIsInvalid(t *testing.T) {
	b, mock := newTestBoard(orientation.Pose{})
	mock.CorruptNext(1)
	if _, err := b.Identity(); !errors.Is(err, navxerr.ErrChecksum) || !navxerr.IsInvalid(err) {
		t.Fatalf("corrupt frame = %v", err)
	}
	if _, err := b.Identity(); err != nil {
		t.Fatalf("next frame = %v", err)
	}
}

func TestReadRegistersMatchesFile(t *testing.T) {
	b, mock := newTestBoard(orientation.Pose{})
	got, err := b.ReadRegisters(registers.RegOpStatus, 4)
	if err != nil {
		t.Fatal(err)
	}
	want := mock.Registers()[registers.RegOpStatus : registers.RegOpStatus+4]
	if string(got) != string(want) {
		t.Fatalf("ReadRegisters = % X, want % X", got, want)
	}
}

func TestClosedBoardIsFatal(t *testing.T) {
	b, _ := newTestBoard(orientation.Pose{})
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Identity(); !navxerr.IsFatal(err) {
		t.Fatalf("read after close = %v", err)
	}
}

func TestWatchSnapshot(t *testing.T) {
	b, mock := newTestBoard(orientation.Pose{Roll: 5, Pitch: 3, Yaw: -45})
	mock.CorruptNext(3)
	w := b.WatchSnapshot(watch.WithInterval(time.Millisecond))

	deadline := time.Now().Add(2 * time.Second)
	for !w.IsReady() {
		if time.Now().After(deadline) {
			t.Fatal("snapshot never became ready")
		}
		time.Sleep(time.Millisecond)
	}
	snap, err := w.Get()
	if err != nil {
		t.Fatal(err)
	}
	if snap.Identity.Model != 0x32 || !approx(float64(snap.Orientation.Yaw), -45, 0.01) {
		t.Fatalf("snapshot = %+v", snap)
	}
	if w.Stats().Invalid != 3 {
		t.Fatalf("stats = %+v", w.Stats())
	}

	reader, err := w.Close()
	if err != nil || reader.Adapter != b.Adapter() {
		t.Fatalf("Close = %v, %v", reader, err)
	}
	if _, err := b.Identity(); err != nil {
		t.Fatalf("board unusable after join: %v", err)
	}
}

func TestOpenMock(t *testing.T) {
	cfg := config.Default()
	cfg.Transport = config.TransportMock
	cfg.UpdateRateHz = 20
	cfg.ResetIntegrationStart = true

	b, err := Open(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	if c, err := b.BoardConfig(); err != nil || c.UpdateRateHz != 20 {
		t.Fatalf("board config = %+v, %v", c, err)
	}

	cfg.Transport = "can"
	if _, err := Open(cfg); err == nil {
		t.Fatal("unknown transport accepted")
	}
}
