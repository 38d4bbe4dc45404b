// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package codec

import (
	"math"
	"testing"
)

func near(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func TestIntegers(t *testing.T) {
	b := []byte{0xFE, 0xFF, 0xFF, 0x7F}
	if got := U8(b); got != 0xFE {
		t.Fatalf("U8 = %#x", got)
	}
	if got := I8(b); got != -2 {
		t.Fatalf("I8 = %d", got)
	}
	if got := U16(b); got != 0xFFFE {
		t.Fatalf("U16 = %#x", got)
	}
	if got := I16(b); got != -2 {
		t.Fatalf("I16 = %d", got)
	}
	if got := U32(b); got != 0x7FFFFFFE {
		t.Fatalf("U32 = %#x", got)
	}
	if got := I32([]byte{0xFF, 0xFF, 0xFF, 0xFF}); got != -1 {
		t.Fatalf("I32 = %d", got)
	}
}

func TestScaledDecoders(t *testing.T) {
	cases := []struct {
		name string
		got  float64
		want float64
	}{
		{"hundredth max", float64(Hundredth([]byte{0xFF, 0x7F})), 327.67},
		{"hundredth min", float64(Hundredth([]byte{0x00, 0x80})), -327.68},
		{"uhundredth max", float64(UHundredth([]byte{0xFF, 0xFF})), 655.35},
		{"uhundredth zero", float64(UHundredth([]byte{0x00, 0x00})), 0},
		{"thousandth", float64(Thousandth([]byte{0x18, 0xFC})), -1.0},
		{"radians full ratio", float64(Radians([]byte{0x00, 0x40})), math.Pi},
		{"radians half ratio", float64(Radians([]byte{0x00, 0x20})), math.Pi / 2},
		{"radians negative", float64(Radians([]byte{0x00, 0xC0})), -math.Pi},
		{"ratio one", float64(Ratio([]byte{0x00, 0x40})), 1.0},
		{"ratio minus half", float64(Ratio([]byte{0x00, 0xE0})), -0.5},
	}
	for _, c := range cases {
		if !near(c.got, c.want, 1e-4) {
			t.Fatalf("%s: got %v, want %v", c.name, c.got, c.want)
		}
	}
}

// The 16:16 divisor is pinned: changing it rescales every integrated
// velocity, displacement and altitude value.
func TestQ1616DivisorIsPinned(t *testing.T) {
	if Q1616Divisor != 65536.0 {
		t.Fatalf("Q1616Divisor = %v, want 65536", Q1616Divisor)
	}
	if LegacyQ1616Divisor != 66536.0 {
		t.Fatalf("LegacyQ1616Divisor = %v, want 66536", LegacyQ1616Divisor)
	}

	one := []byte{0x00, 0x00, 0x01, 0x00}
	if got := Q1616(one); got != 1.0 {
		t.Fatalf("Q1616(0x00010000) = %v, want 1", got)
	}
	if got := LegacyQ1616(one); got != 65536.0/66536.0 {
		t.Fatalf("LegacyQ1616(0x00010000) = %v", got)
	}
	half := []byte{0x00, 0x80, 0x00, 0x00}
	if got := Q1616(half); got != 0.5 {
		t.Fatalf("Q1616(0x00008000) = %v, want 0.5", got)
	}
	// Unsigned: the top bit is magnitude.
	if got := Q1616([]byte{0x00, 0x00, 0x00, 0x80}); got != 32768.0 {
		t.Fatalf("Q1616(0x80000000) = %v", got)
	}
}

func TestSignedQ1616(t *testing.T) {
	minusOneAndHalf := []byte{0x00, 0x80, 0xFE, 0xFF}
	if got := SignedQ1616(minusOneAndHalf); got != -1.5 {
		t.Fatalf("SignedQ1616 = %v, want -1.5", got)
	}
}

func TestReadVector(t *testing.T) {
	b := []byte{0x64, 0x00, 0x9C, 0xFF, 0x10, 0x27}
	v := ReadVector(Hundredth, b)
	want := Vector[float32]{
		X: Hundredth(b[0:2]),
		Y: Hundredth(b[2:4]),
		Z: Hundredth(b[4:6]),
	}
	if v != want {
		t.Fatalf("ReadVector = %+v, want %+v", v, want)
	}
	if v.X != 1 || v.Y != -1 || v.Z != 100 {
		t.Fatalf("unexpected components %+v", v)
	}

	wide := ReadVector(SignedQ1616, []byte{
		0, 0, 1, 0,
		0, 0, 2, 0,
		0, 0, 0xFF, 0xFF,
	})
	if wide.X != 1 || wide.Y != 2 || wide.Z != -1 {
		t.Fatalf("ReadVector(SignedQ1616) = %+v", wide)
	}
}

func TestFlagsTruncateUnknownBits(t *testing.T) {
	if got := ReadSensorStatus([]byte{0xFF}); got != 0x3F {
		t.Fatalf("sensor status = %#x", uint8(got))
	}
	if got := ReadCalibrationStatus([]byte{0xF6}); got != CalIMUComplete|CalMagComplete {
		t.Fatalf("calibration status = %v", got)
	}
	if got := ReadSelfTestStatus([]byte{0xF0}); got != SelfTestComplete {
		t.Fatalf("self test = %v", got)
	}
	if got := ReadCapability([]byte{0x03}); got != 0 {
		t.Fatalf("capability = %v", got)
	}
	if got := ReadControlReset([]byte{0xFF}); got != ResetAll {
		t.Fatalf("control reset = %v", got)
	}
}

func TestFlagHelpers(t *testing.T) {
	s := SensorMoving | SensorAltitudeValid
	if !s.Has(SensorMoving) || s.Has(SensorYawStable) {
		t.Fatalf("Has mismatch for %v", s)
	}
	if s.String() != "moving|altitude_valid" {
		t.Fatalf("String = %q", s.String())
	}
	if SensorStatus(0).String() != "none" {
		t.Fatalf("empty String = %q", SensorStatus(0).String())
	}
	cal := CalIMUAccumulate | CalBaroComplete
	if cal.IMUState() != CalIMUAccumulate {
		t.Fatalf("IMUState = %v", cal.IMUState())
	}
	if cal.String() != "imu_accumulate|baro_complete" {
		t.Fatalf("calibration String = %q", cal.String())
	}
	if ResetPose.Has(ResetYaw) || !ResetAll.Has(ResetYaw|ResetVel) {
		t.Fatal("control reset composites wrong")
	}
	c := CapOmniMount | Capability(uint8(MountYDown)<<3)
	if c.OmniMount() != MountYDown {
		t.Fatalf("OmniMount = %v", c.OmniMount())
	}
}

func TestClampedEnums(t *testing.T) {
	for raw := 0; raw < 256; raw++ {
		op := ReadOperationStatus([]byte{byte(raw)})
		if raw <= 4 && op != OperationStatus(raw) {
			t.Fatalf("op %d decoded as %v", raw, op)
		}
		if raw > 4 && op != OpNormal {
			t.Fatalf("op %d not clamped: %v", raw, op)
		}
		m := ReadOmniMountConfig([]byte{byte(raw)})
		if raw <= 6 && m != OmniMountConfig(raw) {
			t.Fatalf("mount %d decoded as %v", raw, m)
		}
		if raw > 6 && m != MountZDown {
			t.Fatalf("mount %d not clamped: %v", raw, m)
		}
	}
	if OpCalibrating.String() != "calibrating" || MountXUp.String() != "x_up" {
		t.Fatal("enum names wrong")
	}
}

func TestASCIIParsers(t *testing.T) {
	if f, ok := ParseFloat([]byte("-123.45")); !ok || !near(float64(f), -123.45, 1e-3) {
		t.Fatalf("ParseFloat = %v, %v", f, ok)
	}
	if f, ok := ParseFloat([]byte(" 012.50")); !ok || f != 12.5 {
		t.Fatalf("ParseFloat padded = %v, %v", f, ok)
	}
	if _, ok := ParseFloat([]byte("12a.00")); ok {
		t.Fatal("ParseFloat accepted malformed text")
	}
	if v, ok := ParseHexByte([]byte("7F")); !ok || v != 0x7F {
		t.Fatalf("ParseHexByte = %v, %v", v, ok)
	}
	if _, ok := ParseHexByte([]byte("G0")); ok {
		t.Fatal("ParseHexByte accepted malformed text")
	}
	if v, ok := ParseHexWord([]byte("07D0")); !ok || v != 2000 {
		t.Fatalf("ParseHexWord = %v, %v", v, ok)
	}
	if _, ok := ParseHexWord([]byte("1FFFF")); ok {
		t.Fatal("ParseHexWord accepted overflow")
	}
}
