// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package codec decodes the fixed-point register encodings of the navX
// board into Go values.
//
// All multi-byte fields are little-endian and signed fields are two's
// complement. Every decoder reads exactly its documented width from the
// start of the slice and is total over any byte pattern of that width;
// a shorter slice panics the same way encoding/binary does.
//
//	unsigned byte          0 .. 255                 (8 bits)
//	unsigned short         0 .. 65535               (16 bits)
//	signed short      -32768 .. 32767               (16 bits)
//	signed hundredths -327.68 .. 327.67             (16 bits)
//	unsigned hundredths  0.0 .. 655.35              (16 bits)
//	signed thousandths -32.768 .. 32.767            (16 bits)
//	signed short ratio    -1 .. 1 (x 1/16384)       (16 bits)
//	16:16                                           (32 bits)
//	unsigned long          0 .. 4294967295          (32 bits)
package codec

import (
	"encoding/binary"
	"math"
)

// Widths in bytes of the scalar encodings.
const (
	WidthU8         = 1
	WidthU16        = 2
	WidthI16        = 2
	WidthHundredth  = 2
	WidthThousandth = 2
	WidthRadians    = 2
	WidthRatio      = 2
	WidthU32        = 4
	WidthI32        = 4
	WidthQ1616      = 4
)

// Q1616Divisor is the scale of the 16:16 fixed point encoding.
const Q1616Divisor = 65536.0

// LegacyQ1616Divisor is the divisor one historical decoder used. It is not
// 2^16 and yields values about 1.5% low. Kept only so that data recorded
// with it can be reproduced.
const LegacyQ1616Divisor = 66536.0

// ratioScale is the full-scale value of a signed short ratio.
const ratioScale = 16384.0

func U8(b []byte) uint8 { return b[0] }

func I8(b []byte) int8 { return int8(b[0]) }

func U16(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }

func I16(b []byte) int16 { return int16(binary.LittleEndian.Uint16(b)) }

func U32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }

func I32(b []byte) int32 { return int32(binary.LittleEndian.Uint32(b)) }

// Hundredth decodes a signed hundredths value (-327.68 .. 327.67).
func Hundredth(b []byte) float32 {
	return float32(I16(b)) / 100.0
}

// UHundredth decodes an unsigned hundredths value (0 .. 655.35).
func UHundredth(b []byte) float32 {
	return float32(U16(b)) / 100.0
}

// Thousandth decodes a signed thousandths value (-32.768 .. 32.767).
func Thousandth(b []byte) float32 {
	return float32(I16(b)) / 1000.0
}

// Radians decodes a signed short ratio scaled to an angle: 16384 is pi.
func Radians(b []byte) float32 {
	return float32(I16(b)) * math.Pi / ratioScale
}

// Ratio decodes a signed short ratio where 16384 is 1.0.
func Ratio(b []byte) float32 {
	return float32(I16(b)) / ratioScale
}

// Q1616 decodes an unsigned 16:16 fixed point value.
func Q1616(b []byte) float64 {
	return float64(U32(b)) / Q1616Divisor
}

// SignedQ1616 decodes a two's complement 16:16 fixed point value
// (-32768.9999 .. 32767.9999). The integrated velocity, displacement,
// altitude and pressure registers use it.
func SignedQ1616(b []byte) float64 {
	return float64(I32(b)) / Q1616Divisor
}

// LegacyQ1616 decodes a 16:16 value with LegacyQ1616Divisor.
func LegacyQ1616(b []byte) float64 {
	return float64(U32(b)) / LegacyQ1616Divisor
}
