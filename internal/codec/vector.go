// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package codec

import (
	"strconv"
	"strings"
)

// Vector is a three axis value.
type Vector[T any] struct {
	X T `json:"x"`
	Y T `json:"y"`
	Z T `json:"z"`
}

// ReadVector splits b into three equal spans and decodes each with read,
// in x, y, z order. len(b) should be a multiple of three; any remainder
// is left to the z span.
func ReadVector[T any](read func([]byte) T, b []byte) Vector[T] {
	seg := len(b) / 3
	return Vector[T]{
		X: read(b[:seg]),
		Y: read(b[seg : 2*seg]),
		Z: read(b[2*seg:]),
	}
}

// ASCII encodings of the streaming protocol. They report ok=false on
// malformed text instead of returning a value.

// ParseFloat parses a fixed-width decimal such as "-123.45" or " 012.50".
func ParseFloat(b []byte) (float32, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(b)), 32)
	if err != nil {
		return 0, false
	}
	return float32(f), true
}

// ParseHexByte parses two hexadecimal characters.
func ParseHexByte(b []byte) (uint8, bool) {
	v, err := strconv.ParseUint(string(b), 16, 8)
	if err != nil {
		return 0, false
	}
	return uint8(v), true
}

// ParseHexWord parses four hexadecimal characters.
func ParseHexWord(b []byte) (uint16, bool) {
	v, err := strconv.ParseUint(string(b), 16, 16)
	if err != nil {
		return 0, false
	}
	return uint16(v), true
}
