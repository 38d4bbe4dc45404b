// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package protocol implements the 3-byte register packet framing used to
// talk to the board over SPI or UART.
//
// Request:  [flag|address] [length or value] [crc7 of the first two bytes]
// Response: [payload ... length bytes] [crc7 of the payload]
//
// Bit 7 of the first byte marks a write. A read returns length bytes
// starting at address; a write stores value at address and returns nothing.
package protocol

import (
	"errors"
	"fmt"
)

const (
	// PacketLen is the size of every request packet.
	PacketLen = 3

	// WriteFlag marks a packet as a register write.
	WriteFlag = 0x80

	// AddressMask selects the 7-bit register address.
	AddressMask = 0x7F

	// MaxReadLen is the largest payload a single read may request.
	MaxReadLen = 0xFF
)

var (
	ErrAddressRange = errors.New("register address out of range")
	ErrLength       = errors.New("invalid read length")
	ErrFrameLength  = errors.New("response frame too short")
)

// Packet is one request on the wire.
type Packet [PacketLen]byte

// NewReadRequest builds a read of length bytes starting at address.
func NewReadRequest(address, length byte) (Packet, error) {
	if address > AddressMask {
		return Packet{}, fmt.Errorf("read 0x%02X: %w", address, ErrAddressRange)
	}
	if length == 0 {
		return Packet{}, fmt.Errorf("read 0x%02X: %w", address, ErrLength)
	}
	return seal(address, length), nil
}

// NewWriteRequest builds a single byte write of value to address. The
// checksum covers the address byte with the write flag already set.
func NewWriteRequest(address, value byte) (Packet, error) {
	if address > AddressMask {
		return Packet{}, fmt.Errorf("write 0x%02X: %w", address, ErrAddressRange)
	}
	return seal(address|WriteFlag, value), nil
}

func seal(first, second byte) Packet {
	p := Packet{first, second, 0}
	p[2] = CRC7(p[:2])
	return p
}

func (p Packet) Bytes() []byte { return p[:] }

func (p Packet) Address() byte { return p[0] & AddressMask }

func (p Packet) IsWrite() bool { return p[0]&WriteFlag != 0 }

// Value is the read length for reads and the payload for writes.
func (p Packet) Value() byte { return p[1] }

func (p Packet) Checksum() byte { return p[2] }

// Valid reports whether the checksum matches the first two bytes.
func (p Packet) Valid() bool {
	return ValidateResponse(p[:2], p[2])
}

func (p Packet) String() string {
	op := "read"
	if p.IsWrite() {
		op = "write"
	}
	return fmt.Sprintf("%s addr=0x%02X value=0x%02X crc=0x%02X", op, p.Address(), p.Value(), p.Checksum())
}

// ValidateResponse reports whether checksum is the CRC7 of payload.
func ValidateResponse(payload []byte, checksum byte) bool {
	return CRC7(payload) == checksum
}

// SplitFrame separates a response frame into payload and trailing checksum.
func SplitFrame(frame []byte) ([]byte, byte, error) {
	if len(frame) < 2 {
		return nil, 0, fmt.Errorf("%d bytes: %w", len(frame), ErrFrameLength)
	}
	n := len(frame) - 1
	return frame[:n], frame[n], nil
}

// AppendFrame appends payload and its checksum to dst, producing the
// frame a device would send for a read.
func AppendFrame(dst, payload []byte) []byte {
	dst = append(dst, payload...)
	return append(dst, CRC7(payload))
}
