// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package protocol

// CRC7Poly is the reflected polynomial used by the board firmware.
const CRC7Poly = 0x91

// CRC7 computes the board's CRC-7 variant: LSB first, eight shifts per
// byte, no initial or final XOR. Generic CRC-7 tables (SD/MMC) do not
// match the device and must not be substituted.
func CRC7(b []byte) byte {
	var crc byte
	for _, v := range b {
		crc ^= v
		for i := 0; i < 8; i++ {
			if crc&1 != 0 {
				crc ^= CRC7Poly
			}
			crc >>= 1
		}
	}
	return crc
}
