// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package transport

import (
	"fmt"
	"io"

	"github.com/jacobsa/go-serial/serial"
	log "github.com/sirupsen/logrus"
)

// serialReadTimeoutMS bounds a single read so that a silent board shows up
// as a short read instead of blocking the poller forever.
const serialReadTimeoutMS = 100

// OpenSerial opens a UART carrying the binary register protocol.
func OpenSerial(portName string, baudRate uint) (io.ReadWriteCloser, error) {
	opts := serial.OpenOptions{
		PortName:              portName,
		BaudRate:              baudRate,
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       0,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: serialReadTimeoutMS,
	}

	port, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("navX: serial open (%s @ %d): %w", portName, baudRate, err)
	}
	log.Printf("navX: serial %s opened at %d baud", portName, baudRate)
	return port, nil
}
