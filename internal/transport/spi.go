// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package transport

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// SPIPort presents an SPI device as a half-duplex byte channel. Write
// clocks out a request; Read waits for the board's response delay and then
// clocks in the response with zero bytes on MOSI.
type SPIPort struct {
	name          string
	port          spi.PortCloser
	conn          spi.Conn
	responseDelay time.Duration
	lastWrite     time.Time
	zeros         []byte
}

// OpenSPI opens device (for example "/dev/spidev0.0" or "SPI0.0") in mode 3.
func OpenSPI(device string, speedHz int64, responseDelay time.Duration) (*SPIPort, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("navX: periph host init: %w", err)
	}

	port, err := spireg.Open(device)
	if err != nil {
		return nil, fmt.Errorf("navX: SPI open (%s): %w", device, err)
	}

	conn, err := port.Connect(physic.Frequency(speedHz)*physic.Hertz, spi.Mode3, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("navX: SPI connect (%s @ %d Hz): %w", device, speedHz, err)
	}

	log.Printf("navX: SPI %s connected at %d Hz (response delay %v)", device, speedHz, responseDelay)
	return &SPIPort{
		name:          device,
		port:          port,
		conn:          conn,
		responseDelay: responseDelay,
		zeros:         make([]byte, 256),
	}, nil
}

func (p *SPIPort) Write(b []byte) (int, error) {
	if err := p.conn.Tx(b, nil); err != nil {
		return 0, fmt.Errorf("navX: SPI write (%s): %w", p.name, err)
	}
	p.lastWrite = time.Now()
	return len(b), nil
}

func (p *SPIPort) Read(b []byte) (int, error) {
	if wait := p.responseDelay - time.Since(p.lastWrite); wait > 0 {
		time.Sleep(wait)
	}
	if len(b) > len(p.zeros) {
		p.zeros = make([]byte, len(b))
	}
	if err := p.conn.Tx(p.zeros[:len(b)], b); err != nil {
		return 0, fmt.Errorf("navX: SPI read (%s): %w", p.name, err)
	}
	return len(b), nil
}

func (p *SPIPort) Close() error {
	return p.port.Close()
}

func (p *SPIPort) String() string { return "spi:" + p.name }
