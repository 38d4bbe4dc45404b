// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/navx/internal/codec"
	"github.com/relabs-tech/navx/internal/config"
	"github.com/relabs-tech/navx/internal/navxerr"
	"github.com/relabs-tech/navx/internal/orientation"
	"github.com/relabs-tech/navx/internal/registers"
	"github.com/relabs-tech/navx/internal/transport"
)

// identityAttempts bounds the start-up identity probe.
const identityAttempts = 5

// Open connects to the board named by cfg, probes its identity and
// applies the configured update rate and integration reset.
func Open(cfg *config.Config) (*Board, error) {
	set, err := cfg.RegisterSet()
	if err != nil {
		return nil, fmt.Errorf("navX: %w", err)
	}

	var rw io.ReadWriter
	switch cfg.Transport {
	case config.TransportSPI:
		port, err := transport.OpenSPI(cfg.SPIDevice, cfg.SPISpeedHz, cfg.SPIResponseDelay())
		if err != nil {
			return nil, err
		}
		rw = port
	case config.TransportSerial:
		port, err := transport.OpenSerial(cfg.SerialPort, cfg.SerialBaudRate)
		if err != nil {
			return nil, err
		}
		rw = port
	case config.TransportMock:
		log.Printf("navX: using mock board")
		rw = NewMockBoard(orientation.NewMockSource())
	default:
		return nil, fmt.Errorf("navX: unknown transport %q", cfg.Transport)
	}

	b := NewBoard(cfg.Transport, rw, set)
	if err := b.init(cfg.UpdateRateHz, cfg.ResetIntegrationStart); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

func (b *Board) init(updateRateHz byte, resetIntegration bool) error {
	id, err := b.probe()
	if err != nil {
		return fmt.Errorf("%s navX: identity: %w", b.name, err)
	}
	log.Printf("%s navX: model=0x%02X board rev=%d firmware=%d.%d",
		b.name, id.Model, id.BoardRevision, id.FirmwareMajor, id.FirmwareMinor)

	if updateRateHz > 0 {
		if err := b.SetUpdateRate(updateRateHz); err != nil {
			return fmt.Errorf("%s navX: set update rate: %w", b.name, err)
		}
		log.Printf("%s navX: update rate set to %d Hz", b.name, updateRateHz)
	}

	if resetIntegration {
		if err := b.ResetIntegration(codec.ResetAll); err != nil {
			return fmt.Errorf("%s navX: reset integration: %w", b.name, err)
		}
		log.Printf("%s navX: velocity, displacement and yaw reset", b.name)
	}

	if st, err := b.Status(); err != nil {
		log.Printf("Warning: %s navX status read failed: %v", b.name, err)
	} else {
		log.Printf("%s navX: op=%v cal=%v selftest=%v", b.name, st.Operation, st.Calibration, st.SelfTest)
	}
	return nil
}

// probe reads the identity, retrying absorbed failures a few times.
func (b *Board) probe() (registers.Identity, error) {
	var err error
	for i := 0; i < identityAttempts; i++ {
		var id registers.Identity
		id, err = b.Identity()
		if err == nil {
			return id, nil
		}
		if navxerr.IsFatal(err) {
			return registers.Identity{}, err
		}
		log.Debugf("%s navX: identity attempt %d: %v", b.name, i+1, err)
	}
	return registers.Identity{}, err
}
