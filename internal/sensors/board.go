// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"io"

	"github.com/relabs-tech/navx/internal/codec"
	"github.com/relabs-tech/navx/internal/registers"
	"github.com/relabs-tech/navx/internal/transport"
	"github.com/relabs-tech/navx/internal/watch"
)

// SnapshotWatcher polls the whole register file of one board.
type SnapshotWatcher = watch.Watcher[registers.Snapshot, *transport.Reader[registers.Snapshot]]

// Board is one navX reached through a single transport. Its methods block
// on the bus and must not be called while a watcher owns the board.
type Board struct {
	name    string
	adapter *transport.Adapter
	set     *registers.Set
}

// NewBoard wraps rw. A nil set uses registers.DefaultSet().
func NewBoard(name string, rw io.ReadWriter, set *registers.Set) *Board {
	if set == nil {
		set = registers.DefaultSet()
	}
	return &Board{name: name, adapter: transport.NewAdapter(rw), set: set}
}

func (b *Board) Name() string { return b.name }

func (b *Board) Registers() *registers.Set { return b.set }

func (b *Board) Adapter() *transport.Adapter { return b.adapter }

func (b *Board) Close() error { return b.adapter.Close() }

func (b *Board) Identity() (registers.Identity, error) {
	return transport.Request(b.adapter, b.set.Identity)
}

func (b *Board) BoardConfig() (registers.BoardConfig, error) {
	return transport.Request(b.adapter, b.set.BoardConfig)
}

func (b *Board) Status() (registers.Status, error) {
	return transport.Request(b.adapter, b.set.Status)
}

func (b *Board) SensorState() (registers.SensorState, error) {
	return transport.Request(b.adapter, b.set.SensorState)
}

func (b *Board) Orientation() (registers.Orientation, error) {
	return transport.Request(b.adapter, b.set.Orientation)
}

func (b *Board) FusedHeading() (registers.FusedHeading, error) {
	return transport.Request(b.adapter, b.set.FusedHeading)
}

func (b *Board) Altitude() (registers.Altitude, error) {
	return transport.Request(b.adapter, b.set.Altitude)
}

func (b *Board) LinearAccel() (registers.LinearAccel, error) {
	return transport.Request(b.adapter, b.set.LinearAccel)
}

func (b *Board) Quaternion() (registers.Quaternion, error) {
	return transport.Request(b.adapter, b.set.Quaternion)
}

func (b *Board) MPUTemperature() (registers.MPUTemperature, error) {
	return transport.Request(b.adapter, b.set.MPUTemperature)
}

func (b *Board) RawIMU() (registers.RawIMU, error) {
	return transport.Request(b.adapter, b.set.RawIMU)
}

func (b *Board) Pressure() (registers.Pressure, error) {
	return transport.Request(b.adapter, b.set.Pressure)
}

func (b *Board) Velocity() (registers.Velocity, error) {
	return transport.Request(b.adapter, b.set.Velocity)
}

func (b *Board) Displacement() (registers.Displacement, error) {
	return transport.Request(b.adapter, b.set.Displacement)
}

func (b *Board) Snapshot() (registers.Snapshot, error) {
	return transport.Request(b.adapter, b.set.Snapshot)
}

// ReadRegisters returns n raw bytes starting at address.
func (b *Board) ReadRegisters(address, n byte) ([]byte, error) {
	return b.adapter.ReadRaw(address, n)
}

// WriteRegister writes one byte to a writable register.
func (b *Board) WriteRegister(address, value byte) error {
	if !registers.Writable(address) {
		return fmt.Errorf("%s navX: register 0x%02X is read-only", b.name, address)
	}
	return b.adapter.Write(address, value)
}

// SetUpdateRate sets the board's output data rate.
func (b *Board) SetUpdateRate(hz byte) error {
	if hz < 4 || hz > 200 {
		return fmt.Errorf("%s navX: update rate must be 4-200 Hz, got %d", b.name, hz)
	}
	return b.adapter.Write(registers.RegUpdateRateHz, hz)
}

// ResetIntegration zeroes the integrated values selected by flags.
func (b *Board) ResetIntegration(flags codec.ControlReset) error {
	return b.adapter.Write(registers.RegIntegrationCtl, byte(flags))
}

// WatchSnapshot hands the board's transport to a watcher that polls the
// full register file. The board is usable again once the watcher is
// joined.
func (b *Board) WatchSnapshot(opts ...watch.Option) *SnapshotWatcher {
	reader := transport.NewReader(b.adapter, b.set.Snapshot)
	return watch.New[registers.Snapshot](b.name, reader, opts...)
}

// ReadRecord reads a record by its registry name and returns it decoded.
// Control registers without a record type come back as raw bytes.
func (b *Board) ReadRecord(name string) (any, error) {
	set := b.set
	switch name {
	case set.Identity.Name:
		return b.Identity()
	case set.BoardConfig.Name:
		return b.BoardConfig()
	case set.Status.Name:
		return b.Status()
	case set.SensorState.Name:
		return b.SensorState()
	case set.Orientation.Name:
		return b.Orientation()
	case set.FusedHeading.Name:
		return b.FusedHeading()
	case set.Altitude.Name:
		return b.Altitude()
	case set.LinearAccel.Name:
		return b.LinearAccel()
	case set.Quaternion.Name:
		return b.Quaternion()
	case set.MPUTemperature.Name:
		return b.MPUTemperature()
	case set.RawIMU.Name:
		return b.RawIMU()
	case set.Pressure.Name:
		return b.Pressure()
	case set.Velocity.Name:
		return b.Velocity()
	case set.Displacement.Name:
		return b.Displacement()
	case set.Snapshot.Name:
		return b.Snapshot()
	}
	info, err := set.Registry().Lookup(name)
	if err != nil {
		return nil, err
	}
	return b.ReadRegisters(info.Address, info.Length)
}
