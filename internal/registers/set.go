// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package registers

import (
	"fmt"
	"sort"
)

// Map is the static register map supplied by configuration: the status
// layout and optional per-record address overrides keyed by binding name.
type Map struct {
	Status    StatusLayout    `yaml:"status"`
	Addresses map[string]byte `yaml:"addresses,omitempty"`
}

// DefaultMap uses DefaultStatusLayout and no overrides.
func DefaultMap() Map {
	return Map{Status: DefaultStatusLayout}
}

// Set holds one binding per record type, resolved against a Map.
type Set struct {
	Identity       Binding[Identity]
	BoardConfig    Binding[BoardConfig]
	Status         Binding[Status]
	SensorState    Binding[SensorState]
	Orientation    Binding[Orientation]
	FusedHeading   Binding[FusedHeading]
	Altitude       Binding[Altitude]
	LinearAccel    Binding[LinearAccel]
	Quaternion     Binding[Quaternion]
	MPUTemperature Binding[MPUTemperature]
	RawIMU         Binding[RawIMU]
	Pressure       Binding[Pressure]
	Velocity       Binding[Velocity]
	Displacement   Binding[Displacement]
	Snapshot       Binding[Snapshot]

	registry *Registry
}

// DefaultSet resolves DefaultMap. It cannot fail.
func DefaultSet() *Set {
	s, err := NewSet(DefaultMap())
	if err != nil {
		panic(err)
	}
	return s
}

// NewSet resolves m into bindings. Overrides naming an unknown record and
// spans that leave the register file are rejected.
func NewSet(m Map) (*Set, error) {
	if err := m.Status.Validate(StatusLength); err != nil {
		return nil, err
	}
	s := &Set{
		Identity:       IdentityBinding,
		BoardConfig:    BoardConfigBinding,
		Status:         StatusBinding(m.Status),
		SensorState:    SensorStateBinding,
		Orientation:    OrientationBinding,
		FusedHeading:   FusedHeadingBinding,
		Altitude:       AltitudeBinding,
		LinearAccel:    LinearAccelBinding,
		Quaternion:     QuaternionBinding,
		MPUTemperature: MPUTemperatureBinding,
		RawIMU:         RawIMUBinding,
		Pressure:       PressureBinding,
		Velocity:       VelocityBinding,
		Displacement:   DisplacementBinding,
	}

	addrs := map[string]*byte{
		s.Identity.Name:       &s.Identity.Address,
		s.BoardConfig.Name:    &s.BoardConfig.Address,
		s.Status.Name:         &s.Status.Address,
		s.SensorState.Name:    &s.SensorState.Address,
		s.Orientation.Name:    &s.Orientation.Address,
		s.FusedHeading.Name:   &s.FusedHeading.Address,
		s.Altitude.Name:       &s.Altitude.Address,
		s.LinearAccel.Name:    &s.LinearAccel.Address,
		s.Quaternion.Name:     &s.Quaternion.Address,
		s.MPUTemperature.Name: &s.MPUTemperature.Address,
		s.RawIMU.Name:         &s.RawIMU.Address,
		s.Pressure.Name:       &s.Pressure.Address,
		s.Velocity.Name:       &s.Velocity.Address,
		s.Displacement.Name:   &s.Displacement.Address,
	}
	names := make([]string, 0, len(m.Addresses))
	for name := range m.Addresses {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p, ok := addrs[name]
		if !ok {
			return nil, fmt.Errorf("address override %q: %w", name, ErrUnknown)
		}
		*p = m.Addresses[name]
	}

	s.Snapshot = snapshotBinding(s)

	s.registry = NewRegistry()
	infos := []Info{
		s.Identity.Info(), s.BoardConfig.Info(), s.Status.Info(), s.SensorState.Info(),
		s.Orientation.Info(), s.FusedHeading.Info(), s.Altitude.Info(), s.LinearAccel.Info(),
		s.Quaternion.Info(), s.MPUTemperature.Info(), s.RawIMU.Info(), s.Pressure.Info(),
		s.Velocity.Info(), s.Displacement.Info(), s.Snapshot.Info(),
		{Name: "update_rate", Address: RegUpdateRateHz, Length: 1, Access: AccessReadWrite,
			Description: "Output data rate in Hz"},
		{Name: "integration_ctl", Address: RegIntegrationCtl, Length: 1, Access: AccessWrite,
			Description: "Reset integrated velocity, displacement and yaw"},
	}
	for _, info := range infos {
		if err := s.registry.Register(info); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Registry lists every span of the set by name.
func (s *Set) Registry() *Registry { return s.registry }
