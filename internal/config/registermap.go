// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/relabs-tech/navx/internal/registers"
)

// LoadRegisterMap reads a YAML register map. Fields it leaves out keep
// their defaults. An empty path yields registers.DefaultMap().
//
//	status:
//	  operation: 0
//	  calibration: 1
//	  self_test: 2
//	  capability: 3
//	  sensor: 8
//	addresses:
//	  quaternion: 0x2A
func LoadRegisterMap(path string) (registers.Map, error) {
	if path == "" {
		return registers.DefaultMap(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return registers.Map{}, fmt.Errorf("failed to read register map: %w", err)
	}
	return ParseRegisterMap(bytes.NewReader(data))
}

// ParseRegisterMap decodes a YAML register map from r.
func ParseRegisterMap(r io.Reader) (registers.Map, error) {
	m := registers.DefaultMap()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && err != io.EOF {
		return registers.Map{}, fmt.Errorf("invalid register map: %w", err)
	}
	return m, nil
}

// RegisterSet resolves the configured register map into bindings.
func (c *Config) RegisterSet() (*registers.Set, error) {
	m, err := LoadRegisterMap(c.RegisterMapPath)
	if err != nil {
		return nil, err
	}
	set, err := registers.NewSet(m)
	if err != nil {
		return nil, fmt.Errorf("register map %s: %w", c.RegisterMapPath, err)
	}
	return set, nil
}
