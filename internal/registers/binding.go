// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package registers binds typed records to spans of the navX register map.
//
// A Binding carries the address, length and decoder of one record type.
// Bindings are plain values, so a corrected register map can produce a
// new set of bindings at runtime without touching any decoder.
package registers

import (
	"errors"
	"fmt"
	"sort"

	"github.com/relabs-tech/navx/internal/navxerr"
	"github.com/relabs-tech/navx/internal/protocol"
)

var (
	ErrDuplicate = errors.New("register name already bound")
	ErrSpan      = errors.New("register span outside the register map")
	ErrUnknown   = errors.New("unknown register name")
)

// Binding ties record type T to its register span and decoder.
type Binding[T any] struct {
	Name    string
	Address byte
	Length  byte
	// Decode receives exactly Length bytes. It reports ok=false when the
	// payload passed the checksum but cannot be interpreted.
	Decode func(b []byte) (T, bool)
}

// Request builds the read packet for this record.
func (b Binding[T]) Request() (protocol.Packet, error) {
	return protocol.NewReadRequest(b.Address, b.Length)
}

// Read decodes a validated payload. A payload of the wrong size or one
// the decoder rejects is reported as navxerr.ErrDecode.
func (b Binding[T]) Read(payload []byte) (T, error) {
	var zero T
	if len(payload) != int(b.Length) {
		return zero, navxerr.New(navxerr.Invalid, b.op(), "payload is %d bytes, want %d", len(payload), b.Length)
	}
	v, ok := b.Decode(payload)
	if !ok {
		return zero, navxerr.ErrDecode.With(b.op())
	}
	return v, nil
}

// At returns a copy of the binding moved to address.
func (b Binding[T]) At(address byte) Binding[T] {
	b.Address = address
	return b
}

// Info describes the binding without its decoder.
func (b Binding[T]) Info() Info {
	return Info{Name: b.Name, Address: b.Address, Length: b.Length, Access: AccessRead}
}

func (b Binding[T]) op() string {
	return fmt.Sprintf("%s 0x%02X", b.Name, b.Address)
}

// Access modes of a register span.
const (
	AccessRead      = "R"
	AccessWrite     = "W"
	AccessReadWrite = "RW"
)

// Info is the data-only view of a register span, as published by the
// register debug tools.
type Info struct {
	Name        string     `json:"name" yaml:"name"`
	Address     byte       `json:"address" yaml:"address"`
	Length      byte       `json:"length" yaml:"length"`
	Access      string     `json:"access" yaml:"access"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	BitFields   []BitField `json:"bit_fields,omitempty" yaml:"bit_fields,omitempty"`
}

// BitField documents part of a register byte.
type BitField struct {
	Bits        string `json:"bits" yaml:"bits"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Values      string `json:"values,omitempty" yaml:"values,omitempty"`
}

// End is one past the last address of the span.
func (i Info) End() int { return int(i.Address) + int(i.Length) }

// Validate checks that the span fits the 7-bit register map.
func (i Info) Validate() error {
	if i.Length == 0 || i.Address > protocol.AddressMask || i.End() > RegisterCount {
		return fmt.Errorf("%s 0x%02X+%d: %w", i.Name, i.Address, i.Length, ErrSpan)
	}
	return nil
}

// Registry is the runtime lookup from register name to span. Overlapping
// spans are allowed; the hardware map decides the layout.
type Registry struct {
	byName map[string]Info
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Info)}
}

// Register adds info under its name.
func (r *Registry) Register(info Info) error {
	if err := info.Validate(); err != nil {
		return err
	}
	if _, ok := r.byName[info.Name]; ok {
		return fmt.Errorf("%s: %w", info.Name, ErrDuplicate)
	}
	r.byName[info.Name] = info
	return nil
}

// Lookup returns the span registered under name.
func (r *Registry) Lookup(name string) (Info, error) {
	info, ok := r.byName[name]
	if !ok {
		return Info{}, fmt.Errorf("%q: %w", name, ErrUnknown)
	}
	return info, nil
}

// All returns every span ordered by address, then length.
func (r *Registry) All() []Info {
	out := make([]Info, 0, len(r.byName))
	for _, info := range r.byName {
		out = append(out, info)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Address != out[b].Address {
			return out[a].Address < out[b].Address
		}
		if out[a].Length != out[b].Length {
			return out[a].Length < out[b].Length
		}
		return out[a].Name < out[b].Name
	})
	return out
}

// Len is the number of registered spans.
func (r *Registry) Len() int { return len(r.byName) }
