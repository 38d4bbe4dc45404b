// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package transport performs register exchanges with the board over any
// duplex byte channel: SPI through periph.io, a UART through go-serial,
// or the in-memory mock board.
package transport

import (
	"errors"
	"fmt"
	"io"

	"github.com/relabs-tech/navx/internal/navxerr"
	"github.com/relabs-tech/navx/internal/protocol"
	"github.com/relabs-tech/navx/internal/registers"
)

// Adapter issues blocking request/response exchanges over rw.
// It is not safe for concurrent use; a Watcher owns it while polling.
type Adapter struct {
	rw  io.ReadWriter
	buf [protocol.MaxReadLen + 1]byte
}

func NewAdapter(rw io.ReadWriter) *Adapter {
	return &Adapter{rw: rw}
}

// Transport returns the underlying channel.
func (a *Adapter) Transport() io.ReadWriter { return a.rw }

// Close closes the underlying channel if it can be closed.
func (a *Adapter) Close() error {
	if c, ok := a.rw.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (a *Adapter) send(op string, p protocol.Packet) error {
	n, err := a.rw.Write(p.Bytes())
	if err != nil {
		return navxerr.FromIO(op, err)
	}
	if n != protocol.PacketLen {
		return navxerr.ErrShortWrite.With(op)
	}
	return nil
}

// exchange sends a read request and returns the validated payload. The
// payload aliases the adapter's buffer until the next exchange.
func (a *Adapter) exchange(address, length byte) ([]byte, error) {
	op := fmt.Sprintf("read 0x%02X+%d", address, length)
	p, err := protocol.NewReadRequest(address, length)
	if err != nil {
		return nil, navxerr.New(navxerr.Fatal, op, "%v", err)
	}
	if err := a.send(op, p); err != nil {
		return nil, err
	}

	frame := a.buf[:int(length)+1]
	if _, err := io.ReadFull(a.rw, frame); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, navxerr.ErrShortRead.With(op)
		}
		return nil, navxerr.FromIO(op, err)
	}

	payload, sum, err := protocol.SplitFrame(frame)
	if err != nil {
		return nil, navxerr.New(navxerr.Invalid, op, "%v", err)
	}
	if !protocol.ValidateResponse(payload, sum) {
		return nil, navxerr.ErrChecksum.With(op)
	}
	return payload, nil
}

// ReadRaw reads length bytes starting at address and returns a copy of the
// validated payload.
func (a *Adapter) ReadRaw(address, length byte) ([]byte, error) {
	payload, err := a.exchange(address, length)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(payload))
	copy(out, payload)
	return out, nil
}

// Write stores value at address. The board sends no response to a write.
func (a *Adapter) Write(address, value byte) error {
	op := fmt.Sprintf("write 0x%02X", address)
	p, err := protocol.NewWriteRequest(address, value)
	if err != nil {
		return navxerr.New(navxerr.Fatal, op, "%v", err)
	}
	return a.send(op, p)
}

// Request reads and decodes one record.
func Request[T any](a *Adapter, b registers.Binding[T]) (T, error) {
	var zero T
	payload, err := a.exchange(b.Address, b.Length)
	if err != nil {
		return zero, err
	}
	return b.Read(payload)
}

// Reader polls a single record through an adapter.
type Reader[T any] struct {
	Adapter *Adapter
	Binding registers.Binding[T]
}

func NewReader[T any](a *Adapter, b registers.Binding[T]) *Reader[T] {
	return &Reader[T]{Adapter: a, Binding: b}
}

// Poll performs one request.
func (r *Reader[T]) Poll() (T, error) {
	return Request(r.Adapter, r.Binding)
}
