// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package navxerr classifies register I/O failures into the three tiers
// the polling loop acts on:
//
//	Transient  short or interrupted I/O, retry silently
//	Invalid    checksum or decode mismatch, drop this attempt
//	Fatal      the transport is broken, stop polling
//
// Error is a plain value so a cached failure can be handed to any number
// of readers without sharing the original error object.
package navxerr

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"syscall"
)

// Kind is the failure tier.
type Kind uint8

const (
	Fatal Kind = iota
	Transient
	Invalid
)

func (k Kind) String() string {
	switch k {
	case Transient:
		return "transient"
	case Invalid:
		return "invalid"
	default:
		return "fatal"
	}
}

// Error is a copyable failure description.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	// Errno is kept when the failure came from the OS.
	Errno syscall.Errno
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Kind.String() + ": " + e.Message
	}
	return e.Op + ": " + e.Kind.String() + ": " + e.Message
}

// Unwrap exposes the OS error number so errors.Is(err, syscall.EIO) works
// on a copy.
func (e *Error) Unwrap() error {
	if e.Errno != 0 {
		return e.Errno
	}
	return nil
}

// Is matches sentinels by kind and message, so a copy matches the
// original.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message && (t.Op == "" || e.Op == t.Op)
}

var (
	// ErrNotReady is reported before the first successful read.
	ErrNotReady = &Error{Kind: Transient, Message: "value has not been read yet"}

	ErrShortRead  = &Error{Kind: Transient, Message: "short read"}
	ErrShortWrite = &Error{Kind: Fatal, Message: "short write"}
	ErrChecksum   = &Error{Kind: Invalid, Message: "checksum mismatch"}
	ErrDecode     = &Error{Kind: Invalid, Message: "undecodable payload"}

	// ErrJoined is returned by a second join on the same watcher.
	ErrJoined = &Error{Kind: Fatal, Message: "watcher already joined"}
)

// New builds an error of the given kind.
func New(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

// With returns a copy of sentinel e tagged with op.
func (e *Error) With(op string) *Error {
	c := *e
	c.Op = op
	return &c
}

// Clone returns an independent copy of e.
func (e *Error) Clone() *Error {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}

// KindOf reports the tier of err. A nil error has no kind and reports
// Transient with ok=false.
func KindOf(err error) (Kind, bool) {
	if err == nil {
		return Transient, false
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	if isTransientIO(err) {
		return Transient, true
	}
	return Fatal, true
}

// IsTransient, IsInvalid and IsFatal are shorthands for KindOf.

func IsTransient(err error) bool {
	k, ok := KindOf(err)
	return ok && k == Transient
}

func IsInvalid(err error) bool {
	k, ok := KindOf(err)
	return ok && k == Invalid
}

func IsFatal(err error) bool {
	k, ok := KindOf(err)
	return ok && k == Fatal
}

func isTransientIO(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.ErrNoProgress) {
		return true
	}
	if errors.Is(err, syscall.EINTR) || errors.Is(err, syscall.EAGAIN) {
		return true
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// FromIO converts an arbitrary transport error into an Error, keeping
// its text and OS error number.
func FromIO(op string, err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Op == "" {
			return e.With(op)
		}
		return e.Clone()
	}
	kind, _ := KindOf(err)
	out := &Error{Kind: kind, Op: op, Message: err.Error()}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		out.Errno = errno
	}
	return out
}
