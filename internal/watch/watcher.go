// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package watch polls a register source in a background goroutine and
// serves the latest decoded value to any number of readers without
// blocking them.
//
// A Watcher owns its source from New until Join hands it back. The stop
// request is checked between polls only: a poll that never returns keeps
// Join waiting forever. JoinContext bounds the caller's wait but cannot
// interrupt the poll in flight.
package watch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/navx/internal/navxerr"
)

// Source performs one blocking poll. Errors are classified with
// navxerr.KindOf.
type Source[T any] interface {
	Poll() (T, error)
}

// State of the worker.
type State int32

const (
	Starting State = iota
	Running
	Stopped
	Failed
)

func (s State) String() string {
	switch s {
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Stats counts poll outcomes.
type Stats struct {
	Successes uint64 `json:"successes"`
	Transient uint64 `json:"transient"`
	Invalid   uint64 `json:"invalid"`
}

// invalidWarnAt is the first count of rejected replies, with no success
// yet, that is logged as a warning. Later warnings follow at each power
// of two.
const invalidWarnAt = 64

// Option configures a Watcher.
type Option func(*options)

type options struct {
	interval time.Duration
}

// WithInterval waits d between polls. The default is to poll back to back.
func WithInterval(d time.Duration) Option {
	return func(o *options) { o.interval = d }
}

// Watcher caches the latest result of polling S.
type Watcher[T any, S Source[T]] struct {
	name string
	opts options

	srcMu sync.Mutex
	src   S

	cacheMu sync.RWMutex
	value   T
	err     *navxerr.Error // nil once a value is cached, until a fatal error

	stop     atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
	joined   atomic.Bool
	state    atomic.Int32

	successes atomic.Uint64
	transient atomic.Uint64
	invalid   atomic.Uint64
}

// New takes ownership of src and starts polling it.
func New[T any, S Source[T]](name string, src S, opts ...Option) *Watcher[T, S] {
	w := &Watcher[T, S]{
		name:   name,
		src:    src,
		err:    navxerr.ErrNotReady.With(name),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(&w.opts)
	}
	w.state.Store(int32(Starting))
	go w.run()
	return w
}

func (w *Watcher[T, S]) run() {
	defer close(w.done)
	w.state.Store(int32(Running))
	log.Infof("watch %s: started", w.name)

	for !w.stop.Load() {
		w.srcMu.Lock()
		v, err := w.src.Poll()
		w.srcMu.Unlock()

		if err == nil {
			w.cacheMu.Lock()
			w.value = v
			w.err = nil
			w.cacheMu.Unlock()
			w.successes.Add(1)
		} else if kind, _ := navxerr.KindOf(err); kind == navxerr.Transient {
			w.transient.Add(1)
			log.Debugf("watch %s: retrying: %v", w.name, err)
		} else if kind == navxerr.Invalid {
			n := w.invalid.Add(1)
			log.Debugf("watch %s: dropped attempt: %v", w.name, err)
			if w.successes.Load() == 0 && n >= invalidWarnAt && n&(n-1) == 0 {
				log.Warnf("watch %s: no valid reply after %d attempts: %v", w.name, n, err)
			}
		} else {
			fatal := navxerr.FromIO(w.name, err)
			w.cacheMu.Lock()
			var zero T
			w.value = zero
			w.err = fatal
			w.cacheMu.Unlock()
			w.stop.Store(true)
			w.state.Store(int32(Failed))
			log.Warnf("watch %s: stopped on fatal error: %v", w.name, fatal)
			return
		}

		if w.opts.interval > 0 {
			select {
			case <-time.After(w.opts.interval):
			case <-w.stopCh:
			}
		}
	}

	w.state.Store(int32(Stopped))
	log.Infof("watch %s: stopped", w.name)
}

// Get returns a copy of the cached value, navxerr.ErrNotReady before the
// first successful poll, or the fatal error that ended the worker.
func (w *Watcher[T, S]) Get() (T, error) {
	w.cacheMu.RLock()
	defer w.cacheMu.RUnlock()
	if w.err != nil {
		var zero T
		return zero, w.err.Clone()
	}
	return w.value, nil
}

// IsReady reports whether Get has settled on either a value or the fatal
// error that ended the worker.
func (w *Watcher[T, S]) IsReady() bool {
	w.cacheMu.RLock()
	defer w.cacheMu.RUnlock()
	return w.err == nil || w.err.Kind == navxerr.Fatal
}

// Stop asks the worker to exit after the poll in flight. It does not wait.
func (w *Watcher[T, S]) Stop() {
	w.stopOnce.Do(func() {
		w.stop.Store(true)
		close(w.stopCh)
	})
}

// IsStopped reports whether Stop has been called or the worker ended on
// a fatal error.
func (w *Watcher[T, S]) IsStopped() bool { return w.stop.Load() }

// Done is closed when the worker has exited.
func (w *Watcher[T, S]) Done() <-chan struct{} { return w.done }

func (w *Watcher[T, S]) State() State { return State(w.state.Load()) }

func (w *Watcher[T, S]) Name() string { return w.name }

func (w *Watcher[T, S]) Stats() Stats {
	return Stats{
		Successes: w.successes.Load(),
		Transient: w.transient.Load(),
		Invalid:   w.invalid.Load(),
	}
}

// Join waits for the worker to exit and returns the source. If the worker
// ended on a fatal error, that error is returned instead, since the
// source is presumed broken. Join does not request a stop itself; a
// second Join returns navxerr.ErrJoined.
func (w *Watcher[T, S]) Join() (S, error) {
	<-w.done
	return w.reclaim()
}

// JoinContext is Join with the wait bounded by ctx. When ctx ends first
// the worker keeps running and Join may be called again.
func (w *Watcher[T, S]) JoinContext(ctx context.Context) (S, error) {
	select {
	case <-w.done:
		return w.reclaim()
	case <-ctx.Done():
		var zero S
		return zero, ctx.Err()
	}
}

// Close stops the worker and joins it.
func (w *Watcher[T, S]) Close() (S, error) {
	w.Stop()
	return w.Join()
}

func (w *Watcher[T, S]) reclaim() (S, error) {
	var zero S
	if !w.joined.CompareAndSwap(false, true) {
		return zero, navxerr.ErrJoined.With(w.name)
	}

	w.cacheMu.RLock()
	failed := w.err != nil && w.err.Kind == navxerr.Fatal
	var err error
	if failed {
		err = w.err.Clone()
	}
	w.cacheMu.RUnlock()
	if failed {
		return zero, err
	}

	w.srcMu.Lock()
	defer w.srcMu.Unlock()
	src := w.src
	w.src = zero
	return src, nil
}
