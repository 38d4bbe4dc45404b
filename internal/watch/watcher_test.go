// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package watch

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/relabs-tech/navx/internal/navxerr"
	"github.com/relabs-tech/navx/internal/protocol"
	"github.com/relabs-tech/navx/internal/registers"
	"github.com/relabs-tech/navx/internal/transport"
)

// eventually polls cond until it holds or two seconds pass.
func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

// counter returns 1, 2, 3, ... and fails according to fail.
type counter struct {
	calls atomic.Int64
	fail  func(call int64) error
}

func (c *counter) Poll() (int64, error) {
	n := c.calls.Add(1)
	if c.fail != nil {
		if err := c.fail(n); err != nil {
			return 0, err
		}
	}
	return n, nil
}

func TestNotReadyBeforeFirstPoll(t *testing.T) {
	release := make(chan struct{})
	src := newBlocking(release)
	w := New[int64]("blocked", src)

	_, err := w.Get()
	if !errors.Is(err, navxerr.ErrNotReady) || !navxerr.IsTransient(err) {
		t.Fatalf("Get before first poll = %v", err)
	}
	if w.IsReady() {
		t.Fatal("IsReady before first poll")
	}

	close(release)
	eventually(t, "first value", w.IsReady)
	if v, err := w.Get(); err != nil || v != 7 {
		t.Fatalf("Get = %v, %v", v, err)
	}
	if _, err := w.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestLivenessAndNoRegression(t *testing.T) {
	src := &counter{}
	w := New[int64]("counter", src)

	eventually(t, "first value", w.IsReady)
	if w.State() != Running {
		t.Fatalf("state = %v", w.State())
	}

	var last int64
	for i := 0; i < 2000; i++ {
		v, err := w.Get()
		if err != nil {
			t.Fatalf("Get after ready = %v", err)
		}
		if v < last {
			t.Fatalf("value regressed from %d to %d", last, v)
		}
		last = v
	}
	if _, err := w.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestTransientFailuresAreRetried(t *testing.T) {
	src := &counter{fail: func(n int64) error {
		if n%2 == 1 {
			return io.ErrUnexpectedEOF
		}
		return nil
	}}
	w := New[int64]("flaky", src)

	eventually(t, "a value despite transient failures", w.IsReady)
	eventually(t, "more polls", func() bool { return w.Stats().Transient > 10 })
	if w.State() != Running {
		t.Fatalf("state = %v", w.State())
	}
	v, err := w.Get()
	if err != nil || v%2 != 0 {
		t.Fatalf("Get = %v, %v", v, err)
	}
	if _, err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if w.State() != Stopped {
		t.Fatalf("state after close = %v", w.State())
	}
}

func TestInvalidAttemptsAreCountedNotCached(t *testing.T) {
	hook := logtest.NewGlobal()
	defer log.StandardLogger().ReplaceHooks(make(log.LevelHooks))

	src := &counter{fail: func(int64) error { return navxerr.ErrChecksum }}
	w := New[int64]("garbled", src)

	eventually(t, "invalid attempts", func() bool { return w.Stats().Invalid > invalidWarnAt })
	if w.IsReady() || w.State() != Running {
		t.Fatalf("ready=%v state=%v", w.IsReady(), w.State())
	}
	if _, err := w.Get(); !errors.Is(err, navxerr.ErrNotReady) {
		t.Fatalf("Get = %v", err)
	}
	got, err := w.Close()
	if err != nil || got != src {
		t.Fatalf("Close = %v, %v", got, err)
	}

	warned := false
	for _, e := range hook.AllEntries() {
		if e.Level == log.WarnLevel && strings.Contains(e.Message, "watch garbled: no valid reply") {
			warned = true
		}
	}
	if !warned {
		t.Fatal("a watcher that only sees rejected replies logged no warning")
	}
}

func TestFatalErrorEndsWorker(t *testing.T) {
	fatal := navxerr.New(navxerr.Fatal, "spi", "connection reset")
	src := &counter{fail: func(n int64) error {
		if n > 3 {
			return fatal
		}
		return nil
	}}
	w := New[int64]("doomed", src)

	<-w.Done()
	if w.State() != Failed {
		t.Fatalf("state = %v", w.State())
	}
	calls := src.calls.Load()
	for i := 0; i < 3; i++ {
		if _, err := w.Get(); !errors.Is(err, fatal) || !navxerr.IsFatal(err) {
			t.Fatalf("Get after fatal = %v", err)
		}
	}
	if !w.IsReady() {
		t.Fatal("not ready after fatal; waiters would hang")
	}
	if !w.IsStopped() {
		t.Fatal("IsStopped false after the worker failed")
	}
	got, err := w.Join()
	if got != nil || !errors.Is(err, fatal) {
		t.Fatalf("Join = %v, %v", got, err)
	}
	if src.calls.Load() != calls {
		t.Fatal("source polled after the worker failed")
	}
}

func TestFatalOSErrorKeepsErrno(t *testing.T) {
	src := &counter{fail: func(int64) error { return syscall.ECONNRESET }}
	w := New[int64]("reset", src)
	<-w.Done()
	_, err := w.Join()
	if !errors.Is(err, syscall.ECONNRESET) {
		t.Fatalf("Join err = %v", err)
	}
}

func TestCleanShutdownReturnsSource(t *testing.T) {
	src := &counter{}
	w := New[int64]("clean", src)
	eventually(t, "first value", w.IsReady)

	w.Stop()
	if !w.IsStopped() {
		t.Fatal("IsStopped false after Stop")
	}
	got, err := w.Join()
	if err != nil || got != src {
		t.Fatalf("Join = %v, %v", got, err)
	}

	before, calls := w.Stats(), src.calls.Load()
	v1, _ := w.Get()
	time.Sleep(20 * time.Millisecond)
	v2, _ := w.Get()
	if w.Stats() != before || src.calls.Load() != calls || v1 != v2 {
		t.Fatal("cache written after Join returned")
	}
	if w.State() != Stopped {
		t.Fatalf("state = %v", w.State())
	}

	if _, err := w.Join(); !errors.Is(err, navxerr.ErrJoined) {
		t.Fatalf("second Join = %v", err)
	}
}

// blocking returns 7 once release is closed. entered is closed when the
// first poll starts.
type blocking struct {
	release chan struct{}
	entered chan struct{}
	once    sync.Once
}

func newBlocking(release chan struct{}) *blocking {
	return &blocking{release: release, entered: make(chan struct{})}
}

func (b *blocking) Poll() (int64, error) {
	b.once.Do(func() { close(b.entered) })
	<-b.release
	return 7, nil
}

func TestJoinContextBoundsTheWait(t *testing.T) {
	release := make(chan struct{})
	src := newBlocking(release)
	w := New[int64]("stuck", src)
	<-src.entered
	w.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := w.JoinContext(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("JoinContext = %v", err)
	}

	close(release)
	got, err := w.JoinContext(context.Background())
	if err != nil || got != src {
		t.Fatalf("JoinContext after release = %v, %v", got, err)
	}
}

func TestIntervalDoesNotDelayStop(t *testing.T) {
	src := &counter{}
	w := New[int64]("slow", src, WithInterval(time.Hour))
	eventually(t, "first value", w.IsReady)

	start := time.Now()
	if _, err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if time.Since(start) > time.Second {
		t.Fatal("stop waited for the poll interval")
	}
	if src.calls.Load() != 1 {
		t.Fatalf("polled %d times inside one interval", src.calls.Load())
	}
}

// corrupting answers every identity read with a frame whose checksum has
// one bit flipped.
type corrupting struct {
	pending []byte
	writes  atomic.Int64
}

func (c *corrupting) Write(b []byte) (int, error) {
	c.writes.Add(1)
	frame := protocol.AppendFrame(nil, []byte{0x32, 0x05, 0x03, 0x1F})
	frame[len(frame)-1] ^= 0x10
	c.pending = frame
	return len(b), nil
}

func (c *corrupting) Read(b []byte) (int, error) {
	n := copy(b, c.pending)
	c.pending = c.pending[n:]
	return n, nil
}

func TestCorruptChecksumIsNeverCached(t *testing.T) {
	port := &corrupting{}
	reader := transport.NewReader(transport.NewAdapter(port), registers.IdentityBinding)
	w := New[registers.Identity]("identity", reader)

	eventually(t, "rejected frames", func() bool { return w.Stats().Invalid > 10 })
	if w.IsReady() || w.State() != Running || w.Stats().Successes != 0 {
		t.Fatalf("ready=%v state=%v stats=%+v", w.IsReady(), w.State(), w.Stats())
	}

	got, err := w.Close()
	if err != nil || got != reader || got.Adapter.Transport() != port {
		t.Fatalf("Close = %v, %v", got, err)
	}
}
