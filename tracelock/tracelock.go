// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package tracelock wraps a mutual-exclusion primitive with an optional
// diagnostic decorator that records the call stack of the most recent
// acquisition. When a system deadlocks, dumping the decorated locks shows
// where each one was taken.
//
// The decorator is meant for development and debug configurations; New
// selects it once at construction, so production builds pay nothing:
//
//	mu := tracelock.New(cfg.Debug)
//
// Stack capture costs a small allocation per acquisition; keep decorated
// locks off hot paths.
package tracelock

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
)

// maxDepth bounds the recorded stack.
const maxDepth = 32

// New returns a Traced lock in debug mode, otherwise a plain *sync.Mutex.
func New(debug bool) sync.Locker {
	if debug {
		return Wrap(&sync.Mutex{})
	}
	return &sync.Mutex{}
}

// Traced decorates a sync.Locker, recording the acquiring call's stack on
// every successful acquisition and clearing it on release. The recorded
// stack is readable at any time through String, including from other
// goroutines while the lock is held.
type Traced struct {
	inner sync.Locker
	here  atomic.Pointer[[]uintptr]
}

// Wrap decorates l. The zero Traced is not usable; always construct
// through Wrap or New.
func Wrap(l sync.Locker) *Traced {
	return &Traced{inner: l}
}

// Lock acquires the wrapped lock and records the caller's stack.
func (t *Traced) Lock() {
	t.inner.Lock()
	t.capture()
}

// Unlock clears the recorded stack and releases the wrapped lock.
func (t *Traced) Unlock() {
	t.here.Store(nil)
	t.inner.Unlock()
}

// TryLock attempts a non-blocking acquisition when the wrapped primitive
// supports it, recording the stack on success. Wrapped primitives without
// TryLock always report false.
func (t *Traced) TryLock() bool {
	tl, ok := t.inner.(interface{ TryLock() bool })
	if !ok || !tl.TryLock() {
		return false
	}
	t.capture()
	return true
}

// String renders the stack recorded by the most recent acquisition, or a
// placeholder when the lock is not held.
func (t *Traced) String() string {
	pcs := t.here.Load()
	if pcs == nil {
		return "tracelock: not held"
	}
	var sb strings.Builder
	sb.WriteString("tracelock: acquired at")
	frames := runtime.CallersFrames(*pcs)
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&sb, "\n\tat %s (%s:%d)", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	return sb.String()
}

func (t *Traced) capture() {
	pcs := make([]uintptr, maxDepth)
	// Skip runtime.Callers and capture's caller (Lock/TryLock); keep the
	// acquiring frame itself.
	n := runtime.Callers(3, pcs)
	s := pcs[:n]
	t.here.Store(&s)
}
