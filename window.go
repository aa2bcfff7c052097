// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wirebatch

import (
	"encoding/binary"
	"fmt"
	"sync/atomic"
)

// windowSerial issues process-wide unique window identities.
var windowSerial atomic.Uint64

// Window is a cursor-bounded mutable view over a byte buffer.
//
// Three cursors govern access: position (next byte to read or write), limit
// (end of the visible region) and capacity (total usable size), with the
// invariant 0 <= position <= limit <= capacity. Both reading and writing
// advance position; Remaining reports limit minus position.
//
// Every Window carries a process-wide unique identity handle, assigned at
// construction and never reused. The Handler's adapter bindings key on this
// handle, so mutating a Window's contents or cursors never triggers a
// rebind; only presenting a different Window instance does.
//
// A Window is not safe for concurrent use.
type Window struct {
	id  uint64
	buf []byte
	pos int
	lim int
}

// NewWindow returns an empty Window with the given capacity, positioned for
// writing: position 0, limit equal to capacity.
func NewWindow(capacity int) *Window {
	if capacity < 0 {
		panic("wirebatch: negative window capacity")
	}
	return &Window{
		id:  windowSerial.Add(1),
		buf: make([]byte, capacity),
		lim: capacity,
	}
}

// ID returns the window's identity handle.
func (w *Window) ID() uint64 { return w.id }

// Position returns the read/write cursor.
func (w *Window) Position() int { return w.pos }

// SetPosition moves the read/write cursor. It panics when p violates the
// cursor invariant.
func (w *Window) SetPosition(p int) {
	if p < 0 || p > w.lim {
		panic(fmt.Sprintf("wirebatch: position %d outside [0, %d]", p, w.lim))
	}
	w.pos = p
}

// Limit returns the end of the visible region.
func (w *Window) Limit() int { return w.lim }

// SetLimit moves the end of the visible region. It panics when l violates
// the cursor invariant.
func (w *Window) SetLimit(l int) {
	if l < w.pos || l > len(w.buf) {
		panic(fmt.Sprintf("wirebatch: limit %d outside [%d, %d]", l, w.pos, len(w.buf)))
	}
	w.lim = l
}

// Capacity returns the total usable size.
func (w *Window) Capacity() int { return len(w.buf) }

// Remaining returns limit minus position: readable bytes in read mode, free
// space in write mode.
func (w *Window) Remaining() int { return w.lim - w.pos }

// Skip advances position by n. It panics when fewer than n bytes remain.
func (w *Window) Skip(n int) {
	w.SetPosition(w.pos + n)
}

// Flip switches a written Window to reading: limit moves to the current
// position, position resets to zero.
func (w *Window) Flip() {
	w.lim = w.pos
	w.pos = 0
}

// Compact discards consumed bytes: the region between position and limit
// moves to the front, position resets to zero and limit to the length of
// the moved region. Subsequent writes via writeRegion append after it.
func (w *Window) Compact() {
	n := copy(w.buf, w.buf[w.pos:w.lim])
	w.pos = 0
	w.lim = n
}

// Reset empties the Window back to write mode: position zero, limit at
// capacity.
func (w *Window) Reset() {
	w.pos = 0
	w.lim = len(w.buf)
}

// Readable returns the visible bytes between position and limit without
// consuming them. The slice aliases the Window's storage and is valid only
// until the next cursor or content mutation.
func (w *Window) Readable() []byte {
	return w.buf[w.pos:w.lim]
}

// WriteBytes copies p into the visible region and advances position. It
// reports the number of bytes copied, which is less than len(p) when the
// region is too small.
func (w *Window) WriteBytes(p []byte) int {
	n := copy(w.buf[w.pos:w.lim], p)
	w.pos += n
	return n
}

// ReadBytes copies up to len(p) visible bytes into p and advances position.
func (w *Window) ReadBytes(p []byte) int {
	n := copy(p, w.buf[w.pos:w.lim])
	w.pos += n
	return n
}

// PeekUint32 reads a 32-bit integer at the current position in the given
// byte order without advancing. It panics when fewer than 4 bytes remain.
func (w *Window) PeekUint32(order binary.ByteOrder) uint32 {
	if w.Remaining() < 4 {
		panic("wirebatch: peek past limit")
	}
	return order.Uint32(w.buf[w.pos : w.pos+4])
}

// writeRegion exposes the unused storage after limit, for the Loop driver
// to fill from a transport read. advanceLimit publishes n filled bytes.
func (w *Window) writeRegion() []byte {
	return w.buf[w.lim:]
}

func (w *Window) advanceLimit(n int) {
	if n < 0 || w.lim+n > len(w.buf) {
		panic("wirebatch: limit advance past capacity")
	}
	w.lim += n
}
