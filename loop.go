// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wirebatch

import (
	"io"
)

// Loop drives one connection: it owns an inbound/outbound window pair,
// fills the inbound window from a transport reader, runs the Handler's
// batch over the buffered bytes, and drains the outbound window to a
// transport writer.
//
// Semantics:
//   - One call to RunOnce performs at most one bounded fill→process→flush
//     cycle. It never blocks beyond what the underlying reader and writer
//     do; with non-blocking transports it returns ErrWouldBlock when no
//     progress is possible until readiness.
//   - Consumed inbound bytes are compacted away before each fill, so a
//     partial frame at the end of the window survives across cycles and is
//     completed by later reads.
//   - Outbound bytes produced by the processor are flushed before the next
//     fill. On a short write with ErrWouldBlock or ErrMore, the unflushed
//     region is retained and drained first on the next call.
//   - io.EOF is returned only once all buffered input is consumed and all
//     outbound bytes are flushed. A transport EOF in the middle of a frame
//     yields io.ErrUnexpectedEOF.
//
// Retry rule: on ErrWouldBlock or ErrMore the caller must retry RunOnce on
// the same Loop instance, because in-flight fill and flush progress is
// held in its windows.
//
// A Loop is not safe for concurrent use; calls to RunOnce must be
// serialized per connection. Independent Loops share nothing and run fully
// in parallel.
type Loop struct {
	h    *Handler
	rd   io.Reader
	wr   io.Writer
	sess any

	in  *Window
	out *Window

	// flushed marks the prefix of out's written region already handed to
	// the transport writer.
	flushed int

	eof bool
}

// NewLoop constructs a Loop over the given transport reader and writer.
// Window sizes come from the Handler's WindowCapacity option; sess is the
// opaque per-connection context handed through to the Processor.
func NewLoop(h *Handler, r io.Reader, w io.Writer, sess any) (*Loop, error) {
	if h == nil || r == nil || w == nil {
		return nil, ErrInvalidArgument
	}
	in := NewWindow(h.opts.WindowCapacity)
	in.Flip() // read mode, empty
	return &Loop{
		h:    h,
		rd:   r,
		wr:   w,
		sess: sess,
		in:   in,
		out:  NewWindow(h.opts.WindowCapacity),
	}, nil
}

// RunOnce performs one fill→process→flush cycle. n is the number of
// outbound bytes handed to the transport writer during this call.
//
// A nil error means the cycle made progress and the caller may loop
// immediately. ErrWouldBlock and ErrMore mean retry after transport
// readiness. io.EOF means the connection drained cleanly. Any other error,
// ErrCorruptedStream included, means the connection must be torn down.
func (l *Loop) RunOnce() (n int, err error) {
	// Drain outbound bytes left over from a previous short write before
	// reading anything new.
	n, err = l.flush()
	if err != nil {
		return n, err
	}

	// Fill the inbound window from the transport. A would-block read is
	// not a failure: whatever is already buffered still gets processed.
	var blocked error
	if !l.eof {
		l.in.Compact()
		region := l.in.writeRegion()
		if len(region) > 0 {
			rn, re := l.rd.Read(region)
			if rn > 0 {
				l.in.advanceLimit(rn)
			}
			switch re {
			case nil:
			case io.EOF:
				l.eof = true
			case ErrWouldBlock, ErrMore:
				blocked = re
			default:
				return n, re
			}
		}
	}

	buffered := l.in.Remaining()
	if err := l.h.Process(l.in, l.out, l.sess); err != nil {
		return n, err
	}

	fn, fe := l.flush()
	n += fn
	if fe != nil {
		return n, fe
	}

	// A frame longer than the whole inbound window can never complete, no
	// matter how many fills follow.
	if l.in.Remaining() == l.in.Capacity() && l.in.Remaining() == buffered {
		return n, ErrTooLong
	}

	if l.eof {
		if l.in.Remaining() == 0 && l.pending() == 0 {
			return n, io.EOF
		}
		if l.in.Remaining() == buffered && fn == 0 {
			// Transport ended mid-frame and no pass can complete it.
			return n, io.ErrUnexpectedEOF
		}
		return n, nil
	}
	if blocked != nil && l.in.Remaining() == buffered && fn == 0 {
		return n, blocked
	}
	return n, nil
}

// pending reports outbound bytes produced but not yet handed to the writer.
func (l *Loop) pending() int {
	return l.out.Position() - l.flushed
}

// flush hands the outbound window's unflushed region to the transport
// writer, retaining whatever a short or would-block write leaves behind.
// Once the region fully drains, the window resets for the next batch.
func (l *Loop) flush() (int, error) {
	total := 0
	for l.flushed < l.out.Position() {
		wn, we := l.wr.Write(l.out.buf[l.flushed:l.out.Position()])
		if wn > 0 {
			l.flushed += wn
			total += wn
		}
		if we != nil {
			return total, we
		}
		if wn == 0 {
			return total, io.ErrShortWrite
		}
	}
	if l.flushed > 0 {
		l.out.Reset()
		l.flushed = 0
	}
	return total, nil
}
