// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package wirebatch provides the framing layer of a length-prefixed binary
// wire protocol: it turns an inbound byte window into a sequence of bounded
// frame views, dispatches each view to a message processor, and batches
// frames per call under an outbound headroom limit.
//
// Semantics and design:
//   - Batched dispatch: one call to Handler.Process consumes as many complete
//     frames as the inbound window holds, stopping early when the processor
//     writes a response (flush first) or when outbound headroom drops below
//     the configured fraction of capacity.
//   - Partial-read safe: an incomplete frame leaves the inbound position
//     untouched so the stream never desynchronizes; the caller supplies more
//     bytes and calls Process again.
//   - Failure isolation: a processor error while handling one frame is
//     logged and swallowed, and the frame is still consumed in full. Only a
//     corrupted header (out-of-range frame length) is surfaced, as
//     ErrCorruptedStream; length framing cannot be trusted past that point.
//   - Adapter reuse: protocol adapters are bound to window identity and
//     rebuilt only when the underlying window changes, keeping per-call
//     reconstruction off the hot path.
//   - Non-blocking first: the Loop driver surfaces iox.ErrWouldBlock and
//     iox.ErrMore as control-flow signals (re-exposed as
//     wirebatch.ErrWouldBlock / wirebatch.ErrMore). Hot paths avoid
//     allocations and return promptly.
//
// Wire format: each frame is a 4-byte header followed by the payload. The
// header is an unsigned 32-bit integer in the configured byte order; a
// HeaderCodec extracts the payload length and a data/metadata discriminator
// from it. Payload length is bounded below MaxFrameLength (4 MiB). A frame
// with zero length and the data flag set is a control frame (heartbeat) and
// is consumed without dispatching to the processor; a zero-length metadata
// frame is still dispatched.
package wirebatch

import (
	"code.hybscloud.com/iox"
	"github.com/rs/zerolog"
)

// Handler decodes batches of frames from an inbound byte window and
// dispatches them to a Processor.
//
// A Handler serves one connection at a time: calls to Process for the same
// window pair must be serialized by the caller. Distinct Handler instances
// share no state and may run fully in parallel.
type Handler struct {
	proc    Processor
	factory AdapterFactory

	opts Options
	log  zerolog.Logger

	inBound  binding
	outBound binding

	// One-shot: rebinds both directions on the next Process, then clears.
	forceRebind bool
}

// binding pairs a protocol adapter with the identity of the window it was
// built over. Compared by window ID, never by contents or position.
type binding struct {
	windowID uint64
	adapter  Adapter
}

// NewHandler constructs a Handler dispatching to proc, using factory to
// build a protocol adapter over each bound byte window.
func NewHandler(proc Processor, factory AdapterFactory, opts ...Option) (*Handler, error) {
	if proc == nil || factory == nil {
		return nil, ErrInvalidArgument
	}
	o := defaultOptions
	for _, fn := range opts {
		fn(&o)
	}
	if o.HeadroomDivisor < 1 || o.WindowCapacity < minWindowCapacity {
		return nil, ErrInvalidArgument
	}
	return &Handler{
		proc:    proc,
		factory: factory,
		opts:    o,
		log:     o.Logger,
	}, nil
}

// InvalidateAdapters forces both directions to rebind on the next Process
// call, regardless of window identity. The flag clears after one rebind.
func (h *Handler) InvalidateAdapters() {
	h.forceRebind = true
}

// These are provided as package-level aliases so callers can reference the
// semantic control-flow errors without importing iox directly.
var (
	// ErrWouldBlock means “no further progress without waiting”.
	//
	// It is an expected, non-failure control-flow signal for non-blocking I/O.
	// Any returned byte count (n) still represents real progress.
	//
	// Caller action: stop the current attempt and retry after readiness.
	ErrWouldBlock = iox.ErrWouldBlock

	// ErrMore means “this completion is usable and more completions will follow”.
	//
	// It is not io.EOF and not “try later”. The operation remains active and
	// additional data/results are expected from the same ongoing operation.
	ErrMore = iox.ErrMore
)
