// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wirebatch

import "fmt"

// readResult is the outcome of one frame-decode attempt.
type readResult uint8

const (
	// readConsumed: a frame was dispatched and consumed; the batch may continue.
	readConsumed readResult = iota
	// readNeedMore: the buffered bytes do not hold a full frame; the inbound
	// position is untouched and the batch ends.
	readNeedMore
	// readStop: a frame was consumed but the batch must end now, either
	// because it was a control frame or because the processor wrote a
	// response that should flush before further reads.
	readStop
)

// Process consumes complete frames buffered in, dispatching each to the
// Processor, until input or outbound headroom runs out. It is the sole
// entry point; its side effects are advancing in's position past consumed
// frames and whatever the Processor writes into out.
//
// When in holds fewer bytes than a header, Process instead gives the
// Processor one Publish opportunity and rolls the outbound position back if
// nothing was written.
//
// The returned error is nil in every case except protocol corruption
// (ErrCorruptedStream), after which the connection must not be reused.
// Processor failures are logged, the offending frame is dropped, and the
// batch continues on later calls; they are never surfaced here.
func (h *Handler) Process(in, out *Window, sess any) error {
	if in == nil || out == nil {
		return ErrInvalidArgument
	}
	h.ensureAdapters(in, out)

	if in.Remaining() < headerLen {
		h.publishOnly(out)
		return nil
	}

	for {
		res, err := h.readOne(in, out, sess)
		if err != nil {
			return err
		}
		if res != readConsumed {
			return nil
		}
		// Keep batching only while another header plausibly fits and at
		// least 1/HeadroomDivisor of outbound capacity is still free for
		// whatever the next frame's response may need.
		if in.Remaining() <= headerLen || out.Remaining() <= out.Capacity()/h.opts.HeadroomDivisor {
			return nil
		}
	}
}

// readOne attempts to decode and dispatch the single frame at in's current
// position.
//
// The frame is consumed in full on every outcome except readNeedMore,
// including when the Processor fails: the limit narrowing and position
// advance around the Processor call are restored unconditionally, so one
// failing message can never desynchronize the frames after it.
func (h *Handler) readOne(in, out *Window, sess any) (readResult, error) {
	header := in.PeekUint32(h.opts.ByteOrder)
	length, isData := h.opts.Codec.Decode(header)
	if length >= MaxFrameLength {
		h.log.Error().
			Uint32("header", header).
			Uint32("length", length).
			Int("position", in.Position()).
			Msg("frame header declares out-of-range length")
		return readStop, fmt.Errorf("%w: header %#08x declares length %d at position %d",
			ErrCorruptedStream, header, length, in.Position())
	}

	// A zero-length data frame is a control frame (heartbeat): consume the
	// header, skip dispatch, end this batch. Zero-length metadata still
	// carries meaning and goes to the processor below.
	if length == 0 && isData {
		in.Skip(headerLen)
		if m := h.opts.Metrics; m != nil {
			m.controlFrames.Inc()
		}
		return readStop, nil
	}

	if in.Remaining()-headerLen < int(length) {
		h.log.Debug().
			Uint32("length", length).
			Int("buffered", in.Remaining()-headerLen).
			Msg("incomplete frame buffered")
		return readNeedMore, nil
	}

	limit := in.Limit()
	end := in.Position() + headerLen + int(length)
	outPos := out.Position()

	// Narrow the visible region to exactly this frame so the processor
	// cannot read into the next one, then restore cursors no matter how the
	// call returns.
	err := func() error {
		defer func() {
			in.SetLimit(limit)
			in.SetPosition(end)
		}()
		in.SetLimit(end)
		in.Skip(headerLen)
		return h.proc.Process(h.inBound.adapter, h.outBound.adapter, sess)
	}()

	written := out.Position() - outPos
	if m := h.opts.Metrics; m != nil {
		m.framesConsumed.Inc()
		m.bytesIn.Add(float64(headerLen + int(length)))
		if written > 0 {
			m.bytesOut.Add(float64(written))
		}
	}
	if err != nil {
		if m := h.opts.Metrics; m != nil {
			m.processorFailures.Inc()
		}
		h.log.Error().
			Err(err).
			Uint32("length", length).
			Bool("is_data", isData).
			Msg("message processor failed; frame dropped")
	}

	if written > 0 {
		return readStop, nil
	}
	return readConsumed, nil
}

// publishOnly runs the unsolicited-write pass used when the inbound window
// holds less than one header. An empty write never leaves the outbound
// position advanced.
func (h *Handler) publishOnly(out *Window) {
	outPos := out.Position()
	h.proc.Publish(h.outBound.adapter)
	written := out.Position() - outPos
	if written == 0 {
		out.SetPosition(outPos)
		return
	}
	if written < 0 || written > out.Capacity() {
		panic(fmt.Sprintf("wirebatch: publish wrote %d bytes into a %d-byte window", written, out.Capacity()))
	}
	if m := h.opts.Metrics; m != nil {
		m.publishes.Inc()
		m.bytesOut.Add(float64(written))
	}
}

// ensureAdapters rebinds the per-direction adapters when the window
// identity changed since the last call, or unconditionally when a force
// rebind is pending. Identity is the window's ID handle: cursor or content
// changes within the same window never rebind.
func (h *Handler) ensureAdapters(in, out *Window) {
	if h.forceRebind {
		h.forceRebind = false
		h.inBound = binding{windowID: in.ID(), adapter: h.factory(in)}
		h.outBound = binding{windowID: out.ID(), adapter: h.factory(out)}
		return
	}
	if h.inBound.adapter == nil || h.inBound.windowID != in.ID() {
		h.inBound = binding{windowID: in.ID(), adapter: h.factory(in)}
	}
	if h.outBound.adapter == nil || h.outBound.windowID != out.ID() {
		h.outBound = binding{windowID: out.ID(), adapter: h.factory(out)}
	}
}
