// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wirebatch

// Adapter is protocol state bound to one byte window: whatever parser or
// writer machinery the message layer needs to interpret bytes in that
// window. The Handler builds adapters through its AdapterFactory and hands
// them to the Processor; it never inspects them beyond the bound window.
type Adapter interface {
	// Window returns the byte window this adapter is bound to.
	Window() *Window
}

// AdapterFactory builds an Adapter over a window. Called whenever the
// Handler binds a direction to a new window identity.
type AdapterFactory func(*Window) Adapter

// Processor consumes decoded frames. Implementations must not retain the
// adapters or their windows beyond the call, and must not read past the
// inbound window's limit: during Process the window is narrowed to exactly
// the current frame's payload.
type Processor interface {
	// Process handles one non-control frame. in is positioned at the start
	// of the payload with its limit at the frame boundary; out accepts any
	// response bytes; sess is the opaque per-connection context, passed
	// through unmodified.
	//
	// A returned error marks this one frame as failed. The frame is still
	// consumed and the connection continues.
	Process(in, out Adapter, sess any) error

	// Publish is invoked once per publish-only pass (inbound window too
	// short for even a header), allowing unsolicited outbound data such as
	// heartbeats. Writing nothing is a valid no-op.
	Publish(out Adapter)
}

// rawAdapter exposes the bound window with no additional protocol state.
type rawAdapter struct {
	w *Window
}

func (a rawAdapter) Window() *Window { return a.w }

// RawAdapter is an AdapterFactory for processors that interpret payload
// bytes directly and need no per-window parser state.
func RawAdapter(w *Window) Adapter { return rawAdapter{w: w} }
