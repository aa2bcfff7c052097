// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wirebatch_test

import (
	"encoding/binary"
	"errors"
	"testing"

	"code.hybscloud.com/wirebatch"
)

func TestOptions_ComposeCleanly(t *testing.T) {
	var o wirebatch.Options
	wirebatch.WithByteOrder(binary.LittleEndian)(&o)
	wirebatch.WithHeadroomDivisor(8)(&o)
	if o.ByteOrder != binary.LittleEndian {
		t.Fatalf("byte order not applied")
	}
	if o.HeadroomDivisor != 8 {
		t.Fatalf("headroom divisor=%d want 8", o.HeadroomDivisor)
	}
	// Unrelated fields stay untouched.
	if o.Codec != nil || o.WindowCapacity != 0 || o.Metrics != nil {
		t.Fatalf("unrelated fields changed: %+v", o)
	}

	wirebatch.WithWindowCapacity(4096)(&o)
	wirebatch.WithHeaderCodec(wirebatch.DefaultHeaderCodec)(&o)
	if o.WindowCapacity != 4096 || o.Codec == nil {
		t.Fatalf("later options not applied: %+v", o)
	}
	if o.ByteOrder != binary.LittleEndian {
		t.Fatalf("earlier option clobbered")
	}
}

func TestNetworkHelpers_SetByteOrder(t *testing.T) {
	var o wirebatch.Options
	wirebatch.WithNetwork()(&o)
	if o.ByteOrder != binary.BigEndian {
		t.Fatalf("network transport must use network byte order")
	}

	wirebatch.WithLocal()(&o)
	if o.ByteOrder != binary.BigEndian && o.ByteOrder != binary.LittleEndian {
		t.Fatalf("local transport must resolve a concrete native order, got %T", o.ByteOrder)
	}
}

func TestNewHandler_RejectsInvalidConfiguration(t *testing.T) {
	p := &stubProcessor{}
	cases := []struct {
		name string
		run  func() (*wirebatch.Handler, error)
	}{
		{"nil processor", func() (*wirebatch.Handler, error) {
			return wirebatch.NewHandler(nil, wirebatch.RawAdapter)
		}},
		{"nil factory", func() (*wirebatch.Handler, error) {
			return wirebatch.NewHandler(p, nil)
		}},
		{"zero headroom divisor", func() (*wirebatch.Handler, error) {
			return wirebatch.NewHandler(p, wirebatch.RawAdapter, wirebatch.WithHeadroomDivisor(0))
		}},
		{"tiny window capacity", func() (*wirebatch.Handler, error) {
			return wirebatch.NewHandler(p, wirebatch.RawAdapter, wirebatch.WithWindowCapacity(2))
		}},
	}
	for _, c := range cases {
		if _, err := c.run(); !errors.Is(err, wirebatch.ErrInvalidArgument) {
			t.Fatalf("%s: err=%v want ErrInvalidArgument", c.name, err)
		}
	}
}

func TestWithHeadroomDivisor_WidensBatch(t *testing.T) {
	// A larger divisor lowers the free-space threshold, so the
	// pre-advanced window from the backpressure scenario no longer stops
	// the batch.
	p := &stubProcessor{}
	h, err := wirebatch.NewHandler(p, wirebatch.RawAdapter, wirebatch.WithHeadroomDivisor(16))
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	in := inbound(t, 64,
		frameSpec{payload: []byte("one"), isData: true},
		frameSpec{payload: []byte("two"), isData: true},
	)
	out := wirebatch.NewWindow(16)
	out.Skip(13)

	if err := h.Process(in, out, nil); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(p.got) != 2 {
		t.Fatalf("dispatched %d frames, want 2 with divisor 1", len(p.got))
	}
}
