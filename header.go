// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wirebatch

import (
	"encoding/binary"
	"io"
)

const (
	// headerLen is the size of the frame header on the wire.
	headerLen = 4

	// MaxFrameLength bounds the payload length a header may declare.
	// The decoder enforces this unconditionally: a header decoding to a
	// length at or above the bound is protocol corruption, not a large
	// frame.
	MaxFrameLength = 1 << 22

	rawLengthMask = 1<<30 - 1
	rawMetaBit    = 1 << 30
)

// HeaderCodec maps between a 32-bit frame header and its two fields:
// the payload length and the data/metadata discriminator.
//
// Decode must be pure and total; it is called once per frame on the hot
// path. The codec itself does not bound the length — the decoder applies
// the MaxFrameLength check to whatever the codec yields.
type HeaderCodec interface {
	Decode(header uint32) (length uint32, isData bool)
	Encode(length uint32, isData bool) uint32
}

// rawCodec packs the payload length into the low 30 bits and flags
// metadata frames with bit 30. Data frames leave the flag clear.
type rawCodec struct{}

func (rawCodec) Decode(header uint32) (length uint32, isData bool) {
	return header & rawLengthMask, header&rawMetaBit == 0
}

func (rawCodec) Encode(length uint32, isData bool) uint32 {
	header := length & rawLengthMask
	if !isData {
		header |= rawMetaBit
	}
	return header
}

// DefaultHeaderCodec is the codec used when no WithHeaderCodec option is
// given.
var DefaultHeaderCodec HeaderCodec = rawCodec{}

// AppendFrame writes one complete frame (header plus payload) into w,
// advancing its position. It is the write-side counterpart of the decode
// path, used to compose outbound traffic and test input.
//
// Returns ErrTooLong when the payload does not fit the length field and
// io.ErrShortBuffer when w lacks room for the whole frame.
func AppendFrame(w *Window, codec HeaderCodec, order binary.ByteOrder, isData bool, payload []byte) error {
	if len(payload) >= MaxFrameLength {
		return ErrTooLong
	}
	if w.Remaining() < headerLen+len(payload) {
		return io.ErrShortBuffer
	}
	var hdr [headerLen]byte
	order.PutUint32(hdr[:], codec.Encode(uint32(len(payload)), isData))
	w.WriteBytes(hdr[:])
	w.WriteBytes(payload)
	return nil
}
