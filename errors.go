// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wirebatch

import "errors"

var (
	// ErrInvalidArgument reports an invalid configuration or nil collaborator.
	ErrInvalidArgument = errors.New("wirebatch: invalid argument")

	// ErrCorruptedStream reports a frame header declaring a payload length
	// outside [0, MaxFrameLength). Length framing cannot be trusted past
	// this point; the caller should terminate the connection.
	ErrCorruptedStream = errors.New("wirebatch: corrupted stream")

	// ErrTooLong reports a payload that does not fit the header length field.
	ErrTooLong = errors.New("wirebatch: frame too long")
)
