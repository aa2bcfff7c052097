// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wirebatch

import (
	"encoding/binary"

	"code.hybscloud.com/wirebatch/internal/bo"
)

// Transport option helpers.
//
// Byte-order policy:
//   - Network transports (TCP, Unix stream) use BigEndian headers
//     (network byte order), interoperable across architectures.
//   - Local transports (in-process pipes, shared memory) use the native
//     byte order, avoiding swap cost when both ends share a machine.

// WithNetwork configures header byte order for network transports: BigEndian.
func WithNetwork() Option {
	return func(o *Options) { o.ByteOrder = binary.BigEndian }
}

// WithLocal configures header byte order for same-machine transports:
// the native order.
func WithLocal() Option {
	return func(o *Options) { o.ByteOrder = bo.Native() }
}
