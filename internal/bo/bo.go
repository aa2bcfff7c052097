// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package bo resolves the machine's native byte order, used for frame
// headers on same-machine transports where network order buys nothing.
package bo

import (
	"encoding/binary"
	"unsafe"
)

var native = detect()

// Native returns the machine's byte order.
func Native() binary.ByteOrder { return native }

func detect() binary.ByteOrder {
	var x uint16 = 0x0102
	if (*(*[2]byte)(unsafe.Pointer(&x)))[0] == 0x01 {
		return binary.BigEndian
	}
	return binary.LittleEndian
}
