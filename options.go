// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wirebatch

import (
	"encoding/binary"

	"github.com/rs/zerolog"
)

const (
	// minWindowCapacity is the smallest Loop window that can make progress:
	// room for a header and a little payload.
	minWindowCapacity = 16

	// defaultWindowCapacity sizes Loop windows when WithWindowCapacity is
	// not given.
	defaultWindowCapacity = 64 * 1024

	// defaultHeadroomDivisor is the batching backpressure fraction: keep
	// consuming frames only while more than capacity/divisor outbound bytes
	// remain free. A heuristic guard, not a derived bound; tune via
	// WithHeadroomDivisor.
	defaultHeadroomDivisor = 4
)

// Options configures a Handler and its Loop driver.
type Options struct {
	// Codec interprets the 32-bit frame header. Defaults to
	// DefaultHeaderCodec.
	Codec HeaderCodec

	// ByteOrder is the wire order of the header integer. Defaults to
	// BigEndian (network byte order).
	ByteOrder binary.ByteOrder

	// HeadroomDivisor tunes batching backpressure: the batch ends once
	// outbound free space drops to Capacity/HeadroomDivisor or below.
	// Must be at least 1.
	HeadroomDivisor int

	// WindowCapacity sizes the inbound and outbound windows a Loop
	// allocates. Ignored by Handler.Process, which works on caller-owned
	// windows.
	WindowCapacity int

	// Logger receives processor-failure and short-input events. Defaults
	// to a no-op logger.
	Logger zerolog.Logger

	// Metrics, when non-nil, counts frames, failures and bytes.
	Metrics *Metrics
}

var defaultOptions = Options{
	Codec:           DefaultHeaderCodec,
	ByteOrder:       binary.BigEndian,
	HeadroomDivisor: defaultHeadroomDivisor,
	WindowCapacity:  defaultWindowCapacity,
	Logger:          zerolog.Nop(),
}

type Option func(*Options)

// WithHeaderCodec sets the header codec.
func WithHeaderCodec(codec HeaderCodec) Option {
	return func(o *Options) { o.Codec = codec }
}

// WithByteOrder sets the wire byte order of the frame header.
func WithByteOrder(order binary.ByteOrder) Option {
	return func(o *Options) { o.ByteOrder = order }
}

// WithHeadroomDivisor sets the batching backpressure fraction.
func WithHeadroomDivisor(div int) Option {
	return func(o *Options) { o.HeadroomDivisor = div }
}

// WithWindowCapacity sets the Loop's window sizes in bytes.
func WithWindowCapacity(capacity int) Option {
	return func(o *Options) { o.WindowCapacity = capacity }
}

// WithLogger sets the structured logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithMetrics attaches a Metrics bundle.
func WithMetrics(m *Metrics) Option {
	return func(o *Options) { o.Metrics = m }
}
