// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wirebatch

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

type metricsProbeProcessor struct {
	err     error
	reply   []byte
	publish []byte
}

func (p *metricsProbeProcessor) Process(in, out Adapter, sess any) error {
	if len(p.reply) > 0 {
		out.Window().WriteBytes(p.reply)
	}
	return p.err
}

func (p *metricsProbeProcessor) Publish(out Adapter) {
	if len(p.publish) > 0 {
		out.Window().WriteBytes(p.publish)
	}
}

func TestMetrics_CountFramingActivity(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	proc := &metricsProbeProcessor{}
	h, err := NewHandler(proc, RawAdapter, WithMetrics(m))
	require.NoError(t, err)

	in := NewWindow(256)
	require.NoError(t, AppendFrame(in, DefaultHeaderCodec, binary.BigEndian, true, []byte("hello")))
	require.NoError(t, AppendFrame(in, DefaultHeaderCodec, binary.BigEndian, false, []byte("meta")))
	require.NoError(t, AppendFrame(in, DefaultHeaderCodec, binary.BigEndian, true, nil)) // control
	in.Flip()
	out := NewWindow(256)

	require.NoError(t, h.Process(in, out, nil))
	require.Equal(t, float64(2), testutil.ToFloat64(m.framesConsumed))
	require.Equal(t, float64(1), testutil.ToFloat64(m.controlFrames))
	require.Equal(t, float64(0), testutil.ToFloat64(m.processorFailures))
	// Two dispatched frames: 4+5 and 4+4 bytes.
	require.Equal(t, float64(17), testutil.ToFloat64(m.bytesIn))
}

func TestMetrics_CountProcessorFailures(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	proc := &metricsProbeProcessor{err: errors.New("decode failure")}
	h, err := NewHandler(proc, RawAdapter, WithMetrics(m))
	require.NoError(t, err)

	in := NewWindow(64)
	require.NoError(t, AppendFrame(in, DefaultHeaderCodec, binary.BigEndian, true, []byte("bad")))
	in.Flip()

	require.NoError(t, h.Process(in, NewWindow(64), nil))
	require.Equal(t, float64(1), testutil.ToFloat64(m.framesConsumed))
	require.Equal(t, float64(1), testutil.ToFloat64(m.processorFailures))
}

func TestMetrics_CountPublishesAndOutboundBytes(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	proc := &metricsProbeProcessor{reply: []byte("pong"), publish: []byte("hb")}
	h, err := NewHandler(proc, RawAdapter, WithMetrics(m))
	require.NoError(t, err)

	// Publish-only pass: inbound holds less than a header.
	in := NewWindow(8)
	in.Flip()
	out := NewWindow(64)
	require.NoError(t, h.Process(in, out, nil))
	require.Equal(t, float64(1), testutil.ToFloat64(m.publishes))
	require.Equal(t, float64(2), testutil.ToFloat64(m.bytesOut))

	// Dispatched frame with a reply.
	in2 := NewWindow(64)
	require.NoError(t, AppendFrame(in2, DefaultHeaderCodec, binary.BigEndian, true, []byte("ping")))
	in2.Flip()
	require.NoError(t, h.Process(in2, out, nil))
	require.Equal(t, float64(6), testutil.ToFloat64(m.bytesOut))
}
