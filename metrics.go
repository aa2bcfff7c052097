// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wirebatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts framing activity. Attach one to a Handler via WithMetrics;
// a nil Metrics disables counting entirely. One Metrics bundle may be
// shared by many Handlers registered against the same registry.
type Metrics struct {
	framesConsumed    prometheus.Counter
	controlFrames     prometheus.Counter
	processorFailures prometheus.Counter
	publishes         prometheus.Counter
	bytesIn           prometheus.Counter
	bytesOut          prometheus.Counter
}

// NewMetrics builds and registers the framing counters with reg. A nil reg
// falls back to prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		framesConsumed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "wirebatch",
			Name:      "frames_consumed_total",
			Help:      "Frames decoded and dispatched, including failed dispatches.",
		}),
		controlFrames: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "wirebatch",
			Name:      "control_frames_total",
			Help:      "Zero-length data frames consumed without dispatch.",
		}),
		processorFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "wirebatch",
			Name:      "processor_failures_total",
			Help:      "Frames whose processor returned an error and were dropped.",
		}),
		publishes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "wirebatch",
			Name:      "publishes_total",
			Help:      "Publish-only passes that produced outbound bytes.",
		}),
		bytesIn: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "wirebatch",
			Name:      "inbound_bytes_total",
			Help:      "Consumed frame bytes, headers included.",
		}),
		bytesOut: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "wirebatch",
			Name:      "outbound_bytes_total",
			Help:      "Bytes written into outbound windows by processors.",
		}),
	}
}
