package relay

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	peers     prometheus.Gauge
	frames    prometheus.Counter
	dropped   prometheus.Counter
	rejected  *prometheus.CounterVec
	frameSize prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		peers: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "docsync",
			Subsystem: "relay",
			Name:      "connected_peers",
			Help:      "Number of peers currently connected.",
		}),
		frames: f.NewCounter(prometheus.CounterOpts{
			Namespace: "docsync",
			Subsystem: "relay",
			Name:      "frames_total",
			Help:      "Frames received from peers.",
		}),
		dropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: "docsync",
			Subsystem: "relay",
			Name:      "frames_dropped_total",
			Help:      "Frames dropped because a peer's send buffer was full.",
		}),
		rejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "docsync",
			Subsystem: "relay",
			Name:      "rejected_connections_total",
			Help:      "Websocket connections refused, by reason.",
		}, []string{"reason"}),
		frameSize: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "docsync",
			Subsystem: "relay",
			Name:      "frame_size_bytes",
			Help:      "Size of frames received from peers.",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
		}),
	}
}
