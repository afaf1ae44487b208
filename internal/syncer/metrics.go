package syncer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	reasonDuplicate = "duplicate"
	reasonStale     = "stale"
)

// metrics of one engine. A nil registerer keeps them in a private registry.
type metrics struct {
	published      prometheus.Counter
	publishErrors  prometheus.Counter
	publishFailed  prometheus.Counter
	backlogDropped prometheus.Counter
	queueDepth     prometheus.Gauge
	applied        prometheus.Counter
	discarded      *prometheus.CounterVec
	afterGap       prometheus.Counter
	codecErrors    prometheus.Counter
	bursts         prometheus.Counter
	members        prometheus.Gauge
	catchUpServed  prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	counter := func(name, help string) prometheus.Counter {
		return f.NewCounter(prometheus.CounterOpts{Namespace: "docsync", Subsystem: "sync", Name: name, Help: help})
	}
	gauge := func(name, help string) prometheus.Gauge {
		return f.NewGauge(prometheus.GaugeOpts{Namespace: "docsync", Subsystem: "sync", Name: name, Help: help})
	}

	return &metrics{
		published:      counter("records_published_total", "Records delivered to the transport."),
		publishErrors:  counter("publish_errors_total", "Failed publish attempts, including retried ones."),
		publishFailed:  counter("records_publish_failed_total", "Records given up after retry exhaustion."),
		backlogDropped: counter("records_backlog_dropped_total", "Unsent records dropped because the queue was full."),
		queueDepth:     gauge("queue_depth", "Records waiting to be published."),
		applied:        counter("records_applied_total", "Remote records applied to the local store."),
		discarded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "docsync",
			Subsystem: "sync",
			Name:      "records_discarded_total",
			Help:      "Remote records not applied, by reason.",
		}, []string{"reason"}),
		afterGap:      counter("records_after_gap_total", "Remote records applied past a missing predecessor."),
		codecErrors:   counter("codec_errors_total", "Inbound messages dropped as malformed."),
		bursts:        counter("bursts_total", "Receive bursts processed."),
		members:       gauge("room_members", "Peers seen in the room."),
		catchUpServed: counter("catchup_records_served_total", "Outbox records sent in catch-up replies."),
	}
}
