package docsync

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/iudanet/docsync/internal/config"
)

// SyncConfig tunes publishing, retries and catch-up of a DB
type SyncConfig = config.Sync

// DefaultSyncConfig returns the defaults used when WithConfig is not given
func DefaultSyncConfig() SyncConfig {
	return config.DefaultSync()
}

// Option configures Open
type Option func(*options)

type options struct {
	logger       *slog.Logger
	registerer   prometheus.Registerer
	syncRequired *bool
	passphrase   string
	cfg          config.Sync
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithConfig replaces the sync configuration
func WithConfig(cfg SyncConfig) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// WithRegisterer registers the sync metrics with reg
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithSyncRequired makes Start fail when the room cannot be joined,
// instead of continuing local-only. Overrides the value in WithConfig.
func WithSyncRequired(required bool) Option {
	return func(o *options) {
		o.syncRequired = &required
	}
}

// WithPassphrase encrypts every message with a key derived from passphrase
// and the room id. All peers of a room must use the same passphrase.
func WithPassphrase(passphrase string) Option {
	return func(o *options) {
		o.passphrase = passphrase
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger: slog.New(slog.DiscardHandler),
		cfg:    config.DefaultSync(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.syncRequired != nil {
		o.cfg.SyncRequired = *o.syncRequired
	}
	return o
}
