// Package config loads settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Netflix/go-env"
)

// Sync tunes the sync channel of one peer
type Sync struct {
	PublishTimeout  time.Duration `env:"DOCSYNC_PUBLISH_TIMEOUT,default=5s"`
	InitialBackoff  time.Duration `env:"DOCSYNC_PUBLISH_INITIAL_BACKOFF,default=100ms"`
	MaxBackoff      time.Duration `env:"DOCSYNC_PUBLISH_MAX_BACKOFF,default=5s"`
	OutboxRetention int           `env:"DOCSYNC_OUTBOX_RETENTION,default=10000"`
	QueueDepth      int           `env:"DOCSYNC_QUEUE_DEPTH,default=256"`
	MaxBatchRecords int           `env:"DOCSYNC_MAX_BATCH_RECORDS,default=512"`
	MaxBurst        int           `env:"DOCSYNC_MAX_BURST,default=64"`
	MaxAttempts     int           `env:"DOCSYNC_PUBLISH_MAX_ATTEMPTS,default=5"`
	CatchUpLimit    int           `env:"DOCSYNC_CATCHUP_LIMIT,default=1000"`
	CatchUpInterval time.Duration `env:"DOCSYNC_CATCHUP_INTERVAL,default=30s"`
	SyncRequired    bool          `env:"DOCSYNC_SYNC_REQUIRED,default=false"`
}

// DefaultSync returns the same values the env defaults produce
func DefaultSync() Sync {
	return Sync{
		PublishTimeout:  5 * time.Second,
		InitialBackoff:  100 * time.Millisecond,
		MaxBackoff:      5 * time.Second,
		OutboxRetention: 10000,
		QueueDepth:      256,
		MaxBatchRecords: 512,
		MaxBurst:        64,
		MaxAttempts:     5,
		CatchUpLimit:    1000,
		CatchUpInterval: 30 * time.Second,
	}
}

// Validate checks that every limit is usable
func (s Sync) Validate() error {
	var errs []error
	if s.QueueDepth < 1 {
		errs = append(errs, fmt.Errorf("queue depth must be positive, got %d", s.QueueDepth))
	}
	if s.MaxBatchRecords < 1 {
		errs = append(errs, fmt.Errorf("max batch records must be positive, got %d", s.MaxBatchRecords))
	}
	if s.MaxBurst < 1 {
		errs = append(errs, fmt.Errorf("max burst must be positive, got %d", s.MaxBurst))
	}
	if s.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("max attempts must be positive, got %d", s.MaxAttempts))
	}
	if s.PublishTimeout <= 0 {
		errs = append(errs, fmt.Errorf("publish timeout must be positive, got %s", s.PublishTimeout))
	}
	if s.InitialBackoff <= 0 || s.MaxBackoff < s.InitialBackoff {
		errs = append(errs, fmt.Errorf("invalid backoff range %s..%s", s.InitialBackoff, s.MaxBackoff))
	}
	if s.CatchUpInterval < 0 {
		errs = append(errs, fmt.Errorf("catch-up interval cannot be negative, got %s", s.CatchUpInterval))
	}
	if s.OutboxRetention < 0 {
		errs = append(errs, fmt.Errorf("outbox retention cannot be negative, got %d", s.OutboxRetention))
	}
	if s.CatchUpLimit < 0 {
		errs = append(errs, fmt.Errorf("catch-up limit cannot be negative, got %d", s.CatchUpLimit))
	}
	return errors.Join(errs...)
}

// Peer is the configuration of cmd/docsync
type Peer struct {
	Sync       Sync
	DBPath     string `env:"DOCSYNC_DB_PATH,default=docsync.db"`
	Driver     string `env:"DOCSYNC_DB_DRIVER,default=bolt"`
	RelayURL   string `env:"DOCSYNC_RELAY_URL,default=ws://127.0.0.1:8080"`
	Room       string `env:"DOCSYNC_ROOM"`
	Secret     string `env:"DOCSYNC_SECRET"`
	Passphrase string `env:"DOCSYNC_PASSPHRASE"` // шифрование сообщений, relay его не знает
	PeerID     string `env:"DOCSYNC_PEER_ID"`
	LogLevel   string `env:"DOCSYNC_LOG_LEVEL,default=info"`
}

// Relay is the configuration of cmd/relay
type Relay struct {
	ListenAddress string        `env:"DOCSYNC_RELAY_LISTEN_ADDRESS,default=0.0.0.0:8080"`
	Secret        string        `env:"DOCSYNC_SECRET"`
	LogLevel      string        `env:"DOCSYNC_LOG_LEVEL,default=info"`
	RateWindow    time.Duration `env:"DOCSYNC_RELAY_RATE_WINDOW,default=1m"`
	MaxFrameSize  int64         `env:"DOCSYNC_RELAY_MAX_FRAME_SIZE,default=4194304"`
	PeerBuffer    int           `env:"DOCSYNC_RELAY_PEER_BUFFER,default=256"`
	RateLimit     int           `env:"DOCSYNC_RELAY_RATE_LIMIT,default=60"`
}

// NewPeer loads the peer configuration from the environment
func NewPeer() (*Peer, error) {
	var config Peer
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return nil, fmt.Errorf("failed to load peer config: %w", err)
	}
	if err := config.Sync.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// NewRelay loads the relay configuration from the environment
func NewRelay() (*Relay, error) {
	var config Relay
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return nil, fmt.Errorf("failed to load relay config: %w", err)
	}
	return &config, nil
}

// ParseLevel maps debug/info/warn/error onto slog levels, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
