package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPeer_Defaults(t *testing.T) {
	cfg, err := NewPeer()
	require.NoError(t, err)

	assert.Equal(t, DefaultSync(), cfg.Sync)
	assert.Equal(t, "bolt", cfg.Driver)
	assert.Equal(t, "docsync.db", cfg.DBPath)
}

func TestNewPeer_FromEnv(t *testing.T) {
	t.Setenv("DOCSYNC_QUEUE_DEPTH", "3")
	t.Setenv("DOCSYNC_PUBLISH_TIMEOUT", "250ms")
	t.Setenv("DOCSYNC_SYNC_REQUIRED", "true")
	t.Setenv("DOCSYNC_CATCHUP_INTERVAL", "2m")
	t.Setenv("DOCSYNC_DB_DRIVER", "sqlite")
	t.Setenv("DOCSYNC_ROOM", "3f0c1c9e-3b1a-4c53-9b0e-6f1d2a7e8c11")

	cfg, err := NewPeer()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Sync.QueueDepth)
	assert.Equal(t, 250*time.Millisecond, cfg.Sync.PublishTimeout)
	assert.True(t, cfg.Sync.SyncRequired)
	assert.Equal(t, 2*time.Minute, cfg.Sync.CatchUpInterval)
	assert.Equal(t, "sqlite", cfg.Driver)
	assert.Equal(t, "3f0c1c9e-3b1a-4c53-9b0e-6f1d2a7e8c11", cfg.Room)
}

func TestNewPeer_Invalid(t *testing.T) {
	t.Setenv("DOCSYNC_QUEUE_DEPTH", "0")

	_, err := NewPeer()
	assert.Error(t, err)
}

func TestSyncValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Sync)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Sync) {}},
		{name: "zero burst", mutate: func(s *Sync) { s.MaxBurst = 0 }, wantErr: true},
		{name: "zero attempts", mutate: func(s *Sync) { s.MaxAttempts = 0 }, wantErr: true},
		{name: "inverted backoff", mutate: func(s *Sync) { s.MaxBackoff = time.Millisecond }, wantErr: true},
		{name: "no timeout", mutate: func(s *Sync) { s.PublishTimeout = 0 }, wantErr: true},
		{name: "catch-up disabled", mutate: func(s *Sync) { s.CatchUpLimit = 0 }},
		{name: "periodic catch-up disabled", mutate: func(s *Sync) { s.CatchUpInterval = 0 }},
		{name: "negative catch-up interval", mutate: func(s *Sync) { s.CatchUpInterval = -time.Second }, wantErr: true},
		{name: "negative retention", mutate: func(s *Sync) { s.OutboxRetention = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSync()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewRelay_Defaults(t *testing.T) {
	cfg, err := NewRelay()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.ListenAddress)
	assert.Equal(t, int64(4194304), cfg.MaxFrameSize)
	assert.Equal(t, time.Minute, cfg.RateWindow)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}
