package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/docsync/internal/network/memory"
	"github.com/iudanet/docsync/internal/storage/boltdb"
	"github.com/iudanet/docsync/pkg/docsync"
)

// newOutput returns an IOMock that records everything printed
func newOutput() (*IOMock, func() string) {
	var mu sync.Mutex
	var sb strings.Builder
	mock := &IOMock{
		PrintlnFunc: func(a ...any) {
			mu.Lock()
			defer mu.Unlock()
			sb.WriteString(fmt.Sprintln(a...))
		},
		PrintfFunc: func(format string, a ...any) {
			mu.Lock()
			defer mu.Unlock()
			sb.WriteString(fmt.Sprintf(format, a...))
		},
	}
	return mock, func() string {
		mu.Lock()
		defer mu.Unlock()
		return sb.String()
	}
}

func createTestDB(t *testing.T) *docsync.DB {
	t.Helper()
	ctx := context.Background()
	st, err := boltdb.New(ctx, filepath.Join(t.TempDir(), "cli.db"))
	require.NoError(t, err)

	hub := memory.NewHub(nil)
	t.Cleanup(hub.Close)

	db, err := docsync.Open(ctx, st, hub.Join("cli-peer"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(context.Background()) })
	return db
}

func TestReadSecret(t *testing.T) {
	file := filepath.Join(t.TempDir(), "secret.txt")
	require.NoError(t, os.WriteFile(file, []byte("from-file\n"), 0o600))
	empty := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("\n"), 0o600))

	prompt := func(terminal bool, secret string, err error) *IOMock {
		return &IOMock{
			IsTerminalFunc:   func() bool { return terminal },
			ReadPasswordFunc: func(string) (string, error) { return secret, err },
		}
	}

	tests := []struct {
		name    string
		io      *IOMock
		secrets Secrets
		want    string
		wantErr bool
	}{
		{name: "env wins", io: prompt(true, "", nil), secrets: Secrets{FromEnv: "env", FromFile: file, FromArgs: "arg"}, want: "env"},
		{name: "file before args", io: prompt(true, "", nil), secrets: Secrets{FromFile: file, FromArgs: "arg"}, want: "from-file"},
		{name: "empty file", io: prompt(true, "", nil), secrets: Secrets{FromFile: empty}, wantErr: true},
		{name: "missing file", io: prompt(true, "", nil), secrets: Secrets{FromFile: file + ".nope"}, wantErr: true},
		{name: "args", io: prompt(true, "", nil), secrets: Secrets{FromArgs: "arg"}, want: "arg"},
		{name: "prompt", io: prompt(true, "typed", nil), want: "typed"},
		{name: "prompt empty", io: prompt(true, "", nil), wantErr: true},
		{name: "prompt error", io: prompt(true, "", errors.New("eof")), wantErr: true},
		{name: "no terminal", io: prompt(false, "typed", nil), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadSecret(tt.io, tt.secrets)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCli_Commands(t *testing.T) {
	ctx := context.Background()
	db := createTestDB(t)
	io, output := newOutput()
	c := New(db, io)

	require.NoError(t, c.Run(ctx, []string{"put", "notes", `{"a":1}`, "n1"}))
	require.NoError(t, c.Run(ctx, []string{"put", "notes", `{"a":2}`, "n1"}))
	require.NoError(t, c.Run(ctx, []string{"put", "notes", `{"b":1}`}))
	require.NoError(t, c.Run(ctx, []string{"get", "notes", "n1"}))
	require.NoError(t, c.Run(ctx, []string{"list", "notes"}))
	require.NoError(t, c.Run(ctx, []string{"delete", "notes", "n1", "ghost"}))
	require.NoError(t, c.Run(ctx, []string{"list", "empty"}))
	require.NoError(t, c.Run(ctx, []string{"status"}))

	out := output()
	assert.Contains(t, out, "n1 inserted")
	assert.Contains(t, out, "n1 updated")
	assert.Contains(t, out, `{"a":2}`)
	assert.Contains(t, out, "Total: 2")
	assert.Contains(t, out, "Deleted: 1")
	assert.Contains(t, out, "No documents found.")
	assert.Contains(t, out, "Peer:    cli-peer")
	assert.Contains(t, out, "Members: none")
}

func TestCli_Errors(t *testing.T) {
	ctx := context.Background()
	io, _ := newOutput()
	c := New(createTestDB(t), io)

	tests := []struct {
		name string
		args []string
	}{
		{name: "no command", args: nil},
		{name: "unknown", args: []string{"frobnicate"}},
		{name: "put", args: []string{"put", "notes"}},
		{name: "get", args: []string{"get", "notes"}},
		{name: "list", args: []string{"list"}},
		{name: "delete", args: []string{"delete", "notes"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, c.Run(ctx, tt.args), ErrUsage)
		})
	}

	err := c.Run(ctx, []string{"get", "notes", "missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCli_WatchStopsOnCancel(t *testing.T) {
	io, output := newOutput()
	c := New(createTestDB(t), io)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, c.RunWatch(ctx))
	assert.Contains(t, output(), "Watching")
}

func TestPrintUsage(t *testing.T) {
	io, output := newOutput()
	PrintUsage(io)
	assert.Contains(t, output(), "put <collection> <json> [id]")
}
