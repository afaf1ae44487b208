package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/docsync/internal/auth"
	"github.com/iudanet/docsync/internal/cli"
	"github.com/iudanet/docsync/internal/config"
	"github.com/iudanet/docsync/internal/network"
	"github.com/iudanet/docsync/internal/network/memory"
	"github.com/iudanet/docsync/internal/network/wsrelay"
	"github.com/iudanet/docsync/internal/storage"
	"github.com/iudanet/docsync/internal/storage/boltdb"
	"github.com/iudanet/docsync/internal/storage/sqlite"
	"github.com/iudanet/docsync/pkg/docsync"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

const (
	tokenTTL        = 10 * time.Minute
	shutdownTimeout = 5 * time.Second
)

func main() {
	cfg, err := config.NewPeer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Флаги переопределяют переменные окружения
	showVersion := flag.Bool("version", false, "Show version information")
	dbPath := flag.String("db", cfg.DBPath, "Path to local database")
	driver := flag.String("driver", cfg.Driver, "Storage engine: bolt or sqlite")
	relayURL := flag.String("relay", cfg.RelayURL, "Relay base URL, empty for local-only")
	room := flag.String("room", cfg.Room, "Room id (UUID)")
	peerID := flag.String("peer", cfg.PeerID, "Peer id, generated when empty")
	secretArg := flag.String("secret", "", "Room secret")
	secretFile := flag.String("secret-file", "", "Read room secret from file")
	passphrase := flag.String("passphrase", cfg.Passphrase, "Encrypt messages end-to-end with this passphrase")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	stdio := cli.NewStdio()
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage(stdio)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.ParseLevel(cfg.LogLevel)}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *peerID == "" {
		*peerID = uuid.NewString()
	}

	var roomID uuid.UUID
	if *room != "" {
		roomID, err = uuid.Parse(*room)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid room id: %v\n", err)
			os.Exit(1)
		}
	}

	store, err := openStore(ctx, *driver, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}

	transport, err := newTransport(stdio, *relayURL, *peerID, roomID, cli.Secrets{
		FromEnv:  cfg.Secret,
		FromFile: *secretFile,
		FromArgs: *secretArg,
	}, logger)
	if err != nil {
		_ = store.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := []docsync.Option{docsync.WithLogger(logger), docsync.WithConfig(cfg.Sync)}
	if *passphrase != "" {
		opts = append(opts, docsync.WithPassphrase(*passphrase))
	}

	db, err := docsync.Open(ctx, store, transport, opts...)
	if err != nil {
		_ = store.Close()
		fmt.Fprintf(os.Stderr, "Failed to open docsync: %v\n", err)
		os.Exit(1)
	}

	code := run(ctx, db, stdio, roomID, args)

	closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := db.Close(closeCtx); err != nil {
		logger.Error("failed to close database", "error", err)
	}
	os.Exit(code)
}

func run(ctx context.Context, db *docsync.DB, stdio cli.IO, roomID uuid.UUID, args []string) int {
	if roomID != uuid.Nil {
		if err := db.Start(ctx, roomID); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to join room: %v\n", err)
			return 1
		}
	}

	if err := cli.New(db, stdio).Run(ctx, args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, cli.ErrUsage) {
			cli.PrintUsage(stdio)
		}
		return 1
	}
	return 0
}

func openStore(ctx context.Context, driver, path string) (storage.Store, error) {
	switch driver {
	case "bolt", "bbolt", "":
		return boltdb.New(ctx, path)
	case "sqlite":
		return sqlite.New(ctx, path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

// newTransport connects to the relay, or stays on a private in-process hub without one
func newTransport(stdio cli.IO, relayURL, peerID string, roomID uuid.UUID, secrets cli.Secrets, logger *slog.Logger) (network.Transport, error) {
	if relayURL == "" || roomID == uuid.Nil {
		return memory.NewHub(logger).Join(peerID), nil
	}

	secret, err := cli.ReadSecret(stdio, secrets)
	if err != nil {
		return nil, err
	}
	return wsrelay.New(relayURL, peerID, roomTokens(secret, peerID), wsrelay.DefaultSettings(), logger), nil
}

// roomTokens issues a short-lived token per dial from the shared room secret
func roomTokens(secret, peerID string) wsrelay.TokenFunc {
	return func(_ context.Context, room string) (string, error) {
		roomID, err := uuid.Parse(room)
		if err != nil {
			return "", fmt.Errorf("invalid room id: %w", err)
		}
		key, err := auth.DeriveRoomKey(secret, roomID)
		if err != nil {
			return "", err
		}
		return auth.IssueRoomToken(key, roomID, peerID, tokenTTL)
	}
}

func printVersion() {
	fmt.Printf("docsync\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
