// Package cli implements the commands of cmd/docsync.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/iudanet/docsync/pkg/docsync"
)

// ErrUsage возвращается при неверных аргументах команды
var ErrUsage = errors.New("invalid usage")

// Secrets lists the sources of the room secret
type Secrets struct {
	FromEnv  string
	FromFile string
	FromArgs string
}

// ReadSecret resolves the room secret with priority:
// 1. Environment (DOCSYNC_SECRET)
// 2. File
// 3. Command-line parameter
// 4. Interactive prompt, only when stdin is a terminal
func ReadSecret(io IO, secrets Secrets) (string, error) {
	if secrets.FromEnv != "" {
		return secrets.FromEnv, nil
	}

	if secrets.FromFile != "" {
		content, err := os.ReadFile(secrets.FromFile)
		if err != nil {
			return "", fmt.Errorf("failed to read secret file: %w", err)
		}
		secret := strings.TrimSpace(string(content))
		if secret == "" {
			return "", fmt.Errorf("secret file is empty")
		}
		return secret, nil
	}

	if secrets.FromArgs != "" {
		return secrets.FromArgs, nil
	}

	if !io.IsTerminal() {
		return "", fmt.Errorf("room secret is required: set DOCSYNC_SECRET or -secret-file")
	}
	secret, err := io.ReadPassword("Room secret: ")
	if err != nil {
		return "", fmt.Errorf("failed to read secret from stdin: %w", err)
	}
	if secret == "" {
		return "", fmt.Errorf("secret cannot be empty")
	}
	return secret, nil
}

// Cli runs one command against an open DB
type Cli struct {
	db *docsync.DB
	io IO
}

func New(db *docsync.DB, io IO) *Cli {
	return &Cli{db: db, io: io}
}

// Run dispatches args[0] to its command
func (c *Cli) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", ErrUsage)
	}

	command, rest := args[0], args[1:]
	switch command {
	case "put":
		return c.RunPut(ctx, rest)
	case "get":
		return c.RunGet(ctx, rest)
	case "list":
		return c.RunList(ctx, rest)
	case "delete":
		return c.RunDelete(ctx, rest)
	case "status":
		return c.RunStatus(ctx)
	case "watch":
		return c.RunWatch(ctx)
	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, command)
	}
}

// RunPut stores a JSON document: put <collection> <json> [id]
func (c *Cli) RunPut(ctx context.Context, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("%w: put <collection> <json> [id]", ErrUsage)
	}
	collection, data := args[0], []byte(args[1])

	if len(args) == 2 {
		id, err := c.db.Insert(ctx, collection, data)
		if err != nil {
			return fmt.Errorf("failed to insert document: %w", err)
		}
		c.io.Println(id)
		return nil
	}

	id := args[2]
	inserted, err := c.db.Upsert(ctx, collection, id, data)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}
	if inserted {
		c.io.Printf("%s inserted\n", id)
	} else {
		c.io.Printf("%s updated\n", id)
	}
	return nil
}

// RunGet prints one document: get <collection> <id>
func (c *Cli) RunGet(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: get <collection> <id>", ErrUsage)
	}

	doc, err := c.db.Get(ctx, args[0], args[1])
	if err != nil {
		if errors.Is(err, docsync.ErrNotFound) {
			return fmt.Errorf("document %s not found in %s", args[1], args[0])
		}
		return fmt.Errorf("failed to get document: %w", err)
	}
	c.io.Println(string(doc.Data))
	return nil
}

// RunList prints every document of a collection: list <collection>
func (c *Cli) RunList(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: list <collection>", ErrUsage)
	}

	docs, err := c.db.Query(ctx, args[0], nil)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}
	if len(docs) == 0 {
		c.io.Println("No documents found.")
		return nil
	}
	for _, doc := range docs {
		c.io.Printf("%s\t%s\n", doc.ID, doc.Data)
	}
	c.io.Printf("Total: %d\n", len(docs))
	return nil
}

// RunDelete removes documents: delete <collection> <id>...
func (c *Cli) RunDelete(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: delete <collection> <id>...", ErrUsage)
	}

	n, err := c.db.DeleteMany(ctx, args[0], args[1:])
	if err != nil {
		return fmt.Errorf("failed to delete documents: %w", err)
	}
	c.io.Printf("Deleted: %d\n", n)
	return nil
}

// RunStatus prints the peer id, room members and apply cursors
func (c *Cli) RunStatus(_ context.Context) error {
	c.io.Printf("Peer:    %s\n", c.db.PeerID())

	members := c.db.Members()
	if len(members) == 0 {
		c.io.Println("Members: none")
	} else {
		c.io.Printf("Members: %s\n", strings.Join(members, ", "))
	}

	cursors := c.db.Cursors()
	origins := make([]string, 0, len(cursors))
	for origin := range cursors {
		origins = append(origins, origin)
	}
	sort.Strings(origins)
	for _, origin := range origins {
		c.io.Printf("Cursor:  %s = %d\n", origin, cursors[origin])
	}
	return nil
}

// RunWatch prints applied bursts until ctx is done
func (c *Cli) RunWatch(ctx context.Context) error {
	c.io.Println("Watching for changes, press Ctrl+C to stop...")
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-c.db.Synced():
			c.io.Printf("Synced %d records from %s\n", ev.Applied, strings.Join(ev.Origins, ", "))
		}
	}
}

// PrintUsage prints the command help
func PrintUsage(io IO) {
	io.Println("docsync - replicated document store peer")
	io.Println()
	io.Println("Usage:")
	io.Println("  docsync [OPTIONS] COMMAND")
	io.Println()
	io.Println("Options:")
	io.Println("  -version                     Show version information")
	io.Println("  -db PATH                     Path to local database")
	io.Println("  -driver bolt|sqlite          Storage engine")
	io.Println("  -relay URL                   Relay base URL, empty for local-only")
	io.Println("  -room UUID                   Room to join")
	io.Println("  -peer ID                     Peer id, generated when empty")
	io.Println("  -secret VALUE                Room secret")
	io.Println("  -secret-file PATH            Read room secret from file")
	io.Println()
	io.Println("Commands:")
	io.Println("  put <collection> <json> [id] Insert, or upsert when id is given")
	io.Println("  get <collection> <id>        Print a document")
	io.Println("  list <collection>            Print all documents")
	io.Println("  delete <collection> <id>...  Delete documents")
	io.Println("  status                       Show peer, members and cursors")
	io.Println("  watch                        Print changes received from the room")
}
