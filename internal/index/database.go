// Package index persists the reverse index in a SQLite lookup cache so that
// reference lookups do not need the journal and catalog to be reloaded.
//
// The cache is derived data: it is rebuilt from scratch from a validated
// journal and records the content hashes of the journal and the vocabulary to
// detect staleness.
package index

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/zeebo/blake3"

	"github.com/aidanlsb/insight/internal/catalog"
	"github.com/aidanlsb/insight/internal/index/migrations"

	// Registers the "sqlite" driver for database/sql.
	_ "modernc.org/sqlite"
)

const (
	// DirName is the workspace directory holding the cache.
	DirName = ".insight"
	// FileName is the cache file inside DirName.
	FileName = "index.db"
)

var (
	// ErrNotIndexed indicates the cache has never been built.
	ErrNotIndexed = errors.New("journal has not been indexed")
	// ErrIndexLocked indicates another process is rebuilding the cache.
	ErrIndexLocked = errors.New("index is locked for rebuild")
)

// Database is the SQLite cache handle.
type Database struct {
	db *sql.DB
}

// PathFor returns the cache location for a workspace.
func PathFor(workspace string) string {
	return filepath.Join(workspace, DirName, FileName)
}

// Open opens or creates the cache of a workspace.
func Open(workspace string) (*Database, error) {
	return OpenPath(PathFor(workspace))
}

// OpenPath opens or creates a cache file and applies pending migrations.
func OpenPath(path string) (*Database, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve index path: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", filepath.ToSlash(absPath))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}

	return initialize(db)
}

// OpenInMemory opens an in-memory cache (for testing).
func OpenInMemory() (*Database, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return initialize(db)
}

func initialize(db *sql.DB) (*Database, error) {
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping index: %w", err)
	}
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Database{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to initialise migrate driver: %w", err)
	}

	sourceDriver, err := iofs.New(migrations.Files, ".")
	if err != nil {
		return fmt.Errorf("failed to load embedded migrations: %w", err)
	}
	defer func() {
		_ = sourceDriver.Close()
	}()

	migrator, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// LatestSchemaVersion returns the newest migration compiled into the binary.
func LatestSchemaVersion() (uint, error) {
	src, err := iofs.New(migrations.Files, ".")
	if err != nil {
		return 0, fmt.Errorf("failed to load embedded migrations: %w", err)
	}
	defer func() {
		_ = src.Close()
	}()

	version, err := src.First()
	if err != nil {
		return 0, fmt.Errorf("read first migration: %w", err)
	}
	for {
		next, err := src.Next(version)
		if errors.Is(err, os.ErrNotExist) {
			return version, nil
		}
		if err != nil {
			return 0, fmt.Errorf("read migration after %d: %w", version, err)
		}
		version = next
	}
}

// SchemaVersion returns the applied migration version.
func (d *Database) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := d.db.QueryRowContext(ctx, "SELECT version FROM schema_migrations LIMIT 1").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

// Close closes the cache.
func (d *Database) Close() error {
	return d.db.Close()
}

// Hash returns the hex-encoded BLAKE3 digest of journal contents.
func Hash(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashSources returns a BLAKE3 digest over the three vocabulary files. Each
// file contributes its table name and contents; a missing or undeclared file
// contributes only its table name, so adding or removing one changes the hash.
func HashSources(src catalog.Sources) (string, error) {
	h := blake3.New()
	for _, in := range []struct{ table, path string }{
		{"books", src.Books},
		{"topics", src.Topics},
		{"bookNames", src.BookNames},
	} {
		fmt.Fprintf(h, "%s\x00", in.table)
		if in.path == "" {
			continue
		}
		data, err := os.ReadFile(in.path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("hash vocabulary %s: %w", in.path, err)
		}
		fmt.Fprintf(h, "%d\x00", len(data))
		h.Write(data)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
