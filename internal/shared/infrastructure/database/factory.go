package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Config selects and configures the task store.
type Config struct {
	// Driver may be empty or "auto", in which case it is detected from URL.
	Driver Driver
	// URL is the PostgreSQL connection string.
	URL string
	// SQLitePath defaults to DefaultSQLitePath().
	SQLitePath string
	// MaxConns caps the PostgreSQL pool; zero keeps the pgx default.
	MaxConns int
}

// Opener opens a connection for one driver.
type Opener func(ctx context.Context, cfg Config) (Connection, error)

var (
	openersMu sync.RWMutex
	openers   = map[Driver]Opener{}
)

// Register makes a driver available to NewConnection. The postgres and
// sqlite subpackages call it from init, so importing one of them is what
// enables its driver.
func Register(d Driver, open Opener) {
	openersMu.Lock()
	defer openersMu.Unlock()
	openers[d] = open
}

// RegisterPostgresDriver registers the PostgreSQL opener.
func RegisterPostgresDriver(open Opener) { Register(DriverPostgres, open) }

// RegisterSQLiteDriver registers the SQLite opener.
func RegisterSQLiteDriver(open Opener) { Register(DriverSQLite, open) }

// ResolveDriver returns the driver cfg refers to.
func ResolveDriver(cfg Config) (Driver, error) {
	d, err := ParseDriver(string(cfg.Driver))
	if err != nil {
		return "", err
	}
	if d == "" {
		d = DetectDriver(cfg.URL)
	}
	return d, nil
}

// NewConnection opens the task store described by cfg.
func NewConnection(ctx context.Context, cfg Config) (Connection, error) {
	d, err := ResolveDriver(cfg)
	if err != nil {
		return nil, err
	}

	openersMu.RLock()
	open, ok := openers[d]
	openersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDriverNotRegistered, d)
	}
	cfg.Driver = d
	return open(ctx, cfg)
}

// DefaultSQLitePath is ~/.perfboard/data.db, falling back to the working
// directory when the home directory is unknown.
func DefaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".perfboard", "data.db")
}

// EnsureDirectory creates the parent directory of path.
func EnsureDirectory(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
