package database

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Driver names a supported task store backend.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

func (d Driver) String() string { return string(d) }

func (d Driver) IsValid() bool {
	return d == DriverPostgres || d == DriverSQLite
}

// BindType is the sqlx placeholder style the driver expects.
func (d Driver) BindType() int {
	if d == DriverPostgres {
		return sqlx.DOLLAR
	}
	return sqlx.QUESTION
}

var driverAliases = map[string]Driver{
	"postgres":   DriverPostgres,
	"postgresql": DriverPostgres,
	"pgx":        DriverPostgres,
	"sqlite":     DriverSQLite,
	"sqlite3":    DriverSQLite,
}

// ParseDriver reads a DATABASE_DRIVER value. "" and "auto" mean detect from
// the URL and return an empty Driver.
func ParseDriver(s string) (Driver, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "auto" {
		return "", nil
	}
	if d, ok := driverAliases[s]; ok {
		return d, nil
	}
	return "", fmt.Errorf("unsupported database driver %q", s)
}

// DetectDriver infers the driver from a connection string. An empty URL
// selects SQLite local mode; anything unrecognised is treated as PostgreSQL.
func DetectDriver(url string) Driver {
	switch {
	case url == "":
		return DriverSQLite
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres
	case strings.HasPrefix(url, "sqlite://"), strings.HasPrefix(url, "file:"):
		return DriverSQLite
	}
	for _, ext := range []string{".db", ".sqlite", ".sqlite3"} {
		if strings.HasSuffix(url, ext) {
			return DriverSQLite
		}
	}
	return DriverPostgres
}
