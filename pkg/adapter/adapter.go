// Package adapter provides the database engines used to cross-check the
// parser. An engine is asked whether it accepts a statement, which is
// compared with whether the grammar parsed it.
//
// Concrete adapter implementations are in pkg/adapters/ subdirectories.
package adapter

import (
	"context"
)

// Config holds the connection settings of an engine.
type Config struct {
	Type     string            // sqlite, duckdb, postgres
	Path     string            // file path or DSN; empty means in-memory where supported
	Host     string            // network engines only
	Port     int               // network engines only
	Database string            // network engines only
	Username string            // network engines only
	Password string            // network engines only
	Options  map[string]string // driver-specific connection options
	Params   map[string]any    // engine-specific settings
}

// Verdict is an engine's opinion of one statement.
type Verdict struct {
	// Accepted is false only when the engine rejected the statement's
	// syntax. Semantic failures (a missing table, say) still count as
	// accepted.
	Accepted bool
	// Message is the engine's error text, if any.
	Message string
}

// Adapter defines the interface that all engines must implement.
type Adapter interface {
	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// Exec executes a SQL statement that doesn't return rows.
	Exec(ctx context.Context, sql string) error

	// Check asks the engine to compile sql without running it.
	Check(ctx context.Context, sql string) (Verdict, error)

	// DialectName returns the name of the grammar dialect that matches the engine.
	DialectName() string
}
