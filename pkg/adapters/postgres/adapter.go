// Package postgres provides a PostgreSQL engine adapter. PostgreSQL checks
// statements against the ANSI grammar.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the pgx database/sql driver
	"github.com/leapstack-labs/leapfluff/pkg/adapter"
)

// sqlStateSyntaxError is PostgreSQL's syntax_error condition.
const sqlStateSyntaxError = "42601"

// explainable lists the leading keywords EXPLAIN accepts. Everything else
// is executed in a rolled-back transaction.
var explainable = map[string]bool{
	"SELECT": true, "INSERT": true, "UPDATE": true, "DELETE": true,
	"VALUES": true, "WITH": true, "TABLE": true, "MERGE": true,
}

// Adapter implements the adapter.Adapter interface for PostgreSQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new PostgreSQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// DialectName returns the SQL dialect for this adapter.
func (a *Adapter) DialectName() string {
	return "ansi"
}

// Connect establishes a connection to PostgreSQL.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dsn := cfg.Path
	if dsn == "" {
		dsn = buildPostgresDSN(cfg)
	}

	a.Logger.Debug("connecting to postgres", slog.String("host", cfg.Host), slog.String("database", cfg.Database))

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open postgres connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// Check compiles sql. Queries go through EXPLAIN; other statements run in
// a transaction that is always rolled back.
func (a *Adapter) Check(ctx context.Context, sqlStr string) (adapter.Verdict, error) {
	if explainable[leadingKeyword(sqlStr)] {
		return a.CheckWith(ctx, sqlStr, isSyntax)
	}
	if a.DB == nil {
		return adapter.Verdict{}, adapter.ErrNotConnected
	}

	tx, err := a.DB.BeginTx(ctx, nil)
	if err != nil {
		return adapter.Verdict{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, sqlStr)
	switch {
	case err == nil:
		return adapter.Verdict{Accepted: true}, nil
	case ctx.Err() != nil:
		return adapter.Verdict{}, ctx.Err()
	case isSyntax(err):
		return adapter.Verdict{Accepted: false, Message: err.Error()}, nil
	}
	return adapter.Verdict{Accepted: true, Message: err.Error()}, nil
}

func isSyntax(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == sqlStateSyntaxError
	}
	return adapter.ContainsAny("syntax error")(err)
}

// leadingKeyword returns the first word of sql in upper case, skipping
// whitespace, comments and opening brackets.
func leadingKeyword(sqlStr string) string {
	s := sqlStr
	for {
		s = strings.TrimLeft(s, " \t\r\n(")
		switch {
		case strings.HasPrefix(s, "--"):
			if i := strings.IndexByte(s, '\n'); i >= 0 {
				s = s[i+1:]
				continue
			}
			return ""
		case strings.HasPrefix(s, "/*"):
			if i := strings.Index(s, "*/"); i >= 0 {
				s = s[i+2:]
				continue
			}
			return ""
		}
		break
	}
	end := strings.IndexFunc(s, func(r rune) bool {
		return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
	})
	if end < 0 {
		end = len(s)
	}
	return strings.ToUpper(s[:end])
}

func buildPostgresDSN(cfg adapter.Config) string {
	// Build key=value format: host=localhost port=5432 user=postgres ...
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	sslmode := "disable"
	if cfg.Options != nil {
		if mode, ok := cfg.Options["sslmode"]; ok {
			sslmode = mode
		}
	}

	// Build DSN
	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s",
		host, port, cfg.Database, sslmode)

	if cfg.Username != "" {
		dsn += fmt.Sprintf(" user=%s", cfg.Username)
	}
	if cfg.Password != "" {
		dsn += fmt.Sprintf(" password=%s", cfg.Password)
	}

	return dsn
}
