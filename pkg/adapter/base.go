package adapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrNotConnected is returned by operations on an adapter before Connect.
var ErrNotConnected = errors.New("database connection not established")

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations to get standard
// Close, Exec and Explain implementations.
type BaseSQLAdapter struct {
	DB     *sql.DB
	Cfg    Config
	Logger *slog.Logger
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.DB != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing database connection")
		}
		return b.DB.Close()
	}
	return nil
}

// Exec executes a SQL statement that doesn't return rows.
func (b *BaseSQLAdapter) Exec(ctx context.Context, sqlStr string) error {
	if b.DB == nil {
		return ErrNotConnected
	}
	_, err := b.DB.ExecContext(ctx, sqlStr)
	if err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// Explain runs EXPLAIN over a statement and discards the plan. Statements
// that are already EXPLAINs are only prepared. The returned error is the
// engine's, unwrapped, so callers can classify it.
func (b *BaseSQLAdapter) Explain(ctx context.Context, sqlStr string) error {
	if b.DB == nil {
		return ErrNotConnected
	}
	sqlStr = strings.TrimSpace(sqlStr)
	if isExplain(sqlStr) {
		// Already an EXPLAIN: compile it without running it again.
		stmt, err := b.DB.PrepareContext(ctx, sqlStr)
		if err != nil {
			return err
		}
		return stmt.Close()
	}
	rows, err := b.DB.QueryContext(ctx, "EXPLAIN "+sqlStr)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
	}
	return rows.Err()
}

// isExplain reports whether the statement's first word is EXPLAIN.
func isExplain(sqlStr string) bool {
	words := strings.Fields(sqlStr)
	return len(words) > 0 && strings.EqualFold(words[0], "EXPLAIN")
}

// CheckWith runs Explain and turns the result into a verdict. isSyntax
// decides which engine errors are syntax errors.
func (b *BaseSQLAdapter) CheckWith(ctx context.Context, sqlStr string, isSyntax func(error) bool) (Verdict, error) {
	err := b.Explain(ctx, sqlStr)
	switch {
	case err == nil:
		return Verdict{Accepted: true}, nil
	case errors.Is(err, ErrNotConnected), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return Verdict{}, err
	case isSyntax(err):
		return Verdict{Accepted: false, Message: err.Error()}, nil
	}
	if b.Logger != nil {
		b.Logger.Debug("statement compiled with a semantic error", slog.String("error", err.Error()))
	}
	return Verdict{Accepted: true, Message: err.Error()}, nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

// ContainsAny returns an isSyntax function matching error text fragments,
// case-insensitively.
func ContainsAny(fragments ...string) func(error) bool {
	return func(err error) bool {
		msg := strings.ToLower(err.Error())
		for _, f := range fragments {
			if strings.Contains(msg, strings.ToLower(f)) {
				return true
			}
		}
		return false
	}
}
