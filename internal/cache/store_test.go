package cache

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_OpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.db")

	s, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Path())

	v, err := s.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	// Reopening an existing file is a no-op migration.
	s, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestStore_PutGet(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	hash := Hash("SELECT 1")

	_, err := s.Get(ctx, "sqlite", hash)
	require.ErrorIs(t, err, ErrNotFound)

	e := &Entry{Dialect: "sqlite", Hash: hash, TreeJSON: []byte(`{"file":{}}`)}
	require.NoError(t, s.Put(ctx, e))
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.CreatedAt.IsZero())

	got, err := s.Get(ctx, "sqlite", hash)
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)
	assert.JSONEq(t, `{"file":{}}`, string(got.TreeJSON))
	assert.Equal(t, 0, got.Unparsable)
	assert.WithinDuration(t, e.CreatedAt, got.CreatedAt, time.Millisecond)

	// Other dialects don't see the entry.
	_, err = s.Get(ctx, "ansi", hash)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStore_PutReplaces(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	hash := Hash("SELEC 1")

	require.NoError(t, s.Put(ctx, &Entry{Dialect: "sqlite", Hash: hash, TreeJSON: []byte(`{}`)}))
	require.NoError(t, s.Put(ctx, &Entry{Dialect: "sqlite", Hash: hash, TreeJSON: []byte(`{"x":1}`), Unparsable: 2}))

	got, err := s.Get(ctx, "sqlite", hash)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Unparsable)
	assert.JSONEq(t, `{"x":1}`, string(got.TreeJSON))

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 1, stats[0].Entries)
}

func TestStore_StatsAndClear(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	for _, e := range []*Entry{
		{Dialect: "sqlite", Hash: Hash("a"), TreeJSON: []byte("1234")},
		{Dialect: "sqlite", Hash: Hash("b"), TreeJSON: []byte("12")},
		{Dialect: "ansi", Hash: Hash("a"), TreeJSON: []byte("1")},
	} {
		require.NoError(t, s.Put(ctx, e))
	}

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "ansi", stats[0].Dialect)
	assert.Equal(t, 1, stats[0].Entries)
	assert.Equal(t, "sqlite", stats[1].Dialect)
	assert.Equal(t, 2, stats[1].Entries)
	assert.Equal(t, int64(6), stats[1].Bytes)
	assert.False(t, stats[1].Newest.IsZero())

	n, err := s.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	stats, err = s.Stats(ctx)
	require.NoError(t, err)
	assert.Empty(t, stats)
}

func TestStore_Closed(t *testing.T) {
	ctx := context.Background()
	s := &Store{}

	_, err := s.Get(ctx, "sqlite", "h")
	assert.ErrorIs(t, err, ErrNotOpen)
	assert.ErrorIs(t, s.Put(ctx, &Entry{}), ErrNotOpen)
	_, err = s.Stats(ctx)
	assert.ErrorIs(t, err, ErrNotOpen)
	_, err = s.Clear(ctx)
	assert.ErrorIs(t, err, ErrNotOpen)
	assert.ErrorIs(t, s.InitSchema(), ErrNotOpen)
	assert.NoError(t, s.Close())
}

func TestStore_Mocked(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		setup func(mock sqlmock.Sqlmock)
		run   func(t *testing.T, s *Store)
	}{
		{
			name: "get decodes row",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(getSQL)).
					WithArgs("sqlite", "abc").
					WillReturnRows(sqlmock.NewRows([]string{"id", "tree_json", "unparsable", "created_at"}).
						AddRow("id-1", `{"file":null}`, 1, created.Format(time.RFC3339Nano)))
			},
			run: func(t *testing.T, s *Store) {
				e, err := s.Get(ctx, "sqlite", "abc")
				require.NoError(t, err)
				assert.Equal(t, "id-1", e.ID)
				assert.Equal(t, 1, e.Unparsable)
				assert.Equal(t, created, e.CreatedAt)
			},
		},
		{
			name: "get rejects corrupt timestamp",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(getSQL)).
					WillReturnRows(sqlmock.NewRows([]string{"id", "tree_json", "unparsable", "created_at"}).
						AddRow("id-1", `{}`, 0, "yesterday"))
			},
			run: func(t *testing.T, s *Store) {
				_, err := s.Get(ctx, "sqlite", "abc")
				require.Error(t, err)
				assert.Contains(t, err.Error(), "corrupt cache entry id-1")
			},
		},
		{
			name: "put uses clock and uuid",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta(putSQL)).
					WithArgs(sqlmock.AnyArg(), "ansi", "h", "{}", 0, created.Format(time.RFC3339Nano)).
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
			run: func(t *testing.T, s *Store) {
				s.now = func() time.Time { return created }
				e := &Entry{Dialect: "ansi", Hash: "h", TreeJSON: []byte("{}")}
				require.NoError(t, s.Put(ctx, e))
				assert.Len(t, e.ID, 36)
			},
		},
		{
			name: "put wraps driver error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta(putSQL)).WillReturnError(assert.AnError)
			},
			run: func(t *testing.T, s *Store) {
				err := s.Put(ctx, &Entry{Dialect: "ansi", Hash: "h"})
				require.ErrorIs(t, err, assert.AnError)
				assert.Contains(t, err.Error(), "failed to put cache entry")
			},
		},
		{
			name: "clear reports rows",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta(clearSQL)).WillReturnResult(sqlmock.NewResult(0, 7))
			},
			run: func(t *testing.T, s *Store) {
				n, err := s.Clear(ctx)
				require.NoError(t, err)
				assert.Equal(t, int64(7), n)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = db.Close() }()

			tt.setup(mock)
			tt.run(t, New(db))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHash(t *testing.T) {
	assert.Len(t, Hash("SELECT 1"), 64)
	assert.Equal(t, Hash("SELECT 1"), Hash("SELECT 1"))
	assert.NotEqual(t, Hash("SELECT 1"), Hash("SELECT 2"))
	assert.NotEqual(t, Hash("SELECT 1"), Hash("SELECT 1", "code_only"))
	assert.NotEqual(t, Hash("ab", "c"), Hash("a", "bc"))
}
