package datastore

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/simple-notes/internal/conf"
	"github.com/tphakala/simple-notes/internal/errors"
	"github.com/tphakala/simple-notes/internal/logger"
	"github.com/tphakala/simple-notes/internal/notes"
)

const missingID = "507f1f77bcf86cd799439011"

func testLogger() logger.Logger {
	return logger.NewSlogLogger(nil, logger.LogLevelError, time.UTC)
}

// storeFactories returns the backends that run without external services.
func storeFactories() map[string]func(t *testing.T) Interface {
	return map[string]func(t *testing.T) Interface{
		conf.BackendSQLite: func(t *testing.T) Interface {
			t.Helper()
			store, err := OpenSQLite(":memory:", time.Second, testLogger())
			require.NoError(t, err)
			t.Cleanup(func() { assert.NoError(t, store.Close()) })
			return store
		},
		"sqlite-file": func(t *testing.T) Interface {
			t.Helper()
			store, err := OpenSQLite(filepath.Join(t.TempDir(), "db", "notes.db"), time.Second, testLogger())
			require.NoError(t, err)
			t.Cleanup(func() { assert.NoError(t, store.Close()) })
			return store
		},
		conf.BackendBolt: func(t *testing.T) Interface {
			t.Helper()
			store, err := OpenBolt(filepath.Join(t.TempDir(), "notes.bolt"), time.Second)
			require.NoError(t, err)
			t.Cleanup(func() { assert.NoError(t, store.Close()) })
			return store
		},
	}
}

func TestStoreBackends(t *testing.T) {
	t.Parallel()

	for name, open := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			runStoreContract(t, open)
		})
	}
}

// runStoreContract exercises behaviour every backend must share.
func runStoreContract(t *testing.T, open func(t *testing.T) Interface) {
	t.Helper()

	t.Run("empty list is not nil", func(t *testing.T) {
		store := open(t)
		list, err := store.List(t.Context())
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("create then get", func(t *testing.T) {
		store := open(t)
		ctx := t.Context()

		created, err := store.Create(ctx, "  Groceries  ", "milk, eggs")
		require.NoError(t, err)
		assert.Len(t, created.ID, 24)
		assert.NoError(t, notes.ValidateID(created.ID))
		assert.Equal(t, "Groceries", created.Title)
		assert.Equal(t, "milk, eggs", created.Content)
		assert.True(t, created.CreatedAt.Equal(created.UpdatedAt))

		got, err := store.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, created.Title, got.Title)
		assert.Equal(t, created.Content, got.Content)
		assert.True(t, created.CreatedAt.Equal(got.CreatedAt), "createdAt must round-trip")
		assert.True(t, created.UpdatedAt.Equal(got.UpdatedAt), "updatedAt must round-trip")
	})

	t.Run("get accepts upper case id", func(t *testing.T) {
		store := open(t)
		ctx := t.Context()

		created, err := store.Create(ctx, "Case", "insensitive")
		require.NoError(t, err)

		got, err := store.Get(ctx, strings.ToUpper(created.ID))
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("content is stored untrimmed", func(t *testing.T) {
		store := open(t)
		ctx := t.Context()

		created, err := store.Create(ctx, "T", "  padded\n")
		require.NoError(t, err)
		got, err := store.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "  padded\n", got.Content)
	})

	t.Run("list is ordered by updatedAt descending", func(t *testing.T) {
		store := open(t)
		ctx := t.Context()

		a, err := store.Create(ctx, "A", "first")
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
		b, err := store.Create(ctx, "B", "second")
		require.NoError(t, err)

		list, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, []string{b.ID, a.ID}, []string{list[0].ID, list[1].ID})

		time.Sleep(5 * time.Millisecond)
		_, err = store.Update(ctx, a.ID, "A", "edited")
		require.NoError(t, err)

		list, err = store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{a.ID, b.ID}, []string{list[0].ID, list[1].ID})
	})

	t.Run("update keeps createdAt and refreshes updatedAt", func(t *testing.T) {
		store := open(t)
		ctx := t.Context()

		created, err := store.Create(ctx, "Old", "old body")
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)

		updated, err := store.Update(ctx, created.ID, " New ", "new body")
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "New", updated.Title)
		assert.Equal(t, "new body", updated.Content)
		assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
		assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

		got, err := store.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "New", got.Title)
		assert.True(t, updated.UpdatedAt.Equal(got.UpdatedAt))
	})

	t.Run("missing ids are not found", func(t *testing.T) {
		store := open(t)
		ctx := t.Context()

		_, err := store.Get(ctx, missingID)
		assert.True(t, errors.IsNotFound(err), "get: %v", err)

		_, err = store.Update(ctx, missingID, "t", "c")
		assert.True(t, errors.IsNotFound(err), "update: %v", err)

		err = store.Delete(ctx, missingID)
		assert.True(t, errors.IsNotFound(err), "delete: %v", err)
	})

	t.Run("delete removes the note", func(t *testing.T) {
		store := open(t)
		ctx := t.Context()

		created, err := store.Create(ctx, "Doomed", "bye")
		require.NoError(t, err)
		require.NoError(t, store.Delete(ctx, created.ID))

		_, err = store.Get(ctx, created.ID)
		assert.True(t, errors.IsNotFound(err))

		err = store.Delete(ctx, created.ID)
		assert.True(t, errors.IsNotFound(err), "second delete must report not found")

		list, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("ping", func(t *testing.T) {
		store := open(t)
		assert.NoError(t, store.Ping(t.Context()))
	})

	t.Run("cancelled context fails as database error", func(t *testing.T) {
		store := open(t)
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		_, err := store.List(ctx)
		require.Error(t, err)
		assert.Equal(t, errors.CategoryDatabase, errors.CategoryOf(err))
	})
}

func TestNewSelectsBackend(t *testing.T) {
	t.Parallel()

	settings, err := conf.DefaultSettings()
	require.NoError(t, err)
	settings.Store.Backend = conf.BackendBolt
	settings.Store.Bolt.Path = filepath.Join(t.TempDir(), "notes.bolt")

	store, err := New(t.Context(), &settings.Store, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })

	_, ok := store.(*boltStore)
	assert.True(t, ok, "expected bolt backend, got %T", store)
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	t.Parallel()

	_, err := New(t.Context(), &conf.StoreSettings{Backend: "redis"}, testLogger())
	require.Error(t, err)
	assert.Equal(t, errors.CategoryConfiguration, errors.CategoryOf(err))

	_, err = New(t.Context(), nil, testLogger())
	require.Error(t, err)
}

func TestOpenBoltRejectsEmptyPath(t *testing.T) {
	t.Parallel()

	_, err := OpenBolt("", time.Second)
	require.Error(t, err)
}

func TestMongoDatabaseName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		uri        string
		configured string
		want       string
		wantErr    bool
	}{
		{"from uri", "mongodb://localhost:27017/notesapp", "", "notesapp", false},
		{"uri with options", "mongodb://u:p@db:27017/other?authSource=admin", "", "other", false},
		{"configured wins", "mongodb://localhost:27017/notesapp", "explicit", "explicit", false},
		{"default", "mongodb://localhost:27017", "", DefaultMongoDatabase, false},
		{"invalid uri", "http://localhost", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := mongoDatabaseName(tt.uri, tt.configured)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMySQLDSN(t *testing.T) {
	t.Parallel()

	dsn := mysqlDSN(&conf.MySQLSettings{
		Host:     "db.local",
		Port:     3307,
		Username: "notes",
		Password: "secret",
		Database: "notesapp",
	})

	assert.True(t, strings.HasPrefix(dsn, "notes:secret@tcp(db.local:3307)/notesapp?"), dsn)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestSortNotesBreaksTiesByID(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	list := []notes.Note{
		{ID: "000000000000000000000001", UpdatedAt: ts},
		{ID: "000000000000000000000003", UpdatedAt: ts.Add(-time.Minute)},
		{ID: "000000000000000000000002", UpdatedAt: ts},
	}
	sortNotes(list)

	assert.Equal(t, "000000000000000000000002", list[0].ID)
	assert.Equal(t, "000000000000000000000001", list[1].ID)
	assert.Equal(t, "000000000000000000000003", list[2].ID)
}
