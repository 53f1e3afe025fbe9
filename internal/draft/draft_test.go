package draft

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/folio/internal/logging"
	"github.com/conneroisu/folio/internal/portfolio"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	fs, err := NewFileStore(filepath.Join(dir, "files"))
	require.NoError(t, err)
	sq, err := NewSQLiteStore(filepath.Join(dir, "db", "drafts.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		fs.Close()
		sq.Close()
	})
	return map[string]Store{"file": fs, "sqlite": sq}
}

func TestStores(t *testing.T) {
	ctx := context.Background()

	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Load(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.Save(ctx, DefaultKey, []byte(`{"fullName":"A"}`)))
			got, err := store.Load(ctx, DefaultKey)
			require.NoError(t, err)
			assert.JSONEq(t, `{"fullName":"A"}`, string(got))

			require.NoError(t, store.Save(ctx, DefaultKey, []byte(`{"fullName":"B"}`)))
			got, err = store.Load(ctx, DefaultKey)
			require.NoError(t, err)
			assert.JSONEq(t, `{"fullName":"B"}`, string(got))

			require.NoError(t, store.Delete(ctx, DefaultKey))
			_, err = store.Load(ctx, DefaultKey)
			assert.ErrorIs(t, err, ErrNotFound)

			assert.NoError(t, store.Delete(ctx, DefaultKey), "deleting twice is fine")
		})
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(BackendFile, filepath.Join(dir, "f"))
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)
	s.Close()

	s, err = Open(BackendSQLite, filepath.Join(dir, "d.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	s.Close()

	_, err = Open("redis", dir)
	assert.Error(t, err)
}

func TestFileStoreRejectsEmptyKey(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, s.Save(context.Background(), "!!!", []byte("x")))
}

func TestManagerRoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			m := NewManager(store, "", nil)
			assert.Equal(t, DefaultKey, m.Key())

			_, ok := m.Load(ctx)
			assert.False(t, ok)

			sample := portfolio.Sample()
			require.True(t, m.Save(ctx, sample))

			got, ok := m.Load(ctx)
			require.True(t, ok)
			if diff := cmp.Diff(sample, got); diff != "" {
				t.Errorf("restored draft mismatch (-want +got):\n%s", diff)
			}

			require.True(t, m.Clear(ctx))
			_, ok = m.Load(ctx)
			assert.False(t, ok)
		})
	}
}

type brokenStore struct{}

func (brokenStore) Save(context.Context, string, []byte) error { return errors.New("quota exceeded") }
func (brokenStore) Load(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk unavailable")
}
func (brokenStore) Delete(context.Context, string) error { return errors.New("disk unavailable") }
func (brokenStore) Close() error                         { return nil }

func TestManagerSwallowsStorageErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(&logging.LoggerConfig{Level: logging.LevelDebug, Output: &buf})
	m := NewManager(brokenStore{}, "k", logger)
	ctx := context.Background()

	assert.False(t, m.Save(ctx, portfolio.Sample()))
	_, ok := m.Load(ctx)
	assert.False(t, ok)
	assert.False(t, m.Clear(ctx))

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "quota exceeded")
	assert.Contains(t, out, "disk unavailable")
	assert.Contains(t, out, "component=draft")
	assert.NotContains(t, out, "level=ERROR")
}

func TestManagerIgnoresCorruptDraft(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, DefaultKey, []byte("{not json")))

	var buf bytes.Buffer
	m := NewManager(store, DefaultKey, logging.NewLogger(&logging.LoggerConfig{Level: logging.LevelWarn, Output: &buf}))

	_, ok := m.Load(ctx)
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "stored draft is corrupt")
}
