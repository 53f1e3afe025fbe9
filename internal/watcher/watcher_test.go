package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestEventTypeString(t *testing.T) {
	testCases := []struct {
		eventType EventType
		expected  string
	}{
		{EventTypeCreated, "created"},
		{EventTypeModified, "modified"},
		{EventTypeDeleted, "deleted"},
		{EventTypeRenamed, "renamed"},
		{EventType(42), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.eventType.String())
		})
	}
}

func TestNewFileWatcher(t *testing.T) {
	watcher, err := NewFileWatcher(0, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	assert.NotNil(t, watcher.watcher)
	assert.Equal(t, DefaultDebounce, watcher.debouncer.delay)
	assert.Empty(t, watcher.filters)
	assert.Empty(t, watcher.handlers)
}

func TestFileWatcherAddPath(t *testing.T) {
	watcher, err := NewFileWatcher(50*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	dir := t.TempDir()
	assert.NoError(t, watcher.AddPath(dir))

	file := filepath.Join(dir, "portfolio.yaml")
	require.NoError(t, os.WriteFile(file, []byte("fullName: A\n"), 0o644))

	testCases := []struct {
		name string
		path string
	}{
		{"empty", ""},
		{"missing", filepath.Join(dir, "nope")},
		{"file not directory", file},
		{"null byte", "bad\x00path"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, watcher.AddPath(tc.path))
		})
	}
}

func TestWatchFileDeliversDebouncedBatch(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "portfolio.yaml")
	require.NoError(t, os.WriteFile(file, []byte("fullName: A\n"), 0o644))

	watcher, err := NewFileWatcher(50*time.Millisecond, nil)
	require.NoError(t, err)
	require.NoError(t, watcher.WatchFile(file))

	var (
		mu      sync.Mutex
		batches [][]ChangeEvent
	)
	watcher.AddHandler(func(_ context.Context, events []ChangeEvent) error {
		mu.Lock()
		batches = append(batches, events)
		mu.Unlock()
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, watcher.Start(ctx))
	defer func() {
		cancel()
		require.NoError(t, watcher.Stop())
		watcher.Wait()
	}()

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(file, []byte("fullName: B\n"), 0o644))
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(batches) > 0
	}, 2*time.Second, 20*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for _, batch := range batches {
		for _, ev := range batch {
			assert.Equal(t, "portfolio.yaml", filepath.Base(ev.Path))
		}
	}
	assert.Len(t, batches[0], 1, "events for one path are collapsed")
}

func TestDebouncer(t *testing.T) {
	debouncer := newDebouncer(30 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		debouncer.start(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	debouncer.events <- ChangeEvent{Path: "b.yaml", Type: EventTypeCreated}
	debouncer.events <- ChangeEvent{Path: "a.yaml", Type: EventTypeModified}
	debouncer.events <- ChangeEvent{Path: "b.yaml", Type: EventTypeModified}

	select {
	case batch := <-debouncer.output:
		require.Len(t, batch, 2)
		assert.Equal(t, "a.yaml", batch[0].Path)
		assert.Equal(t, "b.yaml", batch[1].Path)
		assert.Equal(t, EventTypeModified, batch[1].Type, "last event per path wins")
	case <-time.After(time.Second):
		t.Fatal("debouncer did not flush")
	}
}

func TestFilters(t *testing.T) {
	name := NameFilter("portfolio.yaml")
	assert.True(t, name("/tmp/x/portfolio.yaml"))
	assert.False(t, name("/tmp/x/portfolio.yaml.swp"))
	assert.False(t, name("/tmp/x/other.yaml"))

	testCases := []struct {
		path    string
		data    bool
		notTemp bool
	}{
		{"portfolio.yaml", true, true},
		{"portfolio.YML", true, true},
		{"resume.json", true, true},
		{"index.html", false, true},
		{".portfolio.yaml.swp", false, false},
		{"portfolio.yaml~", false, false},
		{".#portfolio.yaml", true, false},
		{"#portfolio.yaml#", false, false},
	}
	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.data, DataFileFilter(tc.path))
			assert.Equal(t, tc.notTemp, NoEditorTempFilter(tc.path))
		})
	}
}

func TestStopIsIdempotent(t *testing.T) {
	watcher, err := NewFileWatcher(10*time.Millisecond, nil)
	require.NoError(t, err)

	assert.NoError(t, watcher.Stop())
	assert.NoError(t, watcher.Stop())
}
