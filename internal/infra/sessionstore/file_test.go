package sessionstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/jungle-board/pkg/logger"
)

func TestFileStorage_SetGetRemove(t *testing.T) {
	storage, err := NewFileStorage(t.TempDir(), time.Second, logger.Discard())
	require.NoError(t, err)
	ctx := context.Background()

	_, ok, err := storage.Get(ctx, "auth")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, storage.Set(ctx, "auth", `{"token":"t"}`))
	value, ok, err := storage.Get(ctx, "auth")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"token":"t"}`, value)

	require.NoError(t, storage.Remove(ctx, "auth"))
	require.NoError(t, storage.Remove(ctx, "auth"))
	_, ok, err = storage.Get(ctx, "auth")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFileStorage_WatchReportsForeignWritesOnly(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewFileStorage(dir, 10*time.Millisecond, logger.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes, err := storage.Watch(ctx, "auth")
	require.NoError(t, err)

	require.NoError(t, storage.Set(ctx, "auth", `{"token":"mine"}`))
	select {
	case <-changes:
		t.Fatal("own write must not be reported")
	case <-time.After(80 * time.Millisecond):
	}

	other, err := NewFileStorage(dir, time.Second, logger.Discard())
	require.NoError(t, err)
	require.NoError(t, other.Set(ctx, "auth", `{"token":"theirs"}`))

	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		t.Fatal("expected foreign write to be reported")
	}

	cancel()
	require.Eventually(t, func() bool {
		_, open := <-changes
		return !open
	}, time.Second, 10*time.Millisecond)
}

func TestFileStorage_RejectsEmptyDir(t *testing.T) {
	_, err := NewFileStorage("  ", time.Second, logger.Discard())
	require.Error(t, err)
}

func TestFileStorage_WritesUnderKeyName(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewFileStorage(dir, time.Second, logger.Discard())
	require.NoError(t, err)
	require.NoError(t, storage.Set(context.Background(), "jungle-board-auth", "{}"))

	data, err := os.ReadFile(filepath.Join(dir, "jungle-board-auth.json"))
	require.NoError(t, err)
	require.Equal(t, "{}", string(data))
}

func TestMemoryStorage_RoundTrip(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()
	require.NoError(t, storage.Set(ctx, "k", "v"))
	value, ok, err := storage.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", value)
	require.NoError(t, storage.Remove(ctx, "k"))
	_, ok, _ = storage.Get(ctx, "k")
	require.False(t, ok)
}
