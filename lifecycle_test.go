package graphgo_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/hupe1980/graphgo"
	"github.com/hupe1980/graphgo/blobstore"
	"github.com/hupe1980/graphgo/disk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNoGoroutineLeaks verifies that snapshot workers and compressors are
// stopped once Backup, Restore and Close return.
func TestNoGoroutineLeaks(t *testing.T) {
	tests := []struct {
		name        string
		compression disk.Compression
		maxLeaks    int // Allow small variance (runtime background goroutines)
	}{
		{"None", disk.CompressionNone, 2},
		{"LZ4", disk.CompressionLZ4, 2},
		{"Zstd", disk.CompressionZstd, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runtime.GC()
			time.Sleep(50 * time.Millisecond)
			initial := runtime.NumGoroutine()

			store, err := graphgo.Open(t.TempDir())
			require.NoError(t, err)

			g := store.Graph()
			root, _ := g.RootNode()
			rel, _ := g.Relationship("child")
			for range 20 {
				n, err := g.CreateNode()
				require.NoError(t, err)
				_, err = root.Link(n, rel)
				require.NoError(t, err)
			}

			ctx := context.Background()
			bs := blobstore.NewMemoryStore()
			ds := store.Backend().(*disk.Store)
			_, err = ds.Backup(ctx, bs, disk.WithCompression(tt.compression), disk.WithConcurrency(4))
			require.NoError(t, err)
			require.NoError(t, store.Close())

			_, err = disk.Restore(ctx, bs, t.TempDir())
			require.NoError(t, err)

			deadline := time.Now().Add(2 * time.Second)
			var leaked int
			for {
				runtime.GC()
				time.Sleep(50 * time.Millisecond)
				leaked = runtime.NumGoroutine() - initial
				if leaked <= tt.maxLeaks || time.Now().After(deadline) {
					break
				}
			}

			if leaked > tt.maxLeaks {
				buf := make([]byte, 1<<20)
				n := runtime.Stack(buf, true)
				t.Errorf("goroutine leak: %d goroutines left (max %d)\n%s", leaked, tt.maxLeaks, buf[:n])
			}
		})
	}
}

// TestCloseIdempotent verifies that calling Close() multiple times is safe.
func TestCloseIdempotent(t *testing.T) {
	store, err := graphgo.Open(t.TempDir())
	require.NoError(t, err)

	for range 3 {
		assert.NoError(t, store.Close())
	}

	var nilStore *graphgo.Store
	assert.NoError(t, nilStore.Close())
}

func TestStructuredLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := graphgo.NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	store, err := graphgo.Open(t.TempDir(), graphgo.WithLogger(logger))
	require.NoError(t, err)

	g := store.Graph()
	a, _ := g.CreateNode()
	b, _ := g.CreateNode()
	rel, _ := g.Relationship("knows")
	_, err = a.Link(b, rel)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	var msgs []string
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		msgs = append(msgs, entry["msg"].(string))

		if entry["msg"] == "linked" {
			assert.Equal(t, "knows", entry["relationship"])
			assert.EqualValues(t, a.ID(), entry["start"])
			assert.EqualValues(t, b.ID(), entry["end"])
		}
	}

	assert.Contains(t, msgs, "opened graph store")
	assert.Contains(t, msgs, "node created")
	assert.Contains(t, msgs, "linked")
	assert.Contains(t, msgs, "closing graph store")
}
