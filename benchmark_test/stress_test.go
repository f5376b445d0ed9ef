package benchmark_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hupe1980/graphgo"
	"github.com/hupe1980/graphgo/disk"
	"github.com/hupe1980/graphgo/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStress_Concurrency runs mixed link, unlink, query and property
// writes from several goroutines and then checks that every edge is still
// present in both endpoint lists.
func TestStress_Concurrency(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping stress test in short mode")
	}

	f := buildFixture(t, "disk", 200, 10, 0)
	defer f.store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	const numWorkers = 8

	var (
		opsCount  atomic.Int64
		errCount  atomic.Int64
		duplicate atomic.Int64
		wg        sync.WaitGroup
	)

	for w := range numWorkers {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			rng := testutil.NewRNG(int64(workerID))

			for {
				select {
				case <-ctx.Done():
					return
				default:
				}

				a := f.nodes[rng.Intn(len(f.nodes))]
				b := f.nodes[rng.Intn(len(f.nodes))]
				rel := f.rels[rng.Intn(len(f.rels))]

				var err error
				switch op := rng.Intn(100); {
				case op < 40:
					_, err = a.Link(b, rel)
				case op < 60:
					_, err = a.Unlink(b, rel)
				case op < 90:
					var edges []graphgo.Edge
					edges, err = a.OutgoingEdges(rel)
					seen := make(map[uint64]bool, len(edges))
					for _, e := range edges {
						if seen[uint64(e.ID())] {
							duplicate.Add(1)
						}
						seen[uint64(e.ID())] = true
					}
				default:
					err = a.Set("worker", workerID)
				}
				if err != nil {
					errCount.Add(1)
					t.Errorf("operation failed: %v", err)
				}
				opsCount.Add(1)
			}
		}(w)
	}
	wg.Wait()

	t.Logf("ops: %d", opsCount.Load())
	assert.Zero(t, errCount.Load())
	assert.Zero(t, duplicate.Load())

	report, err := f.store.Backend().(*disk.Store).Check()
	require.NoError(t, err)
	assert.True(t, report.OK(), report.Issues)
}
