package graphgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    linkCounter    prometheus.Counter
//	    queryHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordLink(duration time.Duration, err error) {
//	    p.linkCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordCreateNode is called after each node creation.
	RecordCreateNode(duration time.Duration, err error)

	// RecordRemoveNode is called after each node removal, including the
	// removal of its edges.
	RecordRemoveNode(duration time.Duration, err error)

	// RecordSetProperty is called after each property write or delete.
	RecordSetProperty(duration time.Duration, err error)

	// RecordLink is called after each edge creation.
	RecordLink(duration time.Duration, err error)

	// RecordUnlink is called after each edge removal attempt.
	RecordUnlink(duration time.Duration, err error)

	// RecordEdgeQuery is called after each adjacency query.
	// results is the number of edges returned.
	RecordEdgeQuery(results int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordCreateNode(time.Duration, error)     {}
func (NoopMetricsCollector) RecordRemoveNode(time.Duration, error)     {}
func (NoopMetricsCollector) RecordSetProperty(time.Duration, error)    {}
func (NoopMetricsCollector) RecordLink(time.Duration, error)           {}
func (NoopMetricsCollector) RecordUnlink(time.Duration, error)         {}
func (NoopMetricsCollector) RecordEdgeQuery(int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	CreateNodeCount   atomic.Int64
	CreateNodeErrors  atomic.Int64
	RemoveNodeCount   atomic.Int64
	RemoveNodeErrors  atomic.Int64
	SetPropertyCount  atomic.Int64
	SetPropertyErrors atomic.Int64
	LinkCount         atomic.Int64
	LinkErrors        atomic.Int64
	LinkTotalNanos    atomic.Int64
	UnlinkCount       atomic.Int64
	UnlinkErrors      atomic.Int64
	QueryCount        atomic.Int64
	QueryErrors       atomic.Int64
	QueryResults      atomic.Int64
	QueryTotalNanos   atomic.Int64
}

// RecordCreateNode implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCreateNode(_ time.Duration, err error) {
	b.CreateNodeCount.Add(1)
	if err != nil {
		b.CreateNodeErrors.Add(1)
	}
}

// RecordRemoveNode implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRemoveNode(_ time.Duration, err error) {
	b.RemoveNodeCount.Add(1)
	if err != nil {
		b.RemoveNodeErrors.Add(1)
	}
}

// RecordSetProperty implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSetProperty(_ time.Duration, err error) {
	b.SetPropertyCount.Add(1)
	if err != nil {
		b.SetPropertyErrors.Add(1)
	}
}

// RecordLink implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLink(duration time.Duration, err error) {
	b.LinkCount.Add(1)
	b.LinkTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LinkErrors.Add(1)
	}
}

// RecordUnlink implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUnlink(_ time.Duration, err error) {
	b.UnlinkCount.Add(1)
	if err != nil {
		b.UnlinkErrors.Add(1)
	}
}

// RecordEdgeQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEdgeQuery(results int, duration time.Duration, err error) {
	b.QueryCount.Add(1)
	b.QueryResults.Add(int64(results))
	b.QueryTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QueryErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		CreateNodeCount:   b.CreateNodeCount.Load(),
		CreateNodeErrors:  b.CreateNodeErrors.Load(),
		RemoveNodeCount:   b.RemoveNodeCount.Load(),
		RemoveNodeErrors:  b.RemoveNodeErrors.Load(),
		SetPropertyCount:  b.SetPropertyCount.Load(),
		SetPropertyErrors: b.SetPropertyErrors.Load(),
		LinkCount:         b.LinkCount.Load(),
		LinkErrors:        b.LinkErrors.Load(),
		LinkAvgNanos:      avg(b.LinkTotalNanos.Load(), b.LinkCount.Load()),
		UnlinkCount:       b.UnlinkCount.Load(),
		UnlinkErrors:      b.UnlinkErrors.Load(),
		QueryCount:        b.QueryCount.Load(),
		QueryErrors:       b.QueryErrors.Load(),
		QueryResults:      b.QueryResults.Load(),
		QueryAvgNanos:     avg(b.QueryTotalNanos.Load(), b.QueryCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	CreateNodeCount   int64
	CreateNodeErrors  int64
	RemoveNodeCount   int64
	RemoveNodeErrors  int64
	SetPropertyCount  int64
	SetPropertyErrors int64
	LinkCount         int64
	LinkErrors        int64
	LinkAvgNanos      int64
	UnlinkCount       int64
	UnlinkErrors      int64
	QueryCount        int64
	QueryErrors       int64
	QueryResults      int64
	QueryAvgNanos     int64
}
