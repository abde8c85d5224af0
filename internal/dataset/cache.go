package dataset

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/vroger11/hackaviz-2025/internal/domain"
	"github.com/vroger11/hackaviz-2025/internal/observability"
)

// CachedSource wraps a Source with memoization keyed on file identity
// (path, size, modification time). Repeated loads of an unchanged file
// return the cached slice without re-parsing; a changed file is re-read
// transparently. The cache is owned by whoever composes the service, not by
// package-level state, and can be dropped explicitly with Invalidate.
type CachedSource struct {
	inner   Source
	metrics *observability.Metrics

	mu    sync.Mutex
	water map[string]waterEntry
	rain  map[string]rainEntry
}

// fileIdentity captures the attributes that invalidate a cached parse.
type fileIdentity struct {
	size    int64
	modTime time.Time
}

type waterEntry struct {
	id      fileIdentity
	records []domain.WaterObservation
}

type rainEntry struct {
	id      fileIdentity
	records []domain.RainObservation
}

// NewCachedSource creates a memoizing decorator around a Source.
func NewCachedSource(inner Source, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{
		inner:   inner,
		metrics: metrics,
		water:   make(map[string]waterEntry),
		rain:    make(map[string]rainEntry),
	}
}

// LoadWater returns the cached collection when the file is unchanged. The
// returned slice is shared across callers and must be treated as immutable.
func (c *CachedSource) LoadWater(ctx context.Context, path string) ([]domain.WaterObservation, error) {
	id, err := identify(path)
	if err != nil {
		return nil, fmt.Errorf("stat water dataset: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.water[path]; ok && entry.id == id {
		c.metrics.DatasetCache.WithLabelValues("water", "hit").Inc()
		return entry.records, nil
	}
	c.metrics.DatasetCache.WithLabelValues("water", "miss").Inc()

	records, err := c.inner.LoadWater(ctx, path)
	if err != nil {
		return nil, err
	}
	c.water[path] = waterEntry{id: id, records: records}
	return records, nil
}

// LoadRain is the rainfall counterpart of LoadWater.
func (c *CachedSource) LoadRain(ctx context.Context, path string) ([]domain.RainObservation, error) {
	id, err := identify(path)
	if err != nil {
		return nil, fmt.Errorf("stat rain dataset: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.rain[path]; ok && entry.id == id {
		c.metrics.DatasetCache.WithLabelValues("rain", "hit").Inc()
		return entry.records, nil
	}
	c.metrics.DatasetCache.WithLabelValues("rain", "miss").Inc()

	records, err := c.inner.LoadRain(ctx, path)
	if err != nil {
		return nil, err
	}
	c.rain[path] = rainEntry{id: id, records: records}
	return records, nil
}

// Invalidate drops every cached collection; the next load re-parses.
func (c *CachedSource) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.water = make(map[string]waterEntry)
	c.rain = make(map[string]rainEntry)
}

func identify(path string) (fileIdentity, error) {
	info, err := os.Stat(path)
	if err != nil {
		return fileIdentity{}, err
	}
	return fileIdentity{size: info.Size(), modTime: info.ModTime()}, nil
}
