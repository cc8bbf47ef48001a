package backendmodel

import (
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/replicate/tensorbackend/pkg/errors"
	"github.com/replicate/tensorbackend/pkg/host"
)

// batchingCell caches the host's answer to the batch-properties query. It moves
// from unset to in-flight (a singleflight call) to resolved, and falls back to
// unset when the query fails.
type batchingCell struct {
	mu       sync.Mutex
	resolved bool
	value    bool

	group singleflight.Group
}

func (c *batchingCell) load() (value bool, resolved bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, c.resolved
}

// store keeps the first resolved value.
func (c *batchingCell) store(value bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.resolved {
		c.value = value
		c.resolved = true
	}
	return c.value
}

// SupportsFirstDimBatching reports whether the serving process batches this
// model along the first tensor dimension. It must only be called once the model
// has finished loading. The host is asked once; later calls return the cached
// answer. A failed query is not cached.
func (m *Model) SupportsFirstDimBatching() (bool, error) {
	if value, ok := m.firstDimBatching.load(); ok {
		return value, nil
	}

	v, err, _ := m.firstDimBatching.group.Do("batch_properties", func() (any, error) {
		// A caller can reach Do after an earlier flight already resolved the cell.
		if value, ok := m.firstDimBatching.load(); ok {
			return value, nil
		}

		flags, err := m.server.ModelBatchProperties(m.name, m.version)
		if err != nil {
			m.logger.Warn("batch properties query failed", zap.Error(err))
			return false, errors.HostQueryFailed(err)
		}
		m.logger.Debug("batch properties resolved", zap.Stringer("flags", flags))
		return m.firstDimBatching.store(flags&host.BatchFirstDim != 0), nil
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}
