package charts

import (
	"sort"
	"sync"

	"github.com/kamilov2/presentation/pkg/debug"
	"github.com/kamilov2/presentation/pkg/metrics"
)

// Registry maps chart identifiers to live chart handles. It is populated
// once at startup and iterated on every resize; entries are never removed
// for the life of the process. After initialization there are no concurrent
// writers, but the mutex keeps Register safe if wiring ever moves off the
// event loop.
type Registry struct {
	mu     sync.RWMutex
	charts map[string]Chart
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{charts: make(map[string]Chart)}
}

// Register adds a chart under its identifier. A nil chart is ignored; a
// duplicate id replaces the previous handle (last writer wins, logged).
func (r *Registry) Register(c Chart) {
	if c == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.charts[c.ID()]; exists {
		debug.Warn("chart %q registered twice", c.ID())
	}
	r.charts[c.ID()] = c
}

// Get returns the chart registered under id, if any.
func (r *Registry) Get(id string) (Chart, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.charts[id]
	return c, ok
}

// Len returns the number of registered charts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.charts)
}

// Charts returns all registered charts in stable id order.
func (r *Registry) Charts() []Chart {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.charts))
	for id := range r.charts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Chart, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.charts[id])
	}
	return out
}

// ResizeAll pushes a new box to every registered chart. This is the
// debounced window-resize relayout pass; the per-slide container observer
// resizes individual charts with a tighter box.
func (r *Registry) ResizeAll(width, height int) {
	defer metrics.Timer(metrics.ChartRelayout)()
	for _, c := range r.Charts() {
		c.Resize(width, height)
	}
}
