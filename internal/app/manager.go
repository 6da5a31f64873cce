// Package app is the query and dispatch surface the launcher UI and the CLI
// use to list, filter, search and launch registered tools.
package app

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ytget/omnitool/internal/observability"
	"github.com/ytget/omnitool/internal/registry"
	"github.com/ytget/omnitool/internal/tool"
)

// Launch results recorded in metrics
const (
	LaunchOK       = "ok"
	LaunchNotFound = "not_found"
	LaunchError    = "error"
)

// CategoryCount is the number of tools in one category
type CategoryCount struct {
	Category string
	Count    int
}

// Manager wraps a registry with filtering, search and launch.
type Manager struct {
	registry *registry.Registry
	logger   *zap.Logger
	metrics  *observability.Metrics

	mu        sync.Mutex
	instances map[string]tool.Tool
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// NewManager creates a facade over reg.
func NewManager(reg *registry.Registry, opts ...Option) *Manager {
	m := &Manager{
		registry:  reg,
		logger:    zap.NewNop(),
		instances: make(map[string]tool.Tool),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ListAll returns metadata for every tool in registration order.
func (m *Manager) ListAll() []tool.Metadata {
	return m.registry.Metadata()
}

// Get returns the metadata of one tool.
func (m *Manager) Get(id string) (tool.Metadata, bool) {
	for _, meta := range m.ListAll() {
		if meta.ID == id {
			return meta, true
		}
	}
	return tool.Metadata{}, false
}

// ByCategory returns tools whose category equals category exactly.
func (m *Manager) ByCategory(category string) []tool.Metadata {
	var result []tool.Metadata
	for _, meta := range m.ListAll() {
		if meta.Category == category {
			result = append(result, meta)
		}
	}
	return result
}

// Search matches query case-insensitively against name, description,
// category and keywords. An empty query returns every tool.
func (m *Manager) Search(query string) []tool.Metadata {
	query = strings.TrimSpace(query)
	all := m.ListAll()
	if query == "" {
		return all
	}

	var result []tool.Metadata
	for _, meta := range all {
		if meta.Matches(query) {
			result = append(result, meta)
		}
	}
	return result
}

// CategoriesWithCounts returns each distinct category with its tool count,
// in the order categories first appear.
func (m *Manager) CategoriesWithCounts() []CategoryCount {
	var result []CategoryCount
	index := make(map[string]int)
	for _, meta := range m.ListAll() {
		if i, ok := index[meta.Category]; ok {
			result[i].Count++
			continue
		}
		index[meta.Category] = len(result)
		result = append(result, CategoryCount{Category: meta.Category, Count: 1})
	}
	return result
}

// CategoryCounts returns the category counts as a map.
func (m *Manager) CategoryCounts() map[string]int {
	counts := make(map[string]int)
	for _, meta := range m.ListAll() {
		counts[meta.Category]++
	}
	return counts
}

// Launch shows the window of tool id, creating the tool on first use.
// An unknown id returns (nil, false, nil). Window creation errors, and
// panics raised while building the window, are returned for the caller to
// display and the instance is dropped.
func (m *Manager) Launch(id string) (tool.Window, bool, error) {
	inst, ok := m.instance(id)
	if !ok {
		m.logger.Info("launch of unknown tool", zap.String("tool", id))
		m.metrics.RecordLaunch(id, LaunchNotFound)
		return nil, false, nil
	}

	w, err := launch(inst)
	if err != nil {
		m.logger.Error("tool launch failed", zap.String("tool", id), zap.Error(err))
		m.metrics.RecordLaunch(id, LaunchError)
		m.forget(id, inst)
		return nil, true, err
	}

	m.logger.Info("tool launched", zap.String("tool", id))
	m.metrics.RecordLaunch(id, LaunchOK)
	return w, true, nil
}

// Shutdown cleans up every live tool instance.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	live := make([]tool.Tool, 0, len(m.instances))
	for id, inst := range m.instances {
		live = append(live, inst)
		delete(m.instances, id)
	}
	m.mu.Unlock()

	for _, inst := range live {
		inst.Cleanup()
	}
}

// instance returns the live instance for id, constructing it if needed.
func (m *Manager) instance(id string) (tool.Tool, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if inst, ok := m.instances[id]; ok {
		return inst, true
	}
	inst, ok := m.registry.CreateInstance(id)
	if !ok {
		return nil, false
	}
	if r, ok := inst.(tool.Releaser); ok {
		r.OnRelease(func() {
			m.logger.Debug("tool window closed", zap.String("tool", id))
			m.forget(id, inst)
		})
	}
	m.instances[id] = inst
	return inst, true
}

// launch runs inst.Launch, turning a panic into an error.
func launch(inst tool.Tool) (w tool.Window, err error) {
	defer func() {
		if r := recover(); r != nil {
			w, err = nil, fmt.Errorf("window creation panicked: %v", r)
		}
	}()
	return inst.Launch()
}

func (m *Manager) forget(id string, inst tool.Tool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.instances[id] == inst {
		delete(m.instances, id)
	}
}
