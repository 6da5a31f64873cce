// Package registry maps tool ids to their constructors. A Registry is built
// explicitly by the composition root, populated once at start-up and only
// read afterwards.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ytget/omnitool/internal/tool"
)

// ErrInvalidTool is returned when a constructor yields no tool or an empty id.
var ErrInvalidTool = errors.New("registry: invalid tool")

type entry struct {
	ctor tool.Constructor
	meta tool.Metadata
}

// Registry holds all known tools in registration order.
type Registry struct {
	mu         sync.RWMutex
	tools      map[string]entry
	order      []string // preserves registration order
	collisions []string
	logger     *zap.Logger
}

// New creates an empty registry. A nil logger disables logging.
func New(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		tools:  make(map[string]entry),
		logger: logger,
	}
}

// Register invokes ctor once to read its metadata and stores ctor under the
// metadata id. If the id is already registered the new constructor replaces
// the old one (last write wins) while keeping the original position; the
// overwrite is logged and reported by Collisions.
func (r *Registry) Register(ctor tool.Constructor) error {
	if ctor == nil {
		return fmt.Errorf("%w: nil constructor", ErrInvalidTool)
	}
	t := ctor()
	if t == nil {
		return fmt.Errorf("%w: constructor returned nil", ErrInvalidTool)
	}
	meta := t.Metadata().Normalize()
	if meta.ID == "" {
		return fmt.Errorf("%w: empty id (name %q)", ErrInvalidTool, meta.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, exists := r.tools[meta.ID]; exists {
		r.collisions = append(r.collisions, meta.ID)
		r.logger.Warn("tool id registered twice, keeping the latest",
			zap.String("id", meta.ID),
			zap.String("previous", prev.meta.Name),
			zap.String("replacement", meta.Name))
	} else {
		r.order = append(r.order, meta.ID)
	}
	r.tools[meta.ID] = entry{ctor: ctor, meta: meta}

	r.logger.Debug("registered tool", zap.String("id", meta.ID), zap.String("name", meta.Name))
	return nil
}

// Get returns the constructor registered under id.
func (r *Registry) Get(id string) (tool.Constructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.tools[id]
	return e.ctor, ok
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[id]
	return ok
}

// ListAll returns all constructors in registration order.
func (r *Registry) ListAll() []tool.Constructor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]tool.Constructor, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.tools[id].ctor)
	}
	return result
}

// Metadata returns the metadata captured at registration, in registration order.
func (r *Registry) Metadata() []tool.Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]tool.Metadata, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.tools[id].meta)
	}
	return result
}

// CreateInstance builds a new tool for id. Unknown ids return false.
func (r *Registry) CreateInstance(id string) (tool.Tool, bool) {
	ctor, ok := r.Get(id)
	if !ok {
		return nil, false
	}
	t := ctor()
	if t == nil {
		return nil, false
	}
	return t, true
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Collisions returns ids that were registered more than once, one element
// per overwrite.
func (r *Registry) Collisions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.collisions...)
}
