// Package discovery populates a registry from the static list of tool
// constructors assembled by the composition root. Loading is best effort:
// a broken tool is skipped and reported, the rest still load.
package discovery

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ytget/omnitool/internal/registry"
	"github.com/ytget/omnitool/internal/tool"
)

// Entry names a tool constructor for diagnostics.
type Entry struct {
	Name        string
	Constructor tool.Constructor
}

// LoadError records why an entry could not be registered.
type LoadError struct {
	Name string
	Err  error
}

func (e LoadError) Error() string {
	return fmt.Sprintf("load tool %q: %v", e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e LoadError) Unwrap() error {
	return e.Err
}

// Load registers every entry into reg in order and returns the failures.
func Load(reg *registry.Registry, entries []Entry, logger *zap.Logger) []LoadError {
	if logger == nil {
		logger = zap.NewNop()
	}

	var failures []LoadError
	for _, e := range entries {
		if err := register(reg, e); err != nil {
			logger.Warn("skipping tool", zap.String("tool", e.Name), zap.Error(err))
			failures = append(failures, LoadError{Name: e.Name, Err: err})
		}
	}

	logger.Info("tools loaded",
		zap.Int("registered", reg.Len()),
		zap.Int("failed", len(failures)))
	return failures
}

// register runs one constructor, turning a panic into an error.
func register(reg *registry.Registry, e Entry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("constructor panicked: %v", r)
		}
	}()
	return reg.Register(e.Constructor)
}
