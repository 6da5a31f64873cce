// Package tooltest provides in-memory windows and tools for tests that
// exercise the registry, discovery and launcher without a GUI driver.
package tooltest

import (
	"errors"
	"sync"

	"github.com/ytget/omnitool/internal/tool"
)

// Window records Show/Close calls and runs the close hook like a real window.
type Window struct {
	mu       sync.Mutex
	shows    int
	closes   int
	onClosed func()
}

// Show implements tool.Window.
func (w *Window) Show() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.shows++
}

// Close implements tool.Window and fires the close hook.
func (w *Window) Close() {
	w.mu.Lock()
	w.closes++
	hook := w.onClosed
	w.mu.Unlock()

	if hook != nil {
		hook()
	}
}

// SetOnClosed implements tool.Window.
func (w *Window) SetOnClosed(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onClosed = fn
}

// Shows returns how many times Show was called.
func (w *Window) Shows() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.shows
}

// Closes returns how many times Close was called.
func (w *Window) Closes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closes
}

// ErrWindow is returned by tools built with Failing.
var ErrWindow = errors.New("tooltest: window unavailable")

// Tool is a configurable tool.Tool backed by tool.Base.
type Tool struct {
	tool.Base
	Meta  tool.Metadata
	Err   error
	Panic any

	mu      sync.Mutex
	created []*Window
}

// New returns a tool with the given metadata.
func New(meta tool.Metadata) *Tool {
	t := &Tool{Meta: meta}
	t.Bind(t.CreateWindow)
	return t
}

// Failing returns a tool whose window factory always fails.
func Failing(meta tool.Metadata) *Tool {
	t := New(meta)
	t.Err = ErrWindow
	return t
}

// Panicking returns a tool whose window factory panics with v.
func Panicking(meta tool.Metadata, v any) *Tool {
	t := New(meta)
	t.Panic = v
	return t
}

// Metadata implements tool.Tool.
func (t *Tool) Metadata() tool.Metadata {
	return t.Meta
}

// CreateWindow implements tool.Tool.
func (t *Tool) CreateWindow() (tool.Window, error) {
	if t.Panic != nil {
		panic(t.Panic)
	}
	if t.Err != nil {
		return nil, t.Err
	}
	w := &Window{}
	t.mu.Lock()
	t.created = append(t.created, w)
	t.mu.Unlock()
	return w, nil
}

// Windows returns every window created so far.
func (t *Tool) Windows() []*Window {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*Window(nil), t.created...)
}

// Constructor returns a tool.Constructor producing tools with meta.
func Constructor(meta tool.Metadata) tool.Constructor {
	return func() tool.Tool { return New(meta) }
}

// Meta builds metadata with the fields tests usually care about.
func Meta(id, name, category string, keywords ...string) tool.Metadata {
	return tool.Metadata{
		ID:          id,
		Name:        name,
		Description: name + " tool",
		Category:    category,
		Keywords:    keywords,
		Version:     "1.0.0",
		Author:      "test",
	}
}
