package tool

import (
	"errors"
	"sync"
)

// Window is the part of a toolkit window the launcher lifecycle needs.
// fyne.Window satisfies it.
type Window interface {
	Show()
	Close()
	SetOnClosed(func())
}

// Tool is an independently launchable feature unit with its own window.
type Tool interface {
	// Metadata returns static descriptive data. It must not have side effects.
	Metadata() Metadata

	// CreateWindow builds the tool's window. Errors are returned as-is.
	CreateWindow() (Window, error)

	// Launch returns the existing window if there is one, otherwise it
	// creates one. The window is shown in both cases.
	Launch() (Window, error)

	// Cleanup closes and releases the window. Safe to call repeatedly.
	Cleanup()
}

// Releaser is implemented by tools that report when the user closed their
// window and the tool dropped it. tool.Base implements it.
type Releaser interface {
	OnRelease(fn func())
}

// Constructor creates a fresh tool instance.
type Constructor func() Tool

var (
	// ErrNoWindowFactory is returned by Base.Launch when Bind was never called.
	ErrNoWindowFactory = errors.New("tool: window factory not bound")
	// ErrNoApp is returned by CreateWindow when the tool has no GUI app to
	// open windows in.
	ErrNoApp = errors.New("tool: no GUI application")
)

// Base implements Launch and Cleanup on top of a window factory. Concrete
// tools embed it and call Bind from their constructor.
type Base struct {
	mu        sync.Mutex
	window    Window
	factory   func() (Window, error)
	onRelease func()
}

// Bind sets the factory used by Launch.
func (b *Base) Bind(factory func() (Window, error)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.factory = factory
}

// OnRelease sets a hook run after a window closed by the user is dropped.
// Cleanup does not run it.
func (b *Base) OnRelease(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onRelease = fn
}

// Launch creates the window on first use and shows it.
func (b *Base) Launch() (Window, error) {
	b.mu.Lock()
	w := b.window
	factory := b.factory
	b.mu.Unlock()

	if w == nil {
		if factory == nil {
			return nil, ErrNoWindowFactory
		}
		created, err := factory()
		if err != nil {
			return nil, err
		}

		b.mu.Lock()
		lost := b.window != nil
		if lost {
			w = b.window
		} else {
			b.window = created
			w = created
			// a window closed by the user drops the reference so the next
			// launch builds a new one
			w.SetOnClosed(func() { b.release(created) })
		}
		b.mu.Unlock()

		if lost {
			created.Close()
		}
	}

	w.Show()
	return w, nil
}

// Cleanup closes the current window, if any, and forgets it.
func (b *Base) Cleanup() {
	b.mu.Lock()
	w := b.window
	b.window = nil
	b.mu.Unlock()

	if w != nil {
		w.Close()
	}
}

// HasWindow reports whether a window is currently held.
func (b *Base) HasWindow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.window != nil
}

func (b *Base) release(w Window) {
	b.mu.Lock()
	if b.window != w {
		b.mu.Unlock()
		return
	}
	b.window = nil
	hook := b.onRelease
	b.mu.Unlock()

	if hook != nil {
		hook()
	}
}
