// SPDX-License-Identifier: Unlicense OR MIT

// Package headless implements a pure Go platform driver backed by an
// in-memory event queue. It creates no native resources and is meant
// for offscreen embedding and for testing embedders without a display
// connection.
package headless

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"sync/atomic"
	"time"

	"github.com/paneui/pane/event"
	"github.com/paneui/pane/view"
)

// ErrTimeout is returned by WaitForEvent when the timeout expires
// before an event arrives.
var ErrTimeout = errors.New("headless: wait timed out")

// Driver is a view.Driver without native windows. Events are fed to
// its windows with Enqueue and delivered by ProcessEvents.
type Driver struct {
	// CreateErr, when non-nil, makes the next CreateWindow call fail
	// with it. It is consumed by the failed call.
	CreateErr error

	handles uintptr
}

// New returns a headless driver.
func New() *Driver {
	return &Driver{}
}

// Window is the internals of one headless view.
type Window struct {
	handle   uintptr
	events   chan event.Event
	queued   []event.Event
	released bool

	frame *image.RGBA
}

// CreateWindow allocates the in-memory window state and runs the
// backend's Configure and Create hooks in the same order a native
// driver would.
func (d *Driver) CreateWindow(v *view.View) (view.Internals, error) {
	if err := d.CreateErr; err != nil {
		d.CreateErr = nil
		return nil, err
	}
	cnf := v.Config()
	backend := cnf.Backend
	if backend == nil {
		backend = view.StubBackend()
	}
	if err := backend.Configure(v); err != nil {
		return nil, fmt.Errorf("headless: configuring backend: %w", err)
	}
	w := &Window{
		handle: atomic.AddUintptr(&d.handles, 1),
		events: make(chan event.Event, 256),
	}
	if err := backend.Create(v); err != nil {
		return nil, fmt.Errorf("headless: creating backend context: %w", err)
	}
	return w, nil
}

func (d *Driver) ShowWindow(v *view.View) {}

func (d *Driver) HideWindow(v *view.View) {}

func (d *Driver) GrabFocus(v *view.View) {
	d.Enqueue(v, event.FocusEvent{Focus: true})
}

func (d *Driver) RequestAttention(v *view.View) {}

// PostRedisplay queues an expose event covering the whole view.
func (d *Driver) PostRedisplay(v *view.View) {
	d.Enqueue(v, event.ExposeEvent{
		Damage: v.Frame().Sub(v.Frame().Min),
	})
}

// Enqueue appends e to the view's native queue. It takes the role of
// the platform's event production and may be called from any
// goroutine.
func (d *Driver) Enqueue(v *view.View, e event.Event) {
	windowOf(v).events <- e
}

// WaitForEvent blocks until the view's queue is non-empty. A
// non-positive timeout blocks indefinitely.
func (d *Driver) WaitForEvent(v *view.View, timeout time.Duration) error {
	w := windowOf(v)
	if len(w.queued) > 0 {
		return nil
	}
	if timeout <= 0 {
		w.queued = append(w.queued, <-w.events)
		return nil
	}
	select {
	case e := <-w.events:
		w.queued = append(w.queued, e)
		return nil
	case <-time.After(timeout):
		return ErrTimeout
	}
}

// ProcessEvents drains the view's queue as one processing pass,
// honoring the ignore-key-repeat hint the way a native driver would
// when draining its connection.
func (d *Driver) ProcessEvents(v *view.View) error {
	w := windowOf(v)
	ignoreRepeat := v.Config().IgnoreKeyRepeat
	pending := w.drain()
	for i := 0; i < len(pending); i++ {
		e := pending[i]
		if ignoreRepeat && i+1 < len(pending) {
			if rel, ok := e.(event.KeyEvent); ok && rel.State == event.Release {
				next, ok := pending[i+1].(event.KeyEvent)
				if ok && next.State == event.Press &&
					next.Keycode == rel.Keycode && next.Time == rel.Time {
					// Auto-repeat pair; skip both.
					i++
					continue
				}
			}
		}
		v.Dispatch(e)
	}
	v.FlushEvents()
	return nil
}

func (w *Window) drain() []event.Event {
	pending := w.queued
	w.queued = nil
	for {
		select {
		case e := <-w.events:
			pending = append(pending, e)
		default:
			return pending
		}
	}
}

// NativeWindow returns a process-unique synthetic handle.
func (w *Window) NativeWindow() uintptr {
	return w.handle
}

// Release frees the window state. Releasing twice is an error.
func (w *Window) Release() error {
	if w.released {
		return errors.New("headless: window released twice")
	}
	w.released = true
	return nil
}

// Released reports whether Release has run.
func (w *Window) Released() bool {
	return w.released
}

// Present stores a copy of the damaged region of img, implementing
// view.Presenter for software rendering.
func (w *Window) Present(img *image.RGBA, damage image.Rectangle) error {
	if w.released {
		return errors.New("headless: present on released window")
	}
	if w.frame == nil || w.frame.Bounds() != img.Bounds() {
		w.frame = image.NewRGBA(img.Bounds())
	}
	draw.Draw(w.frame, damage, img, damage.Min, draw.Src)
	return nil
}

// Frame returns the most recently presented framebuffer, or nil if
// nothing has been presented.
func (w *Window) Frame() *image.RGBA {
	return w.frame
}

func windowOf(v *view.View) *Window {
	return v.Internals().(*Window)
}
