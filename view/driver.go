// SPDX-License-Identifier: Unlicense OR MIT

package view

import (
	"errors"
	"image"
	"time"
)

// ErrNoDriver is returned by Create when the view has no driver
// configured.
var ErrNoDriver = errors.New("view: no driver configured")

// ErrNotCreated is returned by operations that require a live window.
var ErrNotCreated = errors.New("view: window not created")

// Driver is the interface for the platform implementation of a view's
// window. Drivers translate native events into the event package's
// types and feed them to Dispatch in native order, ending each drain
// of the native queue with FlushEvents.
type Driver interface {
	// CreateWindow allocates the native window, the input context and
	// every other piece of platform state for v, calling the backend's
	// Configure hook before the native window exists and its Create
	// hook after. Allocation is all or nothing: on error no platform
	// state survives and v remains unusable.
	CreateWindow(v *View) (Internals, error)

	// ShowWindow maps the window on screen and raises it.
	ShowWindow(v *View)

	// HideWindow unmaps the window.
	HideWindow(v *View)

	// GrabFocus requests the keyboard focus for the window.
	GrabFocus(v *View)

	// RequestAttention asks the platform to draw the user's attention
	// to the window without raising it.
	RequestAttention(v *View)

	// PostRedisplay requests a redraw of the whole view, as if an
	// expose event covering the full frame had arrived.
	PostRedisplay(v *View)

	// WaitForEvent blocks until an event is available for v. A
	// non-positive timeout blocks indefinitely. It must not be called
	// concurrently with ProcessEvents for the same view.
	WaitForEvent(v *View, timeout time.Duration) error

	// ProcessEvents drains the native event queue, dispatching the
	// pending events to v as one processing pass.
	ProcessEvents(v *View) error
}

// Internals is the opaque platform state owned by exactly one live
// view: the native window handle, the input method state and the
// backend's binding point. It is never shared between views.
type Internals interface {
	// NativeWindow returns the native handle of the window, for
	// embedding the view into a host window.
	NativeWindow() uintptr

	// Release frees all native resources held by the internals. It
	// must be called exactly once.
	Release() error
}

// Presenter is implemented by internals that can copy a software
// framebuffer to the native surface. The software backend presents
// through it when leaving a drawing context.
type Presenter interface {
	Present(img *image.RGBA, damage image.Rectangle) error
}
