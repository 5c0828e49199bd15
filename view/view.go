// SPDX-License-Identifier: Unlicense OR MIT

// Package view implements a minimal portable abstraction over native
// windowing systems: a single opaque handle through which an embedding
// application creates a window, receives normalized input and
// lifecycle events, and renders through a pluggable backend.
//
// A view is configured before its window exists, created exactly once,
// driven by the embedder's event loop, and destroyed exactly once:
//
//	v := view.New(
//		view.UseDriver(drv),
//		view.Title("Demo"),
//		view.Size(512, 512),
//	)
//	v.SetHandler(onEvent)
//	if err := v.Create(); err != nil {
//		...
//	}
//	v.Show()
//	for !quit {
//		v.ProcessEvents()
//	}
//	v.Destroy()
package view

import (
	"fmt"
	"image"
	"time"

	"github.com/paneui/pane/event"
)

// Handler is the callback receiving a view's events. It is invoked
// synchronously during dispatch and must tolerate every event kind.
type Handler func(v *View, e event.Event)

// Config is the pre-creation configuration surface of a view.
type Config struct {
	// Class is the window class, used by window managers to group
	// windows of one application.
	Class string
	// Title is the window title.
	Title string
	// Frame is the initial window geometry in screen pixels.
	Frame image.Rectangle
	// MinSize and MaxSize constrain resizing. A zero component leaves
	// that direction unconstrained.
	MinSize image.Point
	MaxSize image.Point
	// MinAspect and MaxAspect constrain the width:height ratio. Zero
	// points leave the ratio unconstrained.
	MinAspect image.Point
	MaxAspect image.Point
	// Resizable reports whether the window may be resized by the user.
	Resizable bool
	// IgnoreKeyRepeat suppresses the synthetic release/press pairs
	// generated by key auto-repeat.
	IgnoreKeyRepeat bool
	// AlwaysOnTop keeps the window above normal windows.
	AlwaysOnTop bool
	// Parent is the native handle of the window to embed the view
	// into, or zero for a top-level window.
	Parent uintptr
	// TransientFor is the native handle of the window this view is a
	// transient child of, such as a plugin host's window.
	TransientFor uintptr
	// Backend provides the drawing context. StubBackend is used when
	// nil.
	Backend Backend
	// Driver is the platform implementation creating the window.
	Driver Driver
	// Now is the view's time source. time.Now is used when nil.
	Now func() time.Time
}

// Option configures a view before its window is created.
type Option func(cnf *Config)

// View is one window or surface plus its configuration and lifecycle
// state. Its methods must be called from the single goroutine driving
// the view's event loop.
type View struct {
	cfg     Config
	handler Handler

	// internals is non-nil exactly while the view is live.
	internals Internals
	destroyed bool
	visible   bool
	start     time.Time

	pending        pending
	closeDelivered bool

	userData interface{}
}

// New returns a view configured by opts. The window is not created
// until Create is called.
func New(opts ...Option) *View {
	v := &View{}
	v.cfg.Resizable = true
	v.cfg.Frame = image.Rect(0, 0, 640, 480)
	for _, o := range opts {
		o(&v.cfg)
	}
	return v
}

// Option applies further configuration to a view whose window has not
// been created yet. It panics if the view is live; reconfiguring a
// created window is a programming error.
func (v *View) Option(opts ...Option) {
	if v.internals != nil {
		panic("view: configuration of a live view")
	}
	for _, o := range opts {
		o(&v.cfg)
	}
}

// SetHandler registers the event handler. It must be called before
// Create and panics if the view is live.
func (v *View) SetHandler(h Handler) {
	if v.internals != nil {
		panic("view: configuration of a live view")
	}
	v.handler = h
}

// Config returns a copy of the view's configuration. The Frame field
// tracks the current window geometry once the view is live.
func (v *View) Config() Config {
	return v.cfg
}

// Frame returns the current window geometry in screen pixels.
func (v *View) Frame() image.Rectangle {
	return v.cfg.Frame
}

// Visible reports whether the window is mapped on screen.
func (v *View) Visible() bool {
	return v.visible
}

// Live reports whether the window exists: created and not yet
// destroyed.
func (v *View) Live() bool {
	return v.internals != nil
}

// Create allocates the native window and the view's internals through
// the driver. It runs at most once per view; creation failure leaves
// the view not live, with no platform state allocated.
func (v *View) Create() error {
	if v.internals != nil || v.destroyed {
		panic("view: Create called twice")
	}
	if v.cfg.Driver == nil {
		return ErrNoDriver
	}
	internals, err := v.cfg.Driver.CreateWindow(v)
	if err != nil {
		return fmt.Errorf("view: creating window: %w", err)
	}
	v.internals = internals
	v.start = v.now()
	v.deliver(event.CreateEvent{})
	return nil
}

// Destroy delivers the final DestroyEvent, releases the backend's
// drawing context and frees the view's internals. It must be called
// exactly once, on a live view.
func (v *View) Destroy() error {
	if v.internals == nil {
		panic("view: Destroy of a view that is not live")
	}
	v.deliver(event.DestroyEvent{})
	v.backend().Destroy(v)
	err := v.internals.Release()
	v.internals = nil
	v.visible = false
	v.destroyed = true
	if err != nil {
		return fmt.Errorf("view: destroying window: %w", err)
	}
	return nil
}

// Show maps the window on screen and raises it.
func (v *View) Show() {
	if v.internals == nil {
		return
	}
	v.cfg.Driver.ShowWindow(v)
	v.visible = true
}

// Hide unmaps the window.
func (v *View) Hide() {
	if v.internals == nil {
		return
	}
	v.cfg.Driver.HideWindow(v)
	v.visible = false
}

// GrabFocus requests the keyboard focus for the window.
func (v *View) GrabFocus() {
	if v.internals != nil {
		v.cfg.Driver.GrabFocus(v)
	}
}

// RequestAttention asks the platform to draw the user's attention to
// the window, for example by flashing its task bar entry.
func (v *View) RequestAttention() {
	if v.internals != nil {
		v.cfg.Driver.RequestAttention(v)
	}
}

// PostRedisplay requests a redraw of the whole view during the next
// processing pass.
func (v *View) PostRedisplay() {
	if v.internals != nil {
		v.cfg.Driver.PostRedisplay(v)
	}
}

// WaitForEvent blocks until an event is available for the view. A
// non-positive timeout blocks indefinitely.
func (v *View) WaitForEvent(timeout time.Duration) error {
	if v.internals == nil {
		return ErrNotCreated
	}
	return v.cfg.Driver.WaitForEvent(v, timeout)
}

// ProcessEvents drains the native event queue, dispatching pending
// events as one processing pass.
func (v *View) ProcessEvents() error {
	if v.internals == nil {
		return ErrNotCreated
	}
	return v.cfg.Driver.ProcessEvents(v)
}

// NativeWindow returns the native handle of the window, or zero if
// the view is not live.
func (v *View) NativeWindow() uintptr {
	if v.internals == nil {
		return 0
	}
	return v.internals.NativeWindow()
}

// Internals returns the view's platform state for use by its driver
// and backend. It is nil unless the view is live.
func (v *View) Internals() Internals {
	return v.internals
}

// Context returns the backend's drawing handle. It is valid during an
// expose delivery.
func (v *View) Context() interface{} {
	return v.backend().Context(v)
}

// Time returns the duration since the window was created, measured by
// the view's time source.
func (v *View) Time() time.Duration {
	if v.internals == nil {
		return 0
	}
	return v.now().Sub(v.start)
}

// SetUserData attaches opaque embedder data to the view.
func (v *View) SetUserData(data interface{}) {
	v.userData = data
}

// UserData returns the data set by SetUserData.
func (v *View) UserData() interface{} {
	return v.userData
}

func (v *View) backend() Backend {
	if v.cfg.Backend == nil {
		return stubBackend{}
	}
	return v.cfg.Backend
}

func (v *View) now() time.Time {
	if v.cfg.Now == nil {
		return time.Now()
	}
	return v.cfg.Now()
}

// Class sets the window class.
func Class(c string) Option {
	return func(cnf *Config) {
		cnf.Class = c
	}
}

// Title sets the window title.
func Title(t string) Option {
	return func(cnf *Config) {
		cnf.Title = t
	}
}

// Size sets the initial window size. It panics unless both dimensions
// are positive.
func Size(width, height int) Option {
	if width <= 0 || height <= 0 {
		panic("view: window size must be positive")
	}
	return func(cnf *Config) {
		pos := cnf.Frame.Min
		cnf.Frame = image.Rectangle{
			Min: pos,
			Max: pos.Add(image.Pt(width, height)),
		}
	}
}

// Position sets the initial window position.
func Position(x, y int) Option {
	return func(cnf *Config) {
		size := cnf.Frame.Size()
		cnf.Frame = image.Rectangle{
			Min: image.Pt(x, y),
			Max: image.Pt(x, y).Add(size),
		}
	}
}

// MinSize sets the minimum window size. Zero components leave that
// direction unconstrained; negative components panic.
func MinSize(width, height int) Option {
	if width < 0 || height < 0 {
		panic("view: minimum size must not be negative")
	}
	return func(cnf *Config) {
		cnf.MinSize = image.Pt(width, height)
	}
}

// MaxSize sets the maximum window size. Zero components leave that
// direction unconstrained; negative components panic.
func MaxSize(width, height int) Option {
	if width < 0 || height < 0 {
		panic("view: maximum size must not be negative")
	}
	return func(cnf *Config) {
		cnf.MaxSize = image.Pt(width, height)
	}
}

// Aspect constrains the window's width:height ratio.
func Aspect(min, max image.Point) Option {
	return func(cnf *Config) {
		cnf.MinAspect = min
		cnf.MaxAspect = max
	}
}

// Resizable sets whether the user may resize the window.
func Resizable(resizable bool) Option {
	return func(cnf *Config) {
		cnf.Resizable = resizable
	}
}

// IgnoreKeyRepeat suppresses the release/press event pairs generated
// by key auto-repeat.
func IgnoreKeyRepeat(ignore bool) Option {
	return func(cnf *Config) {
		cnf.IgnoreKeyRepeat = ignore
	}
}

// AlwaysOnTop keeps the window above normal windows.
func AlwaysOnTop(onTop bool) Option {
	return func(cnf *Config) {
		cnf.AlwaysOnTop = onTop
	}
}

// ParentWindow embeds the view into the native window with the given
// handle.
func ParentWindow(parent uintptr) Option {
	return func(cnf *Config) {
		cnf.Parent = parent
	}
}

// TransientFor marks the window as a transient child of the native
// window with the given handle.
func TransientFor(parent uintptr) Option {
	return func(cnf *Config) {
		cnf.TransientFor = parent
	}
}

// UseBackend selects the drawing backend.
func UseBackend(b Backend) Option {
	return func(cnf *Config) {
		cnf.Backend = b
	}
}

// UseDriver selects the platform driver.
func UseDriver(d Driver) Option {
	return func(cnf *Config) {
		cnf.Driver = d
	}
}

// Clock sets the view's time source. The default is time.Now.
func Clock(now func() time.Time) Option {
	return func(cnf *Config) {
		cnf.Now = now
	}
}
