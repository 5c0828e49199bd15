// SPDX-License-Identifier: Unlicense OR MIT

// Package event contains the normalized event model delivered to a
// view's handler. Platform drivers translate native events into the
// types in this package; the view core coalesces and delivers them.
package event

import (
	"image"
	"strings"
	"time"
)

// Event is the marker interface for events.
type Event interface {
	ImplementsEvent()
}

// State is the state of a key or button during an event.
type State uint8

const (
	// Press is the state of a pressed key or button.
	Press State = iota
	// Release is the state of a key or button that has been released.
	Release
)

// Modifiers is the set of modifier keys active during an event.
type Modifiers uint32

const (
	// ModCtrl is the ctrl modifier key.
	ModCtrl Modifiers = 1 << iota
	// ModShift is the shift modifier key.
	ModShift
	// ModAlt is the alt modifier key.
	ModAlt
	// ModSuper is the "logo" modifier key.
	ModSuper
)

// CreateEvent is sent once, after the view's native window and
// internals have been allocated.
type CreateEvent struct{}

// DestroyEvent is the last event sent to a view, immediately before
// its internals are released.
type DestroyEvent struct{}

// ConfigureEvent reports a change of the view's position or size.
type ConfigureEvent struct {
	// Frame is the new window geometry in screen pixels.
	Frame image.Rectangle
}

// ExposeEvent reports that a region of the view must be redrawn.
type ExposeEvent struct {
	// Damage is the region to redraw, in view pixels.
	Damage image.Rectangle
	// Count is the number of expose events that follow this one. A
	// handler that cannot redraw subregions may redraw everything when
	// Count is zero.
	Count int
}

// CloseEvent reports that the window was asked to close, for example
// by the window manager. It is a request; the embedder decides whether
// to stop its event loop and destroy the view.
type CloseEvent struct{}

// KeyEvent is generated when a key is pressed or released.
type KeyEvent struct {
	// State reports whether the key was pressed or released.
	State State
	// Keycode is the raw platform-specific key code.
	Keycode uint32
	// Key is the code point of the pressed key, decoded from the
	// platform's text lookup, or one of the special key values.
	Key Key
	// Modifiers is the set of active modifiers when the key was
	// pressed.
	Modifiers Modifiers
	// Position of the pointer, relative to the view.
	Position image.Point
	// Time of the event.
	Time time.Duration
}

// ButtonEvent is generated when a pointer button is pressed or
// released.
type ButtonEvent struct {
	State State
	// Button is the 1-based button number: 1 is left, 2 middle,
	// 3 right.
	Button    uint32
	Modifiers Modifiers
	// Position of the pointer, relative to the view.
	Position image.Point
	Time     time.Duration
}

// MotionEvent is generated when the pointer moves inside the view.
type MotionEvent struct {
	// Position of the pointer, relative to the view.
	Position  image.Point
	Modifiers Modifiers
	// Hint reports a compressed motion notification; the platform may
	// not send another until the position is queried.
	Hint bool
	Time time.Duration
}

// CrossingMode is the reason for a CrossingEvent.
type CrossingMode uint8

const (
	// CrossingNormal is a crossing caused by pointer motion.
	CrossingNormal CrossingMode = iota
	// CrossingGrab is a crossing caused by a pointer grab.
	CrossingGrab
	// CrossingUngrab is a crossing caused by a pointer ungrab.
	CrossingUngrab
)

// CrossingEvent is generated when the pointer enters or leaves the
// view.
type CrossingEvent struct {
	// Enter reports whether the pointer entered (true) or left (false)
	// the view.
	Enter bool
	Mode  CrossingMode
	// Position of the pointer, relative to the view.
	Position  image.Point
	Modifiers Modifiers
	Time      time.Duration
}

// FocusEvent is generated when the view gains or loses the keyboard
// focus.
type FocusEvent struct {
	// Focus reports whether the view gained (true) or lost (false)
	// focus.
	Focus bool
	// Grab reports whether the focus change was caused by a grab.
	Grab bool
}

// ScrollEvent is generated by a scroll wheel or gesture.
type ScrollEvent struct {
	// Dx and Dy are the scroll distances in lines, right and up
	// positive.
	Dx, Dy float64
	// Position of the pointer, relative to the view.
	Position  image.Point
	Modifiers Modifiers
	Time      time.Duration
}

func (CreateEvent) ImplementsEvent()    {}
func (DestroyEvent) ImplementsEvent()   {}
func (ConfigureEvent) ImplementsEvent() {}
func (ExposeEvent) ImplementsEvent()    {}
func (CloseEvent) ImplementsEvent()     {}
func (KeyEvent) ImplementsEvent()       {}
func (ButtonEvent) ImplementsEvent()    {}
func (MotionEvent) ImplementsEvent()    {}
func (CrossingEvent) ImplementsEvent()  {}
func (FocusEvent) ImplementsEvent()     {}
func (ScrollEvent) ImplementsEvent()    {}

// Contain reports whether m contains all modifiers in m2.
func (m Modifiers) Contain(m2 Modifiers) bool {
	return m&m2 == m2
}

func (m Modifiers) String() string {
	var strs []string
	if m.Contain(ModCtrl) {
		strs = append(strs, "Ctrl")
	}
	if m.Contain(ModShift) {
		strs = append(strs, "Shift")
	}
	if m.Contain(ModAlt) {
		strs = append(strs, "Alt")
	}
	if m.Contain(ModSuper) {
		strs = append(strs, "Super")
	}
	return strings.Join(strs, "-")
}

func (s State) String() string {
	switch s {
	case Press:
		return "Press"
	case Release:
		return "Release"
	default:
		panic("invalid State")
	}
}
