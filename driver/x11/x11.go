// SPDX-License-Identifier: Unlicense OR MIT

//go:build (linux && !android && !nox11) || freebsd
// +build linux,!android,!nox11 freebsd

// Package x11 implements the view driver for the X window system.
package x11

/*
#cgo LDFLAGS: -lX11
#include <stdlib.h>
#include <locale.h>
#include <X11/Xlib.h>
#include <X11/Xatom.h>
#include <X11/Xutil.h>
#include <X11/keysym.h>

static void pane_x11_init_ime(Display *dpy, Window win, XIM *xim, XIC *xic) {
	// Adjust the locale temporarily for XOpenIM.
	char *lc = setlocale(LC_CTYPE, NULL);
	setlocale(LC_CTYPE, "");
	XSetLocaleModifiers("");

	*xim = XOpenIM(dpy, 0, 0, 0);
	if (!*xim) {
		// Fall back to the internal input method.
		XSetLocaleModifiers("@im=none");
		*xim = XOpenIM(dpy, 0, 0, 0);
	}

	setlocale(LC_CTYPE, lc);

	if (*xim) {
		*xic = XCreateIC(*xim,
			XNInputStyle, XIMPreeditNothing | XIMStatusNothing,
			XNClientWindow, win,
			XNFocusWindow, win,
			NULL);
	}
}

// XDestroyImage is a macro and not callable through cgo.
static void pane_x11_destroy_image(XImage *img) {
	XDestroyImage(img);
}
*/
import "C"

import (
	"errors"
	"fmt"
	"image"
	"os"
	"sync"
	"time"
	"unsafe"

	syscall "golang.org/x/sys/unix"

	"github.com/paneui/pane/event"
	"github.com/paneui/pane/view"
)

// Driver creates X11 windows. One driver may serve several views; each
// view owns its own display connection, mirroring one-view-per-plugin
// embedding.
type Driver struct{}

// New returns the X11 driver.
func New() *Driver {
	return &Driver{}
}

var x11Threads sync.Once

// window is the X11 internals of one view.
type window struct {
	dpy    *C.Display
	win    C.Window
	screen C.int
	xim    C.XIM
	xic    C.XIC

	atoms struct {
		wmProtocols      C.Atom
		wmDeleteWindow   C.Atom
		netWmState       C.Atom
		netWmStateAbove  C.Atom
		netWmDemandsAttn C.Atom
		netWmName        C.Atom
		utf8String       C.Atom
	}

	// notify interrupts the blocking wait from other goroutines.
	notify struct {
		read, write int
	}

	gc       C.GC
	released bool

	// Scratch state for key lookups.
	text   []byte
	keysym C.KeySym
}

const eventMask = C.ExposureMask | C.StructureNotifyMask |
	C.FocusChangeMask | C.EnterWindowMask | C.LeaveWindowMask |
	C.PointerMotionMask | C.ButtonPressMask | C.ButtonReleaseMask |
	C.KeyPressMask | C.KeyReleaseMask

// CreateWindow allocates the display connection, native window, input
// context and backend binding for v. Any failure unwinds the partial
// state and reports a single error.
func (d *Driver) CreateWindow(v *view.View) (view.Internals, error) {
	var err error
	x11Threads.Do(func() {
		if C.XInitThreads() == 0 {
			err = errors.New("x11: threads init failed")
		}
	})
	if err != nil {
		return nil, err
	}

	dpy := C.XOpenDisplay(nil)
	if dpy == nil {
		return nil, errors.New("x11: cannot connect to the X server")
	}

	cnf := v.Config()
	backend := cnf.Backend
	if backend == nil {
		backend = view.StubBackend()
	}
	if err := backend.Configure(v); err != nil {
		C.XCloseDisplay(dpy)
		return nil, fmt.Errorf("x11: configuring backend: %w", err)
	}

	w := &window{
		dpy:    dpy,
		screen: C.XDefaultScreen(dpy),
		text:   make([]byte, 8),
	}
	w.atoms.wmProtocols = w.atom("WM_PROTOCOLS")
	w.atoms.wmDeleteWindow = w.atom("WM_DELETE_WINDOW")
	w.atoms.netWmState = w.atom("_NET_WM_STATE")
	w.atoms.netWmStateAbove = w.atom("_NET_WM_STATE_ABOVE")
	w.atoms.netWmDemandsAttn = w.atom("_NET_WM_STATE_DEMANDS_ATTENTION")
	w.atoms.netWmName = w.atom("_NET_WM_NAME")
	w.atoms.utf8String = w.atom("UTF8_STRING")

	parent := C.Window(cnf.Parent)
	if parent == 0 {
		parent = C.XRootWindow(dpy, w.screen)
	}

	frame := cnf.Frame
	swa := C.XSetWindowAttributes{
		event_mask:        eventMask,
		background_pixmap: C.None,
	}
	w.win = C.XCreateWindow(dpy, parent,
		C.int(frame.Min.X), C.int(frame.Min.Y),
		C.uint(frame.Dx()), C.uint(frame.Dy()),
		0, C.CopyFromParent, C.InputOutput, nil,
		C.CWEventMask|C.CWBackPixmap, &swa)
	if w.win == 0 {
		C.XCloseDisplay(dpy)
		return nil, errors.New("x11: window creation failed")
	}

	w.setSizeHints(&cnf)
	w.setTitle(cnf.Title)
	w.setClass(cnf.Class)

	if cnf.Parent == 0 {
		C.XSetWMProtocols(dpy, w.win, &w.atoms.wmDeleteWindow, 1)
	}
	if cnf.TransientFor != 0 {
		C.XSetTransientForHint(dpy, w.win, C.Window(cnf.TransientFor))
	}
	if cnf.AlwaysOnTop {
		C.XChangeProperty(dpy, w.win, w.atoms.netWmState, C.XA_ATOM, 32,
			C.PropModeAppend,
			(*C.uchar)(unsafe.Pointer(&w.atoms.netWmStateAbove)), 1)
	}

	C.pane_x11_init_ime(dpy, w.win, &w.xim, &w.xic)
	if w.xic == nil {
		fmt.Fprintln(os.Stderr, "x11: warning: input method unavailable")
	}

	pipe := make([]int, 2)
	if err := syscall.Pipe2(pipe, syscall.O_NONBLOCK|syscall.O_CLOEXEC); err != nil {
		w.destroyNative()
		return nil, fmt.Errorf("x11: creating notify pipe: %w", err)
	}
	w.notify.read = pipe[0]
	w.notify.write = pipe[1]

	w.gc = C.XCreateGC(dpy, C.Drawable(w.win), 0, nil)

	if err := backend.Create(v); err != nil {
		w.closePipes()
		w.destroyNative()
		return nil, fmt.Errorf("x11: creating backend context: %w", err)
	}
	return w, nil
}

func (d *Driver) ShowWindow(v *view.View) {
	w := windowOf(v)
	C.XMapRaised(w.dpy, w.win)
	C.XFlush(w.dpy)
}

func (d *Driver) HideWindow(v *view.View) {
	w := windowOf(v)
	C.XUnmapWindow(w.dpy, w.win)
	C.XFlush(w.dpy)
}

func (d *Driver) GrabFocus(v *view.View) {
	w := windowOf(v)
	C.XSetInputFocus(w.dpy, w.win, C.RevertToPointerRoot, C.CurrentTime)
}

const (
	wmStateRemove = 0
	wmStateAdd    = 1
)

// RequestAttention posts _NET_WM_STATE_DEMANDS_ATTENTION to the root
// window.
func (d *Driver) RequestAttention(v *view.View) {
	w := windowOf(v)
	var xev C.XEvent
	cev := (*C.XClientMessageEvent)(unsafe.Pointer(&xev))
	cev._type = C.ClientMessage
	cev.window = w.win
	cev.format = 32
	cev.message_type = w.atoms.netWmState
	data := (*[5]C.long)(unsafe.Pointer(&cev.data))
	data[0] = wmStateAdd
	data[1] = C.long(w.atoms.netWmDemandsAttn)
	data[3] = 1

	root := C.XRootWindow(w.dpy, w.screen)
	C.XSendEvent(w.dpy, root, C.False,
		C.SubstructureNotifyMask|C.SubstructureRedirectMask, &xev)
}

// PostRedisplay sends a synthetic expose event covering the whole
// view; it is coalesced with any other damage in the pass that
// receives it.
func (d *Driver) PostRedisplay(v *view.View) {
	w := windowOf(v)
	frame := v.Frame()
	var xev C.XEvent
	eev := (*C.XExposeEvent)(unsafe.Pointer(&xev))
	eev._type = C.Expose
	eev.send_event = C.True
	eev.display = w.dpy
	eev.window = w.win
	eev.width = C.int(frame.Dx())
	eev.height = C.int(frame.Dy())
	C.XSendEvent(w.dpy, w.win, C.False, 0, &xev)
	C.XFlush(w.dpy)
}

// WaitForEvent blocks until the X connection or the notify pipe is
// readable. A non-positive timeout blocks indefinitely.
func (d *Driver) WaitForEvent(v *view.View, timeout time.Duration) error {
	w := windowOf(v)
	if C.XPending(w.dpy) > 0 {
		return nil
	}
	pollfds := []syscall.PollFd{
		{Fd: int32(C.XConnectionNumber(w.dpy)), Events: syscall.POLLIN | syscall.POLLERR},
		{Fd: int32(w.notify.read), Events: syscall.POLLIN | syscall.POLLERR},
	}
	ms := C.int(-1)
	if timeout > 0 {
		ms = C.int(timeout / time.Millisecond)
	}
	for {
		n, err := syscall.Poll(pollfds, int(ms))
		if err == syscall.EINTR {
			continue
		}
		if err != nil {
			return fmt.Errorf("x11: poll: %w", err)
		}
		if n == 0 {
			return nil
		}
		if pollfds[1].Revents&syscall.POLLIN != 0 {
			// Drain wakeup notifications.
			buf := make([]byte, 16)
			for {
				if _, err := syscall.Read(w.notify.read, buf); err != nil {
					break
				}
			}
		}
		return nil
	}
}

// Wakeup interrupts a concurrent WaitForEvent for v.
func (d *Driver) Wakeup(v *view.View) {
	w := windowOf(v)
	if _, err := syscall.Write(w.notify.write, []byte{0}); err != nil && err != syscall.EAGAIN {
		panic(fmt.Errorf("x11: writing to notify pipe: %v", err))
	}
}

// ProcessEvents drains the X event queue, translating and dispatching
// pending events as one processing pass.
func (d *Driver) ProcessEvents(v *view.View) error {
	w := windowOf(v)
	ignoreRepeat := v.Config().IgnoreKeyRepeat
	var xev C.XEvent
	for C.XPending(w.dpy) > 0 {
		C.XNextEvent(w.dpy, &xev)
		if C.XFilterEvent(&xev, C.None) == C.True {
			continue
		}
		typ := (*C.XAnyEvent)(unsafe.Pointer(&xev))._type
		if typ == C.KeyRelease && ignoreRepeat &&
			C.XEventsQueued(w.dpy, C.QueuedAfterReading) > 0 {
			var next C.XEvent
			C.XPeekEvent(w.dpy, &next)
			kev := (*C.XKeyEvent)(unsafe.Pointer(&xev))
			nev := (*C.XKeyEvent)(unsafe.Pointer(&next))
			if nev._type == C.KeyPress && nev.time == kev.time &&
				nev.keycode == kev.keycode {
				// Auto-repeat pair; skip the release and the press.
				C.XNextEvent(w.dpy, &xev)
				continue
			}
		}
		switch typ {
		case C.FocusIn:
			if w.xic != nil {
				C.XSetICFocus(w.xic)
			}
		case C.FocusOut:
			if w.xic != nil {
				C.XUnsetICFocus(w.xic)
			}
		}
		if e := w.translate(&xev); e != nil {
			v.Dispatch(e)
		}
	}
	v.FlushEvents()
	return nil
}

// translate converts one X event into the normalized model, or nil for
// events the model does not carry.
func (w *window) translate(xev *C.XEvent) event.Event {
	switch typ := (*C.XAnyEvent)(unsafe.Pointer(xev))._type; typ {
	case C.ClientMessage:
		cev := (*C.XClientMessageEvent)(unsafe.Pointer(xev))
		if cev.message_type != w.atoms.wmProtocols {
			return nil
		}
		protocol := *(*C.long)(unsafe.Pointer(&cev.data))
		if C.Atom(protocol) == w.atoms.wmDeleteWindow {
			return event.CloseEvent{}
		}
		return nil
	case C.MapNotify:
		var attrs C.XWindowAttributes
		C.XGetWindowAttributes(w.dpy, w.win, &attrs)
		return event.ConfigureEvent{
			Frame: image.Rect(int(attrs.x), int(attrs.y),
				int(attrs.x)+int(attrs.width), int(attrs.y)+int(attrs.height)),
		}
	case C.ConfigureNotify:
		cev := (*C.XConfigureEvent)(unsafe.Pointer(xev))
		return event.ConfigureEvent{
			Frame: image.Rect(int(cev.x), int(cev.y),
				int(cev.x)+int(cev.width), int(cev.y)+int(cev.height)),
		}
	case C.Expose:
		eev := (*C.XExposeEvent)(unsafe.Pointer(xev))
		return event.ExposeEvent{
			Damage: image.Rect(int(eev.x), int(eev.y),
				int(eev.x)+int(eev.width), int(eev.y)+int(eev.height)),
			Count: int(eev.count),
		}
	case C.MotionNotify:
		mev := (*C.XMotionEvent)(unsafe.Pointer(xev))
		return event.MotionEvent{
			Position:  image.Pt(int(mev.x), int(mev.y)),
			Modifiers: translateModifiers(mev.state),
			Hint:      mev.is_hint == C.NotifyHint,
			Time:      time.Duration(mev.time) * time.Millisecond,
		}
	case C.ButtonPress, C.ButtonRelease:
		bev := (*C.XButtonEvent)(unsafe.Pointer(xev))
		if bev.button >= 4 && bev.button <= 7 {
			if typ == C.ButtonRelease {
				return nil
			}
			e := event.ScrollEvent{
				Position:  image.Pt(int(bev.x), int(bev.y)),
				Modifiers: translateModifiers(bev.state),
				Time:      time.Duration(bev.time) * time.Millisecond,
			}
			switch bev.button {
			case 4:
				e.Dy = 1
			case 5:
				e.Dy = -1
			case 6:
				e.Dx = -1
			case 7:
				e.Dx = 1
			}
			return e
		}
		state := event.Press
		if typ == C.ButtonRelease {
			state = event.Release
		}
		return event.ButtonEvent{
			State:     state,
			Button:    uint32(bev.button),
			Position:  image.Pt(int(bev.x), int(bev.y)),
			Modifiers: translateModifiers(bev.state),
			Time:      time.Duration(bev.time) * time.Millisecond,
		}
	case C.KeyPress, C.KeyRelease:
		return w.translateKey(xev)
	case C.EnterNotify, C.LeaveNotify:
		cev := (*C.XCrossingEvent)(unsafe.Pointer(xev))
		mode := event.CrossingNormal
		switch cev.mode {
		case C.NotifyGrab:
			mode = event.CrossingGrab
		case C.NotifyUngrab:
			mode = event.CrossingUngrab
		}
		return event.CrossingEvent{
			Enter:     typ == C.EnterNotify,
			Mode:      mode,
			Position:  image.Pt(int(cev.x), int(cev.y)),
			Modifiers: translateModifiers(cev.state),
			Time:      time.Duration(cev.time) * time.Millisecond,
		}
	case C.FocusIn, C.FocusOut:
		fev := (*C.XFocusChangeEvent)(unsafe.Pointer(xev))
		return event.FocusEvent{
			Focus: typ == C.FocusIn,
			Grab:  fev.mode != C.NotifyNormal,
		}
	default:
		return nil
	}
}

// translateKey decodes the unshifted key of a press or release. The
// modifier state is cleared for the lookup so that layouts with
// shifted digits report stable keys.
func (w *window) translateKey(xev *C.XEvent) event.Event {
	kev := (*C.XKeyEvent)(unsafe.Pointer(xev))
	state := event.Press
	if kev._type == C.KeyRelease {
		state = event.Release
	}
	e := event.KeyEvent{
		State:     state,
		Keycode:   uint32(kev.keycode),
		Modifiers: translateModifiers(kev.state),
		Position:  image.Pt(int(kev.x), int(kev.y)),
		Time:      time.Duration(kev.time) * time.Millisecond,
	}

	saved := kev.state
	kev.state = 0
	n := int(C.XLookupString(kev, (*C.char)(unsafe.Pointer(&w.text[0])),
		C.int(len(w.text)), &w.keysym, nil))
	kev.state = saved

	if special, ok := keysymToSpecial(w.keysym); ok {
		e.Key = special
	} else if n > 0 {
		e.Key = event.Key(event.DecodeUTF8(w.text[:n]))
	}
	return e
}

func translateModifiers(state C.uint) event.Modifiers {
	var m event.Modifiers
	if state&C.ShiftMask != 0 {
		m |= event.ModShift
	}
	if state&C.ControlMask != 0 {
		m |= event.ModCtrl
	}
	if state&C.Mod1Mask != 0 {
		m |= event.ModAlt
	}
	if state&C.Mod4Mask != 0 {
		m |= event.ModSuper
	}
	return m
}

func keysymToSpecial(sym C.KeySym) (event.Key, bool) {
	switch sym {
	case C.XK_F1:
		return event.KeyF1, true
	case C.XK_F2:
		return event.KeyF2, true
	case C.XK_F3:
		return event.KeyF3, true
	case C.XK_F4:
		return event.KeyF4, true
	case C.XK_F5:
		return event.KeyF5, true
	case C.XK_F6:
		return event.KeyF6, true
	case C.XK_F7:
		return event.KeyF7, true
	case C.XK_F8:
		return event.KeyF8, true
	case C.XK_F9:
		return event.KeyF9, true
	case C.XK_F10:
		return event.KeyF10, true
	case C.XK_F11:
		return event.KeyF11, true
	case C.XK_F12:
		return event.KeyF12, true
	case C.XK_Left:
		return event.KeyLeft, true
	case C.XK_Up:
		return event.KeyUp, true
	case C.XK_Right:
		return event.KeyRight, true
	case C.XK_Down:
		return event.KeyDown, true
	case C.XK_Page_Up:
		return event.KeyPageUp, true
	case C.XK_Page_Down:
		return event.KeyPageDown, true
	case C.XK_Home:
		return event.KeyHome, true
	case C.XK_End:
		return event.KeyEnd, true
	case C.XK_Insert:
		return event.KeyInsert, true
	case C.XK_Shift_L:
		return event.KeyShiftL, true
	case C.XK_Shift_R:
		return event.KeyShiftR, true
	case C.XK_Control_L:
		return event.KeyCtrlL, true
	case C.XK_Control_R:
		return event.KeyCtrlR, true
	case C.XK_Alt_L:
		return event.KeyAltL, true
	case C.XK_ISO_Level3_Shift, C.XK_Alt_R:
		return event.KeyAltR, true
	case C.XK_Super_L:
		return event.KeySuperL, true
	case C.XK_Super_R:
		return event.KeySuperR, true
	case C.XK_Menu:
		return event.KeyMenu, true
	case C.XK_Caps_Lock:
		return event.KeyCapsLock, true
	case C.XK_Scroll_Lock:
		return event.KeyScrollLock, true
	case C.XK_Num_Lock:
		return event.KeyNumLock, true
	case C.XK_Print:
		return event.KeyPrintScreen, true
	case C.XK_Pause:
		return event.KeyPause, true
	default:
		return 0, false
	}
}

func (w *window) atom(name string) C.Atom {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return C.XInternAtom(w.dpy, cname, C.False)
}

func (w *window) setTitle(title string) {
	ctitle := C.CString(title)
	defer C.free(unsafe.Pointer(ctitle))
	C.XStoreName(w.dpy, w.win, ctitle)
	// _NET_WM_NAME for UTF-8 titles.
	C.XSetTextProperty(w.dpy, w.win, &C.XTextProperty{
		value:    (*C.uchar)(unsafe.Pointer(ctitle)),
		encoding: w.atoms.utf8String,
		format:   8,
		nitems:   C.ulong(len(title)),
	}, w.atoms.netWmName)
}

func (w *window) setClass(class string) {
	if class == "" {
		return
	}
	cclass := C.CString(class)
	defer C.free(unsafe.Pointer(cclass))
	hint := C.XClassHint{res_name: cclass, res_class: cclass}
	C.XSetClassHint(w.dpy, w.win, &hint)
}

func (w *window) setSizeHints(cnf *view.Config) {
	var hints C.XSizeHints
	if !cnf.Resizable {
		hints.flags = C.PMinSize | C.PMaxSize
		hints.min_width = C.int(cnf.Frame.Dx())
		hints.min_height = C.int(cnf.Frame.Dy())
		hints.max_width = hints.min_width
		hints.max_height = hints.min_height
	} else {
		if cnf.MinSize.X > 0 || cnf.MinSize.Y > 0 {
			hints.flags |= C.PMinSize
			hints.min_width = C.int(cnf.MinSize.X)
			hints.min_height = C.int(cnf.MinSize.Y)
		}
		if cnf.MaxSize.X > 0 || cnf.MaxSize.Y > 0 {
			hints.flags |= C.PMaxSize
			hints.max_width = C.int(cnf.MaxSize.X)
			hints.max_height = C.int(cnf.MaxSize.Y)
		}
		if cnf.MinAspect.X > 0 {
			hints.flags |= C.PAspect
			hints.min_aspect.x = C.int(cnf.MinAspect.X)
			hints.min_aspect.y = C.int(cnf.MinAspect.Y)
			hints.max_aspect.x = C.int(cnf.MaxAspect.X)
			hints.max_aspect.y = C.int(cnf.MaxAspect.Y)
		}
	}
	C.XSetNormalHints(w.dpy, w.win, &hints)
}

// Present copies the damaged region of img to the window, implementing
// view.Presenter for the software backend.
func (w *window) Present(img *image.RGBA, damage image.Rectangle) error {
	if w.released {
		return errors.New("x11: present on released window")
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil
	}
	// ZPixmap scanlines in the X server's usual BGRX layout. The
	// buffer is C memory so that XDestroyImage may free it.
	n := 4 * width * height
	data := C.malloc(C.size_t(n))
	buf := unsafe.Slice((*byte)(data), n)
	for y := 0; y < height; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+4*width]
		out := buf[y*4*width : (y+1)*4*width]
		for x := 0; x < width; x++ {
			out[x*4+0] = row[x*4+2]
			out[x*4+1] = row[x*4+1]
			out[x*4+2] = row[x*4+0]
			out[x*4+3] = 0xff
		}
	}
	depth := C.uint(C.XDefaultDepth(w.dpy, w.screen))
	ximg := C.XCreateImage(w.dpy, C.XDefaultVisual(w.dpy, w.screen),
		depth, C.ZPixmap, 0, (*C.char)(data),
		C.uint(width), C.uint(height), 32, C.int(4*width))
	if ximg == nil {
		C.free(data)
		return errors.New("x11: image creation failed")
	}
	r := damage.Intersect(bounds)
	C.XPutImage(w.dpy, C.Drawable(w.win), w.gc, ximg,
		C.int(r.Min.X), C.int(r.Min.Y), C.int(r.Min.X), C.int(r.Min.Y),
		C.uint(r.Dx()), C.uint(r.Dy()))
	C.pane_x11_destroy_image(ximg)
	C.XFlush(w.dpy)
	return nil
}

// NativeWindow returns the X window ID.
func (w *window) NativeWindow() uintptr {
	return uintptr(w.win)
}

// Release frees every native resource of the window. It must run
// exactly once.
func (w *window) Release() error {
	if w.released {
		return errors.New("x11: window released twice")
	}
	w.released = true
	w.closePipes()
	w.destroyNative()
	return nil
}

func (w *window) closePipes() {
	if w.notify.write != 0 {
		syscall.Close(w.notify.write)
		w.notify.write = 0
	}
	if w.notify.read != 0 {
		syscall.Close(w.notify.read)
		w.notify.read = 0
	}
}

func (w *window) destroyNative() {
	if w.xic != nil {
		C.XDestroyIC(w.xic)
		w.xic = nil
	}
	if w.xim != nil {
		C.XCloseIM(w.xim)
		w.xim = nil
	}
	if w.gc != nil {
		C.XFreeGC(w.dpy, w.gc)
		w.gc = nil
	}
	C.XDestroyWindow(w.dpy, w.win)
	C.XCloseDisplay(w.dpy)
}

func windowOf(v *view.View) *window {
	return v.Internals().(*window)
}
