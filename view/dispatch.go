// SPDX-License-Identifier: Unlicense OR MIT

package view

import "github.com/paneui/pane/event"

// pending is the dispatcher state of one processing pass. A pass
// begins with the first Dispatch after a FlushEvents and ends with the
// next FlushEvents, typically bracketing one drain of the native event
// queue.
type pending struct {
	configure    event.ConfigureEvent
	hasConfigure bool
	expose       event.ExposeEvent
	hasExpose    bool
	// quiet drops the remainder of the pass once a CloseEvent has been
	// delivered.
	quiet bool
}

// Dispatch delivers e to the view's handler. Configure and expose
// events are held back and coalesced until FlushEvents ends the
// processing pass; every other event is delivered immediately, in
// arrival order. Dispatch never fails: events for a view that is not
// live, or without a handler, are dropped.
func (v *View) Dispatch(e event.Event) {
	if v.internals == nil || v.pending.quiet {
		return
	}
	switch e := e.(type) {
	case event.ConfigureEvent:
		// A burst of configure events within one pass collapses into
		// the most recent geometry.
		v.pending.configure = e
		v.pending.hasConfigure = true
	case event.ExposeEvent:
		v.mergeExpose(e)
	case event.CloseEvent:
		if v.closeDelivered {
			return
		}
		v.closeDelivered = true
		v.deliver(e)
		v.pending.quiet = true
	default:
		v.deliver(e)
	}
}

// FlushEvents ends the current processing pass. At most one coalesced
// configure and one expose event are delivered, each bracketed by the
// backend's Enter and Leave hooks. An expose whose merged Count is
// still positive stays pending for the next pass.
func (v *View) FlushEvents() {
	p := v.pending
	v.pending = pending{}
	if v.internals == nil || p.quiet {
		// Nothing is delivered after a close; the next pass re-arms
		// delivery.
		return
	}
	if p.hasConfigure {
		v.cfg.Frame = p.configure.Frame
		v.deliverInContext(p.configure, false)
	}
	if p.hasExpose {
		if p.expose.Count > 0 {
			// The native expose series is incomplete; carry the damage
			// into the next pass.
			v.pending.expose = p.expose
			v.pending.hasExpose = true
			return
		}
		v.deliverInContext(p.expose, true)
	}
}

func (v *View) mergeExpose(e event.ExposeEvent) {
	p := &v.pending
	if !p.hasExpose {
		p.expose = e
		p.hasExpose = true
		return
	}
	p.expose.Damage = p.expose.Damage.Union(e.Damage)
	if e.Count < p.expose.Count {
		p.expose.Count = e.Count
	}
}

// deliverInContext invokes the handler between the backend's Enter and
// Leave hooks. Leave runs on every exit path, including a handler
// panic, and nothing can be delivered in between.
func (v *View) deliverInContext(e event.Event, drawing bool) {
	b := v.backend()
	b.Enter(v, drawing)
	defer b.Leave(v, drawing)
	if cfg, ok := e.(event.ConfigureEvent); ok {
		b.Resize(v, cfg.Frame.Dx(), cfg.Frame.Dy())
	}
	v.deliver(e)
}

func (v *View) deliver(e event.Event) {
	if v.handler != nil {
		v.handler(v, e)
	}
}
