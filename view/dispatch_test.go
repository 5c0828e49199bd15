// SPDX-License-Identifier: Unlicense OR MIT

package view_test

import (
	"fmt"
	"image"
	"testing"

	"github.com/paneui/pane/driver/headless"
	"github.com/paneui/pane/event"
	"github.com/paneui/pane/view"
)

// recorder logs every handler delivery and backend hook invocation in
// order, to verify coalescing and context bracketing.
type recorder struct {
	log []string
}

func (r *recorder) handle(v *view.View, e event.Event) {
	switch e := e.(type) {
	case event.ConfigureEvent:
		r.log = append(r.log, fmt.Sprintf("configure %v", e.Frame))
	case event.ExposeEvent:
		r.log = append(r.log, fmt.Sprintf("expose %v count %d", e.Damage, e.Count))
	default:
		r.log = append(r.log, fmt.Sprintf("%T", e))
	}
}

func (r *recorder) Configure(*view.View) error { return nil }
func (r *recorder) Create(*view.View) error    { return nil }
func (r *recorder) Destroy(*view.View)         {}
func (r *recorder) Context(*view.View) interface{} {
	return nil
}

func (r *recorder) Enter(v *view.View, drawing bool) {
	r.log = append(r.log, fmt.Sprintf("enter %v", drawing))
}

func (r *recorder) Leave(v *view.View, drawing bool) {
	r.log = append(r.log, fmt.Sprintf("leave %v", drawing))
}

func (r *recorder) Resize(v *view.View, width, height int) {
	r.log = append(r.log, fmt.Sprintf("resize %dx%d", width, height))
}

func newTestView(t *testing.T, rec *recorder, opts ...view.Option) *view.View {
	t.Helper()
	opts = append([]view.Option{
		view.UseDriver(headless.New()),
		view.UseBackend(rec),
		view.Size(512, 512),
	}, opts...)
	v := view.New(opts...)
	v.SetHandler(rec.handle)
	if err := v.Create(); err != nil {
		t.Fatal(err)
	}
	// Drop the creation event from the log.
	rec.log = nil
	return v
}

func checkLog(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got log %q, expected %q", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("log entry %d: got %q, expected %q", i, got[i], want[i])
		}
	}
}

func TestDispatchCoalescesConfigure(t *testing.T) {
	rec := new(recorder)
	v := newTestView(t, rec)

	v.Dispatch(event.ConfigureEvent{Frame: image.Rect(0, 0, 512, 512)})
	v.Dispatch(event.ConfigureEvent{Frame: image.Rect(0, 0, 640, 480)})
	v.FlushEvents()

	checkLog(t, rec.log, []string{
		"enter false",
		"resize 640x480",
		"configure (0,0)-(640,480)",
		"leave false",
	})
	if got := v.Frame(); got != image.Rect(0, 0, 640, 480) {
		t.Errorf("view frame: got %v, expected (0,0)-(640,480)", got)
	}
}

func TestDispatchCoalescesExpose(t *testing.T) {
	rec := new(recorder)
	v := newTestView(t, rec)

	v.Dispatch(event.ExposeEvent{Damage: image.Rect(0, 0, 100, 100)})
	v.Dispatch(event.ExposeEvent{Damage: image.Rect(50, 50, 200, 300)})
	v.Dispatch(event.ExposeEvent{Damage: image.Rect(10, 250, 60, 400)})
	v.FlushEvents()

	checkLog(t, rec.log, []string{
		"enter true",
		"expose (0,0)-(200,400) count 0",
		"leave true",
	})
}

func TestDispatchIncompleteExposeSeries(t *testing.T) {
	rec := new(recorder)
	v := newTestView(t, rec)

	// The final event of the native series has not arrived yet.
	v.Dispatch(event.ExposeEvent{Damage: image.Rect(0, 0, 100, 100), Count: 1})
	v.FlushEvents()
	checkLog(t, rec.log, nil)

	v.Dispatch(event.ExposeEvent{Damage: image.Rect(100, 0, 200, 100), Count: 0})
	v.FlushEvents()
	checkLog(t, rec.log, []string{
		"enter true",
		"expose (0,0)-(200,100) count 0",
		"leave true",
	})
}

func TestDispatchImmediateOrder(t *testing.T) {
	rec := new(recorder)
	v := newTestView(t, rec)

	v.Dispatch(event.ButtonEvent{State: event.Press, Button: 1})
	v.Dispatch(event.ConfigureEvent{Frame: image.Rect(0, 0, 512, 512)})
	v.Dispatch(event.MotionEvent{Position: image.Pt(1, 2)})
	v.Dispatch(event.ButtonEvent{State: event.Release, Button: 1})
	v.FlushEvents()

	checkLog(t, rec.log, []string{
		"event.ButtonEvent",
		"event.MotionEvent",
		"event.ButtonEvent",
		"enter false",
		"resize 512x512",
		"configure (0,0)-(512,512)",
		"leave false",
	})
}

func TestDispatchBracketsExposeOnly(t *testing.T) {
	rec := new(recorder)
	v := newTestView(t, rec)

	v.Dispatch(event.ConfigureEvent{Frame: image.Rect(0, 0, 640, 480)})
	v.Dispatch(event.ExposeEvent{Damage: image.Rect(0, 0, 640, 480)})
	v.FlushEvents()

	// Nothing is delivered between an enter/leave pair except the
	// single bracketed event.
	checkLog(t, rec.log, []string{
		"enter false",
		"resize 640x480",
		"configure (0,0)-(640,480)",
		"leave false",
		"enter true",
		"expose (0,0)-(640,480) count 0",
		"leave true",
	})
}

func TestDispatchLeaveOnPanic(t *testing.T) {
	rec := new(recorder)

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("handler panic did not propagate")
			}
		}()
		panicky := func(v *view.View, e event.Event) {
			if _, ok := e.(event.ExposeEvent); ok {
				panic("handler failure")
			}
		}
		w := view.New(
			view.UseDriver(headless.New()),
			view.UseBackend(rec),
			view.Size(64, 64),
		)
		w.SetHandler(panicky)
		if err := w.Create(); err != nil {
			t.Fatal(err)
		}
		w.Dispatch(event.ExposeEvent{Damage: image.Rect(0, 0, 64, 64)})
		w.FlushEvents()
	}()

	checkLog(t, rec.log, []string{
		"enter true",
		"leave true",
	})
}

func TestDispatchCloseOnce(t *testing.T) {
	rec := new(recorder)
	v := newTestView(t, rec)

	v.Dispatch(event.CloseEvent{})
	v.Dispatch(event.CloseEvent{})
	// Events after a close are dropped for the rest of the pass,
	// including pending expose damage.
	v.Dispatch(event.ExposeEvent{Damage: image.Rect(0, 0, 10, 10)})
	v.Dispatch(event.ButtonEvent{State: event.Press, Button: 1})
	v.FlushEvents()

	checkLog(t, rec.log, []string{"event.CloseEvent"})

	// A new pass re-arms delivery of other events but never of close.
	rec.log = nil
	v.Dispatch(event.CloseEvent{})
	v.Dispatch(event.MotionEvent{})
	v.FlushEvents()
	checkLog(t, rec.log, []string{"event.MotionEvent"})
}

func TestDispatchWithoutHandler(t *testing.T) {
	v := view.New(
		view.UseDriver(headless.New()),
		view.Size(64, 64),
	)
	if err := v.Create(); err != nil {
		t.Fatal(err)
	}
	// Delivery without a handler is a no-op, not a failure.
	v.Dispatch(event.ConfigureEvent{Frame: image.Rect(0, 0, 64, 64)})
	v.Dispatch(event.CloseEvent{})
	v.FlushEvents()
}

func TestDispatchBeforeCreate(t *testing.T) {
	rec := new(recorder)
	v := view.New(view.UseDriver(headless.New()), view.UseBackend(rec))
	v.SetHandler(rec.handle)

	v.Dispatch(event.ButtonEvent{State: event.Press, Button: 1})
	v.FlushEvents()
	checkLog(t, rec.log, nil)
}

func TestDispatchAfterDestroy(t *testing.T) {
	rec := new(recorder)
	v := newTestView(t, rec)
	if err := v.Destroy(); err != nil {
		t.Fatal(err)
	}
	rec.log = nil

	v.Dispatch(event.ButtonEvent{State: event.Press, Button: 1})
	v.Dispatch(event.ExposeEvent{Damage: image.Rect(0, 0, 1, 1)})
	v.FlushEvents()
	checkLog(t, rec.log, nil)
}
