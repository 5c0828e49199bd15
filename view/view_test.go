// SPDX-License-Identifier: Unlicense OR MIT

package view_test

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/paneui/pane/driver/headless"
	"github.com/paneui/pane/event"
	"github.com/paneui/pane/view"
)

func TestLifecycle(t *testing.T) {
	var log []string
	v := view.New(
		view.UseDriver(headless.New()),
		view.Class("PaneTest"),
		view.Title("lifecycle"),
		view.Size(200, 100),
	)
	v.SetHandler(func(v *view.View, e event.Event) {
		switch e.(type) {
		case event.CreateEvent:
			log = append(log, "create")
		case event.DestroyEvent:
			log = append(log, "destroy")
		}
	})

	if v.Live() {
		t.Error("view live before Create")
	}
	if v.Internals() != nil {
		t.Error("internals allocated before Create")
	}
	if got := v.Time(); got != 0 {
		t.Errorf("time before Create: got %v, expected 0", got)
	}

	if err := v.Create(); err != nil {
		t.Fatal(err)
	}
	if !v.Live() {
		t.Error("view not live after Create")
	}
	win, ok := v.Internals().(*headless.Window)
	if !ok {
		t.Fatalf("internals: got %T, expected *headless.Window", v.Internals())
	}
	if v.NativeWindow() != win.NativeWindow() {
		t.Error("NativeWindow does not match internals")
	}

	if err := v.Destroy(); err != nil {
		t.Fatal(err)
	}
	if v.Live() {
		t.Error("view live after Destroy")
	}
	if v.Internals() != nil {
		t.Error("internals retained after Destroy")
	}
	if !win.Released() {
		t.Error("internals not released by Destroy")
	}

	want := []string{"create", "destroy"}
	if len(log) != len(want) || log[0] != want[0] || log[1] != want[1] {
		t.Errorf("got events %q, expected %q", log, want)
	}
}

func TestCreateFailure(t *testing.T) {
	fail := errors.New("no display")
	d := headless.New()
	d.CreateErr = fail

	created := false
	v := view.New(view.UseDriver(d))
	v.SetHandler(func(v *view.View, e event.Event) {
		if _, ok := e.(event.CreateEvent); ok {
			created = true
		}
	})

	err := v.Create()
	if !errors.Is(err, fail) {
		t.Fatalf("got error %v, expected %v", err, fail)
	}
	if v.Live() {
		t.Error("view live after failed Create")
	}
	if created {
		t.Error("CreateEvent delivered after failed Create")
	}
}

func TestCreateWithoutDriver(t *testing.T) {
	v := view.New()
	if err := v.Create(); !errors.Is(err, view.ErrNoDriver) {
		t.Fatalf("got error %v, expected %v", err, view.ErrNoDriver)
	}
}

func TestCreateTwicePanics(t *testing.T) {
	v := view.New(view.UseDriver(headless.New()))
	if err := v.Create(); err != nil {
		t.Fatal(err)
	}
	defer func() {
		if recover() == nil {
			t.Error("second Create did not panic")
		}
	}()
	v.Create()
}

func TestCreateAfterDestroyPanics(t *testing.T) {
	v := view.New(view.UseDriver(headless.New()))
	if err := v.Create(); err != nil {
		t.Fatal(err)
	}
	if err := v.Destroy(); err != nil {
		t.Fatal(err)
	}
	defer func() {
		if recover() == nil {
			t.Error("Create after Destroy did not panic")
		}
	}()
	v.Create()
}

func TestDestroyNotLivePanics(t *testing.T) {
	v := view.New(view.UseDriver(headless.New()))
	defer func() {
		if recover() == nil {
			t.Error("Destroy of a view that is not live did not panic")
		}
	}()
	v.Destroy()
}

func TestConfigureLivePanics(t *testing.T) {
	v := view.New(view.UseDriver(headless.New()))
	if err := v.Create(); err != nil {
		t.Fatal(err)
	}
	t.Run("Option", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("Option on a live view did not panic")
			}
		}()
		v.Option(view.Title("too late"))
	})
	t.Run("SetHandler", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("SetHandler on a live view did not panic")
			}
		}()
		v.SetHandler(func(*view.View, event.Event) {})
	})
}

func TestOptions(t *testing.T) {
	v := view.New(
		view.Class("PaneTest"),
		view.Title("options"),
		view.Size(300, 200),
		view.Position(10, 20),
		view.MinSize(100, 50),
		view.MaxSize(600, 400),
		view.Aspect(image.Pt(1, 1), image.Pt(2, 1)),
		view.Resizable(false),
		view.IgnoreKeyRepeat(true),
		view.AlwaysOnTop(true),
		view.TransientFor(42),
	)
	cfg := v.Config()
	if cfg.Class != "PaneTest" || cfg.Title != "options" {
		t.Errorf("class/title: got %q/%q", cfg.Class, cfg.Title)
	}
	if want := image.Rect(10, 20, 310, 220); cfg.Frame != want {
		t.Errorf("frame: got %v, expected %v", cfg.Frame, want)
	}
	if cfg.MinSize != image.Pt(100, 50) || cfg.MaxSize != image.Pt(600, 400) {
		t.Errorf("size bounds: got %v/%v", cfg.MinSize, cfg.MaxSize)
	}
	if cfg.MinAspect != image.Pt(1, 1) || cfg.MaxAspect != image.Pt(2, 1) {
		t.Errorf("aspect bounds: got %v/%v", cfg.MinAspect, cfg.MaxAspect)
	}
	if cfg.Resizable {
		t.Error("Resizable(false) not applied")
	}
	if !cfg.IgnoreKeyRepeat || !cfg.AlwaysOnTop {
		t.Error("boolean options not applied")
	}
	if cfg.TransientFor != 42 {
		t.Errorf("transient for: got %d, expected 42", cfg.TransientFor)
	}
}

func TestDefaults(t *testing.T) {
	cfg := view.New().Config()
	if want := image.Rect(0, 0, 640, 480); cfg.Frame != want {
		t.Errorf("default frame: got %v, expected %v", cfg.Frame, want)
	}
	if !cfg.Resizable {
		t.Error("views are resizable by default")
	}
}

func TestSizeOptionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Size(0, 0) did not panic")
		}
	}()
	view.New(view.Size(0, 0))
}

func TestShowHide(t *testing.T) {
	v := view.New(view.UseDriver(headless.New()))

	// Visibility requests on a view that is not live are dropped.
	v.Show()
	if v.Visible() {
		t.Error("view visible before Create")
	}

	if err := v.Create(); err != nil {
		t.Fatal(err)
	}
	v.Show()
	if !v.Visible() {
		t.Error("view not visible after Show")
	}
	v.Hide()
	if v.Visible() {
		t.Error("view visible after Hide")
	}
}

func TestTime(t *testing.T) {
	now := time.Unix(1000, 0)
	v := view.New(
		view.UseDriver(headless.New()),
		view.Clock(func() time.Time { return now }),
	)
	if err := v.Create(); err != nil {
		t.Fatal(err)
	}
	now = now.Add(1500 * time.Millisecond)
	if got := v.Time(); got != 1500*time.Millisecond {
		t.Errorf("time: got %v, expected 1.5s", got)
	}
}

func TestUserData(t *testing.T) {
	v := view.New()
	if v.UserData() != nil {
		t.Error("fresh view carries user data")
	}
	v.SetUserData("hello")
	if got := v.UserData(); got != "hello" {
		t.Errorf("user data: got %v, expected \"hello\"", got)
	}
}

func TestProcessEventsNotCreated(t *testing.T) {
	v := view.New(view.UseDriver(headless.New()))
	if err := v.ProcessEvents(); !errors.Is(err, view.ErrNotCreated) {
		t.Errorf("ProcessEvents: got %v, expected %v", err, view.ErrNotCreated)
	}
	if err := v.WaitForEvent(0); !errors.Is(err, view.ErrNotCreated) {
		t.Errorf("WaitForEvent: got %v, expected %v", err, view.ErrNotCreated)
	}
}
