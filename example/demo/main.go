// SPDX-License-Identifier: Unlicense OR MIT

//go:build (linux && !android && !nox11) || freebsd
// +build linux,!android,!nox11 freebsd

// Command demo creates a top-level window and paints four buttons
// into a software framebuffer, quitting on 'q', escape or close.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/draw"
	"os"
	"time"

	"golang.org/x/image/colornames"

	"github.com/paneui/pane/backend/software"
	"github.com/paneui/pane/driver/x11"
	"github.com/paneui/pane/event"
	"github.com/paneui/pane/view"
)

var buttons = []image.Rectangle{
	image.Rect(128, 128, 192, 192),
	image.Rect(384, 128, 448, 192),
	image.Rect(128, 384, 192, 448),
	image.Rect(384, 384, 448, 448),
}

type app struct {
	backend *software.Backend

	quit        bool
	entered     bool
	mouseDown   bool
	framesDrawn int
}

func (a *app) onEvent(v *view.View, e event.Event) {
	switch e := e.(type) {
	case event.KeyEvent:
		if e.State == event.Press && (e.Key == 'q' || e.Key == 0x1b) {
			a.quit = true
		}
	case event.ButtonEvent:
		a.mouseDown = e.State == event.Press
		v.PostRedisplay()
	case event.CrossingEvent:
		a.entered = e.Enter
		v.PostRedisplay()
	case event.ExposeEvent:
		a.onDisplay(v)
	case event.CloseEvent:
		a.quit = true
	}
}

func (a *app) onDisplay(v *view.View) {
	img := a.backend.Image()

	background := colornames.Black
	if a.entered {
		background = colornames.Gray
	}
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	fill := colornames.Darkolivegreen
	if a.mouseDown {
		fill = colornames.Lawngreen
	}
	for _, b := range buttons {
		draw.Draw(img, b, image.NewUniform(fill), image.Point{}, draw.Src)
	}
	a.framesDrawn++
}

func main() {
	continuous := flag.Bool("c", false, "continuously animate and draw")
	ignoreKeyRepeat := flag.Bool("i", false, "ignore key repeat")
	resizable := flag.Bool("r", false, "resizable window")
	flag.Parse()

	a := &app{backend: software.New()}
	v := view.New(
		view.UseDriver(x11.New()),
		view.UseBackend(a.backend),
		view.Class("PaneDemo"),
		view.Title("Pane Demo"),
		view.Size(512, 512),
		view.MinSize(256, 256),
		view.Resizable(*resizable),
		view.IgnoreKeyRepeat(*ignoreKeyRepeat),
	)
	v.SetHandler(a.onEvent)

	if err := v.Create(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	v.Show()

	lastReport := v.Time()
	for !a.quit {
		if *continuous {
			v.PostRedisplay()
		} else {
			v.WaitForEvent(0)
		}
		v.ProcessEvents()

		if now := v.Time(); *continuous && now > lastReport+5*time.Second {
			elapsed := (now - lastReport).Seconds()
			fmt.Fprintf(os.Stderr, "%d frames in %.0f seconds = %.3f FPS\n",
				a.framesDrawn, elapsed, float64(a.framesDrawn)/elapsed)
			lastReport = now
			a.framesDrawn = 0
		}
	}
	v.Destroy()
}
