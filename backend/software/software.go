// SPDX-License-Identifier: Unlicense OR MIT

// Package software implements a reference raster backend drawing into
// an RGBA framebuffer. The handler draws into Image during expose
// delivery; when the context is left the framebuffer is presented
// through the internals' view.Presenter capability, if it has one.
package software

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/paneui/pane/view"
)

// Backend is a software raster backend for one view.
type Backend struct {
	img *image.RGBA
}

// New returns a software backend.
func New() *Backend {
	return &Backend{}
}

func (b *Backend) Configure(v *view.View) error {
	return nil
}

// Create allocates the framebuffer at the view's initial size.
func (b *Backend) Create(v *view.View) error {
	size := v.Frame().Size()
	b.img = image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	return nil
}

func (b *Backend) Destroy(v *view.View) {
	b.img = nil
}

func (b *Backend) Enter(v *view.View, drawing bool) {}

// Leave presents the framebuffer when a drawing pass ends.
func (b *Backend) Leave(v *view.View, drawing bool) {
	if !drawing || b.img == nil {
		return
	}
	if p, ok := v.Internals().(view.Presenter); ok {
		// Presentation failures are transient; the next expose redraws.
		_ = p.Present(b.img, b.img.Bounds())
	}
}

// Resize reallocates the framebuffer, keeping the overlapping content
// until the following expose redraws it.
func (b *Backend) Resize(v *view.View, width, height int) {
	if b.img != nil && b.img.Bounds() == image.Rect(0, 0, width, height) {
		return
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if b.img != nil {
		draw.Copy(img, image.Point{}, b.img, b.img.Bounds().Intersect(img.Bounds()), draw.Src, nil)
	}
	b.img = img
}

// Context returns the framebuffer; it is what View.Context yields
// during expose delivery.
func (b *Backend) Context(v *view.View) interface{} {
	return b.img
}

// Image returns the backend's framebuffer.
func (b *Backend) Image() *image.RGBA {
	return b.img
}
