// SPDX-License-Identifier: Unlicense OR MIT

package view

// Backend provides the drawing context bracketed around event
// delivery. Concrete backends live outside the core; StubBackend is
// used when the embedder configures none.
type Backend interface {
	// Configure prepares backend state that must exist before the
	// native window is created, such as choosing a visual.
	Configure(v *View) error

	// Create sets up the drawing context once the native window
	// exists.
	Create(v *View) error

	// Destroy releases the drawing context. It is called before the
	// view's internals are released.
	Destroy(v *View)

	// Enter makes the drawing context current. drawing reports
	// whether an expose delivery follows.
	Enter(v *View, drawing bool)

	// Leave flushes and releases the current drawing context.
	Leave(v *View, drawing bool)

	// Resize adjusts the drawing context to a new frame size.
	Resize(v *View, width, height int)

	// Context returns the backend-specific drawing handle. It is
	// valid during an expose delivery.
	Context(v *View) interface{}
}

// StubBackend returns a backend with no drawing context at all, for
// views that render through other means or not at all.
func StubBackend() Backend {
	return stubBackend{}
}

type stubBackend struct{}

func (stubBackend) Configure(*View) error     { return nil }
func (stubBackend) Create(*View) error        { return nil }
func (stubBackend) Destroy(*View)             {}
func (stubBackend) Enter(*View, bool)         {}
func (stubBackend) Leave(*View, bool)         {}
func (stubBackend) Resize(*View, int, int)    {}
func (stubBackend) Context(*View) interface{} { return nil }
