// SPDX-License-Identifier: Unlicense OR MIT

package event

// Key identifies a keyboard key as a single Unicode code point.
// Special keys without a code point of their own are assigned values
// in a Unicode private use area.
type Key rune

const (
	KeyF1 Key = 0xE000 + iota
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyLeft
	KeyUp
	KeyRight
	KeyDown
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyInsert
	KeyShiftL
	KeyShiftR
	KeyCtrlL
	KeyCtrlR
	KeyAltL
	KeyAltR
	KeySuperL
	KeySuperR
	KeyMenu
	KeyCapsLock
	KeyScrollLock
	KeyNumLock
	KeyPrintScreen
	KeyPause
)

// Special reports whether k is one of the special key values rather
// than a regular code point.
func (k Key) Special() bool {
	return k >= KeyF1 && k <= KeyPause
}
