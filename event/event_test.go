// SPDX-License-Identifier: Unlicense OR MIT

package event

import "testing"

func TestModifiersContain(t *testing.T) {
	m := ModCtrl | ModShift
	if !m.Contain(ModCtrl) {
		t.Error("Ctrl-Shift does not contain Ctrl")
	}
	if !m.Contain(ModCtrl | ModShift) {
		t.Error("Ctrl-Shift does not contain Ctrl-Shift")
	}
	if m.Contain(ModAlt) {
		t.Error("Ctrl-Shift contains Alt")
	}
}

func TestModifiersString(t *testing.T) {
	tests := []struct {
		m    Modifiers
		want string
	}{
		{0, ""},
		{ModCtrl, "Ctrl"},
		{ModCtrl | ModShift, "Ctrl-Shift"},
		{ModCtrl | ModShift | ModAlt | ModSuper, "Ctrl-Shift-Alt-Super"},
	}
	for _, test := range tests {
		if got := test.m.String(); got != test.want {
			t.Errorf("String(%#x): got %q, expected %q", uint32(test.m), got, test.want)
		}
	}
}

func TestKeySpecial(t *testing.T) {
	if !KeyF1.Special() {
		t.Error("F1 is not special")
	}
	if !KeyPause.Special() {
		t.Error("Pause is not special")
	}
	if Key('q').Special() {
		t.Error("'q' is special")
	}
}
