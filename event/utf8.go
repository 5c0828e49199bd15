// SPDX-License-Identifier: Unlicense OR MIT

package event

import "unicode/utf8"

// DecodeUTF8 decodes the single code point whose encoding starts at
// buf[0]. The caller must supply every byte implied by a valid leading
// byte; no byte beyond that count is read. Malformed, overlong and
// otherwise invalid encodings decode to utf8.RuneError (U+FFFD).
func DecodeUTF8(buf []byte) rune {
	b0 := buf[0]
	switch {
	case b0 < 0x80:
		return rune(b0)
	case b0 < 0xC2:
		// Continuation byte, or the leader of an overlong two byte
		// sequence.
		return utf8.RuneError
	case b0 < 0xE0:
		if buf[1]&0xC0 != 0x80 {
			return utf8.RuneError
		}
		return rune(b0&0x1F)<<6 | rune(buf[1]&0x3F)
	case b0 < 0xF0:
		if buf[1]&0xC0 != 0x80 {
			return utf8.RuneError
		}
		if b0 == 0xE0 && buf[1] < 0xA0 {
			// Overlong.
			return utf8.RuneError
		}
		if b0 == 0xED && buf[1] >= 0xA0 {
			// Surrogate, not a Unicode scalar value.
			return utf8.RuneError
		}
		if buf[2]&0xC0 != 0x80 {
			return utf8.RuneError
		}
		return rune(b0&0x0F)<<12 | rune(buf[1]&0x3F)<<6 | rune(buf[2]&0x3F)
	case b0 < 0xF5:
		if buf[1]&0xC0 != 0x80 {
			return utf8.RuneError
		}
		if b0 == 0xF0 && buf[1] < 0x90 {
			// Overlong.
			return utf8.RuneError
		}
		if b0 == 0xF4 && buf[1] >= 0x90 {
			// Beyond U+10FFFF.
			return utf8.RuneError
		}
		if buf[2]&0xC0 != 0x80 || buf[3]&0xC0 != 0x80 {
			return utf8.RuneError
		}
		return rune(b0&0x07)<<18 | rune(buf[1]&0x3F)<<12 |
			rune(buf[2]&0x3F)<<6 | rune(buf[3]&0x3F)
	default:
		return utf8.RuneError
	}
}
