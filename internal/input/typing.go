package input

// KeyEvent is one UTF-16 keyboard event in a typing sequence.
type KeyEvent struct {
	Unit uint16
	Down bool
}

// utf16KeyEvents expands text into the key event sequence a UTF-16
// wire format needs: one down/up pair per BMP character, and four
// events (high down, high up, low down, low up) per character above
// U+FFFF, using the standard surrogate formulas.
func utf16KeyEvents(text string) []KeyEvent {
	var events []KeyEvent
	for _, r := range text {
		if r <= 0xFFFF {
			events = append(events,
				KeyEvent{Unit: uint16(r), Down: true},
				KeyEvent{Unit: uint16(r), Down: false},
			)
			continue
		}
		hi, lo := surrogatePair(r)
		events = append(events,
			KeyEvent{Unit: hi, Down: true},
			KeyEvent{Unit: hi, Down: false},
			KeyEvent{Unit: lo, Down: true},
			KeyEvent{Unit: lo, Down: false},
		)
	}
	return events
}

// surrogatePair splits an astral code point into its UTF-16 surrogate
// halves: H = (C-0x10000)/0x400 + 0xD800, L = (C-0x10000)%0x400 + 0xDC00.
func surrogatePair(r rune) (hi, lo uint16) {
	adjusted := uint32(r) - 0x10000
	return uint16(adjusted/0x400 + 0xD800), uint16(adjusted%0x400 + 0xDC00)
}
