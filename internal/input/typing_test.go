package input

import "testing"

func TestUTF16KeyEventsBMP(t *testing.T) {
	events := utf16KeyEvents("ab")
	want := []KeyEvent{
		{Unit: 'a', Down: true}, {Unit: 'a', Down: false},
		{Unit: 'b', Down: true}, {Unit: 'b', Down: false},
	}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, events[i], want[i])
		}
	}
}

func TestUTF16KeyEventsAstral(t *testing.T) {
	// U+1F600 GRINNING FACE encodes as the surrogate pair D83D DE00.
	events := utf16KeyEvents("\U0001F600")
	want := []KeyEvent{
		{Unit: 0xD83D, Down: true}, {Unit: 0xD83D, Down: false},
		{Unit: 0xDE00, Down: true}, {Unit: 0xDE00, Down: false},
	}
	if len(events) != 4 {
		t.Fatalf("astral character produced %d events, want 4", len(events))
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, events[i], want[i])
		}
	}
}

func TestSurrogatePair(t *testing.T) {
	tests := []struct {
		r      rune
		hi, lo uint16
	}{
		{0x10000, 0xD800, 0xDC00},
		{0x1F600, 0xD83D, 0xDE00},
		{0x10FFFF, 0xDBFF, 0xDFFF},
	}
	for _, tt := range tests {
		hi, lo := surrogatePair(tt.r)
		if hi != tt.hi || lo != tt.lo {
			t.Errorf("surrogatePair(%#x) = %#x,%#x, want %#x,%#x", tt.r, hi, lo, tt.hi, tt.lo)
		}
	}
}

func TestUTF16KeyEventsMixed(t *testing.T) {
	// One BMP char and one astral char: 2 + 4 events.
	events := utf16KeyEvents("a\U0001F680")
	if len(events) != 6 {
		t.Fatalf("got %d events, want 6", len(events))
	}
	if events[0].Unit != 'a' || events[2].Unit != 0xD83D || events[4].Unit != 0xDE80 {
		t.Errorf("unexpected unit sequence: %+v", events)
	}
}

func TestUTF16KeyEventsEmpty(t *testing.T) {
	if events := utf16KeyEvents(""); len(events) != 0 {
		t.Fatalf("empty text produced %d events, want 0", len(events))
	}
}
