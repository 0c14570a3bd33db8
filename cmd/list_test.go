package cmd

import (
	"testing"

	"github.com/deskctl/deskctl/internal/window"
)

// listedFake is a minimal window for exercising the listing filter.
type listedFake struct {
	title   string
	visible bool
}

func (f listedFake) Title() string   { return f.title }
func (f listedFake) IsVisible() bool { return f.visible }

func TestListableDropsUntitledAndInvisible(t *testing.T) {
	tests := []struct {
		name string
		w    listedFake
		all  bool
		want bool
	}{
		{"titled visible", listedFake{"Editor", true}, false, true},
		{"untitled visible", listedFake{window.UntitledTitle, true}, false, false},
		{"titled invisible", listedFake{"Editor", false}, false, false},
		{"untitled invisible", listedFake{window.UntitledTitle, false}, false, false},
		{"untitled with all", listedFake{window.UntitledTitle, false}, true, true},
		{"invisible with all", listedFake{"Editor", false}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := listable(tt.w, tt.all); got != tt.want {
				t.Fatalf("listable(%+v, all=%v) = %v, want %v", tt.w, tt.all, got, tt.want)
			}
		})
	}
}
