package layout

import (
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"Water Cycle", 20, "Water Cycle"},
		{"Water Cycle", 6, "Water…"},
		{"Water Cycle", 1, "…"},
		{"Water Cycle", 0, ""},
		{"光合作用の流れ", 3, "光合…"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestRenderHeaderShowsTitleAndStatus(t *testing.T) {
	h := RenderHeader("Approval Flow", "Flow Chart", 100)
	for _, want := range []string{"Diagramiz", "Approval Flow", "Flow Chart"} {
		if !strings.Contains(h, want) {
			t.Errorf("header missing %q", want)
		}
	}
}

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(MinWidth-1, MinHeight) {
		t.Error("expected narrow terminal to be too small")
	}
	if IsTooSmall(MinWidth, MinHeight) {
		t.Error("expected minimum size to fit")
	}
}
