package detection

import (
	"image"
	"math"
	"testing"
)

func TestBounds_Size(t *testing.T) {
	b := Bounds{X1: 2, Y1: 3, X2: 5, Y2: 3}
	if b.Width() != 4 || b.Height() != 1 || b.Area() != 4 {
		t.Errorf("got %dx%d area %d, want 4x1 area 4", b.Width(), b.Height(), b.Area())
	}
	if b.Rect() != image.Rect(2, 3, 6, 4) {
		t.Errorf("Rect: got %v", b.Rect())
	}
}

func TestBounds_Contains(t *testing.T) {
	outer := Bounds{X1: 0, Y1: 0, X2: 9, Y2: 9}

	tests := []struct {
		name  string
		inner Bounds
		want  bool
	}{
		{"inside", Bounds{2, 2, 5, 5}, true},
		{"same", outer, true},
		{"touching edge", Bounds{0, 5, 9, 9}, true},
		{"crossing", Bounds{5, 5, 10, 8}, false},
		{"outside", Bounds{20, 20, 21, 21}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outer.Contains(tt.inner); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.inner, got, tt.want)
			}
		})
	}

	if !outer.ContainsPoint(9, 0) || outer.ContainsPoint(10, 0) {
		t.Error("ContainsPoint should include the right edge only")
	}
}

func TestBounds_Intersect(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Bounds
		want   Bounds
		wantOK bool
	}{
		{"overlap", Bounds{0, 0, 4, 4}, Bounds{2, 3, 8, 8}, Bounds{2, 3, 4, 4}, true},
		{"single pixel", Bounds{0, 0, 4, 4}, Bounds{4, 4, 6, 6}, Bounds{4, 4, 4, 4}, true},
		{"disjoint", Bounds{0, 0, 4, 4}, Bounds{5, 0, 6, 4}, Bounds{}, false},
		{"nested", Bounds{0, 0, 9, 9}, Bounds{3, 3, 4, 4}, Bounds{3, 3, 4, 4}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.a.Intersect(tt.b)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Intersect: got %v %v, want %v %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestBounds_IoU(t *testing.T) {
	a := Bounds{0, 0, 1, 1}
	b := Bounds{1, 0, 2, 1}

	// 2 shared pixels over 6 covered.
	if got := a.IoU(b); math.Abs(got-1.0/3.0) > 1e-9 {
		t.Errorf("IoU: got %v, want 1/3", got)
	}
	if got := a.IoU(a); got != 1 {
		t.Errorf("self IoU: got %v, want 1", got)
	}
	if got := a.IoU(Bounds{5, 5, 6, 6}); got != 0 {
		t.Errorf("disjoint IoU: got %v, want 0", got)
	}
}
