package widget

import (
	"image"
	"testing"

	"github.com/BeatGlow/gfx/draw"
)

func TestLabelJustify(t *testing.T) {
	tests := []struct {
		justify draw.Justify
		min     int
		max     int
	}{
		{draw.JustifyLeft, 0, 14},
		{draw.JustifyCenter, 23, 37},
		{draw.JustifyRight, 46, 60},
	}
	for _, test := range tests {
		t.Run(test.justify.String(), func(it *testing.T) {
			dst := newTestSurface(60, 16)
			l := NewLabel(dst.Rect, "ab")
			l.SetJustify(test.justify)
			if err := NewManager(dst).Add(l); err != nil {
				it.Fatal(err)
			}
			if v := dst.lit(image.Rect(test.min, 0, test.max, 16)); v == 0 {
				it.Errorf("expected text between x=%d and x=%d", test.min, test.max)
			}
			if v := dst.lit(dst.Rect) - dst.lit(image.Rect(test.min, 0, test.max, 16)); v != 0 {
				it.Errorf("expected no pixels outside of x=%d..%d, got %d", test.min, test.max, v)
			}
		})
	}
}

func TestLabelBorder(t *testing.T) {
	dst := newTestSurface(64, 32)
	l := NewLabel(image.Rect(2, 2, 42, 18), "")
	if err := NewManager(dst).Add(l); err != nil {
		t.Fatal(err)
	}
	l.SetBorder(true)
	if !l.Border() {
		t.Error("expected border flag")
	}
	for _, p := range []image.Point{{2, 2}, {41, 2}, {2, 17}, {41, 17}} {
		if !dst.isLit(p.X, p.Y) {
			t.Errorf("expected border pixel at %s", p)
		}
	}
	if v := dst.lit(dst.Rect); v != 2*40+2*14 {
		t.Errorf("expected %d border pixels, got %d", 2*40+2*14, v)
	}

	l.SetBorder(false)
	if v := dst.lit(dst.Rect); v != 0 {
		t.Errorf("expected border removed, got %d pixels", v)
	}
}

func TestLabelBorderRadius(t *testing.T) {
	dst := newTestSurface(64, 32)
	l := NewLabel(image.Rect(2, 2, 42, 18), "")
	l.SetBorder(true)
	l.SetBorderRadius(3)
	if err := NewManager(dst).Add(l); err != nil {
		t.Fatal(err)
	}
	if v := l.BorderRadius(); v != 3 {
		t.Errorf("expected radius 3, got %d", v)
	}
	for _, p := range []image.Point{{2, 2}, {41, 2}, {2, 17}, {41, 17}, {3, 2}} {
		if dst.isLit(p.X, p.Y) {
			t.Errorf("expected rounded corner, pixel %s is lit", p)
		}
	}
	for _, p := range []image.Point{{3, 3}, {4, 2}, {2, 4}, {40, 16}} {
		if !dst.isLit(p.X, p.Y) {
			t.Errorf("expected border pixel at %s", p)
		}
	}
	if v := dst.lit(dst.Rect); v != 2*34+2*10+4*3 {
		t.Errorf("expected %d border pixels, got %d", 2*34+2*10+4*3, v)
	}

	l.SetBorderRadius(-1)
	if v := l.BorderRadius(); v != 0 {
		t.Errorf("expected negative radius to clamp to 0, got %d", v)
	}
	if !dst.isLit(2, 2) {
		t.Error("expected a square corner without radius")
	}
}

func TestLabelAttribute(t *testing.T) {
	dst := newTestSurface(80, 16)
	l := NewLabel(dst.Rect, "")
	if err := NewManager(dst).Add(l); err != nil {
		t.Fatal(err)
	}
	l.SetAttribute(40, "T:")
	if tab, attr := l.Attribute(); tab != 40 || attr != "T:" {
		t.Errorf("expected attribute (40, T:), got (%d, %s)", tab, attr)
	}
	if dst.lit(image.Rect(0, 0, 40, 16)) == 0 {
		t.Error("expected the attribute drawn in the tab column")
	}
	if dst.lit(image.Rect(40, 0, 80, 16)) != 0 {
		t.Error("expected nothing after the tab column")
	}

	l.SetText("42")
	if dst.lit(image.Rect(40, 0, 80, 16)) == 0 {
		t.Error("expected the text drawn after the tab column")
	}
	if v := l.Text(); v != "42" {
		t.Errorf("expected text 42, got %q", v)
	}
}

func TestLabelDisabled(t *testing.T) {
	dst := newTestSurface(40, 16)
	l := NewLabel(dst.Rect, "abc")
	if err := NewManager(dst).Add(l); err != nil {
		t.Fatal(err)
	}
	l.SetEnabled(false)
	if l.Enabled() {
		t.Fatal("expected label disabled")
	}
	var lit int
	for i, v := range dst.Pix {
		switch v {
		case 0:
		case 0x80:
			lit++
		default:
			t.Fatalf("pixel %d: expected disabled text color, got %#02x", i, v)
		}
	}
	if lit == 0 {
		t.Error("expected text pixels")
	}
}
