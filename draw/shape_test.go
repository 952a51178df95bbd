package draw

import (
	"image"
	"image/color"
	"testing"
)

type testFiller struct {
	*image.Gray
	fills []image.Rectangle
}

func (f *testFiller) FillArea(r image.Rectangle, c color.Color) {
	f.fills = append(f.fills, r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			f.Set(x, y, c)
		}
	}
}

func countSet(i *image.Gray) (n int) {
	for _, v := range i.Pix {
		if v != 0 {
			n++
		}
	}
	return
}

func TestLine(t *testing.T) {
	i := image.NewGray(image.Rect(0, 0, 8, 8))
	Line(i, image.Pt(0, 0), image.Pt(7, 7), color.White)
	for p := 0; p < 8; p++ {
		if v := i.GrayAt(p, p).Y; v != 0xff {
			t.Errorf("expected (%d,%d) to be set", p, p)
		}
	}
	if n := countSet(i); n != 8 {
		t.Errorf("expected 8 pixels set, got %d", n)
	}
}

func TestRectangle(t *testing.T) {
	i := image.NewGray(image.Rect(0, 0, 10, 10))
	Rectangle(i, image.Rect(1, 2, 6, 5), color.White)
	if n := countSet(i); n != 5+5+1+1 {
		t.Errorf("expected %d pixels set, got %d", 12, n)
	}
	for _, p := range []image.Point{{1, 2}, {5, 2}, {1, 4}, {5, 4}, {1, 3}, {5, 3}} {
		if v := i.GrayAt(p.X, p.Y).Y; v != 0xff {
			t.Errorf("expected %s to be set", p)
		}
	}
	if v := i.GrayAt(3, 3).Y; v != 0 {
		t.Error("expected inside to be untouched")
	}

	i = image.NewGray(image.Rect(0, 0, 4, 4))
	Rectangle(i, image.Rectangle{}, color.White)
	if n := countSet(i); n != 0 {
		t.Errorf("expected empty rectangle to draw nothing, got %d pixels", n)
	}
}

func TestRoundedRectangle(t *testing.T) {
	i := image.NewGray(image.Rect(0, 0, 12, 10))
	RoundedRectangle(i, image.Rect(0, 0, 10, 8), 3, color.White)
	if n := countSet(i); n != 24 {
		t.Errorf("expected 24 pixels set, got %d", n)
	}
	for _, p := range []image.Point{{0, 0}, {9, 0}, {0, 7}, {9, 7}, {1, 0}, {0, 1}, {5, 4}} {
		if v := i.GrayAt(p.X, p.Y).Y; v != 0 {
			t.Errorf("expected %s to be clear", p)
		}
	}
	for _, p := range []image.Point{{1, 1}, {8, 1}, {8, 6}, {1, 6}, {2, 0}, {0, 2}, {5, 0}, {9, 4}} {
		if v := i.GrayAt(p.X, p.Y).Y; v != 0xff {
			t.Errorf("expected %s to be set", p)
		}
	}

	// Corners are mirror images of each other.
	for y := 0; y < 8; y++ {
		for x := 0; x < 10; x++ {
			if i.GrayAt(x, y) != i.GrayAt(9-x, y) || i.GrayAt(x, y) != i.GrayAt(x, 7-y) {
				t.Fatalf("expected symmetric outline at (%d,%d)", x, y)
			}
		}
	}
	if v := i.GrayAt(10, 0).Y; v != 0 {
		t.Error("expected nothing outside rect")
	}

	// No radius is a plain rectangle.
	a := image.NewGray(image.Rect(0, 0, 10, 10))
	b := image.NewGray(image.Rect(0, 0, 10, 10))
	RoundedRectangle(a, image.Rect(1, 2, 6, 5), 0, color.White)
	Rectangle(b, image.Rect(1, 2, 6, 5), color.White)
	if string(a.Pix) != string(b.Pix) {
		t.Error("expected radius 0 to draw a plain rectangle")
	}

	// The radius is limited by the shorter side.
	i = image.NewGray(image.Rect(0, 0, 4, 4))
	RoundedRectangle(i, i.Rect, 10, color.White)
	if n := countSet(i); n != 8 {
		t.Errorf("expected 8 pixels set, got %d", n)
	}
	if v := i.GrayAt(0, 0).Y; v != 0 {
		t.Error("expected the corner to be rounded off")
	}
}

func TestBox(t *testing.T) {
	t.Run("pixels", func(it *testing.T) {
		i := image.NewGray(image.Rect(0, 0, 10, 10))
		Box(i, image.Rect(2, 2, 5, 4), color.White)
		if n := countSet(i); n != 6 {
			it.Errorf("expected 6 pixels set, got %d", n)
		}
	})
	t.Run("filler", func(it *testing.T) {
		f := &testFiller{Gray: image.NewGray(image.Rect(0, 0, 10, 10))}
		Box(f, image.Rect(2, 2, 5, 4), color.White)
		if len(f.fills) != 1 || f.fills[0] != image.Rect(2, 2, 5, 4) {
			it.Errorf("expected one FillArea call, got %v", f.fills)
		}
	})
	t.Run("clipped filler", func(it *testing.T) {
		f := &testFiller{Gray: image.NewGray(image.Rect(0, 0, 10, 10))}
		Box(Clip(f, image.Rect(0, 0, 4, 4)), image.Rect(2, 2, 8, 8), color.White)
		if len(f.fills) != 1 || f.fills[0] != image.Rect(2, 2, 4, 4) {
			it.Errorf("expected one clipped FillArea call, got %v", f.fills)
		}
	})
}

func TestClip(t *testing.T) {
	i := image.NewGray(image.Rect(0, 0, 10, 10))
	c := Clip(i, image.Rect(2, 2, 4, 4))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			c.Set(x, y, color.White)
		}
	}
	if n := countSet(i); n != 4 {
		t.Errorf("expected 4 pixels set, got %d", n)
	}
	if v := c.Bounds(); v != image.Rect(2, 2, 4, 4) {
		t.Errorf("expected bounds %s, got %s", image.Rect(2, 2, 4, 4), v)
	}
}
