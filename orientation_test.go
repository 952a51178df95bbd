package gfx

import (
	"image"
	"testing"
)

var orientations = []Orientation{Orientation0, Orientation90, Orientation180, Orientation270}

func TestOrientationMap(t *testing.T) {
	const w, h = 128, 32
	tests := []struct {
		o          Orientation
		x, y       int
		wantX      int
		wantY      int
		wantW      int
		wantH      int
		wantString string
	}{
		{Orientation0, 5, 7, 5, 7, 128, 32, "0°"},
		{Orientation90, 5, 7, 7, 26, 32, 128, "90°"},
		{Orientation180, 5, 7, 122, 24, 128, 32, "180°"},
		{Orientation270, 5, 7, 120, 5, 32, 128, "270°"},
	}
	for _, test := range tests {
		t.Run(test.o.String(), func(it *testing.T) {
			if x, y := test.o.Map(test.x, test.y, w, h); x != test.wantX || y != test.wantY {
				it.Errorf("expected (%d,%d), got (%d,%d)", test.wantX, test.wantY, x, y)
			}
			if lw, lh := test.o.Size(w, h); lw != test.wantW || lh != test.wantH {
				it.Errorf("expected size %dx%d, got %dx%d", test.wantW, test.wantH, lw, lh)
			}
			if v := test.o.String(); v != test.wantString {
				it.Errorf("expected %q, got %q", test.wantString, v)
			}
		})
	}
}

func TestOrientationRoundTrip(t *testing.T) {
	const w, h = 128, 32
	for _, o := range orientations {
		t.Run(o.String(), func(it *testing.T) {
			lw, lh := o.Size(w, h)
			iw, ih := o.Size(w, h)
			for y := 0; y < lh; y++ {
				for x := 0; x < lw; x++ {
					px, py := o.Map(x, y, w, h)
					if px < 0 || py < 0 || px >= w || py >= h {
						it.Fatalf("(%d,%d) maps outside the panel: (%d,%d)", x, y, px, py)
					}
					if rx, ry := o.Inverse().Map(px, py, iw, ih); rx != x || ry != y {
						it.Fatalf("(%d,%d) round trips to (%d,%d)", x, y, rx, ry)
					}
				}
			}
		})
	}
}

func TestOrientationMapRect(t *testing.T) {
	const w, h = 16, 24
	rects := []image.Rectangle{
		image.Rect(0, 0, 1, 1),
		image.Rect(2, 3, 7, 11),
		image.Rect(0, 0, 3, 16),
	}
	for _, o := range orientations {
		for _, r := range rects {
			t.Run(o.String()+" "+r.String(), func(it *testing.T) {
				p := o.MapRect(r, w, h)
				if p.Dx()*p.Dy() != r.Dx()*r.Dy() {
					it.Fatalf("expected area %d, got %s", r.Dx()*r.Dy(), p)
				}
				for y := r.Min.Y; y < r.Max.Y; y++ {
					for x := r.Min.X; x < r.Max.X; x++ {
						if px, py := o.Map(x, y, w, h); !(image.Point{X: px, Y: py}).In(p) {
							it.Fatalf("(%d,%d) maps to (%d,%d), outside %s", x, y, px, py, p)
						}
					}
				}
			})
		}
	}
}

func TestOrientationInverse(t *testing.T) {
	want := map[Orientation]Orientation{
		Orientation0:   Orientation0,
		Orientation90:  Orientation270,
		Orientation180: Orientation180,
		Orientation270: Orientation90,
	}
	for o, inv := range want {
		if v := o.Inverse(); v != inv {
			t.Errorf("%s: expected inverse %s, got %s", o, inv, v)
		}
	}
}

func TestParseOrientation(t *testing.T) {
	tests := []struct {
		in   string
		want Orientation
		err  bool
	}{
		{"", Orientation0, false},
		{"90", Orientation90, false},
		{"cw", Orientation90, false},
		{"180°", Orientation180, false},
		{"LEFT", Orientation270, false},
		{"45", Orientation0, true},
	}
	for _, test := range tests {
		v, err := ParseOrientation(test.in)
		if (err != nil) != test.err {
			t.Errorf("%q: expected error %t, got %v", test.in, test.err, err)
		}
		if v != test.want {
			t.Errorf("%q: expected %s, got %s", test.in, test.want, v)
		}
	}
}

func TestCapabilityString(t *testing.T) {
	if v := (CapFlush | CapFill).String(); v != "fill|flush" {
		t.Errorf("expected %q, got %q", "fill|flush", v)
	}
	if v := Capability(0).String(); v != "none" {
		t.Errorf("expected %q, got %q", "none", v)
	}
	if !(CapFlush | CapFill | CapControl).Has(CapFlush | CapControl) {
		t.Error("expected capabilities to be set")
	}
}
