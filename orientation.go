package gfx

import "image"

// Map converts logical pixel (x, y) to physical coordinates on a panel that
// is w by h pixels unrotated.
func (o Orientation) Map(x, y, w, h int) (int, int) {
	switch o {
	case Orientation90:
		return y, h - 1 - x
	case Orientation180:
		return w - 1 - x, h - 1 - y
	case Orientation270:
		return w - 1 - y, x
	default:
		return x, y
	}
}

// MapRect converts a logical rectangle to the physical rectangle covering the
// same pixels on a panel that is w by h pixels unrotated.
func (o Orientation) MapRect(r image.Rectangle, w, h int) image.Rectangle {
	var (
		x, y   = r.Min.X, r.Min.Y
		cx, cy = r.Dx(), r.Dy()
		sx, ex int
		sy, ey int
	)
	switch o {
	case Orientation90:
		sx, ex = y, y+cy-1
		sy, ey = h-x-cx, h-1-x
	case Orientation180:
		sx, ex = w-x-cx, w-1-x
		sy, ey = h-y-cy, h-1-y
	case Orientation270:
		sx, ex = w-y-cy, w-1-y
		sy, ey = x, x+cx-1
	default:
		return r
	}
	return image.Rect(sx, sy, ex+1, ey+1)
}

// Size returns the logical dimensions of a w by h panel.
func (o Orientation) Size(w, h int) (int, int) {
	if o == Orientation90 || o == Orientation270 {
		return h, w
	}
	return w, h
}

// Inverse returns the orientation that undoes o.
func (o Orientation) Inverse() Orientation {
	switch o {
	case Orientation90:
		return Orientation270
	case Orientation270:
		return Orientation90
	default:
		return o
	}
}
