package draw

import (
	"image"
	"image/color"
)

// Line draws a line between two points.
func Line(dst Image, a, b image.Point, c color.Color) {
	bresenham(dst, a.X, a.Y, b.X, b.Y, c)
}

// HorizontalLine draws a line between (x,y) and (x+w,y).
func HorizontalLine(dst Image, x, y, w int, c color.Color) {
	bresenham(dst, x, y, x+w-1, y, c)
}

// VerticalLine draws a line between (x,y) and (x,y+h).
func VerticalLine(dst Image, x, y, h int, c color.Color) {
	bresenham(dst, x, y, x, y+h-1, c)
}

// Rectangle draws the outline of rect.
func Rectangle(dst Image, rect image.Rectangle, c color.Color) {
	if rect.Empty() {
		return
	}
	var (
		w = rect.Dx()
		h = rect.Dy()
	)
	HorizontalLine(dst, rect.Min.X, rect.Min.Y, w, c)
	HorizontalLine(dst, rect.Min.X, rect.Max.Y-1, w, c)
	VerticalLine(dst, rect.Min.X, rect.Min.Y, h, c)
	VerticalLine(dst, rect.Max.X-1, rect.Min.Y, h, c)
}

// RoundedRectangle draws the outline of rect with corners of radius pixels.
// The radius is limited to half the shorter side; a radius of 0 or less draws
// a plain rectangle.
func RoundedRectangle(dst Image, rect image.Rectangle, radius int, c color.Color) {
	if rect.Empty() {
		return
	}
	r := min(radius, (rect.Dx()-1)/2, (rect.Dy()-1)/2)
	if r <= 0 {
		Rectangle(dst, rect, c)
		return
	}
	var (
		x0, y0 = rect.Min.X, rect.Min.Y
		x1, y1 = rect.Max.X - 1, rect.Max.Y - 1
	)
	if w := rect.Dx() - 2*r; w > 0 {
		HorizontalLine(dst, x0+r, y0, w, c)
		HorizontalLine(dst, x0+r, y1, w, c)
	}
	if h := rect.Dy() - 2*r; h > 0 {
		VerticalLine(dst, x0, y0+r, h, c)
		VerticalLine(dst, x1, y0+r, h, c)
	}
	arc(dst, image.Pt(x0+r, y0+r), r, -1, -1, c)
	arc(dst, image.Pt(x1-r, y0+r), r, +1, -1, c)
	arc(dst, image.Pt(x1-r, y1-r), r, +1, +1, c)
	arc(dst, image.Pt(x0+r, y1-r), r, -1, +1, c)
}

// arc draws the quarter circle around center in the quadrant given by the
// signs sx and sy, using the midpoint circle algorithm.
func arc(dst Image, center image.Point, radius, sx, sy int, c color.Color) {
	var (
		x = 0
		y = radius
		f = 1 - radius
	)
	for x <= y {
		dst.Set(center.X+sx*x, center.Y+sy*y, c)
		dst.Set(center.X+sx*y, center.Y+sy*x, c)
		if f < 0 {
			f += 2*x + 3
		} else {
			f += 2*(x-y) + 5
			y--
		}
		x++
	}
}

// Box draws a filled rectangle.
//
// Images implementing [Filler] fill the rectangle in one operation.
func Box(dst Image, rect image.Rectangle, c color.Color) {
	if rect.Empty() {
		return
	}
	if f, ok := dst.(Filler); ok {
		f.FillArea(rect, c)
		return
	}
	w := rect.Dx()
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		HorizontalLine(dst, rect.Min.X, y, w, c)
	}
}

// Generalized with integer
func bresenham(dst Image, x1, y1, x2, y2 int, c color.Color) {
	var dx, dy, e, slope int

	// Because drawing p1 -> p2 is equivalent to draw p2 -> p1,
	// I sort points in x-axis order to handle only half of possible cases.
	if x1 > x2 {
		x1, y1, x2, y2 = x2, y2, x1, y1
	}

	dx, dy = x2-x1, y2-y1
	// Because point is x-axis ordered, dx cannot be negative
	if dy < 0 {
		dy = -dy
	}

	switch {

	// Is line a point ?
	case x1 == x2 && y1 == y2:
		dst.Set(x1, y1, c)

	// Is line an horizontal ?
	case y1 == y2:
		for ; dx != 0; dx-- {
			dst.Set(x1, y1, c)
			x1++
		}
		dst.Set(x1, y1, c)

	// Is line a vertical ?
	case x1 == x2:
		if y1 > y2 {
			y1, y2 = y2, y1
		}
		for ; dy != 0; dy-- {
			dst.Set(x1, y1, c)
			y1++
		}
		dst.Set(x1, y1, c)

	// Is line a diagonal ?
	case dx == dy:
		if y1 < y2 {
			for ; dx != 0; dx-- {
				dst.Set(x1, y1, c)
				x1++
				y1++
			}
		} else {
			for ; dx != 0; dx-- {
				dst.Set(x1, y1, c)
				x1++
				y1--
			}
		}
		dst.Set(x1, y1, c)

	// wider than high ?
	case dx > dy:
		if y1 < y2 {
			// BresenhamDxXRYD(img, x1, y1, x2, y2, col)
			dy, e, slope = 2*dy, dx, 2*dx
			for ; dx != 0; dx-- {
				dst.Set(x1, y1, c)
				x1++
				e -= dy
				if e < 0 {
					y1++
					e += slope
				}
			}
		} else {
			// BresenhamDxXRYU(img, x1, y1, x2, y2, col)
			dy, e, slope = 2*dy, dx, 2*dx
			for ; dx != 0; dx-- {
				dst.Set(x1, y1, c)
				x1++
				e -= dy
				if e < 0 {
					y1--
					e += slope
				}
			}
		}
		dst.Set(x2, y2, c)

	// higher than wide.
	default:
		if y1 < y2 {
			// BresenhamDyXRYD(img, x1, y1, x2, y2, col)
			dx, e, slope = 2*dx, dy, 2*dy
			for ; dy != 0; dy-- {
				dst.Set(x1, y1, c)
				y1++
				e -= dx
				if e < 0 {
					x1++
					e += slope
				}
			}
		} else {
			// BresenhamDyXRYU(img, x1, y1, x2, y2, col)
			dx, e, slope = 2*dx, dy, 2*dy
			for ; dy != 0; dy-- {
				dst.Set(x1, y1, c)
				y1--
				e -= dx
				if e < 0 {
					x1++
					e += slope
				}
			}
		}
		dst.Set(x2, y2, c)
	}
}
