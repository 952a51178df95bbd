package draw

import (
	"image"
	"image/color"
	"image/draw"
)

// Image is an alias for [image/draw.Image].
type Image = draw.Image

// Op is an alias for image/draw.Op
type Op = draw.Op

const (
	// Over specifies ``(src in mask) over dst''.
	Over Op = iota

	// Src specifies ``src in mask''.
	Src
)

// Filler is an image that can fill rectangles faster than pixel by pixel.
type Filler interface {
	Image

	// FillArea sets all pixels in r to c.
	FillArea(r image.Rectangle, c color.Color)
}

// Draw calls [DrawMask] with a nil mask.
func Draw(dst Image, r image.Rectangle, src image.Image, sp image.Point, op Op) {
	DrawMask(dst, r, src, sp, nil, image.Point{}, op)
}

// DrawMask aligns r.Min in dst with sp in src and mp in mask and then replaces the rectangle r
// in dst with the result of a Porter-Duff composition. A nil mask is treated as opaque.
func DrawMask(dst Image, r image.Rectangle, src image.Image, sp image.Point, mask image.Image, mp image.Point, op Op) {
	draw.DrawMask(dst, r, src, sp, mask, mp, op)
}

// Clip returns an image that ignores writes outside r.
func Clip(dst Image, r image.Rectangle) Image {
	return &clipped{Image: dst, r: r.Intersect(dst.Bounds())}
}

type clipped struct {
	Image
	r image.Rectangle
}

func (c *clipped) Bounds() image.Rectangle {
	return c.r
}

func (c *clipped) Set(x, y int, col color.Color) {
	if (image.Point{X: x, Y: y}).In(c.r) {
		c.Image.Set(x, y, col)
	}
}

func (c *clipped) FillArea(r image.Rectangle, col color.Color) {
	r = r.Intersect(c.r)
	if r.Empty() {
		return
	}
	Box(c.Image, r, col)
}
