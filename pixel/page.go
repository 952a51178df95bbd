package pixel

import (
	"image"
	"image/color"
)

// PageBuffer is a 1-bit per pixel monochrome image organized in pages.
//
// A page is a horizontal band of 8 pixel rows, one byte per column with the
// least significant bit on top. This is the display RAM layout of the SSD1xxx
// and SH1xxx OLED controllers. Each page row may start with a fixed prefix
// byte which is sent along with the page data but never holds pixels.
type PageBuffer struct {
	Buffer

	// Offset is the number of prefix bytes at the start of every page row.
	Offset int
}

// NewPageBuffer allocates a zeroed page buffer of w by h pixels.
func NewPageBuffer(w, h int) *PageBuffer {
	pages := (h + 7) >> 3
	return &PageBuffer{
		Buffer: makeBuffer(w, h, w, pages*w),
	}
}

// NewPrefixedPageBuffer allocates a page buffer where every page row is
// preceded by the prefix byte.
func NewPrefixedPageBuffer(w, h int, prefix byte) *PageBuffer {
	var (
		pages  = (h + 7) >> 3
		stride = w + 1
		p      = &PageBuffer{
			Buffer: makeBuffer(w, h, stride, pages*stride),
			Offset: 1,
		}
	)
	for i := 0; i < len(p.Pix); i += stride {
		p.Pix[i] = prefix
	}
	return p
}

// Pages is the number of page rows.
func (p *PageBuffer) Pages() int {
	return (p.Rect.Dy() + 7) >> 3
}

// Page returns the raw bytes of page row n, prefix included.
func (p *PageBuffer) Page(n int) []byte {
	off := n * p.Stride
	return p.Pix[off : off+p.Stride]
}

// PixOffset is the index of the byte holding pixel (x, y).
func (p *PageBuffer) PixOffset(x, y int) int {
	return p.Offset + x + (y>>3)*p.Stride
}

func (p *PageBuffer) ColorModel() color.Model {
	return MonoModel
}

// Bit reports if pixel (x, y) is lit. The point must be inside Rect.
func (p *PageBuffer) Bit(x, y int) bool {
	return p.Pix[p.PixOffset(x, y)]&(1<<uint(y&7)) != 0
}

// SetBit lights or clears pixel (x, y). The point must be inside Rect.
func (p *PageBuffer) SetBit(x, y int, on bool) {
	var (
		pos = p.PixOffset(x, y)
		bit = byte(1) << uint(y&7)
	)
	if on {
		p.Pix[pos] |= bit
	} else {
		p.Pix[pos] &^= bit
	}
}

func (p *PageBuffer) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}
	return Mono{On: p.Bit(x, y)}
}

func (p *PageBuffer) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}
	p.SetBit(x, y, IsOn(c))
}

// FillSpan lights or clears all pixels in r, a page aligned operation that
// masks the partial first and last pages. The span is clipped to Rect and an
// empty span is a no-op. It reports if any pixel was addressed.
func (p *PageBuffer) FillSpan(r image.Rectangle, on bool) bool {
	r = r.Intersect(p.Rect)
	if r.Empty() {
		return false
	}

	var (
		sx, ex = r.Min.X, r.Max.X - 1
		sy, ey = r.Min.Y, r.Max.Y - 1
		spage  = sy >> 3
		zpages = (ey >> 3) - spage
		base   = p.Offset + spage*p.Stride
		mask   = byte(0xff) << uint(sy&7)
	)
	for ; zpages > 0; zpages-- {
		p.maskColumns(base, sx, ex, mask, on)
		mask = 0xff
		base += p.Stride
	}
	mask &= 0xff >> uint(7-(ey&7))
	p.maskColumns(base, sx, ex, mask, on)
	return true
}

func (p *PageBuffer) maskColumns(base, sx, ex int, mask byte, on bool) {
	row := p.Pix[base+sx : base+ex+1]
	if on {
		for i := range row {
			row[i] |= mask
		}
	} else {
		for i := range row {
			row[i] &^= mask
		}
	}
}

// Clear turns all pixels off, keeping the page prefixes.
func (p *PageBuffer) Clear() {
	p.fill(0x00)
}

// Fill sets all pixels to c, keeping the page prefixes.
func (p *PageBuffer) Fill(c color.Color) {
	var value byte
	if IsOn(c) {
		value = 0xff
	}
	p.fill(value)
}

func (p *PageBuffer) fill(value byte) {
	for page := 0; page < p.Pages(); page++ {
		row := p.Page(page)[p.Offset:]
		for i := range row {
			row[i] = value
		}
	}
}
