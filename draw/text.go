package draw

import (
	"fmt"
	"image"
	"image/color"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Justify is the horizontal text alignment within a box.
type Justify uint8

// Supported alignments.
const (
	JustifyLeft Justify = iota
	JustifyCenter
	JustifyRight
)

func (j Justify) String() string {
	switch j {
	case JustifyCenter:
		return "center"
	case JustifyRight:
		return "right"
	default:
		return "left"
	}
}

// DefaultFace is the font face used when none is configured.
var DefaultFace font.Face = basicfont.Face7x13

// LoadFont parses a TrueType font and returns a face of size points at 72 DPI.
func LoadFont(ttf []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("draw: invalid font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// StringWidth is the advance of s in pixels.
func StringWidth(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

// StringWidthCount is the advance of the first n bytes of s in pixels.
func StringWidthCount(face font.Face, s string, n int) int {
	if n > len(s) {
		n = len(s)
	}
	if n <= 0 {
		return 0
	}
	return StringWidth(face, s[:n])
}

// FontHeight is the line height of face in pixels.
func FontHeight(face font.Face) int {
	m := face.Metrics()
	return (m.Ascent + m.Descent).Ceil()
}

// String draws s inside rect, vertically centered and horizontally aligned
// by justify. Pixels outside rect are never touched.
func String(dst Image, rect image.Rectangle, s string, face font.Face, c color.Color, justify Justify) {
	if rect.Empty() || s == "" {
		return
	}
	if face == nil {
		face = DefaultFace
	}

	var (
		m     = face.Metrics()
		width = StringWidth(face, s)
		x     = rect.Min.X
		y     = rect.Min.Y + (rect.Dy()-(m.Ascent+m.Descent).Ceil())/2 + m.Ascent.Ceil()
	)
	switch justify {
	case JustifyCenter:
		x += (rect.Dx() - width) / 2
	case JustifyRight:
		x = rect.Max.X - width
	}

	d := &font.Drawer{
		Dst:  Clip(dst, rect),
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// StringBox fills rect with the background color and draws s on top.
func StringBox(dst Image, rect image.Rectangle, s string, face font.Face, c, background color.Color, justify Justify) {
	Box(dst, rect, background)
	String(dst, rect, s, face, c, justify)
}
