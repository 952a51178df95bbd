package widget

import (
	"image"
	"image/color"

	"github.com/BeatGlow/gfx/draw"
)

// Space between the buttons and the text.
const spinboxTextPadding = 2

// Spinbox selects a value with decrement and increment buttons on either
// side of the value field. The buttons are squares as wide as the widget is
// high: releasing the left one increments, the right one decrements.
//
// A numeric spinbox shows a fixed point value followed by a units string, a
// text spinbox shows one of a list of items.
type Spinbox struct {
	base
	value    int
	min, max int
	step     int
	mark     string
	places   int
	units    string
	items    []string
}

// NewNumericSpinbox returns a spinbox for value in [min, max], changed in
// increments of step and shown with places decimals.
func NewNumericSpinbox(r image.Rectangle, value, min, max, step int, mark string, places int, units string) *Spinbox {
	s := new(Spinbox)
	s.base = base{self: s, rect: r}
	s.setParams(value, min, max, step, mark, places, units)
	return s
}

// NewTextSpinbox returns a spinbox selecting one of items, starting at the
// first.
func NewTextSpinbox(r image.Rectangle, items []string) *Spinbox {
	s := &Spinbox{
		max:   len(items) - 1,
		step:  1,
		items: append([]string(nil), items...),
	}
	s.base = base{self: s, rect: r}
	return s
}

func (s *Spinbox) Kind() Kind { return KindSpinbox }

// Text returns the formatted value or the selected item.
func (s *Spinbox) Text() string {
	if s.items != nil {
		if s.value < 0 || s.value >= len(s.items) {
			return ""
		}
		return s.items[s.value]
	}
	return FormatNumber(s.value, s.places, s.mark)
}

// Value is the current value or item index.
func (s *Spinbox) Value() int { return s.value }

// Range returns the value limits.
func (s *Spinbox) Range() (min, max int) { return s.min, s.max }

// Units returns the units shown after a numeric value.
func (s *Spinbox) Units() string { return s.units }

// SetValue changes the value, clamped to the range. Only the value field is
// redrawn.
func (s *Spinbox) SetValue(value int) {
	value = s.clamp(value)
	if value == s.value {
		return
	}
	s.value = value
	s.redraw(true)
}

// SetParams changes all parameters of a numeric spinbox and redraws it.
func (s *Spinbox) SetParams(value, min, max, step int, mark string, places int, units string) {
	s.setParams(value, min, max, step, mark, places, units)
	s.redraw(false)
}

func (s *Spinbox) setParams(value, min, max, step int, mark string, places int, units string) {
	if max < min {
		min, max = max, min
	}
	s.min, s.max = min, max
	s.step = step
	s.mark = mark
	s.places = places
	s.units = units
	s.items = nil
	s.value = s.clamp(value)
}

func (s *Spinbox) clamp(value int) int {
	if value < s.min {
		return s.min
	}
	if value > s.max {
		return s.max
	}
	return value
}

// mouseUp handles a button release at p, relative to the widget. It reports
// if a button was hit and if the value changed.
func (s *Spinbox) mouseUp(p image.Point) (hit, changed bool) {
	var (
		w    = s.rect.Dx()
		size = s.rect.Dy()
		old  = s.value
	)
	if p.Y < 0 || p.Y > size {
		return false, false
	}
	switch {
	case p.X >= w-size:
		s.value = s.clamp(s.value - s.step)
	case p.X <= size:
		s.value = s.clamp(s.value + s.step)
	default:
		return false, false
	}
	return true, s.value != old
}

// valueRect is the value field, right aligned against the units.
func (s *Spinbox) valueRect(unitsWidth int) image.Rectangle {
	var (
		r    = s.rect
		size = r.Dy()
	)
	return image.Rect(
		r.Min.X+size+1+spinboxTextPadding, r.Min.Y+1,
		r.Max.X-size-unitsWidth-spinboxTextPadding-1, r.Max.Y-1,
	)
}

func (s *Spinbox) draw(dst draw.Image, style *Style, partial bool) {
	var (
		r          = s.rect
		face       = s.fontFace()
		cs         = style.colors(s.Enabled())
		unitsWidth int
	)
	if s.items == nil && s.units != "" {
		unitsWidth = draw.StringWidth(face, s.units)
	}

	if !partial {
		var (
			x, y   = r.Min.X, r.Min.Y
			w, h   = r.Dx(), r.Dy()
			size   = h
			border = size / 8
			fill   = blend(cs.Fill, style.Background)
		)

		draw.Rectangle(dst, r, cs.Edge)
		draw.Box(dst, image.Rect(x+1, y+1, x+size, y+h-1), fill)
		draw.Box(dst, image.Rect(x+w-size, y+1, x+w-1, y+h-1), fill)
		draw.Line(dst, image.Pt(x+size, y+1), image.Pt(x+size, y+h-2), cs.Edge)
		draw.Line(dst, image.Pt(x+w-size, y+1), image.Pt(x+w-size, y+h-2), cs.Edge)

		// Plus in the left button.
		draw.Line(dst, image.Pt(x+border, y+h/2), image.Pt(x+size-border, y+h/2), cs.Edge)
		draw.Line(dst, image.Pt(x+size/2, y+border), image.Pt(x+size/2, y+h-border-1), cs.Edge)
		// Minus in the right button.
		draw.Line(dst, image.Pt(x+w-1-border, y+h-h/2-1), image.Pt(x+w-size+border, y+h-h/2-1), cs.Edge)

		if unitsWidth > 0 {
			ux := x + w - size - unitsWidth - spinboxTextPadding
			draw.StringBox(dst, image.Rect(ux, y+1, ux+unitsWidth, y+h-1), s.units, face, cs.Text, style.Background, draw.JustifyRight)
		}
	}

	draw.StringBox(dst, s.valueRect(unitsWidth), s.Text(), face, cs.Text, style.Background, draw.JustifyRight)
}

// blend mixes two colors half and half.
func blend(a, b color.Color) color.Color {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return color.RGBA64{
		R: uint16((ar + br) / 2),
		G: uint16((ag + bg) / 2),
		B: uint16((ab + bb) / 2),
		A: uint16((aa + ba) / 2),
	}
}
