// Package widget implements a small retained mode widget toolkit for pixel
// displays: labels, spinboxes and text edit fields.
//
// Widgets are placed on a [Manager] which owns the drawing surface, the input
// focus and the event listeners. Widgets draw into the surface as soon as they
// change; [Manager.Update] pushes the result to the panel.
package widget

import (
	"errors"
	"image"
	"image/color"

	"golang.org/x/image/font"

	"github.com/BeatGlow/gfx/draw"
)

// ErrInvalidWidget is returned for widgets not created by this package.
var ErrInvalidWidget = errors.New("widget: invalid widget")

// Surface is where widgets are drawn, typically a [gfx.Display].
type Surface interface {
	draw.Image

	// FillArea sets all pixels in r to c.
	FillArea(r image.Rectangle, c color.Color)
}

// Kind of widget.
type Kind uint8

// Widget kinds.
const (
	KindLabel Kind = iota + 1
	KindSpinbox
	KindTextEdit
)

func (k Kind) String() string {
	switch k {
	case KindLabel:
		return "Label"
	case KindSpinbox:
		return "Spinbox"
	case KindTextEdit:
		return "TextEdit"
	default:
		return "invalid"
	}
}

// Widget is one of *Label, *Spinbox or *TextEdit.
type Widget interface {
	Kind() Kind

	// Bounds is the widget area on the surface.
	Bounds() image.Rectangle

	// Text is the text shown by the widget.
	Text() string

	// Tag is a user assigned identifier, passed along with events.
	Tag() int

	common() *base
}

// AsLabel returns w as a label.
func AsLabel(w Widget) (*Label, error) {
	if l, ok := w.(*Label); ok && l != nil {
		return l, nil
	}
	return nil, ErrInvalidWidget
}

// AsSpinbox returns w as a spinbox.
func AsSpinbox(w Widget) (*Spinbox, error) {
	if s, ok := w.(*Spinbox); ok && s != nil {
		return s, nil
	}
	return nil, ErrInvalidWidget
}

// AsTextEdit returns w as a text edit field.
func AsTextEdit(w Widget) (*TextEdit, error) {
	if t, ok := w.(*TextEdit); ok && t != nil {
		return t, nil
	}
	return nil, ErrInvalidWidget
}

// ColorSet are the colors of a widget in one state.
type ColorSet struct {
	Text color.Color
	Edge color.Color
	Fill color.Color
}

// Style are the colors used to draw widgets.
type Style struct {
	Background color.Color
	Enabled    ColorSet
	Disabled   ColorSet
}

// DefaultStyle is white on black. Disabled widgets are drawn in mid gray,
// which is dimmed on gray and RGB panels and still lit on monochrome panels.
var DefaultStyle = Style{
	Background: color.Black,
	Enabled: ColorSet{
		Text: color.White,
		Edge: color.White,
		Fill: color.Black,
	},
	Disabled: ColorSet{
		Text: color.Gray{Y: 0x80},
		Edge: color.Gray{Y: 0x80},
		Fill: color.Black,
	},
}

func (s *Style) colors(enabled bool) *ColorSet {
	if enabled {
		return &s.Enabled
	}
	return &s.Disabled
}

// Event is sent to listeners when a widget value changes.
type Event struct {
	Kind   Kind
	Widget Widget
	Tag    int
	Value  int
}

// Listener receives widget events.
type Listener func(Event)

// base holds the state shared by all widgets.
type base struct {
	self     Widget
	m        *Manager
	rect     image.Rectangle
	face     font.Face
	tag      int
	hidden   bool
	disabled bool
}

func (b *base) common() *base { return b }

func (b *base) Bounds() image.Rectangle { return b.rect }

func (b *base) Tag() int { return b.tag }

// SetTag sets the identifier passed along with events.
func (b *base) SetTag(tag int) {
	b.tag = tag
}

// SetFont changes the font face, nil selects draw.DefaultFace.
func (b *base) SetFont(face font.Face) {
	b.face = face
	b.redraw(false)
}

// Enabled reports if the widget takes input.
func (b *base) Enabled() bool { return !b.disabled }

// SetEnabled enables or disables the widget.
func (b *base) SetEnabled(enabled bool) {
	if b.disabled == !enabled {
		return
	}
	b.disabled = !enabled
	b.redraw(false)
}

// Visible reports if the widget is drawn.
func (b *base) Visible() bool { return !b.hidden }

// SetVisible shows or hides the widget. Hidden widgets are cleared to the
// background color.
func (b *base) SetVisible(visible bool) {
	if b.hidden == !visible {
		return
	}
	b.hidden = !visible
	b.redraw(false)
}

func (b *base) fontFace() font.Face {
	if b.face == nil {
		return draw.DefaultFace
	}
	return b.face
}

func (b *base) redraw(partial bool) {
	if b.m != nil {
		b.m.redraw(b.self, partial)
	}
}
