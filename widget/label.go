package widget

import (
	"image"

	"github.com/BeatGlow/gfx/draw"
)

// Label is a line of static text.
type Label struct {
	base
	text    string
	border  bool
	radius  int
	justify draw.Justify
	tab     int
	attr    string
}

// NewLabel returns a left justified label covering r.
func NewLabel(r image.Rectangle, text string) *Label {
	l := &Label{text: text}
	l.base = base{self: l, rect: r}
	return l
}

func (l *Label) Kind() Kind { return KindLabel }

func (l *Label) Text() string { return l.text }

// SetText changes the label text.
func (l *Label) SetText(text string) {
	if l.text == text {
		return
	}
	l.text = text
	l.redraw(false)
}

// Border reports if a border is drawn around the label.
func (l *Label) Border() bool { return l.border }

// SetBorder toggles the border.
func (l *Label) SetBorder(border bool) {
	l.border = border
	l.redraw(false)
}

// BorderRadius returns the corner radius of the border.
func (l *Label) BorderRadius() int { return l.radius }

// SetBorderRadius rounds the border corners by radius pixels.
func (l *Label) SetBorderRadius(radius int) {
	l.radius = max(radius, 0)
	l.redraw(false)
}

// Justify returns the text alignment.
func (l *Label) Justify() draw.Justify { return l.justify }

// SetJustify changes the text alignment.
func (l *Label) SetJustify(justify draw.Justify) {
	l.justify = justify
	l.redraw(false)
}

// SetAttribute shows attr in a column of tab pixels before the text, for
// "name: value" style labels. An empty attr removes the column.
func (l *Label) SetAttribute(tab int, attr string) {
	l.tab, l.attr = tab, attr
	l.redraw(false)
}

// Attribute returns the attribute column width and text.
func (l *Label) Attribute() (tab int, attr string) {
	return l.tab, l.attr
}

func (l *Label) draw(dst draw.Image, style *Style) {
	var (
		r    = l.rect
		face = l.fontFace()
		cs   = style.colors(l.Enabled())
	)
	if l.attr != "" {
		draw.StringBox(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+l.tab, r.Max.Y), l.attr, face, cs.Text, style.Background, l.justify)
		draw.StringBox(dst, image.Rect(r.Min.X+l.tab, r.Min.Y, r.Max.X, r.Max.Y), l.text, face, cs.Text, style.Background, l.justify)
	} else {
		draw.StringBox(dst, r, l.text, face, cs.Text, style.Background, l.justify)
	}

	if l.border {
		draw.RoundedRectangle(dst, r, l.radius, cs.Edge)
	}
}
