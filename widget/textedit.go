package widget

import (
	"image"

	"github.com/BeatGlow/gfx/draw"
)

const (
	textEditPadding     = 4
	textEditCursorExtra = 1
)

// TextEdit is a single line text input field.
type TextEdit struct {
	base
	buf     []byte
	cursor  int
	maxSize int
}

// NewTextEdit returns an input field holding text, with the cursor at the
// end. A maxSize of 0 does not limit the length.
func NewTextEdit(r image.Rectangle, text string, maxSize int) *TextEdit {
	t := &TextEdit{
		buf:     []byte(text),
		cursor:  len(text),
		maxSize: maxSize,
	}
	t.base = base{self: t, rect: r}
	return t
}

func (t *TextEdit) Kind() Kind { return KindTextEdit }

func (t *TextEdit) Text() string { return string(t.buf) }

// SetText replaces the text and moves the cursor to the end.
func (t *TextEdit) SetText(text string) {
	t.buf = append(t.buf[:0], text...)
	t.cursor = len(t.buf)
	t.redraw(false)
}

// Cursor is the byte offset of the cursor in the text.
func (t *TextEdit) Cursor() int { return t.cursor }

// MaxSize is the length limit, 0 if unlimited.
func (t *TextEdit) MaxSize() int { return t.maxSize }

// insertAt makes room for b at pos by shifting the tail right.
func (t *TextEdit) insertAt(pos int, b []byte) {
	n := len(t.buf)
	t.buf = append(t.buf, b...)
	copy(t.buf[pos+len(b):], t.buf[pos:n])
	copy(t.buf[pos:], b)
}

// removeAt drops the byte at pos by shifting the tail left.
func (t *TextEdit) removeAt(pos int) {
	copy(t.buf[pos:], t.buf[pos+1:])
	t.buf = t.buf[:len(t.buf)-1]
}

type keyResult uint8

const (
	keyIgnored keyResult = iota
	keyRedraw
	keyNextField
)

func (t *TextEdit) key(k Key) keyResult {
	if k.Up {
		return keyIgnored
	}

	if k.Special != KeyNone {
		switch k.Special {
		case KeyLeft:
			if t.cursor == 0 {
				return keyIgnored
			}
			t.cursor--
		case KeyRight:
			if t.cursor == len(t.buf) {
				return keyIgnored
			}
			t.cursor++
		case KeyHome:
			if t.cursor == 0 {
				return keyIgnored
			}
			t.cursor = 0
		case KeyEnd:
			if t.cursor == len(t.buf) {
				return keyIgnored
			}
			t.cursor = len(t.buf)
		default:
			return keyIgnored
		}
		return keyRedraw
	}

	if k.Text == "" {
		return keyIgnored
	}
	switch k.Text[:1] {
	case KeyBackspace:
		if t.cursor == 0 {
			return keyIgnored
		}
		t.cursor--
		t.removeAt(t.cursor)
	case KeyTab, KeyLF, KeyCR:
		return keyNextField
	case KeyDel:
		if t.cursor == len(t.buf) {
			return keyIgnored
		}
		t.removeAt(t.cursor)
	default:
		if k.Text[0] < ' ' {
			return keyIgnored
		}
		if t.maxSize > 0 && len(t.buf)+len(k.Text) > t.maxSize {
			return keyIgnored
		}
		t.insertAt(t.cursor, []byte(k.Text))
		t.cursor += len(k.Text)
	}
	return keyRedraw
}

// mouseDown moves the cursor to the character at p, relative to the widget.
func (t *TextEdit) mouseDown(p image.Point) {
	var (
		face = t.fontFace()
		text = string(t.buf)
		x    = p.X - textEditPadding
	)
	if x > draw.StringWidth(face, text) {
		t.cursor = len(t.buf)
		return
	}
	i := 1
	for i <= len(text) && draw.StringWidthCount(face, text, i) < x {
		i++
	}
	t.cursor = i - 1
}

// scroll returns the first visible byte and the cursor offset in pixels from
// there, so the cursor stays inside the field.
func (t *TextEdit) scroll() (start, offset int) {
	var (
		face  = t.fontFace()
		text  = string(t.buf)
		avail = t.rect.Dx() - textEditPadding
	)
	for n := t.cursor; n > 0; start, n = start+1, n-1 {
		if offset = draw.StringWidthCount(face, text[start:], n); offset < avail {
			return start, offset
		}
	}
	return start, 0
}

func (t *TextEdit) draw(dst draw.Image, style *Style, focused bool) {
	var (
		r           = t.rect
		face        = t.fontFace()
		cs          = style.colors(t.Enabled())
		start, tpos = t.scroll()
		x, y        = r.Min.X, r.Min.Y
		h           = r.Dy()
	)

	draw.Box(dst, image.Rect(x, y, x+textEditPadding, r.Max.Y), cs.Fill)
	draw.StringBox(dst, image.Rect(x+textEditPadding, y, r.Max.X, r.Max.Y), string(t.buf[start:]), face, cs.Text, cs.Fill, draw.JustifyLeft)

	if focused {
		var (
			cx = x + textEditPadding + tpos
			cy = (h-draw.FontHeight(face))/2 - textEditCursorExtra
		)
		if cy < 0 {
			cy = 0
		}
		draw.Line(dst, image.Pt(cx, y+cy), image.Pt(cx, y+h-1-cy), cs.Edge)
	}

	draw.Rectangle(dst, r, cs.Edge)
	if focused {
		draw.Rectangle(dst, r.Inset(1), cs.Edge)
	}
}
