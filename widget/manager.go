package widget

import (
	"fmt"
	"image"
	"sync"

	"github.com/BeatGlow/gfx/draw"
	"github.com/BeatGlow/gfx/internal/log"
)

// Manager owns a surface and the widgets drawn on it.
type Manager struct {
	mu        sync.Mutex
	dst       Surface
	style     Style
	widgets   []Widget
	focus     Widget
	pressed   Widget
	listeners []Listener
	pending   []Event
}

// NewManager returns a manager drawing on dst with the default style.
func NewManager(dst Surface) *Manager {
	return &Manager{
		dst:   dst,
		style: DefaultStyle,
	}
}

// SetStyle changes the colors and redraws all widgets.
func (m *Manager) SetStyle(style Style) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.style = style
	return m.redrawAll()
}

// Add places w on the surface and draws it.
func (m *Manager) Add(w Widget) error {
	if err := validate(w); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	b := w.common()
	if b.m != nil {
		return fmt.Errorf("widget: %s already added", w.Kind())
	}
	b.m = m
	m.widgets = append(m.widgets, w)
	return m.draw(w, false)
}

// Widgets returns the widgets in the order they were added.
func (m *Manager) Widgets() []Widget {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Widget(nil), m.widgets...)
}

// Redraw draws w again, or all widgets if w is nil.
func (m *Manager) Redraw(w Widget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w == nil {
		return m.redrawAll()
	}
	if err := m.owned(w); err != nil {
		return err
	}
	return m.draw(w, false)
}

// Focus returns the widget receiving keyboard input, or nil.
func (m *Manager) Focus() Widget {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.focus
}

// SetFocus gives w the keyboard focus, nil removes it.
func (m *Manager) SetFocus(w Widget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w == nil {
		return m.setFocus(nil)
	}
	if err := m.owned(w); err != nil {
		return err
	}
	if !focusable(w) {
		return fmt.Errorf("widget: %s cannot take focus: %w", w.Kind(), ErrInvalidWidget)
	}
	return m.setFocus(w)
}

// MoveFocus gives the focus to the next widget that accepts it, wrapping
// around at the end.
func (m *Manager) MoveFocus() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.moveFocus()
}

// OnEvent registers a listener for widget events.
func (m *Manager) OnEvent(fn Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// MouseDown delivers a button press at p, in surface coordinates, to the
// topmost widget under it.
func (m *Manager) MouseDown(p image.Point) error {
	m.mu.Lock()
	w := m.widgetAt(p)
	m.pressed = w
	var err error
	if w != nil {
		if focusable(w) && m.focus != w {
			err = m.setFocus(w)
		}
		if err == nil {
			err = m.dispatchMouse(w, p, true)
		}
	}
	m.mu.Unlock()
	m.emit()
	return err
}

// MouseUp delivers a button release at p to the widget that received the
// press.
func (m *Manager) MouseUp(p image.Point) error {
	m.mu.Lock()
	w := m.pressed
	m.pressed = nil
	if w == nil {
		w = m.widgetAt(p)
	}
	var err error
	if w != nil {
		err = m.dispatchMouse(w, p, false)
	}
	m.mu.Unlock()
	m.emit()
	return err
}

// Key delivers a key event to the focused widget.
func (m *Manager) Key(k Key) error {
	m.mu.Lock()
	var err error
	if w := m.focus; w != nil && w.common().Enabled() {
		err = m.dispatchKey(w, k)
	}
	m.mu.Unlock()
	m.emit()
	return err
}

// Update flushes the surface if it supports flushing.
func (m *Manager) Update() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.dst.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

func validate(w Widget) error {
	switch w := w.(type) {
	case *Label:
		if w == nil {
			return ErrInvalidWidget
		}
	case *Spinbox:
		if w == nil {
			return ErrInvalidWidget
		}
	case *TextEdit:
		if w == nil {
			return ErrInvalidWidget
		}
	default:
		return ErrInvalidWidget
	}
	return nil
}

func focusable(w Widget) bool {
	switch w.(type) {
	case *TextEdit:
		return w.common().Visible() && w.common().Enabled()
	default:
		return false
	}
}

func (m *Manager) owned(w Widget) error {
	if err := validate(w); err != nil {
		return err
	}
	if w.common().m != m {
		return fmt.Errorf("widget: %s not managed here: %w", w.Kind(), ErrInvalidWidget)
	}
	return nil
}

func (m *Manager) widgetAt(p image.Point) Widget {
	for i := len(m.widgets) - 1; i >= 0; i-- {
		w := m.widgets[i]
		if b := w.common(); b.Visible() && b.Enabled() && p.In(b.rect) {
			return w
		}
	}
	return nil
}

func (m *Manager) setFocus(w Widget) error {
	old := m.focus
	if old == w {
		return nil
	}
	m.focus = w
	if old != nil {
		if err := m.draw(old, false); err != nil {
			return err
		}
	}
	if w != nil {
		return m.draw(w, false)
	}
	return nil
}

func (m *Manager) moveFocus() error {
	start := -1
	for i, w := range m.widgets {
		if w == m.focus {
			start = i
			break
		}
	}
	for n := 1; n <= len(m.widgets); n++ {
		i := (start + n) % len(m.widgets)
		if w := m.widgets[i]; focusable(w) {
			return m.setFocus(w)
		}
	}
	return nil
}

func (m *Manager) dispatchMouse(w Widget, p image.Point, down bool) error {
	local := p.Sub(w.Bounds().Min)
	switch w := w.(type) {
	case *Label:
		// Labels take no input.
	case *Spinbox:
		if down {
			return nil
		}
		hit, changed := w.mouseUp(local)
		if !hit {
			return nil
		}
		if changed {
			m.queue(w, w.value)
		}
		return m.draw(w, true)
	case *TextEdit:
		if down {
			w.mouseDown(local)
			return m.draw(w, false)
		}
	default:
		return ErrInvalidWidget
	}
	return nil
}

func (m *Manager) dispatchKey(w Widget, k Key) error {
	switch w := w.(type) {
	case *Label, *Spinbox:
		// No keyboard handling.
	case *TextEdit:
		switch w.key(k) {
		case keyRedraw:
			return m.draw(w, false)
		case keyNextField:
			return m.moveFocus()
		}
	default:
		return ErrInvalidWidget
	}
	return nil
}

func (m *Manager) redraw(w Widget, partial bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.draw(w, partial); err != nil {
		log.Error("widget: redraw failed", err, "kind", w.Kind().String())
	}
}

func (m *Manager) redrawAll() error {
	for _, w := range m.widgets {
		if err := m.draw(w, false); err != nil {
			return err
		}
	}
	return nil
}

// draw renders w clipped to its bounds. A partial draw only updates the
// value field of widgets that have one.
func (m *Manager) draw(w Widget, partial bool) error {
	b := w.common()
	if b.hidden {
		if !partial {
			draw.Box(m.dst, b.rect, m.style.Background)
		}
		return nil
	}
	dst := draw.Clip(m.dst, b.rect)
	switch w := w.(type) {
	case *Label:
		w.draw(dst, &m.style)
	case *Spinbox:
		w.draw(dst, &m.style, partial)
	case *TextEdit:
		w.draw(dst, &m.style, m.focus == Widget(w))
	default:
		return ErrInvalidWidget
	}
	return nil
}

func (m *Manager) queue(w Widget, value int) {
	m.pending = append(m.pending, Event{
		Kind:   w.Kind(),
		Widget: w,
		Tag:    w.Tag(),
		Value:  value,
	})
}

// emit sends the queued events outside the lock so listeners may change
// widgets.
func (m *Manager) emit() {
	m.mu.Lock()
	events := m.pending
	m.pending = nil
	listeners := append([]Listener(nil), m.listeners...)
	m.mu.Unlock()

	for _, e := range events {
		for _, fn := range listeners {
			fn(e)
		}
	}
}
