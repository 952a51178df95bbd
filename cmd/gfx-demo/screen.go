package main

import (
	"image"
	"time"

	"golang.org/x/image/font"

	"github.com/BeatGlow/gfx"
	"github.com/BeatGlow/gfx/draw"
	"github.com/BeatGlow/gfx/internal/log"
	"github.com/BeatGlow/gfx/widget"
)

// screen shows the time and a contrast setting, with a name field on panels
// tall enough for a third row.
type screen struct {
	d        *gfx.Display
	m        *widget.Manager
	clock    *widget.Label
	contrast *widget.Spinbox
	name     *widget.TextEdit
}

func newScreen(d *gfx.Display, face font.Face) (*screen, error) {
	var (
		bounds = d.Bounds()
		row    = draw.FontHeight(face) + 3
		tab    = draw.StringWidth(face, "Time ")
		s      = &screen{
			d: d,
			m: widget.NewManager(d),
		}
	)
	rect := func(n int) image.Rectangle {
		return image.Rect(bounds.Min.X, bounds.Min.Y+n*row, bounds.Max.X, bounds.Min.Y+(n+1)*row)
	}

	s.clock = widget.NewLabel(rect(0), "--:--")
	s.clock.SetFont(face)
	s.clock.SetAttribute(tab, "Time")
	s.clock.SetBorder(true)
	s.clock.SetBorderRadius(3)
	widgets := []widget.Widget{s.clock}

	if rect(1).Max.Y <= bounds.Max.Y {
		s.contrast = widget.NewNumericSpinbox(rect(1), d.State().Contrast, 0, 100, 10, ".", 0, "%")
		s.contrast.SetFont(face)
		widgets = append(widgets, s.contrast)
	}
	if rect(2).Max.Y <= bounds.Max.Y {
		s.name = widget.NewTextEdit(rect(2), "gfx", 16)
		s.name.SetFont(face)
		widgets = append(widgets, s.name)
	}

	s.m.OnEvent(s.onEvent)
	for _, w := range widgets {
		if err := s.m.Add(w); err != nil {
			return nil, err
		}
	}
	if s.name != nil {
		if err := s.m.SetFocus(s.name); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *screen) onEvent(e widget.Event) {
	if sb, err := widget.AsSpinbox(e.Widget); err != nil || sb != s.contrast {
		return
	}
	if err := s.d.SetContrast(e.Value); err != nil {
		log.Error("failed to set contrast", err, "contrast", e.Value)
	}
}

// refresh updates the clock and pushes all changes to the panel.
func (s *screen) refresh(now time.Time) {
	s.clock.SetText(now.Format("15:04"))
	if err := s.m.Update(); err != nil {
		log.Error("failed to update display", err)
		return
	}
	log.Debug("screen refreshed", "time", now.Format(time.RFC3339))
}
