package gfx

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/gfx/internal/log"
	"github.com/BeatGlow/gfx/pixel"
)

// sleep is replaced in tests.
var sleep = time.Sleep

// pageDisplay is the common core of monochrome controllers with page
// organized display memory. The whole surface is kept in RAM because the
// controllers can't update on a pixel boundary.
type pageDisplay struct {
	c      Bus
	name   string
	buf    *pixel.PageBuffer
	width  int // physical
	height int // physical
	state  State
	dirty  bool

	// startFlush sends the addressing preamble before the page data.
	startFlush func() error

	// startPage addresses a page before its data burst.
	startPage func(page int) error
}

func newPageDisplay(c Bus, name string, config *Config, w, h int) *pageDisplay {
	d := &pageDisplay{
		c:      c,
		name:   name,
		width:  w,
		height: h,
	}
	if config.PagePrefix != nil {
		d.buf = pixel.NewPrefixedPageBuffer(w, h, *config.PagePrefix)
	} else {
		d.buf = pixel.NewPageBuffer(w, h)
	}
	d.state = State{
		Width:       w,
		Height:      h,
		Orientation: Orientation0,
		Power:       PowerOff,
		Contrast:    100,
		Backlight:   100,
	}
	return d
}

// validatePageSize checks the geometry before anything touches the bus.
func validatePageSize(name string, w, h, maxWidth, maxHeight int) error {
	if w <= 0 || h <= 0 || w > maxWidth || h > maxHeight {
		return fmt.Errorf("gfx: %s unsupported size %dx%d: %w", name, w, h, ErrSize)
	}
	return nil
}

// init runs the board hooks, the reset pulse and the controller init
// sequence, then applies the configured orientation.
func (d *pageDisplay) init(config *Config, commands [][]byte) (err error) {
	if config.InitBoard != nil {
		if err = config.InitBoard(d.c); err != nil {
			return fmt.Errorf("gfx: %s board init: %w", d.name, err)
		}
	} else {
		log.Debug("gfx: no board init hook", "driver", d.name)
	}

	if err = d.reset(); err != nil {
		return
	}
	if err = d.commands(commands...); err != nil {
		return
	}

	if config.PostInitBoard != nil {
		if err = config.PostInitBoard(d.c); err != nil {
			return fmt.Errorf("gfx: %s board post init: %w", d.name, err)
		}
	}

	d.state.Power = PowerOn
	d.setOrientation(config.Orientation)
	return nil
}

// reset pulses the (active low) reset pin.
func (d *pageDisplay) reset() (err error) {
	if err = d.c.Reset(gpio.Low); err != nil {
		return
	}
	sleep(20 * time.Millisecond)
	if err = d.c.Reset(gpio.High); err != nil {
		return
	}
	sleep(200 * time.Millisecond)
	return
}

func (d *pageDisplay) command(cmnd byte, args ...byte) error {
	d.c.Acquire()
	defer d.c.Release()
	return d.c.Command(cmnd, args...)
}

func (d *pageDisplay) commands(commands ...[]byte) (err error) {
	d.c.Acquire()
	defer d.c.Release()
	for _, command := range commands {
		if err = d.c.Command(command[0], command[1:]...); err != nil {
			return
		}
	}
	return
}

func (d *pageDisplay) String() string {
	return fmt.Sprintf("%s OLED %dx%d", d.name, d.width, d.height)
}

func (d *pageDisplay) Capabilities() Capability {
	return CapFlush | CapFill | CapDrawPixel | CapPixelRead | CapControl
}

func (d *pageDisplay) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.state.Width, d.state.Height)
}

func (d *pageDisplay) ColorModel() color.Model {
	return pixel.MonoModel
}

// Close turns the display off and closes the bus.
func (d *pageDisplay) Close() error {
	if d.state.Power != PowerOff {
		if err := d.command(setDisplayOff); err != nil {
			_ = d.c.Close()
			return err
		}
		d.state.Power = PowerOff
	}
	return d.c.Close()
}

func (d *pageDisplay) DrawPixel(x, y int, c color.Color) error {
	if !(image.Point{X: x, Y: y}).In(d.Bounds()) {
		return nil
	}
	x, y = d.state.Orientation.Map(x, y, d.width, d.height)
	d.buf.SetBit(x, y, pixel.IsOn(c))
	d.dirty = true
	return nil
}

func (d *pageDisplay) PixelColor(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(d.Bounds()) {
		return color.Transparent
	}
	x, y = d.state.Orientation.Map(x, y, d.width, d.height)
	return pixel.Mono{On: d.buf.Bit(x, y)}
}

func (d *pageDisplay) FillArea(r image.Rectangle, c color.Color) error {
	r = r.Intersect(d.Bounds())
	if r.Empty() {
		return nil
	}
	if d.buf.FillSpan(d.state.Orientation.MapRect(r, d.width, d.height), pixel.IsOn(c)) {
		d.dirty = true
	}
	return nil
}

// Flush sends the framebuffer to the controller if anything changed since
// the last successful flush.
func (d *pageDisplay) Flush() (err error) {
	if !d.dirty {
		return nil
	}

	d.c.Acquire()
	defer d.c.Release()

	if d.startFlush != nil {
		if err = d.startFlush(); err != nil {
			return
		}
	}
	pages := d.buf.Pages()
	for page := 0; page < pages; page++ {
		if d.startPage != nil {
			if err = d.startPage(page); err != nil {
				return
			}
		}
		if err = d.c.Data(d.buf.Page(page)...); err != nil {
			return
		}
	}
	d.dirty = false
	log.Debug("gfx: flushed", "driver", d.name, "pages", pages, "stride", d.buf.Stride)
	return nil
}

func (d *pageDisplay) State() State {
	return d.state
}

func (d *pageDisplay) Control(op ControlOp, value int) error {
	switch op {
	case ControlPower:
		return d.setPower(PowerMode(value))
	case ControlOrientation:
		d.setOrientation(Orientation(value))
		return nil
	case ControlContrast:
		return d.setContrast(value)
	case ControlInverse:
		return d.setInverse(value != 0)
	case ControlBacklight:
		d.state.Backlight = clampPercent(value)
		return nil
	default:
		return nil
	}
}

func (d *pageDisplay) setPower(mode PowerMode) error {
	if mode == d.state.Power {
		return nil
	}
	var cmnd byte
	switch mode {
	case PowerOff, PowerSleep, PowerDeepSleep:
		cmnd = setDisplayOff
	case PowerOn:
		cmnd = setDisplayOn
	default:
		return nil
	}
	if err := d.command(cmnd); err != nil {
		return err
	}
	log.Debug("gfx: power", "driver", d.name, "from", d.state.Power, "to", mode)
	d.state.Power = mode
	return nil
}

// setOrientation is handled by the drawing routines, the display memory and
// the controller are left alone.
func (d *pageDisplay) setOrientation(o Orientation) {
	if o == d.state.Orientation || !o.Valid() {
		return
	}
	d.state.Width, d.state.Height = o.Size(d.width, d.height)
	d.state.Orientation = o
}

func (d *pageDisplay) setContrast(level int) error {
	level = clampPercent(level)
	if err := d.command(setContrast, contrastNative(level)); err != nil {
		return err
	}
	d.state.Contrast = level
	return nil
}

func (d *pageDisplay) setInverse(inverse bool) error {
	cmnd := byte(setNormalDisplay)
	if inverse {
		cmnd = setInvertDisplay
	}
	if err := d.command(cmnd); err != nil {
		return err
	}
	d.state.Inverse = inverse
	return nil
}
