package gfx

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"periph.io/x/conn/v3/display"

	"github.com/BeatGlow/gfx/draw"
)

// Display is a graphics surface on top of a Driver.
//
// Operations the driver does not declare are emulated with the ones it does.
// All methods are safe for concurrent use; every call is serialized on the
// display. Display implements draw.Image, so anything from the image packages
// can draw on it, and periph's display.Drawer.
type Display struct {
	mu   sync.Mutex
	drv  Driver
	caps Capability

	// err is the first error raised by a call without an error return.
	err error

	// streaming is set while the full screen stream window used by the
	// positioned pixel path is open.
	streaming bool
}

// New wraps drv after checking it implements every declared capability.
func New(drv Driver) (*Display, error) {
	if err := checkCapabilities(drv); err != nil {
		return nil, err
	}
	return &Display{
		drv:  drv,
		caps: drv.Capabilities(),
	}, nil
}

// Driver returns the wrapped driver.
func (d *Display) Driver() Driver {
	return d.drv
}

// Capabilities of the wrapped driver.
func (d *Display) Capabilities() Capability {
	return d.caps
}

func (d *Display) String() string {
	return d.drv.String()
}

func (d *Display) ColorModel() color.Model {
	return d.drv.ColorModel()
}

func (d *Display) Bounds() image.Rectangle {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.drv.Bounds()
}

// Set the pixel color at (x, y).
func (d *Display) Set(x, y int, c color.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.latch(d.set(x, y, c))
}

// At returns the color of the pixel at (x, y).
func (d *Display) At(x, y int) color.Color {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, err := d.at(x, y)
	d.latch(err)
	return c
}

// FillArea sets all pixels in r to c.
func (d *Display) FillArea(r image.Rectangle, c color.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.latch(d.fillArea(r, c))
}

// Fill the display with a single color.
func (d *Display) Fill(c color.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.latch(d.fillArea(d.drv.Bounds(), c))
}

// Clear the display.
func (d *Display) Clear() {
	d.Fill(color.Black)
}

// Draw implements display.Drawer. It copies src into r and flushes.
func (d *Display) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if r = r.Intersect(d.drv.Bounds()); r.Empty() {
		return ErrBounds
	}
	if u, ok := src.(*image.Uniform); ok {
		d.latch(d.fillArea(r, u.C))
	} else if d.caps.Has(CapStreamWrite) && !d.caps.Has(CapDrawPixel) {
		d.latch(d.stream(r, func(x, y int) color.Color {
			return src.At(x-r.Min.X+sp.X, y-r.Min.Y+sp.Y)
		}))
	} else {
		draw.Draw(unlocked{d}, r, src, sp, draw.Src)
	}
	return d.flush()
}

// Halt implements conn.Resource, it turns the display off.
func (d *Display) Halt() error {
	return d.SetPower(PowerOff)
}

// Flush pushes pending changes to the panel. It returns the first error
// latched by Set, At, FillArea or Fill since the last call.
func (d *Display) Flush() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.flush()
}

// Err returns and clears the latched error.
func (d *Display) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	err := d.err
	d.err = nil
	return err
}

// Control sends a control channel operation to the driver. It is a no-op on
// drivers without a control channel.
func (d *Display) Control(op ControlOp, value int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.caps.Has(CapControl) {
		return nil
	}
	if err := d.endStream(); err != nil {
		return err
	}
	return d.drv.(Controller).Control(op, value)
}

func (d *Display) SetPower(mode PowerMode) error {
	return d.Control(ControlPower, int(mode))
}

func (d *Display) SetOrientation(o Orientation) error {
	return d.Control(ControlOrientation, int(o))
}

func (d *Display) SetContrast(level int) error {
	return d.Control(ControlContrast, level)
}

func (d *Display) SetBacklight(level int) error {
	return d.Control(ControlBacklight, level)
}

func (d *Display) SetInverse(inverse bool) error {
	var value int
	if inverse {
		value = 1
	}
	return d.Control(ControlInverse, value)
}

// State returns the control state; drivers without a control channel report
// their size only.
func (d *Display) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.caps.Has(CapControl) {
		return d.drv.(Controller).State()
	}
	size := d.drv.Bounds().Size()
	return State{Width: size.X, Height: size.Y, Power: PowerOn}
}

// Close the display and its driver.
func (d *Display) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.endStream(); err != nil {
		_ = d.drv.Close()
		return err
	}
	return d.drv.Close()
}

func (d *Display) latch(err error) {
	if err != nil && d.err == nil {
		d.err = err
	}
}

func (d *Display) flush() error {
	if err := d.endStream(); err != nil {
		return err
	}
	if err := d.err; err != nil {
		d.err = nil
		return err
	}
	if d.caps.Has(CapFlush) {
		return d.drv.(Flusher).Flush()
	}
	return nil
}

func (d *Display) set(x, y int, c color.Color) error {
	switch {
	case d.caps.Has(CapDrawPixel):
		return d.drv.(PixelDrawer).DrawPixel(x, y, c)
	case !(image.Point{X: x, Y: y}).In(d.drv.Bounds()):
		return nil
	case d.caps.Has(CapStreamWrite | CapStreamPos):
		// Keep one full screen window open and only move the cursor.
		if !d.streaming {
			if err := d.drv.(StreamWriter).StreamStart(d.drv.Bounds()); err != nil {
				return err
			}
			d.streaming = true
		}
		if err := d.drv.(StreamPositioner).StreamPos(x, y); err != nil {
			return err
		}
		return d.drv.(StreamWriter).StreamColor(c)
	case d.caps.Has(CapStreamWrite):
		return d.stream(image.Rect(x, y, x+1, y+1), func(int, int) color.Color { return c })
	default:
		return nil
	}
}

func (d *Display) at(x, y int) (color.Color, error) {
	if !(image.Point{X: x, Y: y}).In(d.drv.Bounds()) {
		return color.Transparent, nil
	}
	switch {
	case d.caps.Has(CapPixelRead):
		return d.drv.(PixelReader).PixelColor(x, y), nil
	case d.caps.Has(CapStreamRead):
		if err := d.endStream(); err != nil {
			return color.Transparent, err
		}
		r := d.drv.(StreamReader)
		if err := r.ReadStart(image.Rect(x, y, x+1, y+1)); err != nil {
			return color.Transparent, err
		}
		c, err := r.ReadColor()
		if stopErr := r.ReadStop(); err == nil {
			err = stopErr
		}
		if err != nil {
			return color.Transparent, err
		}
		return c, nil
	default:
		return color.Transparent, nil
	}
}

func (d *Display) fillArea(r image.Rectangle, c color.Color) error {
	if r = r.Intersect(d.drv.Bounds()); r.Empty() {
		return nil
	}
	switch {
	case d.caps.Has(CapFill):
		return d.drv.(AreaFiller).FillArea(r, c)
	case d.caps.Has(CapStreamWrite):
		return d.stream(r, func(int, int) color.Color { return c })
	default:
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				if err := d.set(x, y, c); err != nil {
					return err
				}
			}
		}
		return nil
	}
}

// stream writes the colors of r in raster order through a stream window.
func (d *Display) stream(r image.Rectangle, at func(x, y int) color.Color) (err error) {
	if err = d.endStream(); err != nil {
		return
	}
	w := d.drv.(StreamWriter)
	if err = w.StreamStart(r); err != nil {
		return
	}
	defer func() {
		if stopErr := w.StreamStop(); err == nil {
			err = stopErr
		}
	}()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if err = w.StreamColor(at(x, y)); err != nil {
				return
			}
		}
	}
	return
}

// endStream closes the positioned pixel window.
func (d *Display) endStream() error {
	if !d.streaming {
		return nil
	}
	d.streaming = false
	return d.drv.(StreamWriter).StreamStop()
}

// unlocked is the draw.Image view used while the display lock is held.
type unlocked struct {
	d *Display
}

func (u unlocked) ColorModel() color.Model { return u.d.drv.ColorModel() }
func (u unlocked) Bounds() image.Rectangle { return u.d.drv.Bounds() }

func (u unlocked) At(x, y int) color.Color {
	c, err := u.d.at(x, y)
	u.d.latch(err)
	return c
}

func (u unlocked) Set(x, y int, c color.Color) {
	u.d.latch(u.d.set(x, y, c))
}

// Interface checks.
var (
	_ draw.Image     = (*Display)(nil)
	_ display.Drawer = (*Display)(nil)
	_ fmt.Stringer   = (*Display)(nil)
)
