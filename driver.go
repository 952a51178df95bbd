package gfx

import (
	"fmt"
	"image"
	"image/color"
)

// Driver is a display controller driver.
//
// Besides the methods below a driver implements the optional interface of
// every capability it declares. Bounds are logical and follow the current
// orientation.
type Driver interface {
	String() string

	// Close the driver and the underlying bus.
	Close() error

	// Capabilities is the set of natively supported operations.
	Capabilities() Capability

	// Bounds is the logical display bounding box.
	Bounds() image.Rectangle

	// ColorModel of the display memory.
	ColorModel() color.Model
}

// StreamWriter writes colors into a window, left to right and top to bottom.
type StreamWriter interface {
	StreamStart(r image.Rectangle) error
	StreamColor(c color.Color) error
	StreamStop() error
}

// StreamReader reads colors from a window, left to right and top to bottom.
type StreamReader interface {
	ReadStart(r image.Rectangle) error
	ReadColor() (color.Color, error)
	ReadStop() error
}

// StreamPositioner moves the stream cursor inside an open window.
type StreamPositioner interface {
	StreamPos(x, y int) error
}

// AreaFiller fills a rectangle with a single color.
type AreaFiller interface {
	FillArea(r image.Rectangle, c color.Color) error
}

// PixelDrawer sets a single pixel.
type PixelDrawer interface {
	DrawPixel(x, y int, c color.Color) error
}

// PixelReader reads back a single pixel.
type PixelReader interface {
	PixelColor(x, y int) color.Color
}

// Controller exposes the control channel.
type Controller interface {
	Control(op ControlOp, value int) error
	State() State
}

// Flusher pushes buffered display memory to the panel.
type Flusher interface {
	Flush() error
}

// checkCapabilities verifies that drv implements every declared capability.
func checkCapabilities(drv Driver) error {
	caps := drv.Capabilities()
	for _, check := range []struct {
		c  Capability
		ok bool
	}{
		{CapStreamWrite, is[StreamWriter](drv)},
		{CapStreamRead, is[StreamReader](drv)},
		{CapStreamPos, is[StreamPositioner](drv)},
		{CapFill, is[AreaFiller](drv)},
		{CapDrawPixel, is[PixelDrawer](drv)},
		{CapPixelRead, is[PixelReader](drv)},
		{CapControl, is[Controller](drv)},
		{CapFlush, is[Flusher](drv)},
	} {
		if caps.Has(check.c) && !check.ok {
			return fmt.Errorf("%w: %s has no %s", ErrCapability, drv, check.c)
		}
	}
	if caps.Has(CapStreamPos) && !caps.Has(CapStreamWrite) {
		return fmt.Errorf("%w: %s has stream-pos without stream-write", ErrCapability, drv)
	}
	return nil
}

func is[T any](drv Driver) bool {
	_, ok := drv.(T)
	return ok
}
