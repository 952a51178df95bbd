package gfx

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/BeatGlow/gfx/draw"
	"github.com/BeatGlow/gfx/pixel"
)

// memDriver is a driver backed by an in-memory image that declares the
// capabilities set in caps.
type memDriver struct {
	caps   Capability
	img    *image.Gray
	calls  map[string]int
	window image.Rectangle
	cursor image.Point
	fail   error
}

func newMemDriver(caps Capability) *memDriver {
	return &memDriver{
		caps:  caps,
		img:   image.NewGray(image.Rect(0, 0, 8, 4)),
		calls: make(map[string]int),
	}
}

func (d *memDriver) String() string           { return "mem" }
func (d *memDriver) Close() error             { d.calls["close"]++; return nil }
func (d *memDriver) Capabilities() Capability { return d.caps }
func (d *memDriver) Bounds() image.Rectangle  { return d.img.Rect }
func (d *memDriver) ColorModel() color.Model  { return color.GrayModel }

func (d *memDriver) PixelColor(x, y int) color.Color {
	d.calls["read"]++
	return d.img.At(x, y)
}

func (d *memDriver) DrawPixel(x, y int, c color.Color) error {
	d.calls["pixel"]++
	d.img.Set(x, y, c)
	return nil
}

func (d *memDriver) StreamStart(r image.Rectangle) error {
	d.calls["start"]++
	d.window, d.cursor = r, r.Min
	return nil
}

func (d *memDriver) StreamColor(c color.Color) error {
	d.calls["color"]++
	if d.fail != nil {
		return d.fail
	}
	d.img.Set(d.cursor.X, d.cursor.Y, c)
	if d.cursor.X++; d.cursor.X == d.window.Max.X {
		d.cursor.X = d.window.Min.X
		d.cursor.Y++
	}
	return nil
}

func (d *memDriver) StreamStop() error {
	d.calls["stop"]++
	return nil
}

func (d *memDriver) StreamPos(x, y int) error {
	d.calls["pos"]++
	d.cursor = image.Pt(x, y)
	return nil
}

func (d *memDriver) ReadStart(r image.Rectangle) error {
	d.calls["readstart"]++
	d.window, d.cursor = r, r.Min
	return nil
}

func (d *memDriver) ReadColor() (color.Color, error) {
	return d.img.At(d.cursor.X, d.cursor.Y), nil
}

func (d *memDriver) ReadStop() error { return nil }

// fillOnly declares CapFill without implementing it.
type fillOnly struct {
	*memDriver
}

func TestNewCapabilityCheck(t *testing.T) {
	if _, err := New(fillOnly{newMemDriver(CapFill)}); !errors.Is(err, ErrCapability) {
		t.Errorf("expected ErrCapability, got %v", err)
	}
	if _, err := New(newMemDriver(CapStreamPos)); !errors.Is(err, ErrCapability) {
		t.Errorf("expected ErrCapability for stream-pos without stream-write, got %v", err)
	}
	if _, err := New(newMemDriver(CapDrawPixel | CapStreamWrite)); err != nil {
		t.Errorf("expected declared capabilities to pass, got %v", err)
	}
}

func TestDisplayStream(t *testing.T) {
	drv := newMemDriver(CapStreamWrite)
	d, err := New(drv)
	if err != nil {
		t.Fatal(err)
	}

	d.Set(1, 2, color.White)
	if drv.calls["start"] != 1 || drv.calls["color"] != 1 || drv.calls["stop"] != 1 {
		t.Errorf("expected a 1x1 stream, got %v", drv.calls)
	}
	if v := drv.img.GrayAt(1, 2).Y; v != 0xff {
		t.Errorf("expected pixel set, got %#02x", v)
	}

	d.Set(100, 100, color.White)
	if drv.calls["start"] != 1 {
		t.Error("expected out of bounds pixel to be ignored")
	}

	d.FillArea(image.Rect(-2, -2, 3, 2), color.White)
	if drv.calls["start"] != 2 || drv.calls["color"] != 1+6 {
		t.Errorf("expected one clipped 3x2 stream, got %v", drv.calls)
	}

	if v := d.At(1, 2); v != color.Transparent {
		t.Errorf("expected transparent without read capability, got %v", v)
	}
	if err = d.Flush(); err != nil {
		t.Errorf("expected flush without capability to succeed, got %v", err)
	}
}

func TestDisplayStreamPos(t *testing.T) {
	drv := newMemDriver(CapStreamWrite | CapStreamPos)
	d, _ := New(drv)

	d.Set(1, 1, color.White)
	d.Set(5, 3, color.White)
	if drv.calls["start"] != 1 || drv.calls["pos"] != 2 || drv.calls["stop"] != 0 {
		t.Errorf("expected one open window with two positioned writes, got %v", drv.calls)
	}
	if err := d.Flush(); err != nil {
		t.Fatal(err)
	}
	if drv.calls["stop"] != 1 {
		t.Errorf("expected flush to close the window, got %v", drv.calls)
	}
	if drv.img.GrayAt(5, 3).Y != 0xff || drv.img.GrayAt(1, 1).Y != 0xff {
		t.Error("expected both pixels set")
	}
}

func TestDisplayPixelFallback(t *testing.T) {
	drv := newMemDriver(CapDrawPixel | CapPixelRead)
	d, _ := New(drv)

	d.FillArea(image.Rect(0, 0, 3, 2), color.White)
	if drv.calls["pixel"] != 6 {
		t.Errorf("expected 6 pixel writes, got %d", drv.calls["pixel"])
	}
	if v := d.At(2, 1); v != (color.Gray{Y: 0xff}) {
		t.Errorf("expected white, got %v", v)
	}
	if v := d.At(-1, 0); v != color.Transparent {
		t.Errorf("expected out of bounds to be transparent, got %v", v)
	}
}

func TestDisplayStreamRead(t *testing.T) {
	drv := newMemDriver(CapStreamRead)
	drv.img.SetGray(3, 3, color.Gray{Y: 0x80})
	d, _ := New(drv)
	if v := d.At(3, 3); v != (color.Gray{Y: 0x80}) {
		t.Errorf("expected streamed read, got %v", v)
	}
	if drv.calls["readstart"] != 1 {
		t.Errorf("expected one read window, got %v", drv.calls)
	}
}

func TestDisplayLatchedError(t *testing.T) {
	drv := newMemDriver(CapStreamWrite)
	d, _ := New(drv)

	drv.fail = errTestBus
	d.Set(0, 0, color.White)
	drv.fail = nil
	if err := d.Flush(); !errors.Is(err, errTestBus) {
		t.Fatalf("expected latched error, got %v", err)
	}
	if err := d.Flush(); err != nil {
		t.Errorf("expected latched error to be cleared, got %v", err)
	}

	drv.fail = errTestBus
	d.Fill(color.White)
	if err := d.Err(); !errors.Is(err, errTestBus) {
		t.Errorf("expected latched error, got %v", err)
	}
	if err := d.Err(); err != nil {
		t.Errorf("expected latched error to be cleared, got %v", err)
	}
}

func TestDisplayPage(t *testing.T) {
	b := new(testBus)
	drv, err := SSD1312(b, nil)
	if err != nil {
		t.Fatal(err)
	}
	d, err := New(drv)
	if err != nil {
		t.Fatal(err)
	}
	b.clear()

	// Any image source can be drawn.
	src := image.NewGray(image.Rect(0, 0, 4, 4))
	src.SetGray(1, 1, color.Gray{Y: 0xff})
	draw.Draw(d, image.Rect(10, 10, 14, 14), src, image.Point{}, draw.Src)
	if v := d.At(11, 11); v != pixel.On {
		t.Errorf("expected (11,11) on, got %v", v)
	}
	if v := d.At(10, 10); v != pixel.Off {
		t.Errorf("expected (10,10) off, got %v", v)
	}
	if len(b.ops) != 0 {
		t.Fatalf("expected drawing to stay in RAM, got %v", b.ops)
	}

	if err = d.Draw(image.Rect(0, 0, 2, 2), image.NewUniform(color.White), image.Point{}); err != nil {
		t.Fatal(err)
	}
	if len(b.ops) != 5 {
		t.Errorf("expected Draw to flush, got %d transactions", len(b.ops))
	}
	if err = d.Draw(image.Rect(200, 200, 210, 210), src, image.Point{}); !errors.Is(err, ErrBounds) {
		t.Errorf("expected ErrBounds, got %v", err)
	}
	if err = d.Draw(image.Rect(20, 0, 24, 4), src, image.Point{}); err != nil {
		t.Fatal(err)
	}
	if v := d.At(21, 1); v != pixel.On {
		t.Errorf("expected (21,1) on, got %v", v)
	}
	if v := d.At(20, 0); v != pixel.Off {
		t.Errorf("expected (20,0) off, got %v", v)
	}

	b.clear()
	if err = d.SetOrientation(Orientation90); err != nil {
		t.Fatal(err)
	}
	if v := d.Bounds(); v != image.Rect(0, 0, 32, 128) {
		t.Errorf("expected rotated bounds, got %s", v)
	}
	_ = d.SetContrast(150)
	_ = d.SetInverse(true)
	_ = d.SetBacklight(20)
	expectOps(t, b, cmd(0x81, 253), cmd(0xA7))
	if v := d.State(); v.Contrast != 100 || v.Backlight != 20 || !v.Inverse {
		t.Errorf("unexpected state %+v", v)
	}

	b.clear()
	if err = d.Halt(); err != nil {
		t.Fatal(err)
	}
	expectOps(t, b, cmd(0xAE))
	if err = d.Close(); err != nil {
		t.Fatal(err)
	}
	if !b.closed {
		t.Error("expected bus to be closed")
	}
}

func TestDisplayStreamDriver(t *testing.T) {
	b := &testReaderBus{testBus: new(testBus)}
	drv, err := ILI9320(b, &Config{Width: 16, Height: 16})
	if err != nil {
		t.Fatal(err)
	}
	d, err := New(drv)
	if err != nil {
		t.Fatal(err)
	}
	b.clear()

	if err = d.Draw(image.Rect(0, 0, 2, 1), image.NewUniform(red), image.Point{}); err != nil {
		t.Fatal(err)
	}
	last := b.ops[len(b.ops)-1]
	if !last.cmd || last.b[0] != ili9320GRAM || len(last.b) != 1+4 {
		t.Errorf("expected one GRAM burst of two pixels, got %s", last)
	}

	b.read = []byte{0, 0, 0x07, 0xe0}
	if v := d.At(4, 4); v != (pixel.CRGB16{V: 0x07e0}) {
		t.Errorf("expected green, got %v", v)
	}
	if v := d.State(); v.Power != PowerOn || v.Width != 16 {
		t.Errorf("unexpected state %+v", v)
	}
}
