package emulator

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"strings"
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/gfx"
	"github.com/BeatGlow/gfx/internal/log"
	"github.com/BeatGlow/gfx/pixel"
)

func newTestDev(t *testing.T, opts *Opts) (*Dev, *bytes.Buffer) {
	t.Helper()
	out := new(bytes.Buffer)
	opts.Output = out
	d, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}
	return d, out
}

func TestNewInvalidSize(t *testing.T) {
	if _, err := New(&Opts{Width: 0, Height: 32}); !errors.Is(err, gfx.ErrSize) {
		t.Fatalf("expected ErrSize, got %v", err)
	}
}

func TestEmulatorSSD1312(t *testing.T) {
	dev, out := newTestDev(t, &Opts{Width: 128, Height: 32})
	drv, err := gfx.SSD1312(dev, nil)
	if err != nil {
		t.Fatal(err)
	}
	d, err := gfx.New(drv)
	if err != nil {
		t.Fatal(err)
	}

	frames := dev.Frames()
	if frames == 0 {
		t.Fatal("expected the init sequence to render a frame")
	}

	d.Set(3, 9, pixel.On)
	d.FillArea(image.Rect(100, 20, 104, 32), pixel.On)
	if err = d.Flush(); err != nil {
		t.Fatal(err)
	}
	if v := dev.Frames(); v != frames+1 {
		t.Errorf("expected %d frames, got %d", frames+1, v)
	}
	for _, test := range []struct {
		x, y int
		want bool
	}{
		{3, 9, true},
		{3, 8, false},
		{100, 20, true},
		{103, 31, true},
		{104, 31, false},
		{0, 0, false},
	} {
		if v := dev.Pixel(test.x, test.y); v != test.want {
			t.Errorf("pixel (%d,%d): expected %t, got %t", test.x, test.y, test.want, v)
		}
	}
	if v := dev.Image().GrayAt(3, 9); v.Y == 0 {
		t.Error("expected a lit pixel in the panel image")
	}
	if !strings.Contains(out.String(), "\033[0m") {
		t.Error("expected ANSI reset sequences in the output")
	}

	// Clean flush renders nothing.
	if err = d.Flush(); err != nil {
		t.Fatal(err)
	}
	if v := dev.Frames(); v != frames+1 {
		t.Errorf("expected no new frame on a clean flush, got %d frames", v)
	}
}

func TestEmulatorPagePrefix(t *testing.T) {
	dev, _ := newTestDev(t, &Opts{Width: 128, Height: 32, SkipPrefix: true})
	prefix := byte(0x40)
	drv, err := gfx.SSD1312(dev, &gfx.Config{PagePrefix: &prefix})
	if err != nil {
		t.Fatal(err)
	}
	if err = drv.(gfx.PixelDrawer).DrawPixel(0, 0, pixel.On); err != nil {
		t.Fatal(err)
	}
	if err = drv.(gfx.Flusher).Flush(); err != nil {
		t.Fatal(err)
	}
	if !dev.Pixel(0, 0) {
		t.Error("expected pixel (0,0) lit")
	}
	if dev.Pixel(0, 6) {
		t.Error("expected the prefix byte to be skipped")
	}
}

func TestEmulatorSH1106(t *testing.T) {
	dev, _ := newTestDev(t, &Opts{Width: 128, Height: 64, ColumnOffset: 2})
	drv, err := gfx.SH1106(dev, nil)
	if err != nil {
		t.Fatal(err)
	}
	d, err := gfx.New(drv)
	if err != nil {
		t.Fatal(err)
	}
	d.Set(0, 63, pixel.On)
	d.Set(127, 0, pixel.On)
	if err = d.Flush(); err != nil {
		t.Fatal(err)
	}
	if !dev.Pixel(0, 63) || !dev.Pixel(127, 0) {
		t.Error("expected the corner pixels lit")
	}
	if dev.Pixel(1, 63) {
		t.Error("expected pixel (1,63) off")
	}
}

func TestEmulatorAddressing(t *testing.T) {
	dev, _ := newTestDev(t, &Opts{Width: 8, Height: 16})
	dev.Acquire()
	// Window of 2 columns on page 1, wrapping back on itself.
	if err := dev.Command(0x21, 2, 3, 0x22, 1, 1); err != nil {
		t.Fatal(err)
	}
	if err := dev.Data(0x01, 0x02, 0x04); err != nil {
		t.Fatal(err)
	}
	// Nibble addressing.
	if err := dev.Command(0xB0, 0x05, 0x10); err != nil {
		t.Fatal(err)
	}
	if err := dev.Data(0x80); err != nil {
		t.Fatal(err)
	}
	dev.Release()

	for _, test := range []struct {
		x, y int
		want bool
	}{
		{2, 8, false}, // overwritten by the wrap
		{2, 10, true},
		{3, 9, true},
		{5, 7, true},
		{4, 7, false},
	} {
		if v := dev.Pixel(test.x, test.y); v != test.want {
			t.Errorf("pixel (%d,%d): expected %t, got %t", test.x, test.y, test.want, v)
		}
	}
	if dev.Pixel(-1, 0) || dev.Pixel(0, 16) {
		t.Error("expected out of bounds pixels off")
	}
}

func TestEmulatorCommandArguments(t *testing.T) {
	dev, _ := newTestDev(t, &Opts{Width: 8, Height: 8})
	if err := dev.Command(0x81); err == nil {
		t.Error("expected an error for a missing contrast argument")
	}
	if err := dev.Command(0xE3); err != nil {
		t.Errorf("expected unknown commands to be ignored, got %v", err)
	}
}

func TestEmulatorImage(t *testing.T) {
	dev, _ := newTestDev(t, &Opts{Width: 8, Height: 8, On: color.RGBA{G: 0xff, A: 0xff}})
	dev.Acquire()
	_ = dev.Data(0x01)
	dev.Release()

	if v := dev.Image().GrayAt(0, 0); v.Y != 0 {
		t.Errorf("expected a dark panel while the display is off, got %d", v.Y)
	}

	dev.Acquire()
	_ = dev.Command(0xAF, 0x81, 0xFF)
	dev.Release()
	lit := dev.Image().GrayAt(0, 0)
	if lit.Y == 0 {
		t.Fatal("expected pixel (0,0) lit")
	}
	if v := dev.Image().GrayAt(1, 0); v.Y != 0 {
		t.Errorf("expected pixel (1,0) dark, got %d", v.Y)
	}

	dev.Acquire()
	_ = dev.Command(0x81, 0x00)
	dev.Release()
	if v := dev.Image().GrayAt(0, 0); v.Y == 0 || v.Y >= lit.Y {
		t.Errorf("expected a dimmed pixel, got %d (full contrast %d)", v.Y, lit.Y)
	}

	dev.Acquire()
	_ = dev.Command(0xA7)
	dev.Release()
	img := dev.Image()
	if img.GrayAt(0, 0).Y != 0 || img.GrayAt(1, 0).Y == 0 {
		t.Error("expected inverted pixels")
	}

	if err := dev.Reset(gpio.Low); err != nil {
		t.Fatal(err)
	}
	if v := dev.Image().GrayAt(1, 0); v.Y != 0 {
		t.Error("expected the display off after reset")
	}
}

func TestEmulatorRender(t *testing.T) {
	dev, out := newTestDev(t, &Opts{Width: 4, Height: 8})

	dev.Acquire()
	_ = dev.Data(0x01)
	dev.Release()
	if v := strings.Count(out.String(), "\033[0m\n"); v != 8 {
		t.Errorf("expected 8 rows after the first frame, got %d", v)
	}
	if strings.Contains(out.String(), "\033[8A") {
		t.Error("expected no cursor movement before the first frame")
	}

	size := out.Len()
	dev.Acquire()
	dev.Release()
	if v := out.Len(); v != size {
		t.Errorf("expected no output for a clean release, got %d bytes", v-size)
	}

	dev.Acquire()
	_ = dev.Data(0x02)
	dev.Release()
	if v := dev.Frames(); v != 2 {
		t.Errorf("expected 2 frames, got %d", v)
	}
	if v := strings.Count(out.String(), "\033[8A"); v != 1 {
		t.Errorf("expected the second frame to move the cursor up once, got %d", v)
	}
	if v := strings.Count(out.String(), "\033[0m\n"); v != 16 {
		t.Errorf("expected 16 rows after two frames, got %d", v)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("terminal gone")
}

func TestEmulatorRenderError(t *testing.T) {
	logs := new(bytes.Buffer)
	log.SetOutput(logs)
	defer log.SetOutput(os.Stderr)

	dev, err := New(&Opts{Width: 4, Height: 8, Output: failingWriter{}})
	if err != nil {
		t.Fatal(err)
	}
	dev.Acquire()
	_ = dev.Data(0xff)
	dev.Release()
	if v := logs.String(); !strings.Contains(v, "render failed") || !strings.Contains(v, "terminal gone") {
		t.Errorf("expected the render error to be logged, got %q", v)
	}
}

func TestEmulatorResetLocks(t *testing.T) {
	dev, _ := newTestDev(t, &Opts{Width: 4, Height: 8})
	dev.Acquire()

	done := make(chan struct{})
	go func() {
		_ = dev.Reset(gpio.Low)
		close(done)
	}()
	select {
	case <-done:
		t.Fatal("expected Reset to wait for the bus to be released")
	case <-time.After(20 * time.Millisecond):
	}

	dev.Release()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected Reset to finish after release")
	}
}
