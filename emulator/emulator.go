// Package emulator implements a page memory OLED controller that renders to
// the terminal using ANSI colors.
//
// Dev is a gfx.Bus, so any page controller driver can run against it while
// the real panel is still in the mail. It decodes the SSD1xxx/SH1xxx command
// set that governs display memory addressing and ignores the rest.
package emulator

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/gfx"
	"github.com/BeatGlow/gfx/internal/log"
)

// Opts represents the options available for the emulator.
type Opts struct {
	// Width and Height of the panel in pixels.
	Width, Height int

	// ColumnOffset is the RAM column shown in the first panel column.
	ColumnOffset int

	// SkipPrefix drops the first byte of every data burst, for drivers that
	// send a page prefix.
	SkipPrefix bool

	// On is the color of a lit pixel, white when nil.
	On color.Color

	// Palette used for rendering, ansi256.Default when nil.
	Palette *ansi256.Palette

	// Output receives the rendered frames, stdout when nil.
	Output io.Writer
}

// Dev is an emulated page memory controller.
type Dev struct {
	mu      sync.Mutex
	w       io.Writer
	palette ansi256.Palette
	on      color.Color

	width, height int
	pages         int
	offset        int
	skipPrefix    bool
	ram           []byte

	// Addressing.
	page, col          int
	pageStart, pageEnd int
	colStart, colEnd   int

	display  bool
	inverse  bool
	contrast byte
	dirty    bool
	frames   int
	buf      bytes.Buffer
}

// argCount is the number of argument bytes taken by multi byte commands.
var argCount = map[byte]int{
	0x20: 1, // memory mode
	0x21: 2, // column address
	0x22: 2, // page address
	0x81: 1, // contrast
	0x8D: 1, // charge pump
	0xA8: 1, // multiplex ratio
	0xAD: 1, // current reference
	0xD3: 1, // display offset
	0xD5: 1, // clock divider
	0xD9: 1, // precharge
	0xDA: 1, // COM pins
	0xDB: 1, // VCOM detect
}

// New returns an emulated controller for a panel of opts.Width by
// opts.Height pixels.
func New(opts *Opts) (*Dev, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("emulator: invalid size %dx%d: %w", opts.Width, opts.Height, gfx.ErrSize)
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.Output
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	on := opts.On
	if on == nil {
		on = color.White
	}
	pages := (opts.Height + 7) >> 3
	d := &Dev{
		w:          w,
		palette:    *p,
		on:         on,
		width:      opts.Width,
		height:     opts.Height,
		pages:      pages,
		offset:     opts.ColumnOffset,
		skipPrefix: opts.SkipPrefix,
		ram:        make([]byte, pages*opts.Width),
	}
	d.reset()
	return d, nil
}

func (d *Dev) reset() {
	d.pageStart, d.pageEnd = 0, d.pages-1
	d.colStart, d.colEnd = d.offset, d.offset+d.width-1
	d.page, d.col = d.pageStart, d.colStart
	d.display = false
	d.inverse = false
	d.contrast = 0x7F
}

func (d *Dev) String() string {
	return fmt.Sprintf("Emulator %dx%d", d.width, d.height)
}

// Close writes the terminal reset sequence.
func (d *Dev) Close() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

func (d *Dev) Acquire() {
	d.mu.Lock()
}

// Release renders the frame if the display memory or state changed.
func (d *Dev) Release() {
	defer d.mu.Unlock()
	if d.dirty {
		d.dirty = false
		if err := d.render(); err != nil {
			log.Error("emulator: render failed", err, "frame", d.frames)
		}
	}
}

// Reset returns the controller state to its power on defaults while the
// reset pin is low. Display memory is kept.
func (d *Dev) Reset(level gpio.Level) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if level == gpio.Low {
		d.reset()
	}
	return nil
}

// Command decodes a command stream.
func (d *Dev) Command(cmnd byte, args ...byte) error {
	stream := append([]byte{cmnd}, args...)
	for len(stream) > 0 {
		c := stream[0]
		n := argCount[c]
		if len(stream) < 1+n {
			return fmt.Errorf("emulator: command %#02x needs %d arguments, got %d", c, n, len(stream)-1)
		}
		d.command(c, stream[1:1+n])
		stream = stream[1+n:]
	}
	return nil
}

func (d *Dev) command(c byte, args []byte) {
	switch {
	case c <= 0x0F:
		d.col = d.col&0xF0 | int(c&0x0F)
	case c <= 0x1F:
		d.col = int(c&0x0F)<<4 | d.col&0x0F
	case c == 0x21:
		d.colStart, d.colEnd = int(args[0]), int(args[1])
		d.col = d.colStart
	case c == 0x22:
		d.pageStart, d.pageEnd = int(args[0]), int(args[1])
		d.page = d.pageStart
	case c >= 0x40 && c <= 0x7F:
		d.page, d.col = d.pageStart, d.colStart
	case c == 0x81:
		d.contrast = args[0]
		d.dirty = true
	case c == 0xA6, c == 0xA7:
		d.inverse = c == 0xA7
		d.dirty = true
	case c == 0xAE, c == 0xAF:
		d.display = c == 0xAF
		d.dirty = true
	case c >= 0xB0 && c <= 0xBF:
		d.page = int(c & 0x0F)
	}
}

// Data writes display memory at the current address, wrapping to the next
// page at the end of the column range.
func (d *Dev) Data(data ...byte) error {
	if d.skipPrefix && len(data) > 0 {
		data = data[1:]
	}
	for _, b := range data {
		if x := d.col - d.offset; x >= 0 && x < d.width && d.page < d.pages {
			d.ram[d.page*d.width+x] = b
		}
		if d.col++; d.col > d.colEnd {
			d.col = d.colStart
			if d.page++; d.page > d.pageEnd {
				d.page = d.pageStart
			}
		}
	}
	d.dirty = true
	return nil
}

// Pixel reports if display memory has pixel (x, y) lit.
func (d *Dev) Pixel(x, y int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if x < 0 || y < 0 || x >= d.width || y >= d.height {
		return false
	}
	return d.ram[(y>>3)*d.width+x]&(1<<uint(y&7)) != 0
}

// Frames is the number of rendered frames.
func (d *Dev) Frames() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frames
}

// Image returns what the panel shows, taking display on/off, inversion and
// contrast into account.
func (d *Dev) Image() *image.Gray {
	d.mu.Lock()
	defer d.mu.Unlock()
	img := image.NewGray(image.Rect(0, 0, d.width, d.height))
	for y := 0; y < d.height; y++ {
		for x := 0; x < d.width; x++ {
			img.SetGray(x, y, color.GrayModel.Convert(d.at(x, y)).(color.Gray))
		}
	}
	return img
}

func (d *Dev) at(x, y int) color.NRGBA {
	if !d.display {
		return black
	}
	lit := d.ram[(y>>3)*d.width+x]&(1<<uint(y&7)) != 0
	if lit == d.inverse {
		return black
	}
	return d.dim(d.on)
}

// dim scales c by the contrast level, with a floor so a lit pixel stays
// visible.
func (d *Dev) dim(c color.Color) color.NRGBA {
	r, g, b, _ := c.RGBA()
	scale := 64 + uint32(d.contrast)*3/4
	return color.NRGBA{
		R: uint8((r >> 8) * scale >> 8),
		G: uint8((g >> 8) * scale >> 8),
		B: uint8((b >> 8) * scale >> 8),
		A: 0xff,
	}
}

func (d *Dev) render() error {
	// This code is designed to minimize the amount of memory allocated per call.
	d.buf.Reset()
	if d.frames > 0 {
		fmt.Fprintf(&d.buf, "\033[%dA", d.height)
	}
	_, _ = d.buf.WriteString("\r\033[0m")
	for y := 0; y < d.height; y++ {
		for x := 0; x < d.width; x++ {
			_, _ = io.WriteString(&d.buf, d.palette.Block(d.at(x, y)))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	d.frames++
	_, err := d.buf.WriteTo(d.w)
	return err
}

var black = color.NRGBA{A: 0xff}

var _ gfx.Bus = (*Dev)(nil)
