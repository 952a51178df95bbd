package gfx

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"github.com/BeatGlow/gfx/internal/log"
	"github.com/BeatGlow/gfx/pixel"
)

const (
	ili9320DefaultWidth  = 240
	ili9320DefaultHeight = 320

	// streamBatch is the number of bytes buffered before a GRAM burst.
	streamBatch = 512

	ili9320BacklightRate = 2 * physic.KiloHertz
)

// Registers (from the ILI9320 datasheet).
const (
	ili9320DriverOutput   = 0x01
	ili9320EntryMode      = 0x03
	ili9320DisplayControl = 0x07
	ili9320PowerControl1  = 0x10
	ili9320PowerControl2  = 0x11
	ili9320PowerControl3  = 0x12
	ili9320PowerControl4  = 0x13
	ili9320GRAMX          = 0x20
	ili9320GRAMY          = 0x21
	ili9320GRAM           = 0x22
	ili9320WindowXStart   = 0x50
	ili9320WindowXEnd     = 0x51
	ili9320WindowYStart   = 0x52
	ili9320WindowYEnd     = 0x53
	ili9320GateScan       = 0x60
	ili9320BaseImage      = 0x61
)

// Entry mode values, the address counter follows the logical raster for each
// orientation.
const (
	ili9320EntryMode0   = 0x1030 // x+, y+, horizontal
	ili9320EntryMode90  = 0x1018 // x+, y-, vertical
	ili9320EntryMode180 = 0x1000 // x-, y-, horizontal
	ili9320EntryMode270 = 0x1028 // x-, y+, vertical
)

const (
	ili9320DisplayOn   = 0x0173
	ili9320DisplayOff  = 0x0000
	ili9320PowerOn     = 0x17B0
	ili9320PowerSleep  = 0x17B2 // SLP
	ili9320PowerDeep   = 0x17B4 // DSTB
	ili9320PowerOff    = 0x0000
	ili9320BaseNormal  = 0x0001 // REV, normally white panel
	ili9320BaseInverse = 0x0000
)

type ili9320Register struct {
	reg   byte
	value uint16
	delay time.Duration
}

var ili9320Init = []ili9320Register{
	{0xE5, 0x8000, 0},
	{0x00, 0x0001, 0},
	{ili9320DriverOutput, 0x0100, 0},
	{0x02, 0x0700, 0},
	{ili9320EntryMode, ili9320EntryMode0, 0},
	{0x04, 0x0000, 0},
	{0x08, 0x0202, 0},
	{0x09, 0x0000, 0},
	{0x0A, 0x0000, 0},
	{0x0C, 0x0000, 0},
	{0x0D, 0x0000, 0},
	{0x0F, 0x0000, 0},
	{ili9320PowerControl1, 0x0000, 0},
	{ili9320PowerControl2, 0x0007, 0},
	{ili9320PowerControl3, 0x0000, 0},
	{ili9320PowerControl4, 0x0000, 200 * time.Millisecond},
	{ili9320PowerControl1, ili9320PowerOn, 0},
	{ili9320PowerControl2, 0x0137, 50 * time.Millisecond},
	{ili9320PowerControl3, 0x0139, 50 * time.Millisecond},
	{ili9320PowerControl4, 0x1D00, 0},
	{0x29, 0x0013, 50 * time.Millisecond},
	{ili9320GRAMX, 0x0000, 0},
	{ili9320GRAMY, 0x0000, 0},
	{0x30, 0x0007, 0},
	{0x31, 0x0007, 0},
	{0x32, 0x0007, 0},
	{0x35, 0x0007, 0},
	{0x36, 0x0007, 0},
	{0x37, 0x0700, 0},
	{0x38, 0x0700, 0},
	{0x39, 0x0700, 0},
	{0x3C, 0x0700, 0},
	{0x3D, 0x1F00, 0},
	{ili9320GateScan, 0x2700, 0},
	{ili9320BaseImage, ili9320BaseNormal, 0},
	{0x6A, 0x0000, 0},
	{0x90, 0x0010, 0},
	{0x92, 0x0000, 0},
	{0x93, 0x0000, 0},
	{ili9320DisplayControl, ili9320DisplayOn, 0},
}

type ili9320 struct {
	c         Bus
	reader    BusReader
	width     int // physical
	height    int // physical
	state     State
	backlight gpio.PinOut

	// Open stream window, logical.
	window image.Rectangle
	buf    []byte
}

// ILI9320 is a driver for the Ilitek ILI9320 RGB565 TFT controller.
//
// The controller has its own display memory, pixels are streamed into a
// window. Stream reads are available when the bus implements BusReader.
func ILI9320(c Bus, config *Config) (Driver, error) {
	if config == nil {
		config = new(Config)
	}
	if config.Width == 0 {
		config.Width = ili9320DefaultWidth
	}
	if config.Height == 0 {
		config.Height = ili9320DefaultHeight
	}
	if config.Width <= 0 || config.Height <= 0 || config.Width > ili9320DefaultWidth || config.Height > ili9320DefaultHeight {
		return nil, fmt.Errorf("gfx: ILI9320 unsupported size %dx%d, maximum size is %dx%d: %w",
			config.Width, config.Height, ili9320DefaultWidth, ili9320DefaultHeight, ErrSize)
	}

	d := &ili9320{
		c:         c,
		width:     config.Width,
		height:    config.Height,
		backlight: config.Backlight,
		buf:       make([]byte, 0, streamBatch),
		state: State{
			Width:     config.Width,
			Height:    config.Height,
			Power:     PowerOff,
			Contrast:  100,
			Backlight: 100,
		},
	}
	d.reader, _ = c.(BusReader)

	if err := d.init(config); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *ili9320) init(config *Config) (err error) {
	if config.InitBoard != nil {
		if err = config.InitBoard(d.c); err != nil {
			return fmt.Errorf("gfx: ILI9320 board init: %w", err)
		}
	} else {
		log.Debug("gfx: no board init hook", "driver", "ILI9320")
	}

	if err = d.c.Reset(gpio.Low); err != nil {
		return
	}
	sleep(1 * time.Millisecond)
	if err = d.c.Reset(gpio.High); err != nil {
		return
	}
	sleep(10 * time.Millisecond)

	if err = d.writeRegisters(ili9320Init); err != nil {
		return
	}

	if config.PostInitBoard != nil {
		if err = config.PostInitBoard(d.c); err != nil {
			return fmt.Errorf("gfx: ILI9320 board post init: %w", err)
		}
	}

	d.state.Power = PowerOn
	if d.backlight != nil {
		if err = d.setBacklight(d.state.Backlight); err != nil {
			return
		}
	} else {
		log.Info("gfx: ILI9320 has no backlight control")
	}

	d.setOrientation(config.Orientation)
	return nil
}

func (d *ili9320) String() string {
	return fmt.Sprintf("ILI9320 TFT %dx%d", d.width, d.height)
}

func (d *ili9320) Capabilities() Capability {
	caps := CapStreamWrite | CapStreamPos | CapControl
	if d.reader != nil {
		caps |= CapStreamRead
	}
	return caps
}

func (d *ili9320) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.state.Width, d.state.Height)
}

func (d *ili9320) ColorModel() color.Model {
	return pixel.CRGB16Model
}

func (d *ili9320) Close() error {
	if err := d.setPower(PowerOff); err != nil {
		_ = d.c.Close()
		return err
	}
	return d.c.Close()
}

// writeRegister sends the register index followed by the big endian value.
func (d *ili9320) writeRegister(reg byte, value uint16) error {
	return d.c.Command(reg, byte(value>>8), byte(value))
}

func (d *ili9320) writeRegisters(regs []ili9320Register) (err error) {
	d.c.Acquire()
	defer d.c.Release()
	for _, r := range regs {
		if err = d.writeRegister(r.reg, r.value); err != nil {
			return
		}
		if r.delay > 0 {
			sleep(r.delay)
		}
	}
	return
}

func (d *ili9320) entryMode() uint16 {
	switch d.state.Orientation {
	case Orientation90:
		return ili9320EntryMode90
	case Orientation180:
		return ili9320EntryMode180
	case Orientation270:
		return ili9320EntryMode270
	default:
		return ili9320EntryMode0
	}
}

// setWindow programs the physical window and entry mode for logical r and
// moves the cursor to its first pixel.
func (d *ili9320) setWindow(r image.Rectangle) error {
	var (
		p      = d.state.Orientation.MapRect(r, d.width, d.height)
		x, y   = d.state.Orientation.Map(r.Min.X, r.Min.Y, d.width, d.height)
		window = []ili9320Register{
			{ili9320EntryMode, d.entryMode(), 0},
			{ili9320WindowXStart, uint16(p.Min.X), 0},
			{ili9320WindowXEnd, uint16(p.Max.X - 1), 0},
			{ili9320WindowYStart, uint16(p.Min.Y), 0},
			{ili9320WindowYEnd, uint16(p.Max.Y - 1), 0},
			{ili9320GRAMX, uint16(x), 0},
			{ili9320GRAMY, uint16(y), 0},
		}
	)
	return d.writeRegisters(window)
}

func (d *ili9320) StreamStart(r image.Rectangle) error {
	if r.Empty() || !r.In(d.Bounds()) {
		return fmt.Errorf("%w: stream window %s", ErrBounds, r)
	}
	d.window = r
	d.buf = d.buf[:0]
	return d.setWindow(r)
}

func (d *ili9320) StreamColor(c color.Color) error {
	hi, lo := pixel.CRGB16Model.Convert(c).(pixel.CRGB16).Bytes()
	d.buf = append(d.buf, hi, lo)
	if len(d.buf) >= streamBatch {
		return d.flushStream()
	}
	return nil
}

func (d *ili9320) StreamPos(x, y int) error {
	if !(image.Point{X: x, Y: y}).In(d.window) {
		return fmt.Errorf("%w: stream position (%d,%d) outside %s", ErrBounds, x, y, d.window)
	}
	if err := d.flushStream(); err != nil {
		return err
	}
	x, y = d.state.Orientation.Map(x, y, d.width, d.height)
	return d.writeRegisters([]ili9320Register{
		{ili9320GRAMX, uint16(x), 0},
		{ili9320GRAMY, uint16(y), 0},
	})
}

func (d *ili9320) StreamStop() error {
	err := d.flushStream()
	d.window = image.Rectangle{}
	return err
}

// flushStream sends the buffered colors as one GRAM burst. The address
// counter keeps its position between bursts.
func (d *ili9320) flushStream() error {
	if len(d.buf) == 0 {
		return nil
	}
	d.c.Acquire()
	defer d.c.Release()
	err := d.c.Command(ili9320GRAM, d.buf...)
	d.buf = d.buf[:0]
	return err
}

func (d *ili9320) ReadStart(r image.Rectangle) (err error) {
	if d.reader == nil {
		return fmt.Errorf("gfx: %s bus %s can't read", d, d.c)
	}
	if r.Empty() || !r.In(d.Bounds()) {
		return fmt.Errorf("%w: read window %s", ErrBounds, r)
	}
	if err = d.setWindow(r); err != nil {
		return
	}
	d.window = r

	d.c.Acquire()
	defer d.c.Release()
	if err = d.c.Command(ili9320GRAM); err != nil {
		return
	}
	// The first read after setting the index is a dummy.
	var dummy [2]byte
	return d.reader.ReadData(dummy[:])
}

func (d *ili9320) ReadColor() (color.Color, error) {
	d.c.Acquire()
	defer d.c.Release()
	var b [2]byte
	if err := d.reader.ReadData(b[:]); err != nil {
		return nil, err
	}
	return pixel.CRGB16{V: uint16(b[0])<<8 | uint16(b[1])}, nil
}

func (d *ili9320) ReadStop() error {
	d.window = image.Rectangle{}
	return nil
}

func (d *ili9320) State() State {
	return d.state
}

func (d *ili9320) Control(op ControlOp, value int) error {
	switch op {
	case ControlPower:
		return d.setPower(PowerMode(value))
	case ControlOrientation:
		d.setOrientation(Orientation(value))
		return nil
	case ControlBacklight:
		return d.setBacklight(value)
	case ControlContrast:
		d.state.Contrast = clampPercent(value)
		return nil
	case ControlInverse:
		base := uint16(ili9320BaseNormal)
		if value != 0 {
			base = ili9320BaseInverse
		}
		if err := d.writeRegisters([]ili9320Register{{ili9320BaseImage, base, 0}}); err != nil {
			return err
		}
		d.state.Inverse = value != 0
		return nil
	default:
		return nil
	}
}

func (d *ili9320) setPower(mode PowerMode) (err error) {
	if mode == d.state.Power {
		return nil
	}
	var regs []ili9320Register
	switch mode {
	case PowerOff:
		regs = []ili9320Register{
			{ili9320DisplayControl, ili9320DisplayOff, 0},
			{ili9320PowerControl1, ili9320PowerOff, 0},
		}
	case PowerSleep:
		regs = []ili9320Register{
			{ili9320DisplayControl, ili9320DisplayOff, 0},
			{ili9320PowerControl1, ili9320PowerSleep, 0},
		}
	case PowerDeepSleep:
		regs = []ili9320Register{
			{ili9320DisplayControl, ili9320DisplayOff, 0},
			{ili9320PowerControl1, ili9320PowerDeep, 0},
		}
	case PowerOn:
		regs = []ili9320Register{
			{ili9320PowerControl1, ili9320PowerOn, 50 * time.Millisecond},
			{ili9320DisplayControl, ili9320DisplayOn, 0},
		}
	default:
		return nil
	}
	if err = d.writeRegisters(regs); err != nil {
		return
	}

	// The backlight follows the panel.
	if d.backlight != nil {
		duty := gpio.Duty(0)
		if mode == PowerOn {
			duty = backlightDuty(d.state.Backlight)
		}
		if err = d.backlight.PWM(duty, ili9320BacklightRate); err != nil {
			return
		}
	}
	d.state.Power = mode
	return nil
}

func (d *ili9320) setOrientation(o Orientation) {
	if o == d.state.Orientation || !o.Valid() {
		return
	}
	d.state.Width, d.state.Height = o.Size(d.width, d.height)
	d.state.Orientation = o
}

func (d *ili9320) setBacklight(level int) error {
	level = clampPercent(level)
	if d.backlight != nil && d.state.Power == PowerOn {
		duty := backlightDuty(level)
		log.Debug("gfx: backlight", "driver", "ILI9320", "duty", duty, "rate", ili9320BacklightRate)
		if err := d.backlight.PWM(duty, ili9320BacklightRate); err != nil {
			return err
		}
	}
	d.state.Backlight = level
	return nil
}

func backlightDuty(level int) gpio.Duty {
	return gpio.DutyMax * gpio.Duty(level) / 100
}
