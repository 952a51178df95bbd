package gfx

import "fmt"

const (
	ssd1306DefaultWidth  = 128
	ssd1306DefaultHeight = 64
	ssd1306Contrast      = 0xCF
)

type ssd1306 struct {
	*pageDisplay
	colStart byte
	colEnd   byte
}

// SSD1306 is a driver for the Solomon Systech SSD1306 OLED controller.
func SSD1306(c Bus, config *Config) (Driver, error) {
	if config == nil {
		config = new(Config)
	}
	if config.Width == 0 {
		config.Width = ssd1306DefaultWidth
	}
	if config.Height == 0 {
		config.Height = ssd1306DefaultHeight
	}

	var (
		displayClockDiv byte
		comPins         byte
		colStart        byte
	)
	switch {
	case config.Width == 64 && config.Height == 32:
		displayClockDiv, comPins, colStart = 0x80, 0x12, 32
	case config.Width == 64 && config.Height == 48:
		displayClockDiv, comPins, colStart = 0x80, 0x12, 32
	case config.Width == 96 && config.Height == 16:
		displayClockDiv, comPins, colStart = 0x60, 0x02, 0
	case config.Width == 128 && config.Height == 32:
		displayClockDiv, comPins, colStart = 0x80, 0x02, 0
	case config.Width == 128 && config.Height == 64:
		displayClockDiv, comPins, colStart = 0x80, 0x12, 0
	default:
		return nil, fmt.Errorf("gfx: SSD1306 unsupported size %dx%d: %w", config.Width, config.Height, ErrSize)
	}

	d := &ssd1306{
		pageDisplay: newPageDisplay(c, "SSD1306", config, config.Width, config.Height),
		colStart:    colStart,
		colEnd:      colStart + byte(config.Width),
	}
	d.startFlush = d.flushStart

	if err := d.init(config, [][]byte{
		{setDisplayOff},
		{setDisplayClockDiv, displayClockDiv},
		{setMultiplexRatio, byte(config.Height - 1)},
		{setDisplayOffset, 0x00},
		{setStartLine},
		{setChargePump, 0x14},
		{setMemoryMode, 0x00}, // horizontal addressing
		{setSegmentRemap},
		{setComScanDec},
		{setComPins, comPins},
		{setContrast, ssd1306Contrast},
		{setPrecharge, 0xF1},
		{setVComDetect, 0x40},
		{setDisplayAllOnResume},
		{setNormalDisplay},
		{setDisplayOn},
	}); err != nil {
		return nil, err
	}
	d.state.Contrast = contrastLevel(ssd1306Contrast)

	// Clear whatever the display memory held at power up.
	d.dirty = true
	if err := d.Flush(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *ssd1306) flushStart() (err error) {
	if err = d.c.Command(setColumnAddr, d.colStart, d.colEnd-1); err != nil {
		return
	}
	if err = d.c.Command(setPageAddr, 0x00, byte(d.buf.Pages()-1)); err != nil {
		return
	}
	return d.c.Command(setStartLine)
}
