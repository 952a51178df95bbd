package gfx

import "fmt"

const (
	sh1106DefaultWidth  = 128
	sh1106DefaultHeight = 64
	sh1106Contrast      = 0x7F

	// The SH1106 has 132 columns of RAM, panels use the middle 128.
	sh1106ColumnOffset = 2
)

type sh1106 struct {
	*pageDisplay
}

// SH1106 is a driver for the Sino Wealth SH1106 OLED controller.
func SH1106(c Bus, config *Config) (Driver, error) {
	if config == nil {
		config = new(Config)
	}
	if config.Width == 0 {
		config.Width = sh1106DefaultWidth
	}
	if config.Height == 0 {
		config.Height = sh1106DefaultHeight
	}

	var (
		multiplexRatio byte
		displayOffset  byte
	)
	switch {
	case config.Width == 128 && config.Height == 32:
		multiplexRatio, displayOffset = 0x20, 0x0f
	case config.Width == 128 && config.Height == 64:
		multiplexRatio, displayOffset = 0x3f, 0x00
	case config.Width == 128 && config.Height == 128:
		multiplexRatio, displayOffset = 0xff, 0x02
	default:
		return nil, fmt.Errorf("gfx: SH1106 unsupported size %dx%d: %w", config.Width, config.Height, ErrSize)
	}

	d := &sh1106{
		pageDisplay: newPageDisplay(c, "SH1106", config, config.Width, config.Height),
	}
	d.startPage = d.pageStart

	if err := d.init(config, [][]byte{
		{setDisplayOff},
		{setLowColumn},
		{setHighColumn},
		{setStartLine},
		{setComScanDec},
		{setSegmentRemap},
		{setNormalDisplay},
		{setMultiplexRatio, multiplexRatio},
		{setDisplayAllOnResume},
		{setDisplayOffset, displayOffset},
		{setDisplayClockDiv, 0xF0},
		{setPrecharge, 0x22},
		{setComPins, 0x12},
		{setVComDetect, 0x20},
		{setChargePump, 0x14},
		{setContrast, sh1106Contrast},
		{setDisplayOn},
	}); err != nil {
		return nil, err
	}
	d.state.Contrast = contrastLevel(sh1106Contrast)

	d.dirty = true
	if err := d.Flush(); err != nil {
		return nil, err
	}
	return d, nil
}

// pageStart addresses the page, the SH1106 has no auto increment across pages.
func (d *sh1106) pageStart(page int) error {
	return d.c.Command(setPageStart|byte(page&0x0f), setLowColumn|sh1106ColumnOffset, setHighColumn)
}
